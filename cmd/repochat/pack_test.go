package main

import (
	"errors"
	"testing"

	"github.com/4thel00z/repochat/internal"
)

func TestPackCmdUnsupportedSource(t *testing.T) {
	cfg := writeTestConfig(t)

	_, err := runCommand(t, "pack", "https://gitlab.com/a/b", "--config", cfg)
	if !errors.Is(err, internal.ErrUnsupportedSource) {
		t.Errorf("expected ErrUnsupportedSource, got %v", err)
	}
}

func TestPackCmdRequiresURL(t *testing.T) {
	cfg := writeTestConfig(t)

	_, err := runCommand(t, "pack", "--config", cfg)
	if err == nil {
		t.Error("expected error without a repo URL")
	}
}
