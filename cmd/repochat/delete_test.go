package main

import (
	"strings"
	"testing"
)

func TestDeleteCmd(t *testing.T) {
	cfg := writeTestConfig(t)
	key := seedCacheEntry(t, cfg)

	out, err := runCommand(t, "delete", key, "--config", cfg)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "deleted") {
		t.Errorf("expected deletion notice, got %q", out)
	}

	_, err = runCommand(t, "status", key, "--config", cfg)
	if err == nil {
		t.Error("expected status to fail after delete")
	}
}

func TestDeleteCmdAbsentEntry(t *testing.T) {
	cfg := writeTestConfig(t)
	key := seedCacheEntry(t, cfg)

	if _, err := runCommand(t, "delete", key, "--config", cfg); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if _, err := runCommand(t, "delete", key, "--config", cfg); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestDeleteCmdInvalidKey(t *testing.T) {
	cfg := writeTestConfig(t)

	_, err := runCommand(t, "delete", "nope", "--config", cfg)
	if err == nil {
		t.Error("expected error for malformed cache key")
	}
}
