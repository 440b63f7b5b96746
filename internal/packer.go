package internal

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

const packOutputName = ".repochat-pack.txt"

// Packer flattens a checkout into a single textual context blob.
type Packer interface {
	Pack(ctx context.Context, dir string) ([]byte, error)
}

// RepomixPacker shells out to the repomix CLI. The output file is
// written inside the workspace, so it is cleaned up with everything
// else.
type RepomixPacker struct {
	binary string
	args   []string
}

func NewRepomixPacker(binary string, args []string) *RepomixPacker {
	if binary == "" {
		binary = "repomix"
	}
	return &RepomixPacker{binary: binary, args: args}
}

func (p *RepomixPacker) Pack(ctx context.Context, dir string) ([]byte, error) {
	outPath := filepath.Join(dir, packOutputName)

	args := []string{"--output", outPath, "--style", "plain"}
	args = append(args, p.args...)

	cmd := exec.CommandContext(ctx, p.binary, args...)
	cmd.Dir = dir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, &PackError{Stderr: stderr.String(), Err: err}
	}

	content, err := os.ReadFile(outPath)
	if os.IsNotExist(err) {
		return nil, &PackError{Stderr: stderr.String(), Err: fmt.Errorf("packer produced no output file")}
	}
	if err != nil {
		return nil, fmt.Errorf("read packer output: %w", err)
	}

	return content, nil
}
