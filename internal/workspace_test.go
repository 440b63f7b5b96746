package internal

import (
	"io"
	"os"
	"testing"

	"github.com/charmbracelet/log"
)

func TestWorkspaceUniqueNames(t *testing.T) {
	tempDir := t.TempDir()
	loc := SourceLocation{Owner: "octocat", Repo: "hello-world"}
	logger := log.New(io.Discard)

	a, err := NewWorkspace(tempDir, loc, logger)
	if err != nil {
		t.Fatalf("workspace a: %v", err)
	}
	b, err := NewWorkspace(tempDir, loc, logger)
	if err != nil {
		t.Fatalf("workspace b: %v", err)
	}

	if a.Path == b.Path {
		t.Errorf("concurrent workspaces share a path: %s", a.Path)
	}

	for _, ws := range []*Workspace{a, b} {
		if _, err := os.Stat(ws.Path); err != nil {
			t.Errorf("workspace %s not created: %v", ws.Path, err)
		}
	}
}

func TestWorkspaceCleanup(t *testing.T) {
	ws, err := NewWorkspace(t.TempDir(), SourceLocation{Owner: "a", Repo: "b"}, log.New(io.Discard))
	if err != nil {
		t.Fatalf("workspace: %v", err)
	}

	if err := os.WriteFile(ws.Path+"/file.txt", []byte("x"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	ws.Cleanup()

	if _, err := os.Stat(ws.Path); !os.IsNotExist(err) {
		t.Errorf("workspace still exists after cleanup")
	}

	// Cleaning an already-removed workspace is harmless.
	ws.Cleanup()
}
