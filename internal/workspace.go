package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Workspace is an ephemeral directory owning one repository checkout.
// It is exclusively owned by a single pipeline invocation and must be
// destroyed at pipeline end regardless of outcome.
type Workspace struct {
	Path   string
	logger *log.Logger
}

// NewWorkspace creates a uniquely named directory under tempDir.
// Timestamp plus a uuid fragment keeps concurrent invocations for the
// same repository from colliding.
func NewWorkspace(tempDir string, loc SourceLocation, logger *log.Logger) (*Workspace, error) {
	name := fmt.Sprintf("%s-%d-%s", loc.Repo, time.Now().UnixNano(), uuid.NewString()[:8])
	path := filepath.Join(tempDir, name)

	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}

	return &Workspace{Path: path, logger: logger}, nil
}

// Cleanup removes the workspace. Failures are logged, never surfaced:
// a leftover temp directory must not fail an otherwise-successful run.
func (w *Workspace) Cleanup() {
	if err := os.RemoveAll(w.Path); err != nil {
		w.logger.Warn("workspace cleanup failed", "path", w.Path, "err", err)
	}
}
