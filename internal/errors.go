package internal

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("cache entry not found")
	ErrInvalidKey        = errors.New("invalid cache key")
	ErrUnsupportedSource = errors.New("unsupported source location")
	ErrMissingMessage    = errors.New("message is required")
	ErrMissingRepoURL    = errors.New("repo_url is required")
	ErrUnknownTool       = errors.New("unknown tool")
	ErrNoProvider        = errors.New("model provider not configured")
)

// FetchError is fatal for a pipeline run; the workspace is cleaned up
// before it propagates.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// PackError covers both a non-zero packer exit and a missing output
// file. Stderr is captured so failures are diagnosable from logs.
type PackError struct {
	Stderr string
	Err    error
}

func (e *PackError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("pack repository: %v: %s", e.Err, e.Stderr)
	}
	return fmt.Sprintf("pack repository: %v", e.Err)
}

func (e *PackError) Unwrap() error { return e.Err }
