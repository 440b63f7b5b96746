package internal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"
)

type PackInput struct {
	RepoURL      string
	ForceRefresh bool
}

type PackOutput struct {
	CacheKey       string    `json:"cache_key"`
	FromCache      bool      `json:"from_cache"`
	SourceLocation string    `json:"source_location"`
	Revision       string    `json:"revision"`
	Size           int64     `json:"size"`
	CachedAt       time.Time `json:"cached_at"`
}

// PackService is the ingestion pipeline: resolve, check the cache,
// fetch, re-check under the authoritative revision, pack, persist.
// Concurrent calls for the same location share one run.
type PackService struct {
	cache    *ContentCache
	resolver RevisionResolver
	fetcher  Fetcher
	packer   Packer
	tempDir  string
	logger   *log.Logger
	group    singleflight.Group
}

func NewPackService(
	cache *ContentCache,
	resolver RevisionResolver,
	fetcher Fetcher,
	packer Packer,
	tempDir string,
	logger *log.Logger,
) *PackService {
	return &PackService{
		cache:    cache,
		resolver: resolver,
		fetcher:  fetcher,
		packer:   packer,
		tempDir:  tempDir,
		logger:   logger,
	}
}

func (s *PackService) Process(ctx context.Context, input PackInput) (*PackOutput, error) {
	if input.RepoURL == "" {
		return nil, ErrMissingRepoURL
	}

	loc, err := ParseSourceLocation(input.RepoURL)
	if err != nil {
		return nil, err
	}

	v, err, _ := s.group.Do(loc.String(), func() (any, error) {
		return s.process(ctx, loc, input.ForceRefresh)
	})
	if err != nil {
		return nil, err
	}

	return v.(*PackOutput), nil
}

func (s *PackService) process(ctx context.Context, loc SourceLocation, force bool) (*PackOutput, error) {
	revision := s.resolver.Resolve(ctx, loc)
	key := NewCacheKey(loc, revision)

	// Optimistic hit check before paying for a fetch.
	if !force {
		if out, ok := s.cachedOutput(key); ok {
			s.logger.Debug("cache hit", "location", loc.String(), "key", key)
			return out, nil
		}
	}

	ws, err := NewWorkspace(s.tempDir, loc, s.logger)
	if err != nil {
		return nil, err
	}
	defer ws.Cleanup()

	if err := s.fetcher.Fetch(ctx, loc, ws.Path); err != nil {
		return nil, err
	}

	// The checkout knows the exact revision; it supersedes the guess
	// for the key the result is stored under.
	if head, err := s.fetcher.HeadRevision(ws.Path); err != nil {
		s.logger.Warn("authoritative revision read failed", "location", loc.String(), "err", err)
	} else {
		revision = head
	}
	key = NewCacheKey(loc, revision)

	// Second hit check: the optimistic guess may have missed content
	// already cached under the authoritative key.
	if !force {
		if out, ok := s.cachedOutput(key); ok {
			s.logger.Debug("cache hit after fetch", "location", loc.String(), "key", key)
			return out, nil
		}
	}

	content, err := s.packer.Pack(ctx, ws.Path)
	if err != nil {
		return nil, err
	}

	entry, err := s.cache.Write(key, content, EntryMetadata{
		SourceLocation: loc.String(),
		Revision:       revision,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("repository packed",
		"location", loc.String(), "revision", revision, "size", entry.Metadata.Size)

	return entryOutput(entry, false), nil
}

func (s *PackService) cachedOutput(key CacheKey) (*PackOutput, bool) {
	entry, err := s.cache.Read(key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn("cache read failed, treating as miss", "key", key, "err", err)
		}
		return nil, false
	}
	return entryOutput(entry, true), true
}

func entryOutput(entry *Entry, fromCache bool) *PackOutput {
	return &PackOutput{
		CacheKey:       entry.Key.String(),
		FromCache:      fromCache,
		SourceLocation: entry.Metadata.SourceLocation,
		Revision:       entry.Metadata.Revision,
		Size:           entry.Metadata.Size,
		CachedAt:       entry.Metadata.CachedAt,
	}
}

// Status returns the metadata for a cached entry.
func (s *PackService) Status(key CacheKey) (*PackOutput, error) {
	entry, err := s.cache.Read(key)
	if err != nil {
		return nil, err
	}
	return entryOutput(entry, true), nil
}

// Delete removes a cached entry. Absent entries are not an error.
func (s *PackService) Delete(key CacheKey) error {
	if err := s.cache.Delete(key); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	return nil
}
