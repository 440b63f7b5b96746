package internal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// EntryMetadata is the JSON sidecar written next to each content file.
type EntryMetadata struct {
	SourceLocation string    `json:"source_location"`
	Revision       string    `json:"revision"`
	Size           int64     `json:"size"`
	CachedAt       time.Time `json:"cached_at"`
}

type Entry struct {
	Key      CacheKey
	Content  []byte
	Metadata EntryMetadata
}

// ContentCache stores one content file and one metadata sidecar per
// key under a single directory. Entries live until explicitly deleted;
// pruning is an out-of-band operational concern.
type ContentCache struct {
	dir    string
	logger *log.Logger
}

func NewContentCache(dir string, logger *log.Logger) (*ContentCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	return &ContentCache{dir: dir, logger: logger}, nil
}

// Dir exposes the cache directory for collaborators (watcher, status
// output) so nothing reaches into cache internals.
func (c *ContentCache) Dir() string {
	return c.dir
}

func (c *ContentCache) contentPath(key CacheKey) string {
	return filepath.Join(c.dir, key.String()+".txt")
}

func (c *ContentCache) metadataPath(key CacheKey) string {
	return filepath.Join(c.dir, key.String()+".json")
}

func (c *ContentCache) Exists(key CacheKey) bool {
	_, err := os.Stat(c.contentPath(key))
	return err == nil
}

// Read returns the entry for key, or ErrNotFound. A missing or corrupt
// metadata sidecar never hides valid content: metadata is synthesized
// from the content file instead.
func (c *ContentCache) Read(key CacheKey) (*Entry, error) {
	path := c.contentPath(key)

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("stat cache entry: %w", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cache entry: %w", err)
	}

	meta, err := c.readMetadata(key)
	if err != nil {
		c.logger.Warn("cache metadata unreadable, synthesizing", "key", key, "err", err)
		meta = EntryMetadata{
			Size:     info.Size(),
			CachedAt: info.ModTime().UTC(),
		}
	}

	return &Entry{Key: key, Content: content, Metadata: meta}, nil
}

func (c *ContentCache) readMetadata(key CacheKey) (EntryMetadata, error) {
	data, err := os.ReadFile(c.metadataPath(key))
	if err != nil {
		return EntryMetadata{}, fmt.Errorf("read metadata: %w", err)
	}

	var meta EntryMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return EntryMetadata{}, fmt.Errorf("parse metadata: %w", err)
	}
	return meta, nil
}

// Write persists content first and the metadata sidecar second, so a
// partial failure leaves no metadata pointing at missing content.
// Unset metadata fields are filled with computed defaults.
func (c *ContentCache) Write(key CacheKey, content []byte, meta EntryMetadata) (*Entry, error) {
	meta.Size = int64(len(content))
	if meta.CachedAt.IsZero() {
		meta.CachedAt = time.Now().UTC()
	}

	if err := os.WriteFile(c.contentPath(key), content, 0644); err != nil {
		return nil, fmt.Errorf("write cache content: %w", err)
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}
	if err := os.WriteFile(c.metadataPath(key), data, 0644); err != nil {
		return nil, fmt.Errorf("write cache metadata: %w", err)
	}

	return &Entry{Key: key, Content: content, Metadata: meta}, nil
}

// Delete removes both files. Deleting an absent entry is not an error.
func (c *ContentCache) Delete(key CacheKey) error {
	for _, path := range []string{c.contentPath(key), c.metadataPath(key)} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("delete cache entry: %w", err)
		}
	}
	return nil
}

// List returns metadata for every entry, sorted by creation time,
// newest first. Content is not loaded.
func (c *ContentCache) List() ([]Entry, error) {
	files, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("read cache directory: %w", err)
	}

	var entries []Entry
	for _, f := range files {
		name := f.Name()
		if f.IsDir() || !strings.HasSuffix(name, ".txt") {
			continue
		}

		key, err := ParseCacheKey(strings.TrimSuffix(name, ".txt"))
		if err != nil {
			continue
		}

		meta, err := c.readMetadata(key)
		if err != nil {
			info, statErr := f.Info()
			if statErr != nil {
				continue
			}
			meta = EntryMetadata{Size: info.Size(), CachedAt: info.ModTime().UTC()}
		}

		entries = append(entries, Entry{Key: key, Metadata: meta})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Metadata.CachedAt.After(entries[j].Metadata.CachedAt)
	})

	return entries, nil
}
