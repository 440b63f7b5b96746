package internal

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
)

var keyPattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

// CacheKey is the sole handle for a cached ingestion result. It is a
// pure function of (normalized location, revision): a changed revision
// produces a new key, never an update of an existing entry.
type CacheKey string

func NewCacheKey(loc SourceLocation, revision string) CacheKey {
	sum := sha256.Sum256([]byte(loc.String() + "@" + revision))
	return CacheKey(hex.EncodeToString(sum[:]))
}

// ParseCacheKey validates externally supplied keys (HTTP paths, tool
// arguments) before they touch the filesystem.
func ParseCacheKey(s string) (CacheKey, error) {
	if !keyPattern.MatchString(s) {
		return "", ErrInvalidKey
	}
	return CacheKey(s), nil
}

func (k CacheKey) String() string {
	return string(k)
}
