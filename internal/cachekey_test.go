package internal

import (
	"strings"
	"testing"
)

func TestCacheKeyDeterministic(t *testing.T) {
	loc := SourceLocation{Owner: "octocat", Repo: "hello-world"}

	a := NewCacheKey(loc, "abc123")
	b := NewCacheKey(loc, "abc123")
	if a != b {
		t.Errorf("same inputs produced different keys: %s vs %s", a, b)
	}

	c := NewCacheKey(loc, "def456")
	if a == c {
		t.Error("different revisions produced the same key")
	}

	other := NewCacheKey(SourceLocation{Owner: "octocat", Repo: "other"}, "abc123")
	if a == other {
		t.Error("different locations produced the same key")
	}
}

func TestCacheKeyFixedLength(t *testing.T) {
	key := NewCacheKey(SourceLocation{Owner: "a", Repo: "b"}, RevisionUnknown)
	if len(key) != 64 {
		t.Errorf("key length = %d, want 64", len(key))
	}
	if key.String() != strings.ToLower(key.String()) {
		t.Error("key is not lowercase hex")
	}
}

func TestParseCacheKey(t *testing.T) {
	valid := NewCacheKey(SourceLocation{Owner: "a", Repo: "b"}, "rev").String()
	if _, err := ParseCacheKey(valid); err != nil {
		t.Errorf("ParseCacheKey(%q) returned error: %v", valid, err)
	}

	invalid := []string{
		"",
		"short",
		strings.Repeat("z", 64),
		"../../../etc/passwd",
		strings.Repeat("a", 63),
		strings.Repeat("a", 65),
	}
	for _, s := range invalid {
		if _, err := ParseCacheKey(s); err != ErrInvalidKey {
			t.Errorf("ParseCacheKey(%q) expected ErrInvalidKey, got %v", s, err)
		}
	}
}
