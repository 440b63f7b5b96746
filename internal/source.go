package internal

import (
	"fmt"
	"regexp"
	"strings"
)

var slugPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// SourceLocation is a normalized GitHub repository reference. All
// accepted input forms reduce to the same owner/repo pair, so cache
// keys are stable across URL spellings.
type SourceLocation struct {
	Owner string
	Repo  string
}

// ParseSourceLocation accepts https and ssh GitHub URLs, the bare
// github.com/owner/repo form, and the owner/repo shorthand. Anything
// else is ErrUnsupportedSource.
func ParseSourceLocation(raw string) (SourceLocation, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return SourceLocation{}, fmt.Errorf("%w: empty location", ErrUnsupportedSource)
	}

	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	if rest, ok := strings.CutPrefix(s, "git@github.com:"); ok {
		s = "github.com/" + rest
	}

	if rest, ok := strings.CutPrefix(s, "github.com/"); ok {
		s = rest
	} else if strings.Contains(s, ".") && strings.Contains(strings.SplitN(s, "/", 2)[0], ".") {
		// Some other host (gitlab.com/..., bitbucket.org/...).
		return SourceLocation{}, fmt.Errorf("%w: %s", ErrUnsupportedSource, raw)
	}

	s = strings.TrimSuffix(strings.TrimSuffix(s, "/"), ".git")

	parts := strings.Split(s, "/")
	if len(parts) != 2 || !slugPattern.MatchString(parts[0]) || !slugPattern.MatchString(parts[1]) {
		return SourceLocation{}, fmt.Errorf("%w: %s", ErrUnsupportedSource, raw)
	}

	return SourceLocation{Owner: parts[0], Repo: parts[1]}, nil
}

// String returns the canonical form used for cache key derivation.
func (l SourceLocation) String() string {
	return "github.com/" + l.Owner + "/" + l.Repo
}

// CloneURL returns the https URL passed to the fetcher.
func (l SourceLocation) CloneURL() string {
	return fmt.Sprintf("https://github.com/%s/%s.git", l.Owner, l.Repo)
}
