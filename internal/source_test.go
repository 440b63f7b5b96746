package internal

import (
	"errors"
	"testing"
)

func TestParseSourceLocationForms(t *testing.T) {
	cases := []string{
		"https://github.com/octocat/hello-world",
		"https://github.com/octocat/hello-world.git",
		"https://github.com/octocat/hello-world/",
		"http://github.com/octocat/hello-world",
		"git@github.com:octocat/hello-world.git",
		"github.com/octocat/hello-world",
		"octocat/hello-world",
	}

	for _, raw := range cases {
		loc, err := ParseSourceLocation(raw)
		if err != nil {
			t.Errorf("ParseSourceLocation(%q) returned error: %v", raw, err)
			continue
		}
		if loc.Owner != "octocat" || loc.Repo != "hello-world" {
			t.Errorf("ParseSourceLocation(%q) = %+v", raw, loc)
		}
		if loc.String() != "github.com/octocat/hello-world" {
			t.Errorf("String() = %q", loc.String())
		}
	}
}

func TestParseSourceLocationUnsupported(t *testing.T) {
	cases := []string{
		"",
		"https://gitlab.com/owner/repo",
		"bitbucket.org/owner/repo",
		"not a url",
		"github.com/only-owner",
		"github.com/a/b/c",
		"https://github.com//repo",
	}

	for _, raw := range cases {
		_, err := ParseSourceLocation(raw)
		if !errors.Is(err, ErrUnsupportedSource) {
			t.Errorf("ParseSourceLocation(%q) expected ErrUnsupportedSource, got %v", raw, err)
		}
	}
}

func TestCloneURL(t *testing.T) {
	loc, err := ParseSourceLocation("octocat/hello-world")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := "https://github.com/octocat/hello-world.git"
	if loc.CloneURL() != want {
		t.Errorf("CloneURL() = %q, want %q", loc.CloneURL(), want)
	}
}
