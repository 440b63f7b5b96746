package internal

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/google/go-github/v68/github"
)

// RevisionUnknown is returned when the lightweight resolution path
// fails. It still participates in key derivation, so the cache can be
// checked before paying for a fetch, but it cannot distinguish
// revisions: content cached under it is only refreshed via
// forceRefresh.
const RevisionUnknown = "unresolved"

// RevisionResolver guesses the current head revision of a remote
// repository without fetching it. It never fails; callers treat
// RevisionUnknown as a valid revision.
type RevisionResolver interface {
	Resolve(ctx context.Context, loc SourceLocation) string
}

// GitHubResolver queries the GitHub REST API for the head commit of
// the default branch, trying main then master.
type GitHubResolver struct {
	client *github.Client
	logger *log.Logger
}

func NewGitHubResolver(token string, logger *log.Logger) *GitHubResolver {
	client := github.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	return &GitHubResolver{client: client, logger: logger}
}

func (r *GitHubResolver) Resolve(ctx context.Context, loc SourceLocation) string {
	for _, branch := range []string{"main", "master"} {
		b, _, err := r.client.Repositories.GetBranch(ctx, loc.Owner, loc.Repo, branch, 0)
		if err != nil {
			continue
		}
		if sha := b.GetCommit().GetSHA(); sha != "" {
			return sha
		}
	}

	r.logger.Debug("revision resolution failed, using sentinel", "location", loc.String())
	return RevisionUnknown
}
