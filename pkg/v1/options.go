package v1

import (
	"github.com/charmbracelet/log"

	"github.com/4thel00z/repochat/internal"
)

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	cacheDir    string
	tempDir     string
	githubToken string
	packerBin   string
	packerArgs  []string
	provider    internal.Provider
	logger      *log.Logger
}

// WithCacheDir sets the pack cache directory.
func WithCacheDir(dir string) Option {
	return func(c *clientConfig) {
		c.cacheDir = dir
	}
}

// WithTempDir sets the directory for clone workspaces.
func WithTempDir(dir string) Option {
	return func(c *clientConfig) {
		c.tempDir = dir
	}
}

// WithGitHubToken authenticates revision lookups against the GitHub API.
func WithGitHubToken(token string) Option {
	return func(c *clientConfig) {
		c.githubToken = token
	}
}

// WithPacker overrides the packer binary and its extra arguments.
func WithPacker(binary string, args ...string) Option {
	return func(c *clientConfig) {
		c.packerBin = binary
		c.packerArgs = args
	}
}

// WithProvider sets the language model backend. Without one, Chat
// returns an error but Pack, Status and Delete still work.
func WithProvider(p internal.Provider) Option {
	return func(c *clientConfig) {
		c.provider = p
	}
}

// WithLogger sets the logger. The default discards all output.
func WithLogger(logger *log.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}
