package v1

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/4thel00z/repochat/internal"
)

// Client provides programmatic access to the repository chat service.
type Client struct {
	pack *internal.PackService
	chat *internal.ChatService
}

// New creates a new Client with the given options.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		tempDir:   filepath.Join(os.TempDir(), "repochat"),
		packerBin: "repomix",
	}
	if home, err := os.UserHomeDir(); err == nil {
		cfg.cacheDir = filepath.Join(home, ".repochat", "cache")
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = log.New(io.Discard)
	}

	cache, err := internal.NewContentCache(cfg.cacheDir, cfg.logger)
	if err != nil {
		return nil, err
	}

	pack := internal.NewPackService(
		cache,
		internal.NewGitHubResolver(cfg.githubToken, cfg.logger),
		internal.NewGitFetcher(),
		internal.NewRepomixPacker(cfg.packerBin, cfg.packerArgs),
		cfg.tempDir,
		cfg.logger,
	)

	return &Client{
		pack: pack,
		chat: internal.NewChatService(cfg.provider, pack, cache, cfg.logger),
	}, nil
}

// Pack ingests a repository and returns its cache entry description.
func (c *Client) Pack(ctx context.Context, repoURL string, forceRefresh bool) (*PackResult, error) {
	out, err := c.pack.Process(ctx, internal.PackInput{
		RepoURL: repoURL, ForceRefresh: forceRefresh,
	})
	if err != nil {
		return nil, err
	}
	return toPackResult(out), nil
}

// Status looks up a cache entry by key.
func (c *Client) Status(cacheKey string) (*PackResult, error) {
	key, err := internal.ParseCacheKey(cacheKey)
	if err != nil {
		return nil, err
	}
	out, err := c.pack.Status(key)
	if err != nil {
		return nil, err
	}
	return toPackResult(out), nil
}

// Delete removes a cache entry. Deleting an absent entry succeeds.
func (c *Client) Delete(cacheKey string) error {
	key, err := internal.ParseCacheKey(cacheKey)
	if err != nil {
		return err
	}
	return c.pack.Delete(key)
}

// Chat runs one conversation turn. cacheKey preloads packed repository
// context and history carries the prior turns.
func (c *Client) Chat(ctx context.Context, message, cacheKey string, history []Message) (*ChatResult, error) {
	msgs := make([]internal.ChatMessage, 0, len(history))
	for _, m := range history {
		msgs = append(msgs, internal.ChatMessage{
			Role: internal.Role(m.Role), Content: m.Content,
		})
	}

	out, err := c.chat.Chat(ctx, internal.ChatInput{
		Message: message, CacheKey: cacheKey, History: msgs,
	})
	if err != nil {
		return nil, err
	}

	res := &ChatResult{
		Response: out.Response,
		Usage: Usage{
			PromptTokens:     out.Usage.PromptTokens,
			CompletionTokens: out.Usage.CompletionTokens,
			TotalTokens:      out.Usage.TotalTokens,
		},
		CacheKey: out.CacheKey,
	}
	for _, inv := range out.ToolCalls {
		rec := ToolCallRecord{Name: inv.Name, Error: inv.Error}
		if inv.Result != nil {
			rec.Result = toPackResult(inv.Result)
		}
		res.ToolCalls = append(res.ToolCalls, rec)
	}
	return res, nil
}

// Close releases any resources held by the client.
func (c *Client) Close() error {
	return nil
}

func toPackResult(out *internal.PackOutput) *PackResult {
	return &PackResult{
		CacheKey:       out.CacheKey,
		FromCache:      out.FromCache,
		SourceLocation: out.SourceLocation,
		Revision:       out.Revision,
		Size:           out.Size,
		CachedAt:       out.CachedAt,
	}
}
