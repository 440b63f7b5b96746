package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/4thel00z/repochat/internal"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// app wires the configured services together. The model provider is
// built once per process and only when a command needs it.
type app struct {
	cfg    *internal.Config
	logger *log.Logger
	cache  *internal.ContentCache
	pack   *internal.PackService
}

func buildApp(cmd *cobra.Command) (*app, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		home, _ := os.UserHomeDir()
		configPath = filepath.Join(home, ".repochat", "config.yaml")
	}

	cfg, err := internal.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logger.SetLevel(log.DebugLevel)
	}

	cache, err := internal.NewContentCache(cfg.CacheDir, logger)
	if err != nil {
		return nil, err
	}

	pack := internal.NewPackService(
		cache,
		internal.NewGitHubResolver(cfg.GitHubToken, logger),
		internal.NewGitFetcher(),
		internal.NewRepomixPacker(cfg.Packer.Binary, cfg.Packer.Args),
		cfg.TempDir,
		logger,
	)

	return &app{cfg: cfg, logger: logger, cache: cache, pack: pack}, nil
}

// chatService builds the orchestrator backed by the configured model
// provider. Commands that never call the model skip this.
func (a *app) chatService(ctx context.Context) (*internal.ChatService, error) {
	fc, err := a.cfg.ProviderFor("")
	if err != nil {
		return nil, err
	}

	provider, err := internal.NewFantasyProvider(ctx, fc)
	if err != nil {
		return nil, fmt.Errorf("create provider: %w", err)
	}

	return internal.NewChatService(provider, a.pack, a.cache, a.logger), nil
}
