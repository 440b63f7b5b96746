package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/4thel00z/repochat/internal"
	"github.com/spf13/cobra"
)

func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Long:  `Serve the chat and repository endpoints over HTTP.`,
		RunE:  runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (overrides config)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := buildApp(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	// Without a configured provider the pack/status/delete endpoints
	// still work; /chat returns an error per request.
	chat, err := a.chatService(ctx)
	if err != nil {
		a.logger.Warn("model provider unavailable, /chat disabled", "err", err)
		chat = internal.NewChatService(nil, a.pack, a.cache, a.logger)
	}

	addr := a.cfg.Server.Addr
	if flagAddr, _ := cmd.Flags().GetString("addr"); flagAddr != "" {
		addr = flagAddr
	}

	if watcher, werr := internal.NewCacheWatcher(a.cache.Dir(), a.logger); werr != nil {
		a.logger.Warn("cache watcher unavailable", "err", werr)
	} else {
		go watcher.Run(ctx)
	}

	server := internal.NewServer(chat, a.pack, a.cache, a.logger)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("listening", "addr", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	}
}
