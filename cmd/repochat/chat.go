package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/4thel00z/repochat/internal"
	"github.com/spf13/cobra"
)

func NewChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat <message>",
		Short: "Run one chat turn",
		Long:  `Send a message to the configured model. The model may ingest a repository as context before answering.`,
		Args:  cobra.MinimumNArgs(1),
		RunE:  runChat,
	}

	cmd.Flags().String("cache-key", "", "Preload context from an existing cache entry")
	return cmd
}

func runChat(cmd *cobra.Command, args []string) error {
	a, err := buildApp(cmd)
	if err != nil {
		return err
	}

	chat, err := a.chatService(cmd.Context())
	if err != nil {
		return err
	}

	cacheKey, _ := cmd.Flags().GetString("cache-key")

	out, err := chat.Chat(cmd.Context(), internal.ChatInput{
		Message:  strings.Join(args, " "),
		CacheKey: cacheKey,
	})
	if err != nil {
		return fmt.Errorf("chat: %w", err)
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Fprintln(cmd.OutOrStdout(), out.Response)

	for _, inv := range out.ToolCalls {
		if inv.Error != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "tool %s failed: %s\n", inv.Name, inv.Error)
			continue
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "tool %s: cached %s (%d bytes)\n",
			inv.Name, inv.Result.CacheKey, inv.Result.Size)
	}
	if out.CacheKey != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "cache key: %s\n", out.CacheKey)
	}

	return nil
}
