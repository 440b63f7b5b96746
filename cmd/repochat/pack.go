package main

import (
	"encoding/json"
	"fmt"

	"github.com/4thel00z/repochat/internal"
	"github.com/spf13/cobra"
)

func NewPackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pack <repo-url>",
		Short: "Ingest a repository into the cache",
		Long:  `Fetch a repository, flatten it with the packing tool and store the result in the content cache.`,
		Args:  cobra.ExactArgs(1),
		RunE:  runPack,
	}

	cmd.Flags().Bool("force", false, "Re-ingest even if a cached copy exists")
	return cmd
}

func runPack(cmd *cobra.Command, args []string) error {
	a, err := buildApp(cmd)
	if err != nil {
		return err
	}

	force, _ := cmd.Flags().GetBool("force")

	out, err := a.pack.Process(cmd.Context(), internal.PackInput{
		RepoURL:      args[0],
		ForceRefresh: force,
	})
	if err != nil {
		return fmt.Errorf("pack: %w", err)
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	source := "packed"
	if out.FromCache {
		source = "cached"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s@%s (%d bytes)\nkey: %s\n",
		source, out.SourceLocation, out.Revision, out.Size, out.CacheKey)

	return nil
}
