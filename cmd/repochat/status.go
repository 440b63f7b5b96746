package main

import (
	"encoding/json"
	"fmt"

	"github.com/4thel00z/repochat/internal"
	"github.com/spf13/cobra"
)

func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [cache-key]",
		Short: "Show cache entries",
		Long:  `Show metadata for one cache entry, or list all entries when no key is given.`,
		Args:  cobra.MaximumNArgs(1),
		RunE:  runStatus,
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := buildApp(cmd)
	if err != nil {
		return err
	}

	asJSON, _ := cmd.Flags().GetBool("json")

	if len(args) == 1 {
		key, err := internal.ParseCacheKey(args[0])
		if err != nil {
			return err
		}

		out, err := a.pack.Status(key)
		if err != nil {
			return fmt.Errorf("status: %w", err)
		}

		if asJSON {
			return printJSON(cmd, out)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s@%s (%d bytes, cached %s)\n",
			out.SourceLocation, out.Revision, out.Size, out.CachedAt.Format("2006-01-02 15:04:05"))
		return nil
	}

	entries, err := a.cache.List()
	if err != nil {
		return fmt.Errorf("list cache: %w", err)
	}

	if asJSON {
		return printJSON(cmd, entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "cache is empty")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s@%s (%d bytes)\n",
			e.Key, e.Metadata.SourceLocation, e.Metadata.Revision, e.Metadata.Size)
	}

	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
