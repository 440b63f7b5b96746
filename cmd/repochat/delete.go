package main

import (
	"fmt"

	"github.com/4thel00z/repochat/internal"
	"github.com/spf13/cobra"
)

func NewDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <cache-key>",
		Short: "Delete a cache entry",
		Long:  `Remove a cached ingestion result. Deleting an absent entry succeeds.`,
		Args:  cobra.ExactArgs(1),
		RunE:  runDelete,
	}
}

func runDelete(cmd *cobra.Command, args []string) error {
	a, err := buildApp(cmd)
	if err != nil {
		return err
	}

	key, err := internal.ParseCacheKey(args[0])
	if err != nil {
		return err
	}

	if err := a.pack.Delete(key); err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(cmd, map[string]string{"deleted": key.String()})
	}

	fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", key)
	return nil
}
