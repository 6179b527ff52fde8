package cmd

import (
	"fmt"

	"github.com/jprince8/py-train-graph/pkg/config"
	"github.com/jprince8/py-train-graph/pkg/scraper"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the page cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete cached pages",
	Long:  `Delete cached search and service pages. With --older-than only pages last written before that age are removed.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		olderThan, _ := cmd.Flags().GetDuration("older-than")

		removed, err := scraper.NewCache(cfg.CacheDir).Clear(olderThan)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached pages from %s\n", removed, cfg.CacheDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheClearCmd)

	cacheClearCmd.Flags().Duration("older-than", 0, "Only remove pages older than this (e.g. 72h)")
}
