package cmd

import (
	"fmt"

	"github.com/jprince8/py-train-graph/pkg/config"
	"github.com/jprince8/py-train-graph/pkg/scraper"
	"github.com/spf13/cobra"
)

var urlsCmd = &cobra.Command{
	Use:   "urls DATE START END",
	Short: "Print the search pages a plot would fetch",
	Long:  `Print the Realtime Trains search URLs covering the window, one per line, without fetching them.`,
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		locations, _ := cmd.Flags().GetStringSlice("locations")
		if len(locations) == 0 {
			return fmt.Errorf("at least one location is required (-l)")
		}
		margin, _ := cmd.Flags().GetInt("margin-hours")

		urls, err := scraper.SearchURLs(cfg.SearchURLTemplate, locations, scraper.SearchWindow{
			Date:        args[0],
			Start:       args[1],
			End:         args[2],
			MarginHours: margin,
		})
		if err != nil {
			return err
		}

		for _, u := range urls {
			fmt.Fprintln(cmd.OutOrStdout(), u)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(urlsCmd)

	urlsCmd.Flags().StringSliceP("locations", "l", nil, "Location codes to search (e.g. -l PAD,ACTONW)")
	urlsCmd.Flags().IntP("margin-hours", "m", 0, "Hours to extend the search before the window start")
}
