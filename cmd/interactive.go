package cmd

import (
	"context"

	"github.com/jprince8/py-train-graph/pkg/config"
	"github.com/jprince8/py-train-graph/pkg/tui"
	"github.com/spf13/cobra"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Launch the interactive TUI",
	Long:  `Launch the Text User Interface to pick a preset, plan a new graph or change settings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive(cmd.Context())
	},
}

func runInteractive(ctx context.Context) error {
	p, err := tui.RunTUI()
	if err != nil || p == nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	req, err := p.Request(cfg)
	if err != nil {
		return err
	}
	return runPlot(ctx, cfg, req, plotOptions{})
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}
