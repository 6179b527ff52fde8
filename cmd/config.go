package cmd

import (
	"fmt"
	"os"

	"github.com/jprince8/py-train-graph/pkg/config"
	"github.com/jprince8/py-train-graph/pkg/tui"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage traingraph configuration",
	Long:  "View or edit your local settings (~/.traingraph.json): directories, direction rule, parse strictness and more.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		setOutput, _ := cmd.Flags().GetString("set-output")
		if setOutput != "" {
			cfg.OutputDir = setOutput
			if err := config.Save(cfg); err != nil {
				return err
			}

			fmt.Printf("✅ Output directory saved as: %s\n", setOutput)
			return nil
		}

		show, _ := cmd.Flags().GetBool("show")
		if show || !isTerminal(os.Stdout) {
			fmt.Fprint(cmd.OutOrStdout(), tui.Describe(cfg))
			return nil
		}

		// If no flags are given, launch the interactive TUI flow
		return tui.RunConfigTUI()
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().Bool("show", false, "Print the effective settings and exit")
	configCmd.Flags().String("set-output", "", "Set the directory graphs are saved to")
}
