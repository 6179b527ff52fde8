package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/jprince8/py-train-graph/pkg/config"
	"github.com/jprince8/py-train-graph/pkg/exporter"
	"github.com/jprince8/py-train-graph/pkg/graph"
	"github.com/jprince8/py-train-graph/pkg/preset"
	"github.com/jprince8/py-train-graph/pkg/scraper"
	"github.com/kr/pretty"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// plotOptions are the flags that apply to every way of starting a plot.
type plotOptions struct {
	refresh   bool
	ics       bool
	outputDir string
}

var plotOpts plotOptions

var plotCmd = &cobra.Command{
	Use:   "plot ROUTE_CSV DATE START END",
	Short: "Scrape services and draw a time-distance graph",
	Long: `Scrape every service calling at the given locations between START and END
on DATE, keep the ones running along the route in ROUTE_CSV and draw them.

  traingraph plot routes/london_to_oxford.csv 2025-08-20 07:00 10:00 -l PAD,ACTONW -m 1 -d up

Several locations are given comma separated or by repeating -l.
With --preset the request is read from a JSON or YAML file instead; only
-n and the output flags may be combined with it.`,
	Args: validatePlotArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		req, err := requestFromFlags(cmd, args, cfg)
		if err != nil {
			return err
		}
		return runPlot(cmd.Context(), cfg, req, plotOpts)
	},
}

// presetFields are the flags a preset file sets itself.
var presetFields = []string{"locations", "margin-hours", "custom-schedule", "direction", "always-include", "reverse-route"}

func validatePlotArgs(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	if flags.Changed("preset") {
		for _, name := range presetFields {
			if flags.Changed(name) {
				return fmt.Errorf("--%s cannot be combined with --preset, set it in the preset file", name)
			}
		}
		return cobra.NoArgs(cmd, args)
	}
	if len(args) != 4 {
		return fmt.Errorf("expected ROUTE_CSV DATE START END, got %d arguments (give several locations as -l PAD,ACTONW)", len(args))
	}
	return nil
}

func requestFromFlags(cmd *cobra.Command, args []string, cfg *config.AppConfig) (graph.Request, error) {
	flags := cmd.Flags()
	limit, _ := flags.GetInt("limit")

	if name, _ := flags.GetString("preset"); name != "" {
		path, err := preset.ResolvePreset(name, cfg.PresetDir)
		if err != nil {
			return graph.Request{}, err
		}
		p, err := preset.Load(path)
		if err != nil {
			return graph.Request{}, err
		}
		if flags.Changed("limit") {
			p.Limit = limit
		}
		return p.Request(cfg)
	}

	locations, _ := flags.GetStringSlice("locations")
	if len(locations) == 0 {
		return graph.Request{}, fmt.Errorf("at least one location is required (-l)")
	}

	margin, _ := flags.GetInt("margin-hours")
	direction, _ := flags.GetString("direction")
	alwaysInclude, _ := flags.GetStringSlice("always-include")
	names, _ := flags.GetStringArray("custom-schedule")

	var schedules []string
	for _, name := range names {
		path, err := preset.Resolve(name, cfg.CustomScheduleDir, "csv")
		if err != nil {
			return graph.Request{}, err
		}
		schedules = append(schedules, path)
	}

	reverse := cfg.ReverseRoute
	if flags.Changed("reverse-route") {
		reverse, _ = flags.GetBool("reverse-route")
	}

	return graph.Request{
		RouteCSV:        args[0],
		Locations:       locations,
		Date:            args[1],
		StartTime:       args[2],
		EndTime:         args[3],
		MarginHours:     margin,
		CustomSchedules: schedules,
		Limit:           limit,
		Direction:       direction,
		ReverseRoute:    reverse,
		AlwaysInclude:   alwaysInclude,
	}, nil
}

// runPlot builds, renders and optionally exports one chart.
func runPlot(ctx context.Context, cfg *config.AppConfig, req graph.Request, opts plotOptions) error {
	log.Debug().Msgf("Plot request: %# v", pretty.Formatter(req))

	client := scraper.NewClient(scraper.NewCache(cfg.CacheDir), cfg.FetchTimeout())
	client.ForceRefresh = opts.refresh

	builder := &graph.Builder{Fetcher: client, Settings: cfg}
	if !isTerminal(os.Stdout) {
		builder.Progress = func(status string) { log.Debug().Msg(status) }
	}

	var chart *graph.Chart
	var err error
	withSpinner(fmt.Sprintf("Building graph for %s on %s...", filepath.Base(req.RouteCSV), req.Date), func() {
		chart, err = builder.Build(ctx, req)
	})
	if err != nil {
		return err
	}

	if chart.Empty() {
		fmt.Println(warnStyle.Render("No services matched; nothing was saved."))
		return nil
	}

	outputDir := cfg.OutputDir
	if opts.outputDir != "" {
		outputDir = opts.outputDir
	}

	renderer := &graph.Renderer{Settings: cfg}
	var paths []string
	withSpinner("Rendering images...", func() {
		paths, err = renderer.Render(chart, outputDir)
	})
	if err != nil {
		return fmt.Errorf("failed to render graph: %w", err)
	}

	if opts.ics {
		path := filepath.Join(outputDir, chart.FileBase()+".ics")
		if err := writeICS(chart, path); err != nil {
			return err
		}
		paths = append(paths, path)
	}

	printSummary(chart, paths)
	return nil
}

func writeICS(chart *graph.Chart, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := exporter.GenerateICS(chart, file); err != nil {
		return fmt.Errorf("failed to generate ICS: %w", err)
	}
	return file.Close()
}

// withSpinner shows a spinner while action runs, or just runs it when stdout
// is not a terminal.
func withSpinner(title string, action func()) {
	if !isTerminal(os.Stdout) {
		action()
		return
	}
	_ = spinner.New().
		Title(title).
		Action(action).
		Run()
}

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#3838C8")).Bold(true).Padding(1, 0)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	fileStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func printSummary(chart *graph.Chart, paths []string) {
	fmt.Println(titleStyle.Render(chart.Title()))

	for _, trace := range chart.Traces {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(trace.Colour)).Render("■")
		source := trace.Operator
		if trace.Manual {
			source = "custom schedule"
		}
		fmt.Printf("%s %s %s\n", swatch, trace.Headcode, dimStyle.Render(source))
	}

	fmt.Printf("\nPlotted %d services:\n", len(chart.Traces))
	for _, p := range paths {
		fmt.Println("  " + fileStyle.Render(p))
	}
}

func addPlotFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringSliceP("locations", "l", nil, "Location codes to search (e.g. -l PAD,ACTONW)")
	f.IntP("margin-hours", "m", 0, "Hours to extend the search before the window start")
	f.StringArrayP("custom-schedule", "s", nil, "Custom schedule CSV, by path or name (repeatable)")
	f.StringP("direction", "d", "", "Only plot services running up or down")
	f.IntP("limit", "n", 0, "Maximum number of scraped services to plot (0 for no limit)")
	f.StringSliceP("always-include", "a", nil, "Headcodes that bypass the direction filter")
	f.Bool("reverse-route", false, "Plot distances reversed (negative miles)")
	f.StringP("preset", "p", "", "Name or path of a preset file")
	f.BoolVar(&plotOpts.ics, "ics", false, "Also export the plotted services to an .ics calendar")
	f.BoolVar(&plotOpts.refresh, "refresh", false, "Fetch pages again instead of using the cache")
	f.StringVarP(&plotOpts.outputDir, "output", "o", "", "Directory for the images (default from config)")
}

func init() {
	rootCmd.AddCommand(plotCmd)
	addPlotFlags(plotCmd)
}
