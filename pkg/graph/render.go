package graph

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"time"

	"github.com/jprince8/py-train-graph/pkg/config"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const (
	labelOffset = 0.2 // miles between a trace and its headcode
	axisPadding = 1.0 // miles above and below the route
)

// Renderer draws charts to PNG files.
type Renderer struct {
	Settings *config.AppConfig
}

// Render writes the overview and zoomable images of chart into dir and returns
// their paths. Empty charts write nothing.
func (r *Renderer) Render(chart *Chart, dir string) ([]string, error) {
	if chart.Empty() {
		return nil, nil
	}

	p, err := r.newPlot(chart)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("could not create output directory: %w", err)
	}

	base := filepath.Join(dir, chart.FileBase())
	outputs := []struct {
		path string
		fig  config.Figure
	}{
		{base + "_overview.png", r.Settings.Overview},
		{base + "_zoomable.png", r.Settings.Zoomable},
	}

	var paths []string
	for _, out := range outputs {
		if err := savePNG(p, out.fig, out.path); err != nil {
			return paths, err
		}
		log.Info().Str("file", out.path).Msg("Saved graph")
		paths = append(paths, out.path)
	}
	return paths, nil
}

func (r *Renderer) newPlot(chart *Chart) (*plot.Plot, error) {
	major, err := parseColour(r.Settings.MajorColour)
	if err != nil {
		return nil, err
	}
	minor, err := parseColour(r.Settings.MinorColour)
	if err != nil {
		return nil, err
	}

	from, to := unixSeconds(chart.Window.From()), unixSeconds(chart.Window.To())

	p := plot.New()
	p.Title.Text = chart.Title()
	p.X.Label.Text = "Time"
	p.Y.Label.Text = "Distance (mi)"
	p.X.Tick.Marker = plot.TimeTicks{Format: "15:04", Time: plot.UnixTimeIn(time.UTC)}

	grid := plotter.NewGrid()
	grid.Horizontal.Color = nil
	grid.Vertical.Color = withAlpha(minor, 0.3)
	p.Add(grid)

	var ticks []plot.Tick
	entries := chart.Route.Entries()
	for _, e := range entries {
		line, err := plotter.NewLine(plotter.XYs{{X: from, Y: e.Distance}, {X: to, Y: e.Distance}})
		if err != nil {
			return nil, err
		}
		line.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		line.LineStyle.Width = vg.Points(0.5)
		if e.Major() {
			line.LineStyle.Color = withAlpha(major, 0.4)
			ticks = append(ticks, plot.Tick{Value: e.Distance, Label: e.Label})
		} else {
			line.LineStyle.Color = withAlpha(minor, 0.2)
		}
		p.Add(line)
	}
	if len(ticks) > 0 {
		p.Y.Tick.Marker = plot.ConstantTicks(ticks)
		p.Y.Tick.Label.Color = major
	}

	for _, trace := range chart.Traces {
		if err := r.addTrace(p, chart, trace); err != nil {
			return nil, fmt.Errorf("could not draw %s: %w", trace.Headcode, err)
		}
	}

	// Add widens the axes to fit the data, so the window is applied last
	p.X.Min, p.X.Max = from, to
	if len(entries) > 0 {
		p.Y.Min = entries[0].Distance - axisPadding
		p.Y.Max = entries[len(entries)-1].Distance + axisPadding
	}
	return p, nil
}

func (r *Renderer) addTrace(p *plot.Plot, chart *Chart, trace Trace) error {
	c, err := parseColour(trace.Colour)
	if err != nil {
		return err
	}

	xys := make(plotter.XYs, len(trace.Points))
	for i, pt := range trace.Points {
		xys[i] = plotter.XY{X: unixSeconds(pt.Time), Y: pt.Distance}
	}
	line, points, err := plotter.NewLinePoints(xys)
	if err != nil {
		return err
	}
	line.LineStyle.Color = c
	line.LineStyle.Width = vg.Points(1)
	if trace.Manual {
		line.LineStyle.Width = vg.Points(2)
	}
	points.GlyphStyle.Color = c
	points.GlyphStyle.Shape = draw.CircleGlyph{}
	points.GlyphStyle.Radius = vg.Points(1.5)
	p.Add(line, points)

	at, ok := trace.LabelPoint()
	if !ok {
		return nil
	}
	offset, yAlign := labelPlacement(chart)
	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    plotter.XYs{{X: unixSeconds(at.Time), Y: at.Distance + offset}},
		Labels: []string{trace.Headcode},
	})
	if err != nil {
		return err
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].Color = c
		labels.TextStyle[i].XAlign = text.XRight
		labels.TextStyle[i].YAlign = yAlign
	}
	p.Add(labels)
	return nil
}

// labelPlacement puts headcodes on the side a trace is heading towards. A chart
// with no direction is labelled as if it were "up".
func labelPlacement(chart *Chart) (float64, text.YAlignment) {
	up := chart.Direction != DirectionDown
	if chart.Route.Reversed != up {
		return labelOffset, text.YBottom
	}
	return -labelOffset, text.YTop
}

func savePNG(p *plot.Plot, fig config.Figure, path string) error {
	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(fig.WidthIn)*vg.Inch, vg.Length(fig.HeightIn)*vg.Inch),
		vgimg.UseDPI(fig.DPI),
	)
	p.Draw(draw.New(c))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(f); err != nil {
		return fmt.Errorf("could not write %s: %w", path, err)
	}
	return f.Close()
}

func unixSeconds(t time.Time) float64 {
	return float64(t.Unix())
}

func parseColour(hex string) (color.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return nil, fmt.Errorf("invalid colour %q: %w", hex, err)
	}
	return c, nil
}

func withAlpha(c color.Color, alpha float64) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(alpha * 255)}
}
