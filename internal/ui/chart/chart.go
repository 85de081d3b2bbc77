// Package chart renders an equipment distribution, either as a PNG image
// or as horizontal bars for the terminal.
package chart

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	statsdomain "chemviz/internal/modules/stats/domain"
	"chemviz/internal/ui/theme"
)

// Placeholder is shown wherever a chart would be drawn but there is no
// distribution.
const Placeholder = "No chart data available"

var ErrNoChartData = errors.New(Placeholder)

var barColors = []drawing.Color{
	drawing.ColorFromHex("74c7ec"),
	drawing.ColorFromHex("a6e3a1"),
	drawing.ColorFromHex("fab387"),
	drawing.ColorFromHex("b4befe"),
	drawing.ColorFromHex("f9e2af"),
	drawing.ColorFromHex("f38ba8"),
}

// RenderPNG draws the distribution as a bar chart, one bar per category in
// label order.
func RenderPNG(input statsdomain.ChartInput, w io.Writer) error {
	if input.IsNoData() {
		return ErrNoChartData
	}
	labels := input.Labels()
	bars := make([]gochart.Value, len(labels))
	peak := 0
	for i, label := range labels {
		count := input.Count(label)
		peak = max(peak, count)
		color := barColors[i%len(barColors)]
		bars[i] = gochart.Value{
			Label: label,
			Value: float64(count),
			Style: gochart.Style{FillColor: color, StrokeColor: color, StrokeWidth: 1},
		}
	}

	// go-chart refuses a zero-height range, which an all-zero distribution
	// would otherwise produce.
	top := float64(max(peak, 1))
	ch := gochart.BarChart{
		Title:      "Equipment Type Distribution",
		Width:      max(480, 120*len(bars)),
		Height:     400,
		BarWidth:   60,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: top},
		},
		Bars: bars,
	}
	if err := ch.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

// Bars renders one labelled bar per category scaled to width cells.
func Bars(input statsdomain.ChartInput, width int) string {
	if input.IsNoData() {
		return theme.Muted.Render(Placeholder)
	}
	labels := input.Labels()
	labelW, peak := 0, 0
	for _, label := range labels {
		labelW = max(labelW, lipgloss.Width(label))
		peak = max(peak, input.Count(label))
	}
	barW := max(width-labelW-8, 1)

	var sb strings.Builder
	for i, label := range labels {
		count := input.Count(label)
		n := 0
		if peak > 0 {
			n = count * barW / peak
		}
		bar := lipgloss.NewStyle().Foreground(theme.Series[i%len(theme.Series)]).Render(strings.Repeat("█", n))
		fmt.Fprintf(&sb, "%-*s %s %d\n", labelW, label, bar, count)
	}
	return strings.TrimRight(sb.String(), "\n")
}
