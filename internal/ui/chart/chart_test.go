package chart_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	statsdomain "chemviz/internal/modules/stats/domain"
	uploaddomain "chemviz/internal/modules/upload/domain"
	"chemviz/internal/ui/chart"
)

func input(dist map[string]int) statsdomain.ChartInput {
	return statsdomain.Project(uploaddomain.AnalysisResult{Distribution: dist}).Chart
}

func TestRenderPNGWritesImage(t *testing.T) {
	t.Parallel()
	buf := &bytes.Buffer{}
	if err := chart.RenderPNG(input(map[string]int{"Pump": 10, "Valve": 32}), buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG\r\n\x1a\n")) {
		t.Fatalf("output is not a png (%d bytes)", buf.Len())
	}
}

func TestRenderPNGAllZeroCounts(t *testing.T) {
	t.Parallel()
	buf := &bytes.Buffer{}
	if err := chart.RenderPNG(input(map[string]int{"Pump": 0}), buf); err != nil {
		t.Fatalf("render: %v", err)
	}
}

func TestRenderPNGRefusesNoData(t *testing.T) {
	t.Parallel()
	buf := &bytes.Buffer{}
	if err := chart.RenderPNG(statsdomain.NoChartData, buf); !errors.Is(err, chart.ErrNoChartData) {
		t.Fatalf("expected no chart data, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatal("nothing should be written")
	}
}

func TestBarsPlaceholderAndScaling(t *testing.T) {
	t.Parallel()
	if got := chart.Bars(statsdomain.NoChartData, 40); !strings.Contains(got, chart.Placeholder) {
		t.Fatalf("expected placeholder, got %q", got)
	}
	got := chart.Bars(input(map[string]int{"Valve": 32, "Pump": 16}), 41)
	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected two bars, got %q", got)
	}
	if !strings.HasPrefix(lines[0], "Pump ") || !strings.HasSuffix(lines[0], " 16") {
		t.Fatalf("bars should be sorted by label with counts, got %q", lines[0])
	}
	if strings.Count(lines[1], "█") != 2*strings.Count(lines[0], "█") {
		t.Fatalf("valve bar should be twice pump bar: %q", got)
	}
}
