package domain

import (
	"maps"
	"slices"

	uploaddomain "chemviz/internal/modules/upload/domain"
)

// ChartInput is the distribution handed to a chart renderer. NoChartData
// stands for "nothing to plot" so renderers show a placeholder instead of
// an empty chart.
type ChartInput struct {
	counts map[string]int
}

var NoChartData = ChartInput{}

func (c ChartInput) IsNoData() bool {
	return len(c.counts) == 0
}

// Counts returns the distribution as received.
func (c ChartInput) Counts() map[string]int {
	return maps.Clone(c.counts)
}

// Labels returns the categories sorted by name so renders are stable.
func (c ChartInput) Labels() []string {
	return slices.Sorted(maps.Keys(c.counts))
}

func (c ChartInput) Count(label string) int {
	return c.counts[label]
}

// DisplayStats holds the four headline metrics and the chart input.
type DisplayStats struct {
	Records     int
	Flow        float64
	Pressure    float64
	Temperature float64
	Chart       ChartInput
}

// Project copies the metrics verbatim: no rounding, no unit conversion.
func Project(result uploaddomain.AnalysisResult) DisplayStats {
	chart := NoChartData
	if len(result.Distribution) > 0 {
		chart = ChartInput{counts: maps.Clone(result.Distribution)}
	}
	return DisplayStats{
		Records:     result.TotalEquipment,
		Flow:        result.AvgFlowrate,
		Pressure:    result.AvgPressure,
		Temperature: result.AvgTemperature,
		Chart:       chart,
	}
}
