package out

import (
	"context"
	"fmt"

	"chemviz/internal/modules/upload/domain"
	uploadout "chemviz/internal/modules/upload/port/out"
	apperrors "chemviz/internal/platform/errors"
	"chemviz/internal/platform/httpapi"
)

type HTTPAnalyzer struct {
	client *httpapi.Client
}

func NewHTTPAnalyzer(client *httpapi.Client) uploadout.Analyzer {
	return &HTTPAnalyzer{client: client}
}

// analysisResponse uses pointers so a missing metric can be told apart
// from a zero one.
type analysisResponse struct {
	TotalEquipment        *int           `json:"total_equipment"`
	AvgFlowrate           *float64       `json:"avg_flowrate"`
	AvgPressure           *float64       `json:"avg_pressure"`
	AvgTemperature        *float64       `json:"avg_temperature"`
	EquipmentDistribution map[string]int `json:"equipment_distribution"`
}

func (a *HTTPAnalyzer) Analyze(ctx context.Context, pending domain.PendingUpload) (domain.AnalysisResult, error) {
	resp := analysisResponse{}
	if err := a.client.PostFile(ctx, "/upload/", "file", pending.Name, pending.Content, &resp); err != nil {
		return domain.AnalysisResult{}, err
	}
	if resp.TotalEquipment == nil || resp.AvgFlowrate == nil || resp.AvgPressure == nil || resp.AvgTemperature == nil {
		return domain.AnalysisResult{}, fmt.Errorf("analysis response missing metrics: %w", apperrors.ErrMalformedResponse)
	}
	result := domain.AnalysisResult{
		TotalEquipment: *resp.TotalEquipment,
		AvgFlowrate:    *resp.AvgFlowrate,
		AvgPressure:    *resp.AvgPressure,
		AvgTemperature: *resp.AvgTemperature,
		Distribution:   resp.EquipmentDistribution,
	}
	if err := result.Validate(); err != nil {
		return domain.AnalysisResult{}, err
	}
	return result, nil
}
