package out

import (
	"context"
	"fmt"
	"time"

	"chemviz/internal/modules/history/domain"
	historyout "chemviz/internal/modules/history/port/out"
	apperrors "chemviz/internal/platform/errors"
	"chemviz/internal/platform/httpapi"
)

type HTTPSource struct {
	client *httpapi.Client
}

func NewHTTPSource(client *httpapi.Client) historyout.Source {
	return &HTTPSource{client: client}
}

type recordResponse struct {
	ID             *int     `json:"id"`
	UploadedAt     *string  `json:"uploaded_at"`
	TotalEquipment *int     `json:"total_equipment"`
	AvgFlowrate    *float64 `json:"avg_flowrate"`
	AvgPressure    *float64 `json:"avg_pressure"`
	AvgTemperature *float64 `json:"avg_temperature"`
}

// Django serialises datetimes with microseconds and either a numeric
// offset or Z.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999-07:00",
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]domain.Record, error) {
	var resp []recordResponse
	if err := s.client.GetJSON(ctx, "/history/", &resp); err != nil {
		return nil, err
	}
	records := make([]domain.Record, 0, len(resp))
	for idx, item := range resp {
		if item.UploadedAt == nil || item.TotalEquipment == nil || item.AvgFlowrate == nil || item.AvgPressure == nil || item.AvgTemperature == nil {
			return nil, fmt.Errorf("history record %d missing fields: %w", idx, apperrors.ErrMalformedResponse)
		}
		uploadedAt, err := parseTime(*item.UploadedAt)
		if err != nil {
			return nil, fmt.Errorf("history record %d: %w: %w", idx, apperrors.ErrMalformedResponse, err)
		}
		id := idx + 1
		if item.ID != nil {
			id = *item.ID
		}
		records = append(records, domain.Record{
			ID:             id,
			UploadedAt:     uploadedAt,
			TotalEquipment: *item.TotalEquipment,
			AvgFlowrate:    *item.AvgFlowrate,
			AvgPressure:    *item.AvgPressure,
			AvgTemperature: *item.AvgTemperature,
		})
	}
	return records, nil
}

func parseTime(raw string) (time.Time, error) {
	var lastErr error
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
