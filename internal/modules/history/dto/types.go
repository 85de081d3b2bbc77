package dto

import "time"

type RecordOutput struct {
	ID             int
	UploadedAt     time.Time
	TotalEquipment int
	AvgFlowrate    float64
	AvgPressure    float64
	AvgTemperature float64
}

type ListingOutput struct {
	Records []RecordOutput
	Loaded  bool
	Empty   bool
	LastErr error
}
