package domain

import (
	"slices"
	"time"
)

type Record struct {
	ID             int
	UploadedAt     time.Time
	TotalEquipment int
	AvgFlowrate    float64
	AvgPressure    float64
	AvgTemperature float64
}

// Listing is what the history view shows. A failed fetch sets LastErr and
// keeps the records of the previous successful fetch. Whether a fetch is
// in flight is tracked by the caller that issued it.
type Listing struct {
	Records []Record
	Loaded  bool
	LastErr error
}

// Empty reports a completed fetch that returned nothing. It is distinct
// from a listing that has not been loaded yet.
func (l Listing) Empty() bool {
	return l.Loaded && len(l.Records) == 0
}

func (l Listing) Snapshot() Listing {
	l.Records = slices.Clone(l.Records)
	return l
}
