package in

import (
	"context"

	"chemviz/internal/modules/history/dto"
)

type Usecase interface {
	Load(ctx context.Context) (dto.ListingOutput, error)
	Current(ctx context.Context) dto.ListingOutput
	Reset(ctx context.Context)
}
