package in

import (
	"context"

	"chemviz/internal/modules/upload/dto"
)

type Usecase interface {
	SelectFile(ctx context.Context, input dto.SelectFileInput) (dto.StateOutput, error)
	SelectBlob(ctx context.Context, input dto.SelectBlobInput) (dto.StateOutput, error)
	Run(ctx context.Context) (dto.StateOutput, error)
	Reset(ctx context.Context) (dto.StateOutput, error)
	State(ctx context.Context) dto.StateOutput
}
