package in

import (
	"context"

	historydto "chemviz/internal/modules/history/dto"
	historyin "chemviz/internal/modules/history/port/in"
)

type CLIHandler struct {
	usecase historyin.Usecase
}

func NewCLIHandler(usecase historyin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Load(ctx context.Context) (historydto.ListingOutput, error) {
	return h.usecase.Load(ctx)
}

func (h CLIHandler) Current(ctx context.Context) historydto.ListingOutput {
	return h.usecase.Current(ctx)
}

func (h CLIHandler) Reset(ctx context.Context) {
	h.usecase.Reset(ctx)
}
