package in

import (
	"context"

	uploaddto "chemviz/internal/modules/upload/dto"
	uploadin "chemviz/internal/modules/upload/port/in"
)

type CLIHandler struct {
	usecase uploadin.Usecase
}

func NewCLIHandler(usecase uploadin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) SelectFile(ctx context.Context, path string) (uploaddto.StateOutput, error) {
	return h.usecase.SelectFile(ctx, uploaddto.SelectFileInput{Path: path})
}

func (h CLIHandler) Run(ctx context.Context) (uploaddto.StateOutput, error) {
	return h.usecase.Run(ctx)
}

func (h CLIHandler) Reset(ctx context.Context) (uploaddto.StateOutput, error) {
	return h.usecase.Reset(ctx)
}

func (h CLIHandler) State(ctx context.Context) uploaddto.StateOutput {
	return h.usecase.State(ctx)
}
