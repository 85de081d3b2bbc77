package in

import (
	"context"

	reportdto "chemviz/internal/modules/report/dto"
	reportin "chemviz/internal/modules/report/port/in"
)

type CLIHandler struct {
	usecase reportin.Usecase
}

func NewCLIHandler(usecase reportin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Export(ctx context.Context, outputDir string) (reportdto.ExportOutput, error) {
	return h.usecase.Export(ctx, reportdto.ExportInput{OutputDir: outputDir})
}
