package usecase

import (
	"context"
	"log/slog"

	reportdto "chemviz/internal/modules/report/dto"
	reportin "chemviz/internal/modules/report/port/in"
	reportout "chemviz/internal/modules/report/port/out"
	"chemviz/internal/modules/report/service"
	apperrors "chemviz/internal/platform/errors"
)

type Interactor struct {
	exporter   *service.Exporter
	session    reportout.SessionGate
	defaultDir string
	logger     *slog.Logger
}

func NewInteractor(exporter *service.Exporter, session reportout.SessionGate, defaultDir string, logger *slog.Logger) reportin.Usecase {
	return &Interactor{exporter: exporter, session: session, defaultDir: defaultDir, logger: logger}
}

func (i *Interactor) Export(ctx context.Context, input reportdto.ExportInput) (reportdto.ExportOutput, error) {
	if !i.session.Present(ctx) {
		return reportdto.ExportOutput{}, apperrors.ErrNoSession
	}
	dir := input.OutputDir
	if dir == "" {
		dir = i.defaultDir
	}
	export, err := i.exporter.Export(ctx, dir)
	if err != nil {
		i.logger.Warn("report export failed", "dir", dir, "err", err)
		if apperrors.SessionExpired(err) {
			if expireErr := i.session.Expire(ctx); expireErr != nil {
				i.logger.Error("expire session", "err", expireErr)
			}
		}
		return reportdto.ExportOutput{}, err
	}
	i.logger.Info("report saved", "path", export.Path, "bytes", export.Size, "pages", export.Pages)
	return reportdto.ExportOutput{Path: export.Path, Size: export.Size, Pages: export.Pages}, nil
}
