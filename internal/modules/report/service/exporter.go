package service

import (
	"context"
	"errors"
	"fmt"

	"chemviz/internal/modules/report/domain"
	reportout "chemviz/internal/modules/report/port/out"
	apperrors "chemviz/internal/platform/errors"
)

type Exporter struct {
	source   reportout.Source
	verifier reportout.Verifier
	store    reportout.ArtifactStore
}

func NewExporter(source reportout.Source, verifier reportout.Verifier, store reportout.ArtifactStore) *Exporter {
	return &Exporter{source: source, verifier: verifier, store: store}
}

// Export fetches a fresh artifact and saves it as domain.Filename in dir.
// Nothing is written when fetching or verifying fails.
func (e *Exporter) Export(ctx context.Context, dir string) (domain.Export, error) {
	artifact, err := e.source.Fetch(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrReportNotAvailable) {
			return domain.Export{}, err
		}
		return domain.Export{}, fmt.Errorf("%w: report: %w", apperrors.ErrFetch, err)
	}
	if len(artifact.Data) == 0 {
		return domain.Export{}, fmt.Errorf("%w: report is empty", apperrors.ErrFetch)
	}

	pages := 0
	if artifact.IsPDF() {
		pages, err = e.verifier.Pages(artifact.Data)
		if err != nil {
			return domain.Export{}, fmt.Errorf("%w: report is not a readable pdf: %w", apperrors.ErrFetch, err)
		}
		if pages < 1 {
			return domain.Export{}, fmt.Errorf("%w: report pdf has no pages", apperrors.ErrFetch)
		}
	}

	path, err := e.store.Write(ctx, dir, domain.Filename, artifact.Data)
	if err != nil {
		return domain.Export{}, fmt.Errorf("save report: %w", err)
	}
	return domain.Export{Path: path, Size: int64(len(artifact.Data)), Pages: pages}, nil
}
