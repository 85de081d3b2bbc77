package out

import (
	"context"

	"chemviz/internal/modules/upload/domain"
)

// Analyzer submits one file to the analysis service.
type Analyzer interface {
	Analyze(ctx context.Context, pending domain.PendingUpload) (domain.AnalysisResult, error)
}

type FileSource interface {
	Stat(path string) (name string, size int64, err error)
	Read(path string) ([]byte, error)
}

// SessionGate is the view of the session this module needs: whether a
// token is present, and a way to drop it once the server rejects it.
type SessionGate interface {
	Present(ctx context.Context) bool
	Expire(ctx context.Context) error
}
