package out

import (
	"context"

	"chemviz/internal/modules/report/domain"
)

type Source interface {
	Fetch(ctx context.Context) (domain.Artifact, error)
}

// Verifier returns the page count of a PDF document.
type Verifier interface {
	Pages(data []byte) (int, error)
}

type ArtifactStore interface {
	Write(ctx context.Context, dir, name string, data []byte) (string, error)
}

type SessionGate interface {
	Present(ctx context.Context) bool
	Expire(ctx context.Context) error
}
