package out

import (
	"context"

	"chemviz/internal/modules/history/domain"
)

type Source interface {
	Fetch(ctx context.Context) ([]domain.Record, error)
}

type SessionGate interface {
	Present(ctx context.Context) bool
	Expire(ctx context.Context) error
}
