package out

import (
	"context"

	"chemviz/internal/modules/session/domain"
)

// TokenSlot is the one durable key-value slot that survives restarts.
type TokenSlot interface {
	Save(ctx context.Context, session domain.Session) error
	Load(ctx context.Context) (domain.Session, error)
	Clear(ctx context.Context) error
}

type Authenticator interface {
	ObtainToken(ctx context.Context, username, password string) (string, error)
}
