package in

import (
	"context"

	"chemviz/internal/modules/session/dto"
)

type Usecase interface {
	Login(ctx context.Context, input dto.LoginInput) (dto.SessionOutput, error)
	Restore(ctx context.Context) (dto.SessionOutput, error)
	Logout(ctx context.Context) error
	Current(ctx context.Context) dto.SessionOutput
	Expire(ctx context.Context) error
}
