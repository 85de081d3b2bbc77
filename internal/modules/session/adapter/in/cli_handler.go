package in

import (
	"context"

	sessiondto "chemviz/internal/modules/session/dto"
	sessionin "chemviz/internal/modules/session/port/in"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Login(ctx context.Context, username, password string) (sessiondto.SessionOutput, error) {
	return h.usecase.Login(ctx, sessiondto.LoginInput{Username: username, Password: password})
}

func (h CLIHandler) Restore(ctx context.Context) (sessiondto.SessionOutput, error) {
	return h.usecase.Restore(ctx)
}

func (h CLIHandler) Logout(ctx context.Context) error {
	return h.usecase.Logout(ctx)
}

func (h CLIHandler) Current(ctx context.Context) sessiondto.SessionOutput {
	return h.usecase.Current(ctx)
}

// Present and Expire let other modules gate on the session without seeing
// the token itself.
func (h CLIHandler) Present(ctx context.Context) bool {
	return h.usecase.Current(ctx).Present
}

func (h CLIHandler) Expire(ctx context.Context) error {
	return h.usecase.Expire(ctx)
}
