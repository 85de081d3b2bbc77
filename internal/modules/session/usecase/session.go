package usecase

import (
	"context"
	"log/slog"

	"chemviz/internal/modules/session/domain"
	sessiondto "chemviz/internal/modules/session/dto"
	sessionin "chemviz/internal/modules/session/port/in"
	"chemviz/internal/modules/session/service"
)

type Interactor struct {
	svc    *service.SessionService
	logger *slog.Logger
}

func NewInteractor(svc *service.SessionService, logger *slog.Logger) sessionin.Usecase {
	return &Interactor{svc: svc, logger: logger}
}

func (i *Interactor) Login(ctx context.Context, input sessiondto.LoginInput) (sessiondto.SessionOutput, error) {
	session, err := i.svc.Login(ctx, input.Username, input.Password)
	if err != nil {
		// Network failures and rejected credentials look the same to the
		// user; the log keeps them apart.
		i.logger.Warn("login failed", "username", input.Username, "err", err)
		return sessiondto.SessionOutput{}, err
	}
	i.logger.Info("login succeeded", "username", session.Username)
	return toOutput(session), nil
}

func (i *Interactor) Restore(ctx context.Context) (sessiondto.SessionOutput, error) {
	session, err := i.svc.Restore(ctx)
	if err != nil {
		i.logger.Error("restore session", "err", err)
		return sessiondto.SessionOutput{}, err
	}
	return toOutput(session), nil
}

func (i *Interactor) Logout(ctx context.Context) error {
	if err := i.svc.Logout(ctx); err != nil {
		i.logger.Error("logout", "err", err)
		return err
	}
	i.logger.Info("logged out")
	return nil
}

func (i *Interactor) Current(_ context.Context) sessiondto.SessionOutput {
	return toOutput(i.svc.Current())
}

// Expire drops a token the server no longer accepts.
func (i *Interactor) Expire(ctx context.Context) error {
	if !i.svc.Current().Present() {
		return nil
	}
	i.logger.Warn("session token rejected by server, logging out")
	return i.svc.Logout(ctx)
}

func toOutput(session domain.Session) sessiondto.SessionOutput {
	return sessiondto.SessionOutput{
		Present:  session.Present(),
		Username: session.Username,
		IssuedAt: session.IssuedAt,
	}
}
