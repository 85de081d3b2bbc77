package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	statsdomain "chemviz/internal/modules/stats/domain"
	"chemviz/internal/modules/upload/domain"
	uploaddto "chemviz/internal/modules/upload/dto"
	uploadin "chemviz/internal/modules/upload/port/in"
	uploadout "chemviz/internal/modules/upload/port/out"
	"chemviz/internal/modules/upload/service"
	apperrors "chemviz/internal/platform/errors"
)

type Interactor struct {
	ctrl     *service.Controller
	files    uploadout.FileSource
	session  uploadout.SessionGate
	maxBytes int64
	logger   *slog.Logger
}

func NewInteractor(ctrl *service.Controller, files uploadout.FileSource, session uploadout.SessionGate, maxBytes int64, logger *slog.Logger) uploadin.Usecase {
	if maxBytes <= 0 {
		maxBytes = domain.MaxFileBytes
	}
	return &Interactor{ctrl: ctrl, files: files, session: session, maxBytes: maxBytes, logger: logger}
}

func (i *Interactor) SelectFile(ctx context.Context, input uploaddto.SelectFileInput) (uploaddto.StateOutput, error) {
	if !i.session.Present(ctx) {
		return toOutput(i.ctrl.State()), apperrors.ErrNoSession
	}
	if !domain.CanSelect(i.ctrl.State()) {
		return toOutput(i.ctrl.State()), apperrors.ErrUploadInFlight
	}
	name, size, err := i.files.Stat(input.Path)
	if err != nil {
		return toOutput(i.ctrl.State()), fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}
	if err := domain.CheckFile(name, size, i.maxBytes); err != nil {
		return toOutput(i.ctrl.State()), err
	}
	content, err := i.files.Read(input.Path)
	if err != nil {
		return toOutput(i.ctrl.State()), fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}
	return i.SelectBlob(ctx, uploaddto.SelectBlobInput{Name: name, Content: content})
}

func (i *Interactor) SelectBlob(ctx context.Context, input uploaddto.SelectBlobInput) (uploaddto.StateOutput, error) {
	if !i.session.Present(ctx) {
		return toOutput(i.ctrl.State()), apperrors.ErrNoSession
	}
	pending, err := domain.NewPendingUpload(input.Name, input.Content, i.maxBytes)
	if err != nil {
		i.logger.Info("file rejected", "name", input.Name, "err", err)
		return toOutput(i.ctrl.State()), err
	}
	state, err := i.ctrl.Select(pending)
	if err != nil {
		return toOutput(state), err
	}
	i.logger.Debug("file selected", "name", pending.Name, "size", pending.Size())
	return toOutput(state), nil
}

// Run submits the pending file. There is no automatic retry: a failed run
// stays Failed until the user runs again.
func (i *Interactor) Run(ctx context.Context) (uploaddto.StateOutput, error) {
	if !i.session.Present(ctx) {
		return toOutput(i.ctrl.State()), apperrors.ErrNoSession
	}
	state, err := i.ctrl.Run(ctx)
	if err != nil {
		var uploadErr *apperrors.UploadError
		if errors.As(err, &uploadErr) {
			i.logger.Error("upload failed", "kind", uploadErr.Kind, "err", uploadErr.Err)
			if apperrors.SessionExpired(err) {
				if expireErr := i.session.Expire(ctx); expireErr != nil {
					i.logger.Error("expire session", "err", expireErr)
				}
			}
		}
		return toOutput(state), err
	}
	if pending, ok := domain.PendingOf(state); ok {
		i.logger.Info("upload analysed", "name", pending.Name, "size", pending.Size())
	}
	return toOutput(state), nil
}

func (i *Interactor) Reset(_ context.Context) (uploaddto.StateOutput, error) {
	state, err := i.ctrl.Reset()
	return toOutput(state), err
}

func (i *Interactor) State(_ context.Context) uploaddto.StateOutput {
	return toOutput(i.ctrl.State())
}

func toOutput(state domain.State) uploaddto.StateOutput {
	out := uploaddto.StateOutput{
		State:     state.Kind().String(),
		CanRun:    domain.CanRun(state),
		CanSelect: domain.CanSelect(state),
	}
	if pending, ok := domain.PendingOf(state); ok {
		out.FileName = pending.Name
		out.FileSize = pending.Size()
	}
	switch st := state.(type) {
	case domain.Succeeded:
		stats := statsdomain.Project(st.Result)
		out.Stats = &stats
	case domain.Failed:
		out.Err = st.Err
	}
	return out
}
