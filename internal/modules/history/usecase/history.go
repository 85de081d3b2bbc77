package usecase

import (
	"context"
	"log/slog"

	"chemviz/internal/modules/history/domain"
	historydto "chemviz/internal/modules/history/dto"
	historyin "chemviz/internal/modules/history/port/in"
	historyout "chemviz/internal/modules/history/port/out"
	"chemviz/internal/modules/history/service"
	apperrors "chemviz/internal/platform/errors"
)

type Interactor struct {
	loader  *service.Loader
	session historyout.SessionGate
	logger  *slog.Logger
}

func NewInteractor(loader *service.Loader, session historyout.SessionGate, logger *slog.Logger) historyin.Usecase {
	return &Interactor{loader: loader, session: session, logger: logger}
}

// Load refreshes the listing. On failure the previous records stay in the
// returned listing and the error is only logged as a warning by callers
// that have nothing better to show.
func (i *Interactor) Load(ctx context.Context) (historydto.ListingOutput, error) {
	if !i.session.Present(ctx) {
		return toOutput(i.loader.Current()), apperrors.ErrNoSession
	}
	listing, err := i.loader.Load(ctx)
	if err != nil {
		i.logger.Warn("history fetch failed", "err", err, "kept_records", len(listing.Records))
		if apperrors.SessionExpired(err) {
			if expireErr := i.session.Expire(ctx); expireErr != nil {
				i.logger.Error("expire session", "err", expireErr)
			}
		}
		return toOutput(listing), err
	}
	i.logger.Debug("history loaded", "records", len(listing.Records))
	return toOutput(listing), nil
}

// Reset drops the listing of the user who just signed out.
func (i *Interactor) Reset(_ context.Context) {
	i.loader.Reset()
}

func (i *Interactor) Current(_ context.Context) historydto.ListingOutput {
	return toOutput(i.loader.Current())
}

func toOutput(listing domain.Listing) historydto.ListingOutput {
	records := make([]historydto.RecordOutput, len(listing.Records))
	for idx, r := range listing.Records {
		records[idx] = historydto.RecordOutput{
			ID:             r.ID,
			UploadedAt:     r.UploadedAt,
			TotalEquipment: r.TotalEquipment,
			AvgFlowrate:    r.AvgFlowrate,
			AvgPressure:    r.AvgPressure,
			AvgTemperature: r.AvgTemperature,
		}
	}
	return historydto.ListingOutput{
		Records: records,
		Loaded:  listing.Loaded,
		Empty:   listing.Empty(),
		LastErr: listing.LastErr,
	}
}
