package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	historyinadapter "chemviz/internal/modules/history/adapter/in"
	historyoutadapter "chemviz/internal/modules/history/adapter/out"
	historyservice "chemviz/internal/modules/history/service"
	historyusecase "chemviz/internal/modules/history/usecase"
	reportinadapter "chemviz/internal/modules/report/adapter/in"
	reportoutadapter "chemviz/internal/modules/report/adapter/out"
	reportservice "chemviz/internal/modules/report/service"
	reportusecase "chemviz/internal/modules/report/usecase"
	sessioninadapter "chemviz/internal/modules/session/adapter/in"
	sessionoutadapter "chemviz/internal/modules/session/adapter/out"
	sessionout "chemviz/internal/modules/session/port/out"
	sessionservice "chemviz/internal/modules/session/service"
	sessionusecase "chemviz/internal/modules/session/usecase"
	uploadinadapter "chemviz/internal/modules/upload/adapter/in"
	uploadoutadapter "chemviz/internal/modules/upload/adapter/out"
	uploadservice "chemviz/internal/modules/upload/service"
	uploadusecase "chemviz/internal/modules/upload/usecase"
	"chemviz/internal/platform/clock"
	"chemviz/internal/platform/config"
	"chemviz/internal/platform/httpapi"
	"chemviz/internal/platform/logging"
	uiapp "chemviz/internal/ui/app"
)

type App struct {
	SessionCLI sessioninadapter.CLIHandler
	UploadCLI  uploadinadapter.CLIHandler
	HistoryCLI historyinadapter.CLIHandler
	ReportCLI  reportinadapter.CLIHandler

	Config  config.Config
	Logger  *slog.Logger
	closers []io.Closer
}

// New wires every module and restores the stored session, if any. The
// caller must Close the app.
func New(cfg config.Config) (*App, error) {
	logger, logCloser, err := logging.Open(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	app := &App{Config: cfg, Logger: logger, closers: []io.Closer{logCloser}}

	slot, err := newTokenSlot(cfg, app)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	client := httpapi.New(cfg.BaseURL,
		httpapi.WithTimeout(cfg.RequestTimeout),
		httpapi.WithLogger(logger.With("component", "http")),
	)
	sessionSvc := sessionservice.NewSessionService(clock.SystemClock{}, slot, sessionoutadapter.NewHTTPAuthenticator(client))
	sessionCLI := sessioninadapter.NewCLIHandler(sessionusecase.NewInteractor(sessionSvc, logger.With("module", "session")))
	authed := client.WithTokens(sessionSvc)

	uploadUC := uploadusecase.NewInteractor(
		uploadservice.NewController(uploadoutadapter.NewHTTPAnalyzer(authed)),
		uploadoutadapter.NewLocalFileSource(),
		sessionCLI,
		cfg.MaxUploadBytes,
		logger.With("module", "upload"),
	)
	historyUC := historyusecase.NewInteractor(
		historyservice.NewLoader(historyoutadapter.NewHTTPSource(authed)),
		sessionCLI,
		logger.With("module", "history"),
	)
	reportUC := reportusecase.NewInteractor(
		reportservice.NewExporter(
			reportoutadapter.NewHTTPSource(authed),
			reportoutadapter.NewPDFVerifier(),
			reportoutadapter.NewLocalArtifactStore(),
		),
		sessionCLI,
		cfg.OutputDir,
		logger.With("module", "report"),
	)

	app.SessionCLI = sessionCLI
	app.UploadCLI = uploadinadapter.NewCLIHandler(uploadUC)
	app.HistoryCLI = historyinadapter.NewCLIHandler(historyUC)
	app.ReportCLI = reportinadapter.NewCLIHandler(reportUC)

	// An unreadable slot starts the app logged out rather than not at all.
	if _, err := sessionCLI.Restore(context.Background()); err != nil {
		logger.Warn("stored session ignored", "err", err)
	}
	logger.Debug("app ready", "base_url", cfg.BaseURL, "session_store", cfg.SessionStore)
	return app, nil
}

func newTokenSlot(cfg config.Config, app *App) (sessionout.TokenSlot, error) {
	if cfg.SessionStore != config.StoreSQLite {
		return sessionoutadapter.NewFileTokenSlot(cfg.StateDir), nil
	}
	slot, err := sessionoutadapter.NewSQLiteTokenSlot(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	app.closers = append(app.closers, slot)
	return slot, nil
}

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(app.SessionCLI, app.UploadCLI, app.HistoryCLI, app.ReportCLI, app.Config.OutputDir)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
