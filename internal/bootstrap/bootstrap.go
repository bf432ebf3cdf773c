package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	hclog "github.com/hashicorp/go-hclog"

	sleepinadapter "sleeptrack/internal/modules/sleep/adapter/in"
	sleepoutadapter "sleeptrack/internal/modules/sleep/adapter/out"
	sleepin "sleeptrack/internal/modules/sleep/port/in"
	sleepservice "sleeptrack/internal/modules/sleep/service"
	sleepusecase "sleeptrack/internal/modules/sleep/usecase"
	"sleeptrack/internal/platform/clock"
	"sleeptrack/internal/platform/config"
	uiapp "sleeptrack/internal/ui/app"
)

type App struct {
	Config   config.Config
	Log      hclog.Logger
	SleepCLI sleepinadapter.CLIHandler

	sleep   sleepin.Usecase
	store   *sleepoutadapter.SQLiteNightStore
	closers []io.Closer
}

// New wires the sleep module. log may be nil.
func New(cfg config.Config, log hclog.Logger) (*App, error) {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	store, err := sleepoutadapter.NewSQLiteNightStore(cfg.DBPath, log)
	if err != nil {
		return nil, fmt.Errorf("new night store: %w", err)
	}
	sleepUC := sleepusecase.NewInteractor(sleepservice.NewNightService(
		clock.SystemClock{},
		store,
		sleepoutadapter.NewMarkdownHistoryExporter(),
	))
	return &App{
		Config:   cfg,
		Log:      log,
		SleepCLI: sleepinadapter.NewCLIHandler(sleepUC),
		sleep:    sleepUC,
		store:    store,
	}, nil
}

// OwnCloser registers c to be closed after the store in Close.
func (a *App) OwnCloser(c io.Closer) {
	a.closers = append(a.closers, c)
}

func (a *App) Close() error {
	errs := []error{a.store.Close()}
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// RunTUI runs the terminal UI until the user quits. The coordinator and its
// pending commands are torn down on return.
func RunTUI(ctx context.Context, app *App) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	coordinator := sleepinadapter.NewCoordinator(ctx, app.sleep, app.Log, app.Config.QueueSize)
	defer coordinator.Close()

	app.Log.Info("tui started", "data", app.Config.DataDir)
	program := tea.NewProgram(uiapp.NewModel(ctx, coordinator), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		err = nil
	}
	app.Log.Info("tui stopped")
	return err
}
