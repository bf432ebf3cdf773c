package in

import (
	"context"
	"errors"

	hclog "github.com/hashicorp/go-hclog"

	sleepdto "sleeptrack/internal/modules/sleep/dto"
	sleepin "sleeptrack/internal/modules/sleep/port/in"
	apperrors "sleeptrack/internal/platform/errors"
	"sleeptrack/internal/platform/format"
	"sleeptrack/internal/platform/observable"
	"sleeptrack/internal/platform/signal"
	"sleeptrack/internal/platform/worker"
)

// Coordinator mediates between the sleep usecase and a screen. Commands run
// one at a time on the coordinator's queue and stop with Close.
type Coordinator struct {
	usecase sleepin.Usecase
	log     hclog.Logger
	queue   *worker.Queue
	cancel  context.CancelFunc

	tonight *observable.Value[*sleepdto.NightOutput]
	nights  *observable.Value[[]sleepdto.NightOutput]
	state   *observable.Value[sleepdto.Snapshot]

	navigation   *signal.Event[sleepdto.NightOutput]
	confirmation *signal.Event[struct{}]
}

func NewCoordinator(parent context.Context, usecase sleepin.Usecase, log hclog.Logger, queueSize int) *Coordinator {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	ctx, cancel := context.WithCancel(parent)
	c := &Coordinator{
		usecase:      usecase,
		log:          log.Named("coordinator"),
		queue:        worker.NewQueue(ctx, queueSize),
		cancel:       cancel,
		tonight:      observable.New[*sleepdto.NightOutput](),
		nights:       observable.New[[]sleepdto.NightOutput](),
		navigation:   signal.NewEvent[sleepdto.NightOutput](),
		confirmation: signal.NewEvent[struct{}](),
	}
	c.state = observable.Combine(ctx, c.tonight, c.nights, deriveSnapshot)

	feed := usecase.Watch(ctx)
	go func() {
		for nights := range feed {
			c.nights.Set(nights)
		}
	}()
	c.Refresh()
	return c
}

func deriveSnapshot(tonight *sleepdto.NightOutput, nights []sleepdto.NightOutput) sleepdto.Snapshot {
	rows := make([]format.HistoryRow, 0, len(nights))
	for _, n := range nights {
		rows = append(rows, format.HistoryRow{Start: n.StartTime, End: n.EndTime, Quality: n.Quality})
	}
	return sleepdto.Snapshot{
		Tonight:      tonight,
		Nights:       nights,
		StartEnabled: tonight == nil,
		StopEnabled:  tonight != nil,
		ClearEnabled: len(nights) > 0,
		HistoryText:  format.History(rows),
	}
}

// ─── State ───

// Snapshot returns the latest derived state. ok is false until both the
// in-progress night and the history have loaded.
func (c *Coordinator) Snapshot() (sleepdto.Snapshot, bool) {
	return c.state.Get()
}

func (c *Coordinator) Subscribe(ctx context.Context) <-chan sleepdto.Snapshot {
	return c.state.Subscribe(ctx)
}

func (c *Coordinator) TakeNavigation() (sleepdto.NightOutput, bool) {
	return c.navigation.Take()
}

func (c *Coordinator) TakeConfirmation() bool {
	_, ok := c.confirmation.Take()
	return ok
}

func (c *Coordinator) NavigationReady() <-chan struct{} {
	return c.navigation.Ready()
}

func (c *Coordinator) ConfirmationReady() <-chan struct{} {
	return c.confirmation.Ready()
}

// ─── Commands ───

// Refresh re-reads the in-progress night.
func (c *Coordinator) Refresh() *worker.Future {
	return c.queue.Submit(func(ctx context.Context) error {
		return c.loadTonight(ctx)
	})
}

func (c *Coordinator) Begin() *worker.Future {
	return c.queue.Submit(func(ctx context.Context) error {
		c.log.Debug("begin night")
		if _, err := c.usecase.Begin(ctx); err != nil {
			return c.fail("begin night", err)
		}
		return c.loadTonight(ctx)
	})
}

// End finishes the in-progress night and asks the screen to rate it. Without
// a night in progress it does nothing.
func (c *Coordinator) End() *worker.Future {
	return c.queue.Submit(func(ctx context.Context) error {
		tonight, _ := c.tonight.Get()
		if tonight == nil {
			c.log.Debug("end ignored, no night in progress")
			return nil
		}
		c.log.Debug("end night", "id", tonight.ID)
		ended, err := c.usecase.End(ctx, sleepdto.EndInput{NightID: tonight.ID})
		if err != nil {
			return c.fail("end night", err)
		}
		c.tonight.Set(nil)
		c.navigation.Emit(ended)
		return nil
	})
}

func (c *Coordinator) Clear() *worker.Future {
	return c.queue.Submit(func(ctx context.Context) error {
		c.log.Debug("clear history")
		if err := c.usecase.Clear(ctx); err != nil {
			return c.fail("clear history", err)
		}
		c.tonight.Set(nil)
		c.confirmation.Emit(struct{}{})
		return nil
	})
}

func (c *Coordinator) Rate(id int64, quality int) *worker.Future {
	return c.queue.Submit(func(ctx context.Context) error {
		c.log.Debug("rate night", "id", id, "quality", quality)
		if _, err := c.usecase.Rate(ctx, sleepdto.RateInput{NightID: id, Quality: quality}); err != nil {
			return c.fail("rate night", err)
		}
		return nil
	})
}

// Night loads one night for the detail view. Reads bypass the queue.
func (c *Coordinator) Night(ctx context.Context, id int64) (sleepdto.NightOutput, error) {
	night, err := c.usecase.Get(ctx, id)
	if err != nil {
		return sleepdto.NightOutput{}, c.fail("load night", err)
	}
	return night, nil
}

// Close cancels pending commands and stops following the store.
func (c *Coordinator) Close() {
	c.queue.Close()
	c.cancel()
	c.tonight.Close()
	c.nights.Close()
}

func (c *Coordinator) loadTonight(ctx context.Context) error {
	night, err := c.usecase.Tonight(ctx)
	switch {
	case errors.Is(err, apperrors.ErrNoNightInProgress):
		c.tonight.Set(nil)
		return nil
	case err != nil:
		return c.fail("load tonight", err)
	}
	c.tonight.Set(&night)
	return nil
}

func (c *Coordinator) fail(action string, err error) error {
	if !errors.Is(err, context.Canceled) {
		c.log.Error(action+" failed", "error", err)
	}
	return err
}
