package app

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	sleepdto "sleeptrack/internal/modules/sleep/dto"
	"sleeptrack/internal/platform/signal"
	"sleeptrack/internal/platform/worker"
	"sleeptrack/internal/ui/components"
)

type fakeSleep struct {
	mu       sync.Mutex
	queue    *worker.Queue
	calls    []string
	states   chan sleepdto.Snapshot
	navigate *signal.Event[sleepdto.NightOutput]
	confirm  *signal.Event[struct{}]
}

func newFakeSleep(t *testing.T) *fakeSleep {
	t.Helper()
	q := worker.NewQueue(context.Background(), 4)
	t.Cleanup(q.Close)
	return &fakeSleep{
		queue:    q,
		states:   make(chan sleepdto.Snapshot, 1),
		navigate: signal.NewEvent[sleepdto.NightOutput](),
		confirm:  signal.NewEvent[struct{}](),
	}
}

func (f *fakeSleep) record(name string) *worker.Future {
	return f.queue.Submit(func(context.Context) error {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.calls = append(f.calls, name)
		return nil
	})
}

func (f *fakeSleep) Subscribe(context.Context) <-chan sleepdto.Snapshot { return f.states }
func (f *fakeSleep) Begin() *worker.Future                              { return f.record("begin") }
func (f *fakeSleep) End() *worker.Future                                { return f.record("end") }
func (f *fakeSleep) Clear() *worker.Future                              { return f.record("clear") }
func (f *fakeSleep) Rate(int64, int) *worker.Future                     { return f.record("rate") }
func (f *fakeSleep) Night(_ context.Context, id int64) (sleepdto.NightOutput, error) {
	return sleepdto.NightOutput{ID: id, Quality: 2}, nil
}
func (f *fakeSleep) TakeNavigation() (sleepdto.NightOutput, bool) { return f.navigate.Take() }
func (f *fakeSleep) TakeConfirmation() bool {
	_, ok := f.confirm.Take()
	return ok
}
func (f *fakeSleep) NavigationReady() <-chan struct{}   { return f.navigate.Ready() }
func (f *fakeSleep) ConfirmationReady() <-chan struct{} { return f.confirm.Ready() }

func (f *fakeSleep) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func inProgressSnapshot() sleepdto.Snapshot {
	start := time.UnixMilli(0).UTC()
	tonight := sleepdto.NightOutput{ID: 1, StartTime: start, EndTime: start, Quality: -1, InProgress: true}
	return sleepdto.Snapshot{
		Tonight:      &tonight,
		Nights:       []sleepdto.NightOutput{tonight},
		StopEnabled:  true,
		ClearEnabled: true,
		HistoryText:  "## Sleep history\n",
	}
}

func TestSnapshotDrivesListAndButtons(t *testing.T) {
	t.Parallel()
	fake := newFakeSleep(t)
	m := NewModel(context.Background(), fake)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m, _ = update(t, m, snapshotMsg{snapshot: inProgressSnapshot(), ok: true})

	if got := m.nights.Nights(); len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("list should show the snapshot nights, got %+v", got)
	}
	if !strings.Contains(m.View(), "asleep since") {
		t.Fatalf("header should show the night in progress")
	}

	m, cmd := update(t, m, runes("s"))
	if cmd != nil || m.status != "start unavailable" {
		t.Fatalf("start must be disabled while a night is in progress, status=%q", m.status)
	}
	m, cmd = update(t, m, runes("x"))
	if cmd == nil {
		t.Fatalf("stop should run while a night is in progress")
	}
	if done, ok := cmd().(commandDoneMsg); !ok || done.err != nil || done.action != "stop" {
		t.Fatalf("unexpected command result: %#v", done)
	}
	if calls := fake.recorded(); len(calls) != 1 || calls[0] != "end" {
		t.Fatalf("expected a single end call, got %v", calls)
	}
}

func TestNavigationOpensRatingAndSubmits(t *testing.T) {
	t.Parallel()
	fake := newFakeSleep(t)
	m := NewModel(context.Background(), fake)
	fake.navigate.Emit(sleepdto.NightOutput{ID: 3, Quality: -1})

	m, _ = update(t, m, navigationMsg{})
	if !m.rating.Visible() || m.rating.Night().ID != 3 {
		t.Fatalf("navigation should open the rating prompt for night 3")
	}
	m, cmd := update(t, m, runes("5"))
	submit, ok := cmd().(components.RatingSubmitMsg)
	if !ok || submit.Quality != 5 {
		t.Fatalf("expected rating submit, got %#v", submit)
	}
	m, cmd = update(t, m, submit)
	if done := cmd().(commandDoneMsg); done.action != "rate" || done.err != nil {
		t.Fatalf("unexpected rate result: %#v", done)
	}

	// A second wake-up without a new emission does nothing.
	m, _ = update(t, m, navigationMsg{})
	if m.rating.Visible() {
		t.Fatalf("taken navigation must not reopen the prompt")
	}
}

func TestConfirmationFlashesClearedText(t *testing.T) {
	t.Parallel()
	fake := newFakeSleep(t)
	m := NewModel(context.Background(), fake)
	fake.confirm.Emit(struct{}{})

	m, _ = update(t, m, confirmationMsg{})
	if m.flash != ClearedText {
		t.Fatalf("expected confirmation flash, got %q", m.flash)
	}
	m, _ = update(t, m, flashExpiredMsg{seq: m.flashSeq - 1})
	if m.flash == "" {
		t.Fatalf("stale expiry must not clear a newer flash")
	}
	m, _ = update(t, m, flashExpiredMsg{seq: m.flashSeq})
	if m.flash != "" {
		t.Fatalf("flash should expire")
	}
}

func TestClickOpensDetail(t *testing.T) {
	t.Parallel()
	fake := newFakeSleep(t)
	m := NewModel(context.Background(), fake)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m, _ = update(t, m, snapshotMsg{snapshot: inProgressSnapshot(), ok: true})

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("enter on a row should report a click")
	}
	clicked := cmd()
	for {
		if batch, ok := clicked.(tea.BatchMsg); ok && len(batch) > 0 {
			clicked = batch[0]()
			continue
		}
		break
	}
	m, cmd = update(t, m, clicked)
	m, _ = update(t, m, cmd())
	if !m.showDetail || m.detail.ID != 1 {
		t.Fatalf("click should open the detail pane for night 1")
	}
	if !strings.Contains(m.View(), "Night #1") {
		t.Fatalf("detail pane missing from view")
	}
}
