package session

import (
	"errors"
	"testing"
	"time"

	"github.com/sadopc/focuslog/internal/worklog"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time           { return c.now }
func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

type memRecorder struct {
	entries []worklog.Entry
	err     error
}

func (r *memRecorder) Append(e worklog.Entry) error {
	r.entries = append(r.entries, e)
	return r.err
}

func newTestTimer(t *testing.T, seconds int) (*Timer, *fakeClock, *memRecorder) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.Local)}
	rec := &memRecorder{}
	return Start(rec, "Work", "Deep", seconds, clock), clock, rec
}

// ============================================================
// Arithmetic
// ============================================================

func TestPausedIntervalExcluded(t *testing.T) {
	tm, clock, _ := newTestTimer(t, 300)

	clock.advance(50 * time.Second)
	tm.Toggle()
	clock.advance(10 * time.Second)
	tm.Toggle()
	clock.advance(240 * time.Second)

	if finished, err := tm.Tick(); finished || err != nil {
		t.Fatalf("tick = %v, %v", finished, err)
	}
	if got := tm.Remaining(); got != 10*time.Second {
		t.Fatalf("remaining = %v, want 10s", got)
	}
}

func TestRemainingFrozenWhilePaused(t *testing.T) {
	tm, clock, _ := newTestTimer(t, 60)
	clock.advance(20 * time.Second)
	tm.Toggle()
	before := tm.Remaining()
	clock.advance(time.Hour)
	tm.Tick()
	if tm.Remaining() != before {
		t.Fatalf("remaining moved while paused: %v -> %v", before, tm.Remaining())
	}
	if tm.State() != Paused {
		t.Fatalf("state = %v", tm.State())
	}
}

func TestRemainingNeverNegative(t *testing.T) {
	tm, clock, _ := newTestTimer(t, 5)
	clock.advance(time.Minute)
	if tm.Remaining() != 0 {
		t.Fatalf("remaining = %v", tm.Remaining())
	}
	if tm.Progress() != 1 {
		t.Fatalf("progress = %v", tm.Progress())
	}
}

func TestProgress(t *testing.T) {
	tm, clock, _ := newTestTimer(t, 100)
	clock.advance(25 * time.Second)
	if p := tm.Progress(); p != 0.25 {
		t.Fatalf("progress = %v, want 0.25", p)
	}
}

// ============================================================
// Termination
// ============================================================

func TestExpiryRecordsFullDuration(t *testing.T) {
	tm, clock, rec := newTestTimer(t, 1)
	start := clock.now
	clock.advance(1500 * time.Millisecond)

	finished, err := tm.Tick()
	if !finished || err != nil {
		t.Fatalf("tick = %v, %v", finished, err)
	}
	if tm.State() != Expired {
		t.Fatalf("state = %v", tm.State())
	}
	if len(rec.entries) != 1 {
		t.Fatalf("expected 1 record, got %d", len(rec.entries))
	}
	got := rec.entries[0]
	if got.Category != "Work" || got.Focus != "Deep" || got.Duration != 1 {
		t.Fatalf("record = %+v", got)
	}
	if !got.Start.Equal(start) || !got.End.Equal(clock.now) {
		t.Fatalf("times = %v..%v", got.Start, got.End)
	}
}

func TestCancelRecordsElapsed(t *testing.T) {
	tm, clock, rec := newTestTimer(t, 1500)
	clock.advance(90 * time.Second)
	tm.Toggle()
	clock.advance(30 * time.Second)
	tm.Toggle()
	clock.advance(10*time.Second + 900*time.Millisecond)

	if err := tm.Cancel(); err != nil {
		t.Fatal(err)
	}
	if tm.State() != Cancelled {
		t.Fatalf("state = %v", tm.State())
	}
	if rec.entries[0].Duration != 100 {
		t.Fatalf("duration = %d, want 100", rec.entries[0].Duration)
	}
}

func TestCancelWhilePausedUsesPausePoint(t *testing.T) {
	tm, clock, rec := newTestTimer(t, 600)
	clock.advance(40 * time.Second)
	tm.Toggle()
	clock.advance(5 * time.Minute)

	if err := tm.Cancel(); err != nil {
		t.Fatal(err)
	}
	if rec.entries[0].Duration != 40 {
		t.Fatalf("duration = %d, want 40", rec.entries[0].Duration)
	}
	if tm.Elapsed() != 40*time.Second {
		t.Fatalf("elapsed after cancel = %v", tm.Elapsed())
	}
}

func TestRecordsExactlyOnce(t *testing.T) {
	tm, clock, rec := newTestTimer(t, 2)
	clock.advance(3 * time.Second)
	tm.Tick()
	tm.Tick()
	tm.Cancel()
	tm.Toggle()
	if len(rec.entries) != 1 {
		t.Fatalf("expected exactly one record, got %d", len(rec.entries))
	}
	if tm.State() != Expired {
		t.Fatalf("state = %v", tm.State())
	}
}

func TestRecorderErrorStillFinishes(t *testing.T) {
	tm, clock, rec := newTestTimer(t, 1)
	rec.err = errors.New("read-only fs")
	clock.advance(time.Second)

	finished, err := tm.Tick()
	if !finished || err == nil {
		t.Fatalf("tick = %v, %v", finished, err)
	}
	if !errors.Is(err, rec.err) {
		t.Fatalf("error not wrapped: %v", err)
	}
	tm.Tick()
	if len(rec.entries) != 1 {
		t.Fatalf("retried append: %d", len(rec.entries))
	}
}

func TestNilClockUsesSystem(t *testing.T) {
	tm := Start(&memRecorder{}, "A", "B", 60, nil)
	if tm.State() != Running || tm.Remaining() <= 0 {
		t.Fatalf("unexpected timer state %v remaining %v", tm.State(), tm.Remaining())
	}
}

func TestStateString(t *testing.T) {
	if Paused.String() != "paused" || State(42).String() != "unknown" {
		t.Fatal("unexpected state names")
	}
}
