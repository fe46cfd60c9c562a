// Package session runs a single countdown against a chosen focus.
package session

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/sadopc/focuslog/internal/worklog"
)

// State is the lifecycle position of a Timer.
type State int

const (
	Running State = iota
	Paused
	Expired
	Cancelled
)

var stateNames = []string{"running", "paused", "expired", "cancelled"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Finished reports whether the timer has written its record.
func (s State) Finished() bool {
	return s == Expired || s == Cancelled
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock reads the wall clock.
var SystemClock Clock = systemClock{}

// Recorder receives the completed session.
type Recorder interface {
	Append(worklog.Entry) error
}

// Timer is one countdown session. It records itself exactly once, either
// when the countdown reaches zero or when it is cancelled.
type Timer struct {
	rec   Recorder
	clock Clock

	category  string
	focus     string
	requested time.Duration

	state       State
	startTime   time.Time
	pausedAt    time.Time
	totalPaused time.Duration
	endTime     time.Time
	recorded    int64
}

// Start begins a countdown of seconds against (category, focus).
func Start(rec Recorder, category, focus string, seconds int, clock Clock) *Timer {
	if clock == nil {
		clock = SystemClock
	}
	if seconds < 0 {
		seconds = 0
	}
	t := &Timer{
		rec:       rec,
		clock:     clock,
		category:  category,
		focus:     focus,
		requested: time.Duration(seconds) * time.Second,
		state:     Running,
		startTime: clock.Now(),
	}
	slog.Debug("session started", "category", category, "focus", focus, "seconds", seconds)
	return t
}

func (t *Timer) Category() string         { return t.category }
func (t *Timer) Focus() string            { return t.focus }
func (t *Timer) State() State             { return t.state }
func (t *Timer) Requested() time.Duration { return t.requested }
func (t *Timer) StartTime() time.Time     { return t.startTime }

// Recorded is the duration in seconds written to the log, once finished.
func (t *Timer) Recorded() int64 { return t.recorded }

// Toggle pauses a running timer or resumes a paused one.
func (t *Timer) Toggle() {
	now := t.clock.Now()
	switch t.state {
	case Running:
		t.state = Paused
		t.pausedAt = now
	case Paused:
		if gap := now.Sub(t.pausedAt); gap > 0 {
			t.totalPaused += gap
		}
		t.state = Running
	}
}

// Elapsed is the active time since start, excluding pauses.
func (t *Timer) Elapsed() time.Duration {
	var ref time.Time
	switch t.state {
	case Paused:
		ref = t.pausedAt
	case Expired, Cancelled:
		ref = t.endTime
	default:
		ref = t.clock.Now()
	}
	el := ref.Sub(t.startTime) - t.totalPaused
	if el < 0 {
		return 0
	}
	return el
}

// Remaining is never negative and is frozen while paused.
func (t *Timer) Remaining() time.Duration {
	if t.state == Expired {
		return 0
	}
	rem := t.requested - t.Elapsed()
	if rem < 0 {
		return 0
	}
	return rem
}

// Progress is the elapsed fraction of the requested duration, in [0, 1].
func (t *Timer) Progress() float64 {
	if t.requested <= 0 {
		return 1
	}
	p := float64(t.Elapsed()) / float64(t.requested)
	if p > 1 {
		return 1
	}
	return p
}

// Tick advances a running timer. When the countdown reaches zero the full
// requested duration is recorded and finished is true. Recording errors
// are returned but the timer still counts as finished.
func (t *Timer) Tick() (finished bool, err error) {
	if t.state.Finished() {
		return true, nil
	}
	if t.state != Running || t.Elapsed() < t.requested {
		return false, nil
	}
	return true, t.finish(Expired, int64(t.requested/time.Second))
}

// Cancel ends the session early and records the active time spent.
func (t *Timer) Cancel() error {
	if t.state.Finished() {
		return nil
	}
	secs := int64(t.Elapsed() / time.Second)
	if limit := int64(t.requested / time.Second); secs > limit {
		secs = limit
	}
	return t.finish(Cancelled, secs)
}

func (t *Timer) finish(state State, seconds int64) error {
	now := t.clock.Now()
	if t.state == Paused {
		t.totalPaused += now.Sub(t.pausedAt)
	}
	t.state = state
	t.endTime = now
	t.recorded = seconds

	err := t.rec.Append(worklog.Entry{
		Category: t.category,
		Focus:    t.focus,
		Start:    t.startTime,
		End:      now,
		Duration: seconds,
	})
	if err != nil {
		slog.Error("record session", "err", err)
		return fmt.Errorf("record session: %w", err)
	}
	slog.Debug("session finished", "state", state, "seconds", seconds)
	return nil
}
