package session

import (
	"log"
	"sync"

	"github.com/lowaak/pulse/internal/clock"
	"github.com/lowaak/pulse/internal/events"
)

// Snapshot is the timer state handed to listeners after every change
type Snapshot struct {
	Mode           Mode
	State          State
	ElapsedSeconds int // Remaining seconds in countdown mode, elapsed seconds in stopwatch mode
	TotalSeconds   int // Countdown target; zero for stopwatch
	Running        bool
	Completed      bool
	DisplayText    string // ElapsedSeconds as MM:SS
}

// Timer counts a training session down to zero or up from zero, one step per tick.
//
// At most one tick is pending at any time. Every pause, resume, restart and
// close cancels the pending tick, and a tick that fires late is discarded by
// comparing its generation, so a stale tick never mutates the counter.
type Timer struct {
	clock  clock.Clock
	logger *log.Logger

	mu           sync.Mutex
	mode         Mode
	totalSeconds int
	seconds      int
	running      bool
	closed       bool
	pending      clock.Timer
	generation   uint64

	snapshotEvent *events.Feed[Snapshot]
}

// NewTimerArg holds the arguments for creating a new Timer
type NewTimerArg struct {
	Mode    Mode
	Minutes int // Countdown target; negative values are clamped to zero
	Clock   clock.Clock
	Logger  *log.Logger
}

// NewTimer creates a running Timer and arms its first tick
func NewTimer(args NewTimerArg) *Timer {
	if args.Clock == nil {
		panic("Timer: clock cannot be nil")
	}
	if args.Logger == nil {
		panic("Timer: logger cannot be nil")
	}

	t := &Timer{
		clock:         args.Clock,
		logger:        args.Logger,
		mode:          args.Mode,
		totalSeconds:  ClampMinutes(args.Minutes) * 60,
		running:       true,
		snapshotEvent: events.NewFeed[Snapshot](true),
	}
	if t.mode == ModeStopwatch {
		t.totalSeconds = 0
	}
	t.seconds = t.initialSeconds()

	t.mu.Lock()
	t.armLocked()
	snap := t.snapshotLocked()
	t.mu.Unlock()

	t.logger.Printf("SessionTimer: created %s, %s", t.mode.DisplayName(), snap.DisplayText)
	t.snapshotEvent.Publish(snap)
	return t
}

// ListenToSnapshot registers a channel to receive a snapshot after every change.
// The latest snapshot is replayed on registration.
func (t *Timer) ListenToSnapshot(ch chan<- Snapshot) func() {
	return t.snapshotEvent.Listen(ch)
}

// Snapshot returns the current timer state
func (t *Timer) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

// Pause stops ticking. Pausing a paused timer has no effect.
func (t *Timer) Pause() {
	t.mu.Lock()
	if t.closed || !t.running {
		t.mu.Unlock()
		return
	}
	t.running = false
	t.cancelLocked()
	snap := t.snapshotLocked()
	t.mu.Unlock()

	t.logger.Printf("SessionTimer: paused at %s", snap.DisplayText)
	t.snapshotEvent.Publish(snap)
}

// Resume restarts ticking from the current value. Resuming a running timer has no effect.
func (t *Timer) Resume() {
	t.mu.Lock()
	if t.closed || t.running {
		t.mu.Unlock()
		return
	}
	t.running = true
	t.armLocked()
	snap := t.snapshotLocked()
	t.mu.Unlock()

	t.logger.Printf("SessionTimer: resumed at %s", snap.DisplayText)
	t.snapshotEvent.Publish(snap)
}

// Restart resets the counter to its initial value and resumes ticking,
// whatever the current state
func (t *Timer) Restart() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.seconds = t.initialSeconds()
	t.running = true
	t.armLocked()
	snap := t.snapshotLocked()
	t.mu.Unlock()

	t.logger.Printf("SessionTimer: restarted at %s", snap.DisplayText)
	t.snapshotEvent.Publish(snap)
}

// Close cancels any pending tick for good. Every later call is a no-op.
func (t *Timer) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.closed = true
	t.cancelLocked()
	t.logger.Printf("SessionTimer: closed at %s", FormatClock(t.seconds))
}

// Closed reports whether Close has been called
func (t *Timer) Closed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

// --- Private Methods ---

func (t *Timer) initialSeconds() int {
	if t.mode == ModeCountdown {
		return t.totalSeconds
	}
	return 0
}

// completedLocked reports whether a countdown has reached zero.
// MUST be called with mu held.
func (t *Timer) completedLocked() bool {
	return t.mode == ModeCountdown && t.seconds <= 0
}

// shouldTickLocked reports whether another tick may be scheduled.
// MUST be called with mu held.
func (t *Timer) shouldTickLocked() bool {
	return !t.closed && t.running && !t.completedLocked()
}

// cancelLocked drops the pending tick, if any, and invalidates ticks already in flight.
// MUST be called with mu held.
func (t *Timer) cancelLocked() {
	t.generation++
	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}
}

// armLocked replaces the pending tick with a fresh one when ticking should continue.
// MUST be called with mu held.
func (t *Timer) armLocked() {
	t.cancelLocked()
	if !t.shouldTickLocked() {
		return
	}
	gen := t.generation
	t.pending = t.clock.AfterFunc(TickInterval, func() { t.onTick(gen) })
}

func (t *Timer) onTick(gen uint64) {
	t.mu.Lock()
	if gen != t.generation {
		// cancelled after it was already on its way
		t.mu.Unlock()
		return
	}
	t.pending = nil
	if !t.shouldTickLocked() {
		t.mu.Unlock()
		return
	}

	if t.mode == ModeCountdown {
		t.seconds--
	} else {
		t.seconds++
	}
	completed := t.completedLocked()
	t.armLocked()
	snap := t.snapshotLocked()
	t.mu.Unlock()

	if completed {
		t.logger.Printf("SessionTimer: countdown complete")
	}
	t.snapshotEvent.Publish(snap)
}

// snapshotLocked builds a Snapshot from the current fields.
// MUST be called with mu held.
func (t *Timer) snapshotLocked() Snapshot {
	completed := t.completedLocked()
	state := StatePaused
	switch {
	case completed:
		state = StateCompleted
	case t.running:
		state = StateRunning
	}
	return Snapshot{
		Mode:           t.mode,
		State:          state,
		ElapsedSeconds: t.seconds,
		TotalSeconds:   t.totalSeconds,
		Running:        t.running,
		Completed:      completed,
		DisplayText:    FormatClock(t.seconds),
	}
}
