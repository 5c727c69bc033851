package session

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/lowaak/pulse/internal/clock"
	"github.com/lowaak/pulse/internal/events"
	"github.com/lowaak/pulse/internal/go_func_utils"
)

// Navigator pops the session screen off the navigation stack
type Navigator interface {
	// Back returns to the screen that opened the session, exactly one level up
	Back()
}

// Screen is everything the session screen renders
type Screen struct {
	Title              string
	Subtitle           string // "Countdown (Target: N min)" or "Stopwatch"
	TimeCaption        string // "Time Left" or "Time"
	Timer              Snapshot
	PauseResumeLabel   string
	PrimaryAction      Action
	PrimaryActionLabel string
	CanRestart         bool // Restart is offered next to End Session only
	Exited             bool
}

// Controller binds session screen intents to a Timer and decides which
// actions the screen offers
type Controller struct {
	title     string
	minutes   int
	timer     *Timer
	navigator Navigator
	logger    *log.Logger

	mu     sync.Mutex
	exited bool

	screenEvent *events.Feed[Screen]
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
}

// NewControllerArg holds the arguments for creating a new Controller
type NewControllerArg struct {
	Title     string
	Minutes   int
	Mode      Mode
	Clock     clock.Clock
	Navigator Navigator
	Logger    *log.Logger
}

// NewController opens a session: it creates a running Timer and starts
// translating timer snapshots into Screen updates
func NewController(args NewControllerArg) *Controller {
	if args.Navigator == nil {
		panic("SessionController: navigator cannot be nil")
	}
	if args.Logger == nil {
		panic("SessionController: logger cannot be nil")
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		title:       args.Title,
		minutes:     ClampMinutes(args.Minutes),
		navigator:   args.Navigator,
		logger:      args.Logger,
		screenEvent: events.NewFeed[Screen](true),
		ctx:         ctx,
		cancel:      cancel,
	}
	c.timer = NewTimer(NewTimerArg{
		Mode:    args.Mode,
		Minutes: args.Minutes,
		Clock:   args.Clock,
		Logger:  args.Logger,
	})
	c.logger.Printf("SessionController: opened %q (%d min, %s)", c.title, c.minutes, args.Mode.DisplayName())

	// Publish synchronously once so the screen never renders empty
	c.screenEvent.Publish(c.Screen())

	c.wg.Add(1)
	go_func_utils.SafeGo(c.logger, "SessionController.listenToTimer", func() { c.listenToTimer() })

	return c
}

// Timer returns the session timer
func (c *Controller) Timer() *Timer {
	return c.timer
}

// Title returns the workout title the session was opened with
func (c *Controller) Title() string {
	return c.title
}

// ListenToScreen registers a channel to receive screen updates.
// The latest screen is replayed on registration.
func (c *Controller) ListenToScreen(ch chan<- Screen) func() {
	return c.screenEvent.Listen(ch)
}

// Screen computes the current screen from the timer state
func (c *Controller) Screen() Screen {
	c.mu.Lock()
	exited := c.exited
	c.mu.Unlock()
	return c.buildScreen(c.timer.Snapshot(), exited)
}

// OnPauseResumeToggle pauses a running timer and resumes a paused one
func (c *Controller) OnPauseResumeToggle() {
	if c.isExited() {
		return
	}
	if c.timer.Snapshot().Running {
		c.timer.Pause()
	} else {
		c.timer.Resume()
	}
}

// OnRestart resets the timer to its initial value and sets it running
func (c *Controller) OnRestart() {
	if c.isExited() {
		return
	}
	c.timer.Restart()
}

// OnPrimaryAction runs Finish on a completed countdown and End Session
// otherwise. Both leave the session.
func (c *Controller) OnPrimaryAction() {
	snap := c.timer.Snapshot()
	action := primaryActionFor(snap)
	c.exit(action.Label())
}

// OnBack leaves the session the same way End Session does
func (c *Controller) OnBack() {
	c.exit("Back")
}

// Exited reports whether the session has been left
func (c *Controller) Exited() bool {
	return c.isExited()
}

// Shutdown tears the session down without navigating
func (c *Controller) Shutdown() {
	if !c.timer.Closed() {
		c.logger.Printf("SessionController: shutting down %q", c.title)
	}
	c.timer.Close()
	c.cancel()
	c.wg.Wait()
}

// --- Private Methods ---

func (c *Controller) isExited() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.exited
}

// exit closes the timer and pops one navigation level. Only the first call has effect.
func (c *Controller) exit(reason string) {
	c.mu.Lock()
	if c.exited {
		c.mu.Unlock()
		c.logger.Printf("SessionController: %s ignored, session already left", reason)
		return
	}
	c.exited = true
	c.mu.Unlock()

	c.Shutdown()
	final := c.buildScreen(c.timer.Snapshot(), true)
	c.logger.Printf("SessionController: %s on %q at %s", reason, c.title, final.Timer.DisplayText)
	c.screenEvent.Publish(final)

	c.navigator.Back()
}

func (c *Controller) listenToTimer() {
	defer c.wg.Done()

	ch := make(chan Snapshot, 1)
	unregister := c.timer.ListenToSnapshot(ch)
	defer unregister()

	for {
		select {
		case <-c.ctx.Done():
			return
		case _, ok := <-ch:
			if !ok {
				return
			}
			// Re-read instead of using the received value: a send dropped on
			// a full channel must not leave the screen on an older snapshot
			c.screenEvent.Publish(c.Screen())
		}
	}
}

func (c *Controller) buildScreen(snap Snapshot, exited bool) Screen {
	action := primaryActionFor(snap)
	screen := Screen{
		Title:              c.title,
		Timer:              snap,
		PauseResumeLabel:   LabelResume,
		PrimaryAction:      action,
		PrimaryActionLabel: action.Label(),
		CanRestart:         action != ActionFinish,
		Exited:             exited,
	}
	if snap.Running {
		screen.PauseResumeLabel = LabelPause
	}
	if snap.Mode == ModeCountdown {
		screen.Subtitle = fmt.Sprintf("Countdown (Target: %d min)", c.minutes)
		screen.TimeCaption = "Time Left"
	} else {
		screen.Subtitle = "Stopwatch"
		screen.TimeCaption = "Time"
	}
	return screen
}

func primaryActionFor(snap Snapshot) Action {
	if snap.Mode == ModeCountdown && snap.ElapsedSeconds == 0 {
		return ActionFinish
	}
	return ActionEndSession
}
