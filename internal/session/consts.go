package session

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TickInterval is the nominal spacing between two timer ticks
const TickInterval = 1 * time.Second

// Mode selects whether a session counts down from a target or up from zero
type Mode int

const (
	ModeCountdown Mode = iota // Decrements from the target duration to zero
	ModeStopwatch             // Increments from zero with no fixed end
)

var modeNames = map[Mode]string{
	ModeCountdown: "COUNTDOWN",
	ModeStopwatch: "STOPWATCH",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// DisplayName returns the human-readable mode name
func (m Mode) DisplayName() string {
	if m == ModeStopwatch {
		return "Stopwatch"
	}
	return "Countdown"
}

// ParseMode parses the upper-case mode name used in navigation routes
func ParseMode(s string) (Mode, bool) {
	for mode, name := range modeNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return mode, true
		}
	}
	return ModeCountdown, false
}

// State is the externally visible timer state
type State int

const (
	StateRunning   State = iota // Ticking
	StatePaused                 // Not ticking, waiting for resume
	StateCompleted              // Countdown sitting at zero
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "Running"
	case StatePaused:
		return "Paused"
	case StateCompleted:
		return "Completed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Action identifies the primary exit affordance on the session screen
type Action int

const (
	ActionEndSession Action = iota
	ActionFinish
)

func (a Action) Label() string {
	if a == ActionFinish {
		return "Finish"
	}
	return "End Session"
}

// Labels for the pause/resume toggle
const (
	LabelPause   = "Pause"
	LabelResume  = "Resume"
	LabelRestart = "Restart"
)

// ClampMinutes converts a configured duration to a non-negative minute count
func ClampMinutes(minutes int) int {
	if minutes < 0 {
		return 0
	}
	return minutes
}

// ParseMinutes parses a minute count carried over navigation.
// Negative or unparsable values become zero.
func ParseMinutes(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return ClampMinutes(v)
}

// FormatClock renders seconds as MM:SS. Minutes are not capped at 59.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
