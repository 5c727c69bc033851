package session

import (
	"bytes"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lowaak/pulse/internal/clock"
)

type mockNavigator struct {
	mock.Mock
}

func (m *mockNavigator) Back() {
	m.Called()
}

func newTestController(t *testing.T, title string, minutes int, mode Mode) (*Controller, *mockNavigator, *clock.Manual) {
	t.Helper()
	nav := &mockNavigator{}
	nav.On("Back").Return()
	c := clock.NewManual(epoch)
	ctrl := NewController(NewControllerArg{
		Title:     title,
		Minutes:   minutes,
		Mode:      mode,
		Clock:     c,
		Navigator: nav,
		Logger:    testLogger(),
	})
	t.Cleanup(ctrl.Shutdown)
	return ctrl, nav, c
}

func TestNewController_RequiresDependencies(t *testing.T) {
	assert.Panics(t, func() {
		NewController(NewControllerArg{Clock: clock.NewManual(epoch), Logger: testLogger()})
	})
	assert.Panics(t, func() {
		NewController(NewControllerArg{Clock: clock.NewManual(epoch), Navigator: &mockNavigator{}})
	})
}

func TestController_CountdownScreen(t *testing.T) {
	ctrl, _, _ := newTestController(t, "Core Strength", 12, ModeCountdown)

	screen := ctrl.Screen()
	assert.Equal(t, "Core Strength", screen.Title)
	assert.Equal(t, "Countdown (Target: 12 min)", screen.Subtitle)
	assert.Equal(t, "Time Left", screen.TimeCaption)
	assert.Equal(t, "12:00", screen.Timer.DisplayText)
	assert.Equal(t, "Pause", screen.PauseResumeLabel)
	assert.Equal(t, ActionEndSession, screen.PrimaryAction)
	assert.Equal(t, "End Session", screen.PrimaryActionLabel)
	assert.True(t, screen.CanRestart)
	assert.False(t, screen.Exited)
}

func TestController_StopwatchScreen(t *testing.T) {
	ctrl, _, _ := newTestController(t, "5 km City Loop", 0, ModeStopwatch)

	screen := ctrl.Screen()
	assert.Equal(t, "Stopwatch", screen.Subtitle)
	assert.Equal(t, "Time", screen.TimeCaption)
	assert.Equal(t, "00:00", screen.Timer.DisplayText)
	assert.Equal(t, "End Session", screen.PrimaryActionLabel)
	assert.True(t, screen.CanRestart)
}

func TestController_PauseResumeToggle(t *testing.T) {
	ctrl, _, c := newTestController(t, "Running", 0, ModeStopwatch)

	tick(c, 3)
	ctrl.OnPauseResumeToggle()
	screen := ctrl.Screen()
	assert.Equal(t, "00:03", screen.Timer.DisplayText)
	assert.False(t, screen.Timer.Running)
	assert.Equal(t, "Resume", screen.PauseResumeLabel)

	ctrl.OnPauseResumeToggle()
	tick(c, 2)
	screen = ctrl.Screen()
	assert.Equal(t, "00:05", screen.Timer.DisplayText)
	assert.Equal(t, "Pause", screen.PauseResumeLabel)
}

func TestController_CountdownFinish(t *testing.T) {
	ctrl, nav, c := newTestController(t, "Abs Beginner", 1, ModeCountdown)

	tick(c, 60)
	screen := ctrl.Screen()
	assert.Equal(t, "00:00", screen.Timer.DisplayText)
	assert.True(t, screen.Timer.Completed)
	assert.Equal(t, ActionFinish, screen.PrimaryAction)
	assert.Equal(t, "Finish", screen.PrimaryActionLabel)
	assert.False(t, screen.CanRestart)

	ctrl.OnPrimaryAction()
	nav.AssertNumberOfCalls(t, "Back", 1)
	assert.True(t, ctrl.Exited())
	assert.True(t, ctrl.Timer().Closed())
}

func TestController_RestartFromCompleted(t *testing.T) {
	ctrl, nav, c := newTestController(t, "Abs Beginner", 1, ModeCountdown)

	tick(c, 60)
	ctrl.OnRestart()

	screen := ctrl.Screen()
	assert.Equal(t, "01:00", screen.Timer.DisplayText)
	assert.Equal(t, "End Session", screen.PrimaryActionLabel)
	assert.True(t, screen.CanRestart)
	nav.AssertNotCalled(t, "Back")
}

func TestController_RestartMidCountdown(t *testing.T) {
	ctrl, _, c := newTestController(t, "Yoga Balance", 2, ModeCountdown)

	tick(c, 10)
	ctrl.OnRestart()

	snap := ctrl.Screen().Timer
	assert.Equal(t, 120, snap.ElapsedSeconds)
	assert.True(t, snap.Running)
}

func TestController_EndSessionPopsOnce(t *testing.T) {
	ctrl, nav, c := newTestController(t, "HIIT Quick Session", 13, ModeCountdown)

	tick(c, 5)
	require.Equal(t, "End Session", ctrl.Screen().PrimaryActionLabel)

	ctrl.OnPrimaryAction()
	ctrl.OnPrimaryAction()
	ctrl.OnBack()

	nav.AssertNumberOfCalls(t, "Back", 1)
	assert.Equal(t, 0, c.Pending())

	// the timer is frozen where the session ended
	tick(c, 10)
	assert.Equal(t, "12:55", ctrl.Screen().Timer.DisplayText)
	assert.True(t, ctrl.Screen().Exited)
}

func TestController_TimerClosedBeforeNavigating(t *testing.T) {
	nav := &mockNavigator{}
	var ctrl *Controller
	nav.On("Back").Run(func(mock.Arguments) {
		assert.True(t, ctrl.Timer().Closed(), "no tick may fire after the screen is left")
	}).Return()

	ctrl = NewController(NewControllerArg{
		Title:     "Live HIIT Session",
		Minutes:   20,
		Mode:      ModeCountdown,
		Clock:     clock.NewManual(epoch),
		Navigator: nav,
		Logger:    testLogger(),
	})
	ctrl.OnBack()
	nav.AssertExpectations(t)
}

func TestController_IntentsIgnoredAfterExit(t *testing.T) {
	ctrl, _, c := newTestController(t, "Running", 0, ModeStopwatch)

	tick(c, 4)
	ctrl.OnBack()
	ctrl.OnRestart()
	ctrl.OnPauseResumeToggle()

	assert.Equal(t, 4, ctrl.Screen().Timer.ElapsedSeconds)
	assert.Equal(t, 0, c.Pending())
}

func TestController_ListenToScreen(t *testing.T) {
	ctrl, _, c := newTestController(t, "Running", 0, ModeStopwatch)

	screens := make(chan Screen, 64)
	unregister := ctrl.ListenToScreen(screens)
	defer unregister()

	tick(c, 3)

	deadline := time.After(time.Second)
	for {
		select {
		case s := <-screens:
			if s.Timer.DisplayText == "00:03" {
				assert.Equal(t, "Pause", s.PauseResumeLabel)
				return
			}
		case <-deadline:
			t.Fatal("Timeout waiting for 00:03 screen")
		}
	}
}

func TestController_ListenToScreenSeesExit(t *testing.T) {
	ctrl, _, _ := newTestController(t, "Squat Form", 8, ModeCountdown)

	screens := make(chan Screen, 64)
	ctrl.ListenToScreen(screens)
	ctrl.OnPrimaryAction()

	deadline := time.After(time.Second)
	for {
		select {
		case s := <-screens:
			if s.Exited {
				assert.Equal(t, "08:00", s.Timer.DisplayText)
				return
			}
		case <-deadline:
			t.Fatal("Timeout waiting for exit screen")
		}
	}
}

func TestController_ShutdownLogsOnce(t *testing.T) {
	var buf bytes.Buffer
	ctrl := NewController(NewControllerArg{
		Title:     "Evening Walk",
		Mode:      ModeStopwatch,
		Clock:     clock.NewManual(epoch),
		Navigator: &mockNavigator{},
		Logger:    log.New(&buf, "", 0),
	})

	ctrl.Shutdown()
	ctrl.Shutdown()

	assert.True(t, ctrl.Timer().Closed())
	assert.Equal(t, 1, strings.Count(buf.String(), `shutting down "Evening Walk"`))
}
