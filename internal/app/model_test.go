package app

import (
	"fmt"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lowaak/pulse/internal/catalog"
	"github.com/lowaak/pulse/internal/nav"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func newTestModel(t *testing.T, logChan <-chan string) *Model {
	t.Helper()
	stack := nav.NewStack(nav.Login(), testLogger())
	m := NewModel(stack, Settings{Intensity: "Normal", CountdownSound: true, Vibration: true}, testLogger(), logChan)
	t.Cleanup(m.Shutdown)
	return m
}

func TestNewModel_RequiresDependencies(t *testing.T) {
	assert.Panics(t, func() { NewModel(nil, Settings{}, testLogger(), nil) })
	assert.Panics(t, func() { NewModel(nav.NewStack(nav.Login(), testLogger()), Settings{}, nil, nil) })
}

func TestNewModel_Defaults(t *testing.T) {
	m := NewModel(nav.NewStack(nav.Login(), testLogger()), Settings{Intensity: "Extreme"}, testLogger(), nil)
	defer m.Shutdown()

	assert.Equal(t, "Normal", m.GetSettings().Intensity)
	assert.Equal(t, HomeState{TopTab: catalog.TopTabRecommend, BottomTab: catalog.BottomTabHome}, m.GetHome())
	assert.Equal(t, nav.RouteLogin, m.Nav().Current().Kind)
	assert.Nil(t, m.GetSession())
	assert.Empty(t, m.GetLogTail(10))
}

func TestModel_SetHomePublishesOnlyChanges(t *testing.T) {
	m := newTestModel(t, nil)

	ch := make(chan HomeState, 4)
	unregister := m.ListenToHome(ch)
	defer unregister()

	// Replayed on registration
	require.Len(t, ch, 1)
	<-ch

	m.SetHome(m.GetHome())
	assert.Len(t, ch, 0)

	settings := HomeState{TopTab: catalog.TopTabRecommend, BottomTab: catalog.BottomTabSettings}
	m.SetHome(settings)
	require.Len(t, ch, 1)
	assert.Equal(t, settings, <-ch)
}

func TestModel_UpdateSettings(t *testing.T) {
	m := newTestModel(t, nil)

	ch := make(chan Settings, 4)
	unregister := m.ListenToSettings(ch)
	defer unregister()
	<-ch

	m.UpdateSettings(func(s *Settings) { s.Vibration = true })
	assert.Len(t, ch, 0, "unchanged settings are not published")

	m.UpdateSettings(func(s *Settings) { s.DarkMode = true })
	require.Len(t, ch, 1)
	assert.True(t, (<-ch).DarkMode)
	assert.True(t, m.GetSettings().DarkMode)
}

func TestModel_LoginError(t *testing.T) {
	m := newTestModel(t, nil)

	m.SetLoginError("nope")
	assert.Equal(t, "nope", m.GetLogin().Error)

	m.SetLoginError("")
	assert.Empty(t, m.GetLogin().Error)
}

func TestModel_CloseApplication(t *testing.T) {
	m := newTestModel(t, nil)

	ch := make(chan struct{}, 1)
	unregister := m.ListenToCloseApplication(ch)
	defer unregister()

	m.RequestCloseApplication()
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("close request not delivered")
	}
}

func TestModel_LogTail(t *testing.T) {
	logChan := make(chan string)
	m := newTestModel(t, logChan)

	for i := 0; i < maxLogLines+5; i++ {
		logChan <- fmt.Sprintf("line %d", i)
	}

	require.Eventually(t, func() bool {
		tail := m.GetLogTail(1)
		return len(tail) == 1 && tail[0] == fmt.Sprintf("line %d", maxLogLines+4)
	}, time.Second, 5*time.Millisecond)

	all := m.GetLogTail(maxLogLines * 2)
	assert.Len(t, all, maxLogLines)
	assert.Equal(t, "line 5", all[0])

	assert.Equal(t, []string{"line 1003", "line 1004"}, m.GetLogTail(2))
	assert.Empty(t, m.GetLogTail(0))
}

func TestModel_ShutdownStopsLogReader(t *testing.T) {
	logChan := make(chan string)
	stack := nav.NewStack(nav.Login(), testLogger())
	m := NewModel(stack, Settings{}, testLogger(), logChan)

	done := make(chan struct{})
	go func() {
		m.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Shutdown did not return")
	}
}
