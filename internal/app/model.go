package app

import (
	"context"
	"log"
	"sync"

	"github.com/lowaak/pulse/internal/bodymetrics"
	"github.com/lowaak/pulse/internal/catalog"
	"github.com/lowaak/pulse/internal/events"
	"github.com/lowaak/pulse/internal/go_func_utils"
	"github.com/lowaak/pulse/internal/nav"
	"github.com/lowaak/pulse/internal/session"
)

// HomeState is the tab selection of the main screen
type HomeState struct {
	TopTab    catalog.TopTab
	BottomTab catalog.BottomTab
}

// Settings holds the preferences shown on the settings screen
type Settings struct {
	Intensity      string
	CountdownSound bool
	Vibration      bool
	DarkMode       bool
}

// BodyMetricsState is the body-metric form content and what it yields
type BodyMetricsState struct {
	Input  bodymetrics.Input
	Result bodymetrics.Result
}

// LoginState carries the login form's validation message
type LoginState struct {
	Error string
}

// SearchState is the home search box and its matches
type SearchState struct {
	Query   string
	Results []catalog.WorkoutMeta
}

// Model is the application state. Views read it and listen to its feeds;
// only the Controller writes to it.
type Model struct {
	stack *nav.Stack

	logEvent              *events.Feed[string]
	homeEvent             *events.Feed[HomeState]
	home                  HomeState
	settingsEvent         *events.Feed[Settings]
	settings              Settings
	bodyMetricsEvent      *events.Feed[BodyMetricsState]
	bodyMetrics           BodyMetricsState
	loginEvent            *events.Feed[LoginState]
	login                 LoginState
	searchEvent           *events.Feed[SearchState]
	search                SearchState
	sessionEvent          *events.Feed[*session.Controller]
	closeApplicationEvent *events.Feed[struct{}]

	logLines []string
	logMu    sync.RWMutex
	mu       sync.RWMutex
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	logger   *log.Logger
}

const maxLogLines = 1000

// NewModel creates the model around a navigation stack. uiLogChan feeds the
// on-screen log and may be nil when no log is shown.
func NewModel(stack *nav.Stack, settings Settings, logger *log.Logger, uiLogChan <-chan string) *Model {
	if stack == nil {
		panic("Model: stack cannot be nil")
	}
	if logger == nil {
		panic("Model: logger cannot be nil")
	}
	if !catalog.ValidIntensity(settings.Intensity) {
		settings.Intensity = "Normal"
	}

	ctx, cancel := context.WithCancel(context.Background())
	model := &Model{
		stack:                 stack,
		logEvent:              events.NewFeed[string](false),
		homeEvent:             events.NewFeed[HomeState](true),
		home:                  HomeState{TopTab: catalog.TopTabRecommend, BottomTab: catalog.BottomTabHome},
		settingsEvent:         events.NewFeed[Settings](true),
		settings:              settings,
		bodyMetricsEvent:      events.NewFeed[BodyMetricsState](true),
		loginEvent:            events.NewFeed[LoginState](true),
		searchEvent:           events.NewFeed[SearchState](true),
		sessionEvent:          events.NewFeed[*session.Controller](true),
		closeApplicationEvent: events.NewFeed[struct{}](true),
		logLines:              make([]string, 0, maxLogLines),
		ctx:                   ctx,
		cancel:                cancel,
		logger:                logger,
	}
	model.homeEvent.Publish(model.home)
	model.settingsEvent.Publish(model.settings)
	model.bodyMetricsEvent.Publish(model.bodyMetrics)

	if uiLogChan != nil {
		model.wg.Add(1)
		go_func_utils.SafeGo(model.logger, "Model.readFromLogChannel", func() { model.readFromLogChannel(ctx, uiLogChan) })
	}

	return model
}

// Shutdown stops all goroutines and waits for them to finish
func (m *Model) Shutdown() {
	m.logger.Println("Model: Shutting down")
	m.cancel()
	m.wg.Wait()
	m.logger.Println("Model: Shutdown complete")
}

// Nav returns the navigation stack
func (m *Model) Nav() *nav.Stack {
	return m.stack
}

// ListenToRoute registers a channel to receive the current route after every navigation
func (m *Model) ListenToRoute(ch chan<- nav.Route) func() {
	return m.stack.ListenToRoute(ch)
}

// ListenToLog registers a channel to receive log lines
func (m *Model) ListenToLog(ch chan<- string) func() {
	return m.logEvent.Listen(ch)
}

// ListenToCloseApplication registers a channel to receive close application signals
func (m *Model) ListenToCloseApplication(ch chan<- struct{}) func() {
	return m.closeApplicationEvent.Listen(ch)
}

// RequestCloseApplication signals that the application should close
func (m *Model) RequestCloseApplication() {
	m.closeApplicationEvent.Publish(struct{}{})
}

// --- Home tabs ---

func (m *Model) ListenToHome(ch chan<- HomeState) func() {
	return m.homeEvent.Listen(ch)
}

func (m *Model) GetHome() HomeState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.home
}

// SetHome updates the tab selection and notifies listeners when it changed
func (m *Model) SetHome(home HomeState) {
	m.mu.Lock()
	if m.home == home {
		m.mu.Unlock()
		return
	}
	m.home = home
	m.mu.Unlock()

	m.homeEvent.Publish(home)
}

// --- Settings ---

func (m *Model) ListenToSettings(ch chan<- Settings) func() {
	return m.settingsEvent.Listen(ch)
}

func (m *Model) GetSettings() Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings
}

// UpdateSettings applies fn to a copy of the settings and publishes the result
func (m *Model) UpdateSettings(fn func(*Settings)) {
	m.mu.Lock()
	s := m.settings
	fn(&s)
	if s == m.settings {
		m.mu.Unlock()
		return
	}
	m.settings = s
	m.mu.Unlock()

	m.settingsEvent.Publish(s)
}

// --- Body metrics ---

func (m *Model) ListenToBodyMetrics(ch chan<- BodyMetricsState) func() {
	return m.bodyMetricsEvent.Listen(ch)
}

func (m *Model) GetBodyMetrics() BodyMetricsState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bodyMetrics
}

func (m *Model) SetBodyMetrics(state BodyMetricsState) {
	m.mu.Lock()
	m.bodyMetrics = state
	m.mu.Unlock()

	m.bodyMetricsEvent.Publish(state)
}

// --- Login ---

func (m *Model) ListenToLogin(ch chan<- LoginState) func() {
	return m.loginEvent.Listen(ch)
}

func (m *Model) GetLogin() LoginState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.login
}

func (m *Model) SetLoginError(msg string) {
	m.mu.Lock()
	m.login.Error = msg
	state := m.login
	m.mu.Unlock()

	m.loginEvent.Publish(state)
}

// --- Search ---

func (m *Model) ListenToSearch(ch chan<- SearchState) func() {
	return m.searchEvent.Listen(ch)
}

func (m *Model) GetSearch() SearchState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.search
}

func (m *Model) SetSearch(state SearchState) {
	m.mu.Lock()
	m.search = state
	m.mu.Unlock()

	m.searchEvent.Publish(state)
}

// --- Session ---

// ListenToSession registers a channel to receive the live session controller,
// or nil once the session screen is left
func (m *Model) ListenToSession(ch chan<- *session.Controller) func() {
	return m.sessionEvent.Listen(ch)
}

func (m *Model) GetSession() *session.Controller {
	s, _ := m.sessionEvent.Last()
	return s
}

func (m *Model) SetSession(s *session.Controller) {
	m.sessionEvent.Publish(s)
}

// --- Log ---

// readFromLogChannel reads log lines from the channel and populates logLines
func (m *Model) readFromLogChannel(ctx context.Context, logChan <-chan string) {
	defer m.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-logChan:
			if !ok {
				return
			}

			m.logMu.Lock()
			m.logLines = append(m.logLines, line)
			if len(m.logLines) > maxLogLines {
				m.logLines = m.logLines[len(m.logLines)-maxLogLines:]
			}
			m.logMu.Unlock()

			m.logEvent.Publish(line)
		}
	}
}

// GetLogTail returns the last n lines of logs
func (m *Model) GetLogTail(n int) []string {
	m.logMu.RLock()
	defer m.logMu.RUnlock()

	if n <= 0 {
		return []string{}
	}
	if n >= len(m.logLines) {
		result := make([]string, len(m.logLines))
		copy(result, m.logLines)
		return result
	}
	result := make([]string, n)
	copy(result, m.logLines[len(m.logLines)-n:])
	return result
}
