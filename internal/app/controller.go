package app

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/lowaak/pulse/internal/bodymetrics"
	"github.com/lowaak/pulse/internal/catalog"
	"github.com/lowaak/pulse/internal/clock"
	"github.com/lowaak/pulse/internal/nav"
	"github.com/lowaak/pulse/internal/session"
)

// LoginErrorMessage is shown when either login field is blank
const LoginErrorMessage = "Please enter email and password."

// ListSource identifies the list a workout row was picked from
type ListSource int

const (
	ListCourses ListSource = iota
	ListPlans
	ListRoutes
	ListMoves
	ListLive
	ListCategory
)

// Controller handles UI intents and coordinates the Model, the navigation
// stack and the live training session
type Controller struct {
	model  *Model
	clock  clock.Clock
	logger *log.Logger

	mu      sync.Mutex
	session *session.Controller
	launch  *nav.Route
}

// NewController creates a new Controller with the given dependencies
func NewController(model *Model, clk clock.Clock, logger *log.Logger) *Controller {
	if model == nil {
		panic("Controller: model cannot be nil")
	}
	if clk == nil {
		panic("Controller: clock cannot be nil")
	}
	if logger == nil {
		panic("Controller: logger cannot be nil")
	}
	return &Controller{
		model:  model,
		clock:  clk,
		logger: logger,
	}
}

// --- Login ---

// Login accepts any non-blank email and password and replaces the stack with
// the main screen. It reports whether the login went through.
func (c *Controller) Login(email, password string) bool {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		c.logger.Printf("Controller: login rejected, blank field")
		c.model.SetLoginError(LoginErrorMessage)
		return false
	}
	c.model.SetLoginError("")
	c.model.SetHome(HomeState{TopTab: catalog.TopTabRecommend, BottomTab: catalog.BottomTabHome})
	c.logger.Printf("Controller: logged in as %s", strings.TrimSpace(email))
	c.model.Nav().ResetTo(nav.Main())

	c.mu.Lock()
	launch := c.launch
	c.launch = nil
	c.mu.Unlock()
	if launch != nil {
		c.openRoute(*launch)
	}
	return true
}

// ClearLoginError drops the login validation message once the user edits a field
func (c *Controller) ClearLoginError() {
	if c.model.GetLogin().Error != "" {
		c.model.SetLoginError("")
	}
}

// SetLaunchRoute parses a route path to open on top of the main screen after
// the next successful login. Unparsable minutes open as zero.
func (c *Controller) SetLaunchRoute(path string) error {
	route, err := nav.ParseRoute(path)
	if err != nil {
		return fmt.Errorf("launch route: %w", err)
	}

	c.mu.Lock()
	c.launch = &route
	c.mu.Unlock()
	c.logger.Printf("Controller: %s opens after login", route)
	return nil
}

// Logout returns to the login screen with an empty back stack
func (c *Controller) Logout() {
	c.endSession()
	c.model.SetSearch(SearchState{})
	c.logger.Printf("Controller: logged out")
	c.model.Nav().ResetTo(nav.Login())
}

// --- Home ---

// SelectTopTab shows one of the home tabs
func (c *Controller) SelectTopTab(tab catalog.TopTab) {
	c.model.SetHome(HomeState{TopTab: tab, BottomTab: catalog.BottomTabHome})
}

// SelectBottomTab switches between home and settings, keeping the top tab
func (c *Controller) SelectBottomTab(tab catalog.BottomTab) {
	home := c.model.GetHome()
	home.BottomTab = tab
	c.model.SetHome(home)
}

// OnQuickFeature runs a shortcut from the Recommend tab
func (c *Controller) OnQuickFeature(feature catalog.QuickFeature) {
	c.logger.Printf("Controller: quick feature %s", feature.Label())
	c.SelectBottomTab(catalog.BottomTabHome)

	switch feature {
	case catalog.QuickFindCourses:
		c.SelectTopTab(catalog.TopTabCourses)
	case catalog.QuickRunning:
		c.openSession(catalog.RouteWorkout("Running"))
	case catalog.QuickMoves:
		c.model.Nav().Push(nav.Moves())
	case catalog.QuickLive:
		c.model.Nav().Push(nav.Live())
	case catalog.QuickYoga:
		c.OpenCategory("Yoga")
	case catalog.QuickWalking:
		c.OpenCategory("Walking")
	}
}

// OpenCategory shows the session list of a quick-access category
func (c *Controller) OpenCategory(name string) {
	c.model.Nav().Push(nav.Category(name))
}

// SetSearchQuery runs the home search and publishes its matches
func (c *Controller) SetSearchQuery(query string) {
	c.model.SetSearch(SearchState{
		Query:   query,
		Results: catalog.Search(catalog.SearchPool, query),
	})
}

// OnSearchPick opens a search result. Stopwatch workouts skip the detail
// screen and start timing right away. The search box is cleared.
func (c *Controller) OnSearchPick(index int) {
	results := c.model.GetSearch().Results
	if index < 0 || index >= len(results) {
		c.logger.Printf("Controller: invalid search result index: %d", index)
		return
	}
	picked := results[index]
	c.model.SetSearch(SearchState{})

	if picked.Mode == session.ModeStopwatch {
		c.openSession(picked)
		return
	}
	c.OpenWorkout(picked)
}

// OnListItemSelected opens a row of one of the workout lists with the
// duration that list implies
func (c *Controller) OnListItemSelected(source ListSource, title string) {
	switch source {
	case ListCourses:
		c.OpenWorkout(catalog.CourseWorkout(title))
	case ListPlans:
		c.OpenWorkout(catalog.PlanWorkout(title))
	case ListRoutes:
		c.openSession(catalog.RouteWorkout(title))
	case ListMoves:
		c.OpenWorkout(catalog.WorkoutMeta{Title: title, Level: "K1", Minutes: catalog.MoveMinutes, Mode: session.ModeCountdown})
	case ListLive:
		c.OpenWorkout(catalog.WorkoutMeta{Title: title, Level: "K2", Minutes: catalog.LiveMinutes, Mode: session.ModeCountdown})
	case ListCategory:
		c.OpenWorkout(catalog.WorkoutMeta{Title: title, Level: "K1", Minutes: catalog.CategoryMinutes, Mode: session.ModeCountdown})
	default:
		c.logger.Printf("Controller: unknown list source %d", source)
	}
}

// OpenWorkout shows the detail screen of a workout
func (c *Controller) OpenWorkout(meta catalog.WorkoutMeta) {
	c.logger.Printf("Controller: open workout %q", meta.Title)
	c.model.Nav().Push(nav.Training(meta.Title, meta.Minutes, meta.Mode))
}

// StartSession starts the workout shown on the detail screen
func (c *Controller) StartSession() {
	current := c.model.Nav().Current()
	if current.Kind != nav.RouteTraining {
		c.logger.Printf("Controller: start session ignored on %s", current)
		return
	}
	c.openSession(catalog.WorkoutMeta{Title: current.Title, Minutes: current.Minutes, Mode: current.Mode})
}

// --- Session ---

// CurrentSession returns the live session, or nil
func (c *Controller) CurrentSession() *session.Controller {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// TogglePauseResume pauses or resumes the live session
func (c *Controller) TogglePauseResume() {
	if s := c.CurrentSession(); s != nil {
		s.OnPauseResumeToggle()
	}
}

// RestartSession restarts the live session's timer
func (c *Controller) RestartSession() {
	if s := c.CurrentSession(); s != nil {
		s.OnRestart()
	}
}

// SessionPrimaryAction runs Finish or End Session on the live session
func (c *Controller) SessionPrimaryAction() {
	if s := c.CurrentSession(); s != nil {
		s.OnPrimaryAction()
	}
}

// Back pops one screen. On the session screen it leaves the session the way
// End Session does. It reports whether anything was popped.
func (c *Controller) Back() bool {
	if c.model.Nav().Current().Kind == nav.RouteSession {
		if s := c.CurrentSession(); s != nil {
			s.OnBack()
			return true
		}
	}
	return c.model.Nav().Back()
}

// --- Settings ---

func (c *Controller) SetDarkMode(on bool) {
	c.logger.Printf("Controller: dark mode %t", on)
	c.model.UpdateSettings(func(s *Settings) { s.DarkMode = on })
}

func (c *Controller) ToggleDarkMode() {
	c.SetDarkMode(!c.model.GetSettings().DarkMode)
}

// SetIntensity changes the training intensity. Unknown levels are ignored.
func (c *Controller) SetIntensity(level string) {
	if !catalog.ValidIntensity(level) {
		c.logger.Printf("Controller: invalid intensity %q", level)
		return
	}
	c.model.UpdateSettings(func(s *Settings) { s.Intensity = level })
}

func (c *Controller) SetCountdownSound(on bool) {
	c.model.UpdateSettings(func(s *Settings) { s.CountdownSound = on })
}

func (c *Controller) SetVibration(on bool) {
	c.model.UpdateSettings(func(s *Settings) { s.Vibration = on })
}

// UpdateBodyMetrics stores the body-metric form and recomputes BMI and body fat
func (c *Controller) UpdateBodyMetrics(in bodymetrics.Input) {
	c.model.SetBodyMetrics(BodyMetricsState{Input: in, Result: bodymetrics.Compute(in)})
}

// OnEscapeKey goes back one screen, or closes the application on a root screen
func (c *Controller) OnEscapeKey() {
	if c.Back() {
		return
	}
	c.model.RequestCloseApplication()
}

// Shutdown tears down the live session, if any
func (c *Controller) Shutdown() {
	c.mu.Lock()
	s := c.session
	c.session = nil
	c.mu.Unlock()

	if s != nil {
		s.Shutdown()
	}
}

// --- Private Methods ---

// openRoute shows a parsed route above the main screen
func (c *Controller) openRoute(route nav.Route) {
	switch route.Kind {
	case nav.RouteTraining:
		c.model.Nav().Push(route)
	case nav.RouteSession:
		c.openSession(catalog.WorkoutMeta{Title: route.Title, Minutes: route.Minutes, Mode: route.Mode})
	case nav.RouteMoves, nav.RouteLive, nav.RouteCategory:
		c.model.Nav().Push(route)
	default:
		c.logger.Printf("Controller: nothing to open for %s", route)
	}
}

// openSession pushes the session screen and starts its timer. A session
// already running is torn down first.
func (c *Controller) openSession(meta catalog.WorkoutMeta) {
	c.endSession()

	navigator := &sessionNavigator{controller: c}
	s := session.NewController(session.NewControllerArg{
		Title:     meta.Title,
		Minutes:   meta.Minutes,
		Mode:      meta.Mode,
		Clock:     c.clock,
		Navigator: navigator,
		Logger:    c.logger,
	})

	c.mu.Lock()
	navigator.session = s
	c.session = s
	c.mu.Unlock()

	c.model.SetSession(s)
	c.model.Nav().Push(nav.Session(meta.Title, meta.Minutes, meta.Mode))
}

// endSession shuts the live session down without navigating
func (c *Controller) endSession() {
	c.mu.Lock()
	s := c.session
	c.session = nil
	c.mu.Unlock()

	if s == nil {
		return
	}
	c.logger.Printf("Controller: closing session %q", s.Title())
	s.Shutdown()
	c.model.SetSession(nil)
}

// onSessionExit runs when a session leaves through Finish, End Session or Back.
// Only the live session pops the stack.
func (c *Controller) onSessionExit(n *sessionNavigator) {
	c.mu.Lock()
	if n.session == nil || c.session != n.session {
		c.mu.Unlock()
		c.logger.Printf("Controller: exit of a stale session ignored")
		return
	}
	c.session = nil
	c.mu.Unlock()

	c.model.SetSession(nil)
	c.model.Nav().Back()
}

// sessionNavigator pops the session screen for one session.Controller.
// session is set under Controller.mu.
type sessionNavigator struct {
	controller *Controller
	session    *session.Controller
}

func (n *sessionNavigator) Back() {
	n.controller.onSessionExit(n)
}
