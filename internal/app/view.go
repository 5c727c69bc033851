package app

import (
	"github.com/lowaak/pulse/internal/nav"
	"github.com/lowaak/pulse/internal/session"
)

// View defines the interface for framework-specific UI implementations
type View interface {
	// Initialize is called after construction to set up framework-specific widgets
	// controller is used to handle UI events
	Initialize(controller *Controller)

	// SetupKeyboardHandlers sets up keyboard event handlers
	SetupKeyboardHandlers(controller *Controller)

	// Run starts the UI framework and blocks until it exits
	Run() error

	// Stop stops the UI framework
	Stop()

	// QueueUpdate runs f on the UI goroutine and waits for it to finish.
	// Every setter below is called through it once Run has started. It
	// returns without running f once the UI has stopped.
	QueueUpdate(f func())

	// QueueUpdateDraw works like QueueUpdate and redraws the screen after f
	QueueUpdateDraw(f func())

	// ShowRoute switches to the screen of the given route
	ShowRoute(route nav.Route)

	// --- Log View (shared across screens) ---

	// GetLogViewHeight returns the visible height of the log view
	GetLogViewHeight() int

	// ClearLogView clears the log view
	ClearLogView()

	// WriteLogLine writes a line to the log view
	WriteLogLine(line string) error

	// --- Screen content ---

	SetLogin(state LoginState)
	SetHome(home HomeState)
	SetSearch(state SearchState)
	SetSettings(settings Settings)
	SetBodyMetrics(state BodyMetricsState)

	// SetSessionScreen renders the training session screen
	SetSessionScreen(screen session.Screen)
}
