package app

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/lowaak/pulse/internal/go_func_utils"
	"github.com/lowaak/pulse/internal/session"
)

// BaseView contains the logic shared by all UI implementations: it listens to
// the model and pushes every change into the View. Once NewBaseView returns,
// the View is only touched from inside QueueUpdate and QueueUpdateDraw.
type BaseView struct {
	view       View
	model      *Model
	controller *Controller
	context    context.Context
	cancelFunc context.CancelFunc
	waitGroup  sync.WaitGroup
	logger     *log.Logger
}

// NewBaseViewArg holds the arguments for creating a new BaseView
type NewBaseViewArg struct {
	View       View
	Model      *Model
	Controller *Controller
	Logger     *log.Logger
}

// NewBaseView creates a new BaseView with the given implementation
func NewBaseView(args NewBaseViewArg) *BaseView {
	if args.Logger == nil {
		panic("BaseView: logger cannot be nil")
	}
	if args.View == nil {
		panic("BaseView: view cannot be nil")
	}
	if args.Model == nil {
		panic("BaseView: model cannot be nil")
	}
	if args.Controller == nil {
		panic("BaseView: controller cannot be nil")
	}
	ctx, cancel := context.WithCancel(context.Background())

	base := &BaseView{
		view:       args.View,
		model:      args.Model,
		controller: args.Controller,
		context:    ctx,
		cancelFunc: cancel,
		logger:     args.Logger,
	}

	args.View.Initialize(args.Controller)
	args.View.SetupKeyboardHandlers(args.Controller)

	// Initial content from the model
	args.View.SetSettings(args.Model.GetSettings())
	args.View.SetLogin(args.Model.GetLogin())
	args.View.SetHome(args.Model.GetHome())
	args.View.SetSearch(args.Model.GetSearch())
	args.View.SetBodyMetrics(args.Model.GetBodyMetrics())
	args.View.ShowRoute(args.Model.Nav().Current())

	base.waitGroup.Add(1)
	go_func_utils.SafeGo(base.logger, "BaseView.monitorLogResize", func() { base.monitorLogResize() })
	base.updateLogDisplay()

	base.setupEventListeners()

	return base
}

// listenLoop runs onEvent for every value delivered to a model feed until the
// view shuts down. onEvent re-reads the model, so a value dropped on a full
// channel never leaves the view stale.
func listenLoop[T any](base *BaseView, name string, register func(chan<- T) func(), onEvent func()) {
	ch := make(chan T, 1)
	unregister := register(ch)
	base.waitGroup.Add(1)
	go_func_utils.SafeGo(base.logger, name, func() {
		defer base.waitGroup.Done()
		defer unregister()
		for {
			select {
			case <-base.context.Done():
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				base.view.QueueUpdateDraw(onEvent)
			}
		}
	})
}

func (base *BaseView) setupEventListeners() {
	listenLoop(base, "BaseView.log", base.model.ListenToLog, base.updateLogDisplay)

	listenLoop(base, "BaseView.route", base.model.ListenToRoute, func() {
		base.view.ShowRoute(base.model.Nav().Current())
	})

	listenLoop(base, "BaseView.home", base.model.ListenToHome, func() {
		base.view.SetHome(base.model.GetHome())
	})

	listenLoop(base, "BaseView.search", base.model.ListenToSearch, func() {
		base.view.SetSearch(base.model.GetSearch())
	})

	listenLoop(base, "BaseView.login", base.model.ListenToLogin, func() {
		base.view.SetLogin(base.model.GetLogin())
	})

	listenLoop(base, "BaseView.settings", base.model.ListenToSettings, func() {
		base.view.SetSettings(base.model.GetSettings())
	})

	listenLoop(base, "BaseView.bodyMetrics", base.model.ListenToBodyMetrics, func() {
		base.view.SetBodyMetrics(base.model.GetBodyMetrics())
	})

	base.waitGroup.Add(1)
	go_func_utils.SafeGo(base.logger, "BaseView.session", func() { base.watchSession() })

	// Listen to close application event from model
	closeChan := make(chan struct{}, 1)
	closeUnregister := base.model.ListenToCloseApplication(closeChan)
	base.waitGroup.Add(1)
	go_func_utils.SafeGo(base.logger, "BaseView.close", func() {
		defer base.waitGroup.Done()
		defer closeUnregister()
		select {
		case <-base.context.Done():
			return
		case _, ok := <-closeChan:
			if !ok {
				return
			}
			base.view.Stop()
		}
	})
}

// watchSession follows the live session and renders its screen updates
func (base *BaseView) watchSession() {
	defer base.waitGroup.Done()

	ch := make(chan *session.Controller, 1)
	unregister := base.model.ListenToSession(ch)
	defer unregister()

	var current *session.Controller
	var stopWatching func()
	defer func() {
		if stopWatching != nil {
			stopWatching()
		}
	}()

	for {
		select {
		case <-base.context.Done():
			return
		case _, ok := <-ch:
			if !ok {
				return
			}
			latest := base.model.GetSession()
			if latest == current {
				continue
			}
			if stopWatching != nil {
				stopWatching()
				stopWatching = nil
			}
			current = latest
			if current != nil {
				stopWatching = base.watchScreen(current)
			}
		}
	}
}

// watchScreen renders every screen update of one session until the returned
// func is called
func (base *BaseView) watchScreen(s *session.Controller) func() {
	ctx, cancel := context.WithCancel(base.context)
	var wg sync.WaitGroup

	ch := make(chan session.Screen, 1)
	unregister := s.ListenToScreen(ch)
	wg.Add(1)
	go_func_utils.SafeGo(base.logger, "BaseView.sessionScreen", func() {
		defer wg.Done()
		defer unregister()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				screen := s.Screen()
				base.view.QueueUpdateDraw(func() { base.view.SetSessionScreen(screen) })
			}
		}
	})

	return func() {
		cancel()
		wg.Wait()
	}
}

func (base *BaseView) updateLogDisplay() {
	height := base.view.GetLogViewHeight()
	if height <= 0 {
		return
	}

	logLines := base.model.GetLogTail(height)

	base.view.ClearLogView()
	for _, line := range logLines {
		if err := base.view.WriteLogLine(line + "\n"); err != nil {
			base.logger.Printf("BaseView: Error writing to log view: %v", err)
		}
	}
}

func (base *BaseView) monitorLogResize() {
	defer base.waitGroup.Done()
	var lastHeight int
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-base.context.Done():
			return
		case <-ticker.C:
			heights := make(chan int, 1)
			base.view.QueueUpdate(func() { heights <- base.view.GetLogViewHeight() })
			var height int
			select {
			case height = <-heights:
			default:
			}
			if height != lastHeight && height > 0 {
				lastHeight = height
				base.view.QueueUpdateDraw(base.updateLogDisplay)
			}
		}
	}
}

// Shutdown stops all goroutines and waits for them to finish. Call it once the
// view has stopped; a queued update waits for the event loop until then.
func (base *BaseView) Shutdown() {
	base.logger.Println("BaseView: Shutting down")
	base.cancelFunc()
	base.waitGroup.Wait()
	base.logger.Println("BaseView: Shutdown complete")
}

// Run starts the UI and blocks until it exits
func (base *BaseView) Run() error {
	return base.view.Run()
}
