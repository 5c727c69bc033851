package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/rivo/tview"
	"github.com/spf13/pflag"

	"github.com/lowaak/pulse/internal/app"
	"github.com/lowaak/pulse/internal/clock"
	"github.com/lowaak/pulse/internal/config"
	"github.com/lowaak/pulse/internal/logging"
	"github.com/lowaak/pulse/internal/nav"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	must("load config", err)

	logs := logging.New(logging.Options{
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	logger := logs.Logger
	if cfg.ConfigFile != "" {
		logger.Printf("Pulse: config loaded from %s", cfg.ConfigFile)
	}
	logger.Println("Pulse: starting")

	stack := nav.NewStack(nav.Login(), logger)
	model := app.NewModel(stack, app.Settings{
		Intensity:      cfg.Training.Intensity,
		CountdownSound: cfg.Training.CountdownSound,
		Vibration:      cfg.Training.Vibration,
		DarkMode:       cfg.UI.DarkMode,
	}, logger, logs.UILines)
	controller := app.NewController(model, clock.NewReal(), logger)
	if cfg.UI.Open != "" {
		must("set launch route", controller.SetLaunchRoute(cfg.UI.Open))
	}

	tviewApp := tview.NewApplication()
	view := app.NewBaseView(app.NewBaseViewArg{
		View:       app.NewCursesView(logger, tviewApp, model),
		Model:      model,
		Controller: controller,
		Logger:     logger,
	})

	runErr := view.Run()

	// Shut down in reverse order of construction
	view.Shutdown()
	controller.Shutdown()
	model.Shutdown()
	logger.Println("Pulse: stopped")
	if err := logs.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "close log: %v\n", err)
	}

	must("run UI", runErr)
}

func must(action string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to %s: %v\n", action, err)
		os.Exit(1)
	}
}
