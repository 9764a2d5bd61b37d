package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"pcrelint/internal/driver"
	"pcrelint/internal/ui"
)

type checkOutcome struct {
	result *driver.Result
	err    error
}

// runCheckWithUI runs driver.Check while a progress view is drawn on stderr.
// opts.Progress still receives every event.
func runCheckWithUI(ctx context.Context, title, target string, opts driver.Options) (*driver.Result, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		runOpts := opts
		runOpts.Progress = driver.MultiSink{opts.Progress, driver.ChannelSink{Ch: events}}
		res, err := driver.Check(ctx, target, runOpts)
		outcomeCh <- checkOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	// the view may quit early; keep the worker from blocking on a full channel
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
