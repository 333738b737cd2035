package main

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"tsunused/internal/driver"
	"tsunused/internal/pipeline"
	"tsunused/internal/rules/unusedvars"
	"tsunused/internal/ui"
)

type checkOutcome struct {
	result *driver.Result
	err    error
}

// runCheckWithUI runs driver.CheckFiles in the background and renders its
// progress events until the run finishes.
func runCheckWithUI(ctx context.Context, out io.Writer, title string, files []string, rule *unusedvars.Rule, opts driver.Options) (*driver.Result, error) {
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		opts.Progress = pipeline.MultiSink{opts.Progress, pipeline.ChannelSink{Ch: events}}
		res, err := driver.CheckFiles(ctx, rule, files, opts)
		outcomeCh <- checkOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(out), tea.WithInput(nil), tea.WithContext(ctx))
	_, uiErr := program.Run()
	// дочитываем события, чтобы воркеры не встали на полном канале
	for range events {
	}
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
