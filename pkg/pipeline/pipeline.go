// Package pipeline runs one end-to-end generation: capture the selection,
// read the target document, generate content, write it back, and report
// progress on the event bus.
package pipeline

import (
	"context"
	"fmt"

	"github.com/selwrite/selwrite/pkg/config"
	"github.com/selwrite/selwrite/pkg/events"
	"github.com/selwrite/selwrite/pkg/llm"
	"github.com/selwrite/selwrite/pkg/logging"
	"github.com/selwrite/selwrite/pkg/types"
)

// SelectionSource captures the user's current selection.
type SelectionSource interface {
	CaptureSelection() string
}

// Generator produces content for one request.
type Generator interface {
	Generate(ctx context.Context, req llm.GenerationRequest, providerID, credential string) (string, error)
}

// DocumentStore reads and writes target documents.
type DocumentStore interface {
	Read(path string) (string, error)
	Write(path, content string, mode types.WriteMode) error
}

// Orchestrator drives pipeline runs. Settings is read at the start of each
// run so config reloads take effect without a restart. Per-run failures
// are reported on the bus and never crash the process.
type Orchestrator struct {
	settings  func() *config.Config
	selection SelectionSource
	store     DocumentStore
	generator Generator
	bus       *events.Bus
	release   func()
	logger    *logging.Logger
}

// New builds an orchestrator. release is called when a triggered run
// finishes, on every exit path; pass a no-op for one-shot use.
func New(settings func() *config.Config, selection SelectionSource, store DocumentStore, generator Generator, bus *events.Bus, release func()) *Orchestrator {
	if release == nil {
		release = func() {}
	}
	return &Orchestrator{
		settings:  settings,
		selection: selection,
		store:     store,
		generator: generator,
		bus:       bus,
		release:   release,
		logger:    logging.GetLogger(false),
	}
}

// HandleTrigger is the trigger detector callback. The run executes on its
// own goroutine so the input listeners are never blocked behind a
// generation call.
func (o *Orchestrator) HandleTrigger() {
	go func() {
		defer o.release()
		if err := o.Run(context.Background()); err != nil {
			o.logger.Error("pipeline run failed: %v", err)
		}
	}()
}

// Run executes one pipeline run with the selection captured from the
// selection source. Progress and the outcome are published on the bus; the
// returned error mirrors what was published.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.bus.ProcessingStarted()
	o.bus.ProgressUpdated(events.StageSelecting)

	selected := o.selection.CaptureSelection()
	if selected == "" {
		return o.fail(fmt.Errorf("no text selected"))
	}
	return o.RunWithSelection(ctx, selected)
}

// RunWithSelection executes one pipeline run for already-captured text.
// Used by Run and by the one-shot CLI path where the selection comes from
// an argument instead of the clipboard.
func (o *Orchestrator) RunWithSelection(ctx context.Context, selected string) error {
	cfg := o.settings()
	if cfg.DocumentPath == "" {
		return o.fail(fmt.Errorf("no target document configured"))
	}
	mode, err := types.ParseWriteMode(cfg.WriteMode)
	if err != nil {
		return o.fail(err)
	}

	// A document that cannot be read is treated as empty: first runs
	// against a not-yet-created file are normal.
	docContent, err := o.store.Read(cfg.DocumentPath)
	if err != nil {
		o.logger.Warn("could not read %s, continuing with empty document: %v", cfg.DocumentPath, err)
		docContent = ""
	}

	o.bus.ProgressUpdated(events.StageGenerating)
	req := llm.GenerationRequest{
		SelectedText:    selected,
		DocumentContent: docContent,
		ThemePrompt:     cfg.ThemePrompt,
		WriteMode:       mode,
	}
	content, err := o.generator.Generate(ctx, req, cfg.Provider, cfg.Credentials[cfg.Provider])
	if err != nil {
		return o.fail(fmt.Errorf("generation failed: %w", err))
	}
	if content == "" {
		return o.fail(fmt.Errorf("provider %s returned no content", cfg.Provider))
	}

	o.bus.ProgressUpdated(events.StageWriting)
	if err := o.store.Write(cfg.DocumentPath, content, mode); err != nil {
		return o.fail(fmt.Errorf("document write failed: %w", err))
	}

	o.bus.ProgressUpdated(events.StageDone)
	o.bus.ProcessingCompleted(fmt.Sprintf("wrote %d characters to %s", len(content), cfg.DocumentPath))
	o.logger.Info("pipeline run completed, %d characters written to %s", len(content), cfg.DocumentPath)
	return nil
}

func (o *Orchestrator) fail(err error) error {
	o.bus.ProgressUpdated(events.StageFailed)
	o.bus.ProcessingFailed(err)
	return err
}
