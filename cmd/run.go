package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/selwrite/selwrite/pkg/clipboard"
	"github.com/selwrite/selwrite/pkg/config"
	"github.com/selwrite/selwrite/pkg/docstore"
	"github.com/selwrite/selwrite/pkg/events"
	"github.com/selwrite/selwrite/pkg/logging"
	"github.com/selwrite/selwrite/pkg/pipeline"
	"github.com/selwrite/selwrite/pkg/trigger"
)

// configHolder hands the current config to pipeline runs while the file
// watcher swaps it out underneath.
type configHolder struct {
	mu  sync.RWMutex
	cfg *config.Config
}

func (h *configHolder) get() *config.Config {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cfg
}

func (h *configHolder) set(cfg *config.Config) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cfg = cfg
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the global listeners and process selection triggers",
	Long: `Installs global pointer and keyboard hooks, then waits for the trigger
gesture: select text with the mouse and press Enter within the configured
window. Each trigger runs the full pipeline (capture selection, generate,
write into the target document). Only one run executes at a time; extra
triggers while a run is in flight are dropped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.GetLogger(verbose)

		manager, cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.DocumentPath == "" {
			return fmt.Errorf("no target document configured, set one with 'selwrite config set document_path <file>'")
		}
		if problems := cfg.Validate(); len(problems) > 0 {
			for field, msg := range problems {
				fmt.Fprintf(os.Stderr, "config %s: %s\n", field, msg)
			}
			return fmt.Errorf("configuration is invalid, fix it with 'selwrite config set'")
		}

		bridge, err := clipboard.New(
			time.Duration(cfg.ClipboardSettleMs)*time.Millisecond,
			cfg.ClipboardRetries,
		)
		if err != nil {
			return fmt.Errorf("could not set up selection capture: %w", err)
		}

		holder := &configHolder{cfg: cfg}
		bus := events.NewBus()
		go printEvents(bus.Subscribe("cli"))

		var detector *trigger.Detector
		orch := pipeline.New(holder.get, bridge, docstore.New(), newGenerationClient(cfg), bus, func() {
			detector.Release()
		})
		detector = trigger.NewDetector(time.Duration(cfg.TriggerWindowMs)*time.Millisecond, orch.HandleTrigger)

		listener, err := trigger.StartListener(detector)
		if err != nil {
			return fmt.Errorf("could not start input listeners: %w", err)
		}
		defer listener.Stop()

		// Sampling options are fixed at startup; provider, credentials and
		// document settings reload live.
		watcher, err := config.NewWatcher(manager, func(next *config.Config) {
			holder.set(next)
			logger.Info("configuration reloaded from %s", manager.Path())
		})
		if err != nil {
			logger.Warn("config reload watcher unavailable: %v", err)
		} else {
			defer watcher.Close()
		}

		fmt.Printf("selwrite is running. Select text, then press Enter within %dms.\n", cfg.TriggerWindowMs)
		fmt.Printf("Writing to %s (%s mode). Ctrl+C to quit.\n", cfg.DocumentPath, cfg.WriteMode)

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		logger.Info("shutting down, %d triggers dropped while busy", detector.DroppedCount())
		return nil
	},
}

func printEvents(ch <-chan events.Event) {
	for ev := range ch {
		switch ev.Type {
		case events.TypeProcessingStarted:
			fmt.Println("▶ trigger accepted")
		case events.TypeProgressUpdated:
			if data, ok := ev.Data.(map[string]any); ok {
				fmt.Printf("  … %v\n", data["stage"])
			}
		case events.TypeProcessingCompleted:
			if data, ok := ev.Data.(map[string]any); ok {
				fmt.Printf("✔ %v\n", data["message"])
			}
		case events.TypeProcessingFailed:
			if data, ok := ev.Data.(map[string]any); ok {
				fmt.Fprintf(os.Stderr, "✘ %v\n", data["error"])
			}
		}
	}
}
