package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/selwrite/selwrite/pkg/config"
	"github.com/selwrite/selwrite/pkg/docstore"
	"github.com/selwrite/selwrite/pkg/events"
	"github.com/selwrite/selwrite/pkg/pipeline"
)

var generateDocument string

// generateCmd runs the pipeline once for text given on the command line,
// without installing any global hooks. Useful for scripting and for
// checking a setup before going hands-free with 'run'.
var generateCmd = &cobra.Command{
	Use:   "generate <text>",
	Short: "Run the pipeline once for the given text",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if generateDocument != "" {
			cfg.DocumentPath = generateDocument
		}
		if problems := cfg.Validate(); len(problems) > 0 {
			for field, msg := range problems {
				fmt.Fprintf(os.Stderr, "config %s: %s\n", field, msg)
			}
			return fmt.Errorf("configuration is invalid")
		}

		bus := events.NewBus()
		done := make(chan struct{})
		ch := bus.Subscribe("cli")
		go func() {
			defer close(done)
			printEvents(ch)
		}()

		orch := pipeline.New(
			func() *config.Config { return cfg },
			nil, // selection comes from the argument, not the clipboard
			docstore.New(),
			newGenerationClient(cfg),
			bus,
			nil,
		)
		err = orch.RunWithSelection(context.Background(), strings.Join(args, " "))
		bus.Unsubscribe("cli")
		<-done
		return err
	},
}

func init() {
	generateCmd.Flags().StringVarP(&generateDocument, "document", "d", "", "Write to this document instead of the configured one")
}
