package cmd

import (
	"github.com/spf13/cobra"
)

var verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "selwrite",
	Short: "Selection-triggered AI writing assistant",
	Long: `Selwrite watches for a "select text, then press Enter" gesture anywhere
on the desktop, sends the selection to a configured LLM provider, and
writes the generated content into a target document.

Available commands:
  run          - Start the global listeners and run the pipeline on triggers
  generate     - Run the pipeline once for a given text, without listeners
  config       - Show or change settings, including API keys
  validate-key - Check that a stored API key is accepted by its provider

Start with: selwrite config set document_path ~/notes.md`,
}

// Execute runs the root command. Called once from main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose logging")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(validateKeyCmd)
	rootCmd.AddCommand(versionCmd)
}
