package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// validateKeyCmd sends a minimal probe request to check that the stored
// key is accepted and the provider answers in the expected shape.
var validateKeyCmd = &cobra.Command{
	Use:   "validate-key [provider]",
	Short: "Check that a stored API key is accepted by its provider",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, cfg, err := loadConfig()
		if err != nil {
			return err
		}
		provider := cfg.Provider
		if len(args) == 1 {
			provider = args[0]
		}

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		client := newGenerationClient(cfg)
		ok, err := client.ValidateCredential(ctx, provider, cfg.Credentials[provider])
		if err != nil {
			return fmt.Errorf("could not validate key for %s: %w", provider, err)
		}
		if !ok {
			return fmt.Errorf("key for %s was rejected", provider)
		}
		fmt.Printf("key for %s is valid\n", provider)
		return nil
	},
}
