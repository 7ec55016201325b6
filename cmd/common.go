package cmd

import (
	"fmt"

	"github.com/selwrite/selwrite/pkg/config"
	"github.com/selwrite/selwrite/pkg/credstore"
	"github.com/selwrite/selwrite/pkg/llm"
	"github.com/selwrite/selwrite/pkg/logging"
	"github.com/selwrite/selwrite/pkg/providers"
	"github.com/selwrite/selwrite/pkg/retry"
)

// openManager wires the credential store and config manager rooted at the
// data directory.
func openManager() (*config.Manager, error) {
	dir := logging.DataDir()
	creds, err := credstore.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("could not open credential store: %w", err)
	}
	return config.NewManager(dir, creds), nil
}

func loadConfig() (*config.Manager, *config.Config, error) {
	manager, err := openManager()
	if err != nil {
		return nil, nil, err
	}
	cfg, err := manager.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("could not load config: %w", err)
	}
	return manager, cfg, nil
}

// newGenerationClient builds the LLM client from the user's sampling
// settings over the builtin provider registry.
func newGenerationClient(cfg *config.Config) *llm.Client {
	return llm.NewClient(providers.Builtin(), retry.DefaultPolicy(), llm.Options{
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		TopP:        cfg.TopP,
	})
}
