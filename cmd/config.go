package cmd

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/selwrite/selwrite/pkg/config"
	"github.com/selwrite/selwrite/pkg/providers"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, cfg, err := loadConfig()
		if err != nil {
			return err
		}
		fmt.Printf("config file:          %s\n", manager.Path())
		fmt.Printf("provider:             %s\n", cfg.Provider)
		fmt.Printf("model:                %s\n", orDefault(cfg.Model, "(provider default)"))
		fmt.Printf("document_path:        %s\n", orDefault(cfg.DocumentPath, "(not set)"))
		fmt.Printf("write_mode:           %s\n", cfg.WriteMode)
		fmt.Printf("theme_prompt:         %s\n", orDefault(cfg.ThemePrompt, "(default)"))
		fmt.Printf("max_tokens:           %d\n", cfg.MaxTokens)
		fmt.Printf("temperature:          %g\n", cfg.Temperature)
		fmt.Printf("top_p:                %g\n", cfg.TopP)
		fmt.Printf("trigger_window_ms:    %d\n", cfg.TriggerWindowMs)
		fmt.Printf("clipboard_settle_ms:  %d\n", cfg.ClipboardSettleMs)
		fmt.Printf("clipboard_retries:    %d\n", cfg.ClipboardRetries)

		keys := make([]string, 0, len(cfg.Credentials))
		for provider := range cfg.Credentials {
			keys = append(keys, provider)
		}
		sort.Strings(keys)
		fmt.Printf("api keys:             %s\n", orDefault(strings.Join(keys, ", "), "(none)"))

		if len(cfg.RecentDocuments) > 0 {
			fmt.Println("recent documents:")
			for _, doc := range cfg.RecentDocuments {
				fmt.Printf("  %s\n", doc)
			}
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Long: `Change one setting and save the config file.

Keys: provider, model, document_path, write_mode, theme_prompt, max_tokens,
temperature, top_p, trigger_window_ms, clipboard_settle_ms, clipboard_retries.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := applySetting(cfg, args[0], args[1]); err != nil {
			return err
		}
		if problems := cfg.Validate(); len(problems) > 0 {
			for field, msg := range problems {
				fmt.Fprintf(os.Stderr, "config %s: %s\n", field, msg)
			}
			return fmt.Errorf("refusing to save an invalid configuration")
		}
		if err := manager.Save(cfg); err != nil {
			return err
		}
		fmt.Printf("set %s = %s\n", args[0], args[1])
		return nil
	},
}

var configSetKeyCmd = &cobra.Command{
	Use:   "set-key <provider>",
	Short: "Store an API key for a provider",
	Long:  `Prompts for the key without echoing it and stores it encrypted.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		provider := args[0]
		if !knownProvider(provider) {
			return fmt.Errorf("unknown provider %q, expected one of: %s", provider, strings.Join(providers.Builtin().IDs(), ", "))
		}

		manager, cfg, err := loadConfig()
		if err != nil {
			return err
		}

		fmt.Printf("API key for %s: ", provider)
		key, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("could not read key: %w", err)
		}
		trimmed := strings.TrimSpace(string(key))
		if trimmed == "" {
			return fmt.Errorf("empty key, nothing stored")
		}

		cfg.Credentials[provider] = trimmed
		if err := manager.Save(cfg); err != nil {
			return err
		}
		fmt.Printf("stored key for %s\n", provider)
		return nil
	},
}

func applySetting(cfg *config.Config, key, value string) error {
	switch key {
	case "provider":
		if !knownProvider(value) {
			return fmt.Errorf("unknown provider %q, expected one of: %s", value, strings.Join(providers.Builtin().IDs(), ", "))
		}
		cfg.Provider = value
	case "model":
		cfg.Model = value
	case "document_path":
		cfg.DocumentPath = value
	case "write_mode":
		cfg.WriteMode = value
	case "theme_prompt":
		cfg.ThemePrompt = value
	case "max_tokens":
		return setInt(&cfg.MaxTokens, value)
	case "temperature":
		return setFloat(&cfg.Temperature, value)
	case "top_p":
		return setFloat(&cfg.TopP, value)
	case "trigger_window_ms":
		return setInt(&cfg.TriggerWindowMs, value)
	case "clipboard_settle_ms":
		return setInt(&cfg.ClipboardSettleMs, value)
	case "clipboard_retries":
		return setInt(&cfg.ClipboardRetries, value)
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return nil
}

func setInt(dst *int, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("expected a number, got %q", value)
	}
	*dst = n
	return nil
}

func setFloat(dst *float64, value string) error {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("expected a number, got %q", value)
	}
	*dst = f
	return nil
}

func knownProvider(id string) bool {
	for _, known := range providers.Builtin().IDs() {
		if known == id {
			return true
		}
	}
	return false
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configSetKeyCmd)
}
