// Package config persists selwrite settings as JSON in the per-user data
// directory. Credentials are stored encrypted; everything else is plain.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/selwrite/selwrite/pkg/credstore"
)

// Write mode names accepted in the config file.
const (
	WriteModeOverwrite    = "overwrite"
	WriteModeIncremental  = "incremental"
	WriteModeCursorInsert = "cursor"
)

const maxRecentDocuments = 10

// Config holds every user-tunable setting. The Credentials map carries
// decrypted values in memory only; the file stores ciphertext.
type Config struct {
	Provider     string `json:"provider"`
	Model        string `json:"model,omitempty"`
	DocumentPath string `json:"document_path"`
	WriteMode    string `json:"write_mode"`
	ThemePrompt  string `json:"theme_prompt"`

	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`

	// Trigger and clipboard tunables. These were empirically chosen
	// constants in earlier versions; they are configuration now.
	TriggerWindowMs   int `json:"trigger_window_ms"`
	ClipboardSettleMs int `json:"clipboard_settle_ms"`
	ClipboardRetries  int `json:"clipboard_retries"`

	RecentDocuments []string `json:"recent_documents,omitempty"`
	Verbose         bool     `json:"verbose"`

	Credentials          map[string]string `json:"-"`
	EncryptedCredentials map[string]string `json:"credentials,omitempty"`
}

// setDefaultValues fills in anything the config file left blank.
func (cfg *Config) setDefaultValues() {
	if cfg.Provider == "" {
		cfg.Provider = "deepseek"
	}
	if cfg.WriteMode == "" {
		cfg.WriteMode = WriteModeOverwrite
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 2000
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}
	if cfg.TopP == 0 {
		cfg.TopP = 0.95
	}
	if cfg.TriggerWindowMs == 0 {
		cfg.TriggerWindowMs = 2000
	}
	if cfg.ClipboardSettleMs == 0 {
		cfg.ClipboardSettleMs = 100
	}
	if cfg.ClipboardRetries == 0 {
		cfg.ClipboardRetries = 2
	}
	if cfg.Credentials == nil {
		cfg.Credentials = make(map[string]string)
	}
}

// Validate reports per-field problems, keyed by field name. An empty map
// means the config is usable.
func (cfg *Config) Validate() map[string]string {
	errs := make(map[string]string)

	if cfg.DocumentPath != "" {
		info, err := os.Stat(cfg.DocumentPath)
		switch {
		case err != nil:
			errs["document_path"] = "document path does not exist"
		case info.IsDir():
			errs["document_path"] = "document path is not a file"
		default:
			ext := strings.ToLower(filepath.Ext(cfg.DocumentPath))
			switch ext {
			case ".txt", ".md", ".docx":
			default:
				errs["document_path"] = fmt.Sprintf("unsupported file format %q, supported: .txt, .md, .docx", ext)
			}
		}
	}

	switch cfg.WriteMode {
	case WriteModeOverwrite, WriteModeIncremental, WriteModeCursorInsert:
	default:
		errs["write_mode"] = fmt.Sprintf("unknown write mode %q", cfg.WriteMode)
	}

	if cfg.MaxTokens < 1 || cfg.MaxTokens > 4000 {
		errs["max_tokens"] = "max_tokens must be between 1 and 4000"
	}
	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		errs["temperature"] = "temperature must be between 0 and 2"
	}

	return errs
}

// Manager loads and saves the config file, decrypting and encrypting
// credentials through the credential store.
type Manager struct {
	mu    sync.Mutex
	path  string
	creds *credstore.Store
}

// NewManager creates a manager for the config file in dir.
func NewManager(dir string, creds *credstore.Store) *Manager {
	return &Manager{
		path:  filepath.Join(dir, "config.json"),
		creds: creds,
	}
}

// Path returns the config file path.
func (m *Manager) Path() string { return m.path }

// Load reads the config file, merges defaults, and decrypts credentials.
// A missing file yields the default config rather than an error.
func (m *Manager) Load() (*Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cfg := &Config{}
	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.setDefaultValues()
			return cfg, nil
		}
		return nil, fmt.Errorf("could not read config file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("could not parse config file: %w", err)
	}
	cfg.setDefaultValues()

	for provider, token := range cfg.EncryptedCredentials {
		plain, err := m.creds.Decrypt(token)
		if err != nil {
			// Undecryptable entries are dropped; the user re-enters the key.
			continue
		}
		cfg.Credentials[provider] = plain
	}
	cfg.EncryptedCredentials = nil
	return cfg, nil
}

// Save encrypts credentials and writes the config atomically: the JSON is
// staged in a temp file and renamed over the target.
func (m *Manager) Save(cfg *Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	saved := *cfg
	saved.EncryptedCredentials = make(map[string]string, len(cfg.Credentials))
	for provider, plain := range cfg.Credentials {
		if plain == "" {
			continue
		}
		token, err := m.creds.Encrypt(plain)
		if err != nil {
			return fmt.Errorf("could not encrypt credential for %s: %w", provider, err)
		}
		saved.EncryptedCredentials[provider] = token
	}

	if saved.DocumentPath != "" {
		saved.RecentDocuments = pushRecent(saved.RecentDocuments, saved.DocumentPath)
	}
	cfg.RecentDocuments = saved.RecentDocuments

	data, err := json.MarshalIndent(&saved, "", "  ")
	if err != nil {
		return fmt.Errorf("could not marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return fmt.Errorf("could not create config directory: %w", err)
	}
	tmp := m.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("could not write config: %w", err)
	}
	if err := os.Rename(tmp, m.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("could not replace config: %w", err)
	}
	return nil
}

// pushRecent moves path to the front of the recent list, deduplicated and
// capped at maxRecentDocuments.
func pushRecent(recent []string, path string) []string {
	out := make([]string, 0, len(recent)+1)
	out = append(out, path)
	for _, p := range recent {
		if p != path {
			out = append(out, p)
		}
	}
	if len(out) > maxRecentDocuments {
		out = out[:maxRecentDocuments]
	}
	return out
}
