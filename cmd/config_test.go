package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selwrite/selwrite/pkg/config"
)

func TestApplySetting(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr bool
		check   func(t *testing.T, cfg *config.Config)
	}{
		{key: "provider", value: "kimi", check: func(t *testing.T, cfg *config.Config) {
			assert.Equal(t, "kimi", cfg.Provider)
		}},
		{key: "provider", value: "nonsense", wantErr: true},
		{key: "document_path", value: "/tmp/out.md", check: func(t *testing.T, cfg *config.Config) {
			assert.Equal(t, "/tmp/out.md", cfg.DocumentPath)
		}},
		{key: "max_tokens", value: "512", check: func(t *testing.T, cfg *config.Config) {
			assert.Equal(t, 512, cfg.MaxTokens)
		}},
		{key: "max_tokens", value: "lots", wantErr: true},
		{key: "temperature", value: "0.3", check: func(t *testing.T, cfg *config.Config) {
			assert.Equal(t, 0.3, cfg.Temperature)
		}},
		{key: "trigger_window_ms", value: "1500", check: func(t *testing.T, cfg *config.Config) {
			assert.Equal(t, 1500, cfg.TriggerWindowMs)
		}},
		{key: "no_such_setting", value: "x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := &config.Config{}
			err := applySetting(cfg, tt.key, tt.value)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestKnownProvider(t *testing.T) {
	assert.True(t, knownProvider("deepseek"))
	assert.True(t, knownProvider("qianwen"))
	assert.True(t, knownProvider("ollama"))
	assert.False(t, knownProvider("gpt9"))
}
