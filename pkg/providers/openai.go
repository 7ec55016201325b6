package providers

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
)

// chatAdapter implements the OpenAI-style chat completion shape shared by
// deepseek, doubao, kimi, and local ollama.
type chatAdapter struct {
	provider string
}

// NewChatAdapter returns the common-shape adapter for the named provider.
func NewChatAdapter(provider string) Adapter {
	return &chatAdapter{provider: provider}
}

func (a *chatAdapter) BuildRequest(prompt string, s Sampling) ([]byte, error) {
	body := map[string]any{
		"model": s.Model,
		"messages": []map[string]any{
			{"role": "user", "content": prompt},
		},
		"max_tokens":  s.MaxTokens,
		"temperature": s.Temperature,
		"top_p":       s.TopP,
		"n":           s.N,
		"stream":      s.Stream,
	}
	if len(s.Stop) > 0 {
		body["stop"] = s.Stop
	}
	if s.PresencePenalty != nil {
		body["presence_penalty"] = *s.PresencePenalty
	}
	if s.FrequencyPenalty != nil {
		body["frequency_penalty"] = *s.FrequencyPenalty
	}
	return json.Marshal(body)
}

func (a *chatAdapter) ParseResponse(body []byte) (string, error) {
	if err := a.CheckShape(body); err != nil {
		return "", err
	}
	if content := gjson.GetBytes(body, "choices.0.message.content"); content.Exists() {
		return strings.TrimSpace(content.String()), nil
	}
	if text := gjson.GetBytes(body, "choices.0.text"); text.Exists() {
		return strings.TrimSpace(text.String()), nil
	}
	return "", &FormatError{Provider: a.provider, Reason: "no content in first choice"}
}

func (a *chatAdapter) CheckShape(body []byte) error {
	choices := gjson.GetBytes(body, "choices")
	if !choices.IsArray() || len(choices.Array()) == 0 {
		return &FormatError{Provider: a.provider, Reason: "response has no choices"}
	}
	return nil
}
