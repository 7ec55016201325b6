package providers

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
)

// qianwenAdapter implements DashScope's text-generation shape: messages are
// nested under "input", sampling parameters under "parameters", and the
// generated text is returned at "output.text".
type qianwenAdapter struct{}

// NewQianwenAdapter returns the DashScope adapter.
func NewQianwenAdapter() Adapter {
	return &qianwenAdapter{}
}

func (a *qianwenAdapter) BuildRequest(prompt string, s Sampling) ([]byte, error) {
	body := map[string]any{
		"model": s.Model,
		"input": map[string]any{
			"messages": []map[string]any{
				{"role": "user", "content": prompt},
			},
		},
		"parameters": map[string]any{
			"max_tokens":  s.MaxTokens,
			"temperature": s.Temperature,
			"top_p":       s.TopP,
		},
	}
	return json.Marshal(body)
}

func (a *qianwenAdapter) ParseResponse(body []byte) (string, error) {
	if err := a.CheckShape(body); err != nil {
		return "", err
	}
	text := gjson.GetBytes(body, "output.text")
	if !text.Exists() {
		return "", &FormatError{Provider: "qianwen", Reason: "output has no text field"}
	}
	return strings.TrimSpace(text.String()), nil
}

func (a *qianwenAdapter) CheckShape(body []byte) error {
	if !gjson.GetBytes(body, "output").Exists() {
		return &FormatError{Provider: "qianwen", Reason: "response has no output"}
	}
	return nil
}
