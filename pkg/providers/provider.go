// Package providers defines the generative-text provider catalog and the
// wire-shape adapters that translate between prompts and each provider's
// request/response JSON.
package providers

import (
	"errors"
	"fmt"
)

// Profile describes how to reach one provider. Instances are process-wide
// and read-only after registration.
type Profile struct {
	ID             string
	BaseURL        string
	CompletionPath string
	DefaultModel   string
	AuthHeaderName string
	AuthPrefix     string
}

// CompletionURL returns the full endpoint URL.
func (p Profile) CompletionURL() string {
	return p.BaseURL + p.CompletionPath
}

// Sampling carries the generation parameters shared by all providers.
type Sampling struct {
	Model            string
	MaxTokens        int
	Temperature      float64
	TopP             float64
	N                int
	Stream           bool
	Stop             []string
	PresencePenalty  *float64
	FrequencyPenalty *float64
}

// Adapter builds provider-specific request bodies and extracts the
// generated text from responses. One implementation per wire shape.
type Adapter interface {
	// BuildRequest maps a prompt and sampling parameters into the
	// provider's JSON request body.
	BuildRequest(prompt string, s Sampling) ([]byte, error)

	// ParseResponse extracts the generated text. Malformed payloads yield
	// a *FormatError, never a panic.
	ParseResponse(body []byte) (string, error)

	// CheckShape verifies that a response has the provider's well-formed
	// completion shape, without judging the content. Used for credential
	// validation probes.
	CheckShape(body []byte) error
}

// FormatError reports a provider payload that does not match the expected
// response shape. It is surfaced verbatim and never retried.
type FormatError struct {
	Provider string
	Reason   string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid %s response format: %s", e.Provider, e.Reason)
}

// IsFormatError reports whether err is (or wraps) a provider format error.
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}
