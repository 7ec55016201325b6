// Package llm is the provider-agnostic generation client: it builds the
// prompt, sends the provider request with bounded retries, and normalizes
// the response into clean text.
package llm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/selwrite/selwrite/pkg/logging"
	"github.com/selwrite/selwrite/pkg/prompts"
	"github.com/selwrite/selwrite/pkg/providers"
	"github.com/selwrite/selwrite/pkg/retry"
	"github.com/selwrite/selwrite/pkg/types"
)

// Default sampling parameters, overridable per client via Options.
const (
	DefaultMaxTokens   = 2000
	DefaultTemperature = 0.7
	DefaultTopP        = 0.95
	requestTimeout     = 30 * time.Second
)

// GenerationRequest is the input for one pipeline run. It is owned by that
// run and never shared across concurrent runs.
type GenerationRequest struct {
	SelectedText    string
	DocumentContent string
	ThemePrompt     string
	WriteMode       types.WriteMode
}

// Options tunes per-client sampling defaults. Zero values fall back to the
// package defaults.
type Options struct {
	Model       string
	MaxTokens   int
	Temperature float64
	TopP        float64
}

// Client sends generation requests to whichever provider the caller names.
type Client struct {
	registry   *providers.Registry
	httpClient *http.Client
	policy     retry.Policy
	opts       Options
	logger     *logging.Logger
}

// NewClient builds a client over the given provider registry.
func NewClient(registry *providers.Registry, policy retry.Policy, opts Options) *Client {
	if opts.MaxTokens == 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	if opts.Temperature == 0 {
		opts.Temperature = DefaultTemperature
	}
	if opts.TopP == 0 {
		opts.TopP = DefaultTopP
	}
	return &Client{
		registry:   registry,
		httpClient: &http.Client{Timeout: requestTimeout},
		policy:     policy,
		opts:       opts,
		logger:     logging.GetLogger(false),
	}
}

// Generate runs one request end to end: prompt construction, provider
// request with retry, response normalization, and content cleaning.
func (c *Client) Generate(ctx context.Context, req GenerationRequest, providerID, credential string) (string, error) {
	profile, adapter, err := c.registry.Lookup(providerID)
	if err != nil {
		return "", err
	}

	prompt := prompts.Build(req.SelectedText, req.DocumentContent, req.ThemePrompt, req.WriteMode)
	c.logger.Debug("built %s prompt, %d chars", req.WriteMode, len(prompt))

	body, err := adapter.BuildRequest(prompt, c.sampling(profile))
	if err != nil {
		return "", fmt.Errorf("could not build %s request: %w", providerID, err)
	}

	respBody, err := c.post(ctx, profile, credential, body)
	if err != nil {
		return "", err
	}

	content, err := adapter.ParseResponse(respBody)
	if err != nil {
		return "", err
	}

	cleaned := CleanGeneratedContent(content)
	c.logger.Info("generated %d chars via %s", len(cleaned), providerID)
	return cleaned, nil
}

// ValidateCredential sends a 1-token probe and reports whether the provider
// accepted the credential. Success means the response has the provider's
// well-formed completion shape; the content itself is irrelevant.
func (c *Client) ValidateCredential(ctx context.Context, providerID, credential string) (bool, error) {
	profile, adapter, err := c.registry.Lookup(providerID)
	if err != nil {
		return false, err
	}

	sampling := c.sampling(profile)
	sampling.MaxTokens = 1
	body, err := adapter.BuildRequest(prompts.ValidationPrompt, sampling)
	if err != nil {
		return false, fmt.Errorf("could not build %s request: %w", providerID, err)
	}

	respBody, err := c.post(ctx, profile, credential, body)
	if err != nil {
		if IsAuthError(err) {
			return false, nil
		}
		return false, err
	}
	if err := adapter.CheckShape(respBody); err != nil {
		c.logger.Warn("credential probe for %s returned a malformed response: %v", providerID, err)
		return false, nil
	}
	return true, nil
}

func (c *Client) sampling(profile providers.Profile) providers.Sampling {
	model := c.opts.Model
	if model == "" {
		model = profile.DefaultModel
	}
	return providers.Sampling{
		Model:       model,
		MaxTokens:   c.opts.MaxTokens,
		Temperature: c.opts.Temperature,
		TopP:        c.opts.TopP,
		N:           1,
		Stream:      false,
	}
}

// post issues the provider request under the retry policy. 401 fails
// immediately as an auth error, 429 and transport failures are retried
// with backoff, any other non-200 status fails immediately.
func (c *Client) post(ctx context.Context, profile providers.Profile, credential string, body []byte) ([]byte, error) {
	var respBody []byte
	attempt := 0

	err := retry.Do(ctx, c.policy, isRetryable, func() error {
		attempt++
		c.logger.Debug("sending %s request, attempt %d/%d", profile.ID, attempt, c.policy.MaxAttempts)

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, profile.CompletionURL(), bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("could not build HTTP request: %w", err)
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("Accept", "application/json")
		httpReq.Header.Set(profile.AuthHeaderName, profile.AuthPrefix+credential)

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			c.logger.Warn("%s transport error: %v", profile.ID, err)
			return &TransportError{Provider: profile.ID, Err: err}
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusUnauthorized:
			return &AuthError{Provider: profile.ID}
		case resp.StatusCode == http.StatusTooManyRequests:
			c.logger.Warn("%s rate limited, attempt %d", profile.ID, attempt)
			return &RateLimitError{Provider: profile.ID}
		case resp.StatusCode != http.StatusOK:
			data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			return &HTTPError{Provider: profile.ID, StatusCode: resp.StatusCode, Body: string(data)}
		}

		respBody, err = io.ReadAll(resp.Body)
		if err != nil {
			return &TransportError{Provider: profile.ID, Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return respBody, nil
}
