package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selwrite/selwrite/pkg/providers"
	"github.com/selwrite/selwrite/pkg/retry"
	"github.com/selwrite/selwrite/pkg/types"
)

func testRegistry(serverURL string) *providers.Registry {
	r := providers.NewRegistry()
	r.Register(providers.Profile{
		ID:             "testchat",
		BaseURL:        serverURL,
		CompletionPath: "/v1/chat/completions",
		DefaultModel:   "test-model",
		AuthHeaderName: "Authorization",
		AuthPrefix:     "Bearer ",
	}, providers.NewChatAdapter("testchat"))
	r.Register(providers.Profile{
		ID:             "testqianwen",
		BaseURL:        serverURL,
		CompletionPath: "/api/v1/services/aigc/text-generation/generation",
		DefaultModel:   "qwen-turbo",
		AuthHeaderName: "Authorization",
		AuthPrefix:     "Bearer ",
	}, providers.NewQianwenAdapter())
	return r
}

func fastPolicy() retry.Policy {
	return retry.Policy{MaxAttempts: 3, InitialDelay: 20 * time.Millisecond, BackoffFactor: 1.5}
}

func chatResponse(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	return string(b)
}

func sampleRequest() GenerationRequest {
	return GenerationRequest{
		SelectedText:    "selected",
		DocumentContent: "document body",
		ThemePrompt:     "",
		WriteMode:       types.WriteModeOverwrite,
	}
}

func TestGenerateSuccess(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(chatResponse("generated output")))
	}))
	defer server.Close()

	client := NewClient(testRegistry(server.URL), fastPolicy(), Options{})
	got, err := client.Generate(context.Background(), sampleRequest(), "testchat", "sk-test")
	require.NoError(t, err)

	assert.Equal(t, "generated output", got)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "test-model", gotBody["model"])

	messages := gotBody["messages"].([]any)
	prompt := messages[0].(map[string]any)["content"].(string)
	assert.Contains(t, prompt, "selected")
	assert.Contains(t, prompt, "document body")
}

func TestGenerateRetriesOn429ThenSucceeds(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(chatResponse("after retry")))
	}))
	defer server.Close()

	policy := fastPolicy()
	client := NewClient(testRegistry(server.URL), policy, Options{})

	start := time.Now()
	got, err := client.Generate(context.Background(), sampleRequest(), "testchat", "sk-test")
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, "after retry", got)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	// Exactly one retry: the backoff delay lies in [initial, initial*factor].
	assert.GreaterOrEqual(t, elapsed, policy.InitialDelay)
	assert.Less(t, elapsed, 3*policy.InitialDelay)
}

func TestGenerate401FailsImmediately(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(testRegistry(server.URL), fastPolicy(), Options{})
	_, err := client.Generate(context.Background(), sampleRequest(), "testchat", "bad-key")

	require.Error(t, err)
	assert.True(t, IsAuthError(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGenerateOtherHTTPErrorFailsImmediately(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(testRegistry(server.URL), fastPolicy(), Options{})
	_, err := client.Generate(context.Background(), sampleRequest(), "testchat", "sk-test")

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGenerateExhaustsRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(testRegistry(server.URL), fastPolicy(), Options{})
	_, err := client.Generate(context.Background(), sampleRequest(), "testchat", "sk-test")

	var exhausted *retry.ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))

	var rl *RateLimitError
	assert.ErrorAs(t, err, &rl)
}

func TestGenerateQianwenShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req, "input")
		assert.Contains(t, req, "parameters")
		w.Write([]byte(`{"output":{"text":"qianwen says hi"}}`))
	}))
	defer server.Close()

	client := NewClient(testRegistry(server.URL), fastPolicy(), Options{})
	got, err := client.Generate(context.Background(), sampleRequest(), "testqianwen", "sk-test")
	require.NoError(t, err)
	assert.Equal(t, "qianwen says hi", got)
}

func TestGenerateMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"unexpected":"shape"}`))
	}))
	defer server.Close()

	client := NewClient(testRegistry(server.URL), fastPolicy(), Options{})
	_, err := client.Generate(context.Background(), sampleRequest(), "testchat", "sk-test")

	require.Error(t, err)
	assert.True(t, providers.IsFormatError(err))
}

func TestGenerateCleansEchoedTemplate(t *testing.T) {
	raw := "```\n### Selected text (primary focus):\nThe actual article.\n```"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chatResponse(raw)))
	}))
	defer server.Close()

	client := NewClient(testRegistry(server.URL), fastPolicy(), Options{})
	got, err := client.Generate(context.Background(), sampleRequest(), "testchat", "sk-test")
	require.NoError(t, err)
	assert.Equal(t, "The actual article.", got)
}

func TestGenerateUnknownProvider(t *testing.T) {
	client := NewClient(providers.NewRegistry(), fastPolicy(), Options{})
	_, err := client.Generate(context.Background(), sampleRequest(), "nope", "key")
	assert.Error(t, err)
}

func TestValidateCredential(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		var gotMaxTokens float64
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			gotMaxTokens = req["max_tokens"].(float64)
			w.Write([]byte(chatResponse("")))
		}))
		defer server.Close()

		client := NewClient(testRegistry(server.URL), fastPolicy(), Options{})
		ok, err := client.ValidateCredential(context.Background(), "testchat", "sk-good")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, float64(1), gotMaxTokens)
	})

	t.Run("rejected credential", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		client := NewClient(testRegistry(server.URL), fastPolicy(), Options{})
		ok, err := client.ValidateCredential(context.Background(), "testchat", "sk-bad")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("malformed response shape", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":"fine"}`))
		}))
		defer server.Close()

		client := NewClient(testRegistry(server.URL), fastPolicy(), Options{})
		ok, err := client.ValidateCredential(context.Background(), "testchat", "sk-good")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
