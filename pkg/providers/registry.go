package providers

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps provider ids to their profile and wire-shape adapter.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]entry
}

type entry struct {
	profile Profile
	adapter Adapter
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// Register adds or replaces a provider.
func (r *Registry) Register(profile Profile, adapter Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[profile.ID] = entry{profile: profile, adapter: adapter}
}

// Lookup returns the profile and adapter for a provider id.
func (r *Registry) Lookup(id string) (Profile, Adapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return Profile{}, nil, fmt.Errorf("unknown provider %q", id)
	}
	return e.profile, e.adapter, nil
}

// IDs returns the registered provider ids, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Builtin returns a registry preloaded with every supported provider.
func Builtin() *Registry {
	r := NewRegistry()

	r.Register(Profile{
		ID:             "deepseek",
		BaseURL:        "https://api.deepseek.com",
		CompletionPath: "/v1/chat/completions",
		DefaultModel:   "deepseek-chat",
		AuthHeaderName: "Authorization",
		AuthPrefix:     "Bearer ",
	}, NewChatAdapter("deepseek"))

	r.Register(Profile{
		ID:             "doubao",
		BaseURL:        "https://api.doubao.com",
		CompletionPath: "/api/v1/chat/completions",
		DefaultModel:   "doubao-pro-4k",
		AuthHeaderName: "Authorization",
		AuthPrefix:     "Bearer ",
	}, NewChatAdapter("doubao"))

	r.Register(Profile{
		ID:             "kimi",
		BaseURL:        "https://api.moonshot.cn",
		CompletionPath: "/v1/chat/completions",
		DefaultModel:   "moonshot-v1-8k",
		AuthHeaderName: "Authorization",
		AuthPrefix:     "Bearer ",
	}, NewChatAdapter("kimi"))

	r.Register(Profile{
		ID:             "qianwen",
		BaseURL:        "https://dashscope.aliyuncs.com",
		CompletionPath: "/api/v1/services/aigc/text-generation/generation",
		DefaultModel:   "qwen-turbo",
		AuthHeaderName: "Authorization",
		AuthPrefix:     "Bearer ",
	}, NewQianwenAdapter())

	// Local models through Ollama's OpenAI-compatible endpoint. No key is
	// required; the auth header is still sent for symmetry.
	r.Register(Profile{
		ID:             "ollama",
		BaseURL:        "http://localhost:11434",
		CompletionPath: "/v1/chat/completions",
		DefaultModel:   "llama3.2",
		AuthHeaderName: "Authorization",
		AuthPrefix:     "Bearer ",
	}, NewChatAdapter("ollama"))

	return r
}
