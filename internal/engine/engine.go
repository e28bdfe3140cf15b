// Package engine is the boundary to the native inference runtime. The
// Manager treats it as a black box: Load produces a Handle, the Handle
// answers completion calls. The real llama.cpp implementation is built with
// `-tags=llama`; the default build carries a fail-fast stub so CI stays
// CGO-free.
package engine

import (
	"context"
	"errors"
)

// ErrNotBuilt is returned by the stub engine when the binary was compiled
// without the 'llama' build tag.
var ErrNotBuilt = errors.New("llama support not built (missing 'llama' build tag)")

// LoadConfig carries the parameters the engine needs to load a model.
type LoadConfig struct {
	ModelPath     string
	NGPULayers    int
	NCtx          int
	NBatch        int
	NThreads      int
	UseMlock      bool
	UseMmap       bool
	RopeFreqBase  float64
	RopeFreqScale float64
}

// Params captures per-request generation parameters.
type Params struct {
	MaxTokens   int
	Temperature float64
	TopP        float64
	Stop        []string
	// Echo prefixes the completion with the prompt (single-shot only).
	Echo bool
}

// Message is one chat turn passed to ChatComplete.
type Message struct {
	Role    string
	Content string
}

// Usage contains the engine's token accounting.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Result is the engine's answer to a completion call.
type Result struct {
	Content      string
	FinishReason string
	Usage        Usage
}

// Handle is an opaque reference to a loaded model. A handle is never mutated
// after Load returns; reload replaces it wholesale.
type Handle interface {
	// Complete runs single-shot text completion.
	Complete(ctx context.Context, prompt string, p Params) (Result, error)
	// ChatComplete runs chat-style completion over the given messages.
	ChatComplete(ctx context.Context, messages []Message, p Params) (Result, error)
	// Close releases the model's resources.
	Close() error
}

// Engine loads models. Implementations must be safe for use from a single
// goroutine at a time; the Manager serializes Load calls.
type Engine interface {
	Load(cfg LoadConfig) (Handle, error)
}
