//go:build llama

package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	llama "github.com/go-skynet/go-llama.cpp"
)

// llamaEngine loads models in-process via go-llama.cpp.
type llamaEngine struct{}

// New returns the in-process llama.cpp engine.
func New() Engine {
	return &llamaEngine{}
}

func (e *llamaEngine) Load(cfg LoadConfig) (Handle, error) {
	if strings.TrimSpace(cfg.ModelPath) == "" {
		return nil, errors.New("model path is empty")
	}
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, fmt.Errorf("model file not found: %s", cfg.ModelPath)
	}
	mo := []llama.ModelOption{
		llama.SetContext(cfg.NCtx),
		llama.SetGPULayers(cfg.NGPULayers),
		llama.SetNBatch(cfg.NBatch),
		llama.SetMMap(cfg.UseMmap),
		llama.SetRopeFreqBase(float32(cfg.RopeFreqBase)),
		llama.SetRopeFreqScale(float32(cfg.RopeFreqScale)),
	}
	if cfg.UseMlock {
		mo = append(mo, llama.EnableMLock)
	}
	m, err := llama.New(cfg.ModelPath, mo...)
	if err != nil {
		return nil, err
	}
	return &llamaHandle{model: m, threads: cfg.NThreads}, nil
}

// predictor is the slice of go-llama.cpp the handle drives.
type predictor interface {
	SetTokenCallback(callback func(token string) bool)
	Predict(text string, po ...llama.PredictOption) (string, error)
	Free()
}

// llamaHandle owns one loaded model. A llama.cpp context is not safe for
// concurrent use and the token callback is per-model state, so mu serializes
// the callback registration and the Predict call as one unit.
type llamaHandle struct {
	mu      sync.Mutex
	model   predictor
	threads int
}

func (h *llamaHandle) Complete(ctx context.Context, prompt string, p Params) (Result, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.model == nil {
		return Result{}, errors.New("llama model not initialized")
	}
	// Count generated tokens through the callback; go-llama.cpp does not
	// expose the runtime's own accounting.
	completionTokens := 0
	h.model.SetTokenCallback(func(tok string) bool {
		select {
		case <-ctx.Done():
			return false
		default:
		}
		completionTokens++
		return true
	})
	text, err := h.model.Predict(prompt, predictOptions(p, h.threads)...)
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		return Result{}, err
	}
	finish := "stop"
	if completionTokens >= p.MaxTokens {
		finish = "length"
	}
	content := text
	if p.Echo {
		content = prompt + content
	}
	promptTokens := estimateTokens(prompt)
	return Result{
		Content:      content,
		FinishReason: finish,
		Usage: Usage{
			PromptTokens:     promptTokens,
			CompletionTokens: completionTokens,
			TotalTokens:      promptTokens + completionTokens,
		},
	}, nil
}

func (h *llamaHandle) ChatComplete(ctx context.Context, messages []Message, p Params) (Result, error) {
	p.Echo = false
	return h.Complete(ctx, renderChatPrompt(messages), p)
}

func (h *llamaHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.model != nil {
		h.model.Free()
		h.model = nil
	}
	return nil
}

func predictOptions(p Params, threads int) []llama.PredictOption {
	po := []llama.PredictOption{
		llama.SetTokens(max(1, p.MaxTokens)),
		llama.SetThreads(max(1, threads)),
		llama.SetTemperature(float32(p.Temperature)),
		llama.SetTopP(float32(p.TopP)),
	}
	if len(p.Stop) > 0 {
		po = append(po, llama.SetStopWords(p.Stop...))
	}
	return po
}

// estimateTokens approximates the prompt token count (~4 bytes per token for
// English text) since the binding does not surface the tokenizer count.
func estimateTokens(s string) int {
	n := len(s) / 4
	if n < 1 && len(s) > 0 {
		n = 1
	}
	return n
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
