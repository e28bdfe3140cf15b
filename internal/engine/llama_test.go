//go:build llama

package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	llama "github.com/go-skynet/go-llama.cpp"
)

// serialPredictor flags overlapping Predict calls and feeds three tokens to
// whichever callback was registered for the current call.
type serialPredictor struct {
	inflight atomic.Int32
	overlap  atomic.Bool
	cb       func(token string) bool
}

func (p *serialPredictor) SetTokenCallback(cb func(token string) bool) { p.cb = cb }

func (p *serialPredictor) Predict(text string, _ ...llama.PredictOption) (string, error) {
	if p.inflight.Add(1) != 1 {
		p.overlap.Store(true)
	}
	defer p.inflight.Add(-1)
	for i := 0; i < 3; i++ {
		time.Sleep(time.Millisecond)
		if !p.cb("tok") {
			break
		}
	}
	return "out", nil
}

func (p *serialPredictor) Free() {}

// One handle, many callers: the callback+Predict pair must run one call at a
// time so each request keeps its own token count and cancellation.
func TestHandleSerializesPredict(t *testing.T) {
	p := &serialPredictor{}
	h := &llamaHandle{model: p, threads: 1}

	const n = 8
	results := make([]Result, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := h.Complete(context.Background(), "hi", Params{MaxTokens: 5})
			if err != nil {
				t.Errorf("complete %d: %v", i, err)
				return
			}
			results[i] = res
		}(i)
	}
	wg.Wait()

	if p.overlap.Load() {
		t.Fatalf("Predict ran concurrently on a single model")
	}
	for i, res := range results {
		if res.Usage.CompletionTokens != 3 {
			t.Fatalf("call %d counted %d generated tokens, want 3", i, res.Usage.CompletionTokens)
		}
		if res.FinishReason != "stop" {
			t.Fatalf("call %d finish=%q", i, res.FinishReason)
		}
	}
}

func TestHandleCompleteAfterClose(t *testing.T) {
	h := &llamaHandle{model: &serialPredictor{}, threads: 1}
	if err := h.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := h.Complete(context.Background(), "hi", Params{MaxTokens: 1}); err == nil {
		t.Fatalf("expected error after close")
	}
}
