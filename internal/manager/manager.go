package manager

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"inferd/internal/engine"
)

// Manager guards the lazily loaded model handle. Exactly one load or reload
// runs at a time; concurrent first-time callers block on the mutex instead of
// triggering duplicate loads.
type Manager struct {
	eng engine.Engine
	cfg engine.LoadConfig
	log zerolog.Logger

	mu     sync.Mutex // serializes load and reload; never held during inference
	handle atomic.Pointer[handleBox]
}

// handleBox wraps the interface value so it can live in an atomic.Pointer
// and counts in-flight users of the handle. The published reference held by
// the Manager counts as one; the handle is closed only when the last
// reference is dropped, so a reload never frees a model out from under an
// active inference call.
type handleBox struct {
	h    engine.Handle
	refs atomic.Int64
}

func newHandleBox(h engine.Handle) *handleBox {
	hb := &handleBox{h: h}
	hb.refs.Store(1)
	return hb
}

// retain takes a reference. It fails when the box is already draining to
// zero, which means the caller raced a reload and must re-read the pointer.
func (hb *handleBox) retain() bool {
	for {
		n := hb.refs.Load()
		if n == 0 {
			return false
		}
		if hb.refs.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

// release drops a reference and closes the handle once the last one is gone.
func (hb *handleBox) release() error {
	if hb.refs.Add(-1) == 0 {
		return hb.h.Close()
	}
	return nil
}

// New constructs a Manager. The engine and load configuration are fixed for
// the manager's lifetime; only the handle changes.
func New(eng engine.Engine, cfg engine.LoadConfig, log zerolog.Logger) *Manager {
	return &Manager{eng: eng, cfg: cfg, log: log}
}

// Acquire ensures the model is loaded and returns the current handle. The
// handle stays valid while it remains published; Complete and ChatComplete
// are the inference entry points and hold an in-flight reference for the
// duration of each call. Double-checked: the fast path is a lock-free read;
// the slow path re-checks under the mutex so a caller that blocked behind
// the winning loader does not load again. A failed load leaves the manager
// unloaded and the next call retries.
func (m *Manager) Acquire(ctx context.Context) (engine.Handle, error) {
	hb, err := m.acquire(ctx)
	if err != nil {
		return nil, err
	}
	h := hb.h
	m.release(hb)
	return h, nil
}

// acquire returns the current box with a reference taken for the caller,
// loading the model first if no handle exists. Callers must release the box
// when done with the handle.
func (m *Manager) acquire(ctx context.Context) (*handleBox, error) {
	if hb := m.handle.Load(); hb != nil && hb.retain() {
		return hb, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if hb := m.handle.Load(); hb != nil && hb.retain() {
		return hb, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h, err := m.load()
	if err != nil {
		return nil, err
	}
	hb := newHandleBox(h)
	hb.refs.Add(1) // caller's reference
	m.handle.Store(hb)
	return hb, nil
}

func (m *Manager) release(hb *handleBox) {
	if err := hb.release(); err != nil {
		m.log.Warn().Err(err).Msg("closing model handle failed")
	}
}

// Reload replaces the current handle with a freshly loaded one. It shares
// Acquire's critical section, so a reload never interleaves with an initial
// load or another reload. The existing handle is unpublished before the new
// load attempt; its resources are freed once the last in-flight call on it
// returns. If the load attempt fails the manager is left with no handle
// until the next successful Acquire or Reload.
func (m *Manager) Reload(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	m.log.Info().Msg("reloading model")
	if hb := m.handle.Swap(nil); hb != nil {
		m.release(hb)
	}
	h, err := m.load()
	if err != nil {
		reloadsTotal.WithLabelValues("error").Inc()
		return err
	}
	m.handle.Store(newHandleBox(h))
	reloadsTotal.WithLabelValues("success").Inc()
	m.log.Info().Msg("model reloaded")
	return nil
}

// load runs the engine load. Callers must hold m.mu.
func (m *Manager) load() (engine.Handle, error) {
	m.log.Info().
		Str("model_path", m.cfg.ModelPath).
		Int("n_gpu_layers", m.cfg.NGPULayers).
		Int("n_ctx", m.cfg.NCtx).
		Msg("loading model")
	h, err := m.eng.Load(m.cfg)
	if err != nil {
		loadsTotal.WithLabelValues("error").Inc()
		m.log.Error().Err(err).Msg("model load failed")
		return nil, loadError{cause: err}
	}
	loadsTotal.WithLabelValues("success").Inc()
	m.log.Info().Msg("model loaded")
	return h, nil
}

// IsLoaded reports whether a handle is currently published. Lock-free; used
// by health reporting.
func (m *Manager) IsLoaded() bool {
	return m.handle.Load() != nil
}

// Complete acquires the handle (loading lazily if needed) and runs a
// single-shot completion. Pure pass-through after lifecycle management: no
// retries, no added semantics.
func (m *Manager) Complete(ctx context.Context, prompt string, p engine.Params) (engine.Result, error) {
	hb, err := m.acquire(ctx)
	if err != nil {
		return engine.Result{}, err
	}
	defer m.release(hb)
	res, err := hb.h.Complete(ctx, prompt, p)
	if err != nil {
		generationsTotal.WithLabelValues("completion", "error").Inc()
		m.log.Error().Err(err).Msg("generation failed")
		return engine.Result{}, generationError{cause: err}
	}
	generationsTotal.WithLabelValues("completion", "success").Inc()
	return res, nil
}

// ChatComplete acquires the handle and runs a chat completion.
func (m *Manager) ChatComplete(ctx context.Context, messages []engine.Message, p engine.Params) (engine.Result, error) {
	hb, err := m.acquire(ctx)
	if err != nil {
		return engine.Result{}, err
	}
	defer m.release(hb)
	res, err := hb.h.ChatComplete(ctx, messages, p)
	if err != nil {
		generationsTotal.WithLabelValues("chat", "error").Inc()
		m.log.Error().Err(err).Msg("chat completion failed")
		return engine.Result{}, generationError{cause: err}
	}
	generationsTotal.WithLabelValues("chat", "success").Inc()
	return res, nil
}

// Close drops the published reference, if any. The handle's resources are
// freed immediately when idle, otherwise when the last in-flight call
// returns; the returned error reflects only a close performed here.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if hb := m.handle.Swap(nil); hb != nil {
		return hb.release()
	}
	return nil
}
