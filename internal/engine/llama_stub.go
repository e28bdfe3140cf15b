//go:build !llama

package engine

// This file provides a no-CGO stub for the llama engine. It is compiled when
// the 'llama' build tag is NOT set, keeping default builds and CI CGO-free.
// The real engine lives in llama.go (tagged 'llama').

type stubEngine struct{}

// New returns a stub engine that refuses to load. This avoids any mocked
// inference in binaries built without CGO support.
func New() Engine {
	return &stubEngine{}
}

func (e *stubEngine) Load(cfg LoadConfig) (Handle, error) {
	return nil, ErrNotBuilt
}
