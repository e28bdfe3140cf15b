package manager

import "errors"

// loadError wraps an engine load failure for 500 mapping.
type loadError struct{ cause error }

func (e loadError) Error() string { return "model load failed: " + e.cause.Error() }
func (e loadError) Unwrap() error { return e.cause }

// IsLoadError reports whether err came from a failed model load.
func IsLoadError(err error) bool {
	var le loadError
	return errors.As(err, &le)
}

// generationError wraps an engine inference failure for 500 mapping.
type generationError struct{ cause error }

func (e generationError) Error() string { return "generation failed: " + e.cause.Error() }
func (e generationError) Unwrap() error { return e.cause }

// IsGenerationError reports whether err came from a failed generation.
func IsGenerationError(err error) bool {
	var ge generationError
	return errors.As(err, &ge)
}
