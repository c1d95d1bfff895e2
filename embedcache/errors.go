package embedcache

import "errors"

var (
	// ErrRepositoryRequired is returned when a nil vector repository is passed to NewBuilder
	ErrRepositoryRequired = errors.New("vector repository is required")

	// ErrEmbedderRequired is returned when a nil embedder is passed to NewBuilder
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")
)
