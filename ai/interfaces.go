package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity
// scoring. Implementations must be thread-safe for concurrent use, and must
// return vectors of a fixed dimension for a given model version: all vectors
// that meet in one ranking run have to agree on their length.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns an error if the embedding generation fails; a failed provider
	// is fatal for ranking, so callers propagate this error.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a
	// batch, in input order. Batch processing is more efficient than calling
	// EmbedText repeatedly.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}
