// Package mock provides a test double for the ai.Embedder interface.
//
// The mock runs without an external embedding service and produces
// deterministic vectors, so ranking and cache tests are repeatable.
//
// # Usage in Tests
//
//	embedder := mock.NewMockEmbedder()
//	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
//	    return []float32{0.1, 0.2, 0.3}, nil
//	}
//	count := embedder.CallCount()
package mock
