package adapter

import "context"

// LLM is an opaque text completion capability.
type LLM interface {
	// Complete generates text for the given prompt.
	Complete(ctx context.Context, prompt string) (string, error)
}

// Embedder converts text into a fixed-dimensional vector. The same
// embedder instance must be used at index build time and query time so
// that both sides share one embedding model.
type Embedder interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)
}
