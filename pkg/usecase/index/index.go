// Package index holds the in-memory embedding index over the
// transcript chunks. The index is built once at startup and is
// read-only afterwards.
package index

import (
	"context"
	"math"
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/meetkit/rubybot/pkg/adapter"
	"github.com/meetkit/rubybot/pkg/model"
)

const DefaultTopK = 4

type Index struct {
	embedder adapter.Embedder
	chunks   []model.Chunk
	vectors  [][]float32
}

// Build embeds every chunk and stores the vectors. The embedder is
// retained so queries use the same embedding model as the build.
func Build(ctx context.Context, embedder adapter.Embedder, chunks []model.Chunk) (*Index, error) {
	if len(chunks) == 0 {
		return nil, goerr.New("no chunks to index")
	}

	vectors := make([][]float32, len(chunks))
	dimension := 0
	for i, chunk := range chunks {
		vec, err := embedder.Embed(ctx, chunk.Text)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to embed chunk", goerr.V("chunk", chunk.Index))
		}
		if len(vec) == 0 {
			return nil, goerr.New("embedder returned an empty vector", goerr.V("chunk", chunk.Index))
		}
		if dimension == 0 {
			dimension = len(vec)
		}
		if len(vec) != dimension {
			return nil, goerr.New("embedding dimension mismatch",
				goerr.V("chunk", chunk.Index), goerr.V("want", dimension), goerr.V("got", len(vec)))
		}
		vectors[i] = vec
	}

	return &Index{
		embedder: embedder,
		chunks:   chunks,
		vectors:  vectors,
	}, nil
}

// Query embeds text and returns the k most similar chunks by cosine
// similarity, best first. Ties keep the original chunk order.
func (x *Index) Query(ctx context.Context, text string, k int) ([]model.Hit, error) {
	if k <= 0 {
		k = DefaultTopK
	}

	vec, err := x.embedder.Embed(ctx, text)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to embed query")
	}

	hits := make([]model.Hit, len(x.chunks))
	for i := range x.chunks {
		hits[i] = model.Hit{
			Chunk: x.chunks[i],
			Score: cosineSimilarity(x.vectors[i], vec),
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })

	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

// Size returns the number of indexed chunks
func (x *Index) Size() int {
	return len(x.chunks)
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
