package port

import (
	"context"

	"github.com/coverdrive-ai/coverdrive/internal/domain"
)

// VectorStore abstracts the vector collection used for retrieval.
type VectorStore interface {
	// EnsureCollection creates the backing collection if it does not exist.
	// The similarity metric is fixed at creation time.
	EnsureCollection(ctx context.Context) error

	// Write appends one chunk with its vector as a single record.
	// There are no update or dedup semantics; re-ingestion duplicates records.
	Write(ctx context.Context, chunk *domain.Chunk) error

	// Search returns up to limit records nearest to the query vector,
	// ordered best-first. An empty collection yields an empty result, not an
	// error.
	Search(ctx context.Context, queryVector []float32, limit int) ([]domain.ScoredChunk, error)
}
