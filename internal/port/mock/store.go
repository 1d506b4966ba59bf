package mock

import (
	"context"

	"github.com/coverdrive-ai/coverdrive/internal/domain"
)

// VectorStore is a test double for port.VectorStore backed by a slice.
type VectorStore struct {
	// WriteFunc is called by Write if set. If nil, the chunk is appended to
	// Records.
	WriteFunc func(ctx context.Context, chunk *domain.Chunk) error

	// SearchFunc is called by Search if set. If nil, up to limit stored
	// records are returned in insertion order.
	SearchFunc func(ctx context.Context, queryVector []float32, limit int) ([]domain.ScoredChunk, error)

	// EnsureCollectionFunc is called by EnsureCollection if set.
	EnsureCollectionFunc func(ctx context.Context) error

	// Records holds every chunk written through the default Write path.
	Records []domain.Chunk

	// SearchCalls records the limit of every Search invocation.
	SearchCalls []int
}

// NewVectorStore creates an empty in-memory mock store.
func NewVectorStore() *VectorStore {
	return &VectorStore{}
}

func (m *VectorStore) EnsureCollection(ctx context.Context) error {
	if m.EnsureCollectionFunc != nil {
		return m.EnsureCollectionFunc(ctx)
	}
	return nil
}

func (m *VectorStore) Write(ctx context.Context, chunk *domain.Chunk) error {
	if m.WriteFunc != nil {
		return m.WriteFunc(ctx, chunk)
	}
	m.Records = append(m.Records, *chunk)
	return nil
}

func (m *VectorStore) Search(ctx context.Context, queryVector []float32, limit int) ([]domain.ScoredChunk, error) {
	m.SearchCalls = append(m.SearchCalls, limit)
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, queryVector, limit)
	}
	results := make([]domain.ScoredChunk, 0, limit)
	for i, record := range m.Records {
		if i >= limit {
			break
		}
		results = append(results, domain.ScoredChunk{Chunk: record, Similarity: 1})
	}
	return results, nil
}
