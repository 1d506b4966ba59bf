package mock

import (
	"context"
	"hash/fnv"
	"math"

	"github.com/coverdrive-ai/coverdrive/internal/domain"
)

// AIProvider is a test double for port.AIProvider.
// It allows custom behavior injection via function fields and records calls.
type AIProvider struct {
	// EmbedFunc is called by Embed if set. If nil, a deterministic vector
	// derived from the text hash is returned.
	EmbedFunc func(ctx context.Context, text string) ([]float32, error)

	// EmbedBatchFunc is called by EmbedBatch if set.
	EmbedBatchFunc func(ctx context.Context, texts []string) ([][]float32, error)

	// ChatStreamFunc is called by ChatStream if set. If nil, a canned
	// two-token stream is returned.
	ChatStreamFunc func(ctx context.Context, messages []domain.Message) (<-chan string, error)

	// Dimension of the default deterministic vectors.
	Dimension int

	// EmbedCalls records the text of every Embed invocation.
	EmbedCalls []string

	// EmbedBatchCalls records the texts of every EmbedBatch invocation.
	EmbedBatchCalls [][]string

	// ChatStreamCalls records the message sequence of every ChatStream invocation.
	ChatStreamCalls [][]domain.Message
}

// NewAIProvider creates a mock provider with default deterministic behavior.
func NewAIProvider() *AIProvider {
	return &AIProvider{Dimension: 8}
}

func (m *AIProvider) EmbedModel() string { return "mock-embed" }
func (m *AIProvider) ChatModel() string  { return "mock-chat" }

// Embed returns a deterministic embedding derived from the text hash.
func (m *AIProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	m.EmbedCalls = append(m.EmbedCalls, text)
	if m.EmbedFunc != nil {
		return m.EmbedFunc(ctx, text)
	}
	return deterministicVector(text, m.dim()), nil
}

// EmbedBatch returns deterministic embeddings for each text.
func (m *AIProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	m.EmbedBatchCalls = append(m.EmbedBatchCalls, texts)
	if m.EmbedBatchFunc != nil {
		return m.EmbedBatchFunc(ctx, texts)
	}
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = deterministicVector(text, m.dim())
	}
	return vectors, nil
}

// ChatStream returns a canned stream unless ChatStreamFunc is set.
func (m *AIProvider) ChatStream(ctx context.Context, messages []domain.Message) (<-chan string, error) {
	m.ChatStreamCalls = append(m.ChatStreamCalls, messages)
	if m.ChatStreamFunc != nil {
		return m.ChatStreamFunc(ctx, messages)
	}
	ch := make(chan string, 2)
	ch <- "mock "
	ch <- "answer"
	close(ch)
	return ch, nil
}

func (m *AIProvider) dim() int {
	if m.Dimension > 0 {
		return m.Dimension
	}
	return 8
}

// deterministicVector produces a unit-ish vector seeded by the text hash so
// identical texts always embed identically.
func deterministicVector(text string, dim int) []float32 {
	h := fnv.New64a()
	h.Write([]byte(text))
	seed := h.Sum64()

	v := make([]float32, dim)
	var norm float64
	for i := range v {
		seed = seed*6364136223846793005 + 1442695040888963407
		v[i] = float32(int64(seed>>33)) / float32(math.MaxInt32)
		norm += float64(v[i]) * float64(v[i])
	}
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range v {
			v[i] *= scale
		}
	}
	return v
}
