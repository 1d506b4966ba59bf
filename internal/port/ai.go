package port

import (
	"context"

	"github.com/coverdrive-ai/coverdrive/internal/domain"
)

// AIProvider abstracts the hosted AI backend for embeddings and chat completions.
// Implementations can target OpenAI or any compatible API.
type AIProvider interface {
	// EmbedModel returns the identifier of the embedding model being used.
	EmbedModel() string

	// ChatModel returns the identifier of the chat model being used.
	ChatModel() string

	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts in one call.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// ChatStream submits the assembled message sequence and streams the
	// completion token-by-token via channel. The channel is closed when the
	// upstream stream ends or ctx is cancelled. An error establishing the
	// call is returned before any channel is produced.
	ChatStream(ctx context.Context, messages []domain.Message) (<-chan string, error)
}
