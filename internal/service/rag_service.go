package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/coverdrive-ai/coverdrive/internal/domain"
	"github.com/coverdrive-ai/coverdrive/internal/port"
)

// RAGService orchestrates the per-request retrieval-augmented pipeline:
// embed the latest message, retrieve nearest chunks, assemble the augmented
// prompt, and stream the completion.
type RAGService struct {
	ai             port.AIProvider
	store          port.VectorStore
	retrievalLimit int
}

// NewRAGService creates a new RAG service.
func NewRAGService(ai port.AIProvider, store port.VectorStore, retrievalLimit int) *RAGService {
	if retrievalLimit <= 0 {
		retrievalLimit = 10
	}
	return &RAGService{ai: ai, store: store, retrievalLimit: retrievalLimit}
}

// Answer runs the query pipeline for the given conversation and returns the
// token stream. Every error it returns happens before any token is produced,
// so the caller can still respond with a structured error payload.
func (s *RAGService) Answer(ctx context.Context, conversation []domain.Message) (<-chan string, error) {
	if len(conversation) == 0 {
		return nil, port.ErrEmptyConversation
	}
	for _, m := range conversation {
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %s", port.ErrInvalidMessage, err)
		}
	}

	// Only the latest message drives retrieval; the full history is still
	// forwarded to the completion call.
	question := conversation[len(conversation)-1].Content

	queryVector, err := s.ai.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	// A store failure degrades to an empty context instead of aborting: a
	// missing context is preferable to refusing to answer, since the model
	// has general knowledge as a fallback.
	var contextTexts []string
	chunks, err := s.store.Search(ctx, queryVector, s.retrievalLimit)
	if err != nil {
		slog.Error("vector search failed, continuing with empty context", "error", err)
	} else {
		if len(chunks) > s.retrievalLimit {
			chunks = chunks[:s.retrievalLimit]
		}
		contextTexts = make([]string, len(chunks))
		for i, chunk := range chunks {
			contextTexts[i] = chunk.Content
		}
	}

	messages := make([]domain.Message, 0, len(conversation)+1)
	messages = append(messages, domain.Message{
		Role:    domain.RoleSystem,
		Content: buildSystemPrompt(contextTexts, question),
	})
	messages = append(messages, conversation...)

	stream, err := s.ai.ChatStream(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("chat stream: %w", err)
	}

	slog.Info("answering query",
		"history", len(conversation),
		"context_chunks", len(contextTexts),
		"model", s.ai.ChatModel(),
	)
	return stream, nil
}
