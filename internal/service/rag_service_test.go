package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coverdrive-ai/coverdrive/internal/domain"
	"github.com/coverdrive-ai/coverdrive/internal/port"
	"github.com/coverdrive-ai/coverdrive/internal/port/mock"
)

func userMessage(content string) domain.Message {
	return domain.Message{Role: domain.RoleUser, Content: content}
}

func collect(t *testing.T, stream <-chan string) string {
	t.Helper()
	var sb strings.Builder
	for token := range stream {
		sb.WriteString(token)
	}
	return sb.String()
}

func TestAnswerEmptyConversation(t *testing.T) {
	aiMock := mock.NewAIProvider()
	storeMock := mock.NewVectorStore()
	svc := NewRAGService(aiMock, storeMock, 10)

	_, err := svc.Answer(context.Background(), nil)
	assert.ErrorIs(t, err, port.ErrEmptyConversation)

	// No provider call is made for an empty conversation.
	assert.Empty(t, aiMock.EmbedCalls)
	assert.Empty(t, aiMock.ChatStreamCalls)
	assert.Empty(t, storeMock.SearchCalls)
}

func TestAnswerInvalidMessage(t *testing.T) {
	svc := NewRAGService(mock.NewAIProvider(), mock.NewVectorStore(), 10)

	_, err := svc.Answer(context.Background(), []domain.Message{
		{Role: "moderator", Content: "hello"},
	})
	assert.ErrorIs(t, err, port.ErrInvalidMessage)
}

func TestAnswerEmbedsOnlyLatestMessage(t *testing.T) {
	aiMock := mock.NewAIProvider()
	svc := NewRAGService(aiMock, mock.NewVectorStore(), 10)

	conversation := []domain.Message{
		userMessage("What is a googly?"),
		{Role: domain.RoleAssistant, Content: "A googly is a deceptive delivery."},
		userMessage("Who won the 2023 World Cup?"),
	}
	stream, err := svc.Answer(context.Background(), conversation)
	require.NoError(t, err)
	collect(t, stream)

	require.Len(t, aiMock.EmbedCalls, 1)
	assert.Equal(t, "Who won the 2023 World Cup?", aiMock.EmbedCalls[0])
}

func TestAnswerSearchFailureDegradesToEmptyContext(t *testing.T) {
	aiMock := mock.NewAIProvider()
	storeMock := mock.NewVectorStore()
	storeMock.SearchFunc = func(ctx context.Context, queryVector []float32, limit int) ([]domain.ScoredChunk, error) {
		return nil, errors.New("collection unavailable")
	}
	svc := NewRAGService(aiMock, storeMock, 10)

	stream, err := svc.Answer(context.Background(), []domain.Message{userMessage("Who invented the doosra?")})
	require.NoError(t, err)
	assert.Equal(t, "mock answer", collect(t, stream))

	require.Len(t, aiMock.ChatStreamCalls, 1)
	system := aiMock.ChatStreamCalls[0][0]
	assert.Equal(t, domain.RoleSystem, system.Role)
	assert.Contains(t, system.Content, "START CONTEXT\n[]\nEND CONTEXT")
}

func TestAnswerEmbedFailureAborts(t *testing.T) {
	aiMock := mock.NewAIProvider()
	aiMock.EmbedFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("quota exceeded")
	}
	storeMock := mock.NewVectorStore()
	svc := NewRAGService(aiMock, storeMock, 10)

	_, err := svc.Answer(context.Background(), []domain.Message{userMessage("hello")})
	require.ErrorContains(t, err, "embed query")
	assert.Empty(t, storeMock.SearchCalls)
	assert.Empty(t, aiMock.ChatStreamCalls)
}

func TestAnswerChatStreamFailureAborts(t *testing.T) {
	aiMock := mock.NewAIProvider()
	aiMock.ChatStreamFunc = func(ctx context.Context, messages []domain.Message) (<-chan string, error) {
		return nil, errors.New("model overloaded")
	}
	svc := NewRAGService(aiMock, mock.NewVectorStore(), 10)

	_, err := svc.Answer(context.Background(), []domain.Message{userMessage("hello")})
	assert.ErrorContains(t, err, "chat stream")
}

func TestAnswerContextNeverExceedsLimit(t *testing.T) {
	aiMock := mock.NewAIProvider()
	storeMock := mock.NewVectorStore()
	storeMock.SearchFunc = func(ctx context.Context, queryVector []float32, limit int) ([]domain.ScoredChunk, error) {
		// Misbehaving store returning more than asked for.
		results := make([]domain.ScoredChunk, 15)
		for i := range results {
			results[i].Content = fmt.Sprintf("chunk %d", i)
		}
		return results, nil
	}
	svc := NewRAGService(aiMock, storeMock, 10)

	stream, err := svc.Answer(context.Background(), []domain.Message{userMessage("test")})
	require.NoError(t, err)
	collect(t, stream)

	require.Equal(t, []int{10}, storeMock.SearchCalls)
	system := aiMock.ChatStreamCalls[0][0].Content
	assert.Contains(t, system, "chunk 9")
	assert.NotContains(t, system, "chunk 10")
}

func TestAnswerAssemblesPromptBeforeHistory(t *testing.T) {
	aiMock := mock.NewAIProvider()
	storeMock := mock.NewVectorStore()
	storeMock.SearchFunc = func(ctx context.Context, queryVector []float32, limit int) ([]domain.ScoredChunk, error) {
		return []domain.ScoredChunk{
			{Chunk: domain.Chunk{Content: "Australia won the 2023 Cricket World Cup."}},
		}, nil
	}
	svc := NewRAGService(aiMock, storeMock, 10)

	conversation := []domain.Message{
		userMessage("hi"),
		{Role: domain.RoleAssistant, Content: "hello"},
		userMessage("Who won the 2023 World Cup?"),
	}
	stream, err := svc.Answer(context.Background(), conversation)
	require.NoError(t, err)
	assert.NotEmpty(t, collect(t, stream))

	require.Len(t, aiMock.ChatStreamCalls, 1)
	sent := aiMock.ChatStreamCalls[0]
	require.Len(t, sent, 4)

	// One system message first, then the original history in original order.
	assert.Equal(t, domain.RoleSystem, sent[0].Role)
	assert.Contains(t, sent[0].Content, "Australia won the 2023 Cricket World Cup.")
	assert.Contains(t, sent[0].Content, "Question: Who won the 2023 World Cup?")
	assert.Equal(t, conversation, sent[1:])
}

func TestBuildSystemPrompt(t *testing.T) {
	t.Run("serializes context as json array", func(t *testing.T) {
		prompt := buildSystemPrompt([]string{`a "quoted" chunk`, "plain"}, "q?")
		assert.Contains(t, prompt, `["a \"quoted\" chunk","plain"]`)
		assert.Contains(t, prompt, "Question: q?")
	})

	t.Run("nil context serializes to empty array", func(t *testing.T) {
		prompt := buildSystemPrompt(nil, "q?")
		assert.Contains(t, prompt, "START CONTEXT\n[]\nEND CONTEXT")
	})
}
