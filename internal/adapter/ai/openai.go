package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/coverdrive-ai/coverdrive/internal/domain"
)

// OpenAIConfig holds the configuration for the OpenAI-backed provider.
type OpenAIConfig struct {
	APIKey     string
	EmbedModel string // e.g. text-embedding-3-small
	ChatModel  string // e.g. gpt-4
}

// OpenAIProvider implements port.AIProvider using the official OpenAI SDK.
// One client is constructed at process start and reused across requests.
type OpenAIProvider struct {
	client     openai.Client
	embedModel string
	chatModel  string
}

// NewOpenAIProvider creates a new OpenAI-backed AI provider.
func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	return &OpenAIProvider{
		client:     openai.NewClient(option.WithAPIKey(cfg.APIKey)),
		embedModel: cfg.EmbedModel,
		chatModel:  cfg.ChatModel,
	}
}

// EmbedModel returns the embedding model identifier.
func (p *OpenAIProvider) EmbedModel() string { return p.embedModel }

// ChatModel returns the chat model identifier.
func (p *OpenAIProvider) ChatModel() string { return p.chatModel }

// Embed generates a vector embedding for the given text.
func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := p.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model:          openai.EmbeddingModel(p.embedModel),
		Input:          openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
		EncodingFormat: openai.EmbeddingNewParamsEncodingFormatFloat,
	})
	if err != nil {
		return nil, fmt.Errorf("openai embed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("openai embed: empty response")
	}
	return toFloat32(resp.Data[0].Embedding), nil
}

// EmbedBatch generates embeddings for multiple texts in one call.
func (p *OpenAIProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := p.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model:          openai.EmbeddingModel(p.embedModel),
		Input:          openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		EncodingFormat: openai.EmbeddingNewParamsEncodingFormatFloat,
	})
	if err != nil {
		return nil, fmt.Errorf("openai embed batch: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("openai embed batch: got %d embeddings for %d inputs", len(resp.Data), len(texts))
	}
	vectors := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		vectors[i] = toFloat32(d.Embedding)
	}
	return vectors, nil
}

// ChatStream submits the message sequence and streams the completion
// token-by-token. The returned channel is closed when the upstream stream
// ends; cancelling ctx releases the upstream call.
func (p *OpenAIProvider) ChatStream(ctx context.Context, messages []domain.Message) (<-chan string, error) {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(p.chatModel),
		Messages: toParamMessages(messages),
	}

	stream := p.client.Chat.Completions.NewStreaming(ctx, params)
	if err := stream.Err(); err != nil {
		stream.Close()
		return nil, fmt.Errorf("openai chat stream: %w", err)
	}

	ch := make(chan string, 64)
	go func() {
		defer close(ch)
		defer stream.Close()

		for stream.Next() {
			chunk := stream.Current()
			if len(chunk.Choices) == 0 {
				continue
			}
			delta := chunk.Choices[0].Delta.Content
			if delta == "" {
				continue
			}
			select {
			case ch <- delta:
			case <-ctx.Done():
				return
			}
		}
		// A mid-stream provider failure terminates the stream; partial output
		// already relayed stands.
		if err := stream.Err(); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("chat stream terminated", "model", p.chatModel, "error", err)
		}
	}()

	return ch, nil
}

func toParamMessages(messages []domain.Message) []openai.ChatCompletionMessageParamUnion {
	params := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case domain.RoleSystem:
			params = append(params, openai.SystemMessage(m.Content))
		case domain.RoleAssistant:
			params = append(params, openai.AssistantMessage(m.Content))
		default:
			params = append(params, openai.UserMessage(m.Content))
		}
	}
	return params
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, f := range v {
		out[i] = float32(f)
	}
	return out
}
