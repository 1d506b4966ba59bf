package handler

import (
	"bufio"
	"context"
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/coverdrive-ai/coverdrive/internal/domain"
	"github.com/coverdrive-ai/coverdrive/internal/port"
	"github.com/coverdrive-ai/coverdrive/internal/service"
)

// suggestions are the canned starter questions the UI renders as buttons.
var suggestions = []string{
	"Who is the captain of the Indian cricket team in T20Is?",
	"Who holds the record for the fastest century in ODI cricket?",
	"What is the highest individual score in a Test match?",
	"Who is currently ranked No.1 in the ICC Men's ODI batting rankings?",
}

// ChatHandler handles the RAG chat endpoint.
type ChatHandler struct {
	rag *service.RAGService
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(rag *service.RAGService) *ChatHandler {
	return &ChatHandler{rag: rag}
}

// Register sets up chat routes.
func (h *ChatHandler) Register(router fiber.Router) {
	chat := router.Group("/chat")
	chat.Post("/", h.Chat)
	chat.Get("/suggestions", h.Suggestions)
}

// Chat accepts a conversation and streams the completion back as plain text.
// Failures before the first token produce a single JSON error payload; a
// failure mid-stream terminates the body and the partial answer stands.
func (h *ChatHandler) Chat(c fiber.Ctx) error {
	var body struct {
		Messages []domain.Message `json:"messages"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	// The upstream completion call is released when the caller disconnects.
	ctx, cancel := context.WithCancel(c.Context())

	stream, err := h.rag.Answer(ctx, body.Messages)
	if err != nil {
		cancel()
		status := fiber.StatusInternalServerError
		if errors.Is(err, port.ErrEmptyConversation) || errors.Is(err, port.ErrInvalidMessage) {
			status = fiber.StatusBadRequest
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}

	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	c.Set(fiber.HeaderCacheControl, "no-cache")

	return c.SendStreamWriter(func(w *bufio.Writer) {
		defer cancel()
		for token := range stream {
			if _, err := w.WriteString(token); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	})
}

// Suggestions returns starter prompts for the chat UI.
func (h *ChatHandler) Suggestions(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"suggestions": suggestions})
}
