package service

import (
	"context"
	"log/slog"
	"strings"

	"campushire/internal/ai"
	"campushire/internal/models"
	"campushire/internal/observability"
)

const defaultConversationID = "default"

// ChatReply is one chatbot answer.
type ChatReply struct {
	Response       string `json:"response"`
	ConversationID string `json:"conversation_id"`
}

// ChatbotService answers campus-placement questions. Off-topic messages get
// a fixed redirect and never reach the generator.
type ChatbotService struct {
	gen ai.Generator
}

func NewChatbotService(gen ai.Generator) *ChatbotService {
	return &ChatbotService{gen: gen}
}

func (s *ChatbotService) Chat(ctx context.Context, message, conversationID string) (*ChatReply, error) {
	if strings.TrimSpace(message) == "" {
		return nil, models.NewValidationError("Message is required")
	}
	if conversationID == "" {
		conversationID = defaultConversationID
	}
	reply := &ChatReply{ConversationID: conversationID}

	if !ai.IsCampusRelated(message) {
		reply.Response = ai.OffTopicReply
		return reply, nil
	}

	if s.gen != nil {
		text, err := s.gen.Generate(ctx, ai.ChatPrompt(message))
		if err == nil {
			reply.Response = text
			return reply, nil
		}
		slog.WarnContext(ctx, "chat generation failed, using fallback", "err", err)
	}
	observability.AIFallbacks.WithLabelValues("chatbot").Inc()
	reply.Response = ai.ChatFallback(message)
	return reply, nil
}
