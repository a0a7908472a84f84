package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/deepgram/parley/internal/config"
	domain "github.com/deepgram/parley/internal/domain/chat"
	"github.com/deepgram/parley/internal/domain/chat/models"
	aiinfra "github.com/deepgram/parley/internal/infrastructure/openai"
	"github.com/deepgram/parley/internal/services/conversation"
	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
)

const (
	temperature = 0.7
	maxTokens   = 2000
)

// CompletionClient is the part of *openai.Client the chat service uses.
type CompletionClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Options carries the provider settings that shape each request.
type Options struct {
	Model        string
	UseMock      bool
	Timeout      time.Duration
	HistoryLimit int
}

var _ domain.Service = (*Implementation)(nil)

type Implementation struct {
	client  CompletionClient
	store   conversation.Store
	locks   *keyedMutex
	ids     *idGenerator
	now     func() time.Time
	options Options
}

// NewService wires the chat service. A client is only required outside mock
// mode.
func NewService(openAIService *aiinfra.Service, store conversation.Store, options Options) (*Implementation, error) {
	var client CompletionClient
	if openAIService != nil {
		client = openAIService.GetClient()
	}
	return newImplementation(client, store, options, time.Now)
}

func newImplementation(client CompletionClient, store conversation.Store, options Options, now func() time.Time) (*Implementation, error) {
	if store == nil {
		return nil, fmt.Errorf("conversation store is required")
	}
	if client == nil && !options.UseMock {
		return nil, fmt.Errorf("AI client is required when mock mode is off")
	}
	if options.HistoryLimit < 2 {
		return nil, fmt.Errorf("history limit must hold at least one exchange, got %d", options.HistoryLimit)
	}
	if options.Timeout <= 0 {
		options.Timeout = config.DefaultAITimeout
	}

	return &Implementation{
		client:  client,
		store:   store,
		locks:   newKeyedMutex(),
		ids:     newIDGenerator(now),
		now:     now,
		options: options,
	}, nil
}

// HandleChat runs one request through the conversation. Requests for the same
// conversation are processed one at a time; the provider is called at most
// once.
func (s *Implementation) HandleChat(ctx context.Context, message, conversationID string) *models.ChatResult {
	if conversationID == "" {
		conversationID = s.ids.Next()
	}

	if s.options.UseMock {
		log.Debug().Str("conversation_id", conversationID).Msg("Mock mode enabled, skipping AI provider")
		return s.result(mockResponse(message), conversationID)
	}

	unlock, err := s.locks.Lock(ctx, conversationID)
	if err != nil {
		return s.fail(conversationID, fmt.Errorf("gave up waiting for conversation: %w", err))
	}
	defer unlock()

	history, err := s.store.Get(ctx, conversationID)
	if err != nil {
		return s.fail(conversationID, fmt.Errorf("failed to load conversation: %w", err))
	}

	userMessage := models.NewUserMessage(message)
	if err := s.store.Append(ctx, conversationID, userMessage); err != nil {
		return s.fail(conversationID, fmt.Errorf("failed to record message: %w", err))
	}
	history = append(history, userMessage)

	reply, err := s.complete(ctx, history)
	if err != nil {
		s.rollback(ctx, conversationID)
		return s.fail(conversationID, err)
	}

	if err := s.store.Append(ctx, conversationID, models.NewAssistantMessage(reply)); err != nil {
		s.rollback(ctx, conversationID)
		return s.fail(conversationID, fmt.Errorf("failed to record reply: %w", err))
	}

	if err := s.store.Trim(ctx, conversationID, s.options.HistoryLimit); err != nil {
		log.Error().Err(err).Str("conversation_id", conversationID).Msg("Failed to trim conversation history")
	}

	stored := len(history) + 1
	if stored > s.options.HistoryLimit {
		stored = s.options.HistoryLimit
	}
	log.Info().
		Str("conversation_id", conversationID).
		Int("history_length", stored).
		Msg("Chat request processed successfully")

	return s.result(reply, conversationID)
}

// complete sends the persona prompt followed by history to the provider.
func (s *Implementation) complete(ctx context.Context, history []models.Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.options.Timeout)
	defer cancel()

	prompt := append([]models.Message{models.NewSystemMessage(systemPersona)}, history...)

	messages := make([]openai.ChatCompletionMessage, 0, len(prompt))
	for _, msg := range prompt {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	req := openai.ChatCompletionRequest{
		Model:       s.options.Model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	log.Debug().
		Str("model", req.Model).
		Int("message_count", len(messages)).
		Msg("Sending chat completion request")

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		log.Warn().Str("model", req.Model).Msg("AI provider returned no content, using fallback reply")
		return replyFallback, nil
	}

	return resp.Choices[0].Message.Content, nil
}

// rollback drops the user message appended for a failed request. It runs
// even when the request context is already cancelled.
func (s *Implementation) rollback(ctx context.Context, conversationID string) {
	if err := s.store.RemoveLast(context.WithoutCancel(ctx), conversationID); err != nil {
		log.Error().Err(err).Str("conversation_id", conversationID).Msg("Failed to roll back conversation history")
	}
}

func (s *Implementation) fail(conversationID string, err error) *models.ChatResult {
	upErr := Classify(err)

	log.Error().
		Err(upErr.Err).
		Str("conversation_id", conversationID).
		Str("kind", upErr.Kind.String()).
		Int("status", upErr.StatusCode).
		Msg("AI API request failed")

	return s.result(upErr.UserMessage(s.options.Model), conversationID)
}

func (s *Implementation) result(response, conversationID string) *models.ChatResult {
	return &models.ChatResult{
		Response:       response,
		ConversationID: conversationID,
		Timestamp:      s.now().UnixMilli(),
	}
}
