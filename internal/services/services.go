package services

import (
	"fmt"
	"sync"

	"github.com/deepgram/parley/internal/config"
	"github.com/deepgram/parley/internal/infrastructure/openai"
	"github.com/deepgram/parley/internal/infrastructure/redis"
	"github.com/deepgram/parley/internal/services/chat"
	"github.com/deepgram/parley/internal/services/conversation"
	"github.com/rs/zerolog/log"
)

var (
	// Mutex for thread-safe initialization
	servicesMu sync.RWMutex
)

type Services struct {
	chatService   *chat.Implementation
	openAIService *openai.Service
	redisService  *redis.Service
}

// InitializeServices builds the process-wide services from configuration.
// The conversation store created here lives until Close.
func InitializeServices() (*Services, error) {
	servicesMu.Lock()
	defer servicesMu.Unlock()

	log.Info().Msg("Initializing core services")

	aiConfig := config.GetAIConfig()

	// Redis is optional, memory is used without it
	redisService := redis.NewService()
	store := conversation.NewStore(redisService, config.GetConversationTTL())
	log.Info().Msg("Initializing conversation store")

	var openAIService *openai.Service
	if aiConfig.UseMock {
		log.Warn().Msg("USE_MOCK_API enabled - AI provider will not be called")
	} else {
		openAIService = openai.NewService(aiConfig)
		if openAIService == nil {
			return nil, fmt.Errorf("AI_API_KEY is required unless USE_MOCK_API=true")
		}
	}

	chatService, err := chat.NewService(openAIService, store, chat.Options{
		Model:        aiConfig.Model,
		UseMock:      aiConfig.UseMock,
		Timeout:      aiConfig.Timeout,
		HistoryLimit: config.GetHistoryLimit(),
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize chat service - required for message processing")
		return nil, fmt.Errorf("failed to initialize chat service: %w", err)
	}
	log.Info().
		Str("model", aiConfig.Model).
		Str("base_url", aiConfig.BaseURL).
		Bool("mock", aiConfig.UseMock).
		Msg("Initializing chat service")

	log.Info().Msg("All services initialized successfully")

	return &Services{
		chatService:   chatService,
		openAIService: openAIService,
		redisService:  redisService,
	}, nil
}

// NewServices assembles a container around an already built chat service.
func NewServices(chatService *chat.Implementation) *Services {
	return &Services{
		chatService: chatService,
	}
}

// GetChatService returns the chat service
func (s *Services) GetChatService() *chat.Implementation {
	return s.chatService
}

// Close releases external connections.
func (s *Services) Close() error {
	if s.redisService != nil {
		return s.redisService.Close()
	}
	return nil
}
