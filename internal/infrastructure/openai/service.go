package openai

import (
	"sync"

	"github.com/deepgram/parley/internal/config"
	"github.com/deepgram/parley/pkg/logger"
	"github.com/sashabaranov/go-openai"
)

type Service struct {
	mu     sync.RWMutex
	client *openai.Client
}

// NewService builds a client for any OpenAI-compatible provider rooted at
// cfg.BaseURL. It returns nil when no API key is configured.
func NewService(cfg config.AIConfig) *Service {
	logger.Info(logger.SERVICE, "Initialising OpenAI-compatible client for %s", cfg.BaseURL)

	if cfg.APIKey == "" {
		logger.Warn(logger.SERVICE, "AI client not configured - AI_API_KEY missing")
		return nil
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = cfg.BaseURL

	return &Service{
		client: openai.NewClientWithConfig(clientConfig),
	}
}

func (s *Service) GetClient() *openai.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.client
}
