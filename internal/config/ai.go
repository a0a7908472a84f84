package config

import (
	"time"

	"github.com/deepgram/parley/pkg/logger"
)

const (
	DefaultAIBaseURL = "https://api.groq.com/openai/v1"
	DefaultAIModel   = "llama-3.1-8b-instant"
	DefaultAITimeout = 30 * time.Second
)

// AIConfig is the snapshot of provider settings handed to the chat service.
type AIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	UseMock bool
	Timeout time.Duration
}

// GetAIConfig reads the current provider settings.
func GetAIConfig() AIConfig {
	return AIConfig{
		APIKey:  GetAIAPIKey(),
		BaseURL: GetAIBaseURL(),
		Model:   GetAIModel(),
		UseMock: UseMockAPI(),
		Timeout: GetAITimeout(),
	}
}

func GetAIAPIKey() string {
	logger.Debug(logger.CONFIG, "Attempting to retrieve AI API key from environment")
	value := Viper().GetString("ai_api_key")
	if value == "" {
		logger.Warn(logger.CONFIG, "AI API key not set - only mock mode will work")
	}
	return value
}

func GetAIBaseURL() string {
	return Viper().GetString("ai_base_url")
}

func GetAIModel() string {
	return Viper().GetString("ai_model")
}

func UseMockAPI() bool {
	return Viper().GetBool("use_mock_api")
}

func GetAITimeout() time.Duration {
	timeout := Viper().GetDuration("ai_timeout")
	if timeout <= 0 {
		logger.Warn(logger.CONFIG, "Invalid value for AI_TIMEOUT, using default: %s", DefaultAITimeout)
		return DefaultAITimeout
	}
	return timeout
}
