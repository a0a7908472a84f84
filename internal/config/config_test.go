package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetAIConfigDefaults(t *testing.T) {
	t.Setenv("AI_API_KEY", "sk-test")
	t.Setenv("AI_BASE_URL", "")
	t.Setenv("AI_MODEL", "")
	t.Setenv("USE_MOCK_API", "")
	t.Setenv("AI_TIMEOUT", "")

	cfg := GetAIConfig()

	assert.Equal(t, "sk-test", cfg.APIKey)
	assert.Equal(t, DefaultAIBaseURL, cfg.BaseURL)
	assert.Equal(t, DefaultAIModel, cfg.Model)
	assert.False(t, cfg.UseMock)
	assert.Equal(t, DefaultAITimeout, cfg.Timeout)
}

func TestGetAIConfigFromEnvironment(t *testing.T) {
	t.Setenv("AI_API_KEY", "sk-other")
	t.Setenv("AI_BASE_URL", "https://api.deepseek.com/v1")
	t.Setenv("AI_MODEL", "deepseek-chat")
	t.Setenv("USE_MOCK_API", "true")
	t.Setenv("AI_TIMEOUT", "5s")

	cfg := GetAIConfig()

	assert.Equal(t, "sk-other", cfg.APIKey)
	assert.Equal(t, "https://api.deepseek.com/v1", cfg.BaseURL)
	assert.Equal(t, "deepseek-chat", cfg.Model)
	assert.True(t, cfg.UseMock)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
}

func TestGetHistoryLimit(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{"Unset uses default", "", DefaultHistoryLimit},
		{"Valid value", "40", 40},
		{"Too small uses default", "1", DefaultHistoryLimit},
		{"Negative uses default", "-3", DefaultHistoryLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HISTORY_LIMIT", tt.value)
			assert.Equal(t, tt.want, GetHistoryLimit())
		})
	}
}

func TestGetConversationTTL(t *testing.T) {
	t.Setenv("CONVERSATION_TTL", "")
	assert.Equal(t, DefaultConversationTTL, GetConversationTTL())

	t.Setenv("CONVERSATION_TTL", "15m")
	assert.Equal(t, 15*time.Minute, GetConversationTTL())
}

func TestInvalidTimeoutFallsBack(t *testing.T) {
	t.Setenv("AI_TIMEOUT", "0s")
	assert.Equal(t, DefaultAITimeout, GetAITimeout())
}
