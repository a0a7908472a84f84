package config

import (
	"strings"
	"sync"

	"github.com/spf13/viper"
)

var (
	v     *viper.Viper
	vOnce sync.Once
)

// Viper returns the process-wide viper instance. Values resolve in the order
// bound flag, environment variable, default.
func Viper() *viper.Viper {
	vOnce.Do(func() {
		v = viper.New()
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
		v.AutomaticEnv()
		setDefaults(v)
	})
	return v
}

func setDefaults(v *viper.Viper) {
	// AI provider
	v.SetDefault("ai_base_url", DefaultAIBaseURL)
	v.SetDefault("ai_model", DefaultAIModel)
	v.SetDefault("use_mock_api", false)
	v.SetDefault("ai_timeout", DefaultAITimeout)

	// Conversation history
	v.SetDefault("history_limit", DefaultHistoryLimit)
	v.SetDefault("conversation_ttl", DefaultConversationTTL)

	// Server
	v.SetDefault("listen_addr", ":8080")

	// Logging
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
}
