package config

import (
	"time"

	"github.com/deepgram/parley/pkg/logger"
)

const (
	DefaultHistoryLimit    = 20
	DefaultConversationTTL = time.Hour
)

// GetHistoryLimit returns how many messages a conversation retains.
func GetHistoryLimit() int {
	limit := Viper().GetInt("history_limit")
	if limit < 2 {
		logger.Warn(logger.CONFIG, "Invalid value for HISTORY_LIMIT, using default: %d", DefaultHistoryLimit)
		return DefaultHistoryLimit
	}
	return limit
}

// GetConversationTTL is the idle lifetime of a conversation in Redis.
func GetConversationTTL() time.Duration {
	ttl := Viper().GetDuration("conversation_ttl")
	if ttl <= 0 {
		logger.Warn(logger.CONFIG, "Invalid value for CONVERSATION_TTL, using default: %s", DefaultConversationTTL)
		return DefaultConversationTTL
	}
	return ttl
}
