package config

import (
	"github.com/deepgram/parley/pkg/logger"
)

func GetRedisURL() string {
	logger.Debug(logger.CONFIG, "Attempting to retrieve Redis URL from environment")
	value := Viper().GetString("redis_url")
	if value == "" {
		logger.Info(logger.CONFIG, "Redis URL not set - conversations will be kept in memory")
	} else {
		logger.Info(logger.CONFIG, "Redis URL successfully loaded")
	}
	return value
}

func GetRedisPassword() string {
	return Viper().GetString("redis_password")
}
