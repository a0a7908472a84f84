package config

func GetListenAddr() string {
	return Viper().GetString("listen_addr")
}

func GetLogLevel() string {
	return Viper().GetString("log_level")
}

func GetLogFormat() string {
	return Viper().GetString("log_format")
}
