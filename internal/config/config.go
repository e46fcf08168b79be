package config

import "github.com/joho/godotenv"

type Config interface {
	EnvConfig
	GatewayConfig
	StoreConfig
	GoogleConfig
	DevServerConfig
	CorsConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
}

type mainConfig struct {
	EnvVars
	Gateway
	Store
	Google
	DevServer
	Cors
}

// New loads an optional .env file from the working directory and returns a
// Config backed by environment variables.
func New() Config {
	_ = godotenv.Load()
	return mainConfig{}
}
