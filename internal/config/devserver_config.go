package config

import (
	"fmt"
	"time"
)

type DevServerConfig interface {
	GetPort() string
	GetJWTSecret() string
	GetAccessTokenTTL() time.Duration
	GetRefreshTokenTTL() time.Duration
	GetAdminUsername() string
	GetAdminPassword() string
	GetSeedDemoData() bool
}

type DevServer struct{}

var _ DevServerConfig = DevServer{}

func (DevServer) GetPort() string {
	port := GetEnv("PORT", "8000")
	if port != "" && port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (DevServer) GetJWTSecret() string {
	return GetEnv("JWT_SECRET", "dev-secret-change-me")
}

func (DevServer) GetAccessTokenTTL() time.Duration {
	return GetDuration("ACCESS_TOKEN_TTL", 5*time.Minute)
}

func (DevServer) GetRefreshTokenTTL() time.Duration {
	return GetDuration("REFRESH_TOKEN_TTL", 24*time.Hour)
}

func (DevServer) GetAdminUsername() string {
	return GetEnv("ADMIN_USERNAME", "admin")
}

// GetAdminPassword is empty when the bootstrap should generate one.
func (DevServer) GetAdminPassword() string {
	return GetEnv("ADMIN_PASSWORD", "")
}

func (DevServer) GetSeedDemoData() bool {
	return GetBool("SEED_DEMO_DATA", false)
}
