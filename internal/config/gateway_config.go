package config

import "time"

type GatewayConfig interface {
	GetAPIBaseURL() string
	GetHTTPTimeout() time.Duration
	GetRateLimit() (rps float64, burst int)
	GetCoalesceRefresh() bool
}

type Gateway struct{}

var _ GatewayConfig = Gateway{}

// GetAPIBaseURL returns the backend REST root, e.g. "http://localhost:8000/api".
func (Gateway) GetAPIBaseURL() string {
	return GetEnv("STUDYSPHERE_API_URL", "http://localhost:8000/api")
}

func (Gateway) GetHTTPTimeout() time.Duration {
	return GetDuration("HTTP_TIMEOUT", 30*time.Second)
}

// GetRateLimit returns zero rps when client side limiting is disabled.
func (Gateway) GetRateLimit() (float64, int) {
	rps := GetFloat("RATE_LIMIT_RPS", 0)
	burst := int(GetFloat("RATE_LIMIT_BURST", 5))
	return rps, burst
}

func (Gateway) GetCoalesceRefresh() bool {
	return GetBool("COALESCE_REFRESH", false)
}
