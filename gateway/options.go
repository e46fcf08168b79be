package gateway

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Refresher exchanges a refresh token for a new access token.
type Refresher interface {
	Exchange(ctx context.Context, refreshToken string) (string, error)
}

type Option func(*Gateway)

// WithHTTPClient sets the transport. Its Timeout is the only timeout the
// gateway applies.
func WithHTTPClient(client *http.Client) Option {
	return func(g *Gateway) {
		if client != nil {
			g.client = client
		}
	}
}

// WithRefresher replaces the default refresh exchange.
func WithRefresher(r Refresher) Option {
	return func(g *Gateway) {
		g.refresher = r
	}
}

// WithNavigator sets the hard navigation used when a session cannot be
// recovered.
func WithNavigator(nav Navigator) Option {
	return func(g *Gateway) {
		if nav != nil {
			g.navigator = nav
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(g *Gateway) {
		g.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(g *Gateway) {
		g.metrics = m
	}
}

// WithRateLimit throttles outgoing attempts on the client side. rps <= 0
// disables the limiter.
func WithRateLimit(rps float64, burst int) Option {
	return func(g *Gateway) {
		if rps <= 0 {
			g.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithRefreshCoalescing makes concurrent refreshes of the same refresh token
// share a single exchange. Off by default: concurrent 401s each run their
// own exchange.
func WithRefreshCoalescing() Option {
	return func(g *Gateway) {
		g.coalesce = true
	}
}

// CallOption tunes a single call.
type CallOption func(*pendingRequest)

// WithoutAuthRetry disables the refresh-and-retry cycle for the call. Used by
// credential exchange endpoints so that a rejected login never touches the
// persisted tokens.
func WithoutAuthRetry() CallOption {
	return func(p *pendingRequest) {
		p.noRetry = true
	}
}

// WithQuery appends query parameters to the call's path.
func WithQuery(key, value string) CallOption {
	return func(p *pendingRequest) {
		p.query.Add(key, value)
	}
}
