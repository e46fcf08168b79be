package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// pendingRequest is one logical call. retried marks that the call already
// went through its single refresh-and-retry cycle.
type pendingRequest struct {
	method    string
	path      string
	query     url.Values
	body      []byte
	requestID string
	noRetry   bool
	retried   bool
}

func newPendingRequest(method, path string, body any, opts []CallOption) (*pendingRequest, error) {
	if method == "" {
		return nil, errors.New("[gateway] method is required")
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	p := &pendingRequest{
		method:    method,
		path:      path,
		query:     url.Values{},
		requestID: uuid.NewString(),
	}
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("gateway %s %s encode body: %w", method, path, err)
		}
		p.body = data
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func (p *pendingRequest) target() string {
	if len(p.query) == 0 {
		return p.path
	}
	return p.path + "?" + p.query.Encode()
}

// call is a single transport attempt made with the given access token.
type call func(ctx context.Context, p *pendingRequest, accessToken string) ([]byte, error)

// withAuthRetry wraps send with the token lifecycle: attach the persisted
// access token, and on the first 401 exchange the refresh token and re-issue
// the call exactly once.
func (g *Gateway) withAuthRetry(ctx context.Context, p *pendingRequest, send call) ([]byte, error) {
	access, err := g.tokens.Access(ctx)
	if err != nil {
		return nil, err
	}

	data, callErr := send(ctx, p, access)
	if callErr == nil || p.retried || !errors.Is(callErr, ErrUnauthorized) {
		return data, callErr
	}

	refreshToken, err := g.tokens.Refresh(ctx)
	if err != nil {
		return nil, errors.Join(callErr, err)
	}
	if refreshToken == "" {
		g.metrics.observeRefresh(refreshNoToken)
		if err := g.tokens.ClearAccess(ctx); err != nil {
			g.logger.Err(err).Msg("failed to clear stale access token")
		}
		return nil, callErr
	}

	newAccess, err := g.exchange(ctx, refreshToken)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			// The caller gave up; the refresh token was never judged.
			return nil, fmt.Errorf("gateway refresh: %w", ctxErr)
		}
		g.metrics.observeRefresh(refreshFailure)
		g.expireSession(ctx, err)
		return nil, fmt.Errorf("%w: %w", ErrSessionExpired, err)
	}
	g.metrics.observeRefresh(refreshSuccess)

	if err := g.tokens.SetAccess(ctx, newAccess); err != nil {
		return nil, err
	}

	p.retried = true
	return send(ctx, p, newAccess)
}

func (g *Gateway) exchange(ctx context.Context, refreshToken string) (string, error) {
	if !g.coalesce {
		return g.refresher.Exchange(ctx, refreshToken)
	}
	// The shared exchange outlives any single caller's cancellation.
	shared := context.WithoutCancel(ctx)
	v, err, _ := g.flight.Do(refreshToken, func() (any, error) {
		return g.refresher.Exchange(shared, refreshToken)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// OnSessionExpired registers fn to run after a failed refresh has cleared
// the tokens and navigated. The returned func removes it.
func (g *Gateway) OnSessionExpired(fn func()) func() {
	return g.expiry.add(fn)
}

// expireSession purges both tokens, sends the host to the auth entry point
// and tells the expiry listeners.
func (g *Gateway) expireSession(ctx context.Context, cause error) {
	g.logger.Warn().Err(cause).Msg("refresh exchange failed, clearing session")
	if err := g.tokens.Clear(ctx); err != nil {
		g.logger.Err(err).Msg("failed to clear tokens")
	}
	g.navigator.Navigate(AuthEntryPath)
	g.expiry.fire()
}
