// Package gateway is the single request-issuing surface of the client. It
// attaches the persisted access token to every call and recovers from access
// token expiry with one refresh exchange and one retry.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jrsteele09/studysphere/credentials"
	"github.com/jrsteele09/studysphere/token/refresh"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const (
	tracerName       = "github.com/jrsteele09/studysphere/gateway"
	requestIDHeader  = "X-Request-Id"
	maxResponseBytes = 8 << 20
)

type Gateway struct {
	baseURL   string
	client    *http.Client
	tokens    *credentials.Tokens
	refresher Refresher
	navigator Navigator
	logger    zerolog.Logger
	metrics   *Metrics
	limiter   *rate.Limiter
	coalesce  bool
	flight    singleflight.Group
	tracer    trace.Tracer
	expiry    expiryListeners
}

// New builds a Gateway for the API rooted at baseURL, e.g.
// "http://localhost:8000/api".
func New(baseURL string, tokens *credentials.Tokens, options ...Option) (*Gateway, error) {
	if baseURL == "" {
		return nil, errors.New("[gateway.New] baseURL is required")
	}
	if tokens == nil {
		return nil, errors.New("[gateway.New] tokens is required")
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("[gateway.New] invalid baseURL %q", baseURL)
	}

	g := &Gateway{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		client:    &http.Client{},
		tokens:    tokens,
		navigator: logNavigator{},
		logger:    log.Logger,
		tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range options {
		opt(g)
	}

	if g.refresher == nil {
		ex, err := refresh.NewExchanger(g.baseURL, g.client)
		if err != nil {
			return nil, errors.Wrap(err, "[gateway.New] refresh exchanger")
		}
		g.refresher = ex
	}
	return g, nil
}

// Tokens exposes the token store the gateway reads from.
func (g *Gateway) Tokens() *credentials.Tokens {
	return g.tokens
}

// Do issues one logical call. body, when non-nil, is sent as JSON; a 2xx
// response body is decoded into out when out is non-nil.
func (g *Gateway) Do(ctx context.Context, method, path string, body, out any, opts ...CallOption) error {
	p, err := newPendingRequest(method, path, body, opts)
	if err != nil {
		return err
	}

	ctx, span := g.tracer.Start(ctx, method+" "+p.path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("studysphere.path", p.path),
			attribute.String("studysphere.request_id", p.requestID),
		),
	)
	defer span.End()

	var data []byte
	if p.noRetry {
		data, err = g.sendWithCurrentToken(ctx, p)
	} else {
		data, err = g.withAuthRetry(ctx, p, g.send)
	}

	span.SetAttributes(attribute.Bool("studysphere.retried", p.retried))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetStatus(codes.Ok, "")

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrapf(err, "gateway %s %s decode response", method, p.path)
	}
	return nil
}

func (g *Gateway) Get(ctx context.Context, path string, out any, opts ...CallOption) error {
	return g.Do(ctx, http.MethodGet, path, nil, out, opts...)
}

func (g *Gateway) Post(ctx context.Context, path string, body, out any, opts ...CallOption) error {
	return g.Do(ctx, http.MethodPost, path, body, out, opts...)
}

func (g *Gateway) Put(ctx context.Context, path string, body, out any, opts ...CallOption) error {
	return g.Do(ctx, http.MethodPut, path, body, out, opts...)
}

func (g *Gateway) Patch(ctx context.Context, path string, body, out any, opts ...CallOption) error {
	return g.Do(ctx, http.MethodPatch, path, body, out, opts...)
}

func (g *Gateway) Delete(ctx context.Context, path string, out any, opts ...CallOption) error {
	return g.Do(ctx, http.MethodDelete, path, nil, out, opts...)
}

func (g *Gateway) sendWithCurrentToken(ctx context.Context, p *pendingRequest) ([]byte, error) {
	access, err := g.tokens.Access(ctx)
	if err != nil {
		return nil, err
	}
	return g.send(ctx, p, access)
}

// send performs a single HTTP attempt.
func (g *Gateway) send(ctx context.Context, p *pendingRequest, accessToken string) ([]byte, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("gateway %s %s rate limit: %w", p.method, p.path, err)
		}
	}

	var body io.Reader
	if p.body != nil {
		body = bytes.NewReader(p.body)
	}
	req, err := http.NewRequestWithContext(ctx, p.method, g.baseURL+p.target(), body)
	if err != nil {
		return nil, errors.Wrapf(err, "gateway %s %s", p.method, p.path)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, p.requestID)
	if p.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	start := time.Now()
	resp, err := g.client.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		g.metrics.observeRequest(p.method, 0, elapsed)
		g.logger.Debug().Err(err).
			Str("request_id", p.requestID).
			Str("method", p.method).
			Str("path", p.path).
			Msg("gateway transport error")
		return nil, fmt.Errorf("gateway %s %s: %w", p.method, p.path, err)
	}
	defer resp.Body.Close()

	data, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	g.metrics.observeRequest(p.method, resp.StatusCode, elapsed)
	g.logger.Debug().
		Str("request_id", p.requestID).
		Str("method", p.method).
		Str("path", p.path).
		Int("status", resp.StatusCode).
		Dur("dur", elapsed).
		Bool("retried", p.retried).
		Msg("gateway")
	if readErr != nil {
		return nil, fmt.Errorf("gateway %s %s read body: %w", p.method, p.path, readErr)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(p.method, p.path, resp.StatusCode, data)
	}
	return data, nil
}
