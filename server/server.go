// Package server is a local development backend that serves the StudySphere
// REST API from in-memory repositories.
package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jrsteele09/studysphere/groups"
	"github.com/jrsteele09/studysphere/internal/config"
	"github.com/jrsteele09/studysphere/sessions"
	"github.com/jrsteele09/studysphere/token"
	"github.com/jrsteele09/studysphere/users"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

// Repos groups the stores the server reads and writes.
type Repos struct {
	Accounts users.AccountRepo
	Groups   groups.Repo
	Sessions sessions.Repo
}

type Server struct {
	env     string // Environment (e.g., "DEV", "PROD")
	router  chi.Router
	handler http.Handler
	routes  []string
	config  config.Config
	repos   Repos
	tokens  *token.Manager
	google  GoogleVerifier
	nowFunc func() time.Time

	// writeLock serialises handlers that update more than one record.
	writeLock sync.Mutex

	adminPassword string
}

type Option func(*Server)

func WithTokenManager(m *token.Manager) Option {
	return func(s *Server) {
		s.tokens = m
	}
}

func WithGoogleVerifier(v GoogleVerifier) Option {
	return func(s *Server) {
		s.google = v
	}
}

func WithNowFunc(now func() time.Time) Option {
	return func(s *Server) {
		s.nowFunc = now
	}
}

func New(cfg config.Config, repos Repos, options ...Option) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("[Server New] config is required")
	}
	if repos.Accounts == nil || repos.Groups == nil || repos.Sessions == nil {
		return nil, errors.New("[Server New] repos are required")
	}

	s := &Server{
		env:     cfg.GetEnv(),
		router:  chi.NewRouter(),
		config:  cfg,
		repos:   repos,
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(s)
	}

	if s.tokens == nil {
		signer, err := token.NewHMACSigner(cfg.GetJWTSecret())
		if err != nil {
			return nil, errors.Wrap(err, "[Server New] failed to create token signer")
		}
		s.tokens, err = token.New(signer,
			token.WithTokenExpiry(cfg.GetAccessTokenTTL(), cfg.GetRefreshTokenTTL()),
			token.WithNowFunc(func() time.Time { return s.nowFunc() }),
		)
		if err != nil {
			return nil, errors.Wrap(err, "[Server New] failed to create token manager")
		}
	}

	ctx := context.Background()
	generated, err := s.InitialiseSystem(ctx)
	if err != nil {
		return nil, fmt.Errorf("[Server New] Failed to initialise the system: %w", err)
	}
	s.adminPassword = generated

	s.initRoutes()
	s.logRoutes()

	s.handler = cors.New(cors.Options{
		AllowedOrigins:   cfg.GetAllowedOrigins(),
		AllowedMethods:   cfg.GetAllowedMethods(),
		AllowedHeaders:   cfg.GetAllowedHeaders(),
		AllowCredentials: true,
		MaxAge:           86400,
	}).Handler(s.router)

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// AdminPassword returns the password generated for the bootstrap admin, or
// "" when it was configured or already existed.
func (s *Server) AdminPassword() string {
	return s.adminPassword
}

// RegisterRouteHandler registers handler for a "METHOD /path" pattern.
func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	method, path, found := strings.Cut(pattern, " ")
	if !found {
		s.router.Handle(pattern, handler)
		return
	}
	s.router.Method(method, path, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.RegisterRouteHandler(pattern, http.HandlerFunc(handler))
}

func (s *Server) now() time.Time {
	return s.nowFunc().UTC()
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Info().Msgf("[%-19s] %s", displayMethod, path)
}

func logError(method, path, error string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Error().Msgf("[%-19s] %s %s", displayMethod, path, Red+error+ResetColor)
}
