// Package auth holds the client's session state machine. A Session is the
// single source of truth for who is signed in; page guards and commands
// read its State.
package auth

import (
	"context"
	"sync"

	"github.com/jrsteele09/studysphere/api"
	"github.com/jrsteele09/studysphere/credentials"
	"github.com/jrsteele09/studysphere/gateway"
	"github.com/jrsteele09/studysphere/users"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// AuthAPI is the slice of the account API the session drives.
// *api.AuthAPI implements it.
type AuthAPI interface {
	Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResponse, error)
	Login(ctx context.Context, username, password string) (*api.AuthResponse, error)
	GoogleLogin(ctx context.Context, credential string) (*api.AuthResponse, error)
	CurrentUser(ctx context.Context) (*users.User, error)
}

var _ AuthAPI = (*api.AuthAPI)(nil)

// State is a point-in-time view of the session.
type State struct {
	User    *users.User
	Loading bool
}

// IsAuthenticated is derived from User; there is no other way to be
// authenticated.
func (s State) IsAuthenticated() bool {
	return s.User != nil
}

// Session moves from initializing to authenticated or anonymous. The zero
// value is not usable; construct with NewSession.
type Session struct {
	api    AuthAPI
	tokens *credentials.Tokens
	nav    gateway.Navigator
	logger zerolog.Logger

	mu      sync.RWMutex
	user    *users.User
	loading bool
	// epoch advances on every identity change so a slow identity fetch
	// cannot overwrite a newer transition.
	epoch uint64

	subsMu  sync.Mutex
	subs    map[int]func(State)
	nextSub int

	expiry     ExpiryNotifier
	stopExpiry func()
}

// ExpiryNotifier reports that the request layer gave up on the session.
// *gateway.Gateway implements it.
type ExpiryNotifier interface {
	OnSessionExpired(fn func()) func()
}

var _ ExpiryNotifier = (*gateway.Gateway)(nil)

type Option func(*Session)

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithExpiryNotifier signs the session out whenever n reports that the
// tokens were dropped after a failed refresh.
func WithExpiryNotifier(n ExpiryNotifier) Option {
	return func(s *Session) {
		s.expiry = n
	}
}

func NewSession(authAPI AuthAPI, tokens *credentials.Tokens, nav gateway.Navigator, options ...Option) (*Session, error) {
	if authAPI == nil {
		return nil, errors.New("[NewSession] authAPI is required")
	}
	if tokens == nil {
		return nil, errors.New("[NewSession] tokens is required")
	}
	if nav == nil {
		return nil, errors.New("[NewSession] navigator is required")
	}

	s := &Session{
		api:     authAPI,
		tokens:  tokens,
		nav:     nav,
		logger:  log.Logger,
		loading: true,
		subs:    make(map[int]func(State)),
	}
	for _, opt := range options {
		opt(s)
	}
	if s.expiry != nil {
		s.stopExpiry = s.expiry.OnSessionExpired(s.expire)
	}
	return s, nil
}

// Close stops listening for expiry. The session stays readable.
func (s *Session) Close() {
	if s.stopExpiry != nil {
		s.stopExpiry()
	}
}

// Snapshot returns the current state.
func (s *Session) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{User: s.user, Loading: s.loading}
}

func (s *Session) User() *users.User {
	return s.Snapshot().User
}

func (s *Session) IsAuthenticated() bool {
	return s.Snapshot().IsAuthenticated()
}

func (s *Session) IsLoading() bool {
	return s.Snapshot().Loading
}

// Subscribe registers fn to be called with the new state after every
// transition. The returned func removes it.
func (s *Session) Subscribe(fn func(State)) func() {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subsMu.Lock()
		defer s.subsMu.Unlock()
		delete(s.subs, id)
	}
}

// Init resolves the initial state. With a persisted access token the
// current user is fetched; any failure to do so leaves the session
// anonymous with tokens cleared. Init only returns an error when ctx ends
// first, in which case tokens are kept. Calling Init again is a no-op.
func (s *Session) Init(ctx context.Context) error {
	s.mu.RLock()
	loading, epoch := s.loading, s.epoch
	s.mu.RUnlock()
	if !loading {
		return nil
	}

	access, err := s.tokens.Access(ctx)
	if err != nil {
		s.logger.Err(err).Msg("failed to read access token")
		s.finishInit(ctx, epoch, nil, false)
		return err
	}
	if access == "" {
		s.finishInit(ctx, epoch, nil, false)
		return nil
	}

	user, err := s.api.CurrentUser(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			s.finishInit(ctx, epoch, nil, false)
			return ctxErr
		}
		s.logger.Warn().Err(err).Msg("failed to load user")
		s.finishInit(ctx, epoch, nil, true)
		return nil
	}
	s.finishInit(ctx, epoch, user, false)
	return nil
}

// finishInit settles the initial state. clearTokens only applies while no
// sign in or sign out has happened since Init started, so a pair stored by
// a concurrent Login is never removed.
func (s *Session) finishInit(ctx context.Context, epoch uint64, user *users.User, clearTokens bool) {
	s.mu.Lock()
	if !s.loading {
		s.mu.Unlock()
		return
	}
	s.loading = false
	if s.epoch == epoch {
		if clearTokens {
			if err := s.tokens.Clear(ctx); err != nil {
				s.logger.Err(err).Msg("failed to clear tokens")
			}
		}
		s.user = user
	}
	state := State{User: s.user}
	s.mu.Unlock()

	s.notify(state)
}

// Login exchanges a username and password. On failure state and tokens
// are left as they were and the error carries the server's message.
func (s *Session) Login(ctx context.Context, username, password string) error {
	resp, err := s.api.Login(ctx, username, password)
	if err != nil {
		return newError(OpLogin, loginMessage(err), err)
	}
	return s.authenticate(ctx, OpLogin, resp)
}

// LoginWithGoogle exchanges a Google ID token.
func (s *Session) LoginWithGoogle(ctx context.Context, credential string) error {
	resp, err := s.api.GoogleLogin(ctx, credential)
	if err != nil {
		return newError(OpGoogleLogin, googleLoginMessage(err), err)
	}
	return s.authenticate(ctx, OpGoogleLogin, resp)
}

// Register creates an account and signs it in. Failures surface the first
// field validation message.
func (s *Session) Register(ctx context.Context, req api.RegisterRequest) error {
	resp, err := s.api.Register(ctx, req)
	if err != nil {
		return newError(OpRegister, registerMessage(err), err)
	}
	return s.authenticate(ctx, OpRegister, resp)
}

func (s *Session) authenticate(ctx context.Context, op Op, resp *api.AuthResponse) error {
	if resp == nil || resp.User == nil {
		return newError(op, op.fallback(), errors.New("response carried no user"))
	}
	// Storing the pair and publishing the user happen under one lock so a
	// concurrent Init cannot clear the pair in between.
	s.mu.Lock()
	if err := s.tokens.SetPair(ctx, resp.Tokens); err != nil {
		s.mu.Unlock()
		return newError(op, op.fallback(), errors.Wrap(err, "store tokens"))
	}
	state := s.transitionLocked(resp.User)
	s.mu.Unlock()

	s.notify(state)
	return nil
}

func (s *Session) setUser(user *users.User) {
	s.mu.Lock()
	state := s.transitionLocked(user)
	s.mu.Unlock()

	s.notify(state)
}

func (s *Session) transitionLocked(user *users.User) State {
	s.user = user
	s.loading = false
	s.epoch++
	return State{User: s.user}
}

// expire drops the user after the gateway has already cleared the tokens
// and navigated. It does not navigate again.
func (s *Session) expire() {
	s.mu.RLock()
	signedIn := s.user != nil || s.loading
	s.mu.RUnlock()
	if !signedIn {
		return
	}
	s.logger.Info().Msg("session expired")
	s.setUser(nil)
}

// Logout clears tokens, drops the user and sends the host to the auth
// entry point. The transition happens even if clearing storage fails.
func (s *Session) Logout(ctx context.Context) error {
	err := s.tokens.Clear(ctx)
	if err != nil {
		s.logger.Err(err).Msg("failed to clear tokens")
	}

	s.setUser(nil)
	s.nav.Navigate(gateway.AuthEntryPath)
	return err
}

// RefreshUser re-fetches the current user after server side changes such
// as earned XP. Failures are logged and never sign the user out.
func (s *Session) RefreshUser(ctx context.Context) {
	s.mu.RLock()
	authenticated, epoch := s.user != nil, s.epoch
	s.mu.RUnlock()
	if !authenticated {
		return
	}

	user, err := s.api.CurrentUser(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to refresh user")
		return
	}

	s.mu.Lock()
	if s.epoch != epoch || s.user == nil {
		s.mu.Unlock()
		return
	}
	s.user = user
	state := State{User: s.user}
	s.mu.Unlock()

	s.notify(state)
}

func (s *Session) notify(state State) {
	s.subsMu.Lock()
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.subsMu.Unlock()

	for _, fn := range subs {
		fn(state)
	}
}
