package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jrsteele09/studysphere/api"
	"github.com/jrsteele09/studysphere/auth"
	"github.com/jrsteele09/studysphere/credentials"
	"github.com/jrsteele09/studysphere/credentials/filestore"
	"github.com/jrsteele09/studysphere/credentials/memstore"
	"github.com/jrsteele09/studysphere/credentials/sqlitestore"
	"github.com/jrsteele09/studysphere/gateway"
	"github.com/jrsteele09/studysphere/internal/config"
	"github.com/jrsteele09/studysphere/internal/logging"
	"github.com/jrsteele09/studysphere/preferences"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

type globalOptions struct {
	apiURL string
	quiet  bool
}

// app is the wired client: config, credential store, gateway, API modules
// and the session built on top of them.
type app struct {
	cfg     config.Config
	store   credentials.Store
	tokens  *credentials.Tokens
	client  *api.Client
	session *auth.Session
	themes  *preferences.Themes
	close   func() error
}

// cliNavigator stands in for a browser redirect. Being sent to the auth
// entry point means the user has to log in again.
type cliNavigator struct{}

func (cliNavigator) Navigate(path string) {
	if path == gateway.AuthEntryPath {
		warn("Your session has ended. Run `studysphere login` to sign in again.")
		return
	}
	warn("Redirected to %s", path)
}

func newApp(ctx context.Context, opts *globalOptions) (*app, error) {
	cfg := config.New()
	logging.Setup(cfg.GetLogLevel(), cfg.GetEnv())

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	tokens, err := credentials.NewTokens(store)
	if err != nil {
		_ = closeStore()
		return nil, err
	}

	baseURL := cfg.GetAPIBaseURL()
	if opts.apiURL != "" {
		baseURL = opts.apiURL
	}
	rps, burst := cfg.GetRateLimit()
	gwOptions := []gateway.Option{
		gateway.WithHTTPClient(&http.Client{Timeout: cfg.GetHTTPTimeout()}),
		gateway.WithNavigator(cliNavigator{}),
		gateway.WithLogger(log.Logger),
		gateway.WithMetrics(gateway.NewMetrics(nil)),
		gateway.WithRateLimit(rps, burst),
	}
	if cfg.GetCoalesceRefresh() {
		gwOptions = append(gwOptions, gateway.WithRefreshCoalescing())
	}
	gw, err := gateway.New(baseURL, tokens, gwOptions...)
	if err != nil {
		_ = closeStore()
		return nil, err
	}

	client, err := api.New(gw)
	if err != nil {
		_ = closeStore()
		return nil, err
	}
	session, err := auth.NewSession(client.Auth, tokens, cliNavigator{},
		auth.WithLogger(log.Logger),
		auth.WithExpiryNotifier(gw),
	)
	if err != nil {
		_ = closeStore()
		return nil, err
	}
	themes, err := preferences.NewThemes(store)
	if err != nil {
		_ = closeStore()
		return nil, err
	}

	closeApp := func() error {
		session.Close()
		return closeStore()
	}
	return &app{
		cfg:     cfg,
		store:   store,
		tokens:  tokens,
		client:  client,
		session: session,
		themes:  themes,
		close:   closeApp,
	}, nil
}

func openStore(ctx context.Context, cfg config.StoreConfig) (credentials.Store, func() error, error) {
	noop := func() error { return nil }
	switch cfg.GetStoreKind() {
	case config.StoreMemory:
		return memstore.New(), noop, nil
	case config.StoreSQLite:
		s, err := sqlitestore.Open(ctx, cfg.GetStorePath())
		if err != nil {
			return nil, nil, errors.Wrap(err, "open credential database")
		}
		return s, s.Close, nil
	default:
		s, err := filestore.New(cfg.GetStorePath(), filestore.WithPassphrase(cfg.GetStorePassphrase()))
		if err != nil {
			return nil, nil, errors.Wrap(err, "open credential file")
		}
		return s, noop, nil
	}
}

// run builds the app, resolves the session and applies guard before fn.
// A nil guard runs fn for anonymous users too.
func run(opts *globalOptions, guard func(auth.State) auth.Decision, fn func(ctx context.Context, a *app) error) error {
	return withApp(opts, func(ctx context.Context, a *app) error {
		if err := a.session.Init(ctx); err != nil {
			return errors.Wrap(err, "resolve session")
		}
		if guard != nil {
			switch d := guard(a.session.Snapshot()); d {
			case auth.DecisionAllow:
			case auth.DecisionRedirect:
				cliNavigator{}.Navigate(gateway.AuthEntryPath)
				return errors.New("not signed in")
			case auth.DecisionForbidden:
				return errors.New("this command needs a staff account")
			default:
				return fmt.Errorf("session not ready (%s)", d)
			}
		}
		return fn(ctx, a)
	})
}

// withApp builds the app without contacting the backend.
func withApp(opts *globalOptions, fn func(ctx context.Context, a *app) error) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.close(); err != nil {
			log.Err(err).Msg("failed to close credential store")
		}
	}()

	if !opts.quiet && a.cfg.GetEnv() == "DEV" {
		printBanner(a.cfg.GetAppName())
	}
	return fn(ctx, a)
}
