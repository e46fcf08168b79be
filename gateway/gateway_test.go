package gateway_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jrsteele09/studysphere/credentials"
	"github.com/jrsteele09/studysphere/credentials/memstore"
	"github.com/jrsteele09/studysphere/gateway"
	apperrors "github.com/jrsteele09/studysphere/internal/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

const (
	staleAccess  = "stale-access"
	freshAccess  = "fresh-access"
	validRefresh = "valid-refresh"
)

// backend is a scripted API used by the gateway tests.
type backend struct {
	server        *httptest.Server
	protectedHits atomic.Int32
	refreshHits   atomic.Int32
	refreshOK     bool
	alwaysReject  bool
	lastAuth      atomic.Value
	requestIDs    sync.Map
}

func newBackend(t *testing.T) *backend {
	t.Helper()
	b := &backend{refreshOK: true}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/refresh/", func(w http.ResponseWriter, r *http.Request) {
		b.refreshHits.Add(1)
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if !b.refreshOK || body["refresh"] != validRefresh {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Token is invalid or expired", "code": "token_not_valid"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"access": freshAccess})
	})
	mux.HandleFunc("GET /api/protected/", func(w http.ResponseWriter, r *http.Request) {
		b.protectedHits.Add(1)
		auth := r.Header.Get("Authorization")
		b.lastAuth.Store(auth)
		id := r.Header.Get("X-Request-Id")
		count, _ := b.requestIDs.LoadOrStore(id, new(atomic.Int32))
		count.(*atomic.Int32).Add(1)

		if b.alwaysReject || auth != "Bearer "+freshAccess {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Given token not valid for any token type"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "period": r.URL.Query().Get("period")})
	})
	mux.HandleFunc("GET /api/public/", func(w http.ResponseWriter, r *http.Request) {
		b.lastAuth.Store(r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	mux.HandleFunc("GET /api/broken/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "boom"})
	})
	mux.HandleFunc("GET /api/forbidden/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, map[string]string{"detail": "You do not have permission to perform this action."})
	})

	b.server = httptest.NewServer(mux)
	t.Cleanup(b.server.Close)
	return b
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type recordingNavigator struct {
	mu    sync.Mutex
	paths []string
}

func (n *recordingNavigator) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

func (n *recordingNavigator) Paths() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.paths...)
}

type testFixture struct {
	backend *backend
	store   *memstore.MemStore
	tokens  *credentials.Tokens
	nav     *recordingNavigator
	gw      *gateway.Gateway
}

func setupTestFixture(t *testing.T, opts ...gateway.Option) *testFixture {
	t.Helper()

	b := newBackend(t)
	store := memstore.New()
	tokens, err := credentials.NewTokens(store)
	require.NoError(t, err)
	nav := &recordingNavigator{}

	options := append([]gateway.Option{
		gateway.WithHTTPClient(b.server.Client()),
		gateway.WithNavigator(nav),
	}, opts...)
	gw, err := gateway.New(b.server.URL+"/api", tokens, options...)
	require.NoError(t, err)

	return &testFixture{backend: b, store: store, tokens: tokens, nav: nav, gw: gw}
}

func (f *testFixture) persisted(t *testing.T) (string, string) {
	t.Helper()
	access, err := f.tokens.Access(context.Background())
	require.NoError(t, err)
	refresh, err := f.tokens.Refresh(context.Background())
	require.NoError(t, err)
	return access, refresh
}

func TestGateway_TokenAttachment(t *testing.T) {
	ctx := context.Background()

	t.Run("bearer set when access token persisted", func(t *testing.T) {
		f := setupTestFixture(t)
		require.NoError(t, f.tokens.SetPair(ctx, credentials.Pair{Access: "abc", Refresh: validRefresh}))

		require.NoError(t, f.gw.Get(ctx, "/public/", nil))
		require.Equal(t, "Bearer abc", f.backend.lastAuth.Load())
	})

	t.Run("no header without token", func(t *testing.T) {
		f := setupTestFixture(t)

		var out map[string]bool
		require.NoError(t, f.gw.Get(ctx, "public/", &out))
		require.Equal(t, "", f.backend.lastAuth.Load())
		require.True(t, out["ok"])
	})
}

func TestGateway_RefreshSuccess(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t)
	require.NoError(t, f.tokens.SetPair(ctx, credentials.Pair{Access: staleAccess, Refresh: validRefresh}))

	var out struct {
		OK     bool   `json:"ok"`
		Period string `json:"period"`
	}
	err := f.gw.Get(ctx, "/protected/", &out, gateway.WithQuery("period", "week"))
	require.NoError(t, err)
	require.True(t, out.OK)
	require.Equal(t, "week", out.Period)

	require.EqualValues(t, 1, f.backend.refreshHits.Load())
	require.EqualValues(t, 2, f.backend.protectedHits.Load())

	access, refresh := f.persisted(t)
	require.Equal(t, freshAccess, access)
	require.Equal(t, validRefresh, refresh)
	require.Empty(t, f.nav.Paths())

	// Both attempts carried the same request id.
	f.backend.requestIDs.Range(func(_, v any) bool {
		require.EqualValues(t, 2, v.(*atomic.Int32).Load())
		return true
	})
}

func TestGateway_SingleRetry(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t)
	f.backend.alwaysReject = true
	require.NoError(t, f.tokens.SetPair(ctx, credentials.Pair{Access: staleAccess, Refresh: validRefresh}))

	err := f.gw.Get(ctx, "/protected/", nil)
	require.ErrorIs(t, err, gateway.ErrUnauthorized)
	require.NotErrorIs(t, err, gateway.ErrSessionExpired)

	require.EqualValues(t, 1, f.backend.refreshHits.Load())
	require.EqualValues(t, 2, f.backend.protectedHits.Load())

	// The refreshed token stays persisted; only a failed exchange clears.
	access, _ := f.persisted(t)
	require.Equal(t, freshAccess, access)
}

func TestGateway_RefreshFailure(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t)
	f.backend.refreshOK = false
	require.NoError(t, f.tokens.SetPair(ctx, credentials.Pair{Access: staleAccess, Refresh: "revoked"}))

	err := f.gw.Get(ctx, "/protected/", nil)
	require.ErrorIs(t, err, gateway.ErrSessionExpired)

	access, refresh := f.persisted(t)
	require.Empty(t, access)
	require.Empty(t, refresh)
	require.Equal(t, []string{gateway.AuthEntryPath}, f.nav.Paths())
	require.EqualValues(t, 1, f.backend.protectedHits.Load())
}

func TestGateway_OnSessionExpired(t *testing.T) {
	ctx := context.Background()

	t.Run("fires after clearing and navigating", func(t *testing.T) {
		f := setupTestFixture(t)
		f.backend.refreshOK = false
		require.NoError(t, f.tokens.SetPair(ctx, credentials.Pair{Access: staleAccess, Refresh: "revoked"}))

		var fired atomic.Int32
		var navigated atomic.Bool
		f.gw.OnSessionExpired(func() {
			access, _ := f.persisted(t)
			navigated.Store(access == "" && len(f.nav.Paths()) == 1)
			fired.Add(1)
		})

		require.ErrorIs(t, f.gw.Get(ctx, "/protected/", nil), gateway.ErrSessionExpired)
		require.EqualValues(t, 1, fired.Load())
		require.True(t, navigated.Load())
	})

	t.Run("silent when refresh succeeds", func(t *testing.T) {
		f := setupTestFixture(t)
		require.NoError(t, f.tokens.SetPair(ctx, credentials.Pair{Access: staleAccess, Refresh: validRefresh}))

		var fired atomic.Int32
		f.gw.OnSessionExpired(func() { fired.Add(1) })

		require.NoError(t, f.gw.Get(ctx, "/protected/", nil))
		require.Zero(t, fired.Load())
	})

	t.Run("removed listener is not called", func(t *testing.T) {
		f := setupTestFixture(t)
		f.backend.refreshOK = false
		require.NoError(t, f.tokens.SetPair(ctx, credentials.Pair{Access: staleAccess, Refresh: "revoked"}))

		var fired atomic.Int32
		remove := f.gw.OnSessionExpired(func() { fired.Add(1) })
		remove()

		require.ErrorIs(t, f.gw.Get(ctx, "/protected/", nil), gateway.ErrSessionExpired)
		require.Zero(t, fired.Load())
	})
}

func TestGateway_NoRefreshToken(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t)
	require.NoError(t, f.store.Set(ctx, credentials.KeyAccessToken, staleAccess))

	err := f.gw.Get(ctx, "/protected/", nil)
	require.ErrorIs(t, err, gateway.ErrUnauthorized)

	apiErr, ok := gateway.AsAPIError(err)
	require.True(t, ok)
	require.Equal(t, "Given token not valid for any token type", apiErr.Detail())

	require.EqualValues(t, 0, f.backend.refreshHits.Load())
	access, refresh := f.persisted(t)
	require.Empty(t, access)
	require.Empty(t, refresh)
	require.Empty(t, f.nav.Paths())
}

func TestGateway_OtherFailuresPropagate(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t)
	require.NoError(t, f.tokens.SetPair(ctx, credentials.Pair{Access: staleAccess, Refresh: validRefresh}))

	t.Run("server error", func(t *testing.T) {
		err := f.gw.Get(ctx, "/broken/", nil)
		apiErr, ok := gateway.AsAPIError(err)
		require.True(t, ok)
		require.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
		require.Equal(t, "boom", apiErr.Message())
	})

	t.Run("forbidden", func(t *testing.T) {
		err := f.gw.Get(ctx, "/forbidden/", nil)
		require.ErrorIs(t, err, gateway.ErrForbidden)
	})

	t.Run("not found", func(t *testing.T) {
		err := f.gw.Get(ctx, "/missing/", nil)
		require.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("transport error", func(t *testing.T) {
		dead := httptest.NewServer(http.NotFoundHandler())
		dead.Close()
		gw, err := gateway.New(dead.URL, f.tokens)
		require.NoError(t, err)
		err = gw.Get(ctx, "/anything/", nil)
		require.Error(t, err)
		_, isAPI := gateway.AsAPIError(err)
		require.False(t, isAPI)
	})

	require.EqualValues(t, 0, f.backend.refreshHits.Load())
	access, _ := f.persisted(t)
	require.Equal(t, staleAccess, access)
}

func TestGateway_WithoutAuthRetry(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t)
	require.NoError(t, f.tokens.SetPair(ctx, credentials.Pair{Access: staleAccess, Refresh: validRefresh}))

	err := f.gw.Get(ctx, "/protected/", nil, gateway.WithoutAuthRetry())
	require.ErrorIs(t, err, gateway.ErrUnauthorized)
	require.EqualValues(t, 0, f.backend.refreshHits.Load())

	access, refresh := f.persisted(t)
	require.Equal(t, staleAccess, access)
	require.Equal(t, validRefresh, refresh)
}

// countingRefresher blocks every exchange for a short time so concurrent
// callers overlap.
type countingRefresher struct {
	calls atomic.Int32
	delay time.Duration
}

func (c *countingRefresher) Exchange(ctx context.Context, refreshToken string) (string, error) {
	c.calls.Add(1)
	time.Sleep(c.delay)
	if refreshToken != validRefresh {
		return "", errors.New("rejected")
	}
	return freshAccess, nil
}

func runConcurrent(t *testing.T, f *testFixture, n int) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.tokens.SetPair(ctx, credentials.Pair{Access: staleAccess, Refresh: validRefresh}))

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- f.gw.Get(ctx, "/protected/", nil)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
}

func TestGateway_ConcurrentRefresh(t *testing.T) {
	const callers = 5

	t.Run("each call refreshes independently by default", func(t *testing.T) {
		r := &countingRefresher{delay: 10 * time.Millisecond}
		f := setupTestFixture(t, gateway.WithRefresher(r))
		runConcurrent(t, f, callers)
		require.LessOrEqual(t, r.calls.Load(), int32(callers))
		require.GreaterOrEqual(t, r.calls.Load(), int32(1))
	})

	t.Run("coalescing shares one exchange", func(t *testing.T) {
		r := &countingRefresher{delay: 200 * time.Millisecond}
		f := setupTestFixture(t, gateway.WithRefresher(r), gateway.WithRefreshCoalescing())
		runConcurrent(t, f, callers)
		require.Less(t, r.calls.Load(), int32(callers))
	})
}

func TestGateway_Metrics(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	m := gateway.NewMetrics(reg)
	f := setupTestFixture(t, gateway.WithMetrics(m))
	require.NoError(t, f.tokens.SetPair(ctx, credentials.Pair{Access: staleAccess, Refresh: validRefresh}))

	require.NoError(t, f.gw.Get(ctx, "/protected/", nil))

	count, err := testutil.GatherAndCount(reg, "studysphere_gateway_refresh_total")
	require.NoError(t, err)
	require.Equal(t, 1, count)

	count, err = testutil.GatherAndCount(reg, "studysphere_gateway_requests_total")
	require.NoError(t, err)
	require.Equal(t, 2, count) // GET/401 and GET/200 series
}

func TestNew_Validation(t *testing.T) {
	tokens, _ := credentials.NewTokens(memstore.New())

	_, err := gateway.New("", tokens)
	require.Error(t, err)

	_, err = gateway.New("not a url", tokens)
	require.Error(t, err)

	_, err = gateway.New("http://localhost:8000/api", nil)
	require.Error(t, err)
}
