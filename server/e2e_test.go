package server_test

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/studysphere/api"
	"github.com/jrsteele09/studysphere/auth"
	"github.com/jrsteele09/studysphere/credentials"
	"github.com/jrsteele09/studysphere/credentials/memstore"
	"github.com/jrsteele09/studysphere/gateway"
	"github.com/stretchr/testify/require"
)

type clientFixture struct {
	*testFixture
	tokens  *credentials.Tokens
	client  *api.Client
	session *auth.Session

	mu          sync.Mutex
	navigations []string
}

func setupClientFixture(t *testing.T) *clientFixture {
	t.Helper()
	f := &clientFixture{testFixture: setupTestFixture(t)}

	tokens, err := credentials.NewTokens(memstore.New())
	require.NoError(t, err)
	f.tokens = tokens

	nav := gateway.NavigatorFunc(func(path string) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.navigations = append(f.navigations, path)
	})
	gw, err := gateway.New(f.http.URL+"/api", tokens,
		gateway.WithHTTPClient(f.http.Client()),
		gateway.WithNavigator(nav),
		gateway.WithRefreshCoalescing(),
	)
	require.NoError(t, err)

	f.client, err = api.New(gw)
	require.NoError(t, err)
	f.session, err = auth.NewSession(f.client.Auth, tokens, nav, auth.WithExpiryNotifier(gw))
	require.NoError(t, err)
	t.Cleanup(f.session.Close)
	return f
}

func (f *clientFixture) navigated() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.navigations...)
}

func TestClient_RegisterAndUseAPI(t *testing.T) {
	f := setupClientFixture(t)
	ctx := context.Background()

	require.NoError(t, f.session.Init(ctx))
	require.False(t, f.session.IsAuthenticated())

	require.NoError(t, f.session.Register(ctx, api.RegisterRequest{
		Username:  "alice",
		Email:     "alice@example.com",
		Password:  userPassword,
		Password2: userPassword,
	}))
	require.True(t, f.session.IsAuthenticated())
	require.Equal(t, "alice", f.session.User().Username)

	_, err := f.client.Sessions.Create(ctx, api.SessionInput{
		Title:       "Linear Algebra",
		CourseCode:  "MATH210",
		Description: "Eigenvalues",
		Date:        "Tue, Oct 15",
		Time:        "1:00 PM - 2:00 PM",
		Location:    "Room 4",
	})
	require.NoError(t, err)

	f.session.RefreshUser(ctx)
	require.Equal(t, 50, f.session.User().XP)

	list, err := f.client.Sessions.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "alice", list[0].HostName)

	// A fresh session restores the user from persisted tokens.
	restored, err := auth.NewSession(f.client.Auth, f.tokens, gateway.NavigatorFunc(func(string) {}))
	require.NoError(t, err)
	require.NoError(t, restored.Init(ctx))
	require.Equal(t, "alice", restored.User().Username)
}

func TestClient_TransparentRefresh(t *testing.T) {
	f := setupClientFixture(t)
	ctx := context.Background()

	f.register(t, "alice")
	require.NoError(t, f.session.Login(ctx, "alice", userPassword))
	before, err := f.tokens.Access(ctx)
	require.NoError(t, err)

	f.clock.Advance(accessTTL + time.Minute)

	var wg sync.WaitGroup
	errs := make([]error, 5)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.client.Dashboard.Get(ctx)
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	after, err := f.tokens.Access(ctx)
	require.NoError(t, err)
	require.NotEqual(t, before, after)
	require.Empty(t, f.navigated())
}

func TestClient_RevokedRefreshExpiresSession(t *testing.T) {
	f := setupClientFixture(t)
	ctx := context.Background()

	f.register(t, "alice")
	require.NoError(t, f.session.Login(ctx, "alice", userPassword))
	refreshToken, err := f.tokens.Refresh(ctx)
	require.NoError(t, err)
	require.NoError(t, f.testFixture.tokens.Revoke(refreshToken))

	f.clock.Advance(accessTTL + time.Minute)

	_, err = f.client.Dashboard.Get(ctx)
	require.ErrorIs(t, err, gateway.ErrSessionExpired)

	access, err := f.tokens.Access(ctx)
	require.NoError(t, err)
	require.Empty(t, access)
	refreshToken, err = f.tokens.Refresh(ctx)
	require.NoError(t, err)
	require.Empty(t, refreshToken)
	require.Equal(t, []string{gateway.AuthEntryPath}, f.navigated())

	require.False(t, f.session.IsAuthenticated())
	require.Equal(t, auth.DecisionRedirect, auth.Guard(f.session.Snapshot()))
}

func TestClient_LoginFailureMessage(t *testing.T) {
	f := setupClientFixture(t)
	ctx := context.Background()
	f.register(t, "alice")

	err := f.session.Login(ctx, "alice", "wrong-password")
	require.Error(t, err)
	require.Equal(t, "Invalid credentials", err.Error())
	require.False(t, f.session.IsAuthenticated())
	require.Empty(t, f.navigated())
}

func TestClient_Logout(t *testing.T) {
	f := setupClientFixture(t)
	ctx := context.Background()
	f.register(t, "alice")
	require.NoError(t, f.session.Login(ctx, "alice", userPassword))
	refreshToken, err := f.tokens.Refresh(ctx)
	require.NoError(t, err)

	require.NoError(t, f.client.Auth.Logout(ctx, refreshToken))
	require.NoError(t, f.session.Logout(ctx))
	require.False(t, f.session.IsAuthenticated())

	// The revoked refresh token can no longer mint access tokens.
	status := f.call(t, http.MethodPost, "/auth/refresh/", "", map[string]string{"refresh": refreshToken}, nil)
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, []string{gateway.AuthEntryPath}, f.navigated())

	leaderboard, err := f.client.Leaderboard.Get(ctx, api.PeriodWeek)
	require.NoError(t, err)
	require.Len(t, leaderboard, 2)
}
