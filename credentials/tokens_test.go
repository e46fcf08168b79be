package credentials_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/studysphere/credentials"
	"github.com/jrsteele09/studysphere/credentials/memstore"
	"github.com/stretchr/testify/require"
)

func TestTokens(t *testing.T) {
	ctx := context.Background()

	t.Run("empty store", func(t *testing.T) {
		tokens, err := credentials.NewTokens(memstore.New())
		require.NoError(t, err)

		access, err := tokens.Access(ctx)
		require.NoError(t, err)
		require.Empty(t, access)

		refresh, err := tokens.Refresh(ctx)
		require.NoError(t, err)
		require.Empty(t, refresh)
	})

	t.Run("set pair then replace access", func(t *testing.T) {
		store := memstore.New()
		tokens, err := credentials.NewTokens(store)
		require.NoError(t, err)

		require.NoError(t, tokens.SetPair(ctx, credentials.Pair{Access: "a1", Refresh: "r1"}))
		require.NoError(t, tokens.SetAccess(ctx, "a2"))

		access, _ := tokens.Access(ctx)
		refresh, _ := tokens.Refresh(ctx)
		require.Equal(t, "a2", access)
		require.Equal(t, "r1", refresh)
	})

	t.Run("clear removes both and leaves other keys", func(t *testing.T) {
		store := memstore.New()
		require.NoError(t, store.Set(ctx, credentials.KeyTheme, "light"))
		tokens, _ := credentials.NewTokens(store)
		require.NoError(t, tokens.SetPair(ctx, credentials.Pair{Access: "a", Refresh: "r"}))

		require.NoError(t, tokens.Clear(ctx))

		_, ok, _ := store.Get(ctx, credentials.KeyAccessToken)
		require.False(t, ok)
		_, ok, _ = store.Get(ctx, credentials.KeyRefreshToken)
		require.False(t, ok)
		theme, ok, _ := store.Get(ctx, credentials.KeyTheme)
		require.True(t, ok)
		require.Equal(t, "light", theme)
	})

	t.Run("incomplete pair rejected", func(t *testing.T) {
		tokens, _ := credentials.NewTokens(memstore.New())
		require.Error(t, tokens.SetPair(ctx, credentials.Pair{Access: "a"}))
		require.Error(t, tokens.SetAccess(ctx, ""))
	})

	t.Run("nil store", func(t *testing.T) {
		_, err := credentials.NewTokens(nil)
		require.Error(t, err)
	})
}

func TestTokens_AccessExpiry(t *testing.T) {
	ctx := context.Background()
	exp := time.Now().Add(10 * time.Minute).Truncate(time.Second)

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": exp.Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tokens, _ := credentials.NewTokens(memstore.New())
	_, ok := tokens.AccessExpiry(ctx)
	require.False(t, ok)

	require.NoError(t, tokens.SetPair(ctx, credentials.Pair{Access: raw, Refresh: "r"}))
	got, ok := tokens.AccessExpiry(ctx)
	require.True(t, ok)
	require.True(t, exp.Equal(got))

	_, ok = credentials.ExpiryOf("not-a-jwt")
	require.False(t, ok)
}
