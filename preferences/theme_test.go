package preferences_test

import (
	"context"
	"testing"

	"github.com/jrsteele09/studysphere/credentials"
	"github.com/jrsteele09/studysphere/credentials/memstore"
	"github.com/jrsteele09/studysphere/preferences"
	"github.com/stretchr/testify/require"
)

func TestThemes(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	themes, err := preferences.NewThemes(store)
	require.NoError(t, err)

	theme, err := themes.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, preferences.Dark, theme)

	theme, err = themes.Toggle(ctx)
	require.NoError(t, err)
	require.Equal(t, preferences.Light, theme)

	v, ok, err := store.Get(ctx, credentials.KeyTheme)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "light", v)

	theme, err = themes.Toggle(ctx)
	require.NoError(t, err)
	require.Equal(t, preferences.Dark, theme)

	require.Error(t, themes.Set(ctx, "sepia"))

	require.NoError(t, store.Set(ctx, credentials.KeyTheme, "garbage"))
	theme, err = themes.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, preferences.Dark, theme)
}

func TestThemes_SharesStoreWithTokens(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	tokens, err := credentials.NewTokens(store)
	require.NoError(t, err)
	themes, err := preferences.NewThemes(tokens.Store())
	require.NoError(t, err)

	require.NoError(t, tokens.SetPair(ctx, credentials.Pair{Access: "a", Refresh: "r"}))
	require.NoError(t, themes.Set(ctx, preferences.Light))
	require.NoError(t, tokens.Clear(ctx))

	theme, err := themes.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, preferences.Light, theme)
	require.Equal(t, 1, store.Len())
}
