package sqlitestore_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jrsteele09/studysphere/credentials/sqlitestore"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state", "credentials.db")

	s, err := sqlitestore.Open(ctx, path)
	require.NoError(t, err)

	_, ok, err := s.Get(ctx, "access_token")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Set(ctx, "access_token", "one"))
	require.NoError(t, s.Set(ctx, "access_token", "two"))

	v, ok, err := s.Get(ctx, "access_token")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "two", v)
	require.NoError(t, s.Close())

	reopened, err := sqlitestore.Open(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	v, ok, err = reopened.Get(ctx, "access_token")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "two", v)

	require.NoError(t, reopened.Remove(ctx, "access_token"))
	require.NoError(t, reopened.Remove(ctx, "access_token"))
	_, ok, err = reopened.Get(ctx, "access_token")
	require.NoError(t, err)
	require.False(t, ok)
}
