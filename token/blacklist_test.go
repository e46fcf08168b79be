package token_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/studysphere/token"
	"github.com/stretchr/testify/require"
)

func TestMemoryBlacklist(t *testing.T) {
	now := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	b := token.NewMemoryBlacklist()

	require.NoError(t, b.Blacklist("a", 1, now.Add(time.Minute)))
	require.NoError(t, b.Blacklist("b", 1, now.Add(time.Hour)))
	require.NoError(t, b.Blacklist("c", 2, now.Add(time.Hour)))
	require.True(t, b.Contains("a"))
	require.False(t, b.Contains("z"))
	require.Equal(t, 2, b.ForUser(1))

	require.Zero(t, b.Purge(now))
	require.Equal(t, 1, b.Purge(now.Add(time.Minute)))
	require.False(t, b.Contains("a"))
	require.True(t, b.Contains("b"))
	require.Equal(t, 1, b.ForUser(1))
}

func TestManager_RevokePurgesExpiredEntries(t *testing.T) {
	now := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	signer, err := token.NewHMACSigner(secretStr)
	require.NoError(t, err)
	blacklist := token.NewMemoryBlacklist()
	manager, err := token.New(signer,
		token.WithTokenExpiry(time.Minute, time.Hour),
		token.WithNowFunc(func() time.Time { return now }),
		token.WithBlacklist(blacklist),
	)
	require.NoError(t, err)

	first, err := manager.IssuePair(7)
	require.NoError(t, err)
	require.NoError(t, manager.Revoke(first.Refresh))
	require.Equal(t, 1, blacklist.ForUser(7))

	now = now.Add(2 * time.Hour)
	second, err := manager.IssuePair(7)
	require.NoError(t, err)
	require.NoError(t, manager.Revoke(second.Refresh))

	// The first entry outlived its token and was dropped.
	require.Equal(t, 1, blacklist.ForUser(7))
	_, err = manager.VerifyRefresh(second.Refresh)
	require.Error(t, err)
}
