package token_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/studysphere/credentials"
	apperrors "github.com/jrsteele09/studysphere/internal/errors"
	"github.com/jrsteele09/studysphere/token"
	"github.com/stretchr/testify/require"
)

const secretStr = "1234"

type testFixture struct {
	now     time.Time
	manager *token.Manager
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	f := &testFixture{now: time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)}
	signer, err := token.NewHMACSigner(secretStr)
	require.NoError(t, err)
	f.manager, err = token.New(signer,
		token.WithTokenExpiry(time.Minute, time.Hour),
		token.WithNowFunc(func() time.Time { return f.now }),
	)
	require.NoError(t, err)
	return f
}

func TestManager_IssueAndVerify(t *testing.T) {
	f := setupTestFixture(t)

	pair, err := f.manager.IssuePair(42)
	require.NoError(t, err)
	require.NotEqual(t, pair.Access, pair.Refresh)

	userID, err := f.manager.VerifyAccess(pair.Access)
	require.NoError(t, err)
	require.EqualValues(t, 42, userID)

	exp, ok := credentials.ExpiryOf(pair.Access)
	require.True(t, ok)
	require.Equal(t, f.now.Add(time.Minute).Unix(), exp.Unix())

	// A refresh token is not an access token and vice versa.
	_, err = f.manager.VerifyAccess(pair.Refresh)
	require.ErrorIs(t, err, apperrors.ErrInvalidToken)
	_, err = f.manager.Refresh(pair.Access)
	require.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestManager_Expiry(t *testing.T) {
	f := setupTestFixture(t)
	pair, err := f.manager.IssuePair(7)
	require.NoError(t, err)

	f.now = f.now.Add(2 * time.Minute)
	_, err = f.manager.VerifyAccess(pair.Access)
	require.ErrorIs(t, err, apperrors.ErrTokenExpired)

	access, err := f.manager.Refresh(pair.Refresh)
	require.NoError(t, err)
	userID, err := f.manager.VerifyAccess(access)
	require.NoError(t, err)
	require.EqualValues(t, 7, userID)

	f.now = f.now.Add(2 * time.Hour)
	_, err = f.manager.Refresh(pair.Refresh)
	require.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestManager_Revoke(t *testing.T) {
	f := setupTestFixture(t)
	pair, err := f.manager.IssuePair(7)
	require.NoError(t, err)

	userID, err := f.manager.VerifyRefresh(pair.Refresh)
	require.NoError(t, err)
	require.EqualValues(t, 7, userID)
	_, err = f.manager.VerifyRefresh(pair.Access)
	require.ErrorIs(t, err, apperrors.ErrInvalidToken)

	require.NoError(t, f.manager.Revoke(pair.Refresh))
	_, err = f.manager.Refresh(pair.Refresh)
	require.ErrorIs(t, err, apperrors.ErrInvalidToken)
	_, err = f.manager.VerifyRefresh(pair.Refresh)
	require.ErrorIs(t, err, apperrors.ErrInvalidToken)

	require.Error(t, f.manager.Revoke("not-a-jwt"))
}

func TestManager_RejectsForeignSignature(t *testing.T) {
	f := setupTestFixture(t)

	other, err := token.NewHMACSigner("another-secret")
	require.NoError(t, err)
	otherManager, err := token.New(other)
	require.NoError(t, err)
	pair, err := otherManager.IssuePair(1)
	require.NoError(t, err)

	_, err = f.manager.VerifyAccess(pair.Access)
	require.ErrorIs(t, err, apperrors.ErrInvalidToken)
	_, err = f.manager.VerifyAccess("")
	require.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestNew_Validation(t *testing.T) {
	_, err := token.New(nil)
	require.Error(t, err)
	_, err = token.NewHMACSigner("")
	require.Error(t, err)
}
