package credentials

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// Tokens owns the two persisted token fields of a Store.
type Tokens struct {
	store Store
}

func NewTokens(store Store) (*Tokens, error) {
	if store == nil {
		return nil, errors.New("[NewTokens] store is required")
	}
	return &Tokens{store: store}, nil
}

// Store returns the underlying key/value store so that other preferences can
// share it.
func (t *Tokens) Store() Store {
	return t.store
}

// Access returns the persisted access token or "" when there is none.
func (t *Tokens) Access(ctx context.Context) (string, error) {
	return t.get(ctx, KeyAccessToken)
}

// Refresh returns the persisted refresh token or "" when there is none.
func (t *Tokens) Refresh(ctx context.Context) (string, error) {
	return t.get(ctx, KeyRefreshToken)
}

func (t *Tokens) SetPair(ctx context.Context, pair Pair) error {
	if pair.Access == "" || pair.Refresh == "" {
		return errors.New("[Tokens.SetPair] access and refresh tokens are required")
	}
	if err := t.store.Set(ctx, KeyAccessToken, pair.Access); err != nil {
		return errors.Wrap(err, "Tokens.SetPair access")
	}
	if err := t.store.Set(ctx, KeyRefreshToken, pair.Refresh); err != nil {
		return errors.Wrap(err, "Tokens.SetPair refresh")
	}
	return nil
}

// SetAccess replaces the access token in place after a refresh exchange.
func (t *Tokens) SetAccess(ctx context.Context, access string) error {
	if access == "" {
		return errors.New("[Tokens.SetAccess] access token is required")
	}
	return errors.Wrap(t.store.Set(ctx, KeyAccessToken, access), "Tokens.SetAccess")
}

// Clear removes both tokens. Both removals are attempted; the first error is
// returned.
func (t *Tokens) Clear(ctx context.Context) error {
	errAccess := t.store.Remove(ctx, KeyAccessToken)
	errRefresh := t.store.Remove(ctx, KeyRefreshToken)
	if errAccess != nil {
		return errors.Wrap(errAccess, "Tokens.Clear access")
	}
	return errors.Wrap(errRefresh, "Tokens.Clear refresh")
}

// ClearAccess removes only the access token.
func (t *Tokens) ClearAccess(ctx context.Context) error {
	return errors.Wrap(t.store.Remove(ctx, KeyAccessToken), "Tokens.ClearAccess")
}

// AccessExpiry reads the exp claim of the access token without verifying its
// signature. It is informational only.
func (t *Tokens) AccessExpiry(ctx context.Context) (time.Time, bool) {
	access, err := t.Access(ctx)
	if err != nil || access == "" {
		return time.Time{}, false
	}
	return ExpiryOf(access)
}

// ExpiryOf returns the exp claim of an unverified JWT.
func ExpiryOf(raw string) (time.Time, bool) {
	token, _, err := jwt.NewParser().ParseUnverified(raw, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func (t *Tokens) get(ctx context.Context, key string) (string, error) {
	value, ok, err := t.store.Get(ctx, key)
	if err != nil {
		return "", errors.Wrapf(err, "Tokens.get %s", key)
	}
	if !ok {
		return "", nil
	}
	return value, nil
}
