package api

import (
	"context"
	"net/http"

	"github.com/jrsteele09/studysphere/gateway"
	"github.com/jrsteele09/studysphere/users"
)

const (
	registerPath    = "/auth/register/"
	loginPath       = "/auth/login/"
	googleLoginPath = "/auth/google/"
	currentUserPath = "/auth/me/"
	logoutPath      = "/auth/logout/"
)

// AuthAPI covers the account endpoints. The credential exchanges never go
// through the refresh path: a rejected password is not an expired session.
// Persisting the returned pair is the caller's job.
type AuthAPI struct {
	r Requester
}

func (a *AuthAPI) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := a.r.Do(ctx, http.MethodPost, registerPath, req, &resp, gateway.WithoutAuthRetry()); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *AuthAPI) Login(ctx context.Context, username, password string) (*AuthResponse, error) {
	var resp AuthResponse
	body := LoginRequest{Username: username, Password: password}
	if err := a.r.Do(ctx, http.MethodPost, loginPath, body, &resp, gateway.WithoutAuthRetry()); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *AuthAPI) GoogleLogin(ctx context.Context, credential string) (*AuthResponse, error) {
	var resp AuthResponse
	body := GoogleLoginRequest{Credential: credential}
	if err := a.r.Do(ctx, http.MethodPost, googleLoginPath, body, &resp, gateway.WithoutAuthRetry()); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *AuthAPI) CurrentUser(ctx context.Context) (*users.User, error) {
	var u users.User
	if err := a.r.Do(ctx, http.MethodGet, currentUserPath, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (a *AuthAPI) UpdateProfile(ctx context.Context, update ProfileUpdate) (*users.User, error) {
	var u users.User
	if err := a.r.Do(ctx, http.MethodPut, currentUserPath, update, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Logout asks the server to revoke refreshToken. Local credentials are not
// touched; Session.Logout owns those.
func (a *AuthAPI) Logout(ctx context.Context, refreshToken string) error {
	body := RefreshRequest{Refresh: refreshToken}
	return a.r.Do(ctx, http.MethodPost, logoutPath, body, nil, gateway.WithoutAuthRetry())
}
