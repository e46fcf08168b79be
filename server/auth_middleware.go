package server

import (
	"context"
	"net/http"
	"strings"

	apperrors "github.com/jrsteele09/studysphere/internal/errors"
	"github.com/jrsteele09/studysphere/users"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyUserID stores the authenticated user ID
	ContextKeyUserID ContextKey = "user_id"
)

const (
	codeTokenNotValid = "token_not_valid"
	msgTokenNotValid  = "Given token not valid for any token type"
)

func writeTokenNotValid(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, map[string]string{
		"detail": msgTokenNotValid,
		"code":   codeTokenNotValid,
	})
}

// userIDFrom returns the authenticated user, or 0 for anonymous requests.
func userIDFrom(ctx context.Context) int64 {
	id, _ := ctx.Value(ContextKeyUserID).(int64)
	return id
}

// bearerToken returns the token of a "Bearer" Authorization header and
// whether the header was present at all.
func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", true
	}
	return strings.TrimSpace(parts[1]), true
}

// authenticate resolves the request's bearer token. A missing header is not
// an error. A present but unusable one has already been answered with 401.
func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) (*http.Request, bool) {
	raw, present := bearerToken(r)
	if !present {
		return r, true
	}
	userID, err := s.tokens.VerifyAccess(raw)
	if err != nil {
		writeTokenNotValid(w)
		return r, false
	}
	if _, err := s.repos.Accounts.GetByID(userID); err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"detail": "User not found",
			"code":   "user_not_found",
		})
		return r, false
	}
	return r.WithContext(context.WithValue(r.Context(), ContextKeyUserID, userID)), true
}

// OptionalAuth identifies the caller when a token is sent and lets
// anonymous requests through.
func (s *Server) OptionalAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			r, ok := s.authenticate(w, r)
			if !ok {
				return
			}
			next(w, r)
		}
	}
}

// RequireAuth is middleware that validates a Bearer access token
func (s *Server) RequireAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			r, ok := s.authenticate(w, r)
			if !ok {
				return
			}
			if userIDFrom(r.Context()) == 0 {
				writeDetail(w, http.StatusUnauthorized, msgNotAuthenticated)
				return
			}
			next(w, r)
		}
	}
}

// RequireStaff rejects authenticated callers without staff rights. Chain it
// after RequireAuth.
func (s *Server) RequireStaff() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if !s.isStaff(userIDFrom(r.Context())) {
				writeDetail(w, http.StatusForbidden, msgPermissionDenied)
				return
			}
			next(w, r)
		}
	}
}

func (s *Server) isStaff(userID int64) bool {
	if userID == 0 {
		return false
	}
	account, err := s.repos.Accounts.GetByID(userID)
	return err == nil && account.IsStaff
}

// currentAccount loads the authenticated caller.
func (s *Server) currentAccount(r *http.Request) (*users.Account, error) {
	userID := userIDFrom(r.Context())
	if userID == 0 {
		return nil, apperrors.ErrUserNotFound
	}
	return s.repos.Accounts.GetByID(userID)
}
