package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	apperrors "github.com/jrsteele09/studysphere/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestAPIError_Fields(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		field   string
		want    string
		message string
	}{
		{
			name:    "validation list",
			body:    `{"username": ["A user with that username already exists."], "email": ["Enter a valid email address."]}`,
			field:   "username",
			want:    "A user with that username already exists.",
			message: "",
		},
		{
			name:    "bare string field",
			body:    `{"password": "too short"}`,
			field:   "password",
			want:    "too short",
			message: "",
		},
		{
			name:    "detail",
			body:    `{"detail": "No active account found with the given credentials"}`,
			field:   "username",
			want:    "",
			message: "No active account found with the given credentials",
		},
		{
			name:    "error key",
			body:    `{"error": "Invalid Google token"}`,
			field:   "error",
			want:    "Invalid Google token",
			message: "Invalid Google token",
		},
		{
			name:    "non field errors",
			body:    `{"non_field_errors": ["Passwords do not match"]}`,
			field:   "username",
			want:    "",
			message: "Passwords do not match",
		},
		{
			name:    "empty list",
			body:    `{"username": []}`,
			field:   "username",
			want:    "",
			message: "",
		},
		{
			name:    "plain text body",
			body:    "Bad Gateway",
			field:   "detail",
			want:    "",
			message: "Bad Gateway",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newAPIError(http.MethodPost, "/auth/register/", http.StatusBadRequest, []byte(tt.body))
			require.Equal(t, tt.want, e.FieldError(tt.field))
			require.Equal(t, tt.message, e.Message())
		})
	}
}

func TestAPIError_LongBodyTruncated(t *testing.T) {
	body := strings.Repeat("x", maxBodyInMessage*2)
	e := newAPIError(http.MethodGet, "/x/", http.StatusBadGateway, []byte(body))
	require.Len(t, e.Message(), maxBodyInMessage+3)
	require.True(t, strings.HasSuffix(e.Message(), "..."))
}

func TestAPIError_Is(t *testing.T) {
	unauthorized := fmt.Errorf("wrapped: %w", newAPIError(http.MethodGet, "/x/", http.StatusUnauthorized, nil))
	require.ErrorIs(t, unauthorized, ErrUnauthorized)
	require.NotErrorIs(t, unauthorized, ErrForbidden)

	require.ErrorIs(t, newAPIError(http.MethodGet, "/x/", http.StatusForbidden, nil), ErrForbidden)
	require.ErrorIs(t, newAPIError(http.MethodGet, "/x/", http.StatusNotFound, nil), apperrors.ErrNotFound)

	e := newAPIError(http.MethodGet, "/x/", http.StatusTeapot, nil)
	require.Contains(t, e.Error(), "418")

	got, ok := AsAPIError(unauthorized)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, got.StatusCode)

	_, ok = AsAPIError(errors.New("other"))
	require.False(t, ok)
}
