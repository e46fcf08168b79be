package server

import (
	"context"

	"github.com/jrsteele09/studysphere/googleauth"
)

// GoogleVerifier checks a Google ID token credential. *googleauth.Verifier
// satisfies it.
type GoogleVerifier interface {
	Verify(ctx context.Context, credential string) (*googleauth.Identity, error)
}

var _ GoogleVerifier = (*googleauth.Verifier)(nil)
