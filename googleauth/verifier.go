// Package googleauth obtains and verifies Google ID tokens.
package googleauth

import (
	"context"
	"crypto"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/pkg/errors"
)

const GoogleIssuer = "https://accounts.google.com"

// Identity holds the claims of a verified Google ID token.
type Identity struct {
	Subject       string
	Email         string
	EmailVerified bool
	GivenName     string
	FamilyName    string
	Picture       string
}

// Verifier checks ID token signatures, issuer, audience and expiry.
type Verifier struct {
	verifier *oidc.IDTokenVerifier
}

type VerifierOption func(*oidc.Config)

func WithNowFunc(now func() time.Time) VerifierOption {
	return func(c *oidc.Config) {
		c.Now = now
	}
}

// NewVerifier discovers Google's signing keys. The audience is the OAuth
// client id the tokens were issued to.
func NewVerifier(ctx context.Context, clientID string, options ...VerifierOption) (*Verifier, error) {
	if clientID == "" {
		return nil, errors.New("[NewVerifier] clientID is required")
	}
	provider, err := oidc.NewProvider(ctx, GoogleIssuer)
	if err != nil {
		return nil, errors.Wrap(err, "[NewVerifier] failed to discover Google provider")
	}
	return &Verifier{verifier: provider.Verifier(verifierConfig(clientID, options))}, nil
}

// NewStaticVerifier verifies tokens against fixed public keys without
// network discovery.
func NewStaticVerifier(issuer, clientID string, keys []crypto.PublicKey, options ...VerifierOption) (*Verifier, error) {
	if clientID == "" {
		return nil, errors.New("[NewStaticVerifier] clientID is required")
	}
	if len(keys) == 0 {
		return nil, errors.New("[NewStaticVerifier] keys are required")
	}
	keySet := &oidc.StaticKeySet{PublicKeys: keys}
	return &Verifier{verifier: oidc.NewVerifier(issuer, keySet, verifierConfig(clientID, options))}, nil
}

func verifierConfig(clientID string, options []VerifierOption) *oidc.Config {
	cfg := &oidc.Config{ClientID: clientID}
	for _, opt := range options {
		opt(cfg)
	}
	return cfg
}

func (v *Verifier) Verify(ctx context.Context, rawIDToken string) (*Identity, error) {
	idToken, err := v.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, errors.Wrap(err, "verify id token")
	}

	var claims struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		GivenName     string `json:"given_name"`
		FamilyName    string `json:"family_name"`
		Picture       string `json:"picture"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, errors.Wrap(err, "decode id token claims")
	}
	return &Identity{
		Subject:       idToken.Subject,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
		GivenName:     claims.GivenName,
		FamilyName:    claims.FamilyName,
		Picture:       claims.Picture,
	}, nil
}
