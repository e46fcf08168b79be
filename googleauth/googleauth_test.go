package googleauth_test

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/studysphere/googleauth"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

const testClientID = "studysphere-cli.apps.googleusercontent.com"

type testFixture struct {
	key      *rsa.PrivateKey
	verifier *googleauth.Verifier
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	verifier, err := googleauth.NewStaticVerifier(googleauth.GoogleIssuer, testClientID, []crypto.PublicKey{&key.PublicKey})
	require.NoError(t, err)
	return &testFixture{key: key, verifier: verifier}
}

func (f *testFixture) idToken(t *testing.T, overrides jwt.MapClaims) string {
	t.Helper()
	claims := jwt.MapClaims{
		"iss":            googleauth.GoogleIssuer,
		"aud":            testClientID,
		"sub":            "1122334455",
		"email":          "ada@example.com",
		"email_verified": true,
		"given_name":     "Ada",
		"family_name":    "Lovelace",
		"picture":        "https://example.com/ada.png",
		"iat":            time.Now().Unix(),
		"exp":            time.Now().Add(time.Hour).Unix(),
	}
	for k, v := range overrides {
		claims[k] = v
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(f.key)
	require.NoError(t, err)
	return raw
}

func TestVerifier_Verify(t *testing.T) {
	f := setupTestFixture(t)

	identity, err := f.verifier.Verify(context.Background(), f.idToken(t, nil))
	require.NoError(t, err)
	require.Equal(t, "1122334455", identity.Subject)
	require.Equal(t, "ada@example.com", identity.Email)
	require.True(t, identity.EmailVerified)
	require.Equal(t, "Ada", identity.GivenName)
	require.Equal(t, "Lovelace", identity.FamilyName)
	require.Equal(t, "https://example.com/ada.png", identity.Picture)
}

func TestVerifier_Rejects(t *testing.T) {
	f := setupTestFixture(t)
	other, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	foreign, err := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"iss": googleauth.GoogleIssuer,
		"aud": testClientID,
		"sub": "1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(other)
	require.NoError(t, err)

	tests := map[string]string{
		"wrong audience": f.idToken(t, jwt.MapClaims{"aud": "someone-else"}),
		"wrong issuer":   f.idToken(t, jwt.MapClaims{"iss": "https://evil.example.com"}),
		"expired":        f.idToken(t, jwt.MapClaims{"exp": time.Now().Add(-time.Hour).Unix()}),
		"wrong key":      foreign,
		"garbage":        "not-a-jwt",
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := f.verifier.Verify(context.Background(), raw)
			require.Error(t, err)
		})
	}
}

func TestNewStaticVerifier_Validation(t *testing.T) {
	_, err := googleauth.NewStaticVerifier(googleauth.GoogleIssuer, "", []crypto.PublicKey{"x"})
	require.Error(t, err)
	_, err = googleauth.NewStaticVerifier(googleauth.GoogleIssuer, testClientID, nil)
	require.Error(t, err)
}

// deviceServer plays Google's device code and token endpoints.
func deviceServer(t *testing.T, idToken string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/device/code", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Equal(t, testClientID, r.Form.Get("client_id"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"device_code":      "device-123",
			"user_code":        "ABCD-EFGH",
			"verification_uri": "https://www.google.com/device",
			"expires_in":       60,
			"interval":         1,
		})
	})
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Equal(t, "device-123", r.Form.Get("device_code"))
		body := map[string]any{
			"access_token": "google-access",
			"token_type":   "Bearer",
			"expires_in":   3600,
		}
		if idToken != "" {
			body["id_token"] = idToken
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testEndpoint(srv *httptest.Server) oauth2.Endpoint {
	return oauth2.Endpoint{
		AuthURL:       srv.URL + "/auth",
		TokenURL:      srv.URL + "/token",
		DeviceAuthURL: srv.URL + "/device/code",
		AuthStyle:     oauth2.AuthStyleInParams,
	}
}

func TestDeviceFlow_Credential(t *testing.T) {
	f := setupTestFixture(t)
	idToken := f.idToken(t, nil)
	srv := deviceServer(t, idToken)

	flow, err := googleauth.NewDeviceFlow(testClientID, "secret", f.verifier, googleauth.WithEndpoint(testEndpoint(srv)))
	require.NoError(t, err)

	var shownURI, shownCode string
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	raw, identity, err := flow.Credential(ctx, func(uri, code string) {
		shownURI, shownCode = uri, code
	})
	require.NoError(t, err)
	require.Equal(t, idToken, raw)
	require.Equal(t, "ada@example.com", identity.Email)
	require.Equal(t, "https://www.google.com/device", shownURI)
	require.Equal(t, "ABCD-EFGH", shownCode)
}

func TestDeviceFlow_NoIDToken(t *testing.T) {
	f := setupTestFixture(t)
	srv := deviceServer(t, "")

	flow, err := googleauth.NewDeviceFlow(testClientID, "secret", f.verifier, googleauth.WithEndpoint(testEndpoint(srv)))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, _, err = flow.Credential(ctx, nil)
	require.True(t, errors.Is(err, googleauth.ErrNoIDToken))
}

func TestNewDeviceFlow_Validation(t *testing.T) {
	f := setupTestFixture(t)
	_, err := googleauth.NewDeviceFlow("", "", f.verifier)
	require.Error(t, err)
	_, err = googleauth.NewDeviceFlow(testClientID, "", nil)
	require.Error(t, err)
}
