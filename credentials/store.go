package credentials

import "context"

// Keys used in the Store. The token keys are owned by Tokens.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyTheme        = "theme"
)

// Store is a small persistent key/value capability, the host's equivalent of
// browser local storage. Implementations must be safe for concurrent use.
type Store interface {
	// Get returns ok=false, err=nil when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	// Remove does not fail when the key is absent.
	Remove(ctx context.Context, key string) error
}

// Pair is the credential pair issued by the backend on login, registration
// and OAuth exchange.
type Pair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}
