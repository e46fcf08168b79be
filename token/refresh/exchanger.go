// Package refresh performs the refresh-token exchange against the backend's
// dedicated refresh endpoint.
package refresh

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// Path is the refresh endpoint relative to the API base URL.
const Path = "/auth/refresh/"

const maxResponseBytes = 1 << 20

// Error is returned when the backend refuses the exchange.
type Error struct {
	StatusCode int
	Detail     string
	Code       string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("refresh rejected (%d): %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("refresh rejected (%d)", e.StatusCode)
}

type request struct {
	Refresh string `json:"refresh"`
}

type response struct {
	Access string `json:"access"`
	Detail string `json:"detail,omitempty"`
	Code   string `json:"code,omitempty"`
}

// Exchanger swaps a refresh token for a new access token. It uses a bare
// HTTP client: no bearer header and no retry.
type Exchanger struct {
	endpoint string
	client   *http.Client
}

func NewExchanger(baseURL string, client *http.Client) (*Exchanger, error) {
	if baseURL == "" {
		return nil, errors.New("[NewExchanger] baseURL is required")
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Exchanger{
		endpoint: strings.TrimSuffix(baseURL, "/") + Path,
		client:   client,
	}, nil
}

// Exchange returns the new access token.
func (e *Exchanger) Exchange(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", errors.New("[Exchanger.Exchange] refresh token is required")
	}

	payload, err := json.Marshal(request{Refresh: refreshToken})
	if err != nil {
		return "", errors.Wrap(err, "Exchanger.Exchange encode")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", errors.Wrap(err, "Exchanger.Exchange new request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "Exchanger.Exchange")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", errors.Wrap(err, "Exchanger.Exchange read body")
	}

	var out response
	_ = json.Unmarshal(body, &out)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &Error{StatusCode: resp.StatusCode, Detail: out.Detail, Code: out.Code}
	}
	if out.Access == "" {
		return "", &Error{StatusCode: resp.StatusCode, Detail: "response carried no access token"}
	}
	return out.Access, nil
}
