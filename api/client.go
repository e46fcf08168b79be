// Package api holds the typed feature modules of the StudySphere REST API.
// Every call goes through a gateway, so token attachment and refresh apply
// uniformly.
package api

import (
	"context"
	"strconv"

	"github.com/jrsteele09/studysphere/gateway"
	"github.com/pkg/errors"
)

// Requester issues one logical API call. *gateway.Gateway implements it.
type Requester interface {
	Do(ctx context.Context, method, path string, body, out any, opts ...gateway.CallOption) error
}

var _ Requester = (*gateway.Gateway)(nil)

// Client groups the feature modules.
type Client struct {
	Auth        *AuthAPI
	Sessions    *SessionsAPI
	Groups      *GroupsAPI
	Dashboard   *DashboardAPI
	Leaderboard *LeaderboardAPI
	Admin       *AdminAPI
}

func New(r Requester) (*Client, error) {
	if r == nil {
		return nil, errors.New("[api.New] requester is required")
	}
	return &Client{
		Auth:        &AuthAPI{r: r},
		Sessions:    &SessionsAPI{r: r},
		Groups:      &GroupsAPI{r: r},
		Dashboard:   &DashboardAPI{r: r},
		Leaderboard: &LeaderboardAPI{r: r},
		Admin:       &AdminAPI{r: r},
	}, nil
}

func idPath(prefix string, id int64, suffix string) string {
	return prefix + strconv.FormatInt(id, 10) + "/" + suffix
}
