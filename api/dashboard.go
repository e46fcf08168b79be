package api

import (
	"context"
	"net/http"

	"github.com/jrsteele09/studysphere/gateway"
)

const (
	dashboardPath   = "/dashboard/"
	leaderboardPath = "/leaderboard/"
	adminGroupsPath = "/admin/groups/"
)

type DashboardAPI struct {
	r Requester
}

func (d *DashboardAPI) Get(ctx context.Context) (*Dashboard, error) {
	var out Dashboard
	if err := d.r.Do(ctx, http.MethodGet, dashboardPath, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type LeaderboardAPI struct {
	r Requester
}

// Get returns the top ten users for period. An empty period means
// PeriodWeek.
func (l *LeaderboardAPI) Get(ctx context.Context, period Period) ([]LeaderboardEntry, error) {
	if period == "" {
		period = PeriodWeek
	}
	var out []LeaderboardEntry
	if err := l.r.Do(ctx, http.MethodGet, leaderboardPath, nil, &out, gateway.WithQuery("period", string(period))); err != nil {
		return nil, err
	}
	return out, nil
}

// AdminAPI is the staff moderation surface.
type AdminAPI struct {
	r Requester
}

func (a *AdminAPI) Groups(ctx context.Context) (*AdminGroups, error) {
	var out AdminGroups
	if err := a.r.Do(ctx, http.MethodGet, adminGroupsPath, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AdminAPI) Approve(ctx context.Context, groupID int64) (*ActionResult, error) {
	var out ActionResult
	if err := a.r.Do(ctx, http.MethodPatch, idPath(adminGroupsPath, groupID, "approve/"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AdminAPI) Reject(ctx context.Context, groupID int64) (*ActionResult, error) {
	var out ActionResult
	if err := a.r.Do(ctx, http.MethodPatch, idPath(adminGroupsPath, groupID, "reject/"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
