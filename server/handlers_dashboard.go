package server

import (
	"net/http"
	"sort"

	"github.com/jrsteele09/studysphere/api"
	"github.com/jrsteele09/studysphere/sessions"
	"github.com/jrsteele09/studysphere/users"
	"github.com/rs/zerolog/log"
)

const (
	upcomingSessionsShown = 3
	leaderboardSize       = 10
	defaultBadge          = "Rising Star"
)

func (s *Server) DashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, err := s.currentAccount(r)
		if err != nil {
			writeDetail(w, http.StatusUnauthorized, msgNotAuthenticated)
			return
		}
		allSessions, err := s.repos.Sessions.List()
		if err != nil {
			log.Err(err).Msg("failed to list sessions")
			writeDetail(w, http.StatusInternalServerError, msgServerError)
			return
		}
		allGroups, err := s.repos.Groups.List()
		if err != nil {
			log.Err(err).Msg("failed to list groups")
			writeDetail(w, http.StatusInternalServerError, msgServerError)
			return
		}

		stats := api.DashboardStats{XP: account.XP, Level: account.Level}
		var upcoming []*sessions.StudySession
		for _, sess := range allSessions {
			if sess.IsAttending(account.ID) {
				stats.SessionsAttended++
				if len(upcoming) < upcomingSessionsShown {
					upcoming = append(upcoming, sess)
				}
			}
			if sess.HostID == account.ID {
				stats.SessionsHosted++
			}
		}
		for _, g := range allGroups {
			if g.IsMember(account.ID) {
				stats.GroupsJoined++
			}
		}

		writeJSON(w, http.StatusOK, api.Dashboard{
			UpcomingSessions: s.renderer(account.ID).sessionList(upcoming),
			Stats:            stats,
		})
	}
}

// LeaderboardHandler ranks the top accounts by XP. Both periods rank by
// lifetime XP since per-period activity is not recorded.
func (s *Server) LeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		period := api.Period(r.URL.Query().Get("period"))
		if period == "" {
			period = api.PeriodWeek
		}
		accounts, err := s.repos.Accounts.List()
		if err != nil {
			log.Err(err).Msg("failed to list accounts")
			writeDetail(w, http.StatusInternalServerError, msgServerError)
			return
		}
		sort.SliceStable(accounts, func(i, j int) bool {
			return accounts[i].XP > accounts[j].XP
		})
		if len(accounts) > leaderboardSize {
			accounts = accounts[:leaderboardSize]
		}

		entries := make([]api.LeaderboardEntry, 0, len(accounts))
		for i, a := range accounts {
			entries = append(entries, api.LeaderboardEntry{
				ID:        a.ID,
				Username:  a.Username,
				FirstName: a.FirstName,
				LastName:  a.LastName,
				Image:     a.ImagePtr(),
				XP:        a.XP,
				Level:     a.Level,
				Badge:     latestBadgeName(a),
				Rank:      i + 1,
			})
		}
		log.Debug().Str("period", string(period)).Int("entries", len(entries)).Msg("leaderboard served")
		writeJSON(w, http.StatusOK, entries)
	}
}

func latestBadgeName(a *users.Account) string {
	var latest *users.Badge
	for i := range a.Badges {
		if latest == nil || a.Badges[i].EarnedAt.After(latest.EarnedAt) {
			latest = &a.Badges[i]
		}
	}
	if latest == nil {
		return defaultBadge
	}
	return latest.Name
}
