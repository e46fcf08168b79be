package server

import (
	"net/http"

	"github.com/jrsteele09/studysphere/api"
	"github.com/jrsteele09/studysphere/groups"
	"github.com/rs/zerolog/log"
)

func (s *Server) AdminGroupsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		allGroups, err := s.repos.Groups.List()
		if err != nil {
			log.Err(err).Msg("failed to list groups")
			writeDetail(w, http.StatusInternalServerError, msgServerError)
			return
		}
		allSessions, err := s.repos.Sessions.List()
		if err != nil {
			log.Err(err).Msg("failed to list sessions")
			writeDetail(w, http.StatusInternalServerError, msgServerError)
			return
		}

		rd := s.renderer(userIDFrom(r.Context()))
		out := api.AdminGroups{
			Pending:  []api.StudyGroup{},
			Approved: []api.StudyGroup{},
			Rejected: []api.StudyGroup{},
			Stats: api.AdminStats{
				TotalGroups:   len(allGroups),
				TotalSessions: len(allSessions),
			},
		}
		for _, g := range allGroups {
			switch g.Status {
			case groups.StatusPending:
				out.Pending = append(out.Pending, rd.group(g))
			case groups.StatusApproved:
				out.Approved = append(out.Approved, rd.group(g))
				out.Stats.ApprovedGroups++
			case groups.StatusRejected:
				out.Rejected = append(out.Rejected, rd.group(g))
				out.Stats.RejectedGroups++
			}
		}
		for _, sess := range allSessions {
			if len(sess.Attendees) > 0 {
				out.Stats.ActiveSessions++
			}
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func (s *Server) AdminApproveGroupHandler() http.HandlerFunc {
	return s.moderateGroup(groups.StatusApproved, "Group approved")
}

func (s *Server) AdminRejectGroupHandler() http.HandlerFunc {
	return s.moderateGroup(groups.StatusRejected, "Group rejected")
}

func (s *Server) moderateGroup(status groups.Status, detail string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.writeLock.Lock()
		defer s.writeLock.Unlock()

		id, ok := pathID(r)
		if !ok {
			writeDetail(w, http.StatusNotFound, "Group not found")
			return
		}
		g, err := s.repos.Groups.Get(id)
		if err != nil {
			writeDetail(w, http.StatusNotFound, "Group not found")
			return
		}
		g.Status = status
		g.UpdatedAt = s.now()
		if err := s.repos.Groups.Update(g); err != nil {
			log.Err(err).Int64("group_id", g.ID).Msg("failed to moderate group")
			writeDetail(w, http.StatusInternalServerError, msgServerError)
			return
		}
		log.Info().Int64("group_id", g.ID).Str("status", string(status)).Int64("moderator", userIDFrom(r.Context())).Msg("group moderated")
		writeJSON(w, http.StatusOK, api.ActionResult{Detail: detail})
	}
}
