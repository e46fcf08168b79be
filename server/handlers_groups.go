package server

import (
	"net/http"
	"strings"

	"github.com/jrsteele09/studysphere/api"
	"github.com/jrsteele09/studysphere/groups"
	"github.com/jrsteele09/studysphere/sessions"
	"github.com/rs/zerolog/log"
)

// visibleGroups filters out groups awaiting or refused approval unless the
// viewer is staff.
func (s *Server) visibleGroups(viewer int64, list []*groups.Group) []*groups.Group {
	if s.isStaff(viewer) {
		return list
	}
	visible := make([]*groups.Group, 0, len(list))
	for _, g := range list {
		if g.Status == groups.StatusApproved {
			visible = append(visible, g)
		}
	}
	return visible
}

func (s *Server) ListGroupsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.repos.Groups.List()
		if err != nil {
			log.Err(err).Msg("failed to list groups")
			writeDetail(w, http.StatusInternalServerError, msgServerError)
			return
		}
		viewer := userIDFrom(r.Context())
		writeJSON(w, http.StatusOK, s.renderer(viewer).groupList(s.visibleGroups(viewer, list)))
	}
}

func (s *Server) GetGroupHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, ok := s.lookupVisibleGroup(w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, s.renderer(userIDFrom(r.Context())).group(g))
	}
}

func (s *Server) CreateGroupHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in api.GroupInput
		if err := decodeJSON(r, &in); err != nil {
			writeDetail(w, http.StatusBadRequest, msgMalformedBody)
			return
		}
		if errs := validateGroupInput(&in); len(errs) > 0 {
			writeJSON(w, http.StatusBadRequest, errs)
			return
		}

		s.writeLock.Lock()
		defer s.writeLock.Unlock()

		userID := userIDFrom(r.Context())
		now := s.now()
		g := &groups.Group{
			Name:        in.Name,
			Subject:     in.Subject,
			Description: in.Description,
			CreatorID:   userID,
			Status:      groups.StatusPending,
			Members:     []int64{userID},
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.repos.Groups.Create(g); err != nil {
			log.Err(err).Msg("failed to create group")
			writeDetail(w, http.StatusInternalServerError, msgServerError)
			return
		}
		s.awardXP(userID, XPCreateGroup)
		log.Info().Int64("group_id", g.ID).Int64("creator", userID).Msg("group created, awaiting approval")
		writeJSON(w, http.StatusCreated, in)
	}
}

func (s *Server) UpdateGroupHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in api.GroupInput
		if err := decodeJSON(r, &in); err != nil {
			writeDetail(w, http.StatusBadRequest, msgMalformedBody)
			return
		}

		s.writeLock.Lock()
		defer s.writeLock.Unlock()

		g, ok := s.lookupVisibleGroup(w, r)
		if !ok {
			return
		}
		if g.CreatorID != userIDFrom(r.Context()) {
			writeDetail(w, http.StatusForbidden, msgPermissionDenied)
			return
		}
		if errs := validateGroupInput(&in); len(errs) > 0 {
			writeJSON(w, http.StatusBadRequest, errs)
			return
		}

		g.Name = in.Name
		g.Subject = in.Subject
		g.Description = in.Description
		g.UpdatedAt = s.now()
		if err := s.repos.Groups.Update(g); err != nil {
			log.Err(err).Int64("group_id", g.ID).Msg("failed to update group")
			writeDetail(w, http.StatusInternalServerError, msgServerError)
			return
		}
		writeJSON(w, http.StatusOK, s.renderer(userIDFrom(r.Context())).group(g))
	}
}

func (s *Server) DeleteGroupHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.writeLock.Lock()
		defer s.writeLock.Unlock()

		g, ok := s.lookupVisibleGroup(w, r)
		if !ok {
			return
		}
		if g.CreatorID != userIDFrom(r.Context()) {
			writeDetail(w, http.StatusForbidden, msgPermissionDenied)
			return
		}
		if err := s.repos.Groups.Delete(g.ID); err != nil {
			log.Err(err).Int64("group_id", g.ID).Msg("failed to delete group")
			writeDetail(w, http.StatusInternalServerError, msgServerError)
			return
		}
		if err := s.repos.Sessions.ClearGroup(g.ID); err != nil {
			log.Err(err).Int64("group_id", g.ID).Msg("failed to detach sessions from deleted group")
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) JoinGroupHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.writeLock.Lock()
		defer s.writeLock.Unlock()

		g, ok := s.lookupGroup(w, r)
		if !ok {
			return
		}
		if g.Status != groups.StatusApproved {
			writeDetail(w, http.StatusBadRequest, "This group is not yet approved")
			return
		}
		userID := userIDFrom(r.Context())
		if !g.AddMember(userID) {
			writeDetail(w, http.StatusBadRequest, "You are already a member of this group")
			return
		}
		if err := s.repos.Groups.Update(g); err != nil {
			log.Err(err).Int64("group_id", g.ID).Msg("failed to save membership")
			writeDetail(w, http.StatusInternalServerError, msgServerError)
			return
		}
		s.awardXP(userID, XPJoinGroup)
		writeJSON(w, http.StatusCreated, api.ActionResult{Detail: "Successfully joined group", XPEarned: XPJoinGroup})
	}
}

func (s *Server) LeaveGroupHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.writeLock.Lock()
		defer s.writeLock.Unlock()

		g, ok := s.lookupGroup(w, r)
		if !ok {
			return
		}
		if !g.RemoveMember(userIDFrom(r.Context())) {
			writeDetail(w, http.StatusBadRequest, "You are not a member of this group")
			return
		}
		if err := s.repos.Groups.Update(g); err != nil {
			log.Err(err).Int64("group_id", g.ID).Msg("failed to remove membership")
			writeDetail(w, http.StatusInternalServerError, msgServerError)
			return
		}
		writeJSON(w, http.StatusOK, api.ActionResult{Detail: "Successfully left group"})
	}
}

func (s *Server) GroupSessionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, ok := s.lookupVisibleGroup(w, r)
		if !ok {
			return
		}
		all, err := s.repos.Sessions.List()
		if err != nil {
			log.Err(err).Msg("failed to list sessions")
			writeDetail(w, http.StatusInternalServerError, msgServerError)
			return
		}
		var inGroup []*sessions.StudySession
		for _, sess := range all {
			if sess.InGroup(g.ID) {
				inGroup = append(inGroup, sess)
			}
		}
		writeJSON(w, http.StatusOK, s.renderer(userIDFrom(r.Context())).sessionList(inGroup))
	}
}

// lookupGroup loads the {id} group whatever its status, or answers 404.
func (s *Server) lookupGroup(w http.ResponseWriter, r *http.Request) (*groups.Group, bool) {
	id, ok := pathID(r)
	if !ok {
		writeDetail(w, http.StatusNotFound, msgNotFound)
		return nil, false
	}
	g, err := s.repos.Groups.Get(id)
	if err != nil {
		writeDetail(w, http.StatusNotFound, msgNotFound)
		return nil, false
	}
	return g, true
}

// lookupVisibleGroup is lookupGroup restricted to what the caller may list.
func (s *Server) lookupVisibleGroup(w http.ResponseWriter, r *http.Request) (*groups.Group, bool) {
	g, ok := s.lookupGroup(w, r)
	if !ok {
		return nil, false
	}
	if g.Status != groups.StatusApproved && !s.isStaff(userIDFrom(r.Context())) {
		writeDetail(w, http.StatusNotFound, msgNotFound)
		return nil, false
	}
	return g, true
}

func validateGroupInput(in *api.GroupInput) fieldErrors {
	in.Name = strings.TrimSpace(in.Name)
	in.Subject = strings.TrimSpace(in.Subject)
	in.Description = strings.TrimSpace(in.Description)

	errs := fieldErrors{}
	if in.Name == "" {
		errs.add("name", msgFieldRequired)
	}
	if in.Subject == "" {
		errs.add("subject", msgFieldRequired)
	}
	if in.Description == "" {
		errs.add("description", msgFieldRequired)
	}
	return errs
}
