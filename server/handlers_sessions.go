package server

import (
	"net/http"
	"strings"

	"github.com/jrsteele09/studysphere/api"
	"github.com/jrsteele09/studysphere/sessions"
	"github.com/rs/zerolog/log"
)

// XP awarded per action.
const (
	XPCreateSession = 50
	XPRSVPSession   = 10
	XPJoinGroup     = 25
	XPCreateGroup   = 30
)

func (s *Server) ListSessionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.repos.Sessions.List()
		if err != nil {
			log.Err(err).Msg("failed to list sessions")
			writeDetail(w, http.StatusInternalServerError, msgServerError)
			return
		}
		writeJSON(w, http.StatusOK, s.renderer(userIDFrom(r.Context())).sessionList(list))
	}
}

func (s *Server) GetSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := s.lookupSession(w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, s.renderer(userIDFrom(r.Context())).session(sess))
	}
}

func (s *Server) CreateSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in api.SessionInput
		if err := decodeJSON(r, &in); err != nil {
			writeDetail(w, http.StatusBadRequest, msgMalformedBody)
			return
		}

		s.writeLock.Lock()
		defer s.writeLock.Unlock()

		if errs := s.validateSessionInput(&in); len(errs) > 0 {
			writeJSON(w, http.StatusBadRequest, errs)
			return
		}
		account, err := s.currentAccount(r)
		if err != nil {
			writeDetail(w, http.StatusUnauthorized, msgNotAuthenticated)
			return
		}

		now := s.now()
		sess := &sessions.StudySession{
			Title:       in.Title,
			CourseCode:  in.CourseCode,
			Description: in.Description,
			Date:        in.Date,
			Time:        in.Time,
			Location:    in.Location,
			HostID:      account.ID,
			GroupID:     in.Group,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.repos.Sessions.Create(sess); err != nil {
			log.Err(err).Msg("failed to create session")
			writeDetail(w, http.StatusInternalServerError, msgServerError)
			return
		}
		s.awardXP(account.ID, XPCreateSession)
		log.Info().Int64("session_id", sess.ID).Int64("host", account.ID).Msg("session created")
		writeJSON(w, http.StatusCreated, in)
	}
}

func (s *Server) UpdateSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in api.SessionInput
		if err := decodeJSON(r, &in); err != nil {
			writeDetail(w, http.StatusBadRequest, msgMalformedBody)
			return
		}

		s.writeLock.Lock()
		defer s.writeLock.Unlock()

		sess, ok := s.lookupSession(w, r)
		if !ok {
			return
		}
		if sess.HostID != userIDFrom(r.Context()) {
			writeDetail(w, http.StatusForbidden, msgPermissionDenied)
			return
		}
		if errs := s.validateSessionInput(&in); len(errs) > 0 {
			writeJSON(w, http.StatusBadRequest, errs)
			return
		}

		sess.Title = in.Title
		sess.CourseCode = in.CourseCode
		sess.Description = in.Description
		sess.Date = in.Date
		sess.Time = in.Time
		sess.Location = in.Location
		sess.GroupID = in.Group
		sess.UpdatedAt = s.now()
		if err := s.repos.Sessions.Update(sess); err != nil {
			log.Err(err).Int64("session_id", sess.ID).Msg("failed to update session")
			writeDetail(w, http.StatusInternalServerError, msgServerError)
			return
		}
		writeJSON(w, http.StatusOK, s.renderer(userIDFrom(r.Context())).session(sess))
	}
}

func (s *Server) DeleteSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.writeLock.Lock()
		defer s.writeLock.Unlock()

		sess, ok := s.lookupSession(w, r)
		if !ok {
			return
		}
		if sess.HostID != userIDFrom(r.Context()) {
			writeDetail(w, http.StatusForbidden, msgPermissionDenied)
			return
		}
		if err := s.repos.Sessions.Delete(sess.ID); err != nil {
			log.Err(err).Int64("session_id", sess.ID).Msg("failed to delete session")
			writeDetail(w, http.StatusInternalServerError, msgServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) RSVPHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.writeLock.Lock()
		defer s.writeLock.Unlock()

		sess, ok := s.lookupSession(w, r)
		if !ok {
			return
		}
		userID := userIDFrom(r.Context())
		if !sess.AddAttendee(userID) {
			writeDetail(w, http.StatusBadRequest, "You have already RSVP'd to this session")
			return
		}
		if err := s.repos.Sessions.Update(sess); err != nil {
			log.Err(err).Int64("session_id", sess.ID).Msg("failed to save rsvp")
			writeDetail(w, http.StatusInternalServerError, msgServerError)
			return
		}
		s.awardXP(userID, XPRSVPSession)
		writeJSON(w, http.StatusCreated, api.ActionResult{Detail: "Successfully RSVP'd to session", XPEarned: XPRSVPSession})
	}
}

func (s *Server) CancelRSVPHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.writeLock.Lock()
		defer s.writeLock.Unlock()

		sess, ok := s.lookupSession(w, r)
		if !ok {
			return
		}
		if !sess.RemoveAttendee(userIDFrom(r.Context())) {
			writeDetail(w, http.StatusBadRequest, "You have not RSVP'd to this session")
			return
		}
		if err := s.repos.Sessions.Update(sess); err != nil {
			log.Err(err).Int64("session_id", sess.ID).Msg("failed to cancel rsvp")
			writeDetail(w, http.StatusInternalServerError, msgServerError)
			return
		}
		writeJSON(w, http.StatusOK, api.ActionResult{Detail: "RSVP cancelled"})
	}
}

// lookupSession loads the {id} session or answers 404.
func (s *Server) lookupSession(w http.ResponseWriter, r *http.Request) (*sessions.StudySession, bool) {
	id, ok := pathID(r)
	if !ok {
		writeDetail(w, http.StatusNotFound, msgNotFound)
		return nil, false
	}
	sess, err := s.repos.Sessions.Get(id)
	if err != nil {
		writeDetail(w, http.StatusNotFound, msgNotFound)
		return nil, false
	}
	return sess, true
}

func (s *Server) validateSessionInput(in *api.SessionInput) fieldErrors {
	in.Title = strings.TrimSpace(in.Title)
	in.CourseCode = strings.TrimSpace(in.CourseCode)
	in.Date = strings.TrimSpace(in.Date)
	in.Time = strings.TrimSpace(in.Time)
	in.Location = strings.TrimSpace(in.Location)

	errs := fieldErrors{}
	required := []struct {
		field, value string
	}{
		{"title", in.Title},
		{"course_code", in.CourseCode},
		{"description", in.Description},
		{"date", in.Date},
		{"time", in.Time},
		{"location", in.Location},
	}
	for _, f := range required {
		if f.value == "" {
			errs.add(f.field, msgFieldRequired)
		}
	}
	if in.Group != nil {
		if _, err := s.repos.Groups.Get(*in.Group); err != nil {
			errs.add("group", `Invalid pk "`+formatID(*in.Group)+`" - object does not exist.`)
		}
	}
	return errs
}

// awardXP credits userID and recomputes the level. Callers hold writeLock.
func (s *Server) awardXP(userID int64, amount int) {
	account, err := s.repos.Accounts.GetByID(userID)
	if err != nil {
		log.Err(err).Int64("user_id", userID).Msg("failed to load account for xp")
		return
	}
	account.AwardXP(amount)
	account.UpdatedAt = s.now()
	if err := s.repos.Accounts.Update(account); err != nil {
		log.Err(err).Int64("user_id", userID).Msg("failed to award xp")
		return
	}
	log.Debug().Int64("user_id", userID).Int("xp", amount).Int("total", account.XP).Msg("xp awarded")
}
