package api

import (
	"context"
	"net/http"
)

const sessionsPath = "/sessions/"

type SessionsAPI struct {
	r Requester
}

func (s *SessionsAPI) List(ctx context.Context) ([]StudySession, error) {
	var out []StudySession
	if err := s.r.Do(ctx, http.MethodGet, sessionsPath, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SessionsAPI) Get(ctx context.Context, id int64) (*StudySession, error) {
	var out StudySession
	if err := s.r.Do(ctx, http.MethodGet, idPath(sessionsPath, id, ""), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create returns the created session as echoed by the server, which only
// carries the input fields.
func (s *SessionsAPI) Create(ctx context.Context, in SessionInput) (*SessionInput, error) {
	var out SessionInput
	if err := s.r.Do(ctx, http.MethodPost, sessionsPath, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *SessionsAPI) Update(ctx context.Context, id int64, in SessionInput) (*StudySession, error) {
	var out StudySession
	if err := s.r.Do(ctx, http.MethodPut, idPath(sessionsPath, id, ""), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *SessionsAPI) Delete(ctx context.Context, id int64) error {
	return s.r.Do(ctx, http.MethodDelete, idPath(sessionsPath, id, ""), nil, nil)
}

func (s *SessionsAPI) RSVP(ctx context.Context, id int64) (*ActionResult, error) {
	var out ActionResult
	if err := s.r.Do(ctx, http.MethodPost, idPath(sessionsPath, id, "rsvp/"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *SessionsAPI) CancelRSVP(ctx context.Context, id int64) (*ActionResult, error) {
	var out ActionResult
	if err := s.r.Do(ctx, http.MethodDelete, idPath(sessionsPath, id, "cancel_rsvp/"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
