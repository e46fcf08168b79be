package api

import (
	"context"
	"net/http"
)

const groupsPath = "/groups/"

type GroupsAPI struct {
	r Requester
}

// List returns approved groups, or every group for staff.
func (g *GroupsAPI) List(ctx context.Context) ([]StudyGroup, error) {
	var out []StudyGroup
	if err := g.r.Do(ctx, http.MethodGet, groupsPath, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *GroupsAPI) Get(ctx context.Context, id int64) (*StudyGroup, error) {
	var out StudyGroup
	if err := g.r.Do(ctx, http.MethodGet, idPath(groupsPath, id, ""), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create submits a group for approval. The creator joins it immediately.
func (g *GroupsAPI) Create(ctx context.Context, in GroupInput) (*GroupInput, error) {
	var out GroupInput
	if err := g.r.Do(ctx, http.MethodPost, groupsPath, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *GroupsAPI) Update(ctx context.Context, id int64, in GroupInput) (*StudyGroup, error) {
	var out StudyGroup
	if err := g.r.Do(ctx, http.MethodPut, idPath(groupsPath, id, ""), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *GroupsAPI) Delete(ctx context.Context, id int64) error {
	return g.r.Do(ctx, http.MethodDelete, idPath(groupsPath, id, ""), nil, nil)
}

func (g *GroupsAPI) Join(ctx context.Context, id int64) (*ActionResult, error) {
	var out ActionResult
	if err := g.r.Do(ctx, http.MethodPost, idPath(groupsPath, id, "join/"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *GroupsAPI) Leave(ctx context.Context, id int64) (*ActionResult, error) {
	var out ActionResult
	if err := g.r.Do(ctx, http.MethodDelete, idPath(groupsPath, id, "leave/"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *GroupsAPI) Sessions(ctx context.Context, id int64) ([]StudySession, error) {
	var out []StudySession
	if err := g.r.Do(ctx, http.MethodGet, idPath(groupsPath, id, "sessions/"), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
