package grouprepofakes_test

import (
	"testing"

	"github.com/jrsteele09/studysphere/groups"
	grouprepofakes "github.com/jrsteele09/studysphere/groups/repofakes"
	apperrors "github.com/jrsteele09/studysphere/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestFakeGroupRepo(t *testing.T) {
	repo := grouprepofakes.NewFakeGroupRepo()

	first := &groups.Group{Name: "Algorithms", Status: groups.StatusPending}
	require.True(t, first.AddMember(1))
	require.False(t, first.AddMember(1))
	require.NoError(t, repo.Create(first))
	second := &groups.Group{Name: "Calculus", Status: groups.StatusApproved}
	require.NoError(t, repo.Create(second))

	got, err := repo.Get(first.ID)
	require.NoError(t, err)
	require.True(t, got.IsMember(1))

	// Stored groups are copies.
	got.AddMember(2)
	again, err := repo.Get(first.ID)
	require.NoError(t, err)
	require.Equal(t, []int64{1}, again.Members)

	require.NoError(t, repo.Update(got))
	again, err = repo.Get(first.ID)
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2}, again.Members)

	list, err := repo.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "Calculus", list[0].Name)

	require.NoError(t, repo.Delete(first.ID))
	_, err = repo.Get(first.ID)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
	require.ErrorIs(t, repo.Delete(first.ID), apperrors.ErrNotFound)
	require.ErrorIs(t, repo.Update(&groups.Group{ID: 99}), apperrors.ErrNotFound)
}
