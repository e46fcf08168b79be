package fakesessionrepo_test

import (
	"testing"

	apperrors "github.com/jrsteele09/studysphere/internal/errors"
	"github.com/jrsteele09/studysphere/sessions"
	fakesessionrepo "github.com/jrsteele09/studysphere/sessions/repofakes"
	"github.com/stretchr/testify/require"
)

func TestFakeSessionRepo(t *testing.T) {
	repo := fakesessionrepo.NewFakeSessionRepo()

	groupID := int64(7)
	inGroup := &sessions.StudySession{Title: "Graphs", GroupID: &groupID}
	require.NoError(t, repo.Create(inGroup))
	solo := &sessions.StudySession{Title: "Limits"}
	require.NoError(t, repo.Create(solo))

	got, err := repo.Get(inGroup.ID)
	require.NoError(t, err)
	require.True(t, got.InGroup(groupID))
	require.True(t, got.AddAttendee(3))
	require.NoError(t, repo.Update(got))

	again, err := repo.Get(inGroup.ID)
	require.NoError(t, err)
	require.True(t, again.IsAttending(3))
	require.True(t, again.RemoveAttendee(3))
	require.False(t, again.RemoveAttendee(3))

	list, err := repo.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "Limits", list[0].Title)

	require.NoError(t, repo.ClearGroup(groupID))
	cleared, err := repo.Get(inGroup.ID)
	require.NoError(t, err)
	require.Nil(t, cleared.GroupID)
	require.False(t, cleared.InGroup(groupID))

	require.NoError(t, repo.Delete(solo.ID))
	_, err = repo.Get(solo.ID)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}
