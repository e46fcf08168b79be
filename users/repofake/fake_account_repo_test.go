package fakeuserrepo_test

import (
	"testing"

	apperrors "github.com/jrsteele09/studysphere/internal/errors"
	"github.com/jrsteele09/studysphere/users"
	fakeuserrepo "github.com/jrsteele09/studysphere/users/repofake"
	"github.com/stretchr/testify/require"
)

func TestFakeAccountRepo(t *testing.T) {
	repo := fakeuserrepo.NewFakeAccountRepo()

	alice := &users.Account{Username: "alice", Email: "alice@example.com"}
	require.NoError(t, repo.Create(alice))
	require.EqualValues(t, 1, alice.ID)

	err := repo.Create(&users.Account{Username: "Alice"})
	require.ErrorIs(t, err, apperrors.ErrUserExists)

	err = repo.Create(&users.Account{Username: "alice2", Email: "ALICE@example.com"})
	require.ErrorIs(t, err, apperrors.ErrUserExists)

	got, err := repo.GetByUsername("ALICE")
	require.NoError(t, err)
	require.Equal(t, alice.ID, got.ID)

	// Returned accounts are copies.
	got.XP = 100
	again, err := repo.GetByID(alice.ID)
	require.NoError(t, err)
	require.Equal(t, 0, again.XP)

	require.NoError(t, repo.Update(got))
	again, err = repo.GetByEmail("alice@example.com")
	require.NoError(t, err)
	require.Equal(t, 100, again.XP)

	_, err = repo.GetByID(99)
	require.ErrorIs(t, err, apperrors.ErrUserNotFound)
	require.ErrorIs(t, repo.Update(&users.Account{ID: 99}), apperrors.ErrUserNotFound)

	bob := &users.Account{Username: "bob", GoogleSubject: "sub-123"}
	require.NoError(t, repo.Create(bob))
	byGoogle, err := repo.GetByGoogleSubject("sub-123")
	require.NoError(t, err)
	require.Equal(t, "bob", byGoogle.Username)

	list, err := repo.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "alice", list[0].Username)
}
