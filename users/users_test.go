package users_test

import (
	"testing"

	"github.com/jrsteele09/studysphere/internal/utils"
	"github.com/jrsteele09/studysphere/users"
	"github.com/stretchr/testify/require"
)

func TestLevelForXP(t *testing.T) {
	tests := []struct {
		xp    int
		level int
	}{
		{0, 1},
		{499, 1},
		{500, 2},
		{999, 2},
		{1000, 3},
		{1500, 4},
		{1999, 4},
		{2000, 5},
		{2999, 5},
		{3000, 6},
		{10500, 13},
	}
	for _, tt := range tests {
		require.Equal(t, tt.level, users.LevelForXP(tt.xp), "xp=%d", tt.xp)
	}
}

func TestUser_NextLevelXP(t *testing.T) {
	require.Equal(t, 500, (&users.User{XP: 0}).NextLevelXP())
	require.Equal(t, 1500, (&users.User{XP: 1200}).NextLevelXP())
	require.Equal(t, 3000, (&users.User{XP: 2000}).NextLevelXP())
	require.Equal(t, 4000, (&users.User{XP: 3500}).NextLevelXP())
}

func TestDisplayName(t *testing.T) {
	require.Equal(t, "Alice Smith", users.DisplayName("Alice", "Smith", "alice"))
	require.Equal(t, "Alice", users.DisplayName("Alice", "", "alice"))
	require.Equal(t, "alice", users.DisplayName("", "Smith", "alice"))
}

func TestAvatarURL(t *testing.T) {
	u := &users.User{Username: "bob smith"}
	require.Equal(t, "https://api.dicebear.com/7.x/avataaars/svg?seed=bob+smith", u.AvatarURL())

	u.Image = utils.Ptr("")
	require.Equal(t, "https://api.dicebear.com/7.x/avataaars/svg?seed=bob+smith", u.AvatarURL())

	u.Image = utils.Ptr("https://cdn.example.com/bob.png")
	require.Equal(t, "https://cdn.example.com/bob.png", u.AvatarURL())
}

func TestAccount_AwardXP(t *testing.T) {
	a := &users.Account{Username: "alice", XP: 480, Level: 1}
	a.AwardXP(25)
	require.Equal(t, 505, a.XP)
	require.Equal(t, 2, a.Level)

	p := a.Profile(nil)
	require.Nil(t, p.Image)
	require.NotNil(t, p.Groups)
	require.Equal(t, 505, p.XP)
}

func TestPasswords(t *testing.T) {
	require.Error(t, users.ValidatePasswordStrength("short", "alice"))
	require.Error(t, users.ValidatePasswordStrength("1234567890", "alice"))
	require.Error(t, users.ValidatePasswordStrength("Alice12345", "alice12345"))
	require.NoError(t, users.ValidatePasswordStrength("correct-horse", "alice"))

	hash, err := users.HashPassword("correct-horse")
	require.NoError(t, err)
	require.True(t, users.CheckPasswordHash("correct-horse", hash))
	require.False(t, users.CheckPasswordHash("wrong", hash))
}
