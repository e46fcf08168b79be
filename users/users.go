package users

import (
	"net/url"
	"strings"
	"time"

	"github.com/jrsteele09/studysphere/internal/utils"
)

const avatarFallbackURL = "https://api.dicebear.com/7.x/avataaars/svg?seed="

// User is the profile of a signed in user as served by GET /auth/me/.
type User struct {
	ID        int64          `json:"id"`
	Username  string         `json:"username"`
	Email     string         `json:"email"`
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	Image     *string        `json:"image"`
	Level     int            `json:"level"`
	XP        int            `json:"xp"`
	IsStaff   bool           `json:"is_staff"`
	Badges    []Badge        `json:"badges,omitempty"`
	Groups    []GroupSummary `json:"groups,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// Badge is an achievement earned by a user.
type Badge struct {
	ID       int64     `json:"id"`
	Name     string    `json:"name"`
	Icon     string    `json:"icon"`
	Color    string    `json:"color"`
	BgColor  string    `json:"bg_color"`
	EarnedAt time.Time `json:"earned_at"`
}

// GroupSummary is an approved group the user belongs to.
type GroupSummary struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	MembersCount int    `json:"members_count"`
}

// LevelForXP maps accumulated XP to a level. Levels 1-4 span 500 XP each,
// every level after that spans 1000.
func LevelForXP(xp int) int {
	switch {
	case xp < 500:
		return 1
	case xp < 1000:
		return 2
	case xp < 1500:
		return 3
	case xp < 2000:
		return 4
	default:
		return 5 + (xp-2000)/1000
	}
}

// DisplayName is "First Last" when a first name is set, otherwise the
// username.
func DisplayName(firstName, lastName, username string) string {
	if firstName == "" {
		return username
	}
	return strings.TrimSpace(firstName + " " + lastName)
}

// AvatarURL returns image when set, otherwise a generated avatar seeded
// with the username.
func AvatarURL(image *string, username string) string {
	if img := utils.Value(image); img != "" {
		return img
	}
	return avatarFallbackURL + url.QueryEscape(username)
}

func (u *User) DisplayName() string {
	return DisplayName(u.FirstName, u.LastName, u.Username)
}

func (u *User) AvatarURL() string {
	return AvatarURL(u.Image, u.Username)
}

// NextLevelXP is the XP total at which the user reaches the next level.
func (u *User) NextLevelXP() int {
	switch {
	case u.XP < 2000:
		return (u.XP/500 + 1) * 500
	default:
		return 2000 + ((u.XP-2000)/1000+1)*1000
	}
}
