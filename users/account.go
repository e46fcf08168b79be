package users

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/jrsteele09/studysphere/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

// Account is the server side record behind a User.
type Account struct {
	ID            int64
	Username      string
	Email         string
	PasswordHash  string
	GoogleSubject string
	FirstName     string
	LastName      string
	Image         string
	XP            int
	Level         int
	IsStaff       bool
	Badges        []Badge
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AwardXP adds amount to the account and recomputes its level.
func (a *Account) AwardXP(amount int) {
	a.XP += amount
	a.Level = LevelForXP(a.XP)
}

// ImagePtr returns the image as the nullable field the API serves.
func (a *Account) ImagePtr() *string {
	return utils.NonZero(a.Image)
}

// Profile renders the account as the API user object. groups is supplied by
// the caller since memberships live with the groups.
func (a *Account) Profile(groups []GroupSummary) *User {
	badges := make([]Badge, len(a.Badges))
	copy(badges, a.Badges)
	if groups == nil {
		groups = []GroupSummary{}
	}
	return &User{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Image:     a.ImagePtr(),
		Level:     a.Level,
		XP:        a.XP,
		IsStaff:   a.IsStaff,
		Badges:    badges,
		Groups:    groups,
		CreatedAt: a.CreatedAt,
	}
}

// Clone returns a copy safe to mutate.
func (a *Account) Clone() *Account {
	c := *a
	c.Badges = append([]Badge(nil), a.Badges...)
	return &c
}

// ValidatePasswordStrength checks a new password:
// - At least 8 characters long
// - Not entirely numeric
// - Not the same as the username
func ValidatePasswordStrength(password, username string) error {
	if len(password) < 8 {
		return fmt.Errorf("This password is too short. It must contain at least 8 characters.")
	}

	numeric := true
	for _, char := range password {
		if !unicode.IsDigit(char) {
			numeric = false
			break
		}
	}
	if numeric {
		return fmt.Errorf("This password is entirely numeric.")
	}

	if username != "" && strings.EqualFold(password, username) {
		return fmt.Errorf("The password is too similar to the username.")
	}
	return nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
