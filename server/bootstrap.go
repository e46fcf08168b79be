package server

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/jrsteele09/studysphere/users"
	"github.com/rs/zerolog/log"
)

const defaultAdminDomain = "studysphere.local"

// InitialiseSystem creates the staff admin account and, when configured,
// the demo data set. Returns the generated password on first creation
// (empty string if the admin already exists or its password is configured).
func (s *Server) InitialiseSystem(ctx context.Context) (generatedPassword string, err error) {
	log.Info().Msg("🔧 Bootstrap: Checking system configuration...")

	generatedPassword, err = s.bootstrapAdmin(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to bootstrap admin: %w", err)
	}

	if s.config.GetSeedDemoData() {
		if err := s.SeedDemoData(ctx); err != nil {
			return "", fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	if generatedPassword != "" {
		log.Info().Msg("✅ Bootstrap complete: System initialized")
		log.Info().Msgf("👤 Admin username: %s", s.config.GetAdminUsername())
		log.Info().Msg("   ⚠️  The generated admin password is printed once by the devserver command.")
	} else {
		log.Info().Msg("✅ Bootstrap: System already configured")
	}
	return generatedPassword, nil
}

// bootstrapAdmin creates the staff account if it doesn't exist
func (s *Server) bootstrapAdmin(ctx context.Context) (generatedPassword string, err error) {
	username := s.config.GetAdminUsername()
	if _, err := s.repos.Accounts.GetByUsername(username); err == nil {
		log.Info().Msgf("   Admin already exists: %s", username)
		return "", nil
	}

	password := s.config.GetAdminPassword()
	if password == "" {
		passwordBytes := make([]byte, 16)
		if _, err := rand.Read(passwordBytes); err != nil {
			return "", fmt.Errorf("failed to generate password: %w", err)
		}
		password = base64.URLEncoding.EncodeToString(passwordBytes)
		generatedPassword = password
	}

	passwordHash, err := users.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	admin := &users.Account{
		Username:     username,
		Email:        fmt.Sprintf("%s@%s", username, defaultAdminDomain),
		PasswordHash: passwordHash,
		FirstName:    "Admin",
		LastName:     "User",
		Level:        1,
		IsStaff:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repos.Accounts.Create(admin); err != nil {
		return "", fmt.Errorf("failed to create admin: %w", err)
	}

	log.Info().Msgf("   ✅ Created admin: %s", admin.Username)
	return generatedPassword, nil
}
