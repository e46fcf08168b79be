package server

import (
	"fmt"
	"net/http"
	"net/mail"
	"regexp"
	"strings"

	"github.com/jrsteele09/studysphere/api"
	"github.com/jrsteele09/studysphere/googleauth"
	apperrors "github.com/jrsteele09/studysphere/internal/errors"
	"github.com/jrsteele09/studysphere/users"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

const (
	msgInvalidUsername   = "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	msgInvalidEmail      = "Enter a valid email address."
	msgUsernameTaken     = "A user with that username already exists."
	msgEmailTaken        = "A user with that email already exists."
	msgPasswordMismatch  = "Password fields didn't match."
	msgInvalidCredential = "Invalid credentials"
)

func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req api.RegisterRequest
		if err := decodeJSON(r, &req); err != nil {
			writeDetail(w, http.StatusBadRequest, msgMalformedBody)
			return
		}
		req.Username = strings.TrimSpace(req.Username)
		req.Email = strings.TrimSpace(req.Email)

		errs := fieldErrors{}
		for field, value := range map[string]string{
			"username":  req.Username,
			"email":     req.Email,
			"password":  req.Password,
			"password2": req.Password2,
		} {
			if value == "" {
				errs.add(field, msgFieldRequired)
			}
		}
		if req.Username != "" && !usernamePattern.MatchString(req.Username) {
			errs.add("username", msgInvalidUsername)
		}
		if req.Email != "" && !validEmail(req.Email) {
			errs.add("email", msgInvalidEmail)
		}
		if req.Password != "" && req.Password2 != "" {
			if req.Password != req.Password2 {
				errs.add("password", msgPasswordMismatch)
			} else if err := users.ValidatePasswordStrength(req.Password, req.Username); err != nil {
				errs.add("password", err.Error())
			}
		}

		s.writeLock.Lock()
		defer s.writeLock.Unlock()

		if _, err := s.repos.Accounts.GetByUsername(req.Username); err == nil {
			errs.add("username", msgUsernameTaken)
		}
		if req.Email != "" {
			if _, err := s.repos.Accounts.GetByEmail(req.Email); err == nil {
				errs.add("email", msgEmailTaken)
			}
		}
		if len(errs) > 0 {
			writeJSON(w, http.StatusBadRequest, errs)
			return
		}

		hash, err := users.HashPassword(req.Password)
		if err != nil {
			log.Err(err).Msg("failed to hash password")
			writeDetail(w, http.StatusInternalServerError, msgServerError)
			return
		}
		now := s.now()
		account := &users.Account{
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: hash,
			FirstName:    strings.TrimSpace(req.FirstName),
			LastName:     strings.TrimSpace(req.LastName),
			Level:        1,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.repos.Accounts.Create(account); err != nil {
			log.Err(err).Str("username", account.Username).Msg("failed to create account")
			writeDetail(w, http.StatusInternalServerError, msgServerError)
			return
		}
		log.Info().Int64("user_id", account.ID).Str("username", account.Username).Msg("account registered")
		s.writeAuthResponse(w, http.StatusCreated, account)
	}
}

func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req api.LoginRequest
		if err := decodeJSON(r, &req); err != nil {
			writeDetail(w, http.StatusBadRequest, msgMalformedBody)
			return
		}
		if strings.TrimSpace(req.Username) == "" || req.Password == "" {
			writeDetail(w, http.StatusBadRequest, "Please provide both username and password")
			return
		}

		account, err := s.findLoginAccount(strings.TrimSpace(req.Username))
		if err != nil || account.PasswordHash == "" || !users.CheckPasswordHash(req.Password, account.PasswordHash) {
			writeDetail(w, http.StatusUnauthorized, msgInvalidCredential)
			return
		}
		s.writeAuthResponse(w, http.StatusOK, account)
	}
}

// findLoginAccount accepts either a username or an email address.
func (s *Server) findLoginAccount(login string) (*users.Account, error) {
	account, err := s.repos.Accounts.GetByUsername(login)
	if err == nil || !strings.Contains(login, "@") {
		return account, err
	}
	return s.repos.Accounts.GetByEmail(login)
}

func (s *Server) GoogleLoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req api.GoogleLoginRequest
		if err := decodeJSON(r, &req); err != nil || req.Credential == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No credential provided"})
			return
		}
		if s.google == nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "Google login is not configured"})
			return
		}

		identity, err := s.google.Verify(r.Context(), req.Credential)
		if err != nil {
			log.Debug().Err(err).Msg("google credential rejected")
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid Google token"})
			return
		}
		if identity.Email == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Google account has no email address"})
			return
		}

		s.writeLock.Lock()
		defer s.writeLock.Unlock()

		account, err := s.googleAccount(identity)
		if err != nil {
			log.Err(err).Msg("failed to resolve google account")
			writeDetail(w, http.StatusInternalServerError, msgServerError)
			return
		}
		s.writeAuthResponse(w, http.StatusOK, account)
	}
}

// googleAccount finds the account linked to identity, links an existing
// account with the same email, or creates a new one.
func (s *Server) googleAccount(identity *googleauth.Identity) (*users.Account, error) {
	if account, err := s.repos.Accounts.GetByGoogleSubject(identity.Subject); err == nil {
		return account, nil
	}

	if account, err := s.repos.Accounts.GetByEmail(identity.Email); err == nil {
		account.GoogleSubject = identity.Subject
		if account.Image == "" {
			account.Image = identity.Picture
		}
		account.UpdatedAt = s.now()
		if err := s.repos.Accounts.Update(account); err != nil {
			return nil, errors.Wrap(err, "link google account")
		}
		return account, nil
	}

	now := s.now()
	account := &users.Account{
		Username:      s.uniqueUsername(identity.Email),
		Email:         identity.Email,
		GoogleSubject: identity.Subject,
		FirstName:     identity.GivenName,
		LastName:      identity.FamilyName,
		Image:         identity.Picture,
		Level:         1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repos.Accounts.Create(account); err != nil {
		return nil, errors.Wrap(err, "create google account")
	}
	log.Info().Int64("user_id", account.ID).Str("username", account.Username).Msg("account created from google")
	return account, nil
}

// uniqueUsername derives a free username from the local part of email.
func (s *Server) uniqueUsername(email string) string {
	base, _, _ := strings.Cut(email, "@")
	base = strings.Map(func(r rune) rune {
		if usernamePattern.MatchString(string(r)) {
			return r
		}
		return -1
	}, base)
	if base == "" {
		base = "user"
	}
	candidate := base
	for i := 1; ; i++ {
		if _, err := s.repos.Accounts.GetByUsername(candidate); errors.Is(err, apperrors.ErrUserNotFound) {
			return candidate
		}
		candidate = fmt.Sprintf("%s%d", base, i)
	}
}

func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req api.RefreshRequest
		if err := decodeJSON(r, &req); err != nil {
			writeDetail(w, http.StatusBadRequest, msgMalformedBody)
			return
		}
		if req.Refresh == "" {
			writeJSON(w, http.StatusBadRequest, fieldErrors{"refresh": {msgFieldRequired}})
			return
		}
		access, err := s.tokens.Refresh(req.Refresh)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"detail": "Token is invalid or expired",
				"code":   codeTokenNotValid,
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"access": access})
	}
}

// LogoutHandler blacklists the posted refresh token until it expires. The
// access token is left to run out on its own.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req api.RefreshRequest
		if err := decodeJSON(r, &req); err != nil {
			writeDetail(w, http.StatusBadRequest, msgMalformedBody)
			return
		}
		if req.Refresh == "" {
			writeJSON(w, http.StatusBadRequest, fieldErrors{"refresh": {msgFieldRequired}})
			return
		}
		if _, err := s.tokens.VerifyRefresh(req.Refresh); err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"detail": "Token is invalid or expired",
				"code":   codeTokenNotValid,
			})
			return
		}
		if err := s.tokens.Revoke(req.Refresh); err != nil {
			log.Err(err).Msg("failed to revoke refresh token")
			writeDetail(w, http.StatusInternalServerError, msgServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{})
	}
}

func (s *Server) CurrentUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, err := s.currentAccount(r)
		if err != nil {
			writeDetail(w, http.StatusUnauthorized, msgNotAuthenticated)
			return
		}
		s.writeProfile(w, http.StatusOK, account)
	}
}

func (s *Server) UpdateProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var update api.ProfileUpdate
		if err := decodeJSON(r, &update); err != nil {
			writeDetail(w, http.StatusBadRequest, msgMalformedBody)
			return
		}

		s.writeLock.Lock()
		defer s.writeLock.Unlock()

		account, err := s.currentAccount(r)
		if err != nil {
			writeDetail(w, http.StatusUnauthorized, msgNotAuthenticated)
			return
		}

		errs := fieldErrors{}
		if update.Email != nil {
			email := strings.TrimSpace(*update.Email)
			switch {
			case email == "":
				errs.add("email", msgFieldRequired)
			case !validEmail(email):
				errs.add("email", msgInvalidEmail)
			default:
				if other, err := s.repos.Accounts.GetByEmail(email); err == nil && other.ID != account.ID {
					errs.add("email", msgEmailTaken)
				}
			}
			account.Email = email
		}
		if len(errs) > 0 {
			writeJSON(w, http.StatusBadRequest, errs)
			return
		}
		if update.FirstName != nil {
			account.FirstName = strings.TrimSpace(*update.FirstName)
		}
		if update.LastName != nil {
			account.LastName = strings.TrimSpace(*update.LastName)
		}
		if update.Image != nil {
			account.Image = strings.TrimSpace(*update.Image)
		}
		account.UpdatedAt = s.now()

		if err := s.repos.Accounts.Update(account); err != nil {
			log.Err(err).Int64("user_id", account.ID).Msg("failed to update profile")
			writeDetail(w, http.StatusInternalServerError, msgServerError)
			return
		}
		s.writeProfile(w, http.StatusOK, account)
	}
}

func (s *Server) writeAuthResponse(w http.ResponseWriter, status int, account *users.Account) {
	pair, err := s.tokens.IssuePair(account.ID)
	if err != nil {
		log.Err(err).Int64("user_id", account.ID).Msg("failed to issue tokens")
		writeDetail(w, http.StatusInternalServerError, msgServerError)
		return
	}
	profile, err := s.profile(account)
	if err != nil {
		log.Err(err).Int64("user_id", account.ID).Msg("failed to render profile")
		writeDetail(w, http.StatusInternalServerError, msgServerError)
		return
	}
	writeJSON(w, status, api.AuthResponse{Tokens: pair, User: profile})
}

func (s *Server) writeProfile(w http.ResponseWriter, status int, account *users.Account) {
	profile, err := s.profile(account)
	if err != nil {
		log.Err(err).Int64("user_id", account.ID).Msg("failed to render profile")
		writeDetail(w, http.StatusInternalServerError, msgServerError)
		return
	}
	writeJSON(w, status, profile)
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
