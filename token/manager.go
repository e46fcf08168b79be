// Package token issues and verifies the development backend's JWTs. Access
// and refresh tokens are both stateless HS256 JWTs told apart by their
// token_type claim.
package token

import (
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/studysphere/credentials"
	apperrors "github.com/jrsteele09/studysphere/internal/errors"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"

	defaultIssuer = "studysphere"
)

type Manager struct {
	signer             Signer
	issuer             string
	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
	blacklist          Blacklist
	nowFunc            func() time.Time
}

type ManagerOption func(*Manager)

func WithTokenExpiry(accessTokenExpiry, refreshTokenExpiry time.Duration) ManagerOption {
	return func(m *Manager) {
		m.accessTokenExpiry = accessTokenExpiry
		m.refreshTokenExpiry = refreshTokenExpiry
	}
}

func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

func WithIssuer(issuer string) ManagerOption {
	return func(m *Manager) {
		m.issuer = issuer
	}
}

func WithBlacklist(b Blacklist) ManagerOption {
	return func(m *Manager) {
		m.blacklist = b
	}
}

func New(signer Signer, options ...ManagerOption) (*Manager, error) {
	if signer == nil {
		return nil, errors.New("[token.New] signer is required")
	}
	m := &Manager{
		signer:    signer,
		issuer:    defaultIssuer,
		blacklist: NewMemoryBlacklist(),
		nowFunc:   time.Now,
	}
	for _, opt := range options {
		opt(m)
	}

	if m.accessTokenExpiry == 0 {
		m.accessTokenExpiry = 5 * time.Minute
	}
	if m.refreshTokenExpiry == 0 {
		m.refreshTokenExpiry = 24 * time.Hour
	}
	return m, nil
}

// IssuePair creates a fresh access and refresh token for a user.
func (m *Manager) IssuePair(userID int64) (credentials.Pair, error) {
	access, err := m.create(userID, TypeAccess, m.accessTokenExpiry)
	if err != nil {
		return credentials.Pair{}, errors.Wrap(err, "Manager.IssuePair access")
	}
	refresh, err := m.create(userID, TypeRefresh, m.refreshTokenExpiry)
	if err != nil {
		return credentials.Pair{}, errors.Wrap(err, "Manager.IssuePair refresh")
	}
	return credentials.Pair{Access: access, Refresh: refresh}, nil
}

// Refresh exchanges a valid refresh token for a new access token. The
// refresh token itself is not rotated.
func (m *Manager) Refresh(rawRefresh string) (string, error) {
	claims, err := m.verify(rawRefresh, TypeRefresh)
	if err != nil {
		return "", err
	}
	userID, err := userIDFrom(claims)
	if err != nil {
		return "", err
	}
	return m.create(userID, TypeAccess, m.accessTokenExpiry)
}

// VerifyAccess returns the user id of a valid access token.
func (m *Manager) VerifyAccess(rawAccess string) (int64, error) {
	claims, err := m.verify(rawAccess, TypeAccess)
	if err != nil {
		return 0, err
	}
	return userIDFrom(claims)
}

// VerifyRefresh returns the user id of a valid, unrevoked refresh token.
func (m *Manager) VerifyRefresh(rawRefresh string) (int64, error) {
	claims, err := m.verify(rawRefresh, TypeRefresh)
	if err != nil {
		return 0, err
	}
	return userIDFrom(claims)
}

// Revoke blacklists a token until its expiry.
func (m *Manager) Revoke(raw string) error {
	token, err := jwt.Parse(raw, m.signer.GetVerificationKey,
		jwt.WithValidMethods([]string{m.signer.GetSigningMethod().Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return errors.Wrap(apperrors.ErrInvalidToken, err.Error())
	}
	claims := token.Claims.(jwt.MapClaims)

	jti, _ := claims["jti"].(string)
	if jti == "" {
		return errors.New("token missing jti claim")
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return errors.New("token missing exp claim")
	}
	userID, err := userIDFrom(claims)
	if err != nil {
		return err
	}

	if purged := m.blacklist.Purge(m.nowFunc()); purged > 0 {
		log.Debug().Int("purged", purged).Msg("dropped expired blacklist entries")
	}
	return m.blacklist.Blacklist(jti, userID, exp.Time)
}

func (m *Manager) create(userID int64, tokenType string, ttl time.Duration) (string, error) {
	now := m.nowFunc()
	claims := jwt.MapClaims{
		"iss":        m.issuer,
		"sub":        strconv.FormatInt(userID, 10),
		"user_id":    userID,
		"token_type": tokenType,
		"iat":        now.Unix(),
		"exp":        now.Add(ttl).Unix(),
		"jti":        uuid.New().String(),
	}
	return m.signer.Sign(claims)
}

func (m *Manager) verify(raw, tokenType string) (jwt.MapClaims, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, apperrors.ErrInvalidToken
	}

	token, err := jwt.Parse(raw, m.signer.GetVerificationKey,
		jwt.WithValidMethods([]string{m.signer.GetSigningMethod().Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.nowFunc),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, errors.Wrap(apperrors.ErrInvalidToken, err.Error())
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperrors.ErrInvalidToken
	}
	if t, _ := claims["token_type"].(string); t != tokenType {
		return nil, errors.Wrapf(apperrors.ErrInvalidToken, "expected %s token", tokenType)
	}
	if jti, _ := claims["jti"].(string); jti != "" && m.blacklist.Contains(jti) {
		return nil, errors.Wrap(apperrors.ErrInvalidToken, "token is blacklisted")
	}
	return claims, nil
}

func userIDFrom(claims jwt.MapClaims) (int64, error) {
	v, ok := claims["user_id"].(float64)
	if !ok {
		return 0, errors.Wrap(apperrors.ErrInvalidToken, "missing user_id")
	}
	return int64(v), nil
}
