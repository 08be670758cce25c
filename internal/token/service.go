// Package token issues and verifies the signed credentials the rest of the
// service trusts. Tokens are stateless HS256 JWTs; expiry is the only
// deactivation mechanism.
package token

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taskdeck/service-task-go/internal/apperror"
)

const (
	typeAccess  = "access"
	typeRefresh = "refresh"
)

// Claims carries the subject account id and the token type alongside the
// registered JWT claims.
type Claims struct {
	jwt.RegisteredClaims
	TokenType string `json:"typ"`
}

// Pair is one issued access/refresh credential pair.
type Pair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Config holds signing parameters. The secret is process configuration set
// at startup and never mutated afterwards.
type Config struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// ConfigFromEnv reads token config from environment variables.
func ConfigFromEnv() Config {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		// default for local development only
		secret = "devsecret"
	}
	accessTTL := 15 * time.Minute
	if v := os.Getenv("JWT_ACCESS_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			accessTTL = d
		}
	}
	refreshTTL := 7 * 24 * time.Hour
	if v := os.Getenv("JWT_REFRESH_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			refreshTTL = d
		}
	}
	return Config{Secret: secret, AccessTTL: accessTTL, RefreshTTL: refreshTTL}
}

// Service signs and verifies access/refresh tokens with a symmetric secret.
type Service struct {
	cfg Config
}

func NewService(cfg Config) *Service {
	return &Service{cfg: cfg}
}

// Issue creates a fresh access/refresh pair bound to subjectID.
func (s *Service) Issue(subjectID string) (Pair, error) {
	access, err := s.sign(subjectID, typeAccess, s.cfg.AccessTTL)
	if err != nil {
		return Pair{}, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := s.sign(subjectID, typeRefresh, s.cfg.RefreshTTL)
	if err != nil {
		return Pair{}, fmt.Errorf("sign refresh token: %w", err)
	}
	return Pair{AccessToken: access, RefreshToken: refresh}, nil
}

// VerifyAccess validates an access token and returns its subject id.
// Signature, expiry, payload shape and token type are all checked; any
// failure yields the same invalid-token error so callers cannot tell which
// check tripped.
func (s *Service) VerifyAccess(tokenString string) (string, error) {
	return s.verify(tokenString, typeAccess)
}

// VerifyRefresh validates a refresh token and returns its subject id.
func (s *Service) VerifyRefresh(tokenString string) (string, error) {
	return s.verify(tokenString, typeRefresh)
}

func (s *Service) sign(subjectID, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		TokenType: tokenType,
	})
	return tok.SignedString([]byte(s.cfg.Secret))
}

func (s *Service) verify(tokenString, wantType string) (string, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil || !tok.Valid {
		return "", apperror.InvalidToken()
	}
	if claims.TokenType != wantType || claims.Subject == "" {
		return "", apperror.InvalidToken()
	}
	return claims.Subject, nil
}
