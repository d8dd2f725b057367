package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/chainlance/marketplace-api/internal/core/domain"
	"github.com/chainlance/marketplace-api/internal/core/ports"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// TokenService signs and verifies the two credential classes. The secrets are
// distinct so a refresh token can never be replayed as an access token even
// if the typ claim check were bypassed.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewTokenService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenService {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

// Issue mints an access/refresh pair for the identity.
func (s *TokenService) Issue(identity *domain.Identity) (ports.TokenPair, error) {
	now := s.now().UTC()

	access, accessExp, err := s.sign(identity.Wallet, identity.Role, tokenTypeAccess, s.accessSecret, now, s.accessTTL)
	if err != nil {
		return ports.TokenPair{}, err
	}
	refresh, refreshExp, err := s.sign(identity.Wallet, identity.Role, tokenTypeRefresh, s.refreshSecret, now, s.refreshTTL)
	if err != nil {
		return ports.TokenPair{}, err
	}

	return ports.TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// VerifyAccess validates an access token and extracts its claims.
func (s *TokenService) VerifyAccess(token string) (ports.TokenClaims, error) {
	claims, err := s.parse(token, s.accessSecret, tokenTypeAccess)
	if err != nil {
		return ports.TokenClaims{}, err
	}
	return claims, nil
}

// Refresh verifies a refresh token and mints only a new access token. The
// refresh token stays valid for its full lifetime; it is not rotated here.
func (s *TokenService) Refresh(refreshToken string) (string, time.Time, error) {
	claims, err := s.parse(refreshToken, s.refreshSecret, tokenTypeRefresh)
	if err != nil {
		return "", time.Time{}, err
	}
	return s.sign(claims.Wallet, claims.Role, tokenTypeAccess, s.accessSecret, s.now().UTC(), s.accessTTL)
}

func (s *TokenService) sign(wallet, role, typ string, secret []byte, now time.Time, ttl time.Duration) (string, time.Time, error) {
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"wallet": wallet,
		"role":   role,
		"typ":    typ,
		"iat":    now.Unix(),
		"exp":    exp.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (s *TokenService) parse(token string, secret []byte, wantType string) (ports.TokenClaims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ports.TokenClaims{}, domain.ErrTokenExpired
		}
		return ports.TokenClaims{}, domain.ErrTokenInvalid
	}
	if !tkn.Valid {
		return ports.TokenClaims{}, domain.ErrTokenInvalid
	}

	typ, _ := claims["typ"].(string)
	if typ != wantType {
		return ports.TokenClaims{}, domain.ErrTokenInvalid
	}
	wallet, _ := claims["wallet"].(string)
	role, _ := claims["role"].(string)
	if wallet == "" || role == "" {
		return ports.TokenClaims{}, domain.ErrTokenInvalid
	}

	return ports.TokenClaims{Wallet: wallet, Role: role}, nil
}
