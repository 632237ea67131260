package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tabasaranec/blogapi/config"
)

// Claims is the identity embedded in both access and refresh tokens.
type Claims struct {
	UserID      uint   `json:"id"`
	Email       string `json:"email"`
	Admin       bool   `json:"isAdmin"`
	IsActivated bool   `json:"isActivated"`
	jwt.RegisteredClaims
}

// TokenPair is an access/refresh token pair signed with distinct secrets.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// GenerateTokenPair issues a short-lived access token and a long-lived
// refresh token for the given user identity.
func GenerateTokenPair(userID uint, email string, admin, activated bool) (TokenPair, error) {
	cfg := config.Get()

	access, err := signToken(userID, email, admin, activated,
		time.Duration(cfg.JWTAccessExpiresMin)*time.Minute, cfg.JWTAccessSecret)
	if err != nil {
		return TokenPair{}, err
	}

	refresh, err := signToken(userID, email, admin, activated,
		time.Duration(cfg.JWTRefreshExpiresHrs)*time.Hour, cfg.JWTRefreshSecret)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// ValidateAccess decodes an access token. Invalid or expired tokens yield
// (nil, false) rather than an error so callers can answer with an
// authorization failure.
func ValidateAccess(token string) (*Claims, bool) {
	return parseToken(token, config.Get().JWTAccessSecret)
}

// ValidateRefresh decodes a refresh token under the refresh secret.
func ValidateRefresh(token string) (*Claims, bool) {
	return parseToken(token, config.Get().JWTRefreshSecret)
}

func signToken(userID uint, email string, admin, activated bool, ttl time.Duration, secret string) (string, error) {
	claims := Claims{
		UserID:      userID,
		Email:       email,
		Admin:       admin,
		IsActivated: activated,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func parseToken(tokenStr, secret string) (*Claims, bool) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, false
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, false
	}
	return claims, true
}
