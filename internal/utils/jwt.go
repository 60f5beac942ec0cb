package utils // package utils provides helpers for token issuing and hashing

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Both access and refresh tokens are stateless HS256 JWTs carrying the user
// id as the subject plus a "type" claim ("access" or "refresh"), so refresh
// tokens need no database table and cannot be swapped for access tokens.

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// ErrInvalidToken is returned for expired, malformed or mistyped tokens.
var ErrInvalidToken = errors.New("invalid token")

// NewAccessToken signs a short-lived access token for the user.
func NewAccessToken(secret, userID string, ttlMin int) (string, error) {
	return signToken(secret, userID, tokenTypeAccess, time.Duration(ttlMin)*time.Minute)
}

// NewRefreshToken signs a long-lived refresh token for the user.
func NewRefreshToken(secret, userID string, ttlDays int) (string, error) {
	return signToken(secret, userID, tokenTypeRefresh, time.Duration(ttlDays)*24*time.Hour)
}

func signToken(secret, userID, typ string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":  userID,
		"type": typ,
		"exp":  now.Add(ttl).Unix(),
		"iat":  now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// ParseAccessToken validates an access token and returns its subject.
func ParseAccessToken(secret, raw string) (string, error) {
	return parseToken(secret, raw, tokenTypeAccess)
}

// ParseRefreshToken validates a refresh token and returns its subject.
func ParseRefreshToken(secret, raw string) (string, error) {
	return parseToken(secret, raw, tokenTypeRefresh)
}

func parseToken(secret, raw, typ string) (string, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	if claims["type"] != typ {
		return "", ErrInvalidToken
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}
