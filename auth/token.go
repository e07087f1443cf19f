// Package auth mints and parses the HMAC tokens that carry the two identity
// kinds: authenticated users (user_id claim) and anonymous shopping sessions
// (session_id claim). The login service shares JWT_SECRET and issues user
// tokens with the same shape.
package auth

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	SessionTokenTTL = 30 * 24 * time.Hour
	UserTokenTTL    = 24 * time.Hour
)

func secret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

// IssueSessionToken signs a token for an anonymous shopping session.
func IssueSessionToken(sessionID string) (string, error) {
	claims := jwt.MapClaims{
		"session_id": sessionID,
		"role":       "guest",
		"exp":        time.Now().Add(SessionTokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret())
}

// IssueUserToken signs a token for an authenticated user.
func IssueUserToken(userID uint) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    "customer",
		"exp":     time.Now().Add(UserTokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret())
}

// Identity is the parsed result of a bearer token: exactly one of UserID or
// SessionID is set.
type Identity struct {
	UserID    *uint
	SessionID *string
}

// ParseToken validates a bearer token and extracts the identity it carries.
func ParseToken(tokenString string) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return secret(), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	if raw, ok := claims["user_id"]; ok {
		if id, ok := raw.(float64); ok && id > 0 {
			userID := uint(id)
			return &Identity{UserID: &userID}, nil
		}
	}
	if raw, ok := claims["session_id"]; ok {
		if sid, ok := raw.(string); ok && sid != "" {
			return &Identity{SessionID: &sid}, nil
		}
	}
	return nil, fmt.Errorf("token carries no identity")
}
