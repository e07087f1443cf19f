package middleware

import (
	"fmt"
	"strings"

	"github.com/JhonatanVeri/PeakSport/apperrors"
	"github.com/JhonatanVeri/PeakSport/auth"
	"github.com/gin-gonic/gin"
)

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	return strings.TrimPrefix(header, "Bearer ")
}

// abortUnauthenticated rejects the request through the error taxonomy so the
// status always comes from the ErrUnauthenticated mapping.
func abortUnauthenticated(c *gin.Context, msg string) {
	err := fmt.Errorf("%w: %s", apperrors.ErrUnauthenticated, msg)
	c.JSON(apperrors.HTTPStatus(err), gin.H{"success": false, "error": msg})
	c.Abort()
}

// RequireUser admits only tokens carrying an authenticated user identity.
// Sets "user_id" (uint) in the context.
func RequireUser(c *gin.Context) {
	tokenString := bearerToken(c)
	if tokenString == "" {
		abortUnauthenticated(c, "Authorization header is missing")
		return
	}

	identity, err := auth.ParseToken(tokenString)
	if err != nil {
		abortUnauthenticated(c, "Invalid or expired token")
		return
	}
	if identity.UserID == nil {
		abortUnauthenticated(c, "You must be logged in")
		return
	}

	c.Set("user_id", *identity.UserID)
	c.Next()
}

// CartIdentity admits either identity kind: a logged-in user or an anonymous
// session. Sets "user_id" (uint) or "session_id" (string).
func CartIdentity(c *gin.Context) {
	tokenString := bearerToken(c)
	if tokenString == "" {
		abortUnauthenticated(c, "A session or login token is required")
		return
	}

	identity, err := auth.ParseToken(tokenString)
	if err != nil {
		abortUnauthenticated(c, "Invalid or expired token")
		return
	}

	if identity.UserID != nil {
		c.Set("user_id", *identity.UserID)
	} else if identity.SessionID != nil {
		c.Set("session_id", *identity.SessionID)
	}
	c.Next()
}

// OptionalUser extracts a user identity when a valid token is present but
// never rejects the request. Public review listings use it to report whether
// the caller may still review.
func OptionalUser(c *gin.Context) {
	if tokenString := bearerToken(c); tokenString != "" {
		if identity, err := auth.ParseToken(tokenString); err == nil && identity.UserID != nil {
			c.Set("user_id", *identity.UserID)
		}
	}
	c.Next()
}
