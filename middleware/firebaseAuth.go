package middleware

import (
	"context"
	"net/http"
	"strings"

	"goldengeneration/utils"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys set by FirebaseAuthMiddleware.
const (
	ContextUserID = "userID"
	ContextEmail  = "email"
	ContextClaims = "claims"
)

// TokenVerifier checks a Firebase ID token. *auth.Client satisfies it.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": "Insufficient authorization",
		"code":  0,
	})
}

// FirebaseAuthMiddleware requires a valid Firebase ID token in the
// Authorization header and stores the caller's uid, email and claims.
func FirebaseAuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			unauthorized(c)
			return
		}
		idToken := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if idToken == "" {
			unauthorized(c)
			return
		}

		token, err := verifier.VerifyIDToken(c.Request.Context(), idToken)
		if err != nil || token == nil || token.UID == "" {
			utils.GetLogger().Warn("Rejected ID token", zap.String("ip", getClientIP(c)), zap.Error(err))
			unauthorized(c)
			return
		}

		email, _ := token.Claims["email"].(string)
		c.Set(ContextUserID, token.UID)
		c.Set(ContextEmail, email)
		c.Set(ContextClaims, token.Claims)
		c.Next()
	}
}

// UserID returns the uid stored by FirebaseAuthMiddleware.
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

// Email returns the email claim of the caller, if any.
func Email(c *gin.Context) string {
	return c.GetString(ContextEmail)
}
