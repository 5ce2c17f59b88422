package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"careerhub-backend/internal/shared/auth"
	"careerhub-backend/internal/shared/server/respond"
)

const userIDKey = "userId"

// Auth validates bearer tokens and stores identity in context. Requests
// without an Authorization header continue anonymously; a malformed or
// invalid token is rejected.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			c.Set("isGuest", true)
			c.Next()
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		claims, err := auth.VerifyJWT(token)
		if err != nil {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		c.Set(userIDKey, claims.Subject)
		c.Set("isGuest", false)
		c.Next()
	}
}

// RequireUser rejects anonymous requests.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserIDFromContext(c) == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}
		c.Next()
	}
}

// OwnerAllowed reports whether the caller may act on ownerID. Anonymous
// callers are allowed; authenticated callers only on their own records.
func OwnerAllowed(c *gin.Context, ownerID string) bool {
	userID := UserIDFromContext(c)
	return userID == "" || userID == ownerID
}

// OwnerHint picks the owner for by-ID resume routes: the token subject when
// present, otherwise the userId query value. ok is false when both are set
// and disagree.
func OwnerHint(c *gin.Context) (owner string, ok bool) {
	query := strings.TrimSpace(c.Query("userId"))
	caller := UserIDFromContext(c)
	if caller == "" {
		return query, true
	}
	if query != "" && !strings.EqualFold(query, caller) {
		return "", false
	}
	return caller, true
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}
