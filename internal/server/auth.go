package server

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pawledger/registry-api/internal/shared/identity"
)

const callerContextKey = "registry.caller"

// RequireBearerToken authenticates admin requests against the configured
// token set and stores the resulting caller on the request context. Tokens
// are compared in constant time. Rejections use the plain {error} envelope
// the admin endpoints promise.
func RequireBearerToken(tokens map[string]string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		raw = strings.TrimSpace(raw)
		for token, subject := range tokens {
			if subtle.ConstantTimeCompare([]byte(raw), []byte(token)) == 1 {
				c.Set(callerContextKey, identity.Caller{Subject: subject, Role: identity.RoleAdmin})
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unrecognized bearer token"})
	}
}

// callerFrom extracts the authenticated caller placed by the auth middleware.
// The zero value means anonymous; the services reject it themselves.
func callerFrom(c *gin.Context) identity.Caller {
	value, ok := c.Get(callerContextKey)
	if !ok {
		return identity.Caller{}
	}
	caller, _ := value.(identity.Caller)
	return caller
}
