package httpx

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/shopkeeper/internal/auth"
)

// Verifier is the single token-verification contract every service boundary
// uses. It is satisfied by *auth.Codec; all replicas of the guard therefore
// run identical verification logic against the same shared secret.
type Verifier interface {
	VerifyKind(tokenString string, kind auth.Kind) (*auth.Claims, error)
}

// BearerToken extracts the token from the Authorization header.
// Returns false when the header is absent or does not use the Bearer scheme.
func BearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// RequireAuth rejects any request that does not carry a valid ACCESS token
// and publishes the caller identity into the request context. Refresh-kind
// tokens are rejected here: a refresh token is only usable at the refresh
// endpoint.
func RequireAuth(v Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c)
		if !ok {
			Abort(c, http.StatusUnauthorized, "Authorization header required")
			return
		}

		claims, err := v.VerifyKind(token, auth.KindAccess)
		if err != nil {
			Abort(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		setIdentity(c, Identity{UserID: claims.UserID, Username: claims.Username()})
		c.Next()
	}
}

// GatewayFilter is the edge variant of the guard used by the API gateway:
// a missing or non-Bearer header is a 403, an invalid token a 401. Paths for
// which public reports true (login, register, refresh) skip verification.
func GatewayFilter(v Verifier, public func(method, path string) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if public != nil && public(c.Request.Method, c.Request.URL.Path) {
			c.Next()
			return
		}

		token, ok := BearerToken(c)
		if !ok {
			Abort(c, http.StatusForbidden, "Authorization header required")
			return
		}

		claims, err := v.VerifyKind(token, auth.KindAccess)
		if err != nil {
			Abort(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		setIdentity(c, Identity{UserID: claims.UserID, Username: claims.Username()})
		c.Next()
	}
}
