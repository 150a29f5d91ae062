package middleware

import (
	"bitwise74/account-api/pkg/security"
	"bitwise74/account-api/pkg/util"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewJWTMiddleware guards a route with a bearer access token. On success the
// verified payload is stored as "user" and the user's ID as "userID".
// Whether the user still exists is left to the handlers.
func NewJWTMiddleware(t *security.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			util.Abort(c, http.StatusUnauthorized, "Unauthorized")
			return
		}

		// Exactly "Bearer <token>", anything else is malformed
		scheme, tokenStr, ok := strings.Cut(header, " ")
		if !ok || scheme != "Bearer" || tokenStr == "" || strings.ContainsAny(tokenStr, " \t") {
			util.Abort(c, http.StatusUnauthorized, "Token not found")
			return
		}

		p, err := t.Verify(tokenStr, security.AccessToken)
		if err != nil {
			util.Abort(c, http.StatusUnauthorized, "Token expired or invalid")

			zap.L().Debug("Rejected access token", zap.Error(err), zap.String("requestID", c.GetString("requestID")))
			return
		}

		c.Set("user", *p)
		c.Set("userID", strconv.FormatUint(uint64(p.ID), 10))
		c.Next()
	}
}

// User returns the payload stored by the JWT middleware
func User(c *gin.Context) (security.Payload, bool) {
	p, ok := c.Get("user")
	if !ok {
		return security.Payload{}, false
	}

	payload, ok := p.(security.Payload)
	return payload, ok
}
