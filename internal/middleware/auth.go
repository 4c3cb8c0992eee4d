package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	apperrors "github.com/harentsoaR/hospital-api/internal/errors"
	"github.com/harentsoaR/hospital-api/internal/session"
)

const (
	sessionKey  = "session"
	identityKey = "identity"
)

// Session resolves the caller's session once per request and stores it in
// the gin context for the guards and handlers.
func Session(manager *session.Manager, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := manager.Load(c.Request)
		if err != nil {
			logger.Error().Err(err).Str("request_id", c.GetString(requestIDKey)).Msg("session lookup failed")
			httpErr := apperrors.MapErrorToHTTP(err)
			c.AbortWithStatusJSON(httpErr.StatusCode, httpErr.ToErrorResponse())
			return
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}

// CurrentSession returns the session loaded by Session, or an empty one.
func CurrentSession(c *gin.Context) *session.Session {
	if v, ok := c.Get(sessionKey); ok {
		if sess, ok := v.(*session.Session); ok {
			return sess
		}
	}
	sess := &session.Session{}
	c.Set(sessionKey, sess)
	return sess
}

// RequireRole rejects the request with 403 unless the session carries the
// marker for role.
func RequireRole(role session.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := CurrentSession(c).Data.Identity(role)
		if !ok {
			httpErr := apperrors.Unauthorized()
			c.AbortWithStatusJSON(httpErr.StatusCode, httpErr.ToErrorResponse())
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

// CurrentIdentity returns the identity resolved by RequireRole.
func CurrentIdentity(c *gin.Context) (session.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return session.Identity{}, false
	}
	identity, ok := v.(session.Identity)
	return identity, ok
}
