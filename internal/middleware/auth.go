package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/reelhouse/internal/apperr"
	"github.com/stwalsh4118/reelhouse/internal/auth"
)

const callerKey = "reelhouse.caller"

// Authenticate resolves the bearer token, if any, into an auth.Caller stored on the context
// Requests without a token continue as anonymous; an invalid token is rejected with 401
func Authenticate(authz *auth.Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Set(callerKey, authz.Anonymous())
			c.Next()
			return
		}

		token, ok := bearerToken(header)
		if !ok {
			abort(c, apperr.New(apperr.KindInvalidToken, "malformed authorization header"))
			return
		}

		caller, err := authz.Resolve(c.Request.Context(), token)
		if err != nil {
			abort(c, err)
			return
		}

		c.Set(callerKey, caller)
		c.Next()
	}
}

// RequireAuthenticated rejects anonymous callers with 403
func RequireAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CallerFrom(c).IsAuthenticated() {
			abort(c, apperr.AccessDenied("authentication is required"))
			return
		}
		c.Next()
	}
}

// CallerFrom returns the caller resolved by Authenticate, or the anonymous caller
func CallerFrom(c *gin.Context) auth.Caller {
	if v, ok := c.Get(callerKey); ok {
		if caller, ok := v.(auth.Caller); ok {
			return caller
		}
	}
	return auth.Caller{}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func abort(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	c.AbortWithStatusJSON(apperr.HTTPStatus(kind), gin.H{
		"error":   string(kind),
		"message": apperr.MessageOf(err),
	})
}
