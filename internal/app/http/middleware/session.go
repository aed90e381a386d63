package middleware

import (
	"net/http"
	"strings"

	"github.com/redants-101/nano-banana-ai/internal/auth"
	"github.com/redants-101/nano-banana-ai/internal/i18n"

	"github.com/gin-gonic/gin"
)

const (
	ctxClaims    = "claims"
	ctxUserID    = "user_id"
	ctxEmail     = "email"
	ctxRequestID = "request_id"
	ctxLocale    = "locale"
)

// SessionParser validates a session token.
type SessionParser interface {
	Parse(token string) (*auth.Claims, error)
}

// Session attaches the signed-in user when the request carries a valid
// session cookie or bearer token. Anonymous requests pass through.
func Session(sessions SessionParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" {
			c.Next()
			return
		}
		claims, err := sessions.Parse(token)
		if err != nil {
			c.Next()
			return
		}
		c.Set(ctxClaims, claims)
		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxEmail, claims.Email)
		c.Next()
	}
}

// RequireSession rejects requests that Session did not authenticate.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserID(c) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": i18n.Message(i18n.MsgUnauthorized, Locale(c))})
			return
		}
		c.Next()
	}
}

func sessionToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if token := strings.TrimPrefix(h, "Bearer "); token != h {
			return strings.TrimSpace(token)
		}
	}
	if v, err := c.Cookie(auth.SessionCookie); err == nil {
		return v
	}
	return ""
}

// Claims returns the session claims, or nil for anonymous requests.
func Claims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(ctxClaims); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

func UserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}
