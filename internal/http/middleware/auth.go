package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/review-outreach/internal/auth"
)

// ctxKeyUserID is where Auth stores the authenticated account id.
const ctxKeyUserID = "userID"

// UserID returns the account id set by Auth.
func UserID(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxKeyUserID)
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}

// Auth requires a valid "Authorization: Bearer <jwt>" header signed with
// secret. The token subject is stored as "userID" and added to the
// request-scoped logger. Anything else is rejected with 401.
func Auth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		scheme, token, found := strings.Cut(h, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			unauthorized(c, "authentication credentials were not provided")
			return
		}

		uid, err := auth.ParseToken(strings.TrimSpace(token), secret)
		if err != nil {
			unauthorized(c, "invalid or expired token")
			return
		}

		c.Set(ctxKeyUserID, uid)
		attachRequestLogger(c, LoggerFrom(c).With().Str("user_id", uid).Logger())

		c.Next()
	}
}

func unauthorized(c *gin.Context, msg string) {
	c.Header("WWW-Authenticate", `Bearer realm="api"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"request_id": c.Writer.Header().Get(requestIDHeader),
		"code":       "unauthorized",
		"message":    msg,
	})
}
