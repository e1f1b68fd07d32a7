package authmw

import (
	"context"
	"net/http"
	"strings"

	"debatematch/internal/services/identity"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey   = "auth.user_id"
	usernameKey = "auth.username"
)

// TokenVerifier is the slice of the identity service the middleware needs.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*identity.Claims, error)
}

type errorBody struct {
	Message string `json:"message"`
}

// RequireAuth rejects requests without a valid token in x-auth-token or
// Authorization: Bearer.
func RequireAuth(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := Token(c.Request)
		if tok == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Message: "No token, authorization denied"})
			return
		}
		claims, err := v.Verify(c.Request.Context(), tok)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Message: "Token is not valid"})
			return
		}
		c.Set(userIDKey, claims.UserID)
		c.Set(usernameKey, claims.Username)
		c.Next()
	}
}

func Token(r *http.Request) string {
	if tok := r.Header.Get("x-auth-token"); tok != "" {
		return tok
	}
	if after, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return after
	}
	return ""
}

// UserID is set by RequireAuth.
func UserID(c *gin.Context) string { return c.GetString(userIDKey) }

func Username(c *gin.Context) string { return c.GetString(usernameKey) }
