package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/wanderly/tours-api/internal/domain/entity"
	"github.com/wanderly/tours-api/internal/domain/repository"
	"github.com/wanderly/tours-api/pkg/helpers"
	"github.com/wanderly/tours-api/pkg/response"
)

const (
	CtxUserKey   = "currentUser"
	CtxUserIDKey = "userID"
)

// Protect gates a route on a valid session token. The request passes only
// when the bearer token verifies, its subject still exists, and the
// password was not changed after the token was issued.
func Protect(users repository.UserRepository, tokens *helpers.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string
		if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
			token = strings.TrimPrefix(header, "Bearer ")
		}
		if token == "" {
			response.AbortFail(c, http.StatusUnauthorized, "you are not logged in; please log in to get access")
			return
		}

		claims, err := tokens.Verify(token)
		if err != nil {
			response.AbortFail(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		u, err := users.GetByID(c.Request.Context(), claims.Subject)
		if err != nil {
			response.AbortFail(c, http.StatusUnauthorized, "the user belonging to this token no longer exists")
			return
		}

		if u.PasswordChangedAfter(claims.IssuedAt.Time) {
			response.AbortFail(c, http.StatusUnauthorized, "password was changed recently; please log in again")
			return
		}

		c.Set(CtxUserKey, u)
		c.Set(CtxUserIDKey, u.ID)
		c.Next()
	}
}

// RestrictTo rejects authenticated users whose role is outside the allowed
// set. It must run after Protect.
func RestrictTo(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil {
			response.AbortFail(c, http.StatusUnauthorized, "you are not logged in; please log in to get access")
			return
		}
		if _, ok := allowed[u.Role]; !ok {
			response.AbortFail(c, http.StatusForbidden, "you do not have permission to perform this action")
			return
		}
		c.Next()
	}
}

// CurrentUser returns the identity Protect attached, or nil.
func CurrentUser(c *gin.Context) *entity.User {
	v, ok := c.Get(CtxUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*entity.User)
	return u
}
