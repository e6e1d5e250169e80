package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/natours-auth/internal/application"
	"github.com/oksasatya/natours-auth/internal/domain/entity"
	"github.com/oksasatya/natours-auth/pkg/apperror"
	"github.com/oksasatya/natours-auth/pkg/helpers"
)

const (
	CtxUserKey   = "user"
	CtxClaimsKey = "claims"
)

const MsgForbidden = "You do not have permission to perform this action"

// Protect authenticates the request from the Authorization bearer token or
// the jwt cookie and stores the user and claims in the context.
func Protect(auth *application.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, claims, err := auth.Protect(c.Request.Context(), tokenFrom(c))
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		c.Set(CtxUserKey, u)
		c.Set(CtxClaimsKey, claims)
		c.Next()
	}
}

// RestrictTo allows only the given roles. It must run after Protect.
func RestrictTo(roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil || !slices.Contains(roles, u.Role) {
			_ = c.Error(apperror.New(MsgForbidden, http.StatusForbidden))
			c.Abort()
			return
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) *entity.User {
	v, ok := c.Get(CtxUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*entity.User)
	return u
}

func CurrentClaims(c *gin.Context) *helpers.Claims {
	v, ok := c.Get(CtxClaimsKey)
	if !ok {
		return nil
	}
	cl, _ := v.(*helpers.Claims)
	return cl
}

func tokenFrom(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if v, err := c.Cookie(helpers.TokenCookie); err == nil {
		return v
	}
	return ""
}
