package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hirehub/server/internal/models"
	"github.com/hirehub/server/internal/utils"
)

func RequireRole(allowed ...models.Role) gin.HandlerFunc {
	allow := map[string]struct{}{}
	for _, a := range allowed {
		allow[strings.ToLower(string(a))] = struct{}{}
	}

	return func(c *gin.Context) {
		v, ok := c.Get("role")
		role, _ := v.(string)
		role = strings.ToLower(strings.TrimSpace(role))

		if !ok || role == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, apiError{
				Code:    utils.CodeForbidden,
				Message: "forbidden",
			})
			return
		}

		if _, ok := allow[role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, apiError{
				Code:    utils.CodeForbidden,
				Message: "forbidden",
			})
			return
		}

		c.Next()
	}
}

func RequireHR() gin.HandlerFunc        { return RequireRole(models.RoleHR) }
func RequireRecruiter() gin.HandlerFunc { return RequireRole(models.RoleRecruiter) }
