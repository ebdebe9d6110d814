package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hirehub/server/internal/identity"
	"github.com/hirehub/server/internal/services"
	"github.com/hirehub/server/internal/session"
	"github.com/hirehub/server/internal/utils"
)

type apiError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

// SessionAuth verifies the session cookie (revocation enforced), loads the
// account behind it, and exposes user_id / user / role to handlers.
func SessionAuth(provider identity.Provider, accounts services.AccountService, opts session.CookieOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(opts.Name)
		if err != nil || cookie == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
				Code:    utils.CodeUnauthorized,
				Message: "No session cookie found.",
			})
			return
		}

		tok, err := provider.VerifySessionCookie(c.Request.Context(), cookie, true)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
				Code:    utils.CodeUnauthorized,
				Message: "Invalid or expired session cookie.",
			})
			return
		}

		user, err := accounts.CurrentUser(c.Request.Context(), tok.UID)
		if err != nil {
			c.AbortWithStatusJSON(utils.HTTPStatus(err), apiError{
				Code:    utils.CodeUnauthorized,
				Message: "User not found.",
			})
			return
		}

		c.Set("user_id", tok.UID)
		c.Set("user", user)
		c.Set("role", string(user.Role))
		c.Next()
	}
}
