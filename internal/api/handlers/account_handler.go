package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/hirehub/server/internal/identity"
	"github.com/hirehub/server/internal/models"
	"github.com/hirehub/server/internal/services"
	"github.com/hirehub/server/internal/session"
	"github.com/hirehub/server/internal/utils"
)

type AccountHandler struct {
	accounts services.AccountService
	provider identity.Provider
	cookies  session.CookieOptions
	log      *logrus.Logger
}

func NewAccountHandler(accounts services.AccountService, provider identity.Provider, cookies session.CookieOptions, log *logrus.Logger) *AccountHandler {
	return &AccountHandler{accounts: accounts, provider: provider, cookies: cookies, log: log}
}

type registerRequest struct {
	Role        string `json:"role"`
	CompanyName string `json:"company_name"`
}

type userResponse struct {
	UID         string `json:"uid"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	CompanyName string `json:"company_name"`
}

func userView(u *models.User) userResponse {
	return userResponse{
		UID:         u.FirebaseUID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        string(u.Role),
		CompanyName: u.CompanyName(),
	}
}

// CheckUser is dual-mode: with no body it is a login check for the bearer
// identity; with a {role, company_name} body it registers a new account.
// Both modes answer with a fresh session cookie on success.
func (h *AccountHandler) CheckUser(c *gin.Context) {
	const op = "AccountHandler.CheckUser"

	rawToken, ok := bearerToken(c)
	if !ok {
		writeError(c, utils.E(utils.CodeUnauthorized, op, "missing bearer token", nil))
		return
	}

	ident, err := h.provider.VerifyIDToken(c.Request.Context(), rawToken)
	if err != nil {
		writeError(c, utils.E(utils.CodeUnauthorized, op, "Invalid or expired ID token.", err))
		return
	}

	var req registerRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid request body", err))
			return
		}
	}

	// No payload (or an empty one) means login-check mode.
	if req.Role == "" && req.CompanyName == "" {
		user, err := h.accounts.Login(c.Request.Context(), ident)
		if err != nil {
			writeError(c, err)
			return
		}
		h.respondWithSession(c, http.StatusOK, "User exists", user, rawToken)
		return
	}

	user, err := h.accounts.Register(c.Request.Context(), ident, req.Role, req.CompanyName)
	if err != nil {
		writeError(c, err)
		return
	}
	h.respondWithSession(c, http.StatusCreated, fmt.Sprintf("%s user created successfully", user.Role), user, rawToken)
}

// respondWithSession mints the 14-day session cookie from the original ID
// token and attaches it to the response. A mint failure is a 401 even when a
// registration already committed; the user record stays and the client
// retries login.
func (h *AccountHandler) respondWithSession(c *gin.Context, status int, message string, user *models.User, idToken string) {
	const op = "AccountHandler.CheckUser"

	value, err := h.provider.MintSessionCookie(c.Request.Context(), idToken, session.TTL)
	if err != nil {
		writeError(c, utils.E(utils.CodeSessionIssuance, op, "Failed to create session cookie.", err))
		return
	}

	session.SetCookie(c.Writer, value, session.TTL, h.cookies)
	c.JSON(status, gin.H{
		"message": message,
		"user":    userView(user),
	})
}

// Logout never fails: the cookie is decoded and refresh tokens revoked on a
// best-effort basis, and the clearing Set-Cookie always goes out.
func (h *AccountHandler) Logout(c *gin.Context) {
	if cookie, err := c.Cookie(h.cookies.Name); err == nil && cookie != "" {
		if tok, err := h.provider.VerifySessionCookie(c.Request.Context(), cookie, false); err == nil {
			if err := h.provider.RevokeRefreshTokens(c.Request.Context(), tok.UID); err != nil {
				h.log.WithError(err).WithField("uid", tok.UID).Warn("failed to revoke refresh tokens")
			}
		}
	}

	session.ClearCookie(c.Writer, h.cookies)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *AccountHandler) Me(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": userView(user)})
}
