package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/hirehub/server/internal/api/handlers"
	"github.com/hirehub/server/internal/api/middleware"
	"github.com/hirehub/server/internal/identity"
	"github.com/hirehub/server/internal/services"
	"github.com/hirehub/server/internal/session"
)

type Deps struct {
	Account *handlers.AccountHandler
	Job     *handlers.JobHandler
	Resume  *handlers.ResumeHandler

	Provider identity.Provider
	Accounts services.AccountService
	Cookies  session.CookieOptions
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Bearer-token entry points; these mint the session cookie themselves.
	r.POST("/check-user", d.Account.CheckUser)
	r.POST("/session-logout", d.Account.Logout)

	// Cookie-authenticated routes
	auth := r.Group("/")
	auth.Use(middleware.SessionAuth(d.Provider, d.Accounts, d.Cookies))

	auth.GET("/me", d.Account.Me)

	recruiter := auth.Group("/recruiter")
	recruiter.Use(middleware.RequireRecruiter())
	recruiter.POST("/jobs", d.Job.Create)
	recruiter.GET("/jobs", d.Job.ListMine)
	recruiter.GET("/summary", d.Job.Summary)
	recruiter.POST("/resumes", d.Resume.Upload)
	recruiter.GET("/resumes", d.Resume.ListMine)

	hr := auth.Group("/hr")
	hr.Use(middleware.RequireHR())
	hr.GET("/candidates", d.Resume.Candidates)
	hr.GET("/resumes/:id/url", d.Resume.FileURL)
	hr.PATCH("/resumes/:id/status", d.Resume.SetStatus)
}
