package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/hirehub/server/config"
	"github.com/hirehub/server/internal/api/handlers"
	"github.com/hirehub/server/internal/api/middleware"
	"github.com/hirehub/server/internal/api/routes"
	"github.com/hirehub/server/internal/cache"
	"github.com/hirehub/server/internal/logger"
	pgrepo "github.com/hirehub/server/internal/repositories/postgres"
	"github.com/hirehub/server/internal/services"
	"github.com/hirehub/server/internal/session"
	"github.com/hirehub/server/internal/storage"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	l := logger.New()

	// Init Firebase Admin (once per process)
	if err := config.InitFirebase(ctx); err != nil {
		log.Fatalf("Firebase init error: %v", err)
	}
	l.Info("Firebase Admin initialized")

	// Init PostgreSQL
	if err := config.InitPostgres(); err != nil {
		log.Fatalf("PostgreSQL init error: %v", err)
	}
	l.Info("PostgreSQL connected")

	// Init Redis
	if err := config.InitRedis(); err != nil {
		log.Fatalf("Redis init error: %v", err)
	}
	l.Info("Redis connected")

	uploader, err := storage.NewGCSUploader(ctx, os.Getenv("RESUME_BUCKET"))
	if err != nil {
		log.Fatalf("GCS init error: %v", err)
	}
	defer uploader.Close()

	db := config.PostgresDB
	provider := config.IdentityProvider
	cookies := session.OptionsFromEnv()
	rcache := cache.NewRedisCache(config.RedisClient)

	users := pgrepo.NewUserRepo(db)
	companies := pgrepo.NewCompanyRepo(db)
	jobs := pgrepo.NewJobRepo(db)
	resumes := pgrepo.NewResumeRepo(db)

	accounts := services.NewAccountService(db, users, companies, provider, l)
	jobSvc := services.NewJobService(jobs, resumes, rcache)
	resumeSvc := services.NewResumeService(resumes, jobs, uploader, uploader, rcache)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(l))

	routes.RegisterRoutes(r, routes.Deps{
		Account:  handlers.NewAccountHandler(accounts, provider, cookies, l),
		Job:      handlers.NewJobHandler(jobSvc),
		Resume:   handlers.NewResumeHandler(resumeSvc),
		Provider: provider,
		Accounts: accounts,
		Cookies:  cookies,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
