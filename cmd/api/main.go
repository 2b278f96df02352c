// Command api runs the community platform REST backend.
//
//	@title			Community Hub API
//	@version		1.0
//	@description	REST backend for the community platform: users, sponsors, activities, events, and news.
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"communityhub/config"
	"communityhub/internal/adapters/auth"
	"communityhub/internal/adapters/email"
	"communityhub/internal/adapters/storage"
	delivery "communityhub/internal/delivery/http"
	"communityhub/internal/delivery/http/controllers"
	"communityhub/internal/delivery/http/middleware"
	"communityhub/internal/repository/postgres"
	"communityhub/internal/services"
)

func main() {
	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "err", err)
		os.Exit(1)
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	activityRepo := postgres.NewActivityRepository(db)
	registrationRepo := postgres.NewRegistrationRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	newsRepo := postgres.NewNewsRepository(db)
	sponsorRepo := postgres.NewSponsorRepository(db)
	postRepo := postgres.NewSponsorPostRepository(db)
	offerRepo := postgres.NewSponsorOfferRepository(db)

	// Adapters
	hasher := auth.NewBcryptHasher(0)
	issuer := auth.NewJWTIssuer(cfg.JWTSecret)
	verifier := auth.NewJWTVerifier(cfg.JWTSecret)
	mailer, err := email.NewMailer(logger, email.MailerConfig{
		Provider:    cfg.MailProvider,
		FromAddress: cfg.MailFromAddress,
		FromName:    cfg.MailFromName,
		SES: email.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKey,
			SecretAccessKey: cfg.SESSecretKey,
		},
	})
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}
	uploader := storage.NewS3Uploader(logger, storage.S3Config{
		Endpoint:        cfg.StorageEndpoint,
		Bucket:          cfg.StorageBucket,
		AccessKeyID:     cfg.StorageAccessKey,
		SecretAccessKey: cfg.StorageSecretKey,
		PublicURL:       cfg.StoragePublicURL,
	})

	// Services
	emailSvc := services.NewEmailService(logger, mailer, email.NewTemplateRenderer())
	authSvc := services.NewAuthService(userRepo, sponsorRepo, hasher, issuer, cfg.TokenExpiry, emailSvc)
	userSvc := services.NewUserService(userRepo, sponsorRepo)
	activitySvc := services.NewActivityService(logger, activityRepo, registrationRepo, userRepo, emailSvc, cfg.FrontendURL)
	eventSvc := services.NewEventService(logger, eventRepo)
	newsSvc := services.NewNewsService(newsRepo)
	sponsorSvc := services.NewSponsorService(logger, sponsorRepo, postRepo, offerRepo, userRepo)
	adminSvc := services.NewAdminService(userRepo, hasher)

	mux := delivery.NewRouter(logger, verifier, delivery.Controllers{
		Auth:     controllers.NewAuthController(logger, authSvc),
		User:     controllers.NewUserController(logger, userSvc),
		Activity: controllers.NewActivityController(logger, activitySvc),
		Event:    controllers.NewEventController(logger, eventSvc),
		News:     controllers.NewNewsController(logger, newsSvc),
		Sponsor:  controllers.NewSponsorController(logger, sponsorSvc),
		Admin:    controllers.NewAdminController(logger, adminSvc),
		Image:    controllers.NewImageController(logger, uploader),
	})

	handler := middleware.CORS(cfg.AllowedOrigins, middleware.LoggingMiddleware(logger, mux))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
	}
	logger.Info("server stopped")
}
