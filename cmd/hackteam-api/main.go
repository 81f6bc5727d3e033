package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dimitrije/hackteam-api/internal/config"
	"github.com/dimitrije/hackteam-api/internal/database"
	"github.com/dimitrije/hackteam-api/internal/handlers"
	authmw "github.com/dimitrije/hackteam-api/internal/middleware"
	"github.com/dimitrije/hackteam-api/internal/oauth"
	"github.com/dimitrije/hackteam-api/internal/services"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	logger := newLogger(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := database.Migrate(ctx, cfg.DatabaseURL, logger); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connected")

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry)
	userService := services.NewUserService(db)
	tokenService := services.NewTokenService(db)
	profileService := services.NewProfileService(db, logger)
	teamService := services.NewTeamService(db, logger, cfg.TeamCodeAttempts)
	requestService := services.NewRequestService(db, logger, teamService, profileService)
	catalogService := services.NewCatalogService(db)

	var google handlers.GoogleSignInInterface
	if cfg.Google.ClientID != "" {
		google = oauth.NewGoogle(cfg.Google)
	} else {
		logger.Warn("GOOGLE_CLIENT_ID is not set, sign-in is disabled")
	}

	authHandler := handlers.NewAuthHandler(cfg, google, userService, profileService, tokenService, jwtService, logger)
	userHandler := handlers.NewUserHandler(userService, profileService, logger)
	teamHandler := handlers.NewTeamHandler(teamService, logger)
	requestHandler := handlers.NewRequestHandler(requestService, logger)
	catalogHandler := handlers.NewCatalogHandler(catalogService, logger)

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())
	app.Use(authmw.RequestLogger(logger))

	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Get("/google/consent", authHandler.Consent)
	auth.Get("/google/callback", authHandler.Callback)
	auth.Post("/exchange", authHandler.Exchange)
	auth.Post("/refresh", authHandler.Refresh)
	auth.Post("/logout", authHandler.Logout)

	api.Get("/categories", catalogHandler.ListCategories)
	api.Get("/categories/:categoryId/problem-statements", catalogHandler.ListProblemStatements)

	protected := api.Group("")
	protected.Use(authmw.Auth(jwtService))

	protected.Post("/auth/logout-all", authHandler.LogoutAll)

	protected.Get("/users/profile", userHandler.GetProfile)
	protected.Get("/users/profile/complete", userHandler.GetCompleteProfile)
	protected.Patch("/users/profile", userHandler.UpdateProfile)
	protected.Post("/users/profile/college-student", userHandler.CreateCollegeStudent)
	protected.Post("/users/profile/school-student", userHandler.CreateSchoolStudent)
	protected.Post("/users/profile/researcher", userHandler.CreateResearcher)
	protected.Post("/users/profile/startup", userHandler.CreateStartup)
	protected.Get("/users/search", userHandler.Search)

	participant := protected.Group("")
	participant.Use(authmw.RequireProfile(userService))

	participant.Post("/teams", teamHandler.Create)
	participant.Get("/teams/mine", teamHandler.GetMine)
	participant.Get("/teams/:teamId", teamHandler.Get)

	participant.Get("/requests/pending", requestHandler.ListPending)
	participant.Get("/requests/sent", requestHandler.ListSent)
	participant.Post("/requests/:requestId/respond", requestHandler.Respond)
	participant.Delete("/requests/:requestId", requestHandler.Cancel)

	api.Get("/health", func(c *drift.Context) {
		_ = c.JSON(200, map[string]string{"status": "ok"})
	})

	go cleanupTokens(ctx, tokenService, logger)
	go sweepSignIns(ctx, authHandler, logger)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           app,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("Server starting on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Shutdown failed: %v", err)
	}

	logger.Info("Server exited")
}

func newLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.IsProduction() || cfg.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return logger
}

func cleanupTokens(ctx context.Context, tokens *services.TokenService, logger *logrus.Logger) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := tokens.CleanupExpired(ctx)
			if err != nil {
				logger.WithError(err).Warn("failed to clean up expired refresh tokens")
				continue
			}
			logger.WithField("removed", removed).Debug("expired refresh tokens cleaned up")
		}
	}
}

// sweepSignIns drops abandoned OAuth states and unclaimed sign-in codes.
func sweepSignIns(ctx context.Context, auth *handlers.AuthHandler, logger *logrus.Logger) {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := auth.Sweep(); removed > 0 {
				logger.WithField("removed", removed).Debug("expired sign-in tickets swept")
			}
		}
	}
}
