package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/techincepto/portal-backend/internal/config"
	"github.com/techincepto/portal-backend/internal/database"
	"github.com/techincepto/portal-backend/internal/handler"
	"github.com/techincepto/portal-backend/internal/identity"
	"github.com/techincepto/portal-backend/internal/logger"
	"github.com/techincepto/portal-backend/internal/middleware"
	"github.com/techincepto/portal-backend/internal/repository"
	"github.com/techincepto/portal-backend/internal/router"
	"github.com/techincepto/portal-backend/internal/service"
	"github.com/techincepto/portal-backend/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("env", cfg.AppEnv).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting portal backend")

	for _, w := range cfg.Warnings() {
		log.Warn().Msg(w)
	}
	if cfg.IsProduction() && !cfg.AdminJWTSecretSet {
		log.Fatal().Msg("ADMIN_JWT_SECRET must be set in production")
	}

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to Firebase ───────────────────────────────────────────
	fb, err := database.NewFirebase(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Firebase")
	}
	defer fb.Close()

	// ─── Login Attempt Store ───────────────────────────────────────────
	attempts, rdb := newAttemptStore(ctx, cfg, log)
	if rdb != nil {
		defer rdb.Close()
	}

	// ─── Initialize Repositories ───────────────────────────────────────
	adminRepo := repository.NewAdminRepository(fb.Firestore)
	userRepo := repository.NewUserRepository(fb.Firestore)
	courseRepo := repository.NewCourseRepository(fb.Firestore)
	announcementRepo := repository.NewAnnouncementRepository(fb.Firestore)

	// ─── Initialize Services ──────────────────────────────────────────
	idp := identity.NewFirebase(fb.Auth)
	codec := service.NewSessionCodec(cfg.AdminJWTSecret, cfg.AdminSessionTTL)
	cookies := middleware.NewSessionCookies(codec, cfg.IsProduction())
	limiter := service.NewLoginLimiter(attempts, cfg.LoginMaxAttempts, cfg.LoginLockout)

	authService := service.NewAuthService(adminRepo, limiter, log)
	userService := service.NewUserService(userRepo, courseRepo, idp, service.NewMailer(cfg, log), log)
	profileService := service.NewProfileService(userRepo, courseRepo)
	courseService := service.NewCourseService(courseRepo)
	announcementService := service.NewAnnouncementService(announcementRepo, cfg.DedupReactions(), log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		AdminAuth:    handler.NewAdminAuthHandler(authService, cookies, log),
		AdminProfile: handler.NewAdminProfileHandler(profileService, log),
		Announcement: handler.NewAnnouncementHandler(announcementService, log),
		Course:       handler.NewCourseHandler(courseService, log),
		Signup:       handler.NewSignupHandler(userService, log),
		User:         handler.NewUserHandler(userService, log),
		WS:           handler.NewWSHandler(announcementService, log, cfg.AllowedOrigins),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, cookies, idp, cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// newAttemptStore picks the login limiter backend. The Redis client is
// returned so main can close it.
func newAttemptStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (service.AttemptStore, *redis.Client) {
	if cfg.LoginAttemptStore != config.AttemptStoreRedis {
		log.Info().Msg("Login attempts kept in process memory")
		return service.NewMemoryAttemptStore(), nil
	}

	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	return service.NewRedisAttemptStore(rdb), rdb
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
