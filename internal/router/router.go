package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/techincepto/portal-backend/internal/config"
	"github.com/techincepto/portal-backend/internal/handler"
	"github.com/techincepto/portal-backend/internal/identity"
	"github.com/techincepto/portal-backend/internal/middleware"
	"github.com/techincepto/portal-backend/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	AdminAuth    *handler.AdminAuthHandler
	AdminProfile *handler.AdminProfileHandler
	Announcement *handler.AnnouncementHandler
	Course       *handler.CourseHandler
	Signup       *handler.SignupHandler
	User         *handler.UserHandler
	WS           *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	handlers *Handlers,
	cookies *middleware.SessionCookies,
	provider identity.Provider,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ClientIP keys the login limiter, so forwarding headers are only
	// believed when they come from a configured proxy.
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		log.Warn().Err(err).Strs("trusted_proxies", cfg.TrustedProxies).Msg("Invalid TRUSTED_PROXIES, trusting none")
		_ = router.SetTrustedProxies(nil)
	}

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	// Credentials are only allowed with an explicit list.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
		corsConfig.AllowCredentials = true
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	requireAdmin := middleware.RequireAdminSession(cookies, response.ErrAdminAuthRequired)
	requireIdentity := middleware.RequireIdentity(provider, log)
	requireSelf := middleware.RequireSubject("id", response.ErrForbidden)

	api := router.Group("/api")
	api.Use(middleware.Brotli())

	// ─── 1. Admin Auth ─────────────────────────────────────────────────
	adminAuth := api.Group("/admin")
	{
		adminAuth.POST("/login", handlers.AdminAuth.Login)
		adminAuth.POST("/logout", handlers.AdminAuth.Logout)
		adminAuth.GET("/session",
			middleware.RequireAdminSession(cookies, response.ErrNotAuthenticated),
			handlers.AdminAuth.Session,
		)
	}

	// ─── 2. Admin Profiles (Session Cookie) ────────────────────────────
	profiles := api.Group("/admin/profiles")
	profiles.Use(requireAdmin)
	{
		profiles.GET("", handlers.AdminProfile.List)
		profiles.GET("/:id", handlers.AdminProfile.Get)
	}

	// ─── 3. Announcements ──────────────────────────────────────────────
	announcements := api.Group("/announcements")
	{
		announcements.GET("", handlers.Announcement.List)
		announcements.GET("/:id", handlers.Announcement.Get)
		announcements.GET("/:id/reactions", handlers.Announcement.ListReactions)

		announcements.POST("", requireAdmin, handlers.Announcement.Create)
		announcements.PUT("/:id", requireAdmin, handlers.Announcement.Update)
		announcements.DELETE("/:id", requireAdmin, handlers.Announcement.Delete)

		announcements.POST("/:id/reactions", requireIdentity, handlers.Announcement.AddReaction)
	}

	// ─── 4. Signup ─────────────────────────────────────────────────────
	api.POST("/auth/signup", handlers.Signup.Signup)

	// ─── 5. Courses (Public, Cacheable) ────────────────────────────────
	courses := api.Group("/courses")
	courses.Use(middleware.CacheControl(cfg.PublicCacheSeconds))
	{
		courses.GET("", handlers.Course.List)
		courses.GET("/:id", handlers.Course.Get)
	}

	// ─── 6. Users (Bearer Token) ───────────────────────────────────────
	users := api.Group("/users")
	users.Use(requireIdentity)
	{
		users.POST("/update-activity", handlers.User.UpdateActivity)
		users.POST("/:id/enroll", requireSelf, handlers.User.Enroll)
		users.GET("/:id/enrollment/:courseId", requireSelf, handlers.User.EnrollmentStatus)
		users.POST("/:id/update",
			middleware.RequireSubject("id", response.ErrOwnProfileOnly),
			handlers.User.UpdateProfile,
		)
	}

	// ─── 7. WebSocket ──────────────────────────────────────────────────
	router.GET("/ws/announcements", handlers.WS.AnnouncementFeed)

	return router
}
