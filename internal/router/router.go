package router

import (
	"context"
	"net/http"
	"time"

	"github.com/articlehub/articlehub-backend/internal/config"
	"github.com/articlehub/articlehub-backend/internal/handler"
	"github.com/articlehub/articlehub-backend/internal/logger"
	"github.com/articlehub/articlehub-backend/internal/middleware"
	"github.com/articlehub/articlehub-backend/internal/response"
	"github.com/articlehub/articlehub-backend/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth    *handler.AuthHandler
	AppUser *handler.AppUserHandler
	Chat    *handler.ChatHandler
	WS      *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// ctx bounds background work owned by the router, such as the rate limiter sweep.
func SetupRouter(
	ctx context.Context,
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())
	router.Use(logger.RequestLogger(log))
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	authLimiter := middleware.NewRateLimiter(ctx, cfg.AuthRateLimit, time.Minute)
	requireAppUser := middleware.RequireAppUserJWT(authService)

	// ─── 1. App Users (admin domain) ───────────────────────────────────
	appUser := router.Group("/appuser")
	{
		appUser.POST("/signup", authLimiter.Middleware(), handlers.Auth.AppUserSignup)
		appUser.POST("/login", authLimiter.Middleware(), handlers.Auth.AppUserLogin)

		appUser.GET("/me", requireAppUser, handlers.Auth.Me)
		appUser.GET("/getAllAppuser", requireAppUser, handlers.AppUser.List)
		appUser.GET("/getAppuser/:id", requireAppUser, handlers.AppUser.Get)
		appUser.POST("/addnewAppuser", requireAppUser, handlers.AppUser.Create)
		appUser.POST("/updateUser", requireAppUser, handlers.AppUser.Update)
		appUser.POST("/updateUserStatus", requireAppUser, handlers.AppUser.UpdateStatus)
		appUser.DELETE("/deleteUser/:id", requireAppUser, handlers.AppUser.Delete)
	}

	// ─── 2. Students ───────────────────────────────────────────────────
	student := router.Group("/student")
	{
		student.POST("/signup", authLimiter.Middleware(), handlers.Auth.StudentSignup)
		student.POST("/login", authLimiter.Middleware(), handlers.Auth.StudentLogin)
		student.GET("/me", middleware.RequireStudentJWT(authService), handlers.Auth.Me)
	}

	// ─── 3. Chat ───────────────────────────────────────────────────────
	chat := router.Group("/chat")
	{
		chat.GET("/users", requireAppUser, handlers.Chat.ListUsers)
		chat.GET("/userMessages/:username", handlers.Chat.UserMessages)
		chat.GET("/export/:username", requireAppUser, handlers.Chat.Export)
		chat.POST("/send", middleware.OptionalJWT(authService), handlers.Chat.Send)
	}

	// ─── 4. WebSocket ──────────────────────────────────────────────────
	ws := router.Group("/ws")
	ws.Use(middleware.OptionalJWT(authService))
	{
		ws.GET("/chat/:username", handlers.WS.ChatStream)
	}

	return router
}
