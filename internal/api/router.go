package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/campusconnect/alumni-api/internal/api/handler"
	"github.com/campusconnect/alumni-api/internal/api/middleware"
	"github.com/campusconnect/alumni-api/internal/core/ports"
	"github.com/campusconnect/alumni-api/internal/core/service"
	"github.com/campusconnect/alumni-api/internal/infrastructure/config"
	mongodb "github.com/campusconnect/alumni-api/internal/infrastructure/db/mongo"
	redisdb "github.com/campusconnect/alumni-api/internal/infrastructure/db/redis"
	"github.com/campusconnect/alumni-api/internal/realtime"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// notifier carries new-message pushes to the realtime registry; registry and
// notifier are injected so main owns their lifecycle.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger, registry *realtime.Registry, notifier ports.Notifier) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: true,
	}))
	e.Use(echoprometheus.NewMiddleware("campus"))

	// --- Dependencies ---
	tokenTTL, err := time.ParseDuration(cfg.TokenTTL)
	if err != nil {
		tokenTTL = 24 * time.Hour
	}

	identityRepo := mongodb.NewIdentityRepository(db)
	convRepo := mongodb.NewConversationRepository(db)
	postRepo := mongodb.NewPostRepository(db)
	presence := redisdb.NewPresenceStore(rdb)

	authService := service.NewAuthService(identityRepo, cfg.JWTSecret, tokenTTL, log)
	graphService := service.NewGraphService(identityRepo, log)
	messageService := service.NewMessageService(identityRepo, convRepo, notifier, log)
	postService := service.NewPostService(identityRepo, postRepo, log)
	profileService := service.NewProfileService(identityRepo, presence, log)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(profileService)
	followHandler := handler.NewFollowHandler(graphService)
	messageHandler := handler.NewMessageHandler(messageService)
	postHandler := handler.NewPostHandler(postService)
	wsHandler := handler.NewWSHandler(registry, presence, log)

	auth := middleware.Auth(cfg.JWTSecret, identityRepo)

	// --- Auth routes ---
	e.POST("/api/auth/signup", authHandler.SignupStudent)
	e.POST("/api/auth/alumni/signup", authHandler.SignupAlumni)
	e.POST("/api/auth/login", authHandler.Login)
	e.GET("/api/auth/verify", authHandler.Verify, auth)

	// --- Users / network ---
	e.GET("/api/users", userHandler.Sidebar, auth)
	e.GET("/api/users/profile", userHandler.CurrentProfile, auth)
	e.GET("/api/users/:id", userHandler.Profile)
	e.PUT("/api/users/:id", userHandler.UpdateProfile, auth)
	e.GET("/api/network", userHandler.Network, auth)

	// --- Follow graph ---
	follow := e.Group("/api/follow", auth)
	follow.POST("/:id/follow/student/:targetID", followHandler.FollowStudent)
	follow.POST("/:id/follow/alumni/:targetID", followHandler.FollowAlumni)
	follow.POST("/:id/unfollow/student/:targetID", followHandler.UnfollowStudent)
	follow.POST("/:id/unfollow/alumni/:targetID", followHandler.UnfollowAlumni)

	// --- Messaging ---
	e.POST("/api/messages/send/:id", messageHandler.Send, auth)
	e.GET("/api/messages/:id", messageHandler.History, auth)

	// --- Forum ---
	posts := e.Group("/api/posts", auth)
	posts.POST("", postHandler.Create)
	posts.GET("", postHandler.List)
	posts.POST("/:postID/comments", postHandler.AddComment)
	posts.POST("/:postID/like", postHandler.ToggleLike)

	// --- Realtime channel ---
	e.GET("/ws", wsHandler.Realtime, auth)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
