// Package main runs the live presentation quiz server with WebSocket and graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/slidepulse/backend/config"
	"github.com/slidepulse/backend/internal/auth"
	"github.com/slidepulse/backend/internal/discussion"
	"github.com/slidepulse/backend/internal/feedback"
	"github.com/slidepulse/backend/internal/middleware"
	"github.com/slidepulse/backend/internal/presentations"
	"github.com/slidepulse/backend/internal/quizlive"
	"github.com/slidepulse/backend/internal/realtime"
	"github.com/slidepulse/backend/pkg/database"
	"github.com/slidepulse/backend/pkg/redis"
	"github.com/slidepulse/backend/pkg/response"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	redisPubSub := realtime.NewRedisPubSub(rdb.Client, logger)
	hub := realtime.NewHub(logger, redisPubSub, redisPubSub)

	// Auth
	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, jwtService, logger)

	// Presentations (read side + room diagnostics)
	presentationRepo := presentations.NewRepository(pool)
	presentationHandler := presentations.NewHandler(presentationRepo)

	// Live quiz coordinator. The progress tracker is in-memory only: active
	// quiz pointers do not survive a restart and must be re-started by the
	// speaker.
	quizRepo := quizlive.NewRepository(pool)
	progress := quizlive.NewProgressTracker()
	coordinator := quizlive.NewCoordinator(quizRepo, progress, hub, logger)
	quizHandler := quizlive.NewHandler(coordinator)

	// Feedback / discussion fan-out
	feedbackRepo := feedback.NewRepository(pool)
	feedbackHandler := feedback.NewHandler(feedbackRepo, hub)
	discussionRepo := discussion.NewRepository(pool)
	discussionHandler := discussion.NewHandler(discussionRepo, hub)

	resolveIdentity := func(token string) (quizlive.Identity, error) {
		claims, err := jwtService.Validate(token)
		if err != nil {
			return quizlive.Identity{}, err
		}
		return quizlive.Identity{
			UserID:      claims.UserID,
			Role:        claims.Role,
			DisplayName: claims.DisplayName,
		}, nil
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Auth (public)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/register", authHandler.Register)
	}

	// Protected API (JWT required)
	api := router.Group("")
	api.Use(middleware.JWT(jwtService))
	{
		// Users (organizer only; for speaker assignment etc.)
		api.GET("/users", middleware.RequireRole("organizer"), authHandler.List)

		// Presentations
		api.GET("/presentations", presentationHandler.List)
		api.GET("/presentations/:id", presentationHandler.GetByID)
		api.GET("/presentations/:id/audience_count", presentationHandler.AudienceCount(hub))

		// Quizzes (read side; progression itself runs over the WebSocket)
		api.GET("/quizzes/:id", quizHandler.GetByID)
		api.GET("/quizzes/:id/state", quizHandler.GetState)
		api.GET("/quizzes/:id/stats", middleware.RequireRole("organizer", "speaker"), quizHandler.GetStats)

		// Feedback
		api.POST("/presentations/:id/feedback", feedbackHandler.Create)
		api.GET("/presentations/:id/feedback", middleware.RequireRole("organizer", "speaker"), feedbackHandler.ListByPresentation)

		// Discussion
		api.POST("/presentations/:id/comments", discussionHandler.Create)
		api.GET("/presentations/:id/comments", discussionHandler.ListByPresentation)
		api.PATCH("/comments/:id", discussionHandler.Update)
		api.DELETE("/comments/:id", discussionHandler.Delete)
	}

	// WebSocket (token in query; no Authorization header required)
	router.GET("/ws", realtime.ServeWs(hub, logger, resolveIdentity, coordinator))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
