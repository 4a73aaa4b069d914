// Package main runs the campus events HTTP server with WebSocket and graceful shutdown.
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

	"github.com/campus-events/backend/config"
	"github.com/campus-events/backend/internal/auth"
	"github.com/campus-events/backend/internal/boards"
	"github.com/campus-events/backend/internal/columns"
	"github.com/campus-events/backend/internal/events"
	"github.com/campus-events/backend/internal/extraction"
	"github.com/campus-events/backend/internal/middleware"
	"github.com/campus-events/backend/internal/models"
	"github.com/campus-events/backend/internal/notifications"
	"github.com/campus-events/backend/internal/realtime"
	"github.com/campus-events/backend/internal/registrations"
	"github.com/campus-events/backend/internal/teams"
	"github.com/campus-events/backend/internal/worker"
	"github.com/campus-events/backend/pkg/database"
	"github.com/campus-events/backend/pkg/queue"
	"github.com/campus-events/backend/pkg/redis"
	"github.com/campus-events/backend/pkg/response"
	"github.com/campus-events/backend/pkg/storage"
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

	var s3Client *storage.S3
	if cfg.AWS.Region != "" {
		s3Cfg := storage.S3Config{
			Region:               cfg.AWS.Region,
			AccessKeyID:          cfg.AWS.AccessKeyID,
			SecretAccessKey:      cfg.AWS.SecretAccessKey,
			AssetsBucket:         cfg.AWS.AssetsBucket,
			PresignExpireMinutes: cfg.AWS.PresignExpireMinutes,
		}
		s3Client, err = storage.NewS3(ctx, s3Cfg, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		}
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	redisPubSub := realtime.NewRedisPubSub(rdb.Client, logger)
	hub := realtime.NewHub(logger, redisPubSub, redisPubSub)
	jobQueue := queue.NewQueue(rdb.Client, logger)

	// Auth
	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, jwtService, logger)

	// Events
	eventRepo := events.NewRepository(pool)
	eventHandler := events.NewHandler(eventRepo, s3Client, logger)

	// Teams and registrations
	teamRepo := teams.NewRepository(pool)
	registrationRepo := registrations.NewRepository(pool)
	registrationHandler := registrations.NewHandler(registrationRepo, eventRepo, authRepo, teamRepo, hub, jobQueue, s3Client, logger)
	teamHandler := teams.NewHandler(teamRepo, eventRepo, authRepo, registrationRepo, hub, jobQueue, logger)

	// Custom columns and filters
	columnRepo := columns.NewRepository(pool)
	columnHandler := columns.NewHandler(columnRepo, registrationRepo, logger)

	// Task boards
	boardRepo := boards.NewRepository(pool)
	boardHandler := boards.NewHandler(boardRepo, hub, jobQueue, logger)

	// Notifications
	notificationRepo := notifications.NewRepository(pool)
	notificationHandler := notifications.NewHandler(notificationRepo, logger)
	notificationProcessor := worker.NewNotificationProcessor(jobQueue, notificationRepo, hub, logger)

	// Form-scan extraction
	extractionClient := extraction.NewClient(cfg.Extractor, logger)
	extractionHandler := extraction.NewHandler(extractionClient, s3Client, logger)

	jwtValidate := func(token string) (userID, role string, err error) {
		claims, err := jwtService.Validate(token)
		if err != nil {
			return "", "", err
		}
		return claims.UserID.String(), claims.Role, nil
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
		authGroup.POST("/signup", authHandler.Signup)
		authGroup.POST("/login", authHandler.Login)
	}

	staffOnly := middleware.RequireRole(models.StaffRoles...)
	eventStaff := events.RequireEventStaffAccess(eventRepo)

	// Protected API (JWT required)
	api := router.Group("")
	api.Use(middleware.JWT(jwtService))
	{
		// Profile and user management
		api.GET("/me", authHandler.Me)
		api.PATCH("/me", authHandler.UpdateMe)
		api.GET("/users", staffOnly, authHandler.List)
		api.PATCH("/users/:id/role", middleware.RequireRole(string(models.RoleAdmin)), authHandler.UpdateRole)

		// Events
		api.GET("/events", eventHandler.List)
		api.POST("/events", staffOnly, eventHandler.Create)
		api.GET("/events/:id", eventHandler.GetByID)
		api.PATCH("/events/:id", eventStaff, eventHandler.Update)
		api.PUT("/events/:id/staff", middleware.RequireRole(string(models.RoleAdmin), string(models.RoleOverallHead)), eventHandler.SetStaff)
		api.POST("/events/:id/image", eventStaff, eventHandler.UploadImage)
		api.DELETE("/events/:id", middleware.RequireRole(string(models.RoleAdmin)), eventHandler.Delete)

		// Registration workflow
		api.GET("/events/:id/registration-status", registrationHandler.Status)
		api.POST("/events/:id/register", registrationHandler.Register)
		api.GET("/registrations", registrationHandler.ListMine)

		// Participant management (event staff)
		api.GET("/events/:id/registrations", eventStaff, registrationHandler.ListByEvent)
		api.POST("/events/:id/registrations/filter", eventStaff, columnHandler.FilterParticipants)
		api.PATCH("/events/:id/registrations/:rid/status", eventStaff, registrationHandler.UpdateStatus)
		api.PATCH("/events/:id/registrations/:rid/presentee", eventStaff, registrationHandler.SetPresentee)
		api.POST("/events/:id/registrations/:rid/admit-card", eventStaff, registrationHandler.UploadAdmitCard)

		// Teams
		api.POST("/events/:id/teams", teamHandler.Create)
		api.GET("/events/:id/teams", teamHandler.Search)
		api.GET("/events/:id/teams/all", eventStaff, teamHandler.ListByEvent)
		api.GET("/teams/:id", teamHandler.Get)
		api.POST("/teams/:id/join", teamHandler.Join)

		// Custom columns
		api.POST("/columns", staffOnly, columnHandler.Create)
		api.GET("/columns", staffOnly, columnHandler.List)
		api.PATCH("/columns/:id/cells/:rowID", staffOnly, columnHandler.SetCell)

		// Task boards
		api.POST("/boards", staffOnly, boardHandler.CreateBoard)
		api.GET("/boards", staffOnly, boardHandler.ListBoards)
		api.GET("/boards/:id", boardHandler.GetBoard)
		api.PUT("/boards/:id/members", boardHandler.SetMembers)
		api.DELETE("/boards/:id", boardHandler.DeleteBoard)
		api.POST("/boards/:id/tasks", boardHandler.CreateTask)
		api.PATCH("/boards/:id/tasks/:tid", boardHandler.UpdateTask)
		api.PATCH("/boards/:id/tasks/:tid/move", boardHandler.MoveTask)
		api.PATCH("/boards/:id/tasks/:tid/subtasks/:sid/toggle", boardHandler.ToggleSubtask)
		api.DELETE("/boards/:id/tasks/:tid", boardHandler.DeleteTask)

		// Notifications
		api.GET("/notifications", notificationHandler.List)
		api.PATCH("/notifications/:id/read", notificationHandler.MarkRead)
		api.POST("/notifications/read-all", notificationHandler.MarkAllRead)

		// Form-scan extraction
		api.POST("/extraction/scan", staffOnly, extractionHandler.Scan)
	}

	// WebSocket (token in query; no Authorization header required)
	router.GET("/ws", realtime.ServeWs(hub, logger, jwtValidate))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Background worker (notification dispatch)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	go notificationProcessor.Run(workerCtx)

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	workerCancel()
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
