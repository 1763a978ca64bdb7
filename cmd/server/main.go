package main

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"blogapi/internal/auth"
	"blogapi/internal/config"
	"blogapi/internal/database"
	"blogapi/internal/handlers"
	"blogapi/internal/mail"
	"blogapi/internal/middleware"
	"blogapi/internal/queue"
	"blogapi/internal/repository"
	"blogapi/internal/services"
	"blogapi/internal/storage"
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.ParseConfig()
	if err != nil {
		logrus.WithError(err).Fatal("failed to parse configuration")
	}

	gin.SetMode(cfg.GinMode)

	if err := database.Connect(cfg); err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}
	if err := database.Migrate(); err != nil {
		logrus.WithError(err).Fatal("failed to run migrations")
	}

	jwtManager, err := auth.NewManager(cfg.JWTSecret, cfg.JWTIssuer, time.Duration(cfg.JWTExpirationMinutes)*time.Minute)
	if err != nil {
		logrus.WithError(err).Fatal("failed to initialize JWT manager")
	}

	store, err := storage.NewStorage(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("failed to initialize storage")
	}

	userRepo := repository.NewUserRepository(database.GetDB())
	tagRepo := repository.NewTagRepository(database.GetDB())
	postRepo := repository.NewPostRepository(database.GetDB())
	imageRepo := repository.NewImageRepository(database.GetDB())
	commentRepo := repository.NewCommentRepository(database.GetDB())

	// Background email delivery. When the broker is unreachable the API
	// still serves requests, it just stops enqueueing notifications.
	var publisher queue.Publisher
	queueClient, err := queue.NewRabbitMQClient(cfg)
	if err != nil {
		logrus.WithError(err).Warn("RabbitMQ unavailable, emails disabled")
	} else {
		defer queueClient.Close()
		publisher = queueClient

		worker := mail.NewWorker(mail.NewMailer(cfg), userRepo, cfg.PublicBaseURL)
		if err := queueClient.Consume(worker.Handle); err != nil {
			logrus.WithError(err).Fatal("failed to start task consumer")
		}
	}

	authService := services.NewAuthService(userRepo, publisher)
	postService := services.NewPostService(postRepo, tagRepo, imageRepo)
	imageService := services.NewImageService(imageRepo, store, cfg.StoragePublicBaseURL)
	commentService := services.NewCommentService(commentRepo, postRepo, publisher, cfg.PublicBaseURL)

	authHandler := handlers.NewAuthHandler(authService, jwtManager)
	postHandler := handlers.NewPostHandler(postService, imageService)
	imageHandler := handlers.NewImageHandler(imageService, cfg.MaxUploadSizeBytes)
	commentHandler := handlers.NewCommentHandler(commentService)

	r := gin.New()
	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.CORSMiddleware())
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if cfg.StorageType == storage.TypeLocal {
		r.Static("/files", cfg.StorageLocalDir)
	}

	api := r.Group("/api/v1")
	{
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)
		api.POST("/token/refresh", authHandler.RefreshToken)
		api.POST("/token/verify", authHandler.VerifyToken)

		api.POST("/upload-image", middleware.RequireAuth(jwtManager), imageHandler.Upload)

		posts := api.Group("/posts")
		{
			posts.GET("", middleware.OptionalAuth(jwtManager), postHandler.List)
			posts.POST("", middleware.RequireAuth(jwtManager), postHandler.Create)
			posts.GET("/:id", postHandler.Get)
			posts.POST("/:id/archive", middleware.RequireAuth(jwtManager), middleware.RequirePostOwner(), postHandler.Archive)
			posts.DELETE("/:id/archive", middleware.RequireAuth(jwtManager), middleware.RequirePostOwner(), postHandler.Unarchive)
			posts.POST("/:id/review", middleware.RequireAuth(jwtManager), postHandler.Review)
		}

		api.POST("/comments", commentHandler.Create)
	}

	logrus.WithField("port", cfg.HTTPPort).Info("server starting")
	if err := r.Run(":" + cfg.HTTPPort); err != nil {
		logrus.WithError(err).Fatal("failed to start server")
	}
}
