package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"shyftcut/api/db"
	"shyftcut/api/handlers"
	"shyftcut/api/kafka"
	"shyftcut/api/logger"
	"shyftcut/api/middleware"
	"shyftcut/api/mongodb"
	"shyftcut/api/worker"
)

func init() {
	if err := godotenv.Load(); err != nil {
		// Fine in production, where config comes from the environment.
		os.Stderr.WriteString("warning: .env file not found\n")
	}
}

func main() {
	development := os.Getenv("ENV") != "production"
	if err := logger.Init(development, logger.LogLevel(os.Getenv("LOG_LEVEL"))); err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := db.InitDB(); err != nil {
		logger.Get().Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.CloseDB()

	if err := mongodb.InitMongoDB(); err != nil {
		logger.Get().Fatal("failed to initialize MongoDB", zap.Error(err))
	}
	defer mongodb.CloseMongoDB()

	if err := kafka.InitProducer(); err != nil {
		logger.Get().Fatal("failed to initialize Kafka producer", zap.Error(err))
	}
	defer kafka.CloseProducer()

	pool := worker.NewWorkerPool(4, db.IncrementCounter)
	pool.Start()
	defer pool.Stop()
	handlers.Pool = pool

	if err := kafka.StartAIResponseConsumer(pool.Submit); err != nil {
		logger.Get().Fatal("failed to start Kafka consumer", zap.Error(err))
	}

	router := gin.Default()
	router.SetTrustedProxies([]string{"127.0.0.1", "localhost"})
	router.Use(middleware.CorsMiddleware)

	// Stripe posts here unauthenticated; the signature check is the gate.
	router.POST("/webhook/stripe", middleware.StripeWebhookVerifier, handlers.HandleStripeWebhook)

	// EventSource cannot set an Authorization header, so the stream route
	// sits outside the auth group and verifies a query-param token itself.
	router.GET("/api/chat/stream/:sessionID", handlers.HandleChatStream)

	api := router.Group("/api")
	api.Use(middleware.AuthMiddleware)
	{
		api.GET("/subscription", handlers.HandleGetSubscription)
		api.GET("/usage", handlers.HandleGetUsage)

		api.POST("/roadmaps", handlers.HandleCreateRoadmap)
		api.GET("/roadmaps", handlers.HandleListRoadmaps)
		api.GET("/roadmaps/:id", handlers.HandleGetRoadmap)

		api.POST("/chat/messages", handlers.HandleSendChatMessage)
		api.GET("/chat/messages/:sessionID", handlers.HandleGetChatMessages)

		api.POST("/quizzes", handlers.HandleSubmitQuiz)

		api.POST("/notes", handlers.HandleCreateNote)
		api.GET("/notes", handlers.HandleListNotes)
		api.DELETE("/notes/:id", handlers.HandleDeleteNote)

		api.POST("/tasks", handlers.HandleCreateTask)
		api.GET("/tasks", handlers.HandleListTasks)
		api.PATCH("/tasks/:id", handlers.HandleUpdateTask)
		api.DELETE("/tasks/:id", handlers.HandleDeleteTask)

		api.POST("/suggestions", handlers.HandleCreateSuggestion)
		api.POST("/avatar", handlers.HandleGenerateAvatar)

		api.POST("/billing/checkout", handlers.HandleCreateCheckoutSession)
	}

	internal := router.Group("/internal")
	internal.Use(middleware.InternalAuthMiddleware)
	{
		internal.POST("/subscriptions/override", handlers.HandleOverrideSubscription)
		internal.GET("/metrics/workers", handlers.HandleWorkerMetrics)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.Get().Info("server starting", zap.String("port", port))
	if err := router.Run(":" + port); err != nil {
		logger.Get().Fatal("server exited", zap.Error(err))
	}
}
