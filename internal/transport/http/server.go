package http

import (
	"time"

	"github.com/gin-gonic/gin"

	appsvc "docuchat/internal/app"
	"docuchat/internal/bootstrap"
	"docuchat/internal/cache"
	"docuchat/internal/platform/rabbitmq"
	"docuchat/internal/repository"
	"docuchat/internal/transport/http/handler"
	"docuchat/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.StaticFile("/", "web/index.html")
	router.StaticFile("/login", "web/login.html")
	router.StaticFile("/register", "web/register.html")
	router.StaticFile("/chat", "web/chat.html")
	router.StaticFile("/upload", "web/upload.html")
	router.GET("/healthz", healthHandler.Check)

	userRepo := repository.NewUserRepository(app.MySQL)
	threadRepo := repository.NewThreadRepository(app.MySQL)
	messageRepo := repository.NewMessageRepository(app.MySQL)
	documentRepo := repository.NewDocumentRepository(app.MySQL)

	historyCache := cache.NewHistoryCache(
		app.Redis,
		time.Duration(app.Config.Redis.HistoryTTLSeconds)*time.Second,
		time.Duration(app.Config.Redis.HistoryDirtyTTLSeconds)*time.Second,
	)
	tokenDenylist := cache.NewTokenDenylist(app.Redis)
	extractPublisher := rabbitmq.NewExtractJobPublisher(app.MQConn, app.Config.RabbitMQ.ExtractQueue)

	authService := appsvc.NewAuthService(
		userRepo,
		tokenDenylist,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
	)
	chatService := appsvc.NewChatService(
		threadRepo,
		messageRepo,
		documentRepo,
		app.Gemini,
		historyCache,
		app.Config.Chat.DocExcerptLimit,
	)
	documentService := appsvc.NewDocumentService(documentRepo, extractPublisher)

	authHandler := handler.NewAuthHandler(authService)
	chatHandler := handler.NewChatHandler(chatService)
	documentHandler := handler.NewDocumentHandler(documentService, app.Config.Upload.MaxSizeMB)

	authRequired := middleware.AuthJWT(app.Config.Auth.JWTSecret, tokenDenylist)

	v1 := router.Group("/api/v1")
	authGroup := v1.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/logout", authRequired, authHandler.Logout)
	authGroup.GET("/me", authRequired, authHandler.Me)

	chatGroup := v1.Group("/chat")
	chatGroup.Use(authRequired)
	chatGroup.POST("/messages", chatHandler.SendMessage)
	chatGroup.GET("/threads", chatHandler.ListThreads)
	chatGroup.DELETE("/threads/:id", chatHandler.DeleteThread)
	chatGroup.GET("/history", chatHandler.GetHistory)

	docGroup := v1.Group("/documents")
	docGroup.Use(authRequired)
	docGroup.POST("", documentHandler.Upload)
	docGroup.GET("", documentHandler.List)
	docGroup.GET("/:id/download", documentHandler.Download)
	docGroup.DELETE("/:id", documentHandler.Delete)

	return router
}
