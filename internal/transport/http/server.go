package http

import (
	"github.com/gin-gonic/gin"

	"turbot/internal/bootstrap"
	"turbot/internal/transport/http/handler"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.MaxMultipartMemory = app.Config.MaxUploadBytes()

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	uploadHandler := handler.NewUploadHandler(app.Ingest, app.Config.MaxUploadBytes())
	chatHandler := handler.NewChatHandler(app.Answers, app.Sessions, app.Config.Pipeline.HistoryMaxMessages)
	packageHandler := handler.NewPackageHandler(app.Ingest)
	sessionHandler := handler.NewSessionHandler(app.Sessions)

	api := router.Group("/api")
	api.POST("/upload", uploadHandler.Upload)
	api.POST("/upload-multiple", uploadHandler.UploadMultiple)
	api.POST("/chat", chatHandler.Chat)

	api.GET("/travel-packages", packageHandler.List)
	api.GET("/travel-packages/search", packageHandler.Search)
	api.GET("/travel-packages/:id", packageHandler.Get)

	api.GET("/sessions/:id", sessionHandler.Get)
	api.DELETE("/sessions/:id", sessionHandler.Delete)

	api.GET("/stats", healthHandler.Stats)

	return router
}
