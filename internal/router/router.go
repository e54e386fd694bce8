package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"casedesk/internal/handler"
	"casedesk/internal/middleware"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Client    *handler.ClientHandler
	Document  *handler.DocumentHandler
	Recognize *handler.RecognizeHandler
	Health    *handler.HealthHandler
}

// Options carries the cross-cutting pieces of the engine.
type Options struct {
	Validator      *middleware.TokenValidator
	AllowedOrigins []string
	HTTPObserver   middleware.HTTPObserver
	MetricsHandler http.Handler
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(h Handlers, opts Options) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(opts.HTTPObserver))
	r.Use(middleware.CORS(opts.AllowedOrigins))

	// Health checks
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)
	if opts.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(opts.MetricsHandler))
	}

	v1 := r.Group("/api/v1")

	// Mutating routes require a bearer token when credentials are configured
	auth := middleware.AuthMiddleware(opts.Validator)

	clients := v1.Group("/clients")
	clients.GET("", h.Client.List)
	clients.GET("/export", h.Client.Export)
	clients.GET("/validate", h.Client.Validate)
	clients.GET("/:id", h.Client.GetByID)
	clients.POST("", auth, h.Client.Create)
	clients.PATCH("/:id", auth, h.Client.Update)
	clients.DELETE("/:id", auth, h.Client.Delete)
	clients.PUT("/:id/profile", auth, h.Client.UpdateProfile)
	clients.PATCH("/:id/extracted-data", auth, h.Client.UpdateExtractedData)
	clients.POST("/:id/recognize", auth, h.Recognize.RecognizeForClient)

	documents := v1.Group("/documents")
	documents.GET("", h.Document.List)
	documents.GET("/:id", h.Document.GetByID)
	documents.GET("/:id/download-url", h.Document.DownloadURL)
	documents.POST("", auth, h.Document.Register)
	documents.POST("/upload", auth, h.Document.Upload)
	documents.PATCH("/:id", auth, h.Document.Update)
	documents.DELETE("/:id", auth, h.Document.Delete)
	documents.POST("/:id/recognize", auth, h.Recognize.RecognizeDocument)

	return r
}
