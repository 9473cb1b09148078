package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"docassist/internal/config"
	"docassist/internal/domain"
	"docassist/internal/handler"
	"docassist/internal/middleware"
	"docassist/internal/service"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	File      *handler.FileHandler
	ToolRun   *handler.ToolRunHandler
	Normalize *handler.NormalizeHandler
	View      *handler.ViewHandler
	Health    *handler.HealthHandler
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(authSvc service.AuthService, h Handlers, cors config.CORSConfig, logger *zap.Logger) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cors))

	// Health checks
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)

	v1 := r.Group("/api/v1")

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	files := protected.Group("/files")
	files.POST("/upload", h.File.Upload)
	files.GET("", h.File.List)
	files.GET("/:id", h.File.GetByID)
	files.DELETE("/:id", middleware.RequireRole(domain.RoleAdmin), h.File.Delete)

	runs := protected.Group("/tool-runs")
	runs.POST("", h.ToolRun.Run)
	runs.GET("", h.ToolRun.List)
	runs.GET("/export", h.ToolRun.Export)
	runs.GET("/:id", h.ToolRun.GetByID)

	protected.POST("/normalize", h.Normalize.Normalize)

	views := protected.Group("/views")
	views.POST("", h.View.Open)
	views.GET("/:id", h.View.Get)
	views.DELETE("/:id", h.View.Close)
	views.POST("/:id/run", h.View.Replace)
	views.POST("/:id/preview", h.View.Preview)
	views.DELETE("/:id/preview", h.View.ClosePreview)
	views.POST("/:id/edit", h.View.StartEdit)
	views.PUT("/:id/edit", h.View.UpdateDraft)
	views.POST("/:id/edit/save", h.View.Save)
	views.POST("/:id/edit/cancel", h.View.Cancel)
	views.POST("/:id/copy", h.View.Copy)

	return r
}
