package handler

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/student-directory-api/internal/middleware"
	"github.com/noah-isme/student-directory-api/internal/service"
	"github.com/noah-isme/student-directory-api/pkg/logger"
	reqidmiddleware "github.com/noah-isme/student-directory-api/pkg/middleware/requestid"
)

// RouterConfig carries everything NewRouter wires into the engine.
type RouterConfig struct {
	APIPrefix      string
	AllowedOrigins []string
	EnableDocs     bool
	Logger         *zap.Logger
	Metrics        *service.MetricsService
	Students       *StudentHandler
	Observability  *MetricsHandler
}

// NewRouter builds the gin engine with middleware and every route mounted.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Observability == nil {
		cfg.Observability = NewMetricsHandler(cfg.Metrics, nil)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.Metrics(cfg.Metrics))

	r.GET("/health", cfg.Observability.Health)
	r.GET("/ready", cfg.Observability.Ready)
	if cfg.Metrics != nil {
		r.GET("/metrics", cfg.Observability.Prometheus)
		r.GET("/metrics/summary", cfg.Observability.Summary)
	}
	if cfg.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	students := api.Group("/students")
	{
		students.GET("", cfg.Students.List)
		students.POST("", cfg.Students.Create)
		students.GET("/export", cfg.Students.Export)
		students.GET("/:email", cfg.Students.Get)
		students.DELETE("/:email", cfg.Students.Delete)
		students.PATCH("/:email/specialization", cfg.Students.UpdateSpecialization)
	}

	return r
}
