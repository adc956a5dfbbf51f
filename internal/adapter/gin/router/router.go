package router

import (
	"net/http"

	"user-deletion-service/api/swagger"
	"user-deletion-service/internal/adapter/gin/handler"
	"user-deletion-service/internal/adapter/gin/middleware"
	"user-deletion-service/pkg/metrics"

	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

// Options toggles the optional HTTP surfaces.
type Options struct {
	ServiceName        string
	CORSAllowedOrigins []string
	Metrics            *metrics.Metrics // nil disables /metrics
	SwaggerEnabled     bool
}

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(userHandler *handler.UserHandler, opts Options, log *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	if cors := middleware.CORS(opts.CORSAllowedOrigins); cors != nil {
		router.Use(cors)
	}
	router.Use(middleware.Metrics(opts.Metrics))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": opts.ServiceName,
		})
	})

	if opts.Metrics != nil {
		router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	if opts.SwaggerEnabled {
		ui := gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
		router.GET("/swagger/*any", func(c *gin.Context) {
			if c.Param("any") == "/doc.json" {
				c.Data(http.StatusOK, "application/json; charset=utf-8", swagger.DocJSON)
				return
			}
			ui(c)
		})
	}

	router.POST("/delete_user", userHandler.DeleteUser)

	return router
}
