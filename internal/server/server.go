// Package server assembles the dev backend: a Gin engine that serves the
// prompt tables under /rest/v1 the way a hosted PostgREST project does.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "promptdeck/internal/docs" // Import swagger docs
	"promptdeck/internal/handlers"
	"promptdeck/internal/middleware"
	"promptdeck/internal/validator"
)

// RESTPrefix is where the table endpoints are mounted.
const RESTPrefix = "/rest/v1"

// Options configures NewRouter.
type Options struct {
	Store     handlers.TableStore
	JWTSecret string
}

// NewRouter builds the dev backend engine.
func NewRouter(opts Options) *gin.Engine {
	validator.Register()

	tableHandler := handlers.NewTableHandler(opts.Store)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(cors())

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	rest := router.Group(RESTPrefix)
	rest.Use(middleware.APIKey(opts.JWTSecret))
	rest.GET("/", tableHandler.ListTables)
	rest.GET("/:table", tableHandler.Select)
	rest.POST("/:table", tableHandler.Insert)
	rest.PATCH("/:table", tableHandler.Update)
	rest.DELETE("/:table", tableHandler.Delete)

	return router
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, apikey, Prefer, Accept, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
