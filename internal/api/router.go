package api

import (
	"github.com/gin-gonic/gin"

	"github.com/pivotpoint/backend-go/internal/handler"
	"github.com/pivotpoint/backend-go/internal/middleware"
)

func SetupRouter(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	decisionHandler *handler.DecisionHandler,
	healthHandler *handler.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsAllowedOrigins []string,
) *gin.Engine {
	r := gin.Default()
	r.SetTrustedProxies(nil)

	r.Use(middleware.CORS(corsAllowedOrigins))

	// Public routes
	r.GET("/health", healthHandler.Check)
	r.POST("/api/register", authHandler.Register)
	r.POST("/api/login", authHandler.Login)
	r.POST("/api/auth/login", authHandler.Login)

	// Protected API routes
	api := r.Group("/api")
	api.Use(authMiddleware.RequireAuth())
	{
		api.GET("/user", userHandler.GetUser)
		api.GET("/decisions", decisionHandler.List)
		api.POST("/decisions", decisionHandler.Create)
		api.PUT("/decisions/:id", decisionHandler.Update)
		api.DELETE("/decisions/:id", decisionHandler.Delete)
		api.POST("/decisions/:id/items", decisionHandler.AddItem)
		api.PUT("/items/:id", decisionHandler.UpdateItem)
		api.DELETE("/items/:id", decisionHandler.DeleteItem)
	}

	return r
}
