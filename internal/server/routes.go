package server

import (
	"quizgen/internal/server/middleware"
	"quizgen/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api", middleware.AuthMiddleware)

	// Quiz routes
	apiRoutes.POST("/questions", routes.GenerateQuestionsHandler)
	apiRoutes.GET("/questions", routes.GetQuestionsHandler)
	apiRoutes.GET("/topics", routes.GetTopicsHandler)

	// Ingestion routes
	apiRoutes.POST("/ingest", routes.IngestHandler)
}
