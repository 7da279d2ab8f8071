package routes

import (
	"net/http"

	"quizgen/internal/server/middleware"
	"quizgen/pkg/graphstore"
	"quizgen/pkg/logger"

	"github.com/labstack/echo/v4"
)

// GetTopicsHandler lists the stored topics with their node counts.
func GetTopicsHandler(c echo.Context) error {
	type getTopicsResponse struct {
		Message string             `json:"message"`
		Topics  []graphstore.Topic `json:"topics"`
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	topics, err := graphstore.New(app.DBConn).ListTopics(ctx)
	if err != nil {
		logger.Error("[API] Failed to list topics", "err", err)
		return c.JSON(http.StatusInternalServerError, getTopicsResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, getTopicsResponse{
		Message: "OK",
		Topics:  topics,
	})
}
