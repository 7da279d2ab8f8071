package routes

import (
	"net/http"

	"quizgen/internal/server/middleware"
	"quizgen/pkg/graphstore"
	"quizgen/pkg/logger"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

// GetQuestionsHandler lists the stored questions for a topic.
func GetQuestionsHandler(c echo.Context) error {
	type getQuestionsQuery struct {
		Topic string `query:"topic" validate:"required"`
	}

	type getQuestionsResponse struct {
		Message   string                `json:"message"`
		Questions []graphstore.Question `json:"questions"`
	}

	query := new(getQuestionsQuery)
	if err := c.Bind(query); err != nil {
		return c.JSON(http.StatusBadRequest, getQuestionsResponse{
			Message: "Invalid request",
		})
	}
	if err := c.Validate(query); err != nil {
		return c.JSON(http.StatusBadRequest, getQuestionsResponse{
			Message: "Invalid request",
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	questions, err := graphstore.New(app.DBConn).ListQuestions(ctx, query.Topic)
	if err != nil {
		logger.Error("[API] Failed to list questions", "topic", query.Topic, "err", err)
		return c.JSON(http.StatusInternalServerError, getQuestionsResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, getQuestionsResponse{
		Message:   "OK",
		Questions: questions,
	})
}
