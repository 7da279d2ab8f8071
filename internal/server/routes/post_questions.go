package routes

import (
	"net/http"

	"quizgen/internal/server/middleware"
	"quizgen/pkg/graphstore"
	"quizgen/pkg/logger"
	"quizgen/pkg/quiz"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

// GenerateQuestionsHandler generates quiz questions for a topic.
func GenerateQuestionsHandler(c echo.Context) error {
	type generateQuestionsBody struct {
		Topic        string `json:"topic" validate:"required"`
		NumQuestions int    `json:"num_questions" validate:"required,min=1,max=10"`
		Difficulty   string `json:"difficulty" validate:"required"`
		QuestionType string `json:"question_type" validate:"required"`
	}

	type generateQuestionsResponse struct {
		Message   string   `json:"message"`
		Questions []string `json:"questions,omitempty"`
	}

	data := new(generateQuestionsBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, generateQuestionsResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, generateQuestionsResponse{
			Message: "Invalid request body",
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	generator := quiz.NewGenerator(quiz.NewGeneratorParams{
		Retriever: app.Retriever,
		Store:     graphstore.New(app.DBConn),
		AiClient:  app.AiClient,
	})

	questions, err := generator.Generate(ctx, quiz.GenerateParams{
		Topic:        data.Topic,
		NumQuestions: data.NumQuestions,
		Difficulty:   quiz.Difficulty(data.Difficulty),
		QuestionType: quiz.QuestionType(data.QuestionType),
	})
	if err != nil {
		logger.Error("[API] Question generation failed", "topic", data.Topic, "err", err)
		// Questions generated before the failure are still returned.
		return c.JSON(http.StatusInternalServerError, generateQuestionsResponse{
			Message:   "Question generation failed",
			Questions: questions,
		})
	}

	return c.JSON(http.StatusOK, generateQuestionsResponse{
		Message:   "Questions generated successfully",
		Questions: questions,
	})
}
