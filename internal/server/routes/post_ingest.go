package routes

import (
	"encoding/json"
	"net/http"

	"quizgen/internal/queue"
	"quizgen/internal/server/middleware"
	"quizgen/pkg/logger"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// IngestHandler publishes an ingestion job for the worker and returns
// its correlation id.
func IngestHandler(c echo.Context) error {
	type ingestBody struct {
		Topic  string `json:"topic" validate:"required"`
		Source string `json:"source" validate:"omitempty,oneof=fs s3"`
		Prefix string `json:"prefix" validate:"required"`
	}

	type ingestResponse struct {
		Message       string `json:"message"`
		CorrelationID string `json:"correlation_id,omitempty"`
	}

	data := new(ingestBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, ingestResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, ingestResponse{
			Message: "Invalid request body",
		})
	}

	correlationID, err := gonanoid.New()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ingestResponse{
			Message: "Internal server error",
		})
	}

	msg := queue.IngestJobMsg{
		CorrelationID: correlationID,
		Topic:         data.Topic,
		Source:        data.Source,
		Prefix:        data.Prefix,
	}
	msgBytes, err := json.Marshal(msg)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ingestResponse{
			Message: "Internal server error",
		})
	}

	ch := c.(*middleware.AppContext).App.Queue
	if err := queue.PublishFIFO(ch, queue.IngestQueue, msgBytes); err != nil {
		logger.Error("[API] Failed to publish ingest job", "topic", data.Topic, "err", err)
		return c.JSON(http.StatusInternalServerError, ingestResponse{
			Message: "Internal server error",
		})
	}

	logger.Info("[API] Queued ingest job", "correlation_id", correlationID, "topic", data.Topic)
	return c.JSON(http.StatusOK, ingestResponse{
		Message:       "Ingestion queued",
		CorrelationID: correlationID,
	})
}
