package middleware

import (
	"github.com/MicahParks/keyfunc/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/rabbitmq/amqp091-go"

	"quizgen/pkg/ai"
	"quizgen/pkg/retrieval"
)

// AppUser is the authenticated caller attached by the auth middleware.
type AppUser struct {
	UserID string
	Role   string
}

// App holds the shared application dependencies handlers reach through
// the request context.
type App struct {
	DBConn       *pgxpool.Pool
	Queue        *amqp091.Channel
	Key          *keyfunc.Keyfunc
	AiClient     ai.QuizAIClient
	Retriever    *retrieval.Coordinator
	MasterAPIKey string
}

type AppContext struct {
	echo.Context
	App  *App
	User *AppUser
}

// AppContextMiddleware wraps every request context with the shared App
// dependencies.
func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &AppContext{c, app, nil}
			return next(cc)
		}
	}
}
