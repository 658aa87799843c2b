package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/workday-backend-go/internal/config"
	"github.com/cmlabs-hris/workday-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/workday-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	appConfig config.AppConfig,
	logger *slog.Logger,
	JWTService jwt.Service,
	workdayHandler WorkdayHandler,
	reportHandler ReportHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   appConfig.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	ja := JWTService.JWTAuth()

	r.Route("/api/v1", func(r chi.Router) {

		// EventSource cannot send headers, so the stream also accepts ?jwt=
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verify(ja, jwtauth.TokenFromHeader, jwtauth.TokenFromQuery))
			r.Use(middleware.AuthRequired(ja))

			r.Get("/workdays/{id}/stream", workdayHandler.Stream)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(ja))
			r.Use(middleware.AuthRequired(ja))
			r.Use(chiMiddleware.AllowContentType("application/json"))

			r.Route("/workdays", func(r chi.Router) {
				r.Get("/", workdayHandler.List)
				r.Post("/", workdayHandler.Start)
				r.Get("/today", workdayHandler.Today)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", workdayHandler.Get)
					r.Patch("/", workdayHandler.Update)
					r.Delete("/", workdayHandler.Delete)
					r.Get("/live", workdayHandler.Live)
					r.Get("/events", workdayHandler.Events)
					r.Post("/events", workdayHandler.RecordEvent)
				})
			})

			r.Route("/reports", func(r chi.Router) {
				r.Get("/summary", reportHandler.Summary)
			})
		})
	})
	return r
}

// NewLogger builds the JSON logger shared by the request logger and the
// rest of the application.
func NewLogger(appConfig config.AppConfig, version string) *slog.Logger {
	level := slog.LevelInfo
	if err := level.UnmarshalText([]byte(appConfig.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	logFormat := httplog.SchemaECS.Concise(appConfig.Env != "production")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "workday-backend"),
		slog.String("version", version),
		slog.String("env", appConfig.Env),
	)
}
