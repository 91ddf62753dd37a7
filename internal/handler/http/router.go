package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/poamtrack/poamtrack-backend-go/internal/handler/http/middleware"
	"github.com/poamtrack/poamtrack-backend-go/internal/pkg/jwt"
)

func NewRouter(
	jwtService jwt.Service,
	authHandler AuthHandler,
	notificationHandler NotificationHandler,
	alertingHandler AlertingHandler,
	poamHandler POAMHandler,
	systemHandler SystemHandler,
	frontendURL string,
	env string,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "poamtrack"),
		slog.String("version", "v1.0.0"),
		slog.String("env", env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{frontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/token", authHandler.Token)
		})

		// SSE stream authenticates with a short-lived query token
		r.Get("/notifications/stream", notificationHandler.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", notificationHandler.List)
				r.Delete("/", notificationHandler.ClearAll)
				r.Get("/stats", notificationHandler.Stats)
				r.Put("/filter", notificationHandler.SetFilter)
				r.Post("/read-all", notificationHandler.MarkAllAsRead)
				r.Get("/sse-token", notificationHandler.GetSSEToken)

				r.Route("/preferences", func(r chi.Router) {
					r.Get("/", notificationHandler.GetPreferences)
					r.Put("/", notificationHandler.UpdatePreferences)
				})

				r.Route("/{id}", func(r chi.Router) {
					r.Post("/read", notificationHandler.MarkAsRead)
					r.Delete("/", notificationHandler.Delete)
				})
			})

			r.Route("/alerts", func(r chi.Router) {
				r.Post("/check", alertingHandler.TriggerCheck)
				r.Get("/last-check", alertingHandler.LastCheck)
			})

			r.Route("/poams", func(r chi.Router) {
				r.Get("/", poamHandler.List)
				r.Post("/", poamHandler.Create)
				r.Post("/import", poamHandler.Import)
				r.Get("/export", poamHandler.Export)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", poamHandler.Get)
					r.Put("/", poamHandler.Update)
					r.Delete("/", poamHandler.Delete)
					r.Patch("/milestones/{milestoneID}", poamHandler.UpdateMilestone)
				})
			})

			r.Route("/systems", func(r chi.Router) {
				r.Get("/", systemHandler.List)
				r.Post("/", systemHandler.Create)
				r.Post("/{id}/activate", systemHandler.Activate)
			})
		})
	})
	return r
}
