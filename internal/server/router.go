package server

import (
	"net/http"

	"github.com/berthonipasso/portfolio-api/internal/api"
	"github.com/berthonipasso/portfolio-api/internal/api/handlers"
	"github.com/berthonipasso/portfolio-api/internal/api/middleware"
	"github.com/go-chi/chi/v5"
)

type RouterConfig struct {
	TokenValidator     middleware.TokenValidator
	AllowedOrigins     []string
	RAGHandler         *handlers.RAGHandler
	ChatHandler        *handlers.ChatHandler
	AuthHandler        *handlers.AuthHandler
	ProjectHandler     *handlers.ProjectHandler
	InteractionHandler *handlers.InteractionHandler
	AnalyticsHandler   *handlers.AnalyticsHandler
	EmotionHandler     *handlers.EmotionHandler
	DashboardHandler   *handlers.DashboardHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 5 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", cfg.AuthHandler.Login)

		r.Get("/projects", cfg.ProjectHandler.List)
		r.Get("/projects/{id}", cfg.ProjectHandler.Get)

		r.Route("/interactions", func(r chi.Router) {
			r.Post("/comments", cfg.InteractionHandler.AddComment)
			r.Get("/comments", cfg.InteractionHandler.ListComments)
			r.Post("/likes", cfg.InteractionHandler.Like)
			r.Get("/likes/{target_type}/{target_id}", cfg.InteractionHandler.CountLikes)
			r.Post("/contact", cfg.InteractionHandler.Contact)
		})

		r.Post("/analytics", cfg.AnalyticsHandler.Record)

		r.Post("/ml/emotion", cfg.EmotionHandler.Detect)

		r.Post("/chat", cfg.ChatHandler.Ask)
		r.Post("/chat/stream", cfg.ChatHandler.AskStream)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminAuth(cfg.TokenValidator))

			r.Post("/rag/ingest", cfg.RAGHandler.Ingest)
			r.Get("/rag/knowledge", cfg.RAGHandler.List)
			r.Delete("/rag/knowledge/{source}", cfg.RAGHandler.Delete)

			r.Post("/projects", cfg.ProjectHandler.Create)
			r.Delete("/projects/{id}", cfg.ProjectHandler.Delete)
			r.Post("/projects/{id}/images", cfg.ProjectHandler.UploadImage)

			r.Get("/analytics/summary", cfg.AnalyticsHandler.Summary)
			r.Get("/admin/dashboard", cfg.DashboardHandler.Show)
		})
	})

	return r
}
