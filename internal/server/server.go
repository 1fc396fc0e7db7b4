package server

import (
	"log/slog"
	"net/http"

	"github.com/Kim2783/Kidstodolist/internal/config"
	"github.com/Kim2783/Kidstodolist/internal/handlers"
	"github.com/Kim2783/Kidstodolist/internal/middleware"
	"github.com/Kim2783/Kidstodolist/internal/services"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

type Server struct {
	router *chi.Mux
	config config.Config
}

func New(cfg config.Config, service *services.ChecklistService, sessions *services.SessionManager) *Server {
	checklistHandler := handlers.NewChecklistHandler(service)
	sessionCookie := middleware.NewSessionCookie(cfg.SessionSecret)

	router := chi.NewRouter()

	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(chimiddleware.Compress(5))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.WithSession(sessions, sessionCookie))

		r.Get("/api/checklist", checklistHandler.View)
		r.Post("/api/tasks/{id}/status", checklistHandler.UpdateStatus)
		r.Post("/api/catalog", checklistHandler.UploadCatalog)
		r.Post("/api/reset", checklistHandler.ForceReset)
	})

	return &Server{
		router: router,
		config: cfg,
	}
}

func (server *Server) Start() error {
	address := ":" + server.config.Port
	slog.Info("starting server", "address", address)
	return http.ListenAndServe(address, server.router)
}
