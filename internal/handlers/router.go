package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"subtracker/internal/config"
	"subtracker/internal/db"
	"subtracker/internal/middleware"
	"subtracker/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Handler struct {
	txRunner      db.TxRunner
	cfg           config.Config
	users         UserStore
	audit         AuditStore
	subscriptions SubscriptionService
	archiver      ArchiveService
	dashboard     DashboardService
	hub           *websocket.Hub
	logger        *slog.Logger
	now           func() time.Time
}

func New(txRunner db.TxRunner, cfg config.Config, users UserStore, audit AuditStore, subscriptions SubscriptionService, archiver ArchiveService, dashboard DashboardService, hub *websocket.Hub, logger *slog.Logger) *Handler {
	return &Handler{
		txRunner:      txRunner,
		cfg:           cfg,
		users:         users,
		audit:         audit,
		subscriptions: subscriptions,
		archiver:      archiver,
		dashboard:     dashboard,
		hub:           hub,
		logger:        logger,
		now:           time.Now,
	}
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.RequestLogger(h.logger))
	router.Use(chimiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(h.cfg.AllowedOrigins),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.With(middleware.Auth(h.cfg.JWTSecret)).Get("/me", h.Me)
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.Auth(h.cfg.JWTSecret))
		r.Get("/subscriptions", h.ListSubscriptions)
		r.Post("/subscriptions", h.CreateSubscription)
		r.Patch("/subscriptions/{id}", h.UpdateSubscription)
		r.Delete("/subscriptions/{id}", h.DeleteSubscription)
		r.Get("/dashboard", h.Dashboard)
		r.Get("/archive", h.Archive)
		r.Get("/exchange-rates", h.ExchangeRates)
		r.Get("/activity", h.Activity)
		r.Get("/ws/events", h.Events)
	})

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return router
}

func allowedOrigins(raw string) []string {
	origins := []string{}
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
