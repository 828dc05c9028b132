package handler

import (
	"net/http"

	"moneybook-ledger-go/internal/api"
	"moneybook-ledger-go/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

func NewRouter(svc *api.LedgerService, cfg models.ServerConfig, l *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(l.With(zap.String("component", "HTTPAccessLog"))))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	RegisterRoutes(r, svc, l)
	return r
}

func RegisterRoutes(r chi.Router, svc *api.LedgerService, l *zap.Logger) {
	h := NewLedgerHandler(svc, l.With(zap.String("component", "LedgerHTTPHandler")))

	r.Get("/health", h.Health)

	r.Route("/api/users", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Get("/", h.ListUsers)
		r.Get("/{id}", h.GetUser)
		r.Get("/{id}/reconcile", h.ReconcileUser)
	})

	r.Route("/api/transactions", func(r chi.Router) {
		r.Get("/user/{userId}", h.ListTransactions)
		r.Get("/recent/{userId}", h.RecentTransactions)
		r.Post("/deposit", h.Deposit)
		r.Post("/withdraw", h.Withdraw)
		r.Put("/{id}", h.AmendTransaction)
		r.Delete("/{id}", h.DeleteTransaction)
	})
}
