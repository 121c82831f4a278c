package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/gastos/internal/http/card"
	"github.com/MrJamesThe3rd/gastos/internal/http/chat"
	"github.com/MrJamesThe3rd/gastos/internal/http/expense"
	"github.com/MrJamesThe3rd/gastos/internal/http/merchant"
)

func New(
	authenticate func(http.Handler) http.Handler,
	chatV1 *chat.Handler,
	expensesV1 *expense.Handler,
	cardsV1 *card.Handler,
	merchantsV1 *merchant.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(authenticate)

		r.Route("/chat", chatV1.Routes)

		r.Route("/expenses", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			expensesV1.Routes(r)
		})

		r.Route("/cards", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			cardsV1.Routes(r)
		})

		r.Route("/merchants", merchantsV1.Routes)
	})

	return router
}
