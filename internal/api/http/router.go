package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the full REST surface, plus /health and /metrics.
func NewRouter(h *Handler) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	v1 := router.PathPrefix("/api/v1").Subrouter()

	v1.HandleFunc("/users", h.CreateUser).Methods(http.MethodPost)
	v1.HandleFunc("/users/{id}", h.GetUser).Methods(http.MethodGet)
	v1.HandleFunc("/users/{id}/accounts", h.ListUserAccounts).Methods(http.MethodGet)
	v1.HandleFunc("/users/{id}/accounts/{accountID}/primary", h.SetPrimaryAccount).Methods(http.MethodPut)

	v1.HandleFunc("/banks", h.CreateBank).Methods(http.MethodPost)
	v1.HandleFunc("/banks", h.ListBanks).Methods(http.MethodGet)
	v1.HandleFunc("/banks/{id}/health", h.SetBankHealth).Methods(http.MethodPut)

	v1.HandleFunc("/accounts", h.LinkAccount).Methods(http.MethodPost)
	v1.HandleFunc("/accounts/{id}", h.GetAccount).Methods(http.MethodGet)
	v1.HandleFunc("/accounts/{id}/payments", h.ListAccountPayments).Methods(http.MethodGet)

	v1.HandleFunc("/payments", h.CreatePayment).Methods(http.MethodPost)
	v1.HandleFunc("/payments", h.SearchPayments).Methods(http.MethodGet)
	v1.HandleFunc("/payments/{id}", h.GetPayment).Methods(http.MethodGet)

	return router
}
