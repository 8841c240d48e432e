package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"payswitch/internal/domain"
	"payswitch/internal/service"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payswitch_http_requests_total",
		Help: "Total HTTP requests processed, labeled by status code",
	}, []string{"method", "endpoint", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "payswitch_http_request_duration_seconds",
		Help:    "Latency distribution of HTTP requests",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"method", "endpoint"})
)

// Handler exposes the switch's services over REST.
type Handler struct {
	users    service.UserService
	banks    service.BankService
	accounts service.AccountService
	payments service.PaymentService
	resolver service.RecipientResolver
	health   service.BankHealthRegistry
}

func NewHandler(
	users service.UserService,
	banks service.BankService,
	accounts service.AccountService,
	payments service.PaymentService,
	resolver service.RecipientResolver,
	health service.BankHealthRegistry,
) *Handler {
	return &Handler{
		users:    users,
		banks:    banks,
		accounts: accounts,
		payments: payments,
		resolver: resolver,
		health:   health,
	}
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type createUserRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Malformed JSON body", "POST", "/users")
		return
	}
	if req.Name == "" || req.Phone == "" {
		h.respondError(w, http.StatusUnprocessableEntity, "Name and phone are required", "POST", "/users")
		return
	}
	user, err := h.users.OnboardUser(r.Context(), req.Name, req.Phone)
	if err != nil {
		h.respondServiceError(w, err, "POST", "/users")
		return
	}
	httpRequestsTotal.WithLabelValues("POST", "/users", "201").Inc()
	respondJSON(w, http.StatusCreated, user)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id", "GET", "/users/{id}")
	if !ok {
		return
	}
	user, err := h.users.GetUser(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, "GET", "/users/{id}")
		return
	}
	httpRequestsTotal.WithLabelValues("GET", "/users/{id}", "200").Inc()
	respondJSON(w, http.StatusOK, user)
}

type createBankRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

func (h *Handler) CreateBank(w http.ResponseWriter, r *http.Request) {
	var req createBankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Malformed JSON body", "POST", "/banks")
		return
	}
	if req.Name == "" || req.Code == "" {
		h.respondError(w, http.StatusUnprocessableEntity, "Name and code are required", "POST", "/banks")
		return
	}
	bank, err := h.banks.RegisterBank(r.Context(), req.Name, req.Code)
	if err != nil {
		h.respondServiceError(w, err, "POST", "/banks")
		return
	}
	httpRequestsTotal.WithLabelValues("POST", "/banks", "201").Inc()
	respondJSON(w, http.StatusCreated, bank)
}

func (h *Handler) ListBanks(w http.ResponseWriter, r *http.Request) {
	banks, err := h.banks.ListBanks(r.Context())
	if err != nil {
		h.respondServiceError(w, err, "GET", "/banks")
		return
	}
	httpRequestsTotal.WithLabelValues("GET", "/banks", "200").Inc()
	respondJSON(w, http.StatusOK, banks)
}

type bankHealthRequest struct {
	Down bool `json:"down"`
}

// SetBankHealth marks a bank up or down on the switch. Payments touching a
// downed bank are rejected before any funds move.
func (h *Handler) SetBankHealth(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id", "PUT", "/banks/{id}/health")
	if !ok {
		return
	}
	if _, err := h.banks.GetBank(r.Context(), id); err != nil {
		h.respondServiceError(w, err, "PUT", "/banks/{id}/health")
		return
	}
	var req bankHealthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Malformed JSON body", "PUT", "/banks/{id}/health")
		return
	}
	if req.Down {
		h.health.MarkDown(id)
	} else {
		h.health.MarkUp(id)
	}
	httpRequestsTotal.WithLabelValues("PUT", "/banks/{id}/health", "200").Inc()
	respondJSON(w, http.StatusOK, map[string]bool{"down": req.Down})
}

type linkAccountRequest struct {
	UserID         uuid.UUID       `json:"user_id"`
	BankID         uuid.UUID       `json:"bank_id"`
	AccountNumber  string          `json:"account_number"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

func (h *Handler) LinkAccount(w http.ResponseWriter, r *http.Request) {
	var req linkAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Malformed JSON body", "POST", "/accounts")
		return
	}
	if req.AccountNumber == "" {
		h.respondError(w, http.StatusUnprocessableEntity, "Account number is required", "POST", "/accounts")
		return
	}
	acct, err := h.accounts.LinkAccount(r.Context(), req.UserID, req.BankID, req.AccountNumber, req.InitialBalance)
	if err != nil {
		h.respondServiceError(w, err, "POST", "/accounts")
		return
	}
	httpRequestsTotal.WithLabelValues("POST", "/accounts", "201").Inc()
	respondJSON(w, http.StatusCreated, acct)
}

func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id", "GET", "/accounts/{id}")
	if !ok {
		return
	}
	acct, err := h.accounts.GetAccount(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, "GET", "/accounts/{id}")
		return
	}
	httpRequestsTotal.WithLabelValues("GET", "/accounts/{id}", "200").Inc()
	respondJSON(w, http.StatusOK, acct)
}

func (h *Handler) ListUserAccounts(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id", "GET", "/users/{id}/accounts")
	if !ok {
		return
	}
	accounts, err := h.accounts.ListUserAccounts(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, "GET", "/users/{id}/accounts")
		return
	}
	httpRequestsTotal.WithLabelValues("GET", "/users/{id}/accounts", "200").Inc()
	respondJSON(w, http.StatusOK, accounts)
}

func (h *Handler) SetPrimaryAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.pathID(w, r, "id", "PUT", "/users/{id}/accounts/{accountID}/primary")
	if !ok {
		return
	}
	accountID, ok := h.pathID(w, r, "accountID", "PUT", "/users/{id}/accounts/{accountID}/primary")
	if !ok {
		return
	}
	if err := h.accounts.SetPrimaryAccount(r.Context(), userID, accountID); err != nil {
		h.respondServiceError(w, err, "PUT", "/users/{id}/accounts/{accountID}/primary")
		return
	}
	httpRequestsTotal.WithLabelValues("PUT", "/users/{id}/accounts/{accountID}/primary", "200").Inc()
	respondJSON(w, http.StatusOK, map[string]string{"primary_account_id": accountID.String()})
}

type createPaymentRequest struct {
	FromAccountID uuid.UUID       `json:"from_account_id"`
	To            string          `json:"to"`
	Amount        decimal.Decimal `json:"amount"`
}

// CreatePayment accepts a payment for asynchronous processing. The response
// carries the PENDING transaction; callers poll GET /payments/{id} for the
// outcome. Retries must reuse the same Idempotency-Key header.
func (h *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(httpRequestDuration.WithLabelValues("POST", "/payments"))
	defer timer.ObserveDuration()

	idempotencyKey := r.Header.Get("Idempotency-Key")
	if idempotencyKey == "" {
		h.respondError(w, http.StatusBadRequest, "Missing Idempotency-Key header", "POST", "/payments")
		return
	}

	var req createPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Malformed JSON body", "POST", "/payments")
		return
	}
	if req.To == "" {
		h.respondError(w, http.StatusUnprocessableEntity, "Destination identifier is required", "POST", "/payments")
		return
	}
	if !req.Amount.IsPositive() {
		h.respondError(w, http.StatusUnprocessableEntity, "Positive amount required", "POST", "/payments")
		return
	}

	toAccountID, err := h.resolver.Resolve(r.Context(), req.To)
	if err != nil {
		h.respondServiceError(w, err, "POST", "/payments")
		return
	}
	if toAccountID != nil && *toAccountID == req.FromAccountID {
		h.respondError(w, http.StatusUnprocessableEntity, "Self-transfer not allowed", "POST", "/payments")
		return
	}

	txn, err := h.payments.CreatePayment(r.Context(), idempotencyKey, req.FromAccountID, toAccountID, req.To, req.Amount)
	if err != nil {
		h.respondServiceError(w, err, "POST", "/payments")
		return
	}

	httpRequestsTotal.WithLabelValues("POST", "/payments", "202").Inc()
	w.Header().Set("Location", "/api/v1/payments/"+txn.ID.String())
	respondJSON(w, http.StatusAccepted, txn)
}

func (h *Handler) GetPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id", "GET", "/payments/{id}")
	if !ok {
		return
	}
	txn, err := h.payments.GetTransaction(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, "GET", "/payments/{id}")
		return
	}
	httpRequestsTotal.WithLabelValues("GET", "/payments/{id}", "200").Inc()
	respondJSON(w, http.StatusOK, txn)
}

func (h *Handler) ListAccountPayments(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id", "GET", "/accounts/{id}/payments")
	if !ok {
		return
	}
	txns, err := h.payments.ListAccountTransactions(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, "GET", "/accounts/{id}/payments")
		return
	}
	httpRequestsTotal.WithLabelValues("GET", "/accounts/{id}/payments", "200").Inc()
	respondJSON(w, http.StatusOK, txns)
}

// SearchPayments filters by payer account (?payer=<uuid>) and/or payee
// identifier (?payee=<string>).
func (h *Handler) SearchPayments(w http.ResponseWriter, r *http.Request) {
	var payer *uuid.UUID
	if raw := r.URL.Query().Get("payer"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "Invalid payer account id", "GET", "/payments")
			return
		}
		payer = &id
	}
	payee := r.URL.Query().Get("payee")
	if payer == nil && payee == "" {
		h.respondError(w, http.StatusBadRequest, "At least one of payer or payee is required", "GET", "/payments")
		return
	}
	txns, err := h.payments.SearchByPayerOrPayee(r.Context(), payer, payee)
	if err != nil {
		h.respondServiceError(w, err, "GET", "/payments")
		return
	}
	httpRequestsTotal.WithLabelValues("GET", "/payments", "200").Inc()
	respondJSON(w, http.StatusOK, txns)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, name, method, endpoint string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid id", method, endpoint)
		return uuid.Nil, false
	}
	return id, true
}

// respondServiceError maps domain errors onto HTTP status codes.
func (h *Handler) respondServiceError(w http.ResponseWriter, err error, method, endpoint string) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrTransactionNotFound):
		h.respondError(w, http.StatusNotFound, err.Error(), method, endpoint)
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrAccountInactive):
		h.respondError(w, http.StatusUnprocessableEntity, err.Error(), method, endpoint)
	case errors.Is(err, domain.ErrBankUnavailable):
		h.respondError(w, http.StatusServiceUnavailable, err.Error(), method, endpoint)
	default:
		h.respondError(w, http.StatusInternalServerError, "Internal server error", method, endpoint)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, code int, message, method, endpoint string) {
	httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(code)).Inc()
	respondJSON(w, code, map[string]string{"error": message})
}

func respondJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}
