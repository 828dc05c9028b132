package handler

import (
	"net/http"

	"moneybook-ledger-go/internal/api"
	"moneybook-ledger-go/internal/ledger"
	"moneybook-ledger-go/internal/models"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type LedgerHandler struct {
	service *api.LedgerService
	logger  *zap.Logger
}

func NewLedgerHandler(s *api.LedgerService, l *zap.Logger) *LedgerHandler {
	return &LedgerHandler{service: s, logger: l}
}

func (h *LedgerHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.service.HealthCheck(r.Context()); err != nil {
		h.logger.Error("Health check failed", zap.Error(err))
		writeJSON(w, h.logger, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, h.logger, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *LedgerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !h.decode(w, r, &req) {
		return
	}

	account, err := h.service.Register(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, models.NewAccountResponse(account))
}

func (h *LedgerHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	account, err := h.service.Login(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, models.NewAccountResponse(account))
}

func (h *LedgerHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.service.ListAccounts(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := make([]models.AccountResponse, len(accounts))
	for i := range accounts {
		resp[i] = models.NewAccountResponse(&accounts[i])
	}
	writeJSON(w, h.logger, http.StatusOK, resp)
}

func (h *LedgerHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	account, err := h.service.GetAccount(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeLookupError(w, r, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, models.NewAccountResponse(account))
}

func (h *LedgerHandler) ReconcileUser(w http.ResponseWriter, r *http.Request) {
	rec, err := h.service.Reconcile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeLookupError(w, r, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, models.NewReconciliationResponse(rec))
}

func (h *LedgerHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.ListEntries(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		h.writeLookupError(w, r, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, entryResponses(entries))
}

func (h *LedgerHandler) RecentTransactions(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.RecentEntries(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		h.writeLookupError(w, r, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, entryResponses(entries))
}

func (h *LedgerHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req models.EntryRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.service.Deposit(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, resultResponse(result))
}

func (h *LedgerHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req models.EntryRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.service.Withdraw(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, resultResponse(result))
}

func (h *LedgerHandler) AmendTransaction(w http.ResponseWriter, r *http.Request) {
	var req models.EntryRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.service.Amend(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, resultResponse(result))
}

func (h *LedgerHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if _, err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func entryResponses(entries []models.Entry) []models.EntryResponse {
	resp := make([]models.EntryResponse, len(entries))
	for i := range entries {
		resp[i] = models.NewEntryResponse(&entries[i])
	}
	return resp
}

func resultResponse(result *ledger.Result) models.EntryResponse {
	resp := models.NewEntryResponse(&result.Entry)
	resp.BalanceAfter = result.BalanceAfter.StringFixed(2)
	return resp
}
