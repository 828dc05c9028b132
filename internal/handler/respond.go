package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"moneybook-ledger-go/internal/api"
	"moneybook-ledger-go/internal/ledger"

	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, l *zap.Logger, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		l.Error("Failed to write JSON response", zap.Error(err))
	}
}

// statusFor maps service errors onto HTTP status codes. Anything unknown
// is a 500 whose detail stays in the log.
func statusFor(err error) int {
	switch {
	case errors.Is(err, api.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, api.ErrUsernameTaken):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrEntryNotFound):
		return http.StatusNotFound
	case ledger.IsValidation(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// maxBodyBytes caps every JSON request body.
const maxBodyBytes = 1 << 20

// lookupStatusFor is statusFor for routes addressed by account id, where an
// unknown account is a missing resource rather than a bad request.
func lookupStatusFor(err error) int {
	if errors.Is(err, ledger.ErrAccountNotFound) {
		return http.StatusNotFound
	}
	return statusFor(err)
}

func (h *LedgerHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	h.writeErrorStatus(w, r, statusFor(err), err)
}

func (h *LedgerHandler) writeLookupError(w http.ResponseWriter, r *http.Request, err error) {
	h.writeErrorStatus(w, r, lookupStatusFor(err), err)
}

func (h *LedgerHandler) writeErrorStatus(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		writeJSON(w, h.logger, status, ErrorResponse{Error: "internal server error"})
		return
	}

	h.logger.Warn("Request rejected",
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.Error(err))
	writeJSON(w, h.logger, status, ErrorResponse{Error: err.Error()})
}

func (h *LedgerHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.logger.Warn("Invalid request body", zap.String("path", r.URL.Path), zap.Error(err))
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, h.logger, http.StatusRequestEntityTooLarge, ErrorResponse{Error: "request body too large"})
			return false
		}
		writeJSON(w, h.logger, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return false
	}
	return true
}
