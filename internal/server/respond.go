package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gramkosh/gramkosh/internal/auth"
	"github.com/gramkosh/gramkosh/internal/errs"
	"github.com/gramkosh/gramkosh/internal/money"
)

// errorResponse is the body every failing request gets.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError maps the error taxonomy onto HTTP statuses. Anything not
// wrapping a known sentinel is a 500 with a generic body so internals
// never leak to clients.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errs.ErrInvalidInput):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Code: "invalid_input", Message: err.Error()})
	case errors.Is(err, errs.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Code: "not_found", Message: err.Error()})
	case errors.Is(err, errs.ErrConflict):
		writeJSON(w, http.StatusConflict, errorResponse{Code: "conflict", Message: err.Error()})
	case errors.Is(err, errs.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{Code: "forbidden", Message: err.Error()})
	case errors.Is(err, errs.ErrUnauthenticated),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidToken):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Code: "unauthenticated", Message: err.Error()})
	default:
		slog.Error("Request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Code: "internal_error", Message: "internal server error"})
	}
}

// decode parses a JSON request body. A body that is not valid JSON for
// the target type is a 400, not a 422: the request never reached
// validation. A well-formed body carrying an unparseable amount is the
// one exception; that is a validation failure.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, money.ErrInvalidAmount) {
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Code: "invalid_input", Message: "amount must be a non-negative decimal with at most two places"})
			return false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "malformed_body", Message: "request body is not valid JSON"})
		return false
	}
	return true
}

// pagination reads skip/limit query parameters. Defaults and bounds are
// enforced again by the storage layer; this only parses.
func pagination(r *http.Request) (skip, limit int) {
	skip, _ = strconv.Atoi(r.URL.Query().Get("skip"))
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	return skip, limit
}
