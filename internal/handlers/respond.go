package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"coffeeshop/internal/auth"
	applog "coffeeshop/internal/log"
	"coffeeshop/internal/store"
)

// ErrUnprocessable marks request bodies that cannot be applied.
var ErrUnprocessable = errors.New("unprocessable")

func unprocessable(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnprocessable, fmt.Sprintf(format, args...))
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   int    `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		applog.Error(r.Context(), "failed to encode json response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, r *http.Request, status int, message, code string) {
	writeJSON(w, r, status, errorResponse{
		Success: false,
		Error:   status,
		Message: message,
		Code:    code,
	})
}

// RespondError writes the JSON error envelope matching err.
func RespondError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		authErr  *auth.Error
		storeErr *store.Error
	)

	switch {
	case errors.As(err, &authErr):
		writeJSONError(w, r, authErr.Kind.Status(), authErr.Kind.Message(), authErr.Kind.Code())
	case errors.Is(err, store.ErrNotFound):
		writeJSONError(w, r, http.StatusNotFound, "resource not found", "")
	case errors.Is(err, store.ErrDuplicateTitle):
		writeJSONError(w, r, http.StatusUnprocessableEntity, "a drink with this title already exists", "")
	case errors.Is(err, ErrUnprocessable):
		writeJSONError(w, r, http.StatusUnprocessableEntity, err.Error(), "")
	case errors.As(err, &storeErr):
		applog.Error(r.Context(), "storage failure", "op", storeErr.Op, "error", storeErr.Err)
		writeJSONError(w, r, http.StatusUnprocessableEntity, "unprocessable", "")
	default:
		applog.Error(r.Context(), "unhandled request error", "error", err)
		writeJSONError(w, r, http.StatusInternalServerError, "internal server error", "")
	}
}

// NotFound answers unknown routes with the JSON envelope.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSONError(w, r, http.StatusNotFound, "resource not found", "")
}

// MethodNotAllowed answers known routes called with an unsupported verb.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSONError(w, r, http.StatusMethodNotAllowed, "method not allowed", "")
}
