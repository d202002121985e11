package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/homefinder/loancalc/internal/application/usecase"
	"github.com/homefinder/loancalc/internal/domain/model"
	"github.com/homefinder/loancalc/internal/domain/port"
)

// Error codes carried in the response envelope.
const (
	CodeOK           = 0
	CodeInternal     = 1000
	CodeInvalidInput = 1001
	CodeUnauthorized = 1002
	CodeRateLimited  = 1003
	CodeNotFound     = 1004
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// APIResponse is the envelope around every JSON response.
type APIResponse struct {
	ErrorCode int    `json:"error_code"`
	Status    string `json:"status"`
	Message   string `json:"message"`
	Data      any    `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func respond(w http.ResponseWriter, httpStatus, code int, message string, data any) {
	status := statusSuccess
	if code != CodeOK {
		status = statusError
	}
	writeJSON(w, httpStatus, APIResponse{
		ErrorCode: code,
		Status:    status,
		Message:   message,
		Data:      data,
	})
}

func success(w http.ResponseWriter, message string, data any) {
	respond(w, http.StatusOK, CodeOK, message, data)
}

func errorResponse(w http.ResponseWriter, httpStatus, code int, message string) {
	respond(w, httpStatus, code, message, nil)
}

// unauthorized matches auth.UnauthorizedFunc.
func unauthorized(w http.ResponseWriter, _ *http.Request, err error) {
	errorResponse(w, http.StatusUnauthorized, CodeUnauthorized, err.Error())
}

// writeError maps use case errors onto HTTP statuses and envelope codes.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var invalid *model.InvalidInputError
	switch {
	case errors.As(err, &invalid):
		respond(w, http.StatusBadRequest, CodeInvalidInput, invalid.Error(), map[string]string{"field": invalid.Field})
	case errors.Is(err, model.ErrInvalidInput):
		errorResponse(w, http.StatusBadRequest, CodeInvalidInput, err.Error())
	case errors.Is(err, usecase.ErrOwnerRequired):
		errorResponse(w, http.StatusUnauthorized, CodeUnauthorized, "authentication required")
	case errors.Is(err, port.ErrNotFound):
		errorResponse(w, http.StatusNotFound, CodeNotFound, "calculation not found")
	default:
		logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		errorResponse(w, http.StatusInternalServerError, CodeInternal, "internal error")
	}
}
