package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"communityhub/internal/delivery/http/helpers"
	"communityhub/internal/domain"
)

// writeServiceError maps domain sentinel errors to their HTTP status and
// writes the JSON error envelope. Unknown errors are logged and become 500s.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, err.Error())
	case errors.Is(err, domain.ErrDuplicateEmail):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "email already in use")
	case errors.Is(err, domain.ErrConflict):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "invalid credentials")
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}
