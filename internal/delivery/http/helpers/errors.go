package helpers

import (
	"errors"
	"log/slog"
	"net/http"

	"partyplanner/internal/domain"
)

// WriteServiceError maps a service error onto the response envelope.
// Unexpected errors are logged and reported as 500 without their details.
func WriteServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		WriteJSONError(w, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		WriteJSONError(w, http.StatusConflict, ErrCodeConflict, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		apiErr := &APIError{Code: ErrCodeForbidden, Message: "forbidden"}
		if reason, ok := domain.DenialReasonOf(err); ok {
			apiErr.Reason = string(reason)
		}
		writeError(w, http.StatusForbidden, apiErr)
	case errors.Is(err, domain.ErrInvalidState):
		WriteJSONError(w, http.StatusUnprocessableEntity, ErrCodeInvalidState, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		WriteJSONError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid username or password")
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		WriteJSONError(w, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
	}
}
