package shared

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"kra360/internal/apiclient"
	"kra360/internal/session"
	"kra360/internal/transport/http/api"
	"kra360/internal/validation"
	"kra360/internal/view"
)

// DecodeJSON decodes the request body into dst and writes the failure
// response itself. It reports whether decoding succeeded.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any, requestID string) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			api.Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large", requestID)
			return false
		}
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return false
	}
	return true
}

// WriteError maps dashboard errors onto the envelope. Backend 4xx answers
// pass through with their status; other backend failures become 502.
func WriteError(w http.ResponseWriter, err error, requestID string) {
	var (
		verr    *validation.Error
		authErr *session.AuthenticationError
	)
	switch {
	case errors.As(err, &verr):
		FailValidation(w, requestID, verr.Issues)
		return
	case errors.Is(err, view.ErrForbidden):
		api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", requestID)
		return
	case errors.Is(err, view.ErrAlreadyDecided):
		api.Fail(w, http.StatusConflict, "already_decided", err.Error(), requestID)
		return
	case errors.As(err, &authErr):
		api.Fail(w, http.StatusUnauthorized, "authentication_failed", authErr.Message, requestID)
		return
	case errors.Is(err, context.Canceled):
		return
	}

	if reqErr, ok := apiclient.AsRequestError(err); ok {
		status := reqErr.StatusCode
		if status < 400 || status >= 500 {
			slog.Warn("backend request failed", "status", reqErr.StatusCode, "err", reqErr.Message, "requestId", requestID)
			status = http.StatusBadGateway
		}
		api.Fail(w, status, "upstream_error", reqErr.Message, requestID)
		return
	}

	slog.Error("request failed", "err", err, "requestId", requestID)
	api.Fail(w, http.StatusInternalServerError, "internal_error", "internal error", requestID)
}
