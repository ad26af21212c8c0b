package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/iamrachking/api-chelsy-apk-sub000/internal/model"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already sent; nothing useful left to do
		return
	}
}

// writeError writes a standardised error response.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Warn().Str("code", code).Int("status", status).Msg(message)
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// statusForCode maps business error codes to HTTP status codes. Codes not
// listed here map to 400. Provider-side failures are 5xx: the request was
// valid, the platform could not process it.
var statusForCode = map[string]int{
	model.ErrCodeOrderNotFound:   http.StatusNotFound,
	model.ErrCodePaymentNotFound: http.StatusNotFound,
	model.ErrCodeDishNotFound:    http.StatusNotFound,
	model.ErrCodeAddressNotFound: http.StatusNotFound,
	model.ErrCodePromoNotFound:   http.StatusNotFound,
	model.ErrCodeCartItemMissing: http.StatusNotFound,
	model.ErrCodePromoRace:       http.StatusConflict,
	model.ErrCodeCannotCancel:    http.StatusConflict,
	model.ErrCodePaymentInit:     http.StatusBadGateway,
	model.ErrCodePaymentVerify:   http.StatusBadGateway,
}

// handleServiceError translates a service error into an HTTP response.
// Business rule failures carry their code to the client; anything else is a
// generic 500 with the detail kept in the logs.
func handleServiceError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		status, ok := statusForCode[domainErr.Code]
		if !ok {
			status = http.StatusBadRequest
		}
		writeError(w, status, domainErr.Code, domainErr.Message, logger)
		return
	}

	logger.Error().Err(err).Msg("internal error")
	writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "something went wrong", logger)
}

// userID extracts the authenticated user from the X-User-ID header set by
// the auth proxy in front of this service.
func userID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.Header.Get("X-User-ID"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// requireUser writes a 401 and returns false when the request carries no
// usable user identity.
func requireUser(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (uuid.UUID, bool) {
	id, ok := userID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "missing or invalid user identity", logger)
	}
	return id, ok
}

// pathID parses the {id} path segment as a UUID.
func pathID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(r.PathValue("id"))
}
