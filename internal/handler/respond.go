package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/stellar-txkit/internal/httputil"
	"github.com/stellar-txkit/internal/sdkerr"
)

// ErrorResponse is the standard JSON error response body.
type ErrorResponse = httputil.ErrorResponse

// RespondJSON writes a JSON response with the given status code.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	httputil.RespondJSON(w, status, data)
}

// RespondError writes a JSON error response.
func RespondError(w http.ResponseWriter, status int, code, message string) {
	httputil.RespondError(w, status, code, message)
}

// StatusOf maps an error to the HTTP status it is reported with.
func StatusOf(err error) int {
	switch sdkerr.KindOf(err) {
	case sdkerr.KindDecode, sdkerr.KindValidation:
		return http.StatusBadRequest
	case sdkerr.KindCrypto:
		return http.StatusUnauthorized
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// RespondErr reports err with the status and code of its sdkerr kind.
// Errors without a kind are logged and answered with a generic 500.
func RespondErr(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusOf(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		RespondError(w, status, "internal_error", "An unexpected error occurred")
		return
	}
	code := sdkerr.CodeOf(err)
	if code == "" {
		code = "timeout"
	}
	RespondError(w, status, code, err.Error())
}

// decode reads the request body into dst and answers 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httputil.DecodeJSON(w, r, dst); err != nil {
		RespondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return false
	}
	return true
}

func required(w http.ResponseWriter, field, value string) bool {
	if value == "" {
		RespondError(w, http.StatusBadRequest, "invalid_request", field+" is required")
		return false
	}
	return true
}
