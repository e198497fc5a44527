package handler

import (
	"net/http"

	"github.com/sanghyxuk/number-baseball/internal/api/apierr"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// Re-export error codes
const (
	CodeInvalidRequest = apierr.CodeInvalidRequest
	CodeInvalidSession = apierr.CodeInvalidSession
	CodeNoRoom         = apierr.CodeNoRoom
	CodeRoomNotFound   = apierr.CodeRoomNotFound
	CodeNotInRoom      = apierr.CodeNotInRoom
	CodeInvalidState   = apierr.CodeInvalidState
	CodeInvalidAnswer  = apierr.CodeInvalidAnswer
	CodeInvalidGuess   = apierr.CodeInvalidGuess
	CodeNotYourTurn    = apierr.CodeNotYourTurn
	CodeServerError    = apierr.CodeServerError
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return apierr.NewInternalError()
}
