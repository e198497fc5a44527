package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sanghyxuk/number-baseball/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeInvalidSession = "INVALID_SESSION"
	CodeNoRoom         = "NO_ROOM"
	CodeRoomNotFound   = "ROOM_NOT_FOUND"
	CodeNotInRoom      = "NOT_IN_ROOM"
	CodeInvalidState   = "INVALID_STATE"
	CodeInvalidAnswer  = "INVALID_ANSWER"
	CodeInvalidGuess   = "INVALID_GUESS"
	CodeNotYourTurn    = "NOT_YOUR_TURN"
	CodeServerError    = "SERVER_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrInvalidSession), errors.Is(err, model.ErrSessionNotFound):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidSession, "Invalid or expired session"}}
	case errors.Is(err, model.ErrNoActiveRoom):
		return &httpError{http.StatusNotFound, APIError{CodeNoRoom, "No active room for this session"}}
	case errors.Is(err, model.ErrRoomNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeRoomNotFound, "Room not found"}}
	case errors.Is(err, model.ErrNotInRoom):
		return &httpError{http.StatusForbidden, APIError{CodeNotInRoom, "Not a party to this room"}}
	case errors.Is(err, model.ErrRoomNotJoinable), errors.Is(err, model.ErrInvalidState):
		return &httpError{http.StatusConflict, APIError{CodeInvalidState, "Action not valid for the current game state"}}
	case errors.Is(err, model.ErrInvalidAnswer):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidAnswer, "Answer does not satisfy the room settings"}}
	case errors.Is(err, model.ErrInvalidGuess):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidGuess, "Guess does not satisfy the room settings"}}
	case errors.Is(err, model.ErrNotYourTurn):
		return &httpError{http.StatusForbidden, APIError{CodeNotYourTurn, "Not your turn"}}
	case errors.Is(err, model.ErrInvalidSettings), errors.Is(err, model.ErrInvalidRequest):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, "Invalid request"}}
	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeServerError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeServerError, "Internal server error"}}
}
