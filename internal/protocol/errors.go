package protocol

import (
	"errors"

	"github.com/sanghyxuk/number-baseball/internal/model"
)

// ErrorPayloadFor maps a domain error to the error payload sent to the
// offending session. Unknown errors become SERVER_ERROR with a generic
// message; internals are never surfaced to clients.
func ErrorPayloadFor(err error) ErrorPayload {
	switch {
	case errors.Is(err, model.ErrInvalidSession), errors.Is(err, model.ErrSessionNotFound):
		return ErrorPayload{ErrorCode: CodeInvalidSession, Message: "Invalid or expired session"}
	case errors.Is(err, model.ErrNoActiveRoom):
		return ErrorPayload{ErrorCode: CodeNoRoom, Message: "No active room for this session"}
	case errors.Is(err, model.ErrRoomNotFound):
		return ErrorPayload{ErrorCode: CodeRoomNotFound, Message: "Room not found"}
	case errors.Is(err, model.ErrNotInRoom):
		return ErrorPayload{ErrorCode: CodeNotInRoom, Message: "Not a party to this room"}
	case errors.Is(err, model.ErrInvalidState), errors.Is(err, model.ErrRoomNotJoinable):
		return ErrorPayload{ErrorCode: CodeInvalidState, Message: "Action not valid for the current game state"}
	case errors.Is(err, model.ErrInvalidAnswer):
		return ErrorPayload{ErrorCode: CodeInvalidAnswer, Message: "Answer does not satisfy the room settings"}
	case errors.Is(err, model.ErrInvalidGuess):
		return ErrorPayload{ErrorCode: CodeInvalidGuess, Message: "Guess does not satisfy the room settings"}
	case errors.Is(err, model.ErrNotYourTurn):
		return ErrorPayload{ErrorCode: CodeNotYourTurn, Message: "Not your turn"}
	case errors.Is(err, model.ErrInvalidSettings):
		return ErrorPayload{ErrorCode: CodeInvalidRequest, Message: "Invalid game settings"}
	case errors.Is(err, model.ErrInvalidRequest):
		return ErrorPayload{ErrorCode: CodeInvalidRequest, Message: "Malformed or unrecognized request"}
	default:
		return ErrorPayload{ErrorCode: CodeServerError, Message: "Internal server error"}
	}
}
