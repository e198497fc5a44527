package request

// CreateRoomRequest is the request body for creating a room. A fresh
// session is minted for the creator.
type CreateRoomRequest struct {
	Nickname       string `json:"nickname,omitempty"`
	Digits         int    `json:"digits,omitempty"`
	AllowZero      bool   `json:"allow_zero,omitempty"`
	AllowDuplicate bool   `json:"allow_duplicate,omitempty"`
}

// JoinRoomRequest is the request body for joining a room
type JoinRoomRequest struct {
	Nickname string `json:"nickname,omitempty"`
}
