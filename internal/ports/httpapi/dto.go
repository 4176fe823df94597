package httpapi

import "kaliteedi/internal/domain"

type CreateRoomRequest struct {
	HostID   string `json:"host_id" binding:"required"`
	HostName string `json:"host_name"`
}

type AddPlayerRequest struct {
	RoomCode    string `json:"room_code"`
	PlayerID    string `json:"player_id" binding:"required"`
	DisplayName string `json:"display_name"`
	InviteToken string `json:"invite_token"`
}

type RemovePlayerRequest struct {
	RoomCode string `json:"room_code" binding:"required"`
	PlayerID string `json:"player_id" binding:"required"`
}

type SetRulesRequest struct {
	RoomCode               string `json:"room_code" binding:"required"`
	PointsPerRemainingCard int    `json:"points_per_remaining_card"`
	WinnerBonus            *int   `json:"winner_bonus"`
}

type StartGameRequest struct {
	RoomCode  string `json:"room_code" binding:"required"`
	DeckCount int    `json:"deck_count"`
}

type PlayRoundRequest struct {
	RoomCode string `json:"room_code" binding:"required"`
}

type InviteRequest struct {
	RoomCode string `json:"room_code" binding:"required"`
}

// PlayRoundResponse carries the round outcome plus a storage warning
// when persisting the scoreboard failed.
type PlayRoundResponse struct {
	*domain.RoundResult
	StorageError string `json:"storage_error,omitempty"`
}
