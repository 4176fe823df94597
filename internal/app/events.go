package app

import "kaliteedi/internal/domain"

// EventKind identifies emitted registry events for port dispatch.
type EventKind string

const (
	EventPlayerJoined EventKind = "player_joined"
	EventPlayerLeft   EventKind = "player_left"
	EventRulesSet     EventKind = "rules_set"
	EventGameStarted  EventKind = "game_started"
	EventRoundPlayed  EventKind = "round_played"
	EventScoresSaved  EventKind = "scores_saved"
)

// Event is a registry event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // player IDs; empty means broadcast to the room
}

// EventSink receives events a port wants delivered outside the process.
type EventSink interface {
	Publish(roomCode string, ev Event) error
}

type PlayerJoinedPayload struct {
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"display_name"`
	Members     int    `json:"members"`
}

type PlayerLeftPayload struct {
	PlayerID string `json:"player_id"`
}

type RulesSetPayload struct {
	Rules domain.PointsRules `json:"rules"`
}

type GameStartedPayload struct {
	GameID    string   `json:"game_id"`
	DeckCount int      `json:"deck_count"`
	Players   []string `json:"players"`
}

type RoundPlayedPayload struct {
	Result *domain.RoundResult `json:"result"`
}

type ScoresSavedPayload struct {
	RoomCode string `json:"room_code"`
}
