package ports

import "context"

// ScoreSnapshot is one persisted scoreboard entry for a room.
type ScoreSnapshot struct {
	Scores map[string]int `json:"scores"`
}

// ScoreStorePort defines the durable, append-only record of per-room
// scoreboard snapshots. Implementations never overwrite prior snapshots;
// the backend (memory, file, relational) is fixed at construction.
type ScoreStorePort interface {
	// SaveGameScores appends a scoreboard snapshot to the room's history.
	SaveGameScores(ctx context.Context, roomCode string, scoreboard map[string]int) error

	// LoadRoomScores returns the room's snapshot history in append order.
	// A room with no history yields an empty slice, not an error.
	LoadRoomScores(ctx context.Context, roomCode string) ([]ScoreSnapshot, error)
}
