// Package scorestore provides the score persistence backends: in-memory,
// JSON file, and SQLite.
package scorestore

import (
	"context"
	"sync"

	"kaliteedi/internal/ports"
)

// MemoryStore keeps scoreboard history in process memory. It is the
// default for tests and throwaway servers.
type MemoryStore struct {
	mu    sync.Mutex
	rooms map[string][]ports.ScoreSnapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rooms: make(map[string][]ports.ScoreSnapshot)}
}

func (s *MemoryStore) SaveGameScores(ctx context.Context, roomCode string, scoreboard map[string]int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	scores := make(map[string]int, len(scoreboard))
	for id, score := range scoreboard {
		scores[id] = score
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[roomCode] = append(s.rooms[roomCode], ports.ScoreSnapshot{Scores: scores})
	return nil
}

func (s *MemoryStore) LoadRoomScores(ctx context.Context, roomCode string) ([]ports.ScoreSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ports.ScoreSnapshot, len(s.rooms[roomCode]))
	copy(out, s.rooms[roomCode])
	return out, nil
}

var _ ports.ScoreStorePort = (*MemoryStore)(nil)
