package scorestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"kaliteedi/internal/ports"
)

// FileStore appends scoreboard snapshots to a single JSON file keyed by
// room code. The whole file is rewritten on every save; writes are
// serialized by a process-wide mutex, so the file must not be shared
// between processes.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore opens (or creates) the JSON score file at path.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("score file path is required")
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
			return nil, fmt.Errorf("create score file: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("stat score file: %w", err)
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) SaveGameScores(ctx context.Context, roomCode string, scoreboard map[string]int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rooms, err := s.readLocked()
	if err != nil {
		return err
	}
	rooms[roomCode] = append(rooms[roomCode], ports.ScoreSnapshot{Scores: scoreboard})

	data, err := json.MarshalIndent(rooms, "", "  ")
	if err != nil {
		return fmt.Errorf("encode score file: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write score file: %w", err)
	}
	return nil
}

func (s *FileStore) LoadRoomScores(ctx context.Context, roomCode string) ([]ports.ScoreSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rooms, err := s.readLocked()
	if err != nil {
		return nil, err
	}
	if rooms[roomCode] == nil {
		return []ports.ScoreSnapshot{}, nil
	}
	return rooms[roomCode], nil
}

func (s *FileStore) readLocked() (map[string][]ports.ScoreSnapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read score file: %w", err)
	}
	rooms := make(map[string][]ports.ScoreSnapshot)
	if len(data) > 0 {
		if err := json.Unmarshal(data, &rooms); err != nil {
			return nil, fmt.Errorf("decode score file: %w", err)
		}
	}
	return rooms, nil
}

var _ ports.ScoreStorePort = (*FileStore)(nil)
