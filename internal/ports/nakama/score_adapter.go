package nakama

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"

	"kaliteedi/internal/ports"
)

const (
	scoreCollection      = "scores"
	scorePermissionRead  = 2 // public read
	scorePermissionWrite = 0 // runtime only
)

// storageEngine is the slice of runtime.NakamaModule the adapter needs.
type storageEngine interface {
	StorageRead(ctx context.Context, reads []*runtime.StorageRead) ([]*api.StorageObject, error)
	StorageWrite(ctx context.Context, writes []*runtime.StorageWrite) ([]*api.StorageObjectAck, error)
}

// StorageScoreAdapter implements ports.ScoreStorePort on Nakama's storage
// engine. Each room's history lives in one object keyed by room code;
// concurrent appends are guarded by the object version.
type StorageScoreAdapter struct {
	nk storageEngine
}

func NewStorageScoreAdapter(nk storageEngine) *StorageScoreAdapter {
	return &StorageScoreAdapter{nk: nk}
}

func (a *StorageScoreAdapter) SaveGameScores(ctx context.Context, roomCode string, scoreboard map[string]int) error {
	history, version, err := a.read(ctx, roomCode)
	if err != nil {
		return err
	}
	history = append(history, ports.ScoreSnapshot{Scores: scoreboard})

	value, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("encode score history: %w", err)
	}

	write := &runtime.StorageWrite{
		Collection:      scoreCollection,
		Key:             roomCode,
		UserID:          "",
		Value:           string(value),
		Version:         version,
		PermissionRead:  scorePermissionRead,
		PermissionWrite: scorePermissionWrite,
	}
	if _, err := a.nk.StorageWrite(ctx, []*runtime.StorageWrite{write}); err != nil {
		return fmt.Errorf("write score history: %w", err)
	}
	return nil
}

func (a *StorageScoreAdapter) LoadRoomScores(ctx context.Context, roomCode string) ([]ports.ScoreSnapshot, error) {
	history, _, err := a.read(ctx, roomCode)
	return history, err
}

func (a *StorageScoreAdapter) read(ctx context.Context, roomCode string) ([]ports.ScoreSnapshot, string, error) {
	objects, err := a.nk.StorageRead(ctx, []*runtime.StorageRead{{
		Collection: scoreCollection,
		Key:        roomCode,
		UserID:     "",
	}})
	if err != nil {
		return nil, "", fmt.Errorf("read score history: %w", err)
	}
	if len(objects) == 0 {
		return []ports.ScoreSnapshot{}, "*", nil // "*" writes only if absent
	}

	var history []ports.ScoreSnapshot
	if err := json.Unmarshal([]byte(objects[0].Value), &history); err != nil {
		return nil, "", fmt.Errorf("decode score history: %w", err)
	}
	return history, objects[0].Version, nil
}

var _ ports.ScoreStorePort = (*StorageScoreAdapter)(nil)
