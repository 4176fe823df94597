package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// GameConfig holds gameplay tunables read from the JSON config file.
type GameConfig struct {
	// DefaultDeckCount is used when a start request does not name one.
	DefaultDeckCount int `json:"default_deck_count"`
	// PointsPerRemainingCard is the initial penalty scale for new rooms.
	PointsPerRemainingCard int `json:"points_per_remaining_card"`
	// InviteTTLMinutes bounds the lifetime of room invite tokens.
	InviteTTLMinutes int `json:"invite_ttl_minutes"`
}

func defaults() *GameConfig {
	return &GameConfig{
		DefaultDeckCount:       1,
		PointsPerRemainingCard: 1,
		InviteTTLMinutes:       60,
	}
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// Load reads the game configuration from path. Fields absent from the
// file keep their defaults. Repeat calls are no-ops.
func Load(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		c := defaults()
		if err := json.Unmarshal(data, c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		cfg = c
	})
	return loadErr
}

// Get returns the game configuration, falling back to defaults when no
// file has been loaded.
func Get() *GameConfig {
	if cfg == nil {
		return defaults()
	}
	return cfg
}
