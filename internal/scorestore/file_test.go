package scorestore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.json")
	if _, err := NewFileStore(path); err != nil {
		t.Fatalf("new: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "{}" {
		t.Fatalf("fresh file = %q, want empty object", data)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.json")
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()

	if err := store.SaveGameScores(ctx, "ABC123", map[string]int{"u0": -13, "u1": 26}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.SaveGameScores(ctx, "XYZ789", map[string]int{"u2": 7}); err != nil {
		t.Fatalf("save other room: %v", err)
	}
	if err := store.SaveGameScores(ctx, "ABC123", map[string]int{"u0": -26, "u1": 52}); err != nil {
		t.Fatalf("save: %v", err)
	}

	history, err := store.LoadRoomScores(ctx, "ABC123")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	if history[1].Scores["u1"] != 52 {
		t.Fatalf("latest snapshot = %+v, want u1=52", history[1].Scores)
	}

	// The file itself holds one list per room.
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var rooms map[string][]struct {
		Scores map[string]int `json:"scores"`
	}
	if err := json.Unmarshal(raw, &rooms); err != nil {
		t.Fatalf("decode file: %v", err)
	}
	if len(rooms["ABC123"]) != 2 || len(rooms["XYZ789"]) != 1 {
		t.Fatalf("file layout = %+v, want 2 and 1 snapshots", rooms)
	}
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.json")
	ctx := context.Background()

	first, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := first.SaveGameScores(ctx, "ABC123", map[string]int{"u0": 3}); err != nil {
		t.Fatalf("save: %v", err)
	}

	second, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	history, err := second.LoadRoomScores(ctx, "ABC123")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(history) != 1 || history[0].Scores["u0"] != 3 {
		t.Fatalf("history after reopen = %+v, want one snapshot u0=3", history)
	}
}

func TestFileStoreUnknownRoomIsEmpty(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "scores.json"))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	history, err := store.LoadRoomScores(context.Background(), "NOSUCH")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("history length = %d, want 0", len(history))
	}
}
