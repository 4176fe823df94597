package config

import (
	"os"
	"path/filepath"
	"testing"
)

// Load is process-global, so defaults and the file path are exercised in
// one ordered test.
func TestGameConfigLoad(t *testing.T) {
	if got := Get(); got.DefaultDeckCount != 1 || got.PointsPerRemainingCard != 1 || got.InviteTTLMinutes != 60 {
		t.Fatalf("defaults = %+v", got)
	}

	path := filepath.Join(t.TempDir(), "game_config.json")
	body := `{"default_deck_count": 2, "points_per_remaining_card": 3}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if err := Load(path); err != nil {
		t.Fatalf("load: %v", err)
	}
	got := Get()
	if got.DefaultDeckCount != 2 || got.PointsPerRemainingCard != 3 {
		t.Fatalf("loaded config = %+v, want deck_count=2 points=3", got)
	}
	if got.InviteTTLMinutes != 60 {
		t.Fatalf("invite ttl = %d, want default 60 for absent field", got.InviteTTLMinutes)
	}

	// Load is once-only: a second call never replaces the config.
	if err := Load(filepath.Join(t.TempDir(), "missing.json")); err != nil {
		t.Fatalf("repeat load: %v", err)
	}
	if Get().DefaultDeckCount != 2 {
		t.Fatal("repeat load replaced the config")
	}
}

func TestParseServerEnv(t *testing.T) {
	t.Setenv("KALITEEDI_ADDR", ":9090")
	t.Setenv("KALITEEDI_SCORE_BACKEND", "sqlite")

	c, err := ParseServerEnv()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.Addr != ":9090" || c.ScoreBackend != "sqlite" {
		t.Fatalf("config = %+v", c)
	}
	if c.InviteIssuer != "kaliteedi" {
		t.Fatalf("issuer = %q, want default", c.InviteIssuer)
	}
}
