package scorestore

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"kaliteedi/internal/ports"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS games (
  id        INTEGER PRIMARY KEY AUTOINCREMENT,
  room_code TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS scores (
  game_id   INTEGER NOT NULL REFERENCES games(id),
  player_id TEXT NOT NULL,
  score     INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_games_room ON games(room_code);
`

// SQLiteStore persists scoreboard snapshots in a SQLite database. Each
// save becomes one games row plus one scores row per player.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens the database at path and ensures the schema exists.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the SQLite handle.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) SaveGameScores(ctx context.Context, roomCode string, scoreboard map[string]int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `INSERT INTO games (room_code) VALUES (?)`, roomCode)
	if err != nil {
		return fmt.Errorf("insert game: %w", err)
	}
	gameID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("game id: %w", err)
	}

	for playerID, score := range scoreboard {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO scores (game_id, player_id, score) VALUES (?, ?, ?)`,
			gameID, playerID, score,
		); err != nil {
			return fmt.Errorf("insert score: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

func (s *SQLiteStore) LoadRoomScores(ctx context.Context, roomCode string) ([]ports.ScoreSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT g.id, sc.player_id, sc.score
		   FROM games g
		   JOIN scores sc ON sc.game_id = g.id
		  WHERE g.room_code = ?
		  ORDER BY g.id ASC`,
		roomCode,
	)
	if err != nil {
		return nil, fmt.Errorf("load room scores: %w", err)
	}
	defer rows.Close()

	snapshots := []ports.ScoreSnapshot{}
	lastGame := int64(-1)
	for rows.Next() {
		var gameID int64
		var playerID string
		var score int
		if err := rows.Scan(&gameID, &playerID, &score); err != nil {
			return nil, fmt.Errorf("load room scores: %w", err)
		}
		if gameID != lastGame {
			snapshots = append(snapshots, ports.ScoreSnapshot{Scores: make(map[string]int)})
			lastGame = gameID
		}
		snapshots[len(snapshots)-1].Scores[playerID] = score
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load room scores: %w", err)
	}
	return snapshots, nil
}

var _ ports.ScoreStorePort = (*SQLiteStore)(nil)
