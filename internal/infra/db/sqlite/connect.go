package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/bryanwahyu/videoai/internal/infra/db/mysql"
)

// Connect opens a SQLite database file; ":memory:" gives a private in-memory database.
func Connect(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// satu koneksi saja: sqlite single writer, dan :memory: per-koneksi
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys = ON;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return db, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
  id            INTEGER PRIMARY KEY AUTOINCREMENT,
  name          TEXT NOT NULL,
  email         TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  created_at    DATETIME NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS video_analyses (
  id          INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id     INTEGER NOT NULL REFERENCES users (id),
  youtube_url TEXT NOT NULL,
  title       TEXT NOT NULL DEFAULT '',
  transcript  TEXT NOT NULL,
  summary     TEXT NOT NULL,
  key_points  TEXT NOT NULL DEFAULT '[]',
  mind_map    TEXT NOT NULL DEFAULT '{}',
  study_notes TEXT NOT NULL,
  audio_url   TEXT NOT NULL DEFAULT '',
  created_at  DATETIME NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_video_analyses_user_created ON video_analyses (user_id, created_at)`,
}

func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// SQLite accepts the MySQL repositories' queries as they are.

func NewAnalysisRepository(db *sql.DB) *mysql.AnalysisRepository {
	return mysql.NewAnalysisRepository(db)
}

func NewUserRepository(db *sql.DB) *mysql.UserRepository {
	return mysql.NewUserRepository(db)
}
