package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs
// migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so external readers don't block the poll loop.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS poll_history (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp         INTEGER NOT NULL,
			game_id           TEXT NOT NULL,
			resource_type     TEXT NOT NULL,
			kind              TEXT NOT NULL,
			current           INTEGER,
			max               INTEGER,
			remaining_seconds INTEGER,
			state             TEXT,
			completes_at      INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_poll_ts ON poll_history(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_poll_resource ON poll_history(game_id, resource_type)`,

		`CREATE TABLE IF NOT EXISTS notification_history (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp     INTEGER NOT NULL,
			game_id       TEXT NOT NULL,
			resource_type TEXT NOT NULL,
			title         TEXT,
			body          TEXT,
			sink          TEXT,
			preview       INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notification_ts ON notification_history(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordPoll(records []PollRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	stmt, err := tx.Prepare(`INSERT INTO poll_history
		(timestamp, game_id, resource_type, kind, current, max, remaining_seconds, state, completes_at)
		VALUES (?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, rec := range records {
		var completesAt int64
		if !rec.CompletesAt.IsZero() {
			completesAt = rec.CompletesAt.Unix()
		}
		if _, err := stmt.Exec(now, rec.GameID, rec.ResourceType, string(rec.Kind),
			rec.Current, rec.Max, rec.RemainingSeconds, string(rec.State), completesAt); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) RecordNotification(rec *NotificationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	preview := 0
	if rec.Preview {
		preview = 1
	}
	_, err := r.db.Exec(`INSERT INTO notification_history
		(timestamp, game_id, resource_type, title, body, sink, preview)
		VALUES (?,?,?,?,?,?,?)`,
		time.Now().Unix(), rec.GameID, rec.ResourceType, rec.Title, rec.Body, rec.Sink, preview,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
