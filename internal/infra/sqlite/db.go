// Package sqlite provides SQLite-based persistent storage for Tyria Tracker.
// Uses WAL mode for concurrent reads and crash-safe writes.
//
// Only user-driven state lives here: completion marks, daily-task progress,
// profiles, and a small meta KV. Occurrences themselves are derived data and
// are never persisted.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)

	"github.com/tyria-tracker/tyria/internal/domain"
)

// DB wraps a SQLite connection with WAL mode and migrations.
type DB struct {
	db *sql.DB
}

// Open creates or opens the SQLite database at dir/state.db.
// Enables WAL mode, foreign keys, and 5-second busy timeout.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "state.db")
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// Connection pool settings for SQLite
	db.SetMaxOpenConns(1) // SQLite is single-writer
	db.SetMaxIdleConns(1)

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return d, nil
}

// Close cleanly shuts down the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping checks database connectivity.
func (d *DB) Ping() error {
	return d.db.Ping()
}

// migrate runs idempotent schema migrations.
func (d *DB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			name       TEXT PRIMARY KEY,
			created_at INTEGER NOT NULL
		)`,

		// Per-occurrence completion marks. event_key is stored alongside the
		// occurrence ID so the completed panel can group without re-deriving.
		`CREATE TABLE IF NOT EXISTS completed_occurrences (
			profile       TEXT NOT NULL,
			occurrence_id TEXT NOT NULL,
			event_key     TEXT NOT NULL,
			completed_at  INTEGER NOT NULL,
			PRIMARY KEY (profile, occurrence_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_completed_occ_key ON completed_occurrences(profile, event_key)`,

		// Whole-event-type completion marks (one tick dismisses all
		// instances of a rotating event for the day).
		`CREATE TABLE IF NOT EXISTS completed_event_types (
			profile      TEXT NOT NULL,
			event_key    TEXT NOT NULL,
			completed_at INTEGER NOT NULL,
			PRIMARY KEY (profile, event_key)
		)`,

		`CREATE TABLE IF NOT EXISTS daily_progress (
			profile  TEXT NOT NULL,
			category TEXT NOT NULL,
			task_id  TEXT NOT NULL,
			done     BOOLEAN NOT NULL DEFAULT 0,
			PRIMARY KEY (profile, category, task_id)
		)`,

		// Archived checklist progress, one row per completed task per UTC
		// date. Written by the daily reset; read by the history views.
		`CREATE TABLE IF NOT EXISTS progress_history (
			profile  TEXT NOT NULL,
			date     TEXT NOT NULL,
			category TEXT NOT NULL,
			task_id  TEXT NOT NULL,
			done     BOOLEAN NOT NULL DEFAULT 0,
			PRIMARY KEY (profile, date, category, task_id)
		)`,

		// Key-value store for tracker state (last reset date, sync identity)
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

// ─── Profiles ───────────────────────────────────────────────────────────────

// DefaultProfile is created on first open and used when no profile is named.
const DefaultProfile = "default"

// EnsureProfile inserts the profile if it does not exist yet.
func (d *DB) EnsureProfile(name string) error {
	_, err := d.db.Exec(
		`INSERT INTO profiles (name, created_at) VALUES (?, ?)
		 ON CONFLICT(name) DO NOTHING`,
		name, time.Now().Unix(),
	)
	return err
}

// CreateProfile inserts a new profile, failing if it already exists.
func (d *DB) CreateProfile(name string) error {
	res, err := d.db.Exec(
		`INSERT INTO profiles (name, created_at) VALUES (?, ?)
		 ON CONFLICT(name) DO NOTHING`,
		name, time.Now().Unix(),
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrProfileExists
	}
	return nil
}

// ListProfiles returns all profile names, oldest first.
func (d *DB) ListProfiles() ([]string, error) {
	rows, err := d.db.Query(`SELECT name FROM profiles ORDER BY created_at, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// DeleteProfile removes a profile and all its state. The last remaining
// profile cannot be deleted.
func (d *DB) DeleteProfile(name string) error {
	profiles, err := d.ListProfiles()
	if err != nil {
		return err
	}
	if len(profiles) <= 1 {
		return domain.ErrLastProfile
	}

	res, err := d.db.Exec(`DELETE FROM profiles WHERE name = ?`, name)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrProfileNotFound
	}

	for _, stmt := range []string{
		`DELETE FROM completed_occurrences WHERE profile = ?`,
		`DELETE FROM completed_event_types WHERE profile = ?`,
		`DELETE FROM daily_progress WHERE profile = ?`,
	} {
		if _, err := d.db.Exec(stmt, name); err != nil {
			return err
		}
	}
	return nil
}

// ─── Completion State ───────────────────────────────────────────────────────

// CompletionState loads both completion sets for a profile. A profile with
// no rows yields empty (nil-free) sets.
func (d *DB) CompletionState(profile string) (domain.CompletionState, error) {
	state := domain.CompletionState{
		Occurrences: make(map[string]bool),
		EventTypes:  make(map[string]bool),
	}

	rows, err := d.db.Query(
		`SELECT occurrence_id FROM completed_occurrences WHERE profile = ?`, profile)
	if err != nil {
		return state, err
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return state, err
		}
		state.Occurrences[id] = true
	}
	if err := rows.Err(); err != nil {
		return state, err
	}

	rows, err = d.db.Query(
		`SELECT event_key FROM completed_event_types WHERE profile = ?`, profile)
	if err != nil {
		return state, err
	}
	defer rows.Close()
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return state, err
		}
		state.EventTypes[key] = true
	}
	return state, rows.Err()
}

// ToggleOccurrence flips the completion mark for one occurrence ID.
// Returns true when the occurrence is now marked complete.
func (d *DB) ToggleOccurrence(profile, occurrenceID, eventKey string) (bool, error) {
	res, err := d.db.Exec(
		`DELETE FROM completed_occurrences WHERE profile = ? AND occurrence_id = ?`,
		profile, occurrenceID,
	)
	if err != nil {
		return false, err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return false, nil // was set, now cleared
	}

	_, err = d.db.Exec(
		`INSERT INTO completed_occurrences (profile, occurrence_id, event_key, completed_at)
		 VALUES (?, ?, ?, ?)`,
		profile, occurrenceID, eventKey, time.Now().Unix(),
	)
	return true, err
}

// ToggleEventType flips the completion mark for a whole event type.
// Returns true when the type is now marked complete.
func (d *DB) ToggleEventType(profile, eventKey string) (bool, error) {
	res, err := d.db.Exec(
		`DELETE FROM completed_event_types WHERE profile = ? AND event_key = ?`,
		profile, eventKey,
	)
	if err != nil {
		return false, err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return false, nil
	}

	_, err = d.db.Exec(
		`INSERT INTO completed_event_types (profile, event_key, completed_at)
		 VALUES (?, ?, ?)`,
		profile, eventKey, time.Now().Unix(),
	)
	return true, err
}

// ─── Daily Progress ─────────────────────────────────────────────────────────

// DailyProgress loads the task checklist state for a profile.
func (d *DB) DailyProgress(profile string) (domain.DailyProgress, error) {
	rows, err := d.db.Query(
		`SELECT category, task_id, done FROM daily_progress WHERE profile = ?`, profile)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	progress := make(domain.DailyProgress)
	for rows.Next() {
		var cat, task string
		var done bool
		if err := rows.Scan(&cat, &task, &done); err != nil {
			return nil, err
		}
		category := domain.TaskCategory(cat)
		if progress[category] == nil {
			progress[category] = make(map[string]bool)
		}
		progress[category][task] = done
	}
	return progress, rows.Err()
}

// SetTaskDone records one checklist entry.
func (d *DB) SetTaskDone(profile string, category domain.TaskCategory, taskID string, done bool) error {
	_, err := d.db.Exec(
		`INSERT INTO daily_progress (profile, category, task_id, done)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(profile, category, task_id) DO UPDATE SET done=excluded.done`,
		profile, string(category), taskID, done,
	)
	return err
}

// ToggleTask flips one checklist entry and returns the new state.
func (d *DB) ToggleTask(profile string, category domain.TaskCategory, taskID string) (bool, error) {
	progress, err := d.DailyProgress(profile)
	if err != nil {
		return false, err
	}
	next := !progress.Done(category, taskID)
	return next, d.SetTaskDone(profile, category, taskID, next)
}

// ─── Daily Reset ────────────────────────────────────────────────────────────

// ClearDaily archives every profile's completed tasks under the given UTC
// date, then wipes all per-day state: completion marks and task progress.
// Profiles, meta keys, and the history archive survive.
func (d *DB) ClearDaily(date string) error {
	if _, err := d.db.Exec(
		`INSERT INTO progress_history (profile, date, category, task_id, done)
		 SELECT profile, ?, category, task_id, done FROM daily_progress WHERE done = 1
		 ON CONFLICT(profile, date, category, task_id) DO UPDATE SET done = excluded.done`,
		date,
	); err != nil {
		return err
	}

	for _, stmt := range []string{
		`DELETE FROM completed_occurrences`,
		`DELETE FROM completed_event_types`,
		`DELETE FROM daily_progress`,
	} {
		if _, err := d.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// History returns a profile's archived checklist progress, most recent
// date first.
func (d *DB) History(profile string) ([]domain.HistoryDay, error) {
	rows, err := d.db.Query(
		`SELECT date, category, task_id, done FROM progress_history
		 WHERE profile = ? ORDER BY date DESC, category, task_id`,
		profile,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.HistoryDay
	for rows.Next() {
		var date, category, taskID string
		var done bool
		if err := rows.Scan(&date, &category, &taskID, &done); err != nil {
			return nil, err
		}
		if len(out) == 0 || out[len(out)-1].Date != date {
			out = append(out, domain.HistoryDay{Date: date, Progress: domain.DailyProgress{}})
		}
		day := &out[len(out)-1]
		cat := domain.TaskCategory(category)
		if day.Progress[cat] == nil {
			day.Progress[cat] = make(map[string]bool)
		}
		day.Progress[cat][taskID] = done
	}
	return out, rows.Err()
}

// ─── Meta KV ────────────────────────────────────────────────────────────────

// SetMeta stores a key-value pair.
func (d *DB) SetMeta(key, value string) error {
	_, err := d.db.Exec(
		`INSERT INTO meta (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value`,
		key, value,
	)
	return err
}

// GetMeta retrieves a value, or "" when the key is absent.
func (d *DB) GetMeta(key string) (string, error) {
	var value string
	err := d.db.QueryRow(`SELECT value FROM meta WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}
