package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/mcoot/shadowsprint/internal/model"
	"github.com/mcoot/shadowsprint/internal/storage"
)

//go:embed schema.sql
var schema string

// Storage is a SQLite-backed implementation of the storage interface
type Storage struct {
	db *sql.DB
}

// Ensure Storage implements the interface
var _ storage.Store = (*Storage)(nil)

// Open opens (creating if needed) a SQLite store at path and applies the schema
func Open(path string) (*Storage, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}

	dsn := cleanPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// SQLite allows one writer; a single connection serializes the conditional writes
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping sqlite db: %w", storage.ErrUnavailable, err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close closes the underlying database
func (s *Storage) Close() error {
	return s.db.Close()
}

// Ping checks the database is usable
func (s *Storage) Ping(ctx context.Context) error {
	return wrapErr(s.db.PingContext(ctx))
}

// wrapErr marks a closed database and result codes for a locked, read-only or
// failing database file as storage.ErrUnavailable
func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrConnDone) || strings.Contains(err.Error(), "database is closed") || isUnusableDB(err) {
		return fmt.Errorf("%w: %w", storage.ErrUnavailable, err)
	}
	return err
}

func isUnusableDB(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	// Extended codes carry the primary code in the low byte
	switch sqliteErr.Code() & 0xff {
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED, sqlite3.SQLITE_READONLY,
		sqlite3.SQLITE_IOERR, sqlite3.SQLITE_FULL, sqlite3.SQLITE_CANTOPEN,
		sqlite3.SQLITE_NOMEM, sqlite3.SQLITE_CORRUPT, sqlite3.SQLITE_NOTADB:
		return true
	}
	return false
}

// Settings operations

const insertDefaultSettings = `
INSERT INTO player_settings (player_id, volume, vibration, language)
VALUES (?, ?, ?, ?)
ON CONFLICT (player_id) DO NOTHING`

const selectSettings = `
SELECT volume, vibration, language FROM player_settings WHERE player_id = ?`

func (s *Storage) EnsureSettings(ctx context.Context, defaults model.PlayerSettings) (*model.PlayerSettings, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, wrapErr(err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, insertDefaultSettings,
		string(defaults.PlayerID), defaults.Volume, defaults.Vibration, string(defaults.Language))
	if err != nil {
		return nil, false, wrapErr(err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return nil, false, err
	}

	settings, err := scanSettings(tx.QueryRowContext(ctx, selectSettings, string(defaults.PlayerID)), defaults.PlayerID)
	if err != nil {
		return nil, false, err
	}
	if err := tx.Commit(); err != nil {
		return nil, false, wrapErr(err)
	}
	return settings, inserted == 1, nil
}

func (s *Storage) MergeSettings(ctx context.Context, defaults model.PlayerSettings, patch model.SettingsPatch) (*model.PlayerSettings, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, insertDefaultSettings,
		string(defaults.PlayerID), defaults.Volume, defaults.Vibration, string(defaults.Language)); err != nil {
		return nil, wrapErr(err)
	}

	var volume, vibration, language any
	if patch.Volume != nil {
		volume = *patch.Volume
	}
	if patch.Vibration != nil {
		vibration = *patch.Vibration
	}
	if patch.Language != nil {
		language = string(*patch.Language)
	}
	if _, err := tx.ExecContext(ctx, `
UPDATE player_settings
SET volume = COALESCE(?, volume),
    vibration = COALESCE(?, vibration),
    language = COALESCE(?, language)
WHERE player_id = ?`,
		volume, vibration, language, string(defaults.PlayerID)); err != nil {
		return nil, wrapErr(err)
	}

	settings, err := scanSettings(tx.QueryRowContext(ctx, selectSettings, string(defaults.PlayerID)), defaults.PlayerID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, wrapErr(err)
	}
	return settings, nil
}

func scanSettings(row *sql.Row, id model.PlayerID) (*model.PlayerSettings, error) {
	settings := model.PlayerSettings{PlayerID: id}
	var language string
	if err := row.Scan(&settings.Volume, &settings.Vibration, &language); err != nil {
		return nil, wrapErr(err)
	}
	settings.Language = model.Language(language)
	return &settings, nil
}

// Progress operations

func (s *Storage) EnsureProgress(ctx context.Context, playerID model.PlayerID, now time.Time) (*model.ProgressRecord, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, wrapErr(err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
INSERT INTO progress (player_id, unlocked_upto, updated_at)
VALUES (?, ?, ?)
ON CONFLICT (player_id) DO NOTHING`,
		string(playerID), model.FirstLevel, now.UnixMilli())
	if err != nil {
		return nil, false, wrapErr(err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return nil, false, err
	}

	rec := model.ProgressRecord{PlayerID: playerID}
	var updatedAt int64
	if err := tx.QueryRowContext(ctx,
		`SELECT unlocked_upto, updated_at FROM progress WHERE player_id = ?`, string(playerID),
	).Scan(&rec.UnlockedUpto, &updatedAt); err != nil {
		return nil, false, wrapErr(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, false, wrapErr(err)
	}
	rec.UpdatedAt = fromMillis(updatedAt)
	return &rec, inserted == 1, nil
}

func (s *Storage) RaiseProgress(ctx context.Context, playerID model.PlayerID, unlockedUpto int, now time.Time) (*model.ProgressRecord, bool, error) {
	target := max(unlockedUpto, model.FirstLevel)

	// The WHERE on the upsert makes the raise a no-op unless it moves forward
	res, err := s.db.ExecContext(ctx, `
INSERT INTO progress (player_id, unlocked_upto, updated_at)
VALUES (?, ?, ?)
ON CONFLICT (player_id) DO UPDATE
SET unlocked_upto = excluded.unlocked_upto, updated_at = excluded.updated_at
WHERE excluded.unlocked_upto > progress.unlocked_upto`,
		string(playerID), target, now.UnixMilli())
	if err != nil {
		return nil, false, wrapErr(err)
	}
	changed, err := res.RowsAffected()
	if err != nil {
		return nil, false, err
	}

	rec := model.ProgressRecord{PlayerID: playerID}
	var updatedAt int64
	if err := s.db.QueryRowContext(ctx,
		`SELECT unlocked_upto, updated_at FROM progress WHERE player_id = ?`, string(playerID),
	).Scan(&rec.UnlockedUpto, &updatedAt); err != nil {
		return nil, false, wrapErr(err)
	}
	rec.UpdatedAt = fromMillis(updatedAt)

	// A fresh insert at the first level is a creation, not an advance
	return &rec, changed == 1 && unlockedUpto > model.FirstLevel, nil
}

// Ghost operations

func (s *Storage) GetGhost(ctx context.Context, playerID model.PlayerID, level int) (*model.GhostRecord, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT player_id, level, time_ms, inputs, recorded_at
FROM ghosts WHERE player_id = ? AND level = ?`, string(playerID), level)

	ghost, err := scanGhost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return ghost, err
}

func (s *Storage) PutGhostIfFaster(ctx context.Context, ghost *model.GhostRecord) (bool, error) {
	inputs, err := encodeInputs(ghost.Inputs)
	if err != nil {
		return false, err
	}

	res, err := s.db.ExecContext(ctx, `
INSERT INTO ghosts (player_id, level, time_ms, inputs, recorded_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (player_id, level) DO UPDATE
SET time_ms = excluded.time_ms, inputs = excluded.inputs, recorded_at = excluded.recorded_at
WHERE excluded.time_ms < ghosts.time_ms`,
		string(ghost.PlayerID), ghost.Level, ghost.TimeMs, inputs, toMillis(ghost.RecordedAt))
	if err != nil {
		return false, wrapErr(err)
	}
	changed, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return changed == 1, nil
}

func (s *Storage) ListGhosts(ctx context.Context, playerID model.PlayerID) ([]*model.GhostRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT player_id, level, time_ms, inputs, recorded_at
FROM ghosts WHERE player_id = ? ORDER BY level`, string(playerID))
	if err != nil {
		return nil, wrapErr(err)
	}
	defer func() { _ = rows.Close() }()

	ghosts := []*model.GhostRecord{}
	for rows.Next() {
		ghost, err := scanGhost(rows)
		if err != nil {
			return nil, err
		}
		ghosts = append(ghosts, ghost)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(err)
	}
	return ghosts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGhost(row rowScanner) (*model.GhostRecord, error) {
	var (
		ghost      model.GhostRecord
		playerID   string
		inputsRaw  string
		recordedAt int64
	)
	if err := row.Scan(&playerID, &ghost.Level, &ghost.TimeMs, &inputsRaw, &recordedAt); err != nil {
		return nil, wrapErr(err)
	}
	inputs, err := decodeInputs(inputsRaw)
	if err != nil {
		return nil, err
	}
	ghost.PlayerID = model.PlayerID(playerID)
	ghost.Inputs = inputs
	ghost.RecordedAt = fromMillis(recordedAt)
	return &ghost, nil
}

func encodeInputs(inputs []model.InputSegment) (string, error) {
	if len(inputs) == 0 {
		return "[]", nil
	}
	encoded, err := json.Marshal(inputs)
	if err != nil {
		return "", fmt.Errorf("marshal inputs: %w", err)
	}
	return string(encoded), nil
}

func decodeInputs(value string) ([]model.InputSegment, error) {
	var inputs []model.InputSegment
	if err := json.Unmarshal([]byte(value), &inputs); err != nil {
		return nil, fmt.Errorf("unmarshal inputs: %w", err)
	}
	return inputs, nil
}

// toMillis stores times as UTC unix milliseconds; the zero time stays zero
func toMillis(value time.Time) int64 {
	if value.IsZero() {
		return 0
	}
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	if value == 0 {
		return time.Time{}
	}
	return time.UnixMilli(value).UTC()
}
