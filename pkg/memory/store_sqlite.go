package memory

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore is the canonical persistent storage for brand profiles,
// conversation turns, and extracted artifacts.
type SQLiteStore struct {
	db           *sql.DB
	maxBrandsPer int
}

// NewSQLiteStore creates/opens the database at path. maxBrandsPerUser <= 0
// disables the per-user brand limit.
func NewSQLiteStore(path string, maxBrandsPerUser int) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// Single-process store. One shared connection avoids writer lock
	// contention with SQLite under concurrent goroutines.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	store := &SQLiteStore{db: db, maxBrandsPer: maxBrandsPerUser}
	if err := store.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) init() error {
	stmts := []string{
		`PRAGMA journal_mode=WAL;`,
		`PRAGMA synchronous=NORMAL;`,
		`PRAGMA temp_store=MEMORY;`,
		`PRAGMA busy_timeout=5000;`,
		`CREATE TABLE IF NOT EXISTS brand_profiles (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			name_local TEXT NOT NULL,
			profile_json TEXT NOT NULL,
			created_at_ms INTEGER NOT NULL,
			updated_at_ms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS brand_profiles_user_idx ON brand_profiles(user_id, updated_at_ms DESC);`,
		`CREATE TABLE IF NOT EXISTS messages (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			persona_id TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at_ms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS messages_thread_idx ON messages(user_id, persona_id, created_at_ms DESC);`,
		`CREATE TABLE IF NOT EXISTS artifacts (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			persona_id TEXT NOT NULL,
			name TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at_ms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS artifacts_user_idx ON artifacts(user_id, created_at_ms DESC);`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("init sqlite schema failed on %q: %w", trimSQL(stmt), err)
		}
	}
	return nil
}

func trimSQL(sql string) string {
	line := strings.TrimSpace(sql)
	if len(line) > 96 {
		return line[:96] + "..."
	}
	return line
}

func nowMS() int64 { return time.Now().UnixMilli() }

func encodeProfile(p BrandProfile) string {
	b, err := json.Marshal(p)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func decodeProfile(raw string) BrandProfile {
	var p BrandProfile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return BrandProfile{}
	}
	return p
}

func (s *SQLiteStore) SaveBrandProfile(ctx context.Context, profile BrandProfile) (BrandProfile, error) {
	if strings.TrimSpace(profile.UserID) == "" {
		return BrandProfile{}, fmt.Errorf("save brand profile: empty user_id")
	}
	if strings.TrimSpace(profile.NameLocal) == "" {
		return BrandProfile{}, fmt.Errorf("save brand profile: empty name")
	}

	isNew := profile.ID == ""
	if isNew {
		profile.ID = "brand-" + uuid.NewString()
		profile.CreatedAt = time.Now()
	}
	profile.UpdatedAt = time.Now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return BrandProfile{}, fmt.Errorf("save brand profile begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if isNew && s.maxBrandsPer > 0 {
		var count int
		row := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM brand_profiles WHERE user_id = ?`, profile.UserID)
		if err := row.Scan(&count); err != nil {
			return BrandProfile{}, fmt.Errorf("save brand profile count: %w", err)
		}
		if count >= s.maxBrandsPer {
			return BrandProfile{}, ErrBrandLimit
		}
	}

	created := profile.CreatedAt.UnixMilli()
	updated := profile.UpdatedAt.UnixMilli()
	if _, err := tx.ExecContext(ctx, `
INSERT INTO brand_profiles(id, user_id, name_local, profile_json, created_at_ms, updated_at_ms)
VALUES(?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	name_local = excluded.name_local,
	profile_json = excluded.profile_json,
	updated_at_ms = excluded.updated_at_ms`,
		profile.ID, profile.UserID, profile.NameLocal, encodeProfile(profile), created, updated); err != nil {
		return BrandProfile{}, fmt.Errorf("save brand profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return BrandProfile{}, fmt.Errorf("save brand profile commit: %w", err)
	}
	return profile, nil
}

func (s *SQLiteStore) GetBrandProfile(ctx context.Context, id string) (BrandProfile, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT profile_json, created_at_ms, updated_at_ms
FROM brand_profiles WHERE id = ?`, id)
	var raw string
	var createdMS, updatedMS int64
	if err := row.Scan(&raw, &createdMS, &updatedMS); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return BrandProfile{}, ErrBrandNotFound
		}
		return BrandProfile{}, fmt.Errorf("get brand profile: %w", err)
	}
	profile := decodeProfile(raw)
	profile.CreatedAt = time.UnixMilli(createdMS)
	profile.UpdatedAt = time.UnixMilli(updatedMS)
	return profile, nil
}

func (s *SQLiteStore) ListBrandProfiles(ctx context.Context, userID string) ([]BrandProfile, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT profile_json, created_at_ms, updated_at_ms
FROM brand_profiles
WHERE user_id = ?
ORDER BY updated_at_ms DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list brand profiles: %w", err)
	}
	defer rows.Close()

	out := []BrandProfile{}
	for rows.Next() {
		var raw string
		var createdMS, updatedMS int64
		if err := rows.Scan(&raw, &createdMS, &updatedMS); err != nil {
			return nil, fmt.Errorf("scan brand profile: %w", err)
		}
		profile := decodeProfile(raw)
		profile.CreatedAt = time.UnixMilli(createdMS)
		profile.UpdatedAt = time.UnixMilli(updatedMS)
		out = append(out, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate brand profiles: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) DeleteBrandProfile(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM brand_profiles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete brand profile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBrandNotFound
	}
	return nil
}

func (s *SQLiteStore) AppendTurn(ctx context.Context, rec MessageRecord) error {
	if strings.TrimSpace(rec.UserID) == "" {
		return fmt.Errorf("append turn: empty user_id")
	}
	if strings.TrimSpace(rec.PersonaID) == "" {
		return fmt.Errorf("append turn: empty persona_id")
	}
	if rec.ID == "" {
		rec.ID = "msg-" + uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO messages(id, user_id, persona_id, role, content, created_at_ms)
VALUES(?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.UserID, rec.PersonaID, rec.Role, rec.Content, rec.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("append turn: %w", err)
	}
	return nil
}

// ListRecentTurns returns the newest limit turns in chronological order.
// rowid breaks same-millisecond ties by insertion order; the random uuid ids
// carry no ordering.
func (s *SQLiteStore) ListRecentTurns(ctx context.Context, userID, personaID string, limit int) ([]MessageRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, user_id, persona_id, role, content, created_at_ms
FROM messages
WHERE user_id = ? AND persona_id = ?
ORDER BY created_at_ms DESC, rowid DESC
LIMIT ?`, userID, personaID, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent turns: %w", err)
	}
	defer rows.Close()

	out := make([]MessageRecord, 0, limit)
	for rows.Next() {
		var rec MessageRecord
		var createdMS int64
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.PersonaID, &rec.Role, &rec.Content, &createdMS); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		rec.CreatedAt = time.UnixMilli(createdMS)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate turns: %w", err)
	}

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (s *SQLiteStore) ClearHistory(ctx context.Context, userID, personaID string) (int, error) {
	res, err := s.db.ExecContext(ctx, `
DELETE FROM messages
WHERE user_id = ?
AND (? = '' OR persona_id = ?)`, userID, personaID, personaID)
	if err != nil {
		return 0, fmt.Errorf("clear history: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (s *SQLiteStore) SaveArtifact(ctx context.Context, rec ArtifactRecord) error {
	if strings.TrimSpace(rec.Name) == "" {
		return fmt.Errorf("save artifact: empty name")
	}
	if rec.ID == "" {
		rec.ID = "art-" + uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO artifacts(id, user_id, persona_id, name, content, created_at_ms)
VALUES(?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.UserID, rec.PersonaID, rec.Name, rec.Content, rec.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("save artifact: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListArtifacts(ctx context.Context, userID string, limit int) ([]ArtifactRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, user_id, persona_id, name, content, created_at_ms
FROM artifacts
WHERE user_id = ?
ORDER BY created_at_ms DESC, rowid DESC
LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}
	defer rows.Close()

	out := []ArtifactRecord{}
	for rows.Next() {
		var rec ArtifactRecord
		var createdMS int64
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.PersonaID, &rec.Name, &rec.Content, &createdMS); err != nil {
			return nil, fmt.Errorf("scan artifact: %w", err)
		}
		rec.CreatedAt = time.UnixMilli(createdMS)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate artifacts: %w", err)
	}
	return out, nil
}

// SweepRetention deletes messages and artifacts older than their TTL.
// A zero or negative TTL skips that table.
func (s *SQLiteStore) SweepRetention(ctx context.Context, messageTTL, artifactTTL time.Duration) (SweepResult, error) {
	var result SweepResult
	now := nowMS()

	if messageTTL > 0 {
		cutoff := now - messageTTL.Milliseconds()
		res, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE created_at_ms < ?`, cutoff)
		if err != nil {
			return result, fmt.Errorf("sweep messages: %w", err)
		}
		n, _ := res.RowsAffected()
		result.MessagesDeleted = int(n)
	}

	if artifactTTL > 0 {
		cutoff := now - artifactTTL.Milliseconds()
		res, err := s.db.ExecContext(ctx, `DELETE FROM artifacts WHERE created_at_ms < ?`, cutoff)
		if err != nil {
			return result, fmt.Errorf("sweep artifacts: %w", err)
		}
		n, _ := res.RowsAffected()
		result.ArtifactsDeleted = int(n)
	}

	return result, nil
}
