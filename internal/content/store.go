package content

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"scribe/internal/config"
	"scribe/internal/stage"
)

// Store manages content persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the content database and applies the schema.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.DataDir, "content.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// NewItem inserts a new content record starting at the research stage.
func (s *Store) NewItem(ctx context.Context, projectID, name, keyword, website string) (*Item, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, errors.New("keyword is required")
	}
	if strings.TrimSpace(name) == "" {
		name = keyword
	}

	id := uuid.NewString()
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO items (
            id, project_id, name, keyword, website, current_stage,
            stage_data, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		projectID,
		name,
		keyword,
		nullableString(website),
		stage.Research,
		"{}",
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}

	return s.GetByID(ctx, id)
}

// GetByID fetches a content item by identifier. Identifiers that predate the
// per-item record are materialized from the legacy per-stage rows.
func (s *Store) GetByID(ctx context.Context, id string) (*Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return s.getLegacy(ctx, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// Save persists one stage artifact for an item. Other stages in the stored
// blob are preserved, a history row is always appended, and replaying the
// same artifact leaves the stored data unchanged.
func (s *Store) Save(ctx context.Context, id string, st stage.Stage, artifact json.RawMessage) error {
	if !stage.Known(st) {
		return fmt.Errorf("%w: %q", ErrUnknownStage, st)
	}
	if len(bytes.TrimSpace(artifact)) == 0 {
		artifact = json.RawMessage("null")
	}

	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var stored string
	err = tx.QueryRowContext(ctx, `SELECT stage_data FROM items WHERE id = ?`, id).Scan(&stored)
	switch {
	case err == nil:
		data := stage.Data{}
		if stored != "" {
			if unmarshalErr := json.Unmarshal([]byte(stored), &data); unmarshalErr != nil {
				return fmt.Errorf("decode stage data: %w", unmarshalErr)
			}
		}
		data[st] = artifact
		merged, marshalErr := json.Marshal(data)
		if marshalErr != nil {
			return fmt.Errorf("encode stage data: %w", marshalErr)
		}

		currentStage := st
		if stage.Index(st) < 0 {
			currentStage = stage.Latest(data)
		}
		_, err = tx.ExecContext(
			ctx,
			`UPDATE items SET stage_data = ?, current_stage = ?, updated_at = ?, last_saved_at = ? WHERE id = ?`,
			string(merged), currentStage, timestamp, timestamp, id,
		)
		if err != nil {
			return fmt.Errorf("update item: %w", err)
		}
	case errors.Is(err, sql.ErrNoRows):
		if legacyErr := s.saveLegacy(ctx, tx, id, st, artifact, timestamp); legacyErr != nil {
			return legacyErr
		}
	default:
		return fmt.Errorf("load stage data: %w", err)
	}

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO saves (content_id, stage, data, saved_at) VALUES (?, ?, ?, ?)`,
		id, st, string(artifact), timestamp,
	)
	if err != nil {
		return fmt.Errorf("append save history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

// SetStage updates the navigation stage without touching stored artifacts.
func (s *Store) SetStage(ctx context.Context, id string, st stage.Stage) error {
	if !stage.Known(st) {
		return fmt.Errorf("%w: %q", ErrUnknownStage, st)
	}
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE items SET current_stage = ?, updated_at = ? WHERE id = ?`,
		st, timestamp, id,
	)
	if err != nil {
		return fmt.Errorf("set stage: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set stage rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByProject returns a project's items ordered by creation time.
func (s *Store) ListByProject(ctx context.Context, projectID string) ([]*Item, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+itemColumns+` FROM items WHERE project_id = ? ORDER BY created_at`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("list by project: %w", err)
	}
	defer rows.Close()
	return collectItems(rows)
}

// List returns all content items ordered by creation time.
func (s *Store) List(ctx context.Context) ([]*Item, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+itemColumns+` FROM items ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	return collectItems(rows)
}

// Search returns items whose name or keyword contains the term.
func (s *Store) Search(ctx context.Context, term string) ([]*Item, error) {
	pattern := "%" + strings.TrimSpace(term) + "%"
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+itemColumns+` FROM items WHERE name LIKE ? OR keyword LIKE ? ORDER BY created_at`,
		pattern, pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("search items: %w", err)
	}
	defer rows.Close()
	return collectItems(rows)
}

// History returns the append-only save records for an item, oldest first.
func (s *Store) History(ctx context.Context, id string) ([]SaveRecord, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, content_id, stage, data, saved_at FROM saves WHERE content_id = ? ORDER BY id`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("query save history: %w", err)
	}
	defer rows.Close()

	var records []SaveRecord
	for rows.Next() {
		var (
			rec     SaveRecord
			stageID string
			data    string
			savedAt string
		)
		if err := rows.Scan(&rec.ID, &rec.ContentID, &stageID, &data, &savedAt); err != nil {
			return nil, fmt.Errorf("scan save record: %w", err)
		}
		rec.Stage = stage.Stage(stageID)
		rec.Data = []byte(data)
		rec.SavedAt = parseTimestamp(savedAt)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// getLegacy materializes an Item from the legacy per-stage rows for a
// project identifier. Returns ErrNotFound when no rows exist.
func (s *Store) getLegacy(ctx context.Context, projectID string) (*Item, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT stage_type, content, created_at FROM legacy_stages
         WHERE project_id = ? AND is_current = 1 ORDER BY id`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("query legacy stages: %w", err)
	}
	defer rows.Close()

	data := stage.Data{}
	var oldest, newest time.Time
	for rows.Next() {
		var stageType, body, createdAt string
		if err := rows.Scan(&stageType, &body, &createdAt); err != nil {
			return nil, fmt.Errorf("scan legacy stage: %w", err)
		}
		st, ok := stage.Parse(stageType)
		if !ok {
			continue
		}
		data[st] = json.RawMessage(body)
		ts := parseTimestamp(createdAt)
		if oldest.IsZero() || ts.Before(oldest) {
			oldest = ts
		}
		if ts.After(newest) {
			newest = ts
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrNotFound
	}

	return &Item{
		ID:           projectID,
		ProjectID:    projectID,
		CurrentStage: stage.Latest(data),
		StageData:    data,
		CreatedAt:    oldest,
		UpdatedAt:    newest,
	}, nil
}

// saveLegacy writes one stage into the legacy shape: prior rows for the
// stage are demoted and a fresh current row is inserted.
func (s *Store) saveLegacy(ctx context.Context, tx *sql.Tx, projectID string, st stage.Stage, artifact json.RawMessage, timestamp string) error {
	var existing int
	err := tx.QueryRowContext(
		ctx,
		`SELECT COUNT(1) FROM legacy_stages WHERE project_id = ?`,
		projectID,
	).Scan(&existing)
	if err != nil {
		return fmt.Errorf("check legacy rows: %w", err)
	}
	if existing == 0 {
		return ErrNotFound
	}

	_, err = tx.ExecContext(
		ctx,
		`UPDATE legacy_stages SET is_current = 0 WHERE project_id = ? AND stage_type = ?`,
		projectID, st,
	)
	if err != nil {
		return fmt.Errorf("demote legacy rows: %w", err)
	}

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO legacy_stages (project_id, stage_type, content, is_current, created_at)
         VALUES (?, ?, ?, 1, ?)`,
		projectID, st, string(artifact), timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert legacy row: %w", err)
	}
	return nil
}

const itemColumns = `id, project_id, name, keyword, website, current_stage, stage_data, created_at, updated_at, last_saved_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(scanner rowScanner) (*Item, error) {
	var (
		item         Item
		name         sql.NullString
		website      sql.NullString
		currentStage string
		stageData    string
		createdAt    string
		updatedAt    string
		lastSavedAt  sql.NullString
	)
	err := scanner.Scan(
		&item.ID,
		&item.ProjectID,
		&name,
		&item.Keyword,
		&website,
		&currentStage,
		&stageData,
		&createdAt,
		&updatedAt,
		&lastSavedAt,
	)
	if err != nil {
		return nil, err
	}

	item.Name = name.String
	item.Website = website.String
	item.CurrentStage = stage.Stage(currentStage)
	item.StageData = stage.Data{}
	if stageData != "" {
		if err := json.Unmarshal([]byte(stageData), &item.StageData); err != nil {
			return nil, fmt.Errorf("decode stage data: %w", err)
		}
	}
	item.CreatedAt = parseTimestamp(createdAt)
	item.UpdatedAt = parseTimestamp(updatedAt)
	if lastSavedAt.Valid && lastSavedAt.String != "" {
		ts := parseTimestamp(lastSavedAt.String)
		item.LastSavedAt = &ts
	}
	return &item, nil
}

func collectItems(rows *sql.Rows) ([]*Item, error) {
	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func parseTimestamp(value string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts
		}
	}
	return time.Time{}
}
