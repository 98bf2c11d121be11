package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"talkcut/internal/config"
)

// Store manages talk state persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the ledger database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(filepath.Join(cfg.Paths.LogDir, "ledger.db"))
}

// OpenPath opens a ledger database at an explicit location.
func OpenPath(dbPath string) (*Store, error) {
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

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

const itemColumns = "id, run_id, talk_id, room, title, resolved_title, title_truncated, output_path, video_id, status, error_message, created_at, updated_at"

// Register inserts a pending row for a talk, or returns the existing row when
// the talk was seen by an earlier run.
func (s *Store) Register(ctx context.Context, runID, talkID, room, title string) (*Item, error) {
	existing, err := s.GetByTalkID(ctx, talkID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO talks (run_id, talk_id, room, title, status, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, talkID, room, title, StatusPending, timestamp, timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert talk: %w", err)
	}
	return s.GetByTalkID(ctx, talkID)
}

// Update persists the mutable fields of an item.
func (s *Store) Update(ctx context.Context, item *Item) error {
	if item == nil {
		return errors.New("nil item")
	}
	if _, ok := statusSet[item.Status]; !ok {
		return fmt.Errorf("unknown status %q", item.Status)
	}
	item.UpdatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE talks SET run_id = ?, resolved_title = ?, title_truncated = ?, output_path = ?,
            video_id = ?, status = ?, error_message = ?, updated_at = ?
         WHERE talk_id = ?`,
		item.RunID,
		nullableString(item.ResolvedTitle),
		boolToInt(item.TitleTruncated),
		nullableString(item.OutputPath),
		nullableString(item.VideoID),
		item.Status,
		nullableString(item.ErrorMessage),
		item.UpdatedAt.Format(time.RFC3339Nano),
		item.TalkID,
	)
	if err != nil {
		return fmt.Errorf("update talk %s: %w", item.TalkID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("talk %s not registered", item.TalkID)
	}
	return nil
}

// GetByTalkID fetches one item by its talk identifier.
func (s *Store) GetByTalkID(ctx context.Context, talkID string) (*Item, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+itemColumns+" FROM talks WHERE talk_id = ?", talkID)
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get talk %s: %w", talkID, err)
	}
	return item, nil
}

// List returns every item ordered by room then insertion order, which mirrors
// the per-room processing order of the pipeline.
func (s *Store) List(ctx context.Context) ([]*Item, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+itemColumns+" FROM talks ORDER BY room, id")
	if err != nil {
		return nil, fmt.Errorf("list talks: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan talk: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate talks: %w", err)
	}
	return items, nil
}

// Stats summarises item counts per status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT status, COUNT(1) FROM talks GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("ledger stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan stats: %w", err)
		}
		stats[Status(status)] = count
	}
	return stats, rows.Err()
}

// Clear removes every row. Used when operators want a fresh run.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM talks"); err != nil {
		return fmt.Errorf("clear ledger: %w", err)
	}
	return nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func scanItem(scanner interface{ Scan(dest ...any) error }) (*Item, error) {
	var (
		id             int64
		runID          sql.NullString
		talkID         string
		room           string
		title          string
		resolvedTitle  sql.NullString
		titleTruncated sql.NullInt64
		outputPath     sql.NullString
		videoID        sql.NullString
		statusStr      string
		errorMessage   sql.NullString
		createdRaw     sql.NullString
		updatedRaw     sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&runID,
		&talkID,
		&room,
		&title,
		&resolvedTitle,
		&titleTruncated,
		&outputPath,
		&videoID,
		&statusStr,
		&errorMessage,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	item := &Item{
		ID:             id,
		RunID:          runID.String,
		TalkID:         talkID,
		Room:           room,
		Title:          title,
		ResolvedTitle:  resolvedTitle.String,
		TitleTruncated: titleTruncated.Int64 != 0,
		OutputPath:     outputPath.String,
		VideoID:        videoID.String,
		Status:         Status(statusStr),
		ErrorMessage:   errorMessage.String,
	}
	if createdRaw.Valid {
		if ts, err := time.Parse(time.RFC3339Nano, createdRaw.String); err == nil {
			item.CreatedAt = ts
		}
	}
	if updatedRaw.Valid {
		if ts, err := time.Parse(time.RFC3339Nano, updatedRaw.String); err == nil {
			item.UpdatedAt = ts
		}
	}
	return item, nil
}
