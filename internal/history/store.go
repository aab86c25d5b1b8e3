package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const entryColumns = "id, run_id, operation, episode_key, source_path, output_path, remote_path, encoding, outcome, failure_kind, error_message, created_at"

// Store manages the transfer journal backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the journal database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
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

// Record inserts entry and returns its assigned ID. A zero CreatedAt is
// stamped with the current time.
func (s *Store) Record(ctx context.Context, entry Entry) (int64, error) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO transfers (
            run_id, operation, episode_key, source_path, output_path, remote_path,
            encoding, outcome, failure_kind, error_message, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.RunID,
		entry.Operation,
		nullableString(entry.EpisodeKey),
		entry.SourcePath,
		nullableString(entry.OutputPath),
		nullableString(entry.RemotePath),
		nullableString(entry.Encoding),
		string(entry.Outcome),
		nullableString(entry.FailureKind),
		nullableString(entry.ErrorMessage),
		entry.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("insert transfer: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// List returns the newest entries first. A limit <= 0 returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM transfers ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return s.query(ctx, query, args...)
}

// ListRun returns the entries of one run in insertion order.
func (s *Store) ListRun(ctx context.Context, runID string) ([]Entry, error) {
	return s.query(ctx, `SELECT `+entryColumns+` FROM transfers WHERE run_id = ? ORDER BY id`, runID)
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transfers: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transfers: %w", err)
	}
	return entries, nil
}

func scanEntry(scanner interface{ Scan(dest ...any) error }) (Entry, error) {
	var (
		entry        Entry
		episodeKey   sql.NullString
		outputPath   sql.NullString
		remotePath   sql.NullString
		encoding     sql.NullString
		outcome      string
		failureKind  sql.NullString
		errorMessage sql.NullString
		createdRaw   string
	)
	if err := scanner.Scan(
		&entry.ID,
		&entry.RunID,
		&entry.Operation,
		&episodeKey,
		&entry.SourcePath,
		&outputPath,
		&remotePath,
		&encoding,
		&outcome,
		&failureKind,
		&errorMessage,
		&createdRaw,
	); err != nil {
		return Entry{}, fmt.Errorf("scan transfer: %w", err)
	}
	entry.EpisodeKey = episodeKey.String
	entry.OutputPath = outputPath.String
	entry.RemotePath = remotePath.String
	entry.Encoding = encoding.String
	entry.Outcome = Outcome(outcome)
	entry.FailureKind = failureKind.String
	entry.ErrorMessage = errorMessage.String
	if ts, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
		entry.CreatedAt = ts
	}
	return entry, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
