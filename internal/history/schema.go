package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the journal layout this build writes.
const schemaVersion = 2

// migrations[v] upgrades a journal from version v-1 to v.
var migrations = map[int]string{
	2: `ALTER TABLE transfers ADD COLUMN encoding TEXT`,
}

// ErrSchemaMismatch indicates the journal was written by a newer build.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// initSchema creates a fresh journal or upgrades an older one in a single
// transaction.
func (s *Store) initSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	version, err := storedVersion(ctx, tx)
	if err != nil {
		return err
	}

	switch {
	case version == 0:
		if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
	case version > schemaVersion:
		return fmt.Errorf("%w: journal %s has version %d, this build reads up to %d",
			ErrSchemaMismatch, s.path, version, schemaVersion)
	case version < schemaVersion:
		for v := version + 1; v <= schemaVersion; v++ {
			if _, err := tx.ExecContext(ctx, migrations[v]); err != nil {
				return fmt.Errorf("migrate journal to version %d: %w", v, err)
			}
		}
		if _, err := tx.ExecContext(ctx, "UPDATE schema_version SET version = ?", schemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
	default:
		return nil
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// storedVersion returns 0 for a journal that has never been initialized.
func storedVersion(ctx context.Context, tx *sql.Tx) (int, error) {
	var tables int
	err := tx.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tables)
	if err != nil {
		return 0, fmt.Errorf("check schema_version table: %w", err)
	}
	if tables == 0 {
		return 0, nil
	}

	var version int
	err = tx.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}
