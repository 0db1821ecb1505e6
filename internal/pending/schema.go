package pending

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// queueSchema is stamped into PRAGMA user_version. Raise it whenever
// schema.sql changes.
const queueSchema = 1

// ErrIncompatibleQueue reports a pending.db written with another queue layout.
var ErrIncompatibleQueue = errors.New("pending queue layout is incompatible")

// migrate installs the tables into a fresh file and refuses files stamped
// with another layout.
func (s *Store) migrate(ctx context.Context) error {
	var stamp int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&stamp); err != nil {
		return fmt.Errorf("read queue layout stamp: %w", err)
	}
	switch stamp {
	case queueSchema:
		return nil
	case 0:
		return s.install(ctx)
	default:
		return fmt.Errorf("%w: %s is stamped %d, this reelsync expects %d; finish the queued choices with the reelsync that wrote it, then delete the file",
			ErrIncompatibleQueue, s.path, stamp, queueSchema)
	}
}

func (s *Store) install(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin queue install: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create queue tables: %w", err)
	}
	// PRAGMA does not accept bound parameters.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", queueSchema)); err != nil {
		return fmt.Errorf("stamp queue layout: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit queue install: %w", err)
	}
	return nil
}
