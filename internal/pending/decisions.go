package pending

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"reelsync/internal/identification"
	"reelsync/internal/services"
)

// Decision is one deferred manual choice.
type Decision struct {
	PageID      string
	Title       string
	Query       string
	Year        int
	ResultCount int
	Reason      string
	Candidates  []identification.ScoredCandidate
	Attempts    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Outcome records how a deferred decision left the queue.
type Outcome string

const (
	OutcomeResolved Outcome = "resolved"
	OutcomeDropped  Outcome = "dropped"
)

// HistoryEntry is one row of the decision history.
type HistoryEntry struct {
	PageID     string
	Title      string
	Outcome    Outcome
	TMDBID     int64
	ResolvedAt time.Time
}

const decisionColumns = "page_id, title, query, year, result_count, reason, candidates_json, attempts, created_at, updated_at"

// Defer stores d, replacing the candidates of an existing entry for the same
// page and counting the attempt.
func (s *Store) Defer(ctx context.Context, d Decision) error {
	if strings.TrimSpace(d.PageID) == "" {
		return services.Wrap(services.ErrValidation, "pending", "defer", "page id required", nil)
	}
	candidates, err := json.Marshal(d.Candidates)
	if err != nil {
		return fmt.Errorf("marshal candidates: %w", err)
	}
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = s.exec(ctx,
		`INSERT INTO pending_decisions (`+decisionColumns+`)
        VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?, ?)
        ON CONFLICT(page_id) DO UPDATE SET
            title = excluded.title,
            query = excluded.query,
            year = excluded.year,
            result_count = excluded.result_count,
            reason = excluded.reason,
            candidates_json = excluded.candidates_json,
            attempts = pending_decisions.attempts + 1,
            updated_at = excluded.updated_at`,
		d.PageID, d.Title, d.Query, d.Year, d.ResultCount, d.Reason, string(candidates), timestamp, timestamp,
	)
	if err != nil {
		return fmt.Errorf("defer decision %s: %w", d.PageID, err)
	}
	return nil
}

// List returns every pending decision, oldest first.
func (s *Store) List(ctx context.Context) ([]Decision, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+decisionColumns+" FROM pending_decisions ORDER BY created_at, page_id")
	if err != nil {
		return nil, fmt.Errorf("list pending decisions: %w", err)
	}
	defer rows.Close()

	var decisions []Decision
	for rows.Next() {
		d, err := scanDecision(rows)
		if err != nil {
			return nil, err
		}
		decisions = append(decisions, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending decisions: %w", err)
	}
	return decisions, nil
}

// Get returns the pending decision for pageID, or nil when there is none.
func (s *Store) Get(ctx context.Context, pageID string) (*Decision, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+decisionColumns+" FROM pending_decisions WHERE page_id = ?", pageID)
	d, err := scanDecision(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Count returns the number of pending decisions.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM pending_decisions").Scan(&n); err != nil {
		return 0, fmt.Errorf("count pending decisions: %w", err)
	}
	return n, nil
}

// Resolve removes the decision after the chosen movie was applied.
func (s *Store) Resolve(ctx context.Context, pageID string, tmdbID int64) error {
	return s.close(ctx, pageID, OutcomeResolved, tmdbID)
}

// Drop removes the decision without applying anything.
func (s *Store) Drop(ctx context.Context, pageID string) error {
	return s.close(ctx, pageID, OutcomeDropped, 0)
}

func (s *Store) close(ctx context.Context, pageID string, outcome Outcome, tmdbID int64) error {
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		var title string
		err = tx.QueryRowContext(ctx, "SELECT title FROM pending_decisions WHERE page_id = ?", pageID).Scan(&title)
		if errors.Is(err, sql.ErrNoRows) {
			return services.Wrap(services.ErrNotFound, "pending", string(outcome), "no pending decision for "+pageID, nil)
		}
		if err != nil {
			return fmt.Errorf("load pending decision: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM pending_decisions WHERE page_id = ?", pageID); err != nil {
			return fmt.Errorf("delete pending decision: %w", err)
		}
		var id any
		if tmdbID > 0 {
			id = tmdbID
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO decision_history (page_id, title, outcome, tmdb_id, resolved_at) VALUES (?, ?, ?, ?, ?)",
			pageID, title, string(outcome), id, time.Now().UTC().Format(time.RFC3339Nano),
		); err != nil {
			return fmt.Errorf("record decision history: %w", err)
		}
		return tx.Commit()
	})
}

// History returns the most recent closed decisions, newest first.
func (s *Store) History(ctx context.Context, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT page_id, title, outcome, tmdb_id, resolved_at FROM decision_history ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("list decision history: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var (
			entry    HistoryEntry
			outcome  string
			tmdbID   sql.NullInt64
			resolved string
		)
		if err := rows.Scan(&entry.PageID, &entry.Title, &outcome, &tmdbID, &resolved); err != nil {
			return nil, fmt.Errorf("scan decision history: %w", err)
		}
		entry.Outcome = Outcome(outcome)
		entry.TMDBID = tmdbID.Int64
		entry.ResolvedAt = parseTimestamp(resolved)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func scanDecision(scanner interface{ Scan(dest ...any) error }) (*Decision, error) {
	var (
		d          Decision
		candidates string
		createdRaw string
		updatedRaw string
	)
	if err := scanner.Scan(&d.PageID, &d.Title, &d.Query, &d.Year, &d.ResultCount, &d.Reason,
		&candidates, &d.Attempts, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(candidates), &d.Candidates); err != nil {
		return nil, fmt.Errorf("decode candidates for %s: %w", d.PageID, err)
	}
	d.CreatedAt = parseTimestamp(createdRaw)
	d.UpdatedAt = parseTimestamp(updatedRaw)
	return &d, nil
}

func parseTimestamp(raw string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}
