package review

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// PostgresLog is the production Log, storing each entry's snapshots and
// result as JSON alongside the indexed lookup columns — mirroring
// pkg/memory.PostgresStore's split of relational columns plus a JSON blob
// for the variable-shaped parts of a record.
type PostgresLog struct {
	db *sql.DB
}

func NewPostgresLog(db *sql.DB) *PostgresLog {
	return &PostgresLog{db: db}
}

const selectLogColumns = `id, client_review_id, session_id, sentence_id, mode, comprehension_signal,
	prior_shown, snapshots, result, created_at`

func scanLogRow(row *sql.Row) (*LogEntry, bool, error) {
	var (
		e              LogEntry
		priorShownJSON []byte
		snapshotsJSON  []byte
		resultJSON     []byte
	)
	err := row.Scan(&e.ID, &e.ClientReviewID, &e.SessionID, &e.SentenceID, &e.Mode, &e.ComprehensionSignal,
		&priorShownJSON, &snapshotsJSON, &resultJSON, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("scan review log row: %w", err)
	}
	if err := json.Unmarshal(priorShownJSON, &e.PriorShown); err != nil {
		return nil, false, fmt.Errorf("decode prior shown: %w", err)
	}
	if err := json.Unmarshal(snapshotsJSON, &e.Snapshots); err != nil {
		return nil, false, fmt.Errorf("decode snapshots: %w", err)
	}
	if err := json.Unmarshal(resultJSON, &e.Result); err != nil {
		return nil, false, fmt.Errorf("decode result: %w", err)
	}
	return &e, true, nil
}

func (p *PostgresLog) GetByClientID(ctx context.Context, clientReviewID string) (*LogEntry, bool, error) {
	row := p.db.QueryRowContext(ctx, `SELECT `+selectLogColumns+` FROM review_logs WHERE client_review_id = $1`, clientReviewID)
	return scanLogRow(row)
}

func (p *PostgresLog) Get(ctx context.Context, id string) (*LogEntry, bool, error) {
	row := p.db.QueryRowContext(ctx, `SELECT `+selectLogColumns+` FROM review_logs WHERE id = $1`, id)
	return scanLogRow(row)
}

func (p *PostgresLog) Put(ctx context.Context, entry *LogEntry) error {
	priorShownJSON, err := json.Marshal(entry.PriorShown)
	if err != nil {
		return fmt.Errorf("encode prior shown: %w", err)
	}
	snapshotsJSON, err := json.Marshal(entry.Snapshots)
	if err != nil {
		return fmt.Errorf("encode snapshots: %w", err)
	}
	resultJSON, err := json.Marshal(entry.Result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	_, err = p.db.ExecContext(ctx, `
		INSERT INTO review_logs (id, client_review_id, session_id, sentence_id, mode, comprehension_signal,
			prior_shown, snapshots, result, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (id) DO UPDATE SET
			prior_shown = EXCLUDED.prior_shown, snapshots = EXCLUDED.snapshots, result = EXCLUDED.result`,
		entry.ID, entry.ClientReviewID, entry.SessionID, entry.SentenceID, string(entry.Mode), string(entry.ComprehensionSignal),
		priorShownJSON, snapshotsJSON, resultJSON, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert review log: %w", err)
	}
	return nil
}

func (p *PostgresLog) Delete(ctx context.Context, id string) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM review_logs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete review log: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete review log: %w", err)
	}
	if n == 0 {
		return ErrReviewLogNotFound
	}
	return nil
}

// PurgeOlderThan deletes review log entries created before cutoff.
func (p *PostgresLog) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := p.db.ExecContext(ctx, `DELETE FROM review_logs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge review logs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge review logs: %w", err)
	}
	return n, nil
}
