package review

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/houshuang/alif/pkg/lemma"
	"github.com/houshuang/alif/pkg/memory"
)

// PostgresRatingLog answers the Session Builder's Auto-Introduction and
// Root Interference queries directly against review_logs, reading the same
// `result` JSONB column PostgresLog writes — no separate word-ratings
// table, since these queries are read-only fan-out over data the log
// already owns.
type PostgresRatingLog struct {
	db *sql.DB
}

// NewPostgresRatingLog builds a session.RatingLog backed by db.
func NewPostgresRatingLog(db *sql.DB) *PostgresRatingLog {
	return &PostgresRatingLog{db: db}
}

// RecentWordRatings returns up to limit most-recent word ratings across all
// review log entries, most recent first.
func (p *PostgresRatingLog) RecentWordRatings(limit int) ([]memory.Rating, error) {
	ctx := context.Background()
	rows, err := p.db.QueryContext(ctx, `
		SELECT result FROM review_logs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent review logs: %w", err)
	}
	defer rows.Close()

	var out []memory.Rating
	for rows.Next() {
		var resultJSON []byte
		if err := rows.Scan(&resultJSON); err != nil {
			return nil, fmt.Errorf("scan review log result: %w", err)
		}
		var result Result
		if err := json.Unmarshal(resultJSON, &result); err != nil {
			return nil, fmt.Errorf("decode review log result: %w", err)
		}
		for _, w := range result.Words {
			if len(out) >= limit {
				return out, nil
			}
			out = append(out, w.Rating)
		}
	}
	return out, rows.Err()
}

// RatedOneSince reports whether lemmaID received a rating of 1 in any
// review log entry created at or after since.
func (p *PostgresRatingLog) RatedOneSince(lemmaID lemma.ID, since time.Time) (bool, error) {
	ctx := context.Background()
	rows, err := p.db.QueryContext(ctx, `
		SELECT result FROM review_logs WHERE created_at >= $1 ORDER BY created_at DESC`, since)
	if err != nil {
		return false, fmt.Errorf("query review logs since: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var resultJSON []byte
		if err := rows.Scan(&resultJSON); err != nil {
			return false, fmt.Errorf("scan review log result: %w", err)
		}
		var result Result
		if err := json.Unmarshal(resultJSON, &result); err != nil {
			return false, fmt.Errorf("decode review log result: %w", err)
		}
		for _, w := range result.Words {
			if w.LemmaID == lemmaID && w.Rating == memory.RatingAgain {
				return true, nil
			}
		}
	}
	return false, rows.Err()
}
