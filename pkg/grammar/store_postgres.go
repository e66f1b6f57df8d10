package grammar

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/houshuang/alif/pkg/lemma"
)

// PostgresStore is the production exposure store, one row per grammar
// feature in the grammar_exposure table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const selectExposureSQL = `SELECT feature, times_seen, times_correct, comfort, last_seen_at FROM grammar_exposure`

func (p *PostgresStore) Get(ctx context.Context, feature lemma.GrammarFeature) (*Exposure, bool, error) {
	row := p.db.QueryRowContext(ctx, selectExposureSQL+" WHERE feature = $1", string(feature))
	var e Exposure
	var lastSeen sql.NullTime
	var f string
	err := row.Scan(&f, &e.TimesSeen, &e.TimesCorrect, &e.Comfort, &lastSeen)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("scan grammar exposure: %w", err)
	}
	e.Feature = lemma.GrammarFeature(f)
	e.LastSeenAt = lastSeen.Time
	return &e, true, nil
}

func (p *PostgresStore) GetMany(ctx context.Context, features []lemma.GrammarFeature) (map[lemma.GrammarFeature]*Exposure, error) {
	out := make(map[lemma.GrammarFeature]*Exposure, len(features))
	if len(features) == 0 {
		return out, nil
	}
	names := make([]string, len(features))
	for i, f := range features {
		names[i] = string(f)
	}
	rows, err := p.db.QueryContext(ctx, selectExposureSQL+" WHERE feature = ANY($1::text[])", names)
	if err != nil {
		return nil, fmt.Errorf("query grammar exposures: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var e Exposure
		var lastSeen sql.NullTime
		var f string
		if err := rows.Scan(&f, &e.TimesSeen, &e.TimesCorrect, &e.Comfort, &lastSeen); err != nil {
			return nil, fmt.Errorf("scan grammar exposure row: %w", err)
		}
		e.Feature = lemma.GrammarFeature(f)
		e.LastSeenAt = lastSeen.Time
		out[e.Feature] = &e
	}
	return out, rows.Err()
}

func (p *PostgresStore) Put(ctx context.Context, e Exposure) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO grammar_exposure (feature, times_seen, times_correct, comfort, last_seen_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (feature) DO UPDATE SET
			times_seen = EXCLUDED.times_seen,
			times_correct = EXCLUDED.times_correct,
			comfort = EXCLUDED.comfort,
			last_seen_at = EXCLUDED.last_seen_at`,
		string(e.Feature), e.TimesSeen, e.TimesCorrect, e.Comfort, e.LastSeenAt)
	if err != nil {
		return fmt.Errorf("upsert grammar exposure: %w", err)
	}
	return nil
}
