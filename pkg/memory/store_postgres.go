package memory

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/houshuang/alif/pkg/lemma"
)

// PostgresStore is the production Store, backed directly by database/sql
// over the pgx/v5/stdlib driver — no ORM layer on top (see DESIGN.md).
// Put is a single upsert statement; the package-level WithTx, GetForUpdate
// and PutTx functions give callers the begin -> defer Rollback -> mutate ->
// Commit shape when they need a row-locked read-modify-write.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore wraps an existing *sql.DB (opened by pkg/database).
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type variantStatsRow struct {
	VariantID lemma.ID `json:"variant_id"`
	Seen      int      `json:"seen"`
	Missed    int       `json:"missed"`
	Confused  int       `json:"confused"`
}

func encodeVariantStats(m map[lemma.ID]*VariantStat) ([]byte, error) {
	rows := make([]variantStatsRow, 0, len(m))
	for _, v := range m {
		rows = append(rows, variantStatsRow{VariantID: v.VariantID, Seen: v.Seen, Missed: v.Missed, Confused: v.Confused})
	}
	return json.Marshal(rows)
}

func decodeVariantStats(data []byte) (map[lemma.ID]*VariantStat, error) {
	if len(data) == 0 {
		return map[lemma.ID]*VariantStat{}, nil
	}
	var rows []variantStatsRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	out := make(map[lemma.ID]*VariantStat, len(rows))
	for _, r := range rows {
		out[r.VariantID] = &VariantStat{VariantID: r.VariantID, Seen: r.Seen, Missed: r.Missed, Confused: r.Confused}
	}
	return out, nil
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

// Get loads one memory state. SELECT ... FOR UPDATE is NOT used here
// (read-only path); callers that need the write lock use GetForUpdate
// inside a transaction.
func (p *PostgresStore) Get(ctx context.Context, id lemma.ID) (*State, bool, error) {
	return scanState(ctx, p.db, id)
}

func scanState(ctx context.Context, q querier, id lemma.ID) (*State, bool, error) {
	row := q.QueryRowContext(ctx, selectStateSQL+" WHERE lemma_id = $1", int64(id))
	return scanOneState(row)
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const selectStateSQL = `SELECT lemma_id, knowledge_state, times_seen, times_correct, source,
	variant_stats, entered_acquiring_at, graduated_at, leech_suspended_at, leech_count,
	box, next_due_at, card_stability, card_difficulty, card_due_at, card_last_reviewed_at, card_fsrs_state
	FROM memory_states`

func scanOneState(row *sql.Row) (*State, bool, error) {
	var (
		s                                      State
		lemID                                  int64
		variantJSON                            []byte
		enteredAcq, graduated, leechSuspended   sql.NullTime
		box                                     sql.NullInt64
		nextDue                                 sql.NullTime
		cardStability, cardDifficulty           sql.NullFloat64
		cardDueAt, cardLastReviewed             sql.NullTime
		cardFSRSState                           sql.NullString
	)
	err := row.Scan(&lemID, &s.KnowledgeState, &s.TimesSeen, &s.TimesCorrect, &s.Source,
		&variantJSON, &enteredAcq, &graduated, &leechSuspended, &s.LeechCount,
		&box, &nextDue, &cardStability, &cardDifficulty, &cardDueAt, &cardLastReviewed, &cardFSRSState)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("scan memory state: %w", err)
	}
	s.LemmaID = lemma.ID(lemID)
	s.VariantStats, err = decodeVariantStats(variantJSON)
	if err != nil {
		return nil, false, fmt.Errorf("decode variant stats: %w", err)
	}
	s.EnteredAcquiringAt = enteredAcq.Time
	s.GraduatedAt = graduated.Time
	s.LeechSuspendedAt = leechSuspended.Time
	if box.Valid {
		s.Box = Box(box.Int64)
	}
	s.NextDueAt = nextDue.Time
	if cardFSRSState.Valid {
		s.Card = &Card{
			Stability:      cardStability.Float64,
			Difficulty:     cardDifficulty.Float64,
			DueAt:          cardDueAt.Time,
			LastReviewedAt: cardLastReviewed.Time,
			FSRSState:      FSRSState(cardFSRSState.String),
		}
	}
	return &s, true, nil
}

func (p *PostgresStore) GetAllActive(ctx context.Context) ([]*State, error) {
	rows, err := p.db.QueryContext(ctx, selectStateSQL+" WHERE knowledge_state != $1", StateSuspended)
	if err != nil {
		return nil, fmt.Errorf("query active memory states: %w", err)
	}
	defer rows.Close()
	return scanStates(rows)
}

func scanStates(rows *sql.Rows) ([]*State, error) {
	var out []*State
	for rows.Next() {
		var (
			s                                    State
			lemID                                int64
			variantJSON                          []byte
			enteredAcq, graduated, leechSuspended sql.NullTime
			box                                   sql.NullInt64
			nextDue                               sql.NullTime
			cardStability, cardDifficulty         sql.NullFloat64
			cardDueAt, cardLastReviewed           sql.NullTime
			cardFSRSState                         sql.NullString
		)
		if err := rows.Scan(&lemID, &s.KnowledgeState, &s.TimesSeen, &s.TimesCorrect, &s.Source,
			&variantJSON, &enteredAcq, &graduated, &leechSuspended, &s.LeechCount,
			&box, &nextDue, &cardStability, &cardDifficulty, &cardDueAt, &cardLastReviewed, &cardFSRSState); err != nil {
			return nil, fmt.Errorf("scan memory state row: %w", err)
		}
		s.LemmaID = lemma.ID(lemID)
		vs, err := decodeVariantStats(variantJSON)
		if err != nil {
			return nil, fmt.Errorf("decode variant stats: %w", err)
		}
		s.VariantStats = vs
		s.EnteredAcquiringAt = enteredAcq.Time
		s.GraduatedAt = graduated.Time
		s.LeechSuspendedAt = leechSuspended.Time
		if box.Valid {
			s.Box = Box(box.Int64)
		}
		s.NextDueAt = nextDue.Time
		if cardFSRSState.Valid {
			s.Card = &Card{
				Stability:      cardStability.Float64,
				Difficulty:     cardDifficulty.Float64,
				DueAt:          cardDueAt.Time,
				LastReviewedAt: cardLastReviewed.Time,
				FSRSState:      FSRSState(cardFSRSState.String),
			}
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

const upsertStateSQL = `INSERT INTO memory_states
	(lemma_id, knowledge_state, times_seen, times_correct, source, variant_stats,
	 entered_acquiring_at, graduated_at, leech_suspended_at, leech_count,
	 box, next_due_at, card_stability, card_difficulty, card_due_at, card_last_reviewed_at, card_fsrs_state)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
	ON CONFLICT (lemma_id) DO UPDATE SET
	knowledge_state=EXCLUDED.knowledge_state, times_seen=EXCLUDED.times_seen,
	times_correct=EXCLUDED.times_correct, source=EXCLUDED.source, variant_stats=EXCLUDED.variant_stats,
	entered_acquiring_at=EXCLUDED.entered_acquiring_at, graduated_at=EXCLUDED.graduated_at,
	leech_suspended_at=EXCLUDED.leech_suspended_at, leech_count=EXCLUDED.leech_count,
	box=EXCLUDED.box, next_due_at=EXCLUDED.next_due_at, card_stability=EXCLUDED.card_stability,
	card_difficulty=EXCLUDED.card_difficulty, card_due_at=EXCLUDED.card_due_at,
	card_last_reviewed_at=EXCLUDED.card_last_reviewed_at, card_fsrs_state=EXCLUDED.card_fsrs_state`

func (p *PostgresStore) Put(ctx context.Context, s *State) error {
	return putState(ctx, p.db, s)
}

func putState(ctx context.Context, q querier, s *State) error {
	variantJSON, err := encodeVariantStats(s.VariantStats)
	if err != nil {
		return fmt.Errorf("encode variant stats: %w", err)
	}
	var box sql.NullInt64
	if s.KnowledgeState == StateAcquiring {
		box = sql.NullInt64{Int64: int64(s.Box), Valid: true}
	}
	var cardStability, cardDifficulty sql.NullFloat64
	var cardDueAt, cardLastReviewed sql.NullTime
	var cardFSRSState sql.NullString
	if s.Card != nil {
		cardStability = sql.NullFloat64{Float64: s.Card.Stability, Valid: true}
		cardDifficulty = sql.NullFloat64{Float64: s.Card.Difficulty, Valid: true}
		cardDueAt = nullTime(s.Card.DueAt)
		cardLastReviewed = nullTime(s.Card.LastReviewedAt)
		cardFSRSState = sql.NullString{String: string(s.Card.FSRSState), Valid: true}
	}
	_, err = q.ExecContext(ctx, upsertStateSQL,
		int64(s.LemmaID), s.KnowledgeState, s.TimesSeen, s.TimesCorrect, s.Source, variantJSON,
		nullTime(s.EnteredAcquiringAt), nullTime(s.GraduatedAt), nullTime(s.LeechSuspendedAt), s.LeechCount,
		box, nullTime(s.NextDueAt), cardStability, cardDifficulty, cardDueAt, cardLastReviewed, cardFSRSState)
	if err != nil {
		return fmt.Errorf("upsert memory state: %w", err)
	}
	return nil
}

func (p *PostgresStore) SuspendedPastCooldown(ctx context.Context, cooldownLookup func(s *State) bool) ([]*State, error) {
	rows, err := p.db.QueryContext(ctx, selectStateSQL+" WHERE knowledge_state = $1", StateSuspended)
	if err != nil {
		return nil, fmt.Errorf("query suspended memory states: %w", err)
	}
	defer rows.Close()
	all, err := scanStates(rows)
	if err != nil {
		return nil, err
	}
	var out []*State
	for _, s := range all {
		if cooldownLookup(s) {
			out = append(out, s)
		}
	}
	return out, nil
}

// WithTx runs fn inside a transaction, committing on success and rolling
// back on any error or panic.
func WithTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()
	defer tx.Rollback() //nolint:errcheck // no-op once committed

	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// GetForUpdate loads a state within tx, taking a row lock so concurrent
// transactions touching the same lemma serialize at the database level —
// the Postgres analog of LockTable, used when multiple API replicas write
// the same lemma concurrently.
func GetForUpdate(ctx context.Context, tx *sql.Tx, id lemma.ID) (*State, bool, error) {
	row := tx.QueryRowContext(ctx, selectStateSQL+" WHERE lemma_id = $1 FOR UPDATE", int64(id))
	return scanOneState(row)
}

// PutTx upserts a state within tx.
func PutTx(ctx context.Context, tx *sql.Tx, s *State) error {
	return putState(ctx, tx, s)
}
