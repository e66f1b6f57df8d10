package pool

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/houshuang/alif/pkg/lemma"
)

// PostgresStore is the production Sentence Pool, doing the token/lemma
// coverage join server-side rather than pulling every sentence into Go.
// Canonical resolution for the covers-a-due-lemma test still happens in
// Go against an in-memory lemma.Graph, since the graph is small and
// loaded once at startup (matching pkg/memory.PostgresStore's split
// between SQL storage and in-Go domain logic).
type PostgresStore struct {
	db    *sql.DB
	graph *lemma.Graph
}

func NewPostgresStore(db *sql.DB, graph *lemma.Graph) *PostgresStore {
	return &PostgresStore{db: db, graph: graph}
}

type tokenRow struct {
	Position     int      `json:"position"`
	Surface      string   `json:"surface"`
	LemmaID      lemma.ID `json:"lemma_id"`
	ScaffoldWord bool     `json:"scaffold_word"`
}

func encodeTokens(tokens []Token) ([]byte, error) {
	rows := make([]tokenRow, 0, len(tokens))
	for _, t := range tokens {
		rows = append(rows, tokenRow{Position: t.Position, Surface: t.Surface, LemmaID: t.LemmaID, ScaffoldWord: t.ScaffoldWord})
	}
	return json.Marshal(rows)
}

func decodeTokens(data []byte) ([]Token, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var rows []tokenRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	out := make([]Token, 0, len(rows))
	for _, r := range rows {
		out = append(out, Token{Position: r.Position, Surface: r.Surface, LemmaID: r.LemmaID, ScaffoldWord: r.ScaffoldWord})
	}
	return out, nil
}

const selectSentenceColumns = `s.id, s.text, s.translation, s.transliteration, s.tokens, s.thematic_tag, s.grammar_features, s.audio_url, s.is_active, s.target_lemma_id`

func encodeGrammarFeatures(features []lemma.GrammarFeature) ([]byte, error) {
	names := make([]string, 0, len(features))
	for _, f := range features {
		names = append(names, string(f))
	}
	return json.Marshal(names)
}

func decodeGrammarFeatures(data []byte) ([]lemma.GrammarFeature, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, err
	}
	out := make([]lemma.GrammarFeature, 0, len(names))
	for _, n := range names {
		out = append(out, lemma.GrammarFeature(n))
	}
	return out, nil
}

// Get loads one sentence by id, including its per-mode shown stats.
func (p *PostgresStore) Get(ctx context.Context, id int64) (Sentence, bool, error) {
	row := p.db.QueryRowContext(ctx, `SELECT `+selectSentenceColumns+` FROM sentences s WHERE s.id = $1`, id)
	s, err := scanSentenceRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Sentence{}, false, nil
	}
	if err != nil {
		return Sentence{}, false, err
	}
	s.Shown, err = loadShown(ctx, p.db, s.ID)
	if err != nil {
		return Sentence{}, false, err
	}
	return s, true, nil
}

// ActiveSentencesCovering fetches every active sentence whose token JSON
// mentions at least one of lemmaIDs' canonical forms, pulls the per-mode
// shown stat, and applies the recency filter in Go (the cooldown table is
// small, not worth a correlated subquery per signal). The cooldowns are
// always DefaultRecencyConfig's; a recency section loaded by pkg/config
// does not reach this store.
func (p *PostgresStore) ActiveSentencesCovering(ctx context.Context, lemmaIDs []lemma.ID, mode Mode, now time.Time) ([]Sentence, error) {
	canon := make(map[lemma.ID]bool, len(lemmaIDs))
	for _, id := range lemmaIDs {
		canon[p.graph.Canonical(id)] = true
	}
	if len(canon) == 0 {
		return nil, nil
	}

	ids := make([]int64, 0, len(canon))
	for id := range canon {
		ids = append(ids, int64(id))
	}

	rows, err := p.db.QueryContext(ctx, `
		SELECT DISTINCT `+selectSentenceColumns+`
		FROM sentences s
		JOIN sentence_tokens st ON st.sentence_id = s.id
		WHERE s.is_active AND st.canonical_lemma_id = ANY($1::bigint[])`, pqInt64Array(ids))
	if err != nil {
		return nil, fmt.Errorf("query candidate sentences: %w", err)
	}
	defer rows.Close()

	var out []Sentence
	for rows.Next() {
		s, err := scanSentenceRow(rows)
		if err != nil {
			return nil, err
		}
		s.Shown, err = loadShown(ctx, p.db, s.ID)
		if err != nil {
			return nil, err
		}
		cfg := DefaultRecencyConfig()
		if !cfg.Eligible(s.Shown[mode], now) {
			continue
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// sentenceRowScanner is satisfied by *sql.Row and *sql.Rows, letting
// scanSentenceRow serve both a single-row lookup and a result set.
type sentenceRowScanner interface {
	Scan(dest ...any) error
}

func scanSentenceRow(row sentenceRowScanner) (Sentence, error) {
	var (
		s               Sentence
		translation     sql.NullString
		transliteration sql.NullString
		tokenJSON       []byte
		thematicTag     sql.NullString
		grammarJSON     []byte
		audioURL        sql.NullString
		targetLemmaID   sql.NullInt64
	)
	if err := row.Scan(&s.ID, &s.Text, &translation, &transliteration, &tokenJSON, &thematicTag, &grammarJSON, &audioURL, &s.IsActive, &targetLemmaID); err != nil {
		return Sentence{}, fmt.Errorf("scan sentence row: %w", err)
	}
	s.Translation = translation.String
	s.Transliteration = transliteration.String
	s.ThematicTag = thematicTag.String
	s.AudioURL = audioURL.String
	s.TargetLemmaID = lemma.ID(targetLemmaID.Int64)
	var err error
	s.Tokens, err = decodeTokens(tokenJSON)
	if err != nil {
		return Sentence{}, fmt.Errorf("decode tokens: %w", err)
	}
	s.GrammarFeatures, err = decodeGrammarFeatures(grammarJSON)
	if err != nil {
		return Sentence{}, fmt.Errorf("decode grammar features: %w", err)
	}
	return s, nil
}

func loadShown(ctx context.Context, db *sql.DB, sentenceID int64) (map[Mode]ShownStat, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT mode, times_shown, last_shown_at, last_comprehension
		FROM sentence_review_logs WHERE sentence_id = $1`, sentenceID)
	if err != nil {
		return nil, fmt.Errorf("query sentence shown stats: %w", err)
	}
	defer rows.Close()

	out := make(map[Mode]ShownStat)
	for rows.Next() {
		var (
			mode          string
			stat          ShownStat
			lastShown     sql.NullTime
			comprehension sql.NullString
		)
		if err := rows.Scan(&mode, &stat.TimesShown, &lastShown, &comprehension); err != nil {
			return nil, fmt.Errorf("scan shown stat row: %w", err)
		}
		stat.LastShownAt = lastShown.Time
		stat.LastComprehension = Comprehension(comprehension.String)
		out[Mode(mode)] = stat
	}
	return out, rows.Err()
}

// RecordShown upserts the per-mode shown counter row.
func (p *PostgresStore) RecordShown(ctx context.Context, sentenceID int64, mode Mode, comprehension Comprehension, now time.Time) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO sentence_review_logs (sentence_id, mode, times_shown, last_shown_at, last_comprehension)
		VALUES ($1, $2, 1, $3, $4)
		ON CONFLICT (sentence_id, mode) DO UPDATE SET
			times_shown = sentence_review_logs.times_shown + 1,
			last_shown_at = EXCLUDED.last_shown_at,
			last_comprehension = EXCLUDED.last_comprehension`,
		sentenceID, string(mode), now, string(comprehension))
	if err != nil {
		return fmt.Errorf("record sentence shown: %w", err)
	}
	return nil
}

// SetShown overwrites a sentence's per-mode shown stat outright, used by
// the review engine's undo path to restore an exact pre-review snapshot.
func (p *PostgresStore) SetShown(ctx context.Context, sentenceID int64, mode Mode, stat ShownStat) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO sentence_review_logs (sentence_id, mode, times_shown, last_shown_at, last_comprehension)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (sentence_id, mode) DO UPDATE SET
			times_shown = EXCLUDED.times_shown,
			last_shown_at = EXCLUDED.last_shown_at,
			last_comprehension = EXCLUDED.last_comprehension`,
		sentenceID, string(mode), stat.TimesShown, nullableTime(stat.LastShownAt), string(stat.LastComprehension))
	if err != nil {
		return fmt.Errorf("set sentence shown: %w", err)
	}
	return nil
}

func nullableTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

func nullableLemmaID(id lemma.ID) sql.NullInt64 {
	if id == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(id), Valid: true}
}

// Insert persists a newly-generated sentence and its token rows inside one
// transaction, mirroring the write shape of pkg/memory.PostgresStore.Put.
func (p *PostgresStore) Insert(ctx context.Context, s Sentence) (int64, error) {
	tokenJSON, err := encodeTokens(s.Tokens)
	if err != nil {
		return 0, fmt.Errorf("encode tokens: %w", err)
	}
	grammarJSON, err := encodeGrammarFeatures(s.GrammarFeatures)
	if err != nil {
		return 0, fmt.Errorf("encode grammar features: %w", err)
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin insert sentence: %w", err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO sentences (text, translation, transliteration, tokens, thematic_tag, grammar_features, audio_url, is_active, target_lemma_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, true, $8)
		RETURNING id`,
		s.Text, s.Translation, s.Transliteration, tokenJSON, s.ThematicTag, grammarJSON, s.AudioURL, nullableLemmaID(s.TargetLemmaID)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert sentence: %w", err)
	}

	for _, t := range s.Tokens {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO sentence_tokens (sentence_id, position, canonical_lemma_id)
			VALUES ($1, $2, $3)`, id, t.Position, int64(p.graph.Canonical(t.LemmaID))); err != nil {
			return 0, fmt.Errorf("insert sentence token: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit insert sentence: %w", err)
	}
	return id, nil
}

func (p *PostgresStore) Retire(ctx context.Context, sentenceID int64) error {
	res, err := p.db.ExecContext(ctx, `UPDATE sentences SET is_active = false, retired_at = now() WHERE id = $1`, sentenceID)
	if err != nil {
		return fmt.Errorf("retire sentence: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("retire sentence: %w", err)
	}
	if n == 0 {
		return ErrSentenceNotFound
	}
	return nil
}

// PurgeRetiredBefore hard-deletes retired sentences past cutoff. Token rows
// cascade via sentence_tokens' foreign key.
func (p *PostgresStore) PurgeRetiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := p.db.ExecContext(ctx, `DELETE FROM sentences WHERE NOT is_active AND retired_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge retired sentences: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge retired sentences: %w", err)
	}
	return n, nil
}

// pqInt64Array renders a Go int64 slice as a Postgres array literal,
// avoiding a dependency on lib/pq purely for its array helper (pgx
// supports []int64 natively via database/sql when driven through its own
// stdlib adapter, but the = ANY($1) + text array literal form here keeps
// this file driver-agnostic).
func pqInt64Array(ids []int64) string {
	s := "{"
	for i, id := range ids {
		if i > 0 {
			s += ","
		}
		s += fmt.Sprintf("%d", id)
	}
	return s + "}"
}
