package lemma

import (
	"context"
	"database/sql"
	"fmt"
)

// LoadGraph reads the full lemmas table and builds a Graph from it. Roots
// are stored as a separate table purely to keep skeleton strings
// deduplicated; the Graph itself only needs each lemma's numeric RootID.
func LoadGraph(ctx context.Context, db *sql.DB) (*Graph, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, surface, gloss, pos, frequency_rank,
		       COALESCE(root_id, 0), COALESCE(canonical_id, 0),
		       thematic_tag, is_function_word
		FROM lemmas`)
	if err != nil {
		return nil, fmt.Errorf("query lemmas: %w", err)
	}
	defer rows.Close()

	var lemmas []Lemma
	for rows.Next() {
		var l Lemma
		var pos string
		var rootID, canonicalID int64
		if err := rows.Scan(&l.ID, &l.Surface, &l.Gloss, &pos, &l.FrequencyRank,
			&rootID, &canonicalID, &l.ThematicTag, &l.IsFunctionWord); err != nil {
			return nil, fmt.Errorf("scan lemma row: %w", err)
		}
		l.POS = PartOfSpeech(pos)
		l.RootID = RootID(rootID)
		l.CanonicalID = ID(canonicalID)
		lemmas = append(lemmas, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lemma rows: %w", err)
	}

	return NewGraph(lemmas), nil
}
