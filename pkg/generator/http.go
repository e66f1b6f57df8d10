package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/houshuang/alif/pkg/lemma"
	"github.com/houshuang/alif/pkg/pool"
)

// HTTPGenerator calls an out-of-process sentence generation service over
// plain JSON/HTTP: a *http.Client with a fixed timeout, one method building
// a request, checking the status code, and decoding the body.
type HTTPGenerator struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewHTTPGenerator(baseURL, apiKey string, timeout time.Duration) *HTTPGenerator {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPGenerator{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

type generateRequestBody struct {
	Targets        []int64  `json:"targets"`
	KnownVocab     []int64  `json:"known_vocab"`
	RejectedWords  []string `json:"rejected_words"`
	MaxWords       int      `json:"max_words"`
	DifficultyHint string   `json:"difficulty_hint"`
}

type tokenBody struct {
	Position     int    `json:"position"`
	Surface      string `json:"surface"`
	LemmaID      int64  `json:"lemma_id"`
	ScaffoldWord bool   `json:"scaffold_word"`
}

type candidateBody struct {
	Text            string      `json:"text"`
	Translation     string      `json:"translation"`
	Transliteration string      `json:"transliteration"`
	Tokens          []tokenBody `json:"tokens"`
	TargetLemmaIDs  []int64     `json:"target_lemma_ids"`
	GrammarFeatures []string    `json:"grammar_features"`
}

type generateResponseBody struct {
	Sentences []candidateBody `json:"sentences"`
}

// Generate posts the request and decodes a list of candidate sentences.
func (g *HTTPGenerator) Generate(ctx context.Context, req Request) ([]Candidate, error) {
	body := generateRequestBody{
		Targets:        toInt64s(req.Targets),
		KnownVocab:     toInt64s(req.KnownVocab),
		RejectedWords:  req.RejectedWords,
		MaxWords:       req.MaxWords,
		DifficultyHint: req.DifficultyHint,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal generate request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/generate", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create generate request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call generator: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("generator returned HTTP %d: %s", resp.StatusCode, string(data))
	}

	var out generateResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode generate response: %w", err)
	}

	candidates := make([]Candidate, 0, len(out.Sentences))
	for _, c := range out.Sentences {
		candidates = append(candidates, candidateBody2Candidate(c))
	}
	return candidates, nil
}

func candidateBody2Candidate(c candidateBody) Candidate {
	tokens := make([]pool.Token, 0, len(c.Tokens))
	for _, t := range c.Tokens {
		tokens = append(tokens, pool.Token{
			Position:     t.Position,
			Surface:      t.Surface,
			LemmaID:      lemma.ID(t.LemmaID),
			ScaffoldWord: t.ScaffoldWord,
		})
	}
	targets := make([]lemma.ID, 0, len(c.TargetLemmaIDs))
	for _, id := range c.TargetLemmaIDs {
		targets = append(targets, lemma.ID(id))
	}
	features := make([]lemma.GrammarFeature, 0, len(c.GrammarFeatures))
	for _, f := range c.GrammarFeatures {
		features = append(features, lemma.GrammarFeature(f))
	}
	return Candidate{
		Text:            c.Text,
		Translation:     c.Translation,
		Transliteration: c.Transliteration,
		Tokens:          tokens,
		TargetLemmaIDs:  targets,
		GrammarFeatures: features,
	}
}

func toInt64s(ids []lemma.ID) []int64 {
	out := make([]int64, len(ids))
	for i, id := range ids {
		out[i] = int64(id)
	}
	return out
}

// HTTPQualityReviewer is the cross-model quality gate's HTTP realization.
// It fails closed on any transport or decode error.
type HTTPQualityReviewer struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewHTTPQualityReviewer(baseURL, apiKey string, timeout time.Duration) *HTTPQualityReviewer {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPQualityReviewer{httpClient: &http.Client{Timeout: timeout}, baseURL: baseURL, apiKey: apiKey}
}

type reviewRequestBody struct {
	Text           string  `json:"text"`
	Translation    string  `json:"translation"`
	TargetLemmaIDs []int64 `json:"target_lemma_ids"`
}

type reviewResponseBody struct {
	Pass bool `json:"pass"`
}

func (r *HTTPQualityReviewer) Review(ctx context.Context, c Candidate) (bool, error) {
	payload, err := json.Marshal(reviewRequestBody{Text: c.Text, Translation: c.Translation, TargetLemmaIDs: toInt64s(c.TargetLemmaIDs)})
	if err != nil {
		return false, fmt.Errorf("marshal review request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/v1/review", bytes.NewReader(payload))
	if err != nil {
		return false, fmt.Errorf("create review request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if r.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	resp, err := r.httpClient.Do(httpReq)
	if err != nil {
		slog.Warn("quality reviewer unavailable, failing closed", "error", err)
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return false, fmt.Errorf("quality reviewer returned HTTP %d: %s", resp.StatusCode, string(data))
	}

	var out reviewResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, fmt.Errorf("decode review response: %w", err)
	}
	return out.Pass, nil
}
