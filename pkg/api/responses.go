package api

import (
	"time"

	"github.com/houshuang/alif/pkg/lemma"
	"github.com/houshuang/alif/pkg/session"
)

// TokenCardResponse mirrors session.TokenCard for the wire.
type TokenCardResponse struct {
	Surface      string   `json:"surface"`
	LemmaID      lemma.ID `json:"lemma_id"`
	Gloss        string   `json:"gloss"`
	Stability    float64  `json:"stability"`
	Due          bool     `json:"due"`
	FunctionWord bool     `json:"function_word"`
}

// ItemResponse mirrors session.Item for the wire.
type ItemResponse struct {
	SentenceID     int64                  `json:"sentence_id"`
	Text           string                 `json:"text"`
	Translation    string                 `json:"translation"`
	PrimaryLemmaID lemma.ID               `json:"primary_lemma_id"`
	PrimaryGloss   string                 `json:"primary_gloss"`
	Tokens         []TokenCardResponse    `json:"tokens"`
	GrammarTags    []lemma.GrammarFeature `json:"grammar_tags,omitempty"`
	AudioURL       string                 `json:"audio_url,omitempty"`
	IsOnDemand     bool                   `json:"is_on_demand"`
}

// IntroCandidateResponse mirrors session.IntroCandidate for the wire.
type IntroCandidateResponse struct {
	LemmaID lemma.ID `json:"lemma_id"`
	Surface string   `json:"surface"`
	Gloss   string   `json:"gloss"`
}

// BuildSessionResponse is returned by GET /v1/session.
type BuildSessionResponse struct {
	BuildID         string                   `json:"build_id"`
	Items           []ItemResponse           `json:"items"`
	IntroCandidates []IntroCandidateResponse `json:"intro_candidates,omitempty"`
}

func toBuildSessionResponse(r *session.BuildResult) BuildSessionResponse {
	resp := BuildSessionResponse{
		Items:           make([]ItemResponse, len(r.Items)),
		IntroCandidates: make([]IntroCandidateResponse, len(r.IntroCandidates)),
	}
	for i, item := range r.Items {
		tokens := make([]TokenCardResponse, len(item.Tokens))
		for j, tok := range item.Tokens {
			tokens[j] = TokenCardResponse{
				Surface:      tok.Surface,
				LemmaID:      tok.LemmaID,
				Gloss:        tok.Gloss,
				Stability:    tok.Stability,
				Due:          tok.Due,
				FunctionWord: tok.FunctionWord,
			}
		}
		resp.Items[i] = ItemResponse{
			SentenceID:     item.SentenceID,
			Text:           item.Text,
			Translation:    item.Translation,
			PrimaryLemmaID: item.PrimaryLemmaID,
			PrimaryGloss:   item.PrimaryGloss,
			Tokens:         tokens,
			GrammarTags:    item.GrammarTags,
			AudioURL:       item.AudioURL,
			IsOnDemand:     item.IsOnDemand,
		}
	}
	for i, ic := range r.IntroCandidates {
		resp.IntroCandidates[i] = IntroCandidateResponse{
			LemmaID: ic.LemmaID,
			Surface: ic.Surface,
			Gloss:   ic.Gloss,
		}
	}
	return resp
}

// WordResultResponse mirrors review.WordResult for the wire.
type WordResultResponse struct {
	LemmaID        lemma.ID `json:"lemma_id"`
	Rating         int      `json:"rating"`
	KnowledgeState string   `json:"knowledge_state"`
	Stability      float64  `json:"stability"`
	DueAt          time.Time `json:"due_at"`
	Graduated      bool     `json:"graduated"`
	Suspended      bool     `json:"suspended"`
}

// SubmitReviewResponse is returned by POST /v1/reviews.
type SubmitReviewResponse struct {
	ReviewLogID string                `json:"review_log_id"`
	Words       []WordResultResponse `json:"words"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status  string                 `json:"status"`
	Version string                 `json:"version"`
	Checks  map[string]HealthCheck `json:"checks"`
}

// HealthCheck represents the status of a single health check component.
type HealthCheck struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}
