package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/houshuang/alif/pkg/lemma"
	"github.com/houshuang/alif/pkg/pool"
	"github.com/houshuang/alif/pkg/review"
)

func toLemmaIDs(ids []int64) []lemma.ID {
	out := make([]lemma.ID, len(ids))
	for i, id := range ids {
		out[i] = lemma.ID(id)
	}
	return out
}

func toSubmitReviewResponse(r *review.Result) SubmitReviewResponse {
	words := make([]WordResultResponse, len(r.Words))
	for i, w := range r.Words {
		words[i] = WordResultResponse{
			LemmaID:        w.LemmaID,
			Rating:         int(w.Rating),
			KnowledgeState: string(w.KnowledgeState),
			Stability:      w.Stability,
			DueAt:          w.DueAt,
			Graduated:      w.Graduated,
			Suspended:      w.Suspended,
		}
	}
	return SubmitReviewResponse{ReviewLogID: r.ReviewLogID, Words: words}
}

// submitReviewHandler handles POST /v1/reviews.
func (s *Server) submitReviewHandler(c *gin.Context) {
	var req SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.engine.Submit(c.Request.Context(), review.Request{
		ClientReviewID:      req.ClientReviewID,
		SessionID:           req.SessionID,
		SentenceID:          req.SentenceID,
		Mode:                pool.Mode(req.Mode),
		ComprehensionSignal: pool.Comprehension(req.ComprehensionSignal),
		MissedLemmaIDs:      toLemmaIDs(req.MissedLemmaIDs),
		ConfusedLemmaIDs:    toLemmaIDs(req.ConfusedLemmaIDs),
		ResponseMS:          req.ResponseMS,
		Now:                 time.Now(),
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toSubmitReviewResponse(result))
}

// undoReviewHandler handles POST /v1/reviews/undo.
func (s *Server) undoReviewHandler(c *gin.Context) {
	var req UndoReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.engine.Undo(c.Request.Context(), req.ReviewLogID); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "undone"})
}
