package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/houshuang/alif/pkg/grammar"
	"github.com/houshuang/alif/pkg/memory"
	"github.com/houshuang/alif/pkg/pool"
	"github.com/houshuang/alif/pkg/review"
	"github.com/houshuang/alif/pkg/session"
)

func newReviewTestRouter(t *testing.T) (*gin.Engine, *pool.MemStore, *memory.MemStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	g := testGraph()
	ms := memory.NewMemStore()
	ps := pool.NewMemStore(g, pool.RecencyConfig{})

	ps.Seed(pool.Sentence{
		ID:       1,
		Text:     "كتاب البيت",
		IsActive: true,
		Tokens: []pool.Token{
			{Position: 0, Surface: "كتاب", LemmaID: 1},
			{Position: 1, Surface: "بيت", LemmaID: 2},
		},
	})
	require.NoError(t, ms.Put(context.Background(), &memory.State{LemmaID: 1, KnowledgeState: memory.StateAcquiring, Box: 1}))
	require.NoError(t, ms.Put(context.Background(), &memory.State{LemmaID: 2, KnowledgeState: memory.StateAcquiring, Box: 1}))

	engine := review.NewEngine(review.Dependencies{
		Graph:        g,
		MemoryStore:  ms,
		PoolStore:    ps,
		GrammarStore: grammar.NewMemStore(),
		Log:          review.NewMemLog(),
	}, review.DefaultConfig())

	s := &Server{router: gin.New(), engine: engine, registry: session.NewRegistry()}
	s.setupRoutes()
	return s.router, ps, ms
}

func TestSubmitReviewHandler_AppliesReview(t *testing.T) {
	router, _, ms := newReviewTestRouter(t)

	body := `{"client_review_id":"r1","sentence_id":1,"mode":"reading","comprehension_signal":"understood"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/reviews", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp SubmitReviewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ReviewLogID)

	st, ok, err := ms.Get(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, memory.Box(2), st.Box)
}

func TestSubmitReviewHandler_InvalidModeFails(t *testing.T) {
	router, _, _ := newReviewTestRouter(t)

	body := `{"client_review_id":"r2","sentence_id":1,"mode":"bogus","comprehension_signal":"understood"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/reviews", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUndoReviewHandler_UnknownIDReturns404(t *testing.T) {
	router, _, _ := newReviewTestRouter(t)

	body := `{"review_log_id":"does-not-exist"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/reviews/undo", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUndoReviewHandler_RevertsPriorSubmit(t *testing.T) {
	router, _, ms := newReviewTestRouter(t)

	submitBody := `{"client_review_id":"r3","sentence_id":1,"mode":"reading","comprehension_signal":"understood"}`
	submitReq := httptest.NewRequest(http.MethodPost, "/v1/reviews", bytes.NewBufferString(submitBody))
	submitReq.Header.Set("Content-Type", "application/json")
	submitRec := httptest.NewRecorder()
	router.ServeHTTP(submitRec, submitReq)
	require.Equal(t, http.StatusOK, submitRec.Code)

	var submitResp SubmitReviewResponse
	require.NoError(t, json.Unmarshal(submitRec.Body.Bytes(), &submitResp))

	undoBody := `{"review_log_id":"` + submitResp.ReviewLogID + `"}`
	undoReq := httptest.NewRequest(http.MethodPost, "/v1/reviews/undo", bytes.NewBufferString(undoBody))
	undoReq.Header.Set("Content-Type", "application/json")
	undoRec := httptest.NewRecorder()
	router.ServeHTTP(undoRec, undoReq)
	require.Equal(t, http.StatusOK, undoRec.Code)

	st, ok, err := ms.Get(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, memory.Box(1), st.Box)
}
