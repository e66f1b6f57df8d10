package api

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// unreachableDB opens a pool against a port nothing listens on, so Ping
// fails with a real connection error instead of a nil-pointer panic.
func unreachableDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("pgx", "host=127.0.0.1 port=1 user=alif password=alif dbname=alif sslmode=disable")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestHealthHandler_UnreachableDBReturnsUnhealthy(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := &Server{router: gin.New(), db: unreachableDB(t)}
	s.router.GET("/health", s.healthHandler)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"unhealthy"`)
}
