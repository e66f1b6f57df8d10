package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/houshuang/alif/pkg/pool"
	"github.com/houshuang/alif/pkg/session"
)

// buildSessionHandler handles GET /v1/session. The build is registered
// under a build id so a client that abandons the request (or sends a
// DELETE /v1/session/:build_id) can cancel it mid-flight; a canceled build
// leaves the store unchanged except for any auto-introduction already
// committed.
func (s *Server) buildSessionHandler(c *gin.Context) {
	var req BuildSessionRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	buildID, ctx := s.registry.Begin(c.Request.Context())
	defer s.registry.Done(buildID)

	result, err := s.builder.Build(ctx, session.BuildRequest{
		Mode:  pool.Mode(req.Mode),
		Limit: req.Limit,
		Now:   time.Now(),
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	resp := toBuildSessionResponse(result)
	resp.BuildID = buildID
	c.JSON(http.StatusOK, resp)
}

// cancelSessionHandler handles DELETE /v1/session/:build_id, canceling an
// in-flight build registered under that id.
func (s *Server) cancelSessionHandler(c *gin.Context) {
	buildID := c.Param("build_id")
	if !s.registry.Cancel(buildID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no in-flight build with that id"})
		return
	}
	c.Status(http.StatusNoContent)
}
