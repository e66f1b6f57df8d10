package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/houshuang/alif/pkg/review"
)

// writeServiceError maps a domain-layer error to an HTTP status and JSON
// body.
func writeServiceError(c *gin.Context, err error) {
	var validErr *review.ValidationError
	if errors.As(err, &validErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": validErr.Error()})
		return
	}
	if errors.Is(err, review.ErrSentenceNotFound) || errors.Is(err, review.ErrReviewLogNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
		return
	}

	slog.Error("unexpected service error", "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
