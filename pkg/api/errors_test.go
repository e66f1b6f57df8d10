package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/houshuang/alif/pkg/review"
)

func runWriteServiceError(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	writeServiceError(c, err)
	return rec
}

func TestWriteServiceError_ValidationErrorMapsTo400(t *testing.T) {
	rec := runWriteServiceError(review.NewValidationError("mode", "required"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWriteServiceError_NotFoundMapsTo404(t *testing.T) {
	rec := runWriteServiceError(review.ErrSentenceNotFound)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWriteServiceError_UnknownErrorMapsTo500(t *testing.T) {
	rec := runWriteServiceError(assert.AnError)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
