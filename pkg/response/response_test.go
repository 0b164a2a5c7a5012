package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)
	return c, w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestSuccessAndCreated(t *testing.T) {
	c, w := newContext()
	Success(c, gin.H{"id": 1})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", decode(t, w).Message)

	c, w = newContext()
	Created(c, gin.H{"id": 2})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 0, decode(t, w).Code)
}

func TestNoContent(t *testing.T) {
	c, w := newContext()
	NoContent(c)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestError_MapsStatus(t *testing.T) {
	c, w := newContext()
	Error(c, apperrors.ErrBookNotFound)
	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decode(t, w)
	assert.Equal(t, apperrors.ErrCodeBookNotFound, resp.Code)
	assert.Nil(t, resp.Data)

	c, w = newContext()
	Error(c, errors.New("db down"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp = decode(t, w)
	assert.Equal(t, apperrors.ErrCodeInternal, resp.Code)
	assert.NotContains(t, resp.Message, "db down")
}

func TestNewPageData(t *testing.T) {
	p := NewPageData([]int{1, 2}, 11, 2, 5)
	assert.Equal(t, 3, p.TotalPages)

	p = NewPageData([]int{}, 10, 1, 5)
	assert.Equal(t, 2, p.TotalPages)

	p = NewPageData([]int{}, 0, 1, 5)
	assert.Equal(t, 0, p.TotalPages)
}
