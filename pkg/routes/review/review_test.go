package review

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/sorrel/pkg/models"
)

type fakeLister struct {
	count int64
	err   error
}

func (l *fakeLister) List(_ context.Context, count int64) ([]models.ReviewItem, error) {
	l.count = count
	if l.err != nil {
		return nil, l.err
	}
	return []models.ReviewItem{{DocumentID: "doc-1", Kind: models.ReviewLowConfidence}}, nil
}

func get(e *echo.Echo, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestList(t *testing.T) {
	lister := &fakeLister{}
	e := echo.New()
	NewHandler(lister).Register(e.Group("/api/v1/review"))

	rec := get(e, "/api/v1/review")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(100), lister.count)

	var items []models.ReviewItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, models.ReviewLowConfidence, items[0].Kind)

	rec = get(e, "/api/v1/review?count=5")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(5), lister.count)
}

func TestListErrors(t *testing.T) {
	lister := &fakeLister{}
	e := echo.New()
	handler := NewHandler(lister)

	for _, query := range []string{"count=0", "count=abc", "count=5000"} {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/?"+query, nil), httptest.NewRecorder())
		assert.Error(t, handler.List(c), query)
	}

	lister.err = errors.New("redis down")
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.Error(t, handler.List(c))
}
