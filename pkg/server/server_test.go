package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/sorrel/config"
	"github.com/Ramsey-B/sorrel/pkg/logging"
	"github.com/Ramsey-B/sorrel/pkg/middleware"
)

func newTestServer() *Server {
	return New(config.Config{
		AppName:      "sorrel-test",
		MaxBodyBytes: "1K",
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost},
	}, logging.Discard())
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	return rec
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer()
	rec := serve(s, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestErrorHandler(t *testing.T) {
	s := newTestServer()
	s.Group("/api/v1").GET("/teapot", func(c echo.Context) error {
		return httperror.NewHTTPError(http.StatusTeapot, "short and stout")
	})

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/v1/teapot", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)

	var body middleware.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.RequestID)
	assert.Equal(t, rec.Header().Get(echo.HeaderXRequestID), body.RequestID)

	rec = serve(s, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequestIDIsKept(t *testing.T) {
	s := newTestServer()
	s.Group("/api/v1").GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, "pong")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-42")
	rec := serve(s, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-42", rec.Header().Get(echo.HeaderXRequestID))
}
