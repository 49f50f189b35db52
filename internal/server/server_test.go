package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/piwi3910/LotLayout/internal/config"
	"github.com/piwi3910/LotLayout/internal/model"
	"github.com/piwi3910/LotLayout/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func newTestServer() *echo.Echo {
	cfg := &config.Config{Port: "8080", AllowedOrigin: "http://localhost:5173"}
	return New(cfg, NewHandler(model.DefaultDimensions()))
}

func TestServer_Routes(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		path     string
		body     string
		wantCode int
	}{
		{name: "health", method: http.MethodGet, path: "/health", wantCode: http.StatusOK},
		{name: "dimensions", method: http.MethodPost, path: "/api/dimensions",
			body: testutil.DimensionFile(model.DefaultDimensions()), wantCode: http.StatusOK},
		{name: "publish without store", method: http.MethodPost, path: "/api/layouts/publish",
			body: "{}", wantCode: http.StatusServiceUnavailable},
		{name: "unknown route", method: http.MethodGet, path: "/api/unknown", wantCode: http.StatusNotFound},
		{name: "wrong method", method: http.MethodGet, path: "/api/layouts", wantCode: http.StatusMethodNotAllowed},
	}

	e := newTestServer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()

			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestServer_CORS(t *testing.T) {
	e := newTestServer()
	req := httptest.NewRequest(http.MethodOptions, "/api/layouts", nil)
	req.Header.Set(echo.HeaderOrigin, "http://localhost:5173")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}
