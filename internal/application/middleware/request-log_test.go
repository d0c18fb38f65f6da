package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestIsQuietPath(t *testing.T) {
	e := echo.New()
	cases := map[string]bool{
		"/api/health":            true,
		"/metrics":               true,
		"/swagger/index.html":    true,
		"/api/weather/RU/Moscow": false,
		"/api/currency/USD":      false,
	}
	for path, quiet := range cases {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, path, nil), httptest.NewRecorder())
		assert.Equal(t, quiet, isQuietPath(c), path)
	}
}

func TestSetupRequestLogger_SetsRequestID(t *testing.T) {
	e := echo.New()
	SetupRequestLogger(e)
	e.GET("/api/currency/:base", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/currency/USD", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}
