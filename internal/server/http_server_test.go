package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/delbertbeta/s-sso/log"
)

type recordingLogger struct {
	log.Logger
	infos  []log.Fields
	errors []error
}

func (r *recordingLogger) Info(_ context.Context, _ string, fields ...log.Fields) {
	r.infos = append(r.infos, fields...)
}

func (r *recordingLogger) Error(_ context.Context, _ string, err error, _ ...log.Fields) {
	r.errors = append(r.errors, err)
}

func TestRequestLogger(t *testing.T) {
	logger := &recordingLogger{Logger: log.NewNop()}

	e := echo.New()
	e.Use(RequestLogger(logger))
	e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	e.GET("/boom", func(c echo.Context) error { return errors.New("boom") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	if assert.Len(t, logger.infos, 1) {
		assert.Equal(t, "/ok", logger.infos[0]["path"])
		assert.Equal(t, http.StatusNoContent, logger.infos[0]["status"])
	}

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Len(t, logger.errors, 1)
}
