package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/sauvesaveurs/marketplace-api/internal/config"
)

func browseContext(path, query string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path+"?"+query, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath(path)
	return c
}

func TestCacheKeyFrom(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}

	a := cacheKeyFrom(cfg, browseContext("/v1/bags/nearby", "lat=48.85&lng=2.35"))
	same := cacheKeyFrom(cfg, browseContext("/v1/bags/nearby", "lat=48.85&lng=2.35"))
	other := cacheKeyFrom(cfg, browseContext("/v1/bags/nearby", "lat=40.71&lng=-74.00"))

	assert.Equal(t, a, same)
	assert.NotEqual(t, a, other)
	assert.Contains(t, a, "cache:")

	// With the route-only strategy the query must stop mattering.
	cfg.KeyStrategy = "route"
	assert.Equal(t,
		cacheKeyFrom(cfg, browseContext("/v1/shops", "a=1")),
		cacheKeyFrom(cfg, browseContext("/v1/shops", "b=2")))
}

func TestRecordingWriterLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := &recordingWriter{ResponseWriter: rec, status: http.StatusOK, limit: 5}

	_, err := rw.Write([]byte("hello world"))
	assert.NoError(t, err)

	// The client gets the whole body; the buffer stops at the limit.
	assert.Equal(t, "hello world", rec.Body.String())
	assert.Equal(t, "hello", rw.buf.String())
	assert.Equal(t, int64(len("hello world")), rw.size)
}
