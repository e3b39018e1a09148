package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/sauvesaveurs/marketplace-api/internal/config"
)

// rateContext has no JWT in context, so userID falls back to "guest".
func rateContext() echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/bags", nil)
	req.RemoteAddr = "203.0.113.9:1234"
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/bags")
	return c
}

func TestBuildRateKeyStrategies(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rl"}

	tests := []struct {
		strategy string
		want     string
	}{
		{"ip", "rl:ip:203.0.113.9"},
		{"user", "rl:user:guest"},
		{"ip_route", "rl:ip:203.0.113.9:route:GET /v1/bags"},
		{"user_route", "rl:user:guest:route:GET /v1/bags"},
		{"anything_else", "rl:ip:203.0.113.9:user:guest:route:GET /v1/bags"},
	}
	for _, tc := range tests {
		t.Run(tc.strategy, func(t *testing.T) {
			cfg.KeyStrategy = tc.strategy
			assert.Equal(t, tc.want, buildRateKey(cfg, rateContext()))
		})
	}
}

func TestAsInt64(t *testing.T) {
	assert.Equal(t, int64(3), asInt64(int64(3)))
	assert.Equal(t, int64(3), asInt64(3))
	assert.Equal(t, int64(3), asInt64(3.7))
	assert.Equal(t, int64(3), asInt64("3"))
	assert.Equal(t, int64(0), asInt64("nope"))
	assert.Equal(t, int64(0), asInt64(nil))
}
