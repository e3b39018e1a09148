package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sauvesaveurs/marketplace-api/internal/model"
	"github.com/sauvesaveurs/marketplace-api/internal/utils"
)

const testSecret = "unit-test-secret"

func newProtectedEcho(t *testing.T, roles ...string) *echo.Echo {
	t.Helper()
	e := echo.New()
	g := e.Group("/v1", JWTAuth(testSecret), RequireRole(roles...))
	g.GET("/whoami", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"user_id": c.Get("user_id"),
			"role":    c.Get("role"),
		})
	})
	return e
}

func doGet(e *echo.Echo, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/v1/whoami", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuthRejectsMissingOrBadTokens(t *testing.T) {
	e := newProtectedEcho(t, model.RoleClient)

	tests := []struct {
		name  string
		token string
	}{
		{"no header", ""},
		{"not a jwt", "garbage"},
		{"wrong secret", mustToken(t, "other-secret", 7, model.RoleClient)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := doGet(e, tc.token)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestJWTAuthSetsIdentity(t *testing.T) {
	e := newProtectedEcho(t, model.RoleClient)

	rec := doGet(e, mustToken(t, testSecret, 7, model.RoleClient))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id": 7, "role": "CLIENT"}`, rec.Body.String())
}

func TestRequireRole(t *testing.T) {
	e := newProtectedEcho(t, model.RoleEmployee)

	rec := doGet(e, mustToken(t, testSecret, 3, model.RoleClient))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doGet(e, mustToken(t, testSecret, 3, model.RoleEmployee))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func mustToken(t *testing.T, secret string, uid uint64, role string) string {
	t.Helper()
	at, err := utils.NewAccessToken(secret, uid, role, 5)
	require.NoError(t, err)
	return at.Token
}
