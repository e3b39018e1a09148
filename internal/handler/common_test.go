package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sauvesaveurs/marketplace-api/internal/model"
)

func testContext() echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestGetUserID(t *testing.T) {
	tests := []struct {
		name    string
		value   interface{}
		want    uint64
		wantErr bool
	}{
		{"float64 from jwt claims", float64(42), 42, false},
		{"uint64", uint64(7), 7, false},
		{"int", 9, 9, false},
		{"numeric string", "15", 15, false},
		{"bad string", "abc", 0, true},
		{"missing", nil, 0, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := testContext()
			if tc.value != nil {
				c.Set("user_id", tc.value)
			}
			got, err := getUserID(c)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestUserTypeFor(t *testing.T) {
	assert.Equal(t, model.NotifyEmployee, userTypeFor(model.RoleEmployee))
	assert.Equal(t, model.NotifyClient, userTypeFor(model.RoleClient))
	// Anything unexpected lands in the client table rather than the
	// employee one.
	assert.Equal(t, model.NotifyClient, userTypeFor(""))
}
