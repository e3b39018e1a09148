package handler

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sauvesaveurs/marketplace-api/internal/model"
)

// getUserID extracts the user_id set by the JWT middleware and converts it
// to uint64. JWT numeric claims arrive as float64.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// userTypeFor maps a JWT role to the notification/profile table discriminator.
func userTypeFor(role string) string {
	if role == model.RoleEmployee {
		return model.NotifyEmployee
	}
	return model.NotifyClient
}

// currentRole returns the role claim set by the JWT middleware.
func currentRole(c echo.Context) string {
	if s, ok := c.Get("role").(string); ok {
		return s
	}
	return ""
}
