package router

import (
	"github.com/labstack/echo/v4"

	"github.com/sauvesaveurs/marketplace-api/internal/handler"
	"github.com/sauvesaveurs/marketplace-api/internal/middleware"
	"github.com/sauvesaveurs/marketplace-api/internal/model"
)

// RegisterClient registers the client-scoped endpoints under /v1. All
// routes require a valid JWT with the CLIENT role. Clients reserve bags,
// cancel their pending orders, read their order lists and manage their
// saved bags.
func RegisterClient(e *echo.Echo, r *handler.ClientReservationHandler, f *handler.FavoriteHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleClient),
	)

	g.POST("/reservations", r.Create)
	g.GET("/reservations/:order_ref", r.Get)
	g.DELETE("/reservations/:order_ref", r.Cancel)
	g.GET("/orders/current", r.Current)
	g.GET("/orders/history", r.History)

	g.GET("/favorites", f.List)
	g.POST("/favorites/:bag_id", f.Add)
	g.GET("/favorites/:bag_id", f.Status)
	g.DELETE("/favorites/:bag_id", f.Remove)
}
