package router

import (
	"github.com/labstack/echo/v4"

	"github.com/sauvesaveurs/marketplace-api/internal/handler"
	"github.com/sauvesaveurs/marketplace-api/internal/middleware"
	"github.com/sauvesaveurs/marketplace-api/internal/model"
)

// RegisterEmployee registers the store-side endpoints under /v1/employee.
// All routes require a valid JWT with the EMPLOYEE role. Employees manage
// their shop, its bags and the reservations placed against them.
func RegisterEmployee(e *echo.Echo, s *handler.EmployeeShopHandler, b *handler.EmployeeBagHandler, r *handler.EmployeeReservationHandler, jwtSecret string) {
	g := e.Group(
		"/v1/employee",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleEmployee),
	)

	g.POST("/shop", s.Register)
	g.GET("/shop", s.Mine)
	g.PUT("/shop", s.Update)

	g.POST("/bags", b.Create)
	g.GET("/bags", b.List)
	g.PUT("/bags/:bag_id", b.Update)
	g.DELETE("/bags/:bag_id", b.Delete)

	g.GET("/reservations", r.List)
	g.POST("/reservations/:order_ref/cancel", r.Cancel)
	g.POST("/reservations/:order_ref/pickup", r.ConfirmPickup)
	g.DELETE("/reservations/completed", r.ClearCompleted)
}
