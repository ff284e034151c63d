package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/phuong1932/logistics-deploy/internal/application/auth"
	"github.com/phuong1932/logistics-deploy/internal/application/usecase"
	"github.com/phuong1932/logistics-deploy/internal/domain/entity"
	"github.com/phuong1932/logistics-deploy/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	CargoUC    *usecase.CargoUseCase
	ReportUC   *usecase.ReportUseCase
	CustomerUC *usecase.CustomerUseCase
	ShipperUC  *usecase.ShipperUseCase
	UserUC     *usecase.UserUseCase
	UserRoleUC *usecase.UserRoleUseCase
	RoleUC     *usecase.RoleUseCase
	TrackingUC *usecase.TrackingUseCase
	Tokens     *jwt.Issuer
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	adminOnly := RequireRole(entity.RoleAdmin)
	adminOrStaff := RequireRole(entity.RoleAdmin, entity.RoleStaff)

	// Auth: login público, el resto con token
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.Tokens))
	protected.Post("/auth/register", adminOnly, authHandler.Register)
	protected.Get("/auth/me", authHandler.Me)

	// Cargos: las rutas fijas van antes de /:id
	cargos := protected.Group("/cargos")
	cargoHandler := NewCargoHandler(deps.CargoUC, deps.ReportUC)
	cargos.Get("/", cargoHandler.List)
	cargos.Get("/search", cargoHandler.Search)
	cargos.Get("/statistics/monthly", cargoHandler.MonthlyStatistics)
	cargos.Get("/export", adminOrStaff, cargoHandler.ExportExcel)
	cargos.Get("/by-shipper/:shipperId", cargoHandler.ListByShipper)
	cargos.Post("/", adminOrStaff, cargoHandler.Create)
	cargos.Get("/:id", cargoHandler.GetByID)
	cargos.Put("/:id", adminOrStaff, cargoHandler.Update)
	cargos.Delete("/:id", adminOrStaff, cargoHandler.Delete)
	cargos.Get("/:id/pdf", cargoHandler.PDF)
	cargos.Get("/:id/file", adminOrStaff, cargoHandler.FileStatus)
	cargos.Post("/:id/file", adminOrStaff, cargoHandler.RegenerateFile)

	// Customers
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Get("/", customerHandler.List)
	customers.Get("/search", customerHandler.Search)
	customers.Post("/", adminOrStaff, customerHandler.Create)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", adminOrStaff, customerHandler.Update)
	customers.Delete("/:id", adminOrStaff, customerHandler.Delete)

	// Shippers
	shippers := protected.Group("/shippers")
	shipperHandler := NewShipperHandler(deps.ShipperUC)
	shippers.Get("/", shipperHandler.List)
	shippers.Get("/search", shipperHandler.Search)
	shippers.Post("/", adminOrStaff, shipperHandler.Create)
	shippers.Get("/:id", shipperHandler.GetByID)
	shippers.Get("/:id/name", shipperHandler.GetName)
	shippers.Put("/:id", adminOrStaff, shipperHandler.Update)
	shippers.Delete("/:id", adminOrStaff, shipperHandler.Delete)

	// Users y asignaciones de roles
	users := protected.Group("/users")
	userHandler := NewUserHandler(deps.UserUC, deps.UserRoleUC)
	users.Get("/", adminOrStaff, userHandler.List)
	users.Get("/:id", adminOnly, userHandler.GetByID)
	users.Put("/:id", adminOnly, userHandler.Update)
	users.Delete("/:id", adminOnly, userHandler.Delete)
	users.Get("/:id/roles", adminOnly, userHandler.ListRoles)
	users.Post("/:id/roles", adminOnly, userHandler.AssignRole)
	users.Patch("/:id/roles/:roleId", adminOnly, userHandler.UpdateRole)
	users.Delete("/:id/roles/:roleId", adminOnly, userHandler.RemoveRole)

	// Roles (solo admin)
	roles := protected.Group("/roles", adminOnly)
	roleHandler := NewRoleHandler(deps.RoleUC)
	roles.Get("/", roleHandler.List)
	roles.Post("/", roleHandler.Create)
	roles.Get("/by-name/:name", roleHandler.GetByName)
	roles.Get("/exists/:name", roleHandler.Exists)
	roles.Get("/:id", roleHandler.GetByID)
	roles.Put("/:id", roleHandler.Update)
	roles.Delete("/:id", roleHandler.Delete)

	// Trackings
	trackings := protected.Group("/trackings")
	trackingHandler := NewTrackingHandler(deps.TrackingUC)
	trackings.Post("/", trackingHandler.Create)
	trackings.Get("/user/:userId", adminOnly, trackingHandler.ListByUser)
}
