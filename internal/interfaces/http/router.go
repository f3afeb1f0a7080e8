package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/reparo-api/internal/application/analytics"
	"github.com/jhoicas/reparo-api/internal/application/auth"
	"github.com/jhoicas/reparo-api/internal/application/customer"
	"github.com/jhoicas/reparo-api/internal/application/fiscal"
	"github.com/jhoicas/reparo-api/internal/application/inventory"
	"github.com/jhoicas/reparo-api/internal/application/notification"
	"github.com/jhoicas/reparo-api/internal/application/organization"
	"github.com/jhoicas/reparo-api/internal/application/serviceorder"
	"github.com/jhoicas/reparo-api/internal/domain/entity"
	"github.com/jhoicas/reparo-api/internal/infrastructure/metrics"
	"github.com/jhoicas/reparo-api/internal/infrastructure/realtime"
	"github.com/jhoicas/reparo-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.UseCase
	OrganizationUC *organization.UseCase
	CustomerUC     *customer.UseCase
	ServiceUC      *serviceorder.UseCase
	InventoryUC    *inventory.UseCase
	FiscalUC       *fiscal.UseCase
	DocumentUC     *fiscal.DocumentUseCase
	NotificationUC *notification.UseCase
	DashboardUC    *analytics.DashboardUseCase
	Hub            *realtime.Hub
	Metrics        *metrics.Metrics // opcional
	JWTSecret      string
	Log            *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	api.Get("/avatars/:name", authHandler.ServeAvatar)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(entity.RoleAdmin)

	protected.Get("/me", authHandler.Me)
	protected.Put("/me", authHandler.UpdateMe)
	protected.Put("/me/avatar", authHandler.UploadAvatar)

	users := protected.Group("/users", adminOnly)
	users.Get("/", authHandler.ListUsers)
	users.Post("/", authHandler.CreateUser)
	users.Put("/:id", authHandler.UpdateUser)

	// Organización y módulos
	orgHandler := NewOrganizationHandler(deps.OrganizationUC)
	org := protected.Group("/organization")
	org.Get("/", orgHandler.Get)
	org.Put("/", adminOnly, orgHandler.Update)
	org.Get("/modules", orgHandler.ListModules)
	org.Put("/modules/:name", adminOnly, orgHandler.UpdateModule)

	// Clientes y aparatos
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers := protected.Group("/customers")
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.Get)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", RequireRole(entity.RoleAdmin, entity.RoleAttendant), customerHandler.Delete)
	customers.Get("/:id/contact", customerHandler.Contact)
	customers.Get("/:id/devices", customerHandler.ListDevices)
	customers.Post("/:id/devices", customerHandler.CreateDevice)
	customers.Get("/:id/devices/:deviceId", customerHandler.GetDevice)
	customers.Put("/:id/devices/:deviceId", customerHandler.UpdateDevice)
	customers.Delete("/:id/devices/:deviceId", customerHandler.DeleteDevice)

	// Órdenes de servicio
	serviceHandler := NewServiceHandler(deps.ServiceUC)
	services := protected.Group("/services")
	services.Post("/", serviceHandler.Create)
	services.Get("/", serviceHandler.List)
	services.Get("/:id", serviceHandler.Get)
	services.Put("/:id", serviceHandler.Update)
	services.Patch("/:id/status", serviceHandler.UpdateStatus)
	services.Post("/:id/parts", serviceHandler.AddPart)
	services.Delete("/:id", RequireRole(entity.RoleAdmin, entity.RoleAttendant), serviceHandler.Delete)

	// Inventario (módulo inventory)
	inventoryHandler := NewInventoryHandler(deps.InventoryUC)
	inv := protected.Group("/inventory", RequireModule(entity.ModuleInventory, deps.OrganizationUC, deps.Log))
	inv.Get("/products", inventoryHandler.ListProducts)
	inv.Post("/products", inventoryHandler.CreateProduct)
	inv.Get("/products/:id", inventoryHandler.GetProduct)
	inv.Put("/products/:id", inventoryHandler.UpdateProduct)
	inv.Delete("/products/:id", adminOnly, inventoryHandler.DeleteProduct)
	inv.Get("/products/:id/movements", inventoryHandler.ListMovements)
	inv.Post("/movements", inventoryHandler.RegisterMovement)
	inv.Get("/low-stock", inventoryHandler.LowStock)
	inv.Get("/replenishment-list", inventoryHandler.GetReplenishmentList)

	// Documentos fiscales (módulo fiscal)
	fiscalHandler := NewFiscalHandler(deps.FiscalUC, deps.DocumentUC)
	docs := protected.Group("/fiscal-documents", RequireModule(entity.ModuleFiscal, deps.OrganizationUC, deps.Log))
	docs.Get("/", fiscalHandler.List)
	docs.Post("/", fiscalHandler.Create)
	docs.Post("/import", fiscalHandler.Import)
	docs.Get("/:id", fiscalHandler.Get)
	docs.Delete("/:id", fiscalHandler.Delete)
	docs.Post("/:id/issue", fiscalHandler.Issue)
	docs.Post("/:id/cancel", RequireRole(entity.RoleAdmin, entity.RoleAttendant), fiscalHandler.Cancel)
	docs.Post("/:id/reissue", fiscalHandler.Reissue)
	docs.Post("/:id/status-check", fiscalHandler.StatusCheck)
	docs.Get("/:id/receipt", fiscalHandler.Receipt)
	docs.Get("/:id/pdf", fiscalHandler.PDF)
	docs.Get("/:id/xml", fiscalHandler.XML)
	docs.Get("/:id/share", fiscalHandler.Share)

	// Notificaciones del usuario
	notificationHandler := NewNotificationHandler(deps.NotificationUC)
	notifications := protected.Group("/notifications")
	notifications.Get("/", notificationHandler.List)
	notifications.Get("/unread-count", notificationHandler.UnreadCount)
	notifications.Post("/read-all", notificationHandler.MarkAllRead)
	notifications.Post("/:id/read", notificationHandler.MarkRead)
	notifications.Delete("/:id", notificationHandler.Delete)

	// Reportes (módulo reports)
	reportHandler := NewReportHandler(deps.DashboardUC)
	reports := protected.Group("/reports", RequireModule(entity.ModuleReports, deps.OrganizationUC, deps.Log))
	reports.Get("/dashboard", reportHandler.Dashboard)
	reports.Get("/revenue", reportHandler.Revenue)
	reports.Get("/technicians", adminOnly, reportHandler.Technicians)

	// Tiempo real
	var gauge connectionGauge
	if deps.Metrics != nil {
		gauge = deps.Metrics
	}
	realtimeHandler := NewRealtimeHandler(deps.Hub, gauge, deps.Log)
	protected.Get("/realtime", realtimeHandler.Stream)
}
