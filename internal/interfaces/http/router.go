package http

import (
	"github.com/gofiber/fiber/v2"

	appaudit "github.com/jhoicas/kardex-api/internal/application/audit"
	"github.com/jhoicas/kardex-api/internal/application/auth"
	"github.com/jhoicas/kardex-api/internal/application/catalog"
	"github.com/jhoicas/kardex-api/internal/application/kardex"
	"github.com/jhoicas/kardex-api/internal/application/movement"
	"github.com/jhoicas/kardex-api/internal/application/recalc"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	ItemUC      *catalog.ItemUseCase
	WarehouseUC *catalog.WarehouseUseCase
	StockUC     *catalog.StockUseCase
	MovementUC  *movement.UseCase
	KardexUC    *kardex.UseCase
	RecalcUC    *recalc.UseCase
	AuditUC     *appaudit.UseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Escrituras del catálogo y del libro: admin y bodeguero.
	// Operaciones correctivas (override, recálculo): solo admin.
	writer := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)
	adminOnly := RequireRole(entity.RoleAdmin)

	// Items y categorías
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Post("/", writer, itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", writer, itemHandler.Update)
	protected.Post("/categories", writer, itemHandler.CreateCategory)
	protected.Get("/categories", itemHandler.ListCategories)

	// Warehouses
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", writer, warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Put("/:id", writer, warehouseHandler.Update)

	// Movements (ciclo de vida del libro)
	movements := protected.Group("/movements")
	movementHandler := NewMovementHandler(deps.MovementUC)
	movements.Post("/", writer, movementHandler.Create)
	movements.Get("/", movementHandler.List)
	movements.Get("/:id", movementHandler.GetByID)
	movements.Put("/:id", writer, movementHandler.Update)
	movements.Post("/:id/publish", writer, movementHandler.Publish)
	movements.Post("/:id/void", writer, movementHandler.Void)

	// Kardex (solo lectura)
	kardexHandler := NewKardexHandler(deps.KardexUC)
	protected.Get("/kardex", kardexHandler.Query)
	protected.Get("/kardex/pdf", kardexHandler.ExportPDF)

	// Stock: posiciones, override y recálculo
	stock := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC, deps.AuditUC, deps.RecalcUC)
	stock.Get("/", stockHandler.List)
	stock.Post("/override", adminOnly, stockHandler.OverrideCost)
	stock.Post("/recalculate", adminOnly, stockHandler.Recalculate)

	// Audit trail (solo lectura)
	auditHandler := NewAuditHandler(deps.AuditUC)
	protected.Get("/audit", auditHandler.List)
}
