package http

import (
	"github.com/gofiber/fiber/v2"

	appaudit "github.com/jhoicas/kardex-api/internal/application/audit"
	"github.com/jhoicas/kardex-api/internal/application/catalog"
	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/recalc"
)

// StockHandler maneja posiciones de stock, override de costo y recálculo
// (protegido).
type StockHandler struct {
	stockUC  *catalog.StockUseCase
	auditUC  *appaudit.UseCase
	recalcUC *recalc.UseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(stockUC *catalog.StockUseCase, auditUC *appaudit.UseCase, recalcUC *recalc.UseCase) *StockHandler {
	return &StockHandler{stockUC: stockUC, auditUC: auditUC, recalcUC: recalcUC}
}

// List godoc
// @Summary      Listar posiciones de stock
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "filtrar por bodega"
// @Param        low_stock     query  bool    false  "solo posiciones bajo el mínimo"
// @Success      200  {object}  dto.StockListResponse
// @Router       /api/stock [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	var in dto.StockListRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros inválidos"})
	}
	out, err := h.stockUC.List(in)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// OverrideCost godoc
// @Summary      Override manual del costo promedio
// @Description  Fija el costo promedio de una posición sin mover cantidades.
//
//	Siempre genera una entrada de auditoría con motivo OVERRIDE.
//
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OverrideCostRequest  true  "item_id, warehouse_id, new_cost"
// @Success      200   {object}  dto.AuditEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/override [post]
func (h *StockHandler) OverrideCost(c *fiber.Ctx) error {
	var in dto.OverrideCostRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.auditUC.OverrideCost(c.Context(), GetUserID(c), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Recalculate godoc
// @Summary      Recalcular stock y costos desde cero
// @Description  Reconstruye las posiciones de la bodega reproduciendo toda la
//
//	historia publicada en orden canónico. Idempotente. Audita cada
//	posición cuyo resultado difiere del persistido.
//
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecalculateRequest  false  "warehouse_id vacío = todas las bodegas"
// @Success      200   {object}  dto.RecalculateResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/recalculate [post]
func (h *StockHandler) Recalculate(c *fiber.Ctx) error {
	var in dto.RecalculateRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	out, err := h.recalcUC.Recalculate(c.Context(), GetUserID(c), in.WarehouseID)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}
