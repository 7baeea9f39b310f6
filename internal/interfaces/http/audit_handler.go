package http

import (
	"github.com/gofiber/fiber/v2"

	appaudit "github.com/jhoicas/kardex-api/internal/application/audit"
	"github.com/jhoicas/kardex-api/internal/application/dto"
)

// AuditHandler maneja la consulta del audit trail (protegido, solo lectura).
type AuditHandler struct {
	uc *appaudit.UseCase
}

// NewAuditHandler construye el handler.
func NewAuditHandler(uc *appaudit.UseCase) *AuditHandler {
	return &AuditHandler{uc: uc}
}

// List godoc
// @Summary      Listar correcciones de costo/cantidad
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        item_id       query  string  false  "filtrar por artículo"
// @Param        warehouse_id  query  string  false  "filtrar por bodega"
// @Success      200  {object}  dto.AuditListResponse
// @Router       /api/audit [get]
func (h *AuditHandler) List(c *fiber.Ctx) error {
	var in dto.AuditListRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros inválidos"})
	}
	out, err := h.uc.List(in)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}
