package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/kardex"
)

// KardexHandler maneja la consulta del kardex (protegido, solo lectura).
type KardexHandler struct {
	uc *kardex.UseCase
}

// NewKardexHandler construye el handler.
func NewKardexHandler(uc *kardex.UseCase) *KardexHandler {
	return &KardexHandler{uc: uc}
}

// Query godoc
// @Summary      Kardex de un artículo en una bodega
// @Description  Reconstruye el libro del par con saldo y costo promedio
//
//	corrientes. El resumen se calcula sobre la historia filtrada
//	completa antes de paginar.
//
// @Tags         kardex
// @Security     Bearer
// @Produce      json
// @Param        item_id       query  string  true   "UUID del artículo"
// @Param        warehouse_id  query  string  true   "UUID de la bodega"
// @Param        from          query  string  false  "YYYY-MM-DD"
// @Param        to            query  string  false  "YYYY-MM-DD"
// @Param        type          query  string  false  "ENTRADA | SALIDA | TRANSFERENCIA"
// @Success      200  {object}  dto.KardexResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/kardex [get]
func (h *KardexHandler) Query(c *fiber.Ctx) error {
	var in dto.KardexRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros inválidos"})
	}
	out, err := h.uc.Query(in)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// ExportPDF godoc
// @Summary      Kardex en PDF
// @Tags         kardex
// @Security     Bearer
// @Produce      application/pdf
// @Param        item_id       query  string  true   "UUID del artículo"
// @Param        warehouse_id  query  string  true   "UUID de la bodega"
// @Param        from          query  string  false  "YYYY-MM-DD"
// @Param        to            query  string  false  "YYYY-MM-DD"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/kardex/pdf [get]
func (h *KardexHandler) ExportPDF(c *fiber.Ctx) error {
	var in dto.KardexRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros inválidos"})
	}
	pdfBytes, err := h.uc.ExportPDF(c.Context(), in)
	if err != nil {
		return handleError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="kardex.pdf"`)
	return c.Send(pdfBytes)
}
