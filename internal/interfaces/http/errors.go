package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain"
)

// handleError traduce la taxonomía de errores del dominio a estado HTTP +
// cuerpo ErrorResponse. El mensaje envuelto (línea/artículo fallido) viaja en
// Details.
func handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity):
		return respond(c, fiber.StatusBadRequest, "INVALID_QUANTITY", "cantidad inválida", err)
	case errors.Is(err, domain.ErrInvalidCost):
		return respond(c, fiber.StatusBadRequest, "INVALID_COST", "costo inválido", err)
	case errors.Is(err, domain.ErrInvalidInput):
		return respond(c, fiber.StatusBadRequest, "VALIDATION", "datos inválidos", err)
	case errors.Is(err, domain.ErrInsufficientStock):
		return respond(c, fiber.StatusConflict, "INSUFFICIENT_STOCK", "stock insuficiente", err)
	case errors.Is(err, domain.ErrConflict):
		return respond(c, fiber.StatusConflict, "CONFLICT", "operación no permitida en el estado actual", err)
	case errors.Is(err, domain.ErrDuplicate):
		return respond(c, fiber.StatusConflict, "DUPLICATE", "el recurso ya existe", err)
	case errors.Is(err, domain.ErrItemNotFound):
		return respond(c, fiber.StatusNotFound, "NOT_FOUND", "artículo no encontrado", err)
	case errors.Is(err, domain.ErrWarehouseNotFound):
		return respond(c, fiber.StatusNotFound, "NOT_FOUND", "bodega no encontrada", err)
	case errors.Is(err, domain.ErrNotFound):
		return respond(c, fiber.StatusNotFound, "NOT_FOUND", "recurso no encontrado", err)
	case errors.Is(err, domain.ErrForbidden):
		return respond(c, fiber.StatusForbidden, "FORBIDDEN", "acceso denegado", err)
	case errors.Is(err, domain.ErrUnauthorized):
		return respond(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "credenciales inválidas", err)
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

func respond(c *fiber.Ctx, status int, code, message string, err error) error {
	body := dto.ErrorResponse{Code: code, Message: message}
	// El mensaje envuelto solo aporta si agrega contexto sobre el sentinel.
	if err != nil && err.Error() != message {
		body.Details = err.Error()
	}
	return c.Status(status).JSON(body)
}
