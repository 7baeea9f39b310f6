package domain

import "errors"

// Errores de dominio (sin dependencias externas). Los handlers HTTP los
// traducen a códigos de la taxonomía: VALIDATION, NOT_FOUND, CONFLICT,
// INVALID_QUANTITY, INVALID_COST, INSUFFICIENT_STOCK, FORBIDDEN.
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrItemNotFound       = errors.New("artículo no encontrado o inactivo")
	ErrWarehouseNotFound  = errors.New("bodega no encontrada o inactiva")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("transición de estado no permitida")
	ErrInvalidQuantity    = errors.New("cantidad inválida")
	ErrInvalidCost        = errors.New("costo inválido")
	ErrInsufficientStock  = errors.New("stock insuficiente")
)
