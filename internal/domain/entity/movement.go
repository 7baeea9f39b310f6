package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeEntrada       = "ENTRADA"       // entrada a bodega destino
	MovementTypeSalida        = "SALIDA"        // salida de bodega origen
	MovementTypeTransferencia = "TRANSFERENCIA" // traslado entre bodegas
)

// Subtipos opcionales de movimiento.
const (
	MovementSubtypeCompra           = "COMPRA"
	MovementSubtypeVenta            = "VENTA"
	MovementSubtypeDevolucionVenta  = "DEVOLUCION_VENTA"
	MovementSubtypeDevolucionCompra = "DEVOLUCION_COMPRA"
)

// Estados del ciclo de vida de un movimiento.
const (
	MovementStateBorrador  = "BORRADOR"
	MovementStatePublicado = "PUBLICADO"
	MovementStateAnulado   = "ANULADO" // terminal
)

// movementTransitions es la tabla exhaustiva de transiciones legales.
// Cualquier par (desde, hacia) fuera de la tabla es CONFLICT.
var movementTransitions = map[string]string{
	MovementStateBorrador:  MovementStatePublicado,
	MovementStatePublicado: MovementStateAnulado,
}

// CanTransition indica si la transición de estado es legal.
func CanTransition(from, to string) bool {
	next, ok := movementTransitions[from]
	return ok && next == to
}

// ValidMovementType valida el tipo de movimiento.
func ValidMovementType(t string) bool {
	switch t {
	case MovementTypeEntrada, MovementTypeSalida, MovementTypeTransferencia:
		return true
	}
	return false
}

// ValidMovementSubtype valida el subtipo (vacío = sin subtipo).
func ValidMovementSubtype(s string) bool {
	switch s {
	case "", MovementSubtypeCompra, MovementSubtypeVenta,
		MovementSubtypeDevolucionVenta, MovementSubtypeDevolucionCompra:
		return true
	}
	return false
}

// Movement es la cabecera de un movimiento de inventario con sus líneas de
// detalle ordenadas. Las líneas son inmutables una vez que el movimiento sale
// de BORRADOR.
type Movement struct {
	ID                  string
	Type                string
	Subtype             string
	Date                time.Time
	OriginWarehouseID   string // requerido para SALIDA y TRANSFERENCIA
	DestWarehouseID     string // requerido para ENTRADA y TRANSFERENCIA
	ThirdPartyReference string
	ReferenceDocument   string
	Observation         string
	State               string
	Details             []MovementDetail
	CreatedBy           string
	CreatedAt           time.Time
	PublishedAt         *time.Time
	VoidedAt            *time.Time
}

// MovementDetail es una línea de detalle: artículo, cantidad (> 0) y costo
// unitario (significativo en entradas; derivado del promedio en salidas y
// transferencias).
type MovementDetail struct {
	ID         string
	MovementID string
	LineNumber int
	ItemID     string
	Quantity   decimal.Decimal
	UnitCost   decimal.Decimal
}

// Transition cambia el estado del movimiento si la transición es legal;
// devuelve ErrConflict sin modificar nada en caso contrario.
func (m *Movement) Transition(to string) error {
	if !CanTransition(m.State, to) {
		return domain.ErrConflict
	}
	m.State = to
	return nil
}

// Editable indica si cabecera y detalle admiten modificaciones.
func (m *Movement) Editable() bool {
	return m.State == MovementStateBorrador
}

// RequiresOrigin indica si el tipo exige bodega de origen.
func (m *Movement) RequiresOrigin() bool {
	return m.Type == MovementTypeSalida || m.Type == MovementTypeTransferencia
}

// RequiresDestination indica si el tipo exige bodega de destino.
func (m *Movement) RequiresDestination() bool {
	return m.Type == MovementTypeEntrada || m.Type == MovementTypeTransferencia
}
