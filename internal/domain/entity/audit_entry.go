package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Motivos de una corrección de costo/cantidad.
const (
	AuditReasonOverride      = "OVERRIDE"      // override manual de costo fijado
	AuditReasonRecalculation = "RECALCULATION" // diferencia detectada por recálculo
)

// AuditEntry registra una corrección de costo o cantidad fuera del flujo
// normal de publicación (override manual, diferencia de recálculo).
// Append-only: nunca se modifica ni se borra.
type AuditEntry struct {
	ID               string
	CreatedAt        time.Time
	UserID           string
	MovementID       *string // nulo para correcciones originadas por recálculo
	ItemID           string
	WarehouseID      string
	PreviousCost     decimal.Decimal
	NewCost          decimal.Decimal
	PreviousQuantity decimal.Decimal
	NewQuantity      decimal.Decimal
	CostDifference   decimal.Decimal
	Reason           string
}
