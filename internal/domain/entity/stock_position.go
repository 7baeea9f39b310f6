package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockPosition es el par autoritativo (cantidad, costo promedio) de un
// artículo en una bodega. Se crea perezosamente con el primer movimiento que
// afecta el par y solo la escriben el motor de costeo y el servicio de
// recálculo. Invariante: Quantity >= 0 tras toda transición confirmada.
type StockPosition struct {
	ItemID      string
	WarehouseID string
	Quantity    decimal.Decimal
	AverageCost decimal.Decimal
	MinStock    *decimal.Decimal
	MaxStock    *decimal.Decimal
	UpdatedAt   time.Time
}

// Valuation devuelve la valoración de la posición (cantidad x costo promedio).
func (s *StockPosition) Valuation() decimal.Decimal {
	return s.Quantity.Mul(s.AverageCost)
}

// BelowMin indica si la posición está por debajo del umbral mínimo.
func (s *StockPosition) BelowMin() bool {
	return s.MinStock != nil && s.Quantity.LessThan(*s.MinStock)
}
