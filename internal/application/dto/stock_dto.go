package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockPositionResponse posición de stock de un artículo en una bodega.
type StockPositionResponse struct {
	ItemID      string           `json:"item_id"`
	WarehouseID string           `json:"warehouse_id"`
	Quantity    decimal.Decimal  `json:"quantity"`
	AverageCost decimal.Decimal  `json:"average_cost"`
	Valuation   decimal.Decimal  `json:"valuation"`
	MinStock    *decimal.Decimal `json:"min_stock,omitempty"`
	MaxStock    *decimal.Decimal `json:"max_stock,omitempty"`
	BelowMin    bool             `json:"below_min"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// StockListRequest filtros del listado de posiciones.
type StockListRequest struct {
	WarehouseID string `query:"warehouse_id"`
	LowStock    bool   `query:"low_stock"` // solo posiciones bajo el mínimo
	PageRequest
}

// StockListResponse lista paginada de posiciones.
type StockListResponse struct {
	Items []StockPositionResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}

// OverrideCostRequest override manual del costo promedio de una posición
// (pensado para bodegas con costo fijado). Siempre genera un AuditEntry.
type OverrideCostRequest struct {
	ItemID      string          `json:"item_id"`
	WarehouseID string          `json:"warehouse_id"`
	NewCost     decimal.Decimal `json:"new_cost"`
	Reason      string          `json:"reason,omitempty"`
}

// RecalculateRequest entrada del recálculo de costos. WarehouseID vacío
// recalcula todas las bodegas.
type RecalculateRequest struct {
	WarehouseID string `json:"warehouse_id,omitempty"`
}

// RecalculateResponse resultado del recálculo.
type RecalculateResponse struct {
	Warehouses       []string                `json:"warehouses"`
	Positions        []StockPositionResponse `json:"positions"`
	AuditEntries     int                     `json:"audit_entries"`
	MovementsApplied int                     `json:"movements_applied"`
}
