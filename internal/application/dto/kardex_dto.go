package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// KardexRequest parámetros de consulta del kardex de un (artículo, bodega).
type KardexRequest struct {
	ItemID      string `query:"item_id"`
	WarehouseID string `query:"warehouse_id"`
	From        string `query:"from"` // YYYY-MM-DD, opcional
	To          string `query:"to"`
	Type        string `query:"type"` // ENTRADA | SALIDA | TRANSFERENCIA, opcional
	PageRequest
}

// KardexRowResponse fila del kardex: efecto del movimiento y saldo resultante.
type KardexRowResponse struct {
	MovementID        string          `json:"movement_id"`
	MovementType      string          `json:"movement_type"`
	MovementSubtype   string          `json:"movement_subtype,omitempty"`
	Date              time.Time       `json:"date"`
	ReferenceDocument string          `json:"reference_document,omitempty"`
	EntryQuantity     decimal.Decimal `json:"entry_quantity"`
	EntryValue        decimal.Decimal `json:"entry_value"`
	ExitQuantity      decimal.Decimal `json:"exit_quantity"`
	ExitValue         decimal.Decimal `json:"exit_value"`
	Balance           decimal.Decimal `json:"balance"`
	AverageCost       decimal.Decimal `json:"average_cost"`
	BalanceValue      decimal.Decimal `json:"balance_value"`
}

// KardexSummaryResponse totales sobre la historia filtrada completa (se
// calculan antes de paginar).
type KardexSummaryResponse struct {
	TotalEntries   decimal.Decimal `json:"total_entries"`
	TotalExits     decimal.Decimal `json:"total_exits"`
	FinalBalance   decimal.Decimal `json:"final_balance"`
	FinalValuation decimal.Decimal `json:"final_valuation"`
	AverageCost    decimal.Decimal `json:"average_cost"`
}

// KardexResponse filas paginadas + resumen del kardex.
type KardexResponse struct {
	ItemID      string                `json:"item_id"`
	WarehouseID string                `json:"warehouse_id"`
	Rows        []KardexRowResponse   `json:"rows"`
	Summary     KardexSummaryResponse `json:"summary"`
	Page        PageResponse          `json:"page"`
}
