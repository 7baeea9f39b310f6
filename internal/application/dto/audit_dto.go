package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuditListRequest filtros del audit trail.
type AuditListRequest struct {
	ItemID      string `query:"item_id"`
	WarehouseID string `query:"warehouse_id"`
	PageRequest
}

// AuditEntryResponse una corrección de costo/cantidad registrada.
type AuditEntryResponse struct {
	ID               string          `json:"id"`
	CreatedAt        time.Time       `json:"created_at"`
	UserID           string          `json:"user_id"`
	MovementID       *string         `json:"movement_id,omitempty"`
	ItemID           string          `json:"item_id"`
	WarehouseID      string          `json:"warehouse_id"`
	PreviousCost     decimal.Decimal `json:"previous_cost"`
	NewCost          decimal.Decimal `json:"new_cost"`
	PreviousQuantity decimal.Decimal `json:"previous_quantity"`
	NewQuantity      decimal.Decimal `json:"new_quantity"`
	CostDifference   decimal.Decimal `json:"cost_difference"`
	Reason           string          `json:"reason"`
}

// AuditListResponse lista paginada del audit trail.
type AuditListResponse struct {
	Items []AuditEntryResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}
