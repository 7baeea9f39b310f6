package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementDetailRequest línea de detalle al crear/editar un movimiento.
// UnitCost es obligatorio en entradas; en salidas y transferencias se deriva
// del promedio vigente al publicar.
type MovementDetailRequest struct {
	ItemID   string           `json:"item_id"`
	Quantity decimal.Decimal  `json:"quantity"`
	UnitCost *decimal.Decimal `json:"unit_cost,omitempty"`
}

// CreateMovementRequest entrada para crear un movimiento en BORRADOR.
type CreateMovementRequest struct {
	Type                string                  `json:"type"`
	Subtype             string                  `json:"subtype,omitempty"`
	Date                time.Time               `json:"date"`
	OriginWarehouseID   string                  `json:"origin_warehouse_id,omitempty"`
	DestWarehouseID     string                  `json:"dest_warehouse_id,omitempty"`
	ThirdPartyReference string                  `json:"third_party_reference,omitempty"`
	ReferenceDocument   string                  `json:"reference_document,omitempty"`
	Observation         string                  `json:"observation,omitempty"`
	Details             []MovementDetailRequest `json:"details"`
}

// UpdateMovementRequest entrada para editar un movimiento (solo BORRADOR).
// Los campos nulos no se modifican; Details presente reemplaza todas las líneas.
type UpdateMovementRequest struct {
	Date                *time.Time              `json:"date,omitempty"`
	ThirdPartyReference *string                 `json:"third_party_reference,omitempty"`
	ReferenceDocument   *string                 `json:"reference_document,omitempty"`
	Observation         *string                 `json:"observation,omitempty"`
	Details             []MovementDetailRequest `json:"details,omitempty"`
}

// MovementDetailResponse línea de detalle en respuestas.
type MovementDetailResponse struct {
	ID         string          `json:"id"`
	LineNumber int             `json:"line_number"`
	ItemID     string          `json:"item_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
}

// MovementResponse salida de un movimiento con sus líneas.
type MovementResponse struct {
	ID                  string                   `json:"id"`
	Type                string                   `json:"type"`
	Subtype             string                   `json:"subtype,omitempty"`
	Date                time.Time                `json:"date"`
	OriginWarehouseID   string                   `json:"origin_warehouse_id,omitempty"`
	DestWarehouseID     string                   `json:"dest_warehouse_id,omitempty"`
	ThirdPartyReference string                   `json:"third_party_reference,omitempty"`
	ReferenceDocument   string                   `json:"reference_document,omitempty"`
	Observation         string                   `json:"observation,omitempty"`
	State               string                   `json:"state"`
	Details             []MovementDetailResponse `json:"details"`
	CreatedBy           string                   `json:"created_by"`
	CreatedAt           time.Time                `json:"created_at"`
	PublishedAt         *time.Time               `json:"published_at,omitempty"`
	VoidedAt            *time.Time               `json:"voided_at,omitempty"`
}

// MovementListRequest filtros del listado de movimientos.
type MovementListRequest struct {
	State       string `query:"state"`
	Type        string `query:"type"`
	WarehouseID string `query:"warehouse_id"`
	From        string `query:"from"` // YYYY-MM-DD
	To          string `query:"to"`
	PageRequest
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
