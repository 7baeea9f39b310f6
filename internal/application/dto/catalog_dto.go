package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest entrada para crear un artículo.
type CreateItemRequest struct {
	Code          string `json:"code"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	UnitOfMeasure string `json:"unit_of_measure"`
	CategoryID    string `json:"category_id,omitempty"`
}

// UpdateItemRequest entrada para actualizar campos descriptivos de un
// artículo. Code y UnitOfMeasure son identidad inmutable y no se tocan.
type UpdateItemRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	CategoryID  *string `json:"category_id,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}

// ItemResponse salida de un artículo.
type ItemResponse struct {
	ID            string          `json:"id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	UnitOfMeasure string          `json:"unit_of_measure"`
	CategoryID    string          `json:"category_id,omitempty"`
	AverageCost   decimal.Decimal `json:"average_cost"`
	Active        bool            `json:"active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ItemListResponse lista paginada de artículos.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// CreateWarehouseRequest entrada para crear una bodega.
type CreateWarehouseRequest struct {
	Code                  string `json:"code"`
	Name                  string `json:"name"`
	Location              string `json:"location,omitempty"`
	AutoUpdateAverageCost *bool  `json:"auto_update_average_cost,omitempty"` // por defecto true
}

// UpdateWarehouseRequest entrada para actualizar una bodega.
type UpdateWarehouseRequest struct {
	Name                  *string `json:"name,omitempty"`
	Location              *string `json:"location,omitempty"`
	Active                *bool   `json:"active,omitempty"`
	AutoUpdateAverageCost *bool   `json:"auto_update_average_cost,omitempty"`
}

// WarehouseResponse salida de una bodega.
type WarehouseResponse struct {
	ID                    string    `json:"id"`
	Code                  string    `json:"code"`
	Name                  string    `json:"name"`
	Location              string    `json:"location,omitempty"`
	Active                bool      `json:"active"`
	AutoUpdateAverageCost bool      `json:"auto_update_average_cost"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// WarehouseListResponse lista paginada de bodegas.
type WarehouseListResponse struct {
	Items []WarehouseResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}

// CreateCategoryRequest entrada para crear una categoría.
type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
