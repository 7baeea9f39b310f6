package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa un artículo de inventario. Code y UnitOfMeasure son
// identidad inmutable. AverageCost es el promedio global informativo: el costo
// autoritativo vive por bodega en StockPosition.
type Item struct {
	ID            string
	Code          string
	Name          string
	Description   string
	UnitOfMeasure string
	CategoryID    string
	AverageCost   decimal.Decimal
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Category agrupa artículos para el catálogo.
type Category struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}
