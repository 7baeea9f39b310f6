package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// MovementFilter filtros del listado de movimientos.
type MovementFilter struct {
	State       string
	Type        string
	WarehouseID string // coincide con origen o destino
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

// KardexFilter selección de movimientos publicados para el kardex de un par
// (artículo, bodega). El rango de fechas y el tipo son opcionales.
type KardexFilter struct {
	ItemID      string
	WarehouseID string
	From        *time.Time
	To          *time.Time
	Type        string
}

// MovementRepository define el puerto de persistencia del libro de movimientos
// (cabecera + líneas de detalle, inmutables fuera de BORRADOR).
type MovementRepository interface {
	Create(movement *entity.Movement) error
	GetByID(id string) (*entity.Movement, error)
	// GetByIDForUpdate bloquea la cabecera (SELECT FOR UPDATE) para serializar
	// publicación y anulación del mismo movimiento.
	GetByIDForUpdate(id string) (*entity.Movement, error)
	UpdateHeader(movement *entity.Movement) error
	// ReplaceDetails reemplaza las líneas completas (solo en BORRADOR).
	ReplaceDetails(movementID string, details []entity.MovementDetail) error
	// UpdateDetailCost fija el costo unitario derivado de una línea al
	// publicar (salidas y transferencias se valoran al promedio vigente).
	UpdateDetailCost(detailID string, cost decimal.Decimal) error
	// SetState persiste la transición de estado junto con su marca temporal.
	SetState(movement *entity.Movement) error
	List(filter MovementFilter) ([]*entity.Movement, int, error)
	// ListPublishedByWarehouse devuelve los movimientos PUBLICADO que afectan
	// la bodega (origen o destino), ordenados por fecha y orden de inserción.
	ListPublishedByWarehouse(warehouseID string) ([]*entity.Movement, error)
	// ListForKardex devuelve los movimientos PUBLICADO que afectan el par del
	// filtro, ordenados por fecha y orden de inserción.
	ListForKardex(filter KardexFilter) ([]*entity.Movement, error)
}
