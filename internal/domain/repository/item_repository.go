package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia del catálogo de artículos.
// El motor de costeo lo usa solo en lectura.
type ItemRepository interface {
	Create(item *entity.Item) error
	GetByID(id string) (*entity.Item, error)
	GetByCode(code string) (*entity.Item, error)
	Update(item *entity.Item) error
	List(activeOnly bool, limit, offset int) ([]*entity.Item, error)
	// UpdateAverageCost actualiza el promedio global informativo del artículo
	// (el costo autoritativo es por bodega, en StockPosition).
	UpdateAverageCost(id string, cost decimal.Decimal) error
}

// CategoryRepository define el puerto de persistencia de categorías.
type CategoryRepository interface {
	Create(category *entity.Category) error
	GetByID(id string) (*entity.Category, error)
	List() ([]*entity.Category, error)
}
