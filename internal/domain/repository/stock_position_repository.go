package repository

import "github.com/jhoicas/kardex-api/internal/domain/entity"

// StockPositionRepository define el puerto para la posición de stock por
// (artículo, bodega). Las escrituras ocurren siempre dentro de transacciones:
// el par es la unidad de estado mutable compartido.
type StockPositionRepository interface {
	Get(itemID, warehouseID string) (*entity.StockPosition, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE); publicaciones
	// concurrentes sobre pares disjuntos avanzan en paralelo.
	GetForUpdate(itemID, warehouseID string) (*entity.StockPosition, error)
	Upsert(position *entity.StockPosition) error
	List(warehouseID string, lowStockOnly bool, limit, offset int) ([]*entity.StockPosition, error)
	ListByWarehouse(warehouseID string) ([]*entity.StockPosition, error)
	// LockByWarehouse bloquea todas las filas de la bodega para el recálculo.
	LockByWarehouse(warehouseID string) ([]*entity.StockPosition, error)
	// DeleteByWarehouse descarta las posiciones de la bodega antes de escribir
	// el conjunto reconstruido (swap atómico dentro de la transacción).
	DeleteByWarehouse(warehouseID string) error
}
