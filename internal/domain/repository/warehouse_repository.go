package repository

import "github.com/jhoicas/kardex-api/internal/domain/entity"

// WarehouseRepository define el puerto de persistencia de bodegas.
type WarehouseRepository interface {
	Create(warehouse *entity.Warehouse) error
	GetByID(id string) (*entity.Warehouse, error)
	GetByCode(code string) (*entity.Warehouse, error)
	Update(warehouse *entity.Warehouse) error
	List(activeOnly bool, limit, offset int) ([]*entity.Warehouse, error)
	// GetForShare toma un bloqueo compartido sobre la fila de la bodega
	// (publicación/anulación); convive con otras publicaciones pero excluye
	// el bloqueo exclusivo del recálculo.
	GetForShare(id string) (*entity.Warehouse, error)
	// GetForUpdate toma el bloqueo exclusivo de la bodega (recálculo): ningún
	// publish/void sobre la bodega puede intercalarse mientras dura.
	GetForUpdate(id string) (*entity.Warehouse, error)
}
