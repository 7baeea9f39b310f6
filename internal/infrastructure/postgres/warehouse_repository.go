package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

// WarehouseRepo implementación de WarehouseRepository sobre PostgreSQL.
// La fila de la bodega hace además de semáforo: FOR SHARE en publicación y
// anulación, FOR UPDATE en recálculo.
type WarehouseRepo struct {
	q Querier
}

// NewWarehouseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWarehouseRepository(q Querier) *WarehouseRepo {
	return &WarehouseRepo{q: q}
}

const warehouseColumns = `id, code, name, location, active, auto_update_average_cost, created_at, updated_at`

// Create inserta una bodega; código duplicado devuelve ErrDuplicate.
func (r *WarehouseRepo) Create(warehouse *entity.Warehouse) error {
	query := `
		INSERT INTO warehouses (id, code, name, location, active, auto_update_average_cost, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())`
	_, err := r.q.Exec(context.Background(), query,
		warehouse.ID, warehouse.Code, warehouse.Name, warehouse.Location,
		warehouse.Active, warehouse.AutoUpdateAverageCost,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert warehouse: %w", err)
	}
	return nil
}

// GetByID obtiene una bodega por id; nil si no existe.
func (r *WarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	return r.get(`SELECT `+warehouseColumns+` FROM warehouses WHERE id = $1`, id)
}

// GetByCode obtiene una bodega por código; nil si no existe.
func (r *WarehouseRepo) GetByCode(code string) (*entity.Warehouse, error) {
	return r.get(`SELECT `+warehouseColumns+` FROM warehouses WHERE code = $1`, code)
}

// GetForShare obtiene la bodega con bloqueo compartido (SELECT FOR SHARE):
// publicaciones y anulaciones conviven entre sí pero quedan excluidas del
// bloqueo exclusivo del recálculo.
func (r *WarehouseRepo) GetForShare(id string) (*entity.Warehouse, error) {
	return r.get(`SELECT `+warehouseColumns+` FROM warehouses WHERE id = $1 FOR SHARE`, id)
}

// GetForUpdate obtiene la bodega con bloqueo exclusivo (SELECT FOR UPDATE);
// lo toma el recálculo para drenar publicaciones en curso.
func (r *WarehouseRepo) GetForUpdate(id string) (*entity.Warehouse, error) {
	return r.get(`SELECT `+warehouseColumns+` FROM warehouses WHERE id = $1 FOR UPDATE`, id)
}

func (r *WarehouseRepo) get(query, arg string) (*entity.Warehouse, error) {
	w, err := scanWarehouse(r.q.QueryRow(context.Background(), query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get warehouse: %w", err)
	}
	return w, nil
}

// Update actualiza los campos mutables de la bodega.
func (r *WarehouseRepo) Update(warehouse *entity.Warehouse) error {
	query := `
		UPDATE warehouses
		SET name = $2, location = $3, active = $4, auto_update_average_cost = $5, updated_at = now()
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		warehouse.ID, warehouse.Name, warehouse.Location,
		warehouse.Active, warehouse.AutoUpdateAverageCost,
	)
	if err != nil {
		return fmt.Errorf("update warehouse: %w", err)
	}
	return nil
}

// List lista bodegas ordenadas por código.
func (r *WarehouseRepo) List(activeOnly bool, limit, offset int) ([]*entity.Warehouse, error) {
	query := `SELECT ` + warehouseColumns + ` FROM warehouses`
	if activeOnly {
		query += " WHERE active"
	}
	query += " ORDER BY code LIMIT $1 OFFSET $2"
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query warehouses: %w", err)
	}
	defer rows.Close()
	var list []*entity.Warehouse
	for rows.Next() {
		w, err := scanWarehouse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan warehouse: %w", err)
		}
		list = append(list, w)
	}
	return list, rows.Err()
}

func scanWarehouse(row pgx.Row) (*entity.Warehouse, error) {
	var w entity.Warehouse
	err := row.Scan(&w.ID, &w.Code, &w.Name, &w.Location, &w.Active,
		&w.AutoUpdateAverageCost, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &w, nil
}
