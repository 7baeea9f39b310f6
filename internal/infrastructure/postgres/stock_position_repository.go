package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.StockPositionRepository = (*StockPositionRepo)(nil)

// StockPositionRepo implementación de StockPositionRepository sobre
// PostgreSQL (usable con pool o tx).
type StockPositionRepo struct {
	q Querier
}

// NewStockPositionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockPositionRepository(q Querier) *StockPositionRepo {
	return &StockPositionRepo{q: q}
}

const stockPositionColumns = `item_id, warehouse_id, quantity, average_cost, min_stock, max_stock, updated_at`

func scanStockPosition(row pgx.Row) (*entity.StockPosition, error) {
	var p entity.StockPosition
	err := row.Scan(&p.ItemID, &p.WarehouseID, &p.Quantity, &p.AverageCost, &p.MinStock, &p.MaxStock, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Get obtiene la posición de un artículo en una bodega. Si no existe devuelve
// la posición vacía del par (se crea perezosamente con el primer movimiento).
func (r *StockPositionRepo) Get(itemID, warehouseID string) (*entity.StockPosition, error) {
	query := `
		SELECT ` + stockPositionColumns + `
		FROM stock_positions WHERE item_id = $1 AND warehouse_id = $2`
	p, err := scanStockPosition(r.q.QueryRow(context.Background(), query, itemID, warehouseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return emptyPosition(itemID, warehouseID), nil
		}
		return nil, fmt.Errorf("get stock position: %w", err)
	}
	return p, nil
}

// GetForUpdate obtiene la posición y bloquea la fila (SELECT FOR UPDATE).
// Publicaciones concurrentes sobre el mismo par se serializan aquí; pares
// disjuntos avanzan en paralelo.
func (r *StockPositionRepo) GetForUpdate(itemID, warehouseID string) (*entity.StockPosition, error) {
	query := `
		SELECT ` + stockPositionColumns + `
		FROM stock_positions WHERE item_id = $1 AND warehouse_id = $2
		FOR UPDATE`
	p, err := scanStockPosition(r.q.QueryRow(context.Background(), query, itemID, warehouseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return emptyPosition(itemID, warehouseID), nil
		}
		return nil, fmt.Errorf("get stock position for update: %w", err)
	}
	return p, nil
}

// Upsert inserta o actualiza la posición (por artículo y bodega).
func (r *StockPositionRepo) Upsert(position *entity.StockPosition) error {
	query := `
		INSERT INTO stock_positions (item_id, warehouse_id, quantity, average_cost, min_stock, max_stock, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (item_id, warehouse_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, average_cost = EXCLUDED.average_cost,
			min_stock = EXCLUDED.min_stock, max_stock = EXCLUDED.max_stock, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		position.ItemID, position.WarehouseID, position.Quantity, position.AverageCost,
		position.MinStock, position.MaxStock,
	)
	if err != nil {
		return fmt.Errorf("upsert stock position: %w", err)
	}
	return nil
}

// List lista posiciones con filtros opcionales de bodega y bajo-mínimo.
func (r *StockPositionRepo) List(warehouseID string, lowStockOnly bool, limit, offset int) ([]*entity.StockPosition, error) {
	query := `
		SELECT ` + stockPositionColumns + `
		FROM stock_positions WHERE 1=1`
	args := []any{}
	pos := 1
	if warehouseID != "" {
		query += fmt.Sprintf(" AND warehouse_id = $%d", pos)
		args = append(args, warehouseID)
		pos++
	}
	if lowStockOnly {
		query += " AND min_stock IS NOT NULL AND quantity < min_stock"
	}
	query += fmt.Sprintf(" ORDER BY warehouse_id, item_id LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	return r.queryPositions(query, args...)
}

// ListByWarehouse lista todas las posiciones de una bodega sin paginar.
func (r *StockPositionRepo) ListByWarehouse(warehouseID string) ([]*entity.StockPosition, error) {
	query := `
		SELECT ` + stockPositionColumns + `
		FROM stock_positions WHERE warehouse_id = $1
		ORDER BY item_id`
	return r.queryPositions(query, warehouseID)
}

// LockByWarehouse bloquea todas las filas de la bodega (SELECT FOR UPDATE) y
// devuelve la pre-imagen. Lo usa el recálculo para excluir publicaciones
// concurrentes mientras reconstruye.
func (r *StockPositionRepo) LockByWarehouse(warehouseID string) ([]*entity.StockPosition, error) {
	query := `
		SELECT ` + stockPositionColumns + `
		FROM stock_positions WHERE warehouse_id = $1
		ORDER BY item_id
		FOR UPDATE`
	return r.queryPositions(query, warehouseID)
}

// DeleteByWarehouse descarta las posiciones de la bodega; siempre dentro de
// la transacción del recálculo, justo antes de escribir el conjunto nuevo.
func (r *StockPositionRepo) DeleteByWarehouse(warehouseID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM stock_positions WHERE warehouse_id = $1`, warehouseID)
	if err != nil {
		return fmt.Errorf("delete stock positions: %w", err)
	}
	return nil
}

func (r *StockPositionRepo) queryPositions(query string, args ...any) ([]*entity.StockPosition, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("query stock positions: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockPosition
	for rows.Next() {
		var p entity.StockPosition
		if err := rows.Scan(&p.ItemID, &p.WarehouseID, &p.Quantity, &p.AverageCost, &p.MinStock, &p.MaxStock, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock position: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

func emptyPosition(itemID, warehouseID string) *entity.StockPosition {
	return &entity.StockPosition{
		ItemID:      itemID,
		WarehouseID: warehouseID,
		Quantity:    decimal.Zero,
		AverageCost: decimal.Zero,
	}
}
