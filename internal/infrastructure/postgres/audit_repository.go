package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo implementación de AuditRepository sobre PostgreSQL. La tabla es
// append-only: solo INSERT y SELECT.
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// Create inserta una entrada de auditoría.
func (r *AuditRepo) Create(entry *entity.AuditEntry) error {
	query := `
		INSERT INTO audit_entries (id, created_at, user_id, movement_id, item_id, warehouse_id,
			previous_cost, new_cost, previous_quantity, new_quantity, cost_difference, reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.CreatedAt, entry.UserID, entry.MovementID,
		entry.ItemID, entry.WarehouseID,
		entry.PreviousCost, entry.NewCost, entry.PreviousQuantity, entry.NewQuantity,
		entry.CostDifference, entry.Reason,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// List lista entradas de auditoría con filtros y total para paginar, de la
// más reciente a la más antigua.
func (r *AuditRepo) List(filter repository.AuditFilter) ([]*entity.AuditEntry, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	pos := 1
	if filter.ItemID != "" {
		where += fmt.Sprintf(" AND item_id = $%d", pos)
		args = append(args, filter.ItemID)
		pos++
	}
	if filter.WarehouseID != "" {
		where += fmt.Sprintf(" AND warehouse_id = $%d", pos)
		args = append(args, filter.WarehouseID)
		pos++
	}

	var total int
	err := r.q.QueryRow(context.Background(), "SELECT COUNT(*) FROM audit_entries"+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count audit entries: %w", err)
	}

	query := `
		SELECT id, created_at, user_id, movement_id, item_id, warehouse_id,
			previous_cost, new_cost, previous_quantity, new_quantity, cost_difference, reason
		FROM audit_entries` + where +
		fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()
	var list []*entity.AuditEntry
	for rows.Next() {
		var e entity.AuditEntry
		err := rows.Scan(&e.ID, &e.CreatedAt, &e.UserID, &e.MovementID, &e.ItemID, &e.WarehouseID,
			&e.PreviousCost, &e.NewCost, &e.PreviousQuantity, &e.NewQuantity, &e.CostDifference, &e.Reason)
		if err != nil {
			return nil, 0, fmt.Errorf("scan audit entry: %w", err)
		}
		list = append(list, &e)
	}
	return list, total, rows.Err()
}
