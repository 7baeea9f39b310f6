package repository

import "github.com/jhoicas/kardex-api/internal/domain/entity"

// AuditFilter filtros del listado del audit trail.
type AuditFilter struct {
	ItemID      string
	WarehouseID string
	Limit       int
	Offset      int
}

// AuditRepository define el puerto del registro de correcciones de
// costo/cantidad. Append-only: no hay Update ni Delete.
type AuditRepository interface {
	Create(entry *entity.AuditEntry) error
	List(filter AuditFilter) ([]*entity.AuditEntry, int, error)
}
