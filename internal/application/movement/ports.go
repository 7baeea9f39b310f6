package movement

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que publicar, anular, recalcular y
// el override manual sean todo-o-nada: ninguna mutación parcial de
// StockPosition ni AuditEntry es observable.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockPositionRepository,
		auditRepo repository.AuditRepository,
		itemRepo repository.ItemRepository,
		warehouseRepo repository.WarehouseRepository,
	) error) error
}
