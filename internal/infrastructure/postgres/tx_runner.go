package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	appaudit "github.com/jhoicas/kardex-api/internal/application/audit"
	"github.com/jhoicas/kardex-api/internal/application/movement"
	"github.com/jhoicas/kardex-api/internal/application/recalc"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// El mismo runner satisface los puertos de publicación/anulación, recálculo y
// override (interfaces definidas en cada consumidor, firma idéntica).
var _ movement.TxRunner = (*TxRunner)(nil)
var _ recalc.TxRunner = (*TxRunner)(nil)
var _ appaudit.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Los bloqueos FOR UPDATE / FOR SHARE que tomen los repos
// viven hasta el cierre de la transacción.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockPositionRepository,
	auditRepo repository.AuditRepository,
	itemRepo repository.ItemRepository,
	warehouseRepo repository.WarehouseRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	movRepo := NewMovementRepository(tx)
	stockRepo := NewStockPositionRepository(tx)
	auditRepo := NewAuditRepository(tx)
	itemRepo := NewItemRepository(tx)
	warehouseRepo := NewWarehouseRepository(tx)

	if err := fn(movRepo, stockRepo, auditRepo, itemRepo, warehouseRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
