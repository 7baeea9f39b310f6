// Package audit implementa el audit trail de correcciones de costo/cantidad y
// el override manual de costo. El registro es append-only y forma el soporte
// de cumplimiento; el motor de costeo nunca lo consulta (dependencia de una
// sola vía).
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// TxRunner transacción para el override manual: cambio de posición + entrada
// de auditoría, todo-o-nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockPositionRepository,
		auditRepo repository.AuditRepository,
		itemRepo repository.ItemRepository,
		warehouseRepo repository.WarehouseRepository,
	) error) error
}

// UseCase audit trail + override manual de costo.
type UseCase struct {
	txRunner  TxRunner
	auditRepo repository.AuditRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner TxRunner, auditRepo repository.AuditRepository) *UseCase {
	return &UseCase{txRunner: txRunner, auditRepo: auditRepo}
}

// List consulta el audit trail con filtros opcionales por artículo y bodega.
func (uc *UseCase) List(in dto.AuditListRequest) (*dto.AuditListResponse, error) {
	in.DefaultPage()
	entries, total, err := uc.auditRepo.List(repository.AuditFilter{
		ItemID:      in.ItemID,
		WarehouseID: in.WarehouseID,
		Limit:       in.Limit,
		Offset:      in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, dto.AuditEntryResponse{
			ID:               e.ID,
			CreatedAt:        e.CreatedAt,
			UserID:           e.UserID,
			MovementID:       e.MovementID,
			ItemID:           e.ItemID,
			WarehouseID:      e.WarehouseID,
			PreviousCost:     e.PreviousCost,
			NewCost:          e.NewCost,
			PreviousQuantity: e.PreviousQuantity,
			NewQuantity:      e.NewQuantity,
			CostDifference:   e.CostDifference,
			Reason:           e.Reason,
		})
	}
	return &dto.AuditListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

// OverrideCost fija manualmente el costo promedio de una posición (pensado
// para bodegas con costo fijado, donde la deriva es esperada). Bloquea la
// fila, escribe el nuevo costo y registra exactamente una entrada de
// auditoría con el antes/después, en una sola transacción.
func (uc *UseCase) OverrideCost(ctx context.Context, userID string, in dto.OverrideCostRequest) (*dto.AuditEntryResponse, error) {
	if in.ItemID == "" || in.WarehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.NewCost.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidCost
	}

	var out *dto.AuditEntryResponse
	err := uc.txRunner.Run(ctx, func(
		_ repository.MovementRepository,
		stockRepo repository.StockPositionRepository,
		auditRepo repository.AuditRepository,
		itemRepo repository.ItemRepository,
		warehouseRepo repository.WarehouseRepository,
	) error {
		item, err := itemRepo.GetByID(in.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrItemNotFound
		}
		wh, err := warehouseRepo.GetForShare(in.WarehouseID)
		if err != nil {
			return err
		}
		if wh == nil {
			return domain.ErrWarehouseNotFound
		}

		pos, err := stockRepo.GetForUpdate(in.ItemID, in.WarehouseID)
		if err != nil {
			return err
		}
		now := time.Now()
		entry := &entity.AuditEntry{
			ID:               uuid.New().String(),
			CreatedAt:        now,
			UserID:           userID,
			ItemID:           in.ItemID,
			WarehouseID:      in.WarehouseID,
			PreviousCost:     pos.AverageCost,
			NewCost:          in.NewCost,
			PreviousQuantity: pos.Quantity,
			NewQuantity:      pos.Quantity,
			CostDifference:   in.NewCost.Sub(pos.AverageCost),
			Reason:           entity.AuditReasonOverride,
		}

		pos.AverageCost = in.NewCost
		pos.UpdatedAt = now
		if err := stockRepo.Upsert(pos); err != nil {
			return err
		}
		if err := auditRepo.Create(entry); err != nil {
			return err
		}

		out = &dto.AuditEntryResponse{
			ID:               entry.ID,
			CreatedAt:        entry.CreatedAt,
			UserID:           entry.UserID,
			ItemID:           entry.ItemID,
			WarehouseID:      entry.WarehouseID,
			PreviousCost:     entry.PreviousCost,
			NewCost:          entry.NewCost,
			PreviousQuantity: entry.PreviousQuantity,
			NewQuantity:      entry.NewQuantity,
			CostDifference:   entry.CostDifference,
			Reason:           entry.Reason,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
