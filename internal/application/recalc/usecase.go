// Package recalc implementa el servicio de recálculo de costos: reconstruye
// StockPosition de una bodega (o de todas) descartando las posiciones actuales
// y reproduciendo la historia PUBLICADO desde cero a través del motor de
// costeo. Es la ruta autoritativa de reconciliación: anular un movimiento no
// siempre restaura el promedio previo, y las bodegas con costo fijado derivan
// de lo que la historia implica.
package recalc

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/costing"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// TxRunner ejecuta el recálculo de una bodega dentro de una transacción:
// completa-o-revierte por bodega, nunca posiciones parcialmente reconstruidas.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockPositionRepository,
		auditRepo repository.AuditRepository,
		itemRepo repository.ItemRepository,
		warehouseRepo repository.WarehouseRepository,
	) error) error
}

// UseCase servicio de recálculo de costos.
type UseCase struct {
	txRunner      TxRunner
	warehouseRepo repository.WarehouseRepository
	log           zerolog.Logger
}

// NewUseCase construye el servicio.
func NewUseCase(txRunner TxRunner, warehouseRepo repository.WarehouseRepository, log zerolog.Logger) *UseCase {
	return &UseCase{txRunner: txRunner, warehouseRepo: warehouseRepo, log: log}
}

// Recalculate reconstruye las posiciones de la bodega indicada; con
// warehouseID vacío recalcula todas las bodegas, una transacción por bodega.
// Idempotente: una segunda ejecución sin movimientos intermedios produce las
// mismas posiciones y cero entradas de auditoría. userID atribuye las
// correcciones en el audit trail.
func (uc *UseCase) Recalculate(ctx context.Context, userID, warehouseID string) (*dto.RecalculateResponse, error) {
	var targets []string
	if warehouseID != "" {
		wh, err := uc.warehouseRepo.GetByID(warehouseID)
		if err != nil {
			return nil, err
		}
		if wh == nil {
			return nil, domain.ErrWarehouseNotFound
		}
		targets = []string{warehouseID}
	} else {
		all, err := uc.warehouseRepo.List(false, 0, 0)
		if err != nil {
			return nil, err
		}
		for _, wh := range all {
			targets = append(targets, wh.ID)
		}
	}

	out := &dto.RecalculateResponse{Warehouses: targets}
	for _, whID := range targets {
		result, err := uc.recalculateWarehouse(ctx, userID, whID)
		if err != nil {
			return nil, err
		}
		out.Positions = append(out.Positions, result.positions...)
		out.AuditEntries += result.auditEntries
		out.MovementsApplied += result.movementsApplied
	}
	return out, nil
}

type warehouseResult struct {
	positions        []dto.StockPositionResponse
	auditEntries     int
	movementsApplied int
}

// recalculateWarehouse ejecuta el replay-desde-cero de una bodega dentro de
// una transacción con acceso exclusivo: bloquea la fila de la bodega (excluye
// publish/void concurrentes) y todas sus posiciones antes de leer la
// pre-imagen. Si algo falla, las posiciones previamente confirmadas quedan
// intactas; la operación se reintenta completa, nunca se reanuda parcial.
func (uc *UseCase) recalculateWarehouse(ctx context.Context, userID, warehouseID string) (*warehouseResult, error) {
	result := &warehouseResult{}
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockPositionRepository,
		auditRepo repository.AuditRepository,
		_ repository.ItemRepository,
		warehouseRepo repository.WarehouseRepository,
	) error {
		wh, err := warehouseRepo.GetForUpdate(warehouseID)
		if err != nil {
			return err
		}
		if wh == nil {
			return domain.ErrWarehouseNotFound
		}
		before, err := stockRepo.LockByWarehouse(warehouseID)
		if err != nil {
			return err
		}

		movements, err := movRepo.ListPublishedByWarehouse(warehouseID)
		if err != nil {
			return err
		}

		flags, err := autoUpdateFlags(warehouseRepo, warehouseID, movements)
		if err != nil {
			return err
		}
		rebuilt, err := costing.Replay(movements, flags)
		if err != nil {
			return err
		}
		result.movementsApplied = len(movements)

		// Pre-imagen indexada para el cálculo de diferencias.
		preimage := make(map[costing.PositionKey]*entity.StockPosition, len(before))
		for _, p := range before {
			preimage[costing.PositionKey{ItemID: p.ItemID, WarehouseID: p.WarehouseID}] = p
		}

		// Swap atómico: descartar y escribir el conjunto reconstruido. Solo
		// las claves de esta bodega; el replay también proyecta el lado
		// remoto de las transferencias y ese lado pertenece a otra pasada.
		if err := stockRepo.DeleteByWarehouse(warehouseID); err != nil {
			return err
		}

		now := time.Now()
		keys := make([]costing.PositionKey, 0, len(rebuilt))
		for k := range rebuilt {
			if k.WarehouseID == warehouseID {
				keys = append(keys, k)
			}
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i].ItemID < keys[j].ItemID })

		for _, k := range keys {
			pos := rebuilt[k]
			newPos := &entity.StockPosition{
				ItemID:      k.ItemID,
				WarehouseID: k.WarehouseID,
				Quantity:    pos.Quantity,
				AverageCost: pos.AverageCost,
				UpdatedAt:   now,
			}
			if old := preimage[k]; old != nil {
				// Los umbrales min/max sobreviven a la reconstrucción.
				newPos.MinStock = old.MinStock
				newPos.MaxStock = old.MaxStock
			}
			if err := stockRepo.Upsert(newPos); err != nil {
				return err
			}
			result.positions = append(result.positions, toPositionResponse(newPos))

			wrote, err := uc.auditDiff(auditRepo, userID, preimage[k], newPos, now)
			if err != nil {
				return err
			}
			if wrote {
				result.auditEntries++
			}
			delete(preimage, k)
		}

		// Pares presentes antes y ausentes tras el replay: quedaron en cero.
		for k, old := range preimage {
			zeroed := &entity.StockPosition{ItemID: k.ItemID, WarehouseID: k.WarehouseID, UpdatedAt: now}
			wrote, err := uc.auditDiff(auditRepo, userID, old, zeroed, now)
			if err != nil {
				return err
			}
			if wrote {
				result.auditEntries++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("warehouse_id", warehouseID).
		Int("movements", result.movementsApplied).
		Int("audit_entries", result.auditEntries).
		Msg("recálculo de costos completado")
	return result, nil
}

// auditDiff escribe exactamente una entrada de auditoría si el resultado del
// replay difiere del valor previo al recálculo; devuelve si escribió.
func (uc *UseCase) auditDiff(
	auditRepo repository.AuditRepository,
	userID string,
	old, rebuilt *entity.StockPosition,
	now time.Time,
) (bool, error) {
	prevQty, prevCost := decimal.Zero, decimal.Zero
	if old != nil {
		prevQty, prevCost = old.Quantity, old.AverageCost
	}
	if prevQty.Equal(rebuilt.Quantity) && prevCost.Equal(rebuilt.AverageCost) {
		return false, nil
	}
	entry := &entity.AuditEntry{
		ID:               uuid.New().String(),
		CreatedAt:        now,
		UserID:           userID,
		ItemID:           rebuilt.ItemID,
		WarehouseID:      rebuilt.WarehouseID,
		PreviousCost:     prevCost,
		NewCost:          rebuilt.AverageCost,
		PreviousQuantity: prevQty,
		NewQuantity:      rebuilt.Quantity,
		CostDifference:   rebuilt.AverageCost.Sub(prevCost),
		Reason:           entity.AuditReasonRecalculation,
	}
	if err := auditRepo.Create(entry); err != nil {
		return false, err
	}
	return true, nil
}

// autoUpdateFlags resuelve el flag de promedio automático de cada bodega
// mencionada por la historia (las transferencias proyectan el lado remoto).
func autoUpdateFlags(
	warehouseRepo repository.WarehouseRepository,
	warehouseID string,
	movements []*entity.Movement,
) (map[string]bool, error) {
	ids := map[string]struct{}{warehouseID: {}}
	for _, m := range movements {
		if m.OriginWarehouseID != "" {
			ids[m.OriginWarehouseID] = struct{}{}
		}
		if m.DestWarehouseID != "" {
			ids[m.DestWarehouseID] = struct{}{}
		}
	}
	flags := make(map[string]bool, len(ids))
	for id := range ids {
		wh, err := warehouseRepo.GetByID(id)
		if err != nil {
			return nil, err
		}
		if wh == nil {
			return nil, domain.ErrWarehouseNotFound
		}
		flags[id] = wh.AutoUpdateAverageCost
	}
	return flags, nil
}

func toPositionResponse(p *entity.StockPosition) dto.StockPositionResponse {
	return dto.StockPositionResponse{
		ItemID:      p.ItemID,
		WarehouseID: p.WarehouseID,
		Quantity:    p.Quantity,
		AverageCost: p.AverageCost,
		Valuation:   p.Valuation(),
		MinStock:    p.MinStock,
		MaxStock:    p.MaxStock,
		BelowMin:    p.BelowMin(),
		UpdatedAt:   p.UpdatedAt,
	}
}
