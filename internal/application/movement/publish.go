package movement

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/costing"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// Publish publica un movimiento: BORRADOR -> PUBLICADO. Toma bloqueo
// compartido sobre las bodegas afectadas (convive con otras publicaciones,
// excluye el recálculo), bloquea la cabecera y cada StockPosition tocada
// (SELECT FOR UPDATE) y aplica el motor de costeo línea a línea dentro de una
// sola transacción: ninguna aplicación parcial es observable.
func (uc *UseCase) Publish(ctx context.Context, id string) (*dto.MovementResponse, error) {
	var published *entity.Movement
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockPositionRepository,
		_ repository.AuditRepository,
		itemRepo repository.ItemRepository,
		warehouseRepo repository.WarehouseRepository,
	) error {
		m, err := movRepo.GetByIDForUpdate(id)
		if err != nil {
			return err
		}
		if m == nil {
			return domain.ErrNotFound
		}
		if !entity.CanTransition(m.State, entity.MovementStatePublicado) {
			return domain.ErrConflict
		}
		if len(m.Details) == 0 {
			return domain.ErrInvalidInput
		}

		origin, dest, err := lockWarehouses(warehouseRepo, m)
		if err != nil {
			return err
		}

		for i := range m.Details {
			d := &m.Details[i]
			switch m.Type {
			case entity.MovementTypeEntrada:
				if err := applyEntrada(stockRepo, itemRepo, m, d, dest); err != nil {
					return fmt.Errorf("línea %d artículo %s: %w", d.LineNumber, d.ItemID, err)
				}
			case entity.MovementTypeSalida:
				if err := applySalida(movRepo, stockRepo, m, d, origin); err != nil {
					return fmt.Errorf("línea %d artículo %s: %w", d.LineNumber, d.ItemID, err)
				}
			case entity.MovementTypeTransferencia:
				if err := applyTransferencia(movRepo, stockRepo, m, d, origin, dest); err != nil {
					return fmt.Errorf("línea %d artículo %s: %w", d.LineNumber, d.ItemID, err)
				}
			default:
				return domain.ErrInvalidInput
			}
		}

		now := time.Now()
		if err := m.Transition(entity.MovementStatePublicado); err != nil {
			return err
		}
		m.PublishedAt = &now
		if err := movRepo.SetState(m); err != nil {
			return err
		}
		published = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toMovementResponse(published), nil
}

// Void anula un movimiento publicado: PUBLICADO -> ANULADO (terminal).
// Aplica el efecto inverso sobre las cantidades; el costo promedio NO se
// restaura por inversión (tras anular una entrada el promedio puede requerir
// un recálculo para coincidir con el replay completo). La anulación no
// dispara recálculo automático: la deriva queda hasta la llamada explícita.
func (uc *UseCase) Void(ctx context.Context, id string) (*dto.MovementResponse, error) {
	var voided *entity.Movement
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockPositionRepository,
		_ repository.AuditRepository,
		_ repository.ItemRepository,
		warehouseRepo repository.WarehouseRepository,
	) error {
		m, err := movRepo.GetByIDForUpdate(id)
		if err != nil {
			return err
		}
		if m == nil {
			return domain.ErrNotFound
		}
		if !entity.CanTransition(m.State, entity.MovementStateAnulado) {
			return domain.ErrConflict
		}

		if _, _, err := lockWarehouses(warehouseRepo, m); err != nil {
			return err
		}

		for i := range m.Details {
			d := &m.Details[i]
			if err := revertLine(stockRepo, m, d); err != nil {
				return fmt.Errorf("línea %d artículo %s: %w", d.LineNumber, d.ItemID, err)
			}
		}

		now := time.Now()
		if err := m.Transition(entity.MovementStateAnulado); err != nil {
			return err
		}
		m.VoidedAt = &now
		if err := movRepo.SetState(m); err != nil {
			return err
		}
		voided = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toMovementResponse(voided), nil
}

// lockWarehouses toma bloqueo compartido sobre origen y/o destino según el
// tipo y verifica que sigan existiendo.
func lockWarehouses(warehouseRepo repository.WarehouseRepository, m *entity.Movement) (origin, dest *entity.Warehouse, err error) {
	if m.RequiresOrigin() {
		origin, err = warehouseRepo.GetForShare(m.OriginWarehouseID)
		if err != nil {
			return nil, nil, err
		}
		if origin == nil {
			return nil, nil, domain.ErrWarehouseNotFound
		}
	}
	if m.RequiresDestination() {
		dest, err = warehouseRepo.GetForShare(m.DestWarehouseID)
		if err != nil {
			return nil, nil, err
		}
		if dest == nil {
			return nil, nil, domain.ErrWarehouseNotFound
		}
	}
	return origin, dest, nil
}

// applyEntrada bloquea la posición destino, recalcula promedio y cantidad con
// el motor de costeo y sincroniza el promedio global informativo del artículo.
func applyEntrada(
	stockRepo repository.StockPositionRepository,
	itemRepo repository.ItemRepository,
	m *entity.Movement,
	d *entity.MovementDetail,
	dest *entity.Warehouse,
) error {
	pos, err := stockRepo.GetForUpdate(d.ItemID, m.DestWarehouseID)
	if err != nil {
		return err
	}
	next, err := costing.ApplyEntrada(position(pos), d.Quantity, d.UnitCost, dest.AutoUpdateAverageCost)
	if err != nil {
		return err
	}
	if err := upsertPosition(stockRepo, pos, next); err != nil {
		return err
	}
	if dest.AutoUpdateAverageCost {
		// Promedio global del artículo: informativo, no autoritativo.
		if err := itemRepo.UpdateAverageCost(d.ItemID, next.AverageCost); err != nil {
			return err
		}
	}
	return nil
}

// applySalida bloquea la posición origen, exige disponibilidad y deriva el
// costo de la línea del promedio vigente antes de la salida.
func applySalida(
	movRepo repository.MovementRepository,
	stockRepo repository.StockPositionRepository,
	m *entity.Movement,
	d *entity.MovementDetail,
	_ *entity.Warehouse,
) error {
	pos, err := stockRepo.GetForUpdate(d.ItemID, m.OriginWarehouseID)
	if err != nil {
		return err
	}
	exitCost := pos.AverageCost
	next, err := costing.ApplySalida(position(pos), d.Quantity)
	if err != nil {
		return err
	}
	if err := upsertPosition(stockRepo, pos, next); err != nil {
		return err
	}
	d.UnitCost = exitCost
	return movRepo.UpdateDetailCost(d.ID, exitCost)
}

// applyTransferencia: salida en origen (promedio intacto) seguida de entrada
// en destino valorada al promedio del origen al momento de la transferencia.
// Las posiciones se bloquean en orden estable de clave para evitar
// interbloqueos entre transferencias cruzadas.
func applyTransferencia(
	movRepo repository.MovementRepository,
	stockRepo repository.StockPositionRepository,
	m *entity.Movement,
	d *entity.MovementDetail,
	_ *entity.Warehouse,
	dest *entity.Warehouse,
) error {
	first, second := m.OriginWarehouseID, m.DestWarehouseID
	if second < first {
		first, second = second, first
	}
	if _, err := stockRepo.GetForUpdate(d.ItemID, first); err != nil {
		return err
	}
	if _, err := stockRepo.GetForUpdate(d.ItemID, second); err != nil {
		return err
	}

	originPos, err := stockRepo.Get(d.ItemID, m.OriginWarehouseID)
	if err != nil {
		return err
	}
	transferCost := originPos.AverageCost
	nextOrigin, err := costing.ApplySalida(position(originPos), d.Quantity)
	if err != nil {
		return err
	}
	if err := upsertPosition(stockRepo, originPos, nextOrigin); err != nil {
		return err
	}

	destPos, err := stockRepo.Get(d.ItemID, m.DestWarehouseID)
	if err != nil {
		return err
	}
	nextDest, err := costing.ApplyEntrada(position(destPos), d.Quantity, transferCost, dest.AutoUpdateAverageCost)
	if err != nil {
		return err
	}
	if err := upsertPosition(stockRepo, destPos, nextDest); err != nil {
		return err
	}

	d.UnitCost = transferCost
	return movRepo.UpdateDetailCost(d.ID, transferCost)
}

// revertLine aplica el efecto inverso de una línea publicada. Garantiza
// corrección de cantidades; el promedio queda como está.
func revertLine(
	stockRepo repository.StockPositionRepository,
	m *entity.Movement,
	d *entity.MovementDetail,
) error {
	switch m.Type {
	case entity.MovementTypeEntrada:
		// Retira lo que la entrada agregó; no puede dejar la posición negativa.
		pos, err := stockRepo.GetForUpdate(d.ItemID, m.DestWarehouseID)
		if err != nil {
			return err
		}
		next, err := costing.ApplySalida(position(pos), d.Quantity)
		if err != nil {
			return err
		}
		return upsertPosition(stockRepo, pos, next)

	case entity.MovementTypeSalida:
		// Restaura la cantidad retirada; el promedio no se toca.
		pos, err := stockRepo.GetForUpdate(d.ItemID, m.OriginWarehouseID)
		if err != nil {
			return err
		}
		next, err := costing.ApplyEntrada(position(pos), d.Quantity, pos.AverageCost, false)
		if err != nil {
			return err
		}
		return upsertPosition(stockRepo, pos, next)

	case entity.MovementTypeTransferencia:
		destPos, err := stockRepo.GetForUpdate(d.ItemID, m.DestWarehouseID)
		if err != nil {
			return err
		}
		nextDest, err := costing.ApplySalida(position(destPos), d.Quantity)
		if err != nil {
			return err
		}
		if err := upsertPosition(stockRepo, destPos, nextDest); err != nil {
			return err
		}
		originPos, err := stockRepo.GetForUpdate(d.ItemID, m.OriginWarehouseID)
		if err != nil {
			return err
		}
		nextOrigin, err := costing.ApplyEntrada(position(originPos), d.Quantity, originPos.AverageCost, false)
		if err != nil {
			return err
		}
		return upsertPosition(stockRepo, originPos, nextOrigin)
	}
	return domain.ErrInvalidInput
}

// position proyecta la entidad persistida al valor que consume el motor.
func position(p *entity.StockPosition) costing.Position {
	return costing.Position{Quantity: p.Quantity, AverageCost: p.AverageCost}
}

// upsertPosition escribe el resultado del motor sobre la fila bloqueada.
func upsertPosition(stockRepo repository.StockPositionRepository, p *entity.StockPosition, next costing.Position) error {
	p.Quantity = next.Quantity
	p.AverageCost = next.AverageCost
	p.UpdatedAt = time.Now()
	return stockRepo.Upsert(p)
}
