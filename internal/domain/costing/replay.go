package costing

import (
	"fmt"
	"sort"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// PositionKey identifica una posición de stock (artículo x bodega).
type PositionKey struct {
	ItemID      string
	WarehouseID string
}

// SortMovements ordena movimientos cronológicamente: por fecha del movimiento
// y, a igual fecha, por orden estable de inserción (created_at, luego id).
func SortMovements(movements []*entity.Movement) {
	sort.SliceStable(movements, func(i, j int) bool {
		a, b := movements[i], movements[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

// Replay reconstruye posiciones de stock desde cero aplicando cada movimiento
// PUBLICADO en orden cronológico a través del motor de costeo. Los movimientos
// ANULADO y BORRADOR se ignoran por completo (como si nunca hubieran existido).
// autoUpdateAvg indica, por bodega, si las entradas recalculan el promedio.
// Función pura: no toca persistencia; el servicio de recálculo es un adaptador
// delgado alrededor de este cómputo.
func Replay(movements []*entity.Movement, autoUpdateAvg map[string]bool) (map[PositionKey]Position, error) {
	SortMovements(movements)

	positions := make(map[PositionKey]Position)
	get := func(k PositionKey) Position {
		if p, ok := positions[k]; ok {
			return p
		}
		return ZeroPosition()
	}

	for _, m := range movements {
		if m.State != entity.MovementStatePublicado {
			continue
		}
		for _, d := range m.Details {
			switch m.Type {
			case entity.MovementTypeEntrada:
				k := PositionKey{ItemID: d.ItemID, WarehouseID: m.DestWarehouseID}
				next, err := ApplyEntrada(get(k), d.Quantity, d.UnitCost, autoUpdateAvg[m.DestWarehouseID])
				if err != nil {
					return nil, fmt.Errorf("replay movimiento %s línea %d: %w", m.ID, d.LineNumber, err)
				}
				positions[k] = next

			case entity.MovementTypeSalida:
				k := PositionKey{ItemID: d.ItemID, WarehouseID: m.OriginWarehouseID}
				next, err := ApplySalidaUnchecked(get(k), d.Quantity)
				if err != nil {
					return nil, fmt.Errorf("replay movimiento %s línea %d: %w", m.ID, d.LineNumber, err)
				}
				positions[k] = next

			case entity.MovementTypeTransferencia:
				// Salida en origen (promedio intacto) y entrada en destino
				// valorada al costo registrado en la línea: el promedio del
				// origen al momento de la transferencia.
				ko := PositionKey{ItemID: d.ItemID, WarehouseID: m.OriginWarehouseID}
				next, err := ApplySalidaUnchecked(get(ko), d.Quantity)
				if err != nil {
					return nil, fmt.Errorf("replay movimiento %s línea %d: %w", m.ID, d.LineNumber, err)
				}
				positions[ko] = next

				kd := PositionKey{ItemID: d.ItemID, WarehouseID: m.DestWarehouseID}
				next, err = ApplyEntrada(get(kd), d.Quantity, d.UnitCost, autoUpdateAvg[m.DestWarehouseID])
				if err != nil {
					return nil, fmt.Errorf("replay movimiento %s línea %d: %w", m.ID, d.LineNumber, err)
				}
				positions[kd] = next

			default:
				return nil, fmt.Errorf("replay movimiento %s: tipo desconocido %q", m.ID, m.Type)
			}
		}
	}
	return positions, nil
}
