package costing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// KardexRow es una fila derivada del kardex: el efecto de una línea de
// movimiento publicado sobre el par (artículo, bodega) y el saldo resultante
// inmediatamente después de aplicarla. Nunca se persiste.
type KardexRow struct {
	MovementID        string
	MovementType      string
	MovementSubtype   string
	Date              time.Time
	ReferenceDocument string
	EntryQuantity     decimal.Decimal
	EntryValue        decimal.Decimal
	ExitQuantity      decimal.Decimal
	ExitValue         decimal.Decimal
	Balance           decimal.Decimal
	AverageCost       decimal.Decimal
	BalanceValue      decimal.Decimal
}

// KardexSummary totales del kardex sobre la historia filtrada completa.
// Con rango de fechas cubriendo toda la historia y sin deriva, FinalBalance y
// AverageCost deben coincidir con la StockPosition del par; una diferencia es
// señal legítima de que hace falta recálculo, no un error.
type KardexSummary struct {
	TotalEntries   decimal.Decimal
	TotalExits     decimal.Decimal
	FinalBalance   decimal.Decimal
	FinalValuation decimal.Decimal
	AverageCost    decimal.Decimal
}

// BuildKardex reconstruye el kardex de un (artículo, bodega) replicando la
// historia publicada exactamente como lo haría el motor de costeo, pero
// emitiendo una fila por línea en vez de mutar almacenamiento. Los movimientos
// deben venir ya filtrados por par; aquí se ordenan cronológicamente y se
// ignoran los no publicados. Lectura pura: jamás toca StockPosition.
func BuildKardex(movements []*entity.Movement, itemID, warehouseID string, autoUpdateAvg bool) ([]KardexRow, KardexSummary, error) {
	SortMovements(movements)

	pos := ZeroPosition()
	rows := make([]KardexRow, 0, len(movements))
	summary := KardexSummary{
		TotalEntries:   decimal.Zero,
		TotalExits:     decimal.Zero,
		FinalBalance:   decimal.Zero,
		FinalValuation: decimal.Zero,
		AverageCost:    decimal.Zero,
	}

	for _, m := range movements {
		if m.State != entity.MovementStatePublicado {
			continue
		}
		for _, d := range m.Details {
			if d.ItemID != itemID {
				continue
			}
			row := KardexRow{
				MovementID:        m.ID,
				MovementType:      m.Type,
				MovementSubtype:   m.Subtype,
				Date:              m.Date,
				ReferenceDocument: m.ReferenceDocument,
				EntryQuantity:     decimal.Zero,
				EntryValue:        decimal.Zero,
				ExitQuantity:      decimal.Zero,
				ExitValue:         decimal.Zero,
			}

			entering := (m.Type == entity.MovementTypeEntrada || m.Type == entity.MovementTypeTransferencia) &&
				m.DestWarehouseID == warehouseID
			leaving := (m.Type == entity.MovementTypeSalida || m.Type == entity.MovementTypeTransferencia) &&
				m.OriginWarehouseID == warehouseID

			// Una transferencia con origen y destino en la misma bodega no es
			// representable (se valida al crear el movimiento).
			switch {
			case entering:
				next, err := ApplyEntrada(pos, d.Quantity, d.UnitCost, autoUpdateAvg)
				if err != nil {
					return nil, summary, err
				}
				row.EntryQuantity = d.Quantity
				row.EntryValue = d.Quantity.Mul(d.UnitCost).Round(CostPrecision)
				summary.TotalEntries = summary.TotalEntries.Add(d.Quantity)
				pos = next

			case leaving:
				// La salida se valora al promedio vigente antes de aplicarla.
				exitCost := pos.AverageCost
				next, err := ApplySalidaUnchecked(pos, d.Quantity)
				if err != nil {
					return nil, summary, err
				}
				row.ExitQuantity = d.Quantity
				row.ExitValue = d.Quantity.Mul(exitCost).Round(CostPrecision)
				summary.TotalExits = summary.TotalExits.Add(d.Quantity)
				pos = next

			default:
				continue // la línea no afecta esta bodega
			}

			row.Balance = pos.Quantity
			row.AverageCost = pos.AverageCost
			row.BalanceValue = pos.Quantity.Mul(pos.AverageCost).Round(CostPrecision)
			rows = append(rows, row)
		}
	}

	summary.FinalBalance = pos.Quantity
	summary.AverageCost = pos.AverageCost
	summary.FinalValuation = pos.Quantity.Mul(pos.AverageCost).Round(CostPrecision)
	return rows, summary, nil
}
