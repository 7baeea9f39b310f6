// Package kardex implementa la consulta del kardex: reconstrucción pura y de
// solo lectura del libro de un (artículo, bodega) con saldo y costo corrientes.
package kardex

import (
	"context"
	"time"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/costing"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// UseCase motor de consulta del kardex. No muta estado: nunca toca
// StockPosition ni adquiere bloqueos.
type UseCase struct {
	movRepo       repository.MovementRepository
	itemRepo      repository.ItemRepository
	warehouseRepo repository.WarehouseRepository
	pdfGen        PDFGenerator
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	movRepo repository.MovementRepository,
	itemRepo repository.ItemRepository,
	warehouseRepo repository.WarehouseRepository,
	pdfGen PDFGenerator,
) *UseCase {
	return &UseCase{movRepo: movRepo, itemRepo: itemRepo, warehouseRepo: warehouseRepo, pdfGen: pdfGen}
}

// Query reconstruye el kardex del par con rango de fechas y filtro de tipo
// opcionales. Los totales del resumen se calculan sobre la historia filtrada
// completa ANTES de paginar; paginar primero corrompería los saldos corridos.
// Si el resumen no coincide con StockPosition en una consulta de historia
// completa, es señal de deriva que pide recálculo, no un error.
func (uc *UseCase) Query(in dto.KardexRequest) (*dto.KardexResponse, error) {
	in.DefaultPage()
	_, _, rows, summary, err := uc.build(in)
	if err != nil {
		return nil, err
	}

	total := len(rows)
	paged := paginate(rows, in.Offset, in.Limit)
	out := &dto.KardexResponse{
		ItemID:      in.ItemID,
		WarehouseID: in.WarehouseID,
		Rows:        make([]dto.KardexRowResponse, 0, len(paged)),
		Summary: dto.KardexSummaryResponse{
			TotalEntries:   summary.TotalEntries,
			TotalExits:     summary.TotalExits,
			FinalBalance:   summary.FinalBalance,
			FinalValuation: summary.FinalValuation,
			AverageCost:    summary.AverageCost,
		},
		Page: dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}
	for _, r := range paged {
		out.Rows = append(out.Rows, dto.KardexRowResponse{
			MovementID:        r.MovementID,
			MovementType:      r.MovementType,
			MovementSubtype:   r.MovementSubtype,
			Date:              r.Date,
			ReferenceDocument: r.ReferenceDocument,
			EntryQuantity:     r.EntryQuantity,
			EntryValue:        r.EntryValue,
			ExitQuantity:      r.ExitQuantity,
			ExitValue:         r.ExitValue,
			Balance:           r.Balance,
			AverageCost:       r.AverageCost,
			BalanceValue:      r.BalanceValue,
		})
	}
	return out, nil
}

// ExportPDF genera el reporte kardex del par como documento PDF. Siempre
// sobre la historia filtrada completa, sin paginar.
func (uc *UseCase) ExportPDF(ctx context.Context, in dto.KardexRequest) ([]byte, error) {
	item, wh, rows, summary, err := uc.build(in)
	if err != nil {
		return nil, err
	}
	return uc.pdfGen.GenerateKardexPDF(ctx, item, wh, rows, summary)
}

// build valida la petición, carga el par y reconstruye las filas del kardex.
func (uc *UseCase) build(in dto.KardexRequest) (*entity.Item, *entity.Warehouse, []costing.KardexRow, costing.KardexSummary, error) {
	var zero costing.KardexSummary
	if in.ItemID == "" || in.WarehouseID == "" {
		return nil, nil, nil, zero, domain.ErrInvalidInput
	}
	if in.Type != "" && !entity.ValidMovementType(in.Type) {
		return nil, nil, nil, zero, domain.ErrInvalidInput
	}

	item, err := uc.itemRepo.GetByID(in.ItemID)
	if err != nil {
		return nil, nil, nil, zero, err
	}
	if item == nil {
		return nil, nil, nil, zero, domain.ErrItemNotFound
	}
	wh, err := uc.warehouseRepo.GetByID(in.WarehouseID)
	if err != nil {
		return nil, nil, nil, zero, err
	}
	if wh == nil {
		return nil, nil, nil, zero, domain.ErrWarehouseNotFound
	}

	filter := repository.KardexFilter{
		ItemID:      in.ItemID,
		WarehouseID: in.WarehouseID,
		Type:        in.Type,
	}
	if filter.From, err = parseDate(in.From); err != nil {
		return nil, nil, nil, zero, domain.ErrInvalidInput
	}
	if filter.To, err = parseDate(in.To); err != nil {
		return nil, nil, nil, zero, domain.ErrInvalidInput
	}

	movements, err := uc.movRepo.ListForKardex(filter)
	if err != nil {
		return nil, nil, nil, zero, err
	}

	rows, summary, err := costing.BuildKardex(movements, in.ItemID, in.WarehouseID, wh.AutoUpdateAverageCost)
	if err != nil {
		return nil, nil, nil, zero, err
	}
	return item, wh, rows, summary, nil
}

// paginate corta la secuencia de filas ya replicada; el resumen no se ve
// afectado por el corte.
func paginate(rows []costing.KardexRow, offset, limit int) []costing.KardexRow {
	if offset >= len(rows) {
		return nil
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
