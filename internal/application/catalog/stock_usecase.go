package catalog

import (
	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// StockUseCase consulta de posiciones de stock (solo lectura; la escritura es
// exclusiva del motor de costeo y del recálculo).
type StockUseCase struct {
	repo repository.StockPositionRepository
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(repo repository.StockPositionRepository) *StockUseCase {
	return &StockUseCase{repo: repo}
}

// List lista posiciones, opcionalmente filtradas por bodega y por posiciones
// bajo el umbral mínimo (lista de reposición).
func (uc *StockUseCase) List(in dto.StockListRequest) (*dto.StockListResponse, error) {
	in.DefaultPage()
	list, err := uc.repo.List(in.WarehouseID, in.LowStock, in.Limit, in.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockPositionResponse, 0, len(list))
	for _, p := range list {
		items = append(items, toStockResponse(p))
	}
	return &dto.StockListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

func toStockResponse(p *entity.StockPosition) dto.StockPositionResponse {
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
