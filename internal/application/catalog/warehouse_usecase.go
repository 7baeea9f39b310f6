package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// WarehouseUseCase casos de uso CRUD para bodegas.
type WarehouseUseCase struct {
	repo repository.WarehouseRepository
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(repo repository.WarehouseRepository) *WarehouseUseCase {
	return &WarehouseUseCase{repo: repo}
}

// Create crea una bodega activa. AutoUpdateAverageCost por defecto en true:
// el costo fijado es la excepción y se habilita explícitamente.
func (uc *WarehouseUseCase) Create(in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	if in.Code == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByCode(in.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	autoUpdate := true
	if in.AutoUpdateAverageCost != nil {
		autoUpdate = *in.AutoUpdateAverageCost
	}
	now := time.Now()
	wh := &entity.Warehouse{
		ID:                    uuid.New().String(),
		Code:                  in.Code,
		Name:                  in.Name,
		Location:              in.Location,
		Active:                true,
		AutoUpdateAverageCost: autoUpdate,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := uc.repo.Create(wh); err != nil {
		return nil, err
	}
	return toWarehouseResponse(wh), nil
}

// GetByID obtiene una bodega por ID.
func (uc *WarehouseUseCase) GetByID(id string) (*dto.WarehouseResponse, error) {
	wh, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, domain.ErrNotFound
	}
	return toWarehouseResponse(wh), nil
}

// Update actualiza una bodega. Cambiar AutoUpdateAverageCost no toca
// posiciones existentes: afecta solo entradas futuras.
func (uc *WarehouseUseCase) Update(id string, in dto.UpdateWarehouseRequest) (*dto.WarehouseResponse, error) {
	wh, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		wh.Name = *in.Name
	}
	if in.Location != nil {
		wh.Location = *in.Location
	}
	if in.Active != nil {
		wh.Active = *in.Active
	}
	if in.AutoUpdateAverageCost != nil {
		wh.AutoUpdateAverageCost = *in.AutoUpdateAverageCost
	}
	wh.UpdatedAt = time.Now()
	if err := uc.repo.Update(wh); err != nil {
		return nil, err
	}
	return toWarehouseResponse(wh), nil
}

// List lista bodegas con paginación.
func (uc *WarehouseUseCase) List(activeOnly bool, page dto.PageRequest) (*dto.WarehouseListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(activeOnly, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.WarehouseResponse, 0, len(list))
	for _, w := range list {
		items = append(items, *toWarehouseResponse(w))
	}
	return &dto.WarehouseListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

func toWarehouseResponse(w *entity.Warehouse) *dto.WarehouseResponse {
	if w == nil {
		return nil
	}
	return &dto.WarehouseResponse{
		ID:                    w.ID,
		Code:                  w.Code,
		Name:                  w.Name,
		Location:              w.Location,
		Active:                w.Active,
		AutoUpdateAverageCost: w.AutoUpdateAverageCost,
		CreatedAt:             w.CreatedAt,
		UpdatedAt:             w.UpdatedAt,
	}
}
