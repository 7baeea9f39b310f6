package movement

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// UseCase casos de uso del libro de movimientos: crear y editar borradores,
// consultar, publicar y anular. La máquina de estados vive en entity.Movement;
// aquí se orquesta contra catálogo y persistencia.
type UseCase struct {
	txRunner      TxRunner
	movRepo       repository.MovementRepository
	itemRepo      repository.ItemRepository
	warehouseRepo repository.WarehouseRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	movRepo repository.MovementRepository,
	itemRepo repository.ItemRepository,
	warehouseRepo repository.WarehouseRepository,
) *UseCase {
	return &UseCase{
		txRunner:      txRunner,
		movRepo:       movRepo,
		itemRepo:      itemRepo,
		warehouseRepo: warehouseRepo,
	}
}

// Create crea un movimiento en BORRADOR con sus líneas de detalle.
func (uc *UseCase) Create(userID string, in dto.CreateMovementRequest) (*dto.MovementResponse, error) {
	if !entity.ValidMovementType(in.Type) || !entity.ValidMovementSubtype(in.Subtype) {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	date := in.Date
	if date.IsZero() {
		date = now
	}
	m := &entity.Movement{
		ID:                  uuid.New().String(),
		Type:                in.Type,
		Subtype:             in.Subtype,
		Date:                date,
		OriginWarehouseID:   in.OriginWarehouseID,
		DestWarehouseID:     in.DestWarehouseID,
		ThirdPartyReference: in.ThirdPartyReference,
		ReferenceDocument:   in.ReferenceDocument,
		Observation:         in.Observation,
		State:               entity.MovementStateBorrador,
		CreatedBy:           userID,
		CreatedAt:           now,
	}
	if err := uc.validateWarehouses(m); err != nil {
		return nil, err
	}
	details, err := uc.buildDetails(m, in.Details)
	if err != nil {
		return nil, err
	}
	m.Details = details

	if err := uc.movRepo.Create(m); err != nil {
		return nil, err
	}
	return toMovementResponse(m), nil
}

// Update edita cabecera y/o líneas de un movimiento. Solo en BORRADOR:
// cualquier intento sobre PUBLICADO o ANULADO falla con CONFLICT.
func (uc *UseCase) Update(id string, in dto.UpdateMovementRequest) (*dto.MovementResponse, error) {
	m, err := uc.movRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	if !m.Editable() {
		return nil, domain.ErrConflict
	}

	if in.Date != nil {
		m.Date = *in.Date
	}
	if in.ThirdPartyReference != nil {
		m.ThirdPartyReference = *in.ThirdPartyReference
	}
	if in.ReferenceDocument != nil {
		m.ReferenceDocument = *in.ReferenceDocument
	}
	if in.Observation != nil {
		m.Observation = *in.Observation
	}
	if err := uc.movRepo.UpdateHeader(m); err != nil {
		return nil, err
	}

	if in.Details != nil {
		details, err := uc.buildDetails(m, in.Details)
		if err != nil {
			return nil, err
		}
		if err := uc.movRepo.ReplaceDetails(m.ID, details); err != nil {
			return nil, err
		}
		m.Details = details
	}
	return toMovementResponse(m), nil
}

// GetByID obtiene un movimiento con sus líneas.
func (uc *UseCase) GetByID(id string) (*dto.MovementResponse, error) {
	m, err := uc.movRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return toMovementResponse(m), nil
}

// List lista movimientos con filtros y paginación.
func (uc *UseCase) List(in dto.MovementListRequest) (*dto.MovementListResponse, error) {
	in.DefaultPage()
	filter := repository.MovementFilter{
		State:       in.State,
		Type:        in.Type,
		WarehouseID: in.WarehouseID,
		Limit:       in.Limit,
		Offset:      in.Offset,
	}
	var err error
	if filter.From, err = parseDate(in.From); err != nil {
		return nil, domain.ErrInvalidInput
	}
	if filter.To, err = parseDate(in.To); err != nil {
		return nil, domain.ErrInvalidInput
	}

	list, total, err := uc.movRepo.List(filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

// validateWarehouses verifica bodegas requeridas por tipo, activas y distintas
// entre sí en transferencias.
func (uc *UseCase) validateWarehouses(m *entity.Movement) error {
	if m.RequiresOrigin() {
		if m.OriginWarehouseID == "" {
			return domain.ErrInvalidInput
		}
		wh, err := uc.warehouseRepo.GetByID(m.OriginWarehouseID)
		if err != nil {
			return err
		}
		if wh == nil || !wh.Active {
			return domain.ErrWarehouseNotFound
		}
	}
	if m.RequiresDestination() {
		if m.DestWarehouseID == "" {
			return domain.ErrInvalidInput
		}
		wh, err := uc.warehouseRepo.GetByID(m.DestWarehouseID)
		if err != nil {
			return err
		}
		if wh == nil || !wh.Active {
			return domain.ErrWarehouseNotFound
		}
	}
	if m.Type == entity.MovementTypeTransferencia && m.OriginWarehouseID == m.DestWarehouseID {
		return domain.ErrInvalidInput
	}
	return nil
}

// buildDetails valida las líneas y las materializa con numeración estable.
// Cantidades deben ser > 0; el costo unitario es obligatorio y no negativo en
// entradas, y se deriva al publicar en salidas y transferencias.
func (uc *UseCase) buildDetails(m *entity.Movement, in []dto.MovementDetailRequest) ([]entity.MovementDetail, error) {
	details := make([]entity.MovementDetail, 0, len(in))
	for i, line := range in {
		if line.ItemID == "" {
			return nil, domain.ErrInvalidInput
		}
		if !line.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidQuantity
		}
		item, err := uc.itemRepo.GetByID(line.ItemID)
		if err != nil {
			return nil, err
		}
		if item == nil || !item.Active {
			return nil, domain.ErrItemNotFound
		}

		unitCost := decimal.Zero
		if m.Type == entity.MovementTypeEntrada {
			if line.UnitCost == nil {
				return nil, domain.ErrInvalidCost
			}
			if line.UnitCost.LessThan(decimal.Zero) {
				return nil, domain.ErrInvalidCost
			}
			unitCost = *line.UnitCost
		}
		details = append(details, entity.MovementDetail{
			ID:         uuid.New().String(),
			MovementID: m.ID,
			LineNumber: i + 1,
			ItemID:     line.ItemID,
			Quantity:   line.Quantity,
			UnitCost:   unitCost,
		})
	}
	return details, nil
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

func toMovementResponse(m *entity.Movement) *dto.MovementResponse {
	if m == nil {
		return nil
	}
	details := make([]dto.MovementDetailResponse, 0, len(m.Details))
	for _, d := range m.Details {
		details = append(details, dto.MovementDetailResponse{
			ID:         d.ID,
			LineNumber: d.LineNumber,
			ItemID:     d.ItemID,
			Quantity:   d.Quantity,
			UnitCost:   d.UnitCost,
		})
	}
	return &dto.MovementResponse{
		ID:                  m.ID,
		Type:                m.Type,
		Subtype:             m.Subtype,
		Date:                m.Date,
		OriginWarehouseID:   m.OriginWarehouseID,
		DestWarehouseID:     m.DestWarehouseID,
		ThirdPartyReference: m.ThirdPartyReference,
		ReferenceDocument:   m.ReferenceDocument,
		Observation:         m.Observation,
		State:               m.State,
		Details:             details,
		CreatedBy:           m.CreatedBy,
		CreatedAt:           m.CreatedAt,
		PublishedAt:         m.PublishedAt,
		VoidedAt:            m.VoidedAt,
	}
}
