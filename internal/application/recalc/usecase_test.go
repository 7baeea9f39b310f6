package recalc_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/recalc"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

const (
	itemA       = "item-a"
	itemB       = "item-b"
	bodegaUno   = "bodega-1"
	bodegaDos   = "bodega-2"
	userAdmin   = "user-admin"
	costoCompra = "5.00"
)

var baseDate = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ──────────────────────────────────────────────────────────────────────────────
// Dobles en memoria: el recálculo lee historia publicada, descarta posiciones
// y escribe el conjunto reconstruido; el almacén compartido captura todo eso.
// ──────────────────────────────────────────────────────────────────────────────

type posKey struct{ itemID, warehouseID string }

type memStore struct {
	movements  []*entity.Movement
	positions  map[posKey]*entity.StockPosition
	warehouses map[string]*entity.Warehouse
	audits     []*entity.AuditEntry
}

func newMemStore() *memStore {
	return &memStore{
		positions:  make(map[posKey]*entity.StockPosition),
		warehouses: make(map[string]*entity.Warehouse),
	}
}

type memTxRunner struct{ s *memStore }

func (r *memTxRunner) Run(_ context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockPositionRepository,
	auditRepo repository.AuditRepository,
	itemRepo repository.ItemRepository,
	warehouseRepo repository.WarehouseRepository,
) error) error {
	return fn(
		&memMovementRepo{s: r.s},
		&memStockRepo{s: r.s},
		&memAuditRepo{s: r.s},
		nil, // el recálculo no consulta el catálogo de artículos
		&memWarehouseRepo{s: r.s},
	)
}

type memMovementRepo struct{ s *memStore }

func (r *memMovementRepo) Create(*entity.Movement) error { return nil }

func (r *memMovementRepo) GetByID(string) (*entity.Movement, error) { return nil, nil }

func (r *memMovementRepo) GetByIDForUpdate(string) (*entity.Movement, error) { return nil, nil }

func (r *memMovementRepo) UpdateHeader(*entity.Movement) error { return nil }

func (r *memMovementRepo) ReplaceDetails(string, []entity.MovementDetail) error { return nil }

func (r *memMovementRepo) UpdateDetailCost(string, decimal.Decimal) error { return nil }

func (r *memMovementRepo) SetState(*entity.Movement) error { return nil }

func (r *memMovementRepo) List(repository.MovementFilter) ([]*entity.Movement, int, error) {
	return nil, 0, nil
}

func (r *memMovementRepo) ListPublishedByWarehouse(warehouseID string) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, m := range r.s.movements {
		if m.State != entity.MovementStatePublicado {
			continue
		}
		if m.OriginWarehouseID == warehouseID || m.DestWarehouseID == warehouseID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memMovementRepo) ListForKardex(repository.KardexFilter) ([]*entity.Movement, error) {
	return nil, nil
}

type memStockRepo struct{ s *memStore }

func (r *memStockRepo) Get(itemID, warehouseID string) (*entity.StockPosition, error) {
	if p, ok := r.s.positions[posKey{itemID, warehouseID}]; ok {
		cp := *p
		return &cp, nil
	}
	return &entity.StockPosition{
		ItemID: itemID, WarehouseID: warehouseID,
		Quantity: decimal.Zero, AverageCost: decimal.Zero,
	}, nil
}

func (r *memStockRepo) GetForUpdate(itemID, warehouseID string) (*entity.StockPosition, error) {
	return r.Get(itemID, warehouseID)
}

func (r *memStockRepo) Upsert(p *entity.StockPosition) error {
	cp := *p
	r.s.positions[posKey{p.ItemID, p.WarehouseID}] = &cp
	return nil
}

func (r *memStockRepo) List(warehouseID string, _ bool, _, _ int) ([]*entity.StockPosition, error) {
	var out []*entity.StockPosition
	for _, p := range r.s.positions {
		if warehouseID != "" && p.WarehouseID != warehouseID {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out, nil
}

func (r *memStockRepo) ListByWarehouse(warehouseID string) ([]*entity.StockPosition, error) {
	return r.List(warehouseID, false, 0, 0)
}

func (r *memStockRepo) LockByWarehouse(warehouseID string) ([]*entity.StockPosition, error) {
	return r.List(warehouseID, false, 0, 0)
}

func (r *memStockRepo) DeleteByWarehouse(warehouseID string) error {
	for k := range r.s.positions {
		if k.warehouseID == warehouseID {
			delete(r.s.positions, k)
		}
	}
	return nil
}

type memAuditRepo struct{ s *memStore }

func (r *memAuditRepo) Create(e *entity.AuditEntry) error {
	cp := *e
	r.s.audits = append(r.s.audits, &cp)
	return nil
}

func (r *memAuditRepo) List(repository.AuditFilter) ([]*entity.AuditEntry, int, error) {
	return r.s.audits, len(r.s.audits), nil
}

type memWarehouseRepo struct{ s *memStore }

func (r *memWarehouseRepo) Create(w *entity.Warehouse) error {
	cp := *w
	r.s.warehouses[w.ID] = &cp
	return nil
}

func (r *memWarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	if w, ok := r.s.warehouses[id]; ok {
		cp := *w
		return &cp, nil
	}
	return nil, nil
}

func (r *memWarehouseRepo) GetByCode(string) (*entity.Warehouse, error) { return nil, nil }

func (r *memWarehouseRepo) Update(*entity.Warehouse) error { return nil }

func (r *memWarehouseRepo) List(bool, int, int) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	for _, w := range r.s.warehouses {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memWarehouseRepo) GetForShare(id string) (*entity.Warehouse, error) { return r.GetByID(id) }

func (r *memWarehouseRepo) GetForUpdate(id string) (*entity.Warehouse, error) {
	return r.GetByID(id)
}

// ──────────────────────────────────────────────────────────────────────────────
// Constructores de escenario
// ──────────────────────────────────────────────────────────────────────────────

func fixture(t *testing.T) (*memStore, *recalc.UseCase) {
	t.Helper()
	store := newMemStore()
	store.warehouses[bodegaUno] = &entity.Warehouse{
		ID: bodegaUno, Code: "BOD-01", Name: "Bodega Principal",
		AutoUpdateAverageCost: true, Active: true,
	}
	store.warehouses[bodegaDos] = &entity.Warehouse{
		ID: bodegaDos, Code: "BOD-02", Name: "Bodega Secundaria",
		AutoUpdateAverageCost: true, Active: true,
	}
	uc := recalc.NewUseCase(
		&memTxRunner{s: store},
		&memWarehouseRepo{s: store},
		zerolog.Nop(),
	)
	return store, uc
}

var movSeq int

// mov construye un movimiento publicado de una línea, con fecha base+day y
// orden de inserción estable.
func mov(movType, origin, dest string, day int, itemID, qty, cost string) *entity.Movement {
	movSeq++
	id := "mov-" + string(rune('a'+movSeq))
	m := &entity.Movement{
		ID:                id,
		Type:              movType,
		Date:              baseDate.AddDate(0, 0, day),
		OriginWarehouseID: origin,
		DestWarehouseID:   dest,
		State:             entity.MovementStatePublicado,
		CreatedBy:         userAdmin,
		CreatedAt:         baseDate.Add(time.Duration(movSeq) * time.Minute),
	}
	m.Details = []entity.MovementDetail{{
		ID:         id + "-l1",
		MovementID: id,
		LineNumber: 1,
		ItemID:     itemID,
		Quantity:   d(qty),
		UnitCost:   d(cost),
	}}
	return m
}

func position(store *memStore, itemID, warehouseID string) *entity.StockPosition {
	return store.positions[posKey{itemID, warehouseID}]
}

// ──────────────────────────────────────────────────────────────────────────────
// Recalculate
// ──────────────────────────────────────────────────────────────────────────────

func TestRecalculate_ReconciliaDerivaTrasAnulacion(t *testing.T) {
	store, uc := fixture(t)

	// Historia viva: solo queda la compra de 10 @ 5.00. La segunda entrada
	// (5 @ 8.00) fue anulada, pero la anulación dejó el promedio mixto 6.0000
	// en la posición: la cantidad se revirtió, el promedio no.
	store.movements = append(store.movements,
		mov(entity.MovementTypeEntrada, "", bodegaUno, 0, itemA, "10.00", costoCompra),
	)
	anulada := mov(entity.MovementTypeEntrada, "", bodegaUno, 1, itemA, "5.00", "8.00")
	anulada.State = entity.MovementStateAnulado
	store.movements = append(store.movements, anulada)

	store.positions[posKey{itemA, bodegaUno}] = &entity.StockPosition{
		ItemID: itemA, WarehouseID: bodegaUno,
		Quantity: d("10.00"), AverageCost: d("6.0000"),
	}

	out, err := uc.Recalculate(context.Background(), userAdmin, bodegaUno)
	require.NoError(t, err)

	pos := position(store, itemA, bodegaUno)
	require.NotNil(t, pos)
	assert.True(t, d("10.00").Equal(pos.Quantity), "cantidad: %s", pos.Quantity)
	assert.True(t, d("5.0000").Equal(pos.AverageCost), "promedio: %s", pos.AverageCost)

	assert.Equal(t, 1, out.AuditEntries)
	assert.Equal(t, 1, out.MovementsApplied, "los movimientos anulados no cuentan")
	require.Len(t, store.audits, 1)
	entry := store.audits[0]
	assert.Equal(t, entity.AuditReasonRecalculation, entry.Reason)
	assert.Equal(t, userAdmin, entry.UserID)
	assert.Equal(t, itemA, entry.ItemID)
	assert.Equal(t, bodegaUno, entry.WarehouseID)
	assert.True(t, d("6.0000").Equal(entry.PreviousCost))
	assert.True(t, d("5.0000").Equal(entry.NewCost))
	assert.Nil(t, entry.MovementID)
}

func TestRecalculate_Idempotente(t *testing.T) {
	store, uc := fixture(t)

	store.movements = append(store.movements,
		mov(entity.MovementTypeEntrada, "", bodegaUno, 0, itemA, "10.00", costoCompra),
		mov(entity.MovementTypeSalida, bodegaUno, "", 1, itemA, "4.00", costoCompra),
	)

	first, err := uc.Recalculate(context.Background(), userAdmin, bodegaUno)
	require.NoError(t, err)
	require.Len(t, first.Positions, 1)
	assert.Equal(t, 1, first.AuditEntries, "la primera corrida parte de posiciones vacías")

	second, err := uc.Recalculate(context.Background(), userAdmin, bodegaUno)
	require.NoError(t, err)
	assert.Equal(t, 0, second.AuditEntries, "sin movimientos intermedios no hay diferencias")
	require.Len(t, second.Positions, 1)
	assert.True(t, d("6.00").Equal(second.Positions[0].Quantity))
	assert.True(t, d("5.0000").Equal(second.Positions[0].AverageCost))
	assert.Len(t, store.audits, 1)
}

func TestRecalculate_PreservaUmbralesMinMax(t *testing.T) {
	store, uc := fixture(t)

	store.movements = append(store.movements,
		mov(entity.MovementTypeEntrada, "", bodegaUno, 0, itemA, "10.00", costoCompra),
	)
	min, max := d("3.00"), d("50.00")
	store.positions[posKey{itemA, bodegaUno}] = &entity.StockPosition{
		ItemID: itemA, WarehouseID: bodegaUno,
		Quantity: d("10.00"), AverageCost: d("5.0000"),
		MinStock: &min, MaxStock: &max,
	}

	_, err := uc.Recalculate(context.Background(), userAdmin, bodegaUno)
	require.NoError(t, err)

	pos := position(store, itemA, bodegaUno)
	require.NotNil(t, pos)
	require.NotNil(t, pos.MinStock)
	require.NotNil(t, pos.MaxStock)
	assert.True(t, min.Equal(*pos.MinStock))
	assert.True(t, max.Equal(*pos.MaxStock))
	assert.Empty(t, store.audits, "cantidad y costo no cambiaron")
}

func TestRecalculate_ParDesaparecidoQuedaAuditado(t *testing.T) {
	store, uc := fixture(t)

	// itemB tiene posición pero ninguna historia publicada que la respalde
	// (todos sus movimientos fueron anulados).
	store.movements = append(store.movements,
		mov(entity.MovementTypeEntrada, "", bodegaUno, 0, itemA, "10.00", costoCompra),
	)
	store.positions[posKey{itemB, bodegaUno}] = &entity.StockPosition{
		ItemID: itemB, WarehouseID: bodegaUno,
		Quantity: d("7.00"), AverageCost: d("12.5000"),
	}

	out, err := uc.Recalculate(context.Background(), userAdmin, bodegaUno)
	require.NoError(t, err)

	assert.Nil(t, position(store, itemB, bodegaUno), "el par sin historia no se reescribe")
	require.NotNil(t, position(store, itemA, bodegaUno))

	assert.Equal(t, 2, out.AuditEntries, "una por itemA reconstruido, otra por itemB a cero")
	var zeroed *entity.AuditEntry
	for _, e := range store.audits {
		if e.ItemID == itemB {
			zeroed = e
		}
	}
	require.NotNil(t, zeroed)
	assert.True(t, d("7.00").Equal(zeroed.PreviousQuantity))
	assert.True(t, zeroed.NewQuantity.IsZero())
	assert.True(t, zeroed.NewCost.IsZero())
}

func TestRecalculate_TransferenciaSoloProyectaLaBodegaEnCurso(t *testing.T) {
	store, uc := fixture(t)

	store.movements = append(store.movements,
		mov(entity.MovementTypeEntrada, "", bodegaUno, 0, itemA, "10.00", costoCompra),
		mov(entity.MovementTypeTransferencia, bodegaUno, bodegaDos, 1, itemA, "4.00", costoCompra),
	)

	_, err := uc.Recalculate(context.Background(), userAdmin, bodegaUno)
	require.NoError(t, err)

	origen := position(store, itemA, bodegaUno)
	require.NotNil(t, origen)
	assert.True(t, d("6.00").Equal(origen.Quantity))
	assert.True(t, d("5.0000").Equal(origen.AverageCost))

	// El lado receptor pertenece a la pasada de la otra bodega.
	assert.Nil(t, position(store, itemA, bodegaDos))

	_, err = uc.Recalculate(context.Background(), userAdmin, bodegaDos)
	require.NoError(t, err)
	destino := position(store, itemA, bodegaDos)
	require.NotNil(t, destino)
	assert.True(t, d("4.00").Equal(destino.Quantity))
	assert.True(t, d("5.0000").Equal(destino.AverageCost), "la entrada se valora al costo congelado en la línea")
}

func TestRecalculate_TodasLasBodegas(t *testing.T) {
	store, uc := fixture(t)

	store.movements = append(store.movements,
		mov(entity.MovementTypeEntrada, "", bodegaUno, 0, itemA, "10.00", costoCompra),
		mov(entity.MovementTypeEntrada, "", bodegaDos, 0, itemB, "3.00", "8.00"),
	)

	out, err := uc.Recalculate(context.Background(), userAdmin, "")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{bodegaUno, bodegaDos}, out.Warehouses)
	assert.Equal(t, 2, out.MovementsApplied)
	require.NotNil(t, position(store, itemA, bodegaUno))
	require.NotNil(t, position(store, itemB, bodegaDos))
}

func TestRecalculate_BodegaInexistente(t *testing.T) {
	_, uc := fixture(t)

	out, err := uc.Recalculate(context.Background(), userAdmin, "no-existe")
	assert.ErrorIs(t, err, domain.ErrWarehouseNotFound)
	assert.Nil(t, out)
}
