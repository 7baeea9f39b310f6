package movement_test

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles en memoria: un almacén compartido y repositorios delgados encima.
// El TxRunner falso restaura el estado si la función devuelve error, para
// poder verificar la atomicidad de publicar/anular.
// ──────────────────────────────────────────────────────────────────────────────

type posKey struct{ itemID, warehouseID string }

type memStore struct {
	movements  map[string]*entity.Movement
	positions  map[posKey]*entity.StockPosition
	items      map[string]*entity.Item
	warehouses map[string]*entity.Warehouse
	audits     []*entity.AuditEntry
}

func newMemStore() *memStore {
	return &memStore{
		movements:  make(map[string]*entity.Movement),
		positions:  make(map[posKey]*entity.StockPosition),
		items:      make(map[string]*entity.Item),
		warehouses: make(map[string]*entity.Warehouse),
	}
}

func (s *memStore) snapshot() *memStore {
	c := newMemStore()
	for k, v := range s.movements {
		mv := *v
		mv.Details = append([]entity.MovementDetail(nil), v.Details...)
		c.movements[k] = &mv
	}
	for k, v := range s.positions {
		pv := *v
		c.positions[k] = &pv
	}
	for k, v := range s.items {
		iv := *v
		c.items[k] = &iv
	}
	for k, v := range s.warehouses {
		wv := *v
		c.warehouses[k] = &wv
	}
	c.audits = append([]*entity.AuditEntry(nil), s.audits...)
	return c
}

func (s *memStore) restore(from *memStore) {
	s.movements = from.movements
	s.positions = from.positions
	s.items = from.items
	s.warehouses = from.warehouses
	s.audits = from.audits
}

type memTxRunner struct{ store *memStore }

func (r *memTxRunner) Run(_ context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockPositionRepository,
	auditRepo repository.AuditRepository,
	itemRepo repository.ItemRepository,
	warehouseRepo repository.WarehouseRepository,
) error) error {
	before := r.store.snapshot()
	err := fn(
		&memMovementRepo{s: r.store},
		&memStockRepo{s: r.store},
		&memAuditRepo{s: r.store},
		&memItemRepo{s: r.store},
		&memWarehouseRepo{s: r.store},
	)
	if err != nil {
		r.store.restore(before)
	}
	return err
}

// ── MovementRepository ────────────────────────────────────────────────────────

type memMovementRepo struct{ s *memStore }

func (r *memMovementRepo) Create(m *entity.Movement) error {
	cp := *m
	cp.Details = append([]entity.MovementDetail(nil), m.Details...)
	r.s.movements[m.ID] = &cp
	return nil
}

func (r *memMovementRepo) GetByID(id string) (*entity.Movement, error) {
	m, ok := r.s.movements[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	cp.Details = append([]entity.MovementDetail(nil), m.Details...)
	return &cp, nil
}

func (r *memMovementRepo) GetByIDForUpdate(id string) (*entity.Movement, error) {
	return r.GetByID(id)
}

func (r *memMovementRepo) UpdateHeader(m *entity.Movement) error {
	stored := r.s.movements[m.ID]
	details := stored.Details
	cp := *m
	cp.Details = details
	r.s.movements[m.ID] = &cp
	return nil
}

func (r *memMovementRepo) ReplaceDetails(movementID string, details []entity.MovementDetail) error {
	r.s.movements[movementID].Details = append([]entity.MovementDetail(nil), details...)
	return nil
}

func (r *memMovementRepo) UpdateDetailCost(detailID string, cost decimal.Decimal) error {
	for _, m := range r.s.movements {
		for i := range m.Details {
			if m.Details[i].ID == detailID {
				m.Details[i].UnitCost = cost
				return nil
			}
		}
	}
	return nil
}

func (r *memMovementRepo) SetState(m *entity.Movement) error {
	stored := r.s.movements[m.ID]
	stored.State = m.State
	stored.PublishedAt = m.PublishedAt
	stored.VoidedAt = m.VoidedAt
	stored.Details = append([]entity.MovementDetail(nil), m.Details...)
	return nil
}

func (r *memMovementRepo) List(filter repository.MovementFilter) ([]*entity.Movement, int, error) {
	var out []*entity.Movement
	for _, m := range r.s.movements {
		if filter.State != "" && m.State != filter.State {
			continue
		}
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		if filter.WarehouseID != "" && m.OriginWarehouseID != filter.WarehouseID && m.DestWarehouseID != filter.WarehouseID {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
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

func (r *memMovementRepo) ListForKardex(filter repository.KardexFilter) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, m := range r.s.movements {
		if m.State != entity.MovementStatePublicado {
			continue
		}
		if m.OriginWarehouseID != filter.WarehouseID && m.DestWarehouseID != filter.WarehouseID {
			continue
		}
		for _, d := range m.Details {
			if d.ItemID == filter.ItemID {
				out = append(out, m)
				break
			}
		}
	}
	return out, nil
}

// ── StockPositionRepository ───────────────────────────────────────────────────

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

func (r *memStockRepo) List(warehouseID string, lowStockOnly bool, _, _ int) ([]*entity.StockPosition, error) {
	var out []*entity.StockPosition
	for _, p := range r.s.positions {
		if warehouseID != "" && p.WarehouseID != warehouseID {
			continue
		}
		if lowStockOnly && !p.BelowMin() {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *memStockRepo) ListByWarehouse(warehouseID string) ([]*entity.StockPosition, error) {
	return r.List(warehouseID, false, 0, 0)
}

func (r *memStockRepo) LockByWarehouse(warehouseID string) ([]*entity.StockPosition, error) {
	out, _ := r.List(warehouseID, false, 0, 0)
	sort.Slice(out, func(i, j int) bool { return strings.Compare(out[i].ItemID, out[j].ItemID) < 0 })
	return out, nil
}

func (r *memStockRepo) DeleteByWarehouse(warehouseID string) error {
	for k := range r.s.positions {
		if k.warehouseID == warehouseID {
			delete(r.s.positions, k)
		}
	}
	return nil
}

// ── AuditRepository ───────────────────────────────────────────────────────────

type memAuditRepo struct{ s *memStore }

func (r *memAuditRepo) Create(e *entity.AuditEntry) error {
	cp := *e
	r.s.audits = append(r.s.audits, &cp)
	return nil
}

func (r *memAuditRepo) List(filter repository.AuditFilter) ([]*entity.AuditEntry, int, error) {
	var out []*entity.AuditEntry
	for _, e := range r.s.audits {
		if filter.ItemID != "" && e.ItemID != filter.ItemID {
			continue
		}
		if filter.WarehouseID != "" && e.WarehouseID != filter.WarehouseID {
			continue
		}
		out = append(out, e)
	}
	return out, len(out), nil
}

// ── ItemRepository ────────────────────────────────────────────────────────────

type memItemRepo struct{ s *memStore }

func (r *memItemRepo) Create(i *entity.Item) error {
	cp := *i
	r.s.items[i.ID] = &cp
	return nil
}

func (r *memItemRepo) GetByID(id string) (*entity.Item, error) {
	if i, ok := r.s.items[id]; ok {
		cp := *i
		return &cp, nil
	}
	return nil, nil
}

func (r *memItemRepo) GetByCode(code string) (*entity.Item, error) {
	for _, i := range r.s.items {
		if i.Code == code {
			cp := *i
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memItemRepo) Update(i *entity.Item) error {
	cp := *i
	r.s.items[i.ID] = &cp
	return nil
}

func (r *memItemRepo) List(activeOnly bool, _, _ int) ([]*entity.Item, error) {
	var out []*entity.Item
	for _, i := range r.s.items {
		if activeOnly && !i.Active {
			continue
		}
		out = append(out, i)
	}
	return out, nil
}

func (r *memItemRepo) UpdateAverageCost(id string, cost decimal.Decimal) error {
	if i, ok := r.s.items[id]; ok {
		i.AverageCost = cost
	}
	return nil
}

// ── WarehouseRepository ───────────────────────────────────────────────────────

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

func (r *memWarehouseRepo) GetByCode(code string) (*entity.Warehouse, error) {
	for _, w := range r.s.warehouses {
		if w.Code == code {
			cp := *w
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memWarehouseRepo) Update(w *entity.Warehouse) error {
	cp := *w
	r.s.warehouses[w.ID] = &cp
	return nil
}

func (r *memWarehouseRepo) List(activeOnly bool, _, _ int) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	for _, w := range r.s.warehouses {
		if activeOnly && !w.Active {
			continue
		}
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memWarehouseRepo) GetForShare(id string) (*entity.Warehouse, error) {
	return r.GetByID(id)
}

func (r *memWarehouseRepo) GetForUpdate(id string) (*entity.Warehouse, error) {
	return r.GetByID(id)
}
