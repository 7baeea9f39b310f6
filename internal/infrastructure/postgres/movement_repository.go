package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación de MovementRepository sobre PostgreSQL.
// Cabecera en movements, líneas en movement_details.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, type, subtype, date, origin_warehouse_id, dest_warehouse_id,
	third_party_reference, reference_document, observation, state,
	created_by, created_at, published_at, voided_at`

// Create inserta cabecera y líneas del movimiento (estado inicial BORRADOR).
func (r *MovementRepo) Create(movement *entity.Movement) error {
	query := `
		INSERT INTO movements (id, type, subtype, date, origin_warehouse_id, dest_warehouse_id,
			third_party_reference, reference_document, observation, state, created_by, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, NULLIF($5, '')::uuid, NULLIF($6, '')::uuid, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.Type, movement.Subtype, movement.Date,
		movement.OriginWarehouseID, movement.DestWarehouseID,
		movement.ThirdPartyReference, movement.ReferenceDocument, movement.Observation,
		movement.State, movement.CreatedBy, movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return r.insertDetails(movement.ID, movement.Details)
}

// GetByID obtiene un movimiento con sus líneas; nil si no existe.
func (r *MovementRepo) GetByID(id string) (*entity.Movement, error) {
	return r.getByID(id, false)
}

// GetByIDForUpdate obtiene el movimiento bloqueando la cabecera
// (SELECT FOR UPDATE). Publicación y anulación del mismo movimiento se
// serializan sobre este bloqueo.
func (r *MovementRepo) GetByIDForUpdate(id string) (*entity.Movement, error) {
	return r.getByID(id, true)
}

func (r *MovementRepo) getByID(id string, forUpdate bool) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	details, err := r.loadDetails([]string{m.ID})
	if err != nil {
		return nil, err
	}
	m.Details = details[m.ID]
	return m, nil
}

// UpdateHeader actualiza la cabecera (solo en BORRADOR; el caso de uso valida).
func (r *MovementRepo) UpdateHeader(movement *entity.Movement) error {
	query := `
		UPDATE movements
		SET type = $2, subtype = NULLIF($3, ''), date = $4,
			origin_warehouse_id = NULLIF($5, '')::uuid, dest_warehouse_id = NULLIF($6, '')::uuid,
			third_party_reference = $7, reference_document = $8, observation = $9
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.Type, movement.Subtype, movement.Date,
		movement.OriginWarehouseID, movement.DestWarehouseID,
		movement.ThirdPartyReference, movement.ReferenceDocument, movement.Observation,
	)
	if err != nil {
		return fmt.Errorf("update movement header: %w", err)
	}
	return nil
}

// ReplaceDetails reemplaza las líneas completas del movimiento.
func (r *MovementRepo) ReplaceDetails(movementID string, details []entity.MovementDetail) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM movement_details WHERE movement_id = $1`, movementID)
	if err != nil {
		return fmt.Errorf("delete movement details: %w", err)
	}
	return r.insertDetails(movementID, details)
}

// UpdateDetailCost fija el costo unitario derivado de una línea al publicar.
func (r *MovementRepo) UpdateDetailCost(detailID string, cost decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE movement_details SET unit_cost = $2 WHERE id = $1`, detailID, cost)
	if err != nil {
		return fmt.Errorf("update detail cost: %w", err)
	}
	return nil
}

// SetState persiste el estado y sus marcas temporales.
func (r *MovementRepo) SetState(movement *entity.Movement) error {
	query := `
		UPDATE movements SET state = $2, published_at = $3, voided_at = $4
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.State, movement.PublishedAt, movement.VoidedAt)
	if err != nil {
		return fmt.Errorf("set movement state: %w", err)
	}
	return nil
}

// List lista movimientos con filtros y total para paginar.
func (r *MovementRepo) List(filter repository.MovementFilter) ([]*entity.Movement, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	pos := 1
	add := func(clause string, value any) {
		where += fmt.Sprintf(clause, pos)
		args = append(args, value)
		pos++
	}
	if filter.State != "" {
		add(" AND state = $%d", filter.State)
	}
	if filter.Type != "" {
		add(" AND type = $%d", filter.Type)
	}
	if filter.WarehouseID != "" {
		where += fmt.Sprintf(" AND (origin_warehouse_id = $%d OR dest_warehouse_id = $%d)", pos, pos)
		args = append(args, filter.WarehouseID)
		pos++
	}
	if filter.From != nil {
		add(" AND date >= $%d", *filter.From)
	}
	if filter.To != nil {
		add(" AND date <= $%d", *filter.To)
	}

	var total int
	err := r.q.QueryRow(context.Background(), "SELECT COUNT(*) FROM movements"+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count movements: %w", err)
	}

	query := `SELECT ` + movementColumns + ` FROM movements` + where +
		fmt.Sprintf(" ORDER BY date DESC, created_at DESC, id DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	list, err := r.queryMovements(query, args...)
	if err != nil {
		return nil, 0, err
	}
	if err := r.attachDetails(list); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListPublishedByWarehouse devuelve los movimientos PUBLICADO que afectan la
// bodega, en el orden canónico de reconstrucción (fecha, inserción, id).
func (r *MovementRepo) ListPublishedByWarehouse(warehouseID string) ([]*entity.Movement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM movements
		WHERE state = $1 AND (origin_warehouse_id = $2 OR dest_warehouse_id = $2)
		ORDER BY date, created_at, id`
	list, err := r.queryMovements(query, entity.MovementStatePublicado, warehouseID)
	if err != nil {
		return nil, err
	}
	if err := r.attachDetails(list); err != nil {
		return nil, err
	}
	return list, nil
}

// ListForKardex devuelve los movimientos PUBLICADO que afectan el par
// (artículo, bodega) del filtro, en el orden canónico.
func (r *MovementRepo) ListForKardex(filter repository.KardexFilter) ([]*entity.Movement, error) {
	query := `
		SELECT DISTINCT m.id, m.type, m.subtype, m.date, m.origin_warehouse_id, m.dest_warehouse_id,
			m.third_party_reference, m.reference_document, m.observation, m.state,
			m.created_by, m.created_at, m.published_at, m.voided_at
		FROM movements m
		JOIN movement_details d ON d.movement_id = m.id
		WHERE m.state = $1 AND d.item_id = $2
			AND (m.origin_warehouse_id = $3 OR m.dest_warehouse_id = $3)`
	args := []any{entity.MovementStatePublicado, filter.ItemID, filter.WarehouseID}
	pos := 4
	if filter.Type != "" {
		query += fmt.Sprintf(" AND m.type = $%d", pos)
		args = append(args, filter.Type)
		pos++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND m.date >= $%d", pos)
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND m.date <= $%d", pos)
		args = append(args, *filter.To)
		pos++
	}
	query += " ORDER BY m.date, m.created_at, m.id"

	list, err := r.queryMovements(query, args...)
	if err != nil {
		return nil, err
	}
	if err := r.attachDetails(list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *MovementRepo) insertDetails(movementID string, details []entity.MovementDetail) error {
	for _, d := range details {
		query := `
			INSERT INTO movement_details (id, movement_id, line_number, item_id, quantity, unit_cost)
			VALUES ($1, $2, $3, $4, $5, $6)`
		_, err := r.q.Exec(context.Background(), query,
			d.ID, movementID, d.LineNumber, d.ItemID, d.Quantity, d.UnitCost)
		if err != nil {
			return fmt.Errorf("insert movement detail: %w", err)
		}
	}
	return nil
}

func (r *MovementRepo) queryMovements(query string, args ...any) ([]*entity.Movement, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("query movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// attachDetails carga las líneas de todos los movimientos en una sola consulta.
func (r *MovementRepo) attachDetails(movements []*entity.Movement) error {
	if len(movements) == 0 {
		return nil
	}
	ids := make([]string, len(movements))
	for i, m := range movements {
		ids[i] = m.ID
	}
	byMovement, err := r.loadDetails(ids)
	if err != nil {
		return err
	}
	for _, m := range movements {
		m.Details = byMovement[m.ID]
	}
	return nil
}

func (r *MovementRepo) loadDetails(movementIDs []string) (map[string][]entity.MovementDetail, error) {
	query := `
		SELECT id, movement_id, line_number, item_id, quantity, unit_cost
		FROM movement_details
		WHERE movement_id = ANY($1)
		ORDER BY movement_id, line_number`
	rows, err := r.q.Query(context.Background(), query, movementIDs)
	if err != nil {
		return nil, fmt.Errorf("query movement details: %w", err)
	}
	defer rows.Close()
	byMovement := make(map[string][]entity.MovementDetail)
	for rows.Next() {
		var d entity.MovementDetail
		if err := rows.Scan(&d.ID, &d.MovementID, &d.LineNumber, &d.ItemID, &d.Quantity, &d.UnitCost); err != nil {
			return nil, fmt.Errorf("scan movement detail: %w", err)
		}
		byMovement[d.MovementID] = append(byMovement[d.MovementID], d)
	}
	return byMovement, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	var subtype, origin, dest *string
	err := row.Scan(&m.ID, &m.Type, &subtype, &m.Date, &origin, &dest,
		&m.ThirdPartyReference, &m.ReferenceDocument, &m.Observation, &m.State,
		&m.CreatedBy, &m.CreatedAt, &m.PublishedAt, &m.VoidedAt)
	if err != nil {
		return nil, err
	}
	m.Subtype = deref(subtype)
	m.OriginWarehouseID = deref(origin)
	m.DestWarehouseID = deref(dest)
	return &m, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
