package costing_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/domain/costing"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

const (
	itemA      = "item-a"
	bodegaUno  = "bodega-1"
	bodegaDos  = "bodega-2"
	testUserID = "user-1"
)

var baseDate = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

// mov construye un movimiento publicado de una sola línea.
func mov(id string, day int, movType, origin, dest, qty, cost string) *entity.Movement {
	return &entity.Movement{
		ID:                id,
		Type:              movType,
		Date:              baseDate.AddDate(0, 0, day),
		OriginWarehouseID: origin,
		DestWarehouseID:   dest,
		State:             entity.MovementStatePublicado,
		CreatedBy:         testUserID,
		CreatedAt:         baseDate.AddDate(0, 0, day),
		Details: []entity.MovementDetail{{
			ID:         id + "-d1",
			MovementID: id,
			LineNumber: 1,
			ItemID:     itemA,
			Quantity:   decimal.RequireFromString(qty),
			UnitCost:   decimal.RequireFromString(cost),
		}},
	}
}

func autoAll() map[string]bool {
	return map[string]bool{bodegaUno: true, bodegaDos: true}
}

func TestReplay_EjemploClasicoDeLibro(t *testing.T) {
	movements := []*entity.Movement{
		mov("m1", 0, entity.MovementTypeEntrada, "", bodegaUno, "10", "5.00"),
		mov("m2", 1, entity.MovementTypeEntrada, "", bodegaUno, "5", "8.00"),
		mov("m3", 2, entity.MovementTypeSalida, bodegaUno, "", "7", "0"),
	}
	positions, err := costing.Replay(movements, autoAll())
	require.NoError(t, err)

	p := positions[costing.PositionKey{ItemID: itemA, WarehouseID: bodegaUno}]
	assert.True(t, decimal.RequireFromString("8").Equal(p.Quantity))
	assert.True(t, decimal.RequireFromString("6.0000").Equal(p.AverageCost))
}

func TestReplay_IgnoraAnuladosYBorradores(t *testing.T) {
	anulado := mov("m2", 1, entity.MovementTypeEntrada, "", bodegaUno, "100", "99.00")
	anulado.State = entity.MovementStateAnulado
	borrador := mov("m3", 2, entity.MovementTypeSalida, bodegaUno, "", "100", "0")
	borrador.State = entity.MovementStateBorrador

	movements := []*entity.Movement{
		mov("m1", 0, entity.MovementTypeEntrada, "", bodegaUno, "10", "5.00"),
		anulado,
		borrador,
	}
	positions, err := costing.Replay(movements, autoAll())
	require.NoError(t, err)

	p := positions[costing.PositionKey{ItemID: itemA, WarehouseID: bodegaUno}]
	assert.True(t, decimal.RequireFromString("10").Equal(p.Quantity),
		"anulados y borradores se ignoran como si nunca hubieran existido")
	assert.True(t, decimal.RequireFromString("5.0000").Equal(p.AverageCost))
}

func TestReplay_OrdenCanonicoIndependienteDelOrdenDeEntrada(t *testing.T) {
	build := func() []*entity.Movement {
		return []*entity.Movement{
			mov("m3", 2, entity.MovementTypeSalida, bodegaUno, "", "7", "0"),
			mov("m1", 0, entity.MovementTypeEntrada, "", bodegaUno, "10", "5.00"),
			mov("m2", 1, entity.MovementTypeEntrada, "", bodegaUno, "5", "8.00"),
		}
	}
	first, err := costing.Replay(build(), autoAll())
	require.NoError(t, err)
	second, err := costing.Replay(build(), autoAll())
	require.NoError(t, err)

	k := costing.PositionKey{ItemID: itemA, WarehouseID: bodegaUno}
	assert.True(t, first[k].Quantity.Equal(second[k].Quantity), "el replay es determinista")
	assert.True(t, first[k].AverageCost.Equal(second[k].AverageCost))
	assert.True(t, decimal.RequireFromString("6.0000").Equal(first[k].AverageCost))
}

func TestReplay_MismaFecha_DesempataPorInsercion(t *testing.T) {
	// Dos movimientos el mismo día: la salida fue insertada después de la
	// entrada y debe aplicarse después aunque la lista llegue invertida.
	entrada := mov("m1", 0, entity.MovementTypeEntrada, "", bodegaUno, "10", "5.00")
	salida := mov("m2", 0, entity.MovementTypeSalida, bodegaUno, "", "4", "0")
	salida.CreatedAt = entrada.CreatedAt.Add(time.Minute)

	positions, err := costing.Replay([]*entity.Movement{salida, entrada}, autoAll())
	require.NoError(t, err)

	p := positions[costing.PositionKey{ItemID: itemA, WarehouseID: bodegaUno}]
	assert.True(t, decimal.RequireFromString("6").Equal(p.Quantity))
}

func TestReplay_TransferenciaValoradaAlCostoRegistrado(t *testing.T) {
	// La línea de la transferencia lleva el promedio del origen congelado en
	// el momento de publicar; el replay del destino no depende de reconstruir
	// el origen.
	movements := []*entity.Movement{
		mov("m1", 0, entity.MovementTypeEntrada, "", bodegaUno, "10", "5.00"),
		mov("m2", 1, entity.MovementTypeTransferencia, bodegaUno, bodegaDos, "4", "5.0000"),
	}
	positions, err := costing.Replay(movements, autoAll())
	require.NoError(t, err)

	origen := positions[costing.PositionKey{ItemID: itemA, WarehouseID: bodegaUno}]
	destino := positions[costing.PositionKey{ItemID: itemA, WarehouseID: bodegaDos}]

	assert.True(t, decimal.RequireFromString("6").Equal(origen.Quantity))
	assert.True(t, decimal.RequireFromString("5.0000").Equal(origen.AverageCost),
		"la transferencia no cambia el promedio del origen")
	assert.True(t, decimal.RequireFromString("4").Equal(destino.Quantity))
	assert.True(t, decimal.RequireFromString("5.0000").Equal(destino.AverageCost),
		"el destino recibe al costo del origen al transferir")
}

func TestReplay_SalidaSinSaldo_SaldoNegativoComoSenalDeDeriva(t *testing.T) {
	movements := []*entity.Movement{
		mov("m1", 0, entity.MovementTypeSalida, bodegaUno, "", "3", "0"),
	}
	positions, err := costing.Replay(movements, autoAll())
	require.NoError(t, err, "el replay no rechaza historias con deriva")

	p := positions[costing.PositionKey{ItemID: itemA, WarehouseID: bodegaUno}]
	assert.True(t, decimal.RequireFromString("-3").Equal(p.Quantity))
}

func TestReplay_BodegaConCostoFijado(t *testing.T) {
	movements := []*entity.Movement{
		mov("m1", 0, entity.MovementTypeEntrada, "", bodegaUno, "10", "5.00"),
		mov("m2", 1, entity.MovementTypeEntrada, "", bodegaUno, "10", "9.00"),
	}
	positions, err := costing.Replay(movements, map[string]bool{bodegaUno: false})
	require.NoError(t, err)

	p := positions[costing.PositionKey{ItemID: itemA, WarehouseID: bodegaUno}]
	assert.True(t, decimal.RequireFromString("20").Equal(p.Quantity))
	assert.True(t, p.AverageCost.IsZero(),
		"con costo fijado el promedio solo cambia por override, no por entradas")
}
