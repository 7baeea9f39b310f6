package costing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/costing"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// ──────────────────────────────────────────────────────────────────────────────
// WeightedAverage
// ──────────────────────────────────────────────────────────────────────────────

// Ejemplo de libro: 10 uds a $5.00 más entrada de 5 uds a $8.00 → promedio $6.00.
func TestWeightedAverage_EjemploClasico(t *testing.T) {
	avg := costing.WeightedAverage(d("10"), d("5.00"), d("5"), d("8.00"))
	assert.True(t, d("6.0000").Equal(avg), "promedio esperado 6.0000, obtenido %s", avg)
}

func TestWeightedAverage_SumaCero_DevuelveCostoEntrada(t *testing.T) {
	// Saldo negativo por deriva que la entrada deja exactamente en cero:
	// no hay cantidad sobre la cual ponderar, el promedio es el costo entrante.
	avg := costing.WeightedAverage(d("-5"), d("3.00"), d("5"), d("7.50"))
	assert.True(t, d("7.5000").Equal(avg))
}

func TestWeightedAverage_RedondeoHalfUpA4Decimales(t *testing.T) {
	// (1*0.10 + 2*0.20) / 3 = 0.166666... → 0.1667
	avg := costing.WeightedAverage(d("1"), d("0.10"), d("2"), d("0.20"))
	assert.True(t, d("0.1667").Equal(avg), "obtenido %s", avg)
}

// ──────────────────────────────────────────────────────────────────────────────
// ApplyEntrada
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyEntrada_RecalculaPromedio(t *testing.T) {
	p := costing.Position{Quantity: d("10"), AverageCost: d("5.00")}
	next, err := costing.ApplyEntrada(p, d("5"), d("8.00"), true)
	require.NoError(t, err)

	assert.True(t, d("15").Equal(next.Quantity))
	assert.True(t, d("6.0000").Equal(next.AverageCost))
	// La posición origen no se muta.
	assert.True(t, d("10").Equal(p.Quantity))
	assert.True(t, d("5.00").Equal(p.AverageCost))
}

func TestApplyEntrada_CostoFijado_NoTocaPromedio(t *testing.T) {
	p := costing.Position{Quantity: d("10"), AverageCost: d("5.00")}
	next, err := costing.ApplyEntrada(p, d("5"), d("8.00"), false)
	require.NoError(t, err)

	assert.True(t, d("15").Equal(next.Quantity), "la cantidad sí sube")
	assert.True(t, d("5.00").Equal(next.AverageCost), "el costo queda fijado")
}

func TestApplyEntrada_PrimeraEntrada_FijaElPromedio(t *testing.T) {
	next, err := costing.ApplyEntrada(costing.ZeroPosition(), d("10"), d("5.00"), true)
	require.NoError(t, err)
	assert.True(t, d("5.0000").Equal(next.AverageCost))
}

func TestApplyEntrada_CantidadNoPositiva(t *testing.T) {
	p := costing.ZeroPosition()
	for _, qty := range []decimal.Decimal{decimal.Zero, d("-3")} {
		_, err := costing.ApplyEntrada(p, qty, d("1.00"), true)
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity, "cantidad %s", qty)
	}
}

func TestApplyEntrada_CostoNegativo(t *testing.T) {
	_, err := costing.ApplyEntrada(costing.ZeroPosition(), d("1"), d("-0.01"), true)
	assert.ErrorIs(t, err, domain.ErrInvalidCost)
}

func TestApplyEntrada_CostoCeroEsValido(t *testing.T) {
	// Donaciones y ajustes entran a costo cero y diluyen el promedio.
	p := costing.Position{Quantity: d("10"), AverageCost: d("6.00")}
	next, err := costing.ApplyEntrada(p, d("10"), decimal.Zero, true)
	require.NoError(t, err)
	assert.True(t, d("3.0000").Equal(next.AverageCost))
}

// ──────────────────────────────────────────────────────────────────────────────
// ApplySalida
// ──────────────────────────────────────────────────────────────────────────────

func TestApplySalida_NoAlteraPromedio(t *testing.T) {
	p := costing.Position{Quantity: d("15"), AverageCost: d("6.00")}
	next, err := costing.ApplySalida(p, d("7"))
	require.NoError(t, err)

	assert.True(t, d("8").Equal(next.Quantity))
	assert.True(t, d("6.00").Equal(next.AverageCost), "una salida jamás cambia el promedio")
}

func TestApplySalida_StockInsuficiente(t *testing.T) {
	p := costing.Position{Quantity: d("8"), AverageCost: d("6.00")}
	_, err := costing.ApplySalida(p, d("20"))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestApplySalida_SaldoExacto_QuedaEnCero(t *testing.T) {
	p := costing.Position{Quantity: d("8"), AverageCost: d("6.00")}
	next, err := costing.ApplySalida(p, d("8"))
	require.NoError(t, err)
	assert.True(t, next.Quantity.IsZero())
	assert.True(t, d("6.00").Equal(next.AverageCost), "el promedio sobrevive al saldo cero")
}

func TestApplySalida_CantidadNoPositiva(t *testing.T) {
	p := costing.Position{Quantity: d("8"), AverageCost: d("6.00")}
	_, err := costing.ApplySalida(p, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestApplySalidaUnchecked_PermiteSaldoNegativo(t *testing.T) {
	// El replay tolera saldos transitorios negativos (deriva tras anulaciones).
	p := costing.Position{Quantity: d("3"), AverageCost: d("6.00")}
	next, err := costing.ApplySalidaUnchecked(p, d("5"))
	require.NoError(t, err)
	assert.True(t, d("-2").Equal(next.Quantity))
	assert.True(t, d("6.00").Equal(next.AverageCost))
}
