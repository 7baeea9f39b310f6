// Package costing implementa el motor de costo promedio ponderado (servicio de
// dominio puro): aplica el efecto de una línea de movimiento sobre una posición
// de stock y reconstruye posiciones y kardex por replay de la historia.
package costing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain"
)

// Precisión almacenada: costos con 4 decimales, cantidades con 2.
// El redondeo en divisiones es half-up (decimal.DivRound redondea la mitad
// alejándose de cero, que para valores no negativos equivale a half-up).
const (
	CostPrecision     = 4
	QuantityPrecision = 2
)

// Position es el par (cantidad, costo promedio) sobre el que opera el motor.
// Es un valor: cada aplicación devuelve una posición nueva sin mutar la previa.
type Position struct {
	Quantity    decimal.Decimal
	AverageCost decimal.Decimal
}

// ZeroPosition posición vacía (base del replay desde cero).
func ZeroPosition() Position {
	return Position{Quantity: decimal.Zero, AverageCost: decimal.Zero}
}

// WeightedAverage calcula el nuevo costo promedio ponderado tras una entrada:
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
// Si la suma de cantidades es cero, el promedio es el costo de la entrada.
func WeightedAverage(stockActual, costoActual, cantEntrada, costoEntrada decimal.Decimal) decimal.Decimal {
	sum := stockActual.Add(cantEntrada)
	if sum.LessThanOrEqual(decimal.Zero) {
		return costoEntrada.Round(CostPrecision)
	}
	num := stockActual.Mul(costoActual).Add(cantEntrada.Mul(costoEntrada))
	return num.DivRound(sum, CostPrecision)
}

// ApplyEntrada aplica una entrada de cantidad qty a costo unitario unitCost.
// Con autoUpdateAvg=true el promedio se recalcula con WeightedAverage; con
// false la cantidad sube pero el costo queda fijado (la deriva se reconcilia
// por override auditado o recálculo).
func ApplyEntrada(p Position, qty, unitCost decimal.Decimal, autoUpdateAvg bool) (Position, error) {
	if !qty.GreaterThan(decimal.Zero) {
		return p, domain.ErrInvalidQuantity
	}
	if unitCost.LessThan(decimal.Zero) {
		return p, domain.ErrInvalidCost
	}
	next := Position{
		Quantity:    p.Quantity.Add(qty).Round(QuantityPrecision),
		AverageCost: p.AverageCost,
	}
	if autoUpdateAvg {
		next.AverageCost = WeightedAverage(p.Quantity, p.AverageCost, qty, unitCost)
	}
	return next, nil
}

// ApplySalida aplica una salida de cantidad qty. Exige qty <= stock disponible
// (ErrInsufficientStock en caso contrario). El costo promedio nunca cambia en
// una salida (regla clásica del promedio ponderado).
func ApplySalida(p Position, qty decimal.Decimal) (Position, error) {
	if !qty.GreaterThan(decimal.Zero) {
		return p, domain.ErrInvalidQuantity
	}
	if p.Quantity.LessThan(qty) {
		return p, domain.ErrInsufficientStock
	}
	return Position{
		Quantity:    p.Quantity.Sub(qty).Round(QuantityPrecision),
		AverageCost: p.AverageCost,
	}, nil
}

// ApplySalidaUnchecked aplica una salida sin verificar disponibilidad. Lo usan
// el replay de recálculo y el kardex, donde la historia puede contener saldos
// transitorios negativos tras anular entradas; el saldo negativo es una señal
// de deriva, no un error del replay.
func ApplySalidaUnchecked(p Position, qty decimal.Decimal) (Position, error) {
	if !qty.GreaterThan(decimal.Zero) {
		return p, domain.ErrInvalidQuantity
	}
	return Position{
		Quantity:    p.Quantity.Sub(qty).Round(QuantityPrecision),
		AverageCost: p.AverageCost,
	}, nil
}
