package entity

import "time"

// Warehouse representa una bodega donde se almacena inventario (multi-bodega).
// AutoUpdateAverageCost controla el motor de costeo: en true cada entrada
// recalcula el costo promedio ponderado; en false el costo queda fijado y solo
// cambia por override manual (siempre auditado).
type Warehouse struct {
	ID                    string
	Code                  string
	Name                  string
	Location              string
	Active                bool
	AutoUpdateAverageCost bool
	CreatedAt             time.Time
	UpdatedAt             time.Time
}
