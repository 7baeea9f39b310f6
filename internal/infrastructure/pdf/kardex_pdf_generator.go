// Package pdf implementa la generación del reporte kardex en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Kardex de inventario │ Artículo + Bodega + Fecha   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Tipo | Doc | Entrada | Salida | Saldo | CP  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Entradas / Salidas / Saldo final / Valoración     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	appkardex "github.com/jhoicas/kardex-api/internal/application/kardex"
	"github.com/jhoicas/kardex-api/internal/domain/costing"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ appkardex.PDFGenerator = (*MarotoKardexGenerator)(nil)

// MarotoKardexGenerator implementa kardex.PDFGenerator usando Maroto v2.
type MarotoKardexGenerator struct{}

// NewMarotoKardexGenerator construye el generador.
func NewMarotoKardexGenerator() *MarotoKardexGenerator { return &MarotoKardexGenerator{} }

// GenerateKardexPDF genera el PDF y devuelve sus bytes.
func (g *MarotoKardexGenerator) GenerateKardexPDF(
	_ context.Context,
	item *entity.Item,
	warehouse *entity.Warehouse,
	rows []costing.KardexRow,
	summary costing.KardexSummary,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Kardex de inventario", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(item, warehouse))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableDetailRows(rows) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(summaryRow(summary))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: título (izq) y artículo + bodega + fecha de emisión (der).
func headerRow(item *entity.Item, warehouse *entity.Warehouse) core.Row {
	emitted := time.Now().Format("02/01/2006 15:04")
	return row.New(18).Add(
		col.New(6).Add(
			text.New("KARDEX DE INVENTARIO", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Costo promedio ponderado", props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(6).Add(
			text.New(fmt.Sprintf("%s — %s (%s)", item.Code, item.Name, item.UnitOfMeasure), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 1,
			}),
			text.New("Bodega: "+warehouse.Code+" — "+warehouse.Name, props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
			text.New("Emitido: "+emitted, props.Text{
				Size: 7, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de filas del kardex.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 7, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 1, align.Left),
		h("Tipo", 2, align.Left),
		h("Documento", 2, align.Left),
		h("Entrada", 2, align.Right),
		h("Salida", 2, align.Right),
		h("Saldo", 1, align.Right),
		h("Costo Prom.", 1, align.Right),
		h("Valoración", 1, align.Right),
	)
}

// tableDetailRows: una fila por movimiento replicado.
func tableDetailRows(rows []costing.KardexRow) []core.Row {
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{
			Size: 7, Align: a, Top: 1, Left: 1, Right: 1,
		}))
	}
	result := make([]core.Row, 0, len(rows))
	for _, r := range rows {
		entry, exit := "", ""
		if !r.EntryQuantity.IsZero() {
			entry = r.EntryQuantity.StringFixed(2) + " / $" + r.EntryValue.StringFixed(2)
		}
		if !r.ExitQuantity.IsZero() {
			exit = r.ExitQuantity.StringFixed(2) + " / $" + r.ExitValue.StringFixed(2)
		}
		result = append(result, row.New(6).Add(
			cell(r.Date.Format("02/01/2006"), 1, align.Left),
			cell(movementLabel(r.MovementType, r.MovementSubtype), 2, align.Left),
			cell(r.ReferenceDocument, 2, align.Left),
			cell(entry, 2, align.Right),
			cell(exit, 2, align.Right),
			cell(r.Balance.StringFixed(2), 1, align.Right),
			cell("$"+r.AverageCost.StringFixed(4), 1, align.Right),
			cell("$"+r.BalanceValue.StringFixed(2), 1, align.Right),
		))
	}
	return result
}

// summaryRow: totales de la historia filtrada completa.
func summaryRow(summary costing.KardexSummary) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 8, Align: align.Right, Right: 1})
	}
	grandLabel := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right,
			Color: colorPrimary, Right: 2,
		})
	}
	grandValue := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	return row.New(30).Add(
		col.New(4),
		col.New(4).Add(
			label("Total entradas:"),
			label("Total salidas:"),
			label("Saldo final:"),
			label("Costo promedio:"),
			grandLabel("VALORACIÓN FINAL:"),
		),
		col.New(4).Add(
			value(summary.TotalEntries.StringFixed(2)),
			value(summary.TotalExits.StringFixed(2)),
			value(summary.FinalBalance.StringFixed(2)),
			value("$"+summary.AverageCost.StringFixed(4)),
			grandValue("$"+summary.FinalValuation.StringFixed(2)),
		),
	)
}

func movementLabel(movType, subtype string) string {
	if subtype == "" {
		return movType
	}
	return movType + " / " + subtype
}
