package kardex

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/costing"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// PDFGenerator define el puerto de generación del reporte kardex en PDF.
// La implementación vive en infraestructura (Maroto).
type PDFGenerator interface {
	GenerateKardexPDF(
		ctx context.Context,
		item *entity.Item,
		warehouse *entity.Warehouse,
		rows []costing.KardexRow,
		summary costing.KardexSummary,
	) ([]byte, error)
}
