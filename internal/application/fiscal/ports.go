package fiscal

import (
	"context"

	"github.com/jhoicas/reparo-api/internal/domain/entity"
)

// Layouts del comprobante HTML.
const (
	LayoutThermal = "thermal" // bobina de 80mm
	LayoutA4      = "a4"
)

// ReceiptRenderer genera el comprobante HTML (CSS embebido) de un documento.
type ReceiptRenderer interface {
	RenderReceipt(doc *entity.FiscalDocument, issuer *entity.Organization, layout string) ([]byte, error)
}

// PDFGenerator genera la representación gráfica en PDF (A4 con QR de la chave).
type PDFGenerator interface {
	GenerateFiscalPDF(ctx context.Context, doc *entity.FiscalDocument, issuer *entity.Organization) ([]byte, error)
}

// XMLBuilder genera el XML simulado de la nota con su digest.
type XMLBuilder interface {
	BuildXML(doc *entity.FiscalDocument, issuer *entity.Organization) ([]byte, error)
}
