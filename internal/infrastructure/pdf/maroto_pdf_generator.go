// Package pdf implementa la representación gráfica en PDF de los documentos
// fiscales simulados (estilo DANFE simplificado).
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Razón social + CNPJ   │  Tipo + N° + Serie + Fecha │
//	│  ─────────────────────────────────────────────────────────  │
//	│  EMISOR: Email / Tel                                         │
//	│  DESTINATARIO: Nombre + CPF/CNPJ                            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Descripción | V.Unit | Total                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL                                                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: Chave de acesso + QR + situación                    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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

	appfiscal "github.com/jhoicas/reparo-api/internal/application/fiscal"
	"github.com/jhoicas/reparo-api/internal/domain/entity"
	domfiscal "github.com/jhoicas/reparo-api/internal/domain/fiscal"
	"github.com/jhoicas/reparo-api/pkg/brdoc"
	"github.com/jhoicas/reparo-api/pkg/money"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorRed     = &props.Color{Red: 176, Green: 0, Blue: 32}
)

var _ appfiscal.PDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa fiscal.PDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	statusURL string // URL de consulta impresa en el QR junto a la chave
	loc       *time.Location
}

// NewMarotoPDFGenerator construye el generador. statusURL puede ir vacío: el QR lleva solo la chave.
func NewMarotoPDFGenerator(statusURL string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{statusURL: statusURL, loc: time.FixedZone("BRT", -3*60*60)}
}

// GenerateFiscalPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateFiscalPDF(
	_ context.Context,
	doc *entity.FiscalDocument,
	issuer *entity.Organization,
) ([]byte, error) {
	if doc == nil || issuer == nil {
		return nil, fmt.Errorf("pdf: documento y emisor son obligatorios")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(domfiscal.TypeLabel(doc.Type)+" "+doc.Number, true).
		WithAuthor(issuer.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(doc, issuer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(emisorRow(issuer))
	m.AddRows(destinatarioRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	if doc.Status == entity.FiscalStatusCanceled {
		m.AddRows(g.canceledRow(doc))
	}

	m.AddRows(tableHeaderRow())
	m.AddRows(tableItemRows(doc.Items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(doc))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(g.footerRows(doc)...)

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// QRContent contenido del QR: URL de consulta con la chave, o solo la chave.
func (g *MarotoPDFGenerator) QRContent(doc *entity.FiscalDocument) string {
	if g.statusURL == "" {
		return doc.AccessKey
	}
	sep := "?"
	if strings.Contains(g.statusURL, "?") {
		sep = "&"
	}
	return g.statusURL + sep + "chNFe=" + doc.AccessKey
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: razón social + CNPJ (izq) y tipo, número y fecha (der).
func (g *MarotoPDFGenerator) headerRow(doc *entity.FiscalDocument, issuer *entity.Organization) core.Row {
	return row.New(22).Add(
		col.New(7).Add(
			text.New(issuer.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("CNPJ: "+nonEmpty(brdoc.Format(issuer.Document), "-"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(strings.ToUpper(domfiscal.TypeLabel(doc.Type)), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(doc.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New(fmt.Sprintf("Série %03d", doc.Series), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
			text.New("Emissão: "+doc.IssueDate.In(g.loc).Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 17, Color: colorGray,
			}),
		),
	)
}

// emisorRow: contacto del emisor.
func emisorRow(issuer *entity.Organization) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("EMITENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Email: %s   |   Tel: %s",
				nonEmpty(issuer.Email, "-"),
				nonEmpty(issuer.Phone, "-"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// destinatarioRow: datos del cliente.
func destinatarioRow(doc *entity.FiscalDocument) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("DESTINATÁRIO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(doc.CustomerName, "Consumidor não identificado"), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New("CPF/CNPJ: "+nonEmpty(brdoc.Format(doc.CustomerDocument), "-"), props.Text{
				Size: 8, Top: 12, Color: colorGray,
			}),
		),
	)
}

// canceledRow: sello de cancelación con fecha y motivo.
func (g *MarotoPDFGenerator) canceledRow(doc *entity.FiscalDocument) core.Row {
	when := ""
	if doc.CancelationDate != nil {
		when = doc.CancelationDate.In(g.loc).Format("02/01/2006 15:04")
	}
	return row.New(16).Add(col.New(12).Add(
		text.New("DOCUMENTO CANCELADO", props.Text{
			Style: fontstyle.Bold, Size: 14, Align: align.Center, Color: colorRed, Top: 1,
		}),
		text.New(strings.TrimSpace(when+"  "+doc.CancelReason), props.Text{
			Size: 8, Align: align.Center, Color: colorRed, Top: 9,
		}),
	))
}

// tableHeaderRow: cabecera de la tabla de ítems.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Qtd.", 1, align.Center),
		h("Descrição", 6, align.Left),
		h("Valor unit.", 2, align.Right),
		h("Total", 3, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableItemRows: una fila por ítem.
func tableItemRows(items []entity.FiscalItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				it.Quantity.String(),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(6).Add(text.New(
				it.Description,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				money.FormatBRL(it.UnitPrice),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(3).Add(text.New(
				money.FormatBRL(it.Total),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalRow: valor total alineado a la derecha.
func totalRow(doc *entity.FiscalDocument) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(text.New("VALOR TOTAL:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2, Top: 2,
		})),
		col.New(3).Add(text.New(money.FormatBRL(doc.TotalValue), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1, Top: 2,
		})),
	)
}

// footerRows: chave de acesso + QR + situación.
func (g *MarotoPDFGenerator) footerRows(doc *entity.FiscalDocument) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("CHAVE DE ACESSO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
		row.New(6).Add(col.New(12).Add(
			text.New(domfiscal.FormatAccessKey(doc.AccessKey), props.Text{
				Size: 10, Top: 1, Family: "courier",
			}),
		)),
		row.New(3),
	}

	status := "Situação: " + domfiscal.StatusLabel(doc.Status)
	if doc.AuthorizationDate != nil {
		status += "  |  Autorização: " + doc.AuthorizationDate.In(g.loc).Format("02/01/2006 15:04")
	}
	rows = append(rows, row.New(45).Add(
		col.New(4).Add(code.NewQr(g.QRContent(doc), props.Rect{
			Percent: 95,
			Center:  true,
		})),
		col.New(8).Add(
			text.New(status, props.Text{
				Size: 8, Top: 4, Left: 3, Color: colorGray,
			}),
			text.New("Escaneie o QR para consultar a chave de acesso.", props.Text{
				Size: 8, Top: 10, Left: 3, Color: colorGray,
			}),
			text.New("Documento sem valor fiscal\nRepresentação simulada", props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 22, Left: 3, Color: colorPrimary,
			}),
		),
	))
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
