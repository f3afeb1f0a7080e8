// Package render genera el comprobante HTML de los documentos fiscales,
// en bobina térmica de 80mm o en hoja A4, con el CSS embebido.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	appfiscal "github.com/jhoicas/reparo-api/internal/application/fiscal"
	"github.com/jhoicas/reparo-api/internal/domain/entity"
	domfiscal "github.com/jhoicas/reparo-api/internal/domain/fiscal"
	"github.com/jhoicas/reparo-api/pkg/brdoc"
	"github.com/jhoicas/reparo-api/pkg/money"
)

//go:embed templates/*.html
var templatesFS embed.FS

var _ appfiscal.ReceiptRenderer = (*Renderer)(nil)

// brasilia UTC-3, sin horario de verano desde 2019.
var brasilia = time.FixedZone("BRT", -3*60*60)

const dateLayout = "02/01/2006 15:04"

// Renderer compila las plantillas una sola vez; es seguro para uso concurrente.
type Renderer struct {
	layouts map[string]*template.Template
	loc     *time.Location
}

// NewRenderer compila las plantillas embebidas. Fechas en horario de Brasília.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{layouts: make(map[string]*template.Template), loc: brasilia}
	for _, layout := range []string{appfiscal.LayoutThermal, appfiscal.LayoutA4} {
		tpl, err := template.ParseFS(templatesFS, "templates/"+layout+".html")
		if err != nil {
			return nil, fmt.Errorf("render: plantilla %s: %w", layout, err)
		}
		r.layouts[layout] = tpl
	}
	return r, nil
}

// WithLocation cambia la zona horaria de las fechas impresas.
func (r *Renderer) WithLocation(loc *time.Location) *Renderer {
	cp := *r
	cp.loc = loc
	return &cp
}

// RenderReceipt genera el HTML del comprobante. No tiene efectos secundarios.
func (r *Renderer) RenderReceipt(doc *entity.FiscalDocument, issuer *entity.Organization, layout string) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("render: documento nil")
	}
	tpl, ok := r.layouts[layout]
	if !ok {
		return nil, fmt.Errorf("render: layout desconocido %q", layout)
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, r.view(doc, issuer)); err != nil {
		return nil, fmt.Errorf("render: ejecutar plantilla: %w", err)
	}
	return buf.Bytes(), nil
}

type issuerView struct {
	Name     string
	Document string
	Email    string
	Phone    string
}

type itemView struct {
	Description string
	Quantity    string
	UnitPrice   string
	Total       string
}

type receiptView struct {
	Issuer            issuerView
	TypeLabel         string
	Number            string
	Series            string
	StatusLabel       string
	Canceled          bool
	AccessKey         string
	IssueDate         string
	AuthorizationDate string
	CancelationDate   string
	CancelReason      string
	CustomerName      string
	CustomerDocument  string
	Description       string
	ReissuedFrom      string
	Items             []itemView
	Total             string
}

func (r *Renderer) view(doc *entity.FiscalDocument, issuer *entity.Organization) receiptView {
	v := receiptView{
		TypeLabel:        domfiscal.TypeLabel(doc.Type),
		Number:           doc.Number,
		Series:           fmt.Sprintf("%03d", doc.Series),
		StatusLabel:      domfiscal.StatusLabel(doc.Status),
		Canceled:         doc.Status == entity.FiscalStatusCanceled,
		IssueDate:        r.formatDate(&doc.IssueDate),
		CancelReason:     doc.CancelReason,
		CustomerName:     doc.CustomerName,
		CustomerDocument: brdoc.Format(doc.CustomerDocument),
		Description:      doc.Description,
		Total:            money.FormatBRL(doc.TotalValue),
	}
	if issuer != nil {
		v.Issuer = issuerView{
			Name:     issuer.Name,
			Document: brdoc.Format(issuer.Document),
			Email:    issuer.Email,
			Phone:    issuer.Phone,
		}
	}
	if doc.AccessKey != "" {
		v.AccessKey = domfiscal.FormatAccessKey(doc.AccessKey)
	}
	v.AuthorizationDate = r.formatDate(doc.AuthorizationDate)
	v.CancelationDate = r.formatDate(doc.CancelationDate)
	if doc.ReissuedFromID != "" {
		v.ReissuedFrom = doc.Description
	}
	for _, it := range doc.Items {
		v.Items = append(v.Items, itemView{
			Description: it.Description,
			Quantity:    formatQuantity(it.Quantity),
			UnitPrice:   money.FormatBRL(it.UnitPrice),
			Total:       money.FormatBRL(it.Total),
		})
	}
	return v
}

func (r *Renderer) formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.In(r.loc).Format(dateLayout)
}

// formatQuantity "2" para enteros, "1,5" para fracciones.
func formatQuantity(q decimal.Decimal) string {
	if q.Equal(q.Truncate(0)) {
		return q.Truncate(0).String()
	}
	return strings.Replace(q.String(), ".", ",", 1)
}
