package fiscal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/reparo-api/internal/application/dto"
	"github.com/jhoicas/reparo-api/internal/domain"
	"github.com/jhoicas/reparo-api/internal/domain/contact"
	"github.com/jhoicas/reparo-api/internal/domain/entity"
	domfiscal "github.com/jhoicas/reparo-api/internal/domain/fiscal"
	"github.com/jhoicas/reparo-api/internal/domain/repository"
	"github.com/jhoicas/reparo-api/pkg/money"
)

// brasilia hora en la que se imprimen las fechas, igual que el comprobante y el PDF.
var brasilia = time.FixedZone("BRT", -3*60*60)

// Rendered archivo generado listo para enviar por HTTP.
type Rendered struct {
	Body        []byte
	Filename    string
	ContentType string
}

// DocumentUseCase genera las representaciones de un documento: comprobante HTML,
// PDF, XML y el texto para compartir.
type DocumentUseCase struct {
	docs      repository.FiscalDocumentRepository
	orgs      repository.OrganizationRepository
	customers repository.CustomerRepository
	receipt   ReceiptRenderer
	pdf       PDFGenerator
	xml       XMLBuilder
	now       func() time.Time
}

// NewDocumentUseCase construye el caso de uso inyectando todas sus dependencias.
func NewDocumentUseCase(
	docs repository.FiscalDocumentRepository,
	orgs repository.OrganizationRepository,
	customers repository.CustomerRepository,
	receipt ReceiptRenderer,
	pdf PDFGenerator,
	xml XMLBuilder,
) *DocumentUseCase {
	return &DocumentUseCase{
		docs:      docs,
		orgs:      orgs,
		customers: customers,
		receipt:   receipt,
		pdf:       pdf,
		xml:       xml,
		now:       time.Now,
	}
}

// Receipt genera el comprobante HTML (thermal o a4). Se permite en cualquier estado:
// un borrador sale sin número ni chave.
func (uc *DocumentUseCase) Receipt(ctx context.Context, orgID, id, layout string) (*Rendered, error) {
	if layout == "" {
		layout = LayoutThermal
	}
	if layout != LayoutThermal && layout != LayoutA4 {
		return nil, fmt.Errorf("%w: layout debe ser %s o %s", domain.ErrInvalidInput, LayoutThermal, LayoutA4)
	}
	doc, issuer, err := uc.load(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	body, err := uc.receipt.RenderReceipt(doc, issuer, layout)
	if err != nil {
		return nil, fmt.Errorf("fiscal: renderizar comprobante: %w", err)
	}
	return &Rendered{
		Body:        body,
		Filename:    baseFilename(doc) + "-" + layout + ".html",
		ContentType: "text/html; charset=utf-8",
	}, nil
}

// PDF genera la representación gráfica A4. Solo para documentos con chave de acesso.
func (uc *DocumentUseCase) PDF(ctx context.Context, orgID, id string) (*Rendered, error) {
	doc, issuer, err := uc.load(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if err := requireIssued(doc); err != nil {
		return nil, err
	}
	body, err := uc.pdf.GenerateFiscalPDF(ctx, doc, issuer)
	if err != nil {
		return nil, fmt.Errorf("fiscal: generación de PDF fallida: %w", err)
	}
	return &Rendered{Body: body, Filename: baseFilename(doc) + ".pdf", ContentType: "application/pdf"}, nil
}

// XML genera el XML simulado de la nota. Solo para documentos con chave de acesso.
func (uc *DocumentUseCase) XML(ctx context.Context, orgID, id string) (*Rendered, error) {
	doc, issuer, err := uc.load(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if err := requireIssued(doc); err != nil {
		return nil, err
	}
	body, err := uc.xml.BuildXML(doc, issuer)
	if err != nil {
		return nil, fmt.Errorf("fiscal: generación de XML fallida: %w", err)
	}
	return &Rendered{Body: body, Filename: baseFilename(doc) + ".xml", ContentType: "application/xml"}, nil
}

// Share arma el texto del comprobante y los enlaces para enviarlo al cliente.
func (uc *DocumentUseCase) Share(ctx context.Context, orgID, id string) (*dto.ShareResponse, error) {
	doc, issuer, err := uc.load(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	text := ShareText(doc, issuer)

	var phone, whatsapp, email string
	if doc.CustomerID != "" {
		customer, err := uc.customers.GetByID(ctx, orgID, doc.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("fiscal: obtener cliente: %w", err)
		}
		if customer != nil {
			phone, whatsapp, email = customer.Phone, customer.WhatsApp, customer.Email
		}
	}
	links := contact.Build(phone, whatsapp, email, text)
	return &dto.ShareResponse{
		Text:     text,
		WhatsApp: links.WhatsApp,
		Mailto:   links.Mailto,
		SMS:      links.SMS,
	}, nil
}

// ShareText resumen de una línea por dato, en portugués.
func ShareText(doc *entity.FiscalDocument, issuer *entity.Organization) string {
	var b strings.Builder
	if issuer != nil && issuer.Name != "" {
		b.WriteString(issuer.Name + "\n")
	}
	b.WriteString(domfiscal.TypeLabel(doc.Type))
	if doc.Number != "" {
		b.WriteString(" " + doc.Number)
	}
	b.WriteString(" (" + domfiscal.StatusLabel(doc.Status) + ")\n")
	b.WriteString("Data: " + doc.IssueDate.In(brasilia).Format("02/01/2006 15:04") + "\n")
	b.WriteString("Valor: " + money.FormatBRL(doc.TotalValue))
	if doc.AccessKey != "" {
		b.WriteString("\nChave de acesso: " + domfiscal.FormatAccessKey(doc.AccessKey))
	}
	return b.String()
}

func (uc *DocumentUseCase) load(ctx context.Context, orgID, id string) (*entity.FiscalDocument, *entity.Organization, error) {
	doc, err := loadDocument(ctx, uc.docs, orgID, id, uc.now())
	if err != nil {
		return nil, nil, err
	}
	issuer, err := uc.orgs.GetByID(ctx, orgID)
	if err != nil {
		return nil, nil, fmt.Errorf("fiscal: obtener organización: %w", err)
	}
	if issuer == nil {
		return nil, nil, domain.ErrNotFound
	}
	return doc, issuer, nil
}

func requireIssued(doc *entity.FiscalDocument) error {
	if doc.Status == entity.FiscalStatusDraft || doc.AccessKey == "" {
		return fmt.Errorf("%w: el documento está en estado %s, emítalo antes de descargar",
			domain.ErrNotIssued, doc.Status)
	}
	return nil
}

func baseFilename(doc *entity.FiscalDocument) string {
	ref := doc.Number
	if ref == "" {
		ref = doc.ID
	}
	return strings.ToLower(doc.Type) + "_" + safeFilename(ref)
}

// safeFilename deja solo [A-Za-z0-9._-]; el número importado lo informa el cliente
// y termina dentro de Content-Disposition.
func safeFilename(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			return r
		}
		return '_'
	}, s)
}
