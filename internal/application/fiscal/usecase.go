// Package fiscal orquesta el ciclo de vida de los documentos fiscales simulados
// (NF-e, NFC-e, NFS-e): borrador, emisión, cancelación, reemisión e importación.
//
// Cada transición se persiste con un UPDATE condicionado al estado esperado;
// si otro cliente cambió el documento antes, el caso de uso devuelve domain.ErrConflict.
package fiscal

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/reparo-api/internal/application/dto"
	"github.com/jhoicas/reparo-api/internal/application/ports"
	"github.com/jhoicas/reparo-api/internal/domain"
	"github.com/jhoicas/reparo-api/internal/domain/entity"
	domfiscal "github.com/jhoicas/reparo-api/internal/domain/fiscal"
	"github.com/jhoicas/reparo-api/internal/domain/repository"
	"github.com/jhoicas/reparo-api/pkg/brdoc"
	"github.com/jhoicas/reparo-api/pkg/logger"
)

// Acciones registradas en métricas y logs.
const (
	ActionCreate  = "create"
	ActionIssue   = "issue"
	ActionCancel  = "cancel"
	ActionReissue = "reissue"
	ActionImport  = "import"
	ActionConfirm = "confirm"
	ActionDelete  = "delete"
)

// listPageSize documentos leídos por consulta al recorrer el listado.
const listPageSize = 500

const tableName = "fiscal_documents"

// maxNumberLength largo de la columna fiscal_documents.number.
const maxNumberLength = 30

// errDemoReadOnly los documentos de demostración no admiten transiciones.
var errDemoReadOnly = fmt.Errorf("%w: documento de demostración", domain.ErrInvalidInput)

// UseCase casos de uso del ciclo de vida fiscal.
type UseCase struct {
	docs      repository.FiscalDocumentRepository
	customers repository.CustomerRepository
	services  repository.ServiceOrderRepository
	lifecycle *domfiscal.Lifecycle
	checker   ports.StatusChecker
	notifier  ports.Notifier
	publisher ports.ChangePublisher
	metrics   ports.TransitionRecorder
	log       *logger.Logger
	now       func() time.Time
	series    int
}

// NewUseCase construye el caso de uso inyectando todas sus dependencias.
// publisher, notifier y metrics pueden ser nil.
func NewUseCase(
	docs repository.FiscalDocumentRepository,
	customers repository.CustomerRepository,
	services repository.ServiceOrderRepository,
	lifecycle *domfiscal.Lifecycle,
	checker ports.StatusChecker,
	notifier ports.Notifier,
	publisher ports.ChangePublisher,
	metrics ports.TransitionRecorder,
	log *logger.Logger,
) *UseCase {
	if publisher == nil {
		publisher = ports.NopPublisher{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		docs:      docs,
		customers: customers,
		services:  services,
		lifecycle: lifecycle,
		checker:   checker,
		notifier:  notifier,
		publisher: publisher,
		metrics:   metrics,
		log:       log.Component("fiscal"),
		now:       time.Now,
		series:    domfiscal.DefaultSeries,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// WithDefaultSeries serie usada cuando la solicitud no informa una.
func (uc *UseCase) WithDefaultSeries(series int) *UseCase {
	if series > 0 {
		uc.series = series
	}
	return uc
}

// ── Consultas ─────────────────────────────────────────────────────────────────

// List devuelve los documentos filtrados. Si la organización todavía no tiene documentos
// persistidos devuelve el conjunto de demostración con Demo=true.
func (uc *UseCase) List(ctx context.Context, orgID string, req dto.FiscalDocumentListRequest) (*dto.FiscalDocumentListResponse, error) {
	criteria, err := parseCriteria(req)
	if err != nil {
		return nil, err
	}
	now := uc.now()

	count, err := uc.docs.CountByOrganization(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("fiscal: contar documentos: %w", err)
	}

	var filtered []entity.FiscalDocument
	demo := count == 0
	if demo {
		filtered = domfiscal.Filter(domfiscal.DemoDocuments(orgID, now), criteria)
	} else {
		filtered, err = uc.listPersisted(ctx, orgID, criteria)
		if err != nil {
			return nil, err
		}
	}

	out := &dto.FiscalDocumentListResponse{
		Items: make([]dto.FiscalDocumentResponse, 0, len(filtered)),
		Total: len(filtered),
		Demo:  demo,
	}
	for i := range filtered {
		out.Items = append(out.Items, toResponse(&filtered[i], uc.lifecycle, now))
	}
	return out, nil
}

// listPersisted recorre todas las páginas. Estado, tipo y fechas los filtra la base;
// Filter aplica la búsqueda sin acentos sobre cada página y conserva el orden.
func (uc *UseCase) listPersisted(ctx context.Context, orgID string, c domfiscal.Criteria) ([]entity.FiscalDocument, error) {
	q := repository.FiscalDocumentQuery{
		Status: c.Status,
		Type:   c.Type,
		From:   c.From,
		To:     c.To,
		Limit:  listPageSize,
	}
	var out []entity.FiscalDocument
	for {
		rows, err := uc.docs.List(ctx, orgID, q)
		if err != nil {
			return nil, fmt.Errorf("fiscal: listar documentos: %w", err)
		}
		page := make([]entity.FiscalDocument, 0, len(rows))
		for _, d := range rows {
			page = append(page, *d)
		}
		out = append(out, domfiscal.Filter(page, c)...)
		if len(rows) < listPageSize {
			return out, nil
		}
		q.After = repository.CursorOf(rows[len(rows)-1])
	}
}

// Get devuelve un documento de la organización (incluye los de demostración).
func (uc *UseCase) Get(ctx context.Context, orgID, id string) (*dto.FiscalDocumentResponse, error) {
	doc, err := loadDocument(ctx, uc.docs, orgID, id, uc.now())
	if err != nil {
		return nil, err
	}
	out := toResponse(doc, uc.lifecycle, uc.now())
	return &out, nil
}

// ── Alta ──────────────────────────────────────────────────────────────────────

// Create registra un borrador. total_value = Σ quantity × unit_price.
// Si no hay ítems y se informa una orden de servicio, se factura el total de la orden.
func (uc *UseCase) Create(ctx context.Context, orgID, userID string, in dto.CreateFiscalDocumentRequest) (*dto.FiscalDocumentResponse, error) {
	if !entity.IsValidFiscalType(in.Type) {
		return nil, domain.ErrInvalidDocumentType
	}
	now := uc.now()
	doc := &entity.FiscalDocument{
		ID:               uuid.New().String(),
		OrganizationID:   orgID,
		Type:             in.Type,
		Series:           in.Series,
		Status:           entity.FiscalStatusDraft,
		CustomerName:     strings.TrimSpace(in.CustomerName),
		CustomerDocument: strings.TrimSpace(in.CustomerDocument),
		Description:      strings.TrimSpace(in.Description),
		Items:            toEntityItems(in.Items),
		IssueDate:        now,
		Source:           entity.FiscalSourceInternal,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if doc.Series <= 0 {
		doc.Series = uc.series
	}

	if in.CustomerID != "" {
		customer, err := uc.customers.GetByID(ctx, orgID, in.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("fiscal: obtener cliente: %w", err)
		}
		if customer == nil {
			return nil, fmt.Errorf("%w: cliente %s no existe", domain.ErrInvalidInput, in.CustomerID)
		}
		doc.CustomerID = customer.ID
		if doc.CustomerName == "" {
			doc.CustomerName = customer.Name
		}
		if doc.CustomerDocument == "" {
			doc.CustomerDocument = customer.Document
		}
	}

	if in.ServiceID != "" {
		svc, err := uc.services.GetByID(ctx, orgID, in.ServiceID)
		if err != nil {
			return nil, fmt.Errorf("fiscal: obtener orden de servicio: %w", err)
		}
		if svc == nil {
			return nil, fmt.Errorf("%w: orden de servicio %s no existe", domain.ErrInvalidInput, in.ServiceID)
		}
		doc.ServiceID = svc.ID
		if len(doc.Items) == 0 {
			doc.Items = []entity.FiscalItem{{
				Description: "Serviço " + svc.Code + ": " + svc.Problem,
				Quantity:    decimal.NewFromInt(1),
				UnitPrice:   svc.Total(),
				Total:       svc.Total(),
			}}
		}
		if doc.Description == "" {
			doc.Description = "Ordem de serviço " + svc.Code
		}
	}

	if err := validateItems(doc.Items); err != nil {
		return nil, err
	}
	if err := normalizeCustomerDocument(doc); err != nil {
		return nil, err
	}
	doc.TotalValue = sumItems(doc.Items)

	if err := uc.docs.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("fiscal: crear borrador: %w", err)
	}
	uc.after(ctx, userID, doc, ActionCreate, ports.ActionInsert, now)

	out := toResponse(doc, uc.lifecycle, now)
	return &out, nil
}

// Import registra un documento emitido fuera del sistema; queda pending hasta la consulta de estado.
func (uc *UseCase) Import(ctx context.Context, orgID, userID string, in dto.ImportFiscalDocumentRequest) (*dto.FiscalDocumentResponse, error) {
	if !entity.IsValidFiscalType(in.Type) {
		return nil, domain.ErrInvalidDocumentType
	}
	if in.AccessKey != "" && !domfiscal.IsValidAccessKey(in.AccessKey) {
		return nil, fmt.Errorf("%w: la chave de acesso debe tener %d dígitos", domain.ErrInvalidInput, domfiscal.AccessKeyLength)
	}
	if n := utf8.RuneCountInString(strings.TrimSpace(in.Number)); n > maxNumberLength {
		return nil, fmt.Errorf("%w: el número admite hasta %d caracteres", domain.ErrInvalidInput, maxNumberLength)
	}
	now := uc.now()
	doc := &entity.FiscalDocument{
		ID:               uuid.New().String(),
		OrganizationID:   orgID,
		Type:             in.Type,
		Series:           in.Series,
		Number:           strings.TrimSpace(in.Number),
		Status:           entity.FiscalStatusPending,
		AccessKey:        in.AccessKey,
		CustomerName:     strings.TrimSpace(in.CustomerName),
		CustomerDocument: strings.TrimSpace(in.CustomerDocument),
		Description:      strings.TrimSpace(in.Description),
		Items:            toEntityItems(in.Items),
		IssueDate:        now,
		Source:           entity.FiscalSourceExternal,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if doc.Series <= 0 {
		doc.Series = uc.series
	}
	if in.IssueDate != nil && !in.IssueDate.IsZero() {
		doc.IssueDate = *in.IssueDate
	}
	if len(doc.Items) > 0 {
		if err := validateItems(doc.Items); err != nil {
			return nil, err
		}
		doc.TotalValue = sumItems(doc.Items)
	} else {
		if !in.TotalValue.IsPositive() {
			return nil, fmt.Errorf("%w: informe ítems o total_value", domain.ErrInvalidInput)
		}
		doc.TotalValue = in.TotalValue.Round(2)
	}
	if err := normalizeCustomerDocument(doc); err != nil {
		return nil, err
	}

	if err := uc.docs.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("fiscal: importar documento: %w", err)
	}
	uc.after(ctx, userID, doc, ActionImport, ports.ActionInsert, now)

	out := toResponse(doc, uc.lifecycle, now)
	return &out, nil
}

// Delete elimina un borrador. Documentos emitidos no se borran: se cancelan.
func (uc *UseCase) Delete(ctx context.Context, orgID, userID, id string) error {
	if domfiscal.IsDemoID(id) {
		return errDemoReadOnly
	}
	doc, err := loadDocument(ctx, uc.docs, orgID, id, uc.now())
	if err != nil {
		return err
	}
	if !domfiscal.CanDelete(doc) {
		return fmt.Errorf("%w: solo se eliminan borradores (estado %q)", domain.ErrInvalidTransition, doc.Status)
	}
	if err := uc.docs.DeleteDraft(ctx, orgID, id); err != nil {
		return err
	}
	uc.publisher.Publish(ctx, ports.ChangeEvent{
		OrganizationID: orgID, Table: tableName, Action: ports.ActionDelete, ID: id, At: uc.now(),
	})
	uc.record(doc.Type, ActionDelete)
	uc.log.Info().Str("doc", id).Str("user", userID).Msg("borrador eliminado")
	return nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

// loadDocument busca el documento; los IDs demo-N resuelven al conjunto de demostración.
func loadDocument(ctx context.Context, docs repository.FiscalDocumentRepository, orgID, id string, now time.Time) (*entity.FiscalDocument, error) {
	if domfiscal.IsDemoID(id) {
		for _, d := range domfiscal.DemoDocuments(orgID, now) {
			if d.ID == id {
				return &d, nil
			}
		}
		return nil, domain.ErrNotFound
	}
	doc, err := docs.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, fmt.Errorf("fiscal: obtener documento: %w", err)
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

func parseCriteria(req dto.FiscalDocumentListRequest) (domfiscal.Criteria, error) {
	c := domfiscal.Criteria{
		Status: req.Status,
		Type:   req.Type,
		Search: strings.TrimSpace(req.Search),
	}
	if req.From != "" {
		from, err := time.ParseInLocation(time.DateOnly, req.From, time.UTC)
		if err != nil {
			return c, fmt.Errorf("%w: from debe ser YYYY-MM-DD", domain.ErrInvalidInput)
		}
		c.From = &from
	}
	if req.To != "" {
		to, err := time.ParseInLocation(time.DateOnly, req.To, time.UTC)
		if err != nil {
			return c, fmt.Errorf("%w: to debe ser YYYY-MM-DD", domain.ErrInvalidInput)
		}
		// el día completo es inclusivo
		end := to.Add(24*time.Hour - time.Nanosecond)
		c.To = &end
	}
	if c.From != nil && c.To != nil && c.From.After(*c.To) {
		return c, fmt.Errorf("%w: from posterior a to", domain.ErrInvalidInput)
	}
	return c, nil
}

func validateItems(items []entity.FiscalItem) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: el documento necesita al menos un ítem", domain.ErrInvalidInput)
	}
	for i, it := range items {
		if strings.TrimSpace(it.Description) == "" {
			return fmt.Errorf("%w: ítem %d sin descripción", domain.ErrInvalidInput, i+1)
		}
		if !it.Quantity.IsPositive() {
			return fmt.Errorf("%w: ítem %d con cantidad no positiva", domain.ErrInvalidInput, i+1)
		}
		if it.UnitPrice.IsNegative() {
			return fmt.Errorf("%w: ítem %d con precio negativo", domain.ErrInvalidInput, i+1)
		}
	}
	return nil
}

func sumItems(items []entity.FiscalItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Total)
	}
	return total.Round(2)
}

// normalizeCustomerDocument valida CPF/CNPJ y lo guarda con máscara.
func normalizeCustomerDocument(doc *entity.FiscalDocument) error {
	if doc.CustomerDocument == "" {
		return nil
	}
	if err := brdoc.Validate(doc.CustomerDocument); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidDocument, err)
	}
	doc.CustomerDocument = brdoc.Format(doc.CustomerDocument)
	return nil
}
