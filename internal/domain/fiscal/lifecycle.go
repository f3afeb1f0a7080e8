package fiscal

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/reparo-api/internal/domain"
	"github.com/jhoicas/reparo-api/internal/domain/entity"
)

// Plazos de cancelación por defecto.
const (
	DefaultCancelWindowNFCe = 72 * time.Hour
	DefaultCancelWindowNF   = 720 * time.Hour
	DefaultCancelWindowNFS  = 720 * time.Hour
)

// Policy define el plazo de cancelación por tipo de documento.
type Policy struct {
	CancelWindows map[string]time.Duration
}

// DefaultPolicy plazos estándar: NFC-e 72h, NF-e y NFS-e 720h.
func DefaultPolicy() Policy {
	return Policy{CancelWindows: map[string]time.Duration{
		entity.FiscalTypeNFCe: DefaultCancelWindowNFCe,
		entity.FiscalTypeNF:   DefaultCancelWindowNF,
		entity.FiscalTypeNFS:  DefaultCancelWindowNFS,
	}}
}

// CancelWindow devuelve el plazo del tipo. Un tipo sin plazo configurado no se puede cancelar.
func (p Policy) CancelWindow(docType string) time.Duration {
	return p.CancelWindows[docType]
}

// Lifecycle aplica las transiciones de estado del documento fiscal.
// Las funciones mutan solo el documento recibido; persistir es responsabilidad del caso de uso.
type Lifecycle struct {
	gen    *Generator
	policy Policy
}

// NewLifecycle construye la máquina de estados.
func NewLifecycle(gen *Generator, policy Policy) *Lifecycle {
	if policy.CancelWindows == nil {
		policy = DefaultPolicy()
	}
	return &Lifecycle{gen: gen, policy: policy}
}

// Policy devuelve la política de plazos vigente.
func (l *Lifecycle) Policy() Policy { return l.policy }

// Issue autoriza un borrador: asigna número, chave y fecha de autorización.
func (l *Lifecycle) Issue(doc *entity.FiscalDocument, now time.Time) error {
	if doc == nil {
		return domain.ErrInvalidInput
	}
	if doc.Status != entity.FiscalStatusDraft {
		return fmt.Errorf("%w: emitir desde %q", domain.ErrInvalidTransition, doc.Status)
	}
	ids, err := l.gen.Next(doc.Type, doc.Series)
	if err != nil {
		return err
	}
	doc.Number = ids.Number
	doc.Series = ids.Series
	doc.AccessKey = ids.AccessKey
	doc.Status = entity.FiscalStatusAuthorized
	if doc.IssueDate.IsZero() {
		doc.IssueDate = now
	}
	authorized := now
	doc.AuthorizationDate = &authorized
	doc.UpdatedAt = now
	return nil
}

// CancelDeadline momento límite para cancelar. ok=false si el documento no está autorizado.
// El plazo corre desde la autorización; si falta, desde la emisión.
func (l *Lifecycle) CancelDeadline(doc *entity.FiscalDocument) (time.Time, bool) {
	if doc == nil || doc.Status != entity.FiscalStatusAuthorized {
		return time.Time{}, false
	}
	from := doc.IssueDate
	if doc.AuthorizationDate != nil {
		from = *doc.AuthorizationDate
	}
	return from.Add(l.policy.CancelWindow(doc.Type)), true
}

// CanCancel informa si el documento todavía puede cancelarse en now.
func (l *Lifecycle) CanCancel(doc *entity.FiscalDocument, now time.Time) bool {
	deadline, ok := l.CancelDeadline(doc)
	return ok && !now.After(deadline)
}

// Cancel pasa un documento autorizado a cancelado si está dentro del plazo del tipo.
func (l *Lifecycle) Cancel(doc *entity.FiscalDocument, reason string, now time.Time) error {
	if doc == nil {
		return domain.ErrInvalidInput
	}
	if doc.Status != entity.FiscalStatusAuthorized {
		return fmt.Errorf("%w: cancelar desde %q", domain.ErrInvalidTransition, doc.Status)
	}
	if !l.CanCancel(doc, now) {
		return fmt.Errorf("%w: %s permite %s", domain.ErrCancelWindowExpired,
			strings.ToUpper(doc.Type), l.policy.CancelWindow(doc.Type))
	}
	canceled := now
	doc.Status = entity.FiscalStatusCanceled
	doc.CancelationDate = &canceled
	doc.CancelReason = strings.TrimSpace(reason)
	doc.UpdatedAt = now
	return nil
}

// Reissue crea un documento nuevo a partir de uno autorizado o pendiente y lo emite.
// El original no se modifica. El ID del nuevo documento lo asigna el llamador.
func (l *Lifecycle) Reissue(orig *entity.FiscalDocument, now time.Time) (*entity.FiscalDocument, error) {
	if orig == nil {
		return nil, domain.ErrInvalidInput
	}
	switch orig.Status {
	case entity.FiscalStatusAuthorized, entity.FiscalStatusPending:
	default:
		return nil, fmt.Errorf("%w: reemitir desde %q", domain.ErrInvalidTransition, orig.Status)
	}

	items := make([]entity.FiscalItem, len(orig.Items))
	copy(items, orig.Items)

	ref := orig.Number
	if ref == "" {
		ref = orig.ID
	}
	doc := &entity.FiscalDocument{
		OrganizationID:   orig.OrganizationID,
		Type:             orig.Type,
		Series:           orig.Series,
		Status:           entity.FiscalStatusDraft,
		CustomerID:       orig.CustomerID,
		CustomerName:     orig.CustomerName,
		CustomerDocument: orig.CustomerDocument,
		ServiceID:        orig.ServiceID,
		Description:      "Reemissão do documento " + ref,
		Items:            items,
		TotalValue:       orig.TotalValue,
		IssueDate:        now,
		ReissuedFromID:   orig.ID,
		Source:           entity.FiscalSourceInternal,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := l.Issue(doc, now); err != nil {
		return nil, err
	}
	return doc, nil
}

// ConfirmExternal autoriza un documento importado (pending) tras la consulta de estado.
// Conserva número y chave informados por la fuente externa; si faltan, los genera.
func (l *Lifecycle) ConfirmExternal(doc *entity.FiscalDocument, now time.Time) error {
	if doc == nil {
		return domain.ErrInvalidInput
	}
	if doc.Status != entity.FiscalStatusPending {
		return fmt.Errorf("%w: confirmar desde %q", domain.ErrInvalidTransition, doc.Status)
	}
	if doc.Number == "" || !IsValidAccessKey(doc.AccessKey) {
		ids, err := l.gen.Next(doc.Type, doc.Series)
		if err != nil {
			return err
		}
		if doc.Number == "" {
			doc.Number = ids.Number
		}
		if !IsValidAccessKey(doc.AccessKey) {
			doc.AccessKey = ids.AccessKey
		}
		doc.Series = ids.Series
	}
	authorized := now
	doc.Status = entity.FiscalStatusAuthorized
	doc.AuthorizationDate = &authorized
	doc.UpdatedAt = now
	return nil
}

// CanDelete solo los borradores pueden eliminarse.
func CanDelete(doc *entity.FiscalDocument) bool {
	return doc != nil && doc.Status == entity.FiscalStatusDraft
}
