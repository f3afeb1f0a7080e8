package repository

import (
	"context"
	"time"

	"github.com/jhoicas/reparo-api/internal/domain/entity"
)

// FiscalDocumentRepository define el puerto de persistencia para documentos fiscales.
// Una sola tabla canónica: fiscal_documents.
type FiscalDocumentRepository interface {
	Create(ctx context.Context, doc *entity.FiscalDocument) error
	GetByID(ctx context.Context, orgID, id string) (*entity.FiscalDocument, error)
	// List devuelve una página de documentos que cumplen q, ordenados por fecha de emisión
	// descendente (desempate: created_at e id descendentes).
	List(ctx context.Context, orgID string, q FiscalDocumentQuery) ([]*entity.FiscalDocument, error)
	CountByOrganization(ctx context.Context, orgID string) (int, error)
	// UpdateTransition persiste el resultado de una transición solo si el estado en base
	// sigue siendo expected; si no, domain.ErrConflict.
	UpdateTransition(ctx context.Context, doc *entity.FiscalDocument, expected string) error
	// DeleteDraft elimina solo borradores. Devuelve domain.ErrConflict si el documento ya no es draft.
	DeleteDraft(ctx context.Context, orgID, id string) error
}

// FiscalDocumentQuery filtros exactos que resuelve la base más la página por cursor.
// La búsqueda de texto (sin acentos) no viaja aquí: la aplica el caso de uso.
type FiscalDocumentQuery struct {
	Status string
	Type   string
	From   *time.Time // inclusive
	To     *time.Time // inclusive
	After  *FiscalCursor
	Limit  int
}

// FiscalCursor último documento de la página anterior.
type FiscalCursor struct {
	IssueDate time.Time
	CreatedAt time.Time
	ID        string
}

// CursorOf cursor que continúa después de doc.
func CursorOf(doc *entity.FiscalDocument) *FiscalCursor {
	return &FiscalCursor{IssueDate: doc.IssueDate, CreatedAt: doc.CreatedAt, ID: doc.ID}
}
