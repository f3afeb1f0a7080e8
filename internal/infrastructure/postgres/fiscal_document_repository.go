package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/reparo-api/internal/domain"
	"github.com/jhoicas/reparo-api/internal/domain/entity"
	"github.com/jhoicas/reparo-api/internal/domain/repository"
)

var _ repository.FiscalDocumentRepository = (*FiscalDocumentRepo)(nil)

// FiscalDocumentRepo implementación de FiscalDocumentRepository sobre la tabla fiscal_documents.
type FiscalDocumentRepo struct {
	q Querier
}

// NewFiscalDocumentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewFiscalDocumentRepository(q Querier) *FiscalDocumentRepo {
	return &FiscalDocumentRepo{q: q}
}

const fiscalColumns = `id, organization_id, type, series, number, status, access_key, customer_id,
	customer_name, customer_document, service_id, description, items, total_value, issue_date,
	authorization_date, cancelation_date, cancel_reason, reissued_from_id, source, created_at, updated_at`

func scanFiscalDocument(row pgx.Row) (*entity.FiscalDocument, error) {
	var d entity.FiscalDocument
	var number, accessKey, customerID, serviceID, reissuedFrom *string
	var items []byte
	err := row.Scan(&d.ID, &d.OrganizationID, &d.Type, &d.Series, &number, &d.Status, &accessKey, &customerID,
		&d.CustomerName, &d.CustomerDocument, &serviceID, &d.Description, &items, &d.TotalValue, &d.IssueDate,
		&d.AuthorizationDate, &d.CancelationDate, &d.CancelReason, &reissuedFrom, &d.Source, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	d.Number = derefStr(number)
	d.AccessKey = derefStr(accessKey)
	d.CustomerID = derefStr(customerID)
	d.ServiceID = derefStr(serviceID)
	d.ReissuedFromID = derefStr(reissuedFrom)
	if len(items) > 0 {
		if err := json.Unmarshal(items, &d.Items); err != nil {
			return nil, fmt.Errorf("decode items: %w", err)
		}
	}
	return &d, nil
}

func encodeItems(items []entity.FiscalItem) ([]byte, error) {
	if items == nil {
		items = []entity.FiscalItem{}
	}
	return json.Marshal(items)
}

// Create persiste un documento fiscal. Chave repetida → domain.ErrDuplicate.
func (r *FiscalDocumentRepo) Create(ctx context.Context, d *entity.FiscalDocument) error {
	items, err := encodeItems(d.Items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}
	query := `
		INSERT INTO fiscal_documents (` + fiscalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`
	_, err = r.q.Exec(ctx, query,
		d.ID, d.OrganizationID, d.Type, d.Series, nullIfEmpty(d.Number), d.Status, nullIfEmpty(d.AccessKey),
		nullIfEmpty(d.CustomerID), d.CustomerName, d.CustomerDocument, nullIfEmpty(d.ServiceID), d.Description,
		items, d.TotalValue, d.IssueDate, d.AuthorizationDate, d.CancelationDate, d.CancelReason,
		nullIfEmpty(d.ReissuedFromID), d.Source, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: cliente u orden de servicio inexistente", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert fiscal document: %w", err)
	}
	return nil
}

// GetByID obtiene un documento de la organización.
func (r *FiscalDocumentRepo) GetByID(ctx context.Context, orgID, id string) (*entity.FiscalDocument, error) {
	d, err := scanFiscalDocument(r.q.QueryRow(ctx,
		`SELECT `+fiscalColumns+` FROM fiscal_documents WHERE id = $1 AND organization_id = $2`, id, orgID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get fiscal document: %w", err)
	}
	return d, nil
}

// List lista una página de documentos, más recientes primero, con paginación por cursor
// sobre (issue_date, created_at, id).
func (r *FiscalDocumentRepo) List(ctx context.Context, orgID string, q repository.FiscalDocumentQuery) ([]*entity.FiscalDocument, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + fiscalColumns + ` FROM fiscal_documents WHERE organization_id = $1`)
	args := []any{orgID}
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	if q.Status != "" {
		sb.WriteString(` AND status = ` + arg(q.Status))
	}
	if q.Type != "" {
		sb.WriteString(` AND type = ` + arg(q.Type))
	}
	if q.From != nil {
		sb.WriteString(` AND issue_date >= ` + arg(*q.From))
	}
	if q.To != nil {
		sb.WriteString(` AND issue_date <= ` + arg(*q.To))
	}
	if q.After != nil {
		sb.WriteString(` AND (issue_date, created_at, id) < (` +
			arg(q.After.IssueDate) + `, ` + arg(q.After.CreatedAt) + `, ` + arg(q.After.ID) + `::uuid)`)
	}
	sb.WriteString(` ORDER BY issue_date DESC, created_at DESC, id DESC`)
	if q.Limit > 0 {
		sb.WriteString(` LIMIT ` + arg(q.Limit))
	}

	rows, err := r.q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list fiscal documents: %w", err)
	}
	defer rows.Close()
	var list []*entity.FiscalDocument
	for rows.Next() {
		d, err := scanFiscalDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan fiscal document: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// CountByOrganization cantidad de documentos persistidos.
func (r *FiscalDocumentRepo) CountByOrganization(ctx context.Context, orgID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM fiscal_documents WHERE organization_id = $1`, orgID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count fiscal documents: %w", err)
	}
	return n, nil
}

// UpdateTransition persiste los campos que cambian en una transición, solo si el estado
// en base sigue siendo expected. Dos clientes que transicionan a la vez: el segundo recibe ErrConflict.
func (r *FiscalDocumentRepo) UpdateTransition(ctx context.Context, d *entity.FiscalDocument, expected string) error {
	query := `
		UPDATE fiscal_documents
		SET status             = $4,
		    number             = $5,
		    series             = $6,
		    access_key         = $7,
		    issue_date         = $8,
		    authorization_date = $9,
		    cancelation_date   = $10,
		    cancel_reason      = $11,
		    updated_at         = $12
		WHERE id = $1 AND organization_id = $2 AND status = $3`
	tag, err := r.q.Exec(ctx, query,
		d.ID, d.OrganizationID, expected,
		d.Status, nullIfEmpty(d.Number), d.Series, nullIfEmpty(d.AccessKey), d.IssueDate,
		d.AuthorizationDate, d.CancelationDate, d.CancelReason, d.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update fiscal document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: el documento ya no está en estado %s", domain.ErrConflict, expected)
	}
	return nil
}

// DeleteDraft elimina un borrador.
func (r *FiscalDocumentRepo) DeleteDraft(ctx context.Context, orgID, id string) error {
	tag, err := r.q.Exec(ctx,
		`DELETE FROM fiscal_documents WHERE id = $1 AND organization_id = $2 AND status = $3`,
		id, orgID, entity.FiscalStatusDraft)
	if err != nil {
		return fmt.Errorf("delete fiscal document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: solo se eliminan borradores", domain.ErrConflict)
	}
	return nil
}
