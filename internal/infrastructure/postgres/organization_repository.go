package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/reparo-api/internal/domain"
	"github.com/jhoicas/reparo-api/internal/domain/entity"
	"github.com/jhoicas/reparo-api/internal/domain/repository"
)

var (
	_ repository.OrganizationRepository       = (*OrganizationRepo)(nil)
	_ repository.OrganizationModuleRepository = (*OrganizationModuleRepo)(nil)
)

// OrganizationRepo implementación de OrganizationRepository (usable con pool o tx).
type OrganizationRepo struct {
	q Querier
}

// NewOrganizationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrganizationRepository(q Querier) *OrganizationRepo {
	return &OrganizationRepo{q: q}
}

const organizationColumns = `id, name, slug, document, email, phone, status, created_at, updated_at`

func scanOrganization(row pgx.Row) (*entity.Organization, error) {
	var o entity.Organization
	err := row.Scan(&o.ID, &o.Name, &o.Slug, &o.Document, &o.Email, &o.Phone, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create persiste una organización. Slug repetido → domain.ErrDuplicate.
func (r *OrganizationRepo) Create(ctx context.Context, org *entity.Organization) error {
	query := `
		INSERT INTO organizations (` + organizationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		org.ID, org.Name, org.Slug, org.Document, org.Email, org.Phone, org.Status, org.CreatedAt, org.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert organization: %w", err)
	}
	return nil
}

// GetByID obtiene una organización por ID.
func (r *OrganizationRepo) GetByID(ctx context.Context, id string) (*entity.Organization, error) {
	o, err := scanOrganization(r.q.QueryRow(ctx, `SELECT `+organizationColumns+` FROM organizations WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get organization: %w", err)
	}
	return o, nil
}

// GetBySlug obtiene una organización por slug.
func (r *OrganizationRepo) GetBySlug(ctx context.Context, slug string) (*entity.Organization, error) {
	o, err := scanOrganization(r.q.QueryRow(ctx, `SELECT `+organizationColumns+` FROM organizations WHERE slug = $1`, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get organization by slug: %w", err)
	}
	return o, nil
}

// Update actualiza los datos de la organización (el slug no cambia).
func (r *OrganizationRepo) Update(ctx context.Context, org *entity.Organization) error {
	query := `
		UPDATE organizations SET name = $2, document = $3, email = $4, phone = $5, status = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, org.ID, org.Name, org.Document, org.Email, org.Phone, org.Status, org.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update organization: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ── Módulos ──────────────────────────────────────────────────────────────────

// OrganizationModuleRepo implementación de OrganizationModuleRepository.
type OrganizationModuleRepo struct {
	q Querier
}

// NewOrganizationModuleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrganizationModuleRepository(q Querier) *OrganizationModuleRepo {
	return &OrganizationModuleRepo{q: q}
}

const moduleColumns = `id, organization_id, module_name, is_active, activated_at, expires_at, created_at, updated_at`

func scanModule(row pgx.Row) (*entity.OrganizationModule, error) {
	var m entity.OrganizationModule
	err := row.Scan(&m.ID, &m.OrganizationID, &m.ModuleName, &m.IsActive, &m.ActivatedAt, &m.ExpiresAt, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListByOrganization lista los módulos de la organización.
func (r *OrganizationModuleRepo) ListByOrganization(ctx context.Context, orgID string) ([]*entity.OrganizationModule, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+moduleColumns+` FROM organization_modules WHERE organization_id = $1 ORDER BY module_name`, orgID)
	if err != nil {
		return nil, fmt.Errorf("list organization modules: %w", err)
	}
	defer rows.Close()
	var list []*entity.OrganizationModule
	for rows.Next() {
		m, err := scanModule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan organization module: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// Get obtiene un módulo; (nil, nil) si nunca fue activado.
func (r *OrganizationModuleRepo) Get(ctx context.Context, orgID, moduleName string) (*entity.OrganizationModule, error) {
	m, err := scanModule(r.q.QueryRow(ctx,
		`SELECT `+moduleColumns+` FROM organization_modules WHERE organization_id = $1 AND module_name = $2`,
		orgID, moduleName))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get organization module: %w", err)
	}
	return m, nil
}

// Upsert crea o actualiza el módulo por (organization_id, module_name).
func (r *OrganizationModuleRepo) Upsert(ctx context.Context, m *entity.OrganizationModule) error {
	query := `
		INSERT INTO organization_modules (` + moduleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (organization_id, module_name) DO UPDATE
		SET is_active = EXCLUDED.is_active,
		    activated_at = EXCLUDED.activated_at,
		    expires_at = EXCLUDED.expires_at,
		    updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.OrganizationID, m.ModuleName, m.IsActive, m.ActivatedAt, m.ExpiresAt, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert organization module: %w", err)
	}
	return nil
}
