// Package organization datos del tenant (emisor de los comprobantes) y módulos contratados.
package organization

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/reparo-api/internal/application/dto"
	"github.com/jhoicas/reparo-api/internal/domain"
	"github.com/jhoicas/reparo-api/internal/domain/entity"
	"github.com/jhoicas/reparo-api/internal/domain/repository"
	"github.com/jhoicas/reparo-api/pkg/brdoc"
)

// UseCase aplica reglas de negocio sobre la organización y sus módulos.
type UseCase struct {
	orgs    repository.OrganizationRepository
	modules repository.OrganizationModuleRepository
	now     func() time.Time
}

// NewUseCase construye el caso de uso con los puertos de persistencia.
func NewUseCase(orgs repository.OrganizationRepository, modules repository.OrganizationModuleRepository) *UseCase {
	return &UseCase{orgs: orgs, modules: modules, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// Get devuelve la organización del usuario autenticado.
func (uc *UseCase) Get(ctx context.Context, orgID string) (*dto.OrganizationResponse, error) {
	org, err := uc.orgs.GetByID(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("organization: obtener: %w", err)
	}
	if org == nil {
		return nil, domain.ErrNotFound
	}
	return ToResponse(org), nil
}

// Update modifica los datos del emisor. El slug no cambia: es la identidad pública del tenant.
func (uc *UseCase) Update(ctx context.Context, orgID string, in dto.UpdateOrganizationRequest) (*dto.OrganizationResponse, error) {
	org, err := uc.orgs.GetByID(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("organization: obtener: %w", err)
	}
	if org == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		org.Name = strings.TrimSpace(*in.Name)
	}
	if in.Document != nil {
		doc, err := NormalizeCNPJ(*in.Document)
		if err != nil {
			return nil, err
		}
		org.Document = doc
	}
	if in.Email != nil {
		org.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Phone != nil {
		org.Phone = strings.TrimSpace(*in.Phone)
	}
	org.UpdatedAt = uc.now()
	if err := uc.orgs.Update(ctx, org); err != nil {
		return nil, err
	}
	return ToResponse(org), nil
}

// ── Módulos ───────────────────────────────────────────────────────────────────

// ListModules devuelve todos los módulos conocidos; los nunca activados salen inactivos.
func (uc *UseCase) ListModules(ctx context.Context, orgID string) ([]dto.ModuleResponse, error) {
	rows, err := uc.modules.ListByOrganization(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("organization: listar módulos: %w", err)
	}
	byName := make(map[string]*entity.OrganizationModule, len(rows))
	for _, m := range rows {
		byName[m.ModuleName] = m
	}
	now := uc.now()
	out := make([]dto.ModuleResponse, 0, len(entity.DefaultModules))
	for _, name := range entity.DefaultModules {
		m, ok := byName[name]
		if !ok {
			out = append(out, dto.ModuleResponse{ModuleName: name})
			continue
		}
		out = append(out, dto.ModuleResponse{
			ModuleName:  m.ModuleName,
			IsActive:    isActive(m, now),
			ActivatedAt: m.ActivatedAt,
			ExpiresAt:   m.ExpiresAt,
		})
	}
	return out, nil
}

// UpdateModule activa o desactiva un módulo de la organización.
func (uc *UseCase) UpdateModule(ctx context.Context, orgID, name string, in dto.UpdateModuleRequest) (*dto.ModuleResponse, error) {
	if !slices.Contains(entity.DefaultModules, name) {
		return nil, fmt.Errorf("%w: módulo desconocido %q", domain.ErrInvalidInput, name)
	}
	now := uc.now()
	if in.ExpiresAt != nil && !in.ExpiresAt.After(now) {
		return nil, fmt.Errorf("%w: expires_at debe ser futuro", domain.ErrInvalidInput)
	}
	m, err := uc.modules.Get(ctx, orgID, name)
	if err != nil {
		return nil, fmt.Errorf("organization: obtener módulo: %w", err)
	}
	if m == nil {
		m = &entity.OrganizationModule{
			ID:             uuid.New().String(),
			OrganizationID: orgID,
			ModuleName:     name,
			CreatedAt:      now,
		}
	}
	if in.IsActive && !m.IsActive {
		m.ActivatedAt = now
	}
	m.IsActive = in.IsActive
	m.ExpiresAt = in.ExpiresAt
	m.UpdatedAt = now
	if err := uc.modules.Upsert(ctx, m); err != nil {
		return nil, fmt.Errorf("organization: guardar módulo: %w", err)
	}
	return &dto.ModuleResponse{
		ModuleName:  m.ModuleName,
		IsActive:    isActive(m, now),
		ActivatedAt: m.ActivatedAt,
		ExpiresAt:   m.ExpiresAt,
	}, nil
}

// HasActiveModule informa si la organización tiene el módulo activo y sin vencer.
// Devuelve false (sin error) si nunca fue contratado; error solo ante fallos de infraestructura.
func (uc *UseCase) HasActiveModule(ctx context.Context, orgID, name string) (bool, error) {
	if orgID == "" || name == "" {
		return false, fmt.Errorf("organization: orgID y módulo son obligatorios")
	}
	m, err := uc.modules.Get(ctx, orgID, name)
	if err != nil {
		return false, err
	}
	return m != nil && isActive(m, uc.now()), nil
}

func isActive(m *entity.OrganizationModule, now time.Time) bool {
	return m.IsActive && (m.ExpiresAt == nil || m.ExpiresAt.After(now))
}

// NormalizeCNPJ valida el CNPJ del emisor y lo devuelve con máscara. Vacío es válido.
func NormalizeCNPJ(doc string) (string, error) {
	doc = strings.TrimSpace(doc)
	if doc == "" {
		return "", nil
	}
	if brdoc.Kind(doc) != brdoc.KindCNPJ {
		return "", fmt.Errorf("%w: el emisor debe informar un CNPJ", domain.ErrInvalidDocument)
	}
	if err := brdoc.Validate(doc); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidDocument, err)
	}
	return brdoc.Format(doc), nil
}

// ToResponse mapea la entidad a su DTO.
func ToResponse(o *entity.Organization) *dto.OrganizationResponse {
	if o == nil {
		return nil
	}
	return &dto.OrganizationResponse{
		ID:        o.ID,
		Name:      o.Name,
		Slug:      o.Slug,
		Document:  o.Document,
		Email:     o.Email,
		Phone:     o.Phone,
		Status:    o.Status,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}
