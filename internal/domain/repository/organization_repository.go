package repository

import (
	"context"

	"github.com/jhoicas/reparo-api/internal/domain/entity"
)

// OrganizationRepository define el puerto de persistencia para Organization (tenant).
type OrganizationRepository interface {
	Create(ctx context.Context, org *entity.Organization) error
	GetByID(ctx context.Context, id string) (*entity.Organization, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Organization, error)
	Update(ctx context.Context, org *entity.Organization) error
}

// OrganizationModuleRepository define el puerto de persistencia para los módulos contratados.
type OrganizationModuleRepository interface {
	ListByOrganization(ctx context.Context, orgID string) ([]*entity.OrganizationModule, error)
	// Get devuelve (nil, nil) si el módulo nunca fue activado.
	Get(ctx context.Context, orgID, moduleName string) (*entity.OrganizationModule, error)
	// Upsert crea o actualiza la fila (organization_id, module_name).
	Upsert(ctx context.Context, m *entity.OrganizationModule) error
}
