package repository

import (
	"context"
	"time"

	"github.com/jhoicas/reparo-api/internal/domain/entity"
)

// ServiceFilter filtros del listado de órdenes de servicio.
type ServiceFilter struct {
	Status       string
	TechnicianID string
	CustomerID   string
	Search       string // código, problema, nombre del cliente
}

// ServiceOrderRepository define el puerto de persistencia para órdenes de servicio y sus repuestos.
type ServiceOrderRepository interface {
	Create(ctx context.Context, s *entity.ServiceOrder) error
	GetByID(ctx context.Context, orgID, id string) (*entity.ServiceOrder, error)
	List(ctx context.Context, orgID string, f ServiceFilter, limit, offset int) ([]*entity.ServiceOrder, int, error)
	Update(ctx context.Context, s *entity.ServiceOrder) error
	// UpdateStatus persiste estado y fechas solo si el estado actual sigue siendo expected.
	// Devuelve domain.ErrConflict si otro cliente lo cambió antes.
	UpdateStatus(ctx context.Context, s *entity.ServiceOrder, expected string) error
	Delete(ctx context.Context, orgID, id string) error
	DeleteByCustomer(ctx context.Context, orgID, customerID string) (int64, error)
	// CountCreatedOn cantidad de órdenes creadas en el día (para el código OS-YYYYMMDD-NNNN).
	CountCreatedOn(ctx context.Context, orgID string, day time.Time) (int, error)

	AddPart(ctx context.Context, part *entity.ServicePart) error
	ListParts(ctx context.Context, serviceID string) ([]*entity.ServicePart, error)
}
