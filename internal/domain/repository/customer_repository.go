package repository

import (
	"context"

	"github.com/jhoicas/reparo-api/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para Customer.
// Todas las consultas filtran por organización.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, orgID, id string) (*entity.Customer, error)
	GetByDocument(ctx context.Context, orgID, document string) (*entity.Customer, error)
	// List busca por nombre, documento, teléfono o email; devuelve la página y el total.
	List(ctx context.Context, orgID, search string, limit, offset int) ([]*entity.Customer, int, error)
	Update(ctx context.Context, customer *entity.Customer) error
	Delete(ctx context.Context, orgID, id string) error
}

// DeviceRepository define el puerto de persistencia para Device.
type DeviceRepository interface {
	Create(ctx context.Context, device *entity.Device) error
	GetByID(ctx context.Context, orgID, id string) (*entity.Device, error)
	ListByCustomer(ctx context.Context, orgID, customerID string) ([]*entity.Device, error)
	Update(ctx context.Context, device *entity.Device) error
	Delete(ctx context.Context, orgID, id string) error
	DeleteByCustomer(ctx context.Context, orgID, customerID string) (int64, error)
}
