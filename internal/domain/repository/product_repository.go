package repository

import (
	"context"

	"github.com/jhoicas/reparo-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, orgID, id string) (*entity.Product, error)
	// GetByIDForUpdate bloquea la fila (SELECT ... FOR UPDATE); usar dentro de una transacción.
	GetByIDForUpdate(ctx context.Context, orgID, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, orgID, sku string) (*entity.Product, error)
	List(ctx context.Context, orgID, search string, limit, offset int) ([]*entity.Product, int, error)
	ListLowStock(ctx context.Context, orgID string) ([]*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	UpdateStockAndCost(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, orgID, id string) error
}

// InventoryMovementRepository define el puerto de persistencia para movimientos de inventario.
type InventoryMovementRepository interface {
	Create(ctx context.Context, movement *entity.InventoryMovement) error
	ListByProduct(ctx context.Context, orgID, productID string, limit, offset int) ([]*entity.InventoryMovement, error)
}
