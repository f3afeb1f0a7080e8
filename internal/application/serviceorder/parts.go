package serviceorder

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/reparo-api/internal/application/dto"
	"github.com/jhoicas/reparo-api/internal/application/inventory"
	"github.com/jhoicas/reparo-api/internal/application/ports"
	"github.com/jhoicas/reparo-api/internal/domain"
	"github.com/jhoicas/reparo-api/internal/domain/entity"
)

// AddPart consume un repuesto en la orden: movimiento OUT, fila en service_parts y
// parts_total actualizado, todo en una transacción. Sin stock → ErrInsufficientStock.
func (uc *UseCase) AddPart(ctx context.Context, orgID, userID, serviceID string, in dto.AddServicePartRequest) (*dto.ServiceResponse, error) {
	if !in.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: cantidad debe ser positiva", domain.ErrInvalidInput)
	}
	if in.UnitPrice != nil && in.UnitPrice.IsNegative() {
		return nil, fmt.Errorf("%w: precio negativo", domain.ErrInvalidInput)
	}

	now := uc.now()
	var (
		mov           *entity.InventoryMovement
		before, after *entity.Product
	)
	err := uc.tx.Run(ctx, func(r ports.TxRepos) error {
		s, err := r.Services.GetByID(ctx, orgID, serviceID)
		if err != nil {
			return fmt.Errorf("serviceorder: obtener orden: %w", err)
		}
		if s == nil {
			return domain.ErrNotFound
		}
		if s.Status == entity.ServiceStatusDelivered {
			return fmt.Errorf("%w: la orden ya fue entregada", domain.ErrConflict)
		}

		mov, before, after, err = inventory.ApplyMovement(ctx, r, inventory.MovementInput{
			OrganizationID: orgID,
			UserID:         userID,
			ProductID:      in.ProductID,
			Type:           entity.MovementTypeOUT,
			Quantity:       in.Quantity,
			Reference:      s.Code,
		}, now)
		if err != nil {
			return err
		}

		price := after.Price
		if in.UnitPrice != nil {
			price = *in.UnitPrice
		}
		part := &entity.ServicePart{
			ID:        uuid.New().String(),
			ServiceID: s.ID,
			ProductID: in.ProductID,
			Quantity:  in.Quantity,
			UnitPrice: price,
			CreatedAt: now,
		}
		if err := r.Services.AddPart(ctx, part); err != nil {
			return err
		}
		s.PartsTotal = s.PartsTotal.Add(in.Quantity.Mul(price)).Round(2)
		s.UpdatedAt = now
		return r.Services.Update(ctx, s)
	})
	if err != nil {
		return nil, err
	}

	if uc.stock != nil {
		uc.stock.AfterMovement(ctx, userID, mov, before, after)
	}
	uc.publish(ctx, orgID, ports.ActionUpdate, serviceID)
	return uc.Get(ctx, orgID, serviceID)
}
