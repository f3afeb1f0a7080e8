// Package inventory repuestos y movimientos de inventario.
//
// Stock y costo promedio solo cambian vía movimientos, dentro de una transacción
// que bloquea la fila del producto (SELECT ... FOR UPDATE).
package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/reparo-api/internal/application/dto"
	"github.com/jhoicas/reparo-api/internal/application/ports"
	"github.com/jhoicas/reparo-api/internal/domain"
	"github.com/jhoicas/reparo-api/internal/domain/entity"
	"github.com/jhoicas/reparo-api/internal/domain/inventory"
	"github.com/jhoicas/reparo-api/internal/domain/repository"
	"github.com/jhoicas/reparo-api/pkg/logger"
)

const (
	productsTable  = "products"
	movementsTable = "inventory_movements"
)

// UseCase casos de uso de inventario.
type UseCase struct {
	products  repository.ProductRepository
	movements repository.InventoryMovementRepository
	tx        ports.TxRunner
	publisher ports.ChangePublisher
	notifier  ports.Notifier
	log       *logger.Logger
	now       func() time.Time
}

// NewUseCase construye el caso de uso. publisher y notifier pueden ser nil.
func NewUseCase(
	products repository.ProductRepository,
	movements repository.InventoryMovementRepository,
	tx ports.TxRunner,
	publisher ports.ChangePublisher,
	notifier ports.Notifier,
	log *logger.Logger,
) *UseCase {
	if publisher == nil {
		publisher = ports.NopPublisher{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		products:  products,
		movements: movements,
		tx:        tx,
		publisher: publisher,
		notifier:  notifier,
		log:       log,
		now:       time.Now,
	}
}

// ── Productos ─────────────────────────────────────────────────────────────────

// CreateProduct da de alta un repuesto con stock y costo en cero. SKU repetido → ErrDuplicate.
func (uc *UseCase) CreateProduct(ctx context.Context, orgID string, in dto.ProductRequest) (*dto.ProductResponse, error) {
	if err := validateProduct(in); err != nil {
		return nil, err
	}
	sku := strings.TrimSpace(in.SKU)
	existing, err := uc.products.GetBySKU(ctx, orgID, sku)
	if err != nil {
		return nil, fmt.Errorf("inventory: buscar SKU: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: SKU %s", domain.ErrDuplicate, sku)
	}
	now := uc.now()
	p := &entity.Product{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		SKU:            sku,
		Stock:          decimal.Zero,
		Cost:           decimal.Zero,
		CreatedAt:      now,
	}
	applyProduct(p, in, now)
	if err := uc.products.Create(ctx, p); err != nil {
		return nil, err
	}
	uc.publish(ctx, orgID, productsTable, ports.ActionInsert, p.ID)
	return toProductResponse(p), nil
}

// GetProduct obtiene un repuesto.
func (uc *UseCase) GetProduct(ctx context.Context, orgID, id string) (*dto.ProductResponse, error) {
	p, err := uc.loadProduct(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// ListProducts busca por SKU o nombre.
func (uc *UseCase) ListProducts(ctx context.Context, orgID, search string, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, total, err := uc.products.List(ctx, orgID, strings.TrimSpace(search), page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("inventory: listar productos: %w", err)
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// UpdateProduct cambia datos descriptivos, precio y mínimo. Stock y costo no se tocan.
func (uc *UseCase) UpdateProduct(ctx context.Context, orgID, id string, in dto.ProductRequest) (*dto.ProductResponse, error) {
	if err := validateProduct(in); err != nil {
		return nil, err
	}
	p, err := uc.loadProduct(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	sku := strings.TrimSpace(in.SKU)
	if sku != p.SKU {
		other, err := uc.products.GetBySKU(ctx, orgID, sku)
		if err != nil {
			return nil, fmt.Errorf("inventory: buscar SKU: %w", err)
		}
		if other != nil {
			return nil, fmt.Errorf("%w: SKU %s", domain.ErrDuplicate, sku)
		}
		p.SKU = sku
	}
	applyProduct(p, in, uc.now())
	if err := uc.products.Update(ctx, p); err != nil {
		return nil, err
	}
	uc.publish(ctx, orgID, productsTable, ports.ActionUpdate, p.ID)
	return toProductResponse(p), nil
}

// DeleteProduct borra un repuesto. Si fue usado en órdenes de servicio la base lo impide (ErrConflict).
func (uc *UseCase) DeleteProduct(ctx context.Context, orgID, id string) error {
	if _, err := uc.loadProduct(ctx, orgID, id); err != nil {
		return err
	}
	if err := uc.products.Delete(ctx, orgID, id); err != nil {
		return err
	}
	uc.publish(ctx, orgID, productsTable, ports.ActionDelete, id)
	return nil
}

// LowStock repuestos en o bajo el mínimo.
func (uc *UseCase) LowStock(ctx context.Context, orgID string) ([]dto.ProductResponse, error) {
	list, err := uc.products.ListLowStock(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("inventory: listar stock bajo: %w", err)
	}
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toProductResponse(p))
	}
	return out, nil
}

// ── Movimientos ───────────────────────────────────────────────────────────────

// MovementInput entrada de ApplyMovement.
type MovementInput struct {
	OrganizationID string
	UserID         string
	ProductID      string
	Type           string
	Quantity       decimal.Decimal
	UnitCost       *decimal.Decimal // obligatorio en IN
	Reference      string
}

// RegisterMovement registra un movimiento en su propia transacción.
func (uc *UseCase) RegisterMovement(ctx context.Context, orgID, userID string, in dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	input := MovementInput{
		OrganizationID: orgID,
		UserID:         userID,
		ProductID:      in.ProductID,
		Type:           in.Type,
		Quantity:       in.Quantity,
		UnitCost:       in.UnitCost,
		Reference:      strings.TrimSpace(in.Reference),
	}
	if input.Type == entity.MovementTypeIN && input.UnitCost == nil {
		return nil, fmt.Errorf("%w: unit_cost es obligatorio en entradas", domain.ErrInvalidInput)
	}

	var (
		mov           *entity.InventoryMovement
		before, after *entity.Product
	)
	err := uc.tx.Run(ctx, func(r ports.TxRepos) error {
		var err error
		mov, before, after, err = ApplyMovement(ctx, r, input, uc.now())
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.AfterMovement(ctx, userID, mov, before, after)
	return toMovementResponse(mov, after.Stock), nil
}

// ApplyMovement bloquea el producto, calcula stock y costo, y guarda el movimiento
// usando los repositorios de la transacción del caller. Devuelve el producto antes y después.
func ApplyMovement(ctx context.Context, r ports.TxRepos, in MovementInput, now time.Time) (*entity.InventoryMovement, *entity.Product, *entity.Product, error) {
	p, err := r.Products.GetByIDForUpdate(ctx, in.OrganizationID, in.ProductID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("inventory: bloquear producto: %w", err)
	}
	if p == nil {
		return nil, nil, nil, domain.ErrNotFound
	}
	before := *p

	unitCost := decimal.Zero
	if in.UnitCost != nil {
		unitCost = *in.UnitCost
	}
	res, err := inventory.Apply(p, in.Type, in.Quantity, unitCost)
	if err != nil {
		return nil, nil, nil, err
	}
	p.Stock = res.Stock
	p.Cost = res.Cost
	p.UpdatedAt = now
	if err := r.Products.UpdateStockAndCost(ctx, p); err != nil {
		return nil, nil, nil, err
	}

	mov := &entity.InventoryMovement{
		ID:             uuid.New().String(),
		OrganizationID: in.OrganizationID,
		ProductID:      in.ProductID,
		Type:           in.Type,
		Quantity:       in.Quantity,
		UnitCost:       res.UnitCost,
		TotalCost:      res.TotalCost,
		Reference:      in.Reference,
		CreatedBy:      in.UserID,
		CreatedAt:      now,
	}
	if err := r.Movements.Create(ctx, mov); err != nil {
		return nil, nil, nil, err
	}
	return mov, &before, p, nil
}

// AfterMovement publica los eventos y avisa al usuario si el repuesto quedó con stock bajo.
// Se llama después del commit.
func (uc *UseCase) AfterMovement(ctx context.Context, userID string, mov *entity.InventoryMovement, before, after *entity.Product) {
	uc.publish(ctx, mov.OrganizationID, movementsTable, ports.ActionInsert, mov.ID)
	uc.publish(ctx, mov.OrganizationID, productsTable, ports.ActionUpdate, after.ID)

	if uc.notifier != nil && userID != "" && after.IsLowStock() && !before.IsLowStock() {
		uc.notifier.Notify(ctx, &entity.Notification{
			OrganizationID: mov.OrganizationID,
			UserID:         userID,
			Type:           entity.NotificationLowStock,
			Title:          "Estoque baixo: " + after.Name,
			Description:    fmt.Sprintf("%s com %s unidades (mínimo %s)", after.SKU, after.Stock.String(), after.MinStock.String()),
			ActionLink:     "/inventory/" + after.ID,
		})
	}
	uc.log.Info().
		Str("product", after.ID).
		Str("type", mov.Type).
		Str("qty", mov.Quantity.String()).
		Str("stock", after.Stock.String()).
		Msg("movimiento de inventario")
}

// ListMovements historial de un repuesto (más nuevos primero).
func (uc *UseCase) ListMovements(ctx context.Context, orgID, productID string, page dto.PageRequest) ([]dto.MovementResponse, error) {
	if _, err := uc.loadProduct(ctx, orgID, productID); err != nil {
		return nil, err
	}
	page.DefaultPage()
	list, err := uc.movements.ListByProduct(ctx, orgID, productID, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("inventory: listar movimientos: %w", err)
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		r := toMovementResponse(m, decimal.Zero)
		out = append(out, *r)
	}
	return out, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (uc *UseCase) loadProduct(ctx context.Context, orgID, id string) (*entity.Product, error) {
	p, err := uc.products.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, fmt.Errorf("inventory: obtener producto: %w", err)
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (uc *UseCase) publish(ctx context.Context, orgID, table, action, id string) {
	uc.publisher.Publish(ctx, ports.ChangeEvent{
		OrganizationID: orgID,
		Table:          table,
		Action:         action,
		ID:             id,
		At:             uc.now(),
	})
}

func validateProduct(in dto.ProductRequest) error {
	if strings.TrimSpace(in.SKU) == "" || strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: sku y name son obligatorios", domain.ErrInvalidInput)
	}
	if in.Price.IsNegative() || in.MinStock.IsNegative() {
		return fmt.Errorf("%w: precio y stock mínimo no pueden ser negativos", domain.ErrInvalidInput)
	}
	return nil
}

func applyProduct(p *entity.Product, in dto.ProductRequest, now time.Time) {
	p.Name = strings.TrimSpace(in.Name)
	p.Description = in.Description
	p.Category = strings.ToLower(strings.TrimSpace(in.Category))
	p.Price = in.Price
	p.MinStock = in.MinStock
	p.UpdatedAt = now
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		Cost:        p.Cost,
		Stock:       p.Stock,
		MinStock:    p.MinStock,
		LowStock:    p.IsLowStock(),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toMovementResponse(m *entity.InventoryMovement, stock decimal.Decimal) *dto.MovementResponse {
	return &dto.MovementResponse{
		ID:        m.ID,
		ProductID: m.ProductID,
		Type:      m.Type,
		Quantity:  m.Quantity,
		UnitCost:  m.UnitCost,
		TotalCost: m.TotalCost,
		Reference: m.Reference,
		CreatedBy: m.CreatedBy,
		CreatedAt: m.CreatedAt,
		Stock:     stock,
	}
}
