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

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, organization_id, sku, name, description, category, price, cost, stock, min_stock, created_at, updated_at`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.OrganizationID, &p.SKU, &p.Name, &p.Description, &p.Category,
		&p.Price, &p.Cost, &p.Stock, &p.MinStock, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) getOne(ctx context.Context, op, query string, args ...any) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// Create persiste un nuevo producto. SKU repetido en la organización → domain.ErrDuplicate.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.OrganizationID, p.SKU, p.Name, p.Description, p.Category,
		p.Price, p.Cost, p.Stock, p.MinStock, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto de la organización.
func (r *ProductRepo) GetByID(ctx context.Context, orgID, id string) (*entity.Product, error) {
	return r.getOne(ctx, "get product",
		`SELECT `+productColumns+` FROM products WHERE id = $1 AND organization_id = $2`, id, orgID)
}

// GetByIDForUpdate obtiene el producto bloqueando la fila hasta el fin de la transacción.
func (r *ProductRepo) GetByIDForUpdate(ctx context.Context, orgID, id string) (*entity.Product, error) {
	return r.getOne(ctx, "get product for update",
		`SELECT `+productColumns+` FROM products WHERE id = $1 AND organization_id = $2 FOR UPDATE`, id, orgID)
}

// GetBySKU obtiene un producto por SKU.
func (r *ProductRepo) GetBySKU(ctx context.Context, orgID, sku string) (*entity.Product, error) {
	return r.getOne(ctx, "get product by sku",
		`SELECT `+productColumns+` FROM products WHERE organization_id = $1 AND sku = $2`, orgID, sku)
}

func (r *ProductRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// List lista productos por nombre, SKU o categoría con paginación.
func (r *ProductRepo) List(ctx context.Context, orgID, search string, limit, offset int) ([]*entity.Product, int, error) {
	where := `organization_id = $1`
	args := []any{orgID}
	if search != "" {
		args = append(args, likePattern(search))
		where += ` AND (name ILIKE $2 OR sku ILIKE $2 OR category ILIKE $2)`
	}
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}
	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM products WHERE %s ORDER BY name LIMIT $%d OFFSET $%d`,
		productColumns, where, len(args)-1, len(args))
	list, err := r.list(ctx, "list products", query, args...)
	return list, total, err
}

// ListLowStock productos con stock en o bajo el mínimo (min_stock > 0).
func (r *ProductRepo) ListLowStock(ctx context.Context, orgID string) ([]*entity.Product, error) {
	return r.list(ctx, "list low stock",
		`SELECT `+productColumns+` FROM products
		 WHERE organization_id = $1 AND min_stock > 0 AND stock <= min_stock
		 ORDER BY (stock - min_stock), name`, orgID)
}

// Update actualiza los datos maestros. Stock y costo solo cambian vía UpdateStockAndCost.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET sku = $3, name = $4, description = $5, category = $6, price = $7,
		       min_stock = $8, updated_at = $9
		WHERE id = $1 AND organization_id = $2`
	tag, err := r.q.Exec(ctx, query,
		p.ID, p.OrganizationID, p.SKU, p.Name, p.Description, p.Category, p.Price, p.MinStock, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStockAndCost persiste stock y costo promedio tras un movimiento.
func (r *ProductRepo) UpdateStockAndCost(ctx context.Context, p *entity.Product) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE products SET stock = $3, cost = $4, updated_at = $5 WHERE id = $1 AND organization_id = $2`,
		p.ID, p.OrganizationID, p.Stock, p.Cost, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update product stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un producto. Si fue usado en órdenes de servicio → domain.ErrConflict.
func (r *ProductRepo) Delete(ctx context.Context, orgID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1 AND organization_id = $2`, id, orgID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: producto usado en órdenes de servicio", domain.ErrConflict)
		}
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
