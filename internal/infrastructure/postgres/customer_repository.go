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

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

const customerColumns = `id, organization_id, name, document, email, phone, whatsapp,
	zip_code, street, number, complement, district, city, state, notes, created_at, updated_at`

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var c entity.Customer
	a := &c.Address
	err := row.Scan(&c.ID, &c.OrganizationID, &c.Name, &c.Document, &c.Email, &c.Phone, &c.WhatsApp,
		&a.ZipCode, &a.Street, &a.Number, &a.Complement, &a.District, &a.City, &a.State,
		&c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create persiste un nuevo cliente. Documento repetido en la organización → domain.ErrDuplicate.
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	query := `
		INSERT INTO customers (` + customerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	a := c.Address
	_, err := r.q.Exec(ctx, query,
		c.ID, c.OrganizationID, c.Name, c.Document, c.Email, c.Phone, c.WhatsApp,
		a.ZipCode, a.Street, a.Number, a.Complement, a.District, a.City, a.State,
		c.Notes, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente de la organización.
func (r *CustomerRepo) GetByID(ctx context.Context, orgID, id string) (*entity.Customer, error) {
	c, err := scanCustomer(r.q.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id = $1 AND organization_id = $2`, id, orgID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

// GetByDocument obtiene un cliente por CPF/CNPJ (solo dígitos).
func (r *CustomerRepo) GetByDocument(ctx context.Context, orgID, document string) (*entity.Customer, error) {
	c, err := scanCustomer(r.q.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE organization_id = $1 AND document = $2`, orgID, document))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer by document: %w", err)
	}
	return c, nil
}

// List busca clientes por nombre, documento, teléfono o email.
// unaccent no se asume instalado: la búsqueda es ILIKE.
func (r *CustomerRepo) List(ctx context.Context, orgID, search string, limit, offset int) ([]*entity.Customer, int, error) {
	where := `organization_id = $1`
	args := []any{orgID}
	if search != "" {
		args = append(args, likePattern(search))
		where += ` AND (name ILIKE $2 OR document ILIKE $2 OR phone ILIKE $2 OR email ILIKE $2)`
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM customers WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count customers: %w", err)
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM customers WHERE %s ORDER BY name LIMIT $%d OFFSET $%d`,
		customerColumns, where, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, c)
	}
	return list, total, rows.Err()
}

// Update actualiza un cliente de la organización.
func (r *CustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	query := `
		UPDATE customers SET name = $3, document = $4, email = $5, phone = $6, whatsapp = $7,
		       zip_code = $8, street = $9, number = $10, complement = $11, district = $12,
		       city = $13, state = $14, notes = $15, updated_at = $16
		WHERE id = $1 AND organization_id = $2`
	a := c.Address
	tag, err := r.q.Exec(ctx, query,
		c.ID, c.OrganizationID, c.Name, c.Document, c.Email, c.Phone, c.WhatsApp,
		a.ZipCode, a.Street, a.Number, a.Complement, a.District, a.City, a.State,
		c.Notes, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un cliente. Dispositivos y órdenes deben borrarse antes en la misma tx.
func (r *CustomerRepo) Delete(ctx context.Context, orgID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM customers WHERE id = $1 AND organization_id = $2`, id, orgID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: cliente con registros asociados", domain.ErrConflict)
		}
		return fmt.Errorf("delete customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
