package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/reparo-api/internal/domain"
	"github.com/jhoicas/reparo-api/internal/domain/entity"
	"github.com/jhoicas/reparo-api/internal/domain/repository"
)

var _ repository.ServiceOrderRepository = (*ServiceOrderRepo)(nil)

// ServiceOrderRepo implementación de ServiceOrderRepository (usable con pool o tx).
type ServiceOrderRepo struct {
	q Querier
}

// NewServiceOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewServiceOrderRepository(q Querier) *ServiceOrderRepo {
	return &ServiceOrderRepo{q: q}
}

const serviceColumns = `s.id, s.organization_id, s.customer_id, s.device_id, s.technician_id, s.code, s.problem,
	s.diagnosis, s.status, s.price, s.parts_total, s.started_at, s.completed_at, s.delivered_at,
	s.created_at, s.updated_at`

func scanService(row pgx.Row) (*entity.ServiceOrder, error) {
	var s entity.ServiceOrder
	var deviceID, technicianID *string
	err := row.Scan(&s.ID, &s.OrganizationID, &s.CustomerID, &deviceID, &technicianID, &s.Code, &s.Problem,
		&s.Diagnosis, &s.Status, &s.Price, &s.PartsTotal, &s.StartedAt, &s.CompletedAt, &s.DeliveredAt,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.DeviceID = derefStr(deviceID)
	s.TechnicianID = derefStr(technicianID)
	return &s, nil
}

// Create persiste una orden de servicio. Código repetido → domain.ErrDuplicate.
func (r *ServiceOrderRepo) Create(ctx context.Context, s *entity.ServiceOrder) error {
	query := `
		INSERT INTO services (id, organization_id, customer_id, device_id, technician_id, code, problem,
		       diagnosis, status, price, parts_total, started_at, completed_at, delivered_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.OrganizationID, s.CustomerID, nullIfEmpty(s.DeviceID), nullIfEmpty(s.TechnicianID), s.Code, s.Problem,
		s.Diagnosis, s.Status, s.Price, s.PartsTotal, s.StartedAt, s.CompletedAt, s.DeliveredAt, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: cliente, dispositivo o técnico inexistente", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert service: %w", err)
	}
	return nil
}

// GetByID obtiene una orden de la organización.
func (r *ServiceOrderRepo) GetByID(ctx context.Context, orgID, id string) (*entity.ServiceOrder, error) {
	s, err := scanService(r.q.QueryRow(ctx,
		`SELECT `+serviceColumns+` FROM services s WHERE s.id = $1 AND s.organization_id = $2`, id, orgID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get service: %w", err)
	}
	return s, nil
}

// List lista órdenes con filtros; la búsqueda cubre código, problema y nombre del cliente.
func (r *ServiceOrderRepo) List(ctx context.Context, orgID string, f repository.ServiceFilter, limit, offset int) ([]*entity.ServiceOrder, int, error) {
	where := `s.organization_id = $1`
	args := []any{orgID}
	add := func(cond string, v any) {
		args = append(args, v)
		where += fmt.Sprintf(cond, len(args))
	}
	if f.Status != "" {
		add(` AND s.status = $%d`, f.Status)
	}
	if f.TechnicianID != "" {
		add(` AND s.technician_id = $%d`, f.TechnicianID)
	}
	if f.CustomerID != "" {
		add(` AND s.customer_id = $%d`, f.CustomerID)
	}
	if f.Search != "" {
		args = append(args, likePattern(f.Search))
		n := len(args)
		where += fmt.Sprintf(` AND (s.code ILIKE $%d OR s.problem ILIKE $%d OR c.name ILIKE $%d)`, n, n, n)
	}
	from := ` FROM services s JOIN customers c ON c.id = s.customer_id WHERE ` + where

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*)`+from, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count services: %w", err)
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s%s ORDER BY s.created_at DESC LIMIT $%d OFFSET $%d`,
		serviceColumns, from, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()
	var list []*entity.ServiceOrder
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan service: %w", err)
		}
		list = append(list, s)
	}
	return list, total, rows.Err()
}

// Update actualiza los datos editables de la orden (no el estado).
func (r *ServiceOrderRepo) Update(ctx context.Context, s *entity.ServiceOrder) error {
	query := `
		UPDATE services SET device_id = $3, technician_id = $4, problem = $5, diagnosis = $6,
		       price = $7, parts_total = $8, updated_at = $9
		WHERE id = $1 AND organization_id = $2`
	tag, err := r.q.Exec(ctx, query,
		s.ID, s.OrganizationID, nullIfEmpty(s.DeviceID), nullIfEmpty(s.TechnicianID), s.Problem, s.Diagnosis,
		s.Price, s.PartsTotal, s.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: dispositivo o técnico inexistente", domain.ErrInvalidInput)
		}
		return fmt.Errorf("update service: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStatus persiste estado y fechas con chequeo optimista sobre el estado previo.
func (r *ServiceOrderRepo) UpdateStatus(ctx context.Context, s *entity.ServiceOrder, expected string) error {
	query := `
		UPDATE services SET status = $4, started_at = $5, completed_at = $6, delivered_at = $7, updated_at = $8
		WHERE id = $1 AND organization_id = $2 AND status = $3`
	tag, err := r.q.Exec(ctx, query,
		s.ID, s.OrganizationID, expected, s.Status, s.StartedAt, s.CompletedAt, s.DeliveredAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update service status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: la orden cambió de estado", domain.ErrConflict)
	}
	return nil
}

// Delete elimina una orden (los repuestos se borran en cascada).
func (r *ServiceOrderRepo) Delete(ctx context.Context, orgID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM services WHERE id = $1 AND organization_id = $2`, id, orgID)
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteByCustomer elimina todas las órdenes de un cliente.
func (r *ServiceOrderRepo) DeleteByCustomer(ctx context.Context, orgID, customerID string) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM services WHERE organization_id = $1 AND customer_id = $2`, orgID, customerID)
	if err != nil {
		return 0, fmt.Errorf("delete services by customer: %w", err)
	}
	return tag.RowsAffected(), nil
}

// CountCreatedOn cuenta las órdenes creadas en el día calendario de day.
func (r *ServiceOrderRepo) CountCreatedOn(ctx context.Context, orgID string, day time.Time) (int, error) {
	start, end := dayBounds(day)
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM services WHERE organization_id = $1 AND created_at >= $2 AND created_at < $3`,
		orgID, start, end).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count services of day: %w", err)
	}
	return n, nil
}

// ── Repuestos ────────────────────────────────────────────────────────────────

// AddPart persiste un repuesto consumido.
func (r *ServiceOrderRepo) AddPart(ctx context.Context, p *entity.ServicePart) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO service_parts (id, service_id, product_id, quantity, unit_price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.ServiceID, p.ProductID, p.Quantity, p.UnitPrice, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert service part: %w", err)
	}
	return nil
}

// ListParts lista los repuestos de una orden.
func (r *ServiceOrderRepo) ListParts(ctx context.Context, serviceID string) ([]*entity.ServicePart, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, service_id, product_id, quantity, unit_price, created_at
		FROM service_parts WHERE service_id = $1 ORDER BY created_at`, serviceID)
	if err != nil {
		return nil, fmt.Errorf("list service parts: %w", err)
	}
	defer rows.Close()
	var list []*entity.ServicePart
	for rows.Next() {
		var p entity.ServicePart
		if err := rows.Scan(&p.ID, &p.ServiceID, &p.ProductID, &p.Quantity, &p.UnitPrice, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan service part: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
