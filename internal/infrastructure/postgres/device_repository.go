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

var _ repository.DeviceRepository = (*DeviceRepo)(nil)

// DeviceRepo implementación de DeviceRepository (usable con pool o tx).
type DeviceRepo struct {
	q Querier
}

// NewDeviceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDeviceRepository(q Querier) *DeviceRepo {
	return &DeviceRepo{q: q}
}

const deviceColumns = `id, organization_id, customer_id, brand, model, imei, color, condition, password, notes, created_at, updated_at`

func scanDevice(row pgx.Row) (*entity.Device, error) {
	var d entity.Device
	err := row.Scan(&d.ID, &d.OrganizationID, &d.CustomerID, &d.Brand, &d.Model, &d.IMEI, &d.Color,
		&d.Condition, &d.Password, &d.Notes, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Create persiste un dispositivo.
func (r *DeviceRepo) Create(ctx context.Context, d *entity.Device) error {
	query := `
		INSERT INTO devices (` + deviceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		d.ID, d.OrganizationID, d.CustomerID, d.Brand, d.Model, d.IMEI, d.Color,
		d.Condition, d.Password, d.Notes, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: cliente inexistente", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert device: %w", err)
	}
	return nil
}

// GetByID obtiene un dispositivo de la organización.
func (r *DeviceRepo) GetByID(ctx context.Context, orgID, id string) (*entity.Device, error) {
	d, err := scanDevice(r.q.QueryRow(ctx,
		`SELECT `+deviceColumns+` FROM devices WHERE id = $1 AND organization_id = $2`, id, orgID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get device: %w", err)
	}
	return d, nil
}

// ListByCustomer lista los dispositivos de un cliente.
func (r *DeviceRepo) ListByCustomer(ctx context.Context, orgID, customerID string) ([]*entity.Device, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+deviceColumns+` FROM devices WHERE organization_id = $1 AND customer_id = $2 ORDER BY created_at DESC`,
		orgID, customerID)
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Device
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan device: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// Update actualiza un dispositivo (el cliente dueño no cambia).
func (r *DeviceRepo) Update(ctx context.Context, d *entity.Device) error {
	query := `
		UPDATE devices SET brand = $3, model = $4, imei = $5, color = $6, condition = $7,
		       password = $8, notes = $9, updated_at = $10
		WHERE id = $1 AND organization_id = $2`
	tag, err := r.q.Exec(ctx, query,
		d.ID, d.OrganizationID, d.Brand, d.Model, d.IMEI, d.Color, d.Condition, d.Password, d.Notes, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update device: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un dispositivo.
func (r *DeviceRepo) Delete(ctx context.Context, orgID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM devices WHERE id = $1 AND organization_id = $2`, id, orgID)
	if err != nil {
		return fmt.Errorf("delete device: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteByCustomer elimina todos los dispositivos de un cliente.
func (r *DeviceRepo) DeleteByCustomer(ctx context.Context, orgID, customerID string) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM devices WHERE organization_id = $1 AND customer_id = $2`, orgID, customerID)
	if err != nil {
		return 0, fmt.Errorf("delete devices by customer: %w", err)
	}
	return tag.RowsAffected(), nil
}
