package customer

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/reparo-api/internal/application/dto"
	"github.com/jhoicas/reparo-api/internal/application/ports"
	"github.com/jhoicas/reparo-api/internal/domain"
	"github.com/jhoicas/reparo-api/internal/domain/entity"
)

// CreateDevice registra un aparato del cliente.
func (uc *UseCase) CreateDevice(ctx context.Context, orgID, customerID string, in dto.DeviceRequest) (*dto.DeviceResponse, error) {
	if _, err := uc.load(ctx, orgID, customerID); err != nil {
		return nil, err
	}
	now := uc.now()
	d := &entity.Device{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		CustomerID:     customerID,
		CreatedAt:      now,
	}
	applyDevice(d, in)
	d.UpdatedAt = now
	if err := uc.devices.Create(ctx, d); err != nil {
		return nil, err
	}
	uc.publish(ctx, orgID, devicesTable, ports.ActionInsert, d.ID)
	return toDeviceResponse(d), nil
}

// ListDevices aparatos del cliente.
func (uc *UseCase) ListDevices(ctx context.Context, orgID, customerID string) ([]dto.DeviceResponse, error) {
	if _, err := uc.load(ctx, orgID, customerID); err != nil {
		return nil, err
	}
	list, err := uc.devices.ListByCustomer(ctx, orgID, customerID)
	if err != nil {
		return nil, fmt.Errorf("customer: listar aparatos: %w", err)
	}
	out := make([]dto.DeviceResponse, 0, len(list))
	for _, d := range list {
		out = append(out, *toDeviceResponse(d))
	}
	return out, nil
}

// GetDevice obtiene un aparato; debe pertenecer al cliente indicado.
func (uc *UseCase) GetDevice(ctx context.Context, orgID, customerID, id string) (*dto.DeviceResponse, error) {
	d, err := uc.loadDevice(ctx, orgID, customerID, id)
	if err != nil {
		return nil, err
	}
	return toDeviceResponse(d), nil
}

// UpdateDevice reemplaza los datos del aparato.
func (uc *UseCase) UpdateDevice(ctx context.Context, orgID, customerID, id string, in dto.DeviceRequest) (*dto.DeviceResponse, error) {
	d, err := uc.loadDevice(ctx, orgID, customerID, id)
	if err != nil {
		return nil, err
	}
	applyDevice(d, in)
	d.UpdatedAt = uc.now()
	if err := uc.devices.Update(ctx, d); err != nil {
		return nil, err
	}
	uc.publish(ctx, orgID, devicesTable, ports.ActionUpdate, d.ID)
	return toDeviceResponse(d), nil
}

// DeleteDevice borra el aparato. Las órdenes que lo referencian quedan sin aparato.
func (uc *UseCase) DeleteDevice(ctx context.Context, orgID, customerID, id string) error {
	if _, err := uc.loadDevice(ctx, orgID, customerID, id); err != nil {
		return err
	}
	if err := uc.devices.Delete(ctx, orgID, id); err != nil {
		return err
	}
	uc.publish(ctx, orgID, devicesTable, ports.ActionDelete, id)
	return nil
}

func (uc *UseCase) loadDevice(ctx context.Context, orgID, customerID, id string) (*entity.Device, error) {
	d, err := uc.devices.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, fmt.Errorf("customer: obtener aparato: %w", err)
	}
	if d == nil || d.CustomerID != customerID {
		return nil, domain.ErrNotFound
	}
	return d, nil
}

func applyDevice(d *entity.Device, in dto.DeviceRequest) {
	d.Brand = strings.TrimSpace(in.Brand)
	d.Model = strings.TrimSpace(in.Model)
	d.IMEI = strings.TrimSpace(in.IMEI)
	d.Color = in.Color
	d.Condition = in.Condition
	d.Password = in.Password
	d.Notes = in.Notes
}

func toDeviceResponse(d *entity.Device) *dto.DeviceResponse {
	return &dto.DeviceResponse{
		ID:         d.ID,
		CustomerID: d.CustomerID,
		Brand:      d.Brand,
		Model:      d.Model,
		IMEI:       d.IMEI,
		Color:      d.Color,
		Condition:  d.Condition,
		Password:   d.Password,
		Notes:      d.Notes,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}
