// Package customer clientes de la asistencia técnica y sus aparatos.
package customer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/reparo-api/internal/application/dto"
	"github.com/jhoicas/reparo-api/internal/application/ports"
	"github.com/jhoicas/reparo-api/internal/domain"
	"github.com/jhoicas/reparo-api/internal/domain/contact"
	"github.com/jhoicas/reparo-api/internal/domain/entity"
	"github.com/jhoicas/reparo-api/internal/domain/repository"
	"github.com/jhoicas/reparo-api/pkg/brdoc"
	"github.com/jhoicas/reparo-api/pkg/logger"
	"github.com/jhoicas/reparo-api/pkg/textnorm"
)

const (
	customersTable = "customers"
	devicesTable   = "devices"
)

// UseCase casos de uso de clientes y aparatos.
type UseCase struct {
	customers repository.CustomerRepository
	devices   repository.DeviceRepository
	tx        ports.TxRunner
	publisher ports.ChangePublisher
	log       *logger.Logger
	now       func() time.Time
}

// NewUseCase construye el caso de uso. publisher puede ser nil.
func NewUseCase(
	customers repository.CustomerRepository,
	devices repository.DeviceRepository,
	tx ports.TxRunner,
	publisher ports.ChangePublisher,
	log *logger.Logger,
) *UseCase {
	if publisher == nil {
		publisher = ports.NopPublisher{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{customers: customers, devices: devices, tx: tx, publisher: publisher, log: log, now: time.Now}
}

// Create da de alta un cliente. Documento repetido en la organización → domain.ErrDuplicate.
func (uc *UseCase) Create(ctx context.Context, orgID string, in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	document, err := normalizeDocument(in.Document)
	if err != nil {
		return nil, err
	}
	if err := uc.ensureUniqueDocument(ctx, orgID, document, ""); err != nil {
		return nil, err
	}
	now := uc.now()
	c := &entity.Customer{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		CreatedAt:      now,
	}
	apply(c, in, document, now)
	if err := uc.customers.Create(ctx, c); err != nil {
		return nil, err
	}
	uc.publish(ctx, orgID, customersTable, ports.ActionInsert, c.ID)
	return toCustomerResponse(c), nil
}

// Get obtiene un cliente de la organización.
func (uc *UseCase) Get(ctx context.Context, orgID, id string) (*dto.CustomerResponse, error) {
	c, err := uc.load(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	return toCustomerResponse(c), nil
}

// List busca por nombre, documento, teléfono o email.
func (uc *UseCase) List(ctx context.Context, orgID, search string, page dto.PageRequest) (*dto.CustomerListResponse, error) {
	page.DefaultPage()
	list, total, err := uc.customers.List(ctx, orgID, strings.TrimSpace(search), page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("customer: listar: %w", err)
	}
	items := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toCustomerResponse(c))
	}
	return &dto.CustomerListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// Update reemplaza los datos del cliente.
func (uc *UseCase) Update(ctx context.Context, orgID, id string, in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	c, err := uc.load(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	document, err := normalizeDocument(in.Document)
	if err != nil {
		return nil, err
	}
	if err := uc.ensureUniqueDocument(ctx, orgID, document, id); err != nil {
		return nil, err
	}
	apply(c, in, document, uc.now())
	if err := uc.customers.Update(ctx, c); err != nil {
		return nil, err
	}
	uc.publish(ctx, orgID, customersTable, ports.ActionUpdate, c.ID)
	return toCustomerResponse(c), nil
}

// Delete borra el cliente junto con sus órdenes de servicio y aparatos en una transacción.
// Los documentos fiscales conservan nombre y documento del cliente.
func (uc *UseCase) Delete(ctx context.Context, orgID, id string) (*dto.DeleteCustomerResponse, error) {
	if _, err := uc.load(ctx, orgID, id); err != nil {
		return nil, err
	}
	out := &dto.DeleteCustomerResponse{ID: id}
	err := uc.tx.Run(ctx, func(r ports.TxRepos) error {
		var err error
		if out.DeletedServices, err = r.Services.DeleteByCustomer(ctx, orgID, id); err != nil {
			return fmt.Errorf("customer: borrar órdenes: %w", err)
		}
		if out.DeletedDevices, err = r.Devices.DeleteByCustomer(ctx, orgID, id); err != nil {
			return fmt.Errorf("customer: borrar aparatos: %w", err)
		}
		return r.Customers.Delete(ctx, orgID, id)
	})
	if err != nil {
		return nil, err
	}
	uc.publish(ctx, orgID, customersTable, ports.ActionDelete, id)
	uc.log.Info().
		Str("customer", id).
		Int64("devices", out.DeletedDevices).
		Int64("services", out.DeletedServices).
		Msg("cliente eliminado")
	return out, nil
}

// Contact enlaces tel:, sms:, mailto: y WhatsApp del cliente.
func (uc *UseCase) Contact(ctx context.Context, orgID, id string) (*dto.ContactLinksResponse, error) {
	c, err := uc.load(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	l := contact.Build(c.Phone, c.WhatsApp, c.Email, "")
	return &dto.ContactLinksResponse{Tel: l.Tel, SMS: l.SMS, Mailto: l.Mailto, WhatsApp: l.WhatsApp}, nil
}

func (uc *UseCase) load(ctx context.Context, orgID, id string) (*entity.Customer, error) {
	c, err := uc.customers.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, fmt.Errorf("customer: obtener: %w", err)
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (uc *UseCase) ensureUniqueDocument(ctx context.Context, orgID, document, selfID string) error {
	if document == "" {
		return nil
	}
	existing, err := uc.customers.GetByDocument(ctx, orgID, document)
	if err != nil {
		return fmt.Errorf("customer: buscar documento: %w", err)
	}
	if existing != nil && existing.ID != selfID {
		return fmt.Errorf("%w: ya existe un cliente con el documento %s", domain.ErrDuplicate, brdoc.Format(document))
	}
	return nil
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

// normalizeDocument valida CPF/CNPJ y lo devuelve solo con dígitos. Vacío es válido.
func normalizeDocument(doc string) (string, error) {
	if strings.TrimSpace(doc) == "" {
		return "", nil
	}
	if err := brdoc.Validate(doc); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidDocument, err)
	}
	return textnorm.OnlyDigits(doc), nil
}

func apply(c *entity.Customer, in dto.CustomerRequest, document string, now time.Time) {
	c.Name = strings.TrimSpace(in.Name)
	c.Document = document
	c.Email = strings.ToLower(strings.TrimSpace(in.Email))
	c.Phone = strings.TrimSpace(in.Phone)
	c.WhatsApp = strings.TrimSpace(in.WhatsApp)
	c.Address = entity.Address{
		ZipCode:    textnorm.OnlyDigits(in.Address.ZipCode),
		Street:     in.Address.Street,
		Number:     in.Address.Number,
		Complement: in.Address.Complement,
		District:   in.Address.District,
		City:       in.Address.City,
		State:      strings.ToUpper(in.Address.State),
	}
	c.Notes = in.Notes
	c.UpdatedAt = now
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	out := &dto.CustomerResponse{
		ID:             c.ID,
		OrganizationID: c.OrganizationID,
		Name:           c.Name,
		Document:       c.Document,
		Email:          c.Email,
		Phone:          c.Phone,
		WhatsApp:       c.WhatsApp,
		Address: dto.AddressDTO{
			ZipCode:    c.Address.ZipCode,
			Street:     c.Address.Street,
			Number:     c.Address.Number,
			Complement: c.Address.Complement,
			District:   c.Address.District,
			City:       c.Address.City,
			State:      c.Address.State,
		},
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.Document != "" {
		out.DocumentFormatted = brdoc.Format(c.Document)
	}
	return out
}
