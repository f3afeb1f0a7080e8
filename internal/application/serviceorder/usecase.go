// Package serviceorder casos de uso de órdenes de servicio (reparaciones).
package serviceorder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/reparo-api/internal/application/dto"
	"github.com/jhoicas/reparo-api/internal/application/inventory"
	"github.com/jhoicas/reparo-api/internal/application/ports"
	"github.com/jhoicas/reparo-api/internal/domain"
	"github.com/jhoicas/reparo-api/internal/domain/entity"
	"github.com/jhoicas/reparo-api/internal/domain/repository"
	domservice "github.com/jhoicas/reparo-api/internal/domain/serviceorder"
	"github.com/jhoicas/reparo-api/pkg/logger"
)

const (
	tableName = "services"
	// Reintentos si dos órdenes del mismo día reciben el mismo código.
	maxCodeAttempts = 3
)

var statusLabels = map[string]string{
	entity.ServiceStatusPending:      "Pendente",
	entity.ServiceStatusInProgress:   "Em andamento",
	entity.ServiceStatusWaitingParts: "Aguardando peças",
	entity.ServiceStatusCompleted:    "Concluído",
	entity.ServiceStatusDelivered:    "Entregue",
}

// StatusLabel etiqueta en portugués del estado.
func StatusLabel(status string) string {
	if l, ok := statusLabels[status]; ok {
		return l
	}
	return status
}

// UseCase casos de uso de órdenes de servicio.
type UseCase struct {
	services  repository.ServiceOrderRepository
	customers repository.CustomerRepository
	devices   repository.DeviceRepository
	users     repository.UserRepository
	tx        ports.TxRunner
	stock     *inventory.UseCase
	publisher ports.ChangePublisher
	notifier  ports.Notifier
	log       *logger.Logger
	now       func() time.Time
}

// NewUseCase construye el caso de uso. stock se usa para los avisos posteriores a consumir repuestos.
func NewUseCase(
	services repository.ServiceOrderRepository,
	customers repository.CustomerRepository,
	devices repository.DeviceRepository,
	users repository.UserRepository,
	tx ports.TxRunner,
	stock *inventory.UseCase,
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
		services:  services,
		customers: customers,
		devices:   devices,
		users:     users,
		tx:        tx,
		stock:     stock,
		publisher: publisher,
		notifier:  notifier,
		log:       log,
		now:       time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// Create abre una orden en estado pending con código OS-YYYYMMDD-NNNN.
func (uc *UseCase) Create(ctx context.Context, orgID, userID string, in dto.CreateServiceRequest) (*dto.ServiceResponse, error) {
	problem := strings.TrimSpace(in.Problem)
	if problem == "" {
		return nil, fmt.Errorf("%w: problem es obligatorio", domain.ErrInvalidInput)
	}
	if in.Price.IsNegative() {
		return nil, fmt.Errorf("%w: precio negativo", domain.ErrInvalidInput)
	}
	if err := uc.checkCustomerDevice(ctx, orgID, in.CustomerID, in.DeviceID); err != nil {
		return nil, err
	}
	if in.TechnicianID != "" {
		if _, err := uc.loadTechnician(ctx, orgID, in.TechnicianID); err != nil {
			return nil, err
		}
	}

	now := uc.now()
	s := &entity.ServiceOrder{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		CustomerID:     in.CustomerID,
		DeviceID:       in.DeviceID,
		TechnicianID:   in.TechnicianID,
		Problem:        problem,
		Status:         entity.ServiceStatusPending,
		Price:          in.Price,
		PartsTotal:     decimal.Zero,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	count, err := uc.services.CountCreatedOn(ctx, orgID, now)
	if err != nil {
		return nil, fmt.Errorf("serviceorder: contar órdenes del día: %w", err)
	}
	for attempt := 1; ; attempt++ {
		s.Code = domservice.Code(now, count+attempt)
		err = uc.services.Create(ctx, s)
		if !errors.Is(err, domain.ErrDuplicate) || attempt == maxCodeAttempts {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, orgID, ports.ActionInsert, s.ID)
	if s.TechnicianID != "" && s.TechnicianID != userID {
		uc.notifyTechnician(ctx, s, entity.NotificationServiceAssign, "Nova ordem atribuída: "+s.Code)
	}
	uc.log.Info().Str("service", s.ID).Str("code", s.Code).Msg("orden de servicio creada")
	return toResponse(s, nil), nil
}

// Get devuelve la orden con sus repuestos.
func (uc *UseCase) Get(ctx context.Context, orgID, id string) (*dto.ServiceResponse, error) {
	s, err := uc.load(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	parts, err := uc.services.ListParts(ctx, s.ID)
	if err != nil {
		return nil, fmt.Errorf("serviceorder: listar repuestos: %w", err)
	}
	return toResponse(s, parts), nil
}

// List lista con filtros de estado, técnico, cliente y texto.
func (uc *UseCase) List(ctx context.Context, orgID string, in dto.ServiceListRequest) (*dto.ServiceListResponse, error) {
	if in.Status != "" && !domservice.IsValidStatus(in.Status) {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, in.Status)
	}
	page := in.PageRequest
	page.DefaultPage()
	f := repository.ServiceFilter{
		Status:       in.Status,
		TechnicianID: in.TechnicianID,
		CustomerID:   in.CustomerID,
		Search:       strings.TrimSpace(in.Search),
	}
	list, total, err := uc.services.List(ctx, orgID, f, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("serviceorder: listar: %w", err)
	}
	items := make([]dto.ServiceResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toResponse(s, nil))
	}
	return &dto.ServiceListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// Update edición parcial: técnico, problema, diagnóstico y precio de mano de obra.
// Una orden entregada no se edita.
func (uc *UseCase) Update(ctx context.Context, orgID, userID, id string, in dto.UpdateServiceRequest) (*dto.ServiceResponse, error) {
	s, err := uc.load(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if s.Status == entity.ServiceStatusDelivered {
		return nil, fmt.Errorf("%w: la orden ya fue entregada", domain.ErrConflict)
	}

	assigned := false
	if in.TechnicianID != nil && *in.TechnicianID != s.TechnicianID {
		if *in.TechnicianID != "" {
			if _, err := uc.loadTechnician(ctx, orgID, *in.TechnicianID); err != nil {
				return nil, err
			}
			assigned = true
		}
		s.TechnicianID = *in.TechnicianID
	}
	if in.Problem != nil {
		p := strings.TrimSpace(*in.Problem)
		if p == "" {
			return nil, fmt.Errorf("%w: problem es obligatorio", domain.ErrInvalidInput)
		}
		s.Problem = p
	}
	if in.Diagnosis != nil {
		s.Diagnosis = strings.TrimSpace(*in.Diagnosis)
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, fmt.Errorf("%w: precio negativo", domain.ErrInvalidInput)
		}
		s.Price = *in.Price
	}
	s.UpdatedAt = uc.now()

	if err := uc.services.Update(ctx, s); err != nil {
		return nil, err
	}
	uc.publish(ctx, orgID, ports.ActionUpdate, s.ID)
	if assigned && s.TechnicianID != userID {
		uc.notifyTechnician(ctx, s, entity.NotificationServiceAssign, "Nova ordem atribuída: "+s.Code)
	}
	return uc.Get(ctx, orgID, s.ID)
}

// UpdateStatus aplica una transición de estado. Transición no permitida → ErrInvalidTransition;
// si otro cliente cambió el estado entre la lectura y la escritura → ErrConflict.
func (uc *UseCase) UpdateStatus(ctx context.Context, orgID, userID, id, status string) (*dto.ServiceResponse, error) {
	s, err := uc.load(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	expected := s.Status
	if err := domservice.Apply(s, status, uc.now()); err != nil {
		return nil, err
	}
	if err := uc.services.UpdateStatus(ctx, s, expected); err != nil {
		return nil, err
	}

	uc.publish(ctx, orgID, ports.ActionUpdate, s.ID)
	if s.TechnicianID != "" && s.TechnicianID != userID {
		uc.notifyTechnician(ctx, s, entity.NotificationServiceStatus,
			fmt.Sprintf("%s: %s", s.Code, StatusLabel(s.Status)))
	}
	uc.log.Info().
		Str("service", s.ID).
		Str("from", expected).
		Str("to", s.Status).
		Msg("cambio de estado de orden")
	return uc.Get(ctx, orgID, s.ID)
}

// Delete borra la orden. Si ya consumió repuestos se rechaza: el stock no se devuelve solo.
func (uc *UseCase) Delete(ctx context.Context, orgID, id string) error {
	s, err := uc.load(ctx, orgID, id)
	if err != nil {
		return err
	}
	parts, err := uc.services.ListParts(ctx, s.ID)
	if err != nil {
		return fmt.Errorf("serviceorder: listar repuestos: %w", err)
	}
	if len(parts) > 0 {
		return fmt.Errorf("%w: la orden tiene repuestos consumidos, registre la devolución antes", domain.ErrConflict)
	}
	if err := uc.services.Delete(ctx, orgID, id); err != nil {
		return err
	}
	uc.publish(ctx, orgID, ports.ActionDelete, id)
	return nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (uc *UseCase) load(ctx context.Context, orgID, id string) (*entity.ServiceOrder, error) {
	s, err := uc.services.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, fmt.Errorf("serviceorder: obtener orden: %w", err)
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

func (uc *UseCase) checkCustomerDevice(ctx context.Context, orgID, customerID, deviceID string) error {
	c, err := uc.customers.GetByID(ctx, orgID, customerID)
	if err != nil {
		return fmt.Errorf("serviceorder: obtener cliente: %w", err)
	}
	if c == nil {
		return fmt.Errorf("%w: cliente inexistente", domain.ErrInvalidInput)
	}
	d, err := uc.devices.GetByID(ctx, orgID, deviceID)
	if err != nil {
		return fmt.Errorf("serviceorder: obtener aparato: %w", err)
	}
	if d == nil || d.CustomerID != customerID {
		return fmt.Errorf("%w: el aparato no pertenece al cliente", domain.ErrInvalidInput)
	}
	return nil
}

// loadTechnician el usuario debe ser de la organización, estar activo y no ser atendente.
func (uc *UseCase) loadTechnician(ctx context.Context, orgID, userID string) (*entity.User, error) {
	u, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("serviceorder: obtener técnico: %w", err)
	}
	if u == nil || u.OrganizationID != orgID || u.Status != entity.UserStatusActive {
		return nil, fmt.Errorf("%w: técnico inexistente o inactivo", domain.ErrInvalidInput)
	}
	if u.Role == entity.RoleAttendant {
		return nil, fmt.Errorf("%w: el usuario no es técnico", domain.ErrInvalidInput)
	}
	return u, nil
}

func (uc *UseCase) notifyTechnician(ctx context.Context, s *entity.ServiceOrder, kind, title string) {
	if uc.notifier == nil {
		return
	}
	uc.notifier.Notify(ctx, &entity.Notification{
		OrganizationID: s.OrganizationID,
		UserID:         s.TechnicianID,
		Type:           kind,
		Title:          title,
		Description:    s.Problem,
		ActionLink:     "/services/" + s.ID,
	})
}

func (uc *UseCase) publish(ctx context.Context, orgID, action, id string) {
	uc.publisher.Publish(ctx, ports.ChangeEvent{
		OrganizationID: orgID,
		Table:          tableName,
		Action:         action,
		ID:             id,
		At:             uc.now(),
	})
}

func toResponse(s *entity.ServiceOrder, parts []*entity.ServicePart) *dto.ServiceResponse {
	out := &dto.ServiceResponse{
		ID:           s.ID,
		Code:         s.Code,
		CustomerID:   s.CustomerID,
		DeviceID:     s.DeviceID,
		TechnicianID: s.TechnicianID,
		Problem:      s.Problem,
		Diagnosis:    s.Diagnosis,
		Status:       s.Status,
		NextStatuses: domservice.NextStatuses(s.Status),
		Price:        s.Price,
		PartsTotal:   s.PartsTotal,
		Total:        s.Total(),
		StartedAt:    s.StartedAt,
		CompletedAt:  s.CompletedAt,
		DeliveredAt:  s.DeliveredAt,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
	for _, p := range parts {
		out.Parts = append(out.Parts, toPartResponse(p))
	}
	return out
}

func toPartResponse(p *entity.ServicePart) dto.ServicePartResponse {
	return dto.ServicePartResponse{
		ID:        p.ID,
		ProductID: p.ProductID,
		Quantity:  p.Quantity,
		UnitPrice: p.UnitPrice,
		Total:     p.Quantity.Mul(p.UnitPrice).Round(2),
		CreatedAt: p.CreatedAt,
	}
}
