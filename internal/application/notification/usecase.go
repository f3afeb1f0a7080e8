// Package notification avisos internos por usuario.
package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/reparo-api/internal/application/dto"
	"github.com/jhoicas/reparo-api/internal/application/ports"
	"github.com/jhoicas/reparo-api/internal/domain/entity"
	"github.com/jhoicas/reparo-api/internal/domain/repository"
	"github.com/jhoicas/reparo-api/pkg/logger"
)

const (
	tableName = "notifications"
	listLimit = 100
)

var _ ports.Notifier = (*UseCase)(nil)

// UseCase lista y administra notificaciones; también implementa ports.Notifier
// para el resto de los casos de uso.
type UseCase struct {
	repo      repository.NotificationRepository
	publisher ports.ChangePublisher
	log       *logger.Logger
	now       func() time.Time
}

// NewUseCase construye el caso de uso. publisher puede ser nil.
func NewUseCase(repo repository.NotificationRepository, publisher ports.ChangePublisher, log *logger.Logger) *UseCase {
	if publisher == nil {
		publisher = ports.NopPublisher{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{repo: repo, publisher: publisher, log: log, now: time.Now}
}

// Notify persiste el aviso y publica el evento de cambio. Los errores solo se registran:
// una notificación perdida no debe abortar la operación que la originó.
func (uc *UseCase) Notify(ctx context.Context, n *entity.Notification) {
	if n == nil || n.UserID == "" || n.OrganizationID == "" {
		return
	}
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = uc.now()
	}
	if err := uc.repo.Create(ctx, n); err != nil {
		uc.log.Error().Err(err).Str("user", n.UserID).Str("type", n.Type).Msg("no se pudo crear la notificación")
		return
	}
	uc.publish(ctx, n.OrganizationID, n.ID, ports.ActionInsert)
}

// List notificaciones del usuario (más nuevas primero) y el contador de no leídas.
func (uc *UseCase) List(ctx context.Context, orgID, userID string, unreadOnly bool) (*dto.NotificationListResponse, error) {
	list, err := uc.repo.ListByUser(ctx, orgID, userID, unreadOnly, listLimit)
	if err != nil {
		return nil, fmt.Errorf("notification: listar: %w", err)
	}
	unread, err := uc.repo.CountUnread(ctx, orgID, userID)
	if err != nil {
		return nil, fmt.Errorf("notification: contar no leídas: %w", err)
	}
	items := make([]dto.NotificationResponse, 0, len(list))
	for _, n := range list {
		items = append(items, toResponse(n))
	}
	return &dto.NotificationListResponse{Items: items, Unread: unread}, nil
}

// UnreadCount contador para el badge del menú.
func (uc *UseCase) UnreadCount(ctx context.Context, orgID, userID string) (int, error) {
	return uc.repo.CountUnread(ctx, orgID, userID)
}

// MarkRead marca una notificación como leída.
func (uc *UseCase) MarkRead(ctx context.Context, orgID, userID, id string) error {
	if err := uc.repo.MarkRead(ctx, orgID, userID, id); err != nil {
		return err
	}
	uc.publish(ctx, orgID, id, ports.ActionUpdate)
	return nil
}

// MarkAllRead marca todas como leídas y devuelve cuántas cambiaron.
func (uc *UseCase) MarkAllRead(ctx context.Context, orgID, userID string) (int64, error) {
	n, err := uc.repo.MarkAllRead(ctx, orgID, userID)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		uc.publish(ctx, orgID, "", ports.ActionUpdate)
	}
	return n, nil
}

// Delete borra una notificación del usuario.
func (uc *UseCase) Delete(ctx context.Context, orgID, userID, id string) error {
	if err := uc.repo.Delete(ctx, orgID, userID, id); err != nil {
		return err
	}
	uc.publish(ctx, orgID, id, ports.ActionDelete)
	return nil
}

func (uc *UseCase) publish(ctx context.Context, orgID, id, action string) {
	uc.publisher.Publish(ctx, ports.ChangeEvent{
		OrganizationID: orgID,
		Table:          tableName,
		Action:         action,
		ID:             id,
		At:             uc.now(),
	})
}

func toResponse(n *entity.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:          n.ID,
		Type:        n.Type,
		Title:       n.Title,
		Description: n.Description,
		Read:        n.Read,
		ActionLink:  n.ActionLink,
		CreatedAt:   n.CreatedAt,
	}
}
