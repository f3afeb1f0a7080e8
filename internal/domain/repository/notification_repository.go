package repository

import (
	"context"

	"github.com/jhoicas/reparo-api/internal/domain/entity"
)

// NotificationRepository define el puerto de persistencia para notificaciones de usuario.
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	ListByUser(ctx context.Context, orgID, userID string, unreadOnly bool, limit int) ([]*entity.Notification, error)
	CountUnread(ctx context.Context, orgID, userID string) (int, error)
	MarkRead(ctx context.Context, orgID, userID, id string) error
	MarkAllRead(ctx context.Context, orgID, userID string) (int64, error)
	Delete(ctx context.Context, orgID, userID, id string) error
}
