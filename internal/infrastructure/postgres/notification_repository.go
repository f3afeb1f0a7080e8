package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/reparo-api/internal/domain"
	"github.com/jhoicas/reparo-api/internal/domain/entity"
	"github.com/jhoicas/reparo-api/internal/domain/repository"
)

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

// NotificationRepo implementación de NotificationRepository.
type NotificationRepo struct {
	q Querier
}

// NewNotificationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewNotificationRepository(q Querier) *NotificationRepo {
	return &NotificationRepo{q: q}
}

// Create persiste una notificación.
func (r *NotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO notifications (id, organization_id, user_id, type, title, description, read, action_link, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		n.ID, n.OrganizationID, n.UserID, n.Type, n.Title, n.Description, n.Read, n.ActionLink, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// ListByUser lista las notificaciones del usuario, más recientes primero.
func (r *NotificationRepo) ListByUser(ctx context.Context, orgID, userID string, unreadOnly bool, limit int) ([]*entity.Notification, error) {
	query := `
		SELECT id, organization_id, user_id, type, title, description, read, action_link, created_at
		FROM notifications
		WHERE organization_id = $1 AND user_id = $2 AND ($3 = FALSE OR read = FALSE)
		ORDER BY created_at DESC LIMIT $4`
	rows, err := r.q.Query(ctx, query, orgID, userID, unreadOnly, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()
	var list []*entity.Notification
	for rows.Next() {
		var n entity.Notification
		if err := rows.Scan(&n.ID, &n.OrganizationID, &n.UserID, &n.Type, &n.Title, &n.Description,
			&n.Read, &n.ActionLink, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		list = append(list, &n)
	}
	return list, rows.Err()
}

// CountUnread cantidad de notificaciones sin leer.
func (r *NotificationRepo) CountUnread(ctx context.Context, orgID, userID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE organization_id = $1 AND user_id = $2 AND read = FALSE`,
		orgID, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return n, nil
}

// MarkRead marca una notificación del usuario como leída.
func (r *NotificationRepo) MarkRead(ctx context.Context, orgID, userID, id string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE notifications SET read = TRUE WHERE id = $1 AND organization_id = $2 AND user_id = $3`,
		id, orgID, userID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkAllRead marca todas las notificaciones del usuario como leídas.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, orgID, userID string) (int64, error) {
	tag, err := r.q.Exec(ctx,
		`UPDATE notifications SET read = TRUE WHERE organization_id = $1 AND user_id = $2 AND read = FALSE`,
		orgID, userID)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Delete elimina una notificación del usuario.
func (r *NotificationRepo) Delete(ctx context.Context, orgID, userID, id string) error {
	tag, err := r.q.Exec(ctx,
		`DELETE FROM notifications WHERE id = $1 AND organization_id = $2 AND user_id = $3`, id, orgID, userID)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
