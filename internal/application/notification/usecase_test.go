package notification_test

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/reparo-api/internal/application/notification"
	"github.com/jhoicas/reparo-api/internal/application/ports"
	"github.com/jhoicas/reparo-api/internal/domain"
	"github.com/jhoicas/reparo-api/internal/domain/entity"
)

type memRepo struct {
	rows      []*entity.Notification
	createErr error
}

func (m *memRepo) Create(_ context.Context, n *entity.Notification) error {
	if m.createErr != nil {
		return m.createErr
	}
	c := *n
	m.rows = append(m.rows, &c)
	return nil
}

func (m *memRepo) ListByUser(_ context.Context, orgID, userID string, unreadOnly bool, limit int) ([]*entity.Notification, error) {
	var out []*entity.Notification
	for _, n := range m.rows {
		if n.OrganizationID == orgID && n.UserID == userID && (!unreadOnly || !n.Read) {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memRepo) CountUnread(_ context.Context, orgID, userID string) (int, error) {
	c := 0
	for _, n := range m.rows {
		if n.OrganizationID == orgID && n.UserID == userID && !n.Read {
			c++
		}
	}
	return c, nil
}

func (m *memRepo) find(orgID, userID, id string) *entity.Notification {
	for _, n := range m.rows {
		if n.ID == id && n.OrganizationID == orgID && n.UserID == userID {
			return n
		}
	}
	return nil
}

func (m *memRepo) MarkRead(_ context.Context, orgID, userID, id string) error {
	n := m.find(orgID, userID, id)
	if n == nil {
		return domain.ErrNotFound
	}
	n.Read = true
	return nil
}

func (m *memRepo) MarkAllRead(_ context.Context, orgID, userID string) (int64, error) {
	var c int64
	for _, n := range m.rows {
		if n.OrganizationID == orgID && n.UserID == userID && !n.Read {
			n.Read = true
			c++
		}
	}
	return c, nil
}

func (m *memRepo) Delete(_ context.Context, orgID, userID, id string) error {
	for i, n := range m.rows {
		if n.ID == id && n.OrganizationID == orgID && n.UserID == userID {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type events struct{ list []ports.ChangeEvent }

func (e *events) Publish(_ context.Context, ev ports.ChangeEvent) { e.list = append(e.list, ev) }

func notify(uc *notification.UseCase, user, title string) {
	uc.Notify(context.Background(), &entity.Notification{
		OrganizationID: "org-1",
		UserID:         user,
		Type:           entity.NotificationServiceStatus,
		Title:          title,
	})
}

func TestNotify_PersisteYPublica(t *testing.T) {
	repo, ev := &memRepo{}, &events{}
	uc := notification.NewUseCase(repo, ev, nil)

	notify(uc, "u1", "OS-1 em andamento")

	require.Len(t, repo.rows, 1)
	assert.NotEmpty(t, repo.rows[0].ID)
	assert.False(t, repo.rows[0].CreatedAt.IsZero())
	require.Len(t, ev.list, 1)
	assert.Equal(t, "notifications", ev.list[0].Table)
	assert.Equal(t, ports.ActionInsert, ev.list[0].Action)
}

func TestNotify_ErrorNoSePropaga(t *testing.T) {
	repo, ev := &memRepo{createErr: errors.New("db caída")}, &events{}
	uc := notification.NewUseCase(repo, ev, nil)

	notify(uc, "u1", "x")

	assert.Empty(t, ev.list)
}

func TestListarMarcarYBorrar(t *testing.T) {
	repo := &memRepo{}
	uc := notification.NewUseCase(repo, nil, nil)
	ctx := context.Background()
	notify(uc, "u1", "a")
	notify(uc, "u1", "b")
	notify(uc, "u2", "otro usuario")

	list, err := uc.List(ctx, "org-1", "u1", false)
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)
	assert.Equal(t, 2, list.Unread)

	require.NoError(t, uc.MarkRead(ctx, "org-1", "u1", list.Items[0].ID))
	unread, err := uc.List(ctx, "org-1", "u1", true)
	require.NoError(t, err)
	assert.Len(t, unread.Items, 1)
	assert.Equal(t, 1, unread.Unread)

	assert.ErrorIs(t, uc.MarkRead(ctx, "org-1", "u2", list.Items[1].ID), domain.ErrNotFound)

	n, err := uc.MarkAllRead(ctx, "org-1", "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, uc.Delete(ctx, "org-1", "u1", list.Items[0].ID))
	count, err := uc.UnreadCount(ctx, "org-1", "u2")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
