package repository

import (
	"context"

	"github.com/jhoicas/reparo-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// GetByEmail busca en todas las organizaciones (el email es único global, se usa en login).
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	UpdateAvatar(ctx context.Context, orgID, userID, avatarURL string) error
	ListByOrganization(ctx context.Context, orgID string, limit, offset int) ([]*entity.User, error)
}
