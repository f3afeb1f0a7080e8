// Package auth registro de organizaciones, login, perfil y gestión de usuarios.
package auth

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/reparo-api/internal/application/dto"
	"github.com/jhoicas/reparo-api/internal/application/organization"
	"github.com/jhoicas/reparo-api/internal/application/ports"
	"github.com/jhoicas/reparo-api/internal/domain"
	"github.com/jhoicas/reparo-api/internal/domain/entity"
	"github.com/jhoicas/reparo-api/internal/domain/repository"
	"github.com/jhoicas/reparo-api/pkg/jwt"
	"github.com/jhoicas/reparo-api/pkg/logger"
)

// maxSlugAttempts sufijos probados (-2, -3, ...) antes de rendirse.
const maxSlugAttempts = 20

const orgStatusActive = "active"

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// UseCase casos de uso de autenticación y usuarios.
type UseCase struct {
	users   repository.UserRepository
	orgs    repository.OrganizationRepository
	tx      ports.TxRunner
	avatars ports.AvatarStorage
	jwtCfg  JWTConfig
	log     *logger.Logger
	now     func() time.Time

	maxAvatarBytes int64
}

// NewUseCase construye el caso de uso de auth. avatars puede ser nil si no hay bucket.
func NewUseCase(
	users repository.UserRepository,
	orgs repository.OrganizationRepository,
	tx ports.TxRunner,
	avatars ports.AvatarStorage,
	jwtCfg JWTConfig,
	log *logger.Logger,
) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		users:          users,
		orgs:           orgs,
		tx:             tx,
		avatars:        avatars,
		jwtCfg:         jwtCfg,
		log:            log,
		now:            time.Now,
		maxAvatarBytes: 2 << 20,
	}
}

// WithMaxAvatarKB cambia el tope de tamaño del avatar.
func (uc *UseCase) WithMaxAvatarKB(kb int) *UseCase {
	if kb > 0 {
		uc.maxAvatarBytes = int64(kb) << 10
	}
	return uc
}

// Register crea la organización (slug único), su usuario admin y los módulos por defecto
// en una sola transacción, y devuelve el token de sesión.
func (uc *UseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.LoginResponse, error) {
	email := normalizeEmail(in.Email)
	existing, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("auth: buscar email: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	document, err := organization.NormalizeCNPJ(in.Document)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	org := &entity.Organization{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(in.OrganizationName),
		Document:  document,
		Email:     email,
		Phone:     strings.TrimSpace(in.Phone),
		Status:    orgStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	user := &entity.User{
		ID:             uuid.New().String(),
		OrganizationID: org.ID,
		Email:          email,
		PasswordHash:   string(hash),
		Name:           strings.TrimSpace(in.Name),
		Role:           entity.RoleAdmin,
		Status:         entity.UserStatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = uc.tx.Run(ctx, func(r ports.TxRepos) error {
		s, err := uniqueSlug(ctx, r.Organizations, org.Name)
		if err != nil {
			return err
		}
		org.Slug = s
		if err := r.Organizations.Create(ctx, org); err != nil {
			return err
		}
		if err := r.Users.Create(ctx, user); err != nil {
			return err
		}
		for _, name := range entity.DefaultModules {
			if err := r.Modules.Upsert(ctx, &entity.OrganizationModule{
				ID:             uuid.New().String(),
				OrganizationID: org.ID,
				ModuleName:     name,
				IsActive:       true,
				ActivatedAt:    now,
				CreatedAt:      now,
				UpdatedAt:      now,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("org", org.ID).Str("slug", org.Slug).Msg("organización registrada")
	return uc.session(user, org)
}

// Login verifica email/password, genera JWT y retorna token + usuario + organización.
// Email inexistente y password incorrecto devuelven el mismo error.
func (uc *UseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.users.GetByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		return nil, fmt.Errorf("auth: buscar usuario: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != entity.UserStatusActive {
		return nil, domain.ErrForbidden
	}
	org, err := uc.orgs.GetByID(ctx, user.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("auth: obtener organización: %w", err)
	}
	if org == nil || org.Status != orgStatusActive {
		return nil, domain.ErrForbidden
	}
	return uc.session(user, org)
}

func (uc *UseCase) session(user *entity.User, org *entity.Organization) (*dto.LoginResponse, error) {
	token, exp, err := jwt.Generate(uc.jwtCfg.Secret, jwt.Identity{
		UserID:         user.ID,
		OrganizationID: user.OrganizationID,
		Role:           user.Role,
	}, uc.jwtCfg.Issuer, time.Duration(uc.jwtCfg.ExpMinutes)*time.Minute)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:        token,
		ExpiresAt:    exp,
		User:         *ToUserResponse(user),
		Organization: *organization.ToResponse(org),
	}, nil
}

// uniqueSlug deriva el slug del nombre y agrega sufijo numérico si ya existe.
func uniqueSlug(ctx context.Context, orgs repository.OrganizationRepository, name string) (string, error) {
	base := slug.Make(name)
	if base == "" {
		base = "assistencia"
	}
	candidate := base
	for i := 2; i <= maxSlugAttempts+1; i++ {
		found, err := orgs.GetBySlug(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("auth: verificar slug: %w", err)
		}
		if found == nil {
			return candidate, nil
		}
		candidate = base + "-" + strconv.Itoa(i)
	}
	return "", fmt.Errorf("%w: slug %q agotado", domain.ErrDuplicate, base)
}

// ── Perfil ────────────────────────────────────────────────────────────────────

// Me devuelve el usuario autenticado.
func (uc *UseCase) Me(ctx context.Context, orgID, userID string) (*dto.UserResponse, error) {
	user, err := uc.loadUser(ctx, orgID, userID)
	if err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// UpdateProfile cambia nombre y/o password del propio usuario.
func (uc *UseCase) UpdateProfile(ctx context.Context, orgID, userID string, in dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := uc.loadUser(ctx, orgID, userID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	user.UpdatedAt = uc.now()
	if err := uc.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// ── Usuarios (admin) ──────────────────────────────────────────────────────────

// ListUsers usuarios de la organización.
func (uc *UseCase) ListUsers(ctx context.Context, orgID string, page dto.PageRequest) (*dto.UserListResponse, error) {
	page.DefaultPage()
	list, err := uc.users.ListByOrganization(ctx, orgID, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("auth: listar usuarios: %w", err)
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *ToUserResponse(u))
	}
	return &dto.UserListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(items)},
	}, nil
}

// CreateUser da de alta un técnico, atendente u otro admin en la organización.
func (uc *UseCase) CreateUser(ctx context.Context, orgID string, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if !entity.IsValidRole(in.Role) {
		return nil, fmt.Errorf("%w: rol inválido %q", domain.ErrInvalidInput, in.Role)
	}
	email := normalizeEmail(in.Email)
	existing, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("auth: buscar email: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	user := &entity.User{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		Email:          email,
		PasswordHash:   string(hash),
		Name:           strings.TrimSpace(in.Name),
		Role:           in.Role,
		Status:         entity.UserStatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// UpdateUser cambia nombre, rol o estado de otro usuario. Un admin no puede
// quitarse el rol ni desactivarse a sí mismo.
func (uc *UseCase) UpdateUser(ctx context.Context, orgID, actorID, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.loadUser(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if id == actorID {
		if in.Role != nil && *in.Role != user.Role {
			return nil, fmt.Errorf("%w: no puede cambiar su propio rol", domain.ErrInvalidInput)
		}
		if in.Status != nil && *in.Status != entity.UserStatusActive {
			return nil, fmt.Errorf("%w: no puede desactivarse a sí mismo", domain.ErrInvalidInput)
		}
	}
	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Role != nil {
		if !entity.IsValidRole(*in.Role) {
			return nil, fmt.Errorf("%w: rol inválido %q", domain.ErrInvalidInput, *in.Role)
		}
		user.Role = *in.Role
	}
	if in.Status != nil {
		user.Status = *in.Status
	}
	user.UpdatedAt = uc.now()
	if err := uc.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// loadUser trae el usuario y verifica que pertenezca a la organización.
func (uc *UseCase) loadUser(ctx context.Context, orgID, id string) (*entity.User, error) {
	user, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("auth: obtener usuario: %w", err)
	}
	if user == nil || user.OrganizationID != orgID {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

// ToUserResponse mapea la entidad a su DTO (sin hash).
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:             u.ID,
		OrganizationID: u.OrganizationID,
		Email:          u.Email,
		Name:           u.Name,
		Role:           u.Role,
		Status:         u.Status,
		AvatarURL:      u.AvatarURL,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

