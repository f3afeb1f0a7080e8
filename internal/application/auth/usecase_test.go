package auth_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/reparo-api/internal/application/auth"
	"github.com/jhoicas/reparo-api/internal/application/dto"
	"github.com/jhoicas/reparo-api/internal/application/ports"
	"github.com/jhoicas/reparo-api/internal/domain"
	"github.com/jhoicas/reparo-api/internal/domain/entity"
	"github.com/jhoicas/reparo-api/internal/infrastructure/storage"
	"github.com/jhoicas/reparo-api/pkg/jwt"
)

const secret = "test-secret"

type fixture struct {
	uc      *auth.UseCase
	users   *memUsers
	orgs    *memOrgs
	modules *memModules
	fs      afero.Fs
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		users:   &memUsers{rows: map[string]entity.User{}},
		orgs:    &memOrgs{rows: map[string]entity.Organization{}},
		modules: &memModules{},
		fs:      afero.NewMemMapFs(),
	}
	store, err := storage.NewAvatarStore(f.fs, "/api/avatars")
	require.NoError(t, err)
	tx := &fakeTx{repos: ports.TxRepos{Users: f.users, Organizations: f.orgs, Modules: f.modules}}
	f.uc = auth.NewUseCase(f.users, f.orgs, tx, store,
		auth.JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "reparo-test"}, nil)
	return f
}

func registerReq(org, email string) dto.RegisterRequest {
	return dto.RegisterRequest{
		OrganizationName: org,
		Document:         "11222333000181",
		Name:             "Ana Admin",
		Email:            email,
		Password:         "segredo123",
	}
}

func TestRegister_CreaOrganizacionAdminYModulos(t *testing.T) {
	f := newFixture(t)

	out, err := f.uc.Register(context.Background(), registerReq("Conserta Já Celulares", " Ana@Example.com "))
	require.NoError(t, err)

	assert.Equal(t, "conserta-ja-celulares", out.Organization.Slug)
	assert.Equal(t, "11.222.333/0001-81", out.Organization.Document)
	assert.Equal(t, "ana@example.com", out.User.Email)
	assert.Equal(t, entity.RoleAdmin, out.User.Role)
	assert.True(t, out.ExpiresAt.After(time.Now()))

	id, err := jwt.Parse(secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, id.UserID)
	assert.Equal(t, out.Organization.ID, id.OrganizationID)
	assert.Equal(t, entity.RoleAdmin, id.Role)

	mods, _ := f.modules.ListByOrganization(context.Background(), out.Organization.ID)
	assert.Len(t, mods, len(entity.DefaultModules))
	for _, m := range mods {
		assert.True(t, m.IsActive, m.ModuleName)
	}
}

func TestRegister_SlugRepetidoRecibeSufijo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Register(ctx, registerReq("Tech Fix", "a@example.com"))
	require.NoError(t, err)
	second, err := f.uc.Register(ctx, registerReq("Tech Fix", "b@example.com"))
	require.NoError(t, err)
	third, err := f.uc.Register(ctx, registerReq("Tech  Fix!", "c@example.com"))
	require.NoError(t, err)

	assert.Equal(t, "tech-fix-2", second.Organization.Slug)
	assert.Equal(t, "tech-fix-3", third.Organization.Slug)
}

func TestRegister_Errores(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Register(ctx, registerReq("Loja", "dup@example.com"))
	require.NoError(t, err)

	_, err = f.uc.Register(ctx, registerReq("Outra", "DUP@example.com"))
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	bad := registerReq("Outra", "x@example.com")
	bad.Document = "11222333000100"
	_, err = f.uc.Register(ctx, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidDocument)

	cpf := registerReq("Outra", "y@example.com")
	cpf.Document = "52998224725"
	_, err = f.uc.Register(ctx, cpf)
	assert.ErrorIs(t, err, domain.ErrInvalidDocument)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reg, err := f.uc.Register(ctx, registerReq("Loja", "ana@example.com"))
	require.NoError(t, err)

	out, err := f.uc.Login(ctx, dto.LoginRequest{Email: "ANA@example.com", Password: "segredo123"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, out.User.ID)
	assert.Equal(t, "Loja", out.Organization.Name)

	_, err = f.uc.Login(ctx, dto.LoginRequest{Email: "ana@example.com", Password: "errada"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = f.uc.Login(ctx, dto.LoginRequest{Email: "nadie@example.com", Password: "segredo123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	u := f.users.rows[reg.User.ID]
	u.Status = entity.UserStatusInactive
	f.users.rows[reg.User.ID] = u
	_, err = f.uc.Login(ctx, dto.LoginRequest{Email: "ana@example.com", Password: "segredo123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUsuarios_CrearActualizarYAislar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reg, err := f.uc.Register(ctx, registerReq("Loja", "admin@example.com"))
	require.NoError(t, err)
	orgID, adminID := reg.Organization.ID, reg.User.ID

	tech, err := f.uc.CreateUser(ctx, orgID, dto.CreateUserRequest{
		Email: "tec@example.com", Password: "segredo123", Name: "Téc", Role: entity.RoleTechnician,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleTechnician, tech.Role)

	list, err := f.uc.ListUsers(ctx, orgID, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)
	assert.Equal(t, 20, list.Page.Limit)

	inactive := entity.UserStatusInactive
	updated, err := f.uc.UpdateUser(ctx, orgID, adminID, tech.ID, dto.UpdateUserRequest{Status: &inactive})
	require.NoError(t, err)
	assert.Equal(t, entity.UserStatusInactive, updated.Status)

	_, err = f.uc.UpdateUser(ctx, orgID, adminID, adminID, dto.UpdateUserRequest{Status: &inactive})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.UpdateUser(ctx, "otra-org", "x", tech.ID, dto.UpdateUserRequest{Status: &inactive})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = f.uc.Me(ctx, "otra-org", tech.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUpdateProfile_CambiaPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reg, err := f.uc.Register(ctx, registerReq("Loja", "ana@example.com"))
	require.NoError(t, err)

	name, pass := "Ana Souza", "nova-senha-1"
	me, err := f.uc.UpdateProfile(ctx, reg.Organization.ID, reg.User.ID, dto.UpdateProfileRequest{Name: &name, Password: &pass})
	require.NoError(t, err)
	assert.Equal(t, "Ana Souza", me.Name)

	_, err = f.uc.Login(ctx, dto.LoginRequest{Email: "ana@example.com", Password: "nova-senha-1"})
	assert.NoError(t, err)
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestUploadAvatar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reg, err := f.uc.Register(ctx, registerReq("Loja", "ana@example.com"))
	require.NoError(t, err)
	orgID, userID := reg.Organization.ID, reg.User.ID

	url, err := f.uc.UploadAvatar(ctx, orgID, userID, bytes.NewReader(pngHeader))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/api/avatars/"+userID+"-"))
	assert.True(t, strings.HasSuffix(url, ".png"))
	assert.Equal(t, url, f.users.rows[userID].AvatarURL)

	name := strings.TrimPrefix(url, "/api/avatars/")
	rc, ct, err := f.uc.OpenAvatar(ctx, name)
	require.NoError(t, err)
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	assert.Equal(t, pngHeader, data)
	assert.Equal(t, "image/png", ct)
}

func TestUploadAvatar_Rechazos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reg, err := f.uc.Register(ctx, registerReq("Loja", "ana@example.com"))
	require.NoError(t, err)
	f.uc.WithMaxAvatarKB(1)

	_, err = f.uc.UploadAvatar(ctx, reg.Organization.ID, reg.User.ID, strings.NewReader("texto plano"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	big := append(append([]byte{}, pngHeader...), make([]byte, 2048)...)
	_, err = f.uc.UploadAvatar(ctx, reg.Organization.ID, reg.User.ID, bytes.NewReader(big))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.UploadAvatar(ctx, reg.Organization.ID, reg.User.ID, bytes.NewReader(nil))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
