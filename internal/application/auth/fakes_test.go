package auth_test

import (
	"context"
	"sync"

	"github.com/jhoicas/reparo-api/internal/application/ports"
	"github.com/jhoicas/reparo-api/internal/domain"
	"github.com/jhoicas/reparo-api/internal/domain/entity"
	"github.com/jhoicas/reparo-api/internal/domain/repository"
)

type memUsers struct {
	mu   sync.Mutex
	rows map[string]entity.User
}

var _ repository.UserRepository = (*memUsers)(nil)

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	m.rows[u.ID] = *u
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.rows {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (m *memUsers) Update(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[u.ID] = *u
	return nil
}

func (m *memUsers) UpdateAvatar(_ context.Context, orgID, userID, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[userID]
	if !ok || u.OrganizationID != orgID {
		return domain.ErrNotFound
	}
	u.AvatarURL = url
	m.rows[userID] = u
	return nil
}

func (m *memUsers) ListByOrganization(_ context.Context, orgID string, limit, offset int) ([]*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.User
	for _, u := range m.rows {
		if u.OrganizationID == orgID {
			c := u
			out = append(out, &c)
		}
	}
	return out, nil
}

type memOrgs struct {
	mu   sync.Mutex
	rows map[string]entity.Organization
}

func (m *memOrgs) Create(_ context.Context, o *entity.Organization) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.Slug == o.Slug {
			return domain.ErrDuplicate
		}
	}
	m.rows[o.ID] = *o
	return nil
}

func (m *memOrgs) GetByID(_ context.Context, id string) (*entity.Organization, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (m *memOrgs) GetBySlug(_ context.Context, s string) (*entity.Organization, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.rows {
		if o.Slug == s {
			return &o, nil
		}
	}
	return nil, nil
}

func (m *memOrgs) Update(_ context.Context, o *entity.Organization) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[o.ID] = *o
	return nil
}

type memModules struct {
	mu   sync.Mutex
	rows []entity.OrganizationModule
}

func (m *memModules) ListByOrganization(_ context.Context, orgID string) ([]*entity.OrganizationModule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.OrganizationModule
	for _, r := range m.rows {
		if r.OrganizationID == orgID {
			c := r
			out = append(out, &c)
		}
	}
	return out, nil
}

func (m *memModules) Get(_ context.Context, orgID, name string) (*entity.OrganizationModule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.OrganizationID == orgID && r.ModuleName == name {
			c := r
			return &c, nil
		}
	}
	return nil, nil
}

func (m *memModules) Upsert(_ context.Context, mod *entity.OrganizationModule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.rows {
		if r.OrganizationID == mod.OrganizationID && r.ModuleName == mod.ModuleName {
			m.rows[i] = *mod
			return nil
		}
	}
	m.rows = append(m.rows, *mod)
	return nil
}

// fakeTx ejecuta fn sobre los repos en memoria; failAfter simula un error antes del commit.
type fakeTx struct {
	repos     ports.TxRepos
	failAfter error
}

func (f *fakeTx) Run(_ context.Context, fn func(ports.TxRepos) error) error {
	if err := fn(f.repos); err != nil {
		return err
	}
	return f.failAfter
}
