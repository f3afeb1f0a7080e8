package customer_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/reparo-api/internal/application/customer"
	"github.com/jhoicas/reparo-api/internal/application/dto"
	"github.com/jhoicas/reparo-api/internal/application/ports"
	"github.com/jhoicas/reparo-api/internal/domain"
	"github.com/jhoicas/reparo-api/internal/domain/entity"
	"github.com/jhoicas/reparo-api/internal/domain/repository"
)

// ── fakes ─────────────────────────────────────────────────────────────────────

type memCustomers struct {
	rows map[string]entity.Customer
}

func (m *memCustomers) Create(_ context.Context, c *entity.Customer) error {
	m.rows[c.ID] = *c
	return nil
}

func (m *memCustomers) GetByID(_ context.Context, orgID, id string) (*entity.Customer, error) {
	c, ok := m.rows[id]
	if !ok || c.OrganizationID != orgID {
		return nil, nil
	}
	return &c, nil
}

func (m *memCustomers) GetByDocument(_ context.Context, orgID, doc string) (*entity.Customer, error) {
	for _, c := range m.rows {
		if c.OrganizationID == orgID && c.Document == doc {
			return &c, nil
		}
	}
	return nil, nil
}

func (m *memCustomers) List(_ context.Context, orgID, search string, limit, offset int) ([]*entity.Customer, int, error) {
	var out []*entity.Customer
	for _, c := range m.rows {
		if c.OrganizationID == orgID && strings.Contains(strings.ToLower(c.Name), strings.ToLower(search)) {
			cc := c
			out = append(out, &cc)
		}
	}
	return out, len(out), nil
}

func (m *memCustomers) Update(_ context.Context, c *entity.Customer) error {
	m.rows[c.ID] = *c
	return nil
}

func (m *memCustomers) Delete(_ context.Context, orgID, id string) error {
	if c, ok := m.rows[id]; !ok || c.OrganizationID != orgID {
		return domain.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

type memDevices struct {
	rows map[string]entity.Device
}

func (m *memDevices) Create(_ context.Context, d *entity.Device) error {
	m.rows[d.ID] = *d
	return nil
}

func (m *memDevices) GetByID(_ context.Context, orgID, id string) (*entity.Device, error) {
	d, ok := m.rows[id]
	if !ok || d.OrganizationID != orgID {
		return nil, nil
	}
	return &d, nil
}

func (m *memDevices) ListByCustomer(_ context.Context, orgID, customerID string) ([]*entity.Device, error) {
	var out []*entity.Device
	for _, d := range m.rows {
		if d.OrganizationID == orgID && d.CustomerID == customerID {
			dd := d
			out = append(out, &dd)
		}
	}
	return out, nil
}

func (m *memDevices) Update(_ context.Context, d *entity.Device) error {
	m.rows[d.ID] = *d
	return nil
}

func (m *memDevices) Delete(_ context.Context, _, id string) error {
	delete(m.rows, id)
	return nil
}

func (m *memDevices) DeleteByCustomer(_ context.Context, orgID, customerID string) (int64, error) {
	var n int64
	for id, d := range m.rows {
		if d.OrganizationID == orgID && d.CustomerID == customerID {
			delete(m.rows, id)
			n++
		}
	}
	return n, nil
}

type memServices struct {
	repository.ServiceOrderRepository
	byCustomer map[string]int64
	err        error
}

func (m *memServices) DeleteByCustomer(_ context.Context, _, customerID string) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	n := m.byCustomer[customerID]
	delete(m.byCustomer, customerID)
	return n, nil
}

// snapshotTx simula rollback: si fn falla, restaura clientes y aparatos.
type snapshotTx struct {
	repos     ports.TxRepos
	customers *memCustomers
	devices   *memDevices
}

func (s *snapshotTx) Run(_ context.Context, fn func(ports.TxRepos) error) error {
	customers := make(map[string]entity.Customer, len(s.customers.rows))
	for k, v := range s.customers.rows {
		customers[k] = v
	}
	devices := make(map[string]entity.Device, len(s.devices.rows))
	for k, v := range s.devices.rows {
		devices[k] = v
	}
	if err := fn(s.repos); err != nil {
		s.customers.rows, s.devices.rows = customers, devices
		return err
	}
	return nil
}

type events struct{ list []ports.ChangeEvent }

func (e *events) Publish(_ context.Context, ev ports.ChangeEvent) { e.list = append(e.list, ev) }

type fixture struct {
	uc        *customer.UseCase
	customers *memCustomers
	devices   *memDevices
	services  *memServices
	events    *events
}

func newFixture() *fixture {
	f := &fixture{
		customers: &memCustomers{rows: map[string]entity.Customer{}},
		devices:   &memDevices{rows: map[string]entity.Device{}},
		services:  &memServices{byCustomer: map[string]int64{}},
		events:    &events{},
	}
	tx := &snapshotTx{
		repos:     ports.TxRepos{Customers: f.customers, Devices: f.devices, Services: f.services},
		customers: f.customers,
		devices:   f.devices,
	}
	f.uc = customer.NewUseCase(f.customers, f.devices, tx, f.events, nil)
	return f
}

func joao() dto.CustomerRequest {
	return dto.CustomerRequest{
		Name:     " João da Silva ",
		Document: "529.982.247-25",
		Email:    "Joao@Example.com",
		Phone:    "(11) 98765-4321",
		Address:  dto.AddressDTO{ZipCode: "01310-100", City: "São Paulo", State: "sp"},
	}
}

// ── tests ─────────────────────────────────────────────────────────────────────

func TestCreate_NormalizaYValida(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	out, err := f.uc.Create(ctx, "org-1", joao())
	require.NoError(t, err)
	assert.Equal(t, "João da Silva", out.Name)
	assert.Equal(t, "52998224725", out.Document)
	assert.Equal(t, "529.982.247-25", out.DocumentFormatted)
	assert.Equal(t, "joao@example.com", out.Email)
	assert.Equal(t, "01310100", out.Address.ZipCode)
	assert.Equal(t, "SP", out.Address.State)
	require.Len(t, f.events.list, 1)
	assert.Equal(t, "customers", f.events.list[0].Table)

	_, err = f.uc.Create(ctx, "org-1", joao())
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = f.uc.Create(ctx, "org-2", joao())
	assert.NoError(t, err, "el mismo CPF puede existir en otra organización")

	bad := joao()
	bad.Document = "529.982.247-26"
	_, err = f.uc.Create(ctx, "org-1", bad)
	assert.ErrorIs(t, err, domain.ErrInvalidDocument)

	noDoc := joao()
	noDoc.Document = ""
	_, err = f.uc.Create(ctx, "org-1", noDoc)
	assert.NoError(t, err)
}

func TestUpdate_MantieneSuPropioDocumento(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c, err := f.uc.Create(ctx, "org-1", joao())
	require.NoError(t, err)

	in := joao()
	in.Name = "João Silva"
	out, err := f.uc.Update(ctx, "org-1", c.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "João Silva", out.Name)

	_, err = f.uc.Update(ctx, "org-2", c.ID, in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestContact(t *testing.T) {
	f := newFixture()
	c, err := f.uc.Create(context.Background(), "org-1", joao())
	require.NoError(t, err)

	links, err := f.uc.Contact(context.Background(), "org-1", c.ID)
	require.NoError(t, err)
	assert.Equal(t, "tel:+5511987654321", links.Tel)
	assert.Equal(t, "sms:+5511987654321", links.SMS)
	assert.Equal(t, "https://wa.me/5511987654321", links.WhatsApp)
	assert.Equal(t, "mailto:joao@example.com", links.Mailto)
}

func TestDelete_CascadaEnTransaccion(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c, err := f.uc.Create(ctx, "org-1", joao())
	require.NoError(t, err)
	_, err = f.uc.CreateDevice(ctx, "org-1", c.ID, dto.DeviceRequest{Brand: "Samsung", Model: "A54"})
	require.NoError(t, err)
	_, err = f.uc.CreateDevice(ctx, "org-1", c.ID, dto.DeviceRequest{Brand: "Apple", Model: "iPhone 12"})
	require.NoError(t, err)
	f.services.byCustomer[c.ID] = 3

	out, err := f.uc.Delete(ctx, "org-1", c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), out.DeletedDevices)
	assert.Equal(t, int64(3), out.DeletedServices)
	assert.Empty(t, f.customers.rows)
	assert.Empty(t, f.devices.rows)

	_, err = f.uc.Get(ctx, "org-1", c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_FalloRevierteTodo(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c, err := f.uc.Create(ctx, "org-1", joao())
	require.NoError(t, err)
	_, err = f.uc.CreateDevice(ctx, "org-1", c.ID, dto.DeviceRequest{Brand: "Motorola", Model: "G84"})
	require.NoError(t, err)
	f.services.err = errors.New("timeout")

	_, err = f.uc.Delete(ctx, "org-1", c.ID)
	require.Error(t, err)
	assert.Len(t, f.customers.rows, 1)
	assert.Len(t, f.devices.rows, 1)
}

func TestDevices_PertenecenAlCliente(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a, err := f.uc.Create(ctx, "org-1", joao())
	require.NoError(t, err)
	other := joao()
	other.Document = ""
	b, err := f.uc.Create(ctx, "org-1", other)
	require.NoError(t, err)

	d, err := f.uc.CreateDevice(ctx, "org-1", a.ID, dto.DeviceRequest{Brand: " Xiaomi ", Model: "Redmi 12", IMEI: "356938035643809"})
	require.NoError(t, err)
	assert.Equal(t, "Xiaomi", d.Brand)

	_, err = f.uc.GetDevice(ctx, "org-1", b.ID, d.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	updated, err := f.uc.UpdateDevice(ctx, "org-1", a.ID, d.ID, dto.DeviceRequest{Brand: "Xiaomi", Model: "Redmi 13"})
	require.NoError(t, err)
	assert.Equal(t, "Redmi 13", updated.Model)

	list, err := f.uc.ListDevices(ctx, "org-1", a.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, f.uc.DeleteDevice(ctx, "org-1", a.ID, d.ID))
	list, err = f.uc.ListDevices(ctx, "org-1", a.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = f.uc.CreateDevice(ctx, "org-2", a.ID, dto.DeviceRequest{Brand: "X", Model: "Y"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
