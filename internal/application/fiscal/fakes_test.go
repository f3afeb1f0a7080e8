package fiscal_test

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/reparo-api/internal/application/ports"
	"github.com/jhoicas/reparo-api/internal/domain"
	"github.com/jhoicas/reparo-api/internal/domain/entity"
	"github.com/jhoicas/reparo-api/internal/domain/repository"
)

// ── documentos ────────────────────────────────────────────────────────────────

type memDocs struct {
	mu   sync.Mutex
	rows map[string]entity.FiscalDocument
	// beforeUpdate simula otro cliente que modifica la fila entre la lectura y el UPDATE.
	beforeUpdate func(rows map[string]entity.FiscalDocument)
	// uniqueKeys rechaza chaves repetidas como el índice uq_fiscal_access_key.
	uniqueKeys bool
	listCalls  int
}

var _ repository.FiscalDocumentRepository = (*memDocs)(nil)

func newMemDocs() *memDocs { return &memDocs{rows: map[string]entity.FiscalDocument{}} }

func cloneDoc(d entity.FiscalDocument) entity.FiscalDocument {
	d.Items = append([]entity.FiscalItem(nil), d.Items...)
	return d
}

func (m *memDocs) Create(_ context.Context, d *entity.FiscalDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[d.ID]; ok || m.keyTaken(d) {
		return domain.ErrDuplicate
	}
	m.rows[d.ID] = cloneDoc(*d)
	return nil
}

func (m *memDocs) GetByID(_ context.Context, orgID, id string) (*entity.FiscalDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.rows[id]
	if !ok || d.OrganizationID != orgID {
		return nil, nil
	}
	c := cloneDoc(d)
	return &c, nil
}

// newerFirst orden del listado: issue_date, created_at e id descendentes.
func newerFirst(a, b *entity.FiscalDocument) bool {
	if !a.IssueDate.Equal(b.IssueDate) {
		return a.IssueDate.After(b.IssueDate)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

func (m *memDocs) List(_ context.Context, orgID string, q repository.FiscalDocumentQuery) ([]*entity.FiscalDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	var after *entity.FiscalDocument
	if q.After != nil {
		after = &entity.FiscalDocument{IssueDate: q.After.IssueDate, CreatedAt: q.After.CreatedAt, ID: q.After.ID}
	}
	var out []*entity.FiscalDocument
	for _, d := range m.rows {
		switch {
		case d.OrganizationID != orgID,
			q.Status != "" && d.Status != q.Status,
			q.Type != "" && d.Type != q.Type,
			q.From != nil && d.IssueDate.Before(*q.From),
			q.To != nil && d.IssueDate.After(*q.To):
			continue
		}
		c := cloneDoc(d)
		if after != nil && !newerFirst(after, &c) {
			continue
		}
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return newerFirst(out[i], out[j]) })
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (m *memDocs) CountByOrganization(_ context.Context, orgID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, d := range m.rows {
		if d.OrganizationID == orgID {
			n++
		}
	}
	return n, nil
}

func (m *memDocs) UpdateTransition(_ context.Context, d *entity.FiscalDocument, expected string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.beforeUpdate != nil {
		m.beforeUpdate(m.rows)
	}
	cur, ok := m.rows[d.ID]
	if !ok || cur.OrganizationID != d.OrganizationID || cur.Status != expected {
		return domain.ErrConflict
	}
	if m.keyTaken(d) {
		return domain.ErrDuplicate
	}
	m.rows[d.ID] = cloneDoc(*d)
	return nil
}

func (m *memDocs) keyTaken(d *entity.FiscalDocument) bool {
	if !m.uniqueKeys || d.AccessKey == "" {
		return false
	}
	for id, r := range m.rows {
		if id != d.ID && r.AccessKey == d.AccessKey {
			return true
		}
	}
	return false
}

func (m *memDocs) DeleteDraft(_ context.Context, orgID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.rows[id]
	if !ok || cur.OrganizationID != orgID || cur.Status != entity.FiscalStatusDraft {
		return domain.ErrConflict
	}
	delete(m.rows, id)
	return nil
}

func (m *memDocs) stored(id string) entity.FiscalDocument {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneDoc(m.rows[id])
}

// ── clientes y órdenes ────────────────────────────────────────────────────────

type memCustomers struct {
	repository.CustomerRepository
	rows map[string]*entity.Customer
}

func (m *memCustomers) GetByID(_ context.Context, orgID, id string) (*entity.Customer, error) {
	c, ok := m.rows[id]
	if !ok || c.OrganizationID != orgID {
		return nil, nil
	}
	return c, nil
}

type memServices struct {
	repository.ServiceOrderRepository
	rows map[string]*entity.ServiceOrder
}

func (m *memServices) GetByID(_ context.Context, orgID, id string) (*entity.ServiceOrder, error) {
	s, ok := m.rows[id]
	if !ok || s.OrganizationID != orgID {
		return nil, nil
	}
	return s, nil
}

type memOrgs struct {
	repository.OrganizationRepository
	org *entity.Organization
}

func (m *memOrgs) GetByID(_ context.Context, id string) (*entity.Organization, error) {
	if m.org == nil || m.org.ID != id {
		return nil, nil
	}
	return m.org, nil
}

// ── puertos ───────────────────────────────────────────────────────────────────

type recorder struct {
	mu            sync.Mutex
	events        []ports.ChangeEvent
	notifications []*entity.Notification
	transitions   []string
}

func (r *recorder) Publish(_ context.Context, ev ports.ChangeEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) Notify(_ context.Context, n *entity.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, n)
}

func (r *recorder) FiscalTransition(docType, action string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitions = append(r.transitions, docType+":"+action)
}

type stubChecker struct {
	result *ports.StatusResult
	err    error
	calls  int
}

func (s *stubChecker) Check(context.Context, *entity.FiscalDocument) (*ports.StatusResult, error) {
	s.calls++
	return s.result, s.err
}
