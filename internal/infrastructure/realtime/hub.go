// Package realtime difunde eventos de cambio por organización a los clientes SSE.
// El Hub es local al proceso; RedisBridge lo extiende a varias instancias.
package realtime

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/jhoicas/reparo-api/internal/application/ports"
)

// DefaultSubscriberBuffer eventos pendientes por suscriptor antes de descartar.
const DefaultSubscriberBuffer = 32

// ErrInvalidOrganization suscripción sin organización.
var ErrInvalidOrganization = errors.New("realtime: organización vacía")

var _ ports.ChangePublisher = (*Hub)(nil)

// Hub mantiene los suscriptores agrupados por organización.
// Un suscriptor lento pierde eventos en lugar de bloquear a los demás: el cliente vuelve a consultar.
type Hub struct {
	mu               sync.RWMutex
	streams          map[string]*stream
	subscriberBuffer int
}

type stream struct {
	mu     sync.Mutex
	subs   map[uint64]chan ports.ChangeEvent
	nextID uint64
}

// Subscription canal de eventos de una organización.
type Subscription struct {
	hub   *Hub
	orgID string
	id    uint64
	ch    chan ports.ChangeEvent
	once  sync.Once
}

// NewHub construye el hub. buffer <= 0 usa DefaultSubscriberBuffer.
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = DefaultSubscriberBuffer
	}
	return &Hub{streams: make(map[string]*stream), subscriberBuffer: buffer}
}

// Publish entrega el evento a los suscriptores locales de la organización.
func (h *Hub) Publish(_ context.Context, ev ports.ChangeEvent) {
	h.Deliver(ev)
}

// Deliver reparte el evento sin bloquear; devuelve cuántos suscriptores lo recibieron.
func (h *Hub) Deliver(ev ports.ChangeEvent) int {
	if h == nil {
		return 0
	}
	org := strings.TrimSpace(ev.OrganizationID)
	if org == "" {
		return 0
	}
	h.mu.RLock()
	s := h.streams[org]
	h.mu.RUnlock()
	if s == nil {
		return 0
	}

	s.mu.Lock()
	subs := make([]chan ports.ChangeEvent, 0, len(s.subs))
	for _, ch := range s.subs {
		subs = append(subs, ch)
	}
	s.mu.Unlock()

	delivered := 0
	for _, ch := range subs {
		select {
		case ch <- ev:
			delivered++
		default:
		}
	}
	return delivered
}

// Subscribe registra un suscriptor para la organización. Llamar Close al terminar.
func (h *Hub) Subscribe(orgID string) (*Subscription, error) {
	org := strings.TrimSpace(orgID)
	if org == "" {
		return nil, ErrInvalidOrganization
	}
	s := h.ensureStream(org)

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	ch := make(chan ports.ChangeEvent, h.subscriberBuffer)
	s.subs[id] = ch
	s.mu.Unlock()

	return &Subscription{hub: h, orgID: org, id: id, ch: ch}, nil
}

// Subscribers cantidad de suscriptores activos de la organización.
func (h *Hub) Subscribers(orgID string) int {
	h.mu.RLock()
	s := h.streams[orgID]
	h.mu.RUnlock()
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

func (h *Hub) ensureStream(orgID string) *stream {
	h.mu.RLock()
	current := h.streams[orgID]
	h.mu.RUnlock()
	if current != nil {
		return current
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	current = h.streams[orgID]
	if current == nil {
		current = &stream{subs: make(map[uint64]chan ports.ChangeEvent)}
		h.streams[orgID] = current
	}
	return current
}

func (h *Hub) unsubscribe(orgID string, id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s := h.streams[orgID]
	if s == nil {
		return
	}
	s.mu.Lock()
	delete(s.subs, id)
	empty := len(s.subs) == 0
	s.mu.Unlock()
	if empty {
		delete(h.streams, orgID)
	}
}

// Events canal de lectura de la suscripción.
func (s *Subscription) Events() <-chan ports.ChangeEvent {
	if s == nil {
		return nil
	}
	return s.ch
}

// Close da de baja la suscripción. Es seguro llamarlo más de una vez.
func (s *Subscription) Close() {
	if s == nil || s.hub == nil {
		return
	}
	s.once.Do(func() {
		s.hub.unsubscribe(s.orgID, s.id)
	})
}
