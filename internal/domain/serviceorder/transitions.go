// Package serviceorder contiene las reglas de estado de las órdenes de servicio.
package serviceorder

import (
	"fmt"
	"time"

	"github.com/jhoicas/reparo-api/internal/domain"
	"github.com/jhoicas/reparo-api/internal/domain/entity"
)

var transitions = map[string][]string{
	entity.ServiceStatusPending:      {entity.ServiceStatusInProgress},
	entity.ServiceStatusInProgress:   {entity.ServiceStatusWaitingParts, entity.ServiceStatusCompleted},
	entity.ServiceStatusWaitingParts: {entity.ServiceStatusInProgress},
	entity.ServiceStatusCompleted:    {entity.ServiceStatusDelivered, entity.ServiceStatusInProgress},
}

// IsValidStatus informa si el estado existe.
func IsValidStatus(status string) bool {
	for _, s := range entity.ServiceStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// CanTransition informa si from → to está permitido.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses estados alcanzables desde from (vacío para delivered).
func NextStatuses(from string) []string {
	return append([]string(nil), transitions[from]...)
}

// Apply cambia el estado de la orden y sella las fechas correspondientes.
// Volver a in_progress desde completed limpia CompletedAt.
func Apply(s *entity.ServiceOrder, to string, now time.Time) error {
	if !IsValidStatus(to) {
		return fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, to)
	}
	if !CanTransition(s.Status, to) {
		return fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, s.Status, to)
	}
	t := now
	switch to {
	case entity.ServiceStatusInProgress:
		if s.StartedAt == nil {
			s.StartedAt = &t
		}
		s.CompletedAt = nil
	case entity.ServiceStatusCompleted:
		s.CompletedAt = &t
	case entity.ServiceStatusDelivered:
		s.DeliveredAt = &t
	}
	s.Status = to
	s.UpdatedAt = now
	return nil
}

// Code genera el código legible de la orden: OS-YYYYMMDD-NNNN.
func Code(now time.Time, seq int) string {
	return fmt.Sprintf("OS-%s-%04d", now.Format("20060102"), seq%10000)
}
