package serviceorder_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/reparo-api/internal/domain"
	"github.com/jhoicas/reparo-api/internal/domain/entity"
	"github.com/jhoicas/reparo-api/internal/domain/serviceorder"
)

var now = time.Date(2026, 5, 4, 14, 0, 0, 0, time.UTC)

func TestCanTransition_Matriz(t *testing.T) {
	allowed := map[[2]string]bool{
		{entity.ServiceStatusPending, entity.ServiceStatusInProgress}:      true,
		{entity.ServiceStatusInProgress, entity.ServiceStatusWaitingParts}: true,
		{entity.ServiceStatusInProgress, entity.ServiceStatusCompleted}:    true,
		{entity.ServiceStatusWaitingParts, entity.ServiceStatusInProgress}: true,
		{entity.ServiceStatusCompleted, entity.ServiceStatusDelivered}:     true,
		{entity.ServiceStatusCompleted, entity.ServiceStatusInProgress}:    true,
	}
	for _, from := range entity.ServiceStatuses {
		for _, to := range entity.ServiceStatuses {
			assert.Equal(t, allowed[[2]string{from, to}], serviceorder.CanTransition(from, to), "%s → %s", from, to)
		}
	}
}

func TestApply_SellaFechas(t *testing.T) {
	s := &entity.ServiceOrder{Status: entity.ServiceStatusPending}

	require.NoError(t, serviceorder.Apply(s, entity.ServiceStatusInProgress, now))
	require.NotNil(t, s.StartedAt)
	assert.True(t, s.StartedAt.Equal(now))

	later := now.Add(3 * time.Hour)
	require.NoError(t, serviceorder.Apply(s, entity.ServiceStatusCompleted, later))
	require.NotNil(t, s.CompletedAt)

	// Reabrir conserva el inicio y limpia la finalización.
	require.NoError(t, serviceorder.Apply(s, entity.ServiceStatusInProgress, later.Add(time.Hour)))
	assert.True(t, s.StartedAt.Equal(now))
	assert.Nil(t, s.CompletedAt)

	require.NoError(t, serviceorder.Apply(s, entity.ServiceStatusCompleted, later.Add(2*time.Hour)))
	require.NoError(t, serviceorder.Apply(s, entity.ServiceStatusDelivered, later.Add(5*time.Hour)))
	require.NotNil(t, s.DeliveredAt)
	assert.Equal(t, entity.ServiceStatusDelivered, s.Status)
	assert.Empty(t, serviceorder.NextStatuses(s.Status))
}

func TestApply_TransicionInvalida(t *testing.T) {
	s := &entity.ServiceOrder{Status: entity.ServiceStatusPending}
	err := serviceorder.Apply(s, entity.ServiceStatusDelivered, now)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, entity.ServiceStatusPending, s.Status)

	err = serviceorder.Apply(s, "archived", now)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCode(t *testing.T) {
	assert.Equal(t, "OS-20260504-0042", serviceorder.Code(now, 42))
	assert.Equal(t, "OS-20260504-0001", serviceorder.Code(now, 10001))
}
