package realtime_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/reparo-api/internal/application/ports"
	"github.com/jhoicas/reparo-api/internal/infrastructure/realtime"
)

func event(org, id string) ports.ChangeEvent {
	return ports.ChangeEvent{OrganizationID: org, Table: "services", Action: ports.ActionUpdate, ID: id, At: time.Now()}
}

func TestHub_EntregaSoloALaOrganizacion(t *testing.T) {
	hub := realtime.NewHub(4)
	a, err := hub.Subscribe("org-a")
	require.NoError(t, err)
	defer a.Close()
	b, err := hub.Subscribe("org-b")
	require.NoError(t, err)
	defer b.Close()

	hub.Publish(context.Background(), event("org-a", "s-1"))

	select {
	case ev := <-a.Events():
		assert.Equal(t, "s-1", ev.ID)
	case <-time.After(time.Second):
		t.Fatal("evento no recibido")
	}
	select {
	case ev := <-b.Events():
		t.Fatalf("org-b recibió un evento ajeno: %+v", ev)
	default:
	}
}

func TestHub_SuscriptorLentoNoBloquea(t *testing.T) {
	hub := realtime.NewHub(2)
	sub, err := hub.Subscribe("org")
	require.NoError(t, err)
	defer sub.Close()

	delivered := 0
	for i := 0; i < 5; i++ {
		delivered += hub.Deliver(event("org", "x"))
	}
	assert.Equal(t, 2, delivered)
	assert.Len(t, sub.Events(), 2)
}

func TestHub_CloseDaDeBaja(t *testing.T) {
	hub := realtime.NewHub(0)
	sub, err := hub.Subscribe("org")
	require.NoError(t, err)
	assert.Equal(t, 1, hub.Subscribers("org"))

	sub.Close()
	sub.Close()
	assert.Equal(t, 0, hub.Subscribers("org"))
	assert.Equal(t, 0, hub.Deliver(event("org", "x")))
}

func TestHub_OrganizacionVacia(t *testing.T) {
	hub := realtime.NewHub(0)
	_, err := hub.Subscribe("  ")
	assert.ErrorIs(t, err, realtime.ErrInvalidOrganization)
	assert.Equal(t, 0, hub.Deliver(event("", "x")))
}
