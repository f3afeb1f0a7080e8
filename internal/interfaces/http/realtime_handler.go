package http

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/reparo-api/internal/application/dto"
	"github.com/jhoicas/reparo-api/internal/application/ports"
	"github.com/jhoicas/reparo-api/internal/infrastructure/realtime"
	"github.com/jhoicas/reparo-api/pkg/logger"
)

const (
	sseRetryMillis    = 2000
	sseHeartbeatEvery = 15 * time.Second
)

// connectionGauge lo implementa *metrics.Metrics.
type connectionGauge interface {
	RealtimeConnected(delta int)
}

// RealtimeHandler stream SSE de cambios de la organización.
type RealtimeHandler struct {
	hub       *realtime.Hub
	gauge     connectionGauge
	log       *logger.Logger
	heartbeat time.Duration
}

// NewRealtimeHandler construye el handler. gauge puede ser nil.
func NewRealtimeHandler(hub *realtime.Hub, gauge connectionGauge, log *logger.Logger) *RealtimeHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &RealtimeHandler{hub: hub, gauge: gauge, log: log, heartbeat: sseHeartbeatEvery}
}

// Stream godoc
// @Summary      Eventos de cambio (Server-Sent Events)
// @Description  Cada evento es {table, action, id, at}; el cliente vuelve a consultar el recurso. Acepta ?access_token= para EventSource.
// @Tags         realtime
// @Security     Bearer
// @Produce      text/event-stream
// @Success      200
// @Router       /api/realtime [get]
func (h *RealtimeHandler) Stream(c *fiber.Ctx) error {
	orgID := GetOrganizationID(c)
	sub, err := h.hub.Subscribe(orgID)
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "REALTIME_UNAVAILABLE", Message: err.Error()})
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	if h.gauge != nil {
		h.gauge.RealtimeConnected(1)
	}
	log := h.log.Component("realtime")
	log.Debug().Str("org", orgID).Msg("cliente conectado")

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer func() {
			sub.Close()
			if h.gauge != nil {
				h.gauge.RealtimeConnected(-1)
			}
			log.Debug().Str("org", orgID).Msg("cliente desconectado")
		}()

		if _, err := fmt.Fprintf(w, "retry: %d\n\n", sseRetryMillis); err != nil {
			return
		}
		if err := w.Flush(); err != nil {
			return
		}

		ticker := time.NewTicker(h.heartbeat)
		defer ticker.Stop()
		for {
			select {
			case ev := <-sub.Events():
				if err := writeEvent(w, ev); err != nil {
					return
				}
			case <-ticker.C:
				if _, err := io.WriteString(w, ": heartbeat\n\n"); err != nil {
					return
				}
			}
			// fasthttp no avisa la desconexión: el Flush fallido es la señal.
			if err := w.Flush(); err != nil {
				return
			}
		}
	})
	return nil
}

// writeEvent escribe un evento SSE "change" sin organization_id (el canal ya es de la organización).
func writeEvent(w io.Writer, ev ports.ChangeEvent) error {
	payload := struct {
		Table  string    `json:"table"`
		Action string    `json:"action"`
		ID     string    `json:"id"`
		At     time.Time `json:"at"`
	}{ev.Table, ev.Action, ev.ID, ev.At}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: change\ndata: %s\n\n", data)
	return err
}
