package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/reparo-api/internal/application/dto"
	"github.com/jhoicas/reparo-api/internal/application/ports"
	"github.com/jhoicas/reparo-api/internal/domain"
)

func TestRespondError_MapeaSentinelas(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
		{fmt.Errorf("%w: sku", domain.ErrDuplicate), fiber.StatusConflict, "DUPLICATE"},
		{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
		{domain.ErrInvalidTransition, fiber.StatusConflict, "INVALID_TRANSITION"},
		{domain.ErrCancelWindowExpired, fiber.StatusConflict, "CANCEL_WINDOW_EXPIRED"},
		{domain.ErrInvalidDocument, fiber.StatusBadRequest, "INVALID_DOCUMENT"},
		{domain.ErrNotIssued, fiber.StatusUnprocessableEntity, "NOT_ISSUED"},
		{domain.ErrUpstream, fiber.StatusBadGateway, "UPSTREAM"},
		{fmt.Errorf("pgx: closed pool"), fiber.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return respondError(c, tc.err) })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
			var body dto.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tc.code, body.Code)
		})
	}
}

type sampleRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
	Kind  string `json:"kind" validate:"required,oneof=IN OUT"`
}

func postSample(t *testing.T, payload string) (int, dto.ErrorResponse) {
	t.Helper()
	app := fiber.New()
	app.Post("/", func(c *fiber.Ctx) error {
		var req sampleRequest
		if err := bindJSON(c, &req); err != nil {
			return respondError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body dto.ErrorResponse
	if resp.StatusCode != fiber.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	}
	return resp.StatusCode, body
}

func TestBindJSON_Valido(t *testing.T) {
	status, _ := postSample(t, `{"name":"Tela","kind":"IN"}`)
	assert.Equal(t, fiber.StatusNoContent, status)
}

func TestBindJSON_MensajesDeValidacion(t *testing.T) {
	status, body := postSample(t, `{"email":"no-es-email","kind":"X"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Contains(t, body.Message, "name es requerido")
	assert.Contains(t, body.Message, "email debe ser un email válido")
	assert.Contains(t, body.Message, "kind debe ser uno de: IN OUT")
}

func TestBindJSON_CuerpoMalformado(t *testing.T) {
	status, body := postSample(t, `{"name":`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body.Message, "cuerpo inválido")
}

func TestWriteEvent_FormatoSSE(t *testing.T) {
	var buf bytes.Buffer
	at := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	err := writeEvent(&buf, ports.ChangeEvent{
		OrganizationID: "org-1",
		Table:          "services",
		Action:         ports.ActionUpdate,
		ID:             "svc-1",
		At:             at,
	})
	require.NoError(t, err)

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "event: change\ndata: "))
	require.True(t, strings.HasSuffix(out, "\n\n"))

	data := strings.TrimSuffix(strings.TrimPrefix(out, "event: change\ndata: "), "\n\n")
	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(data), &payload))
	assert.Equal(t, "services", payload["table"])
	assert.Equal(t, ports.ActionUpdate, payload["action"])
	assert.Equal(t, "svc-1", payload["id"])
	assert.NotContains(t, payload, "organization_id")
}
