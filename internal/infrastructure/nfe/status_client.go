package nfe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jhoicas/reparo-api/internal/application/ports"
	"github.com/jhoicas/reparo-api/internal/domain/entity"
	domfiscal "github.com/jhoicas/reparo-api/internal/domain/fiscal"
)

// Estados remotos reconocidos.
const (
	RemoteAuthorized = "authorized"
	RemotePending    = "pending"
	RemoteRejected   = "rejected"
)

var (
	_ ports.StatusChecker = (*HTTPStatusClient)(nil)
	_ ports.StatusChecker = (*SimulatedChecker)(nil)
)

// NewStatusChecker devuelve el cliente HTTP si hay URL configurada; si no, el simulado.
func NewStatusChecker(url string) ports.StatusChecker {
	if strings.TrimSpace(url) == "" {
		return NewSimulatedChecker()
	}
	return NewHTTPStatusClient(url)
}

// ── Cliente HTTP ──────────────────────────────────────────────────────────────

// HTTPStatusClient consulta una función remota que responde JSON.
//
//	POST <url>  {"access_key": "...", "number": "...", "type": "nfce"}
//	200         {"status": "authorized", "message": "...", "number": "...", "access_key": "..."}
type HTTPStatusClient struct {
	url        string
	httpClient *http.Client
	now        func() time.Time
}

// NewHTTPStatusClient construye el cliente con timeout de 15 s.
func NewHTTPStatusClient(url string) *HTTPStatusClient {
	return &HTTPStatusClient{
		url:        url,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		now:        time.Now,
	}
}

type statusRequest struct {
	AccessKey string `json:"access_key"`
	Number    string `json:"number,omitempty"`
	Type      string `json:"type"`
}

type statusResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Number    string `json:"number"`
	AccessKey string `json:"access_key"`
	Error     string `json:"error"`
}

// Check envía la consulta y traduce la respuesta.
func (c *HTTPStatusClient) Check(ctx context.Context, doc *entity.FiscalDocument) (*ports.StatusResult, error) {
	payload, err := json.Marshal(statusRequest{AccessKey: doc.AccessKey, Number: doc.Number, Type: doc.Type})
	if err != nil {
		return nil, fmt.Errorf("status: serializar consulta: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("status: crear request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("status: timeout o cancelación: %w", ctx.Err())
		}
		return nil, fmt.Errorf("status: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return nil, fmt.Errorf("status: leer respuesta: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("status: respuesta %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var body statusResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("status: respuesta inválida: %w", err)
	}
	if body.Error != "" {
		return nil, fmt.Errorf("status: %s", body.Error)
	}
	switch body.Status {
	case RemoteAuthorized, RemotePending, RemoteRejected:
	default:
		return nil, fmt.Errorf("status: estado remoto desconocido %q", body.Status)
	}
	return &ports.StatusResult{
		Status:    body.Status,
		Message:   body.Message,
		Number:    body.Number,
		AccessKey: body.AccessKey,
		CheckedAt: c.now(),
	}, nil
}

// ── Simulado ──────────────────────────────────────────────────────────────────

// SimulatedChecker no sale a la red: autoriza todo documento con chave válida.
type SimulatedChecker struct {
	now func() time.Time
}

// NewSimulatedChecker crea el checker local.
func NewSimulatedChecker() *SimulatedChecker {
	return &SimulatedChecker{now: time.Now}
}

// Check autoriza si la chave de acesso tiene 44 dígitos.
func (s *SimulatedChecker) Check(_ context.Context, doc *entity.FiscalDocument) (*ports.StatusResult, error) {
	if doc == nil {
		return nil, fmt.Errorf("status: documento nulo")
	}
	if !domfiscal.IsValidAccessKey(doc.AccessKey) {
		return &ports.StatusResult{
			Status:    RemoteRejected,
			Message:   "Chave de acesso inválida",
			CheckedAt: s.now(),
		}, nil
	}
	return &ports.StatusResult{
		Status:    RemoteAuthorized,
		Message:   "Autorizado o uso da NF-e",
		CheckedAt: s.now(),
	}, nil
}
