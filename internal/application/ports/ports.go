// Package ports define los puertos de salida que usan los casos de uso.
// Las implementaciones viven en internal/infrastructure.
package ports

import (
	"context"
	"io"
	"time"

	"github.com/jhoicas/reparo-api/internal/domain/entity"
	"github.com/jhoicas/reparo-api/internal/domain/repository"
)

// ── Transacciones ─────────────────────────────────────────────────────────────

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Customers     repository.CustomerRepository
	Devices       repository.DeviceRepository
	Services      repository.ServiceOrderRepository
	Products      repository.ProductRepository
	Movements     repository.InventoryMovementRepository
	Fiscal        repository.FiscalDocumentRepository
	Organizations repository.OrganizationRepository
	Modules       repository.OrganizationModuleRepository
	Users         repository.UserRepository
	Notifications repository.NotificationRepository
}

// TxRunner ejecuta fn dentro de una transacción: commit si fn devuelve nil, rollback en otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}

// ── Tiempo real ───────────────────────────────────────────────────────────────

// Acciones de un evento de cambio.
const (
	ActionInsert = "INSERT"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// ChangeEvent aviso de que una fila de la organización cambió; el cliente vuelve a consultar.
type ChangeEvent struct {
	OrganizationID string    `json:"organization_id"`
	Table          string    `json:"table"`
	Action         string    `json:"action"`
	ID             string    `json:"id"`
	At             time.Time `json:"at"`
}

// ChangePublisher difunde eventos de cambio. Publish no bloquea ni falla hacia el caller.
type ChangePublisher interface {
	Publish(ctx context.Context, ev ChangeEvent)
}

// NopPublisher descarta los eventos.
type NopPublisher struct{}

// Publish no hace nada.
func (NopPublisher) Publish(context.Context, ChangeEvent) {}

// Notifier crea avisos internos para usuarios. Los fallos se registran, no se propagan.
type Notifier interface {
	Notify(ctx context.Context, n *entity.Notification)
}

// ── Fiscal ────────────────────────────────────────────────────────────────────

// StatusResult respuesta del servicio externo de consulta de estado.
type StatusResult struct {
	Status    string // authorized, pending, rejected
	Message   string
	Number    string // opcional: número confirmado por el emisor externo
	AccessKey string // opcional
	CheckedAt time.Time
}

// StatusChecker consulta el estado de un documento emitido fuera del sistema.
type StatusChecker interface {
	Check(ctx context.Context, doc *entity.FiscalDocument) (*StatusResult, error)
}

// TransitionRecorder registra métricas de transiciones fiscales.
type TransitionRecorder interface {
	FiscalTransition(docType, action string)
}

// ── Almacenamiento ────────────────────────────────────────────────────────────

// AvatarStorage guarda imágenes de perfil en un bucket.
type AvatarStorage interface {
	// Save guarda el contenido y devuelve la URL pública.
	Save(ctx context.Context, name string, r io.Reader) (string, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Delete(ctx context.Context, name string) error
}
