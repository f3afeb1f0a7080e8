package fiscal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/reparo-api/internal/application/dto"
	"github.com/jhoicas/reparo-api/internal/application/ports"
	"github.com/jhoicas/reparo-api/internal/domain"
	"github.com/jhoicas/reparo-api/internal/domain/entity"
	domfiscal "github.com/jhoicas/reparo-api/internal/domain/fiscal"
)

// Estado remoto que confirma un documento importado.
const remoteAuthorized = "authorized"

// keyAttempts intentos de generar número y chave cuando la base rechaza una chave repetida.
const keyAttempts = 3

// Issue emite (autoriza) un borrador: asigna número y chave de acesso.
func (uc *UseCase) Issue(ctx context.Context, orgID, userID, id string) (*dto.FiscalDocumentResponse, error) {
	return uc.transition(ctx, orgID, userID, id, ActionIssue, func(doc *entity.FiscalDocument, now time.Time) error {
		return uc.lifecycle.Issue(doc, now)
	})
}

// Cancel cancela un documento autorizado dentro del plazo de su tipo.
func (uc *UseCase) Cancel(ctx context.Context, orgID, userID, id, reason string) (*dto.FiscalDocumentResponse, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: el motivo de cancelación es obligatorio", domain.ErrInvalidInput)
	}
	return uc.transition(ctx, orgID, userID, id, ActionCancel, func(doc *entity.FiscalDocument, now time.Time) error {
		return uc.lifecycle.Cancel(doc, reason, now)
	})
}

// Reissue crea y emite un documento nuevo a partir de uno autorizado o pendiente.
// El original queda intacto; el nuevo referencia al original en reissued_from_id.
func (uc *UseCase) Reissue(ctx context.Context, orgID, userID, id string) (*dto.FiscalDocumentResponse, error) {
	if domfiscal.IsDemoID(id) {
		return nil, errDemoReadOnly
	}
	now := uc.now()
	orig, err := loadDocument(ctx, uc.docs, orgID, id, now)
	if err != nil {
		return nil, err
	}
	var doc *entity.FiscalDocument
	for attempt := 1; ; attempt++ {
		doc, err = uc.lifecycle.Reissue(orig, now)
		if err != nil {
			return nil, err
		}
		doc.ID = uuid.New().String()
		err = uc.docs.Create(ctx, doc)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrDuplicate) || attempt == keyAttempts {
			return nil, fmt.Errorf("fiscal: crear reemisión: %w", err)
		}
		uc.log.Warn().Str("doc", id).Int("attempt", attempt).Msg("chave repetida, se genera otra")
	}
	uc.after(ctx, userID, doc, ActionReissue, ports.ActionInsert, now)

	out := toResponse(doc, uc.lifecycle, now)
	return &out, nil
}

// StatusCheck consulta el estado de un documento importado. Si el servicio externo lo
// informa autorizado, el documento pasa de pending a authorized.
// Documentos en otros estados se devuelven sin consultar.
func (uc *UseCase) StatusCheck(ctx context.Context, orgID, userID, id string) (*dto.StatusCheckResponse, error) {
	now := uc.now()
	doc, err := loadDocument(ctx, uc.docs, orgID, id, now)
	if err != nil {
		return nil, err
	}
	if doc.Status != entity.FiscalStatusPending {
		return &dto.StatusCheckResponse{
			Document: toResponse(doc, uc.lifecycle, now),
			Remote:   doc.Status,
		}, nil
	}
	if domfiscal.IsDemoID(id) {
		return nil, errDemoReadOnly
	}
	if uc.checker == nil {
		return nil, fmt.Errorf("fiscal: consulta de estado no configurada")
	}

	res, err := uc.checker.Check(ctx, doc)
	if err != nil {
		uc.log.Warn().Err(err).Str("doc", id).Msg("consulta de estado falló")
		return nil, fmt.Errorf("%w: consultar estado: %v", domain.ErrUpstream, err)
	}
	out := &dto.StatusCheckResponse{Remote: res.Status, Message: res.Message}
	if res.Status != remoteAuthorized {
		out.Document = toResponse(doc, uc.lifecycle, now)
		return out, nil
	}

	if doc.Number == "" {
		doc.Number = res.Number
	}
	if doc.AccessKey == "" && domfiscal.IsValidAccessKey(res.AccessKey) {
		doc.AccessKey = res.AccessKey
	}
	if err := uc.lifecycle.ConfirmExternal(doc, now); err != nil {
		return nil, err
	}
	if err := uc.docs.UpdateTransition(ctx, doc, entity.FiscalStatusPending); err != nil {
		return nil, err
	}
	uc.after(ctx, userID, doc, ActionConfirm, ports.ActionUpdate, now)

	out.Document = toResponse(doc, uc.lifecycle, now)
	out.Changed = true
	return out, nil
}

// transition carga el documento, aplica fn y persiste con guarda de estado.
func (uc *UseCase) transition(
	ctx context.Context,
	orgID, userID, id, action string,
	fn func(doc *entity.FiscalDocument, now time.Time) error,
) (*dto.FiscalDocumentResponse, error) {
	if domfiscal.IsDemoID(id) {
		return nil, errDemoReadOnly
	}
	now := uc.now()
	doc, err := loadDocument(ctx, uc.docs, orgID, id, now)
	if err != nil {
		return nil, err
	}
	expected := doc.Status
	loaded := *doc
	for attempt := 1; ; attempt++ {
		if err := fn(doc, now); err != nil {
			return nil, err
		}
		err := uc.docs.UpdateTransition(ctx, doc, expected)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrDuplicate) || attempt == keyAttempts {
			return nil, err
		}
		uc.log.Warn().Str("doc", id).Int("attempt", attempt).Msg("chave repetida, se genera otra")
		*doc = loaded
	}
	uc.after(ctx, userID, doc, action, ports.ActionUpdate, now)

	out := toResponse(doc, uc.lifecycle, now)
	return &out, nil
}

// after publica el evento de cambio, notifica al usuario y registra la métrica.
func (uc *UseCase) after(ctx context.Context, userID string, doc *entity.FiscalDocument, action, dbAction string, now time.Time) {
	uc.publisher.Publish(ctx, ports.ChangeEvent{
		OrganizationID: doc.OrganizationID,
		Table:          tableName,
		Action:         dbAction,
		ID:             doc.ID,
		At:             now,
	})
	uc.record(doc.Type, action)

	if uc.notifier != nil && userID != "" {
		uc.notifier.Notify(ctx, &entity.Notification{
			OrganizationID: doc.OrganizationID,
			UserID:         userID,
			Type:           entity.NotificationFiscal,
			Title:          notificationTitle(doc, action),
			Description:    doc.Description,
			ActionLink:     "/fiscal/" + doc.ID,
		})
	}

	uc.log.Info().
		Str("doc", doc.ID).
		Str("type", doc.Type).
		Str("action", action).
		Str("status", doc.Status).
		Str("number", doc.Number).
		Msg("transición fiscal")
}

func (uc *UseCase) record(docType, action string) {
	if uc.metrics != nil {
		uc.metrics.FiscalTransition(docType, action)
	}
}

func notificationTitle(doc *entity.FiscalDocument, action string) string {
	label := domfiscal.TypeLabel(doc.Type)
	ref := doc.Number
	if ref == "" {
		ref = "rascunho"
	}
	switch action {
	case ActionCreate:
		return label + " criada como rascunho"
	case ActionIssue:
		return label + " " + ref + " autorizada"
	case ActionCancel:
		return label + " " + ref + " cancelada"
	case ActionReissue:
		return label + " " + ref + " reemitida"
	case ActionImport:
		return label + " importada, aguardando confirmação"
	case ActionConfirm:
		return label + " " + ref + " confirmada"
	}
	return label + " " + ref
}
