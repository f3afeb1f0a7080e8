package fiscal

import (
	"time"

	"github.com/jhoicas/reparo-api/internal/application/dto"
	"github.com/jhoicas/reparo-api/internal/domain/entity"
	domfiscal "github.com/jhoicas/reparo-api/internal/domain/fiscal"
)

func toResponse(doc *entity.FiscalDocument, lc *domfiscal.Lifecycle, now time.Time) dto.FiscalDocumentResponse {
	items := make([]dto.FiscalItemDTO, 0, len(doc.Items))
	for _, it := range doc.Items {
		items = append(items, dto.FiscalItemDTO{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Total:       it.Total,
		})
	}
	out := dto.FiscalDocumentResponse{
		ID:                doc.ID,
		Type:              doc.Type,
		Series:            doc.Series,
		Number:            doc.Number,
		Status:            doc.Status,
		AccessKey:         doc.AccessKey,
		CustomerID:        doc.CustomerID,
		CustomerName:      doc.CustomerName,
		CustomerDocument:  doc.CustomerDocument,
		ServiceID:         doc.ServiceID,
		Description:       doc.Description,
		Items:             items,
		TotalValue:        doc.TotalValue,
		IssueDate:         doc.IssueDate,
		AuthorizationDate: doc.AuthorizationDate,
		CancelationDate:   doc.CancelationDate,
		CancelReason:      doc.CancelReason,
		ReissuedFromID:    doc.ReissuedFromID,
		Source:            doc.Source,
		CreatedAt:         doc.CreatedAt,
		UpdatedAt:         doc.UpdatedAt,
	}
	if doc.AccessKey != "" {
		out.AccessKeyFormatted = domfiscal.FormatAccessKey(doc.AccessKey)
	}
	if deadline, ok := lc.CancelDeadline(doc); ok {
		out.CancelDeadline = &deadline
		out.CanCancel = !now.After(deadline)
	}
	return out
}

func toEntityItems(in []dto.FiscalItemDTO) []entity.FiscalItem {
	items := make([]entity.FiscalItem, 0, len(in))
	for _, it := range in {
		items = append(items, entity.FiscalItem{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Total:       it.Quantity.Mul(it.UnitPrice).Round(2),
		})
	}
	return items
}
