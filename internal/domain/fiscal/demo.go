package fiscal

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/reparo-api/internal/domain/entity"
)

type demoSeed struct {
	docType  string
	status   string
	seq      int64
	customer string
	document string
	item     string
	qty      int64
	price    string
	ageHours int
}

var demoSeeds = []demoSeed{
	{entity.FiscalTypeNFCe, entity.FiscalStatusAuthorized, 1, "Maria Oliveira", "529.982.247-25", "Troca de tela iPhone 12", 1, "650.00", 5},
	{entity.FiscalTypeNFS, entity.FiscalStatusAuthorized, 2, "João da Silva", "111.444.777-35", "Diagnóstico e limpeza de placa", 1, "180.00", 30},
	{entity.FiscalTypeNF, entity.FiscalStatusAuthorized, 3, "Conserta Já Ltda", "11.222.333/0001-81", "Bateria Samsung A32", 4, "89.90", 72},
	{entity.FiscalTypeNFCe, entity.FiscalStatusCanceled, 4, "Ana Souza", "390.533.447-05", "Película de vidro", 2, "35.00", 120},
	{entity.FiscalTypeNFCe, entity.FiscalStatusPending, 5, "Carlos Pereira", "", "Capa anti-impacto", 1, "49.90", 2},
}

// DemoDocuments devuelve el conjunto fijo de documentos de demostración que se muestra
// cuando la organización todavía no tiene documentos persistidos.
// Los IDs son deterministas ("demo-1", ...) y las fechas relativas a now.
func DemoDocuments(orgID string, now time.Time) []entity.FiscalDocument {
	docs := make([]entity.FiscalDocument, 0, len(demoSeeds))
	for _, s := range demoSeeds {
		issued := now.Add(-time.Duration(s.ageHours) * time.Hour)
		price := decimal.RequireFromString(s.price)
		qty := decimal.NewFromInt(s.qty)
		total := price.Mul(qty)

		key, _ := ComposeAccessKey(KeyParams{
			StateCode: DefaultStateCode,
			IssuedAt:  issued,
			CNPJ:      DefaultIssuerCNPJ,
			Model:     modelCodes[s.docType],
			Series:    DefaultSeries,
			Sequence:  s.seq,
			Code:      issued.Unix() % 1_000_000_000,
		})

		doc := entity.FiscalDocument{
			ID:               fmt.Sprintf("demo-%d", s.seq),
			OrganizationID:   orgID,
			Type:             s.docType,
			Series:           DefaultSeries,
			Number:           fmt.Sprintf("%s-%03d-%09d", strings.ToUpper(s.docType), DefaultSeries, s.seq),
			Status:           s.status,
			AccessKey:        key,
			CustomerName:     s.customer,
			CustomerDocument: s.document,
			Description:      s.item,
			Items: []entity.FiscalItem{{
				Description: s.item,
				Quantity:    qty,
				UnitPrice:   price,
				Total:       total,
			}},
			TotalValue: total,
			IssueDate:  issued,
			Source:     entity.FiscalSourceInternal,
			CreatedAt:  issued,
			UpdatedAt:  issued,
		}
		switch s.status {
		case entity.FiscalStatusAuthorized:
			doc.AuthorizationDate = &issued
		case entity.FiscalStatusCanceled:
			canceledAt := issued.Add(2 * time.Hour)
			doc.AuthorizationDate = &issued
			doc.CancelationDate = &canceledAt
			doc.CancelReason = "Erro de digitação no valor"
			doc.UpdatedAt = canceledAt
		case entity.FiscalStatusPending:
			doc.Source = entity.FiscalSourceExternal
		}
		docs = append(docs, doc)
	}
	return docs
}

// IsDemoID informa si el ID corresponde al conjunto de demostración.
func IsDemoID(id string) bool {
	return strings.HasPrefix(id, "demo-")
}
