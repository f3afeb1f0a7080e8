package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/reparo-api/internal/domain/entity"
	"github.com/jhoicas/reparo-api/internal/infrastructure/pdf"
)

func sampleDoc(status string) *entity.FiscalDocument {
	issued := time.Date(2026, 3, 15, 13, 30, 0, 0, time.UTC)
	doc := &entity.FiscalDocument{
		ID:               "doc-1",
		OrganizationID:   "org-1",
		Type:             entity.FiscalTypeNFCe,
		Series:           1,
		Number:           "NFCE-001-000000123",
		Status:           status,
		AccessKey:        "35260312345678000195650010000001231000001239",
		CustomerName:     "João da Silva",
		CustomerDocument: "52998224725",
		Items: []entity.FiscalItem{{
			Description: "Troca de tela",
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   decimal.RequireFromString("350.00"),
			Total:       decimal.RequireFromString("350.00"),
		}},
		TotalValue:        decimal.RequireFromString("350.00"),
		IssueDate:         issued,
		AuthorizationDate: &issued,
	}
	if status == entity.FiscalStatusCanceled {
		at := issued.Add(2 * time.Hour)
		doc.CancelationDate = &at
		doc.CancelReason = "Erro de digitação"
	}
	return doc
}

func sampleIssuer() *entity.Organization {
	return &entity.Organization{ID: "org-1", Name: "Conserta Já", Document: "11222333000181", Email: "contato@consertaja.com.br"}
}

func TestGenerateFiscalPDF_Autorizada(t *testing.T) {
	gen := pdf.NewMarotoPDFGenerator("")

	out, err := gen.GenerateFiscalPDF(context.Background(), sampleDoc(entity.FiscalStatusAuthorized), sampleIssuer())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateFiscalPDF_Cancelada(t *testing.T) {
	gen := pdf.NewMarotoPDFGenerator("https://consulta.example.com/nfe")

	out, err := gen.GenerateFiscalPDF(context.Background(), sampleDoc(entity.FiscalStatusCanceled), sampleIssuer())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateFiscalPDF_SinEmisor(t *testing.T) {
	gen := pdf.NewMarotoPDFGenerator("")

	_, err := gen.GenerateFiscalPDF(context.Background(), sampleDoc(entity.FiscalStatusAuthorized), nil)
	assert.Error(t, err)
}

func TestQRContent(t *testing.T) {
	doc := sampleDoc(entity.FiscalStatusAuthorized)

	assert.Equal(t, doc.AccessKey, pdf.NewMarotoPDFGenerator("").QRContent(doc))
	assert.Equal(t,
		"https://consulta.example.com/nfe?chNFe="+doc.AccessKey,
		pdf.NewMarotoPDFGenerator("https://consulta.example.com/nfe").QRContent(doc))
	assert.Equal(t,
		"https://consulta.example.com/q?uf=SP&chNFe="+doc.AccessKey,
		pdf.NewMarotoPDFGenerator("https://consulta.example.com/q?uf=SP").QRContent(doc))
}
