package fiscal_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/reparo-api/internal/application/dto"
	"github.com/jhoicas/reparo-api/internal/domain"
	"github.com/jhoicas/reparo-api/internal/domain/entity"
	domfiscal "github.com/jhoicas/reparo-api/internal/domain/fiscal"
)

// seedDocuments guarda un documento antiguo y n más nuevos; devuelve todos, más recientes primero.
func seedDocuments(t *testing.T, e *env, n int) []entity.FiscalDocument {
	t.Helper()
	ctx := context.Background()
	base := e.now.Add(-24 * time.Hour)

	all := make([]entity.FiscalDocument, 0, n+1)
	for i := n; i >= 1; i-- {
		typ := entity.FiscalTypeNFCe
		if i%3 == 0 {
			typ = entity.FiscalTypeNF
		}
		at := base.Add(time.Duration(i) * time.Minute)
		all = append(all, entity.FiscalDocument{
			ID:             fmt.Sprintf("doc-%04d", i),
			OrganizationID: orgID,
			Type:           typ,
			Series:         1,
			Number:         fmt.Sprintf("EXT-%04d", i),
			Status:         entity.FiscalStatusPending,
			CustomerName:   "Cliente Novo",
			TotalValue:     decimal.NewFromInt(10),
			IssueDate:      at,
			Source:         entity.FiscalSourceExternal,
			CreatedAt:      at,
			UpdatedAt:      at,
		})
	}
	all = append(all, entity.FiscalDocument{
		ID:             "doc-0000",
		OrganizationID: orgID,
		Type:           entity.FiscalTypeNFCe,
		Series:         1,
		Number:         "EXT-0000",
		Status:         entity.FiscalStatusPending,
		CustomerName:   "Cliente Antigo",
		TotalValue:     decimal.NewFromInt(10),
		IssueDate:      base,
		Source:         entity.FiscalSourceExternal,
		CreatedAt:      base,
		UpdatedAt:      base,
	})
	for i := range all {
		require.NoError(t, e.docs.Create(ctx, &all[i]))
	}
	return all
}

func ids(items []dto.FiscalDocumentResponse) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestList_RecorreTodasLasPaginas(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	all := seedDocuments(t, e, 500)

	out, err := e.uc.List(ctx, orgID, dto.FiscalDocumentListRequest{})
	require.NoError(t, err)
	assert.False(t, out.Demo)
	assert.Equal(t, 501, out.Total)
	assert.Equal(t, "doc-0000", out.Items[len(out.Items)-1].ID)
	assert.GreaterOrEqual(t, e.docs.listCalls, 2)

	out, err = e.uc.List(ctx, orgID, dto.FiscalDocumentListRequest{Search: "antigo"})
	require.NoError(t, err)
	require.Equal(t, 1, out.Total)
	assert.Equal(t, "doc-0000", out.Items[0].ID)

	assert.Len(t, all, 501)
}

func TestList_CoincideConFilter(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	all := seedDocuments(t, e, 520)

	from := e.now.Add(-24 * time.Hour).Format(time.DateOnly)
	cases := []dto.FiscalDocumentListRequest{
		{},
		{Type: entity.FiscalTypeNF},
		{Type: entity.FiscalTypeNFCe, Search: "novo"},
		{Search: "EXT-01"},
		{Status: entity.FiscalStatusAuthorized},
		{From: from, To: from, Search: "cliente"},
	}
	for _, req := range cases {
		t.Run(fmt.Sprintf("%+v", req), func(t *testing.T) {
			c := domfiscal.Criteria{Status: req.Status, Type: req.Type, Search: req.Search}
			if req.From != "" {
				f, _ := time.ParseInLocation(time.DateOnly, req.From, time.UTC)
				to := f.Add(24*time.Hour - time.Nanosecond)
				c.From, c.To = &f, &to
			}
			want := domfiscal.Filter(all, c)
			wantIDs := make([]string, 0, len(want))
			for _, d := range want {
				wantIDs = append(wantIDs, d.ID)
			}

			out, err := e.uc.List(ctx, orgID, req)
			require.NoError(t, err)
			assert.Equal(t, len(want), out.Total)
			assert.Equal(t, wantIDs, ids(out.Items))
		})
	}
}

func TestImport_NumeroHastaElLargoDeLaColumna(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	req := dto.ImportFiscalDocumentRequest{
		Type:       entity.FiscalTypeNF,
		Number:     strings.Repeat("9", 30),
		TotalValue: decimal.NewFromInt(10),
	}

	doc, err := e.uc.Import(ctx, orgID, userID, req)
	require.NoError(t, err)
	assert.Len(t, doc.Number, 30)

	req.Number = strings.Repeat("9", 31)
	_, err = e.uc.Import(ctx, orgID, userID, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// sequence devuelve los valores en orden y repite el último.
func sequence(vals ...int64) func(int64) int64 {
	i := 0
	return func(int64) int64 {
		v := vals[min(i, len(vals)-1)]
		i++
		return v
	}
}

func TestIssue_ReintentaConChaveRepetida(t *testing.T) {
	e := newEnv(t)
	e.docs.uniqueKeys = true
	e.randN = sequence(7, 7, 8)
	ctx := context.Background()

	first := createIssued(t, e, entity.FiscalTypeNFCe)
	second := createIssued(t, e, entity.FiscalTypeNFCe)

	assert.Equal(t, entity.FiscalStatusAuthorized, second.Status)
	assert.NotEqual(t, first.AccessKey, second.AccessKey)
	assert.NotEqual(t, first.Number, second.Number)
	assert.Equal(t, second.AccessKey, e.docs.stored(second.ID).AccessKey)

	docs, err := e.uc.List(ctx, orgID, dto.FiscalDocumentListRequest{Status: entity.FiscalStatusAuthorized})
	require.NoError(t, err)
	assert.Equal(t, 2, docs.Total)
}

func TestIssue_ChaveRepetidaAgotaIntentos(t *testing.T) {
	e := newEnv(t)
	e.docs.uniqueKeys = true
	ctx := context.Background()

	createIssued(t, e, entity.FiscalTypeNFCe)
	draft, err := e.uc.Create(ctx, orgID, userID, draftRequest())
	require.NoError(t, err)

	_, err = e.uc.Issue(ctx, orgID, userID, draft.ID)
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	stored := e.docs.stored(draft.ID)
	assert.Equal(t, entity.FiscalStatusDraft, stored.Status)
	assert.Empty(t, stored.AccessKey)
}

func TestReissue_ReintentaConChaveRepetida(t *testing.T) {
	e := newEnv(t)
	e.docs.uniqueKeys = true
	e.randN = sequence(7, 7, 9)
	ctx := context.Background()

	orig := createIssued(t, e, entity.FiscalTypeNF)
	re, err := e.uc.Reissue(ctx, orgID, userID, orig.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.FiscalStatusAuthorized, re.Status)
	assert.NotEqual(t, orig.AccessKey, re.AccessKey)
	assert.Equal(t, orig.ID, re.ReissuedFromID)
}
