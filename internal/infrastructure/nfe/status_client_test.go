package nfe_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/reparo-api/internal/domain/entity"
	"github.com/jhoicas/reparo-api/internal/infrastructure/nfe"
)

func TestHTTPStatusClient_Autorizado(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"authorized","message":"ok","number":"000123"}`))
	}))
	defer srv.Close()

	doc := &entity.FiscalDocument{Type: entity.FiscalTypeNF, AccessKey: key}
	res, err := nfe.NewHTTPStatusClient(srv.URL).Check(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, nfe.RemoteAuthorized, res.Status)
	assert.Equal(t, "000123", res.Number)
	assert.False(t, res.CheckedAt.IsZero())
	assert.Equal(t, key, got["access_key"])
	assert.Equal(t, "nf", got["type"])
}

func TestHTTPStatusClient_Errores(t *testing.T) {
	cases := map[string]struct {
		code int
		body string
	}{
		"http 500":           {http.StatusInternalServerError, `boom`},
		"json inválido":      {http.StatusOK, `{`},
		"estado desconocido": {http.StatusOK, `{"status":"maybe"}`},
		"error remoto":       {http.StatusOK, `{"error":"chave não encontrada"}`},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.code)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := nfe.NewHTTPStatusClient(srv.URL).Check(context.Background(), &entity.FiscalDocument{AccessKey: key})
			assert.Error(t, err)
		})
	}
}

func TestSimulatedChecker(t *testing.T) {
	checker := nfe.NewStatusChecker("")

	res, err := checker.Check(context.Background(), &entity.FiscalDocument{AccessKey: key})
	require.NoError(t, err)
	assert.Equal(t, nfe.RemoteAuthorized, res.Status)

	res, err = checker.Check(context.Background(), &entity.FiscalDocument{AccessKey: "123"})
	require.NoError(t, err)
	assert.Equal(t, nfe.RemoteRejected, res.Status)
}

func TestNewStatusChecker_ConURL(t *testing.T) {
	_, ok := nfe.NewStatusChecker("http://localhost/status").(*nfe.HTTPStatusClient)
	assert.True(t, ok)
}
