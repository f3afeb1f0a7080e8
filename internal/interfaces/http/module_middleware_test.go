package http_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/reparo-api/internal/interfaces/http"
)

type stubModules struct {
	active bool
	err    error
	asked  string
}

func (s *stubModules) HasActiveModule(_ context.Context, orgID, name string) (bool, error) {
	s.asked = orgID + "/" + name
	return s.active, s.err
}

func moduleApp(checker *stubModules) *fiber.App {
	app := fiber.New()
	app.Get("/fiscal",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireModule("fiscal", checker, nil),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) },
	)
	return app
}

func TestRequireModule(t *testing.T) {
	cases := []struct {
		name   string
		stub   *stubModules
		status int
		code   string
	}{
		{"activo", &stubModules{active: true}, http.StatusOK, ""},
		{"inactivo", &stubModules{}, http.StatusForbidden, "MODULE_DISABLED"},
		{"fallo de DB", &stubModules{err: errors.New("timeout")}, http.StatusServiceUnavailable, "MODULE_CHECK_FAILED"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doRequest(t, moduleApp(tc.stub), "/fiscal", tokenForRole(t, "attendant"))
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, testOrgID+"/fiscal", tc.stub.asked)
			if tc.code != "" {
				assert.Contains(t, bodyString(t, resp), tc.code)
			}
		})
	}
}

func TestRequireModule_SinOrganizacion(t *testing.T) {
	stub := &stubModules{active: true}
	app := fiber.New()
	app.Get("/fiscal", apphttp.RequireModule("fiscal", stub, nil), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/fiscal", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, stub.asked)
}
