package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/estoque-clinica/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/estoque-clinica/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "farmacia@clinica"
	testIssuer    = "estoque-clinica-test"
)

// guardedApp expone GET /guarded detrás de AuthMiddleware + RequireRole(roles...).
func guardedApp(roles ...string) *fiber.App {
	app := fiber.New()
	app.Get("/guarded",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireRole(roles...),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"usuario": apphttp.GetUserID(c), "rol": apphttp.GetRole(c)})
		},
	)
	return app
}

func bearer(t *testing.T, role string, expMin int) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, role, testIssuer, expMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

// ──────────────────────────────────────────────────────────────────────────────
// Matriz de autorización
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_Matriz(t *testing.T) {
	writers := []string{pkgjwt.RoleAdmin, pkgjwt.RoleOperator}
	adminOnly := []string{pkgjwt.RoleAdmin}

	tests := []struct {
		name    string
		allowed []string
		auth    func(t *testing.T) string
		status  int
		code    string
	}{
		{"admin registra movimientos", writers, func(t *testing.T) string { return bearer(t, pkgjwt.RoleAdmin, 60) }, http.StatusOK, ""},
		{"operador registra movimientos", writers, func(t *testing.T) string { return bearer(t, pkgjwt.RoleOperator, 60) }, http.StatusOK, ""},
		{"consulta no registra movimientos", writers, func(t *testing.T) string { return bearer(t, pkgjwt.RoleViewer, 60) }, http.StatusForbidden, "FORBIDDEN"},
		{"operador no cambia parámetros", adminOnly, func(t *testing.T) string { return bearer(t, pkgjwt.RoleOperator, 60) }, http.StatusForbidden, "FORBIDDEN"},
		{"token sin rol", adminOnly, func(t *testing.T) string { return bearer(t, "", 60) }, http.StatusUnauthorized, "MISSING_ROLE"},
		{"token vencido", adminOnly, func(t *testing.T) string { return bearer(t, pkgjwt.RoleAdmin, -1) }, http.StatusUnauthorized, ""},
		{"token malformado", adminOnly, func(*testing.T) string { return "Bearer token.invalido.aqui" }, http.StatusUnauthorized, ""},
		{"sin encabezado", adminOnly, func(*testing.T) string { return "" }, http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
			if h := tt.auth(t); h != "" {
				req.Header.Set("Authorization", h)
			}
			resp, err := guardedApp(tt.allowed...).Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.code != "" {
				var body map[string]any
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, tt.code, body["code"])
			}
		})
	}
}

func TestAuthMiddleware_CargaUsuarioYRol(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", bearer(t, pkgjwt.RoleViewer, 60))
	resp, err := guardedApp(pkgjwt.Roles()...).Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["usuario"])
	assert.Equal(t, pkgjwt.RoleViewer, body["rol"])
}
