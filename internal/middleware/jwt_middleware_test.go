package middleware_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"todoapp/internal/auth"
	"todoapp/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type resolver struct {
	tokens *auth.TokenManager
}

func (r resolver) ValidateToken(tokenString string) (auth.Identity, error) {
	return r.tokens.Resolve(tokenString)
}

func setup(t *testing.T) (*fiber.App, *auth.TokenManager) {
	t.Helper()
	tokens, err := auth.NewTokenManager(auth.TokenConfig{Secret: testSecret, Algorithm: "HS256", TTL: time.Hour})
	require.NoError(t, err)

	app := fiber.New()
	protected := app.Group("", middleware.AuthRequired(resolver{tokens: tokens}))
	protected.Get("/whoami", func(c *fiber.Ctx) error {
		identity, ok := middleware.IdentityFrom(c)
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.JSON(identity)
	})
	protected.Get("/admin", middleware.RequireRole(auth.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app, tokens
}

func decode(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func TestAuthRequired_Header(t *testing.T) {
	app, tokens := setup(t)
	token, err := tokens.Issue("alice", 3, "user", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode(t, resp)
	assert.Equal(t, "alice", body["username"])
	assert.Equal(t, float64(3), body["id"])
}

func TestAuthRequired_Cookie(t *testing.T) {
	app, tokens := setup(t)
	token, err := tokens.Issue("alice", 3, "user", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: middleware.TokenCookie, Value: token})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestAuthRequired_UniformRejection(t *testing.T) {
	app, tokens := setup(t)
	expired, err := tokens.Issue("alice", 3, "user", -time.Minute)
	require.NoError(t, err)

	headers := map[string]string{
		"missing":       "",
		"wrong scheme":  "Basic YWxpY2U6c2VjcmV0",
		"empty bearer":  "Bearer ",
		"garbage token": "Bearer not.a.token",
		"expired token": "Bearer " + expired,
	}

	var bodies []map[string]interface{}
	for name, header := range headers {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, "Bearer", resp.Header.Get("WWW-Authenticate"))
			bodies = append(bodies, decode(t, resp))
		})
	}

	for _, body := range bodies {
		assert.Equal(t, bodies[0], body, "rejections must not reveal which check failed")
	}
}

func TestRequireRole(t *testing.T) {
	app, tokens := setup(t)

	userToken, err := tokens.Issue("alice", 3, "user", time.Hour)
	require.NoError(t, err)
	adminToken, err := tokens.Issue("root", 1, "admin", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()
}
