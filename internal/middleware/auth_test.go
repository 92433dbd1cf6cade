package middleware

import (
	"errors"
	"net/http/httptest"
	"testing"

	"fitpulse/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type resolverStub struct {
	resolveFn func(token string) (session.Identity, error)
}

func (r *resolverStub) ResolveToken(token string) (session.Identity, error) {
	if r.resolveFn == nil {
		return session.Identity{}, errors.New("no resolver")
	}
	return r.resolveFn(token)
}

func validResolver() *resolverStub {
	return &resolverStub{
		resolveFn: func(token string) (session.Identity, error) {
			if token == "good-token" {
				return session.Identity{ID: "U1", Email: "maya@example.com"}, nil
			}
			return session.Identity{}, errors.New("invalid token")
		},
	}
}

func TestAuthRequired(t *testing.T) {
	t.Parallel()

	app := fiber.New()
	app.Get("/protected", AuthRequired(validResolver()), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": c.Locals("userID")})
	})

	t.Run("missing header", func(t *testing.T) {
		t.Parallel()
		resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("malformed header", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "good-token")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("invalid token", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer bad-token")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("valid token passes through", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}

func TestScreenGate_RedirectsToSignIn(t *testing.T) {
	t.Parallel()

	app := fiber.New()
	app.Get("/community", ScreenGate(validResolver()), func(c *fiber.Ctx) error {
		return c.SendString("feed")
	})

	t.Run("unauthenticated redirects with mode hint", func(t *testing.T) {
		t.Parallel()
		resp, err := app.Test(httptest.NewRequest("GET", "/community", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusFound, resp.StatusCode)
		assert.Equal(t, "/auth?mode=signin", resp.Header.Get("Location"))
	})

	t.Run("bad token redirects instead of erroring", func(t *testing.T) {
		t.Parallel()
		resp, err := app.Test(httptest.NewRequest("GET", "/community?session=bad-token", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	})

	t.Run("session query parameter authenticates", func(t *testing.T) {
		t.Parallel()
		resp, err := app.Test(httptest.NewRequest("GET", "/community?session=good-token", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}
