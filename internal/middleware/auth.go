package middleware

import (
	"strings"

	"fitpulse/internal/session"

	"github.com/gofiber/fiber/v2"
)

// TokenResolver turns a bearer token into the identity it was issued for.
type TokenResolver interface {
	ResolveToken(token string) (session.Identity, error)
}

// AuthRequired enforces authentication for protected API routes. The
// resolved identity id is stored in c.Locals("userID") and the full
// identity in c.Locals("identity"). Resolution failure is treated as
// unauthenticated; there is no retry.
func AuthRequired(resolver TokenResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header required",
			})
		}

		identity, err := resolver.ResolveToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals("userID", identity.ID)
		c.Locals("identity", identity)
		return c.Next()
	}
}

// ScreenGate protects screen routes. Unauthenticated access redirects to
// the sign-in entry point carrying the mode hint as a query parameter,
// instead of returning a bare 401.
func ScreenGate(resolver TokenResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c)
		if !ok {
			return c.Redirect("/auth?mode=signin", fiber.StatusFound)
		}

		identity, err := resolver.ResolveToken(token)
		if err != nil {
			return c.Redirect("/auth?mode=signin", fiber.StatusFound)
		}

		c.Locals("userID", identity.ID)
		c.Locals("identity", identity)
		return c.Next()
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header or, for screen navigation, a "session" query parameter.
func bearerToken(c *fiber.Ctx) (string, bool) {
	if header := c.Get("Authorization"); header != "" {
		parts := strings.Split(header, " ")
		if len(parts) == 2 && parts[0] == "Bearer" && parts[1] != "" {
			return parts[1], true
		}
		return "", false
	}
	if token := c.Query("session"); token != "" {
		return token, true
	}
	return "", false
}
