package middleware

import (
	"strings"

	"todoapp/internal/auth"

	"github.com/gofiber/fiber/v2"
)

const (
	identityKey = "identity"
	// TokenCookie is the cookie browser page flows use to carry the token.
	TokenCookie = "access_token"
)

// TokenValidator resolves a bearer token into an identity.
type TokenValidator interface {
	ValidateToken(tokenString string) (auth.Identity, error)
}

// AuthRequired is a Fiber middleware to check for a valid JWT token. The token
// is read from the Authorization header, falling back to the access_token
// cookie. Every failure gets the same 401 response.
func AuthRequired(validator TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := bearerToken(c)
		if !ok {
			return unauthorized(c)
		}

		identity, err := validator.ValidateToken(tokenString)
		if err != nil {
			return unauthorized(c)
		}

		// Store the identity in Fiber context for subsequent handlers
		c.Locals(identityKey, identity)
		return c.Next()
	}
}

// RequireRole rejects authenticated callers whose role differs from role. It
// must run after AuthRequired.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFrom(c)
		if !ok {
			return unauthorized(c)
		}
		if identity.Role != role {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"detail": "Forbidden",
			})
		}
		return c.Next()
	}
}

// IdentityFrom returns the identity stored by AuthRequired.
func IdentityFrom(c *fiber.Ctx) (auth.Identity, bool) {
	identity, ok := c.Locals(identityKey).(auth.Identity)
	return identity, ok
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	if authHeader := c.Get(fiber.HeaderAuthorization); authHeader != "" {
		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			return "", false
		}
		return parts[1], true
	}
	if cookie := c.Cookies(TokenCookie); cookie != "" {
		return cookie, true
	}
	return "", false
}

func unauthorized(c *fiber.Ctx) error {
	c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"detail": "Could not validate credentials",
	})
}
