// Package middleware provides request logging, authentication, rate limiting,
// tracing and metrics middleware for the HTTP server.
package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// TokenDecoder resolves a bearer token to the principal id it was issued
// for. ok is false for any invalid, expired or foreign token.
type TokenDecoder func(token string) (id uint, ok bool)

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively.
func BearerToken(c *fiber.Ctx) string {
	parts := strings.Fields(c.Get("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// TokenAuth rejects requests without a token that decode accepts and stores
// the resolved id under localsKey and in the request context under ctxKey.
// When allowQuery is set the token may also come from the "token" query
// parameter, which browsers need for websocket upgrades.
func TokenAuth(decode TokenDecoder, localsKey string, ctxKey contextKey, allowQuery bool, unauthorized func(c *fiber.Ctx, msg string) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := BearerToken(c)
		if token == "" && allowQuery {
			token = c.Query("token")
		}
		if token == "" {
			return unauthorized(c, "Authorization required")
		}

		id, ok := decode(token)
		if !ok {
			return unauthorized(c, "Could not validate credentials")
		}

		c.Locals(localsKey, id)
		c.SetUserContext(context.WithValue(c.UserContext(), ctxKey, id))
		return c.Next()
	}
}
