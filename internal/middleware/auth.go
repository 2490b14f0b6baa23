// Package middleware provides authentication, logging, rate limiting and
// observability middleware for the HTTP server.
package middleware

import (
	"context"
	"strings"

	"portfolio/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "token"

// TokenVerifier resolves a bearer token to the user id it was issued for.
type TokenVerifier interface {
	Verify(token string) (uint, error)
}

// AuthRequired is a middleware that enforces authentication for protected routes.
// The token is read from the session cookie, falling back to an
// "Authorization: Bearer" header for API clients. It does not load the user.
func AuthRequired(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := sessionToken(c)
		if token == "" {
			return unauthenticated(c, "Please login to access this resource")
		}

		userID, err := verifier.Verify(token)
		if err != nil {
			return unauthenticated(c, "Invalid or expired session, please login again")
		}

		c.Locals("userID", userID)
		c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, userID))

		return c.Next()
	}
}

// UserID returns the authenticated user id stored by AuthRequired.
func UserID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals("userID").(uint)
	return id, ok
}

func sessionToken(c *fiber.Ctx) string {
	if token := c.Cookies(SessionCookie); token != "" {
		return token
	}
	scheme, token, ok := strings.Cut(c.Get(fiber.HeaderAuthorization), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func unauthenticated(c *fiber.Ctx, message string) error {
	return models.RespondWithError(c, models.NewUnauthorizedError(message))
}
