package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"cefilm-backend/internal/auth"
)

const accountIDKey = "account_id"

// Authenticator resolves the session token from the Authorization header
// or, failing that, the session cookie.
type Authenticator struct {
	jwt        *auth.JWTManager
	cookieName string
}

// NewAuthenticator creates an Authenticator.
func NewAuthenticator(jwt *auth.JWTManager, cookieName string) *Authenticator {
	return &Authenticator{jwt: jwt, cookieName: cookieName}
}

func (a *Authenticator) token(c fiber.Ctx) string {
	if header := c.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return c.Cookies(a.cookieName)
}

// Required rejects requests without a valid session.
func (a *Authenticator) Required() fiber.Handler {
	return func(c fiber.Ctx) error {
		claims, err := a.jwt.Validate(a.token(c))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": err.Error(),
				"code":  "unauthorized",
			})
		}
		c.Locals(accountIDKey, claims.UserID)
		return c.Next()
	}
}

// Optional attaches the account when a session is present. Requests without
// a token continue as guests; a token that fails validation is rejected.
func (a *Authenticator) Optional() fiber.Handler {
	return func(c fiber.Ctx) error {
		token := a.token(c)
		if token == "" {
			return c.Next()
		}
		claims, err := a.jwt.Validate(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": err.Error(),
				"code":  "unauthorized",
			})
		}
		c.Locals(accountIDKey, claims.UserID)
		return c.Next()
	}
}

// AccountID returns the authenticated account id, or "" for guests.
func AccountID(c fiber.Ctx) string {
	id, _ := c.Locals(accountIDKey).(string)
	return id
}
