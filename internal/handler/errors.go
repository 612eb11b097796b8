package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"cefilm-backend/internal/auth"
	"cefilm-backend/internal/billing"
	"cefilm-backend/internal/models"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// classify maps an error to a status, a machine code and a client message.
// Internal details never reach the client.
func classify(err error) (int, string, string) {
	var ve *models.ValidationError
	var fe *fiber.Error

	switch {
	case errors.As(err, &ve):
		return fiber.StatusBadRequest, "validation_error", ve.Msg
	case errors.Is(err, models.ErrValidation):
		return fiber.StatusBadRequest, "validation_error", err.Error()
	case errors.Is(err, billing.ErrInvalidSignature):
		return fiber.StatusBadRequest, "validation_error", "invalid webhook signature"
	case errors.Is(err, models.ErrUnauthorized), errors.Is(err, auth.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, "unauthorized", "invalid email or password"
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrMissingToken):
		return fiber.StatusUnauthorized, "unauthorized", err.Error()
	case errors.Is(err, models.ErrTicketsExhausted):
		return fiber.StatusPaymentRequired, "upgrade_required", "no tickets remaining, upgrade to VIP for unlimited recommendations"
	case errors.Is(err, models.ErrVIPRequired), errors.Is(err, models.ErrGuestNotEligible):
		return fiber.StatusForbidden, "vip_required", "a VIP subscription is required"
	case errors.Is(err, models.ErrNotFound):
		return fiber.StatusNotFound, "not_found", "not found"
	case errors.Is(err, models.ErrConflict):
		return fiber.StatusConflict, "conflict", "an account with this email already exists"
	case errors.Is(err, models.ErrProvider):
		return fiber.StatusBadGateway, "provider_error", "upstream provider error, please try again"
	case errors.Is(err, models.ErrNotConfigured):
		return fiber.StatusServiceUnavailable, "not_configured", "this feature is not configured"
	case errors.As(err, &fe):
		return fe.Code, codeForStatus(fe.Code), fe.Message
	default:
		return fiber.StatusInternalServerError, "internal_error", "internal server error"
	}
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
		return "validation_error"
	case fiber.StatusUnauthorized:
		return "unauthorized"
	case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
		return "not_found"
	case fiber.StatusTooManyRequests:
		return "rate_limited"
	default:
		return "internal_error"
	}
}

func respondError(c fiber.Ctx, err error) error {
	status, code, msg := classify(err)
	if status >= fiber.StatusInternalServerError {
		slog.Error("request failed", "method", c.Method(), "path", c.Path(), "status", status, "error", err)
	}
	return c.Status(status).JSON(ErrorResponse{Error: msg, Code: code})
}

// ErrorHandler renders errors returned from handlers and middleware.
func ErrorHandler(c fiber.Ctx, err error) error {
	return respondError(c, err)
}
