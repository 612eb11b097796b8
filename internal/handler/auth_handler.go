package handler

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"cefilm-backend/internal/middleware"
	"cefilm-backend/internal/models"
	"cefilm-backend/internal/service"
)

// CookieConfig controls the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

// AuthHandler handles registration, sessions and the account profile.
type AuthHandler struct {
	svc    *service.AccountService
	cookie CookieConfig
}

func NewAuthHandler(svc *service.AccountService, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{svc: svc, cookie: cookie}
}

func (h *AuthHandler) setSession(c fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cookie.TTL.Seconds()),
		Secure:   h.cookie.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSession(c fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		Secure:   h.cookie.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Register creates an account and starts a session.
// @Summary Register
// @Tags auth
// @Accept json
// @Produce json
// @Param body body models.RegisterRequest true "Credentials"
// @Success 201 {object} models.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c fiber.Ctx) error {
	var req models.RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		return respondError(c, err)
	}
	resp, err := h.svc.Register(c.Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	h.setSession(c, resp.Token)
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Login starts a session.
// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param body body models.LoginRequest true "Credentials"
// @Success 200 {object} models.AuthResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req models.LoginRequest
	if err := bindJSON(c, &req); err != nil {
		return respondError(c, err)
	}
	resp, err := h.svc.Login(c.Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	h.setSession(c, resp.Token)
	return c.JSON(resp)
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	h.clearSession(c)
	return c.JSON(fiber.Map{"success": true})
}

// Me returns the dashboard of the signed-in account. ?sync=true pulls the
// subscription state from the payment provider first.
// @Summary Current account
// @Tags auth
// @Produce json
// @Param sync query bool false "Reconcile subscription first"
// @Success 200 {object} models.Dashboard
// @Failure 401 {object} ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c fiber.Ctx) error {
	d, err := h.svc.Dashboard(c.Context(), middleware.AccountID(c), fiber.Query(c, "sync", false))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(d)
}

// UpdateMe changes profile fields.
func (h *AuthHandler) UpdateMe(c fiber.Ctx) error {
	var req models.UpdateAccountRequest
	if err := bindJSON(c, &req); err != nil {
		return respondError(c, err)
	}
	acc, err := h.svc.Update(c.Context(), middleware.AccountID(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"user": acc})
}

// DeleteMe cancels any subscription and deletes the account.
// @Summary Delete account
// @Tags auth
// @Success 204
// @Failure 502 {object} ErrorResponse
// @Router /auth/me [delete]
func (h *AuthHandler) DeleteMe(c fiber.Ctx) error {
	if err := h.svc.Delete(c.Context(), middleware.AccountID(c)); err != nil {
		return respondError(c, err)
	}
	h.clearSession(c)
	return c.SendStatus(fiber.StatusNoContent)
}
