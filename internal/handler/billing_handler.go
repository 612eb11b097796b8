package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"cefilm-backend/internal/billing"
	"cefilm-backend/internal/middleware"
	"cefilm-backend/internal/models"
	"cefilm-backend/internal/quiz"
)

// BillingHandler exposes checkout, pull sync and the provider webhook.
type BillingHandler struct {
	reconciler *billing.Reconciler
}

func NewBillingHandler(r *billing.Reconciler) *BillingHandler {
	return &BillingHandler{reconciler: r}
}

// Checkout starts a VIP subscription checkout.
// @Summary Start VIP checkout
// @Tags billing
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 502 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /billing/checkout [post]
func (h *BillingHandler) Checkout(c fiber.Ctx) error {
	var req models.CheckoutRequest
	if len(c.Body()) > 0 {
		if err := bindJSON(c, &req); err != nil {
			return respondError(c, err)
		}
	}
	url, err := h.reconciler.Checkout(c.Context(), middleware.AccountID(c), quiz.ParseLanguage(req.Lang))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"url": url})
}

// Sync reconciles the account with the provider's subscription state.
// @Summary Sync subscription
// @Tags billing
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /billing/sync [post]
func (h *BillingHandler) Sync(c fiber.Ctx) error {
	acc, err := h.reconciler.Sync(c.Context(), middleware.AccountID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"user": acc})
}

// Webhook applies a signed provider event. Errors other than a bad
// signature make the provider retry the delivery.
// @Summary Payment provider webhook
// @Tags billing
// @Accept json
// @Produce json
// @Success 200 {object} map[string]bool
// @Failure 400 {object} ErrorResponse
// @Router /billing/webhook [post]
func (h *BillingHandler) Webhook(c fiber.Ctx) error {
	payload := c.Body()
	if err := h.reconciler.HandleWebhook(c.Context(), payload, c.Get("Stripe-Signature")); err != nil {
		slog.Warn("webhook rejected", "error", err)
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"received": true})
}
