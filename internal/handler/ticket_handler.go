package handler

import (
	"github.com/gofiber/fiber/v3"

	"cefilm-backend/internal/ledger"
	"cefilm-backend/internal/middleware"
	"cefilm-backend/internal/models"
	"cefilm-backend/internal/service"
)

// TicketHandler exposes guest and account ticket balances.
type TicketHandler struct {
	ledger   *ledger.Ledger
	accounts *service.AccountService
}

func NewTicketHandler(l *ledger.Ledger, accounts *service.AccountService) *TicketHandler {
	return &TicketHandler{ledger: l, accounts: accounts}
}

// GuestTickets returns the caller's guest balance, creating it on first contact.
// @Summary Guest ticket balance
// @Tags tickets
// @Produce json
// @Success 200 {object} map[string]int
// @Router /guest/tickets [get]
func (h *TicketHandler) GuestTickets(c fiber.Ctx) error {
	row, err := h.ledger.GetOrCreate(c.Context(), ledger.Guest(middleware.ClientIP(c)))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"remaining": row.Remaining})
}

// UseGuestTicket spends one guest ticket.
// @Summary Use a guest ticket
// @Tags tickets
// @Accept json
// @Produce json
// @Success 200 {object} map[string]int
// @Failure 402 {object} ErrorResponse
// @Router /guest/tickets [post]
func (h *TicketHandler) UseGuestTicket(c fiber.Ctx) error {
	var req models.TicketActionRequest
	if err := bindJSON(c, &req); err != nil {
		return respondError(c, err)
	}
	if req.Action != "use" {
		return respondError(c, models.Invalid("guests can only use tickets"))
	}

	row, err := h.ledger.Consume(c.Context(), ledger.Guest(middleware.ClientIP(c)))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"remaining": row.Remaining})
}

// AccountTickets uses or resets the signed-in account's tickets.
// @Summary Use or reset account tickets
// @Tags tickets
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} ErrorResponse
// @Router /user/tickets [post]
func (h *TicketHandler) AccountTickets(c fiber.Ctx) error {
	var req models.TicketActionRequest
	if err := bindJSON(c, &req); err != nil {
		return respondError(c, err)
	}
	acc, err := h.accounts.Tickets(c.Context(), middleware.AccountID(c), req.Action)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"user": acc})
}
