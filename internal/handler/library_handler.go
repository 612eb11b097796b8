package handler

import (
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"cefilm-backend/internal/middleware"
	"cefilm-backend/internal/models"
	"cefilm-backend/internal/service"
)

// LibraryHandler serves the watchlist and VIP history of the signed-in account.
type LibraryHandler struct {
	svc *service.LibraryService
}

func NewLibraryHandler(svc *service.LibraryService) *LibraryHandler {
	return &LibraryHandler{svc: svc}
}

// itemID parses the :id path parameter. Malformed ids are reported as not found.
func itemID(c fiber.Ctx) (string, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return "", models.ErrNotFound
	}
	return id.String(), nil
}

// ListWatchlist returns the saved movies.
// @Summary List watchlist
// @Tags library
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /user/watchlist [get]
func (h *LibraryHandler) ListWatchlist(c fiber.Ctx) error {
	items, err := h.svc.ListWatchlist(c.Context(), middleware.AccountID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"items": items})
}

// AddToWatchlist saves a movie.
// @Summary Add to watchlist
// @Tags library
// @Accept json
// @Produce json
// @Param body body models.CreateWatchlistItemRequest true "Movie"
// @Success 201 {object} models.WatchlistItem
// @Router /user/watchlist [post]
func (h *LibraryHandler) AddToWatchlist(c fiber.Ctx) error {
	var req models.CreateWatchlistItemRequest
	if err := bindJSON(c, &req); err != nil {
		return respondError(c, err)
	}
	item, err := h.svc.AddToWatchlist(c.Context(), middleware.AccountID(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

func (h *LibraryHandler) GetWatchlistItem(c fiber.Ctx) error {
	id, err := itemID(c)
	if err != nil {
		return respondError(c, err)
	}
	item, err := h.svc.GetWatchlistItem(c.Context(), middleware.AccountID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(item)
}

func (h *LibraryHandler) RemoveFromWatchlist(c fiber.Ctx) error {
	id, err := itemID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.svc.RemoveFromWatchlist(c.Context(), middleware.AccountID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListHistory returns past recommendations. VIP only.
// @Summary List recommendation history
// @Tags library
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} ErrorResponse
// @Router /user/history [get]
func (h *LibraryHandler) ListHistory(c fiber.Ctx) error {
	entries, err := h.svc.ListHistory(c.Context(), middleware.AccountID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"history": entries})
}

func (h *LibraryHandler) GetHistoryEntry(c fiber.Ctx) error {
	id, err := itemID(c)
	if err != nil {
		return respondError(c, err)
	}
	entry, err := h.svc.GetHistoryEntry(c.Context(), middleware.AccountID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entry)
}
