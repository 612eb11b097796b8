package handler

import (
	"github.com/gofiber/fiber/v3"

	"cefilm-backend/internal/ledger"
	"cefilm-backend/internal/middleware"
	"cefilm-backend/internal/models"
	"cefilm-backend/internal/service"
)

// RecommendationHandler turns completed quizzes into recommendations.
type RecommendationHandler struct {
	svc *service.RecommendationService
}

func NewRecommendationHandler(svc *service.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{svc: svc}
}

// identity is the signed-in account, or the guest keyed by client address.
func identity(c fiber.Ctx) ledger.Identity {
	if id := middleware.AccountID(c); id != "" {
		return ledger.Account(id)
	}
	return ledger.Guest(middleware.ClientIP(c))
}

// Recommend runs a quiz submission.
// @Summary Get a recommendation
// @Tags recommendations
// @Accept json
// @Produce json
// @Param body body models.RecommendationRequest true "Quiz responses"
// @Success 200 {object} models.RecommendationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 402 {object} ErrorResponse
// @Router /recommendations [post]
func (h *RecommendationHandler) Recommend(c fiber.Ctx) error {
	var req models.RecommendationRequest
	if err := bindJSON(c, &req); err != nil {
		return respondError(c, err)
	}
	resp, err := h.svc.Request(c.Context(), identity(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}
