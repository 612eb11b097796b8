package handler

import (
	"github.com/gofiber/fiber/v3"

	"cefilm-backend/internal/tmdb"
)

// PosterHandler resolves poster images for recommended movies.
type PosterHandler struct {
	svc *tmdb.PosterService
}

func NewPosterHandler(svc *tmdb.PosterService) *PosterHandler {
	return &PosterHandler{svc: svc}
}

// GetPoster returns the poster URL for an IMDb id.
// @Summary Poster lookup
// @Tags posters
// @Produce json
// @Param imdbId path string true "IMDb id"
// @Success 200 {object} tmdb.Poster
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /posters/{imdbId} [get]
func (h *PosterHandler) GetPoster(c fiber.Ctx) error {
	p, err := h.svc.Lookup(c.Context(), c.Params("imdbId"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderCacheControl, "public, max-age=3600")
	return c.JSON(p)
}
