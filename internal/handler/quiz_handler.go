package handler

import (
	"github.com/gofiber/fiber/v3"

	"cefilm-backend/internal/quiz"
)

// QuizHandler serves the quiz catalog.
type QuizHandler struct{}

func NewQuizHandler() *QuizHandler {
	return &QuizHandler{}
}

// Categories returns all quiz categories in the requested language.
// @Summary List quiz categories
// @Tags quiz
// @Produce json
// @Param lang query string false "Language" Enums(ro,en) default(ro)
// @Success 200 {object} map[string]interface{}
// @Router /quiz/categories [get]
func (h *QuizHandler) Categories(c fiber.Ctx) error {
	lang := quiz.ParseLanguage(c.Query("lang"))
	return c.JSON(fiber.Map{
		"language":   lang,
		"categories": quiz.Categories(lang),
	})
}

// Genres returns the genre filters in the requested language.
func (h *QuizHandler) Genres(c fiber.Ctx) error {
	lang := quiz.ParseLanguage(c.Query("lang"))
	return c.JSON(fiber.Map{
		"language": lang,
		"genres":   quiz.Genres(lang),
	})
}
