package recommender

import (
	"fmt"
	"strings"

	"cefilm-backend/internal/models"
	"cefilm-backend/internal/quiz"
)

// Request is everything the engine needs to pick a movie.
type Request struct {
	CategoryTitle string
	Answers       []models.QuizAnswer
	Language      quiz.Language
	Genres        []string
}

func languageDirective(lang quiz.Language) string {
	if lang == quiz.LangEN {
		return "Write every text field in English only."
	}
	return "Write every text field in Romanian only."
}

func genreDirective(genres []string) string {
	if len(genres) == 0 {
		return "The viewer has no genre preference. Pick whichever genre best fits the profile."
	}
	names := make([]string, 0, len(genres))
	for _, id := range genres {
		if name, ok := quiz.GenreName(id); ok {
			names = append(names, name)
		} else {
			names = append(names, id)
		}
	}
	return fmt.Sprintf(
		"The viewer asked for these genres: %s. Stay within them unless the emotional profile "+
			"clearly contradicts them; in that case choose the closest compatible blend.",
		strings.Join(names, ", "),
	)
}

// BuildPrompt renders the instruction text sent to the engine.
func BuildPrompt(req Request) string {
	var b strings.Builder
	b.WriteString("You are a film adviser with a background in psychology.\n")
	b.WriteString("Read the viewer's quiz answers, infer their emotional state and recommend one main movie ")
	b.WriteString("plus exactly three alternatives that approach the same need from slightly different angles.\n\n")

	fmt.Fprintf(&b, "Quiz: %s\n", req.CategoryTitle)
	for _, a := range req.Answers {
		fmt.Fprintf(&b, "Q: %s A: %s\n", a.Question, a.Answer)
	}

	b.WriteString("\nGenres: ")
	b.WriteString(genreDirective(req.Genres))
	b.WriteString("\nLanguage: ")
	b.WriteString(languageDirective(req.Language))
	b.WriteString("\n\nRules:\n")
	b.WriteString("- Reply with JSON matching the response schema and nothing else.\n")
	b.WriteString("- The main pick needs a spoiler-free synopsis and a reason tied to the answers.\n")
	b.WriteString("- Prefer movies that are easy to find on streaming or VOD.\n")
	b.WriteString("- imdbId must be the real IMDb identifier, for example tt0111161.\n")
	return b.String()
}
