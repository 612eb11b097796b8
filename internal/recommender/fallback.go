package recommender

import (
	"cefilm-backend/internal/models"
	"cefilm-backend/internal/quiz"
)

// Fallback is the fixed result served whenever the engine fails.
func Fallback(lang quiz.Language) models.RecommendationResult {
	synopsis := "Un regizor de film își amintește copilăria, când s-a îndrăgostit de imaginile din cinematograful satului său."
	reason := "Am avut o mică interferență în semnal, dar acest film e un răspuns sigur pentru orice iubitor de frumos."
	if lang == quiz.LangEN {
		synopsis = "A filmmaker recalls the childhood in which he fell in love with the pictures at his village cinema."
		reason = "We hit a little signal interference, but this film is a safe answer for anyone who loves beautiful things."
	}

	return models.RecommendationResult{
		Main: models.MainPick{
			MovieFacts: models.MovieFacts{
				Title:         "Cinema Paradiso",
				OriginalTitle: "Nuovo Cinema Paradiso",
				Year:          "1988",
				Director:      "Giuseppe Tornatore",
				Genre:         "Drama",
				IMDbID:        "tt0095765",
			},
			Synopsis: synopsis,
			Reason:   reason,
		},
		Alternatives: []models.MovieFacts{
			{
				Title:         "Amélie",
				OriginalTitle: "Le Fabuleux Destin d'Amélie Poulain",
				Year:          "2001",
				Director:      "Jean-Pierre Jeunet",
				Genre:         "Romance Comedy",
				IMDbID:        "tt0211915",
			},
			{
				Title:         "The Grand Budapest Hotel",
				OriginalTitle: "The Grand Budapest Hotel",
				Year:          "2014",
				Director:      "Wes Anderson",
				Genre:         "Comedy",
				IMDbID:        "tt2278388",
			},
			{
				Title:         "Eternal Sunshine of the Spotless Mind",
				OriginalTitle: "Eternal Sunshine of the Spotless Mind",
				Year:          "2004",
				Director:      "Michel Gondry",
				Genre:         "Sci-Fi Drama",
				IMDbID:        "tt0338013",
			},
		},
	}
}
