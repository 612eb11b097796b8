package models

import "time"

// MovieFacts identifies a recommended movie.
type MovieFacts struct {
	Title         string `json:"title" validate:"required"`
	OriginalTitle string `json:"originalTitle" validate:"required"`
	Year          string `json:"year" validate:"required"`
	Director      string `json:"director" validate:"required"`
	Genre         string `json:"genre" validate:"required"`
	IMDbID        string `json:"imdbId" validate:"required"`
}

// MainPick is the primary recommendation with its explanation.
type MainPick struct {
	MovieFacts
	Synopsis string `json:"synopsis" validate:"required"`
	Reason   string `json:"reason" validate:"required"`
}

// RecommendationResult is one main pick plus exactly three alternatives.
type RecommendationResult struct {
	Main         MainPick     `json:"main"`
	Alternatives []MovieFacts `json:"alternatives" validate:"len=3,dive"`
}

// QuizAnswer is one question/answer pair of a completed quiz.
type QuizAnswer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// QuizResponse is the client's input for one question: an option id or free text.
type QuizResponse struct {
	OptionID string `json:"optionId"`
	FreeText string `json:"freeText"`
}

// RecommendationRequest is the body of POST /recommendations.
type RecommendationRequest struct {
	CategoryID string         `json:"categoryId" validate:"required"`
	Language   string         `json:"language" validate:"omitempty,oneof=ro en"`
	Genres     []string       `json:"genres" validate:"max=12"`
	Responses  []QuizResponse `json:"responses" validate:"required,min=1,dive"`
}

// TicketBalance is the caller's remaining quota after a request.
type TicketBalance struct {
	Remaining int  `json:"remaining"`
	Unlimited bool `json:"unlimited"`
}

// RecommendationResponse is returned by POST /recommendations.
type RecommendationResponse struct {
	Result   RecommendationResult `json:"result"`
	Fallback bool                 `json:"fallback"`
	Tickets  TicketBalance        `json:"tickets"`
}

// HistoryEntry is a VIP user's stored recommendation.
type HistoryEntry struct {
	ID           string       `json:"id"`
	AccountID    string       `json:"-"`
	QuizName     string       `json:"quizName"`
	Preferences  []string     `json:"preferences"`
	Answers      []QuizAnswer `json:"answers"`
	Result       MainPick     `json:"result"`
	Alternatives []MovieFacts `json:"alternatives"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// WatchlistItem is a movie saved by a user.
type WatchlistItem struct {
	ID            string    `json:"id"`
	AccountID     string    `json:"-"`
	Title         string    `json:"title"`
	OriginalTitle string    `json:"originalTitle,omitempty"`
	IMDbID        string    `json:"imdbId,omitempty"`
	Year          string    `json:"year,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	Synopsis      string    `json:"synopsis,omitempty"`
	Reason        string    `json:"reason,omitempty"`
	Director      string    `json:"director,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// CreateWatchlistItemRequest is the body of POST /user/watchlist.
type CreateWatchlistItemRequest struct {
	Title         string `json:"title" validate:"required,max=255"`
	OriginalTitle string `json:"originalTitle" validate:"max=255"`
	IMDbID        string `json:"imdbId" validate:"max=32"`
	Year          string `json:"year" validate:"max=16"`
	Notes         string `json:"notes" validate:"max=500"`
	Synopsis      string `json:"synopsis" validate:"max=5000"`
	Reason        string `json:"reason" validate:"max=5000"`
	Director      string `json:"director" validate:"max=200"`
}
