package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cefilm-backend/internal/ledger"
	"cefilm-backend/internal/metrics"
	"cefilm-backend/internal/models"
	"cefilm-backend/internal/quiz"
	"cefilm-backend/internal/recommender"
)

// Recommender produces a recommendation; it never fails, it falls back.
type Recommender interface {
	Recommend(ctx context.Context, req recommender.Request) recommender.Outcome
}

// HistoryWriter stores VIP history entries.
type HistoryWriter interface {
	Create(ctx context.Context, e models.HistoryEntry) (*models.HistoryEntry, error)
}

// RecommendationService runs a quiz submission through entitlement, the
// engine, history and consumption.
type RecommendationService struct {
	ledger  *ledger.Ledger
	engine  Recommender
	history HistoryWriter
}

func NewRecommendationService(l *ledger.Ledger, engine Recommender, history HistoryWriter) *RecommendationService {
	return &RecommendationService{ledger: l, engine: engine, history: history}
}

// Request validates the submission, checks the caller can pay, asks the
// engine and, only for a real result, records history and spends a ticket.
func (s *RecommendationService) Request(ctx context.Context, id ledger.Identity, req models.RecommendationRequest) (*models.RecommendationResponse, error) {
	lang := quiz.ParseLanguage(req.Language)

	category, ok := quiz.CategoryByID(req.CategoryID, lang)
	if !ok {
		return nil, models.Invalid(fmt.Sprintf("unknown quiz category %q", req.CategoryID))
	}
	genres, err := normalizeGenres(req.Genres)
	if err != nil {
		return nil, err
	}
	answers, err := quiz.Replay(category, req.Responses)
	if err != nil {
		return nil, err
	}

	row, err := s.ledger.Authorize(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrTicketsExhausted) {
			metrics.Recommendations.WithLabelValues("rejected").Inc()
		}
		return nil, err
	}

	outcome := s.engine.Recommend(ctx, recommender.Request{
		CategoryTitle: category.Title,
		Answers:       answers,
		Language:      lang,
		Genres:        genres,
	})
	if outcome.Fallback {
		metrics.Recommendations.WithLabelValues("fallback").Inc()
		return &models.RecommendationResponse{Result: outcome.Result, Fallback: true, Tickets: row.Balance()}, nil
	}

	if row.IsVIP && id.Kind == ledger.KindAccount {
		_, err := s.history.Create(ctx, models.HistoryEntry{
			AccountID:    id.Key,
			QuizName:     category.Title,
			Preferences:  genres,
			Answers:      answers,
			Result:       outcome.Result.Main,
			Alternatives: outcome.Result.Alternatives,
		})
		if err != nil {
			slog.Error("failed to save history entry", "account_id", id.Key, "error", err)
		}
	}

	if !row.IsVIP {
		consumed, err := s.ledger.Consume(ctx, id)
		if err != nil {
			slog.Error("failed to consume ticket", "identity", id.String(), "error", err)
		} else {
			row = consumed
		}
	}

	metrics.Recommendations.WithLabelValues("success").Inc()
	return &models.RecommendationResponse{Result: outcome.Result, Tickets: row.Balance()}, nil
}

func normalizeGenres(ids []string) ([]string, error) {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := quiz.GenreName(id); !ok {
			return nil, models.Invalid(fmt.Sprintf("unknown genre %q", id))
		}
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out, nil
}
