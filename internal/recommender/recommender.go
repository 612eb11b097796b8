// Package recommender turns a completed quiz into a movie recommendation.
// Engine failures of any kind degrade to a fixed localized result.
package recommender

import (
	"context"
	"log/slog"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"cefilm-backend/internal/metrics"
	"cefilm-backend/internal/models"
)

// Outcome is a recommendation and whether it is the fallback.
type Outcome struct {
	Result   models.RecommendationResult
	Fallback bool
}

// Config tunes engine calls.
type Config struct {
	Timeout          time.Duration
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

// Recommender calls a Generator through a circuit breaker.
type Recommender struct {
	gen     Generator
	breaker *gobreaker.CircuitBreaker[models.RecommendationResult]
	timeout time.Duration
}

// New creates a Recommender. A nil generator always serves the fallback.
func New(gen Generator, cfg Config) *Recommender {
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	settings := gobreaker.Settings{
		Name:        "recommendation-engine",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	}
	return &Recommender{
		gen:     gen,
		breaker: gobreaker.NewCircuitBreaker[models.RecommendationResult](settings),
		timeout: cfg.Timeout,
	}
}

// Recommend asks the engine for a result. It never fails: any error yields
// the fallback with Fallback set.
func (r *Recommender) Recommend(ctx context.Context, req Request) Outcome {
	if r.gen == nil {
		return Outcome{Result: Fallback(req.Language), Fallback: true}
	}

	prompt := BuildPrompt(req)
	start := time.Now()
	result, err := r.breaker.Execute(func() (models.RecommendationResult, error) {
		callCtx := ctx
		if r.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, r.timeout)
			defer cancel()
		}
		raw, err := r.gen.Generate(callCtx, prompt)
		if err != nil {
			return models.RecommendationResult{}, err
		}
		return Parse(raw)
	})
	metrics.CollaboratorDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		slog.Error("recommendation engine failed, serving fallback", "error", err, "category", req.CategoryTitle)
		return Outcome{Result: Fallback(req.Language), Fallback: true}
	}
	return Outcome{Result: result}
}

// BreakerState reports the circuit state for health output.
func (r *Recommender) BreakerState() string {
	return r.breaker.State().String()
}
