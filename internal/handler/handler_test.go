package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cefilm-backend/internal/auth"
	"cefilm-backend/internal/billing"
	"cefilm-backend/internal/ledger"
	"cefilm-backend/internal/middleware"
	"cefilm-backend/internal/models"
	"cefilm-backend/internal/recommender"
	"cefilm-backend/internal/service"
	"cefilm-backend/internal/tmdb"
)

func do(t *testing.T, app *fiber.App, method, path, body string, headers ...string) (*http.Response, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &out)
	}
	return resp, out
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{models.Invalid("bad"), 400, "validation_error"},
		{fmt.Errorf("wrapped: %w", models.ErrNotFound), 404, "not_found"},
		{models.ErrConflict, 409, "conflict"},
		{fmt.Errorf("%w: bad password", models.ErrUnauthorized), 401, "unauthorized"},
		{auth.ErrInvalidToken, 401, "unauthorized"},
		{models.ErrTicketsExhausted, 402, "upgrade_required"},
		{models.ErrVIPRequired, 403, "vip_required"},
		{fmt.Errorf("%w: stripe down", models.ErrProvider), 502, "provider_error"},
		{models.ErrNotConfigured, 503, "not_configured"},
		{billing.ErrInvalidSignature, 400, "validation_error"},
		{fiber.ErrNotFound, 404, "not_found"},
		{errors.New("pq: connection refused"), 500, "internal_error"},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			status, code, msg := classify(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
			assert.NotContains(t, msg, "pq:")
		})
	}
}

func TestQuizCatalog(t *testing.T) {
	app := fiber.New(AppConfig("test"))
	h := NewQuizHandler()
	app.Get("/quiz/categories", h.Categories)
	app.Get("/quiz/genres", h.Genres)

	resp, body := do(t, app, http.MethodGet, "/quiz/categories?lang=en", "")
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "en", body["language"])
	assert.Len(t, body["categories"], 5)

	resp, body = do(t, app, http.MethodGet, "/quiz/genres", "")
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "ro", body["language"])
	assert.Len(t, body["genres"], 12)
}

func TestGuestTickets(t *testing.T) {
	app := fiber.New(AppConfig("test"))
	h := NewTicketHandler(ledger.New(ledger.NewMemoryStore()), nil)
	app.Get("/guest/tickets", h.GuestTickets)
	app.Post("/guest/tickets", h.UseGuestTicket)

	xff := []string{"X-Forwarded-For", "203.0.113.9, 10.0.0.1"}

	_, body := do(t, app, http.MethodGet, "/guest/tickets", "", xff...)
	assert.EqualValues(t, ledger.DefaultTickets, body["remaining"])

	for i := ledger.DefaultTickets - 1; i >= 0; i-- {
		resp, body := do(t, app, http.MethodPost, "/guest/tickets", `{"action":"use"}`, xff...)
		require.Equal(t, 200, resp.StatusCode)
		assert.EqualValues(t, i, body["remaining"])
	}

	// use at zero saturates instead of failing
	resp, body := do(t, app, http.MethodPost, "/guest/tickets", `{"action":"use"}`, xff...)
	assert.Equal(t, 200, resp.StatusCode)
	assert.EqualValues(t, 0, body["remaining"])

	resp, body = do(t, app, http.MethodPost, "/guest/tickets", `{"action":"reset"}`, xff...)
	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, "validation_error", body["code"])

	resp, body = do(t, app, http.MethodPost, "/guest/tickets", `{"action":"steal"}`, xff...)
	assert.Equal(t, 400, resp.StatusCode)
	assert.Contains(t, body["error"], "action must be one of")

	// a different client has its own bucket
	_, body = do(t, app, http.MethodGet, "/guest/tickets", "", "X-Forwarded-For", "198.51.100.2")
	assert.EqualValues(t, ledger.DefaultTickets, body["remaining"])
}

type stubEngine struct{ fallback bool }

func (s stubEngine) Recommend(_ context.Context, req recommender.Request) recommender.Outcome {
	return recommender.Outcome{Result: recommender.Fallback(req.Language), Fallback: s.fallback}
}

type discardHistory struct{}

func (discardHistory) Create(_ context.Context, e models.HistoryEntry) (*models.HistoryEntry, error) {
	return &e, nil
}

func newRecommendApp(t *testing.T, store *ledger.MemoryStore, engine service.Recommender) (*fiber.App, *auth.JWTManager) {
	t.Helper()
	jwt := auth.NewJWTManager("secret", time.Hour)
	svc := service.NewRecommendationService(ledger.New(store), engine, discardHistory{})
	app := fiber.New(AppConfig("test"))
	app.Post("/recommendations", middleware.NewAuthenticator(jwt, "cefilm_token").Optional(), NewRecommendationHandler(svc).Recommend)
	return app, jwt
}

const moodBody = `{"categoryId":"mood","language":"en","genres":["drama"],
	"responses":[{"optionId":"a"},{"freeText":"something warm"},{"optionId":"c"}]}`

func TestRecommendGuest(t *testing.T) {
	app, _ := newRecommendApp(t, ledger.NewMemoryStore(), stubEngine{})

	resp, body := do(t, app, http.MethodPost, "/recommendations", moodBody, "X-Forwarded-For", "203.0.113.1")
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, false, body["fallback"])
	tickets := body["tickets"].(map[string]any)
	assert.EqualValues(t, ledger.DefaultTickets-1, tickets["remaining"])
	result := body["result"].(map[string]any)
	assert.Len(t, result["alternatives"], 3)
}

func TestRecommendAccountExhausted(t *testing.T) {
	store := ledger.NewMemoryStore()
	store.AddAccount(ledger.Row{Identity: ledger.Account("acc-1"), Remaining: 0})
	app, jwt := newRecommendApp(t, store, stubEngine{})
	token, _ := jwt.Generate("acc-1", "a@example.com")

	resp, body := do(t, app, http.MethodPost, "/recommendations", moodBody, "Authorization", "Bearer "+token)
	assert.Equal(t, fiber.StatusPaymentRequired, resp.StatusCode)
	assert.Equal(t, "upgrade_required", body["code"])
}

func TestRecommendValidation(t *testing.T) {
	app, _ := newRecommendApp(t, ledger.NewMemoryStore(), stubEngine{})

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"categoryId":`},
		{"missing category", `{"responses":[{"optionId":"a"}]}`},
		{"bad language", `{"categoryId":"mood","language":"fr","responses":[{"optionId":"a"}]}`},
		{"unknown category", `{"categoryId":"cooking","responses":[{"optionId":"a"}]}`},
		{"wrong response count", `{"categoryId":"mood","responses":[{"optionId":"a"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, app, http.MethodPost, "/recommendations", tt.body)
			assert.Equal(t, 400, resp.StatusCode)
			assert.Equal(t, "validation_error", body["code"])
		})
	}
}

func TestWebhookNotConfigured(t *testing.T) {
	r := billing.NewReconciler(nil, nil, ledger.New(ledger.NewMemoryStore()), nil, "", "")
	app := fiber.New(AppConfig("test"))
	app.Post("/billing/webhook", NewBillingHandler(r).Webhook)

	resp, body := do(t, app, http.MethodPost, "/billing/webhook", `{}`, "Stripe-Signature", "t=1,v1=abc")
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "not_configured", body["code"])
}

func TestPosterInvalidID(t *testing.T) {
	app := fiber.New(AppConfig("test"))
	svc := tmdb.NewPosterService(tmdb.NewClient("key", "http://127.0.0.1:1", ""), nil)
	app.Get("/posters/:imdbId", NewPosterHandler(svc).GetPoster)

	resp, body := do(t, app, http.MethodGet, "/posters/not-an-id", "")
	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, "validation_error", body["code"])
}

func TestUnknownRoute(t *testing.T) {
	app := fiber.New(AppConfig("test"))
	resp, body := do(t, app, http.MethodGet, "/nope", "")
	assert.Equal(t, 404, resp.StatusCode)
	assert.Equal(t, "not_found", body["code"])
}

func TestHealthWithoutDependencies(t *testing.T) {
	app := fiber.New(AppConfig("test"))
	app.Get("/health", NewHealthHandler(nil, nil, func() string { return "closed" }).Health)

	resp, body := do(t, app, http.MethodGet, "/health", "")
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "closed", body["recommender"])
}
