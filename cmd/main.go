package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	fiberRecover "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"cefilm-backend/internal/auth"
	"cefilm-backend/internal/billing"
	"cefilm-backend/internal/config"
	"cefilm-backend/internal/database"
	"cefilm-backend/internal/handler"
	"cefilm-backend/internal/ledger"
	"cefilm-backend/internal/middleware"
	"cefilm-backend/internal/recommender"
	"cefilm-backend/internal/repository"
	"cefilm-backend/internal/service"
	"cefilm-backend/internal/tmdb"
	"cefilm-backend/pkg/logging"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.NewPostgres(cfg.DB)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	// Redis is optional: without it rate limiting is off, webhook
	// deliveries are not de-duplicated and posters are not cached.
	var rdb *redis.Client
	if client, err := database.NewRedis(cfg.Redis); err != nil {
		slog.Warn("Redis unavailable, continuing without it", "error", err)
	} else {
		rdb = client
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Repositories
	accountRepo := repository.NewAccountRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	watchlistRepo := repository.NewWatchlistRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	communityRepo := repository.NewCommunityRepository(db)

	tickets := ledger.New(ledgerRepo)
	jwt := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.TTL)

	// Recommendation engine
	var gen recommender.Generator
	if cfg.Gemini.APIKey != "" {
		client, err := recommender.NewGeminiClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			slog.Error("failed to create Gemini client", "error", err)
			os.Exit(1)
		}
		gen = client
	} else {
		slog.Warn("GEMINI_API_KEY not set, every recommendation will be the fallback")
	}
	engine := recommender.New(gen, recommender.Config{
		Timeout:          cfg.Gemini.Timeout,
		FailureThreshold: cfg.Gemini.FailureThreshold,
		OpenTimeout:      cfg.Gemini.OpenTimeout,
	})

	// Payments
	var provider billing.Provider
	if cfg.Stripe.Enabled() {
		provider = billing.NewStripeProvider(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret)
	} else {
		slog.Warn("STRIPE_SECRET_KEY not set, billing endpoints are disabled")
	}
	var dedup billing.Deduper
	if rdb != nil {
		dedup = billing.NewRedisDeduper(rdb)
	}
	reconciler := billing.NewReconciler(provider, accountRepo, tickets, dedup, cfg.Stripe.VIPPriceID, cfg.Stripe.AppURL)

	// Services
	recommendationSvc := service.NewRecommendationService(tickets, engine, historyRepo)
	accountSvc := service.NewAccountService(accountRepo, watchlistRepo, historyRepo, communityRepo, reconciler, tickets, jwt)
	librarySvc := service.NewLibraryService(accountRepo, watchlistRepo, historyRepo)
	posterSvc := tmdb.NewPosterService(tmdb.NewClient(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.ImageBaseURL), rdb)

	// Handlers
	healthH := handler.NewHealthHandler(db, rdb, engine.BreakerState)
	quizH := handler.NewQuizHandler()
	ticketH := handler.NewTicketHandler(tickets, accountSvc)
	authH := handler.NewAuthHandler(accountSvc, handler.CookieConfig{
		Name:   cfg.JWT.CookieName,
		Secure: cfg.JWT.CookieSecure,
		TTL:    cfg.JWT.TTL,
	})
	recommendationH := handler.NewRecommendationHandler(recommendationSvc)
	libraryH := handler.NewLibraryHandler(librarySvc)
	billingH := handler.NewBillingHandler(reconciler)
	posterH := handler.NewPosterHandler(posterSvc)

	app := fiber.New(handler.AppConfig("cefilm-backend"))

	// Middleware
	app.Use(fiberRecover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.Stripe.AppURL},
		AllowCredentials: true,
	}))
	app.Use(middleware.Metrics())

	swaggerYAML, err := os.ReadFile("docs/swagger.yaml")
	if err != nil {
		slog.Warn("swagger.yaml not found, swagger UI will be unavailable", "error", err)
	} else {
		handler.RegisterSwagger(app, swaggerYAML)
	}

	app.Get("/health", healthH.Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	authn := middleware.NewAuthenticator(jwt, cfg.JWT.CookieName)
	limiter := middleware.NewRateLimiter(rdb, cfg.RateLimit.Max, cfg.RateLimit.WindowSeconds).
		Skip(func(c fiber.Ctx) bool {
			return strings.HasSuffix(c.Path(), "/billing/webhook")
		})

	// API routes
	api := app.Group("/api/v1", limiter.Handler())

	api.Get("/quiz/categories", quizH.Categories)
	api.Get("/quiz/genres", quizH.Genres)

	api.Get("/guest/tickets", ticketH.GuestTickets)
	api.Post("/guest/tickets", ticketH.UseGuestTicket)

	api.Post("/auth/register", authH.Register)
	api.Post("/auth/login", authH.Login)
	api.Post("/auth/logout", authH.Logout)
	api.Get("/auth/me", authn.Required(), authH.Me)
	api.Patch("/auth/me", authn.Required(), authH.UpdateMe)
	api.Delete("/auth/me", authn.Required(), authH.DeleteMe)

	api.Post("/recommendations", authn.Optional(), recommendationH.Recommend)

	user := api.Group("/user", authn.Required())
	user.Post("/tickets", ticketH.AccountTickets)
	user.Get("/watchlist", libraryH.ListWatchlist)
	user.Post("/watchlist", libraryH.AddToWatchlist)
	user.Get("/watchlist/:id", libraryH.GetWatchlistItem)
	user.Delete("/watchlist/:id", libraryH.RemoveFromWatchlist)
	user.Get("/history", libraryH.ListHistory)
	user.Get("/history/:id", libraryH.GetHistoryEntry)

	api.Post("/billing/checkout", authn.Required(), billingH.Checkout)
	api.Post("/billing/sync", authn.Required(), billingH.Sync)
	api.Post("/billing/webhook", billingH.Webhook)

	api.Get("/posters/:imdbId", posterH.GetPoster)

	go func() {
		slog.Info("cefilm-backend starting", "port", cfg.Port, "env", cfg.Env)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server error", "error", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down cefilm-backend...")

	// Shutdown HTTP server first (stop accepting new requests)
	if err := app.Shutdown(); err != nil {
		slog.Error("error shutting down HTTP server", "error", err)
	}
	slog.Info("HTTP server stopped")

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			slog.Error("error closing Redis connection", "error", err)
		} else {
			slog.Info("Redis connection closed")
		}
	}

	if err := db.Close(); err != nil {
		slog.Error("error closing database connection", "error", err)
	} else {
		slog.Info("database connection closed")
	}

	slog.Info("cefilm-backend shutdown complete")
}
