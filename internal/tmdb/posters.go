package tmdb

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"time"

	"github.com/redis/go-redis/v9"

	"cefilm-backend/internal/models"
)

const posterCacheTTL = 24 * time.Hour

var imdbIDPattern = regexp.MustCompile(`^tt\d{5,10}$`)

// Finder looks up a poster URL by IMDb id.
type Finder interface {
	FindPoster(ctx context.Context, imdbID string) (string, error)
}

// Poster is the lookup result.
type Poster struct {
	IMDbID    string `json:"imdbId"`
	PosterURL string `json:"posterUrl"`
}

// PosterService caches poster lookups in Redis. Misses are cached too.
type PosterService struct {
	finder Finder
	redis  *redis.Client
}

// NewPosterService creates a PosterService. A nil client disables caching.
func NewPosterService(finder Finder, rdb *redis.Client) *PosterService {
	return &PosterService{finder: finder, redis: rdb}
}

// Lookup resolves the poster of imdbID.
func (s *PosterService) Lookup(ctx context.Context, imdbID string) (*Poster, error) {
	if !imdbIDPattern.MatchString(imdbID) {
		return nil, models.Invalid("imdbId must look like tt0123456")
	}

	key := "poster:" + imdbID
	if cached, err := s.getFromCache(ctx, key); err == nil {
		slog.Debug("cache hit", "key", key)
		return &Poster{IMDbID: imdbID, PosterURL: cached}, nil
	}

	posterURL, err := s.finder.FindPoster(ctx, imdbID)
	if errors.Is(err, models.ErrNotFound) {
		posterURL, err = "", nil
	}
	if err != nil {
		return nil, err
	}

	s.setCache(ctx, key, posterURL)
	return &Poster{IMDbID: imdbID, PosterURL: posterURL}, nil
}

// ---- Redis Helpers ----

func (s *PosterService) getFromCache(ctx context.Context, key string) (string, error) {
	if s.redis == nil {
		return "", redis.Nil
	}
	return s.redis.Get(ctx, key).Result()
}

func (s *PosterService) setCache(ctx context.Context, key, value string) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Set(ctx, key, value, posterCacheTTL).Err(); err != nil {
		slog.Error("failed to set cache", "key", key, "error", err)
	}
}
