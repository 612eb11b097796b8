// Package tmdb resolves poster images for recommended movies.
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"cefilm-backend/internal/models"
)

// Client is the TMDB API client.
type Client struct {
	apiKey       string
	baseURL      string
	imageBaseURL string
	http         *http.Client
}

// NewClient creates a new TMDB API client.
func NewClient(apiKey, baseURL, imageBaseURL string) *Client {
	return &Client{
		apiKey:       apiKey,
		baseURL:      baseURL,
		imageBaseURL: imageBaseURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// findResponse is the TMDB find/{external_id} response.
type findResponse struct {
	MovieResults []struct {
		ID         int    `json:"id"`
		Title      string `json:"title"`
		PosterPath string `json:"poster_path"`
	} `json:"movie_results"`
}

// FindPoster returns the poster URL of the movie with the given IMDb id,
// or "" when TMDB knows no such movie or it has no poster.
func (c *Client) FindPoster(ctx context.Context, imdbID string) (string, error) {
	if c.apiKey == "" {
		return "", models.ErrNotConfigured
	}

	u := fmt.Sprintf(
		"%s/find/%s?api_key=%s&external_source=imdb_id",
		c.baseURL, url.PathEscape(imdbID), url.QueryEscape(c.apiKey),
	)

	slog.Debug("fetching TMDB find", "imdb_id", imdbID)
	resp, err := c.doGet(ctx, u)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var result findResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("%w: failed to decode find response: %v", models.ErrProvider, err)
	}
	for _, m := range result.MovieResults {
		if m.PosterPath != "" {
			return c.imageBaseURL + m.PosterPath, nil
		}
	}
	return "", nil
}

func (c *Client) doGet(ctx context.Context, u string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: HTTP request failed: %v", models.ErrProvider, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: TMDB returned 404", models.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, fmt.Errorf("%w: TMDB API returned status %d: %s", models.ErrProvider, resp.StatusCode, string(body))
	}
	return resp, nil
}
