package recommender

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// Generator returns the raw JSON text of one engine call.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiClient calls the Gemini API with a response schema.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a client for the Gemini developer API.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is empty")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiClient{client: client, model: model}, nil
}

// Generate sends the prompt and returns the response text.
func (g *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema(),
		ThinkingConfig:   &genai.ThinkingConfig{ThinkingBudget: genai.Ptr[int32](1024)},
	})
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return resp.Text(), nil
}

func movieProperties() map[string]*genai.Schema {
	return map[string]*genai.Schema{
		"title":         {Type: genai.TypeString, Description: "Title in the response language"},
		"originalTitle": {Type: genai.TypeString, Description: "Original release title"},
		"year":          {Type: genai.TypeString, Description: "Release year"},
		"director":      {Type: genai.TypeString, Description: "Director"},
		"genre":         {Type: genai.TypeString, Description: "Genre"},
		"imdbId":        {Type: genai.TypeString, Description: "IMDb id, e.g. tt0111161"},
	}
}

var movieRequired = []string{"title", "originalTitle", "year", "director", "genre", "imdbId"}

func responseSchema() *genai.Schema {
	main := movieProperties()
	main["synopsis"] = &genai.Schema{Type: genai.TypeString, Description: "Atmospheric spoiler-free summary"}
	main["reason"] = &genai.Schema{Type: genai.TypeString, Description: "Why this movie fits the answers"}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"main": {
				Type:       genai.TypeObject,
				Properties: main,
				Required:   append(append([]string{}, movieRequired...), "synopsis", "reason"),
			},
			"alternatives": {
				Type:     genai.TypeArray,
				MinItems: genai.Ptr[int64](3),
				MaxItems: genai.Ptr[int64](3),
				Items: &genai.Schema{
					Type:       genai.TypeObject,
					Properties: movieProperties(),
					Required:   movieRequired,
				},
			},
		},
		Required: []string{"main", "alternatives"},
	}
}
