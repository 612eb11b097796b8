package recommender

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"cefilm-backend/internal/models"
)

var (
	ErrEmptyResponse = errors.New("empty engine response")
	ErrSchema        = errors.New("engine response does not match schema")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Parse decodes and validates an engine response. Any deviation from the
// schema, including a wrong number of alternatives, is an error.
func Parse(raw string) (models.RecommendationResult, error) {
	var out models.RecommendationResult

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return out, ErrEmptyResponse
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return models.RecommendationResult{}, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	if dec.More() {
		return models.RecommendationResult{}, fmt.Errorf("%w: trailing data", ErrSchema)
	}
	if out.Alternatives == nil {
		return models.RecommendationResult{}, fmt.Errorf("%w: alternatives missing", ErrSchema)
	}
	if err := validate.Struct(out); err != nil {
		return models.RecommendationResult{}, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	return out, nil
}
