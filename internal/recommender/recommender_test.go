package recommender

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cefilm-backend/internal/models"
	"cefilm-backend/internal/quiz"
)

type stubGenerator struct {
	out    string
	err    error
	calls  int
	prompt string
}

func (s *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	s.calls++
	s.prompt = prompt
	return s.out, s.err
}

func validResult() models.RecommendationResult {
	alt := models.MovieFacts{Title: "Her", OriginalTitle: "Her", Year: "2013", Director: "Spike Jonze", Genre: "Drama", IMDbID: "tt1798709"}
	return models.RecommendationResult{
		Main: models.MainPick{
			MovieFacts: models.MovieFacts{Title: "Lost in Translation", OriginalTitle: "Lost in Translation", Year: "2003", Director: "Sofia Coppola", Genre: "Drama", IMDbID: "tt0335266"},
			Synopsis:   "Two strangers in Tokyo.",
			Reason:     "You feel adrift.",
		},
		Alternatives: []models.MovieFacts{alt, alt, alt},
	}
}

func encode(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func request() Request {
	return Request{
		CategoryTitle: "Mood",
		Answers:       []models.QuizAnswer{{Question: "Energy?", Answer: "Zero"}, {Question: "Need?", Answer: "A good cry"}},
		Language:      quiz.LangEN,
		Genres:        []string{"drama", "scifi"},
	}
}

func TestRecommendSuccess(t *testing.T) {
	gen := &stubGenerator{out: encode(t, validResult())}
	r := New(gen, Config{Timeout: time.Second})

	out := r.Recommend(context.Background(), request())
	assert.False(t, out.Fallback)
	assert.Equal(t, "Lost in Translation", out.Result.Main.Title)
	assert.Len(t, out.Result.Alternatives, 3)
	assert.Equal(t, 1, gen.calls)
}

func TestRecommendFallsBack(t *testing.T) {
	short := validResult()
	short.Alternatives = short.Alternatives[:2]

	missingField := validResult()
	missingField.Main.IMDbID = ""

	tests := []struct {
		name string
		gen  *stubGenerator
	}{
		{"transport error", &stubGenerator{err: errors.New("connection reset")}},
		{"empty body", &stubGenerator{out: "  "}},
		{"malformed json", &stubGenerator{out: `{"main": {`}},
		{"alternatives missing", &stubGenerator{out: encode(t, map[string]any{"main": validResult().Main})}},
		{"two alternatives", &stubGenerator{out: encode(t, short)}},
		{"main field missing", &stubGenerator{out: encode(t, missingField)}},
		{"unknown field", &stubGenerator{out: strings.Replace(encode(t, validResult()), `"main"`, `"extra":1,"main"`, 1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(tt.gen, Config{})
			out := r.Recommend(context.Background(), Request{Language: quiz.LangRO})
			assert.True(t, out.Fallback)
			assert.Equal(t, Fallback(quiz.LangRO), out.Result)
		})
	}
}

func TestNilGeneratorServesFallback(t *testing.T) {
	out := New(nil, Config{}).Recommend(context.Background(), Request{Language: quiz.LangEN})
	assert.True(t, out.Fallback)
	assert.Equal(t, "Cinema Paradiso", out.Result.Main.Title)
}

func TestBreakerOpensAfterFailures(t *testing.T) {
	gen := &stubGenerator{err: errors.New("boom")}
	r := New(gen, Config{FailureThreshold: 2, OpenTimeout: time.Hour})

	for i := 0; i < 5; i++ {
		out := r.Recommend(context.Background(), request())
		assert.True(t, out.Fallback)
	}
	assert.Equal(t, 2, gen.calls, "open breaker must short-circuit further calls")
	assert.Equal(t, "open", r.BreakerState())
}

func TestFallbackShape(t *testing.T) {
	for _, lang := range []quiz.Language{quiz.LangRO, quiz.LangEN} {
		f := Fallback(lang)
		_, err := Parse(encode(t, f))
		assert.NoError(t, err, "fallback must satisfy the response schema")
		assert.Equal(t, "tt0095765", f.Main.IMDbID)
	}
	assert.NotEqual(t, Fallback(quiz.LangRO).Main.Synopsis, Fallback(quiz.LangEN).Main.Synopsis)
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt(request())
	assert.Contains(t, p, "Quiz: Mood")
	assert.Contains(t, p, "Q: Energy? A: Zero\nQ: Need? A: A good cry\n")
	assert.Contains(t, p, "Drama, Sci-Fi")
	assert.Contains(t, p, "English")

	ro := request()
	ro.Language = quiz.LangRO
	ro.Genres = nil
	p = BuildPrompt(ro)
	assert.Contains(t, p, "Romanian")
	assert.Contains(t, p, "no genre preference")
}

func TestResponseSchemaRequiresThreeAlternatives(t *testing.T) {
	s := responseSchema()
	alts := s.Properties["alternatives"]
	require.NotNil(t, alts.MinItems)
	assert.EqualValues(t, 3, *alts.MinItems)
	assert.EqualValues(t, 3, *alts.MaxItems)
	assert.ElementsMatch(t, append(append([]string{}, movieRequired...), "synopsis", "reason"), s.Properties["main"].Required)
}
