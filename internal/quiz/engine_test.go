package quiz

import (
	"errors"
	"strings"
	"testing"

	"cefilm-backend/internal/models"
)

func mustCategory(t *testing.T, id string, lang Language) Category {
	t.Helper()
	c, ok := CategoryByID(id, lang)
	if !ok {
		t.Fatalf("category %q not found", id)
	}
	return c
}

func TestStartRejectsEmptyCategory(t *testing.T) {
	if _, err := Start(Category{ID: "empty"}); !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
}

func TestAdvanceRequiresAnswer(t *testing.T) {
	s, err := Start(mustCategory(t, "mood", LangEN))
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	if _, _, err := s.Advance(); !errors.Is(err, ErrUnanswered) {
		t.Fatalf("expected ErrUnanswered, got %v", err)
	}
	if s.Index() != 0 {
		t.Errorf("index moved to %d on rejected advance", s.Index())
	}

	if err := s.SetFreeText("   "); err != nil {
		t.Fatalf("SetFreeText: %v", err)
	}
	if _, _, err := s.Advance(); !errors.Is(err, ErrUnanswered) {
		t.Fatalf("whitespace-only text should not count as an answer, got %v", err)
	}
	if s.Index() != 0 {
		t.Errorf("index moved to %d on rejected advance", s.Index())
	}
}

func TestOptionAndFreeTextAreExclusive(t *testing.T) {
	t.Run("text after option", func(t *testing.T) {
		s, _ := Start(mustCategory(t, "mood", LangEN))
		if err := s.SelectOption("b"); err != nil {
			t.Fatalf("SelectOption: %v", err)
		}
		_ = s.SetFreeText("I feel tired")
		answers := walk(t, s)
		if answers[0].Answer != "I feel tired" {
			t.Errorf("first answer = %q, want the free text", answers[0].Answer)
		}
	})

	t.Run("option after text", func(t *testing.T) {
		s, _ := Start(mustCategory(t, "mood", LangEN))
		_ = s.SetFreeText("I feel tired")
		if err := s.SelectOption("d"); err != nil {
			t.Fatalf("SelectOption: %v", err)
		}
		answers := walk(t, s)
		if answers[0].Answer != "Great, I feel happy" {
			t.Errorf("first answer = %q, want the option text", answers[0].Answer)
		}
	})
}

// walk answers the current question as already set, then picks "a" for the rest.
func walk(t *testing.T, s *Session) []models.QuizAnswer {
	t.Helper()
	for {
		answers, done, err := s.Advance()
		if err != nil {
			t.Fatalf("Advance at %d: %v", s.Index(), err)
		}
		if done {
			return answers
		}
		if err := s.SelectOption("a"); err != nil {
			t.Fatalf("SelectOption: %v", err)
		}
	}
}

func TestFreeTextRecordedTrimmed(t *testing.T) {
	s, _ := Start(mustCategory(t, "mood", LangEN))
	_ = s.SelectOption("b")
	_ = s.SetFreeText("  I feel tired  ")

	answers := walk(t, s)
	if len(answers) != 3 {
		t.Fatalf("expected 3 answers, got %d", len(answers))
	}
	if answers[0].Answer != "I feel tired" {
		t.Errorf("answer = %q, want only the trimmed free text", answers[0].Answer)
	}
	if answers[0].Question != "What is your energy level right now?" {
		t.Errorf("question = %q", answers[0].Question)
	}
}

func TestSelectUnknownOption(t *testing.T) {
	s, _ := Start(mustCategory(t, "social", LangRO))
	_ = s.SelectOption("a")
	if err := s.SelectOption("z"); !errors.Is(err, ErrUnknownOption) {
		t.Fatalf("expected ErrUnknownOption, got %v", err)
	}
	if !s.Answered() {
		t.Error("rejected selection must keep the previous answer")
	}
}

func TestCompletionAndClosedSession(t *testing.T) {
	s, _ := Start(mustCategory(t, "events", LangRO))
	_ = s.SelectOption("c")
	answers := walk(t, s)
	if !s.Completed() {
		t.Fatal("session should be completed")
	}
	if answers[0].Answer != "Am fost plecat sau am încercat ceva nou" {
		t.Errorf("unexpected localized answer %q", answers[0].Answer)
	}
	if err := s.SelectOption("a"); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("expected ErrSessionClosed after completion, got %v", err)
	}
}

func TestCancel(t *testing.T) {
	s, _ := Start(mustCategory(t, "personality", LangEN))
	_ = s.SelectOption("a")
	if _, _, err := s.Advance(); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	s.Cancel()
	if _, _, err := s.Advance(); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("expected ErrSessionClosed, got %v", err)
	}
	if err := s.SetFreeText("x"); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("expected ErrSessionClosed, got %v", err)
	}
}

func TestReplay(t *testing.T) {
	c := mustCategory(t, "time-travel", LangEN)

	t.Run("valid", func(t *testing.T) {
		answers, err := Replay(c, []models.QuizResponse{
			{OptionID: "a"},
			{FreeText: " something grainy "},
			{OptionID: "c"},
		})
		if err != nil {
			t.Fatalf("Replay: %v", err)
		}
		want := []string{"High-tech future", "something grainy", "Mind bending"}
		for i, a := range answers {
			if a.Answer != want[i] {
				t.Errorf("answer %d = %q, want %q", i, a.Answer, want[i])
			}
		}
	})

	tests := []struct {
		name      string
		responses []models.QuizResponse
	}{
		{"too few", []models.QuizResponse{{OptionID: "a"}}},
		{"both given", []models.QuizResponse{{OptionID: "a", FreeText: "x"}, {OptionID: "a"}, {OptionID: "a"}}},
		{"neither given", []models.QuizResponse{{OptionID: "a"}, {}, {OptionID: "a"}}},
		{"unknown option", []models.QuizResponse{{OptionID: "a"}, {OptionID: "q"}, {OptionID: "a"}}},
		{"text too long", []models.QuizResponse{{FreeText: strings.Repeat("x", MaxFreeTextLength+1)}, {OptionID: "a"}, {OptionID: "a"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Replay(c, tt.responses); !errors.Is(err, models.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCatalog(t *testing.T) {
	for _, lang := range []Language{LangRO, LangEN} {
		cats := Categories(lang)
		if len(cats) != 5 {
			t.Fatalf("expected 5 categories, got %d", len(cats))
		}
		for _, c := range cats {
			if len(c.Questions) != 3 {
				t.Errorf("%s/%s: expected 3 questions, got %d", lang, c.ID, len(c.Questions))
			}
			for _, q := range c.Questions {
				if len(q.Options) != 4 || q.Text == "" {
					t.Errorf("%s/%s question %d malformed", lang, c.ID, q.ID)
				}
			}
		}
	}
	if len(Genres(LangRO)) != 12 {
		t.Errorf("expected 12 genres")
	}
	if name, ok := GenreName("scifi"); !ok || name != "Sci-Fi" {
		t.Errorf("GenreName(scifi) = %q, %v", name, ok)
	}
	if ParseLanguage("EN") != LangEN || ParseLanguage("de") != LangRO {
		t.Error("ParseLanguage should default to ro")
	}
}
