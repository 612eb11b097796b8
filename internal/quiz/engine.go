// Package quiz holds the question catalog and the session state machine that
// walks a category one question at a time.
package quiz

import (
	"errors"
	"fmt"
	"strings"

	"cefilm-backend/internal/models"
)

var (
	ErrNoQuestions   = errors.New("category has no questions")
	ErrUnknownOption = errors.New("unknown option")
	ErrUnanswered    = errors.New("current question is not answered")
	ErrSessionClosed = errors.New("quiz session is closed")
)

// MaxFreeTextLength bounds a typed answer, in characters.
const MaxFreeTextLength = 500

type sessionState int

const (
	stateActive sessionState = iota
	stateCompleted
	stateCancelled
)

// Session is an in-progress quiz. It is not safe for concurrent use.
type Session struct {
	category Category
	answers  []models.QuizAnswer
	index    int
	selected string
	freeText string
	state    sessionState
}

// Start opens a session positioned on the first question.
func Start(c Category) (*Session, error) {
	if len(c.Questions) == 0 {
		return nil, ErrNoQuestions
	}
	return &Session{
		category: c,
		answers:  make([]models.QuizAnswer, 0, len(c.Questions)),
	}, nil
}

// Category returns the category being walked.
func (s *Session) Category() Category { return s.category }

// Index is the zero-based position of the current question.
func (s *Session) Index() int { return s.index }

// Current returns the question awaiting an answer.
func (s *Session) Current() Question { return s.category.Questions[s.index] }

// Completed reports whether the last question has been answered.
func (s *Session) Completed() bool { return s.state == stateCompleted }

// SelectOption picks an option of the current question and clears any free text.
func (s *Session) SelectOption(optionID string) error {
	if s.state != stateActive {
		return ErrSessionClosed
	}
	for _, o := range s.Current().Options {
		if o.ID == optionID {
			s.selected = optionID
			s.freeText = ""
			return nil
		}
	}
	return fmt.Errorf("%w %q for question %d", ErrUnknownOption, optionID, s.Current().ID)
}

// SetFreeText records a typed answer and clears any selected option.
func (s *Session) SetFreeText(text string) error {
	if s.state != stateActive {
		return ErrSessionClosed
	}
	s.freeText = text
	s.selected = ""
	return nil
}

// Answered reports whether the current question has exactly one usable answer.
func (s *Session) Answered() bool {
	return s.selected != "" || strings.TrimSpace(s.freeText) != ""
}

// Advance records the current answer. It returns done=false after moving to the
// next question, and done=true with the full ordered answer list after the last one.
func (s *Session) Advance() (answers []models.QuizAnswer, done bool, err error) {
	if s.state != stateActive {
		return nil, false, ErrSessionClosed
	}
	if !s.Answered() {
		return nil, false, ErrUnanswered
	}

	q := s.Current()
	s.answers = append(s.answers, models.QuizAnswer{Question: q.Text, Answer: s.answerText(q)})
	s.selected, s.freeText = "", ""

	if s.index == len(s.category.Questions)-1 {
		s.state = stateCompleted
		out := make([]models.QuizAnswer, len(s.answers))
		copy(out, s.answers)
		return out, true, nil
	}
	s.index++
	return nil, false, nil
}

// Cancel discards the session and everything recorded so far.
func (s *Session) Cancel() {
	s.state = stateCancelled
	s.answers = nil
	s.selected, s.freeText = "", ""
}

func (s *Session) answerText(q Question) string {
	if s.selected != "" {
		for _, o := range q.Options {
			if o.ID == s.selected {
				return o.Text
			}
		}
	}
	return strings.TrimSpace(s.freeText)
}

// Replay walks a whole category with one response per question and returns the
// ordered answers. Each response must carry either an option id or free text.
func Replay(c Category, responses []models.QuizResponse) ([]models.QuizAnswer, error) {
	if len(responses) != len(c.Questions) {
		return nil, models.Invalid(fmt.Sprintf("expected %d responses, got %d", len(c.Questions), len(responses)))
	}

	s, err := Start(c)
	if err != nil {
		return nil, models.Invalid(err.Error())
	}

	for i, r := range responses {
		hasOption := r.OptionID != ""
		hasText := strings.TrimSpace(r.FreeText) != ""
		switch {
		case hasOption && hasText:
			return nil, models.Invalid(fmt.Sprintf("response %d: choose an option or write an answer, not both", i+1))
		case hasOption:
			if err := s.SelectOption(r.OptionID); err != nil {
				return nil, models.Invalid(fmt.Sprintf("response %d: %v", i+1, err))
			}
		case hasText:
			if len([]rune(r.FreeText)) > MaxFreeTextLength {
				return nil, models.Invalid(fmt.Sprintf("response %d: answer is longer than %d characters", i+1, MaxFreeTextLength))
			}
			if err := s.SetFreeText(r.FreeText); err != nil {
				return nil, models.Invalid(err.Error())
			}
		}

		answers, done, err := s.Advance()
		if err != nil {
			return nil, models.Invalid(fmt.Sprintf("response %d: %v", i+1, err))
		}
		if done {
			return answers, nil
		}
	}
	return nil, models.Invalid("quiz did not complete")
}
