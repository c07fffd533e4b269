// Package quiz implements the per-subject quiz session: a small state machine
// that draws a random subset of catalog questions, scores answers and reports
// them to the progress ledger through a caller-supplied callback.
package quiz

import (
	"math/rand"
	"time"

	"dvg-portal/internal/domain"
)

// DrawSize is the most questions one session presents.
const DrawSize = 6

// State is the session lifecycle.
type State string

const (
	StateLoading    State = "loading"
	StateInProgress State = "in_progress"
	StateFinished   State = "finished"
)

// AnswerFunc receives every scored answer. It is a one-way notification; the
// session never reads progress state back.
type AnswerFunc func(correct bool, xpAward int, subject domain.Subject)

// Result is the summary shown when the last question has been answered.
type Result struct {
	Score     int `json:"score"`
	Questions int `json:"questions"`
	Percent   int `json:"percent"`
	EarnedXP  int `json:"earnedXp"`
}

// Session runs one quiz for one subject.
type Session struct {
	subject   domain.Subject
	pool      []domain.QuizQuestion
	questions []domain.QuizQuestion
	onAnswer  AnswerFunc
	rnd       *rand.Rand

	state    State
	current  int
	answered bool
	selected int
	score    int
	earnedXP int
}

// Option customizes a Session.
type Option func(*Session)

// WithRand injects a deterministic random source for tests.
func WithRand(rnd *rand.Rand) Option {
	return func(s *Session) { s.rnd = rnd }
}

// NewSession draws min(DrawSize, len(pool)) questions without replacement and
// enters InProgress. A subject with an empty pool stays in Loading forever
// rather than risking a divide by zero at completion time.
func NewSession(subject domain.Subject, pool []domain.QuizQuestion, onAnswer AnswerFunc, opts ...Option) *Session {
	s := &Session{
		subject:  subject,
		pool:     pool,
		onAnswer: onAnswer,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
		state:    StateLoading,
		selected: -1,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.draw()
	return s
}

func (s *Session) draw() {
	if len(s.pool) == 0 {
		return
	}
	shuffled := append([]domain.QuizQuestion(nil), s.pool...)
	s.rnd.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	n := DrawSize
	if len(shuffled) < n {
		n = len(shuffled)
	}
	s.questions = shuffled[:n]
	s.state = StateInProgress
	s.current = 0
	s.answered = false
	s.selected = -1
	s.score = 0
	s.earnedXP = 0
}

// State reports the session lifecycle state.
func (s *Session) State() State {
	return s.state
}

// CurrentQuestion returns the question being presented, if any.
func (s *Session) CurrentQuestion() (domain.QuizQuestion, bool) {
	if s.state != StateInProgress {
		return domain.QuizQuestion{}, false
	}
	return s.questions[s.current], true
}

// Position reports the 0-based question index and the draw size.
func (s *Session) Position() (current, total int) {
	return s.current, len(s.questions)
}

// SelectAnswer scores an option for the current question. Repeat calls for the
// same question are ignored, as are calls outside InProgress. Reports whether
// the pick was correct and whether it was accepted.
func (s *Session) SelectAnswer(optionIndex int) (correct, accepted bool) {
	if s.state != StateInProgress || s.answered {
		return false, false
	}
	question := s.questions[s.current]
	if optionIndex < 0 || optionIndex >= len(question.Options) {
		return false, false
	}

	s.answered = true
	s.selected = optionIndex
	correct = optionIndex == question.Correct
	if correct {
		s.score++
		s.earnedXP += question.XP
	}
	if s.onAnswer != nil {
		s.onAnswer(correct, question.XP, s.subject)
	}
	return correct, true
}

// Selected returns the option picked for the current question, or -1.
func (s *Session) Selected() int {
	return s.selected
}

// Advance moves past an answered question. On the last question it finishes
// the session and returns the final result.
func (s *Session) Advance() (Result, bool) {
	if s.state != StateInProgress || !s.answered {
		return Result{}, false
	}
	if s.current+1 < len(s.questions) {
		s.current++
		s.answered = false
		s.selected = -1
		return Result{}, false
	}
	s.state = StateFinished
	return s.Result(), true
}

// Result computes the completion summary. Percent uses round-half-up.
func (s *Session) Result() Result {
	n := len(s.questions)
	percent := 0
	if n > 0 {
		percent = (s.score*100 + n/2) / n
	}
	return Result{Score: s.score, Questions: n, Percent: percent, EarnedXP: s.earnedXP}
}

// Restart redraws a fresh random subset and re-enters InProgress. Only valid
// from Finished.
func (s *Session) Restart() bool {
	if s.state != StateFinished {
		return false
	}
	s.draw()
	return true
}
