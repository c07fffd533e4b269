package quiz_test

import (
	"math/rand"
	"testing"

	"dvg-portal/internal/catalog"
	"dvg-portal/internal/domain"
	"dvg-portal/internal/quiz"
)

func newMathSession(t *testing.T, onAnswer quiz.AnswerFunc) *quiz.Session {
	t.Helper()
	pool := catalog.QuestionsForSubject(domain.SubjectMath)
	return quiz.NewSession(domain.SubjectMath, pool, onAnswer, quiz.WithRand(rand.New(rand.NewSource(1))))
}

func TestDrawsSixDistinctQuestions(t *testing.T) {
	session := newMathSession(t, nil)

	if session.State() != quiz.StateInProgress {
		t.Fatalf("expected in_progress, got %s", session.State())
	}
	seen := make(map[int]bool)
	for {
		q, ok := session.CurrentQuestion()
		if !ok {
			t.Fatalf("expected a current question")
		}
		if seen[q.ID] {
			t.Fatalf("question %d drawn twice", q.ID)
		}
		seen[q.ID] = true
		if _, accepted := session.SelectAnswer(0); !accepted {
			t.Fatalf("answer rejected")
		}
		if _, done := session.Advance(); done {
			break
		}
	}
	if len(seen) != 6 {
		t.Fatalf("expected 6 distinct questions, got %d", len(seen))
	}
}

func TestSelectAnswerIdempotentGuard(t *testing.T) {
	calls := 0
	session := newMathSession(t, func(bool, int, domain.Subject) { calls++ })

	q, _ := session.CurrentQuestion()
	correct, accepted := session.SelectAnswer(q.Correct)
	if !accepted || !correct {
		t.Fatalf("expected accepted correct answer")
	}
	if _, accepted := session.SelectAnswer(q.Correct); accepted {
		t.Fatalf("second select for same question must be ignored")
	}
	if calls != 1 {
		t.Fatalf("expected one answer notification, got %d", calls)
	}
}

func TestAdvanceRequiresAnswer(t *testing.T) {
	session := newMathSession(t, nil)

	if _, done := session.Advance(); done {
		t.Fatalf("advance before answering must be rejected")
	}
	if cur, _ := session.Position(); cur != 0 {
		t.Fatalf("position moved without an answer")
	}
}

func TestFinishAndPercent(t *testing.T) {
	session := newMathSession(t, nil)

	// Answer every question correctly except the last one.
	for i := 0; i < 6; i++ {
		q, _ := session.CurrentQuestion()
		pick := q.Correct
		if i == 5 {
			pick = (q.Correct + 1) % len(q.Options)
		}
		session.SelectAnswer(pick)
		result, done := session.Advance()
		if i < 5 && done {
			t.Fatalf("finished early at question %d", i)
		}
		if i == 5 {
			if !done {
				t.Fatalf("expected session to finish")
			}
			if result.Score != 5 || result.Percent != 83 {
				t.Fatalf("expected 5/6 = 83%%, got %+v", result)
			}
		}
	}
	if session.State() != quiz.StateFinished {
		t.Fatalf("expected finished state")
	}
}

func TestRestartOnlyFromFinished(t *testing.T) {
	session := newMathSession(t, nil)

	if session.Restart() {
		t.Fatalf("restart must be rejected while in progress")
	}
	for {
		session.SelectAnswer(0)
		if _, done := session.Advance(); done {
			break
		}
	}
	if !session.Restart() {
		t.Fatalf("restart from finished must succeed")
	}
	if session.State() != quiz.StateInProgress {
		t.Fatalf("expected in_progress after restart")
	}
	if result := session.Result(); result.Score != 0 || result.EarnedXP != 0 {
		t.Fatalf("restart must reset counters, got %+v", result)
	}
}

func TestEmptySubjectStaysLoading(t *testing.T) {
	session := quiz.NewSession(domain.SubjectMath, nil, nil)
	if session.State() != quiz.StateLoading {
		t.Fatalf("empty pool must stay in loading, got %s", session.State())
	}
	if _, ok := session.CurrentQuestion(); ok {
		t.Fatalf("no question should be presented")
	}
	if _, accepted := session.SelectAnswer(0); accepted {
		t.Fatalf("answers must be rejected in loading state")
	}
}
