// Package progress owns the pure XP/streak/badge state machine that both the
// quiz and the arcade mini-game feed into. It performs no I/O; persistence is
// the caller's concern.
package progress

import (
	"time"

	"dvg-portal/internal/domain"
)

const dateLayout = "2006-01-02"

// Ledger tracks one user's progress for the lifetime of an authenticated
// session. It is owned and mutated by a single caller; no ambient state.
type Ledger struct {
	stats     domain.UserStats
	evaluator *Evaluator
	now       func() time.Time
}

// Option customizes a Ledger.
type Option func(*Ledger)

// WithClock injects a deterministic clock for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// NewLedger builds a ledger around an initial stats record and a badge catalog.
func NewLedger(stats domain.UserStats, badges []domain.Badge, opts ...Option) *Ledger {
	l := &Ledger{
		stats:     stats.Clone(),
		evaluator: NewEvaluator(badges),
		now:       time.Now,
	}
	if l.stats.SubjectProgress == nil {
		l.stats.SubjectProgress = make(map[domain.Subject]int)
	}
	l.stats.Level = domain.Level(l.stats.XP)
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Stats returns a copy of the current progress record.
func (l *Ledger) Stats() domain.UserStats {
	return l.stats.Clone()
}

// ApplyAnswer merges one answer event into the stats and returns any badges
// unlocked by it. Multiple badges unlocked by the same answer are added
// together, in catalog order.
func (l *Ledger) ApplyAnswer(correct bool, xpAward int, subject domain.Subject) []domain.Badge {
	if correct {
		l.stats.XP += xpAward
		l.stats.CorrectAnswers++
		l.stats.SubjectProgress[subject]++
	}
	l.stats.TotalAnswers++
	l.stats.Level = domain.Level(l.stats.XP)
	l.stats.LastPlayedDate = l.today()

	unlocked := l.evaluator.NewlyUnlocked(l.stats)
	for _, badge := range unlocked {
		l.stats.BadgesEarned = append(l.stats.BadgesEarned, badge.ID)
	}
	return unlocked
}

// ApplyGameResult records an arcade play. Game results carry their own score
// currency and are persisted separately; they do not feed quiz XP, but they do
// count as activity for the daily streak.
func (l *Ledger) ApplyGameResult(_ domain.GameResult) []domain.Badge {
	l.stats.LastPlayedDate = l.today()

	unlocked := l.evaluator.NewlyUnlocked(l.stats)
	for _, badge := range unlocked {
		l.stats.BadgesEarned = append(l.stats.BadgesEarned, badge.ID)
	}
	return unlocked
}

// RolloverStreak applies the daily streak rule once per session load:
// played yesterday extends the streak, a missed day resets it, same-day
// replay is a no-op. Reports whether the streak changed.
func (l *Ledger) RolloverStreak() bool {
	last := l.stats.LastPlayedDate
	switch {
	case last == l.yesterday():
		l.stats.Streak++
		return true
	case last != "" && last != l.today():
		changed := l.stats.Streak != 0
		l.stats.Streak = 0
		return changed
	default:
		return false
	}
}

func (l *Ledger) today() string {
	return l.now().Format(dateLayout)
}

func (l *Ledger) yesterday() string {
	return l.now().AddDate(0, 0, -1).Format(dateLayout)
}

// Reconcile merges a locally cached stats record with the remote row on
// session start. Local mutation is optimistic and remote writes are
// best-effort, so the record with more XP wins outright.
func Reconcile(local, remote domain.UserStats) domain.UserStats {
	if local.XP >= remote.XP {
		return local.Clone()
	}
	return remote.Clone()
}
