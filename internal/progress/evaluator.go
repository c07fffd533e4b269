package progress

import "dvg-portal/internal/domain"

// Evaluator is a stateless rule set over a fixed badge catalog. Evaluation is
// pure and idempotent; the same stats always yield the same set.
type Evaluator struct {
	badges []domain.Badge
}

func NewEvaluator(badges []domain.Badge) *Evaluator {
	return &Evaluator{badges: badges}
}

// Evaluate returns the ids of every badge whose condition holds for stats,
// in catalog declaration order.
func (e *Evaluator) Evaluate(stats domain.UserStats) []string {
	ids := make([]string, 0, len(e.badges))
	for _, badge := range e.badges {
		if badge.Condition != nil && badge.Condition(stats) {
			ids = append(ids, badge.ID)
		}
	}
	return ids
}

// NewlyUnlocked returns the badges satisfied by stats that are not yet in
// stats.BadgesEarned. Declaration order decides which unlock is shown first.
func (e *Evaluator) NewlyUnlocked(stats domain.UserStats) []domain.Badge {
	var unlocked []domain.Badge
	for _, badge := range e.badges {
		if stats.HasBadge(badge.ID) {
			continue
		}
		if badge.Condition != nil && badge.Condition(stats) {
			unlocked = append(unlocked, badge)
		}
	}
	return unlocked
}
