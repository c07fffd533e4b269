package progress_test

import (
	"reflect"
	"testing"

	"dvg-portal/internal/catalog"
	"dvg-portal/internal/domain"
	"dvg-portal/internal/progress"
)

func TestEvaluateIsIdempotent(t *testing.T) {
	stats := domain.NewUserStats()
	stats.XP = 2600 // level 6
	stats.Level = domain.Level(stats.XP)
	stats.Streak = 7
	stats.CorrectAnswers = 55
	stats.TotalAnswers = 70

	eval := progress.NewEvaluator(catalog.Badges)
	first := eval.Evaluate(stats)
	second := eval.Evaluate(stats)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("evaluate not idempotent: %v vs %v", first, second)
	}

	want := []string{"first_answer", "streak_3", "streak_7", "level_5", "correct_50"}
	if !reflect.DeepEqual(first, want) {
		t.Fatalf("evaluate = %v, want %v", first, want)
	}
}

func TestAllSubjectsBadge(t *testing.T) {
	stats := domain.NewUserStats()
	for _, subject := range domain.Subjects {
		stats.SubjectProgress[subject] = 1
	}
	stats.TotalAnswers = 4
	stats.CorrectAnswers = 4

	eval := progress.NewEvaluator(catalog.Badges)
	ids := eval.Evaluate(stats)
	found := false
	for _, id := range ids {
		if id == "all_subjects" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected all_subjects in %v", ids)
	}

	// One untouched subject blocks the badge.
	stats.SubjectProgress[domain.SubjectSocial] = 0
	for _, id := range eval.Evaluate(stats) {
		if id == "all_subjects" {
			t.Fatalf("all_subjects must require every subject")
		}
	}
}

func TestNewlyUnlockedSkipsEarned(t *testing.T) {
	stats := domain.NewUserStats()
	stats.TotalAnswers = 1
	stats.BadgesEarned = []string{"first_answer"}

	eval := progress.NewEvaluator(catalog.Badges)
	if unlocked := eval.NewlyUnlocked(stats); len(unlocked) != 0 {
		t.Fatalf("expected no new unlocks, got %+v", unlocked)
	}
}
