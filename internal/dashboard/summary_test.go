package dashboard_test

import (
	"testing"

	"dvg-portal/internal/dashboard"
	"dvg-portal/internal/domain"
)

func TestRecommendationsAreWeakestSubjects(t *testing.T) {
	stats := domain.NewUserStats()
	stats.SubjectProgress[domain.SubjectMath] = 6    // 100%
	stats.SubjectProgress[domain.SubjectEnglish] = 3 // 50%
	stats.SubjectProgress[domain.SubjectLatvian] = 1 // 16%
	stats.SubjectProgress[domain.SubjectSocial] = 0  // 0%

	summary := dashboard.BuildSummary(dashboard.Profile{ID: "u1"}, stats)

	if len(summary.Recommendations) != 3 {
		t.Fatalf("expected 3 recommendations, got %d", len(summary.Recommendations))
	}
	if summary.Recommendations[0].Subject != domain.SubjectSocial {
		t.Fatalf("weakest subject must come first, got %s", summary.Recommendations[0].Subject)
	}
	for _, rec := range summary.Recommendations {
		if rec.Subject == domain.SubjectMath {
			t.Fatalf("completed subject must not be recommended")
		}
	}
}

func TestLevelProgressPercent(t *testing.T) {
	stats := domain.NewUserStats()
	stats.XP = 750
	summary := dashboard.BuildSummary(dashboard.Profile{}, stats)
	if summary.LevelProgressPercent != 50 {
		t.Fatalf("750 xp is halfway through level 2, got %d%%", summary.LevelProgressPercent)
	}
}

func TestAchievementsLimitedToFour(t *testing.T) {
	stats := domain.NewUserStats()
	stats.BadgesEarned = []string{"first_answer", "streak_3", "streak_7", "level_5", "level_10"}

	summary := dashboard.BuildSummary(dashboard.Profile{}, stats)
	if len(summary.Achievements) != 4 {
		t.Fatalf("expected at most 4 achievement cards, got %d", len(summary.Achievements))
	}
	if summary.Achievements[0].ID != "first_answer" {
		t.Fatalf("achievements must follow catalog order, got %s", summary.Achievements[0].ID)
	}
}

func TestMaskStudentID(t *testing.T) {
	if got := dashboard.MaskStudentID("0b9f1c2d-e3a4"); got != "0b9f•••a4" {
		t.Fatalf("unexpected mask: %q", got)
	}
	if got := dashboard.MaskStudentID("abc"); got != "abc" {
		t.Fatalf("short ids pass through, got %q", got)
	}
}
