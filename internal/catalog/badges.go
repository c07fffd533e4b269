package catalog

import "dvg-portal/internal/domain"

// Badges is the static achievement catalog. Declaration order doubles as the
// tie-break for which newly unlocked badge is shown first, so new badges are
// appended, never reordered.
var Badges = []domain.Badge{
	{
		ID:          "first_answer",
		Name:        "Pirmais solis",
		Description: "Atbildi uz pirmo jautājumu",
		Icon:        "🌱",
		Condition:   func(s domain.UserStats) bool { return s.TotalAnswers >= 1 },
	},
	{
		ID:          "streak_3",
		Name:        "Karstā sērija",
		Description: "3 dienas pēc kārtas",
		Icon:        "🔥",
		Condition:   func(s domain.UserStats) bool { return s.Streak >= 3 },
	},
	{
		ID:          "streak_7",
		Name:        "Nedēļas varonis",
		Description: "7 dienas pēc kārtas",
		Icon:        "⚡",
		Condition:   func(s domain.UserStats) bool { return s.Streak >= 7 },
	},
	{
		ID:          "level_5",
		Name:        "Pieredzējis",
		Description: "Sasniedz 5. līmeni",
		Icon:        "⭐",
		Condition:   func(s domain.UserStats) bool { return s.Level >= 5 },
	},
	{
		ID:          "level_10",
		Name:        "Eksperts",
		Description: "Sasniedz 10. līmeni",
		Icon:        "👑",
		Condition:   func(s domain.UserStats) bool { return s.Level >= 10 },
	},
	{
		ID:          "correct_50",
		Name:        "Zināšanu kalns",
		Description: "50 pareizas atbildes",
		Icon:        "🏔️",
		Condition:   func(s domain.UserStats) bool { return s.CorrectAnswers >= 50 },
	},
	{
		ID:          "correct_100",
		Name:        "Simtnieks",
		Description: "100 pareizas atbildes",
		Icon:        "💯",
		Condition:   func(s domain.UserStats) bool { return s.CorrectAnswers >= 100 },
	},
	{
		ID:          "all_subjects",
		Name:        "Universāls",
		Description: "Spēlē visus 4 priekšmetus",
		Icon:        "🌈",
		Condition: func(s domain.UserStats) bool {
			for _, subject := range domain.Subjects {
				if s.SubjectProgress[subject] == 0 {
					return false
				}
			}
			return true
		},
	},
}

// BadgeByID looks a badge up in the catalog.
func BadgeByID(id string) (domain.Badge, bool) {
	for _, b := range Badges {
		if b.ID == id {
			return b, true
		}
	}
	return domain.Badge{}, false
}
