// Package dashboard builds the display-ready aggregate behind the portal's
// home, schedule, meal and profile pages. The builder is a pure transform of
// (profile, stats); fixture content stands in for school systems that are not
// integrated yet.
package dashboard

import (
	"fmt"
	"sort"

	"dvg-portal/internal/catalog"
	"dvg-portal/internal/domain"
)

// Profile is the identity slice of the summary.
type Profile struct {
	ID           string   `json:"id"`
	FullName     string   `json:"fullName"`
	Username     string   `json:"username"`
	ClassName    string   `json:"className"`
	School       string   `json:"school"`
	StudentID    string   `json:"studentId"`
	Email        string   `json:"email"`
	StatusBadges []string `json:"statusBadges"`
}

// SubjectProgress is the per-subject card on the dashboard.
type SubjectProgress struct {
	Subject         domain.Subject `json:"subject"`
	Name            string         `json:"name"`
	Icon            string         `json:"icon"`
	Color           string         `json:"color"`
	TotalQuestions  int            `json:"totalQuestions"`
	CorrectAnswers  int            `json:"correctAnswers"`
	ProgressPercent int            `json:"progressPercent"`
	Difficulty      string         `json:"difficulty"`
}

// AchievementCard is an earned badge rendered on the achievements page.
type AchievementCard struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Notification is one row in the notifications feed.
type Notification struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	TimeLabel string `json:"timeLabel"`
	Type      string `json:"type"` // school | platform | deadline
	Unread    bool   `json:"unread"`
}

// ScheduleLesson is one row of the day's schedule.
type ScheduleLesson struct {
	ID       string `json:"id"`
	Subject  string `json:"subject"`
	Teacher  string `json:"teacher"`
	Room     string `json:"room"`
	StartsAt string `json:"startsAt"`
	EndsAt   string `json:"endsAt"`
	Current  bool   `json:"current"`
	Next     bool   `json:"next"`
}

// MealAccount is the meal-voucher balance widget.
type MealAccount struct {
	BalanceCents int               `json:"balanceCents"`
	VoucherCount int               `json:"voucherCount"`
	Currency     string            `json:"currency"`
	TodayStatus  string            `json:"todayStatus"`
	LowBalance   bool              `json:"lowBalance"`
	Transactions []MealTransaction `json:"transactions"`
}

// MealTransaction is one row of the meal-account statement.
type MealTransaction struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	AmountCents int    `json:"amountCents"`
	DateLabel   string `json:"dateLabel"`
}

// WeeklyGoal tracks the training-sessions-per-week target.
type WeeklyGoal struct {
	CompletedSessions int `json:"completedSessions"`
	TargetSessions    int `json:"targetSessions"`
}

// Summary is the whole dashboard aggregate for one student.
type Summary struct {
	Profile              Profile           `json:"profile"`
	Stats                domain.UserStats  `json:"stats"`
	LevelProgressPercent int               `json:"levelProgressPercent"`
	Subjects             []SubjectProgress `json:"subjects"`
	Recommendations      []SubjectProgress `json:"recommendations"`
	Achievements         []AchievementCard `json:"achievements"`
	Notifications        []Notification    `json:"notifications"`
	Schedule             []ScheduleLesson  `json:"schedule"`
	MealAccount          MealAccount       `json:"mealAccount"`
	WeeklyGoal           WeeklyGoal        `json:"weeklyGoal"`
}

// BuildSummary assembles the dashboard aggregate from the authenticated
// profile and the current progress record.
func BuildSummary(profile Profile, stats domain.UserStats) Summary {
	subjects := subjectProgress(stats)

	recommendations := append([]SubjectProgress(nil), subjects...)
	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].ProgressPercent < recommendations[j].ProgressPercent
	})
	if len(recommendations) > 3 {
		recommendations = recommendations[:3]
	}

	return Summary{
		Profile:              profile,
		Stats:                stats,
		LevelProgressPercent: domain.LevelProgressPercent(stats.XP),
		Subjects:             subjects,
		Recommendations:      recommendations,
		Achievements:         achievements(stats),
		Notifications:        fixtureNotifications(),
		Schedule:             fixtureSchedule(),
		MealAccount: MealAccount{
			BalanceCents: 420,
			VoucherCount: 2,
			Currency:     "EUR",
			TodayStatus:  "Pieejams",
			LowBalance:   true,
			Transactions: []MealTransaction{
				{ID: "t1", Description: "Pusdienas", AmountCents: -280, DateLabel: "Šodien"},
				{ID: "t2", Description: "Pusdienas", AmountCents: -280, DateLabel: "Vakar"},
				{ID: "t3", Description: "Konta papildinājums", AmountCents: 1000, DateLabel: "Pirmdien"},
			},
		},
		WeeklyGoal: WeeklyGoal{CompletedSessions: 3, TargetSessions: 5},
	}
}

func subjectProgress(stats domain.UserStats) []SubjectProgress {
	out := make([]SubjectProgress, 0, len(domain.Subjects))
	for _, subject := range domain.Subjects {
		meta := catalog.SubjectInfo[subject]
		total := len(catalog.QuestionsForSubject(subject))
		correct := stats.SubjectProgress[subject]
		percent := 0
		if total > 0 {
			percent = correct * 100 / total
			if percent > 100 {
				percent = 100
			}
		}
		out = append(out, SubjectProgress{
			Subject:         subject,
			Name:            meta.Name,
			Icon:            meta.Icon,
			Color:           meta.Color,
			TotalQuestions:  total,
			CorrectAnswers:  correct,
			ProgressPercent: percent,
			Difficulty:      difficultyLabel(percent),
		})
	}
	return out
}

func difficultyLabel(progressPercent int) string {
	switch {
	case progressPercent > 70:
		return "Sarežģīti"
	case progressPercent > 35:
		return "Vidēji"
	default:
		return "Viegli"
	}
}

func achievements(stats domain.UserStats) []AchievementCard {
	cards := make([]AchievementCard, 0, 4)
	for _, badge := range catalog.Badges {
		if !stats.HasBadge(badge.ID) {
			continue
		}
		cards = append(cards, AchievementCard{
			ID:          badge.ID,
			Title:       badge.Name,
			Description: badge.Description,
			Icon:        badge.Icon,
		})
		if len(cards) == 4 {
			break
		}
	}
	return cards
}

func fixtureNotifications() []Notification {
	return []Notification{
		{ID: "n1", Title: "Skolas paziņojums", Message: "Rīt sporta stundā nepieciešams sporta tērps.", TimeLabel: "pirms 20 min", Type: "school", Unread: true},
		{ID: "n2", Title: "Platformas jaunums", Message: "Pievienoti jauni matemātikas uzdevumi.", TimeLabel: "pirms 2 h", Type: "platform"},
		{ID: "n3", Title: "Termiņš", Message: "Latviešu valodas eseja līdz piektdienai 18:00.", TimeLabel: "vakar", Type: "deadline", Unread: true},
	}
}

func fixtureSchedule() []ScheduleLesson {
	return []ScheduleLesson{
		{ID: "l1", Subject: "Matemātika", Teacher: "A. Ozoliņa", Room: "213", StartsAt: "08:30", EndsAt: "09:10", Current: true},
		{ID: "l2", Subject: "Angļu valoda", Teacher: "J. Kalniņš", Room: "305", StartsAt: "09:20", EndsAt: "10:00", Next: true},
		{ID: "l3", Subject: "Vēsture", Teacher: "L. Bērziņš", Room: "112", StartsAt: "10:20", EndsAt: "11:00"},
	}
}

// MaskStudentID renders the short anonymized id shown on the profile card.
func MaskStudentID(userID string) string {
	if len(userID) < 6 {
		return userID
	}
	return fmt.Sprintf("%s•••%s", userID[:4], userID[len(userID)-2:])
}
