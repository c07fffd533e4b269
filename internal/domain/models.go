package domain

import "time"

// Subject identifies one of the portal's study subjects.
type Subject string

const (
	SubjectEnglish Subject = "english"
	SubjectLatvian Subject = "latvian"
	SubjectMath    Subject = "math"
	SubjectSocial  Subject = "social"
)

// Subjects lists every study subject in display order.
var Subjects = []Subject{SubjectEnglish, SubjectLatvian, SubjectMath, SubjectSocial}

// Difficulty tiers a question as easy, medium or hard.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// XPPerLevel is how much XP a level spans. Level is always derived from XP,
// never stored as an independent source of truth.
const XPPerLevel = 500

// Level derives the level for an XP total.
func Level(xp int) int {
	return xp/XPPerLevel + 1
}

// LevelProgressPercent reports how far into the current level an XP total is.
func LevelProgressPercent(xp int) int {
	return (xp % XPPerLevel) * 100 / XPPerLevel
}

// UserStats is the per-user progress record mutated by the ledger.
type UserStats struct {
	XP              int             `json:"xp"`
	Level           int             `json:"level"`
	Streak          int             `json:"streak"`
	CorrectAnswers  int             `json:"correctAnswers"`
	TotalAnswers    int             `json:"totalAnswers"`
	BadgesEarned    []string        `json:"badgesEarned"`
	SubjectProgress map[Subject]int `json:"subjectProgress"`
	LastPlayedDate  string          `json:"lastPlayedDate"` // YYYY-MM-DD, empty until first answer
}

// NewUserStats returns the zero progress record with every subject counter present.
func NewUserStats() UserStats {
	progress := make(map[Subject]int, len(Subjects))
	for _, s := range Subjects {
		progress[s] = 0
	}
	return UserStats{Level: 1, BadgesEarned: []string{}, SubjectProgress: progress}
}

// HasBadge reports whether a badge id has already been earned.
func (s UserStats) HasBadge(id string) bool {
	for _, earned := range s.BadgesEarned {
		if earned == id {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers cannot mutate ledger-owned state.
func (s UserStats) Clone() UserStats {
	out := s
	out.BadgesEarned = append([]string(nil), s.BadgesEarned...)
	out.SubjectProgress = make(map[Subject]int, len(s.SubjectProgress))
	for subject, count := range s.SubjectProgress {
		out.SubjectProgress[subject] = count
	}
	return out
}

// Badge is a permanently unlockable achievement. Condition must be a pure
// predicate over UserStats; evaluation follows catalog declaration order.
type Badge struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Icon        string               `json:"icon"`
	Condition   func(UserStats) bool `json:"-"`
}

// QuizQuestion is an immutable multiple-choice question with exactly one
// correct option out of four.
type QuizQuestion struct {
	ID         int        `json:"id"`
	Subject    Subject    `json:"subject"`
	Prompt     string     `json:"prompt"`
	Options    []string   `json:"options"`
	Correct    int        `json:"correct"`
	XP         int        `json:"xp"`
	Difficulty Difficulty `json:"difficulty"`
}

// LearningRound is one timed arcade segment with its own prompt and item pools.
type LearningRound struct {
	Prompt        string   `json:"prompt"`
	CorrectItems  []string `json:"correctItems"`
	WrongItems    []string `json:"wrongItems"`
	TargetCorrect int      `json:"targetCorrect"`
}

// GameSubject groups the arcade rounds for one subject-specific mini-game.
type GameSubject struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	GameKey     string          `json:"gameKey"`
	Rounds      []LearningRound `json:"rounds"`
}

// FallingItem is a single live item in the arcade playfield.
type FallingItem struct {
	ID      int     `json:"id"`
	Lane    int     `json:"lane"`
	Y       float64 `json:"y"`
	Speed   float64 `json:"speed"`
	Label   string  `json:"label"`
	Correct bool    `json:"correct"`
}

// GameSnapshot is the read-only view of a running arcade game, safe to hand
// to rendering layers.
type GameSnapshot struct {
	Score         int           `json:"score"`
	Lives         int           `json:"lives"`
	Streak        int           `json:"streak"`
	RoundProgress int           `json:"roundProgress"`
	RoundIndex    int           `json:"roundIndex"`
	TotalRounds   int           `json:"totalRounds"`
	Prompt        string        `json:"prompt"`
	PlayerLane    int           `json:"playerLane"`
	Items         []FallingItem `json:"items"`
}

// GameResult summarizes one finished (or aborted) arcade session.
type GameResult struct {
	Score        int `json:"score"`
	Accuracy     int `json:"accuracy"`
	Streak       int `json:"streak"`
	LevelReached int `json:"levelReached"`
}

// GameResultRow is a persisted game result as read back from the row store.
type GameResultRow struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	GameKey      string    `json:"gameKey"`
	SubjectKey   string    `json:"subjectKey"`
	Score        int       `json:"score"`
	Accuracy     int       `json:"accuracy"`
	Streak       int       `json:"streak"`
	LevelReached int       `json:"levelReached"`
	CompletedAt  time.Time `json:"completedAt"`
}

// ProfilePatch is a partial profile-row update; nil fields are left untouched.
type ProfilePatch struct {
	XP              *int
	Streak          *int
	CorrectAnswers  *int
	TotalAnswers    *int
	BadgesEarned    []string
	SubjectProgress map[Subject]int
	LastPlayedDate  *string
}

// ApplyTo merges the patch into a stats record in place.
func (p ProfilePatch) ApplyTo(stats *UserStats) {
	if p.XP != nil {
		stats.XP = *p.XP
		stats.Level = Level(*p.XP)
	}
	if p.Streak != nil {
		stats.Streak = *p.Streak
	}
	if p.CorrectAnswers != nil {
		stats.CorrectAnswers = *p.CorrectAnswers
	}
	if p.TotalAnswers != nil {
		stats.TotalAnswers = *p.TotalAnswers
	}
	if p.BadgesEarned != nil {
		stats.BadgesEarned = append([]string(nil), p.BadgesEarned...)
	}
	if p.SubjectProgress != nil {
		stats.SubjectProgress = make(map[Subject]int, len(p.SubjectProgress))
		for subject, count := range p.SubjectProgress {
			stats.SubjectProgress[subject] = count
		}
	}
	if p.LastPlayedDate != nil {
		stats.LastPlayedDate = *p.LastPlayedDate
	}
}

// PatchFromStats builds a full-row patch mirroring every mutable field.
func PatchFromStats(stats UserStats) ProfilePatch {
	s := stats.Clone()
	return ProfilePatch{
		XP:              &s.XP,
		Streak:          &s.Streak,
		CorrectAnswers:  &s.CorrectAnswers,
		TotalAnswers:    &s.TotalAnswers,
		BadgesEarned:    s.BadgesEarned,
		SubjectProgress: s.SubjectProgress,
		LastPlayedDate:  &s.LastPlayedDate,
	}
}

// PlayerScore is the leaderboard write model for one player.
type PlayerScore struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	XP          int    `json:"xp"`
	Streak      int    `json:"streak"`
}

// LeaderboardEntry is a ranked snapshot row.
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	XP          int    `json:"xp"`
	Level       int    `json:"level"`
	Streak      int    `json:"streak"`
}

// Leaderboard is the ordered XP scoreboard across the whole portal.
type Leaderboard struct {
	Entries   []LeaderboardEntry `json:"entries"`
	UpdatedAt time.Time          `json:"updatedAt"`
}
