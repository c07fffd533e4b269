// Package app wires the portal's use cases together: it owns the live
// per-user sessions (progress ledger, quiz, arcade game), pushes progress to
// the stores and fans leaderboard updates out to subscribers.
package app

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"dvg-portal/internal/arcade"
	"dvg-portal/internal/catalog"
	"dvg-portal/internal/dashboard"
	"dvg-portal/internal/domain"
	"dvg-portal/internal/progress"
	"dvg-portal/internal/quiz"
)

// LeaderboardSize is how many entries the public scoreboard shows.
const LeaderboardSize = 20

// GameHistorySize caps how many past arcade results a user sees.
const GameHistorySize = 10

// ProfileStore persists per-user progress rows (in-memory, Postgres).
type ProfileStore interface {
	Get(ctx context.Context, userID string) (domain.UserStats, error)
	Upsert(ctx context.Context, userID string, patch domain.ProfilePatch) error
}

// GameResultStore persists finished arcade plays. Empty gameKey or subjectKey
// list filters match every row.
type GameResultStore interface {
	Insert(ctx context.Context, row domain.GameResultRow) error
	List(ctx context.Context, userID, gameKey, subjectKey string, limit int) ([]domain.GameResultRow, error)
}

// LeaderboardStore ranks players by XP (in-memory, Redis).
type LeaderboardStore interface {
	Upsert(ctx context.Context, score domain.PlayerScore) error
	Top(ctx context.Context, limit int) (domain.Leaderboard, error)
	Rank(ctx context.Context, userID string) (int, error)
}

// PortalService contains the portal use cases behind the WebSocket transport.
type PortalService struct {
	profiles ProfileStore
	results  GameResultStore
	board    LeaderboardStore
	hub      *hub
	logger   *log.Logger
	now      func() time.Time

	sessions *sessionRegistry
}

// Option customizes a PortalService.
type Option func(*PortalService)

// WithClock injects a deterministic clock for tests.
func WithClock(now func() time.Time) Option {
	return func(s *PortalService) { s.now = now }
}

// WithLogger overrides the destination for persistence-failure logs.
func WithLogger(logger *log.Logger) Option {
	return func(s *PortalService) { s.logger = logger }
}

func NewPortalService(profiles ProfileStore, results GameResultStore, board LeaderboardStore, opts ...Option) *PortalService {
	s := &PortalService{
		profiles: profiles,
		results:  results,
		board:    board,
		hub:      newHub(),
		logger:   log.Default(),
		now:      time.Now,
		sessions: newSessionRegistry(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AnswerOutcome is what one answer event produced.
type AnswerOutcome struct {
	Correct   bool
	Accepted  bool
	NewBadges []domain.Badge
	Stats     domain.UserStats
}

// LoadSession opens (or refreshes) a user's live session. The locally cached
// stats the client brings along are reconciled against the stored row, the
// daily streak rolls over once, and the merged record is written back. A
// failing profile store degrades to the local record instead of blocking
// sign-in.
func (s *PortalService) LoadSession(ctx context.Context, userID, displayName string, local domain.UserStats) (domain.UserStats, error) {
	remote, err := s.profiles.Get(ctx, userID)
	switch {
	case errors.Is(err, domain.ErrProfileNotFound):
		remote = domain.NewUserStats()
	case err != nil:
		s.logger.Printf("profile load for %s failed, continuing with local stats: %v", userID, err)
		remote = local
	}

	merged := progress.Reconcile(local, remote)
	ledger := progress.NewLedger(merged, catalog.Badges, progress.WithClock(s.now))
	ledger.RolloverStreak()
	stats := ledger.Stats()

	s.sessions.replace(userID, displayName, ledger)

	if err := s.profiles.Upsert(ctx, userID, domain.PatchFromStats(stats)); err != nil {
		s.logger.Printf("profile mirror write for %s failed: %v", userID, err)
	}
	s.publishScore(ctx, userID, displayName, stats)
	return stats, nil
}

// EndSession drops the user's live session, if any.
func (s *PortalService) EndSession(userID string) {
	s.sessions.drop(userID)
}

// Stats returns the current progress record of a live session.
func (s *PortalService) Stats(userID string) (domain.UserStats, error) {
	sess, ok := s.sessions.get(userID)
	if !ok {
		return domain.UserStats{}, domain.ErrNoActiveSession
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.ledger.Stats(), nil
}

// StartQuiz begins a quiz for a subject, replacing any quiz already running
// for the user.
func (s *PortalService) StartQuiz(_ context.Context, userID string, subject domain.Subject) (domain.QuizQuestion, error) {
	sess, ok := s.sessions.get(userID)
	if !ok {
		return domain.QuizQuestion{}, domain.ErrNoActiveSession
	}
	if _, known := catalog.SubjectInfo[subject]; !known {
		return domain.QuizQuestion{}, domain.ErrSubjectNotFound
	}
	pool := catalog.QuestionsForSubject(subject)
	if len(pool) == 0 {
		return domain.QuizQuestion{}, domain.ErrNoQuestions
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.quiz = quiz.NewSession(subject, pool, func(correct bool, xpAward int, subject domain.Subject) {
		sess.lastUnlocked = sess.ledger.ApplyAnswer(correct, xpAward, subject)
	})
	question, _ := sess.quiz.CurrentQuestion()
	return question, nil
}

// AnswerQuestion scores an option for the user's current quiz question,
// applies the progress rules and pushes the new XP total to the leaderboard.
// Persistence is fire-and-forget: a failing store is logged, never surfaced.
func (s *PortalService) AnswerQuestion(ctx context.Context, userID string, optionIndex int) (AnswerOutcome, error) {
	sess, ok := s.sessions.get(userID)
	if !ok {
		return AnswerOutcome{}, domain.ErrNoActiveSession
	}

	sess.mu.Lock()
	if sess.quiz == nil {
		sess.mu.Unlock()
		return AnswerOutcome{}, domain.ErrNoActiveSession
	}
	sess.lastUnlocked = nil
	correct, accepted := sess.quiz.SelectAnswer(optionIndex)
	outcome := AnswerOutcome{
		Correct:   correct,
		Accepted:  accepted,
		NewBadges: sess.lastUnlocked,
		Stats:     sess.ledger.Stats(),
	}
	displayName := sess.displayName
	sess.mu.Unlock()

	if accepted {
		s.persistStats(userID, outcome.Stats)
		s.publishScore(ctx, userID, displayName, outcome.Stats)
	}
	return outcome, nil
}

// AdvanceQuiz moves to the next question, or finishes the quiz on the last
// one.
func (s *PortalService) AdvanceQuiz(_ context.Context, userID string) (quiz.Result, bool, error) {
	sess, ok := s.sessions.get(userID)
	if !ok {
		return quiz.Result{}, false, domain.ErrNoActiveSession
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.quiz == nil {
		return quiz.Result{}, false, domain.ErrNoActiveSession
	}
	result, done := sess.quiz.Advance()
	return result, done, nil
}

// RestartQuiz redraws a finished quiz with a fresh question subset.
func (s *PortalService) RestartQuiz(_ context.Context, userID string) (domain.QuizQuestion, error) {
	sess, ok := s.sessions.get(userID)
	if !ok {
		return domain.QuizQuestion{}, domain.ErrNoActiveSession
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.quiz == nil || !sess.quiz.Restart() {
		return domain.QuizQuestion{}, domain.ErrNoActiveSession
	}
	question, _ := sess.quiz.CurrentQuestion()
	return question, nil
}

// CurrentQuestion reports the question being presented plus the position
// within the draw.
func (s *PortalService) CurrentQuestion(userID string) (domain.QuizQuestion, int, int, error) {
	sess, ok := s.sessions.get(userID)
	if !ok {
		return domain.QuizQuestion{}, 0, 0, domain.ErrNoActiveSession
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.quiz == nil {
		return domain.QuizQuestion{}, 0, 0, domain.ErrNoActiveSession
	}
	question, ok := sess.quiz.CurrentQuestion()
	if !ok {
		return domain.QuizQuestion{}, 0, 0, domain.ErrNoActiveSession
	}
	current, total := sess.quiz.Position()
	return question, current, total, nil
}

// StartArcade boots the falling-item game for a game subject, replacing any
// game already running for the user. Finished games persist their result
// automatically.
func (s *PortalService) StartArcade(_ context.Context, userID, gameSubjectID string) (domain.GameSnapshot, error) {
	sess, ok := s.sessions.get(userID)
	if !ok {
		return domain.GameSnapshot{}, domain.ErrNoActiveSession
	}
	subject, ok := catalog.GameSubjectByID(gameSubjectID)
	if !ok {
		return domain.GameSnapshot{}, domain.ErrSubjectNotFound
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.arcade = arcade.NewEngine(subject, func(result domain.GameResult) {
		// Runs inside ArcadeTick while sess.mu is held. The start context is
		// long gone by then, so the write gets its own deadline.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.saveResultLocked(ctx, sess, userID, subject, result)
	})
	sess.arcade.Start()
	return sess.arcade.Snapshot(), nil
}

// ArcadeMove shifts the player lane. dir is negative for left, positive for
// right.
func (s *PortalService) ArcadeMove(userID string, dir int) error {
	sess, ok := s.sessions.get(userID)
	if !ok {
		return domain.ErrNoActiveSession
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.arcade == nil {
		return domain.ErrNoActiveSession
	}
	if dir < 0 {
		sess.arcade.MoveLeft()
	} else if dir > 0 {
		sess.arcade.MoveRight()
	}
	return nil
}

// ArcadeTick advances the simulation and returns the snapshot to render.
func (s *PortalService) ArcadeTick(userID string, delta time.Duration) (domain.GameSnapshot, error) {
	sess, ok := s.sessions.get(userID)
	if !ok {
		return domain.GameSnapshot{}, domain.ErrNoActiveSession
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.arcade == nil {
		return domain.GameSnapshot{}, domain.ErrNoActiveSession
	}
	sess.arcade.Tick(delta)
	return sess.arcade.Snapshot(), nil
}

// ArcadeResult returns the final summary of the user's arcade game once it
// has finished.
func (s *PortalService) ArcadeResult(userID string) (domain.GameResult, bool, error) {
	sess, ok := s.sessions.get(userID)
	if !ok {
		return domain.GameResult{}, false, domain.ErrNoActiveSession
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.arcade == nil {
		return domain.GameResult{}, false, domain.ErrNoActiveSession
	}
	result, done := sess.arcade.Result()
	return result, done, nil
}

// SaveGameResult records a client-reported arcade result. It reports whether
// the row reached the store; an unsaved result is shown to the user but never
// retried.
func (s *PortalService) SaveGameResult(ctx context.Context, userID, gameSubjectID string, result domain.GameResult) (bool, error) {
	sess, ok := s.sessions.get(userID)
	if !ok {
		return false, domain.ErrNoActiveSession
	}
	subject, ok := catalog.GameSubjectByID(gameSubjectID)
	if !ok {
		return false, domain.ErrSubjectNotFound
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.saveResultLocked(ctx, sess, userID, subject, result), nil
}

// GameHistory lists the user's most recent arcade results, newest first,
// optionally narrowed to one game and subject.
func (s *PortalService) GameHistory(ctx context.Context, userID, gameKey, subjectKey string) ([]domain.GameResultRow, error) {
	return s.results.List(ctx, userID, gameKey, subjectKey, GameHistorySize)
}

// Dashboard assembles the display-ready aggregate for the signed-in user.
func (s *PortalService) Dashboard(userID string) (dashboard.Summary, error) {
	sess, ok := s.sessions.get(userID)
	if !ok {
		return dashboard.Summary{}, domain.ErrNoActiveSession
	}
	sess.mu.Lock()
	stats := sess.ledger.Stats()
	displayName := sess.displayName
	sess.mu.Unlock()

	profile := dashboard.Profile{
		ID:        userID,
		Username:  displayName,
		StudentID: dashboard.MaskStudentID(userID),
	}
	return dashboard.BuildSummary(profile, stats), nil
}

// Leaderboard returns the current public scoreboard.
func (s *PortalService) Leaderboard(ctx context.Context) (domain.Leaderboard, error) {
	return s.board.Top(ctx, LeaderboardSize)
}

// Subscribe returns a channel fed with leaderboard snapshots, seeded with the
// current one. The caller must invoke cancel to avoid leaks.
func (s *PortalService) Subscribe(ctx context.Context) (<-chan domain.Leaderboard, func(), error) {
	board, err := s.board.Top(ctx, LeaderboardSize)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := s.hub.subscribe(board)
	return ch, cancel, nil
}

// saveResultLocked persists a game result and folds the activity into the
// ledger. Must be called with sess.mu held.
func (s *PortalService) saveResultLocked(ctx context.Context, sess *userSession, userID string, subject domain.GameSubject, result domain.GameResult) bool {
	row := domain.GameResultRow{
		ID:           uuid.NewString(),
		UserID:       userID,
		GameKey:      subject.GameKey,
		SubjectKey:   subject.ID,
		Score:        result.Score,
		Accuracy:     result.Accuracy,
		Streak:       result.Streak,
		LevelReached: result.LevelReached,
		CompletedAt:  s.now().UTC(),
	}
	saved := true
	if err := s.results.Insert(ctx, row); err != nil {
		s.logger.Printf("game result write for %s failed: %v", userID, err)
		saved = false
	}
	sess.ledger.ApplyGameResult(result)
	s.persistStats(userID, sess.ledger.Stats())
	return saved
}

// persistStats mirrors the ledger to the profile store without blocking the
// caller. Lost writes are acceptable; the next session load reconciles.
func (s *PortalService) persistStats(userID string, stats domain.UserStats) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.profiles.Upsert(ctx, userID, domain.PatchFromStats(stats)); err != nil {
			s.logger.Printf("profile write for %s failed: %v", userID, err)
		}
	}()
}

// publishScore pushes the user's score to the leaderboard store and fans the
// refreshed board out to subscribers.
func (s *PortalService) publishScore(ctx context.Context, userID, displayName string, stats domain.UserStats) {
	err := s.board.Upsert(ctx, domain.PlayerScore{
		UserID:      userID,
		DisplayName: displayName,
		XP:          stats.XP,
		Streak:      stats.Streak,
	})
	if err != nil {
		s.logger.Printf("leaderboard write for %s failed: %v", userID, err)
		return
	}
	board, err := s.board.Top(ctx, LeaderboardSize)
	if err != nil {
		s.logger.Printf("leaderboard read failed: %v", err)
		return
	}
	s.hub.broadcast(board)
}
