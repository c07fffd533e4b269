// Package arcade implements the falling-item lane game as a headless,
// single-threaded simulation. The engine is a pure function of
// (state, tick delta, lane inputs); rendering and frame scheduling live
// entirely outside it.
package arcade

import (
	"math/rand"
	"time"

	"dvg-portal/internal/domain"
)

// Lanes is the number of vertical lanes in the playfield.
const Lanes = 3

const (
	spawnInterval = 850 * time.Millisecond
	roundDuration = 18 * time.Second

	fieldHeight   = 520.0
	spawnY        = -20.0
	playerOffsetY = 46.0 // player sits fieldHeight-playerOffsetY from the top
	catchAbove    = 18.0
	catchBelow    = 26.0
	despawnMargin = 40.0

	minFallSpeed    = 130.0 // units/second
	fallSpeedSpread = 90.0  // speed drawn uniformly from [130, 220)

	startingLives = 3

	// Probability that a spawned item is a correct one. Asymmetric on purpose:
	// the observed live behavior is 45% correct / 55% wrong, not 50/50.
	correctSpawnChance = 0.45

	baseCatchScore    = 12
	streakBonusCap    = 5
	wrongCatchPenalty = 6
)

// State is the engine lifecycle. Round-to-round transitions happen inside a
// single tick; only the terminal Finished state is observable from outside.
type State string

const (
	StateIdle     State = "idle"
	StateRunning  State = "running"
	StateFinished State = "finished"
)

// ResultFunc receives the final result exactly once when the engine finishes.
type ResultFunc func(domain.GameResult)

// Engine simulates one arcade play session. All mutable state is owned by the
// engine and must be driven from a single goroutine.
type Engine struct {
	subject  domain.GameSubject
	onFinish ResultFunc
	rnd      *rand.Rand

	state         State
	items         []domain.FallingItem
	nextItemID    int
	spawnElapsed  time.Duration
	roundElapsed  time.Duration
	roundIndex    int
	roundProgress int
	playerLane    int

	score  int
	lives  int
	streak int

	totalCatches   int
	correctCatches int

	result  domain.GameResult
	emitted bool
}

// Option customizes an Engine.
type Option func(*Engine)

// WithRand injects a deterministic random source so tests can assert exact
// spawn labels and lanes.
func WithRand(rnd *rand.Rand) Option {
	return func(e *Engine) { e.rnd = rnd }
}

// NewEngine builds an idle engine for one game subject.
func NewEngine(subject domain.GameSubject, onFinish ResultFunc, opts ...Option) *Engine {
	e := &Engine{
		subject:    subject,
		onFinish:   onFinish,
		rnd:        rand.New(rand.NewSource(time.Now().UnixNano())),
		state:      StateIdle,
		nextItemID: 1,
		playerLane: Lanes / 2,
		lives:      startingLives,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start moves the engine to Running. A subject with no rounds never starts;
// that is a defensive no-op, not an error.
func (e *Engine) Start() bool {
	if e.state != StateIdle || len(e.subject.Rounds) == 0 {
		return false
	}
	e.state = StateRunning
	return true
}

// State reports the engine lifecycle state.
func (e *Engine) State() State {
	return e.state
}

// MoveLeft shifts the player one lane left, clamped to the playfield. Takes
// effect on the next tick's catch test.
func (e *Engine) MoveLeft() {
	if e.playerLane > 0 {
		e.playerLane--
	}
}

// MoveRight shifts the player one lane right, clamped to the playfield.
func (e *Engine) MoveRight() {
	if e.playerLane < Lanes-1 {
		e.playerLane++
	}
}

// Tick advances the simulation by delta. Ticks after Finished are no-ops.
func (e *Engine) Tick(delta time.Duration) {
	if e.state != StateRunning {
		return
	}

	e.spawnElapsed += delta
	e.roundElapsed += delta

	if e.spawnElapsed >= spawnInterval {
		e.spawnElapsed = 0
		e.spawn()
	}

	e.moveAndCatch(delta)

	e.roundProgress = int(min64(100, e.roundElapsed.Milliseconds()*100/roundDuration.Milliseconds()))
	if e.roundElapsed >= roundDuration {
		e.roundElapsed = 0
		if e.roundIndex < len(e.subject.Rounds)-1 {
			e.roundIndex++
			e.roundProgress = 0
		} else {
			e.finish()
		}
	}

	if e.lives <= 0 {
		e.finish()
	}
}

func (e *Engine) spawn() {
	round := e.subject.Rounds[e.roundIndex]
	correct := e.rnd.Float64() < correctSpawnChance
	pool := round.WrongItems
	if correct {
		pool = round.CorrectItems
	}
	if len(pool) == 0 {
		return
	}
	e.items = append(e.items, domain.FallingItem{
		ID:      e.nextItemID,
		Lane:    e.rnd.Intn(Lanes),
		Y:       spawnY,
		Speed:   minFallSpeed + e.rnd.Float64()*fallSpeedSpread,
		Label:   pool[e.rnd.Intn(len(pool))],
		Correct: correct,
	})
	e.nextItemID++
}

func (e *Engine) moveAndCatch(delta time.Duration) {
	playerY := fieldHeight - playerOffsetY
	kept := e.items[:0]
	for _, item := range e.items {
		item.Y += item.Speed * delta.Seconds()

		caught := item.Lane == e.playerLane &&
			item.Y >= playerY-catchAbove && item.Y <= playerY+catchBelow
		if caught {
			e.totalCatches++
			if item.Correct {
				e.correctCatches++
				e.score += baseCatchScore + minInt(e.streak, streakBonusCap)
				e.streak++
			} else {
				e.score = maxInt(0, e.score-wrongCatchPenalty)
				e.streak = 0
				e.lives--
			}
			continue
		}
		// Items that fall past the playfield are discarded without penalty.
		if item.Y < fieldHeight+despawnMargin {
			kept = append(kept, item)
		}
	}
	e.items = kept
}

func (e *Engine) finish() {
	if e.emitted {
		return
	}
	e.emitted = true
	e.state = StateFinished

	accuracy := 0
	if e.totalCatches > 0 {
		accuracy = (e.correctCatches*100 + e.totalCatches/2) / e.totalCatches
	}
	e.result = domain.GameResult{
		Score:        e.score,
		Accuracy:     accuracy,
		Streak:       e.streak,
		LevelReached: e.roundIndex + 1,
	}
	if e.onFinish != nil {
		e.onFinish(e.result)
	}
}

// Result returns the emitted summary; valid once Finished.
func (e *Engine) Result() (domain.GameResult, bool) {
	return e.result, e.emitted
}

// Snapshot returns a read-only view for rendering.
func (e *Engine) Snapshot() domain.GameSnapshot {
	prompt := ""
	if e.roundIndex < len(e.subject.Rounds) {
		prompt = e.subject.Rounds[e.roundIndex].Prompt
	}
	return domain.GameSnapshot{
		Score:         e.score,
		Lives:         e.lives,
		Streak:        e.streak,
		RoundProgress: e.roundProgress,
		RoundIndex:    e.roundIndex,
		TotalRounds:   len(e.subject.Rounds),
		Prompt:        prompt,
		PlayerLane:    e.playerLane,
		Items:         append([]domain.FallingItem(nil), e.items...),
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
