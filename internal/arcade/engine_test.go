package arcade

import (
	"math/rand"
	"testing"
	"time"

	"dvg-portal/internal/domain"
)

func testSubject(rounds int) domain.GameSubject {
	subject := domain.GameSubject{
		ID:      "entrepreneurship",
		GameKey: "subject-sprint",
	}
	for i := 0; i < rounds; i++ {
		subject.Rounds = append(subject.Rounds, domain.LearningRound{
			Prompt:       "Savāc tikai ieņēmumu avotus",
			CorrectItems: []string{"Pārdošana", "Abonements"},
			WrongItems:   []string{"Izdevumi", "Parāds"},
		})
	}
	return subject
}

func startedEngine(t *testing.T, rounds int, onFinish ResultFunc) *Engine {
	t.Helper()
	e := NewEngine(testSubject(rounds), onFinish, WithRand(rand.New(rand.NewSource(7))))
	if !e.Start() {
		t.Fatalf("engine failed to start")
	}
	return e
}

// dropItem places an item inside the catch band of the player's lane so the
// next tick resolves it deterministically, independent of the spawner.
func dropItem(e *Engine, correct bool) {
	e.items = append(e.items, domain.FallingItem{
		ID:      e.nextItemID,
		Lane:    e.playerLane,
		Y:       fieldHeight - playerOffsetY - 4,
		Speed:   0,
		Label:   "x",
		Correct: correct,
	})
	e.nextItemID++
}

func TestCatchScoringAndStreakBonus(t *testing.T) {
	e := startedEngine(t, 1, nil)

	dropItem(e, true)
	e.Tick(time.Millisecond)
	if snap := e.Snapshot(); snap.Score != 12 || snap.Streak != 1 || snap.Lives != 3 {
		t.Fatalf("first correct catch: %+v", snap)
	}

	dropItem(e, true)
	e.Tick(time.Millisecond)
	if snap := e.Snapshot(); snap.Score != 25 || snap.Streak != 2 {
		t.Fatalf("second correct catch should add 12+min(1,5): %+v", snap)
	}

	dropItem(e, false)
	e.Tick(time.Millisecond)
	if snap := e.Snapshot(); snap.Score != 19 || snap.Streak != 0 || snap.Lives != 2 {
		t.Fatalf("wrong catch should cost 6 points and a life: %+v", snap)
	}
}

func TestStreakBonusCapped(t *testing.T) {
	e := startedEngine(t, 1, nil)

	for i := 0; i < 8; i++ {
		dropItem(e, true)
		e.Tick(time.Millisecond)
	}
	// 12 + 13 + 14 + 15 + 16 + 17 + 17 + 17: bonus stops growing at +5.
	if snap := e.Snapshot(); snap.Score != 121 || snap.Streak != 8 {
		t.Fatalf("expected capped bonus total 121, got %+v", snap)
	}
}

func TestScoreClampedAtZero(t *testing.T) {
	e := startedEngine(t, 1, nil)

	dropItem(e, false)
	e.Tick(time.Millisecond)
	if snap := e.Snapshot(); snap.Score != 0 || snap.Lives != 2 {
		t.Fatalf("score must clamp at zero: %+v", snap)
	}
}

func TestLivesExhaustedFinishesImmediately(t *testing.T) {
	var results []domain.GameResult
	e := startedEngine(t, 3, func(r domain.GameResult) { results = append(results, r) })

	for i := 0; i < 3; i++ {
		dropItem(e, false)
		e.Tick(time.Millisecond)
	}
	if e.State() != StateFinished {
		t.Fatalf("expected finished after 3 wrong catches, got %s", e.State())
	}
	if len(results) != 1 {
		t.Fatalf("expected exactly one result, got %d", len(results))
	}
	if results[0].LevelReached != 1 {
		t.Fatalf("expected levelReached 1, got %d", results[0].LevelReached)
	}
}

func TestAccuracyRounding(t *testing.T) {
	var got *domain.GameResult
	e := startedEngine(t, 1, func(r domain.GameResult) { got = &r })

	for i := 0; i < 3; i++ {
		dropItem(e, true)
		e.Tick(time.Millisecond)
	}
	dropItem(e, false)
	e.Tick(time.Millisecond)

	// Let the single round run out.
	e.Tick(roundDuration)

	if got == nil {
		t.Fatalf("expected a result")
	}
	if got.Accuracy != 75 {
		t.Fatalf("3 of 4 catches should round to 75, got %d", got.Accuracy)
	}
}

func TestFinalRoundElapseEmitsExactlyOnce(t *testing.T) {
	emissions := 0
	e := startedEngine(t, 2, func(domain.GameResult) { emissions++ })

	e.Tick(roundDuration) // round 0 -> round 1
	if e.State() != StateRunning {
		t.Fatalf("expected still running after first round, got %s", e.State())
	}
	if snap := e.Snapshot(); snap.RoundIndex != 1 || snap.RoundProgress != 0 {
		t.Fatalf("expected round advance with progress reset, got %+v", snap)
	}

	e.Tick(roundDuration) // final round elapses
	if e.State() != StateFinished {
		t.Fatalf("expected finished, got %s", e.State())
	}

	// Ticks after Finished are no-ops and must not re-emit.
	for i := 0; i < 5; i++ {
		e.Tick(roundDuration)
	}
	if emissions != 1 {
		t.Fatalf("expected exactly one emission, got %d", emissions)
	}
	result, ok := e.Result()
	if !ok || result.LevelReached != 2 {
		t.Fatalf("expected levelReached 2, got %+v ok=%v", result, ok)
	}
}

func TestAccuracyZeroWithoutCatches(t *testing.T) {
	var got *domain.GameResult
	e := startedEngine(t, 1, func(r domain.GameResult) { got = &r })

	e.Tick(roundDuration)
	if got == nil || got.Accuracy != 0 {
		t.Fatalf("no catches should yield accuracy 0, got %+v", got)
	}
}

func TestLaneClamping(t *testing.T) {
	e := startedEngine(t, 1, nil)

	for i := 0; i < 5; i++ {
		e.MoveLeft()
	}
	if e.Snapshot().PlayerLane != 0 {
		t.Fatalf("expected lane clamped at 0, got %d", e.Snapshot().PlayerLane)
	}
	for i := 0; i < 5; i++ {
		e.MoveRight()
	}
	if e.Snapshot().PlayerLane != Lanes-1 {
		t.Fatalf("expected lane clamped at %d, got %d", Lanes-1, e.Snapshot().PlayerLane)
	}
}

func TestSpawnCadenceAndDeterministicSpawns(t *testing.T) {
	e := startedEngine(t, 1, nil)

	// Just under the spawn interval: nothing spawns.
	e.Tick(spawnInterval - time.Millisecond)
	if n := len(e.Snapshot().Items); n != 0 {
		t.Fatalf("expected no spawn before interval, got %d items", n)
	}

	// Crossing the interval spawns exactly one item from the round pools.
	e.Tick(2 * time.Millisecond)
	items := e.Snapshot().Items
	if len(items) != 1 {
		t.Fatalf("expected one spawned item, got %d", len(items))
	}
	item := items[0]
	if item.Lane < 0 || item.Lane >= Lanes {
		t.Fatalf("lane out of range: %d", item.Lane)
	}
	if item.Speed < minFallSpeed || item.Speed >= minFallSpeed+fallSpeedSpread {
		t.Fatalf("speed out of range: %f", item.Speed)
	}
	round := e.subject.Rounds[0]
	pool := round.WrongItems
	if item.Correct {
		pool = round.CorrectItems
	}
	found := false
	for _, label := range pool {
		if label == item.Label {
			found = true
		}
	}
	if !found {
		t.Fatalf("label %q not drawn from the matching pool", item.Label)
	}
}

func TestZeroRoundSubjectNeverStarts(t *testing.T) {
	e := NewEngine(domain.GameSubject{ID: "empty"}, nil)
	if e.Start() {
		t.Fatalf("engine with no rounds must not start")
	}
	if e.State() != StateIdle {
		t.Fatalf("expected idle, got %s", e.State())
	}
	e.Tick(time.Second) // must be a harmless no-op
}
