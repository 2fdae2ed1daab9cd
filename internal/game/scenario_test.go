package game

import (
	"math"
	"testing"

	"github.com/Garsondee/Ember-Range/internal/scene"
	"github.com/Garsondee/Ember-Range/internal/vmath"
)

// dumpLog prints the full SimLog to t.Log so it appears in `go test -v` output.
func dumpLog(t *testing.T, ts *TestSim) {
	t.Helper()
	entries := ts.Log.Entries()
	if len(entries) == 0 {
		t.Log("(no log entries)")
		return
	}
	for _, e := range entries {
		t.Log(e.String())
	}
}

// dumpSummary prints the scenario summary block.
func dumpSummary(t *testing.T, ts *TestSim) {
	t.Helper()
	t.Log(ts.Log.Summary(ts.Sim))
}

// fireOnce pulls the trigger on the first tick only.
func fireOnce(ts *TestSim) Input { return Input{Fire: ts.Tick == 0} }

// --- Scenario: Lone Rifleman ---

func TestScenario_LoneRiflemanWearsPlayerDown(t *testing.T) {
	t.Log("=== TestScenario_LoneRiflemanWearsPlayerDown ===")
	t.Log("--- Setup: one enemy 20 units east, player never fires ---")

	ts := NewTestSim(WithSeed(42), WithEnemyAt(20, 0))

	at := ts.RunUntil(func(ts *TestSim) bool { return ts.Player.Defeated() }, 1200)
	dumpLog(t, ts)
	dumpSummary(t, ts)

	if at < 0 {
		t.Fatalf("player still standing after 1200 ticks: hp=%d", ts.Player.Health)
	}
	if got := ts.Combat.Stats().EnemyHits; got != 5 {
		t.Fatalf("enemy hits = %d, want 5; last two seconds:\n%s", got, ts.Log.FormatRange(at-120, at))
	}
	if ts.HUDState.DefeatShown != 1 {
		t.Fatalf("defeat shown %d times, want 1", ts.HUDState.DefeatShown)
	}
	if ts.Outcome() != OutcomeDefeat {
		t.Fatalf("outcome = %s, want defeat", ts.Outcome())
	}
	if ts.Log.CountCategory("player", "damage") != 5 {
		t.Fatalf("damage entries = %d, want 5", ts.Log.CountCategory("player", "damage"))
	}

	// The world keeps running after defeat, but nothing reaches the player.
	ts.RunTicks(300)
	if ts.Player.Health != 0 || ts.Combat.Stats().EnemyHits != 5 {
		t.Fatalf("after defeat hp=%d hits=%d\n%s", ts.Player.Health, ts.Combat.Stats().EnemyHits,
			ts.Log.FormatRange(at+1, ts.Tick))
	}
	if ts.HUDState.DefeatShown != 1 {
		t.Fatalf("defeat banner re-shown: %d", ts.HUDState.DefeatShown)
	}
}

// --- Scenario: Hunter ---

func TestScenario_HunterWinsFlawless(t *testing.T) {
	t.Log("=== TestScenario_HunterWinsFlawless ===")
	t.Log("--- Setup: one 2-hp enemy 30 units north, hunt script ---")

	ts := NewTestSim(
		WithSeed(42),
		WithTuningChange(func(tn *Tuning) { tn.EnemyHealth = 2 }),
		WithEnemyAt(0, 30),
		WithScript(HuntScript),
	)

	at := ts.RunUntil(func(ts *TestSim) bool { return ts.Outcome() == OutcomeVictory }, 600)
	dumpSummary(t, ts)

	if at < 0 {
		dumpLog(t, ts)
		t.Fatalf("no victory after 600 ticks, outcome=%s kills=%d", ts.Outcome(), ts.Enemies.Kills())
	}
	if ts.HUDState.VictoryShown != 1 || !ts.HUDState.Victory {
		t.Fatalf("victory shown %d times", ts.HUDState.VictoryShown)
	}
	if ts.Enemies.Kills() != 1 || ts.HUDState.Kills != 1 {
		t.Fatalf("kills=%d hud=%d, want 1", ts.Enemies.Kills(), ts.HUDState.Kills)
	}
	if ts.Player.Health != ts.Tuning.PlayerMaxHealth {
		t.Fatalf("hp = %d, want untouched", ts.Player.Health)
	}
	if len(ts.Combat.EnemyBullets()) != 0 {
		t.Fatalf("%d enemy bullets survived victory", len(ts.Combat.EnemyBullets()))
	}
	last, ok := ts.Log.LastOf("outcome", "victory")
	if !ok || last.Value != "flawless_all_enemies_down" {
		t.Fatalf("outcome entry = %+v ok=%v", last, ok)
	}

	// Victory is terminal: more ticks change nothing.
	shots := ts.Combat.Stats().EnemyShots
	ts.RunTicks(120)
	if ts.Outcome() != OutcomeVictory || ts.HUDState.VictoryShown != 1 {
		t.Fatalf("outcome drifted to %s", ts.Outcome())
	}
	if got := ts.Combat.Stats().EnemyShots; got != shots {
		t.Fatalf("enemy shots %d -> %d after victory", shots, got)
	}
}

// --- Scenario: Ricochet ---

func TestScenario_BulletRicochetsOffCrate(t *testing.T) {
	t.Log("=== TestScenario_BulletRicochetsOffCrate ===")

	ts := NewTestSim(
		WithPlacedObject(scene.KindBox, vmath.V3(0, 6, 10)),
		WithScript(fireOnce),
	)
	ts.RunTicks(30)
	dumpLog(t, ts)

	if ts.Combat.Stats().Bounces != 1 {
		t.Fatalf("bounces = %d, want 1", ts.Combat.Stats().Bounces)
	}
	bs := ts.Combat.PlayerBullets()
	if len(bs) != 1 {
		t.Fatalf("player bullets = %d, want 1", len(bs))
	}
	if math.Abs(bs[0].Dir.Z-(-1)) > eps {
		t.Fatalf("dir = %+v, want heading back toward -Z", bs[0].Dir)
	}
	if bs[0].Position.Z >= 9.5 {
		t.Fatalf("bullet at z=%.3f, expected in front of the crate", bs[0].Position.Z)
	}
	if !ts.Log.HasEntry("bullet", "bounce", "object") {
		t.Fatal("bounce not logged against the object")
	}
}

// --- Scenario: Tick ordering ---

func TestScenario_NewBulletsMoveNextTick(t *testing.T) {
	ts := NewTestSim(WithEnemyAt(50, 0), WithScript(fireOnce))

	ts.RunTicks(1)
	pb, eb := ts.Combat.PlayerBullets(), ts.Combat.EnemyBullets()
	if len(pb) != 1 || len(eb) != 1 {
		t.Fatalf("bullets player=%d enemy=%d, want 1/1", len(pb), len(eb))
	}
	checkVec(t, "player bullet", pb[0].Position, pb[0].Origin)
	checkVec(t, "enemy bullet", eb[0].Position, eb[0].Origin)

	ts.RunTicks(1)
	if pb[0].Traveled <= 0 || eb[0].Traveled <= 0 {
		t.Fatalf("bullets did not move on the second tick: %.3f %.3f", pb[0].Traveled, eb[0].Traveled)
	}
}

// --- Scenario: Campfire ---

func TestScenario_FlameEmitterSpawnsEveryTick(t *testing.T) {
	ts := NewTestSim(WithDT(0.1), WithPlacedObject(scene.KindFlame, vmath.V3(5, 5, 5)))
	ts.RunTicks(10)

	var flame *scene.PlacedObject
	for _, o := range ts.Scene.Objects() {
		if o.IsEmitter() {
			flame = o
		}
	}
	if flame == nil {
		t.Fatal("no emitter in scene")
	}
	if got := flame.Emitter.Spawned(); got != 10 {
		t.Fatalf("spawned %d particles in 10 ticks of 0.1s, want 10", got)
	}
	if flame.Emitter.Len() > 10 {
		t.Fatalf("live particles = %d", flame.Emitter.Len())
	}
	if ts.Combat.Stats().Bounces != 0 {
		t.Fatal("flame should not interact with combat")
	}
}

// --- Scenario: Ring Assault ---

func TestScenario_RingAssault(t *testing.T) {
	t.Log("=== TestScenario_RingAssault ===")
	t.Log("--- Setup: full wave on the ring, hunt script, crates around the player ---")

	ts := NewTestSim(
		WithSeed(7),
		WithPlacedObject(scene.KindBox, vmath.V3(6, 6, 0)),
		WithPlacedObject(scene.KindBrick, vmath.V3(-6, 5.25, 0)),
		WithSpawnWave(),
		WithScript(HuntScript),
	)
	if err := ts.StartErr(); err != nil {
		t.Fatalf("start: %v", err)
	}

	at := ts.RunUntil(func(ts *TestSim) bool { return ts.Outcome().Terminal() }, 60*240)
	dumpSummary(t, ts)

	if at < 0 {
		t.Fatalf("ring assault unresolved after 4 minutes: kills=%d hp=%d", ts.Enemies.Kills(), ts.Player.Health)
	}
	sum := ts.Summary()
	if sum.ShotsHit > sum.ShotsFired {
		t.Fatalf("hits %d > shots %d", sum.ShotsHit, sum.ShotsFired)
	}
	switch ts.Outcome() {
	case OutcomeVictory:
		if sum.Kills != ts.Tuning.EnemyCount || sum.EnemiesAlive != 0 {
			t.Fatalf("victory with kills=%d alive=%d", sum.Kills, sum.EnemiesAlive)
		}
	case OutcomeDefeat:
		if sum.PlayerHealth != 0 {
			t.Fatalf("defeat with hp=%d", sum.PlayerHealth)
		}
	}
	if ts.Feed.Len() == 0 {
		t.Fatal("combat feed is empty")
	}
	t.Log(ts.Report())
}
