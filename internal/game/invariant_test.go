package game

import (
	"fmt"
	"math"
	"testing"

	"github.com/Garsondee/Ember-Range/internal/scene"
	"github.com/Garsondee/Ember-Range/internal/vmath"
)

// --- Invariant helpers ---

// checkEnemiesGrounded verifies every live enemy sits exactly at the ground
// height.
func checkEnemiesGrounded(t *testing.T, ts *TestSim) {
	t.Helper()
	for _, e := range ts.Enemies.Enemies() {
		if e.Position.Y != ts.Tuning.GroundHeight {
			t.Fatalf("tick %d: %s at Y=%.4f, want %.1f", ts.Tick, e.Label, e.Position.Y, ts.Tuning.GroundHeight)
		}
	}
}

// checkHealthBounded verifies 0 <= health <= max and that a zero-health
// player is defeated.
func checkHealthBounded(t *testing.T, ts *TestSim) {
	t.Helper()
	p := ts.Player
	if p.Health < 0 || p.Health > p.MaxHealth {
		t.Fatalf("tick %d: health %d outside [0,%d]", ts.Tick, p.Health, p.MaxHealth)
	}
	if (p.Health == 0) != p.Defeated() {
		t.Fatalf("tick %d: health %d but defeated=%v", ts.Tick, p.Health, p.Defeated())
	}
	if ts.HUDState.HeartsShown() != p.Health {
		t.Fatalf("tick %d: %d hearts shown for %d health", ts.Tick, ts.HUDState.HeartsShown(), p.Health)
	}
}

// checkBulletsPartitioned verifies each bullet list only carries its owner's
// bullets and that no dead bullet lingers.
func checkBulletsPartitioned(t *testing.T, ts *TestSim) {
	t.Helper()
	for _, b := range ts.Combat.PlayerBullets() {
		if b.Owner != OwnerPlayer || b.dead {
			t.Fatalf("tick %d: bad player bullet #%d owner=%s dead=%v", ts.Tick, b.ID, b.Owner, b.dead)
		}
		if b.Traveled > b.Range {
			t.Fatalf("tick %d: bullet #%d travelled %.2f past range", ts.Tick, b.ID, b.Traveled)
		}
	}
	for _, b := range ts.Combat.EnemyBullets() {
		if b.Owner != OwnerEnemy || b.dead {
			t.Fatalf("tick %d: bad enemy bullet #%d owner=%s dead=%v", ts.Tick, b.ID, b.Owner, b.dead)
		}
	}
}

// checkKillsMatchLog verifies the kill counter equals the number of logged
// deaths and that no two deaths share a label.
func checkKillsMatchLog(t *testing.T, ts *TestSim) {
	t.Helper()
	deaths := ts.Log.Filter("enemy", "death")
	if len(deaths) != ts.Enemies.Kills() {
		t.Fatalf("kills=%d but %d death entries", ts.Enemies.Kills(), len(deaths))
	}
	seen := map[string]bool{}
	for _, d := range deaths {
		if seen[d.Actor] {
			t.Fatalf("%s died twice", d.Actor)
		}
		seen[d.Actor] = true
	}
	if ts.Enemies.Kills()+ts.Enemies.Count() != ts.Enemies.Spawned() {
		t.Fatalf("kills %d + alive %d != spawned %d", ts.Enemies.Kills(), ts.Enemies.Count(), ts.Enemies.Spawned())
	}
}

func ringAssault(seed int64) *TestSim {
	return NewTestSim(
		WithSeed(seed),
		WithVerbose(true),
		WithPlacedObject(scene.KindBox, vmath.V3(0, 6, 8)),
		WithSpawnWave(),
		WithScript(HuntScript),
	)
}

// --- Invariant tests ---

func TestInvariant_RingAssaultPerTick(t *testing.T) {
	for _, seed := range []int64{1, 2, 3} {
		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			ts := ringAssault(seed)
			if err := ts.StartErr(); err != nil {
				t.Fatalf("start: %v", err)
			}
			kills := 0
			for i := 0; i < 60*60 && !ts.Outcome().Terminal(); i++ {
				ts.RunTicks(1)
				checkEnemiesGrounded(t, ts)
				checkHealthBounded(t, ts)
				checkBulletsPartitioned(t, ts)
				if k := ts.Enemies.Kills(); k < kills {
					t.Fatalf("tick %d: kills fell from %d to %d", ts.Tick, kills, k)
				} else {
					kills = k
				}
				if ts.HUDState.Kills != kills {
					t.Fatalf("tick %d: HUD kills %d, counter %d", ts.Tick, ts.HUDState.Kills, kills)
				}
			}
			checkKillsMatchLog(t, ts)
		})
	}
}

func TestInvariant_OutcomeLoggedOnce(t *testing.T) {
	ts := ringAssault(5)
	ts.RunTicks(60 * 120)

	if !ts.Outcome().Terminal() {
		t.Skipf("seed 5 unresolved after 2 minutes, kills=%d", ts.Enemies.Kills())
	}
	n := ts.Log.CountCategory("outcome", ts.Outcome().String())
	if n != 1 {
		t.Fatalf("outcome logged %d times, want 1", n)
	}
	if ts.HUDState.VictoryShown+ts.HUDState.DefeatShown != 1 {
		t.Fatalf("banners victory=%d defeat=%d", ts.HUDState.VictoryShown, ts.HUDState.DefeatShown)
	}
}

func TestInvariant_VerboseLogTracksPlayer(t *testing.T) {
	ts := NewTestSim(WithVerbose(true), WithScript(func(*TestSim) Input {
		return Input{Move: vmath.V3(0, 0, 1)}
	}))
	ts.RunTicks(60)

	moves := ts.Log.Filter("move", "position")
	if len(moves) != 60 {
		t.Fatalf("move entries = %d, want one per tick", len(moves))
	}
	var x, z float64
	if _, err := fmt.Sscanf(moves[len(moves)-1].Value, "(%f,%f)", &x, &z); err != nil {
		t.Fatalf("parse %q: %v", moves[len(moves)-1].Value, err)
	}
	want := ts.Tuning.PlayerSpeed * ts.Tuning.SpeedMultiplier
	if math.Abs(x) > 0.01 || math.Abs(z-want) > 0.01 {
		t.Fatalf("player at (%.2f,%.2f) after 1s, want (0,%.2f)", x, z, want)
	}
}

func TestInvariant_DeterministicForSeed(t *testing.T) {
	a, b := ringAssault(11), ringAssault(11)
	a.RunTicks(600)
	b.RunTicks(600)

	sa, sb := a.Snapshot(), b.Snapshot()
	if sa.Health != sb.Health || len(sa.Enemies) != len(sb.Enemies) || sa.Bullets != sb.Bullets {
		t.Fatalf("runs diverged: %+v vs %+v", sa, sb)
	}
	for i := range sa.Enemies {
		if !vmath.ApproxEqual(sa.Enemies[i].Position, sb.Enemies[i].Position, 1e-12) {
			t.Fatalf("%s diverged: %v vs %v", sa.Enemies[i].Label, sa.Enemies[i].Position, sb.Enemies[i].Position)
		}
	}
	if a.Summary() != b.Summary() {
		t.Fatalf("summaries diverged:\n%+v\n%+v", a.Summary(), b.Summary())
	}
}
