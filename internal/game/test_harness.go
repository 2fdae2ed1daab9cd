package game

import (
	"github.com/Garsondee/Ember-Range/internal/scene"
	"github.com/Garsondee/Ember-Range/internal/vmath"
)

// testDT is the fixed tick length used by the headless harness.
const testDT = 1.0 / 60.0

// TestSim is a headless simulation harness used by tests and the headless
// report. It drives a Sim with a scripted Input and records every event in
// the SimLog.
type TestSim struct {
	*Sim
	HUDState *HUDState
	DT       float64

	// Script produces the input for each tick. nil means stand still.
	Script func(*TestSim) Input

	seed     int64
	tuning   Tuning
	verbose  bool
	wave     bool
	startErr error
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra  simOptionKind = iota // seed, tuning, verbose, dt: applied before the Sim exists
	simOptScene                       // placed objects
	simOptActors                      // player and enemies
)

// SimOption is a builder function applied to a TestSim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*TestSim)
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.seed = seed }}
}

// WithTuning replaces the default tuning.
func WithTuning(t Tuning) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.tuning = t }}
}

// WithTuningChange edits the tuning in place.
func WithTuningChange(fn func(*Tuning)) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { fn(&ts.tuning) }}
}

// WithVerbose enables per-tick verbose logging.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.verbose = v }}
}

// WithDT sets the tick length in seconds.
func WithDT(dt float64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.DT = dt }}
}

// WithPlacedObject builds a scene object of kind k at pos.
func WithPlacedObject(k scene.Kind, pos vmath.Vec3) SimOption {
	return SimOption{simOptScene, func(ts *TestSim) {
		ts.Scene.Add(ts.Scene.Build(k, pos, vmath.Zero, vmath.White))
	}}
}

// WithPlayerAt moves the player's feet to pos.
func WithPlayerAt(pos vmath.Vec3) SimOption {
	return SimOption{simOptActors, func(ts *TestSim) { ts.Player.Position = pos }}
}

// WithEnemyAt places one enemy at (x, z) on the ground height.
func WithEnemyAt(x, z float64) SimOption {
	return SimOption{simOptActors, func(ts *TestSim) {
		ts.Enemies.Place(vmath.V3(x, 0, z))
	}}
}

// WithSpawnWave spawns the tuned enemy count on the ring.
func WithSpawnWave() SimOption {
	return SimOption{simOptActors, func(ts *TestSim) { ts.wave = true }}
}

// WithScript sets the per-tick input script.
func WithScript(fn func(*TestSim) Input) SimOption {
	return SimOption{simOptActors, func(ts *TestSim) { ts.Script = fn }}
}

// NewTestSim constructs a TestSim from the given options in ordered passes:
//  1. Infrastructure (seed, tuning, verbose, dt), then the Sim is built
//  2. Placed objects
//  3. Player, enemies, script, then the wave spawn if requested
func NewTestSim(opts ...SimOption) *TestSim {
	ts := &TestSim{
		DT:     testDT,
		seed:   1,
		tuning: DefaultTuning(),
	}
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(ts)
		}
	}
	ts.HUDState = NewHUDState(ts.tuning.PlayerMaxHealth)
	ts.Sim = NewSim(SimConfig{
		Tuning: ts.tuning,
		Seed:   ts.seed,
		HUD:    ts.HUDState,
		SimLog: NewSimLog(ts.verbose),
	})
	for _, o := range opts {
		if o.kind == simOptScene {
			o.fn(ts)
		}
	}
	for _, o := range opts {
		if o.kind == simOptActors {
			o.fn(ts)
		}
	}
	if ts.wave {
		ts.startErr = ts.Start()
	}
	return ts
}

// StartErr returns the wave spawn error, if any.
func (ts *TestSim) StartErr() error { return ts.startErr }

// RunTicks advances the simulation n ticks.
func (ts *TestSim) RunTicks(n int) {
	for i := 0; i < n; i++ {
		ts.runOneTick()
	}
}

// RunUntil advances the simulation up to maxTicks, stopping early if predicate
// returns true. Returns the tick at which the predicate was satisfied, or -1.
func (ts *TestSim) RunUntil(predicate func(*TestSim) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		ts.runOneTick()
		if predicate(ts) {
			return ts.Tick
		}
	}
	return -1
}

func (ts *TestSim) runOneTick() {
	var in Input
	if ts.Script != nil {
		in = ts.Script(ts)
	}
	ts.Step(ts.DT, in)
}

// CurrentTick returns the current simulation tick.
func (ts *TestSim) CurrentTick() int {
	return ts.Tick
}

// HuntScript turns to the nearest enemy and pulls the trigger on alternate
// ticks so the edge trigger fires whenever the cooldown allows.
func HuntScript(ts *TestSim) Input {
	in := Input{Fire: ts.Tick%2 == 0}
	if e := ts.NearestEnemy(); e != nil {
		in.Aim = e.Position
		in.HasAim = true
	}
	return in
}

// SimSnapshot is a lightweight state summary.
type SimSnapshot struct {
	Tick    int
	Player  vmath.Vec3
	Health  int
	Enemies []EnemySnapshot
	Bullets int
}

// EnemySnapshot is a lightweight copy of an enemy's state at a tick.
type EnemySnapshot struct {
	ID       int
	Label    string
	Position vmath.Vec3
	Health   int
}

// Snapshot returns the current state of the player and enemies.
func (ts *TestSim) Snapshot() SimSnapshot {
	snap := SimSnapshot{
		Tick:    ts.Tick,
		Player:  ts.Player.Position,
		Health:  ts.Player.Health,
		Bullets: len(ts.Combat.PlayerBullets()) + len(ts.Combat.EnemyBullets()),
	}
	for _, e := range ts.Enemies.Enemies() {
		snap.Enemies = append(snap.Enemies, EnemySnapshot{
			ID:       e.ID,
			Label:    e.Label,
			Position: e.Position,
			Health:   e.Health,
		})
	}
	return snap
}
