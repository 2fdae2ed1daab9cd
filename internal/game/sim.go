package game

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Garsondee/Ember-Range/internal/particle"
	"github.com/Garsondee/Ember-Range/internal/scene"
	"github.com/Garsondee/Ember-Range/internal/vmath"
)

// Input is the per-tick control state supplied by the host.
type Input struct {
	Move   vmath.Vec3 // desired walk direction on the XZ plane, any length
	Aim    vmath.Vec3 // world-space point the pointer is over
	HasAim bool
	Fire   bool // primary action held this tick
}

// SimConfig configures a Sim. Zero fields take defaults: DefaultTuning, a
// fresh scene over the default registry, an in-memory HUD, no sound, and a
// silent logger.
type SimConfig struct {
	Tuning Tuning
	Seed   int64
	Scene  *scene.Scene
	HUD    HUD
	Sound  SoundFX
	Log    zerolog.Logger
	SimLog *SimLog
}

// Sim is one engagement: the player, the enemies, the bullets and the
// placed-object scene, stepped one tick at a time.
type Sim struct {
	Tuning    Tuning
	Seed      int64
	Tick      int
	Clock     float64 // seconds
	Player    *Player
	Enemies   *EnemyController
	Combat    *CombatManager
	Scene     *scene.Scene
	World     *World
	Particles *particle.Engine
	HUD       HUD
	Log       *SimLog
	Feed      *CombatFeed

	fireHeld  bool
	lastKills int
	outcome   Outcome
	log       zerolog.Logger
}

// NewSim wires the components of one engagement. Enemies are not spawned
// until Start.
func NewSim(cfg SimConfig) *Sim {
	s := &Sim{
		Tuning: cfg.Tuning,
		Seed:   cfg.Seed,
		Scene:  cfg.Scene,
		HUD:    cfg.HUD,
		Log:    cfg.SimLog,
		Feed:   NewCombatFeed(),
		log:    cfg.Log,
	}
	if s.Tuning == (Tuning{}) {
		s.Tuning = DefaultTuning()
	}
	if s.Scene == nil {
		s.Scene = scene.New(scene.DefaultRegistry(), scene.WithLogger(cfg.Log))
	}
	if s.HUD == nil {
		s.HUD = NewHUDState(s.Tuning.PlayerMaxHealth)
	}
	if s.Log == nil {
		s.Log = NewSimLog(false)
	}

	t := &s.Tuning
	s.Player = NewPlayer(*t, s.HUD, cfg.Log.With().Str("actor", "player").Logger())
	s.Enemies = NewEnemyController(t, cfg.Seed, cfg.Log.With().Str("component", "enemies").Logger())
	s.Combat = NewCombatManager(t, cfg.Seed+1, cfg.Log.With().Str("component", "combat").Logger())
	s.Combat.SetSoundFX(cfg.Sound)
	s.Particles = particle.NewEngine(cfg.Seed + 2)
	s.World = NewWorld(t, s.Scene, s.Enemies, s.Player)

	s.Enemies.simLog, s.Enemies.feed, s.Enemies.tick = s.Log, s.Feed, &s.Tick
	s.Combat.simLog, s.Combat.feed, s.Combat.tick = s.Log, s.Feed, &s.Tick
	return s
}

// Start spawns the enemy wave.
func (s *Sim) Start() error {
	if err := s.Enemies.SpawnWave(s.Tuning.EnemyCount); err != nil {
		return fmt.Errorf("start engagement: %w", err)
	}
	s.log.Info().Int64("seed", s.Seed).Int("enemies", s.Enemies.Count()).Msg("engagement started")
	s.Feed.Add(s.Tick, "--", FeedInfo, fmt.Sprintf("%d hostiles on the ring", s.Enemies.Count()))
	return nil
}

// Outcome returns the current engagement outcome.
func (s *Sim) Outcome() Outcome { return s.outcome }

// Step runs one tick of dt seconds.
func (s *Sim) Step(dt float64, in Input) {
	if dt <= 0 {
		return
	}
	s.Tick++
	s.Clock += dt

	fire := in.Fire && !s.fireHeld
	s.fireHeld = in.Fire

	// 1. INPUT: walk and aim. Ignored once the player is down.
	if !s.Player.Defeated() {
		s.Player.Move(in.Move, dt)
		if in.HasAim {
			s.Player.AimAt(in.Aim, s.Tuning.PlayerMuzzleHeight)
		}
		s.Log.AddVerbose(s.Tick, "P", "player", "move", "position",
			fmt.Sprintf("(%.2f,%.2f)", s.Player.Position.X, s.Player.Position.Z), 0)
	}

	// 2. PROJECTILES: advance and resolve every bullet, then drop the dead.
	s.Combat.Tick(dt, s.World)
	s.Enemies.Compact()
	if k := s.Enemies.Kills(); k != s.lastKills {
		s.lastKills = k
		s.HUD.SetKills(k)
	}

	// 3. PLAYER FIRE: edge-triggered and rate-limited. The new bullet first
	// moves next tick, like enemy bullets.
	if fire && s.outcome == OutcomeOngoing {
		s.Combat.FirePlayer(s.Player, s.Clock)
	}

	// 4. ENEMIES: steer, separate, fire.
	if s.outcome != OutcomeVictory {
		s.Enemies.Tick(dt, s.Clock, s.Player, s.Combat)
	}

	// 5+6. PARTICLES and FLASHES.
	s.AdvanceEffects(dt)

	// 7. OUTCOME.
	s.updateOutcome()
}

// AdvanceEffects ages every scene emitter and the muzzle flashes without
// touching combat. The editor runs only this while combat is frozen.
func (s *Sim) AdvanceEffects(dt float64) {
	s.Particles.Viewer = s.Player.Position
	for _, o := range s.Scene.Objects() {
		if o.Emitter != nil {
			s.Particles.Advance(o.Emitter, dt)
		}
	}
	s.Combat.UpdateFlashes(dt)
}

func (s *Sim) updateOutcome() {
	if s.outcome.Terminal() {
		return
	}
	r := DetermineOutcome(s.Player, s.Enemies)
	if !r.Outcome.Terminal() {
		return
	}
	s.outcome = r.Outcome
	if r.Outcome == OutcomeVictory {
		s.HUD.ShowVictory()
		s.Combat.ClearEnemyBullets()
	}
	s.Log.Add(s.Tick, "--", "--", "outcome", r.Outcome.String(), r.Description, float64(r.Kills))
	s.Feed.Add(s.Tick, "--", FeedOutcome, r.Outcome.String())
	s.log.Info().Str("outcome", r.Outcome.String()).Str("reason", r.Description).
		Int("tick", s.Tick).Int("kills", r.Kills).Int("health", r.PlayerHealth).Msg("engagement over")
}

// NearestEnemy returns the closest live enemy to the player, or nil.
func (s *Sim) NearestEnemy() *Enemy {
	var (
		best  *Enemy
		bestD float64
	)
	for _, e := range s.Enemies.Enemies() {
		if !e.Alive() {
			continue
		}
		d := vmath.Dist(e.Position, s.Player.Position)
		if best == nil || d < bestD {
			best, bestD = e, d
		}
	}
	return best
}

// Summary is the flat result of an engagement, used by reports and history.
type Summary struct {
	Seed         int64
	Ticks        int
	Clock        float64
	Kills        int
	ShotsFired   int
	ShotsHit     int
	Bounces      int
	EnemyShots   int
	EnemyHits    int
	PlayerHealth int
	EnemiesAlive int
	Outcome      Outcome
}

// Summary snapshots the engagement counters.
func (s *Sim) Summary() Summary {
	st := s.Combat.Stats()
	return Summary{
		Seed:         s.Seed,
		Ticks:        s.Tick,
		Clock:        s.Clock,
		Kills:        s.Enemies.Kills(),
		ShotsFired:   st.ShotsFired,
		ShotsHit:     st.ShotsHit,
		Bounces:      st.Bounces,
		EnemyShots:   st.EnemyShots,
		EnemyHits:    st.EnemyHits,
		PlayerHealth: s.Player.Health,
		EnemiesAlive: s.Enemies.Count(),
		Outcome:      s.outcome,
	}
}
