package game

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/Garsondee/Ember-Range/internal/vmath"
)

// ErrNoSpawnPosition is returned when every candidate spawn point within the
// attempt budget sat too close to an existing enemy.
var ErrNoSpawnPosition = errors.New("no valid enemy spawn position")

// Enemy is a ground-locked agent that walks at the player and shoots on a timer.
type Enemy struct {
	ID       int
	Label    string // e.g. "E3"
	Position vmath.Vec3
	Yaw      float64 // degrees; pitch and roll stay zero
	Health   int

	lastFire float64 // sim clock of the last shot
	dead     bool
}

// Alive reports whether the enemy still has health.
func (e *Enemy) Alive() bool { return !e.dead }

// Bounds is the enemy's box collider.
func (e *Enemy) Bounds(half vmath.Vec3) vmath.AABB {
	return vmath.BoxAt(e.Position, half)
}

// Forward is the unit heading on the XZ plane.
func (e *Enemy) Forward() vmath.Vec3 { return vmath.ForwardFromYaw(e.Yaw) }

// SpawnSampler proposes a candidate spawn position.
type SpawnSampler func() vmath.Vec3

// EnemyController owns the enemy collection and the kill counter.
type EnemyController struct {
	tuning  *Tuning
	enemies []*Enemy
	kills   int
	nextID  int
	rng     *rand.Rand
	sampler SpawnSampler
	log     zerolog.Logger
	simLog  *SimLog
	feed    *CombatFeed
	tick    *int
}

// NewEnemyController creates a controller whose default sampler picks a
// uniform angle on the spawn ring.
func NewEnemyController(t *Tuning, seed int64, log zerolog.Logger) *EnemyController {
	ec := &EnemyController{
		tuning: t,
		rng:    rand.New(rand.NewSource(seed)), // #nosec G404 -- game only
		log:    log,
	}
	ec.sampler = ec.ringSample
	return ec
}

func (ec *EnemyController) ringSample() vmath.Vec3 {
	a := ec.rng.Float64() * 2 * math.Pi
	r := ec.tuning.SpawnRadius
	return vmath.V3(math.Cos(a)*r, ec.tuning.GroundHeight, math.Sin(a)*r)
}

// SetSampler replaces the spawn position generator. nil restores the ring.
func (ec *EnemyController) SetSampler(s SpawnSampler) {
	if s == nil {
		s = ec.ringSample
	}
	ec.sampler = s
}

// Enemies returns the live collection; callers must not mutate it.
func (ec *EnemyController) Enemies() []*Enemy { return ec.enemies }

// Kills returns the kill counter.
func (ec *EnemyController) Kills() int { return ec.kills }

// Count returns how many enemies are alive.
func (ec *EnemyController) Count() int {
	n := 0
	for _, e := range ec.enemies {
		if !e.dead {
			n++
		}
	}
	return n
}

// Spawned returns how many enemies were ever created.
func (ec *EnemyController) Spawned() int { return ec.nextID }

// Spawn places one enemy at the first sampled position that keeps
// MinDistance from every live enemy.
func (ec *EnemyController) Spawn() (*Enemy, error) {
	attempts := ec.tuning.MaxSpawnAttempts
	if attempts <= 0 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		p := ec.sampler()
		p.Y = ec.tuning.GroundHeight
		if !ec.spawnClear(p) {
			continue
		}
		return ec.add(p), nil
	}
	ec.log.Error().Int("attempts", attempts).Int("enemies", ec.Count()).
		Msg("enemy spawn gave up")
	return nil, fmt.Errorf("spawn enemy %d after %d attempts: %w", ec.nextID, attempts, ErrNoSpawnPosition)
}

// SpawnWave spawns n enemies, stopping at the first failure.
func (ec *EnemyController) SpawnWave(n int) error {
	for i := 0; i < n; i++ {
		if _, err := ec.Spawn(); err != nil {
			return err
		}
	}
	return nil
}

// Place adds an enemy at p without the spacing check. Test and scenario use.
func (ec *EnemyController) Place(p vmath.Vec3) *Enemy {
	p.Y = ec.tuning.GroundHeight
	return ec.add(p)
}

func (ec *EnemyController) add(p vmath.Vec3) *Enemy {
	e := &Enemy{
		ID:       ec.nextID,
		Label:    fmt.Sprintf("E%d", ec.nextID),
		Position: p,
		Health:   ec.tuning.EnemyHealth,
		lastFire: math.Inf(-1),
	}
	ec.nextID++
	ec.enemies = append(ec.enemies, e)
	ec.note(e.Label, "enemy", "spawn", fmt.Sprintf("at (%.1f,%.1f)", p.X, p.Z), 0)
	return e
}

func (ec *EnemyController) spawnClear(p vmath.Vec3) bool {
	for _, o := range ec.enemies {
		if o.dead {
			continue
		}
		if vmath.Dist(o.Position, p) < ec.tuning.MinDistance {
			return false
		}
	}
	return true
}

// Damage removes n health from e. When health crosses zero the enemy is
// marked dead, the kill counter increments and true is returned. The corpse
// is dropped from the collection by the next Compact.
func (ec *EnemyController) Damage(e *Enemy, n int) bool {
	if e == nil || e.dead {
		return false
	}
	e.Health -= n
	ec.note(e.Label, "enemy", "damage", fmt.Sprintf("hp %d", e.Health), float64(e.Health))
	if e.Health > 0 {
		return false
	}
	e.dead = true
	ec.kills++
	ec.note(e.Label, "enemy", "death", fmt.Sprintf("kills=%d", ec.kills), float64(ec.kills))
	if ec.feed != nil {
		ec.feed.Add(ec.now(), e.Label, FeedKill, "down")
	}
	ec.log.Debug().Str("enemy", e.Label).Int("kills", ec.kills).Msg("enemy killed")
	return true
}

// Compact drops dead enemies.
func (ec *EnemyController) Compact() {
	kept := ec.enemies[:0]
	for _, e := range ec.enemies {
		if !e.dead {
			kept = append(kept, e)
		}
	}
	for i := len(kept); i < len(ec.enemies); i++ {
		ec.enemies[i] = nil
	}
	ec.enemies = kept
}

// Tick steers every live enemy at the player, pushes apart crowded pairs and
// fires on each enemy's timer. now is the sim clock after this tick's dt.
func (ec *EnemyController) Tick(dt, now float64, player *Player, combat *CombatManager) {
	if dt <= 0 || player == nil {
		return
	}
	t := ec.tuning
	step := t.EnemySpeed * dt
	for _, e := range ec.enemies {
		if e.dead {
			continue
		}
		// Face and advance.
		e.Yaw = vmath.YawTo(e.Position, player.Position)
		e.Position = e.Position.Add(e.Forward().Scale(step))
		e.Position.Y = t.GroundHeight

		// Separation.
		for _, o := range ec.enemies {
			if o == e || o.dead {
				continue
			}
			if vmath.Dist(e.Position, o.Position) >= t.MinDistance {
				continue
			}
			away := e.Position.Sub(o.Position)
			away.Y = 0
			e.Position = e.Position.Add(away.Normalized().Scale(step))
		}
		e.Position.Y = t.GroundHeight

		// Fire.
		if combat != nil && now-e.lastFire > t.EnemyShootInterval {
			combat.FireEnemy(e, player.Position)
			e.lastFire = now
		}
	}
}

func (ec *EnemyController) now() int {
	if ec.tick == nil {
		return 0
	}
	return *ec.tick
}

func (ec *EnemyController) note(label, category, key, value string, num float64) {
	if ec.simLog == nil {
		return
	}
	ec.simLog.Add(ec.now(), label, "enemy", category, key, value, num)
}
