// Package particle owns short-lived decorative particles spawned by emitters.
// Particles are render-only state: they never collide, never damage and are
// never persisted.
package particle

import (
	"math/rand"

	"github.com/Garsondee/Ember-Range/internal/vmath"
)

// --- Particle constants ---

const (
	DefaultSpawnInterval = 0.05 // seconds between spawns
	ScaleDecay           = 0.98 // scale multiplier applied every tick
	FadeRate             = 0.5  // opacity lost per second
	InitialScale         = 0.2
	InitialAlpha         = 1.0
	LateralJitter        = 0.1 // ± spawn offset on X and Z
	RiseSpeedMin         = 0.5 // upward speed range, units/s
	RiseSpeedMax         = 1.0
	TiltJitter           = 10.0 // ± degrees of pitch/roll on spawn
)

// Particle is one flame mote.
type Particle struct {
	Position vmath.Vec3
	Velocity vmath.Vec3
	Rotation vmath.Vec3 // Euler degrees; yaw faces the viewer at spawn time
	Scale    float64
	Alpha    float64
	Color    vmath.RGBA
}

// Dead reports whether the particle has faded out.
func (p *Particle) Dead() bool {
	return p.Alpha <= 0
}

// Emitter owns an ordered set of live particles. Its placement (position,
// rotation, tint) is owned by the placed object that carries it.
type Emitter struct {
	Position      vmath.Vec3
	SpawnInterval float64

	sinceSpawn float64
	particles  []*Particle
	spawned    int
}

// NewEmitter returns an emitter at pos with the default spawn interval.
func NewEmitter(pos vmath.Vec3) *Emitter {
	return &Emitter{Position: pos, SpawnInterval: DefaultSpawnInterval}
}

// Particles returns the live particles, oldest first. The slice is owned by
// the emitter and is only valid until the next Advance.
func (e *Emitter) Particles() []*Particle {
	return e.particles
}

// Len returns the number of live particles.
func (e *Emitter) Len() int {
	return len(e.particles)
}

// Spawned returns how many particles this emitter has created in total.
func (e *Emitter) Spawned() int {
	return e.spawned
}

// Reset drops every live particle and restarts the spawn timer.
func (e *Emitter) Reset() {
	e.particles = e.particles[:0]
	e.sinceSpawn = 0
}

// Engine advances emitters. It carries the random source and the point the
// particles should face when spawned.
type Engine struct {
	rng    *rand.Rand
	Viewer vmath.Vec3
	Tint   vmath.RGBA
}

// NewEngine creates an engine with its own RNG.
func NewEngine(seed int64) *Engine {
	return &Engine{
		rng:  rand.New(rand.NewSource(seed)), // #nosec G404 -- cosmetic only
		Tint: vmath.Orange,
	}
}

// Advance runs one tick of dt seconds on e: spawn when the interval has
// elapsed, then move, shrink and fade every live particle and drop the ones
// whose opacity reached zero.
func (en *Engine) Advance(e *Emitter, dt float64) {
	if e == nil || dt <= 0 {
		return
	}
	interval := e.SpawnInterval
	if interval <= 0 {
		interval = DefaultSpawnInterval
	}
	e.sinceSpawn += dt
	if e.sinceSpawn > interval {
		e.particles = append(e.particles, en.spawn(e))
		e.spawned++
		e.sinceSpawn = 0
	}

	kept := e.particles[:0]
	for _, p := range e.particles {
		p.Position = p.Position.Add(p.Velocity.Scale(dt))
		p.Scale *= ScaleDecay
		p.Alpha -= FadeRate * dt
		if p.Dead() {
			continue
		}
		kept = append(kept, p)
	}
	for i := len(kept); i < len(e.particles); i++ {
		e.particles[i] = nil
	}
	e.particles = kept
}

func (en *Engine) spawn(e *Emitter) *Particle {
	jitter := func(r float64) float64 { return (en.rng.Float64()*2 - 1) * r }
	yaw := vmath.YawTo(e.Position, en.Viewer)
	return &Particle{
		Position: e.Position.Add(vmath.V3(jitter(LateralJitter), 0, jitter(LateralJitter))),
		Velocity: vmath.V3(0, RiseSpeedMin+en.rng.Float64()*(RiseSpeedMax-RiseSpeedMin), 0),
		Rotation: vmath.V3(jitter(TiltJitter), -yaw, jitter(TiltJitter)),
		Scale:    InitialScale,
		Alpha:    InitialAlpha,
		Color:    en.Tint,
	}
}
