package particle

import (
	"math"
	"testing"

	"github.com/Garsondee/Ember-Range/internal/vmath"
)

func TestAdvance_BoundedByInterval(t *testing.T) {
	en := NewEngine(1)
	e := NewEmitter(vmath.V3(0, 1, 0))
	e.SpawnInterval = 0.05

	const dt = 0.1
	for i := 0; i < 10; i++ {
		en.Advance(e, dt)
	}
	if e.Spawned() > 20 {
		t.Fatalf("spawned %d particles in 1s, want <= 20", e.Spawned())
	}
	if e.Spawned() != 10 {
		t.Fatalf("one spawn per tick expected at dt > interval, got %d", e.Spawned())
	}
	if e.Len() != e.Spawned() {
		t.Fatalf("no particle should have faded after 1s, live=%d spawned=%d", e.Len(), e.Spawned())
	}
}

func TestAdvance_NoSpawnBeforeInterval(t *testing.T) {
	en := NewEngine(1)
	e := NewEmitter(vmath.Zero)
	en.Advance(e, 0.02)
	en.Advance(e, 0.02)
	if e.Len() != 0 {
		t.Fatalf("spawned before interval elapsed: %d", e.Len())
	}
	en.Advance(e, 0.02)
	if e.Len() != 1 {
		t.Fatalf("expected one spawn once 0.06s > 0.05s, got %d", e.Len())
	}
}

func TestAdvance_ParticlesRiseShrinkAndFade(t *testing.T) {
	en := NewEngine(3)
	e := NewEmitter(vmath.V3(5, 2, 5))
	en.Advance(e, 0.1)
	if e.Len() != 1 {
		t.Fatalf("expected 1 particle, got %d", e.Len())
	}
	p := e.Particles()[0]

	if math.Abs(p.Position.X-5) > LateralJitter+1e-9 || math.Abs(p.Position.Z-5) > LateralJitter+1e-9 {
		t.Fatalf("lateral jitter out of range: %+v", p.Position)
	}
	if p.Velocity.X != 0 || p.Velocity.Z != 0 {
		t.Fatalf("velocity must be purely upward: %+v", p.Velocity)
	}
	if p.Velocity.Y < RiseSpeedMin || p.Velocity.Y > RiseSpeedMax {
		t.Fatalf("rise speed out of range: %f", p.Velocity.Y)
	}
	if math.Abs(p.Scale-InitialScale*ScaleDecay) > 1e-12 {
		t.Fatalf("scale after one tick = %f", p.Scale)
	}
	if math.Abs(p.Alpha-(1-FadeRate*0.1)) > 1e-12 {
		t.Fatalf("alpha after one tick = %f", p.Alpha)
	}

	y := p.Position.Y
	en.Advance(e, 0.01)
	if p.Position.Y <= y {
		t.Fatal("particle should keep rising")
	}
}

func TestAdvance_RetiresFadedParticles(t *testing.T) {
	en := NewEngine(5)
	e := NewEmitter(vmath.Zero)
	e.SpawnInterval = 0.05

	const dt = 0.1
	for i := 0; i < 10; i++ {
		en.Advance(e, dt)
	}
	first := e.Particles()[0]

	// Stop spawning and let everything burn out.
	e.SpawnInterval = math.Inf(1)
	for i := 0; i < 40; i++ {
		en.Advance(e, dt)
		for _, p := range e.Particles() {
			if p.Alpha <= 0 {
				t.Fatalf("tick %d: particle with alpha %f still live", i, p.Alpha)
			}
		}
	}
	if e.Len() != 0 {
		t.Fatalf("expected every particle retired, %d left", e.Len())
	}
	if first.Alpha > 0 {
		t.Fatalf("retired particle alpha = %f, want <= 0", first.Alpha)
	}
}

func TestAdvance_NilAndZeroDt(t *testing.T) {
	en := NewEngine(1)
	en.Advance(nil, 0.1)
	e := NewEmitter(vmath.Zero)
	en.Advance(e, 0)
	if e.Len() != 0 {
		t.Fatal("zero dt should do nothing")
	}
}
