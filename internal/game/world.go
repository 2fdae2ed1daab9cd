package game

import (
	"github.com/Garsondee/Ember-Range/internal/scene"
	"github.com/Garsondee/Ember-Range/internal/vmath"
)

// HitKind classifies what a segment struck. The order is also the tie-break
// order when two hits share the same entry fraction.
type HitKind int

const (
	HitNone HitKind = iota
	HitWorld
	HitObject
	HitEnemy
	HitPlayer
)

func (k HitKind) String() string {
	switch k {
	case HitWorld:
		return "world"
	case HitObject:
		return "object"
	case HitEnemy:
		return "enemy"
	case HitPlayer:
		return "player"
	default:
		return "none"
	}
}

// Contact is the result of a hit query.
type Contact struct {
	Kind   HitKind
	Hit    vmath.Hit
	Object *scene.PlacedObject
	Enemy  *Enemy
}

// World answers segment queries against the ground slab, the placed objects
// and the actors.
type World struct {
	Ground  vmath.AABB
	Scene   *scene.Scene
	Enemies *EnemyController
	Player  *Player
	tuning  *Tuning
}

// NewWorld builds the ground slab from t.
func NewWorld(t *Tuning, sc *scene.Scene, enemies *EnemyController, player *Player) *World {
	return &World{
		Ground:  vmath.BoxAt(t.GroundCenter, t.GroundHalfExtents),
		Scene:   sc,
		Enemies: enemies,
		Player:  player,
		tuning:  t,
	}
}

// FirstHit returns the nearest thing the segment from→to enters. Player
// bullets test enemies, enemy bullets test the player. Emitters have no
// collider. Ground and objects are bounce surfaces, so a segment leaving
// one is free; actors are solid and a segment starting inside one hits it.
func (w *World) FirstHit(from, to vmath.Vec3, owner OwnerKind) (Contact, bool) {
	best := Contact{Kind: HitNone}
	consider := func(c Contact) {
		// Strict less keeps the earlier category on an exact tie.
		if best.Kind == HitNone || c.Hit.T < best.Hit.T {
			best = c
		}
	}

	if h, ok := vmath.SweepAABB(from, to, w.Ground); ok {
		consider(Contact{Kind: HitWorld, Hit: h})
	}
	if w.Scene != nil {
		for _, o := range w.Scene.Objects() {
			if o.IsEmitter() {
				continue
			}
			if h, ok := vmath.SweepAABB(from, to, o.Bounds()); ok {
				consider(Contact{Kind: HitObject, Hit: h, Object: o})
			}
		}
	}
	switch owner {
	case OwnerPlayer:
		if w.Enemies != nil {
			for _, e := range w.Enemies.Enemies() {
				if e.dead {
					continue
				}
				if h, ok := vmath.SweepSolidAABB(from, to, e.Bounds(w.tuning.EnemyHalfExtents)); ok {
					consider(Contact{Kind: HitEnemy, Hit: h, Enemy: e})
				}
			}
		}
	case OwnerEnemy:
		if w.Player != nil && !w.Player.Defeated() {
			if h, ok := vmath.SweepSphere(from, to, w.Player.Position, w.tuning.PlayerHitRadius); ok {
				consider(Contact{Kind: HitPlayer, Hit: h})
			}
		}
	}
	return best, best.Kind != HitNone
}

// PointerHit resolves the pointer ray against the ground and the placed
// objects, returning the world-space hit point and the hovered object (nil
// when the ground was hit).
func (w *World) PointerHit(from, to vmath.Vec3) (vmath.Vec3, *scene.PlacedObject, bool) {
	var (
		point   vmath.Vec3
		hovered *scene.PlacedObject
		bestT   = 2.0
	)
	if h, ok := vmath.SweepAABB(from, to, w.Ground); ok {
		point, bestT = h.Point, h.T
	}
	if w.Scene != nil {
		if o, h, ok := w.Scene.Pick(from, to); ok && h.T < bestT {
			point, hovered, bestT = h.Point, o, h.T
		}
	}
	return point, hovered, bestT <= 1
}
