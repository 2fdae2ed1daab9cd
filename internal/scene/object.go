package scene

import (
	"github.com/google/uuid"

	"github.com/Garsondee/Ember-Range/internal/particle"
	"github.com/Garsondee/Ember-Range/internal/vmath"
)

// SoundMeta is the optional sound attached to a placed object.
type SoundMeta struct {
	File        string
	PlayOnAwake bool
	Loop        bool
}

// PlacedObject is a static model or an emitter placed in the scene.
type PlacedObject struct {
	ID        uuid.UUID
	Kind      Kind // kind the object was created from; informational
	Archetype Archetype
	Position  vmath.Vec3
	Rotation  vmath.Vec3 // Euler degrees
	Color     vmath.RGBA
	Sound     *SoundMeta

	// Emitter is non-nil for emitter objects. Its live particles are not
	// saved; only the object's placement is.
	Emitter *particle.Emitter
}

// objectHalfExtents is the collider of every placed object (unit cube).
var objectHalfExtents = vmath.V3(0.5, 0.5, 0.5)

// IsEmitter reports whether the object carries a particle emitter.
func (o *PlacedObject) IsEmitter() bool {
	return o.Emitter != nil
}

// Bounds returns the object's box collider.
func (o *PlacedObject) Bounds() vmath.AABB {
	return vmath.BoxAt(o.Position, objectHalfExtents)
}

// setPosition moves the object and its emitter together.
func (o *PlacedObject) setPosition(p vmath.Vec3) {
	o.Position = p
	if o.Emitter != nil {
		o.Emitter.Position = p
	}
}

func newStatic(k Kind, a Archetype, pos, rot vmath.Vec3, c vmath.RGBA) *PlacedObject {
	return &PlacedObject{
		ID:        uuid.New(),
		Kind:      k,
		Archetype: a,
		Position:  pos,
		Rotation:  rot,
		Color:     c,
	}
}

func newEmitter(a Archetype, pos, rot vmath.Vec3, c vmath.RGBA) *PlacedObject {
	return &PlacedObject{
		ID:        uuid.New(),
		Kind:      EmitterTag,
		Archetype: a,
		Position:  pos,
		Rotation:  rot,
		Color:     c,
		Emitter:   particle.NewEmitter(pos),
	}
}
