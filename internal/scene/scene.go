package scene

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Garsondee/Ember-Range/internal/vmath"
)

// Editor placement constants.
const (
	GridSize    = 1.0  // placement snaps X/Z to this grid
	PlaceLift   = 0.8  // placed objects sit this far above the snapped point
	StackOffset = 0.23 // extra gap when stacking onto another object
	ObjectScale = 1.0
	NudgeStep   = 0.25 // editor move step per key press
)

var (
	ErrNotFound    = errors.New("scene: object not found")
	ErrUnknownKind = errors.New("scene: unknown kind")
	ErrBadAxis     = errors.New("scene: axis must be x, y or z")
)

// SoundPlayer plays a sound file. It is implemented by the host's audio
// layer; the scene only decides when. Sounds are keyed by the owning
// object's ID so Stop can silence them when the object goes away.
type SoundPlayer interface {
	Play(key, file string, loop bool) error
	Stop(key string)
}

type nopSound struct{}

func (nopSound) Play(string, string, bool) error { return nil }
func (nopSound) Stop(string)                     {}

// Scene is the ordered collection of placed objects. It is the only writer of
// that collection.
type Scene struct {
	reg     *Registry
	objects []*PlacedObject
	sound   SoundPlayer
	log     zerolog.Logger
}

// Option configures a Scene.
type Option func(*Scene)

// WithLogger sets the logger used for warnings.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Scene) { s.log = l }
}

// WithSoundPlayer sets the player used for attached sounds.
func WithSoundPlayer(p SoundPlayer) Option {
	return func(s *Scene) {
		if p != nil {
			s.sound = p
		}
	}
}

// New creates an empty scene using reg to resolve kinds. A nil reg means
// DefaultRegistry.
func New(reg *Registry, opts ...Option) *Scene {
	if reg == nil {
		reg = DefaultRegistry()
	}
	s := &Scene{reg: reg, sound: nopSound{}, log: zerolog.Nop()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Registry returns the kind registry the scene resolves against.
func (s *Scene) Registry() *Registry {
	return s.reg
}

// Objects returns the placed objects in placement order. Callers must not
// modify the slice; it is replaced on Delete, Clear and Replace.
func (s *Scene) Objects() []*PlacedObject {
	return s.objects
}

// Len returns the number of placed objects.
func (s *Scene) Len() int {
	return len(s.objects)
}

// Get returns the object with the given id.
func (s *Scene) Get(id uuid.UUID) (*PlacedObject, bool) {
	for _, o := range s.objects {
		if o.ID == id {
			return o, true
		}
	}
	return nil, false
}

// Build constructs an object of kind k without adding it to the scene.
// Unknown kinds fall back to DefaultArchetype with a warning.
func (s *Scene) Build(k Kind, pos, rot vmath.Vec3, c vmath.RGBA) *PlacedObject {
	if _, ok := s.reg.Lookup(k); !ok && !IsEmitterKind(k) {
		s.log.Warn().Str("kind", string(k)).Msg("unknown object kind, using default archetype")
	}
	return s.buildQuiet(k, pos, rot, c)
}

func (s *Scene) buildQuiet(k Kind, pos, rot vmath.Vec3, c vmath.RGBA) *PlacedObject {
	if IsEmitterKind(k) {
		a, _ := s.reg.Lookup(KindFlame)
		return newEmitter(a, pos, rot, c)
	}
	if a, ok := s.reg.Lookup(k); ok {
		return newStatic(k, a, pos, rot, c)
	}
	return newStatic(k, DefaultArchetype, pos, rot, c)
}

// Add appends obj to the scene and starts its sound if it plays on awake.
func (s *Scene) Add(obj *PlacedObject) {
	s.objects = append(s.objects, obj)
	s.awaken(obj)
}

// Place creates an object of kind k at the editor's pointer hit point. X and
// Z snap to the grid. When onto is non-nil the object is stacked on top of it,
// otherwise it keeps the hit point's height.
func (s *Scene) Place(k Kind, hit vmath.Vec3, onto *PlacedObject) (*PlacedObject, error) {
	if _, ok := s.reg.Lookup(k); !ok && !IsEmitterKind(k) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, k)
	}
	p := vmath.SnapXZ(hit, GridSize)
	if onto != nil {
		p.Y = onto.Position.Y + ObjectScale + StackOffset
	}
	p.Y += PlaceLift
	obj := s.Build(k, p, vmath.Zero, vmath.White)
	s.Add(obj)
	s.log.Debug().Str("kind", string(k)).Str("id", obj.ID.String()).
		Floats64("pos", []float64{p.X, p.Y, p.Z}).Msg("placed object")
	return obj, nil
}

// Delete removes the object with the given id.
func (s *Scene) Delete(id uuid.UUID) error {
	for i, o := range s.objects {
		if o.ID != id {
			continue
		}
		// Rebuild rather than shift in place so a caller still ranging over
		// the previous slice sees a stable snapshot.
		next := make([]*PlacedObject, 0, len(s.objects)-1)
		next = append(next, s.objects[:i]...)
		next = append(next, s.objects[i+1:]...)
		s.objects = next
		s.destroy(o)
		return nil
	}
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Nudge moves an object by step along one axis ("x", "y" or "z").
func (s *Scene) Nudge(id uuid.UUID, axis string, step float64) error {
	o, ok := s.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	p := o.Position
	switch axis {
	case "x":
		p.X += step
	case "y":
		p.Y += step
	case "z":
		p.Z += step
	default:
		return fmt.Errorf("%w: %q", ErrBadAxis, axis)
	}
	o.setPosition(p)
	return nil
}

// SetTransform overwrites an object's position and rotation.
func (s *Scene) SetTransform(id uuid.UUID, pos, rot vmath.Vec3) error {
	o, ok := s.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	o.setPosition(pos)
	o.Rotation = rot
	return nil
}

// SetColor overwrites an object's tint.
func (s *Scene) SetColor(id uuid.UUID, c vmath.RGBA) error {
	o, ok := s.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	o.Color = c
	return nil
}

// AttachSound sets or clears (meta == nil) an object's sound. A sound that
// plays on awake starts immediately.
func (s *Scene) AttachSound(id uuid.UUID, meta *SoundMeta) error {
	o, ok := s.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if meta != nil {
		m := *meta
		meta = &m
	}
	s.sound.Stop(o.ID.String())
	o.Sound = meta
	s.awaken(o)
	return nil
}

// TriggerSound plays an object's attached sound regardless of its autoplay
// flag. Objects without a sound are ignored.
func (s *Scene) TriggerSound(id uuid.UUID) error {
	o, ok := s.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if o.Sound == nil || o.Sound.File == "" {
		return nil
	}
	return s.sound.Play(o.ID.String(), o.Sound.File, o.Sound.Loop)
}

// Clear destroys every placed object.
func (s *Scene) Clear() {
	for _, o := range s.objects {
		s.destroy(o)
	}
	s.objects = nil
}

// destroy releases what an object owns outside the collection: its live
// particles and any sound still playing for it.
func (s *Scene) destroy(o *PlacedObject) {
	if o.Emitter != nil {
		o.Emitter.Reset()
	}
	if o.Sound != nil {
		s.sound.Stop(o.ID.String())
	}
}

// Replace clears the scene and repopulates it with objs in order.
func (s *Scene) Replace(objs []*PlacedObject) {
	s.Clear()
	s.objects = make([]*PlacedObject, 0, len(objs))
	for _, o := range objs {
		s.Add(o)
	}
}

// Pick returns the object whose collider the segment from→to enters first.
func (s *Scene) Pick(from, to vmath.Vec3) (*PlacedObject, vmath.Hit, bool) {
	var (
		best    *PlacedObject
		bestHit vmath.Hit
	)
	for _, o := range s.objects {
		h, ok := vmath.SweepAABB(from, to, o.Bounds())
		if !ok {
			continue
		}
		if best == nil || h.T < bestHit.T {
			best, bestHit = o, h
		}
	}
	return best, bestHit, best != nil
}

func (s *Scene) awaken(o *PlacedObject) {
	if o.Sound == nil || o.Sound.File == "" || !o.Sound.PlayOnAwake {
		return
	}
	if err := s.sound.Play(o.ID.String(), o.Sound.File, o.Sound.Loop); err != nil {
		s.log.Warn().Err(err).Str("file", o.Sound.File).Msg("could not play attached sound")
	}
}
