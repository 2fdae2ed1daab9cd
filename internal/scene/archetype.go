// Package scene holds the placed-object collection, the editor operations on
// it, and the binary codec that saves and restores it.
package scene

// Kind is the tag a placed object is saved under.
type Kind string

// Static kinds and the emitter tags.
const (
	KindBox   Kind = "box"
	KindSand  Kind = "sand"
	KindTrunk Kind = "trunk"
	KindLeaf  Kind = "leaf"
	KindGlass Kind = "glass"
	KindBrick Kind = "brick"

	// KindFlame is the editor's name for an emitter; files store EmitterTag.
	KindFlame  Kind = "flame"
	EmitterTag Kind = "flameparticlesystem"
)

// Archetype is the visual template a kind resolves to.
type Archetype struct {
	Name    string
	Model   string // empty for emitters, which have no mesh
	Texture string
}

// DefaultArchetype is used for records whose kind is not registered.
var DefaultArchetype = Archetype{Name: "default", Model: "cube", Texture: "white_cube"}

// Registry maps kinds to archetypes. Kinds keep their registration order so
// editor palettes are stable.
type Registry struct {
	order  []Kind
	byKind map[Kind]Archetype
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byKind: make(map[Kind]Archetype)}
}

// DefaultRegistry returns the stock palette.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, k := range []Kind{KindBox, KindSand, KindTrunk, KindLeaf, KindGlass, KindBrick} {
		r.Register(k, Archetype{Name: string(k), Model: string(k) + ".obj", Texture: string(k) + ".png"})
	}
	r.Register(KindFlame, Archetype{Name: string(KindFlame), Texture: "flame.png"})
	return r
}

// Register adds or replaces the archetype for k.
func (r *Registry) Register(k Kind, a Archetype) {
	if _, ok := r.byKind[k]; !ok {
		r.order = append(r.order, k)
	}
	r.byKind[k] = a
}

// Lookup returns the archetype registered for k.
func (r *Registry) Lookup(k Kind) (Archetype, bool) {
	a, ok := r.byKind[k]
	return a, ok
}

// Kinds returns the registered kinds in registration order.
func (r *Registry) Kinds() []Kind {
	out := make([]Kind, len(r.order))
	copy(out, r.order)
	return out
}

// KindFor finds the static kind whose archetype has the given model. Models
// are unique per kind; emitters have no model and never match.
func (r *Registry) KindFor(a Archetype) (Kind, bool) {
	if a.Model == "" {
		return "", false
	}
	for _, k := range r.order {
		if r.byKind[k].Model == a.Model {
			return k, true
		}
	}
	return "", false
}

// IsEmitterKind reports whether k names a particle emitter.
func IsEmitterKind(k Kind) bool {
	return k == EmitterTag || k == KindFlame
}
