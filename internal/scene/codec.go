package scene

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/Garsondee/Ember-Range/internal/vmath"
)

// Scene file layout:
//
//	magic   "EMBR"
//	version uint8
//	payload msgpack array of records
const (
	fileMagic     = "EMBR"
	FormatVersion = 1
	headerLen     = len(fileMagic) + 1
)

var (
	ErrBadMagic           = errors.New("scene: not a scene file")
	ErrUnsupportedVersion = errors.New("scene: unsupported format version")
	ErrCorrupt            = errors.New("scene: corrupt payload")
)

type soundRecord struct {
	File        string `msgpack:"f"`
	PlayOnAwake bool   `msgpack:"a"`
	Loop        bool   `msgpack:"l"`
}

// Vector fields are slices so short or missing arrays fail validate.
type record struct {
	Kind     string       `msgpack:"k"`
	Position []float64    `msgpack:"p"`
	Rotation []float64    `msgpack:"r"`
	Color    []float64    `msgpack:"c"`
	Sound    *soundRecord `msgpack:"s,omitempty"`
}

func (r record) validate() error {
	switch {
	case r.Kind == "":
		return errors.New("missing kind")
	case len(r.Position) != 3:
		return fmt.Errorf("position has %d values, want 3", len(r.Position))
	case len(r.Rotation) != 3:
		return fmt.Errorf("rotation has %d values, want 3", len(r.Rotation))
	case len(r.Color) != 4:
		return fmt.Errorf("color has %d values, want 4", len(r.Color))
	case !finite(r.Position) || !finite(r.Rotation) || !finite(r.Color):
		return errors.New("non-finite values")
	}
	return nil
}

// Codec converts between a scene's placed objects and the binary format.
type Codec struct {
	log zerolog.Logger
}

// NewCodec creates a codec that logs skipped and substituted objects to l.
func NewCodec(l zerolog.Logger) *Codec {
	return &Codec{log: l}
}

// Encode serializes objs in order. Objects whose archetype does not resolve
// to a registered kind are skipped with a warning.
func (c *Codec) Encode(reg *Registry, objs []*PlacedObject) ([]byte, error) {
	recs := make([]record, 0, len(objs))
	for i, o := range objs {
		var kind Kind
		if o.IsEmitter() {
			kind = EmitterTag
		} else {
			k, ok := reg.KindFor(o.Archetype)
			if !ok {
				c.log.Warn().Int("index", i).Str("archetype", o.Archetype.Name).
					Msg("could not resolve object kind, skipping")
				continue
			}
			kind = k
		}
		pos, rot, col := o.Position.Array(), o.Rotation.Array(), o.Color.Array()
		rec := record{
			Kind:     string(kind),
			Position: pos[:],
			Rotation: rot[:],
			Color:    col[:],
		}
		if o.Sound != nil {
			rec.Sound = &soundRecord{File: o.Sound.File, PlayOnAwake: o.Sound.PlayOnAwake, Loop: o.Sound.Loop}
		}
		recs = append(recs, rec)
	}

	payload, err := msgpack.Marshal(recs)
	if err != nil {
		return nil, fmt.Errorf("encode scene: %w", err)
	}
	out := make([]byte, 0, headerLen+len(payload))
	out = append(out, fileMagic...)
	out = append(out, FormatVersion)
	out = append(out, payload...)
	return out, nil
}

// Decode validates data completely and builds fresh objects from it. Nothing
// is returned unless the whole payload is well formed. Unknown kinds fall
// back to DefaultArchetype with a warning.
func (c *Codec) Decode(reg *Registry, data []byte) ([]*PlacedObject, error) {
	recs, err := c.decodeRecords(data)
	if err != nil {
		return nil, err
	}
	builder := New(reg, WithLogger(c.log))
	objs := make([]*PlacedObject, 0, len(recs))
	for i, r := range recs {
		k := Kind(r.Kind)
		if _, ok := reg.Lookup(k); !ok && !IsEmitterKind(k) {
			c.log.Warn().Int("index", i).Str("kind", r.Kind).
				Msg("unknown object kind in scene file, using default archetype")
		}
		o := builder.buildQuiet(k, vmath.FromArray([3]float64(r.Position)), vmath.FromArray([3]float64(r.Rotation)),
			vmath.RGBAFromArray([4]float64(r.Color)))
		if r.Sound != nil {
			o.Sound = &SoundMeta{File: r.Sound.File, PlayOnAwake: r.Sound.PlayOnAwake, Loop: r.Sound.Loop}
		}
		objs = append(objs, o)
	}
	return objs, nil
}

func (c *Codec) decodeRecords(data []byte) ([]record, error) {
	if len(data) < headerLen || string(data[:len(fileMagic)]) != fileMagic {
		return nil, ErrBadMagic
	}
	if v := data[len(fileMagic)]; v != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, v)
	}

	rd := bytes.NewReader(data[headerLen:])
	dec := msgpack.NewDecoder(rd)
	var recs []record
	if err := dec.Decode(&recs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if rd.Len() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCorrupt, rd.Len())
	}
	for i, r := range recs {
		if err := r.validate(); err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrCorrupt, i, err)
		}
	}
	return recs, nil
}

// Save encodes the scene's current objects.
func (c *Codec) Save(s *Scene) ([]byte, error) {
	return c.Encode(s.Registry(), s.Objects())
}

// Load replaces the scene's objects with those in data. On any error the
// scene is left exactly as it was.
func (c *Codec) Load(s *Scene, data []byte) error {
	objs, err := c.Decode(s.Registry(), data)
	if err != nil {
		return err
	}
	s.Replace(objs)
	c.log.Info().Int("objects", len(objs)).Msg("scene loaded")
	return nil
}

// SaveFile writes the scene to path.
func (c *Codec) SaveFile(s *Scene, path string) error {
	data, err := c.Save(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write scene file: %w", err)
	}
	c.log.Info().Str("path", path).Int("bytes", len(data)).Msg("scene saved")
	return nil
}

// LoadFile reads path and loads it into s. A missing or unreadable file
// leaves s untouched.
func (c *Codec) LoadFile(s *Scene, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read scene file: %w", err)
	}
	return c.Load(s, data)
}

func finite(vs []float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
