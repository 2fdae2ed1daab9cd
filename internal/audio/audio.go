// Package audio plays the game's sound assets through ebiten's audio
// context. One Player serves both the scene's attached sounds and the
// combat effects.
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
	"github.com/rs/zerolog"
)

// SampleRate is the output rate every asset is decoded to.
const SampleRate = 44100

// ErrUnsupportedFormat is returned for assets that are neither mp3 nor wav.
var ErrUnsupportedFormat = errors.New("audio: unsupported format")

// Player decodes assets once and plays them on demand. Keyed voices are
// retained until Stop or Close; finished one-shots are dropped as new ones
// start.
type Player struct {
	mu      sync.Mutex
	ctx     *audio.Context
	dir     string
	cache   map[string][]byte
	alias   map[string]string
	voices  map[string][]*audio.Player
	enabled bool
	log     zerolog.Logger
}

// New creates a player reading assets from dir. With enabled false every
// call is a silent no-op and no audio device is opened.
func New(dir string, enabled bool, log zerolog.Logger) *Player {
	p := &Player{
		dir:     dir,
		cache:   map[string][]byte{},
		alias:   map[string]string{},
		voices:  map[string][]*audio.Player{},
		enabled: enabled,
		log:     log,
	}
	if enabled {
		// ebiten allows one context per process.
		if p.ctx = audio.CurrentContext(); p.ctx == nil {
			p.ctx = audio.NewContext(SampleRate)
		}
	}
	return p
}

// Alias makes requests for name load file instead. The host uses it to map
// the combat effect names onto configured assets.
func (p *Player) Alias(name, file string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if file == "" || file == name {
		delete(p.alias, name)
		return
	}
	p.alias[name] = file
}

// Play starts file under key, looping it when loop is set. It satisfies the
// scene's sound boundary, which keys sounds by object.
func (p *Player) Play(key, file string, loop bool) error {
	if !p.enabled {
		return nil
	}
	data, err := p.load(file)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	var ap *audio.Player
	if loop {
		inf := audio.NewInfiniteLoop(bytes.NewReader(data), int64(len(data)))
		if ap, err = p.ctx.NewPlayer(inf); err != nil {
			return fmt.Errorf("audio: loop %s: %w", file, err)
		}
	} else {
		ap = p.ctx.NewPlayerFromBytes(data)
	}
	ap.Play()
	p.voices[key] = append(p.prune(p.voices[key]), ap)
	return nil
}

// Stop silences and releases every voice started under key.
func (p *Player) Stop(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.release(p.voices[key]); err != nil {
		p.log.Warn().Err(err).Str("key", key).Msg("sound not released cleanly")
	}
	delete(p.voices, key)
}

// PlayEffect plays a one-shot effect at volume (0..1). Failures are logged,
// never returned: a missing gunshot must not stop the engagement.
func (p *Player) PlayEffect(name string, volume float64) {
	if !p.enabled {
		return
	}
	data, err := p.load(name)
	if err != nil {
		p.log.Warn().Err(err).Str("sound", name).Msg("effect not played")
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ap := p.ctx.NewPlayerFromBytes(data)
	ap.SetVolume(clamp01(volume))
	ap.Play()
}

// Close stops and releases every keyed voice.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	for key, vs := range p.voices {
		errs = append(errs, p.release(vs))
		delete(p.voices, key)
	}
	return errors.Join(errs...)
}

// prune closes voices that have finished and returns the rest. Callers hold mu.
func (p *Player) prune(vs []*audio.Player) []*audio.Player {
	kept := vs[:0]
	for _, ap := range vs {
		if ap.IsPlaying() {
			kept = append(kept, ap)
			continue
		}
		_ = ap.Close()
	}
	return kept
}

// release pauses and closes vs. Callers hold mu.
func (p *Player) release(vs []*audio.Player) error {
	var errs []error
	for _, ap := range vs {
		ap.Pause()
		if err := ap.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// load returns the decoded PCM for name, decoding on first use.
func (p *Player) load(name string) ([]byte, error) {
	p.mu.Lock()
	if data, ok := p.cache[name]; ok {
		p.mu.Unlock()
		return data, nil
	}
	file := name
	if f, ok := p.alias[name]; ok {
		file = f
	}
	p.mu.Unlock()

	data, err := decodeFile(filepath.Join(p.dir, file))
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.cache[name] = data
	p.log.Debug().Str("sound", name).Int("bytes", len(data)).Msg("sound decoded")
	return data, nil
}

func decodeFile(path string) ([]byte, error) {
	f, err := os.Open(path) // #nosec G304 -- asset path from local config
	if err != nil {
		return nil, fmt.Errorf("audio: open %s: %w", path, err)
	}
	defer f.Close()

	var stream io.Reader
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".mp3":
		stream, err = mp3.DecodeWithSampleRate(SampleRate, f)
	case ".wav":
		stream, err = wav.DecodeWithSampleRate(SampleRate, f)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("audio: decode %s: %w", path, err)
	}
	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("audio: read %s: %w", path, err)
	}
	return data, nil
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
