package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	feedPanelWidth = 280
	feedMaxEntries = 60
	feedLineHeight = 11
)

// FeedKind tints a feed line.
type FeedKind int

const (
	FeedInfo FeedKind = iota
	FeedHit
	FeedKill
	FeedDamage
	FeedOutcome
)

var feedColors = map[FeedKind]color.RGBA{
	FeedInfo:    {R: 150, G: 150, B: 150, A: 255},
	FeedHit:     {R: 240, G: 210, B: 90, A: 255},
	FeedKill:    {R: 90, G: 220, B: 110, A: 255},
	FeedDamage:  {R: 230, G: 70, B: 60, A: 255},
	FeedOutcome: {R: 120, G: 170, B: 255, A: 255},
}

// FeedEntry is a single line in the combat feed.
type FeedEntry struct {
	Tick    int
	Label   string // "P", "E3", "--"
	Kind    FeedKind
	Message string
}

// CombatFeed is a ring buffer of recent combat lines rendered on-screen.
type CombatFeed struct {
	entries []FeedEntry
	head    int
	count   int
}

// NewCombatFeed creates a feed with a fixed capacity.
func NewCombatFeed() *CombatFeed {
	return &CombatFeed{entries: make([]FeedEntry, feedMaxEntries)}
}

// Add appends an entry, overwriting the oldest when full.
func (f *CombatFeed) Add(tick int, label string, kind FeedKind, msg string) {
	f.entries[f.head] = FeedEntry{Tick: tick, Label: label, Kind: kind, Message: msg}
	f.head = (f.head + 1) % feedMaxEntries
	if f.count < feedMaxEntries {
		f.count++
	}
}

// Len returns how many entries are held.
func (f *CombatFeed) Len() int { return f.count }

// Recent returns entries in chronological order (oldest first).
func (f *CombatFeed) Recent() []FeedEntry {
	result := make([]FeedEntry, f.count)
	for i := 0; i < f.count; i++ {
		idx := (f.head - f.count + i + feedMaxEntries) % feedMaxEntries
		result[i] = f.entries[idx]
	}
	return result
}

// Draw renders the feed panel at panelX, newest line at the bottom.
func (f *CombatFeed) Draw(screen *ebiten.Image, panelX, panelH int) {
	vector.FillRect(screen, float32(panelX), 0, feedPanelWidth, float32(panelH), color.RGBA{R: 12, G: 10, B: 10, A: 240}, false)
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1.0, color.RGBA{R: 80, G: 50, B: 40, A: 255}, false)
	vector.FillRect(screen, float32(panelX), 0, feedPanelWidth, 16, color.RGBA{R: 30, G: 20, B: 18, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, "COMBAT FEED", panelX+8, 2)

	entries := f.Recent()
	maxVisible := (panelH - 24) / feedLineHeight
	if len(entries) > maxVisible {
		entries = entries[len(entries)-maxVisible:]
	}
	y := 20
	for _, e := range entries {
		vector.FillRect(screen, float32(panelX+5), float32(y+3), 3, 5, feedColors[e.Kind], false)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%5d [%s] %s", e.Tick, e.Label, e.Message), panelX+12, y)
		y += feedLineHeight
	}
}
