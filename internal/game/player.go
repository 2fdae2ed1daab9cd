package game

import (
	"github.com/rs/zerolog"

	"github.com/Garsondee/Ember-Range/internal/vmath"
)

// HUD receives the value updates the simulation pushes to the screen.
type HUD interface {
	RemoveHeart(index int)
	SetKills(n int)
	ShowDefeat()
	ShowVictory()
}

// HUDState is the in-memory HUD the ebiten host draws from. Tests use it to
// observe what the simulation pushed.
type HUDState struct {
	Hearts  []bool // true while the heart at that slot is still shown
	Kills   int
	Defeat  bool
	Victory bool

	Removed      []int // heart indices in removal order
	DefeatShown  int
	VictoryShown int
}

// NewHUDState creates a HUD with n hearts showing.
func NewHUDState(n int) *HUDState {
	h := &HUDState{Hearts: make([]bool, n)}
	for i := range h.Hearts {
		h.Hearts[i] = true
	}
	return h
}

// RemoveHeart hides heart index and records the order of removal.
func (h *HUDState) RemoveHeart(index int) {
	if index >= 0 && index < len(h.Hearts) {
		h.Hearts[index] = false
	}
	h.Removed = append(h.Removed, index)
}

// SetKills updates the kill counter.
func (h *HUDState) SetKills(n int) { h.Kills = n }

// ShowDefeat raises the defeat banner and counts how often it was raised.
func (h *HUDState) ShowDefeat() {
	h.Defeat = true
	h.DefeatShown++
}

// ShowVictory raises the victory banner and counts how often it was raised.
func (h *HUDState) ShowVictory() {
	h.Victory = true
	h.VictoryShown++
}

// HeartsShown counts the hearts still visible.
func (h *HUDState) HeartsShown() int {
	n := 0
	for _, on := range h.Hearts {
		if on {
			n++
		}
	}
	return n
}

// --- Player ---

// Player is the single human-controlled actor. Position is the feet point.
type Player struct {
	Position        vmath.Vec3
	Yaw             float64 // degrees, 0 faces +Z
	Aim             vmath.Vec3
	Health          int
	MaxHealth       int
	SpeedMultiplier float64

	speed    float64
	disabled bool
	hud      HUD
	log      zerolog.Logger
}

// NewPlayer creates a player at full health standing at t.PlayerStart.
func NewPlayer(t Tuning, hud HUD, log zerolog.Logger) *Player {
	return &Player{
		Position:        t.PlayerStart,
		Aim:             vmath.Forward,
		Health:          t.PlayerMaxHealth,
		MaxHealth:       t.PlayerMaxHealth,
		SpeedMultiplier: t.SpeedMultiplier,
		speed:           t.PlayerSpeed,
		hud:             hud,
		log:             log,
	}
}

// Defeated reports whether the player reached the terminal state.
func (p *Player) Defeated() bool { return p.disabled }

// ApplyDamage removes n health, one heart per point, right to left. It
// returns how much was actually applied; once defeated it applies nothing.
func (p *Player) ApplyDamage(n int) int {
	applied := 0
	for i := 0; i < n && !p.disabled; i++ {
		p.Health--
		applied++
		if p.hud != nil {
			p.hud.RemoveHeart(p.Health)
		}
		if p.Health <= 0 {
			p.Health = 0
			p.disabled = true
			if p.hud != nil {
				p.hud.ShowDefeat()
			}
			p.log.Info().Msg("player defeated")
		}
	}
	return applied
}

// Move walks the player along dir on the XZ plane. dir need not be unit.
func (p *Player) Move(dir vmath.Vec3, dt float64) {
	if p.disabled || dt <= 0 {
		return
	}
	flat := vmath.V3(dir.X, 0, dir.Z)
	if flat.LenSq() == 0 {
		return
	}
	step := flat.Normalized().Scale(p.speed * p.SpeedMultiplier * dt)
	p.Position = p.Position.Add(step)
}

// Face sets the body yaw and points the aim along it.
func (p *Player) Face(yaw float64) {
	if p.disabled {
		return
	}
	p.Yaw = yaw
	p.Aim = vmath.ForwardFromYaw(yaw)
}

// AimAt points the weapon from the muzzle base toward target and turns the
// body to match.
func (p *Player) AimAt(target vmath.Vec3, muzzleHeight float64) {
	if p.disabled {
		return
	}
	base := p.Position.Add(vmath.V3(0, muzzleHeight, 0))
	d := target.Sub(base)
	if d.LenSq() == 0 {
		return
	}
	p.Aim = d.Normalized()
	p.Yaw = vmath.YawTo(base, target)
}
