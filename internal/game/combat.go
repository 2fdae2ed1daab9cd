package game

import (
	"fmt"
	"image/color"
	"math"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/rs/zerolog"

	"github.com/Garsondee/Ember-Range/internal/vmath"
)

// Gunshot sound settings.
const (
	GunshotSound       = "ak.mp3"
	playerGunshotLevel = 0.6
	enemyGunshotLevel  = 0.1
	flashYawJitter     = 12.0 // degrees, cosmetic
)

// SoundFX plays one-shot effects. Volume is in [0,1].
type SoundFX interface {
	PlayEffect(name string, volume float64)
}

type nopFX struct{}

func (nopFX) PlayEffect(string, float64) {}

// OwnerKind says which side fired a bullet.
type OwnerKind int

const (
	OwnerPlayer OwnerKind = iota
	OwnerEnemy
)

func (o OwnerKind) String() string {
	if o == OwnerEnemy {
		return "enemy"
	}
	return "player"
}

// --- Bullet ---

// Bullet is a projectile travelling in a straight line at constant speed.
type Bullet struct {
	ID       int
	Owner    OwnerKind
	Shooter  string // "P" or the enemy label
	Position vmath.Vec3
	Origin   vmath.Vec3
	Dir      vmath.Vec3 // unit
	Speed    float64    // units/s
	Range    float64    // travel cap
	Traveled float64    // cumulative distance, bounces included
	Bounces  int
	dead     bool
}

// MuzzleFlash is a short-lived visual burst at a muzzle.
type MuzzleFlash struct {
	Position vmath.Vec3
	Yaw      float64
	Owner    OwnerKind
	age      float64 // seconds
}

// --- Stats ---

// CombatStats counts what happened to the player's and enemies' bullets.
type CombatStats struct {
	ShotsFired     int // player shots
	ShotsHit       int // player bullets that struck an enemy
	Bounces        int // player bullet reflections
	EnemyShots     int
	EnemyHits      int // enemy bullets that struck the player
	EnemyBlocked   int // enemy bullets stopped by the world or an object
	ExpiredByRange int
}

// --- Combat Manager ---

// CombatManager owns both bullet collections and the muzzle flashes.
type CombatManager struct {
	tuning        *Tuning
	playerBullets []*Bullet
	enemyBullets  []*Bullet
	flashes       []*MuzzleFlash
	lastFire      float64 // sim clock of the last player shot
	nextID        int
	stats         CombatStats
	fx            SoundFX
	rng           *rand.Rand
	log           zerolog.Logger

	simLog *SimLog
	feed   *CombatFeed
	tick   *int
}

// NewCombatManager creates a combat manager with its own RNG.
func NewCombatManager(t *Tuning, seed int64, log zerolog.Logger) *CombatManager {
	return &CombatManager{
		tuning:   t,
		lastFire: math.Inf(-1),
		fx:       nopFX{},
		rng:      rand.New(rand.NewSource(seed)), // #nosec G404 -- game only
		log:      log,
	}
}

// SetSoundFX installs the effect player; nil mutes.
func (cm *CombatManager) SetSoundFX(fx SoundFX) {
	if fx == nil {
		fx = nopFX{}
	}
	cm.fx = fx
}

// PlayerBullets returns the live player bullets; callers must not mutate it.
func (cm *CombatManager) PlayerBullets() []*Bullet { return cm.playerBullets }

// EnemyBullets returns the live enemy bullets; callers must not mutate it.
func (cm *CombatManager) EnemyBullets() []*Bullet { return cm.enemyBullets }

// ActiveFlashes returns the visible muzzle flashes.
func (cm *CombatManager) ActiveFlashes() []*MuzzleFlash { return cm.flashes }

// Stats returns a copy of the counters.
func (cm *CombatManager) Stats() CombatStats { return cm.stats }

// CanFire reports whether the player cooldown has elapsed at now.
func (cm *CombatManager) CanFire(now float64) bool {
	return now-cm.lastFire >= cm.tuning.ShootDelay
}

// FirePlayer fires from the player's muzzle along the aim if the cooldown
// allows. Defeated players never fire.
func (cm *CombatManager) FirePlayer(p *Player, now float64) (*Bullet, bool) {
	if p == nil || p.Defeated() || !cm.CanFire(now) {
		return nil, false
	}
	t := cm.tuning
	dir := p.Aim.Normalized()
	if dir.LenSq() == 0 {
		dir = vmath.ForwardFromYaw(p.Yaw)
	}
	origin := p.Position.Add(vmath.V3(0, t.PlayerMuzzleHeight, 0)).Add(dir.Scale(t.MuzzleForward))
	b := cm.fire(OwnerPlayer, "P", origin, dir, t.BulletSpeed)
	cm.lastFire = now
	cm.stats.ShotsFired++
	cm.fx.PlayEffect(GunshotSound, playerGunshotLevel)
	return b, true
}

// FireEnemy fires from e's muzzle at target. Enemies have no cooldown here;
// their timer lives in the controller.
func (cm *CombatManager) FireEnemy(e *Enemy, target vmath.Vec3) *Bullet {
	t := cm.tuning
	dir := target.Sub(e.Position).Normalized()
	if dir.LenSq() == 0 {
		dir = e.Forward()
	}
	origin := e.Position.Add(t.EnemyMuzzleOffset).Add(e.Forward().Scale(t.MuzzleForward))
	b := cm.fire(OwnerEnemy, e.Label, origin, dir, t.EnemyBulletSpeed)
	cm.stats.EnemyShots++
	cm.fx.PlayEffect(GunshotSound, enemyGunshotLevel)
	return b
}

func (cm *CombatManager) fire(owner OwnerKind, shooter string, origin, dir vmath.Vec3, speed float64) *Bullet {
	b := &Bullet{
		ID:       cm.nextID,
		Owner:    owner,
		Shooter:  shooter,
		Position: origin,
		Origin:   origin,
		Dir:      dir,
		Speed:    speed,
		Range:    cm.tuning.BulletRange,
	}
	cm.nextID++
	if owner == OwnerPlayer {
		cm.playerBullets = append(cm.playerBullets, b)
	} else {
		cm.enemyBullets = append(cm.enemyBullets, b)
	}
	cm.flashes = append(cm.flashes, &MuzzleFlash{
		Position: origin,
		Yaw:      vmath.YawTo(vmath.Zero, dir) + (cm.rng.Float64()*2-1)*flashYawJitter,
		Owner:    owner,
	})
	cm.note(shooter, owner.String(), "fire", "shot",
		fmt.Sprintf("#%d from (%.1f,%.1f,%.1f)", b.ID, origin.X, origin.Y, origin.Z), 0)
	return b
}

// Tick advances every bullet by dt and resolves at most one collision per
// bullet. Player bullets resolve before enemy bullets.
func (cm *CombatManager) Tick(dt float64, w *World) {
	if dt <= 0 {
		return
	}
	cm.playerBullets = cm.advance(cm.playerBullets, dt, w)
	cm.enemyBullets = cm.advance(cm.enemyBullets, dt, w)
}

func (cm *CombatManager) advance(bullets []*Bullet, dt float64, w *World) []*Bullet {
	kept := bullets[:0]
	for _, b := range bullets {
		cm.step(b, dt, w)
		if b.dead {
			continue
		}
		kept = append(kept, b)
	}
	for i := len(kept); i < len(bullets); i++ {
		bullets[i] = nil
	}
	return kept
}

func (cm *CombatManager) step(b *Bullet, dt float64, w *World) {
	dist := b.Speed * dt
	from := b.Position
	to := from.Add(b.Dir.Scale(dist))

	c, ok := w.FirstHit(from, to, b.Owner)
	if !ok {
		b.Position = to
		b.Traveled += dist
		cm.checkRange(b)
		return
	}

	switch {
	case b.Owner == OwnerPlayer && (c.Kind == HitWorld || c.Kind == HitObject):
		// Bounce: stop at the surface, spend the rest of the step on the
		// reflected heading.
		b.Traveled += dist * c.Hit.T
		b.Dir = vmath.Reflect(b.Dir, c.Hit.Normal).Normalized()
		rest := dist * (1 - c.Hit.T)
		b.Position = c.Hit.Point.Add(b.Dir.Scale(rest))
		b.Traveled += rest
		b.Bounces++
		cm.stats.Bounces++
		cm.note(b.Shooter, "player", "bullet", "bounce",
			fmt.Sprintf("#%d off %s", b.ID, c.Kind), float64(b.Bounces))
		cm.checkRange(b)

	case b.Owner == OwnerPlayer && c.Kind == HitEnemy:
		b.dead = true
		b.Position = c.Hit.Point
		cm.stats.ShotsHit++
		cm.note(b.Shooter, "player", "bullet", "hit_enemy",
			fmt.Sprintf("#%d hit %s", b.ID, c.Enemy.Label), 0)
		if cm.feed != nil {
			cm.feed.Add(cm.now(), "P", FeedHit, "hit "+c.Enemy.Label)
		}
		if w.Enemies != nil {
			w.Enemies.Damage(c.Enemy, 1)
		}

	case b.Owner == OwnerEnemy && c.Kind == HitPlayer:
		b.dead = true
		b.Position = c.Hit.Point
		cm.stats.EnemyHits++
		cm.note(b.Shooter, "enemy", "bullet", "hit_player", fmt.Sprintf("#%d", b.ID), 0)
		if w.Player != nil {
			w.Player.ApplyDamage(1)
			cm.note("P", "player", "player", "damage",
				fmt.Sprintf("hp %d", w.Player.Health), float64(w.Player.Health))
			if cm.feed != nil {
				cm.feed.Add(cm.now(), b.Shooter, FeedDamage, fmt.Sprintf("hit player, hp %d", w.Player.Health))
			}
		}

	default:
		// Enemy bullet against the world or an object.
		b.dead = true
		b.Position = c.Hit.Point
		cm.stats.EnemyBlocked++
		cm.note(b.Shooter, "enemy", "bullet", "blocked",
			fmt.Sprintf("#%d by %s", b.ID, c.Kind), 0)
	}
}

func (cm *CombatManager) checkRange(b *Bullet) {
	if b.Traveled <= b.Range {
		return
	}
	b.dead = true
	cm.stats.ExpiredByRange++
	cm.note(b.Shooter, b.Owner.String(), "bullet", "expire",
		fmt.Sprintf("#%d after %.1f", b.ID, b.Traveled), b.Traveled)
}

// ClearEnemyBullets drops every enemy bullet still in flight.
func (cm *CombatManager) ClearEnemyBullets() {
	for i := range cm.enemyBullets {
		cm.enemyBullets[i] = nil
	}
	cm.enemyBullets = cm.enemyBullets[:0]
}

// UpdateFlashes ages muzzle flashes and drops expired ones.
func (cm *CombatManager) UpdateFlashes(dt float64) {
	kept := cm.flashes[:0]
	for _, f := range cm.flashes {
		f.age += dt
		if f.age < cm.tuning.MuzzleFlashLifetime {
			kept = append(kept, f)
		}
	}
	for i := len(kept); i < len(cm.flashes); i++ {
		cm.flashes[i] = nil
	}
	cm.flashes = kept
}

func (cm *CombatManager) now() int {
	if cm.tick == nil {
		return 0
	}
	return *cm.tick
}

func (cm *CombatManager) note(actor, side, category, key, value string, num float64) {
	if cm.simLog == nil {
		return
	}
	cm.simLog.Add(cm.now(), actor, side, category, key, value, num)
}

// --- Drawing ---

// DrawBullets renders every live bullet as a short streak trailing behind
// its head.
func (cm *CombatManager) DrawBullets(screen *ebiten.Image, cam camera) {
	for _, b := range cm.playerBullets {
		drawBullet(screen, cam, b, color.RGBA{R: 255, G: 230, B: 120, A: 255})
	}
	for _, b := range cm.enemyBullets {
		drawBullet(screen, cam, b, color.RGBA{R: 255, G: 90, B: 70, A: 255})
	}
}

func drawBullet(screen *ebiten.Image, cam camera, b *Bullet, c color.RGBA) {
	tailLen := math.Min(b.Speed*0.05, b.Traveled)
	tail := b.Position.Sub(b.Dir.Scale(tailLen))
	hx, hy := cam.project(b.Position)
	tx, ty := cam.project(tail)
	vector.StrokeLine(screen, tx, ty, hx, hy, 1.2, color.RGBA{R: c.R, G: c.G, B: c.B, A: 120}, false)
	vector.FillCircle(screen, hx, hy, 1.6, c, false)
}

// DrawMuzzleFlashes renders fading flashes at the muzzles.
func (cm *CombatManager) DrawMuzzleFlashes(screen *ebiten.Image, cam camera) {
	life := cm.tuning.MuzzleFlashLifetime
	for _, f := range cm.flashes {
		fade := float32(1 - f.age/life)
		if fade <= 0 {
			continue
		}
		x, y := cam.project(f.Position)
		r := float32(3+2*cam.zoom) * fade
		vector.FillCircle(screen, x, y, r, color.RGBA{R: 255, G: 200, B: 80, A: uint8(200 * fade)}, false)
		vector.FillCircle(screen, x, y, r*0.45, color.RGBA{R: 255, G: 255, B: 220, A: uint8(255 * fade)}, false)
	}
}
