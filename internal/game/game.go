package game

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/rs/zerolog"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/Ember-Range/internal/scene"
	"github.com/Garsondee/Ember-Range/internal/vmath"
)

// frameDT is the fixed tick length of the interactive host.
const frameDT = 1.0 / 60.0

// statusTicks is how long a status line stays on screen.
const statusTicks = 180

// editPalette is the colour cycle offered by the editor.
var editPalette = []vmath.RGBA{
	vmath.White,
	vmath.Orange,
	vmath.Red,
	vmath.Yellow,
	{R: 0.35, G: 0.7, B: 0.35, A: 1},
	{R: 0.4, G: 0.55, B: 0.95, A: 1},
}

// Options configures the interactive host.
type Options struct {
	Width, Height int
	Seed          int64
	Tuning        Tuning
	ScenePath     string
	SceneSound    scene.SoundPlayer
	Effects       SoundFX
	Log           zerolog.Logger

	// OnOutcome is called once when an engagement reaches a terminal outcome.
	OnOutcome func(Summary)
}

type hostMode int

const (
	modePlay hostMode = iota
	modeEdit
)

// camera maps world XZ onto the playfield; +Z is up on screen.
type camera struct {
	x, z   float64 // world point at the viewport centre
	zoom   float64 // pixels per world unit
	cx, cy float64 // viewport centre in screen pixels
}

func (c camera) project(p vmath.Vec3) (float32, float32) {
	return float32((p.X-c.x)*c.zoom + c.cx), float32(c.cy - (p.Z-c.z)*c.zoom)
}

func (c camera) unproject(sx, sy int) (float64, float64) {
	return (float64(sx)-c.cx)/c.zoom + c.x, c.z - (float64(sy)-c.cy)/c.zoom
}

// Game is the ebiten host: it feeds input into a Sim, runs the editor, and
// draws the engagement top-down.
type Game struct {
	width     int
	height    int
	gameWidth int // playfield width (feed panel takes the rest)

	opts  Options
	sim   *Sim
	hud   *HUDState
	codec *scene.Codec
	log   zerolog.Logger
	face  *text.GoXFace

	cam      camera
	prevKeys map[ebiten.Key]bool
	mode     hostMode
	input    Input

	// Editor state.
	paletteIdx int
	colorIdx   int
	hoverPoint vmath.Vec3
	hovered    *scene.PlacedObject
	hoverOK    bool

	// Simulation speed control.
	simSpeed  float64 // multiplier: 0=paused, 0.5, 1, 2, 4
	tickAccum float64 // fractional tick accumulator for sub-1x speeds

	status      string
	statusLeft  int
	outcomeSent bool
}

// New builds the host, loads the scene file if it exists and starts the
// first engagement.
func New(opts Options) (*Game, error) {
	if opts.Width <= 0 {
		opts.Width = 1280
	}
	if opts.Height <= 0 {
		opts.Height = 760
	}
	if opts.ScenePath == "" {
		opts.ScenePath = "map.dbo"
	}
	sceneOpts := []scene.Option{scene.WithLogger(opts.Log.With().Str("component", "scene").Logger())}
	if opts.SceneSound != nil {
		sceneOpts = append(sceneOpts, scene.WithSoundPlayer(opts.SceneSound))
	}
	g := &Game{
		width:     opts.Width,
		height:    opts.Height,
		gameWidth: opts.Width - feedPanelWidth,
		opts:      opts,
		codec:     scene.NewCodec(opts.Log.With().Str("component", "codec").Logger()),
		log:       opts.Log,
		face:      text.NewGoXFace(basicfont.Face7x13),
		prevKeys:  make(map[ebiten.Key]bool),
		simSpeed:  1,
	}
	g.cam = camera{zoom: 6, cx: float64(g.gameWidth) / 2, cy: float64(g.height) / 2}

	sc := scene.New(scene.DefaultRegistry(), sceneOpts...)
	if err := g.codec.LoadFile(sc, opts.ScenePath); err != nil {
		g.log.Warn().Err(err).Str("path", opts.ScenePath).Msg("starting with an empty scene")
	}
	if err := g.restart(sc); err != nil {
		return nil, err
	}
	return g, nil
}

// restart begins a new engagement over sc.
func (g *Game) restart(sc *scene.Scene) error {
	g.hud = NewHUDState(g.tuning().PlayerMaxHealth)
	g.sim = NewSim(SimConfig{
		Tuning: g.opts.Tuning,
		Seed:   g.opts.Seed,
		Scene:  sc,
		HUD:    g.hud,
		Sound:  g.opts.Effects,
		Log:    g.log,
	})
	g.opts.Seed++
	g.outcomeSent = false
	if err := g.sim.Start(); err != nil {
		return err
	}
	return nil
}

func (g *Game) tuning() Tuning {
	if g.opts.Tuning == (Tuning{}) {
		return DefaultTuning()
	}
	return g.opts.Tuning
}

// Sim exposes the running engagement.
func (g *Game) Sim() *Sim { return g.sim }

func (g *Game) Update() error {
	// Handle input every frame regardless of sim speed.
	g.handleInput()
	if g.statusLeft > 0 {
		g.statusLeft--
	}

	if g.simSpeed <= 0 {
		return nil
	}
	g.tickAccum += g.simSpeed
	for g.tickAccum >= 1.0 {
		g.tickAccum -= 1.0
		if g.mode == modeEdit {
			g.sim.AdvanceEffects(frameDT)
			continue
		}
		g.sim.Step(frameDT, g.input)
	}

	if g.sim.Outcome().Terminal() && !g.outcomeSent {
		g.outcomeSent = true
		if g.opts.OnOutcome != nil {
			g.opts.OnOutcome(g.sim.Summary())
		}
	}
	return nil
}

// pressed reports a key press edge and records the key for the next frame.
func (g *Game) pressed(cur map[ebiten.Key]bool, k ebiten.Key) bool {
	cur[k] = ebiten.IsKeyPressed(k)
	return cur[k] && !g.prevKeys[k]
}

// handleInput processes keys and the mouse (edge-triggered where it matters).
func (g *Game) handleInput() {
	currentKeys := map[ebiten.Key]bool{}

	if g.pressed(currentKeys, ebiten.KeyTab) {
		if g.mode == modePlay {
			g.mode = modeEdit
			g.setStatus("editor: LMB place  RMB delete  1-7 kind  arrows/PgUp/PgDn nudge  C colour  M sound")
		} else {
			g.mode = modePlay
			g.setStatus("play")
		}
	}

	// Camera zoom: mouse wheel or =/- keys.
	const zoomMin, zoomMax = 1.0, 24.0
	_, wy := ebiten.Wheel()
	if wy != 0 {
		g.cam.zoom *= math.Pow(1.12, wy)
	}
	if g.pressed(currentKeys, ebiten.KeyEqual) {
		g.cam.zoom *= 1.25
	}
	if g.pressed(currentKeys, ebiten.KeyMinus) {
		g.cam.zoom /= 1.25
	}
	g.cam.zoom = math.Max(zoomMin, math.Min(zoomMax, g.cam.zoom))

	// Sim speed controls: P=pause/resume, ,=slower, .=faster.
	speeds := []float64{0, 0.5, 1, 2, 4}
	if g.pressed(currentKeys, ebiten.KeyP) {
		if g.simSpeed > 0 {
			g.simSpeed = 0
		} else {
			g.simSpeed = 1
		}
	}
	if g.pressed(currentKeys, ebiten.KeyComma) {
		for i, s := range speeds {
			if s >= g.simSpeed && i > 0 {
				g.simSpeed = speeds[i-1]
				break
			}
		}
	}
	if g.pressed(currentKeys, ebiten.KeyPeriod) {
		for i, s := range speeds {
			if s <= g.simSpeed && i < len(speeds)-1 && speeds[i+1] > g.simSpeed {
				g.simSpeed = speeds[i+1]
				break
			}
		}
	}

	// Persistence and report.
	if g.pressed(currentKeys, ebiten.KeyF5) {
		g.saveScene()
	}
	if g.pressed(currentKeys, ebiten.KeyF9) {
		g.loadScene()
	}
	if g.pressed(currentKeys, ebiten.KeyF2) {
		if err := copyToClipboard(g.sim.Report()); err != nil {
			g.setStatus("clipboard: " + err.Error())
		} else {
			g.setStatus("report copied to clipboard")
		}
	}
	if g.pressed(currentKeys, ebiten.KeyR) {
		if err := g.restart(g.sim.Scene); err != nil {
			g.setStatus(err.Error())
		}
	}

	g.updatePointer()
	if g.mode == modeEdit {
		g.handleEditor(currentKeys)
		g.input = Input{}
	} else {
		g.input = g.playInput()
	}

	g.prevKeys = currentKeys
}

// updatePointer casts the cursor straight down into the world.
func (g *Game) updatePointer() {
	mx, my := ebiten.CursorPosition()
	if mx >= g.gameWidth {
		g.hoverOK = false
		g.hovered = nil
		return
	}
	wx, wz := g.cam.unproject(mx, my)
	from := vmath.V3(wx, 1000, wz)
	to := vmath.V3(wx, -1000, wz)
	g.hoverPoint, g.hovered, g.hoverOK = g.sim.World.PointerHit(from, to)
}

func (g *Game) playInput() Input {
	var move vmath.Vec3
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		move.Z++
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		move.Z--
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		move.X--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		move.X++
	}
	in := Input{Move: move, Fire: ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)}
	if g.hoverOK {
		// Aim at chest height of the enemies so shots fly level.
		in.Aim = vmath.V3(g.hoverPoint.X, g.tuning().GroundHeight, g.hoverPoint.Z)
		in.HasAim = true
	}
	return in
}

func (g *Game) handleEditor(cur map[ebiten.Key]bool) {
	sc := g.sim.Scene
	kinds := sc.Registry().Kinds()
	digitKeys := []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5, ebiten.Key6, ebiten.Key7}
	for i, k := range digitKeys {
		if g.pressed(cur, k) && i < len(kinds) {
			g.paletteIdx = i
			g.setStatus("kind: " + string(kinds[i]))
		}
	}
	if g.paletteIdx >= len(kinds) {
		g.paletteIdx = 0
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && g.hoverOK {
		if _, err := sc.Place(kinds[g.paletteIdx], g.hoverPoint, g.hovered); err != nil {
			g.setStatus(err.Error())
		}
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) && g.hovered != nil {
		if err := sc.Delete(g.hovered.ID); err != nil {
			g.setStatus(err.Error())
		}
		g.hovered = nil
		return
	}
	if g.hovered == nil {
		return
	}

	id := g.hovered.ID
	nudges := []struct {
		key  ebiten.Key
		axis string
		sign float64
	}{
		{ebiten.KeyArrowRight, "x", 1}, {ebiten.KeyArrowLeft, "x", -1},
		{ebiten.KeyArrowUp, "z", 1}, {ebiten.KeyArrowDown, "z", -1},
		{ebiten.KeyPageUp, "y", 1}, {ebiten.KeyPageDown, "y", -1},
	}
	for _, n := range nudges {
		if g.pressed(cur, n.key) {
			if err := sc.Nudge(id, n.axis, n.sign*scene.NudgeStep); err != nil {
				g.setStatus(err.Error())
			}
		}
	}
	if g.pressed(cur, ebiten.KeyC) {
		g.colorIdx = (g.colorIdx + 1) % len(editPalette)
		if err := sc.SetColor(id, editPalette[g.colorIdx]); err != nil {
			g.setStatus(err.Error())
		}
	}
	if g.pressed(cur, ebiten.KeyM) {
		meta := &scene.SoundMeta{File: GunshotSound, PlayOnAwake: true}
		if err := sc.AttachSound(id, meta); err != nil {
			g.setStatus(err.Error())
		} else {
			g.setStatus("sound attached: " + meta.File)
		}
	}
}

func (g *Game) saveScene() {
	if err := g.codec.SaveFile(g.sim.Scene, g.opts.ScenePath); err != nil {
		g.log.Error().Err(err).Str("path", g.opts.ScenePath).Msg("save failed")
		g.setStatus("save failed: " + err.Error())
		return
	}
	g.log.Info().Str("path", g.opts.ScenePath).Int("objects", g.sim.Scene.Len()).Msg("scene saved")
	g.setStatus(fmt.Sprintf("saved %d objects to %s", g.sim.Scene.Len(), g.opts.ScenePath))
}

func (g *Game) loadScene() {
	if err := g.codec.LoadFile(g.sim.Scene, g.opts.ScenePath); err != nil {
		g.log.Error().Err(err).Str("path", g.opts.ScenePath).Msg("load failed")
		g.setStatus("load failed: " + err.Error())
		return
	}
	g.hovered = nil
	g.setStatus(fmt.Sprintf("loaded %d objects from %s", g.sim.Scene.Len(), g.opts.ScenePath))
}

func (g *Game) setStatus(s string) {
	g.status = s
	g.statusLeft = statusTicks
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 12, G: 12, B: 14, A: 255})

	// Camera follows the player.
	g.cam.x, g.cam.z = g.sim.Player.Position.X, g.sim.Player.Position.Z

	g.drawGround(screen)
	g.drawObjects(screen)
	g.drawEnemies(screen)
	g.drawPlayer(screen)
	g.sim.Combat.DrawBullets(screen, g.cam)
	g.sim.Combat.DrawMuzzleFlashes(screen, g.cam)
	if g.mode == modeEdit {
		g.drawEditorOverlay(screen)
	}

	g.sim.Feed.Draw(screen, g.gameWidth, g.height)
	g.drawHUD(screen)
}

func (g *Game) drawGround(screen *ebiten.Image) {
	gr := g.sim.World.Ground
	x0, y0 := g.cam.project(vmath.V3(gr.Min.X, 0, gr.Max.Z))
	x1, y1 := g.cam.project(vmath.V3(gr.Max.X, 0, gr.Min.Z))
	vector.FillRect(screen, x0, y0, x1-x0, y1-y0, color.RGBA{R: 38, G: 44, B: 34, A: 255}, false)

	// Grid every 10 units, clipped to the visible ground.
	const spacing = 10.0
	gridCol := color.RGBA{R: 55, G: 62, B: 50, A: 255}
	for x := math.Ceil(gr.Min.X/spacing) * spacing; x <= gr.Max.X; x += spacing {
		sx, _ := g.cam.project(vmath.V3(x, 0, 0))
		if sx < 0 || int(sx) > g.gameWidth {
			continue
		}
		vector.StrokeLine(screen, sx, y0, sx, y1, 1, gridCol, false)
	}
	for z := math.Ceil(gr.Min.Z/spacing) * spacing; z <= gr.Max.Z; z += spacing {
		_, sy := g.cam.project(vmath.V3(0, 0, z))
		if sy < 0 || int(sy) > g.height {
			continue
		}
		vector.StrokeLine(screen, x0, sy, x1, sy, 1, gridCol, false)
	}

	// Spawn ring.
	cx, cy := g.cam.project(vmath.Zero)
	vector.StrokeCircle(screen, cx, cy, float32(g.tuning().SpawnRadius*g.cam.zoom), 1, color.RGBA{R: 90, G: 40, B: 40, A: 120}, false)
}

func (g *Game) drawObjects(screen *ebiten.Image) {
	for _, o := range g.sim.Scene.Objects() {
		x, y := g.cam.project(o.Position)
		if o.Emitter != nil {
			vector.FillCircle(screen, x, y, float32(0.35*g.cam.zoom), color.RGBA{R: 120, G: 50, B: 20, A: 255}, false)
			for _, p := range o.Emitter.Particles() {
				px, py := g.cam.project(p.Position)
				c := p.Color.WithAlpha(p.Alpha).Color()
				vector.FillCircle(screen, px, py, float32(math.Max(1, p.Scale*g.cam.zoom)), c, false)
			}
			continue
		}
		b := o.Bounds()
		x0, y0 := g.cam.project(vmath.V3(b.Min.X, 0, b.Max.Z))
		x1, y1 := g.cam.project(vmath.V3(b.Max.X, 0, b.Min.Z))
		vector.FillRect(screen, x0, y0, x1-x0, y1-y0, o.Color.Color(), false)
		vector.StrokeRect(screen, x0, y0, x1-x0, y1-y0, 1, color.RGBA{R: 20, G: 20, B: 20, A: 200}, false)
		if o.Sound != nil {
			vector.FillCircle(screen, x1-2, y0+2, 2, color.RGBA{R: 120, G: 200, B: 255, A: 255}, false)
		}
	}
}

func (g *Game) drawEnemies(screen *ebiten.Image) {
	r := float32(g.tuning().EnemyHalfExtents.X * g.cam.zoom)
	for _, e := range g.sim.Enemies.Enemies() {
		x, y := g.cam.project(e.Position)
		vector.FillCircle(screen, x, y, r, color.RGBA{R: 200, G: 60, B: 55, A: 255}, false)
		fx, fy := g.cam.project(e.Position.Add(e.Forward().Scale(1.2)))
		vector.StrokeLine(screen, x, y, fx, fy, 1.5, color.RGBA{R: 255, G: 160, B: 140, A: 255}, false)
		frac := float32(e.Health) / float32(g.tuning().EnemyHealth)
		vector.FillRect(screen, x-r, y-r-5, 2*r*frac, 2, color.RGBA{R: 240, G: 90, B: 80, A: 255}, false)
	}
}

func (g *Game) drawPlayer(screen *ebiten.Image) {
	p := g.sim.Player
	x, y := g.cam.project(p.Position)
	body := color.RGBA{R: 80, G: 200, B: 110, A: 255}
	if p.Defeated() {
		body = color.RGBA{R: 90, G: 90, B: 90, A: 255}
	}
	vector.FillCircle(screen, x, y, float32(0.5*g.cam.zoom), body, false)
	ax, ay := g.cam.project(p.Position.Add(vmath.V3(p.Aim.X, 0, p.Aim.Z).Normalized().Scale(g.tuning().MuzzleForward)))
	vector.StrokeLine(screen, x, y, ax, ay, 2, color.RGBA{R: 200, G: 255, B: 200, A: 255}, false)
}

func (g *Game) drawEditorOverlay(screen *ebiten.Image) {
	if !g.hoverOK {
		return
	}
	snap := vmath.SnapXZ(g.hoverPoint, scene.GridSize)
	x, y := g.cam.project(snap)
	half := float32(0.5 * g.cam.zoom)
	vector.StrokeRect(screen, x-half, y-half, 2*half, 2*half, 1.5, color.RGBA{R: 255, G: 255, B: 120, A: 200}, false)
	if g.hovered != nil {
		b := g.hovered.Bounds()
		x0, y0 := g.cam.project(vmath.V3(b.Min.X, 0, b.Max.Z))
		x1, y1 := g.cam.project(vmath.V3(b.Max.X, 0, b.Min.Z))
		vector.StrokeRect(screen, x0-2, y0-2, x1-x0+4, y1-y0+4, 2, color.RGBA{R: 120, G: 220, B: 255, A: 255}, false)
	}
}

func (g *Game) drawText(screen *ebiten.Image, s string, x, y, scale float64, c color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	text.Draw(screen, s, g.face, op)
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	// Hearts, left to right; removed ones are drawn hollow.
	for i, on := range g.hud.Hearts {
		x := float32(16 + i*22)
		if on {
			vector.FillCircle(screen, x, 20, 8, color.RGBA{R: 220, G: 40, B: 50, A: 255}, false)
		} else {
			vector.StrokeCircle(screen, x, 20, 8, 1.5, color.RGBA{R: 110, G: 40, B: 45, A: 255}, false)
		}
	}
	g.drawText(screen, fmt.Sprintf("Kills: %d", g.hud.Kills), 12, 36, 2, color.White)

	speedStr := fmt.Sprintf("%.1fx", g.simSpeed)
	if g.simSpeed == 0 {
		speedStr = "PAUSED"
	}
	modeStr := "PLAY"
	if g.mode == modeEdit {
		kinds := g.sim.Scene.Registry().Kinds()
		modeStr = "EDIT " + string(kinds[g.paletteIdx%len(kinds)])
	}
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s  sim %s  T=%d  enemies=%d  objects=%d",
		modeStr, speedStr, g.sim.Tick, g.sim.Enemies.Count(), g.sim.Scene.Len()), 12, g.height-36)
	ebitenutil.DebugPrintAt(screen, "Tab editor  F5 save  F9 load  F2 report  R restart  P pause  ,/. speed", 12, g.height-20)
	if g.statusLeft > 0 {
		ebitenutil.DebugPrintAt(screen, g.status, 12, g.height-52)
	}

	switch {
	case g.hud.Defeat:
		g.drawBanner(screen, "LOSE", color.RGBA{R: 230, G: 50, B: 50, A: 255})
	case g.hud.Victory:
		g.drawBanner(screen, "WIN", color.RGBA{R: 90, G: 230, B: 120, A: 255})
	}
}

func (g *Game) drawBanner(screen *ebiten.Image, s string, c color.Color) {
	const scale = 8
	w := float64(len(s) * 7 * scale)
	g.drawText(screen, s, (float64(g.gameWidth)-w)/2, float64(g.height)/2-13*scale/2, scale, c)
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}
