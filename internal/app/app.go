//go:build ebiten

// Package app is the interactive world viewer.
package app

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"worldengine/internal/core"
	"worldengine/internal/render"
	"worldengine/internal/session"
	"worldengine/internal/simulation"
	"worldengine/internal/storage"
	"worldengine/internal/task"
	"worldengine/internal/ui"
)

const (
	panelWidth  = 240
	minHeight   = 480
	eventBuffer = 64
	riverCutoff = 0.35
)

var (
	modeKeys = []ebiten.Key{ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4, ebiten.KeyDigit5, ebiten.KeyDigit6, ebiten.KeyDigit7}
	simKeys  = []ebiten.Key{ebiten.KeyF1, ebiten.KeyF2, ebiten.KeyF3, ebiten.KeyF4, ebiten.KeyF5, ebiten.KeyF6, ebiten.KeyF7, ebiten.KeyF8}
)

// Game adapts a session to the ebiten.Game interface. Update never waits
// for a task: progress arrives over a buffered channel that is drained
// without blocking once per frame.
type Game struct {
	ctx      context.Context
	sess     *session.Session
	renderer *render.Renderer
	cfg      *Config
	seeds    core.Seeds
	logger   *log.Logger

	painter *render.Painter
	frame   *image.RGBA
	panel   *ui.Panel
	rivers  *ui.Overlay

	mode   render.Mode
	shown  *core.World
	dirty  bool
	events *task.Channel
	label  string
}

// New constructs a Game for the session.
func New(ctx context.Context, sess *session.Session, cfg *Config, logger *log.Logger) *Game {
	g := &Game{
		ctx:      ctx,
		sess:     sess,
		renderer: render.NewRenderer(),
		cfg:      cfg,
		seeds:    core.RandomSeeds(),
		logger:   logger,
		panel:    ui.NewPanel(panelWidth),
		rivers:   ui.NewOverlay(cfg.Scale, color.RGBA{R: 40, G: 120, B: 255, A: 255}),
		mode:     render.ModeBW,
		dirty:    true,
	}
	g.panel.SetStatus("G generates a world, O opens one", task.Running)
	return g
}

// Update handles per-frame logic.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	g.drainEvents()
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) && g.events != nil {
		g.dismiss()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.rivers.Toggle()
		g.dirty = true
	}
	idle := g.idle()
	if idle {
		g.handleIdleKeys()
	}
	g.refreshPanel(idle)
	if g.dirty && g.idle() {
		g.redraw()
	}
	return nil
}

// idle reports whether no task is observed or still running. The world is
// only read while idle so the UI never waits on a writer.
func (g *Game) idle() bool {
	h, _ := g.sess.Running()
	return g.events == nil && h == nil
}

func (g *Game) handleIdleKeys() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyG):
		g.generate()
		return
	case inpututil.IsKeyJustPressed(ebiten.KeyO):
		g.open()
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		g.save()
	}
	for i, key := range modeKeys {
		if inpututil.IsKeyJustPressed(key) {
			g.selectMode(render.AllModes()[i])
		}
	}
	for i, key := range simKeys {
		if inpututil.IsKeyJustPressed(key) {
			g.simulate(simulation.Kinds()[i])
			return
		}
	}
	if clicked := g.panel.Update(g.mapWidth()); clicked >= 0 {
		modes := render.AllModes()
		if clicked < len(modes) {
			g.selectMode(modes[clicked])
		} else {
			g.simulate(simulation.Kinds()[clicked-len(modes)])
		}
	}
}

func (g *Game) generate() {
	p := g.cfg.Generate.Params(g.seeds, g.sess.Limits)
	ch := task.NewChannel(eventBuffer)
	if _, err := g.sess.Generate(g.ctx, p, ch); err != nil {
		g.report(err)
		return
	}
	g.follow(ch, "Generating "+p.Name)
}

func (g *Game) simulate(kind simulation.Kind) {
	ch := task.NewChannel(eventBuffer)
	if _, err := g.sess.Simulate(g.ctx, kind, ch); err != nil {
		g.report(err)
		return
	}
	g.follow(ch, string(kind))
}

func (g *Game) follow(ch *task.Channel, label string) {
	g.events, g.label = ch, label
	g.panel.SetStatus(label+": starting", task.Running)
}

// dismiss stops observing the running task and asks it to stop at its next
// step boundary. Whatever it already changed in the world is kept, so the
// map is redrawn once the task has actually stopped.
func (g *Game) dismiss() {
	g.events.Detach()
	g.sess.Cancel()
	g.events = nil
	g.dirty = true
	g.panel.SetStatus(g.label+": dismissed", task.Canceled)
	g.logger.Printf("%s dismissed", g.label)
}

func (g *Game) drainEvents() {
	for g.events != nil {
		select {
		case ev, ok := <-g.events.Events():
			if !ok {
				g.events = nil
				return
			}
			g.panel.SetStatus(task.Describe(ev), ev.State)
			if ev.State.Terminal() {
				g.logger.Printf("%s: %s", g.label, task.Describe(ev))
				g.dirty = true
			}
		default:
			return
		}
	}
}

func (g *Game) open() {
	if g.cfg.Open == "" {
		g.report(fmt.Errorf("%w: start with -open to choose a world file", core.ErrInvalidArgument))
		return
	}
	w, err := storage.Open(g.cfg.Open)
	if err != nil {
		g.report(err)
		return
	}
	if err := g.sess.SetWorld(w); err != nil {
		g.report(err)
		return
	}
	g.dirty = true
	g.panel.SetStatus("opened "+g.cfg.Open, task.Succeeded)
}

func (g *Game) save() {
	w := g.sess.World()
	if w == nil {
		return
	}
	path := storage.WithExt(w.Name)
	if err := storage.Save(w, path); err != nil {
		g.report(err)
		return
	}
	g.panel.SetStatus("saved "+path, task.Succeeded)
}

func (g *Game) selectMode(m render.Mode) {
	w := g.sess.World()
	if w == nil {
		return
	}
	if slices.Contains(g.renderer.Modes(w), m) {
		g.mode = m
		g.dirty = true
	}
}

func (g *Game) report(err error) {
	g.panel.SetStatus(err.Error(), task.Failed)
	g.logger.Print(err)
}

// redraw renders the current world. It only runs while idle.
func (g *Game) redraw() {
	g.dirty = false
	w := g.sess.World()
	if w == nil {
		return
	}
	if w != g.shown || g.painter == nil {
		g.painter = render.NewPainter(w.Width, w.Height)
		g.frame = image.NewRGBA(image.Rect(0, 0, w.Width, w.Height))
		g.shown = w
	}
	modes := g.renderer.Modes(w)
	if !slices.Contains(modes, g.mode) && len(modes) > 0 {
		g.mode = modes[0]
	}
	if err := g.renderer.Render(w, g.mode, g.frame); err != nil {
		g.report(err)
		return
	}
	g.painter.Upload(g.frame)
	if g.rivers.Visible() {
		w.RLock()
		g.rivers.SetMask(ui.RiverMask(w, riverCutoff), w.Width, w.Height)
		w.RUnlock()
	}
}

func (g *Game) refreshPanel(idle bool) {
	w := g.sess.World()
	title := "worldengine"
	var modes []render.Mode
	var sims []simulation.Simulation
	if w != nil && idle {
		title = w.Name
		modes = g.renderer.Modes(w)
		sims = simulation.Applicable(w)
	}
	var entries []ui.Entry
	for i, m := range render.AllModes() {
		entries = append(entries, ui.Entry{
			Section: "Views",
			Label:   string(m),
			Key:     fmt.Sprint(i + 1),
			Enabled: slices.Contains(modes, m),
			Active:  m == g.mode && w != nil,
		})
	}
	for i, k := range simulation.Kinds() {
		enabled := false
		for _, s := range sims {
			enabled = enabled || s.Kind() == k
		}
		entries = append(entries, ui.Entry{
			Section: "Simulations",
			Label:   string(k),
			Key:     fmt.Sprintf("F%d", i+1),
			Enabled: enabled,
		})
	}
	g.panel.SetTitle(title)
	g.panel.SetEntries(entries)
}

func (g *Game) mapWidth() int {
	if g.shown != nil {
		return g.shown.Width * g.cfg.Scale
	}
	return g.cfg.Generate.Width * g.cfg.Scale
}

func (g *Game) mapHeight() int {
	if g.shown != nil {
		return g.shown.Height * g.cfg.Scale
	}
	return g.cfg.Generate.Height * g.cfg.Scale
}

// Draw renders the current frame.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.painter != nil {
		g.painter.Blit(screen, g.cfg.Scale)
		g.rivers.Draw(screen)
	}
	_, h := g.Layout(0, 0)
	g.panel.Draw(screen, g.mapWidth(), h)
}

// Layout returns the logical screen size.
func (g *Game) Layout(int, int) (int, int) {
	return g.mapWidth() + g.panel.Width(), max(g.mapHeight(), minHeight)
}
