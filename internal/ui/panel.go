//go:build ebiten

package ui

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"worldengine/internal/task"
)

const (
	panelPadding   = 10
	headerBaseline = 13
	lineHeight     = 20
	buttonHeight   = 16
	sectionGap     = 8
	charWidth      = 7
)

var (
	titleColor    = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	sectionColor  = color.RGBA{R: 140, G: 140, B: 160, A: 255}
	statusColor   = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	failedColor   = color.RGBA{R: 240, G: 90, B: 80, A: 255}
	succeedColor  = color.RGBA{R: 120, G: 210, B: 120, A: 255}
	canceledColor = color.RGBA{R: 230, G: 170, B: 60, A: 255}
)

// Panel renders the menu and status column to the right of the map. Entries
// are clickable buttons; disabled entries ignore clicks.
type Panel struct {
	width      int
	panel      *ebiten.Image
	lastHeight int
	pixel      *ebiten.Image

	title   string
	entries []entryState

	status      string
	statusState task.State

	panelOffsetX int
}

type entryState struct {
	Entry
	rect      image.Rectangle
	headerTop int
}

// NewPanel constructs a panel of the given width.
func NewPanel(width int) *Panel {
	if width < 0 {
		width = 0
	}
	p := &Panel{width: width, title: "worldengine"}
	if width > 0 {
		p.pixel = ebiten.NewImage(1, 1)
		p.pixel.Fill(color.White)
	}
	return p
}

// Width returns the panel width in pixels.
func (p *Panel) Width() int { return p.width }

// SetTitle sets the header line.
func (p *Panel) SetTitle(title string) { p.title = title }

// SetEntries replaces the menu entries and lays them out.
func (p *Panel) SetEntries(entries []Entry) {
	p.entries = p.entries[:0]
	for _, e := range entries {
		p.entries = append(p.entries, entryState{Entry: e})
	}
	p.layout()
}

// SetStatus shows msg at the bottom of the panel, colored by state.
func (p *Panel) SetStatus(msg string, state task.State) {
	p.status, p.statusState = msg, state
}

// Update records the panel position and returns the index of the entry
// clicked this frame, or -1.
func (p *Panel) Update(panelOffsetX int) int {
	if p == nil {
		return -1
	}
	p.panelOffsetX = panelOffsetX
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return -1
	}
	mx, my := ebiten.CursorPosition()
	if mx < p.panelOffsetX {
		return -1
	}
	px := mx - p.panelOffsetX
	for i, e := range p.entries {
		if e.Enabled && pointInRect(px, my, e.rect) {
			return i
		}
	}
	return -1
}

// Draw paints the panel anchored at offsetX.
func (p *Panel) Draw(screen *ebiten.Image, offsetX, height int) {
	if p == nil || p.width <= 0 || height <= 0 {
		return
	}
	if p.panel == nil || p.lastHeight != height {
		p.panel = ebiten.NewImage(p.width, height)
		p.lastHeight = height
	}
	p.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})

	face := basicfont.Face7x13
	text.Draw(p.panel, p.title, face, panelPadding, panelPadding+headerBaseline, titleColor)
	for _, e := range p.entries {
		if e.headerTop > 0 {
			text.Draw(p.panel, e.Section, face, panelPadding, e.headerTop+headerBaseline, sectionColor)
		}
		p.drawButton(e)
	}
	p.drawStatus(height)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(p.panel, op)
}

func (p *Panel) drawStatus(height int) {
	col := statusColor
	switch p.statusState {
	case task.Succeeded:
		col = succeedColor
	case task.Failed:
		col = failedColor
	case task.Canceled:
		col = canceledColor
	}
	lines := Wrap(p.status, (p.width-2*panelPadding)/charWidth)
	y := height - panelPadding - len(lines)*lineHeight + headerBaseline
	for _, line := range lines {
		text.Draw(p.panel, line, basicfont.Face7x13, panelPadding, y, col)
		y += lineHeight
	}
}

func (p *Panel) drawButton(e entryState) {
	if p.pixel == nil {
		return
	}
	bg := color.RGBA{R: 54, G: 56, B: 64, A: 255}
	fg := color.RGBA{R: 230, G: 230, B: 240, A: 255}
	switch {
	case !e.Enabled:
		bg = color.RGBA{R: 32, G: 34, B: 40, A: 255}
		fg = color.RGBA{R: 120, G: 120, B: 130, A: 255}
	case e.Active:
		bg = color.RGBA{R: 70, G: 60, B: 130, A: 255}
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(e.rect.Dx()), float64(e.rect.Dy()))
	op.GeoM.Translate(float64(e.rect.Min.X), float64(e.rect.Min.Y))
	op.ColorM.Scale(float64(bg.R)/255.0, float64(bg.G)/255.0, float64(bg.B)/255.0, float64(bg.A)/255.0)
	p.panel.DrawImage(p.pixel, op)

	face := basicfont.Face7x13
	bounds := text.BoundString(face, e.Label)
	y := e.rect.Min.Y + (e.rect.Dy()-bounds.Dy())/2 + bounds.Dy()
	text.Draw(p.panel, e.Label, face, e.rect.Min.X+4, y, fg)
	if e.Key != "" {
		kb := text.BoundString(face, e.Key)
		text.Draw(p.panel, e.Key, face, e.rect.Max.X-4-kb.Dx(), y, fg)
	}
}

func (p *Panel) layout() {
	if p.width <= 0 {
		return
	}
	top := panelPadding + lineHeight + sectionGap
	section := ""
	for i := range p.entries {
		e := &p.entries[i]
		e.headerTop = 0
		if e.Section != section {
			section = e.Section
			if i > 0 {
				top += sectionGap
			}
			e.headerTop = top
			top += lineHeight
		}
		y := top + (lineHeight-buttonHeight)/2
		e.rect = image.Rect(panelPadding, y, p.width-panelPadding, y+buttonHeight)
		top += lineHeight
	}
}

func pointInRect(x, y int, rect image.Rectangle) bool {
	return x >= rect.Min.X && x < rect.Max.X && y >= rect.Min.Y && y < rect.Max.Y
}
