//go:build !headless

package window

import (
	"context"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"tetrisos/device/keyboard"
	"tetrisos/internal/pc"
)

const (
	screenWidth  = pc.TextColumns * CellWidth
	screenHeight = pc.TextRows * CellHeight

	// glyphTop centers the 13 pixel high line of the font in a cell.
	glyphTop = (CellHeight - 13) / 2
)

var glyphFace = text.NewGoXFace(basicfont.Face7x13)

// keyMap translates host keys to the characters the keyboard driver knows.
// The arrow keys double as the movement keys.
var keyMap = map[ebiten.Key]byte{
	ebiten.KeyA:          'a',
	ebiten.KeyD:          'd',
	ebiten.KeyW:          'w',
	ebiten.KeyS:          's',
	ebiten.KeyP:          'p',
	ebiten.KeyR:          'r',
	ebiten.KeyQ:          'q',
	ebiten.KeyArrowLeft:  'a',
	ebiten.KeyArrowRight: 'd',
	ebiten.KeyArrowUp:    'w',
	ebiten.KeyArrowDown:  's',
}

type game struct {
	ctx    context.Context
	m      *pc.Machine
	screen pc.Screen
}

// Run opens a window showing the screen of m and blocks until the window is
// closed, the machine powers off or ctx is canceled. Closing the window
// powers the machine off. Run must be called from the main goroutine.
func Run(ctx context.Context, m *pc.Machine, scale int) error {
	if scale < 1 {
		scale = 1
	}

	ebiten.SetWindowSize(screenWidth*scale, screenHeight*scale)
	ebiten.SetWindowTitle("tetrisos")
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetRunnableOnUnfocused(true)

	if err := ebiten.RunGame(&game{ctx: ctx, m: m}); err != nil {
		return fmt.Errorf("window: %w", err)
	}
	return nil
}

func (g *game) Update() error {
	if ebiten.IsWindowBeingClosed() {
		g.m.PowerOff()
		return ebiten.Termination
	}
	if g.m.Off() || g.ctx.Err() != nil {
		return ebiten.Termination
	}

	for key, ch := range keyMap {
		code, ok := keyboard.MakeCode(ch)
		if !ok {
			continue
		}
		if inpututil.IsKeyJustPressed(key) {
			g.m.Keyboard.Press(code)
		}
		if inpututil.IsKeyJustReleased(key) {
			g.m.Keyboard.Release(code)
		}
	}

	g.screen, _ = g.m.VGA.Snapshot()
	return nil
}

func (g *game) Draw(dst *ebiten.Image) {
	for y := 0; y < pc.TextRows; y++ {
		for x := 0; x < pc.TextColumns; x++ {
			ch, attr := g.screen.At(x, y)
			fg, bg := Colors(attr)

			px, py := x*CellWidth, y*CellHeight
			vector.DrawFilledRect(dst, float32(px), float32(py), CellWidth, CellHeight, bg, false)

			if glyph, ok := Glyph(ch); ok {
				var op text.DrawOptions
				op.GeoM.Translate(float64(px), float64(py+glyphTop))
				op.ColorScale.ScaleWithColor(fg)
				text.Draw(dst, string(glyph), glyphFace, &op)
			}
		}
	}
}

func (g *game) Layout(int, int) (int, int) {
	return screenWidth, screenHeight
}
