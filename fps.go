package strata

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// fpsRefresh is how often the FPS overlay text is refreshed, in seconds.
const fpsRefresh = 0.5

// fpsOverlay draws the current FPS and TPS in the top-left corner of the
// screen, above every layer.
type fpsOverlay struct {
	img   *ebiten.Image
	since float64
	op    ebiten.DrawImageOptions
}

func newFPSOverlay() *fpsOverlay {
	// 100x32 is enough for "FPS: 60.0\nTPS: 60.0"
	o := &fpsOverlay{img: ebiten.NewImage(100, 32)}
	o.since = fpsRefresh
	return o
}

func (o *fpsOverlay) update(dt float64) {
	o.since += dt
	if o.since < fpsRefresh {
		return
	}
	o.since = 0
	o.img.Clear()
	o.img.Fill(color.RGBA{A: 128})
	ebitenutil.DebugPrint(o.img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
}

func (o *fpsOverlay) draw(screen *ebiten.Image) {
	o.op.GeoM.Reset()
	b := screen.Bounds()
	o.op.GeoM.Translate(float64(b.Min.X), float64(b.Min.Y))
	screen.DrawImage(o.img, &o.op)
}
