package strata

import (
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
)

// DrawFunc draws a layer's content. geoM maps world coordinates to canvas
// pixels for the current camera; content should concatenate it onto its own
// object transforms.
type DrawFunc func(dst *ebiten.Image, geoM ebiten.GeoM)

// namedFilter is one configured effect as instantiated by the renderer.
type namedFilter struct {
	name   string
	filter Filter
}

// Renderer is the Ebitengine RenderBackend. It caches the camera transform
// and visibility pushed by its layer and owns the layer's effect chain.
type Renderer struct {
	layer *Layer

	view    [6]float64 // world -> layer canvas
	screen  [6]float64 // world -> screen, canvas scale included
	geoM    ebiten.GeoM
	visible bool

	canvasScaleX float64
	canvasScaleY float64

	filters []namedFilter
	chain   []Filter // filters in order, reused by Draw

	drawFn DrawFunc
	pool   renderTexturePool
	imgOp  ebiten.DrawImageOptions
}

// NewRenderer binds a renderer to l, reading its current camera and
// visibility and building one filter per configured effect.
func NewRenderer(l *Layer) *Renderer {
	r := &Renderer{
		layer:        l,
		visible:      l.IsVisible(),
		canvasScaleX: 1,
		canvasScaleY: 1,
	}
	for _, e := range l.effects {
		f, ok := newEffectFilter(e.Kind())
		if !ok {
			Logger().Debug("strata: unknown effect kind",
				slog.String("layer", l.Name()),
				slog.String("effect", e.Name),
				slog.String("kind", e.Kind()))
			continue
		}
		r.filters = append(r.filters, namedFilter{name: e.Name, filter: f})
		r.chain = append(r.chain, f)
	}
	r.UpdatePosition()
	return r
}

// RendererFactory is a BackendFactory producing Renderers.
func RendererFactory(l *Layer) RenderBackend { return NewRenderer(l) }

// UpdatePosition re-reads the layer camera.
func (r *Renderer) UpdatePosition() {
	r.view = r.layer.ViewMatrix()
	r.rebuildGeoM()
}

func (r *Renderer) rebuildGeoM() {
	scale := [6]float64{r.canvasScaleX, 0, 0, r.canvasScaleY, 0, 0}
	r.screen = multiplyAffine(scale, r.view)
	r.geoM = geoMFromAffine(r.screen)
}

// WorldToScreen maps a world point to screen pixels, canvas scale included.
func (r *Renderer) WorldToScreen(x, y float64) (sx, sy float64) {
	return transformPoint(r.screen, x, y)
}

// ScreenToWorld maps screen pixels (for example the cursor after a window
// resize) to world coordinates. A zero zoom yields the point unchanged.
func (r *Renderer) ScreenToWorld(x, y float64) (wx, wy float64) {
	return transformPoint(invertAffine(r.screen), x, y)
}

// UpdateVisibility shows or hides the layer content.
func (r *Renderer) UpdateVisibility(visible bool) {
	r.visible = visible
}

// SetEffectParameter applies a parameter to the effect of the given name.
// Unknown effects and parameters are logged at debug level and dropped.
func (r *Renderer) SetEffectParameter(effect, key string, value ParamValue) {
	f := r.Filter(effect)
	if f == nil {
		logFilterMiss(r.layer.Name(), effect, key, value, "unknown effect")
		return
	}
	pf, ok := f.(ParamFilter)
	if !ok {
		logFilterMiss(r.layer.Name(), effect, key, value, "effect has no parameters")
		return
	}
	if !pf.SetParameter(key, value) {
		logFilterMiss(r.layer.Name(), effect, key, value, "unknown parameter")
	}
}

// Filter returns the filter built for the named effect, or nil.
func (r *Renderer) Filter(effect string) Filter {
	for _, nf := range r.filters {
		if nf.name == effect {
			return nf.filter
		}
	}
	return nil
}

// Visible reports the visibility last pushed by the layer.
func (r *Renderer) Visible() bool { return r.visible }

// GeoM returns the world-to-screen transform, canvas scale included.
func (r *Renderer) GeoM() ebiten.GeoM { return r.geoM }

// SetDrawFunc installs the callback that draws the layer content.
func (r *Renderer) SetDrawFunc(fn DrawFunc) { r.drawFn = fn }

// OnViewportResized scales the layer to a canvas of w x h pixels, relative
// to the viewport size the layer was created with.
func (r *Renderer) OnViewportResized(w, h int) {
	if r.layer.Width() > 0 {
		r.canvasScaleX = float64(w) / r.layer.Width()
	}
	if r.layer.Height() > 0 {
		r.canvasScaleY = float64(h) / r.layer.Height()
	}
	r.rebuildGeoM()
}

// Draw renders the layer onto dst, with the canvas origin at the top-left of
// dst's bounds. Hidden layers and layers without content draw nothing. With
// effects, content is drawn offscreen, run through the filter chain in
// configuration order, and composited onto dst.
func (r *Renderer) Draw(dst *ebiten.Image) {
	if !r.visible || r.drawFn == nil {
		return
	}
	b := dst.Bounds()
	if len(r.chain) == 0 {
		geoM := r.geoM
		geoM.Translate(float64(b.Min.X), float64(b.Min.Y))
		r.drawFn(dst, geoM)
		return
	}

	pad := filterChainPadding(r.chain)
	surface := r.pool.Acquire(b.Dx()+2*pad, b.Dy()+2*pad)

	geoM := r.geoM
	geoM.Translate(float64(pad), float64(pad))
	r.drawFn(surface, geoM)

	result, spare := applyFilters(r.chain, surface, &r.pool)

	op := &r.imgOp
	op.GeoM.Reset()
	op.ColorScale.Reset()
	op.GeoM.Translate(float64(b.Min.X-pad), float64(b.Min.Y-pad))
	dst.DrawImage(result, op)

	r.pool.Release(result)
	if spare != nil && spare != result {
		r.pool.Release(spare)
	}
}

// Dispose frees pooled offscreen images.
func (r *Renderer) Dispose() {
	r.pool.Dispose()
}
