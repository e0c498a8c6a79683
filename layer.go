package strata

import "log/slog"

// Layer is an independently transformable drawing surface of a scene, with
// a single camera, a visibility flag, a time scale, and an ordered list of
// effects. Every mutator pushes the change to the layer's RenderBackend
// before returning.
//
// A Layer is not safe for concurrent use; it is meant to be mutated from the
// game loop only.
type Layer struct {
	name string

	cameraX, cameraY float64
	zoom             float64
	rotation         float64 // degrees, not normalized

	timeScale float64
	hidden    bool

	width, height float64
	effects       []EffectData

	backend RenderBackend

	cam cameraState
}

// NewLayer creates a layer from its configuration. The camera is centered
// on the game's default viewport, zoom and time scale are 1, and the layer
// is hidden when data.Visibility is false.
//
// factory is called once with the fully initialized layer; a nil factory
// binds a NopBackend. The configured effect parameters are then pushed to
// the backend in configuration order.
func NewLayer(data LayerData, game Game, factory BackendFactory) *Layer {
	w, h := game.DefaultWidth(), game.DefaultHeight()
	l := &Layer{
		name:      data.Name,
		cameraX:   w / 2,
		cameraY:   h / 2,
		zoom:      1,
		timeScale: 1,
		hidden:    !data.Visibility,
		width:     w,
		height:    h,
	}
	if len(data.Effects) > 0 {
		l.effects = make([]EffectData, len(data.Effects))
		for i, e := range data.Effects {
			l.effects[i] = e.clone()
		}
	}

	if factory == nil {
		factory = NopFactory
	}
	l.backend = factory(l)
	if l.backend == nil {
		l.backend = NopBackend{}
	}

	Logger().Debug("strata: layer created",
		slog.String("layer", l.name),
		slog.Bool("visible", !l.hidden),
		slog.Int("effects", len(l.effects)))

	l.SetEffectsDefaultParameters()
	return l
}

// Name returns the layer name, unique within its scene.
func (l *Layer) Name() string { return l.name }

// Width returns the viewport width the layer was created with.
func (l *Layer) Width() float64 { return l.width }

// Height returns the viewport height the layer was created with.
func (l *Layer) Height() float64 { return l.height }

// Backend returns the backend bound to this layer.
func (l *Layer) Backend() RenderBackend { return l.backend }

// Show shows the layer when enable is true and hides it otherwise.
func (l *Layer) Show(enable bool) {
	l.hidden = !enable
	l.backend.UpdateVisibility(enable)
}

// IsVisible reports whether the layer is shown.
func (l *Layer) IsVisible() bool { return !l.hidden }

// Effects returns a copy of the configured effects.
func (l *Layer) Effects() []EffectData {
	out := make([]EffectData, len(l.effects))
	for i, e := range l.effects {
		out[i] = e.clone()
	}
	return out
}

// SetEffectParameter forwards an effect parameter to the backend. Names are
// not validated; the last value written wins.
func (l *Layer) SetEffectParameter(effect, key string, value ParamValue) {
	l.backend.SetEffectParameter(effect, key, value)
}

// SetEffectsDefaultParameters pushes every configured parameter to the
// backend, effect by effect in configuration order, and within an effect in
// parameter table order.
func (l *Layer) SetEffectsDefaultParameters() {
	for _, e := range l.effects {
		for _, p := range e.Parameters {
			l.SetEffectParameter(e.Name, p.Key, p.Value)
		}
	}
}

// replaceEffects swaps the effect snapshot and re-pushes its defaults.
// Used by hot reload; the backend keeps whatever filters it already built.
func (l *Layer) replaceEffects(effects []EffectData) {
	l.effects = l.effects[:0]
	for _, e := range effects {
		l.effects = append(l.effects, e.clone())
	}
	l.SetEffectsDefaultParameters()
}

// TimeScale returns the layer time scale (1 is normal speed).
func (l *Layer) TimeScale() float64 { return l.timeScale }

// SetTimeScale sets the layer time scale. Negative values (and NaN) are
// ignored and leave the current scale unchanged.
func (l *Layer) SetTimeScale(scale float64) {
	if !(scale >= 0) {
		Logger().Debug("strata: negative time scale ignored",
			slog.String("layer", l.name), slog.Float64("scale", scale))
		return
	}
	l.timeScale = scale
}

// ElapsedTime returns the time elapsed since the previous frame for objects
// on this layer, in milliseconds: the source's elapsed time times the layer
// time scale.
func (l *Layer) ElapsedTime(ts TimeSource) float64 {
	return ts.ElapsedTime() * l.timeScale
}
