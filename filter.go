package strata

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// Filter is a visual effect applied to a layer's rendered output.
type Filter interface {
	// Apply renders src into dst with the filter effect.
	Apply(src, dst *ebiten.Image)
	// Padding returns the extra pixels needed around the source to hold the
	// effect (e.g. blur radius, outline thickness). Zero means no padding.
	Padding() int
}

// ParamFilter is a Filter driven by named effect parameters.
type ParamFilter interface {
	Filter
	// SetParameter applies one parameter and reports whether the key is known.
	SetParameter(key string, value ParamValue) bool
}

// EffectConstructor creates a fresh filter for one layer effect.
type EffectConstructor func() Filter

// effectRegistry maps effect kinds to constructors. Register kinds before
// creating layers; the registry is not synchronized.
var effectRegistry = map[string]EffectConstructor{
	"blur":         func() Filter { return NewBlurFilter(0) },
	"colormatrix":  func() Filter { return NewColorMatrixFilter() },
	"outline":      func() Filter { return NewOutlineFilter(1, ColorWhite) },
	"pixeloutline": func() Filter { return NewPixelPerfectOutlineFilter(ColorWhite) },
	"pixelinline":  func() Filter { return NewPixelPerfectInlineFilter(ColorWhite) },
}

// RegisterEffect makes kind available to EffectData.Type. An existing kind
// is replaced.
func RegisterEffect(kind string, ctor EffectConstructor) {
	effectRegistry[kind] = ctor
}

// RegisterShaderEffect compiles a Kage shader and registers it as kind.
// Numeric effect parameters are passed to the shader as float uniforms of
// the same name.
func RegisterShaderEffect(kind string, src []byte, padding int) error {
	s, err := ebiten.NewShader(src)
	if err != nil {
		return fmt.Errorf("strata: compile shader effect %q: %w", kind, err)
	}
	RegisterEffect(kind, func() Filter { return NewCustomShaderFilter(s, padding) })
	return nil
}

// newEffectFilter builds the filter for an effect kind.
func newEffectFilter(kind string) (Filter, bool) {
	ctor, ok := effectRegistry[kind]
	if !ok {
		return nil, false
	}
	return ctor(), true
}

// --- Kage shader sources ---
// All shaders use //kage:unit pixels. Ebitengine uses premultiplied alpha;
// shaders un-premultiply before processing and re-premultiply output.

const colorMatrixShaderSrc = `//kage:unit pixels
package main

var Matrix [20]float

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := imageSrc0At(src)
	if c.a > 0 {
		c.rgb /= c.a
	}
	r := Matrix[0]*c.r + Matrix[1]*c.g + Matrix[2]*c.b + Matrix[3]*c.a + Matrix[4]
	g := Matrix[5]*c.r + Matrix[6]*c.g + Matrix[7]*c.b + Matrix[8]*c.a + Matrix[9]
	b := Matrix[10]*c.r + Matrix[11]*c.g + Matrix[12]*c.b + Matrix[13]*c.a + Matrix[14]
	a := Matrix[15]*c.r + Matrix[16]*c.g + Matrix[17]*c.b + Matrix[18]*c.a + Matrix[19]
	r = clamp(r, 0, 1)
	g = clamp(g, 0, 1)
	b = clamp(b, 0, 1)
	a = clamp(a, 0, 1)
	return vec4(r*a, g*a, b*a, a)
}
`

const pixelPerfectOutlineShaderSrc = `//kage:unit pixels
package main

var OutlineColor vec4

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := imageSrc0At(src)
	if c.a > 0 {
		return c
	}
	if imageSrc0At(src + vec2(1, 0)).a > 0 ||
		imageSrc0At(src + vec2(-1, 0)).a > 0 ||
		imageSrc0At(src + vec2(0, 1)).a > 0 ||
		imageSrc0At(src + vec2(0, -1)).a > 0 {
		return OutlineColor
	}
	return vec4(0)
}
`

const pixelPerfectInlineShaderSrc = `//kage:unit pixels
package main

var InlineColor vec4

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := imageSrc0At(src)
	if c.a == 0 {
		return vec4(0)
	}
	if imageSrc0At(src + vec2(1, 0)).a == 0 ||
		imageSrc0At(src + vec2(-1, 0)).a == 0 ||
		imageSrc0At(src + vec2(0, 1)).a == 0 ||
		imageSrc0At(src + vec2(0, -1)).a == 0 {
		return InlineColor
	}
	return c
}
`

// --- Lazy shader compilation (no sync.Once; rendering is single-threaded) ---

var (
	colorMatrixShader *ebiten.Shader
	ppOutlineShader   *ebiten.Shader
	ppInlineShader    *ebiten.Shader
)

func ensureShader(dst **ebiten.Shader, name, src string) *ebiten.Shader {
	if *dst == nil {
		s, err := ebiten.NewShader([]byte(src))
		if err != nil {
			panic("strata: failed to compile " + name + " shader: " + err.Error())
		}
		*dst = s
	}
	return *dst
}

// --- parameter helpers ---

func paramFloat(v ParamValue) (float64, bool) {
	if f, ok := v.Float(); ok {
		return f, true
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// parseHexColor parses "#rgb", "#rrggbb" or "#rrggbbaa".
func parseHexColor(s string) (Color, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) == 6 {
		s += "ff"
	}
	if len(s) != 8 {
		return Color{}, false
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, false
	}
	return Color{
		R: float64(n>>24&0xff) / 255,
		G: float64(n>>16&0xff) / 255,
		B: float64(n>>8&0xff) / 255,
		A: float64(n&0xff) / 255,
	}, true
}

// setColorParam applies "color" (hex string) or a single "r", "g", "b", "a"
// channel to c.
func setColorParam(c *Color, key string, v ParamValue) bool {
	if key == "color" {
		s, ok := v.Text()
		if !ok {
			return false
		}
		parsed, ok := parseHexColor(s)
		if !ok {
			return false
		}
		*c = parsed
		return true
	}
	f, ok := paramFloat(v)
	if !ok {
		return false
	}
	switch key {
	case "r":
		c.R = f
	case "g":
		c.G = f
	case "b":
		c.B = f
	case "a":
		c.A = f
	default:
		return false
	}
	return true
}

// --- ColorMatrixFilter ---

// ColorMatrixFilter applies a 4x5 color matrix transformation using a Kage shader.
// The matrix is stored in row-major order: [R_r, R_g, R_b, R_a, R_offset, G_r, ...].
//
// Parameters: brightness (offset, 0 = none), contrast (1 = none), saturation
// (1 = none). They compose as saturation, then contrast, then brightness.
type ColorMatrixFilter struct {
	Matrix [20]float64

	brightness float64
	contrast   float64
	saturation float64

	uniforms    map[string]any
	matrixF32   [20]float32 // persistent buffer to avoid per-frame slice escape
	matrixSlice []float32
	shaderOp    ebiten.DrawRectShaderOptions
}

// NewColorMatrixFilter creates a color matrix filter initialized to the identity.
func NewColorMatrixFilter() *ColorMatrixFilter {
	f := &ColorMatrixFilter{
		contrast:   1,
		saturation: 1,
		uniforms:   make(map[string]any, 1),
	}
	f.matrixSlice = f.matrixF32[:]
	f.uniforms["Matrix"] = f.matrixSlice
	f.rebuild()
	return f
}

// SetBrightness sets the brightness offset [-1, 1].
func (f *ColorMatrixFilter) SetBrightness(b float64) {
	f.brightness = b
	f.rebuild()
}

// SetContrast sets contrast. c=1 is normal, 0=gray, >1 is higher.
func (f *ColorMatrixFilter) SetContrast(c float64) {
	f.contrast = c
	f.rebuild()
}

// SetSaturation sets saturation. s=1 is normal, 0=grayscale.
func (f *ColorMatrixFilter) SetSaturation(s float64) {
	f.saturation = s
	f.rebuild()
}

func (f *ColorMatrixFilter) rebuild() {
	s, c, b := f.saturation, f.contrast, f.brightness
	sr := (1 - s) * 0.299
	sg := (1 - s) * 0.587
	sb := (1 - s) * 0.114
	off := (1-c)/2 + b
	f.Matrix = [20]float64{
		c * (sr + s), c * sg, c * sb, 0, off,
		c * sr, c * (sg + s), c * sb, 0, off,
		c * sr, c * sg, c * (sb + s), 0, off,
		0, 0, 0, 1, 0,
	}
}

// SetParameter implements ParamFilter.
func (f *ColorMatrixFilter) SetParameter(key string, v ParamValue) bool {
	val, ok := paramFloat(v)
	if !ok {
		return false
	}
	switch key {
	case "brightness":
		f.SetBrightness(val)
	case "contrast":
		f.SetContrast(val)
	case "saturation":
		f.SetSaturation(val)
	default:
		return false
	}
	return true
}

// Apply renders the color matrix transformation from src into dst.
func (f *ColorMatrixFilter) Apply(src, dst *ebiten.Image) {
	shader := ensureShader(&colorMatrixShader, "color matrix", colorMatrixShaderSrc)
	for i, v := range f.Matrix {
		f.matrixF32[i] = float32(v)
	}
	bounds := src.Bounds()
	f.shaderOp.Images[0] = src
	f.shaderOp.Uniforms = f.uniforms
	dst.DrawRectShader(bounds.Dx(), bounds.Dy(), shader, &f.shaderOp)
}

// Padding returns 0; color matrix transforms don't expand the image bounds.
func (f *ColorMatrixFilter) Padding() int { return 0 }

// --- BlurFilter ---

// BlurFilter applies a Kawase iterative blur using downscale/upscale passes.
// Bilinear filtering during DrawImage does the work; no shader needed.
//
// Parameters: radius (pixels).
type BlurFilter struct {
	Radius int
	temps  []*ebiten.Image
	imgOp  ebiten.DrawImageOptions
}

// NewBlurFilter creates a blur filter with the given radius (in pixels).
func NewBlurFilter(radius int) *BlurFilter {
	if radius < 0 {
		radius = 0
	}
	return &BlurFilter{Radius: radius}
}

// SetParameter implements ParamFilter.
func (f *BlurFilter) SetParameter(key string, v ParamValue) bool {
	if key != "radius" {
		return false
	}
	r, ok := paramFloat(v)
	if !ok || math.IsNaN(r) {
		return false
	}
	f.Radius = max(int(math.Round(r)), 0)
	return true
}

// Apply renders a Kawase blur from src into dst.
func (f *BlurFilter) Apply(src, dst *ebiten.Image) {
	op := &f.imgOp
	if f.Radius <= 0 {
		op.GeoM.Reset()
		op.ColorScale.Reset()
		op.Filter = ebiten.FilterNearest
		dst.DrawImage(src, op)
		return
	}

	passes := max(int(math.Ceil(math.Log2(float64(f.Radius)))), 1)

	srcBounds := src.Bounds()
	w, h := srcBounds.Dx(), srcBounds.Dy()

	for len(f.temps) < passes {
		f.temps = append(f.temps, nil)
	}
	for i := passes; i < len(f.temps); i++ {
		if f.temps[i] != nil {
			f.temps[i].Deallocate()
			f.temps[i] = nil
		}
	}
	f.temps = f.temps[:passes]

	current := src
	for i := 0; i < passes; i++ {
		w = max(w/2, 1)
		h = max(h/2, 1)
		if f.temps[i] == nil || f.temps[i].Bounds().Dx() != w || f.temps[i].Bounds().Dy() != h {
			if f.temps[i] != nil {
				f.temps[i].Deallocate()
			}
			f.temps[i] = ebiten.NewImage(w, h)
		} else {
			f.temps[i].Clear()
		}
		f.scaleInto(f.temps[i], current)
		current = f.temps[i]
	}

	for i := passes - 2; i >= 0; i-- {
		f.temps[i].Clear()
		f.scaleInto(f.temps[i], current)
		current = f.temps[i]
	}

	f.scaleInto(dst, current)
}

// scaleInto draws src stretched over dst with bilinear filtering.
func (f *BlurFilter) scaleInto(dst, src *ebiten.Image) {
	op := &f.imgOp
	op.GeoM.Reset()
	op.ColorScale.Reset()
	sw := float64(src.Bounds().Dx())
	sh := float64(src.Bounds().Dy())
	tw := float64(dst.Bounds().Dx())
	th := float64(dst.Bounds().Dy())
	op.GeoM.Scale(tw/sw, th/sh)
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(src, op)
}

// Padding returns the blur radius.
func (f *BlurFilter) Padding() int { return f.Radius }

// --- OutlineFilter ---

// OutlineFilter draws the source at 8 offsets tinted with the outline color,
// then the source on top.
//
// Parameters: thickness, color ("#rrggbb[aa]"), r, g, b, a.
type OutlineFilter struct {
	Thickness int
	Color     Color
	imgOp     ebiten.DrawImageOptions
}

// NewOutlineFilter creates an outline filter.
func NewOutlineFilter(thickness int, c Color) *OutlineFilter {
	return &OutlineFilter{Thickness: thickness, Color: c}
}

// SetParameter implements ParamFilter.
func (f *OutlineFilter) SetParameter(key string, v ParamValue) bool {
	if key == "thickness" {
		t, ok := paramFloat(v)
		if !ok || math.IsNaN(t) {
			return false
		}
		f.Thickness = max(int(math.Round(t)), 0)
		return true
	}
	return setColorParam(&f.Color, key, v)
}

// Apply draws an 8-direction offset outline behind the source image.
func (f *OutlineFilter) Apply(src, dst *ebiten.Image) {
	t := float64(f.Thickness)
	offsets := [8][2]float64{
		{-t, 0}, {t, 0}, {0, -t}, {0, t},
		{-t, -t}, {t, -t}, {-t, t}, {t, t},
	}

	op := &f.imgOp
	for _, off := range offsets {
		op.GeoM.Reset()
		op.ColorScale.Reset()
		op.GeoM.Translate(off[0], off[1])
		op.ColorScale.Scale(
			float32(f.Color.R*f.Color.A),
			float32(f.Color.G*f.Color.A),
			float32(f.Color.B*f.Color.A),
			float32(f.Color.A),
		)
		dst.DrawImage(src, op)
	}

	op.GeoM.Reset()
	op.ColorScale.Reset()
	dst.DrawImage(src, op)
}

// Padding returns the outline thickness.
func (f *OutlineFilter) Padding() int { return f.Thickness }

// --- Pixel-perfect outline and inline ---

// pixelEdgeFilter runs a one-uniform edge shader: the outline variant paints
// transparent pixels next to opaque ones, the inline variant recolors opaque
// pixels next to transparent ones.
type pixelEdgeFilter struct {
	Color      Color
	uniform    string
	shaderName string
	shaderSrc  string
	shader     **ebiten.Shader
	padding    int
	uniforms   map[string]any
	colorF32   [4]float32
	colorSlice []float32
	shaderOp   ebiten.DrawRectShaderOptions
}

func newPixelEdgeFilter(c Color, uniform, name, src string, shader **ebiten.Shader, padding int) pixelEdgeFilter {
	f := pixelEdgeFilter{
		Color:      c,
		uniform:    uniform,
		shaderName: name,
		shaderSrc:  src,
		shader:     shader,
		padding:    padding,
		uniforms:   make(map[string]any, 1),
	}
	return f
}

// SetParameter implements ParamFilter. Parameters: color, r, g, b, a.
func (f *pixelEdgeFilter) SetParameter(key string, v ParamValue) bool {
	return setColorParam(&f.Color, key, v)
}

func (f *pixelEdgeFilter) Apply(src, dst *ebiten.Image) {
	if f.colorSlice == nil {
		f.colorSlice = f.colorF32[:]
		f.uniforms[f.uniform] = f.colorSlice
	}
	shader := ensureShader(f.shader, f.shaderName, f.shaderSrc)
	f.colorF32[0] = float32(f.Color.R * f.Color.A)
	f.colorF32[1] = float32(f.Color.G * f.Color.A)
	f.colorF32[2] = float32(f.Color.B * f.Color.A)
	f.colorF32[3] = float32(f.Color.A)
	bounds := src.Bounds()
	f.shaderOp.Images[0] = src
	f.shaderOp.Uniforms = f.uniforms
	dst.DrawRectShader(bounds.Dx(), bounds.Dy(), shader, &f.shaderOp)
}

func (f *pixelEdgeFilter) Padding() int { return f.padding }

// PixelPerfectOutlineFilter draws a 1-pixel outline around non-transparent
// pixels by testing cardinal neighbors.
type PixelPerfectOutlineFilter struct {
	pixelEdgeFilter
}

// NewPixelPerfectOutlineFilter creates a pixel-perfect outline filter.
func NewPixelPerfectOutlineFilter(c Color) *PixelPerfectOutlineFilter {
	return &PixelPerfectOutlineFilter{newPixelEdgeFilter(c,
		"OutlineColor", "pixel-perfect outline", pixelPerfectOutlineShaderSrc, &ppOutlineShader, 1)}
}

// PixelPerfectInlineFilter recolors edge pixels that border transparent areas.
type PixelPerfectInlineFilter struct {
	pixelEdgeFilter
}

// NewPixelPerfectInlineFilter creates a pixel-perfect inline filter.
func NewPixelPerfectInlineFilter(c Color) *PixelPerfectInlineFilter {
	return &PixelPerfectInlineFilter{newPixelEdgeFilter(c,
		"InlineColor", "pixel-perfect inline", pixelPerfectInlineShaderSrc, &ppInlineShader, 0)}
}

// --- CustomShaderFilter ---

// CustomShaderFilter wraps a user-provided Kage shader. Images[0] is filled
// with the source texture; Images[1] and Images[2] may be set for extra
// textures. Numeric effect parameters become float uniforms.
type CustomShaderFilter struct {
	Shader   *ebiten.Shader
	Uniforms map[string]any
	Images   [3]*ebiten.Image
	padding  int
	shaderOp ebiten.DrawRectShaderOptions
}

// NewCustomShaderFilter creates a custom shader filter with the given shader and padding.
func NewCustomShaderFilter(shader *ebiten.Shader, padding int) *CustomShaderFilter {
	return &CustomShaderFilter{
		Shader:   shader,
		Uniforms: make(map[string]any),
		padding:  padding,
	}
}

// SetParameter implements ParamFilter. String values are rejected.
func (f *CustomShaderFilter) SetParameter(key string, v ParamValue) bool {
	n, ok := v.Float()
	if !ok {
		return false
	}
	f.Uniforms[key] = float32(n)
	return true
}

// Apply runs the shader with src as Images[0].
func (f *CustomShaderFilter) Apply(src, dst *ebiten.Image) {
	bounds := src.Bounds()
	f.shaderOp.Images[0] = src
	f.shaderOp.Images[1] = f.Images[1]
	f.shaderOp.Images[2] = f.Images[2]
	f.shaderOp.Uniforms = f.Uniforms
	dst.DrawRectShader(bounds.Dx(), bounds.Dy(), f.Shader, &f.shaderOp)
}

// Padding returns the padding value set at construction time.
func (f *CustomShaderFilter) Padding() int { return f.padding }

// --- Filter chain helpers ---

// filterChainPadding returns the cumulative padding of a filter chain.
func filterChainPadding(filters []Filter) int {
	pad := 0
	for _, f := range filters {
		pad += f.Padding()
	}
	return pad
}

// applyFilters runs a filter chain on src, ping-ponging between src and a
// pooled scratch image. It returns the image holding the result and the
// image the caller must release back to the pool (nil when no scratch was
// acquired).
func applyFilters(filters []Filter, src *ebiten.Image, pool *renderTexturePool) (result, spare *ebiten.Image) {
	if len(filters) == 0 {
		return src, nil
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	current := src
	var scratch *ebiten.Image
	for _, f := range filters {
		if scratch == nil {
			scratch = pool.Acquire(w, h)
		} else {
			scratch.Clear()
		}
		f.Apply(current, scratch)
		current, scratch = scratch, current
	}
	return current, scratch
}

// logFilterMiss reports an effect parameter the backend could not apply.
func logFilterMiss(layer, effect, key string, v ParamValue, reason string) {
	Logger().Debug("strata: effect parameter not applied",
		slog.String("layer", layer),
		slog.String("effect", effect),
		slog.String("key", key),
		slog.String("value", v.String()),
		slog.String("reason", reason))
}
