package strata

import (
	"image/color"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default outline and tint color.
var ColorWhite = Color{1, 1, 1, 1}

// toRGBA converts to a premultiplied color.RGBA.
func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A)*255 + 0.5),
		G: uint8(clamp01(c.G*c.A)*255 + 0.5),
		B: uint8(clamp01(c.B*c.A)*255 + 0.5),
		A: uint8(clamp01(c.A)*255 + 0.5),
	}
}

// WhitePixel is a 1x1 white image. Scale and tint it to draw solid
// rectangles from a DrawFunc.
var WhitePixel *ebiten.Image

func init() {
	WhitePixel = ebiten.NewImage(1, 1)
	WhitePixel.Fill(ColorWhite.toRGBA())
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Vec2 is a 2D vector used for positions and offsets.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// ParamKind tags the payload held by a ParamValue.
type ParamKind uint8

const (
	ParamNumber ParamKind = iota // numeric parameter (float64)
	ParamString                  // string parameter
)

// ParamValue is an effect parameter value: either a number or a string.
// The zero value is the number 0.
type ParamValue struct {
	Kind ParamKind
	Num  float64
	Str  string
}

// NumberParam returns a numeric ParamValue.
func NumberParam(v float64) ParamValue {
	return ParamValue{Kind: ParamNumber, Num: v}
}

// StringParam returns a string ParamValue.
func StringParam(s string) ParamValue {
	return ParamValue{Kind: ParamString, Str: s}
}

// Float returns the numeric payload. ok is false for string values.
func (v ParamValue) Float() (f float64, ok bool) {
	if v.Kind != ParamNumber {
		return 0, false
	}
	return v.Num, true
}

// Text returns the string payload. ok is false for numeric values.
func (v ParamValue) Text() (s string, ok bool) {
	if v.Kind != ParamString {
		return "", false
	}
	return v.Str, true
}

// String formats the value for logs.
func (v ParamValue) String() string {
	if v.Kind == ParamString {
		return strconv.Quote(v.Str)
	}
	return strconv.FormatFloat(v.Num, 'g', -1, 64)
}

// Param is one entry of a ParamTable.
type Param struct {
	Key   string
	Value ParamValue
}

// ParamTable is a string-keyed parameter table that keeps insertion order.
// Order matters: default parameters are pushed to the backend in table order.
type ParamTable []Param

// Get returns the value stored under key.
func (t ParamTable) Get(key string) (ParamValue, bool) {
	for _, p := range t {
		if p.Key == key {
			return p.Value, true
		}
	}
	return ParamValue{}, false
}

// Set replaces the value under key in place, or appends a new entry.
func (t *ParamTable) Set(key string, v ParamValue) {
	for i := range *t {
		if (*t)[i].Key == key {
			(*t)[i].Value = v
			return
		}
	}
	*t = append(*t, Param{Key: key, Value: v})
}

// Len returns the number of entries.
func (t ParamTable) Len() int { return len(t) }

func (t ParamTable) clone() ParamTable {
	if t == nil {
		return nil
	}
	out := make(ParamTable, len(t))
	copy(out, t)
	return out
}
