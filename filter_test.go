package strata

import "testing"

// --- Padding ---

func TestColorMatrixFilterPadding(t *testing.T) {
	f := NewColorMatrixFilter()
	if f.Padding() != 0 {
		t.Errorf("ColorMatrixFilter Padding() = %d, want 0", f.Padding())
	}
}

func TestBlurFilterPadding(t *testing.T) {
	f := NewBlurFilter(8)
	if f.Padding() != 8 {
		t.Errorf("BlurFilter Padding() = %d, want 8", f.Padding())
	}
}

func TestBlurFilterNegativeRadius(t *testing.T) {
	f := NewBlurFilter(-5)
	if f.Radius != 0 {
		t.Errorf("negative radius should clamp to 0, got %d", f.Radius)
	}
}

func TestOutlineFilterPadding(t *testing.T) {
	f := NewOutlineFilter(3, ColorWhite)
	if f.Padding() != 3 {
		t.Errorf("OutlineFilter Padding() = %d, want 3", f.Padding())
	}
}

func TestPixelEdgeFilterPadding(t *testing.T) {
	if p := NewPixelPerfectOutlineFilter(ColorWhite).Padding(); p != 1 {
		t.Errorf("PixelPerfectOutlineFilter Padding() = %d, want 1", p)
	}
	if p := NewPixelPerfectInlineFilter(ColorWhite).Padding(); p != 0 {
		t.Errorf("PixelPerfectInlineFilter Padding() = %d, want 0", p)
	}
}

func TestCustomShaderFilterPadding(t *testing.T) {
	f := NewCustomShaderFilter(nil, 5)
	if f.Padding() != 5 {
		t.Errorf("CustomShaderFilter Padding() = %d, want 5", f.Padding())
	}
}

// --- Color matrix ---

func TestColorMatrixFilterIdentity(t *testing.T) {
	f := NewColorMatrixFilter()
	for i, v := range f.Matrix {
		want := 0.0
		if i == 0 || i == 6 || i == 12 || i == 18 {
			want = 1
		}
		if v != want {
			t.Errorf("Matrix[%d] = %f, want %f", i, v, want)
		}
	}
}

func TestColorMatrixFilterSetBrightness(t *testing.T) {
	f := NewColorMatrixFilter()
	f.SetBrightness(0.5)
	if f.Matrix[4] != 0.5 || f.Matrix[9] != 0.5 || f.Matrix[14] != 0.5 {
		t.Error("brightness offsets should be 0.5")
	}
}

func TestColorMatrixFilterSetContrast(t *testing.T) {
	f := NewColorMatrixFilter()
	f.SetContrast(2.0)
	if f.Matrix[0] != 2.0 || f.Matrix[6] != 2.0 || f.Matrix[12] != 2.0 {
		t.Error("contrast diagonal should be 2.0")
	}
	if f.Matrix[4] != -0.5 || f.Matrix[9] != -0.5 || f.Matrix[14] != -0.5 {
		t.Error("contrast offset should be -0.5")
	}
}

func TestColorMatrixFilterSetSaturation(t *testing.T) {
	f := NewColorMatrixFilter()
	f.SetSaturation(0)
	assertNear(t, "Matrix[0]", f.Matrix[0], 0.299)
	assertNear(t, "Matrix[1]", f.Matrix[1], 0.587)
	assertNear(t, "Matrix[2]", f.Matrix[2], 0.114)
	assertNear(t, "Matrix[5]", f.Matrix[5], 0.299)
}

func TestColorMatrixFilterComposes(t *testing.T) {
	f := NewColorMatrixFilter()
	f.SetBrightness(0.1)
	f.SetContrast(2)
	// contrast keeps the brightness offset: (1-2)/2 + 0.1
	assertNear(t, "Matrix[4]", f.Matrix[4], -0.4)
	assertNear(t, "Matrix[0]", f.Matrix[0], 2)
}

func TestColorMatrixFilterSetParameter(t *testing.T) {
	f := NewColorMatrixFilter()
	if !f.SetParameter("brightness", NumberParam(0.25)) {
		t.Fatal("brightness should be accepted")
	}
	if !f.SetParameter("contrast", StringParam("1")) {
		t.Error("numeric strings should be accepted")
	}
	if f.SetParameter("hue", NumberParam(1)) {
		t.Error("unknown key should be rejected")
	}
	if f.SetParameter("saturation", StringParam("lots")) {
		t.Error("non-numeric string should be rejected")
	}
	assertNear(t, "Matrix[4]", f.Matrix[4], 0.25)
}

// --- Parameters ---

func TestBlurFilterSetParameter(t *testing.T) {
	f := NewBlurFilter(0)
	if !f.SetParameter("radius", NumberParam(4.6)) || f.Radius != 5 {
		t.Errorf("Radius = %d, want 5", f.Radius)
	}
	if !f.SetParameter("radius", NumberParam(-3)) || f.Radius != 0 {
		t.Errorf("Radius = %d, want 0", f.Radius)
	}
	if f.SetParameter("strength", NumberParam(1)) {
		t.Error("unknown key should be rejected")
	}
}

func TestOutlineFilterSetParameter(t *testing.T) {
	f := NewOutlineFilter(1, ColorWhite)
	if !f.SetParameter("thickness", NumberParam(3)) || f.Thickness != 3 {
		t.Errorf("Thickness = %d, want 3", f.Thickness)
	}
	if !f.SetParameter("color", StringParam("#ff000080")) {
		t.Fatal("color should be accepted")
	}
	assertNear(t, "R", f.Color.R, 1)
	assertNear(t, "G", f.Color.G, 0)
	assertNear(t, "A", f.Color.A, 128.0/255)
	if !f.SetParameter("g", NumberParam(0.5)) {
		t.Fatal("channel g should be accepted")
	}
	assertNear(t, "G", f.Color.G, 0.5)
	if f.SetParameter("color", NumberParam(1)) {
		t.Error("numeric color should be rejected")
	}
}

func TestPixelEdgeFilterSetParameter(t *testing.T) {
	f := NewPixelPerfectInlineFilter(ColorWhite)
	if !f.SetParameter("color", StringParam("#00f")) {
		t.Fatal("color should be accepted")
	}
	if f.Color != (Color{0, 0, 1, 1}) {
		t.Errorf("Color = %+v, want blue", f.Color)
	}
}

func TestCustomShaderFilterSetParameter(t *testing.T) {
	f := NewCustomShaderFilter(nil, 0)
	if !f.SetParameter("Time", NumberParam(1.5)) {
		t.Fatal("numeric uniform should be accepted")
	}
	if v, ok := f.Uniforms["Time"]; !ok || v != float32(1.5) {
		t.Errorf("Uniforms[Time] = %v, want float32(1.5)", v)
	}
	if f.SetParameter("Name", StringParam("x")) {
		t.Error("string uniform should be rejected")
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
		ok   bool
	}{
		{"#ffffff", Color{1, 1, 1, 1}, true},
		{"000000", Color{0, 0, 0, 1}, true},
		{"#f00", Color{1, 0, 0, 1}, true},
		{"#00000000", Color{0, 0, 0, 0}, true},
		{"#12345", Color{}, false},
		{"#gggggg", Color{}, false},
		{"", Color{}, false},
	}
	for _, tt := range tests {
		got, ok := parseHexColor(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("parseHexColor(%q) = %+v, %v; want %+v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

// --- Registry ---

func TestEffectRegistryBuiltins(t *testing.T) {
	for _, kind := range []string{"blur", "colormatrix", "outline", "pixeloutline", "pixelinline"} {
		f, ok := newEffectFilter(kind)
		if !ok || f == nil {
			t.Errorf("kind %q not registered", kind)
			continue
		}
		if _, ok := f.(ParamFilter); !ok {
			t.Errorf("kind %q filter %T is not a ParamFilter", kind, f)
		}
	}
	if _, ok := newEffectFilter("nope"); ok {
		t.Error("unknown kind should not resolve")
	}
}

func TestRegisterEffect(t *testing.T) {
	RegisterEffect("test-grow", func() Filter { return NewOutlineFilter(7, ColorWhite) })
	t.Cleanup(func() { delete(effectRegistry, "test-grow") })

	f, ok := newEffectFilter("test-grow")
	if !ok || f.Padding() != 7 {
		t.Errorf("registered effect = %v, %v", f, ok)
	}
	g, _ := newEffectFilter("test-grow")
	if f == g {
		t.Error("each lookup should build a fresh filter")
	}
}

func TestRegisterShaderEffectCompileError(t *testing.T) {
	if err := RegisterShaderEffect("broken", []byte("not kage"), 0); err == nil {
		t.Error("expected a compile error")
	}
	if _, ok := newEffectFilter("broken"); ok {
		t.Error("failed shader should not be registered")
	}
}

// --- Filter chain ---

func TestFilterChainPadding(t *testing.T) {
	filters := []Filter{
		NewColorMatrixFilter(),                   // padding 0
		NewBlurFilter(8),                         // padding 8
		NewOutlineFilter(3, ColorWhite),          // padding 3
		NewPixelPerfectOutlineFilter(ColorWhite), // padding 1
	}
	if pad := filterChainPadding(filters); pad != 12 {
		t.Errorf("chain padding = %d, want 12", pad)
	}
}

func TestFilterChainPaddingEmpty(t *testing.T) {
	if pad := filterChainPadding(nil); pad != 0 {
		t.Errorf("empty chain padding = %d, want 0", pad)
	}
}

func TestApplyFiltersEmpty(t *testing.T) {
	var pool renderTexturePool
	result, spare := applyFilters(nil, nil, &pool)
	if result != nil || spare != nil {
		t.Error("empty chain should return src and no spare")
	}
}
