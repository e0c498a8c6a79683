package strata

import (
	"fmt"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// setupBenchScene creates a Scene with n renderer-backed layers, each with a
// blur effect and a draw func filling one rectangle.
func setupBenchScene(n int) *Scene {
	data := SceneData{Name: "bench"}
	for i := 0; i < n; i++ {
		data.Layers = append(data.Layers, LayerData{
			Name:       fmt.Sprintf("layer%d", i),
			Visibility: true,
			Effects: []EffectData{{Name: "blur", Parameters: ParamTable{
				{Key: "radius", Value: NumberParam(2)},
			}}},
		})
	}
	s, err := NewScene(testGame, data, RendererFactory)
	if err != nil {
		panic(err)
	}
	for _, l := range s.Layers() {
		l.Backend().(*Renderer).SetDrawFunc(func(dst *ebiten.Image, geoM ebiten.GeoM) {
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Scale(64, 64)
			op.GeoM.Concat(geoM)
			dst.DrawImage(WhitePixel, op)
		})
	}
	return s
}

// --- Layer Benchmarks ---

func BenchmarkConvertCoords(b *testing.B) {
	l := NewLayer(LayerData{Name: "b"}, testGame, nil)
	l.SetCameraZoom(2)
	l.SetCameraRotation(30)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		x, y := l.ConvertCoords(float64(i%800), 300)
		l.ConvertInverseCoords(x, y)
	}
}

func BenchmarkSetCamera_Renderer(b *testing.B) {
	l := NewLayer(LayerData{Name: "b"}, testGame, RendererFactory)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		l.SetCameraPosition(float64(i), float64(i))
	}
}

// --- Scene Benchmarks ---

func BenchmarkSceneStep_10Layers(b *testing.B) {
	s := setupBenchScene(10)
	for _, l := range s.Layers() {
		l.Follow(&pointTarget{x: 100, y: 100}, 0, 0, 0.1)
	}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		s.Step(16 * time.Millisecond)
	}
}

func BenchmarkSceneDraw_10Layers(b *testing.B) {
	s := setupBenchScene(10)
	screen := ebiten.NewImage(800, 600)

	// Warm up: the first draw fills the texture pools.
	s.Draw(screen)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		s.Draw(screen)
	}
}
