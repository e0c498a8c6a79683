package strata

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Scene owns the layers of one scene, in drawing order, and the frame clock
// that drives them.
type Scene struct {
	// ScreenshotDir is where Screenshot writes PNG files. Empty uses
	// DefaultScreenshotDir.
	ScreenshotDir string

	name    string
	game    Game
	factory BackendFactory

	layers []*Layer
	byName map[string]*Layer

	time TimeManager

	screenshots []string
}

// NewScene validates data and creates one layer per entry, in order. Each
// layer gets its backend from factory (nil binds NopBackends).
func NewScene(game Game, data SceneData, factory BackendFactory) (*Scene, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}
	s := &Scene{
		name:    data.Name,
		game:    game,
		factory: factory,
		layers:  make([]*Layer, 0, len(data.Layers)),
		byName:  make(map[string]*Layer, len(data.Layers)),
	}
	for _, ld := range data.Layers {
		l := NewLayer(ld, game, factory)
		s.layers = append(s.layers, l)
		s.byName[l.Name()] = l
	}
	return s, nil
}

// Name returns the scene name.
func (s *Scene) Name() string { return s.name }

// Game returns the game the scene was created with.
func (s *Scene) Game() Game { return s.game }

// Layer returns the layer with the given name.
func (s *Scene) Layer(name string) (*Layer, bool) {
	l, ok := s.byName[name]
	return l, ok
}

// HasLayer reports whether the scene has a layer of that name.
func (s *Scene) HasLayer(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// Layers returns the layers in drawing order. The returned slice MUST NOT
// be mutated.
func (s *Scene) Layers() []*Layer {
	return s.layers
}

// AddLayer appends a new layer built from data.
func (s *Scene) AddLayer(data LayerData) (*Layer, error) {
	if data.Name == "" {
		return nil, ErrEmptyLayerName
	}
	if s.HasLayer(data.Name) {
		return nil, fmt.Errorf("scene %q layer %q: %w", s.name, data.Name, ErrDuplicateLayer)
	}
	l := NewLayer(data, s.game, s.factory)
	s.layers = append(s.layers, l)
	s.byName[l.Name()] = l
	return l, nil
}

// Time returns the scene clock.
func (s *Scene) Time() *TimeManager { return &s.time }

// ElapsedTime returns the milliseconds elapsed during the last tick, making
// the scene a TimeSource for its layers.
func (s *Scene) ElapsedTime() float64 { return s.time.ElapsedTime() }

// Step advances the scene clock by d and updates every layer camera with
// the layer's own elapsed time.
func (s *Scene) Step(d time.Duration) {
	s.time.Step(d)
	for _, l := range s.layers {
		l.Update(l.ElapsedTime(s) / 1000)
	}
}

// Update advances the scene by one Ebitengine tick (1/TPS seconds).
func (s *Scene) Update() {
	s.Step(time.Second / time.Duration(ebiten.TPS()))
}

// Draw draws every visible layer whose backend is a Drawer, in order, then
// writes any queued screenshots.
func (s *Scene) Draw(screen *ebiten.Image) {
	for _, l := range s.layers {
		if !l.IsVisible() {
			continue
		}
		if d, ok := l.backend.(Drawer); ok {
			d.Draw(screen)
		}
	}
	s.flushScreenshots(screen)
}

// Resize forwards a canvas size change to every Resizer backend.
func (s *Scene) Resize(w, h int) {
	for _, l := range s.layers {
		if r, ok := l.backend.(Resizer); ok {
			r.OnViewportResized(w, h)
		}
	}
}

// ReloadEffects replaces the effect defaults of existing layers with those
// in data and pushes them to the backends. Layers missing from the scene
// are skipped.
func (s *Scene) ReloadEffects(data SceneData) {
	for _, ld := range data.Layers {
		l, ok := s.byName[ld.Name]
		if !ok {
			Logger().Debug("strata: reload skipped unknown layer",
				slog.String("scene", s.name), slog.String("layer", ld.Name))
			continue
		}
		l.replaceEffects(ld.Effects)
	}
}

// ReloadFrom reloads effect defaults from the project file at path, using
// the scene of the same name.
func (s *Scene) ReloadFrom(path string) error {
	p, err := LoadProject(path)
	if err != nil {
		return err
	}
	data, err := p.Scene(s.name)
	if err != nil {
		return err
	}
	s.ReloadEffects(data)
	Logger().Debug("strata: effects reloaded",
		slog.String("scene", s.name), slog.String("path", path))
	return nil
}

// Dispose releases every Disposer backend. The scene must not be used
// afterwards.
func (s *Scene) Dispose() {
	for _, l := range s.layers {
		if d, ok := l.backend.(Disposer); ok {
			d.Dispose()
		}
	}
	s.layers = nil
	s.byName = nil
}
