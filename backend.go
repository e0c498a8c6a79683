package strata

import "github.com/hajimehoshi/ebiten/v2"

// RenderBackend receives a layer's state changes. Every Layer mutator calls
// the matching method synchronously before returning, so a backend's cached
// state always matches the layer.
type RenderBackend interface {
	// UpdatePosition re-reads the layer camera (position, zoom, rotation).
	UpdatePosition()
	// UpdateVisibility shows or hides the layer's content.
	UpdateVisibility(visible bool)
	// SetEffectParameter applies one effect parameter. Unknown effect or
	// parameter names are the backend's concern.
	SetEffectParameter(effect, key string, value ParamValue)
}

// BackendFactory binds a new backend to a layer. It is called once, from
// NewLayer, after every layer field is initialized.
type BackendFactory func(l *Layer) RenderBackend

// Drawer is implemented by backends that draw the layer onto a screen.
type Drawer interface {
	Draw(dst *ebiten.Image)
}

// Resizer is implemented by backends that react to canvas size changes.
type Resizer interface {
	OnViewportResized(w, h int)
}

// Disposer is implemented by backends holding GPU resources.
type Disposer interface {
	Dispose()
}

// NopBackend ignores every notification.
type NopBackend struct{}

func (NopBackend) UpdatePosition()                               {}
func (NopBackend) UpdateVisibility(bool)                         {}
func (NopBackend) SetEffectParameter(string, string, ParamValue) {}

// NopFactory binds a NopBackend.
func NopFactory(*Layer) RenderBackend { return NopBackend{} }
