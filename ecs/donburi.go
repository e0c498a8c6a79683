package ecs

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/strata"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// EventKind identifies which layer notification a LayerEvent carries.
type EventKind uint8

const (
	EventPosition        EventKind = iota // camera position, zoom or rotation changed
	EventVisibility                       // layer shown or hidden
	EventEffectParameter                  // effect parameter set
)

// LayerEvent is a snapshot of one layer notification.
type LayerEvent struct {
	Kind  EventKind
	Layer string
	// Camera state, valid for every kind.
	X, Y     float64
	Zoom     float64
	Rotation float64
	Visible  bool
	// Effect fields (valid for EventEffectParameter)
	Effect string
	Key    string
	Value  strata.ParamValue
}

// LayerEventType is the Donburi event type for layer notifications.
var LayerEventType = events.NewEventType[LayerEvent]()

type publishingBackend struct {
	world donburi.World
	layer *strata.Layer
	inner strata.RenderBackend
}

// Publishing wraps inner so each backend it creates also publishes its
// notifications to world. A nil inner factory binds no-op backends. Events
// are queued; consume them with LayerEventType.ProcessEvents.
func Publishing(world donburi.World, inner strata.BackendFactory) strata.BackendFactory {
	return func(l *strata.Layer) strata.RenderBackend {
		var b strata.RenderBackend = strata.NopBackend{}
		if inner != nil {
			if ib := inner(l); ib != nil {
				b = ib
			}
		}
		return &publishingBackend{world: world, layer: l, inner: b}
	}
}

// Inner returns the backend wrapped by a Publishing backend, or b itself.
func Inner(b strata.RenderBackend) strata.RenderBackend {
	if pb, ok := b.(*publishingBackend); ok {
		return pb.inner
	}
	return b
}

func (b *publishingBackend) event(kind EventKind) LayerEvent {
	return LayerEvent{
		Kind:     kind,
		Layer:    b.layer.Name(),
		X:        b.layer.CameraX(),
		Y:        b.layer.CameraY(),
		Zoom:     b.layer.CameraZoom(),
		Rotation: b.layer.CameraRotation(),
		Visible:  b.layer.IsVisible(),
	}
}

func (b *publishingBackend) UpdatePosition() {
	b.inner.UpdatePosition()
	LayerEventType.Publish(b.world, b.event(EventPosition))
}

func (b *publishingBackend) UpdateVisibility(visible bool) {
	b.inner.UpdateVisibility(visible)
	e := b.event(EventVisibility)
	e.Visible = visible
	LayerEventType.Publish(b.world, e)
}

func (b *publishingBackend) SetEffectParameter(effect, key string, value strata.ParamValue) {
	b.inner.SetEffectParameter(effect, key, value)
	e := b.event(EventEffectParameter)
	e.Effect, e.Key, e.Value = effect, key, value
	LayerEventType.Publish(b.world, e)
}

func (b *publishingBackend) Draw(dst *ebiten.Image) {
	if d, ok := b.inner.(strata.Drawer); ok {
		d.Draw(dst)
	}
}

func (b *publishingBackend) OnViewportResized(w, h int) {
	if r, ok := b.inner.(strata.Resizer); ok {
		r.OnViewportResized(w, h)
	}
}

func (b *publishingBackend) Dispose() {
	if d, ok := b.inner.(strata.Disposer); ok {
		d.Dispose()
	}
}
