package strata

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Target is anything a layer camera can follow.
type Target interface {
	// Position returns the target's world-space position.
	Position() (x, y float64)
}

// scrollAnim holds active scroll-to tweens for camera X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// cameraState is the per-frame motion state of a layer camera.
type cameraState struct {
	followTarget  Target
	followOffsetX float64
	followOffsetY float64
	followLerp    float64

	boundsEnabled bool
	bounds        Rect

	scroll *scrollAnim
}

// CameraX returns the world-space X of the camera center.
func (l *Layer) CameraX() float64 { return l.cameraX }

// CameraY returns the world-space Y of the camera center.
func (l *Layer) CameraY() float64 { return l.cameraY }

// SetCameraX moves the camera center horizontally.
func (l *Layer) SetCameraX(x float64) {
	l.cameraX = x
	l.backend.UpdatePosition()
}

// SetCameraY moves the camera center vertically.
func (l *Layer) SetCameraY(y float64) {
	l.cameraY = y
	l.backend.UpdatePosition()
}

// SetCameraPosition moves the camera center with a single backend update.
func (l *Layer) SetCameraPosition(x, y float64) {
	l.cameraX = x
	l.cameraY = y
	l.backend.UpdatePosition()
}

// CameraZoom returns the zoom factor (1 = no zoom, >1 = zoom in).
func (l *Layer) CameraZoom() float64 { return l.zoom }

// SetCameraZoom sets the zoom factor. The value is stored as given: zero
// makes camera extents and conversions non-finite, and a negative zoom
// behaves like its absolute value.
func (l *Layer) SetCameraZoom(zoom float64) {
	l.zoom = zoom
	l.backend.UpdatePosition()
}

// CameraRotation returns the camera rotation in degrees.
func (l *Layer) CameraRotation() float64 { return l.rotation }

// SetCameraRotation sets the camera rotation in degrees, around the camera
// center. The angle is not normalized.
func (l *Layer) SetCameraRotation(deg float64) {
	l.rotation = deg
	l.backend.UpdatePosition()
}

// CameraWidth returns the visible world width: viewport width / |zoom|.
func (l *Layer) CameraWidth() float64 {
	return l.width / math.Abs(l.zoom)
}

// CameraHeight returns the visible world height: viewport height / |zoom|.
func (l *Layer) CameraHeight() float64 {
	return l.height / math.Abs(l.zoom)
}

// ConvertCoords converts a point from canvas coordinates (for example the
// cursor position) to layer world coordinates.
func (l *Layer) ConvertCoords(x, y float64) (wx, wy float64) {
	x -= l.width / 2
	y -= l.height / 2

	z := math.Abs(l.zoom)
	x /= z
	y /= z

	x, y = rotatePoint(x, y, l.rotation)
	return x + l.cameraX, y + l.cameraY
}

// ConvertInverseCoords converts a point from layer world coordinates to
// canvas coordinates. It is the inverse of ConvertCoords for any non-zero
// zoom.
func (l *Layer) ConvertInverseCoords(x, y float64) (sx, sy float64) {
	x -= l.cameraX
	y -= l.cameraY

	x, y = rotatePoint(x, y, -l.rotation)

	z := math.Abs(l.zoom)
	x *= z
	y *= z
	return x + l.width/2, y + l.height/2
}

// ViewMatrix returns the world-to-canvas affine matrix of the camera, the
// matrix form of ConvertInverseCoords:
//
//	Translate(w/2, h/2) * Scale(|zoom|) * Rotate(-rotation) * Translate(-X, -Y)
func (l *Layer) ViewMatrix() [6]float64 {
	sin, cos := math.Sincos(degToRad(l.rotation))
	z := math.Abs(l.zoom)

	// [a c tx]   [ z*cos  z*sin  w/2 + z*(-cos*X - sin*Y)]
	// [b d ty] = [-z*sin  z*cos  h/2 + z*( sin*X - cos*Y)]
	a := z * cos
	b := -z * sin
	c := z * sin
	d := z * cos
	tx := l.width/2 + z*(-cos*l.cameraX-sin*l.cameraY)
	ty := l.height/2 + z*(sin*l.cameraX-cos*l.cameraY)
	return [6]float64{a, b, c, d, tx, ty}
}

// CameraBounds returns the axis-aligned world rectangle covering everything
// the camera sees, rotation included.
func (l *Layer) CameraBounds() Rect {
	x0, y0 := l.ConvertCoords(0, 0)
	x1, y1 := l.ConvertCoords(l.width, 0)
	x2, y2 := l.ConvertCoords(l.width, l.height)
	x3, y3 := l.ConvertCoords(0, l.height)

	minX := math.Min(math.Min(x0, x1), math.Min(x2, x3))
	minY := math.Min(math.Min(y0, y1), math.Min(y2, y3))
	maxX := math.Max(math.Max(x0, x1), math.Max(x2, x3))
	maxY := math.Max(math.Max(y0, y1), math.Max(y2, y3))

	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Follow makes the camera track a target with the given offset and lerp
// factor. A lerp of 1.0 snaps immediately; lower values give smoother
// following. Tracking happens in Update.
func (l *Layer) Follow(target Target, offsetX, offsetY, lerp float64) {
	l.cam.followTarget = target
	l.cam.followOffsetX = offsetX
	l.cam.followOffsetY = offsetY
	l.cam.followLerp = lerp
}

// Unfollow stops tracking the current target.
func (l *Layer) Unfollow() {
	l.cam.followTarget = nil
}

// ScrollTo animates the camera center to (x, y) over duration seconds of
// layer time.
func (l *Layer) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	l.cam.scroll = &scrollAnim{
		tweenX: gween.New(float32(l.cameraX), float32(x), duration, easeFn),
		tweenY: gween.New(float32(l.cameraY), float32(y), duration, easeFn),
	}
}

// IsScrolling reports whether a ScrollTo animation is running.
func (l *Layer) IsScrolling() bool { return l.cam.scroll != nil }

// SetBounds keeps the visible area inside bounds from the next Update on.
func (l *Layer) SetBounds(bounds Rect) {
	l.cam.boundsEnabled = true
	l.cam.bounds = bounds
}

// ClearBounds disables bounds clamping.
func (l *Layer) ClearBounds() {
	l.cam.boundsEnabled = false
}

// ClampToBounds immediately clamps the camera center. No-op if no bounds
// are set.
func (l *Layer) ClampToBounds() {
	if !l.cam.boundsEnabled {
		return
	}
	x, y := l.cameraX, l.cameraY
	l.clampToBounds()
	if l.cameraX != x || l.cameraY != y {
		l.backend.UpdatePosition()
	}
}

// Update advances follow, scroll, and bounds clamping by dt seconds. The
// backend is notified once, and only if the camera moved.
func (l *Layer) Update(dt float64) {
	prevX, prevY := l.cameraX, l.cameraY
	c := &l.cam

	if c.followTarget != nil {
		tx, ty := c.followTarget.Position()
		l.cameraX += (tx + c.followOffsetX - l.cameraX) * c.followLerp
		l.cameraY += (ty + c.followOffsetY - l.cameraY) * c.followLerp
	}

	if c.scroll != nil {
		if !c.scroll.doneX {
			val, done := c.scroll.tweenX.Update(float32(dt))
			l.cameraX = float64(val)
			c.scroll.doneX = done
		}
		if !c.scroll.doneY {
			val, done := c.scroll.tweenY.Update(float32(dt))
			l.cameraY = float64(val)
			c.scroll.doneY = done
		}
		if c.scroll.doneX && c.scroll.doneY {
			c.scroll = nil
		}
	}

	if c.boundsEnabled {
		l.clampToBounds()
	}

	if l.cameraX != prevX || l.cameraY != prevY {
		l.backend.UpdatePosition()
	}
}

// clampToBounds restricts the camera center so the visible area stays inside
// the bounds. Bounds smaller than the visible area center the camera.
func (l *Layer) clampToBounds() {
	b := l.cam.bounds
	halfW := l.CameraWidth() / 2
	halfH := l.CameraHeight() / 2

	minX := b.X + halfW
	maxX := b.X + b.Width - halfW
	minY := b.Y + halfH
	maxY := b.Y + b.Height - halfH

	if minX > maxX {
		l.cameraX = b.X + b.Width/2
	} else {
		l.cameraX = math.Max(minX, math.Min(l.cameraX, maxX))
	}
	if minY > maxY {
		l.cameraY = b.Y + b.Height/2
	} else {
		l.cameraY = math.Max(minY, math.Min(l.cameraY, maxY))
	}
}
