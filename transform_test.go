package strata

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertMatrix(t *testing.T, name string, got, want [6]float64) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > epsilon {
			t.Errorf("%s[%d] = %v, want %v (full: %v vs %v)", name, i, got[i], want[i], got, want)
		}
	}
}

func TestDegToRad(t *testing.T) {
	assertNear(t, "180deg", degToRad(180), math.Pi)
	assertNear(t, "90deg", degToRad(90), math.Pi/2)
	assertNear(t, "-45deg", degToRad(-45), -math.Pi/4)
}

func TestRotatePoint90(t *testing.T) {
	x, y := rotatePoint(1, 0, 90)
	assertNear(t, "x", x, 0)
	assertNear(t, "y", y, 1)
}

func TestRotatePointFullTurn(t *testing.T) {
	x, y := rotatePoint(3, -7, 720)
	if !approxEqual(x, 3, 1e-9) || !approxEqual(y, -7, 1e-9) {
		t.Errorf("rotate 720 = (%v,%v), want (3,-7)", x, y)
	}
}

func TestMultiplyAffineIdentity(t *testing.T) {
	m := [6]float64{2, 0.5, -1, 3, 10, 20}
	assertMatrix(t, "I*m", multiplyAffine(identityTransform, m), m)
	assertMatrix(t, "m*I", multiplyAffine(m, identityTransform), m)
}

func TestMultiplyAffineTranslations(t *testing.T) {
	a := [6]float64{1, 0, 0, 1, 10, 20}
	b := [6]float64{1, 0, 0, 1, 5, -5}
	assertMatrix(t, "a*b", multiplyAffine(a, b), [6]float64{1, 0, 0, 1, 15, 15})
}

func TestInvertAffineRoundtrip(t *testing.T) {
	m := [6]float64{0.5, 1.2, -0.7, 2, 30, -40}
	inv := invertAffine(m)
	assertMatrix(t, "m*inv", multiplyAffine(m, inv), identityTransform)
}

func TestInvertAffineSingular(t *testing.T) {
	m := [6]float64{0, 0, 0, 0, 5, 5}
	assertMatrix(t, "singular", invertAffine(m), identityTransform)
}

func TestTransformPoint(t *testing.T) {
	m := [6]float64{2, 0, 0, 3, 10, 20}
	x, y := transformPoint(m, 1, 1)
	assertNear(t, "x", x, 12)
	assertNear(t, "y", y, 23)
}

func TestGeoMFromAffine(t *testing.T) {
	m := [6]float64{0.5, 1.2, -0.7, 2, 30, -40}
	g := geoMFromAffine(m)
	gx, gy := g.Apply(3, 4)
	mx, my := transformPoint(m, 3, 4)
	assertNear(t, "x", gx, mx)
	assertNear(t, "y", gy, my)
}
