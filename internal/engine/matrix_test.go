package engine

import (
	"math"
	"testing"

	"github.com/crk2/designer/internal/document"
)

const eps = 1e-9

func approx(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func TestDistanceAndAngle(t *testing.T) {
	tests := []struct {
		p1, p2 Point
		dist   float64
		angle  float64
	}{
		{Point{0, 0}, Point{3, 4}, 5, math.Atan2(4, 3) * 180 / math.Pi},
		{Point{1, 1}, Point{1, 1}, 0, 0},
		{Point{0, 0}, Point{0, 10}, 10, 90},
		{Point{0, 0}, Point{-10, 0}, 10, 180},
		{Point{0, 0}, Point{0, -10}, 10, -90},
	}
	for _, tt := range tests {
		if got := Distance(tt.p1, tt.p2); !approx(got, tt.dist) {
			t.Errorf("Distance(%v, %v) = %v, want %v", tt.p1, tt.p2, got, tt.dist)
		}
		if got := AngleDegrees(tt.p1, tt.p2); !approx(got, tt.angle) {
			t.Errorf("AngleDegrees(%v, %v) = %v, want %v", tt.p1, tt.p2, got, tt.angle)
		}
	}
}

func TestElementMatrix_CenterIsFixed(t *testing.T) {
	m := ElementMatrix(10, 20, 100, 50, 2, 45)
	x, y := m.TransformPoint(50, 25)
	if !approx(x, 60) || !approx(y, 45) {
		t.Errorf("center maps to (%v, %v), want (60, 45)", x, y)
	}
}

func TestElementMatrix_Identity(t *testing.T) {
	m := ElementMatrix(0, 0, 100, 50, 1, 0)
	if !m.IsIdentity() {
		t.Errorf("ElementMatrix at origin with identity transform = %v", m)
	}
	r := ElementMatrix(30, 40, 100, 50, 1, 0).TransformRect(Rect{Width: 100, Height: 50})
	if !approx(r.X, 30) || !approx(r.Y, 40) || !approx(r.Width, 100) || !approx(r.Height, 50) {
		t.Errorf("TransformRect() = %+v, want {30 40 100 50}", r)
	}
}

func TestMatrix_InvertRoundTrip(t *testing.T) {
	m := ElementMatrix(15, -5, 80, 40, 1.7, 33)
	x, y := m.TransformPoint(12, 34)
	bx, by := m.Invert().TransformPoint(x, y)
	if !approx(bx, 12) || !approx(by, 34) {
		t.Errorf("Invert() round trip = (%v, %v), want (12, 34)", bx, by)
	}
}

func TestNormalizeDegrees(t *testing.T) {
	tests := map[float64]float64{
		0:    0,
		90:   90,
		360:  0,
		-90:  270,
		725:  5,
		-360: 0,
	}
	for in, want := range tests {
		if got := NormalizeDegrees(in); !approx(got, want) {
			t.Errorf("NormalizeDegrees(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestTransformString(t *testing.T) {
	tests := []struct {
		scale, rot float64
		want       string
	}{
		{1, 0, "scale(1) rotate(0deg)"},
		{1.5, -90, "scale(1.5) rotate(270deg)"},
		{0.2, 450, "scale(0.2) rotate(90deg)"},
	}
	for _, tt := range tests {
		if got := TransformString(tt.scale, tt.rot); got != tt.want {
			t.Errorf("TransformString(%v, %v) = %q, want %q", tt.scale, tt.rot, got, tt.want)
		}
	}
}

func TestClampPosition(t *testing.T) {
	x, y := clampPosition(-50, 1000, 150, 150, document.IdentityTransform(), 500, 600)
	if x != 0 || y != 450 {
		t.Errorf("clampPosition() = (%v, %v), want (0, 450)", x, y)
	}

	x, y = clampPosition(10, 10, 800, 100, document.IdentityTransform(), 500, 600)
	if x != 0 || y != 10 {
		t.Errorf("oversized box clampPosition() = (%v, %v), want (0, 10)", x, y)
	}

	x, y = clampPosition(-40, 700, 100, 900, document.IdentityTransform(), 500, 600)
	if x != 0 || y != 0 {
		t.Errorf("oversized box clampPosition() = (%v, %v), want (0, 0)", x, y)
	}
}
