package engine

import (
	"github.com/crk2/designer/internal/document"
)

// Scene is the live, ordered set of elements on the canvas plus the selection.
// Element order is z-order: later elements paint on top.
type Scene struct {
	Width      float64
	Height     float64
	Elements   []document.Element
	SelectedID string // empty when nothing is selected
	ProductID  string
}

// Rect represents an axis-aligned bounding box.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// NewScene creates an empty scene of the given canvas size.
func NewScene(width, height float64) *Scene {
	return &Scene{Width: width, Height: height}
}

func (s *Scene) indexOf(id string) int {
	for i := range s.Elements {
		if s.Elements[i].ID == id {
			return i
		}
	}
	return -1
}

// Element returns a pointer to the live element with the given id, or nil.
// The pointer is invalidated by Add, Remove and Restore.
func (s *Scene) Element(id string) *document.Element {
	if i := s.indexOf(id); i >= 0 {
		return &s.Elements[i]
	}
	return nil
}

// Add appends an element on top of the z-order.
func (s *Scene) Add(el document.Element) {
	s.Elements = append(s.Elements, el)
}

// Remove deletes the element and clears the selection if it pointed at it.
func (s *Scene) Remove(id string) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.Elements = append(s.Elements[:i], s.Elements[i+1:]...)
	if s.SelectedID == id {
		s.SelectedID = ""
	}
	return true
}

// Selected returns the selected element, or nil.
func (s *Scene) Selected() *document.Element {
	if s.SelectedID == "" {
		return nil
	}
	return s.Element(s.SelectedID)
}

// Snapshot copies the scene into an immutable history entry.
func (s *Scene) Snapshot() document.Snapshot {
	return document.Snapshot{
		ProductID: s.ProductID,
		Elements:  document.CloneElements(s.Elements),
	}
}

// Restore replaces every element with copies from snap. The selection survives only if the
// selected element exists in the snapshot.
func (s *Scene) Restore(snap document.Snapshot) {
	s.Elements = document.CloneElements(snap.Elements)
	for i := range s.Elements {
		if s.Elements[i].IsText() {
			s.Elements[i].Text.Editable = true
		}
	}
	if s.SelectedID != "" && s.indexOf(s.SelectedID) < 0 {
		s.SelectedID = ""
	}
}

// Clear removes every element and the selection. The product stays selected.
func (s *Scene) Clear() {
	s.Elements = nil
	s.SelectedID = ""
}

// Contains checks if a point is inside the rect.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

// IsEmpty checks if the rect has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Union returns the smallest rect containing both rects.
func (r Rect) Union(other Rect) Rect {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}

	minX := min(r.X, other.X)
	minY := min(r.Y, other.Y)
	maxX := max(r.X+r.Width, other.X+other.Width)
	maxY := max(r.Y+r.Height, other.Y+other.Height)

	return Rect{
		X:      minX,
		Y:      minY,
		Width:  maxX - minX,
		Height: maxY - minY,
	}
}

// Center returns the center point of the rect.
func (r Rect) Center() (float64, float64) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// clampPosition keeps the element's visual bounding box inside a cw×ch canvas. With an
// identity transform this is [0, cw-w] × [0, ch-h]. A box larger than the canvas is centered.
func clampPosition(x, y, w, h float64, t document.Transform, cw, ch float64) (float64, float64) {
	vis := ElementMatrix(0, 0, w, h, t.Scale, t.RotationDeg).TransformRect(Rect{Width: w, Height: h})
	x = clampAxis(x, -vis.X, cw-vis.X-vis.Width)
	y = clampAxis(y, -vis.Y, ch-vis.Y-vis.Height)
	return x, y
}

func clampAxis(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	return max(lo, min(v, hi))
}

func clampScale(s float64) float64 {
	return max(document.MinScale, min(s, document.MaxScale))
}
