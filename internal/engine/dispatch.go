package engine

import (
	"slices"
	"time"

	"github.com/crk2/designer/internal/document"
)

// PointerPhase is the kind of a raw input event.
type PointerPhase string

const (
	PointerDown   PointerPhase = "down"
	PointerMove   PointerPhase = "move"
	PointerUp     PointerPhase = "up"
	PointerCancel PointerPhase = "cancel"
)

// PointerEvent is one raw mouse or touch sample in canvas-local coordinates.
// A mouse is a single pointer; each touch point has its own ID.
type PointerEvent struct {
	Phase PointerPhase `json:"phase"`
	ID    int          `json:"id"`
	X     float64      `json:"x"`
	Y     float64      `json:"y"`
	Time  time.Time    `json:"time"`
}

// HandlePointer routes a raw input event. Every point of an interaction goes to the element
// under the initiating press; points beyond the second are tracked but otherwise ignored.
func (s *Session) HandlePointer(ev PointerEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := Point{X: ev.X, Y: ev.Y}
	switch ev.Phase {
	case PointerDown:
		s.pointerDown(ev.ID, p, s.eventTime(ev))
	case PointerMove:
		s.pointerMove(ev.ID, p, s.eventTime(ev))
	case PointerUp, PointerCancel:
		s.pointerUp(ev.ID)
	}
}

func (s *Session) eventTime(ev PointerEvent) time.Time {
	if ev.Time.IsZero() {
		return s.now()
	}
	return ev.Time
}

func (s *Session) pointerDown(id int, p Point, at time.Time) {
	if _, dup := s.pointers[id]; dup {
		return
	}
	s.pointers[id] = p
	s.order = append(s.order, id)

	switch len(s.order) {
	case 1:
		s.initiate(id, p, at)
	case 2:
		if s.target == "" {
			return
		}
		g := s.gestures[s.target]
		el := s.scene.Element(s.target)
		if g == nil || el == nil {
			return
		}
		s.beginTransform(g, el, s.order[0], s.order[1], s.pointers[s.order[0]], p)
	}
}

// initiate handles the first point of an interaction: blur any edit elsewhere, hit test,
// select and start the press. Presses on empty canvas clear the selection.
func (s *Session) initiate(id int, p Point, at time.Time) {
	s.target = ""
	hit := s.hitTest(p.X, p.Y)
	s.blurExcept(hit)

	if hit == "" {
		s.scene.SelectedID = ""
		return
	}

	g := s.gestureFor(hit)
	if g.state == GestureEditing {
		// Caret placement belongs to the host while the element is being edited.
		return
	}
	el := s.scene.Element(hit)
	s.selectLocked(hit)
	s.target = hit
	s.press(g, el, id, p, at)
}

func (s *Session) pointerMove(id int, p Point, at time.Time) {
	if _, ok := s.pointers[id]; !ok {
		return
	}
	s.pointers[id] = p
	// A press that outlived its deadline is an edit even if no tick ran since.
	s.expireLongPress(at)

	g, el := s.active()
	if g == nil {
		return
	}
	switch g.state {
	case GestureDragging, GesturePendingEdit:
		if id == g.dragPointer {
			s.dragMove(g, el, p)
		}
	case GestureTransforming:
		if g.tracksPinch(id) {
			s.transformMove(g, el)
		}
	}
}

func (s *Session) pointerUp(id int) {
	if _, ok := s.pointers[id]; !ok {
		return
	}
	delete(s.pointers, id)
	if i := slices.Index(s.order, id); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}

	if g, el := s.active(); g != nil {
		switch g.state {
		case GestureDragging, GesturePendingEdit:
			if id == g.dragPointer {
				s.endDrag(g)
			}
		case GestureTransforming:
			if g.tracksPinch(id) {
				s.endTransform(g, el)
			}
		}
	}

	if len(s.order) == 0 {
		s.target = ""
	}
}

// active returns the gesture record and element currently receiving input.
func (s *Session) active() (*gesture, *document.Element) {
	if s.target == "" {
		return nil, nil
	}
	g := s.gestures[s.target]
	el := s.scene.Element(s.target)
	if g == nil || el == nil {
		return nil, nil
	}
	return g, el
}

func (s *Session) gestureFor(id string) *gesture {
	g, ok := s.gestures[id]
	if !ok {
		g = newGesture(id)
		s.gestures[id] = g
	}
	return g
}

// dropGesture detaches an element's record, cancelling any deadline and routing.
func (s *Session) dropGesture(id string) {
	delete(s.gestures, id)
	if s.target == id {
		s.target = ""
	}
}

// blurExcept ends text editing on every element other than keep.
func (s *Session) blurExcept(keep string) {
	for id, g := range s.gestures {
		if id != keep && g.state == GestureEditing {
			s.endEditing(g)
		}
	}
}

// hitTest returns the topmost element whose transformed box contains the point.
func (s *Session) hitTest(x, y float64) string {
	for i := len(s.scene.Elements) - 1; i >= 0; i-- {
		el := &s.scene.Elements[i]
		w, h := s.elementSize(el)
		m := ElementMatrix(el.X, el.Y, w, h, el.Transform.Scale, el.Transform.RotationDeg)
		lx, ly := m.Invert().TransformPoint(x, y)
		if (Rect{Width: w, Height: h}).Contains(lx, ly) {
			return el.ID
		}
	}
	return ""
}
