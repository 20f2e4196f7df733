package engine

import (
	"time"

	"github.com/crk2/designer/internal/document"
)

// GestureState is the manipulation state of one element.
type GestureState int

const (
	GestureIdle GestureState = iota
	GestureDragging
	GesturePendingEdit
	GestureEditing
	GestureTransforming
)

func (s GestureState) String() string {
	switch s {
	case GestureIdle:
		return "idle"
	case GestureDragging:
		return "dragging"
	case GesturePendingEdit:
		return "pendingEdit"
	case GestureEditing:
		return "editing"
	case GestureTransforming:
		return "transforming"
	default:
		return "unknown"
	}
}

// Smoothing weights applied to pinch updates. Text rescaling is visually noisier.
const (
	SmoothingText  = 0.9
	SmoothingImage = 0.8
)

// DefaultLongPress is how long a still press on text waits before entering edit mode.
const DefaultLongPress = 500 * time.Millisecond

const noPointer = -1

// transformState is the baseline of one two-point gesture.
type transformState struct {
	initialDistance float64
	initialAngle    float64
	initialScale    float64
	initialRotation float64
	lastScale       float64
	lastRotation    float64
	lastAngle       float64 // unwrapped, so crossing ±180° does not spin the element
}

func newTransformState(p1, p2 Point, t document.Transform) transformState {
	angle := AngleDegrees(p1, p2)
	return transformState{
		initialDistance: Distance(p1, p2),
		initialAngle:    angle,
		initialScale:    t.Scale,
		initialRotation: t.RotationDeg,
		lastScale:       t.Scale,
		lastRotation:    t.RotationDeg,
		lastAngle:       angle,
	}
}

// update folds a new point pair into the smoothed transform. It reports false while the
// initial distance is zero; the first non-degenerate pair becomes the baseline instead.
func (ts *transformState) update(p1, p2 Point, alpha float64) (document.Transform, bool) {
	dist := Distance(p1, p2)
	angle := unwrapAngle(ts.lastAngle, AngleDegrees(p1, p2))

	if ts.initialDistance <= 0 {
		if dist <= 0 {
			return document.Transform{}, false
		}
		ts.initialDistance = dist
		ts.initialAngle = angle
		ts.lastAngle = angle
		return document.Transform{}, false
	}
	ts.lastAngle = angle

	rawScale := clampScale(ts.initialScale * (dist / ts.initialDistance))
	rawRotation := ts.initialRotation + (angle - ts.initialAngle)

	ts.lastScale += (rawScale - ts.lastScale) * alpha
	ts.lastRotation += (rawRotation - ts.lastRotation) * alpha

	return document.Transform{Scale: ts.lastScale, RotationDeg: ts.lastRotation}, true
}

// unwrapAngle returns the representative of angle closest to prev.
func unwrapAngle(prev, angle float64) float64 {
	for angle-prev > 180 {
		angle -= 360
	}
	for angle-prev < -180 {
		angle += 360
	}
	return angle
}

// gesture is the live manipulation record of a single element. It replaces per-element
// listeners: the dispatcher routes pointers to the record, and dropping the record detaches it.
type gesture struct {
	elementID    string
	state        GestureState
	dragPointer  int
	dragOffset   Point
	editDeadline time.Time
	pinch        [2]int
	ts           transformState
}

func newGesture(elementID string) *gesture {
	return &gesture{
		elementID:   elementID,
		dragPointer: noPointer,
		pinch:       [2]int{noPointer, noPointer},
	}
}

func (g *gesture) tracksPinch(pointerID int) bool {
	return g.state == GestureTransforming && (g.pinch[0] == pointerID || g.pinch[1] == pointerID)
}

func smoothingFor(el *document.Element) float64 {
	if el.IsText() {
		return SmoothingText
	}
	return SmoothingImage
}

// press starts a single-point interaction. Text elements arm the long-press deadline and stay
// in PendingEdit until the first move turns the press into a drag.
func (s *Session) press(g *gesture, el *document.Element, pointerID int, p Point, at time.Time) {
	g.dragPointer = pointerID
	g.dragOffset = Point{X: p.X - el.X, Y: p.Y - el.Y}
	if el.IsText() {
		g.state = GesturePendingEdit
		g.editDeadline = at.Add(s.longPress)
	} else {
		g.state = GestureDragging
	}
	Logger().Debug("gesture press", "element", el.ID, "state", g.state.String())
}

func (s *Session) dragMove(g *gesture, el *document.Element, p Point) {
	if g.state == GesturePendingEdit {
		g.state = GestureDragging
		g.editDeadline = time.Time{}
	}
	w, h := s.elementSize(el)
	x, y := clampPosition(p.X-g.dragOffset.X, p.Y-g.dragOffset.Y, w, h, el.Transform, s.scene.Width, s.scene.Height)
	el.X, el.Y = x, y
	s.renders.SchedulePosition(el.ID, x, y)
}

func (s *Session) endDrag(g *gesture) {
	g.state = GestureIdle
	g.dragPointer = noPointer
	g.editDeadline = time.Time{}
	s.commit("drag")
}

// beginTransform supersedes any drag or pending edit on the element.
func (s *Session) beginTransform(g *gesture, el *document.Element, id1, id2 int, p1, p2 Point) {
	g.state = GestureTransforming
	g.dragPointer = noPointer
	g.editDeadline = time.Time{}
	g.pinch = [2]int{id1, id2}
	g.ts = newTransformState(p1, p2, el.Transform)
	if el.IsText() {
		el.Text.Editable = false
	}
	Logger().Debug("gesture transform start", "element", el.ID, "distance", g.ts.initialDistance)
}

func (s *Session) transformMove(g *gesture, el *document.Element) {
	p1, ok1 := s.pointers[g.pinch[0]]
	p2, ok2 := s.pointers[g.pinch[1]]
	if !ok1 || !ok2 {
		return
	}
	t, ok := g.ts.update(p1, p2, smoothingFor(el))
	if !ok {
		return
	}
	el.Transform = t
	s.renders.ScheduleTransform(el.ID, t)
}

// endTransform never hands the remaining point back to a drag.
func (s *Session) endTransform(g *gesture, el *document.Element) {
	g.state = GestureIdle
	g.pinch = [2]int{noPointer, noPointer}
	g.ts = transformState{}
	if el != nil && el.IsText() {
		el.Text.Editable = true
	}
	s.commit("transform")
}

func (s *Session) enterEditing(g *gesture, el *document.Element) {
	g.state = GestureEditing
	g.dragPointer = noPointer
	g.editDeadline = time.Time{}
	el.Text.Editable = true
	s.editRequests = append(s.editRequests, el.ID)
	Logger().Debug("gesture editing", "element", el.ID)
}

func (s *Session) endEditing(g *gesture) {
	g.state = GestureIdle
	s.commit("edit")
}

// expireLongPress turns presses that outlived the long-press deadline into edits.
func (s *Session) expireLongPress(now time.Time) {
	for _, g := range s.gestures {
		if g.state != GesturePendingEdit || now.Before(g.editDeadline) {
			continue
		}
		el := s.scene.Element(g.elementID)
		if el == nil {
			continue
		}
		s.enterEditing(g, el)
	}
}
