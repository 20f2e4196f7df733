package engine

import (
	"strconv"

	"github.com/crk2/designer/internal/document"
)

// Style properties written by a flush, in application order.
const (
	PropLeft      = "left"
	PropTop       = "top"
	PropTransform = "transform"
)

// StyleWrite is a single visual property assignment for the host to apply.
type StyleWrite struct {
	ElementID string    `json:"elementId"`
	Property  string    `json:"property"`
	Value     string    `json:"value"`
	Number    float64   `json:"number,omitempty"`
	Matrix    []float64 `json:"matrix,omitempty"` // transform only; origin at the element center
}

type pendingWrite struct {
	hasPosition  bool
	left, top    float64
	hasTransform bool
	transform    document.Transform
}

// RenderSync coalesces visual writes so each element is touched at most once per frame.
// Writes scheduled before the next flush overwrite earlier ones.
type RenderSync struct {
	pending   map[string]*pendingWrite
	order     []string
	scheduled bool
	rebuild   bool
}

func NewRenderSync() *RenderSync {
	return &RenderSync{pending: make(map[string]*pendingWrite)}
}

func (r *RenderSync) slot(id string) *pendingWrite {
	w, ok := r.pending[id]
	if !ok {
		w = &pendingWrite{}
		r.pending[id] = w
		r.order = append(r.order, id)
	}
	r.scheduled = true
	return w
}

// SchedulePosition records the element's next top-left offset.
func (r *RenderSync) SchedulePosition(id string, left, top float64) {
	w := r.slot(id)
	w.hasPosition = true
	w.left, w.top = left, top
}

// ScheduleTransform records the element's next scale and rotation.
func (r *RenderSync) ScheduleTransform(id string, t document.Transform) {
	w := r.slot(id)
	w.hasTransform = true
	w.transform = t
}

// RequestRebuild asks the host to re-materialize every element on the next frame.
// Pending per-element writes are dropped since the rebuild carries the current state.
func (r *RenderSync) RequestRebuild() {
	r.discard()
	r.rebuild = true
	r.scheduled = true
}

// Forget drops any pending write for an element that no longer exists.
func (r *RenderSync) Forget(id string) {
	if _, ok := r.pending[id]; !ok {
		return
	}
	delete(r.pending, id)
	for i, o := range r.order {
		if o == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Scheduled reports whether a flush has work to do.
func (r *RenderSync) Scheduled() bool {
	return r.scheduled
}

// Flush returns the coalesced writes and whether a full rebuild was requested, then clears
// the schedule. For each element the position (left, then top) precedes the transform.
func (r *RenderSync) Flush() ([]StyleWrite, bool) {
	if !r.scheduled {
		return nil, false
	}

	var writes []StyleWrite
	for _, id := range r.order {
		w := r.pending[id]
		if w.hasPosition {
			writes = append(writes,
				StyleWrite{ElementID: id, Property: PropLeft, Value: px(w.left), Number: w.left},
				StyleWrite{ElementID: id, Property: PropTop, Value: px(w.top), Number: w.top},
			)
		}
		if w.hasTransform {
			op := RotateDegrees(w.transform.RotationDeg).Multiply(Scale(w.transform.Scale, w.transform.Scale))
			writes = append(writes, StyleWrite{
				ElementID: id,
				Property:  PropTransform,
				Value:     TransformString(w.transform.Scale, w.transform.RotationDeg),
				Matrix:    op.ToSlice(),
			})
		}
	}

	rebuild := r.rebuild
	r.discard()
	r.rebuild = false
	r.scheduled = false
	return writes, rebuild
}

func (r *RenderSync) discard() {
	clear(r.pending)
	r.order = r.order[:0]
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}
