package engine

import (
	"encoding/json"

	"github.com/crk2/designer/internal/document"
)

// Draw operations.
const (
	OpText  = "text"
	OpImage = "image"
)

// DrawCommand represents a single element for the frontend to materialize.
// The frontend receives a list of these in painter's order and rebuilds the canvas from it.
type DrawCommand struct {
	Op        string    `json:"op"`                  // "text" or "image"
	ObjectID  string    `json:"objectId"`            // For hit correlation
	Left      float64   `json:"left"`                // Untransformed top-left
	Top       float64   `json:"top"`                 //
	Width     float64   `json:"width"`               // Measured box for text, natural size for images
	Height    float64   `json:"height"`              //
	Transform []float64 `json:"transform"`           // [a, b, c, d, e, f] affine matrix
	Style     string    `json:"style"`               // "scale(s) rotate(rdeg)" about the center
	Selected  bool      `json:"selected,omitempty"`  // Draw the selection outline
	Editable  bool      `json:"editable,omitempty"`  // Text only
	Text      string    `json:"text,omitempty"`      // Text content
	Font      string    `json:"font,omitempty"`      // Font family
	FontSize  float64   `json:"fontSize,omitempty"`  // Font size in px
	Fill      string    `json:"fill,omitempty"`      // Text color
	Source    string    `json:"source,omitempty"`    // Image reference
	Padding   float64   `json:"padding,omitempty"`   // Inner text padding
}

// compileLocked generates the draw command buffer for the scene. Commands are in painter's
// order (back to front).
func (s *Session) compileLocked() []DrawCommand {
	commands := make([]DrawCommand, 0, len(s.scene.Elements))
	for i := range s.scene.Elements {
		commands = append(commands, s.compileElement(&s.scene.Elements[i]))
	}
	return commands
}

func (s *Session) compileElement(el *document.Element) DrawCommand {
	w, h := s.elementSize(el)
	m := ElementMatrix(el.X, el.Y, w, h, el.Transform.Scale, el.Transform.RotationDeg)
	cmd := DrawCommand{
		ObjectID:  el.ID,
		Left:      el.X,
		Top:       el.Y,
		Width:     w,
		Height:    h,
		Transform: m.ToSlice(),
		Style:     TransformString(el.Transform.Scale, el.Transform.RotationDeg),
		Selected:  el.ID == s.scene.SelectedID,
	}
	if el.IsText() {
		cmd.Op = OpText
		cmd.Editable = el.Text.Editable
		cmd.Text = el.Text.Content
		cmd.Font = el.Text.FontFamily
		cmd.FontSize = el.Text.FontSize
		cmd.Fill = el.Text.Color
		cmd.Padding = TextPadding
	} else {
		cmd.Op = OpImage
		cmd.Source = el.Image.Source
	}
	return cmd
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}

// SelectionBounds returns the visual bounding box of the selected element, or an empty rect.
func (s *Session) SelectionBounds() Rect {
	s.mu.Lock()
	defer s.mu.Unlock()

	el := s.scene.Selected()
	if el == nil {
		return Rect{}
	}
	w, h := s.elementSize(el)
	m := ElementMatrix(el.X, el.Y, w, h, el.Transform.Scale, el.Transform.RotationDeg)
	return m.TransformRect(Rect{Width: w, Height: h})
}

// RectToJSON serializes a Rect to JSON.
func RectToJSON(r Rect) string {
	data, _ := json.Marshal(map[string]float64{
		"x":      r.X,
		"y":      r.Y,
		"width":  r.Width,
		"height": r.Height,
	})
	return string(data)
}
