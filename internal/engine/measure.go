package engine

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// TextPadding is the inner padding around text content on every side, in pixels.
const TextPadding = 8.0

// TextMeasurer sizes the layout box of a single-line text element.
type TextMeasurer interface {
	MeasureText(content, fontFamily string, fontSize float64) (width, height float64)
}

// BasicMeasurer approximates text extents with a fixed bitmap face scaled to the font size.
// The font family is ignored; hosts with real font metrics should supply their own measurer.
type BasicMeasurer struct {
	face font.Face
}

func NewBasicMeasurer() *BasicMeasurer {
	return &BasicMeasurer{face: basicfont.Face7x13}
}

func (m *BasicMeasurer) MeasureText(content, _ string, fontSize float64) (float64, float64) {
	lineHeight := float64(m.face.Metrics().Height) / 64
	if lineHeight <= 0 || fontSize <= 0 {
		return 2 * TextPadding, 2 * TextPadding
	}
	scale := fontSize / lineHeight
	advance := float64(font.MeasureString(m.face, content)) / 64
	return advance*scale + 2*TextPadding, fontSize + 2*TextPadding
}
