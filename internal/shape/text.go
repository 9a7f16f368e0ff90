package shape

import (
	"math"
	"strings"

	"github.com/beevik/etree"

	"github.com/inamate/drawkit/internal/geom"
	"github.com/inamate/drawkit/internal/surface"
)

// Text is a single line of text centred in its box.
type Text struct {
	styled
	font surface.Font
	text string
}

func NewText(sf surface.Surface, stroke *surface.Stroke, fill *surface.Fill, font surface.Font, text string) *Text {
	t := &Text{styled: newStyled(sf, stroke, fill), font: font, text: text}
	t.recreate(t.draw)
	return t
}

func (t *Text) Kind() Kind   { return KindText }
func (t *Text) IsText() bool { return true }

func (t *Text) Font() surface.Font { return t.font }

// SetFont changes the font. The element picks it up on the next
// Reconstruct.
func (t *Text) SetFont(font surface.Font) {
	t.font = font
}

func (t *Text) Text() string { return t.text }

func (t *Text) SetText(text string) {
	t.text = text
	t.el.SetText(text)
}

// baseline runs across the box slightly below its centre.
func (t *Text) baseline() (from, to geom.Vec2) {
	y := t.font.Size * 0.4
	return geom.V(-t.width, y), geom.V(t.width, y)
}

func (t *Text) draw() surface.Element {
	from, to := t.baseline()
	return t.sf.DrawText(surface.ShapeLayer, t.text, from, to, t.font, t.stroke, t.fill)
}

// resize keeps the element, and with it the paint order.
func (t *Text) resize() {
	t.el.SetBaseline(t.baseline())
}

func (t *Text) SetTransform(x, y, width, height, rot float64, force bool) {
	t.setTransform(x, y, width, height, rot, force, t.resize)
}

func (t *Text) Reconstruct() {
	t.reconstruct(t.draw)
}

func (t *Text) Contains(x, y float64) bool {
	return t.containsBox(x, y)
}

func (t *Text) Encode() *etree.Element {
	size := t.font.Size
	el := etree.NewElement("text")
	setNumber(el, "x", 0)
	setNumber(el, "y", math.Round(math.Round(size*0.85)-size/2))
	el.CreateAttr("font-family", t.font.Family)
	setNumber(el, "font-size", size)
	el.CreateAttr("text-anchor", "middle")
	setNumber(el, "drawkit:width", t.width)
	setNumber(el, "drawkit:height", t.height)
	t.encodeStyle(el)
	t.encodeTransform(el)
	el.SetText(t.text)
	return el
}

func decodeText(sf surface.Surface, el *etree.Element) (Shape, error) {
	size := math.Max(attrNumber(el, "font-size", DefaultFontSize), 4)
	family := strings.TrimSpace(el.SelectAttrValue("font-family", ""))
	if family == "" {
		family = "sans-serif"
	}

	t := &Text{styled: newStyled(sf, nil, nil), font: surface.Font{Size: size, Family: family}}
	t.width = attrNumber(el, "drawkit:width", attrNumber(el, "width", size/2))
	t.height = attrNumber(el, "drawkit:height", attrNumber(el, "height", size/2))
	t.clampSize()

	var sb strings.Builder
	for _, tok := range el.Child {
		if cd, ok := tok.(*etree.CharData); ok {
			sb.WriteString(cd.Data)
		}
	}
	t.text = sb.String()

	t.decodeStyle(el)
	t.decodeTransform(el)
	t.reconstruct(t.draw)
	return t, nil
}
