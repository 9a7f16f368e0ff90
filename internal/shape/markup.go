package shape

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/inamate/drawkit/internal/surface"
)

// Namespaces written on exported documents.
const (
	NamespaceSVG   = "http://www.w3.org/2000/svg"
	NamespaceXLink = "http://www.w3.org/1999/xlink"
	NamespaceDraw  = "https://inamate.dev/ns/drawkit"
)

// DefaultFontSize is used for text elements without a usable font-size.
const DefaultFontSize = 16

var (
	// ErrUnknownElement is returned for tags no shape is registered for.
	ErrUnknownElement = errors.New("unknown element")
	// ErrMissingHref is returned for an image without a source.
	ErrMissingHref = errors.New("image has no href")
	// ErrUnsupportedSegment is returned for path data other than M, L and Z.
	ErrUnsupportedSegment = errors.New("unsupported path segment")
)

type decodeFunc func(sf surface.Surface, el *etree.Element) (Shape, error)

var registry = map[string]decodeFunc{
	"rect":    decodeRect,
	"ellipse": decodeEllipse,
	"path":    decodePath,
	"text":    decodeText,
	"image":   decodeImage,

	"path-polygon":  decodePathAs(true),
	"path-polyline": decodePathAs(false),
}

// lookup finds the decoder for an element. An element carrying a shape
// attribute is first looked up as "tag-shape".
func lookup(el *etree.Element) (decodeFunc, bool) {
	if variant := strings.TrimSpace(el.SelectAttrValue("shape", "")); variant != "" {
		if fn, ok := registry[el.Tag+"-"+variant]; ok {
			return fn, true
		}
	}
	fn, ok := registry[el.Tag]
	return fn, ok
}

// Decode builds a shape from an SVG element and draws it on sf.
func Decode(sf surface.Surface, el *etree.Element) (Shape, error) {
	fn, ok := lookup(el)
	if !ok {
		return nil, fmt.Errorf("decode %s: %w", el.Tag, ErrUnknownElement)
	}
	s, err := fn(sf, el)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", el.Tag, err)
	}
	return s, nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func setNumber(el *etree.Element, key string, v float64) {
	el.CreateAttr(key, formatNumber(v))
}

// attrNumber parses a numeric attribute, falling back to def when it is
// missing or malformed.
func attrNumber(el *etree.Element, key string, def float64) float64 {
	raw := strings.TrimSpace(el.SelectAttrValue(key, ""))
	if raw == "" {
		return def
	}
	v, err := parseNumber(raw)
	if err != nil {
		return def
	}
	return v
}

func parseNumber(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSuffix(raw, "px"), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("number %q out of range", raw)
	}
	return v, nil
}

var (
	translateRe = regexp.MustCompile(`translate\s*\(([^)]+)`)
	rotateRe    = regexp.MustCompile(`rotate\s*\(\s*([^\s),]+)`)
)

func splitParams(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}

func (b *base) encodeTransform(el *etree.Element) {
	el.CreateAttr("transform", fmt.Sprintf("translate(%s,%s) rotate(%s 0 0)",
		formatNumber(b.x), formatNumber(b.y), formatNumber(b.rot)))
}

// decodeTransform reads translate(x,y) and the angle of rotate(...).
func (b *base) decodeTransform(el *etree.Element) {
	b.x, b.y, b.rot = 0, 0, 0
	transform := el.SelectAttrValue("transform", "")
	if m := translateRe.FindStringSubmatch(transform); m != nil {
		params := splitParams(m[1])
		if len(params) > 0 {
			b.x, _ = parseNumber(params[0])
		}
		if len(params) > 1 {
			b.y, _ = parseNumber(params[1])
		}
	}
	if m := rotateRe.FindStringSubmatch(transform); m != nil {
		b.rot, _ = parseNumber(m[1])
	}
}

func (s *styled) encodeStyle(el *etree.Element) {
	if s.stroke != nil {
		el.CreateAttr("stroke", s.stroke.Color)
		setNumber(el, "stroke-width", s.stroke.Width)
	} else {
		el.CreateAttr("stroke", "none")
	}
	if s.fill != nil {
		el.CreateAttr("fill", s.fill.Color)
	} else {
		el.CreateAttr("fill", "none")
	}
}

func (s *styled) decodeStyle(el *etree.Element) {
	strokeColor := strings.TrimSpace(el.SelectAttrValue("stroke", ""))
	if strokeColor == "" {
		strokeColor = "#000000"
	}
	fillColor := strings.TrimSpace(el.SelectAttrValue("fill", ""))
	if fillColor == "" {
		fillColor = "#ffffff"
	}

	s.stroke, s.fill = nil, nil
	if strokeColor != "none" {
		s.stroke = &surface.Stroke{Width: attrNumber(el, "stroke-width", 1), Color: strokeColor}
	}
	if fillColor != "none" {
		s.fill = surface.SolidFill(fillColor)
	}
}
