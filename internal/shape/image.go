package shape

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/inamate/drawkit/internal/surface"
)

// Image is a bitmap stretched over the shape's box. It has no stroke or
// fill of its own.
type Image struct {
	base
	url string
}

func NewImage(sf surface.Surface, url string) *Image {
	img := &Image{base: newBase(sf), url: url}
	img.recreate(img.draw)
	return img
}

func (img *Image) Kind() Kind { return KindImage }

// URL returns the image source.
func (img *Image) URL() string { return img.url }

// SetURL swaps the image source.
func (img *Image) SetURL(url string) {
	img.url = url
	img.el.SetSource(url)
}

func (img *Image) draw() surface.Element {
	w, h := img.width, img.height
	return img.sf.DrawImage(surface.ShapeLayer, -w, -h, w*2, h*2, img.url)
}

func (img *Image) SetTransform(x, y, width, height, rot float64, force bool) {
	img.setTransform(x, y, width, height, rot, force, img.resizeBox)
}

func (img *Image) Reconstruct() {
	img.recreate(img.draw)
	img.SetTransform(img.x, img.y, img.width, img.height, img.rot, true)
}

func (img *Image) Contains(x, y float64) bool {
	return img.containsBox(x, y)
}

func (img *Image) Encode() *etree.Element {
	el := etree.NewElement("image")
	setNumber(el, "x", -img.width)
	setNumber(el, "y", -img.height)
	setNumber(el, "width", img.width*2)
	setNumber(el, "height", img.height*2)
	el.CreateAttr("xlink:href", img.url)
	el.CreateAttr("image-rendering", "optimizeQuality")
	el.CreateAttr("preserveAspectRatio", "none")
	img.encodeTransform(el)
	return el
}

func decodeImage(sf surface.Surface, el *etree.Element) (Shape, error) {
	url := strings.TrimSpace(el.SelectAttrValue("href", ""))
	if url == "" {
		url = strings.TrimSpace(el.SelectAttrValue("xlink:href", ""))
	}
	if url == "" {
		return nil, ErrMissingHref
	}

	img := &Image{base: newBase(sf), url: url}
	img.width = attrNumber(el, "width", 10) / 2
	img.height = attrNumber(el, "height", 10) / 2
	img.decodeTransform(el)
	img.Reconstruct()
	return img, nil
}
