package canvas

import (
	"errors"
	"fmt"

	"github.com/beevik/etree"

	"github.com/inamate/drawkit/internal/shape"
)

// Export writes the shapes into an SVG document, bottom shape first.
func (c *Canvas) Export() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("svg")
	root.CreateAttr("xmlns", shape.NamespaceSVG)
	root.CreateAttr("xmlns:svg", shape.NamespaceSVG)
	root.CreateAttr("xmlns:xlink", shape.NamespaceXLink)
	root.CreateAttr("xmlns:drawkit", shape.NamespaceDraw)
	w, h := c.sf.Size()
	if w > 0 && h > 0 {
		root.CreateAttr("width", formatSize(w))
		root.CreateAttr("height", formatSize(h))
	}

	g := root.CreateElement("g")
	for i := len(c.shapes) - 1; i >= 0; i-- {
		g.AddChild(c.shapes[i].Encode())
	}
	return doc
}

// ExportString returns Export serialised as text.
func (c *Canvas) ExportString() (string, error) {
	s, err := c.Export().WriteToString()
	if err != nil {
		return "", fmt.Errorf("write markup: %w", err)
	}
	return s, nil
}

// Import replaces the drawing with the shapes found in doc. Elements
// no shape is registered for are skipped; any other decode error stops
// the import and is returned.
func (c *Canvas) Import(doc *etree.Document) error {
	if c.frozen {
		return ErrFrozen
	}
	c.Clear()

	for _, el := range shapeElements(doc) {
		s, err := shape.Decode(c.sf, el)
		if errors.Is(err, shape.ErrUnknownElement) {
			c.log.Debug("skipping element", "tag", el.FullTag())
			continue
		}
		if err != nil {
			c.log.Warn("import failed", "tag", el.FullTag(), "error", err)
			return fmt.Errorf("import: %w", err)
		}
		c.AddShape(s)
	}
	return nil
}

// ImportString parses markup and imports it.
func (c *Canvas) ImportString(markup string) error {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(markup); err != nil {
		return fmt.Errorf("parse markup: %w", err)
	}
	return c.Import(doc)
}

// shapeElements returns the children of every group in the document.
// A document without groups falls back to the root's own children.
func shapeElements(doc *etree.Document) []*etree.Element {
	if els := doc.FindElements("//g/*"); len(els) > 0 {
		return els
	}
	root := doc.Root()
	if root == nil {
		return nil
	}
	var els []*etree.Element
	for _, g := range root.SelectElements("g") {
		els = append(els, g.ChildElements()...)
	}
	if len(els) == 0 {
		els = root.ChildElements()
	}
	return els
}

func formatSize(v float64) string {
	return fmt.Sprintf("%g", v)
}
