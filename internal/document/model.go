// Package document holds the drawing document exchanged between the
// server and its clients, and headless helpers that run markup through
// a canvas.
package document

import (
	"errors"
	"fmt"

	"github.com/inamate/drawkit/internal/canvas"
	"github.com/inamate/drawkit/internal/surface"
)

// Default drawing size for new drawings.
const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

// ErrInvalidSize is returned for drawings without a positive size.
var ErrInvalidSize = errors.New("drawing size must be positive")

// Document is a drawing together with its SVG markup.
type Document struct {
	Drawing Drawing `json:"drawing"`
	Markup  string  `json:"markup"`
}

type Drawing struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Version   int    `json:"version"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// Open imports markup into a fresh canvas drawn on an in-memory
// recorder of the given size.
func Open(markup string, width, height float64) (*canvas.Canvas, *surface.Recorder, error) {
	if width <= 0 || height <= 0 {
		return nil, nil, ErrInvalidSize
	}
	rec := surface.NewRecorder(width, height)
	c := canvas.New(rec)
	if markup == "" {
		return c, rec, nil
	}
	if err := c.ImportString(markup); err != nil {
		return nil, nil, err
	}
	return c, rec, nil
}

// Normalize imports markup and exports it again. The result only holds
// shapes the canvas understands, in its own attribute layout.
func Normalize(markup string, width, height float64) (string, error) {
	c, _, err := Open(markup, width, height)
	if err != nil {
		return "", fmt.Errorf("normalize: %w", err)
	}
	return c.ExportString()
}

// NewEmptyDocument creates a document for a new drawing with no shapes.
func NewEmptyDocument(drawingID, name string, width, height int) (*Document, error) {
	markup, err := Normalize("", float64(width), float64(height))
	if err != nil {
		return nil, err
	}
	return &Document{
		Drawing: Drawing{
			ID:      drawingID,
			Name:    name,
			Width:   width,
			Height:  height,
			Version: 1,
		},
		Markup: markup,
	}, nil
}
