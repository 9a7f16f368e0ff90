package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/inamate/drawkit/internal/document"
	"github.com/inamate/drawkit/internal/raster"
	"github.com/inamate/drawkit/internal/typeid"
)

const (
	maxMarkupSize = 4 << 20 // 4MB
	maxImageSide  = 8192
)

var (
	ErrEmptyMarkup = errors.New("empty markup")
	ErrBadSize     = errors.New("invalid export size")
	ErrBadColor    = errors.New("invalid background color")
)

// Request describes one PNG export.
type Request struct {
	Markup string
	// Width and Height override the size declared on the svg root.
	Width, Height int
	Background    color.Color
}

type Handler struct {
	renderer *raster.Renderer
	images   raster.ImageLoader
	log      *slog.Logger
}

// NewHandler creates an export handler. images may be nil, in which case
// image elements are drawn as placeholders.
func NewHandler(renderer *raster.Renderer, images raster.ImageLoader) *Handler {
	return &Handler{
		renderer: renderer,
		images:   images,
		log:      slog.Default().With("component", "export"),
	}
}

// ExportPNG renders the SVG markup in the request body to a PNG.
// Query parameters: width, height, background, name.
func (h *Handler) ExportPNG(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxMarkupSize)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "request too large", http.StatusBadRequest)
		return
	}

	req, err := parseRequest(string(body), r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	if err := h.Render(r.Context(), req, &buf); err != nil {
		switch {
		case errors.Is(err, ErrEmptyMarkup), errors.Is(err, ErrBadSize):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, context.Canceled):
			return
		default:
			h.log.Error("export png", "error", err)
			http.Error(w, fmt.Sprintf("render failed: %v", err), http.StatusUnprocessableEntity)
		}
		return
	}

	exportID := typeid.NewExportID()
	name := sanitizeName(r.URL.Query().Get("name"))
	w.Header().Set("X-Export-Id", exportID)
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.png"`, name))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())

	h.log.Info("export complete", "id", exportID, "name", name, "size", buf.Len())
}

// Render imports req.Markup into a headless canvas and writes its shape
// layer to out as PNG.
func (h *Handler) Render(ctx context.Context, req Request, out io.Writer) error {
	if strings.TrimSpace(req.Markup) == "" {
		return ErrEmptyMarkup
	}
	width, height := req.Width, req.Height
	if width == 0 || height == 0 {
		width, height = document.DefaultWidth, document.DefaultHeight
		if dw, dh, ok := document.Size(req.Markup); ok {
			width, height = int(dw), int(dh)
		}
	}
	if width <= 0 || height <= 0 || width > maxImageSide || height > maxImageSide {
		return fmt.Errorf("%w: %dx%d", ErrBadSize, width, height)
	}

	_, rec, err := document.Open(req.Markup, float64(width), float64(height))
	if err != nil {
		return fmt.Errorf("open markup: %w", err)
	}
	img, err := h.renderer.Render(ctx, rec.Commands(), width, height, raster.Options{
		Background: req.Background,
		Images:     h.images,
		Logger:     h.log,
	})
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return encode(out, img)
}

func encode(out io.Writer, img image.Image) error {
	if err := raster.EncodePNG(out, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func parseRequest(markup string, r *http.Request) (Request, error) {
	q := r.URL.Query()
	req := Request{Markup: markup}

	var err error
	if req.Width, err = sizeParam(q.Get("width")); err != nil {
		return req, err
	}
	if req.Height, err = sizeParam(q.Get("height")); err != nil {
		return req, err
	}
	if bg := q.Get("background"); bg != "" {
		c, err := raster.ParseColor(bg)
		if err != nil {
			return req, fmt.Errorf("%w: %q", ErrBadColor, bg)
		}
		req.Background = c
	}
	return req, nil
}

func sizeParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrBadSize, raw)
	}
	return v, nil
}

func sanitizeName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '_'
		}
		return -1
	}, name)
	if name == "" {
		return "drawing"
	}
	return name
}
