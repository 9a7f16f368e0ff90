// Command drawctl renders and normalizes drawing markup offline.
//
//	drawctl render [-w 800] [-h 600] [-bg #ffffff] [-font file.ttf] in.svg out.png
//	drawctl normalize [-w 800] [-h 600] in.svg [out.svg]
//	drawctl sample [-w 800] [-h 600] [out.svg]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/inamate/drawkit/internal/document"
	"github.com/inamate/drawkit/internal/raster"
)

var errUsage = errors.New("usage: drawctl render|normalize|sample [flags] args")

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "drawctl:", err)
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, args := args[0], args[1:]

	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	width := fs.Int("w", 0, "width, defaults to the svg size")
	height := fs.Int("h", 0, "height, defaults to the svg size")
	bg := fs.String("bg", "", "background colour")
	fontFile := fs.String("font", "", "font file for text")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	args = fs.Args()

	switch cmd {
	case "render":
		if len(args) != 2 {
			return errUsage
		}
		return render(ctx, args[0], args[1], *width, *height, *bg, *fontFile)
	case "normalize":
		if len(args) < 1 || len(args) > 2 {
			return errUsage
		}
		markup, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		w, h := size(string(markup), *width, *height)
		out, err := document.Normalize(string(markup), w, h)
		if err != nil {
			return err
		}
		return write(args[1:], stdout, out)
	case "sample":
		if len(args) > 1 {
			return errUsage
		}
		w, h := size("", *width, *height)
		out, err := document.SampleMarkup(w, h)
		if err != nil {
			return err
		}
		return write(args, stdout, out)
	}
	return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
}

// size prefers explicit flags, then the svg root size, then the defaults.
func size(markup string, width, height int) (float64, float64) {
	if width > 0 && height > 0 {
		return float64(width), float64(height)
	}
	if w, h, ok := document.Size(markup); ok {
		return w, h
	}
	return document.DefaultWidth, document.DefaultHeight
}

func write(args []string, stdout io.Writer, s string) error {
	if len(args) == 0 || args[0] == "-" {
		_, err := io.WriteString(stdout, s)
		return err
	}
	return os.WriteFile(args[0], []byte(s), 0o644)
}

func render(ctx context.Context, in, out string, width, height int, bg, fontFile string) error {
	markup, err := os.ReadFile(in)
	if err != nil {
		return err
	}

	var fontData []byte
	if fontFile != "" {
		if fontData, err = os.ReadFile(fontFile); err != nil {
			return err
		}
	}
	r, err := raster.NewRenderer(fontData)
	if err != nil {
		return err
	}

	opts := raster.Options{Images: fileLoader(filepath.Dir(in))}
	if bg != "" {
		c, err := raster.ParseColor(bg)
		if err != nil {
			return err
		}
		opts.Background = c
	}

	w, h := size(string(markup), width, height)
	_, rec, err := document.Open(string(markup), w, h)
	if err != nil {
		return err
	}
	img, err := r.Render(ctx, rec.Commands(), int(w), int(h), opts)
	if err != nil {
		return err
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := raster.EncodePNG(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// fileLoader resolves image hrefs against local files. Relative paths
// are taken from dir; remote URLs are not fetched.
func fileLoader(dir string) raster.ImageLoader {
	return raster.ImageLoaderFunc(func(_ context.Context, href string) (image.Image, error) {
		path := href
		if u, err := url.Parse(href); err == nil && u.Scheme != "" {
			if u.Scheme != "file" {
				return nil, fmt.Errorf("remote image %q", href)
			}
			path = u.Path
		}
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, strings.TrimPrefix(path, "./"))
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		img, _, err := image.Decode(f)
		return img, err
	})
}
