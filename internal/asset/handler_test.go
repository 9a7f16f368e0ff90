package asset

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/image/bmp"
)

func testImage() image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.Set(1, 1, color.NRGBA{R: 255, A: 255})
	return img
}

func newHandler(t *testing.T) *Handler {
	t.Helper()
	h, err := NewHandler(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return h
}

func TestStoreAndLoad(t *testing.T) {
	h := newHandler(t)

	var buf bytes.Buffer
	if err := bmp.Encode(&buf, testImage()); err != nil {
		t.Fatal(err)
	}
	resp, err := h.Store(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if resp.Type != "bmp" || resp.Width != 3 || resp.Height != 2 {
		t.Errorf("unexpected response %+v", resp)
	}
	if !strings.HasPrefix(resp.URL, URLPrefix+"asset_") {
		t.Errorf("url = %q", resp.URL)
	}

	img, err := h.LoadImage(context.Background(), "http://localhost:8080"+resp.URL)
	if err != nil {
		t.Fatal(err)
	}
	r, _, _, _ := img.At(1, 1).RGBA()
	if diff := cmp.Diff(image.Rect(0, 0, 3, 2), img.Bounds()); diff != "" || r>>8 != 255 {
		t.Errorf("decoded image mismatch: bounds diff %s red %d", diff, r>>8)
	}

	if err := h.Delete(resp.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := h.LoadImage(context.Background(), resp.URL); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if err := h.Delete(resp.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestLoadImageRejectsForeignPaths(t *testing.T) {
	h := newHandler(t)
	for _, href := range []string{
		"http://example.com/cat.png",
		"/assets/../../etc/passwd.png",
		"/assets/asset_123.jpg",
	} {
		if _, err := h.LoadImage(context.Background(), href); !errors.Is(err, ErrNotFound) {
			t.Errorf("LoadImage(%q) err = %v, want ErrNotFound", href, err)
		}
	}
}

func TestStoreUnsupported(t *testing.T) {
	h := newHandler(t)
	if _, err := h.Store(strings.NewReader("<svg></svg>")); !errors.Is(err, ErrUnsupported) {
		t.Errorf("err = %v, want ErrUnsupported", err)
	}
}

func TestUploadAndServe(t *testing.T) {
	h := newHandler(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "dot.png")
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(part, testImage()); err != nil {
		t.Fatal(err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/assets/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.Upload(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body)
	}

	var resp UploadResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Name != "dot.png" || resp.Type != "png" {
		t.Errorf("unexpected response %+v", resp)
	}

	get := httptest.NewRecorder()
	h.Serve().ServeHTTP(get, httptest.NewRequest(http.MethodGet, resp.URL, nil))
	if get.Code != http.StatusOK {
		t.Fatalf("serve status = %d", get.Code)
	}
	if cc := get.Header().Get("Cache-Control"); !strings.Contains(cc, "immutable") {
		t.Errorf("Cache-Control = %q", cc)
	}
	if _, err := png.Decode(get.Body); err != nil {
		t.Errorf("served file is not a PNG: %v", err)
	}
}
