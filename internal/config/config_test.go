package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Port)
	}
	if cfg.CanvasWidth != 800 || cfg.CanvasHeight != 600 {
		t.Errorf("canvas = %dx%d, want 800x600", cfg.CanvasWidth, cfg.CanvasHeight)
	}
	if cfg.SaveInterval != 30*time.Second {
		t.Errorf("save interval = %v", cfg.SaveInterval)
	}
	if cfg.PlaygroundDrawing != "drw_playground" {
		t.Errorf("playground = %q", cfg.PlaygroundDrawing)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("CANVAS_WIDTH", "1024")
	t.Setenv("SAVE_INTERVAL", "5s")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 9000 || cfg.CanvasWidth != 1024 || cfg.SaveInterval != 5*time.Second {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := map[string]string{
		"CANVAS_HEIGHT": "0",
		"SAVE_INTERVAL": "-1s",
		"PORT":          "eighty",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Errorf("%s=%s accepted", key, value)
			}
		})
	}
}

func TestLoadFont(t *testing.T) {
	cfg := &Config{}
	data, err := cfg.LoadFont()
	if err != nil || data != nil {
		t.Fatalf("no font: %v, %v", data, err)
	}

	path := filepath.Join(t.TempDir(), "font.ttf")
	if err := os.WriteFile(path, []byte("ttf"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg.FontFile = path
	data, err = cfg.LoadFont()
	if err != nil || string(data) != "ttf" {
		t.Fatalf("font = %q, %v", data, err)
	}

	cfg.FontFile = filepath.Join(t.TempDir(), "missing.ttf")
	if _, err := cfg.LoadFont(); err == nil {
		t.Error("missing font loaded")
	}
}
