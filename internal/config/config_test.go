package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "image-synth.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config is invalid: %v", err)
	}
	if cfg.Crop.Width != 128 || cfg.Crop.Height != 256 {
		t.Errorf("crop: got %dx%d, want 128x256", cfg.Crop.Width, cfg.Crop.Height)
	}
	if cfg.Collage.Margin != 5 {
		t.Errorf("margin: got %d, want 5", cfg.Collage.Margin)
	}
	if cfg.Background.MaxRetries != 100 {
		t.Errorf("max_retries: got %d, want 100", cfg.Background.MaxRetries)
	}
	if cfg.Level() != log.InfoLevel {
		t.Errorf("level: got %v, want info", cfg.Level())
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
seed = 42
log_level = "debug"

[background]
root = "/data/backgrounds"
grayscale = true

[crop]
width = 64

[output]
format = "jpg"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Seed != 42 {
		t.Errorf("seed: got %d, want 42", cfg.Seed)
	}
	if cfg.Level() != log.DebugLevel {
		t.Errorf("level: got %v, want debug", cfg.Level())
	}
	if cfg.Background.Root != "/data/backgrounds" || !cfg.Background.Grayscale {
		t.Errorf("background: got %+v", cfg.Background)
	}
	if cfg.Crop.Width != 64 || cfg.Crop.Height != 256 {
		t.Errorf("crop: got %dx%d, want 64x256", cfg.Crop.Width, cfg.Crop.Height)
	}
	if cfg.Background.MaxRetries != 100 {
		t.Errorf("unset max_retries should keep default, got %d", cfg.Background.MaxRetries)
	}
	if cfg.Output.Format != "jpg" || cfg.Output.Dir != "." {
		t.Errorf("output: got %+v", cfg.Output)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"syntax", "seed = ", "failed to read config"},
		{"unknown key", "[crop]\ndepth = 3\n", "unknown config keys"},
		{"zero crop", "[crop]\nwidth = 0\n", "crop size"},
		{"negative margin", "[collage]\nmargin = -1\n", "collage.margin"},
		{"bad fill", "[collage]\nfill = \"white\"\n", "collage.fill"},
		{"bad format", "[output]\nformat = \"gif\"\n", "output.format"},
		{"bad retries", "[background]\nmax_retries = 0\n", "max_retries"},
		{"bad level", "log_level = \"loud\"\n", "log_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate_ReportsAll(t *testing.T) {
	cfg := Default()
	cfg.Crop.Height = -1
	cfg.Output.Format = "tiff"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"crop size", "output.format"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}
