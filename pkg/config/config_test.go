package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-pinhole-raytracer/pkg/core"
	"github.com/df07/go-pinhole-raytracer/pkg/output"
)

var envKeys = []string{
	"RAYTRACER_SCENE", "RAYTRACER_SHADER", "RAYTRACER_OUTPUT", "RAYTRACER_FORMAT",
	"RAYTRACER_WORKERS", "RAYTRACER_THUMBNAIL_WIDTH", "RAYTRACER_COLOR_SCALE", "RAYTRACER_PORT",
	"S3_ENDPOINT", "S3_REGION", "S3_BUCKET", "S3_ACCESS_KEY", "S3_SECRET_KEY", "S3_PREFIX",
}

// isolateEnv clears every variable Load reads and points it at a missing env file.
// The original values are restored when the test ends.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv("RAYTRACER_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
}

func TestLoad_Defaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Scene != "default" || cfg.Shader != "normals" || cfg.Output != Stdout {
		t.Errorf("Unexpected defaults: %+v", cfg)
	}
	if cfg.OutputFormat() != output.FormatPPM {
		t.Errorf("Expected ppm, got %s", cfg.OutputFormat())
	}
	if cfg.ColorScale != core.ColorScale {
		t.Errorf("Expected color scale %g, got %g", core.ColorScale, cfg.ColorScale)
	}
	if cfg.Workers != 0 || cfg.ThumbnailWidth != 0 || cfg.Port != 8080 {
		t.Errorf("Unexpected numeric defaults: %+v", cfg)
	}
	if cfg.S3.Enabled() {
		t.Error("S3 should be disabled without a bucket")
	}
}

func TestLoad_EnvironmentAndFlags(t *testing.T) {
	isolateEnv(t)
	t.Setenv("RAYTRACER_SCENE", "spheres")
	t.Setenv("RAYTRACER_WORKERS", "4")
	t.Setenv("RAYTRACER_FORMAT", "png")
	t.Setenv("S3_BUCKET", "renders")

	cfg, err := Load([]string{"-workers", "2", "-shader", "sky", "-thumbnail", "64"})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Scene != "spheres" {
		t.Errorf("Expected scene from environment, got %s", cfg.Scene)
	}
	if cfg.Workers != 2 {
		t.Errorf("Expected flag to override environment workers, got %d", cfg.Workers)
	}
	if cfg.Shader != "sky" || cfg.ThumbnailWidth != 64 {
		t.Errorf("Unexpected flag values: %+v", cfg)
	}
	if cfg.OutputFormat() != output.FormatPNG {
		t.Errorf("Expected png, got %s", cfg.OutputFormat())
	}
	if !cfg.S3.Enabled() || cfg.S3.Bucket != "renders" || cfg.S3.Region != "us-east-1" {
		t.Errorf("Unexpected S3 config: %+v", cfg.S3)
	}
}

func TestLoad_EnvFile(t *testing.T) {
	isolateEnv(t)
	envFile := filepath.Join(t.TempDir(), "test.env")
	content := "RAYTRACER_SHADER=uv\nRAYTRACER_COLOR_SCALE=100\nS3_PREFIX=renders/test\n"
	if err := os.WriteFile(envFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write env file: %v", err)
	}
	t.Setenv("RAYTRACER_ENV_FILE", envFile)

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Shader != "uv" || cfg.ColorScale != 100 || cfg.S3.Prefix != "renders/test" {
		t.Errorf("Env file values not applied: %+v", cfg)
	}
}

func TestLoad_Help(t *testing.T) {
	isolateEnv(t)

	for _, args := range [][]string{{"-help"}, {"-h"}} {
		cfg, err := Load(args)
		if err != nil {
			t.Fatalf("Load(%v) failed: %v", args, err)
		}
		if !cfg.Help {
			t.Errorf("Load(%v) should set Help", args)
		}
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"unknown flag", nil, []string{"-samples", "10"}},
		{"bad integer flag", nil, []string{"-workers", "many"}},
		{"bad integer env", map[string]string{"RAYTRACER_WORKERS": "many"}, nil},
		{"bad float env", map[string]string{"RAYTRACER_COLOR_SCALE": "bright"}, nil},
		{"unknown format", nil, []string{"-format", "gif"}},
		{"unknown shader", nil, []string{"-shader", "phong"}},
		{"negative thumbnail", nil, []string{"-thumbnail", "-1"}},
		{"negative workers", nil, []string{"-workers", "-3"}},
		{"zero color scale", map[string]string{"RAYTRACER_COLOR_SCALE": "0"}, nil},
		{"port out of range", nil, []string{"-port", "70000"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateEnv(t)
			for key, value := range tt.env {
				t.Setenv(key, value)
			}
			if _, err := Load(tt.args); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestPrintUsage(t *testing.T) {
	var sb strings.Builder
	PrintUsage(&sb)
	for _, name := range []string{"-scene", "-shader", "-output", "-format", "-workers", "-thumbnail", "-port"} {
		if !strings.Contains(sb.String(), name) {
			t.Errorf("Usage missing %s", name)
		}
	}
}
