package main

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolateEnv keeps the developer's environment and .env file out of the tests
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"RAYTRACER_SCENE", "RAYTRACER_SHADER", "RAYTRACER_OUTPUT", "RAYTRACER_FORMAT",
		"RAYTRACER_WORKERS", "RAYTRACER_THUMBNAIL_WIDTH", "RAYTRACER_COLOR_SCALE", "RAYTRACER_PORT",
		"S3_BUCKET",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv("RAYTRACER_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
}

func TestRun_WritesPPMToStdout(t *testing.T) {
	isolateEnv(t)
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"-scene", "default", "-workers", "2"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d (stderr: %s)", code, stderr.String())
	}

	if !strings.HasPrefix(stdout.String(), "P3\n200 100\n255\n") {
		t.Errorf("Unexpected PPM header: %q", stdout.String()[:min(20, stdout.Len())])
	}
	lines := strings.Count(stdout.String(), "\n")
	if lines != 3+200*100 {
		t.Errorf("Expected %d lines, got %d", 3+200*100, lines)
	}
	if !strings.Contains(stderr.String(), "Render completed") {
		t.Errorf("Expected progress on stderr, got %q", stderr.String())
	}
}

func TestRun_ExitCodes(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected int
	}{
		{"unknown scene", []string{"-scene", "nonexistent"}, 1},
		{"missing scene file", []string{"-scene", "scenes/nonexistent.json"}, 1},
		{"unknown shader", []string{"-shader", "phong"}, 2},
		{"unknown flag", []string{"-samples", "50"}, 2},
		{"help", []string{"-help"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateEnv(t)
			var stdout, stderr bytes.Buffer
			if code := run(context.Background(), tt.args, &stdout, &stderr); code != tt.expected {
				t.Errorf("Expected exit code %d, got %d (stderr: %s)", tt.expected, code, stderr.String())
			}
		})
	}
}

func TestRun_Help(t *testing.T) {
	isolateEnv(t)
	var stdout, stderr bytes.Buffer
	run(context.Background(), []string{"-help"}, &stdout, &stderr)

	for _, want := range []string{"Available scenes", "default", "spheres", "normals", "-thumbnail"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("Help output missing %q", want)
		}
	}
}

func TestRun_FileOutputWithThumbnail(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	outputPath := filepath.Join(dir, "renders", "twin.png")

	var stdout, stderr bytes.Buffer
	args := []string{"-scene", "scenes/twin-spheres.json", "-output", outputPath, "-format", "png", "-thumbnail", "100"}
	if code := run(context.Background(), args, &stdout, &stderr); code != 0 {
		t.Fatalf("Expected exit code 0, got %d (stderr: %s)", code, stderr.String())
	}
	if stdout.Len() != 0 {
		t.Errorf("Expected nothing on stdout when writing to a file, got %d bytes", stdout.Len())
	}

	file, err := os.Open(outputPath)
	if err != nil {
		t.Fatalf("Expected output file: %v", err)
	}
	defer file.Close()
	img, err := png.Decode(file)
	if err != nil {
		t.Fatalf("Expected valid PNG: %v", err)
	}
	if img.Bounds().Dx() != 300 || img.Bounds().Dy() != 150 {
		t.Errorf("Expected 300x150, got %v", img.Bounds())
	}

	thumb, err := os.Open(filepath.Join(dir, "renders", "twin_thumb.png"))
	if err != nil {
		t.Fatalf("Expected thumbnail file: %v", err)
	}
	defer thumb.Close()
	thumbImg, err := png.Decode(thumb)
	if err != nil {
		t.Fatalf("Expected valid thumbnail PNG: %v", err)
	}
	if thumbImg.Bounds().Dx() != 100 || thumbImg.Bounds().Dy() != 50 {
		t.Errorf("Expected 100x50 thumbnail, got %v", thumbImg.Bounds())
	}
}

func TestRun_CancelledContext(t *testing.T) {
	isolateEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout, stderr bytes.Buffer
	if code := run(ctx, []string{"-scene", "spheres"}, &stdout, &stderr); code != 1 {
		t.Errorf("Expected exit code 1, got %d", code)
	}
	if stdout.Len() != 0 {
		t.Error("Expected no image output after cancellation")
	}
}

func TestThumbnailPath(t *testing.T) {
	tests := []struct {
		name       string
		outputPath string
		sceneName  string
		expected   string
	}{
		{"stdout uses scene name", "-", "default", "default_thumb.png"},
		{"file keeps directory", filepath.Join("out", "render.ppm"), "default", filepath.Join("out", "render_thumb.png")},
		{"no extension", "render", "sky", "render_thumb.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := thumbnailPath(tt.outputPath, tt.sceneName); got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}
