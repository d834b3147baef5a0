package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/df07/go-pinhole-raytracer/pkg/config"
	"github.com/df07/go-pinhole-raytracer/pkg/output"
	"github.com/df07/go-pinhole-raytracer/pkg/renderer"
	"github.com/df07/go-pinhole-raytracer/pkg/scene"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run renders one scene and returns the process exit code.
// The image goes to stdout unless -output names a file; progress goes to stderr.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	logger := log.New(stderr, "", log.LstdFlags)

	cfg, err := config.Load(args)
	if err != nil {
		logger.Printf("Error: %v", err)
		return 2
	}
	if cfg.Help {
		printHelp(stdout)
		return 0
	}

	s, err := scene.New(cfg.Scene)
	if err != nil {
		logger.Printf("Error: %v", err)
		return 1
	}
	shader, err := renderer.ShaderByName(cfg.Shader)
	if err != nil {
		logger.Printf("Error: %v", err)
		return 1
	}

	logger.Printf("Rendering scene %q (%dx%d, %d spheres) with %s shader", s.Name, s.Width, s.Height, s.GetPrimitiveCount(), cfg.Shader)
	img, stats, err := renderer.RenderScene(ctx, s, shader, renderer.Options{
		ColorScale: cfg.ColorScale,
		NumWorkers: cfg.Workers,
		Logger:     logger,
	})
	if err != nil {
		logger.Printf("Render failed: %v", err)
		return 1
	}
	logger.Printf("Render completed in %v (%d hits, %d misses, %d workers)", stats.Elapsed, stats.Hits, stats.Misses, stats.Workers)

	if err := writeOutputs(ctx, cfg, s.Name, img, stdout, logger); err != nil {
		logger.Printf("Error: %v", err)
		return 1
	}
	return 0
}

// writeOutputs sends the image to stdout or the output file, then to the
// optional thumbnail and S3 destinations
func writeOutputs(ctx context.Context, cfg config.Config, sceneName string, img *renderer.Image, stdout io.Writer, logger *log.Logger) error {
	format := cfg.OutputFormat()

	if cfg.Output == config.Stdout {
		if err := output.Encode(stdout, img, format); err != nil {
			return fmt.Errorf("failed to write image to stdout: %w", err)
		}
	} else {
		sink := output.NewFileSink(filepath.Dir(cfg.Output), format, logger)
		if err := sink.Write(ctx, filepath.Base(cfg.Output), img); err != nil {
			return err
		}
	}

	if cfg.ThumbnailWidth > 0 {
		if err := writeThumbnail(thumbnailPath(cfg.Output, sceneName), img, cfg.ThumbnailWidth); err != nil {
			return err
		}
		logger.Printf("Thumbnail saved as %s", thumbnailPath(cfg.Output, sceneName))
	}

	if cfg.S3.Enabled() {
		sink, err := output.NewS3Sink(cfg.S3, format, logger)
		if err != nil {
			return err
		}
		if err := sink.Write(ctx, sceneName, img); err != nil {
			return err
		}
	}
	return nil
}

// thumbnailPath places the thumbnail beside the output file, or in the
// working directory when the image went to stdout
func thumbnailPath(outputPath, sceneName string) string {
	if outputPath == config.Stdout {
		return sceneName + "_thumb.png"
	}
	base := strings.TrimSuffix(outputPath, filepath.Ext(outputPath))
	return base + "_thumb.png"
}

func writeThumbnail(path string, img *renderer.Image, width int) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create thumbnail: %w", err)
	}
	defer file.Close()

	if err := output.EncodeThumbnail(file, img, width); err != nil {
		return err
	}
	return file.Close()
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "Pinhole Raytracer")
	fmt.Fprintln(w, "Usage: raytracer [options] > image.ppm")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	config.PrintUsage(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Available scenes:")
	for _, info := range scene.List() {
		fmt.Fprintf(w, "  %-10s %s\n", info.Name, info.Description)
	}
	if files, err := scene.ListFileScenes("scenes"); err == nil {
		for _, info := range files {
			fmt.Fprintf(w, "  %-10s %s\n", info.FilePath, "scene file")
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Shaders: %s\n", strings.Join(renderer.ShaderNames(), ", "))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Settings may also come from RAYTRACER_* and S3_* environment variables or a .env file.")
}
