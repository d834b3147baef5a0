package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/df07/go-pinhole-raytracer/pkg/core"
	"github.com/df07/go-pinhole-raytracer/pkg/output"
	"github.com/df07/go-pinhole-raytracer/pkg/renderer"
)

// Stdout is the Output value that sends the image to standard output
const Stdout = "-"

// ErrInvalidConfig is returned by Validate
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the resolved settings for the CLI and web drivers
type Config struct {
	EnvFile        string
	Scene          string
	Shader         string
	Output         string // file path, or Stdout
	Format         string
	Workers        int // 0 = use CPU count
	ThumbnailWidth int // 0 = no thumbnail
	ColorScale     float64
	Port           int
	S3             output.S3Config
	Help           bool
}

// Default returns the settings used when neither the environment nor flags say otherwise
func Default() Config {
	return Config{
		EnvFile:    ".env",
		Scene:      "default",
		Shader:     "normals",
		Output:     Stdout,
		Format:     string(output.FormatPPM),
		ColorScale: core.ColorScale,
		Port:       8080,
		S3:         output.S3Config{Region: "us-east-1"},
	}
}

// Load resolves the configuration from, in increasing priority, defaults,
// the env file, the process environment and command line flags.
func Load(args []string) (Config, error) {
	cfg := Default()
	cfg.EnvFile = getEnv("RAYTRACER_ENV_FILE", cfg.EnvFile)

	// A missing env file is fine; variables may come from the real environment
	if err := godotenv.Load(cfg.EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("failed to load %s: %w", cfg.EnvFile, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}

	fs := newFlagSet(&cfg)
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			cfg.Help = true
			return cfg, nil
		}
		return cfg, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	c.Scene = getEnv("RAYTRACER_SCENE", c.Scene)
	c.Shader = getEnv("RAYTRACER_SHADER", c.Shader)
	c.Output = getEnv("RAYTRACER_OUTPUT", c.Output)
	c.Format = getEnv("RAYTRACER_FORMAT", c.Format)

	var err error
	if c.Workers, err = getEnvInt("RAYTRACER_WORKERS", c.Workers); err != nil {
		return err
	}
	if c.ThumbnailWidth, err = getEnvInt("RAYTRACER_THUMBNAIL_WIDTH", c.ThumbnailWidth); err != nil {
		return err
	}
	if c.Port, err = getEnvInt("RAYTRACER_PORT", c.Port); err != nil {
		return err
	}
	if value, ok := os.LookupEnv("RAYTRACER_COLOR_SCALE"); ok {
		scale, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: RAYTRACER_COLOR_SCALE=%q", ErrInvalidConfig, value)
		}
		c.ColorScale = scale
	}

	c.S3.Endpoint = getEnv("S3_ENDPOINT", c.S3.Endpoint)
	c.S3.Region = getEnv("S3_REGION", c.S3.Region)
	c.S3.Bucket = getEnv("S3_BUCKET", c.S3.Bucket)
	c.S3.AccessKey = getEnv("S3_ACCESS_KEY", c.S3.AccessKey)
	c.S3.SecretKey = getEnv("S3_SECRET_KEY", c.S3.SecretKey)
	c.S3.Prefix = getEnv("S3_PREFIX", c.S3.Prefix)
	return nil
}

func newFlagSet(c *Config) *flag.FlagSet {
	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	fs.StringVar(&c.Scene, "scene", c.Scene, "Built-in scene name or path to a .json scene file")
	fs.StringVar(&c.Shader, "shader", c.Shader, "Shader: 'normals', 'sky' or 'uv'")
	fs.StringVar(&c.Output, "output", c.Output, "Output file, or '-' for stdout")
	fs.StringVar(&c.Format, "format", c.Format, "Image format: 'ppm', 'png' or 'jpeg'")
	fs.IntVar(&c.Workers, "workers", c.Workers, "Number of parallel row workers (0 = auto-detect CPU count)")
	fs.IntVar(&c.ThumbnailWidth, "thumbnail", c.ThumbnailWidth, "Also write a PNG thumbnail of this width (0 = off)")
	fs.IntVar(&c.Port, "port", c.Port, "Port for the web server")
	fs.BoolVar(&c.Help, "help", c.Help, "Show help information")
	return fs
}

// PrintUsage writes the flag defaults to w
func PrintUsage(w io.Writer) {
	cfg := Default()
	fs := newFlagSet(&cfg)
	fs.SetOutput(w)
	fs.PrintDefaults()
}

// Validate checks the values that cannot be caught by flag parsing
func (c Config) Validate() error {
	if _, err := output.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := renderer.ShaderByName(c.Shader); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.ThumbnailWidth < 0 {
		return fmt.Errorf("%w: thumbnail width must be non-negative, got %d", ErrInvalidConfig, c.ThumbnailWidth)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be non-negative, got %d", ErrInvalidConfig, c.Workers)
	}
	if c.ColorScale <= 0 {
		return fmt.Errorf("%w: color scale must be positive, got %g", ErrInvalidConfig, c.ColorScale)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: port out of range: %d", ErrInvalidConfig, c.Port)
	}
	return nil
}

// OutputFormat returns the parsed Format
func (c Config) OutputFormat() output.Format {
	format, err := output.ParseFormat(c.Format)
	if err != nil {
		return output.FormatPPM
	}
	return format
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, key, value)
	}
	return n, nil
}
