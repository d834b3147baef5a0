package output

import (
	"errors"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"

	"github.com/df07/go-pinhole-raytracer/pkg/renderer"
)

// ErrUnknownFormat is returned for output formats other than ppm, png and jpeg
var ErrUnknownFormat = errors.New("unknown output format")

// Format is an image encoding
type Format string

const (
	FormatPPM  Format = "ppm"
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
)

// ParseFormat accepts a format name or file extension, with or without a leading dot
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "ppm", "p3":
		return FormatPPM, nil
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// FormatFromPath infers the format from a file extension
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// ContentType returns the MIME type for the format
func (f Format) ContentType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatJPEG:
		return "image/jpeg"
	default:
		return "image/x-portable-pixmap"
	}
}

// Extension returns the file extension for the format, including the dot
func (f Format) Extension() string {
	if f == FormatJPEG {
		return ".jpg"
	}
	return "." + string(f)
}

// Encode writes img to w in the requested format
func Encode(w io.Writer, img *renderer.Image, format Format) error {
	switch format {
	case FormatPPM:
		return WritePPM(w, img)
	case FormatPNG:
		return encodeRaster(w, img.ToRGBA(), imaging.PNG)
	case FormatJPEG:
		return encodeRaster(w, img.ToRGBA(), imaging.JPEG)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func encodeRaster(w io.Writer, img image.Image, format imaging.Format) error {
	if err := imaging.Encode(w, img, format, imaging.JPEGQuality(95)); err != nil {
		return fmt.Errorf("failed to encode %v: %w", format, err)
	}
	return nil
}

// Thumbnail scales img down so its width is at most maxWidth, keeping the aspect ratio.
// Images already narrower than maxWidth are returned unchanged.
func Thumbnail(img *renderer.Image, maxWidth int) image.Image {
	rgba := img.ToRGBA()
	if maxWidth <= 0 || img.Width <= maxWidth {
		return rgba
	}
	maxHeight := max(1, img.Height*maxWidth/img.Width)
	return resize.Thumbnail(uint(maxWidth), uint(maxHeight), rgba, resize.Bilinear)
}

// EncodeThumbnail writes a PNG thumbnail of img
func EncodeThumbnail(w io.Writer, img *renderer.Image, maxWidth int) error {
	return encodeRaster(w, Thumbnail(img, maxWidth), imaging.PNG)
}
