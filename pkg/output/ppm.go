package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/df07/go-pinhole-raytracer/pkg/core"
	"github.com/df07/go-pinhole-raytracer/pkg/renderer"
)

// WritePPM writes img as a plain-text P3 pixel map:
//
//	P3
//	<width> <height>
//	255
//	<r> <g> <b>     (one line per pixel, rows top to bottom)
func WritePPM(w io.Writer, img *renderer.Image) error {
	if len(img.Pixels) != img.Width*img.Height {
		return fmt.Errorf("image has %d pixels, expected %dx%d", len(img.Pixels), img.Width, img.Height)
	}

	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n%d\n", img.Width, img.Height, core.MaxChannel); err != nil {
		return fmt.Errorf("failed to write PPM header: %w", err)
	}

	for _, pixel := range img.Pixels {
		if _, err := fmt.Fprintf(bw, "%d %d %d\n", pixel.R, pixel.G, pixel.B); err != nil {
			return fmt.Errorf("failed to write PPM pixel: %w", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush PPM: %w", err)
	}
	return nil
}
