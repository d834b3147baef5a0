package renderer

import (
	"image"

	"github.com/df07/go-pinhole-raytracer/pkg/core"
)

// Image is a row-major grid of colours, top row first
type Image struct {
	Width  int
	Height int
	Pixels []core.Color
}

// NewImage allocates a black image
func NewImage(width, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Pixels: make([]core.Color, width*height),
	}
}

// At returns the colour at column x of output row row (row 0 is the top)
func (img *Image) At(x, row int) core.Color {
	return img.Pixels[row*img.Width+x]
}

// Row returns the pixels of one output row
func (img *Image) Row(row int) []core.Color {
	return img.Pixels[row*img.Width : (row+1)*img.Width]
}

// ToRGBA converts the image for the standard image encoders
func (img *Image) ToRGBA() *image.RGBA {
	rgba := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for row := 0; row < img.Height; row++ {
		for x := 0; x < img.Width; x++ {
			rgba.SetRGBA(x, row, img.At(x, row).ToRGBA())
		}
	}
	return rgba
}
