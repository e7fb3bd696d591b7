package renderer

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/nfnt/resize"

	"github.com/df07/go-viewfactor-raytracer/pkg/core"
)

// Image is a render target of gamma-corrected RGB pixels. Pixels are
// addressed in camera coordinates: row 0 is the bottom of the picture.
type Image struct {
	Width  int
	Height int
	pixels []core.Vec3
}

// NewImage allocates a black image
func NewImage(width, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		pixels: make([]core.Vec3, width*height),
	}
}

// Set stores the color of the pixel at column i, row j
func (img *Image) Set(i, j int, c core.Vec3) {
	img.pixels[j*img.Width+i] = c
}

// At returns the color of the pixel at column i, row j
func (img *Image) At(i, j int) core.Vec3 {
	return img.pixels[j*img.Width+i]
}

// Quantize maps a color to 8-bit channels. Channels are clamped to [0,1]
// and scaled by 255.99 with truncation, so 1.0 lands on 255 and values
// below 1/255.99 land on 0.
func Quantize(c core.Vec3) (r, g, b uint8) {
	c = c.Clamp(0.0, 1.0)
	return uint8(255.99 * c.X), uint8(255.99 * c.Y), uint8(255.99 * c.Z)
}

// WritePPM writes the image as plain-text PPM (P3): a "P3", size and
// max-value header, then one "r g b" line per pixel, rows ordered from
// the top of the picture down.
func (img *Image) WritePPM(w io.Writer) error {
	buf := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(buf, "P3\n%d %d\n255\n", img.Width, img.Height); err != nil {
		return err
	}

	for j := img.Height - 1; j >= 0; j-- {
		for i := 0; i < img.Width; i++ {
			r, g, b := Quantize(img.At(i, j))
			if _, err := fmt.Fprintf(buf, "%d %d %d\n", r, g, b); err != nil {
				return err
			}
		}
	}

	return buf.Flush()
}

// RGBA converts the image to an 8-bit RGBA raster, flipping rows so that
// row 0 lands at the top as the image package expects
func (img *Image) RGBA() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))

	for j := 0; j < img.Height; j++ {
		for i := 0; i < img.Width; i++ {
			r, g, b := Quantize(img.At(i, j))
			out.SetRGBA(i, img.Height-1-j, color.RGBA{R: r, G: g, B: b, A: 255})
		}
	}

	return out
}

// WritePNG encodes the image as PNG
func (img *Image) WritePNG(w io.Writer) error {
	return png.Encode(w, img.RGBA())
}

// Downscale resamples the quantized image to the given size with a
// bilinear filter. Rendering at a multiple of the target size and
// downscaling gives supersampled output.
func (img *Image) Downscale(width, height int) image.Image {
	return resize.Resize(uint(width), uint(height), img.RGBA(), resize.Bilinear)
}
