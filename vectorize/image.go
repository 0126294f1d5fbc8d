// Package vectorize turns raster images into strokes a pen plotter can
// draw: it binarizes the image, traces the outlines of the inked regions
// and simplifies them into short polygons.
package vectorize

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // decoder registration
	_ "image/jpeg" // decoder registration
	_ "image/png"  // decoder registration
	"io"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // decoder registration
	_ "golang.org/x/image/tiff" // decoder registration
	_ "golang.org/x/image/webp" // decoder registration
)

// ErrImageLoad is returned when the source image can't be read or decoded,
// or has no pixels.
var ErrImageLoad = errors.New("cannot load image")

// Load opens and decodes the image file at path, honouring any EXIF
// orientation.
func Load(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrImageLoad, path, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%w %s: image has zero area", ErrImageLoad, path)
	}
	return img, nil
}

// Decode reads an image from r, honouring any EXIF orientation.
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageLoad, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: image has zero area", ErrImageLoad)
	}
	return img, nil
}

// grayscale flattens img onto a white background and returns its
// luminance, one byte per pixel, row-major.
func grayscale(img image.Image, blur int) ([]uint8, int, int) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	flat := imaging.New(w, h, color.White)
	flat = imaging.Overlay(flat, img, image.Pt(0, 0), 1.0)
	g := imaging.Grayscale(flat)
	if blur > 0 {
		g = imaging.Blur(g, blurSigma(blur))
	}
	lum := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		row := g.Pix[y*g.Stride:]
		for x := 0; x < w; x++ {
			lum[y*w+x] = row[x*4]
		}
	}
	return lum, w, h
}

// blurSigma converts a Gaussian kernel size to a standard deviation,
// the same way OpenCV does when it is given a size and no sigma.
func blurSigma(ksize int) float64 {
	return 0.3*(float64(ksize-1)*0.5-1) + 0.8
}
