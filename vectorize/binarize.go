package vectorize

import (
	"fmt"
	"image"
)

const (
	// thresholdWindow is the side of the square neighbourhood whose mean
	// is the local threshold.
	thresholdWindow = 11
	// thresholdBias is subtracted from the local mean; a pixel must be
	// this much darker than its surroundings to count as ink.
	thresholdBias = 2
)

// Binarize converts img into a bitmap in which dark lines are ink.
//
// The image is optionally blurred, then thresholded against the mean of
// each pixel's neighbourhood rather than a single global level, so
// uneven lighting doesn't swallow lines. With a morphology kernel, a
// closing pass bridges small gaps in lines and an opening pass then
// removes isolated specks.
func Binarize(img image.Image, p Profile) (*Bitmap, error) {
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: image has zero area", ErrImageLoad)
	}
	lum, w, h := grayscale(img, p.Blur)
	bm := adaptiveThreshold(lum, w, h, thresholdWindow, thresholdBias)
	if p.Morph > 0 {
		bm = erode(dilate(bm, p.Morph), p.Morph)
		bm = dilate(erode(bm, p.Morph), p.Morph)
	}
	return bm, nil
}

// adaptiveThreshold marks as ink every pixel at least bias below the mean
// of the window×window square around it. The square is cut off at the
// image edges.
func adaptiveThreshold(lum []uint8, w, h, window int, bias float64) *Bitmap {
	// sat is a summed-area table with a zero row and column in front.
	sw := w + 1
	sat := make([]int64, sw*(h+1))
	for y := 0; y < h; y++ {
		var run int64
		for x := 0; x < w; x++ {
			run += int64(lum[y*w+x])
			sat[(y+1)*sw+x+1] = sat[y*sw+x+1] + run
		}
	}
	r := window / 2
	bm := newBitmap(w, h)
	for y := 0; y < h; y++ {
		y0, y1 := max(y-r, 0), min(y+r+1, h)
		for x := 0; x < w; x++ {
			x0, x1 := max(x-r, 0), min(x+r+1, w)
			sum := sat[y1*sw+x1] - sat[y0*sw+x1] - sat[y1*sw+x0] + sat[y0*sw+x0]
			n := float64((x1 - x0) * (y1 - y0))
			mean := float64(sum) / n
			bm.set(x, y, float64(lum[y*w+x]) <= mean-bias)
		}
	}
	return bm
}

// kernelOffsets returns the offsets covered by a k×k square kernel
// anchored at its centre (k/2).
func kernelOffsets(k int) (lo, hi int) {
	a := k / 2
	return -a, k - 1 - a
}

// dilate sets a pixel if any pixel under the kernel is ink.
func dilate(b *Bitmap, k int) *Bitmap {
	lo, hi := kernelOffsets(k)
	out := newBitmap(b.Width, b.Height)
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			hit := false
			for dy := lo; dy <= hi && !hit; dy++ {
				for dx := lo; dx <= hi; dx++ {
					if b.At(x+dx, y+dy) {
						hit = true
						break
					}
				}
			}
			out.set(x, y, hit)
		}
	}
	return out
}

// erode keeps a pixel only if every pixel under the reflected kernel is
// ink. Reflecting the kernel means a closing or opening never shifts the
// image, even for even kernel sizes. Pixels off the edge count as ink.
func erode(b *Bitmap, k int) *Bitmap {
	lo, hi := kernelOffsets(k)
	out := newBitmap(b.Width, b.Height)
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			keep := true
			for dy := -hi; dy <= -lo && keep; dy++ {
				for dx := -hi; dx <= -lo; dx++ {
					xx, yy := x+dx, y+dy
					if xx < 0 || yy < 0 || xx >= b.Width || yy >= b.Height {
						continue
					}
					if !b.At(xx, yy) {
						keep = false
						break
					}
				}
			}
			out.set(x, y, keep)
		}
	}
	return out
}
