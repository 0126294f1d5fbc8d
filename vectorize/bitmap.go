package vectorize

import (
	"strings"

	"github.com/unixpickle/model3d/model2d"
)

// A Bitmap is a grid of ink/no-ink pixels. It is not modified once
// built.
type Bitmap struct {
	*model2d.Bitmap
}

func newBitmap(w, h int) *Bitmap {
	return &Bitmap{Bitmap: model2d.NewBitmap(w, h)}
}

// At reports whether (x, y) is ink. Pixels outside the bitmap are not.
func (b *Bitmap) At(x, y int) bool {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return false
	}
	return b.Data[y*b.Width+x]
}

func (b *Bitmap) set(x, y int, v bool) {
	b.Data[y*b.Width+x] = v
}

// Count returns the number of ink pixels.
func (b *Bitmap) Count() int {
	n := 0
	for _, v := range b.Data {
		if v {
			n++
		}
	}
	return n
}

// BitmapFromRows builds a bitmap from text rows, where '#' is ink and
// anything else is background. All rows must have the same length.
func BitmapFromRows(rows ...string) *Bitmap {
	if len(rows) == 0 {
		return newBitmap(0, 0)
	}
	b := newBitmap(len(rows[0]), len(rows))
	for y, row := range rows {
		for x := 0; x < len(row) && x < b.Width; x++ {
			b.set(x, y, row[x] == '#')
		}
	}
	return b
}

// BitmapFromFunc builds a w×h bitmap with ink wherever f returns true.
func BitmapFromFunc(w, h int, f func(x, y int) bool) *Bitmap {
	b := newBitmap(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			b.set(x, y, f(x, y))
		}
	}
	return b
}

func (b *Bitmap) String() string {
	var sb strings.Builder
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			if b.At(x, y) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
