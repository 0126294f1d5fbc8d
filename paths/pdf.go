package paths

import (
	"io"

	"github.com/jung-kurt/gofpdf"
)

// pdfMargin is the blank border around a PDF preview, in points.
const pdfMargin = 18

// PDF writes a single-page PDF showing the paths, scaled to fit a page
// of the given size (in points; zero means A4). Y grows downwards, as in
// the SVG output.
func (ps *Paths) PDF(w io.Writer, pageW, pageH float64) error {
	if pageW <= 0 || pageH <= 0 {
		pageW, pageH = 595.28, 841.89
	}
	orient := "P"
	if pageW > pageH {
		orient = "L"
	}
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: orient,
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: pageW, Ht: pageH},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineCapStyle("round")
	pdf.SetLineJoinStyle("round")

	b := ps.Bounds
	scale := 1.0
	if !b.Empty() {
		sx := (pageW - 2*pdfMargin) / b.Width()
		sy := (pageH - 2*pdfMargin) / b.Height()
		scale = sx
		if sy < scale {
			scale = sy
		}
	}
	pdf.SetLineWidth(0.5)
	pt := func(v Vec2) (float64, float64) {
		return pdfMargin + (v[0]-b.Min[0])*scale, pdfMargin + (v[1]-b.Min[1])*scale
	}
	for _, p := range ps.P {
		for i := 1; i < len(p.V); i++ {
			x0, y0 := pt(p.V[i-1])
			x1, y1 := pt(p.V[i])
			pdf.Line(x0, y0, x1, y1)
		}
	}
	return pdf.Output(w)
}
