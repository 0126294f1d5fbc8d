package paths

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"text/scanner"

	"github.com/JoshVarga/svgparser"
	"golang.org/x/net/html/charset"
)

// parseLength parses an SVG length, ignoring any unit suffix.
func parseLength(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, "abcdefghijklmnopqrstuvwxyz%")
	return strconv.ParseFloat(s, 64)
}

func parseBounds(e *svgparser.Element) (Bounds, error) {
	if vb := strings.FieldsFunc(e.Attributes["viewBox"], func(r rune) bool {
		return r == ',' || r == ' '
	}); len(vb) == 4 {
		f, err := parseFloats(vb)
		if err != nil {
			return Bounds{}, fmt.Errorf("bad viewBox: %w", err)
		}
		return Bounds{
			Min: Vec2{f[0], f[1]},
			Max: Vec2{f[0] + f[2], f[1] + f[3]},
		}, nil
	}
	width, werr := parseLength(e.Attributes["width"])
	height, herr := parseLength(e.Attributes["height"])
	if werr != nil {
		return Bounds{}, werr
	}
	if herr != nil {
		return Bounds{}, herr
	}
	return Bounds{
		Max: Vec2{width, height},
	}, nil
}

func parseLine(ps *Paths, xform *svgXform, e *svgparser.Element) error {
	var ferr error
	pf := func(s string) float64 {
		if ferr != nil {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		ferr = err
		return f
	}
	x1 := pf(e.Attributes["x1"])
	x2 := pf(e.Attributes["x2"])
	y1 := pf(e.Attributes["y1"])
	y2 := pf(e.Attributes["y2"])
	if ferr != nil {
		return ferr
	}
	ps.P = append(ps.P, Path{V: []Vec2{xform.Apply(Vec2{x1, y1}), xform.Apply(Vec2{x2, y2})}})
	return nil
}

// parsePoly handles <polyline> and, with closed set, <polygon>.
func parsePoly(ps *Paths, xform *svgXform, e *svgparser.Element, closed bool) error {
	nums := strings.FieldsFunc(e.Attributes["points"], func(r rune) bool {
		return r == ',' || r == ' ' || r == '\n' || r == '\t'
	})
	if len(nums)%2 != 0 {
		return fmt.Errorf("odd number of coordinates in %s points", e.Name)
	}
	f, err := parseFloats(nums)
	if err != nil {
		return err
	}
	var p Path
	for i := 0; i < len(f); i += 2 {
		p.V = append(p.V, xform.Apply(Vec2{f[i], f[i+1]}))
	}
	if closed && len(p.V) > 2 {
		p.V = append(p.V, p.V[0])
	}
	if len(p.V) > 0 {
		ps.P = append(ps.P, p)
	}
	return nil
}

type xformScannerState int

const (
	xfsName xformScannerState = 1 + iota
	xfsBra
	xfsMaybeComma
	xfsArg
)

func parseFloats(a []string) ([]float64, error) {
	var r []float64
	for _, x := range a {
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return nil, err
		}
		r = append(r, f)
	}
	return r, nil
}

func svgXformTranslate(x, y float64) *svgXform {
	return &svgXform{
		M: [3][3]float64{
			{1, 0, x},
			{0, 1, y},
			{0, 0, 1},
		},
	}
}

func svgXformScale(x, y float64) *svgXform {
	return &svgXform{
		M: [3][3]float64{
			{x, 0, 0},
			{0, y, 0},
			{0, 0, 1},
		},
	}
}

func parseSingleXform(name string, args []string) (*svgXform, error) {
	fa, err := parseFloats(args)
	if err != nil {
		return nil, err
	}
	switch name {
	case "translate":
		if len(fa) != 1 && len(fa) != 2 {
			return nil, fmt.Errorf("translate should have one or two parameters: got %s", args)
		}
		if len(fa) == 1 {
			fa = append(fa, 0)
		}
		return svgXformTranslate(fa[0], fa[1]), nil
	case "scale":
		if len(fa) != 1 && len(fa) != 2 {
			return nil, fmt.Errorf("scale should have one or two parameters: got %s", args)
		}
		if len(fa) == 1 {
			fa = append(fa, fa[0])
		}
		return svgXformScale(fa[0], fa[1]), nil
	case "matrix":
		if len(fa) != 6 {
			return nil, fmt.Errorf("matrix should have six parameters: got %s", args)
		}
		return &svgXform{M: [3][3]float64{
			{fa[0], fa[2], fa[4]},
			{fa[1], fa[3], fa[5]},
			{0, 0, 1},
		}}, nil
	default:
		return nil, fmt.Errorf("unknown transform function %q", name)
	}
}

func parseSVGXForm(x string) (*svgXform, error) {
	var s scanner.Scanner
	xf := svgIdentity
	s.Init(strings.NewReader(x))
	state := xfsName
	fname := ""
	var args []string
	neg := false
	for tok := s.Scan(); tok != scanner.EOF; tok = s.Scan() {
		switch state {
		case xfsName:
			if tok != scanner.Ident {
				return nil, fmt.Errorf("failed to parse transform: expected transform name, but got %q", s.TokenText())
			}
			fname = s.TokenText()
			state = xfsBra
		case xfsBra:
			if tok != '(' {
				return nil, fmt.Errorf("failed to parse transform: expected (, but got %q", s.TokenText())
			}
			state = xfsArg
		case xfsMaybeComma:
			if tok == ',' {
				continue
			}
			fallthrough
		case xfsArg:
			if tok == ')' {
				newxform, err := parseSingleXform(fname, args)
				if err != nil {
					return nil, err
				}
				xf = xf.Compose(newxform)
				state = xfsName
				args = nil
			} else if tok == '-' {
				neg = true
			} else if tok == scanner.Float || tok == scanner.Int {
				arg := s.TokenText()
				if neg {
					arg = "-" + arg
					neg = false
				}
				args = append(args, arg)
				state = xfsMaybeComma
			} else {
				return nil, fmt.Errorf("unexpected token %q parsing transform %q", s.TokenText(), x)
			}
		}
	}
	if state != xfsName {
		return nil, fmt.Errorf("failed to parse transform: %q", x)
	}
	return xf, nil
}

// splitPathData separates command letters from the numbers glued to them,
// so "M10,20L30,40z" scans the same as "M 10 20 L 30 40 z".
func splitPathData(d string) []string {
	var b strings.Builder
	for _, r := range d {
		switch {
		case strings.ContainsRune("MmLlZz", r):
			b.WriteString(" " + string(r) + " ")
		case r == ',':
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Fields(b.String())
}

// parsePath understands absolute and relative move, line and close commands.
func parsePath(ps *Paths, xf *svgXform, e *svgparser.Element) error {
	var cmd byte = 'M'
	var xy Vec2
	var xyp int
	var cur, first Vec2 // untransformed pen position, start of subpath
	startNew := false
	for _, p := range splitPathData(e.Attributes["d"]) {
		switch p {
		case "M", "m", "L", "l":
			if xyp != 0 {
				return fmt.Errorf("got odd number of components before %s", p)
			}
			cmd = p[0]
			startNew = cmd == 'M' || cmd == 'm'
			continue
		case "Z", "z":
			if xyp != 0 {
				return fmt.Errorf("got odd number of components before %s", p)
			}
			if len(ps.P) > 0 && cur != first {
				ps.line(xf.Apply(first))
			}
			cur = first
			continue
		}
		x, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return err
		}
		xy[xyp] = x
		xyp++
		if xyp < 2 {
			continue
		}
		xyp = 0
		if cmd == 'm' || cmd == 'l' {
			xy = Vec2{cur[0] + xy[0], cur[1] + xy[1]}
		}
		cur = xy
		if startNew || len(ps.P) == 0 {
			ps.P = append(ps.P, Path{})
			first = cur
			startNew = false
			// coordinate pairs after a move are implicit line-tos.
			if cmd == 'M' {
				cmd = 'L'
			} else if cmd == 'm' {
				cmd = 'l'
			}
		}
		ps.line(xf.Apply(cur))
	}
	if xyp != 0 {
		return fmt.Errorf("got stray component in path")
	}
	return nil
}

type svgXform struct {
	M [3][3]float64
}

func (xf *svgXform) Compose(xf2 *svgXform) *svgXform {
	var a svgXform
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				a.M[i][k] += xf.M[i][j] * xf2.M[j][k]
			}
		}
	}
	return &a
}

func (xf *svgXform) Apply(v Vec2) Vec2 {
	x := [3]float64{v[0], v[1], 1.0}
	var r [3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i] += xf.M[i][j] * x[j]
		}
	}
	return Vec2{r[0] / r[2], r[1] / r[2]}
}

var svgIdentity = &svgXform{
	M: [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
}

func parsePaths(p *Paths, xform *svgXform, e *svgparser.Element) error {
	for _, c := range e.Children {
		xf := xform
		if t := c.Attributes["transform"]; t != "" {
			cxf, err := parseSVGXForm(t)
			if err != nil {
				return err
			}
			xf = xform.Compose(cxf)
		}
		var err error
		switch c.Name {
		case "g":
			err = parsePaths(p, xf, c)
		case "path":
			err = parsePath(p, xf, c)
		case "line":
			err = parseLine(p, xf, c)
		case "polyline":
			err = parsePoly(p, xf, c, false)
		case "polygon":
			err = parsePoly(p, xf, c, true)
		case "defs", "title", "desc", "metadata":
			continue
		default:
			log.Printf("svg: skipping unsupported element %q", c.Name)
		}
		if err != nil {
			return fmt.Errorf("svg %s: %w", c.Name, err)
		}
	}
	return nil
}

// FromSVG parses an SVG file, extracting paths.
// This provides only limited SVG parsing support, and
// will fail or produce incorrect results if the SVG file
// uses features that it doesn't understand (curves, arcs,
// shapes other than lines and polylines).
func FromSVG(r io.Reader) (*Paths, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	decoder := xml.NewDecoder(bytes.NewReader(raw))
	decoder.CharsetReader = charset.NewReaderLabel
	elt, err := svgparser.DecodeFirst(decoder)
	if err != nil {
		return nil, err
	}
	if err := elt.Decode(decoder); err != nil && err != io.EOF {
		return nil, err
	}
	bs, err := parseBounds(elt)
	if err != nil {
		return nil, err
	}
	p := &Paths{Bounds: bs}
	return p, parsePaths(p, svgIdentity, elt)
}

const svgh = `<svg height="%g" width="%g" viewBox="%g %g %g %g" version="1.1" xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink">`

// SVG writes an SVG file that contains black strokes along the paths.
func (ps *Paths) SVG(w io.Writer) error {
	var werr error
	bi := bufio.NewWriter(w)
	wr := func(f string, args ...interface{}) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(bi, f, args...)
	}
	b := ps.Bounds
	wr(svgh, b.Height(), b.Width(), b.Min[0], b.Min[1], b.Width(), b.Height())
	wr("\n")
	wr("<g fill=\"none\" stroke=\"black\" stroke-width=\"%g\">\n", strokeWidth(b))
	for _, p := range ps.P {
		if len(p.V) == 0 {
			continue
		}
		wr(`<path d="`)
		for i, v := range p.V {
			if i == 0 {
				wr("M %.2f, %.2f", v[0], v[1])
			} else {
				wr(" %.2f, %.2f", v[0], v[1])
			}
		}
		wr("\"/>\n")
	}
	wr("</g>")
	wr("</svg>")
	if werr == nil {
		werr = bi.Flush()
	}
	return werr
}

// strokeWidth picks a line width that stays visible whatever the scale.
func strokeWidth(b Bounds) float64 {
	w := b.Width()
	if h := b.Height(); h > w {
		w = h
	}
	if w <= 0 {
		return 0.1
	}
	return w / 1000
}
