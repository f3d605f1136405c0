package fonttools

import (
	"math"
	"strconv"
	"strings"
)

// Pather is an interface to append a glyph's path to.
type Pather interface {
	MoveTo(float64, float64)
	LineTo(float64, float64)
	QuadTo(float64, float64, float64, float64)
	CubeTo(float64, float64, float64, float64, float64, float64)
	Close()
}

type bboxPather struct {
	XMin, XMax, YMin, YMax float64
}

func (p *bboxPather) MoveTo(x float64, y float64) {
	p.XMin = math.Min(p.XMin, x)
	p.XMax = math.Max(p.XMax, x)
	p.YMin = math.Min(p.YMin, y)
	p.YMax = math.Max(p.YMax, y)
}

func (p *bboxPather) LineTo(x float64, y float64) {
	p.MoveTo(x, y)
}

func (p *bboxPather) QuadTo(cpx float64, cpy float64, x float64, y float64) {
	p.MoveTo(cpx, cpy)
	p.MoveTo(x, y)
}

func (p *bboxPather) CubeTo(cpx1 float64, cpy1 float64, cpx2 float64, cpy2 float64, x float64, y float64) {
	p.MoveTo(cpx1, cpy1)
	p.MoveTo(cpx2, cpy2)
	p.MoveTo(x, y)
}

func (p *bboxPather) Close() {
}

// commandPather records the path as a list of commands in the style of SVG path data.
type commandPather struct {
	cmds []string
}

func (p *commandPather) MoveTo(x float64, y float64) {
	p.cmds = append(p.cmds, "M"+fmtCoords(x, y))
}

func (p *commandPather) LineTo(x float64, y float64) {
	p.cmds = append(p.cmds, "L"+fmtCoords(x, y))
}

func (p *commandPather) QuadTo(cpx float64, cpy float64, x float64, y float64) {
	p.cmds = append(p.cmds, "Q"+fmtCoords(cpx, cpy, x, y))
}

func (p *commandPather) CubeTo(cpx1 float64, cpy1 float64, cpx2 float64, cpy2 float64, x float64, y float64) {
	p.cmds = append(p.cmds, "C"+fmtCoords(cpx1, cpy1, cpx2, cpy2, x, y))
}

func (p *commandPather) Close() {
	p.cmds = append(p.cmds, "z")
}

func fmtCoords(vs ...float64) string {
	s := make([]string, len(vs))
	for i, v := range vs {
		s[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(s, " ")
}

// Path returns the outline as SVG path data.
func (o Outline) Path() string {
	p := &commandPather{}
	o.Draw(p)
	return strings.Join(p.cmds, "")
}

// areaPather accumulates the signed area of the path by Green's theorem. Contours are closed implicitly.
type areaPather struct {
	area      float64
	start, p0 Point
	open      bool
}

func (p *areaPather) MoveTo(x float64, y float64) {
	p.Close()
	p.start = Point{x, y}
	p.p0 = p.start
	p.open = true
}

func (p *areaPather) LineTo(x float64, y float64) {
	p.area -= (x - p.p0.X) * (y + p.p0.Y) * 0.5
	p.p0 = Point{x, y}
}

func (p *areaPather) QuadTo(cpx float64, cpy float64, x float64, y float64) {
	x1, y1 := cpx-p.p0.X, cpy-p.p0.Y
	x2, y2 := x-p.p0.X, y-p.p0.Y
	p.area -= (x2*y1 - x1*y2) / 3.0
	p.LineTo(x, y)
}

func (p *areaPather) CubeTo(cpx1 float64, cpy1 float64, cpx2 float64, cpy2 float64, x float64, y float64) {
	x1, y1 := cpx1-p.p0.X, cpy1-p.p0.Y
	x2, y2 := cpx2-p.p0.X, cpy2-p.p0.Y
	x3, y3 := x-p.p0.X, y-p.p0.Y
	p.area -= (x1*(-y2-y3) + x2*(y1-2.0*y3) + x3*(y1+2.0*y2)) * 0.15
	p.LineTo(x, y)
}

func (p *areaPather) Close() {
	if p.open {
		p.LineTo(p.start.X, p.start.Y)
		p.open = false
	}
}

// Area returns the signed area enclosed by the outline, positive for counter-clockwise contours.
func (o Outline) Area() float64 {
	p := &areaPather{}
	o.Draw(p)
	p.Close()
	return p.area
}
