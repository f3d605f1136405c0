package fonttools

import (
	"fmt"
	"math"
	"strings"
)

// Point is a coordinate in glyph space.
type Point struct {
	X, Y float64
}

func (p Point) add(dx, dy float64) Point {
	return Point{p.X + dx, p.Y + dy}
}

// ContourState is the state of a contour.
type ContourState int

// see ContourState
const (
	Open ContourState = iota
	Closed
	Composite // seac marker, without points
)

// Seac holds the parameters of an accented character built from two standard encoding characters.
type Seac struct {
	Asb   float64 // only set for Type 1
	Adx   float64
	Ady   float64
	BChar int
	AChar int
}

// Contour is a list of points, where each cubic Bézier segment is given by two off-curve control points followed by an on-curve point.
type Contour struct {
	Points  []Point
	OnCurve []bool
	State   ContourState
	Seac    *Seac
}

func (c *Contour) String() string {
	if c.State == Composite {
		return fmt.Sprintf("seac %v %v %v %v %v", c.Seac.Asb, c.Seac.Adx, c.Seac.Ady, c.Seac.BChar, c.Seac.AChar)
	}
	sb := strings.Builder{}
	for i, p := range c.Points {
		if 0 < i {
			sb.WriteByte(' ')
		}
		if c.OnCurve[i] {
			fmt.Fprintf(&sb, "(%v,%v)", p.X, p.Y)
		} else {
			fmt.Fprintf(&sb, "[%v,%v]", p.X, p.Y)
		}
	}
	if c.State == Closed {
		sb.WriteString(" z")
	}
	return sb.String()
}

// Outline is the list of contours of a glyph.
type Outline []*Contour

// Draw replays the outline on a pather. Composite markers are skipped.
func (o Outline) Draw(p Pather) {
	for _, c := range o {
		if c.State == Composite || len(c.Points) == 0 {
			continue
		}

		pts, on := c.Points, c.OnCurve
		p.MoveTo(pts[0].X, pts[0].Y)
		for i := 1; i < len(pts); {
			if on[i] {
				p.LineTo(pts[i].X, pts[i].Y)
				i++
			} else if i+2 < len(pts) && !on[i+1] && on[i+2] {
				p.CubeTo(pts[i].X, pts[i].Y, pts[i+1].X, pts[i+1].Y, pts[i+2].X, pts[i+2].Y)
				i += 3
			} else if i+1 < len(pts) && on[i+1] {
				p.QuadTo(pts[i].X, pts[i].Y, pts[i+1].X, pts[i+1].Y)
				i += 2
			} else {
				// dangling control point
				p.LineTo(pts[i].X, pts[i].Y)
				i++
			}
		}
		if c.State == Closed {
			p.Close()
		}
	}
}

// Bounds returns the bounding box of the points and control points of the outline. An empty outline has a zero bounding box.
func (o Outline) Bounds() (xmin, ymin, xmax, ymax float64) {
	bbox := &bboxPather{
		XMin: math.Inf(1),
		XMax: math.Inf(-1),
		YMin: math.Inf(1),
		YMax: math.Inf(-1),
	}
	o.Draw(bbox)
	if math.IsInf(bbox.XMin, 1) {
		return 0.0, 0.0, 0.0, 0.0
	}
	return bbox.XMin, bbox.YMin, bbox.XMax, bbox.YMax
}

// glyphState is the state of an interpreter that extracts outlines.
type glyphState struct {
	nominalWidthX, defaultWidthX float64

	width    float64
	gotWidth bool
	sbx      float64
	flexing  bool
	current  Point
	outline  Outline
}

func (g *glyphState) reset() {
	g.width = 0.0
	g.gotWidth = false
	g.sbx = 0.0
	g.flexing = false
	g.current = Point{}
	g.outline = nil
}

func (g *glyphState) newPath() {
	g.outline = append(g.outline, &Contour{})
}

// closePath closes the last contour. It is a no-op if the contour is closed or there is none.
func (g *glyphState) closePath() {
	if 0 < len(g.outline) && g.outline[len(g.outline)-1].State == Open {
		g.outline[len(g.outline)-1].State = Closed
	}
}

func (g *glyphState) appendPoint(dx, dy float64, onCurve bool) error {
	if len(g.outline) == 0 || g.outline[len(g.outline)-1].State == Composite {
		return ErrNoContour
	}
	c := g.outline[len(g.outline)-1]
	g.current = g.current.add(dx, dy)
	c.Points = append(c.Points, g.current)
	c.OnCurve = append(c.OnCurve, onCurve)
	return nil
}

func (g *glyphState) rlineto(dx, dy float64) error {
	return g.appendPoint(dx, dy, true)
}

func (g *glyphState) rrcurveto(dx1, dy1, dx2, dy2, dx3, dy3 float64) error {
	if err := g.appendPoint(dx1, dy1, false); err != nil {
		return err
	} else if err := g.appendPoint(dx2, dy2, false); err != nil {
		return err
	}
	return g.appendPoint(dx3, dy3, true)
}

func (g *glyphState) seac(s Seac) {
	g.outline = append(g.outline, &Contour{
		State: Composite,
		Seac:  &s,
	})
}

// OutlineExtractor is an interpreter that builds the outline and advance width of a glyph.
type OutlineExtractor struct {
	*Interpreter
}

// Outline returns the contours built so far.
func (e *OutlineExtractor) Outline() Outline {
	return e.glyph.outline
}

// Width returns the advance width.
func (e *OutlineExtractor) Width() float64 {
	return e.glyph.width
}

// HasWidth returns true if the width has been resolved.
func (e *OutlineExtractor) HasWidth() bool {
	return e.glyph.gotWidth
}

// SideBearing returns the left side bearing set by hsbw.
func (e *OutlineExtractor) SideBearing() float64 {
	return e.glyph.sbx
}

// CurrentPoint returns the current point.
func (e *OutlineExtractor) CurrentPoint() Point {
	return e.glyph.current
}
