package fonttools

import (
	"image"
	"image/draw"

	"golang.org/x/image/vector"
)

// rasterPather transforms glyph coordinates, with the y-axis pointing up, to raster coordinates.
type rasterPather struct {
	z      *vector.Rasterizer
	scale  float64
	dx, dy float64
	height float64
	open   bool
}

func (p *rasterPather) pt(x, y float64) (float32, float32) {
	return float32(p.dx + p.scale*x), float32(p.height - p.dy - p.scale*y)
}

// MoveTo closes the previous contour, filled contours are never open.
func (p *rasterPather) MoveTo(x float64, y float64) {
	p.Close()
	p.z.MoveTo(p.pt(x, y))
	p.open = true
}

func (p *rasterPather) LineTo(x float64, y float64) {
	p.z.LineTo(p.pt(x, y))
}

func (p *rasterPather) QuadTo(cpx float64, cpy float64, x float64, y float64) {
	bx, by := p.pt(cpx, cpy)
	cx, cy := p.pt(x, y)
	p.z.QuadTo(bx, by, cx, cy)
}

func (p *rasterPather) CubeTo(cpx1 float64, cpy1 float64, cpx2 float64, cpy2 float64, x float64, y float64) {
	bx, by := p.pt(cpx1, cpy1)
	cx, cy := p.pt(cpx2, cpy2)
	dx, dy := p.pt(x, y)
	p.z.CubeTo(bx, by, cx, cy, dx, dy)
}

func (p *rasterPather) Close() {
	if p.open {
		p.z.ClosePath()
		p.open = false
	}
}

// Rasterize renders the outline into an alpha mask of width by height pixels. Glyph coordinates are scaled and then translated by (dx,dy), with the origin at the bottom-left of the image.
func (o Outline) Rasterize(width, height int, scale, dx, dy float64) *image.Alpha {
	z := vector.NewRasterizer(width, height)
	z.DrawOp = draw.Src
	p := &rasterPather{
		z:      z,
		scale:  scale,
		dx:     dx,
		dy:     dy,
		height: float64(height),
	}
	o.Draw(p)
	p.Close()

	dst := image.NewAlpha(image.Rect(0, 0, width, height))
	z.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})
	return dst
}
