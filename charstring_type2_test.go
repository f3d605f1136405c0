package fonttools

import (
	"errors"
	"testing"

	"github.com/tdewolff/test"
)

func extractType2(t *testing.T, items ...any) (*OutlineExtractor, error) {
	t.Helper()
	e := NewType2Extractor(nil, nil, 600.0, 500.0)
	err := e.Execute(NewProgram(Type2, compile(t, Type2, items...)))
	return e, err
}

func points(coords ...float64) []Point {
	pts := []Point{}
	for i := 0; i+1 < len(coords); i += 2 {
		pts = append(pts, Point{coords[i], coords[i+1]})
	}
	return pts
}

func TestType2MoveTo(t *testing.T) {
	e, err := extractType2(t, 10, 20, "rmoveto", "endchar")
	test.Error(t, err)
	test.T(t, len(e.Outline()), 1)
	test.T(t, e.Outline()[0].Points, points(10, 20))
	test.T(t, e.Outline()[0].OnCurve, []bool{true})
	test.T(t, e.Outline()[0].State, Closed)
	test.That(t, e.HasWidth())
	test.T(t, e.Width(), 500.0)
	test.T(t, e.CurrentPoint(), Point{10, 20})
}

func TestType2Width(t *testing.T) {
	var tests = []struct {
		name  string
		items []any
		width float64
	}{
		{"rmoveto", []any{100, 10, 20, "rmoveto", "endchar"}, 700.0},
		{"hmoveto", []any{-50, 10, "hmoveto", "endchar"}, 550.0},
		{"vmoveto default", []any{10, "vmoveto", "endchar"}, 500.0},
		{"hstem", []any{20, 0, 10, "hstem", 0, 0, "rmoveto", "endchar"}, 620.0},
		{"hintmask", []any{20, 0, 10, "hintmask", []byte{0x80}, 0, 0, "rmoveto", "endchar"}, 620.0},
		{"endchar", []any{30, "endchar"}, 630.0},
		{"empty endchar", []any{"endchar"}, 500.0},
		{"latched", []any{0, 0, "rmoveto", 100, 0, 0, "rmoveto", "endchar"}, 500.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := extractType2(t, tt.items...)
			if tt.name == "latched" {
				test.That(t, errors.Is(err, ErrBadOperands), err)
			} else {
				test.Error(t, err)
			}
			test.T(t, e.Width(), tt.width)
		})
	}
}

func TestType2Lines(t *testing.T) {
	var tests = []struct {
		name  string
		items []any
		pts   []Point
	}{
		{"rlineto", []any{0, 0, "rmoveto", 1, 2, 3, 4, "rlineto", "endchar"}, points(0, 0, 1, 2, 4, 6)},
		{"hlineto", []any{0, 0, "rmoveto", 5, 3, -2, "hlineto", "endchar"}, points(0, 0, 5, 0, 5, 3, 3, 3)},
		{"vlineto", []any{0, 0, "rmoveto", 5, 3, -2, "vlineto", "endchar"}, points(0, 0, 0, 5, 3, 5, 3, 3)},
		{"relative", []any{10, 10, "rmoveto", 5, "hlineto", 5, 5, "rmoveto", 5, "vlineto", "endchar"}, points(20, 15, 20, 20)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := extractType2(t, tt.items...)
			test.Error(t, err)
			outline := e.Outline()
			test.T(t, outline[len(outline)-1].Points, tt.pts)
		})
	}
}

func TestType2Curves(t *testing.T) {
	var tests = []struct {
		name    string
		items   []any
		pts     []Point
		onCurve []bool
	}{
		{"rrcurveto", []any{0, 0, "rmoveto", 1, 2, 3, 4, 5, 6, "rrcurveto", "endchar"},
			points(0, 0, 1, 2, 4, 6, 9, 12), []bool{true, false, false, true}},
		{"vvcurveto odd", []any{0, 0, "rmoveto", 1, 2, 3, 4, 5, "vvcurveto", "endchar"},
			points(0, 0, 1, 2, 4, 6, 4, 11), []bool{true, false, false, true}},
		{"vvcurveto two", []any{0, 0, "rmoveto", 1, 2, 3, 4, 5, 6, 7, 8, 9, "vvcurveto", "endchar"},
			points(0, 0, 1, 2, 4, 6, 4, 11, 4, 17, 11, 25, 11, 34), []bool{true, false, false, true, false, false, true}},
		{"hhcurveto odd", []any{0, 0, "rmoveto", 1, 2, 3, 4, 5, "hhcurveto", "endchar"},
			points(0, 0, 2, 1, 5, 5, 10, 5), []bool{true, false, false, true}},
		{"hvcurveto", []any{0, 0, "rmoveto", 1, 2, 3, 4, "hvcurveto", "endchar"},
			points(0, 0, 1, 0, 3, 3, 3, 7), []bool{true, false, false, true}},
		{"hvcurveto last", []any{0, 0, "rmoveto", 1, 2, 3, 4, 5, "hvcurveto", "endchar"},
			points(0, 0, 1, 0, 3, 3, 8, 7), []bool{true, false, false, true}},
		{"vhcurveto alternating", []any{0, 0, "rmoveto", 1, 2, 3, 4, 5, 6, 7, 8, "vhcurveto", "endchar"},
			points(0, 0, 0, 1, 2, 4, 6, 4, 11, 4, 17, 11, 17, 19), []bool{true, false, false, true, false, false, true}},
		{"rcurveline", []any{0, 0, "rmoveto", 1, 2, 3, 4, 5, 6, 7, 8, "rcurveline", "endchar"},
			points(0, 0, 1, 2, 4, 6, 9, 12, 16, 20), []bool{true, false, false, true, true}},
		{"rlinecurve", []any{0, 0, "rmoveto", 1, 2, 3, 4, 5, 6, 7, 8, "rlinecurve", "endchar"},
			points(0, 0, 1, 2, 4, 6, 9, 12, 16, 20), []bool{true, true, false, false, true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := extractType2(t, tt.items...)
			test.Error(t, err)
			test.T(t, len(e.Outline()), 1)
			test.T(t, e.Outline()[0].Points, tt.pts)
			test.T(t, e.Outline()[0].OnCurve, tt.onCurve)
		})
	}
}

func TestType2Contours(t *testing.T) {
	e, err := extractType2(t, 0, 0, "rmoveto", 10, "hlineto", 0, 10, "rmoveto", 10, "vlineto", "endchar")
	test.Error(t, err)
	outline := e.Outline()
	test.T(t, len(outline), 2)
	test.T(t, outline[0].Points, points(0, 0, 10, 0))
	test.T(t, outline[0].State, Closed)
	test.T(t, outline[1].Points, points(10, 10, 10, 20))
	test.T(t, outline[1].State, Closed)

	e.Reset()
	test.T(t, len(e.Outline()), 0)
	test.That(t, !e.HasWidth())
	test.T(t, e.CurrentPoint(), Point{})
}

func TestType2Seac(t *testing.T) {
	e, err := extractType2(t, 10, 20, 65, 66, "endchar")
	test.Error(t, err)
	test.T(t, len(e.Outline()), 1)
	test.T(t, e.Outline()[0].State, Composite)
	test.T(t, *e.Outline()[0].Seac, Seac{Adx: 10, Ady: 20, BChar: 65, AChar: 66})
	test.T(t, e.Width(), 500.0)

	e, err = extractType2(t, 40, 10, 20, 65, 66, "endchar")
	test.Error(t, err)
	test.T(t, e.Width(), 640.0)
	test.T(t, e.Outline()[0].State, Composite)
}

func TestType2Subrs(t *testing.T) {
	subrs := NewSubrs(Type2, [][]byte{compile(t, Type2, 10, "hlineto", "return")})
	gsubrs := NewSubrs(Type2, [][]byte{compile(t, Type2, 10, "vlineto", "endchar")})
	e := NewType2Extractor(subrs, gsubrs, 0.0, 0.0)
	test.Error(t, e.Execute(NewProgram(Type2, compile(t, Type2, 0, 0, "rmoveto", -107, "callsubr", -107, "callgsubr"))))
	test.T(t, e.Outline()[0].Points, points(0, 0, 10, 0, 10, 10))
	test.T(t, e.Outline()[0].State, Closed)
}

func TestType2Errors(t *testing.T) {
	var tests = []struct {
		name  string
		items []any
		err   error
	}{
		{"lineto before moveto", []any{1, 2, "rlineto", "endchar"}, ErrNoContour},
		{"odd rlineto", []any{0, 0, "rmoveto", 1, 2, 3, "rlineto", "endchar"}, ErrBadOperands},
		{"rrcurveto", []any{0, 0, "rmoveto", 1, 2, 3, 4, 5, "rrcurveto", "endchar"}, ErrBadOperands},
		{"hvcurveto", []any{0, 0, "rmoveto", 1, 2, 3, 4, 5, 6, "hvcurveto", "endchar"}, ErrBadOperands},
		{"rmoveto", []any{1, 2, 3, 4, "rmoveto", "endchar"}, ErrBadOperands},
		{"hmoveto width", []any{"hmoveto", "endchar"}, ErrStackUnderflow},
		{"endchar", []any{1, 2, "endchar"}, ErrBadOperands},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := extractType2(t, tt.items...)
			test.That(t, errors.Is(err, tt.err), err)
		})
	}
}

func TestType2NotImplemented(t *testing.T) {
	ops := []string{"hflex", "flex", "hflex1", "flex1", "blend", "and", "or", "not",
		"store", "abs", "add", "sub", "load", "neg", "eq", "drop", "put", "get",
		"ifelse", "random", "mul", "sqrt", "dup", "exch", "index", "roll"}
	for _, op := range ops {
		t.Run(op, func(t *testing.T) {
			_, err := extractType2(t, op, "endchar")
			test.That(t, errors.Is(err, ErrNotImplemented), err)

			_, err = extractType2(t, 0, 0, "rmoveto", 1, 2, 3, 4, 5, 6, 7, op, "endchar")
			test.That(t, errors.Is(err, ErrNotImplemented), err)
		})
	}
}
