package fonttools

import (
	"errors"
	"testing"

	"github.com/tdewolff/test"
)

func extractType1(t *testing.T, subrs []*Program, items ...any) (*OutlineExtractor, error) {
	t.Helper()
	e := NewType1Extractor(subrs)
	err := e.Execute(NewProgram(Type1, compile(t, Type1, items...)))
	return e, err
}

func TestType1Outline(t *testing.T) {
	e, err := extractType1(t, nil, 50, 500, "hsbw", 10, 20, "rmoveto", 30, "vlineto", 10, "hlineto", "closepath", "endchar")
	test.Error(t, err)
	test.T(t, e.Width(), 500.0)
	test.T(t, e.SideBearing(), 50.0)
	test.T(t, len(e.Outline()), 1)
	test.T(t, e.Outline()[0].Points, points(60, 20, 60, 50, 70, 50))
	test.T(t, e.Outline()[0].State, Closed)
}

func TestType1MoveToKeepsContourOpen(t *testing.T) {
	e, err := extractType1(t, nil, 0, 500, "hsbw", 0, 0, "rmoveto", 10, "hlineto", 10, "vmoveto", 10, "hlineto", "endchar")
	test.Error(t, err)
	test.T(t, len(e.Outline()), 2)
	test.T(t, e.Outline()[0].State, Open)
	test.T(t, e.Outline()[1].Points, points(10, 10, 20, 10))
	test.T(t, e.Outline()[1].State, Closed)
}

func TestType1Subrs(t *testing.T) {
	subrs := NewSubrs(Type1, [][]byte{
		compile(t, Type1, 10, "hlineto", "return"),
		compile(t, Type1, 10, "vlineto", "return"),
	})
	e, err := extractType1(t, subrs, 0, 500, "hsbw", 0, 0, "rmoveto", 0, "callsubr", 1, "callsubr", "closepath", "endchar")
	test.Error(t, err)
	test.T(t, e.Outline()[0].Points, points(0, 0, 10, 0, 10, 10))

	_, err = extractType1(t, subrs, 2, "callsubr", "endchar")
	test.That(t, errors.Is(err, ErrSubrIndex), err)
}

func TestType1Flex(t *testing.T) {
	flexPoint := func(dx, dy int) []any {
		return []any{dx, dy, "rmoveto", 0, 2, "callothersubr"}
	}

	items := []any{0, 0, "hsbw", 0, 0, "rmoveto", 0, 1, "callothersubr"}
	items = append(items, flexPoint(10, 0)...) // reference point
	items = append(items, flexPoint(5, 5)...)
	items = append(items, flexPoint(5, 0)...)
	items = append(items, flexPoint(5, 0)...)
	items = append(items, flexPoint(5, 0)...)
	items = append(items, flexPoint(5, 0)...)
	items = append(items, flexPoint(5, -5)...)
	items = append(items, 50, 40, 0, 3, 0, "callothersubr", "pop", "pop", "setcurrentpoint", 5, "hlineto", "endchar")

	e, err := extractType1(t, nil, items...)
	test.Error(t, err)
	test.T(t, len(e.Outline()), 1)
	test.T(t, e.Outline()[0].Points, points(0, 0, 15, 5, 20, 5, 25, 5, 30, 5, 35, 5, 40, 0, 45, 0))
	test.T(t, e.Outline()[0].OnCurve, []bool{true, false, false, true, false, false, true, true})
	test.T(t, len(e.Stack()), 0)
}

func TestType1FlexMoveTo(t *testing.T) {
	intp := NewType1Extractor(nil)
	intp.glyph.flexing = true
	test.Error(t, intp.Push(Int(7)))
	_, _, err := opHMoveTo1(intp.Interpreter, 0)
	test.Error(t, err)
	test.T(t, intp.Stack(), []Number{Int(7), Int(0)})

	_, _, err = opVMoveTo1(intp.Interpreter, 0)
	test.Error(t, err)
	test.T(t, intp.Stack(), []Number{Int(7), Int(0), Int(0)})

	intp.PopAll()
	test.Error(t, intp.Push(Int(9)))
	_, _, err = opVMoveTo1(intp.Interpreter, 0)
	test.Error(t, err)
	test.T(t, intp.Stack(), []Number{Int(0), Int(9)})

	_, _, err = opRMoveTo1(intp.Interpreter, 0)
	test.Error(t, err)
	test.T(t, intp.Stack(), []Number{Int(0), Int(9)})
	test.T(t, len(intp.Outline()), 0)
}

func TestType1TruncatedFlex(t *testing.T) {
	_, err := extractType1(t, nil, 0, 0, "hsbw", 0, 0, "rmoveto", 0, 1, "callothersubr", 1, 2, 3, 0, "callothersubr", "endchar")
	test.That(t, errors.Is(err, ErrStackUnderflow), err)
}

func TestType1OtherSubrs(t *testing.T) {
	e, err := extractType1(t, nil, 0, 0, "hsbw", 1, 2, 3, 2, 12, "callothersubr", 0, 0, "rmoveto", "endchar")
	test.That(t, errors.Is(err, ErrBadOperands), err)
	test.T(t, len(e.Outline()), 0)

	e, err = extractType1(t, nil, 0, 0, "hsbw", 0, 12, "callothersubr", 0, 0, "rmoveto", "endchar")
	test.Error(t, err)
	test.T(t, len(e.Stack()), 0)
	test.That(t, !e.glyph.flexing)
}

func TestType1Seac(t *testing.T) {
	e, err := extractType1(t, nil, 0, 500, "hsbw", 0, 100, 200, 65, 66, "seac")
	test.Error(t, err)
	test.T(t, len(e.Outline()), 1)
	test.T(t, e.Outline()[0].State, Composite)
	test.T(t, *e.Outline()[0].Seac, Seac{Asb: 0, Adx: 100, Ady: 200, BChar: 65, AChar: 66})
	test.T(t, e.Outline()[0].Points, []Point(nil))

	_, err = extractType1(t, nil, 100, 200, 65, 66, "seac")
	test.That(t, errors.Is(err, ErrBadOperands), err)
}

func TestType1Operators(t *testing.T) {
	e, err := extractType1(t, nil, 0, 500, "hsbw", 10, 20, "hstem", 1, 2, 3, 4, 5, 6, "vstem3", "dotsection", 100, 200, "setcurrentpoint", 0, 0, "rmoveto", "endchar")
	test.Error(t, err)
	test.T(t, e.Outline()[0].Points, points(100, 200))

	_, err = extractType1(t, nil, 0, 0, 500, 0, "sbw", "endchar")
	test.That(t, errors.Is(err, ErrNotImplemented), err)

	e, err = extractType1(t, nil, 10, 4, "div", "return")
	test.Error(t, err)
	test.T(t, e.Stack(), []Number{Real(2.5)})
}
