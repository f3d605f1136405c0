package fonttools

import "fmt"

var type1Ops = opTable{
	"return":          opNop,
	"callsubr":        opCallSubr,
	"hstem":           opPopAll,
	"vstem":           opPopAll,
	"dotsection":      opPopAll,
	"hstem3":          opPopAll,
	"vstem3":          opPopAll,
	"pop":             opNop,
	"closepath":       opClosePath1,
	"endchar":         opClosePath1,
	"hsbw":            opHSBW,
	"sbw":             notImplementedOp("sbw"),
	"seac":            opSeac,
	"rmoveto":         opRMoveTo1,
	"hmoveto":         opHMoveTo1,
	"vmoveto":         opVMoveTo1,
	"rlineto":         opRLineTo,
	"hlineto":         opHLineTo,
	"vlineto":         opVLineTo,
	"rrcurveto":       opRRCurveTo,
	"vhcurveto":       opVHCurveTo,
	"hvcurveto":       opHVCurveTo,
	"div":             opDiv,
	"callothersubr":   opCallOtherSubr,
	"setcurrentpoint": opSetCurrentPoint,
}

// NewType1Extractor returns an interpreter that extracts outlines from decrypted Type 1 charstrings. Type 1 subroutine numbers are not biased.
func NewType1Extractor(subrs []*Program) *OutlineExtractor {
	intp := newInterpreter(type1Ops, subrs, nil)
	intp.subrsBias = 0
	intp.glyph = &glyphState{}
	return &OutlineExtractor{intp}
}

func opPopAll(intp *Interpreter, pos int) (int, []byte, error) {
	intp.PopAll()
	return pos, nil, nil
}

func opClosePath1(intp *Interpreter, pos int) (int, []byte, error) {
	intp.glyph.closePath()
	return pos, nil, nil
}

func opHSBW(intp *Interpreter, pos int) (int, []byte, error) {
	args := intp.PopAll()
	if len(args) != 2 {
		return pos, nil, badOperands("hsbw", len(args))
	}
	g := intp.glyph
	g.sbx = args[0].Float()
	g.width = args[1].Float()
	g.gotWidth = true
	g.current.X = g.sbx
	return pos, nil, nil
}

func opSeac(intp *Interpreter, pos int) (int, []byte, error) {
	args := intp.PopAll()
	if len(args) != 5 {
		return pos, nil, badOperands("seac", len(args))
	}
	intp.glyph.seac(Seac{
		Asb:   args[0].Float(),
		Adx:   args[1].Float(),
		Ady:   args[2].Float(),
		BChar: args[3].Int(),
		AChar: args[4].Int(),
	})
	return pos, nil, nil
}

// In a flex sequence the moveto operators only push their coordinates for the flex othersubr.
func opRMoveTo1(intp *Interpreter, pos int) (int, []byte, error) {
	if intp.glyph.flexing {
		return pos, nil, nil
	}
	args := intp.PopAll()
	if len(args) != 2 {
		return pos, nil, badOperands("rmoveto", len(args))
	}
	intp.glyph.newPath()
	return pos, nil, intp.glyph.appendPoint(args[0].Float(), args[1].Float(), true)
}

func opHMoveTo1(intp *Interpreter, pos int) (int, []byte, error) {
	if intp.glyph.flexing {
		return pos, nil, intp.Push(Int(0))
	}
	args := intp.PopAll()
	if len(args) != 1 {
		return pos, nil, badOperands("hmoveto", len(args))
	}
	intp.glyph.newPath()
	return pos, nil, intp.glyph.appendPoint(args[0].Float(), 0.0, true)
}

func opVMoveTo1(intp *Interpreter, pos int) (int, []byte, error) {
	if intp.glyph.flexing {
		if err := intp.Push(Int(0)); err != nil {
			return pos, nil, err
		}
		return pos, nil, intp.exch()
	}
	args := intp.PopAll()
	if len(args) != 1 {
		return pos, nil, badOperands("vmoveto", len(args))
	}
	intp.glyph.newPath()
	return pos, nil, intp.glyph.appendPoint(0.0, args[0].Float(), true)
}

func opSetCurrentPoint(intp *Interpreter, pos int) (int, []byte, error) {
	args := intp.PopAll()
	if len(args) != 2 {
		return pos, nil, badOperands("setcurrentpoint", len(args))
	}
	intp.glyph.current = Point{args[0].Float(), args[1].Float()}
	return pos, nil, nil
}

// opCallOtherSubr emulates the othersubrs of the flex mechanism: othersubr 1 starts a flex sequence and othersubr 0 ends it. All other othersubrs are ignored.
func opCallOtherSubr(intp *Interpreter, pos int) (int, []byte, error) {
	subr, err := intp.Pop()
	if err != nil {
		return pos, nil, fmt.Errorf("callothersubr: %w", err)
	}
	nargs, err := intp.Pop()
	if err != nil {
		return pos, nil, fmt.Errorf("callothersubr: %w", err)
	}

	if subr.Int() == 0 && nargs.Int() == 3 {
		if err := intp.doFlex(); err != nil {
			return pos, nil, err
		}
		intp.glyph.flexing = false
	} else if subr.Int() == 1 && nargs.Int() == 0 {
		intp.glyph.flexing = true
	}
	return pos, nil, nil
}

// doFlex draws the two curves of a flex sequence. The stack holds the reference point, the control and end points of both curves, the flex height, and the final coordinates, each pair relative to the one before. The final coordinates are pushed back for the pop operators that follow.
func (intp *Interpreter) doFlex() error {
	n := len(intp.stack)
	if n < 17 {
		return fmt.Errorf("flex: %w", ErrStackUnderflow)
	}
	v := make([]Number, 17)
	copy(v, intp.stack[n-17:])
	intp.stack = intp.stack[:n-17]

	rpx, rpy := v[0], v[1]
	bcp1x, bcp1y := v[2], v[3]
	bcp2x, bcp2y := v[4], v[5]
	p2x, p2y := v[6], v[7]
	bcp3x, bcp3y := v[8], v[9]
	bcp4x, bcp4y := v[10], v[11]
	p3x, p3y := v[12], v[13]
	// v[14] is the flex height, which is only used for hinting
	finalx, finaly := v[15], v[16]

	// the first control point is relative to the reference point
	bcp1x = bcp1x.add(rpx)
	bcp1y = bcp1y.add(rpy)

	for _, num := range []Number{bcp1x, bcp1y, bcp2x, bcp2y, p2x, p2y} {
		if err := intp.Push(num); err != nil {
			return err
		}
	}
	if _, _, err := opRRCurveTo(intp, 0); err != nil {
		return fmt.Errorf("flex: %w", err)
	}
	for _, num := range []Number{bcp3x, bcp3y, bcp4x, bcp4y, p3x, p3y} {
		if err := intp.Push(num); err != nil {
			return err
		}
	}
	if _, _, err := opRRCurveTo(intp, 0); err != nil {
		return fmt.Errorf("flex: %w", err)
	}

	if err := intp.Push(finalx); err != nil {
		return err
	}
	return intp.Push(finaly)
}
