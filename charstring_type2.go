package fonttools

import "fmt"

var type2Ops = newType2Ops()

func newType2Ops() opTable {
	ops := decompilerOps.with(opTable{
		"hstem":      opStem2,
		"vstem":      opStem2,
		"hstemhm":    stemHintOp(popWidthEven),
		"vstemhm":    stemHintOp(popWidthEven),
		"hintmask":   hintMaskOp(popWidthEven),
		"cntrmask":   hintMaskOp(popWidthEven),
		"endchar":    opEndChar2,
		"rmoveto":    opRMoveTo2,
		"hmoveto":    opHMoveTo2,
		"vmoveto":    opVMoveTo2,
		"rlineto":    opRLineTo,
		"hlineto":    opHLineTo,
		"vlineto":    opVLineTo,
		"rrcurveto":  opRRCurveTo,
		"rcurveline": opRCurveLine,
		"rlinecurve": opRLineCurve,
		"vvcurveto":  opVVCurveTo,
		"hhcurveto":  opHHCurveTo,
		"vhcurveto":  opVHCurveTo,
		"hvcurveto":  opHVCurveTo,
		"div":        opDiv,
	})
	for _, name := range []string{"hflex", "flex", "hflex1", "flex1", "blend",
		"and", "or", "not", "store", "abs", "add", "sub", "load", "neg", "eq",
		"drop", "put", "get", "ifelse", "random", "mul", "sqrt", "dup", "exch",
		"index", "roll"} {
		ops[name] = notImplementedOp(name)
	}
	return ops
}

// NewType2Extractor returns an interpreter that extracts outlines from Type 2 charstrings. The width of a glyph is given by an optional first operand relative to nominalWidthX, or defaultWidthX if absent.
func NewType2Extractor(subrs, gsubrs []*Program, nominalWidthX, defaultWidthX float64) *OutlineExtractor {
	intp := newInterpreter(type2Ops, subrs, gsubrs)
	intp.glyph = &glyphState{
		nominalWidthX: nominalWidthX,
		defaultWidthX: defaultWidthX,
	}
	return &OutlineExtractor{intp}
}

// popAllWidth pops all operands. The first stack clearing operator may have an additional first operand that gives the width, which is detected by the parity of the number of operands: evenOdd is 1 if the operator takes an odd number of operands.
func (intp *Interpreter) popAllWidth(evenOdd int) ([]Number, error) {
	args := intp.PopAll()
	g := intp.glyph
	if !g.gotWidth {
		if (len(args)%2)^evenOdd != 0 {
			if len(args) == 0 {
				return nil, fmt.Errorf("width: %w", ErrStackUnderflow)
			}
			g.width = g.nominalWidthX + args[0].Float()
			args = args[1:]
		} else {
			g.width = g.defaultWidthX
		}
		g.gotWidth = true
	}
	return args, nil
}

func popWidthEven(intp *Interpreter) ([]Number, error) {
	return intp.popAllWidth(0)
}

func opStem2(intp *Interpreter, pos int) (int, []byte, error) {
	_, err := intp.popAllWidth(0)
	return pos, nil, err
}

func opEndChar2(intp *Interpreter, pos int) (int, []byte, error) {
	args, err := intp.popAllWidth(0)
	if err != nil {
		return pos, nil, err
	}
	g := intp.glyph
	g.closePath()
	if len(args) == 4 {
		g.seac(Seac{
			Adx:   args[0].Float(),
			Ady:   args[1].Float(),
			BChar: args[2].Int(),
			AChar: args[3].Int(),
		})
	} else if len(args) != 0 {
		return pos, nil, badOperands("endchar", len(args))
	}
	return pos, nil, nil
}

func opRMoveTo2(intp *Interpreter, pos int) (int, []byte, error) {
	args, err := intp.popAllWidth(0)
	if err != nil {
		return pos, nil, err
	} else if len(args) != 2 {
		return pos, nil, badOperands("rmoveto", len(args))
	}
	return pos, nil, intp.moveTo(args[0].Float(), args[1].Float())
}

func opHMoveTo2(intp *Interpreter, pos int) (int, []byte, error) {
	args, err := intp.popAllWidth(1)
	if err != nil {
		return pos, nil, err
	} else if len(args) != 1 {
		return pos, nil, badOperands("hmoveto", len(args))
	}
	return pos, nil, intp.moveTo(args[0].Float(), 0.0)
}

func opVMoveTo2(intp *Interpreter, pos int) (int, []byte, error) {
	args, err := intp.popAllWidth(1)
	if err != nil {
		return pos, nil, err
	} else if len(args) != 1 {
		return pos, nil, badOperands("vmoveto", len(args))
	}
	return pos, nil, intp.moveTo(0.0, args[0].Float())
}

func (intp *Interpreter) moveTo(dx, dy float64) error {
	g := intp.glyph
	g.closePath()
	g.newPath()
	return g.appendPoint(dx, dy, true)
}

func opRLineTo(intp *Interpreter, pos int) (int, []byte, error) {
	args := intp.PopAll()
	if len(args)%2 != 0 {
		return pos, nil, badOperands("rlineto", len(args))
	}
	for i := 0; i < len(args); i += 2 {
		if err := intp.glyph.rlineto(args[i].Float(), args[i+1].Float()); err != nil {
			return pos, nil, err
		}
	}
	return pos, nil, nil
}

func opHLineTo(intp *Interpreter, pos int) (int, []byte, error) {
	return pos, nil, intp.alternatingLineTo(true)
}

func opVLineTo(intp *Interpreter, pos int) (int, []byte, error) {
	return pos, nil, intp.alternatingLineTo(false)
}

// alternatingLineTo appends lines that alternate between horizontal and vertical.
func (intp *Interpreter) alternatingLineTo(horizontal bool) error {
	for _, arg := range intp.PopAll() {
		var err error
		if horizontal {
			err = intp.glyph.rlineto(arg.Float(), 0.0)
		} else {
			err = intp.glyph.rlineto(0.0, arg.Float())
		}
		if err != nil {
			return err
		}
		horizontal = !horizontal
	}
	return nil
}

func opRRCurveTo(intp *Interpreter, pos int) (int, []byte, error) {
	args := intp.PopAll()
	if len(args)%6 != 0 {
		return pos, nil, badOperands("rrcurveto", len(args))
	}
	return pos, nil, intp.curves(args)
}

// curves appends a cubic Bézier for every six operands.
func (intp *Interpreter) curves(args []Number) error {
	for i := 0; i+6 <= len(args); i += 6 {
		a := args[i : i+6]
		if err := intp.glyph.rrcurveto(a[0].Float(), a[1].Float(), a[2].Float(), a[3].Float(), a[4].Float(), a[5].Float()); err != nil {
			return err
		}
	}
	return nil
}

func opRCurveLine(intp *Interpreter, pos int) (int, []byte, error) {
	args := intp.PopAll()
	if len(args) < 2 || (len(args)-2)%6 != 0 {
		return pos, nil, badOperands("rcurveline", len(args))
	}
	n := len(args) - 2
	if err := intp.curves(args[:n]); err != nil {
		return pos, nil, err
	}
	return pos, nil, intp.glyph.rlineto(args[n].Float(), args[n+1].Float())
}

func opRLineCurve(intp *Interpreter, pos int) (int, []byte, error) {
	args := intp.PopAll()
	if len(args) < 6 || (len(args)-6)%2 != 0 {
		return pos, nil, badOperands("rlinecurve", len(args))
	}
	n := len(args) - 6
	for i := 0; i < n; i += 2 {
		if err := intp.glyph.rlineto(args[i].Float(), args[i+1].Float()); err != nil {
			return pos, nil, err
		}
	}
	return pos, nil, intp.curves(args[n:])
}

func opVVCurveTo(intp *Interpreter, pos int) (int, []byte, error) {
	args := intp.PopAll()
	if len(args)%4 != 0 && len(args)%4 != 1 {
		return pos, nil, badOperands("vvcurveto", len(args))
	}
	dx1 := 0.0
	if len(args)%2 == 1 {
		dx1 = args[0].Float()
		args = args[1:]
	}
	for i := 0; i < len(args); i += 4 {
		a := args[i : i+4]
		if err := intp.glyph.rrcurveto(dx1, a[0].Float(), a[1].Float(), a[2].Float(), 0.0, a[3].Float()); err != nil {
			return pos, nil, err
		}
		dx1 = 0.0
	}
	return pos, nil, nil
}

func opHHCurveTo(intp *Interpreter, pos int) (int, []byte, error) {
	args := intp.PopAll()
	if len(args)%4 != 0 && len(args)%4 != 1 {
		return pos, nil, badOperands("hhcurveto", len(args))
	}
	dy1 := 0.0
	if len(args)%2 == 1 {
		dy1 = args[0].Float()
		args = args[1:]
	}
	for i := 0; i < len(args); i += 4 {
		a := args[i : i+4]
		if err := intp.glyph.rrcurveto(a[0].Float(), dy1, a[1].Float(), a[2].Float(), a[3].Float(), 0.0); err != nil {
			return pos, nil, err
		}
		dy1 = 0.0
	}
	return pos, nil, nil
}

func opVHCurveTo(intp *Interpreter, pos int) (int, []byte, error) {
	return pos, nil, intp.alternatingCurveTo("vhcurveto", false)
}

func opHVCurveTo(intp *Interpreter, pos int) (int, []byte, error) {
	return pos, nil, intp.alternatingCurveTo("hvcurveto", true)
}

// alternatingCurveTo appends curves from groups of four operands, where each curve starts perpendicular to where the previous one ended. A fifth operand in the last group gives the final delta that is otherwise zero.
func (intp *Interpreter) alternatingCurveTo(op string, horizontal bool) error {
	args := intp.PopAll()
	if len(args) < 4 || len(args)%4 != 0 && len(args)%4 != 1 {
		return badOperands(op, len(args))
	}
	for 4 <= len(args) {
		a := args[:4]
		args = args[4:]
		last := 0.0
		if len(args) == 1 {
			last = args[0].Float()
			args = args[1:]
		}

		var err error
		if horizontal {
			err = intp.glyph.rrcurveto(a[0].Float(), 0.0, a[1].Float(), a[2].Float(), last, a[3].Float())
		} else {
			err = intp.glyph.rrcurveto(0.0, a[0].Float(), a[1].Float(), a[2].Float(), a[3].Float(), last)
		}
		if err != nil {
			return err
		}
		horizontal = !horizontal
	}
	return nil
}
