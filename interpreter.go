package fonttools

import (
	"fmt"
	"io"
)

// opFunc implements an operator. It receives the position after the operator in the executing program and returns the position to continue from, and the hint mask bytes if it consumed any.
type opFunc func(intp *Interpreter, pos int) (int, []byte, error)

type opTable map[string]opFunc

func (ops opTable) with(other opTable) opTable {
	merged := make(opTable, len(ops)+len(other))
	for name, fn := range ops {
		merged[name] = fn
	}
	for name, fn := range other {
		merged[name] = fn
	}
	return merged
}

var decompilerOps = opTable{
	"return":    opNop,
	"endchar":   opNop,
	"callsubr":  opCallSubr,
	"callgsubr": opCallGSubr,
	"hstemhm":   stemHintOp((*Interpreter).popAllErr),
	"vstemhm":   stemHintOp((*Interpreter).popAllErr),
	"hintmask":  hintMaskOp((*Interpreter).popAllErr),
	"cntrmask":  hintMaskOp((*Interpreter).popAllErr),
}

// terminators are the operators a complete charstring may end with.
var terminators = map[string]bool{
	"endchar":   true,
	"return":    true,
	"callsubr":  true,
	"callgsubr": true,
	"seac":      true,
}

// terminated returns true if the tokens end with a terminating operator.
func terminated(toks []Token) bool {
	return 0 < len(toks) && toks[len(toks)-1].Kind == OperatorToken && terminators[toks[len(toks)-1].Op]
}

// SubrBias returns the bias that is added to subroutine numbers for an INDEX of n subroutines.
func SubrBias(n int) int {
	if n < 1240 {
		return 107
	} else if n < 33900 {
		return 1131
	}
	return 32768
}

type frame struct {
	prog *Program
	src  source
}

// Interpreter is a charstring stack machine. Operators without a handler pop all operands. The plain interpreter returned by NewDecompiler only follows subroutine calls and hint masks, which is all that is needed to decompile Type 2 charstrings.
type Interpreter struct {
	MaxDepth    int // maximum nesting of subroutine calls
	MaxOperands int
	MaxSteps    int

	subrs, gsubrs         []*Program
	subrsBias, gsubrsBias int

	stack         []Number
	calls         []frame
	hintCount     int
	hintMaskBytes int
	steps         int

	ops   opTable
	glyph *glyphState
}

func newInterpreter(ops opTable, subrs, gsubrs []*Program) *Interpreter {
	return &Interpreter{
		MaxDepth:    MaxSubrDepth,
		MaxOperands: MaxOperands,
		MaxSteps:    MaxSteps,
		subrs:       subrs,
		gsubrs:      gsubrs,
		subrsBias:   SubrBias(len(subrs)),
		gsubrsBias:  SubrBias(len(gsubrs)),
		ops:         ops,
	}
}

// NewDecompiler returns an interpreter that decompiles Type 2 charstrings by executing them, including the subroutines they call.
func NewDecompiler(subrs, gsubrs []*Program) *Interpreter {
	return newInterpreter(decompilerOps, subrs, gsubrs)
}

// Reset clears the operand stack, the calling stack, the hint state, and the glyph state.
func (intp *Interpreter) Reset() {
	intp.stack = intp.stack[:0]
	intp.calls = intp.calls[:0]
	intp.hintCount = 0
	intp.hintMaskBytes = 0
	intp.steps = 0
	if intp.glyph != nil {
		intp.glyph.reset()
	}
}

// Stack returns a copy of the operands currently on the stack, bottom first.
func (intp *Interpreter) Stack() []Number {
	stack := make([]Number, len(intp.stack))
	copy(stack, intp.stack)
	return stack
}

// HintCount returns the number of stem hints declared so far.
func (intp *Interpreter) HintCount() int {
	return intp.hintCount
}

// Push pushes an operand.
func (intp *Interpreter) Push(n Number) error {
	if intp.MaxOperands <= len(intp.stack) {
		return fmt.Errorf("%w: more than %d operands", ErrStackOverflow, intp.MaxOperands)
	}
	intp.stack = append(intp.stack, n)
	return nil
}

// Pop pops the top operand.
func (intp *Interpreter) Pop() (Number, error) {
	if len(intp.stack) == 0 {
		return Number{}, ErrStackUnderflow
	}
	n := intp.stack[len(intp.stack)-1]
	intp.stack = intp.stack[:len(intp.stack)-1]
	return n, nil
}

// PopAll pops all operands and returns them bottom first.
func (intp *Interpreter) PopAll() []Number {
	args := make([]Number, len(intp.stack))
	copy(args, intp.stack)
	intp.stack = intp.stack[:0]
	return args
}

func (intp *Interpreter) popAllErr() ([]Number, error) {
	return intp.PopAll(), nil
}

// exch swaps the two top operands.
func (intp *Interpreter) exch() error {
	n := len(intp.stack)
	if n < 2 {
		return ErrStackUnderflow
	}
	intp.stack[n-1], intp.stack[n-2] = intp.stack[n-2], intp.stack[n-1]
	return nil
}

// Execute runs the program. Undecoded programs, including the subroutines they call, are decompiled along the way. The operand stack is kept between calls; use Reset to start a new glyph.
func (intp *Interpreter) Execute(p *Program) error {
	depth := len(intp.calls)
	if depth == 0 {
		intp.steps = 0
	}
	if err := intp.execute(p); err != nil {
		intp.calls = intp.calls[:depth]
		return fmt.Errorf("%v charstring: %w", p.Type, err)
	}
	return nil
}

func (intp *Interpreter) execute(p *Program) error {
	if intp.MaxDepth < len(intp.calls) {
		return ErrRecursionLimit
	}

	src := p.source()
	_, decompile := src.(bytecode)
	var toks []Token
	intp.calls = append(intp.calls, frame{p, src})

	pos := 0
	for {
		tok, next, err := src.token(pos)
		if err == io.EOF {
			break
		} else if err != nil {
			return err
		}
		pos = next

		intp.steps++
		if intp.MaxSteps < intp.steps {
			return ErrStepLimit
		}
		if decompile {
			toks = append(toks, tok)
		}

		switch tok.Kind {
		case OperandToken:
			if err := intp.Push(tok.Num); err != nil {
				return err
			}
		case OperatorToken:
			fn, ok := intp.ops[tok.Op]
			if !ok {
				intp.stack = intp.stack[:0]
				continue
			}
			next, mask, err := fn(intp, pos)
			if err != nil {
				return err
			}
			pos = next
			if mask != nil && decompile {
				toks = append(toks, Mask(mask))
			}
		case MaskToken:
			return fmt.Errorf("%w: hint mask without hintmask operator", ErrByteLength)
		}
	}

	if decompile {
		if !terminated(toks) {
			return ErrBadTerminator
		}
		p.commit(toks)
	}
	intp.calls = intp.calls[:len(intp.calls)-1]
	return nil
}

func opNop(intp *Interpreter, pos int) (int, []byte, error) {
	return pos, nil, nil
}

func opCallSubr(intp *Interpreter, pos int) (int, []byte, error) {
	return pos, nil, intp.callSubr("callsubr", intp.subrs, intp.subrsBias)
}

func opCallGSubr(intp *Interpreter, pos int) (int, []byte, error) {
	return pos, nil, intp.callSubr("callgsubr", intp.gsubrs, intp.gsubrsBias)
}

func (intp *Interpreter) callSubr(op string, subrs []*Program, bias int) error {
	n, err := intp.Pop()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	} else if n.IsReal() {
		return fmt.Errorf("%s: %w: %v", op, ErrSubrIndex, n)
	}
	i := n.Int() + bias
	if i < 0 || len(subrs) <= i {
		return fmt.Errorf("%s: %w: %d", op, ErrSubrIndex, i)
	}
	return intp.execute(subrs[i])
}

// countHints adds the stem hints given by pairs of operands. Stem hints may not follow the first hint mask.
func (intp *Interpreter) countHints(popArgs func(*Interpreter) ([]Number, error)) error {
	if intp.hintMaskBytes != 0 {
		return ErrHintAfterMask
	}
	args, err := popArgs(intp)
	if err != nil {
		return err
	}
	intp.hintCount += len(args) / 2
	return nil
}

func stemHintOp(popArgs func(*Interpreter) ([]Number, error)) opFunc {
	return func(intp *Interpreter, pos int) (int, []byte, error) {
		return pos, nil, intp.countHints(popArgs)
	}
}

// hintMaskOp reads the hint mask bytes from the executing program. Operands before the first hint mask are implicit vstemhm hints.
func hintMaskOp(popArgs func(*Interpreter) ([]Number, error)) opFunc {
	return func(intp *Interpreter, pos int) (int, []byte, error) {
		if intp.hintMaskBytes == 0 {
			if err := intp.countHints(popArgs); err != nil {
				return pos, nil, err
			}
			intp.hintMaskBytes = (intp.hintCount + 7) / 8
		}
		src := intp.calls[len(intp.calls)-1].src
		mask, next, err := src.bytes(pos, intp.hintMaskBytes)
		return next, mask, err
	}
}

func notImplementedOp(name string) opFunc {
	return func(intp *Interpreter, pos int) (int, []byte, error) {
		return pos, nil, notImplemented(name)
	}
}

func opDiv(intp *Interpreter, pos int) (int, []byte, error) {
	num2, err := intp.Pop()
	if err != nil {
		return pos, nil, fmt.Errorf("div: %w", err)
	}
	num1, err := intp.Pop()
	if err != nil {
		return pos, nil, fmt.Errorf("div: %w", err)
	} else if num2.Float() == 0 {
		return pos, nil, fmt.Errorf("div: %w: division by zero", ErrBadOperands)
	}

	if !num1.IsReal() && !num2.IsReal() && num1.Int()%num2.Int() == 0 {
		return pos, nil, intp.Push(Int(num1.Int() / num2.Int()))
	}
	return pos, nil, intp.Push(Real(num1.Float() / num2.Float()))
}
