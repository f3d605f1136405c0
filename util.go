package fonttools

import (
	"fmt"
	"strings"
)

// MaxSubrDepth is the maximum nesting depth of subroutine calls.
var MaxSubrDepth = 10

// MaxOperands is the maximum number of operands on the stack. Some fonts exceed the documented limit of 48.
var MaxOperands = 96

// MaxSteps is the maximum number of tokens executed for a single top-level charstring, including its subroutines.
var MaxSteps = 1 << 16

// ErrMalformedOperand is returned when an operand uses a reserved encoding or is truncated.
var ErrMalformedOperand = fmt.Errorf("malformed operand")

// ErrUnknownOperator is returned for operator bytes without an entry in the operator table.
var ErrUnknownOperator = fmt.Errorf("unknown operator")

// ErrByteLength is returned when the hint mask bytes do not match the expected length.
var ErrByteLength = fmt.Errorf("byte length mismatch")

// ErrNotImplemented is returned by operators that are recognized but not supported.
var ErrNotImplemented = fmt.Errorf("not implemented")

// ErrBadTerminator is returned when a decompiled charstring does not end in endchar, return, callsubr, callgsubr, or seac.
var ErrBadTerminator = fmt.Errorf("charstring must end with a terminating operator")

// ErrNonEmptyStack is returned when a DICT leaves operands on the stack.
var ErrNonEmptyStack = fmt.Errorf("non-empty stack")

// ErrRecursionLimit is returned when subroutine calls are nested too deeply.
var ErrRecursionLimit = fmt.Errorf("too many nested subroutines")

// ErrStepLimit is returned when a charstring executes too many tokens.
var ErrStepLimit = fmt.Errorf("too many steps")

// ErrStackUnderflow is returned when an operator needs more operands than available.
var ErrStackUnderflow = fmt.Errorf("stack underflow")

// ErrStackOverflow is returned when more operands are pushed than allowed.
var ErrStackOverflow = fmt.Errorf("stack overflow")

// ErrSubrIndex is returned for subroutine indices outside of the subroutine INDEX.
var ErrSubrIndex = fmt.Errorf("bad subroutine index")

// ErrBadOperands is returned when an operator receives an invalid number of operands.
var ErrBadOperands = fmt.Errorf("bad number of operands")

// ErrNoContour is returned when a path operator is used before a moveto.
var ErrNoContour = fmt.Errorf("no current contour")

// ErrHintAfterMask is returned for stem hints following a hintmask or cntrmask.
var ErrHintAfterMask = fmt.Errorf("stem hints after hint mask")

// ErrBadSID is returned for string IDs outside of the string table.
var ErrBadSID = fmt.Errorf("bad string ID")

func badOperands(op string, n int) error {
	return fmt.Errorf("%s: %w: %d", op, ErrBadOperands, n)
}

func notImplemented(op string) error {
	return fmt.Errorf("%s: %w", op, ErrNotImplemented)
}

// Uint8ToFlags converts a uint8 in 8 booleans from least to most significant.
func Uint8ToFlags(v uint8) (flags [8]bool) {
	for i := 0; i < 8; i++ {
		flags[i] = v&(1<<i) != 0
	}
	return
}

// maskBits formats hint mask bytes as bit strings, most significant bit first.
func maskBits(mask []byte) string {
	sb := strings.Builder{}
	for _, b := range mask {
		flags := Uint8ToFlags(b)
		for i := 7; 0 <= i; i-- {
			if flags[i] {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('0')
			}
		}
	}
	return sb.String()
}
