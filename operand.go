package fonttools

import (
	"fmt"
	"math"
	"strconv"

	"github.com/tdewolff/parse/v2"
)

// Number is an integer or real operand.
type Number struct {
	v      float64
	isReal bool
}

// Int returns an integer operand.
func Int(i int) Number {
	return Number{v: float64(i)}
}

// Real returns a real operand.
func Real(f float64) Number {
	return Number{v: f, isReal: true}
}

// IsReal returns true if the operand was decoded or computed as a real number.
func (n Number) IsReal() bool {
	return n.isReal
}

// Int returns the operand rounded towards zero.
func (n Number) Int() int {
	return int(n.v)
}

// Float returns the operand as a float.
func (n Number) Float() float64 {
	return n.v
}

func (n Number) add(m Number) Number {
	return Number{n.v + m.v, n.isReal || m.isReal}
}

func (n Number) String() string {
	if n.isReal {
		return strconv.FormatFloat(n.v, 'g', -1, 64)
	}
	return strconv.FormatInt(int64(n.v), 10)
}

type operandEncoding int

const (
	type1Encoding operandEncoding = iota
	type2Encoding
	dictEncoding
)

// isOperatorByte returns true if b0 starts an operator instead of an operand.
func isOperatorByte(enc operandEncoding, b0 byte) bool {
	if 32 <= b0 {
		return false
	}
	switch enc {
	case type2Encoding:
		return b0 != 28
	case dictEncoding:
		return b0 != 28 && b0 != 29 && b0 != 30
	}
	return true
}

// readOperand decodes the operand starting with b0, with pos pointing to the byte after b0. It returns the operand and the position after it.
func readOperand(enc operandEncoding, b0 byte, data []byte, pos int) (Number, int, error) {
	switch {
	case b0 == 28 && enc != type1Encoding:
		if len(data)-pos < 2 {
			return Number{}, pos, fmt.Errorf("%w: truncated shortint", ErrMalformedOperand)
		}
		r := parse.NewBinaryReaderBytes(data[pos : pos+2])
		return Int(int(r.ReadInt16())), pos + 2, nil
	case b0 == 29 && enc == dictEncoding:
		if len(data)-pos < 4 {
			return Number{}, pos, fmt.Errorf("%w: truncated longint", ErrMalformedOperand)
		}
		r := parse.NewBinaryReaderBytes(data[pos : pos+4])
		return Int(int(r.ReadInt32())), pos + 4, nil
	case b0 == 30 && enc == dictEncoding:
		return readReal(data, pos)
	case b0 < 32:
		return Number{}, pos, fmt.Errorf("%w: operator byte %d", ErrMalformedOperand, b0)
	case b0 < 247:
		return Int(int(b0) - 139), pos, nil
	case b0 < 251:
		if len(data)-pos < 1 {
			return Number{}, pos, fmt.Errorf("%w: truncated operand", ErrMalformedOperand)
		}
		b1 := int(data[pos])
		return Int((int(b0)-247)*256 + b1 + 108), pos + 1, nil
	case b0 < 255:
		if len(data)-pos < 1 {
			return Number{}, pos, fmt.Errorf("%w: truncated operand", ErrMalformedOperand)
		}
		b1 := int(data[pos])
		return Int(-(int(b0)-251)*256 - b1 - 108), pos + 1, nil
	}

	// b0 == 255
	if enc == dictEncoding {
		return Number{}, pos, fmt.Errorf("%w: reserved byte 255", ErrMalformedOperand)
	} else if len(data)-pos < 4 {
		return Number{}, pos, fmt.Errorf("%w: truncated longint", ErrMalformedOperand)
	}
	r := parse.NewBinaryReaderBytes(data[pos : pos+4])
	return Int(int(r.ReadInt32())), pos + 4, nil
}

var realNibbles = [16]string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9", ".", "E", "E-", "", "-", ""}

// readReal decodes a packed nibble real number. A 0xF nibble terminates the number.
func readReal(data []byte, pos int) (Number, int, error) {
	num := []byte{}
	for {
		if len(data) <= pos {
			return Number{}, pos, fmt.Errorf("%w: unterminated real number", ErrMalformedOperand)
		}
		b := data[pos]
		pos++

		done := false
		for _, nibble := range [2]byte{b >> 4, b & 0x0F} {
			if nibble == 0x0F {
				done = true
				break
			} else if nibble == 0x0D {
				return Number{}, pos, fmt.Errorf("%w: reserved nibble in real number", ErrMalformedOperand)
			}
			num = append(num, realNibbles[nibble]...)
		}
		if done {
			break
		}
	}

	f, err := strconv.ParseFloat(string(num), 64)
	if err != nil {
		return Number{}, pos, fmt.Errorf("%w: bad real number %q", ErrMalformedOperand, num)
	}
	return Real(f), pos, nil
}

// AppendNumber appends the charstring encoding of an integer operand. Type 1 charstrings cannot use the shortint form, so values outside of [-1131,1131] use the 32-bit form.
func AppendNumber(w *parse.BinaryWriter, t Type, n Number) error {
	if n.isReal || n.v != math.Trunc(n.v) {
		return fmt.Errorf("%w: cannot encode real number %v in a charstring", ErrMalformedOperand, n)
	} else if n.v < math.MinInt32 || math.MaxInt32 < n.v {
		return fmt.Errorf("%w: %v out of range", ErrMalformedOperand, n)
	}

	i := int(n.v)
	if -107 <= i && i <= 107 {
		w.WriteUint8(uint8(i + 139))
	} else if 108 <= i && i <= 1131 {
		i -= 108
		w.WriteUint8(uint8(i/256 + 247))
		w.WriteUint8(uint8(i % 256))
	} else if -1131 <= i && i <= -108 {
		i = -i - 108
		w.WriteUint8(uint8(i/256 + 251))
		w.WriteUint8(uint8(i % 256))
	} else if t == Type2 && -32768 <= i && i <= 32767 {
		w.WriteUint8(28)
		w.WriteUint16(uint16(int16(i)))
	} else {
		w.WriteUint8(255)
		w.WriteUint32(uint32(int32(i)))
	}
	return nil
}

// appendDictNumber appends the DICT encoding of an operand, using the shortest of the integer and real forms.
func appendDictNumber(w *parse.BinaryWriter, n Number) {
	if !n.isReal && n.v == math.Trunc(n.v) && math.MinInt32 <= n.v && n.v <= math.MaxInt32 {
		i := int(n.v)
		if -107 <= i && i <= 107 {
			w.WriteUint8(uint8(i + 139))
		} else if 108 <= i && i <= 1131 {
			i -= 108
			w.WriteUint8(uint8(i/256 + 247))
			w.WriteUint8(uint8(i % 256))
		} else if -1131 <= i && i <= -108 {
			i = -i - 108
			w.WriteUint8(uint8(i/256 + 251))
			w.WriteUint8(uint8(i % 256))
		} else if -32768 <= i && i <= 32767 {
			w.WriteUint8(28)
			w.WriteUint16(uint16(int16(i)))
		} else {
			w.WriteUint8(29)
			w.WriteUint32(uint32(int32(i)))
		}
		return
	}
	appendReal(w, n.v)
}

// appendReal appends a packed nibble real number.
func appendReal(w *parse.BinaryWriter, f float64) {
	floatNibbles := strconv.AppendFloat([]byte{}, f, 'G', -1, 64)
	n := 0
	var b uint8
	w.WriteUint8(30)
	for i := 0; i < len(floatNibbles); i++ {
		b <<= 4
		switch floatNibbles[i] {
		case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			b |= floatNibbles[i] - '0'
		case '.':
			b |= 0x0A
		case 'E':
			if i+1 < len(floatNibbles) && floatNibbles[i+1] == '-' {
				b |= 0x0C
				i++
			} else {
				b |= 0x0B
				if i+1 < len(floatNibbles) && floatNibbles[i+1] == '+' {
					i++
				}
			}
		case '-':
			b |= 0x0E
		}
		n++
		if n%2 == 0 {
			w.WriteUint8(b)
			b = 0
		}
	}
	if n%2 == 1 {
		b <<= 4
		b |= 0x0F
		w.WriteUint8(b)
	} else {
		w.WriteUint8(0xFF)
	}
}
