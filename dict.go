package fonttools

import (
	"fmt"
	"math"
	"sort"

	"github.com/tdewolff/parse/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Strings is the string table that string IDs (SIDs) refer to.
type Strings []string

// NewStrings decodes the entries of a String INDEX, which are in ISO Latin-1.
func NewStrings(raw [][]byte) (Strings, error) {
	strs := make(Strings, len(raw))
	for i, b := range raw {
		s, _, err := transform.String(charmap.ISO8859_1.NewDecoder(), string(b))
		if err != nil {
			return nil, fmt.Errorf("string %d: %w", i, err)
		}
		strs[i] = s
	}
	return strs, nil
}

// Get returns the string for a string ID.
func (s Strings) Get(sid int) (string, error) {
	if sid < 0 || len(s) <= sid {
		return "", fmt.Errorf("%w: %d", ErrBadSID, sid)
	}
	return s[sid], nil
}

// Dict is a decoded Top or Private DICT. Values are a Number, a []Number for arrays, a string for SIDs, or a []any for operators with multiple arguments.
type Dict struct {
	values   map[string]any
	defaults map[string]any
}

// Get returns the value for the name, or its default if the entry is absent. Array defaults are copied.
func (d *Dict) Get(name string) (any, bool) {
	if v, ok := d.values[name]; ok {
		return v, true
	}
	v, ok := d.defaults[name]
	switch arr := v.(type) {
	case []Number:
		v = append([]Number{}, arr...)
	case []any:
		v = append([]any{}, arr...)
	}
	return v, ok
}

// Has returns true if the entry was present in the DICT data.
func (d *Dict) Has(name string) bool {
	_, ok := d.values[name]
	return ok
}

// Number returns a number entry.
func (d *Dict) Number(name string) (Number, bool) {
	v, _ := d.Get(name)
	n, ok := v.(Number)
	return n, ok
}

// Array returns an array entry.
func (d *Dict) Array(name string) ([]Number, bool) {
	v, _ := d.Get(name)
	a, ok := v.([]Number)
	return a, ok
}

// String returns a string entry.
func (d *Dict) String(name string) (string, bool) {
	v, _ := d.Get(name)
	s, ok := v.(string)
	return s, ok
}

// Tuple returns an entry of an operator with multiple arguments, in the order of its arguments.
func (d *Dict) Tuple(name string) ([]any, bool) {
	v, _ := d.Get(name)
	t, ok := v.([]any)
	return t, ok
}

// Keys returns the names of the entries present in the DICT data, sorted.
func (d *Dict) Keys() []string {
	keys := make([]string, 0, len(d.values))
	for key := range d.values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// DictDecompiler decodes DICT data. Operands are accumulated on a stack until an operator assigns them to an entry.
type DictDecompiler struct {
	operators map[int]dictOperator
	strings   Strings
	stack     []Number
	dict      *Dict
}

// NewTopDictDecompiler returns a decompiler for Top DICTs.
func NewTopDictDecompiler(strings Strings) *DictDecompiler {
	return newDictDecompiler(topDictOperators, topDictDefaults, strings)
}

// NewPrivateDictDecompiler returns a decompiler for Private DICTs.
func NewPrivateDictDecompiler(strings Strings) *DictDecompiler {
	return newDictDecompiler(privateDictOperators, privateDictDefaults, strings)
}

func newDictDecompiler(operators map[int]dictOperator, defaults map[string]any, strings Strings) *DictDecompiler {
	return &DictDecompiler{
		operators: operators,
		strings:   strings,
		dict: &Dict{
			values:   map[string]any{},
			defaults: defaults,
		},
	}
}

// Decompile decodes DICT data. It may be called multiple times to decode consecutive chunks.
func (d *DictDecompiler) Decompile(b []byte) error {
	pos := 0
	for pos < len(b) {
		b0 := b[pos]
		pos++
		if isOperatorByte(dictEncoding, b0) {
			key, next, err := readOperatorKey(b0, b, pos)
			if err != nil {
				return err
			}
			pos = next
			op, ok := d.operators[key]
			if !ok {
				return fmt.Errorf("%w: %s", ErrUnknownOperator, operatorKeyString(key))
			}
			if err := d.handleOperator(op); err != nil {
				return fmt.Errorf("%s: %w", op.name, err)
			}
			continue
		}

		n, next, err := readOperand(dictEncoding, b0, b, pos)
		if err != nil {
			return err
		}
		pos = next
		d.stack = append(d.stack, n)
	}
	return nil
}

// handleOperator pops the arguments of the operator, where the last argument is at the top of the stack.
func (d *DictDecompiler) handleOperator(op dictOperator) error {
	if len(op.args) == 1 {
		v, err := d.popArg(op.args[0])
		if err != nil {
			return err
		}
		d.dict.values[op.name] = v
		return nil
	}

	vals := make([]any, len(op.args))
	for i := len(op.args) - 1; 0 <= i; i-- {
		v, err := d.popArg(op.args[i])
		if err != nil {
			return err
		}
		vals[i] = v
	}
	d.dict.values[op.name] = vals
	return nil
}

func (d *DictDecompiler) popArg(t ArgType) (any, error) {
	if t == ArgArray {
		arr := make([]Number, len(d.stack))
		copy(arr, d.stack)
		d.stack = d.stack[:0]
		return arr, nil
	} else if len(d.stack) == 0 {
		return nil, ErrStackUnderflow
	}

	n := d.stack[len(d.stack)-1]
	d.stack = d.stack[:len(d.stack)-1]
	if t == ArgSID {
		if n.IsReal() {
			return nil, fmt.Errorf("%w: %v", ErrBadSID, n)
		}
		return d.strings.Get(n.Int())
	}
	return n, nil
}

// Dict returns the decoded DICT. All operands must have been consumed by an operator.
func (d *DictDecompiler) Dict() (*Dict, error) {
	if len(d.stack) != 0 {
		return nil, fmt.Errorf("%w: %d operands", ErrNonEmptyStack, len(d.stack))
	}
	return d.dict, nil
}

// DictWriter encodes DICT entries.
type DictWriter struct {
	w         *parse.BinaryWriter
	operators map[string]int
}

// NewTopDictWriter returns a writer for Top DICT entries.
func NewTopDictWriter() *DictWriter {
	return &DictWriter{parse.NewBinaryWriter([]byte{}), topDictOperatorKeys}
}

// NewPrivateDictWriter returns a writer for Private DICT entries.
func NewPrivateDictWriter() *DictWriter {
	return &DictWriter{parse.NewBinaryWriter([]byte{}), privateOperatorKeys}
}

// WriteEntry writes the operands followed by the operator. SIDs are written as integer operands.
func (dw *DictWriter) WriteEntry(name string, vals ...Number) error {
	key, ok := dw.operators[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownOperator, name)
	} else if 48 < len(vals) {
		return fmt.Errorf("%s: %w: too many operands", name, ErrStackOverflow)
	}
	for _, val := range vals {
		if math.IsNaN(val.Float()) || math.IsInf(val.Float(), 0) {
			return fmt.Errorf("%s: %w: %v", name, ErrMalformedOperand, val)
		}
	}

	for _, val := range vals {
		appendDictNumber(dw.w, val)
	}
	if 256 <= key {
		dw.w.WriteUint8(escapeByte)
		key -= 256
	}
	dw.w.WriteUint8(uint8(key))
	return nil
}

// Bytes returns the encoded DICT data.
func (dw *DictWriter) Bytes() []byte {
	return dw.w.Bytes()
}
