package fonttools

import (
	"errors"
	"sync"
	"testing"

	"github.com/tdewolff/test"
)

// compile encodes ints as operands, strings as operators, and byte slices as hint masks.
func compile(t *testing.T, typ Type, items ...any) []byte {
	t.Helper()
	b, err := NewProgramFromTokens(typ, tokens(items...)).Bytecode()
	test.Error(t, err)
	return b
}

func tokens(items ...any) []Token {
	toks := []Token{}
	for _, item := range items {
		switch v := item.(type) {
		case int:
			toks = append(toks, Operand(Int(v)))
		case string:
			toks = append(toks, Operator(v))
		case []byte:
			toks = append(toks, Mask(v))
		}
	}
	return toks
}

func TestBytecode(t *testing.T) {
	b := compile(t, Type2, 10, 20, "rmoveto", 1132, "hlineto", "hflex", "endchar")
	test.Bytes(t, b, []byte{149, 159, 21, 28, 0x04, 0x6C, 6, 12, 34, 14})

	b = compile(t, Type1, 0, 500, "hsbw", 1132, "vmoveto", "closepath", "seac")
	test.Bytes(t, b, []byte{139, 248, 136, 13, 255, 0x00, 0x00, 0x04, 0x6C, 4, 9, 12, 6})

	_, err := NewProgramFromTokens(Type1, tokens("hintmask")).Bytecode()
	test.That(t, errors.Is(err, ErrUnknownOperator), err)
}

func TestDecompileType2(t *testing.T) {
	b := []byte{149, 159, 169, 179, 18, 189, 199, 19, 0xE0, 14}
	p := NewProgram(Type2, b)
	test.That(t, p.NeedsDecompilation())
	test.T(t, p.Tokens(), []Token(nil))
	test.T(t, p.String(), "959fa9b312bdc713e00e")

	test.Error(t, p.Decompile(nil, nil))
	test.That(t, !p.NeedsDecompilation())
	test.T(t, p.Tokens(), tokens(10, 20, 30, 40, "hstemhm", 50, 60, "hintmask", []byte{0xE0}, "endchar"))
	test.T(t, p.String(), "10 20 30 40 hstemhm\n50 60 hintmask 11100000\nendchar\n")

	code, err := p.Bytecode()
	test.Error(t, err)
	test.Bytes(t, code, b)

	// idempotent
	test.Error(t, p.Decompile(nil, nil))
	test.T(t, len(p.Tokens()), 10)
}

func TestDecompileType1(t *testing.T) {
	b := []byte{139, 248, 136, 13, 149, 159, 21, 9, 14}
	p := NewProgram(Type1, b)
	test.Error(t, p.Decompile(nil, nil))
	test.T(t, p.Tokens(), tokens(0, 500, "hsbw", 10, 20, "rmoveto", "closepath", "endchar"))

	code, err := p.Bytecode()
	test.Error(t, err)
	test.Bytes(t, code, b)

	p = NewProgram(Type1, []byte{139, 12})
	err = p.Decompile(nil, nil)
	test.That(t, errors.Is(err, ErrUnknownOperator), err)
	test.That(t, p.NeedsDecompilation())

	p = NewProgram(Type1, []byte{139, 12, 99})
	err = p.Decompile(nil, nil)
	test.That(t, errors.Is(err, ErrUnknownOperator), err)

	// hsbw does not terminate a charstring
	b = compile(t, Type1, 0, 500, "hsbw")
	p = NewProgram(Type1, b)
	err = p.Decompile(nil, nil)
	test.That(t, errors.Is(err, ErrBadTerminator), err)
	test.That(t, p.NeedsDecompilation())
	err = NewType1Extractor(nil).Execute(NewProgram(Type1, b))
	test.That(t, errors.Is(err, ErrBadTerminator), err)
}

func TestDecompileTerminator(t *testing.T) {
	var tests = []struct {
		name string
		b    []byte
	}{
		{"empty", []byte{}},
		{"rlineto", []byte{140, 141, 5}},
		{"operand", []byte{149, 14, 149}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProgram(Type2, tt.b)
			err := p.Decompile(nil, nil)
			test.That(t, errors.Is(err, ErrBadTerminator), err)
			test.That(t, p.NeedsDecompilation())
		})
	}
}

func TestDecompileSubrs(t *testing.T) {
	subrs := NewSubrs(Type2, [][]byte{{144, 11}, {11}, {11}, {11}, {11}})
	p := NewProgram(Type2, []byte{32, 10, 14})
	test.Error(t, p.Decompile(subrs, nil))
	test.T(t, p.Tokens(), tokens(-107, "callsubr", "endchar"))
	test.T(t, subrs[0].Tokens(), tokens(5, "return"))
	test.That(t, subrs[1].NeedsDecompilation())
}

func TestDecompileConcurrent(t *testing.T) {
	subrs := NewSubrs(Type2, [][]byte{{144, 145, 18, 11}})
	gsubrs := NewSubrs(Type2, [][]byte{{19, 0xC0, 11}})
	progs := []*Program{}
	for i := 0; i < 8; i++ {
		progs = append(progs, NewProgram(Type2, []byte{32, 10, 32, 29, 14}))
	}

	wg := sync.WaitGroup{}
	errs := make([]error, len(progs))
	for i, p := range progs {
		wg.Add(1)
		go func(i int, p *Program) {
			defer wg.Done()
			errs[i] = p.Decompile(subrs, gsubrs)
		}(i, p)
	}
	wg.Wait()

	for i, p := range progs {
		test.Error(t, errs[i])
		test.T(t, p.Tokens(), tokens(-107, "callsubr", -107, "callgsubr", "endchar"))
	}
	test.T(t, subrs[0].Tokens(), tokens(5, 6, "hstemhm", "return"))
	test.T(t, gsubrs[0].Tokens(), tokens("hintmask", []byte{0xC0}, "return"))
}

func TestSetTokens(t *testing.T) {
	p := NewProgram(Type2, []byte{14})
	p.SetTokens(tokens(1, 2, "rmoveto", "endchar"))
	test.That(t, !p.NeedsDecompilation())
	code, err := p.Bytecode()
	test.Error(t, err)
	test.Bytes(t, code, []byte{140, 141, 21, 14})
}

func TestCharStringEncryption(t *testing.T) {
	b := []byte{139, 248, 136, 13, 149, 159, 21, 9, 14}
	enc := EncryptCharString(b, 4)
	test.T(t, len(enc), len(b)+4)

	dec, err := DecryptCharString(enc, 4)
	test.Error(t, err)
	test.Bytes(t, dec, b)

	dec, err = DecryptCharString(b, -1)
	test.Error(t, err)
	test.Bytes(t, dec, b)

	_, err = DecryptCharString([]byte{1, 2}, 4)
	test.That(t, errors.Is(err, ErrByteLength), err)
}
