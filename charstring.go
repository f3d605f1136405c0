package fonttools

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/tdewolff/parse/v2"
)

// Type is the charstring format.
type Type int

// see Type
const (
	Type1 Type = 1
	Type2 Type = 2
)

func (t Type) String() string {
	switch t {
	case Type1:
		return "Type1"
	case Type2:
		return "Type2"
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

func (t Type) operators() map[int]string {
	if t == Type1 {
		return type1Operators
	}
	return type2Operators
}

func (t Type) operatorKeys() map[string]int {
	if t == Type1 {
		return type1OperatorKeys
	}
	return type2OperatorKeys
}

func (t Type) encoding() operandEncoding {
	if t == Type1 {
		return type1Encoding
	}
	return type2Encoding
}

// TokenKind distinguishes operands, operators, and hint masks.
type TokenKind int

// see TokenKind
const (
	OperandToken TokenKind = iota
	OperatorToken
	MaskToken
)

// Token is a single element of a decompiled charstring.
type Token struct {
	Kind TokenKind
	Num  Number
	Op   string
	Mask []byte
}

// Operand returns an operand token.
func Operand(n Number) Token {
	return Token{Kind: OperandToken, Num: n}
}

// Operator returns an operator token.
func Operator(name string) Token {
	return Token{Kind: OperatorToken, Op: name}
}

// Mask returns a token holding the raw bytes that follow hintmask or cntrmask.
func Mask(b []byte) Token {
	if b == nil {
		b = []byte{}
	}
	return Token{Kind: MaskToken, Mask: b}
}

func (tok Token) String() string {
	switch tok.Kind {
	case OperatorToken:
		return tok.Op
	case MaskToken:
		return maskBits(tok.Mask)
	}
	return tok.Num.String()
}

// source is the backing store of a program: either undecoded bytecode or a decoded token list.
type source interface {
	// token returns the token at pos and the position of the next token, or io.EOF at the end.
	token(pos int) (Token, int, error)
	// bytes returns exactly n raw bytes at pos and the position after them.
	bytes(pos, n int) ([]byte, int, error)
}

type bytecode struct {
	code []byte
	enc  operandEncoding
	ops  map[int]string
}

func (b bytecode) token(pos int) (Token, int, error) {
	if len(b.code) <= pos {
		return Token{}, pos, io.EOF
	}
	b0 := b.code[pos]
	pos++
	if isOperatorByte(b.enc, b0) {
		name, pos, err := readOperator(b.ops, b0, b.code, pos)
		if err != nil {
			return Token{}, pos, err
		}
		return Operator(name), pos, nil
	}
	n, pos, err := readOperand(b.enc, b0, b.code, pos)
	if err != nil {
		return Token{}, pos, err
	}
	return Operand(n), pos, nil
}

func (b bytecode) bytes(pos, n int) ([]byte, int, error) {
	if len(b.code)-pos < n {
		return nil, pos, fmt.Errorf("%w: need %d bytes, have %d", ErrByteLength, n, len(b.code)-pos)
	}
	mask := make([]byte, n)
	copy(mask, b.code[pos:pos+n])
	return mask, pos + n, nil
}

type tokenList []Token

func (toks tokenList) token(pos int) (Token, int, error) {
	if len(toks) <= pos {
		return Token{}, pos, io.EOF
	}
	return toks[pos], pos + 1, nil
}

func (toks tokenList) bytes(pos, n int) ([]byte, int, error) {
	if len(toks) <= pos || toks[pos].Kind != MaskToken {
		return nil, pos, fmt.Errorf("%w: expected %d mask bytes", ErrByteLength, n)
	} else if len(toks[pos].Mask) != n {
		return nil, pos, fmt.Errorf("%w: need %d bytes, have %d", ErrByteLength, n, len(toks[pos].Mask))
	}
	return toks[pos].Mask, pos + 1, nil
}

// Program is a charstring for a glyph or a subroutine. It holds either the undecoded bytecode or the decompiled tokens, and decompiling turns the former into the latter once.
type Program struct {
	Type Type

	mu  sync.RWMutex
	src source
}

// NewProgram returns an undecoded program.
func NewProgram(t Type, code []byte) *Program {
	return &Program{
		Type: t,
		src:  bytecode{code, t.encoding(), t.operators()},
	}
}

// NewProgramFromTokens returns a decoded program.
func NewProgramFromTokens(t Type, toks []Token) *Program {
	return &Program{
		Type: t,
		src:  tokenList(toks),
	}
}

func (p *Program) source() source {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.src
}

// NeedsDecompilation returns true if the program has not been decompiled yet.
func (p *Program) NeedsDecompilation() bool {
	_, ok := p.source().(bytecode)
	return ok
}

// Tokens returns the decompiled tokens, or nil if the program has not been decompiled.
func (p *Program) Tokens() []Token {
	if toks, ok := p.source().(tokenList); ok {
		return toks
	}
	return nil
}

// SetTokens replaces the program by the given tokens.
func (p *Program) SetTokens(toks []Token) {
	p.mu.Lock()
	p.src = tokenList(toks)
	p.mu.Unlock()
}

// commit stores the tokens observed while executing the bytecode. Only the first commit takes effect.
func (p *Program) commit(toks []Token) {
	p.mu.Lock()
	if _, ok := p.src.(bytecode); ok {
		p.src = tokenList(toks)
	}
	p.mu.Unlock()
}

// Decompile converts the bytecode into tokens. Type 2 charstrings are decompiled by executing them, since the length of hint masks depends on the stem hints declared before, possibly in subroutines. It is a no-op for decompiled programs.
func (p *Program) Decompile(subrs, gsubrs []*Program) error {
	if !p.NeedsDecompilation() {
		return nil
	}
	if p.Type == Type2 {
		return NewDecompiler(subrs, gsubrs).Execute(p)
	}

	src := p.source()
	toks := []Token{}
	pos := 0
	for {
		tok, next, err := src.token(pos)
		if err == io.EOF {
			break
		} else if err != nil {
			return fmt.Errorf("%v: %w", p.Type, err)
		}
		toks = append(toks, tok)
		pos = next
	}
	if !terminated(toks) {
		return fmt.Errorf("%v: %w", p.Type, ErrBadTerminator)
	}
	p.commit(toks)
	return nil
}

// Bytecode returns the bytecode of the program, encoding the tokens if the program was decompiled.
func (p *Program) Bytecode() ([]byte, error) {
	src := p.source()
	if code, ok := src.(bytecode); ok {
		return code.code, nil
	}

	keys := p.Type.operatorKeys()
	w := parse.NewBinaryWriter([]byte{})
	for _, tok := range src.(tokenList) {
		switch tok.Kind {
		case OperandToken:
			if err := AppendNumber(w, p.Type, tok.Num); err != nil {
				return nil, err
			}
		case OperatorToken:
			key, ok := keys[tok.Op]
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrUnknownOperator, tok.Op)
			}
			if 256 <= key {
				w.WriteUint8(escapeByte)
				key -= 256
			}
			w.WriteUint8(uint8(key))
		case MaskToken:
			w.WriteBytes(tok.Mask)
		}
	}
	return w.Bytes(), nil
}

// String returns a listing of the program with one operator per line. Undecoded programs are listed in hexadecimal.
func (p *Program) String() string {
	src := p.source()
	if code, ok := src.(bytecode); ok {
		return hex.EncodeToString(code.code)
	}

	lines := []string{}
	args := []string{}
	for _, tok := range src.(tokenList) {
		switch tok.Kind {
		case OperatorToken:
			lines = append(lines, strings.Join(append(args, tok.Op), " "))
			args = args[:0]
		case MaskToken:
			// the mask is listed on the line of its operator
			if 0 < len(lines) && len(args) == 0 {
				lines[len(lines)-1] += " " + tok.String()
			} else {
				args = append(args, tok.String())
			}
		default:
			args = append(args, tok.String())
		}
	}
	if 0 < len(args) {
		lines = append(lines, strings.Join(args, " "))
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

const (
	charStringKey = 4330
	cryptC1       = 52845
	cryptC2       = 22719
)

// DecryptCharString decrypts a Type 1 charstring and drops the first lenIV random bytes. A negative lenIV means the charstring is not encrypted.
func DecryptCharString(b []byte, lenIV int) ([]byte, error) {
	if lenIV < 0 {
		return b, nil
	} else if len(b) < lenIV {
		return nil, fmt.Errorf("%w: charstring shorter than lenIV", ErrByteLength)
	}

	r := uint16(charStringKey)
	plain := make([]byte, len(b))
	for i, c := range b {
		plain[i] = c ^ byte(r>>8)
		r = (uint16(c)+r)*cryptC1 + cryptC2
	}
	return plain[lenIV:], nil
}

// EncryptCharString encrypts a Type 1 charstring, prepending lenIV zero bytes. A negative lenIV returns the charstring unchanged.
func EncryptCharString(b []byte, lenIV int) []byte {
	if lenIV < 0 {
		return b
	}

	r := uint16(charStringKey)
	cipher := make([]byte, lenIV+len(b))
	for i := range cipher {
		var plain byte
		if lenIV <= i {
			plain = b[i-lenIV]
		}
		c := plain ^ byte(r>>8)
		cipher[i] = c
		r = (uint16(c)+r)*cryptC1 + cryptC2
	}
	return cipher
}
