package main

import (
	"fmt"
)

type Tokens struct {
	Type   int    `short:"t" desc:"Charstring type, 1 or 2."`
	LenIV  int    `name:"lenIV" desc:"Number of random bytes of encrypted Type 1 charstrings, or -1 if not encrypted."`
	Subrs  string `short:"s" desc:"File with the local subroutine INDEX."`
	GSubrs string `short:"g" desc:"File with the global subroutine INDEX (Type 2 only)."`
	Bytes  bool   `short:"b" desc:"Print the bytecode after recompiling the tokens."`
	Input  string `index:"0" desc:"Input file with the charstring, raw or in hexadecimal. Use - for stdin."`
}

func (cmd *Tokens) Run() error {
	prog, subrs, gsubrs, err := readProgram(cmd.Input, cmd.Type, cmd.LenIV, cmd.Subrs, cmd.GSubrs)
	if err != nil {
		return err
	}
	if err := prog.Decompile(subrs, gsubrs); err != nil {
		return err
	}
	fmt.Print(prog)

	if cmd.Bytes {
		b, err := prog.Bytecode()
		if err != nil {
			return err
		}
		fmt.Printf("\n%X\n", b)
	}
	return nil
}
