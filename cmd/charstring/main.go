package main

import (
	"log"
	"os"

	"github.com/tdewolff/argp"
)

var (
	Error   *log.Logger
	Warning *log.Logger
)

func main() {
	Error = log.New(os.Stderr, "ERROR: ", 0)
	Warning = log.New(os.Stderr, "WARNING: ", 0)

	cmd := argp.New("Command line toolkit for Type 1 and Type 2 charstrings")
	cmd.AddCmd(&Tokens{Type: 2, LenIV: -1}, "tokens", "Decompile a charstring and list its tokens")
	cmd.AddCmd(&Draw{Type: 2, LenIV: -1, Size: 40, Scale: 0.04}, "outline", "Extract the outline of a charstring")
	cmd.AddCmd(&Dict{}, "dict", "Decode a Top or Private DICT")
	cmd.Parse()
}
