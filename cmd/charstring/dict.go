package main

import (
	"fmt"

	"github.com/riusksk/fonttools"
)

type Dict struct {
	Private bool   `short:"p" desc:"Decode a Private DICT instead of a Top DICT."`
	Strings string `short:"s" desc:"File with the String INDEX, including the standard strings."`
	Input   string `index:"0" desc:"Input file with the DICT data, raw or in hexadecimal. Use - for stdin."`
}

func (cmd *Dict) Run() error {
	b, err := readInput(cmd.Input)
	if err != nil {
		return err
	}

	var strs fonttools.Strings
	if cmd.Strings != "" {
		sb, err := readInput(cmd.Strings)
		if err != nil {
			return err
		}
		items, _, err := fonttools.ParseIndex(sb)
		if err != nil {
			return fmt.Errorf("%v: %w", cmd.Strings, err)
		}
		if strs, err = fonttools.NewStrings(items); err != nil {
			return fmt.Errorf("%v: %w", cmd.Strings, err)
		}
	}

	var d *fonttools.DictDecompiler
	if cmd.Private {
		d = fonttools.NewPrivateDictDecompiler(strs)
	} else {
		d = fonttools.NewTopDictDecompiler(strs)
	}
	if err := d.Decompile(b); err != nil {
		return err
	}
	dict, err := d.Dict()
	if err != nil {
		return err
	}
	for _, key := range dict.Keys() {
		v, _ := dict.Get(key)
		fmt.Printf("%s: %v\n", key, v)
	}
	return nil
}
