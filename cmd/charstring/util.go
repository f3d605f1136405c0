package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/andybalholm/brotli"
	"github.com/riusksk/fonttools"
	"github.com/tdewolff/prompt"
)

func printASCII(img *image.Alpha) {
	palette := []byte("$@B%8&WM#*oahkbdpqwmZO0QLCJUYXzcvunxrjft/\\|()1{}[]?-_+~<>i!lI;:,\"^`'. ")

	size := img.Bounds().Max
	for j := 0; j < size.Y; j++ {
		for i := 0; i < size.X; i++ {
			a := img.AlphaAt(i, j).A
			idx := int((1.0-float64(a)/255.0)*float64(len(palette)-1) + 0.5)
			fmt.Print(string(palette[idx]))
		}
		fmt.Print("\n")
	}
}

// readInput reads a file, or stdin for "-". Files ending in .br are decompressed and hexadecimal text is decoded.
func readInput(filename string) ([]byte, error) {
	var err error
	var r *os.File
	if filename == "-" {
		r = os.Stdin
	} else if r, err = os.Open(filename); err != nil {
		return nil, err
	}

	var rd io.Reader = r
	if filepath.Ext(filename) == ".br" {
		rd = brotli.NewReader(r)
	}
	b, err := io.ReadAll(rd)
	if err != nil {
		r.Close()
		return nil, err
	} else if err := r.Close(); err != nil {
		return nil, err
	}

	if text := bytes.Join(bytes.Fields(b), nil); 0 < len(text) && isHex(text) {
		dst := make([]byte, hex.DecodedLen(len(text)))
		if _, err := hex.Decode(dst, text); err != nil {
			return nil, err
		}
		return dst, nil
	}
	return b, nil
}

func isHex(b []byte) bool {
	if len(b)%2 != 0 {
		return false
	}
	for _, c := range b {
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F') {
			return false
		}
	}
	return true
}

// readSubrs reads a subroutine INDEX, an empty filename gives no subroutines.
func readSubrs(filename string, t fonttools.Type, lenIV int) ([]*fonttools.Program, error) {
	if filename == "" {
		return nil, nil
	}
	b, err := readInput(filename)
	if err != nil {
		return nil, err
	}
	items, _, err := fonttools.ParseIndex(b)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", filename, err)
	}
	if t == fonttools.Type1 {
		for i, item := range items {
			if items[i], err = fonttools.DecryptCharString(item, lenIV); err != nil {
				return nil, fmt.Errorf("%v: subroutine %d: %w", filename, i, err)
			}
		}
	}
	return fonttools.NewSubrs(t, items), nil
}

// readProgram reads a charstring and its subroutines.
func readProgram(input string, charstringType, lenIV int, subrsFilename, gsubrsFilename string) (*fonttools.Program, []*fonttools.Program, []*fonttools.Program, error) {
	t := fonttools.Type(charstringType)
	if t != fonttools.Type1 && t != fonttools.Type2 {
		return nil, nil, nil, fmt.Errorf("unsupported charstring type: %d", charstringType)
	}

	b, err := readInput(input)
	if err != nil {
		return nil, nil, nil, err
	}
	if t == fonttools.Type1 {
		if b, err = fonttools.DecryptCharString(b, lenIV); err != nil {
			return nil, nil, nil, err
		}
	}

	subrs, err := readSubrs(subrsFilename, t, lenIV)
	if err != nil {
		return nil, nil, nil, err
	}
	var gsubrs []*fonttools.Program
	if t == fonttools.Type2 {
		if gsubrs, err = readSubrs(gsubrsFilename, t, lenIV); err != nil {
			return nil, nil, nil, err
		}
	} else if gsubrsFilename != "" {
		Warning.Println("Type 1 charstrings have no global subroutines")
	}
	return fonttools.NewProgram(t, b), subrs, gsubrs, nil
}

func writePNG(filename string, force bool, img image.Image) error {
	var err error
	var w io.WriteCloser
	if filename == "-" {
		w = os.Stdout
	} else {
		if _, err := os.Stat(filename); err == nil {
			if !force && !prompt.YesNo(fmt.Sprintf("%s already exists, overwrite?", filename), false) {
				return fmt.Errorf("file already exists")
			}
		}
		if w, err = os.Create(filename); err != nil {
			return err
		}
	}

	if err := png.Encode(w, img); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
