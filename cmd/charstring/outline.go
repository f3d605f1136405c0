package main

import (
	"fmt"
	"io"
	"log"

	"github.com/riusksk/fonttools"
)

type Draw struct {
	Quiet         bool    `short:"q" desc:"Suppress output except for errors."`
	Force         bool    `short:"f" desc:"Force overwriting existing files."`
	Type          int     `short:"t" desc:"Charstring type, 1 or 2."`
	LenIV         int     `name:"lenIV" desc:"Number of random bytes of encrypted Type 1 charstrings, or -1 if not encrypted."`
	Subrs         string  `short:"s" desc:"File with the local subroutine INDEX."`
	GSubrs        string  `short:"g" desc:"File with the global subroutine INDEX (Type 2 only)."`
	NominalWidthX float64 `name:"nominal" desc:"Nominal width of the Private DICT (Type 2 only)."`
	DefaultWidthX float64 `name:"default" desc:"Default width of the Private DICT (Type 2 only)."`
	ASCII         bool    `short:"d" name:"draw" desc:"Draw the glyph in the terminal."`
	Size          int     `desc:"Image width and height in pixels."`
	Scale         float64 `desc:"Pixels per font unit."`
	Output        string  `short:"o" desc:"Output PNG file."`
	Input         string  `index:"0" desc:"Input file with the charstring, raw or in hexadecimal. Use - for stdin."`
}

func (cmd *Draw) Run() error {
	if cmd.Quiet {
		Warning = log.New(io.Discard, "", 0)
	}

	prog, subrs, gsubrs, err := readProgram(cmd.Input, cmd.Type, cmd.LenIV, cmd.Subrs, cmd.GSubrs)
	if err != nil {
		return err
	}

	var extractor *fonttools.OutlineExtractor
	if prog.Type == fonttools.Type1 {
		extractor = fonttools.NewType1Extractor(subrs)
	} else {
		extractor = fonttools.NewType2Extractor(subrs, gsubrs, cmd.NominalWidthX, cmd.DefaultWidthX)
	}
	if err := extractor.Execute(prog); err != nil {
		return err
	}
	if n := len(extractor.Stack()); n != 0 {
		Warning.Printf("%d operands left on the stack\n", n)
	}

	outline := extractor.Outline()
	if !cmd.Quiet {
		fmt.Printf("Width: %v\n", extractor.Width())
		if prog.Type == fonttools.Type1 {
			fmt.Printf("Side bearing: %v\n", extractor.SideBearing())
		} else {
			fmt.Printf("Hints: %v\n", extractor.HintCount())
		}
		xmin, ymin, xmax, ymax := outline.Bounds()
		fmt.Printf("Bounds: %v %v %v %v\n", xmin, ymin, xmax, ymax)
		fmt.Printf("Area: %v\n", outline.Area())
		fmt.Printf("Contours: %d\n", len(outline))
		for i, contour := range outline {
			fmt.Printf("  %2d  %v\n", i, contour)
		}
	}

	if cmd.ASCII || cmd.Output != "" {
		if cmd.Size <= 0 {
			return fmt.Errorf("invalid image size: %d", cmd.Size)
		}
		// leave a margin of an eighth of the image below the baseline for descenders
		img := outline.Rasterize(cmd.Size, cmd.Size, cmd.Scale, 0.0, float64(cmd.Size)/8.0)
		if cmd.ASCII {
			printASCII(img)
		}
		if cmd.Output != "" {
			if err := writePNG(cmd.Output, cmd.Force, img); err != nil {
				return err
			}
		}
	}
	return nil
}
