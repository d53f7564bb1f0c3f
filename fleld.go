package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/xyproto/env/v2"

	"fleld/pkg/linker"
	"fleld/pkg/utils"
)

// fleld links .fle objects into an executable or a shared library.
func main() {
	output := flag.String("o", env.Str("FLELD_OUTPUT", ""), "output file name")
	shared := flag.Bool("shared", env.Bool("FLELD_SHARED"), "produce a shared library")
	entry := flag.String("e", env.Str("FLELD_ENTRY", "_start"), "entry symbol for executables")
	nm := flag.Bool("nm", false, "print the symbol listing of the result instead of writing it")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: fleld [-o out] [-shared] [-e entry] [-nm] file.fle...")
		os.Exit(1)
	}

	var objs []*linker.Object
	for _, filename := range flag.Args() {
		file := linker.MustNewFile(filename)
		obj, err := linker.ReadObject(file)
		if err != nil {
			utils.Fatal(err)
		}
		objs = append(objs, obj)
	}

	out, err := linker.Link(objs, linker.Options{
		OutputFile: *output,
		Shared:     *shared,
		EntryPoint: *entry,
	})
	if err != nil {
		utils.Fatal(err)
	}

	if *nm {
		fmt.Print(linker.SymbolListing(out))
		return
	}
	if err := linker.WriteObject(out.Name, out); err != nil {
		utils.Fatal(err)
	}
}
