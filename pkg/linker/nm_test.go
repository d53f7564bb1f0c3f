package linker

import "testing"

func TestSymbolListing(t *testing.T) {
	obj := &Object{
		Type: ObjectTypeExec,
		Name: "a.out",
		Symbols: []Symbol{
			{Kind: SymbolGlobal, Section: ".text", Offset: 0x10, Name: "main"},
			{Kind: SymbolLocal, Section: ".text", Offset: 0x20, Name: "a.o::loc"},
			{Kind: SymbolWeak, Section: ".text", Offset: 0x30, Name: "wt"},
			{Kind: SymbolWeak, Section: ".data", Offset: 8, Name: "wd"},
			{Kind: SymbolGlobal, Section: ".bss", Offset: 0, Name: "buf"},
			{Kind: SymbolLocal, Section: ".rodata", Offset: 4, Name: "a.o::str"},
			{Kind: SymbolGlobal, Section: "", Offset: 0, Name: "und"},
			{Kind: SymbolGlobal, Section: ".debug_info", Offset: 0, Name: "dbg"},
		},
	}

	want := "0000000000000010 T main\n" +
		"0000000000000020 t a.o::loc\n" +
		"0000000000000030 W wt\n" +
		"0000000000000008 V wd\n" +
		"0000000000000000 B buf\n" +
		"0000000000000004 r a.o::str\n"
	if got := SymbolListing(obj); got != want {
		t.Errorf("listing:\n%s\nwant:\n%s", got, want)
	}
}

func TestSymbolListingOfLinkedOutput(t *testing.T) {
	a := newTestObj("a.o")
	addSection(a, ".text", []byte{0x90, 0x90, 0x90, 0x90})
	addSymbol(a, SymbolGlobal, ".text", "_start", 0, 0)

	out := mustLink(t, []*Object{a}, Options{})
	if got, want := SymbolListing(out), "0000000000000000 T _start\n"; got != want {
		t.Errorf("listing = %q, want %q", got, want)
	}
}
