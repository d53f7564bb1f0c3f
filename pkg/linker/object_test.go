package linker

import (
	"encoding/json"
	"testing"
)

func TestSectionMapPreservesOrder(t *testing.T) {
	var m SectionMap
	m.Put(".text.z", &Section{})
	m.Put(".data", &Section{})
	m.Put(".text.a", &Section{})
	m.Put(".data", &Section{Data: []byte{1}}) // replaces, keeps position

	want := []string{".text.z", ".data", ".text.a"}
	names := m.Names()
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("names = %v, want %v", names, want)
		}
	}
	if len(m.Get(".data").Data) != 1 {
		t.Errorf("Put did not replace the section")
	}
}

func TestObjectJSONRoundTrip(t *testing.T) {
	obj := newTestObj("a.o")
	addSection(obj, ".text.z", []byte{0xe8, 0, 0, 0, 0},
		Relocation{Type: R_X86_64_PLT32, Offset: 1, Symbol: "f", Addend: -4})
	addSection(obj, ".text.a", []byte{0xc3})
	addSymbol(obj, SymbolWeak, ".text.z", "f", 0, 0)

	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	back := &Object{}
	if err := json.Unmarshal(data, back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	// Section order survives the trip; the layout depends on it.
	names := back.Sections.Names()
	if len(names) != 2 || names[0] != ".text.z" || names[1] != ".text.a" {
		t.Fatalf("section order = %v, want [.text.z .text.a]", names)
	}
	rel := back.Sections.Get(".text.z").Relocs[0]
	if rel.Type != R_X86_64_PLT32 || rel.Symbol != "f" || rel.Addend != -4 {
		t.Errorf("reloc = %+v did not survive", rel)
	}
	if back.Symbols[0].Kind != SymbolWeak {
		t.Errorf("symbol kind = %v, want WEAK", back.Symbols[0].Kind)
	}
}

func TestRelocTypeFold(t *testing.T) {
	if R_X86_64_PLT32.Fold() != R_X86_64_PC32 {
		t.Errorf("PLT32 should fold into PC32")
	}
	if R_X86_64_PC32.Fold() != R_X86_64_PC32 {
		t.Errorf("PC32 must fold to itself")
	}
	if R_X86_64_GOTPCREL.Fold() != R_X86_64_GOTPCREL {
		t.Errorf("GOTPCREL must fold to itself")
	}
}
