package linker

import (
	"bytes"
	"debug/elf"
	"encoding/json"
	"fmt"
)

// ObjectType tags what kind of unit an object is. Archives carry
// their members inline; shared objects contribute symbol visibility
// only and are never placed in the output.
type ObjectType string

const (
	ObjectTypeRel     ObjectType = ".o"
	ObjectTypeArchive ObjectType = ".ar"
	ObjectTypeShared  ObjectType = ".so"
	ObjectTypeExec    ObjectType = ".exe"
)

type SymbolKind uint8

const (
	SymbolLocal SymbolKind = iota
	SymbolGlobal
	SymbolWeak
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolGlobal:
		return "GLOBAL"
	case SymbolWeak:
		return "WEAK"
	}
	return "LOCAL"
}

func (k SymbolKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *SymbolKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "LOCAL":
		*k = SymbolLocal
	case "GLOBAL":
		*k = SymbolGlobal
	case "WEAK":
		*k = SymbolWeak
	default:
		return fmt.Errorf("unknown symbol type %q", s)
	}
	return nil
}

// RelocType carries the ELF x86-64 relocation kind values.
type RelocType uint32

const (
	R_X86_64_64       = RelocType(elf.R_X86_64_64)
	R_X86_64_PC32     = RelocType(elf.R_X86_64_PC32)
	R_X86_64_PLT32    = RelocType(elf.R_X86_64_PLT32)
	R_X86_64_GOTPCREL = RelocType(elf.R_X86_64_GOTPCREL)
	R_X86_64_32       = RelocType(elf.R_X86_64_32)
	R_X86_64_32S      = RelocType(elf.R_X86_64_32S)
)

// Fold normalizes PLT32 to PC32; the linker treats the two
// identically everywhere.
func (t RelocType) Fold() RelocType {
	if t == R_X86_64_PLT32 {
		return R_X86_64_PC32
	}
	return t
}

func (t RelocType) String() string {
	return elf.R_X86_64(t).String()
}

var relocTypeNames = map[string]RelocType{
	"R_X86_64_64":       R_X86_64_64,
	"R_X86_64_PC32":     R_X86_64_PC32,
	"R_X86_64_PLT32":    R_X86_64_PLT32,
	"R_X86_64_GOTPCREL": R_X86_64_GOTPCREL,
	"R_X86_64_32":       R_X86_64_32,
	"R_X86_64_32S":      R_X86_64_32S,
}

func (t RelocType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *RelocType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	typ, ok := relocTypeNames[s]
	if !ok {
		return fmt.Errorf("unknown relocation type %q", s)
	}
	*t = typ
	return nil
}

// Relocation offsets are relative to the section holding the
// relocation. DynRelocs on an output object reuse the same shape
// with Offset holding an absolute virtual address.
type Relocation struct {
	Type   RelocType `json:"type"`
	Offset uint64    `json:"offset"`
	Symbol string    `json:"symbol"`
	Addend int64     `json:"addend"`
}

type Section struct {
	Data   []byte       `json:"data,omitempty"`
	Relocs []Relocation `json:"relocs,omitempty"`
}

// Symbol with an empty Section is undefined; Offset is relative to
// the owning section.
type Symbol struct {
	Kind    SymbolKind `json:"type"`
	Section string     `json:"section"`
	Offset  uint64     `json:"offset"`
	Size    uint64     `json:"size"`
	Name    string     `json:"name"`
}

func (s *Symbol) IsDefined() bool {
	return s.Section != ""
}

type SectionHeader struct {
	Name   string `json:"name"`
	Type   uint32 `json:"type"`
	Flags  uint64 `json:"flags"`
	Addr   uint64 `json:"addr"`
	Offset uint64 `json:"offset"`
	Size   uint64 `json:"size"`
}

// ProgramHeader describes one loadable segment. This design emits
// one segment per output section.
type ProgramHeader struct {
	Section string `json:"section"`
	VAddr   uint64 `json:"vaddr"`
	MemSize uint64 `json:"memsz"`
	Flags   uint32 `json:"flags"`
}

const (
	SHTProgbits = uint32(elf.SHT_PROGBITS)
	SHTNobits   = uint32(elf.SHT_NOBITS)
)

// Section flags follow the ELF SHF values; NOBITS is a model-level
// marker for sections that take no file bytes.
const (
	SHFWrite  = uint64(elf.SHF_WRITE)
	SHFAlloc  = uint64(elf.SHF_ALLOC)
	SHFExec   = uint64(elf.SHF_EXECINSTR)
	SHFNobits = uint64(0x8)
)

const (
	PFX = uint32(elf.PF_X)
	PFW = uint32(elf.PF_W)
	PFR = uint32(elf.PF_R)
)

// SectionMap is a name-to-section map that remembers insertion
// order. Size accounting, merging and indirection planning all walk
// sections in exactly this order, so it must stay stable.
type SectionMap struct {
	names []string
	secs  map[string]*Section
}

func (m *SectionMap) Put(name string, sec *Section) {
	if m.secs == nil {
		m.secs = make(map[string]*Section)
	}
	if _, ok := m.secs[name]; !ok {
		m.names = append(m.names, name)
	}
	m.secs[name] = sec
}

func (m *SectionMap) Get(name string) *Section {
	return m.secs[name]
}

func (m *SectionMap) Has(name string) bool {
	_, ok := m.secs[name]
	return ok
}

func (m *SectionMap) Names() []string {
	return m.names
}

func (m *SectionMap) Len() int {
	return len(m.names)
}

func (m SectionMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range m.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(m.secs[name])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (m *SectionMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("sections: expected a JSON object")
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("sections: expected a string key")
		}
		sec := &Section{}
		if err := dec.Decode(sec); err != nil {
			return err
		}
		m.Put(name, sec)
	}
	_, err = dec.Token()
	return err
}

// Object is the unit the linker consumes and produces.
type Object struct {
	Type      ObjectType      `json:"type"`
	Name      string          `json:"name"`
	Sections  SectionMap      `json:"sections"`
	Symbols   []Symbol        `json:"symbols,omitempty"`
	Shdrs     []SectionHeader `json:"shdrs,omitempty"`
	Phdrs     []ProgramHeader `json:"phdrs,omitempty"`
	DynRelocs []Relocation    `json:"dyn_relocs,omitempty"`
	Members   []*Object       `json:"members,omitempty"`
	Needed    []string        `json:"needed,omitempty"`
	Entry     uint64          `json:"entry,omitempty"`
}

// FindShdr returns the section header named name, or nil.
func (o *Object) FindShdr(name string) *SectionHeader {
	for i := range o.Shdrs {
		if o.Shdrs[i].Name == name {
			return &o.Shdrs[i]
		}
	}
	return nil
}

// SectionSize is the layout size of an input section: the header
// size when one is present and non-zero, the data length otherwise.
// For .bss the header size normally exceeds the (empty) data.
func (o *Object) SectionSize(name string) uint64 {
	if shdr := o.FindShdr(name); shdr != nil && shdr.Size > 0 {
		return shdr.Size
	}
	if sec := o.Sections.Get(name); sec != nil {
		return uint64(len(sec.Data))
	}
	return 0
}
