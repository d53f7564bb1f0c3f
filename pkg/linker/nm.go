package linker

import (
	"fmt"
	"strings"
)

// SymbolListing renders the nm-style dump of an object's symbol
// table, one "<offset> <letter> <name>" line per symbol. Undefined
// symbols and symbols outside the classified sections are skipped.
func SymbolListing(obj *Object) string {
	var sb strings.Builder
	for i := range obj.Symbols {
		sym := &obj.Symbols[i]
		if !sym.IsDefined() {
			continue
		}
		letter, ok := symbolTypeLetter(sym.Section, sym.Kind)
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "%016x %c %s\n", sym.Offset, letter, sym.Name)
	}
	return sb.String()
}

func symbolTypeLetter(section string, kind SymbolKind) (byte, bool) {
	global := kind == SymbolGlobal
	weak := kind == SymbolWeak
	switch {
	case strings.HasPrefix(section, ".text"):
		if weak {
			return 'W', true
		}
		if global {
			return 'T', true
		}
		return 't', true
	case strings.HasPrefix(section, ".data"):
		if weak {
			return 'V', true
		}
		if global {
			return 'D', true
		}
		return 'd', true
	case strings.HasPrefix(section, ".bss"):
		if weak {
			return 'V', true
		}
		if global {
			return 'B', true
		}
		return 'b', true
	case strings.HasPrefix(section, ".rodata"):
		if global {
			return 'R', true
		}
		return 'r', true
	}
	return 0, false
}
