package linker

import "sort"

// ResolvedSymbol is a name bound to an absolute virtual address.
type ResolvedSymbol struct {
	Kind SymbolKind
	Addr uint64
}

// mangleLocal disambiguates same-named locals across objects.
func mangleLocal(obj, name string) string {
	return obj + "::" + name
}

// ResolveSymbols walks every defined symbol of the selected objects.
// Locals are bound under their mangled name and appended to the
// output symbol table here, in encounter order. Globals and weaks go
// through the insertion rules: a second strong definition fails the
// link, strong replaces weak, and the first weak wins otherwise.
func ResolveSymbols(ctx *Context) error {
	for _, obj := range ctx.Objs {
		for i := range obj.Symbols {
			sym := &obj.Symbols[i]
			if !sym.IsDefined() {
				continue
			}
			ref, ok := ctx.SecMap[inputSectionKey{obj.Name, sym.Section}]
			if !ok {
				continue
			}
			addr := ctx.VAddr[ref.Name] + ref.Offset + sym.Offset

			if sym.Kind == SymbolLocal {
				name := mangleLocal(obj.Name, sym.Name)
				ctx.SymbolMap[name] = ResolvedSymbol{SymbolLocal, addr}
				ctx.Out.Symbols = append(ctx.Out.Symbols, Symbol{
					Kind:    SymbolLocal,
					Section: ref.Name,
					Offset:  addr - ctx.VAddr[ref.Name],
					Size:    sym.Size,
					Name:    name,
				})
				continue
			}

			old, exists := ctx.SymbolMap[sym.Name]
			switch {
			case !exists:
				ctx.SymbolMap[sym.Name] = ResolvedSymbol{sym.Kind, addr}
			case old.Kind == SymbolGlobal && sym.Kind == SymbolGlobal:
				return &MultipleStrongDefinitionError{Name: sym.Name}
			case old.Kind == SymbolWeak && sym.Kind == SymbolGlobal:
				ctx.SymbolMap[sym.Name] = ResolvedSymbol{sym.Kind, addr}
			}
		}
	}
	return nil
}

// ExportSymbols appends the resolved globals and weaks to the output
// symbol table in name order. The owning output section is recovered
// from the address by interval membership over the layout; the .plt
// range falls into the .text bucket.
func ExportSymbols(ctx *Context) {
	names := make([]string, 0, len(ctx.SymbolMap))
	for name, rsym := range ctx.SymbolMap {
		if rsym.Kind == SymbolLocal {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		rsym := ctx.SymbolMap[name]
		sec := sectionForAddr(ctx, rsym.Addr)
		ctx.Out.Symbols = append(ctx.Out.Symbols, Symbol{
			Kind:    rsym.Kind,
			Section: sec,
			Offset:  rsym.Addr - ctx.VAddr[sec],
			Name:    name,
		})
	}
}

func sectionForAddr(ctx *Context, addr uint64) string {
	switch {
	case addr >= ctx.VAddr[".text"] && addr < ctx.VAddr[".rodata"]:
		return ".text"
	case addr >= ctx.VAddr[".rodata"] && addr < ctx.VAddr[".data"]:
		return ".rodata"
	case addr >= ctx.VAddr[".data"] && addr < ctx.VAddr[".bss"]:
		return ".data"
	default:
		return ".bss"
	}
}
