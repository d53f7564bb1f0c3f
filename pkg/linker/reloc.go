package linker

import "encoding/binary"

// ApplyRelocations patches every relocation of every merged input
// section into the output bytes, emitting dynamic relocations where
// the address is only known at load time.
func ApplyRelocations(ctx *Context) error {
	for _, obj := range ctx.Objs {
		for _, secName := range obj.Sections.Names() {
			ref, ok := ctx.SecMap[inputSectionKey{obj.Name, secName}]
			if !ok {
				continue
			}
			for _, rel := range obj.Sections.Get(secName).Relocs {
				if err := applyRelocation(ctx, obj, ref, rel); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func applyRelocation(ctx *Context, obj *Object, ref outputRef, rel Relocation) error {
	kind := rel.Type.Fold()
	name := rel.Symbol

	// A local definition in the same object shadows the global one.
	var S uint64
	resolved := false
	if rsym, ok := ctx.SymbolMap[mangleLocal(obj.Name, name)]; ok {
		S = rsym.Addr
		resolved = true
	} else if rsym, ok := ctx.SymbolMap[name]; ok {
		S = rsym.Addr
		resolved = true
	}

	P := ctx.VAddr[ref.Name] + ref.Offset + rel.Offset
	A := uint64(rel.Addend)
	pos := ref.Offset + rel.Offset

	external := !ctx.DefinedStatic[name] && ctx.SharedDefined[name]

	// GOTPCREL targets the slot, not the symbol. The slot address is
	// always known, but the name must still resolve somewhere.
	if kind == R_X86_64_GOTPCREL {
		gotOff, ok := ctx.GotOffset[name]
		if !ok {
			return &MissingGotEntryError{Name: name}
		}
		if !ctx.Options.Shared && !external && !resolved {
			return &UndefinedSymbolError{Name: name}
		}
		S = ctx.VAddr[".got"] + gotOff
		resolved = true
	}

	if !resolved {
		if ctx.Options.Shared {
			ctx.Out.DynRelocs = append(ctx.Out.DynRelocs, Relocation{
				Type: kind, Offset: P, Symbol: name, Addend: rel.Addend,
			})
			return nil
		}
		if !external {
			return &UndefinedSymbolError{Name: name}
		}
		switch kind {
		case R_X86_64_PC32:
			pltOff, ok := ctx.PltOffset[name]
			if !ok {
				return &MissingPltEntryError{Name: name}
			}
			S = ctx.VAddr[".plt"] + pltOff
		case R_X86_64_32, R_X86_64_32S, R_X86_64_64:
			ctx.Out.DynRelocs = append(ctx.Out.DynRelocs, Relocation{
				Type: kind, Offset: P, Symbol: name, Addend: rel.Addend,
			})
			return nil
		default:
			return &UnsupportedExternalRelocError{Type: kind}
		}
	}

	data := ctx.Out.Sections.Get(ref.Name).Data
	switch kind {
	case R_X86_64_32, R_X86_64_32S:
		binary.LittleEndian.PutUint32(data[pos:], uint32(S+A))
	case R_X86_64_PC32, R_X86_64_GOTPCREL:
		binary.LittleEndian.PutUint32(data[pos:], uint32(S+A-P))
	case R_X86_64_64:
		binary.LittleEndian.PutUint64(data[pos:], S+A)
	default:
		return &UnsupportedRelocError{Type: kind}
	}
	return nil
}
