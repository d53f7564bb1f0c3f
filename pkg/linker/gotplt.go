package linker

const (
	GotEntrySize = 8
	PltStubSize  = 6
)

// PlanIndirection records, in first-encounter order, which symbols
// need GOT slots and PLT stubs. GOTPCREL always reserves a slot.
// For executable output linked against shared libraries, a name
// that only a shared library defines also gets a slot, plus a stub
// when it is reached through PC32.
func PlanIndirection(ctx *Context) {
	gotSeen := make(map[string]bool)
	pltSeen := make(map[string]bool)

	for _, obj := range ctx.Objs {
		for _, secName := range obj.Sections.Names() {
			for _, rel := range obj.Sections.Get(secName).Relocs {
				name := rel.Symbol
				kind := rel.Type.Fold()

				if kind == R_X86_64_GOTPCREL && !gotSeen[name] {
					gotSeen[name] = true
					ctx.GotOrder = append(ctx.GotOrder, name)
				}

				if ctx.Options.Shared || len(ctx.SharedLibs) == 0 {
					continue
				}
				if ctx.DefinedStatic[name] || !ctx.SharedDefined[name] {
					continue
				}
				if !gotSeen[name] {
					gotSeen[name] = true
					ctx.GotOrder = append(ctx.GotOrder, name)
				}
				if kind == R_X86_64_PC32 && !pltSeen[name] {
					pltSeen[name] = true
					ctx.PltOrder = append(ctx.PltOrder, name)
				}
			}
		}
	}
}

// SynthesizeGotPlt zero-fills the GOT to its planned size, assigns
// slot offsets, and for executable output appends one stub per
// planned PLT name after any merged .plt input bytes.
func SynthesizeGotPlt(ctx *Context) error {
	if len(ctx.GotOrder) > 0 {
		got := ctx.outSecs[".got"]
		if pad := ctx.TotalSize[".got"] - uint64(len(got.Data)); pad > 0 {
			got.Data = append(got.Data, make([]byte, pad)...)
		}
		for i, name := range ctx.GotOrder {
			ctx.GotOffset[name] = uint64(i) * GotEntrySize
		}
	}

	if !ctx.Options.Shared && len(ctx.PltOrder) > 0 {
		plt := ctx.outSecs[".plt"]
		base := uint64(len(plt.Data))
		for i, name := range ctx.PltOrder {
			gotOff, ok := ctx.GotOffset[name]
			if !ok {
				return &MissingGotEntryError{Name: name}
			}
			stubOff := base + uint64(i)*PltStubSize
			ctx.PltOffset[name] = stubOff
			gotRel := int32((ctx.VAddr[".got"] + gotOff) - (ctx.VAddr[".plt"] + stubOff + PltStubSize))
			plt.Data = append(plt.Data, GeneratePltStub(gotRel)...)
		}
	}

	return nil
}

// EmitGotDynRelocs emits one R_X86_64_64 per GOT slot so the loader
// fills it at startup. Statically resolved names are not pre-bound
// either; the loader path stays uniform.
func EmitGotDynRelocs(ctx *Context) {
	for _, name := range ctx.GotOrder {
		off, ok := ctx.GotOffset[name]
		if !ok {
			continue
		}
		ctx.Out.DynRelocs = append(ctx.Out.DynRelocs, Relocation{
			Type:   R_X86_64_64,
			Offset: ctx.VAddr[".got"] + off,
			Symbol: name,
			Addend: 0,
		})
	}
}
