package linker

// Link runs the whole pipeline over the input objects and returns
// the linked output, an executable or a shared library depending on
// the options. Inputs are not modified. Any failure aborts the link
// with no partial output.
func Link(objects []*Object, opts Options) (*Object, error) {
	ctx := NewContext(opts)

	ctx.Objs = SelectArchiveMembers(objects)
	for _, obj := range objects {
		if obj.Type == ObjectTypeShared {
			ctx.SharedLibs = append(ctx.SharedLibs, obj)
		}
	}

	out := &Object{Name: ctx.Options.OutputFile}
	if ctx.Options.Shared {
		out.Type = ObjectTypeShared
	} else {
		out.Type = ObjectTypeExec
	}
	for _, lib := range ctx.SharedLibs {
		out.Needed = append(out.Needed, lib.Name)
	}
	ctx.Out = out

	collectDefinedSets(ctx)
	PlanIndirection(ctx)
	ComputeSectionSizes(ctx)
	AssignAddresses(ctx)
	MergeSections(ctx)
	if err := SynthesizeGotPlt(ctx); err != nil {
		return nil, err
	}
	installOutputSections(ctx)

	if err := ResolveSymbols(ctx); err != nil {
		return nil, err
	}
	ExportSymbols(ctx)
	if err := ApplyRelocations(ctx); err != nil {
		return nil, err
	}
	EmitGotDynRelocs(ctx)

	CreatePhdrs(ctx)
	if ctx.Options.Shared {
		CreateShdrs(ctx)
	} else if err := SetEntry(ctx); err != nil {
		return nil, err
	}

	return out, nil
}

// collectDefinedSets records which non-local names the selected
// static objects define and which the shared libraries define. The
// two sets drive indirection planning and external-symbol handling.
func collectDefinedSets(ctx *Context) {
	for _, obj := range ctx.Objs {
		for i := range obj.Symbols {
			sym := &obj.Symbols[i]
			if sym.Kind == SymbolLocal || !sym.IsDefined() {
				continue
			}
			ctx.DefinedStatic[sym.Name] = true
		}
	}
	for _, lib := range ctx.SharedLibs {
		for i := range lib.Symbols {
			sym := &lib.Symbols[i]
			if sym.Kind == SymbolLocal || !sym.IsDefined() {
				continue
			}
			ctx.SharedDefined[sym.Name] = true
		}
	}
}
