package linker

// CreatePhdrs emits one loadable segment per present output section
// with role-based permissions: code is R|X, read-only data is R,
// writable data is R|W.
func CreatePhdrs(ctx *Context) {
	for _, name := range OutputSections {
		if !ctx.Out.Sections.Has(name) {
			continue
		}
		var flags uint32
		switch name {
		case ".text", ".plt":
			flags = PFR | PFX
		case ".rodata":
			flags = PFR
		default:
			flags = PFR | PFW
		}
		ctx.Out.Phdrs = append(ctx.Out.Phdrs, ProgramHeader{
			Section: name,
			VAddr:   ctx.VAddr[name],
			MemSize: ctx.TotalSize[name],
			Flags:   flags,
		})
	}
}

// CreateShdrs emits section headers for shared output in the fixed
// section order. File offsets advance by the planned virtual size
// for every section, .bss included; carving .bss out of the file
// image is the serializing back-end's concern.
func CreateShdrs(ctx *Context) {
	fileOff := uint64(0)
	for _, name := range OutputSections {
		if !ctx.Out.Sections.Has(name) {
			continue
		}
		typ := SHTProgbits
		flags := SHFAlloc
		switch name {
		case ".text", ".plt":
			flags |= SHFExec
		case ".data", ".got", ".bss":
			flags |= SHFWrite
		}
		if name == ".bss" {
			flags |= SHFNobits
			typ = SHTNobits
		}
		ctx.Out.Shdrs = append(ctx.Out.Shdrs, SectionHeader{
			Name:   name,
			Type:   typ,
			Flags:  flags,
			Addr:   ctx.VAddr[name],
			Offset: fileOff,
			Size:   ctx.TotalSize[name],
		})
		fileOff += ctx.TotalSize[name]
	}
}

// SetEntry resolves the configured entry symbol for executables.
func SetEntry(ctx *Context) error {
	rsym, ok := ctx.SymbolMap[ctx.Options.EntryPoint]
	if !ok {
		return &UndefinedEntryError{Name: ctx.Options.EntryPoint}
	}
	ctx.Out.Entry = rsym.Addr
	return nil
}
