package linker

import (
	"strings"

	"fleld/pkg/utils"
)

const (
	// LoadBase is where the image begins. The first page belongs to
	// the file headers, so the first section lands one page above.
	LoadBase = 0x400000
	PageSize = 0x1000
)

// OutputSections is the fixed order of the merge buckets, which is
// also the address-assignment and section-header order.
var OutputSections = []string{".text", ".plt", ".rodata", ".data", ".got", ".bss"}

// classifyOutputSection maps an input section name to its merge
// bucket by prefix. Unclassified sections (.comment, debug info, ...)
// are dropped.
func classifyOutputSection(name string) (string, bool) {
	for _, out := range OutputSections {
		if strings.HasPrefix(name, out) {
			return out, true
		}
	}
	return "", false
}

// ComputeSectionSizes accumulates the layout size of every
// classified input section into its bucket, then reserves room for
// the planned GOT slots and, for executables, the PLT stubs.
func ComputeSectionSizes(ctx *Context) {
	for _, name := range OutputSections {
		ctx.TotalSize[name] = 0
	}
	for _, obj := range ctx.Objs {
		for _, secName := range obj.Sections.Names() {
			target, ok := classifyOutputSection(secName)
			if !ok {
				continue
			}
			ctx.TotalSize[target] += obj.SectionSize(secName)
		}
	}

	ctx.TotalSize[".got"] += uint64(len(ctx.GotOrder)) * GotEntrySize
	if !ctx.Options.Shared {
		ctx.TotalSize[".plt"] += uint64(len(ctx.PltOrder)) * PltStubSize
	}
}

// AssignAddresses walks the buckets in fixed order, page-aligning
// the cursor before recording each virtual base.
func AssignAddresses(ctx *Context) {
	addr := uint64(LoadBase) + PageSize
	for _, name := range OutputSections {
		addr = utils.AlignTo(addr, PageSize)
		ctx.VAddr[name] = addr
		addr += ctx.TotalSize[name]
	}
}

// MergeSections concatenates input bytes into the output buckets in
// encounter order and records where every input section landed.
// .bss input contributes size but never bytes. The write offset
// advances by the layout size, which may exceed the data length.
func MergeSections(ctx *Context) {
	for _, name := range OutputSections {
		ctx.outSecs[name] = &Section{}
		ctx.writeOff[name] = 0
	}
	for _, obj := range ctx.Objs {
		for _, secName := range obj.Sections.Names() {
			target, ok := classifyOutputSection(secName)
			if !ok {
				continue
			}
			ctx.SecMap[inputSectionKey{obj.Name, secName}] = outputRef{target, ctx.writeOff[target]}
			if target != ".bss" {
				out := ctx.outSecs[target]
				out.Data = append(out.Data, obj.Sections.Get(secName).Data...)
			}
			ctx.writeOff[target] += obj.SectionSize(secName)
		}
	}
}

// installOutputSections moves the merged buckets onto the output
// object. Empty buckets are dropped; .bss stays even when empty.
func installOutputSections(ctx *Context) {
	for _, name := range OutputSections {
		sec := ctx.outSecs[name]
		if len(sec.Data) == 0 && name != ".bss" {
			continue
		}
		ctx.Out.Sections.Put(name, sec)
	}
}
