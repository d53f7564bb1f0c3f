package linker

import "fmt"

// SelectArchiveMembers partitions the inputs into static objects,
// archives and shared libraries, then pulls archive members until
// no name is left undefined or a full pass pulls no new member.
// Archives are scanned in
// input order and members in their declared order, so the selection
// is reproducible. Shared libraries are never selected.
func SelectArchiveMembers(objects []*Object) []*Object {
	var selected []*Object
	var archives []*Object
	for _, obj := range objects {
		switch obj.Type {
		case ObjectTypeArchive:
			archives = append(archives, obj)
		case ObjectTypeShared:
		default:
			selected = append(selected, obj)
		}
	}

	pulled := make(map[string]bool)
	for changed := true; changed; {
		changed = false

		defined, undefined := collectDefinedUndefined(selected)
		for name := range defined {
			delete(undefined, name)
		}
		if len(undefined) == 0 {
			break
		}

		for _, archive := range archives {
			for i, member := range archive.Members {
				id := fmt.Sprintf("%s::%s#%d", archive.Name, member.Name, i)
				if pulled[id] {
					continue
				}
				if !providesAny(member, undefined) {
					continue
				}
				selected = append(selected, member)
				pulled[id] = true
				changed = true
			}
		}
	}

	return selected
}

func collectDefinedUndefined(objs []*Object) (defined, undefined map[string]bool) {
	defined = make(map[string]bool)
	undefined = make(map[string]bool)
	for _, obj := range objs {
		for i := range obj.Symbols {
			sym := &obj.Symbols[i]
			if sym.Kind == SymbolLocal {
				continue
			}
			if sym.IsDefined() {
				defined[sym.Name] = true
			} else {
				undefined[sym.Name] = true
			}
		}
	}
	return
}

// A member provides a name when it defines it as non-local in a
// real section.
func providesAny(obj *Object, undefined map[string]bool) bool {
	for i := range obj.Symbols {
		sym := &obj.Symbols[i]
		if sym.Kind == SymbolLocal || !sym.IsDefined() {
			continue
		}
		if undefined[sym.Name] {
			return true
		}
	}
	return false
}
