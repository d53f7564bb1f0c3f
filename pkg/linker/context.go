package linker

// Options configures a single link.
type Options struct {
	OutputFile string
	Shared     bool
	EntryPoint string
}

type inputSectionKey struct {
	Obj string
	Sec string
}

// outputRef locates a merged input section inside its output section.
type outputRef struct {
	Name   string
	Offset uint64
}

// Context carries the state of one link through the passes.
type Context struct {
	Options Options

	Objs       []*Object // selected static objects, in pull order
	SharedLibs []*Object

	DefinedStatic map[string]bool
	SharedDefined map[string]bool

	GotOrder  []string
	PltOrder  []string
	GotOffset map[string]uint64
	PltOffset map[string]uint64

	TotalSize map[string]uint64
	VAddr     map[string]uint64
	writeOff  map[string]uint64
	outSecs   map[string]*Section
	SecMap    map[inputSectionKey]outputRef

	SymbolMap map[string]ResolvedSymbol

	Out *Object
}

func NewContext(opts Options) *Context {
	if opts.OutputFile == "" {
		if opts.Shared {
			opts.OutputFile = "lib.so"
		} else {
			opts.OutputFile = "a.out"
		}
	}
	if opts.EntryPoint == "" {
		opts.EntryPoint = "_start"
	}
	return &Context{
		Options:       opts,
		DefinedStatic: make(map[string]bool),
		SharedDefined: make(map[string]bool),
		GotOffset:     make(map[string]uint64),
		PltOffset:     make(map[string]uint64),
		TotalSize:     make(map[string]uint64),
		VAddr:         make(map[string]uint64),
		writeOff:      make(map[string]uint64),
		outSecs:       make(map[string]*Section),
		SecMap:        make(map[inputSectionKey]outputRef),
		SymbolMap:     make(map[string]ResolvedSymbol),
	}
}
