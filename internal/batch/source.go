package batch

// SourceKind tags how a subtitle file becomes an output file.
type SourceKind int

const (
	// ParsedSource reads, decodes, parses and transforms the file.
	ParsedSource SourceKind = iota
	// RawSource copies the file bytes verbatim.
	RawSource
)

func (k SourceKind) String() string {
	if k == RawSource {
		return "raw"
	}
	return "parsed"
}

// Source is a subtitle file together with its processing mode.
type Source struct {
	Kind SourceKind
	Path string
}

func sourceFor(path string, transform bool) Source {
	if transform {
		return Source{Kind: ParsedSource, Path: path}
	}
	return Source{Kind: RawSource, Path: path}
}
