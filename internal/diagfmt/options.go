package diagfmt

import "pcrelint/internal/source"

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto chooses relative or absolute path automatically.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color bool
	// Context is the number of source lines shown around the primary line.
	Context   int8
	PathMode  PathMode
	Width     uint8 // maximum source line width, 0 means unlimited
	ShowNotes bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // add line/col
	PathMode         PathMode
	Max              int // truncates the output, not the Bag
	IncludeNotes     bool
}

// SarifRunMeta provides metadata for SARIF output.
type SarifRunMeta struct {
	ToolName       string
	ToolVersion    string
	InformationURI string
	InvocationArgs []string
}

func formatPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		return f.FormatPath("basename", "")
	case PathModeAuto:
		return f.FormatPath("auto", "")
	}
	return f.Path
}

// lookup returns the file a span points into, or nil when the span is not
// anchored in fs.
func lookup(fs *source.FileSet, span source.Span) *source.File {
	if fs == nil || int(span.File) >= fs.Len() {
		return nil
	}
	return fs.Get(span.File)
}
