package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"pcrelint/internal/diag"
	"pcrelint/internal/source"
)

// Short writes one line per diagnostic, sorted by path and position.
// Run-level diagnostics follow without a location.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, includeNotes bool) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	var located, runLevel []diag.Diagnostic
	for _, d := range bag.Items() {
		if anchored(d) {
			located = append(located, d)
		} else {
			runLevel = append(runLevel, d)
		}
	}

	var b strings.Builder
	if out := diag.FormatShortDiagnostics(located, fs, includeNotes); out != "" {
		b.WriteString(out)
		b.WriteByte('\n')
	}
	for _, d := range runLevel {
		fmt.Fprintf(&b, "%s %s %s\n", diag.SeverityLabel(d.Severity), d.Code.ID(), d.Message)
		for _, n := range d.Notes {
			fmt.Fprintf(&b, "note %s %s\n", d.Code.ID(), n.Msg)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
