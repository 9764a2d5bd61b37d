package diag

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"pcrelint/internal/source"
)

type goldenDiagnostic struct {
	Severity string
	Code     string
	Path     string
	Line     uint32
	Column   uint32
	Message  string
}

// FormatGoldenDiagnostics renders diagnostics into a stable, single-line-per-entry
// representation suitable for golden files. Entries under vendor/ are dropped,
// the rest are sorted deterministically and joined with newlines.
func FormatGoldenDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	return formatDiagnostics(diags, fs, includeNotes, true)
}

// FormatShortDiagnostics renders diagnostics into the same single-line form
// for CLI short output. Vendor paths are kept.
func FormatShortDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	return formatDiagnostics(diags, fs, includeNotes, false)
}

func formatDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes, skipVendor bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}

	rendered := make([]goldenDiagnostic, 0, len(diags))
	for i := range diags {
		rendered = appendDiagnostic(rendered, &diags[i], fs, includeNotes, skipVendor)
	}

	slices.SortStableFunc(rendered, func(a, b goldenDiagnostic) int {
		return cmp.Or(
			cmp.Compare(a.Path, b.Path),
			cmp.Compare(a.Line, b.Line),
			cmp.Compare(a.Column, b.Column),
			cmp.Compare(a.Severity, b.Severity),
			cmp.Compare(a.Code, b.Code),
			cmp.Compare(a.Message, b.Message),
		)
	})

	var b strings.Builder
	for i, d := range rendered {
		fmt.Fprintf(&b, "%s %s %s:%d:%d %s", d.Severity, d.Code, d.Path, d.Line, d.Column, d.Message)
		if i < len(rendered)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func appendDiagnostic(out []goldenDiagnostic, d *Diagnostic, fs *source.FileSet, includeNotes, skipVendor bool) []goldenDiagnostic {
	loc, ok := resolveSpan(fs, d.Primary)
	if ok && (!skipVendor || !shouldSkipPath(loc.Path)) {
		out = append(out, goldenDiagnostic{
			Severity: SeverityLabel(d.Severity),
			Code:     d.Code.ID(),
			Path:     loc.Path,
			Line:     loc.Line,
			Column:   loc.Column,
			Message:  sanitizeMessage(d.Message),
		})
	}

	if includeNotes {
		for _, note := range d.Notes {
			nloc, nok := resolveSpan(fs, note.Span)
			if !nok || (skipVendor && shouldSkipPath(nloc.Path)) {
				continue
			}
			out = append(out, goldenDiagnostic{
				Severity: "note",
				Code:     d.Code.ID(),
				Path:     nloc.Path,
				Line:     nloc.Line,
				Column:   nloc.Column,
				Message:  sanitizeMessage(note.Msg),
			})
		}
	}

	return out
}

type resolvedSpan struct {
	Path   string
	Line   uint32
	Column uint32
}

func resolveSpan(fs *source.FileSet, span source.Span) (loc resolvedSpan, ok bool) {
	if int(span.File) >= fs.Len() {
		return resolvedSpan{}, false
	}
	file := fs.Get(span.File)
	start, _ := fs.Resolve(span)
	return resolvedSpan{
		Path:   normalizePath(file.FormatPath("relative", fs.BaseDir())),
		Line:   start.Line,
		Column: start.Col,
	}, true
}

func normalizePath(path string) string {
	p := filepath.ToSlash(path)
	for {
		rest, ok := strings.CutPrefix(p, "./")
		if !ok {
			return p
		}
		p = rest
	}
}

// shouldSkipPath reports paths inside a Composer vendor directory.
func shouldSkipPath(path string) bool {
	return slices.Contains(strings.Split(normalizePath(path), "/"), "vendor")
}

// SeverityLabel is the lower-case severity name used in line-oriented output.
func SeverityLabel(sev Severity) string {
	switch sev {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	default:
		return "weak"
	}
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// sanitizeMessage keeps each entry on one line.
func sanitizeMessage(msg string) string {
	return strings.TrimSpace(lineBreaks.Replace(msg))
}
