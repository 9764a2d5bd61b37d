package diagfmt

import (
	"encoding/json"
	"io"

	"pcrelint/internal/diag"
	"pcrelint/internal/source"
)

// LocationJSON is a source location. File is empty for run-level
// diagnostics.
type LocationJSON struct {
	File      string `json:"file,omitempty"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

// NoteJSON is a secondary message attached to a diagnostic.
type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// DiagnosticJSON is one diagnostic in JSON output. Rule is the title of
// Code.
type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Rule     string       `json:"rule"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
}

// SummaryJSON counts findings by severity over the whole bag, including
// entries cut by JSONOpts.Max. The timings report is not a finding.
type SummaryJSON struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Weak     int `json:"weak"`
}

// DiagnosticsOutput is the root of JSON output.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
	Truncated   bool             `json:"truncated,omitempty"`
	Summary     SummaryJSON      `json:"summary"`
}

type jsonWriter struct {
	fs   *source.FileSet
	opts JSONOpts
}

func (jw jsonWriter) location(span source.Span) LocationJSON {
	f := lookup(jw.fs, span)
	if f == nil {
		return LocationJSON{}
	}
	loc := LocationJSON{
		File:      formatPath(f, jw.fs, jw.opts.PathMode),
		StartByte: span.Start,
		EndByte:   span.End,
	}
	if jw.opts.IncludePositions {
		start, end := jw.fs.Resolve(span)
		loc.StartLine, loc.StartCol = start.Line, start.Col
		loc.EndLine, loc.EndCol = end.Line, end.Col
	}
	return loc
}

func (jw jsonWriter) diagnostic(d diag.Diagnostic) DiagnosticJSON {
	out := DiagnosticJSON{
		Severity: d.Severity.String(),
		Code:     d.Code.ID(),
		Rule:     d.Code.Title(),
		Message:  d.Message,
	}
	if anchored(d) {
		out.Location = jw.location(d.Primary)
	}
	if len(d.Notes) == 0 || (!jw.opts.IncludeNotes && anchored(d)) {
		return out
	}
	out.Notes = make([]NoteJSON, len(d.Notes))
	for i, n := range d.Notes {
		out.Notes[i] = NoteJSON{Message: n.Msg}
		if anchored(d) {
			out.Notes[i].Location = jw.location(n.Span)
		}
	}
	return out
}

// BuildDiagnosticsOutput builds the JSON output tree without serialising it.
func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) (DiagnosticsOutput, error) {
	jw := jsonWriter{fs: fs, opts: opts}
	items := bag.Items()
	shown := items
	if opts.Max > 0 && opts.Max < len(items) {
		shown = items[:opts.Max]
	}

	output := DiagnosticsOutput{
		Diagnostics: make([]DiagnosticJSON, 0, len(shown)),
		Truncated:   len(shown) < len(items),
	}
	for _, d := range shown {
		output.Diagnostics = append(output.Diagnostics, jw.diagnostic(d))
	}
	output.Count = len(output.Diagnostics)

	for _, d := range items {
		if !anchored(d) {
			continue
		}
		switch d.Severity {
		case diag.SevError:
			output.Summary.Errors++
		case diag.SevWarning:
			output.Summary.Warnings++
		default:
			output.Summary.Weak++
		}
	}
	return output, nil
}

// JSON writes diagnostics as an indented JSON document.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	output, err := BuildDiagnosticsOutput(bag, fs, opts)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
