package diag

import "pcrelint/internal/source"

// New builds a diagnostic without notes.
func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{Severity: sev, Code: code, Primary: primary, Message: msg}
}

// WithNote returns a copy of d with a note appended.
func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(append([]Note(nil), d.Notes...), Note{Span: sp, Msg: msg})
	return d
}
