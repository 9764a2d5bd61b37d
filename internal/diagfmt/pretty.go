package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"fortio.org/safecast"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"pcrelint/internal/diag"
	"pcrelint/internal/source"
)

const tabWidth = 4

type palette struct {
	err, warn, weak, note, code, gutter, caret *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		weak:   color.New(color.FgCyan),
		note:   color.New(color.FgBlue, color.Bold),
		code:   color.New(color.Faint),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.weak, p.note, p.code, p.gutter, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.weak
}

// Pretty formats diagnostics for humans, in bag order (call bag.Sort first).
// For each diagnostic it prints
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//
// then the source line with a ^~~~ underline for the span, then notes in
// the same form.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	p := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, d, fs, opts, p)
	}
}

func prettyOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	file := lookup(fs, d.Primary)
	if !anchored(d) {
		file = nil
	}
	head := p.severity(d.Severity).Sprint(d.Severity.String()) + " " + p.code.Sprint(d.Code.ID()) + ": " + d.Message
	if file == nil {
		fmt.Fprintln(w, head)
	} else {
		start, _ := fs.Resolve(d.Primary)
		fmt.Fprintf(w, "%s:%d:%d: %s\n", formatPath(file, fs, opts.PathMode), start.Line, start.Col, head)
		snippet(w, fs, file, d.Primary, opts, p)
	}

	if !opts.ShowNotes && d.Code != diag.ObsTimings {
		return
	}
	for _, n := range d.Notes {
		nf := lookup(fs, n.Span)
		if nf == nil || !anchored(d) {
			fmt.Fprintf(w, "  %s %s\n", p.note.Sprint("note:"), n.Msg)
			continue
		}
		start, _ := fs.Resolve(n.Span)
		fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", p.note.Sprint("note:"),
			formatPath(nf, fs, opts.PathMode), start.Line, start.Col, n.Msg)
	}
}

// snippet prints the context lines around span and underlines the part of
// the first line the span covers.
func snippet(w io.Writer, fs *source.FileSet, file *source.File, span source.Span, opts PrettyOpts, p palette) {
	start, end := fs.Resolve(span)
	ctx := uint32(max(opts.Context, 0))
	first := uint32(1)
	if start.Line > ctx {
		first = start.Line - ctx
	}
	last := start.Line + ctx
	if total, err := safecast.Conv[uint32](len(file.LineIdx) + 1); err == nil {
		last = max(min(last, total), start.Line)
	}
	numWidth := len(strconv.FormatUint(uint64(last), 10))

	for ln := first; ln <= last; ln++ {
		line := file.GetLine(ln)
		shown := expandTabs(line)
		if opts.Width > 0 {
			shown = runewidth.Truncate(shown, int(opts.Width), "…")
		}
		fmt.Fprintf(w, " %s %s %s\n", p.gutter.Sprintf("%*d", numWidth, ln), p.gutter.Sprint("|"), shown)
		if ln != start.Line {
			continue
		}

		from := int(start.Col) - 1
		to := len(line)
		if end.Line == start.Line && int(end.Col)-1 > from {
			to = int(end.Col) - 1
		}
		from = min(from, len(line))
		to = min(max(to, from), len(line))
		pad := runewidth.StringWidth(expandTabs(line[:from]))
		width := max(runewidth.StringWidth(expandTabs(line[from:to])), 1)
		if opts.Width > 0 {
			if pad >= int(opts.Width) {
				continue
			}
			width = min(width, int(opts.Width)-pad)
		}
		marker := "^" + strings.Repeat("~", width-1)
		fmt.Fprintf(w, " %s %s %s%s\n", strings.Repeat(" ", numWidth), p.gutter.Sprint("|"),
			strings.Repeat(" ", pad), p.caret.Sprint(marker))
	}
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(r)
		col += runewidth.RuneWidth(r)
	}
	return b.String()
}

// anchored reports whether d points into a file. Run-level diagnostics carry
// a zero span.
func anchored(d diag.Diagnostic) bool {
	return d.Code != diag.ObsTimings
}
