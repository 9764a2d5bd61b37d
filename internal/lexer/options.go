package lexer

import (
	"pcrelint/internal/diag"
	"pcrelint/internal/source"
)

type Options struct {
	Reporter diag.Reporter // nil means diagnostics are dropped; lexing continues either way
	// StartInPHP skips the inline HTML state, for snippets without "<?php".
	StartInPHP bool
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter == nil {
		return
	}
	diag.ReportError(lx.opts.Reporter, code, sp, msg).Emit()
}
