package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"pcrelint/internal/source"
	"pcrelint/internal/token"
)

type TokenOutput struct {
	Kind    string      `json:"kind"`
	Text    string      `json:"text,omitempty"`
	Span    source.Span `json:"span"`
	Leading []string    `json:"leading,omitempty"`
}

func leadingKinds(tok token.Token) []string {
	if len(tok.Leading) == 0 {
		return nil
	}
	out := make([]string, len(tok.Leading))
	for i, tr := range tok.Leading {
		out[i] = tr.Kind.String()
	}
	return out
}

// FormatTokensPretty prints one token per line with its position and
// leading trivia. Output stops at EOF.
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, tok := range tokens {
		startPos, endPos := fs.Resolve(tok.Span)

		var b strings.Builder
		fmt.Fprintf(&b, "%3d: %-15s", i+1, tok.Kind.String())
		if tok.Text != "" {
			fmt.Fprintf(&b, " %q", tok.Text)
		}
		fmt.Fprintf(&b, " at %d:%d-%d:%d", startPos.Line, startPos.Col, endPos.Line, endPos.Col)
		if leading := leadingKinds(tok); len(leading) > 0 {
			fmt.Fprintf(&b, " (leading: %s)", strings.Join(leading, ", "))
		}
		b.WriteByte('\n')
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}

		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// FormatTokensJSON writes the tokens as an indented JSON array.
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		output = append(output, TokenOutput{
			Kind:    tok.Kind.String(),
			Text:    tok.Text,
			Span:    tok.Span,
			Leading: leadingKinds(tok),
		})
		if tok.Kind == token.EOF {
			break
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
