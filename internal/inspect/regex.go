package inspect

import (
	"context"
	"strings"

	"pcrelint/internal/ast"
	"pcrelint/internal/diag"
	"pcrelint/internal/pcre"
	"pcrelint/internal/sema"
)

// RegexInspector lints the pattern argument of preg_* calls.
type RegexInspector struct {
	Base
	res *sema.Resolver
	r   diag.Reporter
}

func NewRegexInspector(res *sema.Resolver, r diag.Reporter) *RegexInspector {
	return &RegexInspector{res: res, r: r}
}

func (ri *RegexInspector) VisitCall(ctx context.Context, call *ast.Call) error {
	if call.Name == "" || !pcre.IsPatternFunction(call.Name) {
		return nil
	}
	if s, ok := ri.r.(diag.SiteReporter); ok {
		s.Site(call.Span)
	}
	args := make([]string, 0, len(call.Args))
	for _, a := range call.Args {
		if a.Spread || a.Name != "" {
			// positional shape unknown
			return nil
		}
		args = append(args, ri.res.Text(ast.SpanOf(a.Value)))
	}
	pc := pcre.NewCall(call.Name, args, call.Span)
	if len(call.Args) == 0 {
		return nil
	}

	lit, ok, err := ri.res.ResolveAsStringLiteral(ctx, call.Args[0].Value)
	if err != nil {
		return err
	}
	if !ok || lit.File != ri.res.File() {
		return nil
	}
	text := patternText(lit.Node)
	if text == "" {
		return nil
	}
	if strings.IndexByte(text, '$') >= 0 && lit.Node.HasInterpolation() {
		return nil
	}
	p, ok := pcre.Extract(text)
	if !ok {
		return nil
	}
	// the first argument of preg_quote is a subject, not a pattern
	if pc.Function == "preg_quote" {
		pcre.CheckFunctionCall(pc, ri.r)
		return nil
	}
	ri.check(pc, p, lit.Node)
	return nil
}

const lineBreaks = "\n\r\u0085\u2028\u2029"

// escapedBreaks spells line breaks produced by string escapes the way a
// pattern writes them.
var escapedBreaks = strings.NewReplacer(
	"\n", `\n`, "\r", `\r`, "\u0085", `\x{85}`, "\u2028", `\x{2028}`, "\u2029", `\x{2029}`)

// patternText is the literal's value as the delimiter grammars see it. Only
// breaks written literally in the source end the pattern line; escaped ones
// stay regex escapes.
func patternText(lit *ast.StringLit) string {
	if strings.ContainsAny(lit.Raw, lineBreaks) {
		return lit.Value
	}
	return escapedBreaks.Replace(lit.Value)
}

func (ri *RegexInspector) check(call pcre.Call, p pcre.Pattern, target *ast.StringLit) {
	at, mods, body := target.Span, p.Modifiers, p.Body

	pcre.CheckDeprecatedModifiers(mods, at, ri.r)
	pcre.CheckAllowedModifiers(mods, at, ri.r)
	pcre.CheckUselessDollarEndOnly(mods, body, at, ri.r)
	pcre.CheckUselessDotAll(mods, body, at, ri.r)
	pcre.CheckUselessIgnoreCase(mods, body, at, ri.r)

	pcre.CheckFunctionCall(call, ri.r)
	pcre.CheckPlainAPI(call, mods, body, ri.r)

	pcre.CheckShortClasses(mods, body, at, ri.r)

	pcre.CheckSequentialClasses(mods, body, at, ri.r)
	pcre.CheckAmbiguousAnything(call, mods, body, at, ri.r)

	pcre.CheckMissingDotAll(mods, body, at, ri.r)
}
