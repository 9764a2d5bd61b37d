package pcre

import (
	"fmt"
	"strings"

	"pcrelint/internal/diag"
	"pcrelint/internal/source"
)

// AllowedModifiers is the modifier alphabet PHP accepts.
const AllowedModifiers = "eimsuxADJSUX"

// CheckDeprecatedModifiers reports the 'e' modifier once per pattern.
func CheckDeprecatedModifiers(mods Modifiers, at source.Span, r diag.Reporter) {
	if !mods.Has('e') {
		return
	}
	diag.ReportWarning(r, diag.RgxDeprecatedModifier, at,
		"'e' modifier is deprecated since PHP 5.5, use preg_replace_callback() instead.").Emit()
}

// CheckAllowedModifiers reports every modifier outside the alphabet, once
// per occurrence.
func CheckAllowedModifiers(mods Modifiers, at source.Span, r diag.Reporter) {
	for i := 0; i < len(mods); i++ {
		c := mods[i]
		if strings.IndexByte(AllowedModifiers, c) >= 0 {
			continue
		}
		diag.ReportError(r, diag.RgxUnknownModifier, at, fmt.Sprintf("Unknown modifier '%c'.", c)).Emit()
	}
}
