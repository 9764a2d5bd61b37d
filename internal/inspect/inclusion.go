package inspect

import (
	"context"

	"pcrelint/internal/ast"
	"pcrelint/internal/diag"
	"pcrelint/internal/sema"
)

const untrustedInclusionMsg = "This relies on include_path and not guaranteed to load the right file. " +
	"Concatenate with __DIR__ or use namespaces + class loading instead."

// InclusionInspector reports include/require of a bare string path.
type InclusionInspector struct {
	Base
	res *sema.Resolver
	r   diag.Reporter
}

func NewInclusionInspector(res *sema.Resolver, r diag.Reporter) *InclusionInspector {
	return &InclusionInspector{res: res, r: r}
}

func (ii *InclusionInspector) VisitInclude(ctx context.Context, inc *ast.Include) error {
	if inc.Arg == nil {
		return nil
	}
	_, ok, err := ii.res.ResolveAsStringLiteral(ctx, inc.Arg)
	if err != nil {
		return err
	}
	if ok {
		diag.ReportError(ii.r, diag.SecUntrustedInclusion, inc.Span, untrustedInclusionMsg).Emit()
	}
	return nil
}
